// Package firestoretest connects tests to the Firestore emulator.
package firestoretest

import (
	"context"
	"os"
	"testing"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// EmulatorHostEnv is read by the Firestore client itself.
const EmulatorHostEnv = "FIRESTORE_EMULATOR_HOST"

// NewClient returns a client for a fresh project on the emulator, so tests do
// not see each other's documents. The test is skipped when no emulator is
// configured.
func NewClient(t *testing.T) *firestore.Client {
	t.Helper()
	if os.Getenv(EmulatorHostEnv) == "" {
		t.Skip(EmulatorHostEnv + " not set, skipping Firestore emulator test")
	}

	client, err := firestore.NewClient(context.Background(), "cookbook-test-"+uuid.NewString()[:8])
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}
