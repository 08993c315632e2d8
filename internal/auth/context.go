package auth

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cookbook-app/cookbook-backend/internal/auth/domain"
)

const (
	CtxFirebaseUID = "firebase_uid"
	CtxEmail       = "email"
)

// UserFirebaseUID extracts the Firebase UID from the Gin context
// This is set by FirebaseAuthMiddleware
func UserFirebaseUID(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxFirebaseUID))
}

// CurrentIdentity returns the caller set by FirebaseAuthMiddleware.
func CurrentIdentity(c *gin.Context) (domain.Identity, bool) {
	uid := UserFirebaseUID(c)
	if uid == "" {
		return domain.Identity{}, false
	}
	return domain.Identity{UID: uid, Email: c.GetString(CtxEmail)}, true
}
