package sse

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cookbook-app/cookbook-backend/internal/state"
	"github.com/cookbook-app/cookbook-backend/internal/subscriptions"
)

const (
	ScreenHeader      = "X-Screen-Id"
	KeepAliveInterval = 15 * time.Second
)

// Registry hands out exclusive per-screen leases.
type Registry interface {
	Acquire(ctx context.Context, uid, screen string) (*subscriptions.Lease, error)
}

// ScreenID names the screen instance a feed belongs to: the X-Screen-Id
// header, then the screen query parameter, then fallback.
func ScreenID(c *gin.Context, fallback string) string {
	if v := strings.TrimSpace(c.GetHeader(ScreenHeader)); v != "" {
		return v
	}
	if v := strings.TrimSpace(c.Query("screen")); v != "" {
		return v
	}
	return fallback
}

// Live takes the screen lease for uid, opens the feed under the lease
// context and streams it. A nil registry streams without exclusivity.
func Live[T any](c *gin.Context, reg Registry, uid, screen string, open func(ctx context.Context) <-chan state.Result[T]) {
	ctx := c.Request.Context()

	if reg != nil {
		lease, err := reg.Acquire(ctx, uid, screen)
		if err != nil {
			slog.ErrorContext(ctx, "acquire feed lease", "uid", uid, "screen", screen, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to open feed"})
			return
		}
		defer lease.Release()
		ctx = lease.Context()
	}

	holder := state.NewHolder[T]()
	updates := holder.Subscribe(ctx)

	feed := open(ctx)
	go func() {
		holder.Pipe(feed)
		holder.Close()
	}()

	Serve(ctx, c, updates)
}

// Serve writes every state from updates as an SSE "state" event until
// updates closes or ctx ends. When ctx ends while the client is still
// connected a final "superseded" event is sent.
func Serve[T any](ctx context.Context, c *gin.Context, updates <-chan state.Result[T]) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no") // nginx: disable buffering

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "streaming unsupported"})
		return
	}
	c.Status(http.StatusOK)
	flusher.Flush()

	ticker := time.NewTicker(KeepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			superseded(ctx, c, flusher)
			return

		case <-ticker.C:
			fmt.Fprint(c.Writer, ": keep-alive\n\n")
			flusher.Flush()

		case res, open := <-updates:
			if !open {
				superseded(ctx, c, flusher)
				return
			}
			data, err := json.Marshal(res)
			if err != nil {
				slog.ErrorContext(ctx, "encode feed state", "error", err)
				return
			}
			fmt.Fprintf(c.Writer, "event: state\ndata: %s\n\n", data)
			flusher.Flush()
		}
	}
}

// superseded tells a still-connected client that its feed was taken over.
func superseded(ctx context.Context, c *gin.Context, flusher http.Flusher) {
	if ctx.Err() == nil || c.Request.Context().Err() != nil {
		return
	}
	fmt.Fprint(c.Writer, "event: superseded\ndata: {}\n\n")
	flusher.Flush()
}
