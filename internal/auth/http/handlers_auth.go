package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"google.golang.org/api/googleapi"

	"github.com/cookbook-app/cookbook-backend/internal/auth"
	"github.com/cookbook-app/cookbook-backend/internal/auth/domain"
	"github.com/cookbook-app/cookbook-backend/internal/state"
)

// SignUp creates an account and its profile, returning a session
func (h *Handler) SignUp(c *gin.Context) {
	var req domain.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	res := state.Do(c.Request.Context(), func(ctx context.Context) (*domain.Session, error) {
		return h.authService.SignUp(ctx, req)
	})
	writeResult(c, http.StatusCreated, res)
}

// SignIn exchanges email and password for a session
func (h *Handler) SignIn(c *gin.Context) {
	var req domain.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	res := state.Do(c.Request.Context(), func(ctx context.Context) (*domain.Session, error) {
		return h.authService.SignIn(ctx, req)
	})
	writeResult(c, http.StatusOK, res)
}

// SendPasswordReset emails a reset link
func (h *Handler) SendPasswordReset(c *gin.Context) {
	var req domain.PasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	res := state.Do(c.Request.Context(), func(ctx context.Context) (bool, error) {
		return true, h.authService.SendPasswordReset(ctx, req)
	})
	writeResult(c, http.StatusOK, res)
}

// SignOut revokes the caller's refresh tokens
func (h *Handler) SignOut(c *gin.Context) {
	uid := auth.UserFirebaseUID(c)
	res := state.Do(c.Request.Context(), func(ctx context.Context) (bool, error) {
		return true, h.authService.SignOut(ctx, uid)
	})
	writeResult(c, http.StatusOK, res)
}

// Me returns the current identity with its profile
func (h *Handler) Me(c *gin.Context) {
	id, ok := auth.CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	res := state.Do(c.Request.Context(), func(ctx context.Context) (meResponse, error) {
		user, err := h.authService.Me(ctx, id)
		if err != nil {
			slog.ErrorContext(ctx, "load current user", "uid", id.UID, "error", err)
			return meResponse{}, err
		}
		return meResponse{Identity: id, User: user}, nil
	})
	writeResult(c, http.StatusOK, res)
}

func writeResult[T any](c *gin.Context, okStatus int, res state.Result[T]) {
	if res.Status == state.StatusSuccess {
		c.JSON(okStatus, res)
		return
	}
	c.JSON(statusFor(res.Err), res)
}

func statusFor(err error) int {
	switch {
	case domain.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}

	// identity toolkit rejections (bad password, email taken) are 4xx
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code >= 400 && gerr.Code < 500 {
		return gerr.Code
	}
	return http.StatusInternalServerError
}
