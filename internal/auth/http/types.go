package http

import (
	"github.com/cookbook-app/cookbook-backend/internal/auth/domain"
	"github.com/cookbook-app/cookbook-backend/internal/auth/service"
	userdomain "github.com/cookbook-app/cookbook-backend/internal/users/domain"
)

type Handler struct {
	authService *service.AuthService
}

func New(authService *service.AuthService) *Handler {
	return &Handler{
		authService: authService,
	}
}

type meResponse struct {
	Identity domain.Identity  `json:"identity"`
	User     *userdomain.User `json:"user"`
}
