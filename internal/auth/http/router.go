package http

import "github.com/gin-gonic/gin"

// RegisterPublic mounts the endpoints reachable without a token.
func (h *Handler) RegisterPublic(rg *gin.RouterGroup) {
	rg.POST("/signup", h.SignUp)
	rg.POST("/signin", h.SignIn)
	rg.POST("/password-reset", h.SendPasswordReset)
}

// Register mounts the endpoints that need FirebaseAuthMiddleware.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/signout", h.SignOut)
	rg.GET("/me", h.Me)
}
