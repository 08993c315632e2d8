package routes

import (
	"github.com/gin-gonic/gin"

	authhttp "github.com/cookbook-app/cookbook-backend/internal/auth/http"
	recipehttp "github.com/cookbook-app/cookbook-backend/internal/recipes/http"
	userhttp "github.com/cookbook-app/cookbook-backend/internal/users/http"
)

type V1Deps struct {
	Auth           *authhttp.Handler
	Users          *userhttp.Handler
	Recipes        *recipehttp.Handler
	AuthMiddleware gin.HandlerFunc
}

func RegisterV1(r *gin.Engine, dep V1Deps) {
	api := r.Group("/api/v1")

	dep.Auth.RegisterPublic(api.Group("/auth"))

	protected := api.Group("")
	protected.Use(dep.AuthMiddleware)

	dep.Auth.Register(protected.Group("/auth"))
	dep.Users.Register(protected.Group("/users"))
	dep.Recipes.Register(protected.Group("/recipes"))
}
