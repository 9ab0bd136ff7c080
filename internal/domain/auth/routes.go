package auth

import "github.com/gin-gonic/gin"

// RegisterPublicRoutes registers the routes reachable without a session.
func (h *Handler) RegisterPublicRoutes(api *gin.RouterGroup) {
	api.POST("/login", h.Login)
	api.POST("/logout", h.Logout)
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	protected.GET("/me", h.GetMe)
	protected.POST("/change-password", h.ChangePassword)
}
