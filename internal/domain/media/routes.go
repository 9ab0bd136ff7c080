package media

import "github.com/gin-gonic/gin"

// RegisterRoutes registers media routes under the session-protected group.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/upload", h.Upload)

	r.GET("/media", h.List)
	r.GET("/media/reconcile", h.Reconcile)
	r.GET("/media/:id", h.Get)
	r.DELETE("/media/:id", h.Delete)
	r.POST("/media/:id/delete", h.Delete)
}
