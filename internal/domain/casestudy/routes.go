package casestudy

import "github.com/gin-gonic/gin"

// RegisterRoutes registers case study routes under the session-protected group.
// The :id segment of GET also accepts a slug.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	g := r.Group("/case-studies")
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)

	// form posts used by the console pages
	g.POST("/:id/edit", h.Update)
	g.POST("/:id/delete", h.Delete)
}
