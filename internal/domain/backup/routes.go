package backup

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/backup", h.Create)
	r.GET("/backups", h.List)
	r.POST("/export", h.Export)
}
