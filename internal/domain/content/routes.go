package content

import "github.com/gin-gonic/gin"

// RegisterRoutes registers content routes under the session-protected group.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/content/:page", h.GetPage)
	r.PUT("/content/:page/:section/:key", h.SetValue)

	r.GET("/homepage", h.GetHomepage)
	r.PUT("/homepage", h.SaveHomepage)
	r.GET("/portfolio", h.GetPortfolio)
	r.PUT("/portfolio", h.SavePortfolio)

	// form posts used by the console pages
	r.POST("/homepage", h.SaveHomepage)
	r.POST("/portfolio", h.SavePortfolio)
}
