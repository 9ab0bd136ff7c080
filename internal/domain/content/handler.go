package content

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"portfoliocms/internal/pkg/response"
	"portfoliocms/internal/pkg/validator"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type SetValueRequest struct {
	Value *string `json:"value" binding:"required"`
}

// GetPage godoc
// @Summary Read all content of a page
// @Tags Content
// @Produce json
// @Param page path string true "Page name"
// @Success 200 {object} map[string]interface{}
// @Failure 401,500 {object} map[string]interface{}
// @Router /content/{page} [get]
func (h *Handler) GetPage(c *gin.Context) {
	page, err := h.service.Page(c.Request.Context(), c.Param("page"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, page)
}

// SetValue godoc
// @Summary Write one content value
// @Tags Content
// @Accept json
// @Produce json
// @Param request body SetValueRequest true "Raw value"
// @Success 200 {object} map[string]interface{}
// @Failure 400,401,500 {object} map[string]interface{}
// @Router /content/{page}/{section}/{key} [put]
func (h *Handler) SetValue(c *gin.Context) {
	var req SetValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeInvalidRequest, "body must be {\"value\": string}")
		return
	}

	page, section, key := c.Param("page"), c.Param("section"), c.Param("key")
	if err := h.service.Set(c.Request.Context(), page, section, key, *req.Value); err != nil {
		h.fail(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Content saved", gin.H{"page": page, "section": section, "key": key})
}

func (h *Handler) GetHomepage(c *gin.Context) {
	hp, err := h.service.LoadHomepage(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, hp)
}

// SaveHomepage godoc
// @Summary Save every homepage section
// @Tags Content
// @Accept json
// @Produce json
// @Param request body Homepage true "Homepage content"
// @Success 200 {object} map[string]interface{}
// @Failure 400,401,500 {object} map[string]interface{}
// @Router /homepage [put]
func (h *Handler) SaveHomepage(c *gin.Context) {
	var req Homepage
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeInvalidRequest, "Invalid JSON body")
		return
	}
	if err := h.service.SaveHomepage(c.Request.Context(), &req); err != nil {
		h.fail(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Homepage saved successfully!", nil)
}

func (h *Handler) GetPortfolio(c *gin.Context) {
	p, err := h.service.LoadPortfolio(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, p)
}

// SavePortfolio godoc
// @Summary Save the portfolio listing
// @Tags Content
// @Accept json
// @Produce json
// @Param request body Portfolio true "Portfolio content"
// @Success 200 {object} map[string]interface{}
// @Failure 400,401,500 {object} map[string]interface{}
// @Router /portfolio [put]
func (h *Handler) SavePortfolio(c *gin.Context) {
	var req Portfolio
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeInvalidRequest, "Invalid JSON body")
		return
	}
	if err := h.service.SavePortfolio(c.Request.Context(), &req); err != nil {
		h.fail(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Portfolio saved successfully!", nil)
}

func (h *Handler) fail(c *gin.Context, err error) {
	var fe validator.FieldsError
	switch {
	case errors.As(err, &fe):
		response.ErrorWithDetails(c, http.StatusBadRequest, response.CodeValidation, "Invalid content", fe)
	case errors.Is(err, ErrEmptyKey):
		response.Error(c, http.StatusBadRequest, response.CodeInvalidRequest, err.Error())
	case errors.Is(err, ErrMalformedContent):
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, response.CodeMalformedStored, err.Error())
	default:
		response.Internal(c, err)
	}
}
