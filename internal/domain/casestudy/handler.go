package casestudy

import (
	"errors"
	"net/http"
	"strconv"

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

func (h *Handler) List(c *gin.Context) {
	out, err := h.service.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, out)
}

// Get godoc
// @Summary Get a case study by id or slug
// @Tags CaseStudies
// @Produce json
// @Param ref path string true "Numeric id or slug"
// @Success 200 {object} map[string]interface{}
// @Failure 401,404,500 {object} map[string]interface{}
// @Router /case-studies/{ref} [get]
func (h *Handler) Get(c *gin.Context) {
	cs, err := h.service.GetBySlugOrID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, cs)
}

// Create godoc
// @Summary Create a case study
// @Tags CaseStudies
// @Accept json
// @Produce json
// @Param request body Input true "Case study"
// @Success 201 {object} map[string]interface{}
// @Failure 400,401,409,500 {object} map[string]interface{}
// @Router /case-studies [post]
func (h *Handler) Create(c *gin.Context) {
	var req Input
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeInvalidRequest, "Invalid JSON body")
		return
	}
	cs, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, cs)
}

// Update godoc
// @Summary Replace a case study
// @Tags CaseStudies
// @Accept json
// @Produce json
// @Param id path int true "Case study ID"
// @Param request body Input true "Case study"
// @Success 200 {object} map[string]interface{}
// @Failure 400,401,404,409,500 {object} map[string]interface{}
// @Router /case-studies/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req Input
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeInvalidRequest, "Invalid JSON body")
		return
	}
	cs, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, cs)
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Case study deleted", nil)
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeInvalidRequest, "Invalid case study id")
		return 0, false
	}
	return uint(id), true
}

func (h *Handler) fail(c *gin.Context, err error) {
	var fe validator.FieldsError
	switch {
	case errors.As(err, &fe):
		response.ErrorWithDetails(c, http.StatusBadRequest, response.CodeValidation, "Invalid case study", fe)
	case errors.Is(err, ErrCaseStudyNotFound):
		response.Error(c, http.StatusNotFound, response.CodeNotFound, err.Error())
	case errors.Is(err, ErrSlugConflict):
		response.Error(c, http.StatusConflict, response.CodeSlugConflict, err.Error())
	default:
		response.Internal(c, err)
	}
}
