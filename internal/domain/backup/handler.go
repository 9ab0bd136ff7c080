package backup

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"portfoliocms/internal/middleware"
	"portfoliocms/internal/pkg/response"
)

type Handler struct {
	service *Service
	keep    int
}

// NewHandler creates the backup handler; keep is applied after every manual
// backup, 0 keeps all snapshots.
func NewHandler(service *Service, keep int) *Handler {
	return &Handler{service: service, keep: keep}
}

// Create godoc
// @Summary Snapshot the database and uploads
// @Tags Backup
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401,501,500 {object} map[string]interface{}
// @Router /backup [post]
func (h *Handler) Create(c *gin.Context) {
	snap, err := h.service.CreateBackup(c.Request.Context(), middleware.Username(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	if _, err := h.service.Rotate(c.Request.Context(), h.keep); err != nil {
		_ = c.Error(err)
	}
	response.Message(c, http.StatusOK, "Backup created successfully", snap)
}

func (h *Handler) List(c *gin.Context) {
	snaps, err := h.service.ListBackups(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, snaps)
}

// Export godoc
// @Summary Export content, case studies and media metadata as JSON
// @Tags Backup
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401,500 {object} map[string]interface{}
// @Router /export [post]
func (h *Handler) Export(c *gin.Context) {
	res, err := h.service.Export(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Data exported successfully", res)
}

func (h *Handler) fail(c *gin.Context, err error) {
	if errors.Is(err, ErrUnsupportedDatabase) {
		response.Error(c, http.StatusNotImplemented, response.CodeUnsupportedDB, err.Error())
		return
	}
	response.Internal(c, err)
}
