package media

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"portfoliocms/internal/pkg/response"
)

// multipartOverhead leaves room for boundaries and headers around the file.
const multipartOverhead = 1 << 20

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Upload godoc
// @Summary Upload a media file
// @Tags Media
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "File"
// @Success 201 {object} map[string]interface{}
// @Failure 400,401,413,500 {object} map[string]interface{}
// @Router /upload [post]
func (h *Handler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.service.opts.MaxFileSize+multipartOverhead)

	fh, err := c.FormFile("file")
	if err != nil {
		var mbe *http.MaxBytesError
		switch {
		case errors.As(err, &mbe):
			h.fail(c, ErrFileTooLarge)
		case errors.Is(err, http.ErrMissingFile):
			h.fail(c, ErrNoFile)
		default:
			response.Error(c, http.StatusBadRequest, response.CodeInvalidRequest, "Invalid multipart form")
		}
		return
	}

	f, err := fh.Open()
	if err != nil {
		response.Internal(c, err)
		return
	}
	defer f.Close()

	asset, err := h.service.Upload(c.Request.Context(), fh.Filename, f)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, asset)
}

func (h *Handler) List(c *gin.Context) {
	assets, err := h.service.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, assets)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	asset, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, asset)
}

// Delete godoc
// @Summary Delete a media file and its record
// @Tags Media
// @Produce json
// @Param id path int true "Media ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400,401,404,500 {object} map[string]interface{}
// @Router /media/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Media deleted successfully!", nil)
}

// Reconcile reports drift between the upload directory and the table. It
// never fixes anything over HTTP; use cmd/media_reconcile -fix for that.
func (h *Handler) Reconcile(c *gin.Context) {
	rep, err := h.service.Reconcile(c.Request.Context(), false)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, rep)
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeInvalidRequest, "Invalid media id")
		return 0, false
	}
	return uint(id), true
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNoFile):
		response.Error(c, http.StatusBadRequest, response.CodeInvalidRequest, err.Error())
	case errors.Is(err, ErrEmptyFilename):
		response.Error(c, http.StatusBadRequest, response.CodeEmptyFilename, err.Error())
	case errors.Is(err, ErrFileTypeNotAllowed):
		response.Error(c, http.StatusBadRequest, response.CodeFileTypeNotAllowed, err.Error())
	case errors.Is(err, ErrEmptyFile):
		response.Error(c, http.StatusBadRequest, response.CodeEmptyFile, err.Error())
	case errors.Is(err, ErrFileTooLarge):
		response.Error(c, http.StatusRequestEntityTooLarge, response.CodeFileTooLarge, err.Error())
	case errors.Is(err, ErrMediaNotFound):
		response.Error(c, http.StatusNotFound, response.CodeNotFound, err.Error())
	default:
		response.Internal(c, err)
	}
}
