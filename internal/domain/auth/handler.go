package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"portfoliocms/internal/middleware"
	"portfoliocms/internal/pkg/response"
	"portfoliocms/internal/pkg/validator"
)

type Handler struct {
	service      *Service
	cookieSecure bool
	cookieMaxAge int
}

// NewHandler creates the auth handler. sessionSeconds is the cookie
// lifetime and should match the token TTL.
func NewHandler(service *Service, cookieSecure bool, sessionSeconds int) *Handler {
	return &Handler{service: service, cookieSecure: cookieSecure, cookieMaxAge: sessionSeconds}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login godoc
// @Summary Admin login
// @Description Checks the credentials and sets the HttpOnly session cookie
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} map[string]interface{}
// @Failure 400,401 {object} map[string]interface{}
// @Router /login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.CustomError(c, http.StatusBadRequest, response.CodeInvalidRequest, "Invalid request body")
		return
	}

	token, admin, err := h.service.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			response.CustomError(c, http.StatusUnauthorized, response.CodeUnauthorized, "Invalid username or password")
			return
		}
		response.Internal(c, err)
		return
	}

	h.setSessionCookie(c, token, h.cookieMaxAge)
	response.Success(c, http.StatusOK, gin.H{
		"access_token": token,
		"admin":        admin,
	})
}

// Logout clears the session cookie. Tokens are stateless, so a copied token
// stays valid until it expires.
func (h *Handler) Logout(c *gin.Context) {
	h.setSessionCookie(c, "", -1)
	response.Message(c, http.StatusOK, "Logged out", nil)
}

// GetMe godoc
// @Summary Get current admin
// @Tags Auth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /me [get]
func (h *Handler) GetMe(c *gin.Context) {
	admin, err := h.service.GetByID(c.Request.Context(), middleware.AdminID(c))
	if err != nil {
		if errors.Is(err, ErrAdminNotFound) {
			response.CustomError(c, http.StatusUnauthorized, response.CodeUnauthorized, "Session admin no longer exists")
			return
		}
		response.Internal(c, err)
		return
	}
	response.Success(c, http.StatusOK, admin)
}

// ChangePassword godoc
// @Summary Change the admin password
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body ChangePasswordInput true "Passwords"
// @Success 200 {object} map[string]interface{}
// @Failure 400,401,500 {object} map[string]interface{}
// @Router /change-password [post]
func (h *Handler) ChangePassword(c *gin.Context) {
	var req ChangePasswordInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.CustomError(c, http.StatusBadRequest, response.CodeInvalidRequest, "Invalid request body")
		return
	}

	err := h.service.ChangePassword(c.Request.Context(), middleware.AdminID(c), req)
	var fe validator.FieldsError
	switch {
	case err == nil:
		response.Message(c, http.StatusOK, "Password updated", nil)
	case errors.As(err, &fe):
		response.ErrorWithDetails(c, http.StatusBadRequest, response.CodeValidation, "Invalid password", fe)
	case errors.Is(err, ErrWrongPassword):
		response.Error(c, http.StatusBadRequest, response.CodeWrongPassword, err.Error())
	case errors.Is(err, ErrAdminNotFound):
		response.CustomError(c, http.StatusUnauthorized, response.CodeUnauthorized, "Session admin no longer exists")
	default:
		response.Internal(c, err)
	}
}

func (h *Handler) setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, value, maxAge, "/", "", h.cookieSecure, true)
}
