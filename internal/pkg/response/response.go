package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error codes shared by every handler.
const (
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeValidation         = "VALIDATION_ERROR"
	CodeNotFound           = "NOT_FOUND"
	CodeSlugConflict       = "SLUG_CONFLICT"
	CodeFileTypeNotAllowed = "FILE_TYPE_NOT_ALLOWED"
	CodeEmptyFilename      = "EMPTY_FILENAME"
	CodeEmptyFile          = "EMPTY_FILE"
	CodeFileTooLarge       = "FILE_TOO_LARGE"
	CodeWrongPassword      = "WRONG_PASSWORD"
	CodeMalformedStored    = "MALFORMED_CONTENT"
	CodeUnsupportedDB      = "UNSUPPORTED_DATABASE"
	CodeInternal           = "INTERNAL_ERROR"
)

// ExposeErrorsKey is the gin context key controlling Internal's verbosity.
const ExposeErrorsKey = "expose_errors"

func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
	})
}

// Message answers with a human readable confirmation, like "Homepage saved".
func Message(c *gin.Context, statusCode int, message string, data interface{}) {
	body := gin.H{
		"success": true,
		"message": message,
	}
	if data != nil {
		body["data"] = data
	}
	c.JSON(statusCode, body)
}

func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// CustomError writes the error envelope; middlewares call it before c.Abort().
func CustomError(c *gin.Context, statusCode int, code string, message string) {
	Error(c, statusCode, code, message)
}

func ErrorWithDetails(c *gin.Context, statusCode int, code string, message string, details any) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

// Internal reports a server error. The raw error text is only exposed when
// the console runs outside production ("expose_errors" set by the router).
func Internal(c *gin.Context, err error) {
	_ = c.Error(err)
	message := "internal server error"
	if c.GetBool(ExposeErrorsKey) {
		message = err.Error()
	}
	Error(c, http.StatusInternalServerError, CodeInternal, message)
}
