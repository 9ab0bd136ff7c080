package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, expose bool, h gin.HandlerFunc) (int, map[string]any) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/", func(c *gin.Context) {
		c.Set(ExposeErrorsKey, expose)
		h(c)
	})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return rr.Code, body
}

func TestInternal_HidesErrorsInProduction(t *testing.T) {
	code, body := run(t, false, func(c *gin.Context) {
		Internal(c, errors.New("open /srv/cms/uploads/x: permission denied"))
	})

	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, false, body["success"])
	errBody := body["error"].(map[string]any)
	assert.Equal(t, CodeInternal, errBody["code"])
	assert.NotContains(t, errBody["message"], "/srv/cms")
}

func TestInternal_ExposesErrorsLocally(t *testing.T) {
	_, body := run(t, true, func(c *gin.Context) {
		Internal(c, errors.New("disk full"))
	})
	assert.Equal(t, "disk full", body["error"].(map[string]any)["message"])
}

func TestMessage(t *testing.T) {
	code, body := run(t, true, func(c *gin.Context) {
		Message(c, http.StatusOK, "Homepage saved successfully!", nil)
	})
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Homepage saved successfully!", body["message"])
	assert.NotContains(t, body, "data")
}
