package backup

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRouter(t *testing.T) (*gin.Engine, *fixture) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := newFixture(t)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("username", "admin")
		c.Next()
	})
	NewHandler(f.svc, 0).RegisterRoutes(r.Group("/api"))
	return r, f
}

func TestBackupEndpoint(t *testing.T) {
	r, f := setupTestRouter(t)
	writeFile(t, filepath.Join(f.dir, "uploads", "one.png"), "1")

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/backup", nil))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var body struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, filepath.Join(f.dir, "backups", "backup_20240602_140509"), body.Data["backup_path"])
	assert.EqualValues(t, 1, body.Data["files"])
	assert.Contains(t, body.Data, "database_size")
	assert.Equal(t, "admin", body.Data["user"])

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/backups", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "backup_20240602_140509")
}

func TestExportEndpoint(t *testing.T) {
	r, f := setupTestRouter(t)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/export", nil))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var body struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, filepath.Join(f.dir, "exports", "export_20240602_140509.json"), body.Data["export_path"])
}

func TestBackupEndpoint_Postgres(t *testing.T) {
	r, f := setupTestRouter(t)
	f.svc.opts.DatabaseURL = "postgres://u:p@localhost/cms"

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/backup", nil))
	assert.Equal(t, http.StatusNotImplemented, rr.Code)
	assert.Contains(t, rr.Body.String(), "UNSUPPORTED_DATABASE")
}
