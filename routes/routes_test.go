package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/bigjaminben/Wichita-Airport-Flight-Tracker/config"
	"github.com/bigjaminben/Wichita-Airport-Flight-Tracker/internal/error/code"
	"github.com/bigjaminben/Wichita-Airport-Flight-Tracker/models"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Flight{}, &models.WeatherSnapshot{}))

	cfg := &config.Config{
		AirportCode: "ICT",
		ArchivePath: t.TempDir(),
		BackupPath:  t.TempDir(),
		LogDir:      t.TempDir(),
		// Unroutable port so the cache degrades immediately
		RedisHost:             "127.0.0.1",
		RedisPort:             "1",
		FeedCacheTTLSeconds:   15,
		BackupIntervalMinutes: 60,
	}
	r, services := SetupRouter(db, cfg)
	t.Cleanup(services.GetArchiveService().Close)
	return r
}

func doRequest(r *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	r.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func TestPingEndpoint(t *testing.T) {
	r := newTestRouter(t)

	w := doRequest(r, http.MethodGet, "/api/ping")
	require.Equal(t, http.StatusOK, w.Code)

	var resp envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, code.ErrSuccess, resp.Code)
	assert.Contains(t, string(resp.Data), `"status":"ok"`)
}

func TestAirportInfoEndpoint(t *testing.T) {
	r := newTestRouter(t)

	w := doRequest(r, http.MethodGet, "/api/airport/info")
	require.Equal(t, http.StatusOK, w.Code)

	var resp envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, code.ErrSuccess, resp.Code)
	assert.Contains(t, string(resp.Data), "Eisenhower")
	assert.Contains(t, string(resp.Data), `"code":"ICT"`)
}

func TestHistoryEndpointEmptyDay(t *testing.T) {
	r := newTestRouter(t)

	w := doRequest(r, http.MethodGet, "/api/flights/history")
	require.Equal(t, http.StatusOK, w.Code)

	var resp envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, code.ErrSuccess, resp.Code)
}

func TestHistoryRangeRequiresParams(t *testing.T) {
	r := newTestRouter(t)

	w := doRequest(r, http.MethodGet, "/api/flights/history/range")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOperationsTodayEndpoint(t *testing.T) {
	r := newTestRouter(t)

	w := doRequest(r, http.MethodGet, "/api/operations/today")
	require.Equal(t, http.StatusOK, w.Code)
}

func TestBackupListEndpoint(t *testing.T) {
	r := newTestRouter(t)

	w := doRequest(r, http.MethodGet, "/api/backups")
	require.Equal(t, http.StatusOK, w.Code)

	var resp envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, code.ErrSuccess, resp.Code)
}

func TestHealthEndpointReportsRollup(t *testing.T) {
	r := newTestRouter(t)

	w := doRequest(r, http.MethodGet, "/api/health")
	require.Equal(t, http.StatusOK, w.Code)

	var resp envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, string(resp.Data), `"checks"`)
}

func TestCORSPreflight(t *testing.T) {
	r := newTestRouter(t)

	w := doRequest(r, http.MethodOptions, "/api/ping")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestUnknownRoute(t *testing.T) {
	r := newTestRouter(t)

	w := doRequest(r, http.MethodGet, "/api/nope")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
