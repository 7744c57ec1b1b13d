package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/investsafe/advisor-verify-api/internal/liveverify"
)

type stubRegistryService struct {
	size int
}

func (s *stubRegistryService) LoadFromDatabase() error          { return nil }
func (s *stubRegistryService) LoadFromFile(path string) error   { return nil }
func (s *stubRegistryService) ImportSnapshot(path string) error { return nil }
func (s *stubRegistryService) Size() int                        { return s.size }

type stubDB struct{ err error }

func (s *stubDB) HealthCheck() error { return s.err }

type stubCache struct{ err error }

func (s *stubCache) Ping(ctx context.Context) error { return s.err }

func newHealthRouter(h *HealthHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/v1/health", h.GetHealth)
	r.GET("/api/v1/health/live", h.GetLiveVerificationHealth)
	r.POST("/api/v1/health/live/reset", h.ResetLiveVerificationHealth)
	return r
}

func TestGetHealth_AllHealthy(t *testing.T) {
	handler := NewHealthHandler(&stubRegistryService{size: 120}, liveverify.NewHealthMonitor(), &stubDB{}, &stubCache{})
	router := newHealthRouter(handler)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"healthy"`)
	assert.Contains(t, w.Body.String(), `"records":120`)
}

func TestGetHealth_DatabaseDown(t *testing.T) {
	handler := NewHealthHandler(&stubRegistryService{size: 10}, nil, &stubDB{err: errors.New("connection refused")}, nil)
	router := newHealthRouter(handler)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"unhealthy"`)
}

func TestGetHealth_CacheDownStaysHealthy(t *testing.T) {
	handler := NewHealthHandler(&stubRegistryService{size: 10}, nil, &stubDB{}, &stubCache{err: errors.New("timeout")})
	router := newHealthRouter(handler)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetHealth_EmptyRegistryReported(t *testing.T) {
	handler := NewHealthHandler(&stubRegistryService{}, nil, nil, nil)
	router := newHealthRouter(handler)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"empty"`)
}

func TestLiveVerificationHealth_Reset(t *testing.T) {
	monitor := liveverify.NewHealthMonitor()
	monitor.RecordFailure("site_search", "timeout")
	handler := NewHealthHandler(&stubRegistryService{}, monitor, nil, nil)
	router := newHealthRouter(handler)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("POST", "/api/v1/health/live/reset", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/health/live", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
