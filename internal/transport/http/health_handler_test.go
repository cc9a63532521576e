package http

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"volcanotrends/internal/services"
	"volcanotrends/internal/shared/testutil"
)

// MockHealthService is a mock implementation of HealthServiceInterface
type MockHealthService struct {
	mock.Mock
}

func (m *MockHealthService) HealthCheck(ctx context.Context) services.HealthStatus {
	return m.Called().Get(0).(services.HealthStatus)
}

func (m *MockHealthService) ReadinessCheck(ctx context.Context) services.HealthStatus {
	return m.Called().Get(0).(services.HealthStatus)
}

func (m *MockHealthService) LivenessCheck(ctx context.Context) services.HealthStatus {
	return m.Called().Get(0).(services.HealthStatus)
}

func (m *MockHealthService) Version() map[string]interface{} {
	return m.Called().Get(0).(map[string]interface{})
}

func newHealthRouter(t *testing.T, svc HealthServiceInterface) chi.Router {
	logger, _ := testutil.NewTestLogger(t)
	h := NewHealthHandler(svc, logger)
	r := chi.NewRouter()
	r.Mount("/api/health", h.Routes())
	r.Get("/api/version", h.Version)
	return r
}

func TestHealthHandler_Endpoints(t *testing.T) {
	svc := new(MockHealthService)
	svc.On("HealthCheck").Return(services.HealthStatus{Status: "ok", Timestamp: time.Now(), Version: "v1"})
	svc.On("LivenessCheck").Return(services.HealthStatus{Status: "alive", Version: "v1"})
	svc.On("Version").Return(map[string]interface{}{"version": "v1"})
	router := newHealthRouter(t, svc)

	tests := []struct {
		target string
		body   string
	}{
		{target: "/api/health", body: `"status":"ok"`},
		{target: "/api/health/live", body: `"status":"alive"`},
		{target: "/api/version", body: `"version":"v1"`},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			w := serve(router, http.MethodGet, tt.target)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, w.Body.String(), tt.body)
		})
	}
}

func TestHealthHandler_Readiness(t *testing.T) {
	tests := []struct {
		name           string
		status         string
		expectedStatus int
	}{
		{name: "ready", status: "ready", expectedStatus: http.StatusOK},
		{name: "not ready", status: "not_ready", expectedStatus: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockHealthService)
			svc.On("ReadinessCheck").Return(services.HealthStatus{Status: tt.status})

			w := serve(newHealthRouter(t, svc), http.MethodGet, "/api/health/ready")

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.status)
		})
	}
}
