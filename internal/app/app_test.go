package app

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"volcanotrends/internal/config"
	"volcanotrends/internal/dataprocessing"
	"volcanotrends/internal/shared/testutil"
	"volcanotrends/pkg/contracts/domain"
)

type stubLoader struct {
	records []domain.Record
	err     error
}

func (s stubLoader) Load(ctx context.Context) (*dataprocessing.Dataset, error) {
	if s.err != nil {
		return nil, s.err
	}
	return dataprocessing.NewDataset(s.records, domain.SourceFile, "merged.csv", time.Now()), nil
}

func createMockFS() fstest.MapFS {
	return fstest.MapFS{
		"index.html":   {Data: []byte("<!DOCTYPE html><title>Volcanoes and Streams</title>")},
		"styles.css":   {Data: []byte("body{margin:0}")},
		"dashboard.js": {Data: []byte("fetch('/api/dashboard')")},
	}
}

func newTestApp(t *testing.T, loader stubLoader) *Application {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)

	cfg := config.Default()
	cfg.Security.RateLimit.Enabled = false

	application, err := NewApplication(cfg, logger, createMockFS(), WithDatasetLoader(loader))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = application.OTelProviders.Shutdown(context.Background())
	})
	return application
}

func fiveWeeks(t *testing.T) stubLoader {
	t.Helper()
	records, err := dataprocessing.ParseCSVString(testutil.FiveWeekCSV)
	require.NoError(t, err)
	return stubLoader{records: records}
}

func get(h http.Handler, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestApplication_ReadinessFollowsLoad(t *testing.T) {
	application := newTestApp(t, fiveWeeks(t))

	w := get(application.Router, "/api/health/ready")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = get(application.Router, "/api/dashboard")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "DATASET_NOT_LOADED")

	_, err := application.Dashboard.Load(context.Background())
	require.NoError(t, err)

	w = get(application.Router, "/api/health/ready")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "5 records from file")
}

func TestApplication_Routes(t *testing.T) {
	application := newTestApp(t, fiveWeeks(t))
	_, err := application.Dashboard.Load(context.Background())
	require.NoError(t, err)

	tests := []struct {
		target         string
		expectedStatus int
		expectedType   string
		expectedBody   string
	}{
		{target: "/api/health", expectedStatus: http.StatusOK, expectedBody: `"status":"ok"`},
		{target: "/api/health/live", expectedStatus: http.StatusOK, expectedBody: `"alive"`},
		{target: "/api/version", expectedStatus: http.StatusOK, expectedBody: `"go_version"`},
		{target: "/api/dashboard", expectedStatus: http.StatusOK, expectedBody: `"record_count":5`},
		{target: "/api/dashboard/stats", expectedStatus: http.StatusOK, expectedBody: `"total_eruptions":6`},
		{target: "/api/dashboard/insights", expectedStatus: http.StatusOK, expectedBody: `"correlation"`},
		{target: "/api/dashboard/records", expectedStatus: http.StatusOK, expectedBody: `"count":5`},
		{target: "/api/dashboard/genres?limit=1", expectedStatus: http.StatusOK, expectedBody: `"genre":"pop"`},
		{target: "/api/dashboard/genres?limit=99", expectedStatus: http.StatusBadRequest, expectedBody: "VALIDATION_FAILED"},
		{target: "/api/dashboard/charts/yearly-vei", expectedStatus: http.StatusOK, expectedBody: `"year":"2017"`},
		{target: "/api/dashboard/charts/radar", expectedStatus: http.StatusNotFound, expectedBody: "CHART_NOT_FOUND"},
		{target: "/api/charts/timeseries.png?width=400&height=300", expectedStatus: http.StatusOK, expectedType: "image/png"},
		{target: "/api/charts/timeseries.png?width=100", expectedStatus: http.StatusBadRequest},
		{target: "/api/export/csv", expectedStatus: http.StatusOK, expectedType: "text/csv; charset=utf-8"},
		{target: "/api/export/pdf", expectedStatus: http.StatusNotFound, expectedBody: "FORMAT_NOT_FOUND"},
		{target: "/api/unknown", expectedStatus: http.StatusNotFound},
		{target: "/", expectedStatus: http.StatusOK, expectedBody: "Volcanoes and Streams"},
		{target: "/dashboard.js", expectedStatus: http.StatusOK, expectedType: "application/javascript"},
		{target: "/metrics", expectedStatus: http.StatusOK, expectedBody: "http_requests"},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			w := get(application.Router, tt.target)

			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			if tt.expectedType != "" {
				assert.Equal(t, tt.expectedType, w.Header().Get("Content-Type"))
			}
			if tt.expectedBody != "" {
				assert.Contains(t, w.Body.String(), tt.expectedBody)
			}
			assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
		})
	}
}

func TestApplication_Reload(t *testing.T) {
	application := newTestApp(t, fiveWeeks(t))

	req := httptest.NewRequest(http.MethodPost, "/api/dashboard/reload", nil)
	w := httptest.NewRecorder()
	application.Router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body struct {
		Status string `json:"status"`
		Data   struct {
			Loaded  bool `json:"loaded"`
			Records int  `json:"records"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "success", body.Status)
	assert.True(t, body.Data.Loaded)
	assert.Equal(t, 5, body.Data.Records)
}

func TestApplication_ProblemResponses(t *testing.T) {
	application := newTestApp(t, fiveWeeks(t))

	req := httptest.NewRequest(http.MethodDelete, "/api/dashboard/stats", nil)
	w := httptest.NewRecorder()
	application.Router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	var problem map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &problem))
	assert.Equal(t, "/errors/method-not-allowed", problem["type"])
	assert.Equal(t, "/api/dashboard/stats", problem["instance"])
	assert.NotEmpty(t, problem["trace_id"])
}

func TestApplication_StartFailsWithoutDataset(t *testing.T) {
	application := newTestApp(t, stubLoader{err: errors.New("no such file")})

	err := application.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "initial dataset load")
}

func TestApplication_RunStopsOnContextCancel(t *testing.T) {
	application := newTestApp(t, fiveWeeks(t))
	application.Server.Addr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- application.Run(ctx) }()

	require.Eventually(t, func() bool { return application.Dashboard.Info().Loaded }, 2*time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
}
