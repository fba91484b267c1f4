package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"runtime"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bytestream/account-service/internal/mocks"
	"github.com/bytestream/account-service/internal/ports"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type poolChecker struct{ err error }

func (p poolChecker) Name() string                 { return "postgres" }
func (p poolChecker) Check(context.Context) error { return p.err }

func healthEngine(registry ports.HealthRegistry) *gin.Engine {
	engine := gin.New()
	NewHealthHandler(registry, NewBuildInfo("1.4.2", "9f3c1ab", "2021-07-04T00:00:00Z")).
		RegisterHealthRoutesOnEngine(engine)
	return engine
}

func get(engine *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestHealthHandler_Liveness(t *testing.T) {
	// Liveness never consults the registry.
	w := get(healthEngine(mocks.NewMockHealthRegistry(t)), "/-/live")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestHealthHandler_Readiness(t *testing.T) {
	tests := []struct {
		name           string
		checkers       []ports.HealthChecker
		expectedStatus int
		expectedBody   readinessResponse
	}{
		{
			name:           "in-memory store",
			expectedStatus: http.StatusOK,
			expectedBody:   readinessResponse{Status: "healthy"},
		},
		{
			name:           "postgres reachable",
			checkers:       []ports.HealthChecker{poolChecker{}},
			expectedStatus: http.StatusOK,
			expectedBody: readinessResponse{
				Status: "healthy",
				Checks: map[string]*ports.CheckResult{"postgres": {Status: ports.HealthStatusHealthy}},
			},
		},
		{
			name:           "postgres unreachable",
			checkers:       []ports.HealthChecker{poolChecker{err: errors.New("connection refused")}},
			expectedStatus: http.StatusServiceUnavailable,
			expectedBody: readinessResponse{
				Status: "unhealthy",
				Checks: map[string]*ports.CheckResult{
					"postgres": {Status: ports.HealthStatusUnhealthy, Message: "connection refused"},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := ports.NewHealthRegistry()
			for _, c := range tt.checkers {
				require.NoError(t, registry.Register(c))
			}

			w := get(healthEngine(registry), "/-/ready")

			assert.Equal(t, tt.expectedStatus, w.Code)

			var resp readinessResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.expectedBody.Status, resp.Status)
			assert.False(t, resp.Timestamp.IsZero())
			require.Len(t, resp.Checks, len(tt.expectedBody.Checks))
			for name, want := range tt.expectedBody.Checks {
				assert.Equal(t, want.Status, resp.Checks[name].Status)
				assert.Equal(t, want.Message, resp.Checks[name].Message)
			}
		})
	}
}

func TestHealthHandler_ReadinessRendersRegistryResult(t *testing.T) {
	stamp := time.Date(2021, time.July, 4, 0, 0, 0, 0, time.UTC)
	registry := mocks.NewMockHealthRegistry(t)
	registry.EXPECT().CheckAll(mock.Anything).Return(&ports.HealthResult{
		Status:    ports.HealthStatusHealthy,
		Timestamp: stamp,
	})

	w := get(healthEngine(registry), "/-/ready")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy","timestamp":"2021-07-04T00:00:00Z"}`, w.Body.String())
}

func TestHealthHandler_BuildInfo(t *testing.T) {
	w := get(healthEngine(ports.NewHealthRegistry()), "/-/build")

	assert.Equal(t, http.StatusOK, w.Code)

	var bi BuildInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &bi))
	assert.Equal(t, BuildInfo{
		Version:   "1.4.2",
		Commit:    "9f3c1ab",
		BuildTime: "2021-07-04T00:00:00Z",
		GoVersion: runtime.Version(),
	}, bi)
}

func TestHealthHandler_Metrics(t *testing.T) {
	w := get(healthEngine(ports.NewHealthRegistry()), "/-/metrics")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestHealthHandler_UnknownHealthPath(t *testing.T) {
	w := get(healthEngine(ports.NewHealthRegistry()), "/-/status")

	assert.Equal(t, http.StatusNotFound, w.Code)
}
