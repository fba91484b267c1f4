package benchmark

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"

	apphttp "github.com/bytestream/account-service/internal/adapters/http"
	"github.com/bytestream/account-service/internal/adapters/http/handlers"
	"github.com/bytestream/account-service/internal/adapters/memory"
	"github.com/bytestream/account-service/internal/app"
	"github.com/bytestream/account-service/internal/domain"
	"github.com/bytestream/account-service/internal/platform/clock"
	"github.com/bytestream/account-service/internal/platform/config"
	"github.com/bytestream/account-service/internal/platform/i18n"
	"github.com/bytestream/account-service/internal/ports"
)

func init() {
	// Set Gin to release mode for accurate benchmarks
	gin.SetMode(gin.ReleaseMode)
}

// createGinContext creates a Gin context for handler testing.
func createGinContext(w http.ResponseWriter, r *http.Request) *gin.Context {
	c, _ := gin.CreateTestContext(w)
	c.Request = r
	return c
}

// setupHealthHandler creates a HealthHandler with a minimal registry for benchmarking.
func setupHealthHandler() *handlers.HealthHandler {
	registry := ports.NewHealthRegistry()
	buildInfo := handlers.NewBuildInfo("1.0.0", "abc123", "2024-01-01T00:00:00Z")
	return handlers.NewHealthHandler(registry, buildInfo)
}

// BenchmarkLivenessHandler measures the performance of the liveness endpoint.
// This is a critical path for Kubernetes probes and should be extremely fast.
func BenchmarkLivenessHandler(b *testing.B) {
	handler := setupHealthHandler()
	req := httptest.NewRequest(http.MethodGet, "/-/live", http.NoBody)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		w := httptest.NewRecorder()
		c := createGinContext(w, req)
		handler.Liveness(c)
	}
}

// BenchmarkReadinessHandler measures the performance of the readiness endpoint.
// This includes running all registered health checks.
func BenchmarkReadinessHandler(b *testing.B) {
	handler := setupHealthHandler()
	req := httptest.NewRequest(http.MethodGet, "/-/ready", http.NoBody)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		w := httptest.NewRecorder()
		c := createGinContext(w, req)
		handler.Readiness(c)
	}
}

// BenchmarkReadinessHandler_WithChecks measures readiness with registered health checks.
func BenchmarkReadinessHandler_WithChecks(b *testing.B) {
	registry := ports.NewHealthRegistry()

	// Register a simple health check
	_ = registry.Register(&simpleHealthChecker{name: "database"})
	_ = registry.Register(&simpleHealthChecker{name: "cache"})

	buildInfo := handlers.NewBuildInfo("1.0.0", "abc123", "2024-01-01T00:00:00Z")
	handler := handlers.NewHealthHandler(registry, buildInfo)
	req := httptest.NewRequest(http.MethodGet, "/-/ready", http.NoBody)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		w := httptest.NewRecorder()
		c := createGinContext(w, req)
		handler.Readiness(c)
	}
}

// BenchmarkBuildInfoHandler measures the performance of the build info endpoint.
func BenchmarkBuildInfoHandler(b *testing.B) {
	handler := setupHealthHandler()
	req := httptest.NewRequest(http.MethodGet, "/-/build", http.NoBody)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		w := httptest.NewRecorder()
		c := createGinContext(w, req)
		handler.BuildInfoHandler(c)
	}
}

// accountStack is the full router over the in-memory store.
type accountStack struct {
	engine     *gin.Engine
	translator *apphttp.ErrorTranslator
}

func setupAccountStack(b *testing.B) *accountStack {
	b.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	messages := i18n.MustLoad(i18n.BundleMessages, i18n.DefaultLocale)
	validation := i18n.MustLoad(i18n.BundleValidation, i18n.DefaultLocale)

	service := app.NewAccountService(app.AccountServiceConfig{
		Repository: memory.NewAccountRepository(),
		Clock:      clock.NewFixed(time.Date(2021, time.July, 4, 0, 0, 0, 0, time.UTC)),
		Messages:   messages,
		Logger:     logger,
	})

	translator := apphttp.NewErrorTranslator(messages, validation)

	engine := gin.New()
	apphttp.SetupRouter(engine, apphttp.RouterConfig{
		Logger:         logger,
		AppConfig:      &config.AppConfig{Name: "account-service", Environment: "bench", Version: "1.0.0"},
		HealthHandler:  setupHealthHandler(),
		AccountHandler: handlers.NewAccountHandler(service, translator),
		Translator:     translator,
		Resolver:       i18n.NewResolver(i18n.DefaultLocale, language.English, language.Spanish),
		Timeout:        apphttp.DefaultRequestTimeout,
	})

	return &accountStack{engine: engine, translator: translator}
}

func (s *accountStack) serve(method, target, body string) int {
	var reader io.Reader = http.NoBody
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept-Language", "es-MX,es;q=0.9")

	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	return w.Code
}

// BenchmarkCreateAccount measures the full POST /account path including
// binding, validation and persistence.
func BenchmarkCreateAccount(b *testing.B) {
	stack := setupAccountStack(b)
	body := `{"consumerId":1,"productId":1,"name":"Bench Account","depositAcct":"12345678"}`

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if code := stack.serve(http.MethodPost, "/account", body); code != http.StatusCreated {
			b.Fatalf("unexpected status %d", code)
		}
	}
}

// BenchmarkGetAccount measures reads of an existing account.
func BenchmarkGetAccount(b *testing.B) {
	stack := setupAccountStack(b)
	stack.serve(http.MethodPost, "/account", `{"consumerId":1,"productId":1,"depositAcct":"12345678"}`)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if code := stack.serve(http.MethodGet, "/account/1", ""); code != http.StatusOK {
			b.Fatalf("unexpected status %d", code)
		}
	}
}

// BenchmarkGetAccount_NotFound measures the localized error path.
func BenchmarkGetAccount_NotFound(b *testing.B) {
	stack := setupAccountStack(b)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if code := stack.serve(http.MethodGet, "/account/42", ""); code != http.StatusNotFound {
			b.Fatalf("unexpected status %d", code)
		}
	}
}

// BenchmarkCreateAccount_Invalid measures rendering of several violations.
func BenchmarkCreateAccount_Invalid(b *testing.B) {
	stack := setupAccountStack(b)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if code := stack.serve(http.MethodPost, "/account", `{"depositAcct":""}`); code != http.StatusBadRequest {
			b.Fatalf("unexpected status %d", code)
		}
	}
}

// BenchmarkTranslate measures the translator alone across its branches.
func BenchmarkTranslate(b *testing.B) {
	stack := setupAccountStack(b)

	errs := []error{
		domain.ValidationFailures{
			{
				Path: []domain.PathNode{
					{Kind: domain.NodeMethod, Name: "createAccount"},
					{Kind: domain.NodeParameter, Name: "createRequest"},
					{Kind: domain.NodeProperty, Name: "consumerId"},
				},
				MessageTemplate: "{constraints.NotNull.message}",
			},
		},
		domain.NewNotFoundError("La cuenta no fue encontrada"),
		errors.New("connection reset"),
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		stack.translator.Translate(errs[i%len(errs)], language.Spanish)
	}
}

// simpleHealthChecker is a minimal health checker for benchmarking.
type simpleHealthChecker struct {
	name string
}

func (s *simpleHealthChecker) Name() string {
	return s.name
}

func (s *simpleHealthChecker) Check(_ context.Context) error {
	return nil
}
