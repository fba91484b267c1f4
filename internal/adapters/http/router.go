package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bytestream/account-service/internal/adapters/http/handlers"
	"github.com/bytestream/account-service/internal/adapters/http/middleware"
	"github.com/bytestream/account-service/internal/domain"
	"github.com/bytestream/account-service/internal/platform/config"
	"github.com/bytestream/account-service/internal/platform/telemetry"
)

// DefaultRequestTimeout is the default timeout for account requests.
const DefaultRequestTimeout = config.DefaultRequestTimeout

// RouterConfig contains configuration for setting up the router.
type RouterConfig struct {
	// Logger is the structured logger for request logging.
	Logger *slog.Logger

	// AppConfig contains application configuration.
	AppConfig *config.AppConfig

	// HealthHandler handles health check endpoints.
	HealthHandler *handlers.HealthHandler

	// AccountHandler serves the account resource.
	AccountHandler *handlers.AccountHandler

	// Translator renders failures and recovered panics.
	Translator *ErrorTranslator

	// Resolver picks the response locale from Accept-Language.
	Resolver middleware.LocaleResolver

	// Timeout is the account request timeout.
	Timeout time.Duration
}

// SetupRouter configures all routes and middleware on the Gin engine.
// Middleware is applied in the following order (first to last):
//  1. Recovery - panics become translated 500 responses
//  2. Request ID - generate/extract request ID
//  3. Correlation ID - handle distributed tracing correlation
//  4. OpenTelemetry - tracing and metrics
//  5. Locale - resolve Accept-Language once per request
//  6. Logging - request logging (skips health endpoints)
//
// Route groups:
//   - /-/ (internal): Health endpoints, no timeout
//   - /account: the account resource, bounded by Timeout
//
// Unknown paths and methods are answered by the translator as 404 and 405.
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	engine.Use(
		middleware.Recovery(cfg.Translator),
		middleware.RequestID(),
		middleware.CorrelationID(),
	)
	engine.Use(telemetry.Middleware(cfg.AppConfig.Name)...)
	engine.Use(
		middleware.Locale(cfg.Resolver),
		middleware.Logging(cfg.Logger),
	)

	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterHealthRoutesOnEngine(engine)
	}

	api := engine.Group("")
	if cfg.Timeout > 0 {
		api.Use(middleware.SimpleTimeout(cfg.Timeout))
	}

	if cfg.AccountHandler != nil {
		cfg.AccountHandler.RegisterAccountRoutes(api)
	}

	handleUnmatched(engine, cfg.Translator)
}

// SetupMinimalRouter sets up a minimal router with just health endpoints.
func SetupMinimalRouter(engine *gin.Engine, translator *ErrorTranslator, healthHandler *handlers.HealthHandler) {
	engine.Use(
		middleware.Recovery(translator),
		middleware.RequestID(),
	)

	if healthHandler != nil {
		healthHandler.RegisterHealthRoutesOnEngine(engine)
	}

	handleUnmatched(engine, translator)
}

func handleUnmatched(engine *gin.Engine, translator *ErrorTranslator) {
	engine.HandleMethodNotAllowed = true
	engine.NoRoute(unmatched(translator, http.StatusNotFound))
	engine.NoMethod(unmatched(translator, http.StatusMethodNotAllowed))
}

// unmatched reports status with the localized unknown.error message.
func unmatched(translator *ErrorTranslator, status int) gin.HandlerFunc {
	return func(c *gin.Context) {
		translator.RespondWithError(c, domain.NewStatusError(status, ""))
	}
}

// NewDefaultRouterConfig creates a RouterConfig with sensible defaults.
func NewDefaultRouterConfig(
	logger *slog.Logger,
	appCfg *config.AppConfig,
	translator *ErrorTranslator,
	resolver middleware.LocaleResolver,
	healthHandler *handlers.HealthHandler,
	accountHandler *handlers.AccountHandler,
) RouterConfig {
	return RouterConfig{
		Logger:         logger,
		AppConfig:      appCfg,
		HealthHandler:  healthHandler,
		AccountHandler: accountHandler,
		Translator:     translator,
		Resolver:       resolver,
		Timeout:        DefaultRequestTimeout,
	}
}
