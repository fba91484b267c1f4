//go:build integration

package integration

import (
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"

	apphttp "github.com/bytestream/account-service/internal/adapters/http"
	"github.com/bytestream/account-service/internal/adapters/http/handlers"
	"github.com/bytestream/account-service/internal/adapters/memory"
	"github.com/bytestream/account-service/internal/app"
	"github.com/bytestream/account-service/internal/platform/clock"
	"github.com/bytestream/account-service/internal/platform/config"
	"github.com/bytestream/account-service/internal/platform/i18n"
	"github.com/bytestream/account-service/internal/ports"
)

var july4 = time.Date(2021, time.July, 4, 0, 0, 0, 0, time.UTC)

// stackOptions overrides parts of the default test stack.
type stackOptions struct {
	repo     ports.AccountRepository
	resolver *i18n.Resolver
	timeout  time.Duration
}

// startStack serves the full account stack on a loopback listener, over the
// in-memory store unless repo is given. The server is closed when the test
// ends.
func startStack(t *testing.T, repo ports.AccountRepository) *httptest.Server {
	t.Helper()

	return startStackWith(t, stackOptions{repo: repo})
}

func startStackWith(t *testing.T, opts stackOptions) *httptest.Server {
	t.Helper()

	gin.SetMode(gin.TestMode)

	repo := opts.repo
	if repo == nil {
		repo = memory.NewAccountRepository()
	}

	resolver := opts.resolver
	if resolver == nil {
		resolver = i18n.NewResolver(i18n.DefaultLocale, language.English, language.Spanish)
	}

	timeout := opts.timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	messages := i18n.MustLoad(i18n.BundleMessages, i18n.DefaultLocale)
	validation := i18n.MustLoad(i18n.BundleValidation, i18n.DefaultLocale)

	service := app.NewAccountService(app.AccountServiceConfig{
		Repository: repo,
		Clock:      clock.NewFixed(july4),
		Messages:   messages,
		Logger:     logger,
	})

	translator := apphttp.NewErrorTranslator(messages, validation)

	engine := gin.New()
	apphttp.SetupRouter(engine, apphttp.RouterConfig{
		Logger:         logger,
		AppConfig:      &config.AppConfig{Name: "account-service", Environment: "test", Version: "1.0.0"},
		HealthHandler:  handlers.NewHealthHandler(ports.NewHealthRegistry(), handlers.NewBuildInfo("1.0.0", "abc123", "2024-01-01T00:00:00Z")),
		AccountHandler: handlers.NewAccountHandler(service, translator),
		Translator:     translator,
		Resolver:       resolver,
		Timeout:        timeout,
	})

	server := httptest.NewServer(engine)
	t.Cleanup(server.Close)

	return server
}
