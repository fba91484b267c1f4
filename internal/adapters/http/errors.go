package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/language"

	"github.com/bytestream/account-service/internal/adapters/http/dto"
	"github.com/bytestream/account-service/internal/domain"
	"github.com/bytestream/account-service/internal/platform/i18n"
	"github.com/bytestream/account-service/internal/platform/logging"
	"github.com/bytestream/account-service/internal/platform/telemetry"
	"github.com/bytestream/account-service/internal/ports"
)

// MessageUnknownError is the catalog key used when a failure has no text.
const MessageUnknownError = "unknown.error"

// TraceIDHeader carries the OpenTelemetry trace ID of a failed request.
const TraceIDHeader = telemetry.TraceIDHeader

var errorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "account_service",
		Name:      "errors_total",
		Help:      "Failed requests by translated HTTP status.",
	},
	[]string{"status"},
)

// ErrorTranslator is the single place where failures become HTTP responses.
// It holds only the read-only catalogs and is safe for concurrent use.
type ErrorTranslator struct {
	messages   ports.MessageSource
	validation ports.MessageSource
}

// NewErrorTranslator creates a translator over the application and
// validation message catalogs.
func NewErrorTranslator(messages, validation ports.MessageSource) *ErrorTranslator {
	return &ErrorTranslator{
		messages:   messages,
		validation: validation,
	}
}

// Translate maps err to a status code and body in the given locale.
//
// Constraint violations win over declared statuses, which win over the
// generic 500. A nil error is reported as 200 with no body.
func (t *ErrorTranslator) Translate(err error, locale language.Tag) (int, *dto.ErrorResponse) {
	if err == nil {
		return http.StatusOK, nil
	}

	var failures domain.ValidationFailures
	if errors.As(err, &failures) {
		return http.StatusBadRequest, dto.NewErrorResponse(t.violations(failures, locale))
	}

	var statusErr *domain.StatusError
	if errors.As(err, &statusErr) {
		msg := statusErr.Message
		if msg == "" {
			msg = t.messages.Message(MessageUnknownError, locale)
		}

		return statusErr.Status, dto.NewErrorResponse(msg)
	}

	msg := err.Error()
	if msg == "" {
		msg = t.messages.Message(MessageUnknownError, locale)
	}

	return http.StatusInternalServerError, dto.NewErrorResponse(msg)
}

func (t *ErrorTranslator) violations(failures domain.ValidationFailures, locale language.Tag) string {
	parts := make([]string, 0, len(failures))
	for _, f := range failures {
		parts = append(parts, f.FieldPath()+": "+t.validation.Message(f.MessageKey(), locale))
	}

	return strings.Join(parts, ", ")
}

// RespondWithError writes the translated error for the request's locale.
// 5xx responses are logged with the request-scoped logger.
func (t *ErrorTranslator) RespondWithError(c *gin.Context, err error) {
	status, body := t.write(c, err)
	c.JSON(status, body)
}

// AbortWithError aborts the request chain and writes the translated error.
// Use this in middleware when you want to stop further processing.
func (t *ErrorTranslator) AbortWithError(c *gin.Context, err error) {
	status, body := t.write(c, err)
	c.AbortWithStatusJSON(status, body)
}

func (t *ErrorTranslator) write(c *gin.Context, err error) (int, *dto.ErrorResponse) {
	ctx := c.Request.Context()

	if err == nil {
		err = domain.NewStatusError(http.StatusInternalServerError, "")
	}

	status, body := t.Translate(err, i18n.LocaleFromContext(ctx))

	if span := trace.SpanFromContext(ctx); span.SpanContext().HasTraceID() {
		c.Header(TraceIDHeader, span.SpanContext().TraceID().String())
	}

	if status >= http.StatusInternalServerError {
		logging.FromContext(ctx).ErrorContext(ctx, "request failed",
			slog.Int("status", status),
			slog.String("error", err.Error()),
		)
	}

	errorsTotal.WithLabelValues(strconv.Itoa(status)).Inc()

	return status, body
}
