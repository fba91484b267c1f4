package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/m-mizutani/masq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

	return entry
}

func TestFromContext(t *testing.T) {
	custom := slog.New(slog.NewTextHandler(io.Discard, nil))

	assert.Equal(t, defaultLogger, FromContext(nil)) //nolint:staticcheck // nil guard
	assert.Equal(t, defaultLogger, FromContext(context.Background()))
	assert.Equal(t, custom, FromContext(WithContext(context.Background(), custom)))
}

func TestHasLogger(t *testing.T) {
	assert.False(t, HasLogger(nil)) //nolint:staticcheck // nil guard
	assert.False(t, HasLogger(context.Background()))

	ctx := WithContext(context.Background(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.True(t, HasLogger(ctx))

	assert.True(t, HasLogger(WithRequestID(context.Background(), "req-1")))
}

func TestContextIDs(t *testing.T) {
	tests := []struct {
		name  string
		with  func(context.Context, string) context.Context
		key   string
		value string
	}{
		{name: "request id", with: WithRequestID, key: "request_id", value: "req-123"},
		{name: "trace id", with: WithTraceID, key: "trace_id", value: "4bf92f3577b34da6a3ce929d0e0e4736"},
		{name: "correlation id", with: WithCorrelationID, key: "correlation_id", value: "corr-789"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			ctx := WithContext(context.Background(), slog.New(slog.NewJSONHandler(&buf, nil)))
			ctx = tt.with(ctx, tt.value)

			FromContext(ctx).InfoContext(ctx, "account created")

			assert.Equal(t, tt.value, decodeLine(t, &buf)[tt.key])
		})
	}
}

func TestSetDefault(t *testing.T) {
	original := defaultLogger
	t.Cleanup(func() { SetDefault(original) })

	custom := slog.New(slog.NewTextHandler(io.Discard, nil))
	SetDefault(custom)

	assert.Equal(t, custom, FromContext(context.Background()))
	assert.Equal(t, custom, slog.Default())
}

func TestNewWithWriter_Formats(t *testing.T) {
	tests := []struct {
		format string
		check  func(*testing.T, *bytes.Buffer)
	}{
		{
			format: "json",
			check: func(t *testing.T, buf *bytes.Buffer) {
				t.Helper()

				entry := decodeLine(t, buf)
				assert.Equal(t, "account created", entry["msg"])
				assert.Equal(t, "account-service", entry["service_name"])
				assert.Equal(t, "1.0.0", entry["service_version"])
			},
		},
		{
			format: "text",
			check: func(t *testing.T, buf *bytes.Buffer) {
				t.Helper()

				assert.Contains(t, buf.String(), `msg="account created"`)
				assert.Contains(t, buf.String(), "service_name=account-service")
			},
		},
		{
			format: "pretty",
			check: func(t *testing.T, buf *bytes.Buffer) {
				t.Helper()

				assert.Contains(t, buf.String(), "account created")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewWithWriter(&Config{
				Level:   "info",
				Format:  tt.format,
				Service: "account-service",
				Version: "1.0.0",
			}, &buf)

			logger.Info("account created")

			tt.check(t, &buf)
		})
	}
}

func TestNew(t *testing.T) {
	assert.NotNil(t, New(&Config{Level: "info", Format: "json"}))
}

func TestNewWithWriter_RotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "account-service.log")

	var buf bytes.Buffer
	logger := NewWithWriter(&Config{
		Level:  "info",
		Format: "text",
		File: FileConfig{
			Enabled:    true,
			Path:       path,
			MaxSizeMB:  1,
			MaxBackups: 1,
			MaxAgeDays: 1,
		},
	}, &buf)

	logger.Info("account updated", slog.String("depositAcct", "102938947"))

	assert.Contains(t, buf.String(), "account updated")

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(content, &entry))
	assert.Equal(t, "account updated", entry["msg"])
	assert.NotContains(t, string(content), "102938947")
}

func TestNewWithWriter_TraceLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&Config{Level: "trace", Format: "json"}, &buf)

	logger.Log(context.Background(), LevelTrace, "row scanned")
	assert.Contains(t, buf.String(), "row scanned")

	buf.Reset()
	logger = NewWithWriter(&Config{Level: "debug", Format: "json"}, &buf)
	logger.Log(context.Background(), LevelTrace, "row scanned")
	assert.Empty(t, buf.String())
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"trace":   LevelTrace,
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}

	for input, expected := range tests {
		t.Run(input, func(t *testing.T) {
			assert.Equal(t, expected, parseLevel(input))
		})
	}
}

func TestSlogToCharmLevel(t *testing.T) {
	tests := []struct {
		input    slog.Level
		expected log.Level
	}{
		{LevelTrace, log.DebugLevel},
		{slog.LevelDebug, log.DebugLevel},
		{slog.LevelInfo, log.InfoLevel},
		{slog.LevelWarn, log.WarnLevel},
		{slog.LevelError, log.ErrorLevel},
		{slog.Level(12), log.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input.String(), func(t *testing.T) {
			assert.Equal(t, tt.expected, slogToCharmLevel(tt.input))
		})
	}
}

func TestMultiHandler(t *testing.T) {
	var terminal, file bytes.Buffer

	multi := NewMultiHandler(
		slog.NewJSONHandler(&terminal, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewJSONHandler(&file, &slog.HandlerOptions{Level: slog.LevelInfo}),
	)

	assert.True(t, multi.Enabled(context.Background(), slog.LevelDebug))
	assert.False(t, NewMultiHandler(
		slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}),
	).Enabled(context.Background(), slog.LevelInfo))

	logger := slog.New(multi).With(slog.String("component", "app.AccountService")).WithGroup("account")

	logger.Info("account created", slog.Int64("id", 1))
	assert.Equal(t, "app.AccountService", decodeLine(t, &terminal)["component"])
	assert.Equal(t, map[string]any{"id": float64(1)}, decodeLine(t, &file)["account"])

	terminal.Reset()
	file.Reset()

	logger.Debug("row scanned")
	assert.Contains(t, terminal.String(), "row scanned")
	assert.Empty(t, file.String())
}

func TestNewReplaceAttr(t *testing.T) {
	tests := []struct {
		name   string
		key    string
		value  string
		redact bool
	}{
		{name: "deposit account", key: "depositAcct", value: "102938947", redact: true},
		{name: "snake case deposit account", key: "deposit_acct", value: "102938947", redact: true},
		{name: "database dsn", key: "dsn", value: "host=db user=account", redact: true},
		{name: "password", key: "password", value: "hunter2", redact: true},
		{name: "secret prefix", key: "secret_config", value: "sensitive-data", redact: true},
		{name: "bearer value", key: "header", value: "Bearer abc123xyz456", redact: true},
		{name: "url with password", key: "error", value: "postgres://account:hunter2@db:5432/account", redact: true},
		{name: "url without password", key: "target", value: "postgres://db:5432/account", redact: false},
		{name: "account name", key: "name", value: "Test Account", redact: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{ReplaceAttr: NewReplaceAttr()}))

			logger.Info("account created", slog.String(tt.key, tt.value))

			entry := decodeLine(t, &buf)
			require.Contains(t, entry, tt.key)

			if tt.redact {
				assert.NotContains(t, buf.String(), tt.value)
			} else {
				assert.Equal(t, tt.value, entry[tt.key])
			}
		})
	}
}

func TestNewReplaceAttr_ExtraOptions(t *testing.T) {
	var buf bytes.Buffer
	replace := NewReplaceAttr(masq.WithFieldName("consumerRef"))
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{ReplaceAttr: replace}))

	logger.Info("lookup", slog.String("consumerRef", "c-42"), slog.String("depositAcct", "54321"))

	assert.NotContains(t, buf.String(), "c-42")
	assert.NotContains(t, buf.String(), "54321")
}

func TestContextLoggerRedacts(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{ReplaceAttr: NewReplaceAttr()}))

	ctx := WithRequestID(WithContext(context.Background(), logger), "req-7")
	FromContext(ctx).InfoContext(ctx, "account updated",
		slog.Int64("account_id", 7),
		slog.String("depositAcct", "102938947"),
	)

	entry := decodeLine(t, &buf)
	assert.Equal(t, "req-7", entry["request_id"])
	assert.InDelta(t, 7, entry["account_id"], 0)
	assert.NotContains(t, buf.String(), "102938947")
}
