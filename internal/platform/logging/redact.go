package logging

import (
	"log/slog"
	"regexp"

	"github.com/m-mizutani/masq"
)

var (
	// dsnPassword matches connection URLs that embed a password, as pgx
	// error messages sometimes do.
	dsnPassword = regexp.MustCompile(`(?i)^postgres(ql)?://[^:/@\s]+:[^@\s]+@`)

	bearerPattern = regexp.MustCompile(`(?i)^bearer\s+.+$`)
	basicPattern  = regexp.MustCompile(`(?i)^basic\s+.+$`)
)

// DefaultRedactOptions masks deposit account numbers, database credentials
// and inbound authorization material.
func DefaultRedactOptions() []masq.Option {
	return []masq.Option{
		masq.WithFieldName("depositAcct"),
		masq.WithFieldName("deposit_acct"),
		masq.WithFieldName("dsn"),
		masq.WithFieldName("password"),
		masq.WithFieldName("authorization"),
		masq.WithFieldName("cookie"),
		masq.WithFieldPrefix("secret"),

		masq.WithRegex(dsnPassword),
		masq.WithRegex(bearerPattern),
		masq.WithRegex(basicPattern),
	}
}

// NewReplaceAttr creates a ReplaceAttr function for slog.HandlerOptions
// that redacts sensitive data. Extra options extend DefaultRedactOptions.
func NewReplaceAttr(opts ...masq.Option) func(groups []string, a slog.Attr) slog.Attr {
	allOpts := append(DefaultRedactOptions(), opts...)
	return masq.New(allOpts...)
}
