// Package ports defines interfaces for external dependencies.
// Ports are contracts that adapters implement, allowing the application layer
// to depend on abstractions rather than concrete implementations.
//
// Port Design Principles:
//   - Context as first parameter for anything that may do I/O
//   - Return domain types, never driver or transport types
//   - Error returns use domain error types (ErrNotFound, ...)
//   - Keep interfaces small and focused
package ports

import (
	"context"
	"time"

	"golang.org/x/text/language"

	"github.com/bytestream/account-service/internal/domain"
)

// AccountRepository is the persistent store for accounts.
//
// Concurrent updates to the same account are last-writer-wins; the
// repository carries no version token.
type AccountRepository interface {
	// FindByID retrieves an account by its identity.
	// Returns domain.ErrNotFound if the account does not exist.
	FindByID(ctx context.Context, id int64) (*domain.Account, error)

	// Save persists a new account and returns it with its assigned identity.
	Save(ctx context.Context, account *domain.Account) (*domain.Account, error)

	// Update overwrites every mutable column of an existing account.
	// Returns domain.ErrNotFound if the account does not exist.
	Update(ctx context.Context, account *domain.Account) (*domain.Account, error)
}

// Clock is the process-wide time source. Production code reads time only
// through it so tests can pin the current instant.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a plain function to Clock.
type ClockFunc func() time.Time

// Now calls f.
func (f ClockFunc) Now() time.Time {
	return f()
}

// MessageSource resolves a message key for a locale.
// Implementations are read-only after construction and safe for concurrent use.
type MessageSource interface {
	Message(key string, tag language.Tag) string
}
