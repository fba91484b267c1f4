// Package app contains application services that orchestrate use cases.
// It coordinates domain rules and infrastructure through ports and knows
// nothing about HTTP.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bytestream/account-service/internal/domain"
	"github.com/bytestream/account-service/internal/platform/i18n"
	"github.com/bytestream/account-service/internal/platform/logging"
	"github.com/bytestream/account-service/internal/ports"
)

// MessageAccountNotFound is the catalog key for a missing account.
const MessageAccountNotFound = "account.notfound"

// AccountFields are the mutable fields shared by create and update.
type AccountFields struct {
	ConsumerID    *int64
	ProductID     *int64
	Name          *string
	DepositAcct   *string
	CollectedDate *time.Time
	Denied        *time.Time
}

// CreateAccountInput carries an already validated create request.
type CreateAccountInput struct {
	AccountFields
}

// UpdateAccountInput carries an already validated update request.
// ID is used only for lookup.
type UpdateAccountInput struct {
	ID int64
	AccountFields
}

// AccountService implements the account lifecycle: lookup, creation with
// defaulting and full-overwrite update.
type AccountService struct {
	repo     ports.AccountRepository
	clock    ports.Clock
	messages ports.MessageSource
	logger   *slog.Logger
}

// AccountServiceConfig contains the dependencies of the account service.
type AccountServiceConfig struct {
	Repository ports.AccountRepository
	Clock      ports.Clock
	Messages   ports.MessageSource
	Logger     *slog.Logger
}

// NewAccountService creates a new account service with the provided dependencies.
func NewAccountService(cfg AccountServiceConfig) *AccountService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &AccountService{
		repo:     cfg.Repository,
		clock:    cfg.Clock,
		messages: cfg.Messages,
		logger:   logger.With(slog.String("component", "app.AccountService")),
	}
}

// Get returns the account with the given identity. A missing account yields
// a 404 failure whose message is localized for the caller's locale.
func (s *AccountService) Get(ctx context.Context, id int64) (*domain.Account, error) {
	account, err := s.find(ctx, opGet, id)
	if err != nil {
		return nil, err
	}

	recordOperation(opGet, outcomeOK)

	return account, nil
}

// find loads an account, counting misses and failures against op.
func (s *AccountService) find(ctx context.Context, op string, id int64) (*domain.Account, error) {
	account, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.log(ctx).DebugContext(ctx, "account not found", slog.Int64("account_id", id), slog.String("operation", op))
			recordOperation(op, outcomeNotFound)

			return nil, s.notFound(ctx)
		}

		recordOperation(op, outcomeError)

		return nil, fmt.Errorf("finding account %d: %w", id, err)
	}

	return account, nil
}

// Create persists a new account. CollectedDate defaults to the clock's
// current instant in UTC when the request leaves it out.
//
// consumerId and productId are not checked against their owning systems.
func (s *AccountService) Create(ctx context.Context, in CreateAccountInput) (*domain.Account, error) {
	collected := in.CollectedDate
	if collected == nil {
		now := s.clock.Now().UTC()
		collected = &now
	}

	account := &domain.Account{
		ConsumerID:    in.ConsumerID,
		ProductID:     in.ProductID,
		Name:          in.Name,
		DepositAcct:   in.DepositAcct,
		CollectedDate: collected,
		Denied:        in.Denied,
	}

	saved, err := s.repo.Save(ctx, account)
	if err != nil {
		recordOperation(opCreate, outcomeError)
		return nil, fmt.Errorf("saving account: %w", err)
	}

	recordOperation(opCreate, outcomeOK)
	s.log(ctx).InfoContext(ctx, "account created", slog.Int64("account_id", derefID(saved)))

	return saved, nil
}

// Update overwrites every mutable field of an existing account with the
// request values, nil included. No defaulting is applied and the identity
// is never changed.
func (s *AccountService) Update(ctx context.Context, in UpdateAccountInput) (*domain.Account, error) {
	account, err := s.find(ctx, opUpdate, in.ID)
	if err != nil {
		return nil, err
	}

	account.CollectedDate = in.CollectedDate
	account.Denied = in.Denied
	account.DepositAcct = in.DepositAcct
	account.Name = in.Name
	account.ProductID = in.ProductID
	account.ConsumerID = in.ConsumerID

	updated, err := s.repo.Update(ctx, account)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			recordOperation(opUpdate, outcomeNotFound)
			return nil, s.notFound(ctx)
		}

		recordOperation(opUpdate, outcomeError)

		return nil, fmt.Errorf("updating account %d: %w", in.ID, err)
	}

	recordOperation(opUpdate, outcomeOK)
	s.log(ctx).InfoContext(ctx, "account updated", slog.Int64("account_id", in.ID))

	return updated, nil
}

func (s *AccountService) notFound(ctx context.Context) error {
	return domain.NewNotFoundError(s.messages.Message(MessageAccountNotFound, i18n.LocaleFromContext(ctx)))
}

// log prefers the request-scoped logger so request and correlation IDs
// are attached.
func (s *AccountService) log(ctx context.Context) *slog.Logger {
	if logging.HasLogger(ctx) {
		return logging.FromContext(ctx).With(slog.String("component", "app.AccountService"))
	}

	return s.logger
}

func derefID(a *domain.Account) int64 {
	if a == nil || a.ID == nil {
		return 0
	}

	return *a.ID
}
