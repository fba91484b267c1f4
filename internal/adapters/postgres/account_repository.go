package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bytestream/account-service/internal/domain"
	"github.com/bytestream/account-service/internal/platform/logging"
)

const accountColumns = `id, consumerid, productid, name, depositacct, collecteddate, denied`

const (
	selectAccountSQL = `SELECT ` + accountColumns + ` FROM account WHERE id = $1`

	insertAccountSQL = `INSERT INTO account (consumerid, productid, name, depositacct, collecteddate, denied)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + accountColumns

	// Single statement, so the overwrite is atomic without an explicit transaction.
	updateAccountSQL = `UPDATE account
SET consumerid = $2, productid = $3, name = $4, depositacct = $5, collecteddate = $6, denied = $7
WHERE id = $1
RETURNING ` + accountColumns
)

type dbtx interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Query(context.Context, string, ...any) (pgx.Rows, error)
	QueryRow(context.Context, string, ...any) pgx.Row
}

type pinger interface {
	Ping(ctx context.Context) error
}

// AccountRepository is the Postgres-backed account store. It also reports
// pool health to the readiness probe.
type AccountRepository struct {
	db     dbtx
	pinger pinger
	logger *slog.Logger
}

// NewAccountRepository creates a repository on top of pool.
func NewAccountRepository(pool *pgxpool.Pool, logger *slog.Logger) *AccountRepository {
	return newAccountRepository(pool, pool, logger)
}

func newAccountRepository(db dbtx, p pinger, logger *slog.Logger) *AccountRepository {
	if logger == nil {
		logger = slog.Default()
	}

	return &AccountRepository{
		db:     db,
		pinger: p,
		logger: logger.With(slog.String("component", "postgres.AccountRepository")),
	}
}

// FindByID loads one account. Returns domain.ErrNotFound if no row matches.
func (r *AccountRepository) FindByID(ctx context.Context, id int64) (*domain.Account, error) {
	account, err := scanAccount(r.db.QueryRow(ctx, selectAccountSQL, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("postgres: account %d: %w", id, domain.ErrNotFound)
		}

		return nil, fmt.Errorf("postgres: select account %d: %w", id, err)
	}

	r.trace(ctx, "account loaded", account)

	return account, nil
}

// Save inserts account and returns the stored row with its new identity.
// Any ID already set on account is ignored.
func (r *AccountRepository) Save(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	saved, err := scanAccount(r.db.QueryRow(ctx, insertAccountSQL,
		account.ConsumerID,
		account.ProductID,
		account.Name,
		account.DepositAcct,
		account.CollectedDate,
		account.Denied,
	))
	if err != nil {
		return nil, fmt.Errorf("postgres: insert account: %w", err)
	}

	r.trace(ctx, "account inserted", saved)

	return saved, nil
}

// Update overwrites every column of an existing row, nulls included.
// Returns domain.ErrNotFound if the row is gone.
func (r *AccountRepository) Update(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	if !account.Persisted() {
		return nil, fmt.Errorf("postgres: update without identity: %w", domain.ErrNotFound)
	}

	id := *account.ID

	updated, err := scanAccount(r.db.QueryRow(ctx, updateAccountSQL,
		id,
		account.ConsumerID,
		account.ProductID,
		account.Name,
		account.DepositAcct,
		account.CollectedDate,
		account.Denied,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("postgres: account %d: %w", id, domain.ErrNotFound)
		}

		return nil, fmt.Errorf("postgres: update account %d: %w", id, err)
	}

	r.trace(ctx, "account updated", updated)

	return updated, nil
}

// Name identifies the store in readiness output.
func (r *AccountRepository) Name() string {
	return "postgres"
}

// Check pings the pool.
func (r *AccountRepository) Check(ctx context.Context) error {
	return r.pinger.Ping(ctx)
}

func (r *AccountRepository) trace(ctx context.Context, msg string, a *domain.Account) {
	if !r.logger.Enabled(ctx, logging.LevelTrace) {
		return
	}

	var id int64
	if a.ID != nil {
		id = *a.ID
	}

	r.logger.Log(ctx, logging.LevelTrace, msg, slog.Int64("account_id", id))
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var a domain.Account

	err := row.Scan(
		&a.ID,
		&a.ConsumerID,
		&a.ProductID,
		&a.Name,
		&a.DepositAcct,
		&a.CollectedDate,
		&a.Denied,
	)
	if err != nil {
		return nil, err
	}

	a.CollectedDate = utc(a.CollectedDate)
	a.Denied = utc(a.Denied)

	return &a, nil
}

// utc normalizes timestamptz values, which pgx decodes in the local zone.
func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}

	u := t.UTC()

	return &u
}
