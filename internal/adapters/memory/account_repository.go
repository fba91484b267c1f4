// Package memory provides an in-process AccountRepository for local runs
// and tests. Nothing survives a restart.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/bytestream/account-service/internal/domain"
)

// AccountRepository stores accounts in a map keyed by identity.
// Identities are assigned from a counter starting at 1.
type AccountRepository struct {
	mu       sync.RWMutex
	accounts map[int64]*domain.Account
	nextID   int64
}

// NewAccountRepository creates an empty store.
func NewAccountRepository() *AccountRepository {
	return &AccountRepository{
		accounts: make(map[int64]*domain.Account),
		nextID:   1,
	}
}

// FindByID returns a copy of the stored account.
func (r *AccountRepository) FindByID(ctx context.Context, id int64) (*domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	account, ok := r.accounts[id]
	if !ok {
		return nil, fmt.Errorf("account %d: %w", id, domain.ErrNotFound)
	}

	return clone(account), nil
}

// Save assigns the next identity and stores a copy of account.
func (r *AccountRepository) Save(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored := clone(account)
	id := r.nextID
	stored.ID = &id
	r.nextID++

	r.accounts[id] = stored

	return clone(stored), nil
}

// Update replaces the stored account wholesale.
func (r *AccountRepository) Update(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if !account.Persisted() {
		return nil, fmt.Errorf("update without identity: %w", domain.ErrNotFound)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id := *account.ID
	if _, ok := r.accounts[id]; !ok {
		return nil, fmt.Errorf("account %d: %w", id, domain.ErrNotFound)
	}

	r.accounts[id] = clone(account)

	return clone(account), nil
}

// Len reports how many accounts are stored.
func (r *AccountRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.accounts)
}

func clone(a *domain.Account) *domain.Account {
	return &domain.Account{
		ID:            clonePtr(a.ID),
		ConsumerID:    clonePtr(a.ConsumerID),
		ProductID:     clonePtr(a.ProductID),
		Name:          clonePtr(a.Name),
		DepositAcct:   clonePtr(a.DepositAcct),
		CollectedDate: clonePtr(a.CollectedDate),
		Denied:        clonePtr(a.Denied),
	}
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}

	v := *p

	return &v
}
