package dto

import (
	"time"

	"github.com/bytestream/account-service/internal/domain"
)

// AccountCreateRequest is the body of POST /account.
// Every field is a pointer so that an absent value reaches the validator
// instead of failing the JSON decode.
type AccountCreateRequest struct {
	ConsumerID    *int64     `json:"consumerId" validate:"required"`
	ProductID     *int64     `json:"productId" validate:"required"`
	Name          *string    `json:"name"`
	DepositAcct   *string    `json:"depositAcct" validate:"notblank"`
	CollectedDate *time.Time `json:"collectedDate"`
	Denied        *time.Time `json:"denied"`
}

// AccountUpdateRequest is the body of PUT /account.
// Every field except id overwrites the stored value, null included.
type AccountUpdateRequest struct {
	ID            *int64     `json:"id" validate:"required"`
	ConsumerID    *int64     `json:"consumerId" validate:"required"`
	ProductID     *int64     `json:"productId" validate:"required"`
	Name          *string    `json:"name"`
	DepositAcct   *string    `json:"depositAcct" validate:"notblank"`
	CollectedDate *time.Time `json:"collectedDate"`
	Denied        *time.Time `json:"denied"`
}

// AccountResponse is the JSON shape of an account. Absent values are
// written as null.
type AccountResponse struct {
	ID            *int64     `json:"id"`
	ConsumerID    *int64     `json:"consumerId"`
	ProductID     *int64     `json:"productId"`
	Name          *string    `json:"name"`
	DepositAcct   *string    `json:"depositAcct"`
	CollectedDate *time.Time `json:"collectedDate"`
	Denied        *time.Time `json:"denied"`
}

// NewAccountResponse converts a domain Account to its HTTP representation.
func NewAccountResponse(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:            a.ID,
		ConsumerID:    a.ConsumerID,
		ProductID:     a.ProductID,
		Name:          a.Name,
		DepositAcct:   a.DepositAcct,
		CollectedDate: a.CollectedDate,
		Denied:        a.Denied,
	}
}
