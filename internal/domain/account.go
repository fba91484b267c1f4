// Package domain contains core business entities and rules.
package domain

import "time"

// Account is the sole persisted entity of the service.
//
// ID is nil until the record is first persisted and never changes afterwards.
// Every other field is nullable so that partial records round-trip unchanged.
type Account struct {
	ID            *int64
	ConsumerID    *int64
	ProductID     *int64
	Name          *string
	DepositAcct   *string
	CollectedDate *time.Time
	Denied        *time.Time
}

// Persisted reports whether the account has been assigned an identity.
func (a *Account) Persisted() bool {
	return a != nil && a.ID != nil
}
