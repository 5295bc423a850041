// Package txn records ledger transactions: receive, pay, external proceed
// and cost. Account-bound kinds adjust the referenced account's tagged
// balance side in the same storage transaction as the record itself, so the
// ledger never drifts from its transactions.
package txn

import (
	"time"

	"github.com/google/uuid"

	"github.com/daftar-ledger/daftar/internal/ledger"
)

// Kind discriminates the four record kinds sharing one shape.
type Kind string

const (
	KindReceive Kind = "receive"
	KindPay     Kind = "pay"
	KindProceed Kind = "proceed"
	KindCost    Kind = "cost"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	switch k {
	case KindReceive, KindPay, KindProceed, KindCost:
		return true
	}
	return false
}

// AccountBound reports whether records of this kind reference an account.
// Costs are the only account-independent kind.
func (k Kind) AccountBound() bool {
	return k != KindCost
}

// Transaction is one ledger record. Kind and AccountID are fixed at
// recording time; AmountType is empty exactly for costs.
type Transaction struct {
	ID         uuid.UUID         `json:"id"`
	Kind       Kind              `json:"kind"`
	AccountID  *uuid.UUID        `json:"accountId,omitempty"`
	Amount     float64           `json:"amount"`
	AmountType ledger.AmountType `json:"amountType,omitempty"`
	Title      string            `json:"title"`
	Details    *string           `json:"details,omitempty"`
	Date       time.Time         `json:"date"`
	AfgDate    string            `json:"afgDate"`
	CreatedAt  time.Time         `json:"createdAt"`
	UpdatedAt  time.Time         `json:"updatedAt"`
}

// MonthlyCost is one row of the cost report, grouped by localized month.
type MonthlyCost struct {
	Month string  `json:"month"`
	Total float64 `json:"total"`
	Count int     `json:"count"`
}
