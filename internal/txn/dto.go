package txn

import (
	"time"

	"github.com/google/uuid"
)

// RecordRequest creates a transaction. AccountID and AmountType are required
// for account-bound kinds and must be absent for costs.
type RecordRequest struct {
	Kind       string     `json:"kind" validate:"required,oneof=receive pay proceed cost"`
	AccountID  *uuid.UUID `json:"accountId,omitempty"`
	Amount     float64    `json:"amount" validate:"required,gt=0"`
	AmountType string     `json:"amountType,omitempty" validate:"omitempty,oneof=lend borrow"`
	Title      string     `json:"title" validate:"max=200"`
	Details    *string    `json:"details,omitempty"`
	Date       *time.Time `json:"date,omitempty"`
}

// UpdateRequest carries the mutable fields of an existing record. Kind and
// AccountID are deliberately absent; they are fixed at recording time.
type UpdateRequest struct {
	Amount     *float64   `json:"amount,omitempty" validate:"omitempty,gt=0"`
	AmountType *string    `json:"amountType,omitempty" validate:"omitempty,oneof=lend borrow"`
	Title      *string    `json:"title,omitempty" validate:"omitempty,max=200"`
	Details    *string    `json:"details,omitempty"`
	Date       *time.Time `json:"date,omitempty"`
}

// ListRequest filters the transaction listing.
type ListRequest struct {
	Kind      string     `json:"kind,omitempty"`
	AccountID *uuid.UUID `json:"accountId,omitempty"`
	Limit     int        `json:"limit"`
	Offset    int        `json:"offset"`
}
