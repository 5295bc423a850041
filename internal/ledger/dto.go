package ledger

import "time"

// CreateAccountRequest registers a new counterparty. The optional opening
// amount lands on the side named by AmountType; the other side starts at
// zero.
type CreateAccountRequest struct {
	Name        string     `json:"name" validate:"required,max=200"`
	AccountType string     `json:"accountType" validate:"required,oneof=buyer seller bank employee"`
	PhoneNumber *string    `json:"phoneNumber,omitempty" validate:"omitempty,max=50"`
	Address     *string    `json:"address,omitempty" validate:"omitempty,max=500"`
	Email       *string    `json:"email,omitempty" validate:"omitempty,email"`
	Details     *string    `json:"details,omitempty"`
	Date        *time.Time `json:"date,omitempty"`
	Amount      float64    `json:"amount" validate:"gte=0"`
	AmountType  string     `json:"amountType,omitempty" validate:"omitempty,oneof=lend borrow"`
}

// UpdateAccountRequest carries the mutable fields. AccountType, Lend and
// Borrow are deliberately absent: the type is immutable and balances only
// move through transaction recording.
type UpdateAccountRequest struct {
	Name        *string    `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	PhoneNumber *string    `json:"phoneNumber,omitempty" validate:"omitempty,max=50"`
	Address     *string    `json:"address,omitempty" validate:"omitempty,max=500"`
	Email       *string    `json:"email,omitempty" validate:"omitempty,email"`
	Details     *string    `json:"details,omitempty"`
	Date        *time.Time `json:"date,omitempty"`
}

// ListAccountsRequest filters the account listing.
type ListAccountsRequest struct {
	AccountType string  `json:"accountType,omitempty"`
	Search      *string `json:"search,omitempty"`
	Limit       int     `json:"limit"`
	Offset      int     `json:"offset"`
}
