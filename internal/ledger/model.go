package ledger

import (
	"time"

	"github.com/google/uuid"
)

// AccountType enumerates counterparty kinds. Fixed at creation.
type AccountType string

const (
	TypeBuyer    AccountType = "buyer"
	TypeSeller   AccountType = "seller"
	TypeBank     AccountType = "bank"
	TypeEmployee AccountType = "employee"
)

// Valid reports whether t is a known account type.
func (t AccountType) Valid() bool {
	switch t {
	case TypeBuyer, TypeSeller, TypeBank, TypeEmployee:
		return true
	}
	return false
}

// AmountType tags which side of the ledger an amount lands on: lend is owed
// to the ledger owner, borrow is owed by the ledger owner.
type AmountType string

const (
	AmountLend   AmountType = "lend"
	AmountBorrow AmountType = "borrow"
)

// Valid reports whether a is a known amount type.
func (a AmountType) Valid() bool {
	return a == AmountLend || a == AmountBorrow
}

// Account is a ledger counterparty with running receivable/payable totals.
// Lend and Borrow only move through transaction recording or the opening
// amount at creation; they are never written directly by updates.
type Account struct {
	ID          uuid.UUID   `json:"id"`
	Name        string      `json:"name"`
	AccountType AccountType `json:"accountType"`
	Lend        float64     `json:"lend"`
	Borrow      float64     `json:"borrow"`
	PhoneNumber *string     `json:"phoneNumber,omitempty"`
	Address     *string     `json:"address,omitempty"`
	Email       *string     `json:"email,omitempty"`
	Details     *string     `json:"details,omitempty"`
	Date        time.Time   `json:"date"`
	AfgDate     string      `json:"afgDate"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}
