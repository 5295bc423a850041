package shared

import "errors"

// Closed error taxonomy for ledger operations. Every operation resolves to
// one of these before the gate converts it into a response envelope.
var (
	// ErrUnauthenticated indicates the caller has no session.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrValidation indicates input violating a data-model invariant.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound indicates the referenced entity id does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate indicates a uniqueness conflict.
	ErrDuplicate = errors.New("duplicate entry")
	// ErrAccountInUse indicates an account delete was rejected because
	// transactions still reference it.
	ErrAccountInUse = errors.New("account has transactions")
	// ErrStorageTimeout indicates the storage connection attempt timed out.
	ErrStorageTimeout = errors.New("storage connect timeout")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
