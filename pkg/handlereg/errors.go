package handlereg

import (
	"errors"
	"fmt"
)

// Sentinel errors for the error-returning forms of registry operations.
// The core operations report the same conditions as plain bool and nil results.
var (
	// ErrDuplicateIdentity indicates an insert of an identity that is already live.
	ErrDuplicateIdentity = errors.New("identity already present")

	// ErrNotFound indicates the identity is not currently live.
	// It does not distinguish never-inserted from already-erased.
	ErrNotFound = errors.New("identity not found")

	// ErrCorrupted indicates the internal tables disagree with each other.
	ErrCorrupted = errors.New("registry invariant violated")
)

// IdentityError wraps an identity-level failure with table context.
type IdentityError struct {
	// Table is the registry name.
	Table string
	// ID is the identity the operation was given.
	ID uint64
	// Op is the operation that failed ("insert", "erase").
	Op string
	// Err is ErrDuplicateIdentity or ErrNotFound.
	Err error
}

// Error implements the error interface.
func (e *IdentityError) Error() string {
	return fmt.Sprintf("%s %s %d: %v", e.Table, e.Op, e.ID, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *IdentityError) Unwrap() error {
	return e.Err
}

// InvariantError describes the first inconsistency Check found.
type InvariantError struct {
	// Table is the registry name.
	Table string
	// Invariant names the broken property, e.g. "slot-roundtrip".
	Invariant string
	// Detail describes the offending indices.
	Detail string
}

// Error implements the error interface.
func (e *InvariantError) Error() string {
	return fmt.Sprintf("registry %s: %s: %s", e.Table, e.Invariant, e.Detail)
}

// Unwrap returns ErrCorrupted for errors.Is support.
func (e *InvariantError) Unwrap() error {
	return ErrCorrupted
}
