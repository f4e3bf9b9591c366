/*
errors.go - Centralized error types for the posting engine

PURPOSE:
  All error kinds of the financial core in one place. Domain code (the
  clinic package) wraps these with additional context where useful.

ERROR CATEGORIES:
  1. Not-found errors - update/delete against a missing entity
  2. Validation errors - missing linkage, bad amounts, unbalanced postings
  3. Stock errors - an inventory "out" that would go negative
  4. Integrity warnings - ledger rows pointing at entities that no longer
     exist (must never crash a balance calculation)

USAGE:
    if errors.Is(err, ledger.ErrNotFound) { ... }
    var stockErr *ledger.InsufficientStockError
    if errors.As(err, &stockErr) { ... }

SEE ALSO:
  - store.go, ledger.go: producers of these errors
  - clinic package: posters surface them synchronously to callers
*/
package ledger

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrNotFound is returned when a referenced entity is missing, e.g. an
	// update or delete against an unknown id.
	ErrNotFound = errors.New("entity not found")

	// ErrAccountNotFound is returned by AccountDirectory lookups.
	ErrAccountNotFound = errors.New("account not found")

	// ErrInsufficientStock is returned when an inventory "out" adjustment
	// would drive the on-hand quantity negative.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrValidation is returned for invalid poster input, e.g. a payment
	// amount without a destination account.
	ErrValidation = errors.New("validation failed")

	// ErrUnbalancedPosting is returned when a two-sided posting does not sum
	// to zero signed amount. Single-leg cash postings are exempt by design.
	ErrUnbalancedPosting = errors.New("unbalanced posting")

	// ErrAccountCycle is returned by the defensive cycle guard during
	// descendant balance roll-up. Parent pointers are acyclic by
	// construction, so hitting this indicates corrupted reference data.
	ErrAccountCycle = errors.New("account tree cycle detected")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// NotFoundError identifies which entity of which collection was missing.
type NotFoundError struct {
	Collection string
	Key        string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Collection, e.Key)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// InsufficientStockError reports the shortfall of a rejected "out" move.
type InsufficientStockError struct {
	ItemID    int64
	OnHand    int64
	Requested int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for item %d: on hand %d, requested %d",
		e.ItemID, e.OnHand, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// ValidationError describes a single invalid field on poster input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// ReferenceIntegrityWarning flags a ledger row whose referenceId points at
// an entity that no longer exists. It should not occur when cascade rules
// are followed; consumers treat the row as zero-effect and carry on.
type ReferenceIntegrityWarning struct {
	ReferenceID string
	EntryID     int64
}

func (e *ReferenceIntegrityWarning) Error() string {
	return fmt.Sprintf("ledger entry %d references missing event %q",
		e.EntryID, e.ReferenceID)
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound reports whether the error indicates a missing entity.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrAccountNotFound)
}

// IsClientError reports whether the error is due to invalid caller input
// rather than an engine fault.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInsufficientStock) ||
		errors.Is(err, ErrUnbalancedPosting)
}
