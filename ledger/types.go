/*
Package ledger provides the core posting engine for the clinic accounting
system.

PURPOSE:
  This package contains the domain-agnostic pieces of the financial core:
  the ledger entry model, the store contract, derived balance calculation,
  and local-calendar date handling. Business events (payments, expenses,
  invoices, ...) live in the clinic package and use this engine to create
  and reverse their ledger footprint.

KEY CONCEPTS IN THIS FILE (types.go):
  - Entry: one debit-or-credit line against one account
  - Account: a node in the chart-of-accounts tree (balance is never stored)
  - Reference: "<eventType>-<eventId>" key tying entries to their event

DESIGN PRINCIPLES:
  1. Entries are never edited in place: corrections reverse the whole
     reference family and re-post.
  2. All monetary values are int64 in the smallest currency unit.
  3. Dates are local-calendar "Y/M/D" strings, compared only through
     ToSortable (dates.go).

SEE ALSO:
  - store.go: persistence contract for entries
  - ledger.go: Post/Reverse operations over the store
  - balance.go: derived account balances
*/
package ledger

import "fmt"

// =============================================================================
// ACCOUNT - Chart of accounts node
// =============================================================================

// MainType classifies an account for statement purposes.
type MainType string

const (
	MainTypeAsset     MainType = "asset"
	MainTypeLiability MainType = "liability"
	MainTypeEquity    MainType = "equity"
	MainTypeIncome    MainType = "income"
	MainTypeExpense   MainType = "expense"
)

// Account is a node in the chart-of-accounts tree. ParentID == 0 means root.
// Balance is always derived from ledger entries, never stored here.
type Account struct {
	ID       int64
	Name     string
	MainType MainType
	Code     string
	ParentID int64
}

// DebitPositive reports whether this account type grows with debits.
// Asset and Expense accounts are debit-positive; Liability, Equity and
// Income accounts are credit-positive.
func (t MainType) DebitPositive() bool {
	return t == MainTypeAsset || t == MainTypeExpense
}

// =============================================================================
// ENTRY - One debit-or-credit ledger line
// =============================================================================

// Entry is a single dated ledger line. Exactly one of Debit/Credit is
// expected to be nonzero in normal postings. ReferenceID links the entry to
// the business event that created it and is the sole reversal mechanism.
type Entry struct {
	ID          int64
	Date        string // local calendar "Y/M/D"
	Description string
	AccountID   int64
	Debit       int64
	Credit      int64
	ReferenceID string
}

// Signed returns debit minus credit. The core balance primitive is
// type-agnostic; statement contexts sign-adjust via MainType.
func (e Entry) Signed() int64 { return e.Debit - e.Credit }

// =============================================================================
// REFERENCE - Event reference keys
// =============================================================================

// Event kinds used in reference keys. The key format "<kind>-<id>" is the
// contract between posters and the store's reference index.
const (
	RefPayment  = "payment"
	RefExpense  = "expense"
	RefTransfer = "transfer"
	RefClaim    = "claim"
)

// Ref builds a reference key for an event with a numeric id.
func Ref(kind string, id int64) string {
	return fmt.Sprintf("%s-%d", kind, id)
}

// RefString builds a reference key for an event with a string id.
func RefString(kind, id string) string {
	return fmt.Sprintf("%s-%s", kind, id)
}

// =============================================================================
// ACCOUNT DIRECTORY - Read-only reference data
// =============================================================================

// AccountDirectory exposes the account tree as read-only reference data.
// The engine never mutates accounts; it only resolves them for balance
// roll-ups and posting validation.
type AccountDirectory interface {
	// Account returns the account with the given id, or ErrAccountNotFound.
	Account(id int64) (Account, error)

	// Children returns the direct children of the given account id.
	Children(id int64) ([]Account, error)

	// Accounts returns every account in the directory.
	Accounts() ([]Account, error)
}
