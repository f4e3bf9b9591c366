/*
store.go - Persistence contract for ledger entries

PURPOSE:
  Defines the interface between the posting engine and whatever holds the
  ledger rows. Implementations exist for memory (ledger/store) and SQLite
  (store/sqlite). The contract deliberately mirrors the abstract key-value
  layer the engine was designed against: append, list, delete-by-ids.

REFERENCE INDEX:
  Reversal is "delete every row tagged with a referenceId". The store is
  REQUIRED to answer FindByReference without an O(n) scan - memory keeps a
  map from referenceId to row ids, SQLite keeps an index on the column.
  Manual cascade via these string tags substitutes for foreign-key cascade.

WHAT THE STORE DOES NOT DO:
  No balanced debit/credit enforcement across a logical transaction. That
  discipline belongs to the posters. The only row-level validation is
  non-negative amounts.

SEE ALSO:
  - ledger.go: Post/Reverse built on this contract
  - ledger/store/memory.go, store/sqlite: implementations
*/
package ledger

import "context"

// =============================================================================
// STORE - Ledger entry persistence
// =============================================================================

// Store persists ledger entries. Entries are created by posters and deleted
// only as part of a reversal; they are never edited in place.
type Store interface {
	// Append persists one entry and returns its assigned id.
	// Rejects negative debit or credit amounts.
	Append(ctx context.Context, e Entry) (int64, error)

	// AppendBatch persists several entries, all or nothing where the
	// backing store supports it, and returns the entries with ids set.
	AppendBatch(ctx context.Context, entries []Entry) ([]Entry, error)

	// FindByReference returns all entries tagged with the reference key,
	// using the store's reference index.
	FindByReference(ctx context.Context, referenceID string) ([]Entry, error)

	// DeleteMany removes the entries with the given ids. Missing ids are
	// ignored: a reversal replayed against a bulk-restored store must not
	// fail on rows that are already gone.
	DeleteMany(ctx context.Context, ids []int64) error

	// ListAll returns every entry, ordered by sortable date then id.
	ListAll(ctx context.Context) ([]Entry, error)

	// ListInRange returns entries within [from, to] (empty bounds open),
	// optionally filtered to one account (accountID == 0 means all).
	// Entries with unparseable dates are excluded from bounded ranges.
	ListInRange(ctx context.Context, accountID int64, from, to string) ([]Entry, error)
}
