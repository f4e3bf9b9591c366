/*
ledger.go - Posting and reversal over the entry store

PURPOSE:
  The Ledger is the single write path for ledger entries. Posters hand it a
  derived set of rows for a business event; it validates them and appends
  them tagged with the event's reference key. Reversal deletes the whole
  reference family and reports which ids went away so callers can patch
  their caches without a full reload.

INVARIANTS:
  - Every row in one Post call carries the same, non-empty referenceId.
  - Rows never carry negative amounts, and never both debit and credit.
  - A two-sided posting must sum to zero signed amount (balanced). Posters
    that legitimately produce a single cash leg declare it with PostSingle.

CORRECTIONS:
  There is no row edit. An event update reverses the old family and posts a
  new one; the end state equals delete+recreate.

SEE ALSO:
  - store.go: persistence contract
  - clinic package: the posters driving Post/Reverse
*/
package ledger

import "context"

// =============================================================================
// LEDGER - Write path for postings
// =============================================================================

// Ledger validates and writes reference-tagged entry families.
type Ledger struct {
	Store Store
}

func NewLedger(store Store) *Ledger {
	return &Ledger{Store: store}
}

// Post appends a balanced entry family for one business event. All entries
// must share referenceID and sum to zero signed amount.
func (l *Ledger) Post(ctx context.Context, referenceID string, entries []Entry) ([]Entry, error) {
	if err := l.validate(referenceID, entries); err != nil {
		return nil, err
	}
	var sum int64
	for _, e := range entries {
		sum += e.Signed()
	}
	if sum != 0 {
		return nil, ErrUnbalancedPosting
	}
	return l.Store.AppendBatch(ctx, entries)
}

// PostSingle appends a one-row family. Some payment postings move only the
// cash side (no invoice or payable linkage), so a balance check does not
// apply to them.
func (l *Ledger) PostSingle(ctx context.Context, referenceID string, entry Entry) ([]Entry, error) {
	if err := l.validate(referenceID, []Entry{entry}); err != nil {
		return nil, err
	}
	return l.Store.AppendBatch(ctx, []Entry{entry})
}

// Reverse deletes every entry tagged with referenceID and returns the ids
// of the deleted rows. Reversing an empty family is a no-op, not an error:
// replays against a restored store must stay idempotent.
func (l *Ledger) Reverse(ctx context.Context, referenceID string) ([]int64, error) {
	entries, err := l.Store.FindByReference(ctx, referenceID)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}
	ids := make([]int64, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ID)
	}
	if err := l.Store.DeleteMany(ctx, ids); err != nil {
		return nil, err
	}
	return ids, nil
}

func (l *Ledger) validate(referenceID string, entries []Entry) error {
	if referenceID == "" {
		return &ValidationError{Field: "referenceId", Reason: "must not be empty"}
	}
	if len(entries) == 0 {
		return &ValidationError{Field: "entries", Reason: "must not be empty"}
	}
	for _, e := range entries {
		if e.ReferenceID != referenceID {
			return &ValidationError{Field: "referenceId", Reason: "all entries in a posting must share the event reference"}
		}
		if e.Debit < 0 || e.Credit < 0 {
			return &ValidationError{Field: "amount", Reason: "debit and credit must be non-negative"}
		}
		if e.Debit != 0 && e.Credit != 0 {
			return &ValidationError{Field: "amount", Reason: "an entry is either a debit or a credit, not both"}
		}
		if e.AccountID == 0 {
			return &ValidationError{Field: "accountId", Reason: "must reference an account"}
		}
	}
	return nil
}
