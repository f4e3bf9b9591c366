/*
transfer.go - Inter-account transfer poster

LEDGER FOOTPRINT (reference family "transfer-<id>"):
  Credit the source account, debit the destination account. Always
  two-sided and zero-sum.
*/
package clinic

import (
	"context"

	"github.com/atlasclinic/ledger-engine/ledger"
)

// CreateTransfer persists the transfer and posts its two ledger rows.
func (s *Service) CreateTransfer(ctx context.Context, t Transfer) (TransferResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := validateTransfer(t); err != nil {
		return TransferResult{}, err
	}
	id, err := s.stores.Transfers.Put(ctx, t)
	if err != nil {
		return TransferResult{}, err
	}
	t.ID = id

	entries, err := s.postTransfer(ctx, t)
	if err != nil {
		return TransferResult{}, err
	}
	return TransferResult{Transfer: t, Entries: entries}, nil
}

// UpdateTransfer replaces the ledger footprint with rows derived from the
// new values; functionally delete+recreate.
func (s *Service) UpdateTransfer(ctx context.Context, t Transfer) (TransferResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.stores.Transfers.Get(ctx, t.ID); err != nil {
		return TransferResult{}, err
	}
	if err := validateTransfer(t); err != nil {
		return TransferResult{}, err
	}

	deleted, err := s.ledger.Reverse(ctx, ledger.Ref(ledger.RefTransfer, t.ID))
	if err != nil {
		return TransferResult{}, err
	}
	if _, err := s.stores.Transfers.Put(ctx, t); err != nil {
		return TransferResult{}, err
	}
	entries, err := s.postTransfer(ctx, t)
	if err != nil {
		return TransferResult{}, err
	}
	return TransferResult{Transfer: t, Entries: entries, DeletedEntryIDs: deleted}, nil
}

// DeleteTransfer reverses the ledger family and removes the transfer.
func (s *Service) DeleteTransfer(ctx context.Context, id int64) (TransferResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.stores.Transfers.Get(ctx, id)
	if err != nil {
		return TransferResult{}, err
	}
	deleted, err := s.ledger.Reverse(ctx, ledger.Ref(ledger.RefTransfer, id))
	if err != nil {
		return TransferResult{}, err
	}
	if err := s.stores.Transfers.Delete(ctx, id); err != nil {
		return TransferResult{}, err
	}
	return TransferResult{Transfer: t, DeletedEntryIDs: deleted}, nil
}

func (s *Service) postTransfer(ctx context.Context, t Transfer) ([]ledger.Entry, error) {
	ref := ledger.Ref(ledger.RefTransfer, t.ID)
	return s.ledger.Post(ctx, ref, []ledger.Entry{
		{Date: t.Date, Description: t.Description, AccountID: t.FromAccountID, Credit: t.Amount, ReferenceID: ref},
		{Date: t.Date, Description: t.Description, AccountID: t.ToAccountID, Debit: t.Amount, ReferenceID: ref},
	})
}

func validateTransfer(t Transfer) error {
	if t.Amount <= 0 {
		return &ledger.ValidationError{Field: "amount", Reason: "must be positive"}
	}
	if t.FromAccountID == 0 || t.ToAccountID == 0 {
		return &ledger.ValidationError{Field: "accountId", Reason: "transfer needs both a source and a destination account"}
	}
	if t.FromAccountID == t.ToAccountID {
		return &ledger.ValidationError{Field: "accountId", Reason: "source and destination must differ"}
	}
	return nil
}
