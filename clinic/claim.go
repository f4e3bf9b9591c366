/*
claim.go - Insurance claim settlement poster

PURPOSE:
  Claims move through pending/approved/paid/rejected. The ledger posting
  fires ONLY on the transition into "paid": debit the bank account, credit
  the receivable account, for the received amount. Re-saving a claim that
  is already paid must not double-post; moving a paid claim back out of
  "paid" reverses the family.

SAVE SEMANTICS:
  SaveClaim handles both create and update - the old status is whatever the
  store held before (or "not paid" for a brand new claim), and the posting
  decision compares old vs new status.
*/
package clinic

import (
	"context"

	"github.com/atlasclinic/ledger-engine/ledger"
)

// SaveClaim persists the claim and posts or reverses the settlement rows
// when the status crosses the "paid" boundary.
func (s *Service) SaveClaim(ctx context.Context, c InsuranceClaim) (ClaimResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := validateClaim(c); err != nil {
		return ClaimResult{}, err
	}

	wasPaid := false
	if c.ID != 0 {
		prev, err := s.stores.Claims.Get(ctx, c.ID)
		if err != nil {
			if !ledger.IsNotFound(err) {
				return ClaimResult{}, err
			}
			// Explicit id on a fresh claim (e.g. restored data): treat as create.
		} else {
			wasPaid = prev.Status == ClaimPaid
		}
	}

	id, err := s.stores.Claims.Put(ctx, c)
	if err != nil {
		return ClaimResult{}, err
	}
	c.ID = id
	result := ClaimResult{Claim: c}

	isPaid := c.Status == ClaimPaid
	switch {
	case isPaid && !wasPaid:
		entries, err := s.postClaim(ctx, c)
		if err != nil {
			return ClaimResult{}, err
		}
		result.Entries = entries
	case !isPaid && wasPaid:
		deleted, err := s.ledger.Reverse(ctx, ledger.Ref(ledger.RefClaim, c.ID))
		if err != nil {
			return ClaimResult{}, err
		}
		result.DeletedEntryIDs = deleted
	}
	// paid -> paid and unpaid -> unpaid: no ledger effect.
	return result, nil
}

// DeleteClaim reverses any settlement rows and removes the claim.
func (s *Service) DeleteClaim(ctx context.Context, id int64) (ClaimResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.stores.Claims.Get(ctx, id)
	if err != nil {
		return ClaimResult{}, err
	}
	deleted, err := s.ledger.Reverse(ctx, ledger.Ref(ledger.RefClaim, id))
	if err != nil {
		return ClaimResult{}, err
	}
	if err := s.stores.Claims.Delete(ctx, id); err != nil {
		return ClaimResult{}, err
	}
	return ClaimResult{Claim: c, DeletedEntryIDs: deleted}, nil
}

func (s *Service) postClaim(ctx context.Context, c InsuranceClaim) ([]ledger.Entry, error) {
	ref := ledger.Ref(ledger.RefClaim, c.ID)
	return s.ledger.Post(ctx, ref, []ledger.Entry{
		{Date: c.Date, Description: c.Description, AccountID: c.BankAccountID, Debit: c.ReceivedAmount, ReferenceID: ref},
		{Date: c.Date, Description: c.Description, AccountID: s.settings.ReceivableAccountID, Credit: c.ReceivedAmount, ReferenceID: ref},
	})
}

func validateClaim(c InsuranceClaim) error {
	if c.ClaimedAmount < 0 || c.ReceivedAmount < 0 {
		return &ledger.ValidationError{Field: "amount", Reason: "must be non-negative"}
	}
	if c.Status == ClaimPaid {
		if c.ReceivedAmount == 0 {
			return &ledger.ValidationError{Field: "receivedAmount", Reason: "a paid claim needs a received amount"}
		}
		if c.BankAccountID == 0 {
			return &ledger.ValidationError{Field: "bankAccountId", Reason: "a paid claim needs a bank account"}
		}
	}
	return nil
}
