/*
expense.go - Expense poster

LEDGER FOOTPRINT (reference family "expense-<id>"):
  Debit the expense account, credit the source cash/bank account. Always
  two-sided, so the zero-sum assertion applies.

UPDATE SEMANTICS:
  Delete the old ledger family and re-derive rows from the new values.
  There is no dependent-entity mutation to reverse.
*/
package clinic

import (
	"context"

	"github.com/atlasclinic/ledger-engine/ledger"
)

// CreateExpense persists the expense and posts its two ledger rows.
func (s *Service) CreateExpense(ctx context.Context, e Expense) (ExpenseResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := validateExpense(e); err != nil {
		return ExpenseResult{}, err
	}
	id, err := s.stores.Expenses.Put(ctx, e)
	if err != nil {
		return ExpenseResult{}, err
	}
	e.ID = id

	entries, err := s.postExpense(ctx, e)
	if err != nil {
		return ExpenseResult{}, err
	}
	return ExpenseResult{Expense: e, Entries: entries}, nil
}

// UpdateExpense replaces the ledger footprint with rows derived from the
// new values; functionally delete+recreate.
func (s *Service) UpdateExpense(ctx context.Context, e Expense) (ExpenseResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.stores.Expenses.Get(ctx, e.ID); err != nil {
		return ExpenseResult{}, err
	}
	if err := validateExpense(e); err != nil {
		return ExpenseResult{}, err
	}

	deleted, err := s.ledger.Reverse(ctx, ledger.Ref(ledger.RefExpense, e.ID))
	if err != nil {
		return ExpenseResult{}, err
	}
	if _, err := s.stores.Expenses.Put(ctx, e); err != nil {
		return ExpenseResult{}, err
	}
	entries, err := s.postExpense(ctx, e)
	if err != nil {
		return ExpenseResult{}, err
	}
	return ExpenseResult{Expense: e, Entries: entries, DeletedEntryIDs: deleted}, nil
}

// DeleteExpense reverses the ledger family and removes the expense.
func (s *Service) DeleteExpense(ctx context.Context, id int64) (ExpenseResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.stores.Expenses.Get(ctx, id)
	if err != nil {
		return ExpenseResult{}, err
	}
	deleted, err := s.ledger.Reverse(ctx, ledger.Ref(ledger.RefExpense, id))
	if err != nil {
		return ExpenseResult{}, err
	}
	if err := s.stores.Expenses.Delete(ctx, id); err != nil {
		return ExpenseResult{}, err
	}
	return ExpenseResult{Expense: e, DeletedEntryIDs: deleted}, nil
}

func (s *Service) postExpense(ctx context.Context, e Expense) ([]ledger.Entry, error) {
	ref := ledger.Ref(ledger.RefExpense, e.ID)
	return s.ledger.Post(ctx, ref, []ledger.Entry{
		{Date: e.Date, Description: e.Description, AccountID: e.ExpenseAccountID, Debit: e.Amount, ReferenceID: ref},
		{Date: e.Date, Description: e.Description, AccountID: e.SourceAccountID, Credit: e.Amount, ReferenceID: ref},
	})
}

func validateExpense(e Expense) error {
	if e.Amount <= 0 {
		return &ledger.ValidationError{Field: "amount", Reason: "must be positive"}
	}
	if e.ExpenseAccountID == 0 || e.SourceAccountID == 0 {
		return &ledger.ValidationError{Field: "accountId", Reason: "expense needs both an expense and a source account"}
	}
	return nil
}
