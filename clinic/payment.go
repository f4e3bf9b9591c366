/*
payment.go - Payment poster

PURPOSE:
  Posts cash movements. A receipt debits the cash/bank account it lands on;
  if the payment is linked to an invoice it also credits the configured
  receivable account and moves the invoice's paid amount. A disbursement
  credits the cash/bank account it leaves from.

LEDGER FOOTPRINT (reference family "payment-<id>"):
  receipt, linked to invoice:  Debit cash, Credit receivable  (balanced)
  receipt, unlinked:           Debit cash                     (single leg)
  disbursement:                Credit cash                    (single leg)

DEPENDENT MUTATION:
  Invoice.PaidAmount tracks the sum of its linked payments exactly; status
  is recomputed on every add/update/delete.

SEE ALSO:
  - invoice.go: the cascade that deletes payments with their invoice
  - payroll.go, settlement.go: posters delegating to this one
*/
package clinic

import (
	"context"

	"github.com/atlasclinic/ledger-engine/ledger"
)

// CreatePayment persists a payment, posts its ledger rows and applies the
// invoice paid-amount mutation when linked.
func (s *Service) CreatePayment(ctx context.Context, p Payment) (PaymentResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createPayment(ctx, p)
}

// UpdatePayment reverses the previous version's full effect, then re-applies
// the poster against the new values. The end state equals delete+recreate.
func (s *Service) UpdatePayment(ctx context.Context, p Payment) (PaymentResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, err := s.stores.Payments.Get(ctx, p.ID)
	if err != nil {
		return PaymentResult{}, err
	}
	if err := s.validatePayment(ctx, p); err != nil {
		return PaymentResult{}, err
	}

	result := PaymentResult{Payment: p}

	// Reverse the old effect: invoice first, then the ledger family.
	if prev.InvoiceID != "" {
		if inv, ok, err := s.applyInvoiceDelta(ctx, prev.InvoiceID, -prev.Amount); err != nil {
			return PaymentResult{}, err
		} else if ok {
			result.Invoices = append(result.Invoices, inv)
		}
	}
	deleted, err := s.ledger.Reverse(ctx, ledger.Ref(ledger.RefPayment, p.ID))
	if err != nil {
		return PaymentResult{}, err
	}
	result.DeletedEntryIDs = deleted

	// Re-apply against the new values.
	if _, err := s.stores.Payments.Put(ctx, p); err != nil {
		return PaymentResult{}, err
	}
	entries, err := s.postPayment(ctx, p)
	if err != nil {
		return PaymentResult{}, err
	}
	result.Entries = entries

	if p.InvoiceID != "" {
		inv, _, err := s.applyInvoiceDelta(ctx, p.InvoiceID, p.Amount)
		if err != nil {
			return PaymentResult{}, err
		}
		result.Invoices = mergeInvoice(result.Invoices, inv)
	}
	return result, nil
}

// DeletePayment reverses the payment's full effect and removes it.
func (s *Service) DeletePayment(ctx context.Context, id int64) (PaymentResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deletePayment(ctx, id)
}

// =============================================================================
// INTERNALS (callers hold s.mu)
// =============================================================================

func (s *Service) createPayment(ctx context.Context, p Payment) (PaymentResult, error) {
	if err := s.validatePayment(ctx, p); err != nil {
		return PaymentResult{}, err
	}

	id, err := s.stores.Payments.Put(ctx, p)
	if err != nil {
		return PaymentResult{}, err
	}
	p.ID = id

	entries, err := s.postPayment(ctx, p)
	if err != nil {
		return PaymentResult{}, err
	}
	result := PaymentResult{Payment: p, Entries: entries}

	if p.InvoiceID != "" {
		inv, _, err := s.applyInvoiceDelta(ctx, p.InvoiceID, p.Amount)
		if err != nil {
			return PaymentResult{}, err
		}
		result.Invoices = append(result.Invoices, inv)
	}
	return result, nil
}

func (s *Service) deletePayment(ctx context.Context, id int64) (PaymentResult, error) {
	prev, err := s.stores.Payments.Get(ctx, id)
	if err != nil {
		return PaymentResult{}, err
	}
	result := PaymentResult{Payment: prev}

	if prev.InvoiceID != "" {
		if inv, ok, err := s.applyInvoiceDelta(ctx, prev.InvoiceID, -prev.Amount); err != nil {
			return PaymentResult{}, err
		} else if ok {
			result.Invoices = append(result.Invoices, inv)
		}
	}
	deleted, err := s.ledger.Reverse(ctx, ledger.Ref(ledger.RefPayment, id))
	if err != nil {
		return PaymentResult{}, err
	}
	result.DeletedEntryIDs = deleted

	if err := s.stores.Payments.Delete(ctx, id); err != nil {
		return PaymentResult{}, err
	}
	return result, nil
}

// postPayment derives and writes the ledger family for one payment.
func (s *Service) postPayment(ctx context.Context, p Payment) ([]ledger.Entry, error) {
	ref := ledger.Ref(ledger.RefPayment, p.ID)

	switch p.Direction {
	case DirectionReceipt:
		cash := ledger.Entry{
			Date:        p.Date,
			Description: p.Description,
			AccountID:   p.AccountID,
			Debit:       p.Amount,
			ReferenceID: ref,
		}
		if p.InvoiceID != "" {
			receivable := ledger.Entry{
				Date:        p.Date,
				Description: p.Description,
				AccountID:   s.settings.ReceivableAccountID,
				Credit:      p.Amount,
				ReferenceID: ref,
			}
			return s.ledger.Post(ctx, ref, []ledger.Entry{cash, receivable})
		}
		return s.ledger.PostSingle(ctx, ref, cash)

	case DirectionDisbursement:
		cash := ledger.Entry{
			Date:        p.Date,
			Description: p.Description,
			AccountID:   p.AccountID,
			Credit:      p.Amount,
			ReferenceID: ref,
		}
		return s.ledger.PostSingle(ctx, ref, cash)

	default:
		return nil, &ledger.ValidationError{Field: "direction", Reason: "must be receipt or disbursement"}
	}
}

// applyInvoiceDelta moves an invoice's paid amount and recomputes its
// status. A missing invoice on the reversal path is tolerated (the row is
// treated as zero-effect, per the reference-integrity policy) and reported
// via ok == false.
func (s *Service) applyInvoiceDelta(ctx context.Context, invoiceID string, delta int64) (Invoice, bool, error) {
	inv, err := s.stores.Invoices.Get(ctx, invoiceID)
	if err != nil {
		if delta < 0 && ledger.IsNotFound(err) {
			return Invoice{}, false, nil
		}
		return Invoice{}, false, err
	}
	inv.PaidAmount += delta
	inv.DeriveStatus()
	if err := s.stores.Invoices.Put(ctx, inv); err != nil {
		return Invoice{}, false, err
	}
	return inv, true, nil
}

func (s *Service) validatePayment(ctx context.Context, p Payment) error {
	if p.Amount <= 0 {
		return &ledger.ValidationError{Field: "amount", Reason: "must be positive"}
	}
	if p.AccountID == 0 {
		return &ledger.ValidationError{Field: "accountId", Reason: "payment needs a cash/bank account"}
	}
	if p.Direction != DirectionReceipt && p.Direction != DirectionDisbursement {
		return &ledger.ValidationError{Field: "direction", Reason: "must be receipt or disbursement"}
	}
	if p.InvoiceID != "" {
		if p.Direction != DirectionReceipt {
			return &ledger.ValidationError{Field: "invoiceId", Reason: "only receipts settle invoices"}
		}
		if s.settings.ReceivableAccountID == 0 {
			return &ledger.ValidationError{Field: "settings", Reason: "no receivable account configured"}
		}
		// The invoice must exist before anything is written.
		if _, err := s.stores.Invoices.Get(ctx, p.InvoiceID); err != nil {
			return err
		}
	}
	return nil
}

func mergeInvoice(invoices []Invoice, inv Invoice) []Invoice {
	for i, existing := range invoices {
		if existing.ID == inv.ID {
			invoices[i] = inv
			return invoices
		}
	}
	return append(invoices, inv)
}
