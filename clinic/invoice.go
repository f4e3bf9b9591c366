/*
invoice.go - Invoice poster

PURPOSE:
  Invoices are not self-posting: creating one writes no ledger rows. Their
  financial weight arrives through linked payments. What an invoice DOES do
  on create is move inventory out for every inventory-type line, and on
  delete it cascades: linked payments (and their ledger rows) go first,
  deepest dependency last, then stock returns, then the invoice itself.

UPDATE SEMANTICS:
  Reverse-then-reapply on the inventory side: restore the old lines' stock,
  then pre-validate and take the new lines' stock. Paid amount and status
  carry over from the stored invoice (payments were not touched), with
  status recomputed against the possibly-changed patient share.

SEE ALSO:
  - inventory.go: stock mover and pre-validation
  - payment.go: the paid-amount coupling
*/
package clinic

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/atlasclinic/ledger-engine/ledger"
)

// NewInvoiceID generates a time-based string id with a uniqueness suffix.
func NewInvoiceID() string {
	return fmt.Sprintf("INV-%d-%s", time.Now().Unix(), uuid.NewString()[:8])
}

// CreateInvoice persists the invoice and moves stock out for its inventory
// lines. Stock is pre-validated across all lines before any is moved.
func (s *Service) CreateInvoice(ctx context.Context, inv Invoice) (InvoiceResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := validateInvoice(&inv); err != nil {
		return InvoiceResult{}, err
	}
	if inv.ID == "" {
		inv.ID = NewInvoiceID()
	}
	inv.PaidAmount = 0
	inv.DeriveStatus()

	if err := s.stock.CanFulfill(ctx, inv.Items); err != nil {
		return InvoiceResult{}, err
	}
	items, err := s.moveStock(ctx, inv.Items, StockOut)
	if err != nil {
		return InvoiceResult{}, err
	}
	if err := s.stores.Invoices.Put(ctx, inv); err != nil {
		return InvoiceResult{}, err
	}
	return InvoiceResult{Invoice: inv, Items: items}, nil
}

// UpdateInvoice restores the previous version's stock, then applies the new
// line set. Payments stay untouched; status is recomputed because the
// patient share may have changed.
func (s *Service) UpdateInvoice(ctx context.Context, inv Invoice) (InvoiceResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, err := s.stores.Invoices.Get(ctx, inv.ID)
	if err != nil {
		return InvoiceResult{}, err
	}
	if err := validateInvoice(&inv); err != nil {
		return InvoiceResult{}, err
	}

	restored, err := s.moveStock(ctx, prev.Items, StockIn)
	if err != nil {
		return InvoiceResult{}, err
	}
	if err := s.stock.CanFulfill(ctx, inv.Items); err != nil {
		// Put the old stock back out so the update is a clean no-op.
		if _, undoErr := s.moveStock(ctx, prev.Items, StockOut); undoErr != nil {
			return InvoiceResult{}, undoErr
		}
		return InvoiceResult{}, err
	}
	taken, err := s.moveStock(ctx, inv.Items, StockOut)
	if err != nil {
		return InvoiceResult{}, err
	}

	inv.PaidAmount = prev.PaidAmount
	inv.DeriveStatus()
	if err := s.stores.Invoices.Put(ctx, inv); err != nil {
		return InvoiceResult{}, err
	}

	items := restored
	for _, it := range taken {
		items = mergeItem(items, it)
	}
	return InvoiceResult{Invoice: inv, Items: items}, nil
}

// DeleteInvoice cascades: every linked payment is reversed and removed
// first (their ledger rows included), then stock returns, then the invoice
// itself is deleted.
func (s *Service) DeleteInvoice(ctx context.Context, id string) (InvoiceResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inv, err := s.stores.Invoices.Get(ctx, id)
	if err != nil {
		return InvoiceResult{}, err
	}
	result := InvoiceResult{Invoice: inv}

	payments, err := s.stores.Payments.ListByInvoice(ctx, id)
	if err != nil {
		return InvoiceResult{}, err
	}
	for _, p := range payments {
		deleted, err := s.ledger.Reverse(ctx, ledger.Ref(ledger.RefPayment, p.ID))
		if err != nil {
			return InvoiceResult{}, err
		}
		result.DeletedEntryIDs = append(result.DeletedEntryIDs, deleted...)
		if err := s.stores.Payments.Delete(ctx, p.ID); err != nil {
			return InvoiceResult{}, err
		}
		result.DeletedPaymentIDs = append(result.DeletedPaymentIDs, p.ID)
	}

	items, err := s.moveStock(ctx, inv.Items, StockIn)
	if err != nil {
		return InvoiceResult{}, err
	}
	result.Items = items

	if err := s.stores.Invoices.Delete(ctx, id); err != nil {
		return InvoiceResult{}, err
	}
	return result, nil
}

// moveStock applies one direction to every inventory line and returns the
// updated items.
func (s *Service) moveStock(ctx context.Context, lines []InvoiceItem, dir StockDirection) ([]InventoryItem, error) {
	var items []InventoryItem
	for _, line := range lines {
		if line.Kind != ItemInventory {
			continue
		}
		item, err := s.stock.Adjust(ctx, line.ItemID, line.Quantity, dir)
		if err != nil {
			return nil, err
		}
		items = mergeItem(items, item)
	}
	return items, nil
}

func validateInvoice(inv *Invoice) error {
	var total int64
	for i, line := range inv.Items {
		if line.Quantity <= 0 {
			return &ledger.ValidationError{Field: "items", Reason: fmt.Sprintf("line %d: quantity must be positive", i)}
		}
		if line.Price < 0 {
			return &ledger.ValidationError{Field: "items", Reason: fmt.Sprintf("line %d: price must be non-negative", i)}
		}
		if line.Kind == ItemInventory && line.ItemID == 0 {
			return &ledger.ValidationError{Field: "items", Reason: fmt.Sprintf("line %d: inventory line needs an item id", i)}
		}
		total += line.LineTotal()
	}
	if inv.TotalAmount == 0 {
		inv.TotalAmount = total
	}
	if inv.PatientShare < 0 || inv.PatientShare > inv.TotalAmount {
		return &ledger.ValidationError{Field: "patientShare", Reason: "must be between zero and the invoice total"}
	}
	return nil
}

func mergeItem(items []InventoryItem, item InventoryItem) []InventoryItem {
	for i, existing := range items {
		if existing.ID == item.ID {
			items[i] = item
			return items
		}
	}
	return append(items, item)
}
