/*
inventory.go - Stock side-effect applier

PURPOSE:
  The single mutation path for InventoryItem.Quantity. Invoice posters move
  stock out when an inventory line is billed and back in when the invoice
  is reversed. Reversals always move "in", so the negative-stock guard only
  ever fires on the original forward action.

INVARIANT:
  quantity == seeded quantity + all "in" deltas - all "out" deltas not
  reversed. An "out" that would go negative is rejected and leaves the
  quantity unchanged.

SEE ALSO:
  - invoice.go: the only poster moving stock
  - ledger/errors.go: InsufficientStockError
*/
package clinic

import (
	"context"

	"github.com/atlasclinic/ledger-engine/ledger"
)

// StockDirection says which way stock moves.
type StockDirection string

const (
	StockIn  StockDirection = "in"
	StockOut StockDirection = "out"
)

// StockMover adjusts on-hand quantities through the inventory store.
type StockMover struct {
	Items InventoryStore
}

func NewStockMover(items InventoryStore) *StockMover {
	return &StockMover{Items: items}
}

// Adjust applies a quantity delta in the given direction and returns the
// updated item. Idempotence under repeated calls is the caller's to manage
// via the delta it passes; the mover itself applies exactly what it is
// given.
func (s *StockMover) Adjust(ctx context.Context, itemID, delta int64, dir StockDirection) (InventoryItem, error) {
	if delta < 0 {
		return InventoryItem{}, &ledger.ValidationError{Field: "quantity", Reason: "delta must be non-negative"}
	}
	item, err := s.Items.Get(ctx, itemID)
	if err != nil {
		return InventoryItem{}, err
	}

	switch dir {
	case StockIn:
		item.Quantity += delta
	case StockOut:
		if item.Quantity < delta {
			return InventoryItem{}, &ledger.InsufficientStockError{
				ItemID:    itemID,
				OnHand:    item.Quantity,
				Requested: delta,
			}
		}
		item.Quantity -= delta
	default:
		return InventoryItem{}, &ledger.ValidationError{Field: "direction", Reason: "must be in or out"}
	}

	if _, err := s.Items.Put(ctx, item); err != nil {
		return InventoryItem{}, err
	}
	return item, nil
}

// CanFulfill pre-validates that every inventory line on an invoice is in
// stock, without mutating anything. Posters call this before committing any
// financial state so a stock failure cannot leave a half-posted invoice.
func (s *StockMover) CanFulfill(ctx context.Context, items []InvoiceItem) error {
	needed := map[int64]int64{}
	for _, line := range items {
		if line.Kind == ItemInventory {
			needed[line.ItemID] += line.Quantity
		}
	}
	for itemID, qty := range needed {
		item, err := s.Items.Get(ctx, itemID)
		if err != nil {
			return err
		}
		if item.Quantity < qty {
			return &ledger.InsufficientStockError{ItemID: itemID, OnHand: item.Quantity, Requested: qty}
		}
	}
	return nil
}
