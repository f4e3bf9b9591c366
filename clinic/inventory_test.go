package clinic_test

// Shared fixtures are defined in payment_test.go and invoice_test.go.

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlasclinic/ledger-engine/clinic"
	"github.com/atlasclinic/ledger-engine/ledger"
)

// =============================================================================
// STOCK MOVER TESTS
// =============================================================================

func TestAdjust_OutToExactlyZeroSucceeds(t *testing.T) {
	_, store := newTestService(t)
	ctx := context.Background()
	itemID := seedItem(t, store, "Gauze", 5)
	mover := clinic.NewStockMover(store.Inventory)

	item, err := mover.Adjust(ctx, itemID, 5, clinic.StockOut)
	require.NoError(t, err)
	assert.Equal(t, int64(0), item.Quantity)
}

func TestAdjust_OutPastZeroRejectedWithoutMutation(t *testing.T) {
	// GIVEN: 5 on hand
	// WHEN: moving 6 out
	// THEN: the move fails with the shortfall and on-hand stays at 5

	_, store := newTestService(t)
	ctx := context.Background()
	itemID := seedItem(t, store, "Gauze", 5)
	mover := clinic.NewStockMover(store.Inventory)

	_, err := mover.Adjust(ctx, itemID, 6, clinic.StockOut)
	require.ErrorIs(t, err, ledger.ErrInsufficientStock)

	var stockErr *ledger.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, int64(5), stockErr.OnHand)
	assert.Equal(t, int64(6), stockErr.Requested)

	item, err := store.Inventory.Get(ctx, itemID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), item.Quantity)
}

func TestAdjust_InAddsToQuantity(t *testing.T) {
	_, store := newTestService(t)
	ctx := context.Background()
	itemID := seedItem(t, store, "Gauze", 5)
	mover := clinic.NewStockMover(store.Inventory)

	item, err := mover.Adjust(ctx, itemID, 3, clinic.StockIn)
	require.NoError(t, err)
	assert.Equal(t, int64(8), item.Quantity)
}

func TestAdjust_RejectsNegativeDelta(t *testing.T) {
	_, store := newTestService(t)
	itemID := seedItem(t, store, "Gauze", 5)
	mover := clinic.NewStockMover(store.Inventory)

	_, err := mover.Adjust(context.Background(), itemID, -1, clinic.StockIn)
	assert.ErrorIs(t, err, ledger.ErrValidation)
}

func TestAdjust_UnknownItemFails(t *testing.T) {
	_, store := newTestService(t)
	mover := clinic.NewStockMover(store.Inventory)

	_, err := mover.Adjust(context.Background(), 404, 1, clinic.StockIn)
	assert.True(t, ledger.IsNotFound(err))
}

// =============================================================================
// CAN-FULFILL TESTS
// =============================================================================

func TestCanFulfill_AggregatesQuantitiesAcrossLines(t *testing.T) {
	// GIVEN: 5 on hand and two lines of 3 each for the same item
	// WHEN: pre-validating
	// THEN: the combined demand of 6 is rejected even though each line alone
	//       would pass, and nothing is mutated

	_, store := newTestService(t)
	ctx := context.Background()
	itemID := seedItem(t, store, "Gauze", 5)
	mover := clinic.NewStockMover(store.Inventory)

	err := mover.CanFulfill(ctx, []clinic.InvoiceItem{
		inventoryLine(itemID, 3),
		inventoryLine(itemID, 3),
	})
	require.ErrorIs(t, err, ledger.ErrInsufficientStock)

	item, err := store.Inventory.Get(ctx, itemID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), item.Quantity)
}

func TestCanFulfill_IgnoresNonInventoryLines(t *testing.T) {
	_, store := newTestService(t)
	mover := clinic.NewStockMover(store.Inventory)

	err := mover.CanFulfill(context.Background(), []clinic.InvoiceItem{
		{Kind: clinic.ItemService, Quantity: 999, Price: 100},
	})
	assert.NoError(t, err)
}

func TestBelowReorderPoint(t *testing.T) {
	item := clinic.InventoryItem{Quantity: 3, ReorderPoint: 3}
	assert.True(t, item.BelowReorderPoint())
	item.Quantity = 4
	assert.False(t, item.BelowReorderPoint())
}
