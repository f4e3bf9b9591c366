package clinic_test

// Shared fixtures (newTestService, seedInvoice, receipt) are defined in
// payment_test.go.

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlasclinic/ledger-engine/clinic"
	"github.com/atlasclinic/ledger-engine/ledger"
	"github.com/atlasclinic/ledger-engine/store/memory"
)

func seedItem(t *testing.T, store *memory.Store, name string, quantity int64) int64 {
	t.Helper()
	id, err := store.Inventory.Put(context.Background(), clinic.InventoryItem{
		Name:      name,
		Quantity:  quantity,
		SalePrice: 50000,
	})
	require.NoError(t, err)
	return id
}

func inventoryLine(itemID, quantity int64) clinic.InvoiceItem {
	return clinic.InvoiceItem{Kind: clinic.ItemInventory, ItemID: itemID, Quantity: quantity, Price: 50000}
}

// =============================================================================
// INVOICE CREATE TESTS
// =============================================================================

func TestCreateInvoice_MovesInventoryOut(t *testing.T) {
	// GIVEN: an item with 10 on hand
	// WHEN: an invoice bills 3 of it
	// THEN: 7 remain, no ledger rows are written, and deleting the invoice
	//       restores the full 10

	svc, store := newTestService(t)
	ctx := context.Background()
	itemID := seedItem(t, store, "Gauze", 10)

	res, err := svc.CreateInvoice(ctx, clinic.Invoice{
		Date:         "1403/5/1",
		PatientID:    7,
		Items:        []clinic.InvoiceItem{inventoryLine(itemID, 3)},
		PatientShare: 150000,
	})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, int64(7), res.Items[0].Quantity)
	assert.NotEmpty(t, res.Invoice.ID, "an id is generated when none is given")

	all, err := svc.Ledger().Store.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all, "invoices are not self-posting")

	_, err = svc.DeleteInvoice(ctx, res.Invoice.ID)
	require.NoError(t, err)

	item, err := store.Inventory.Get(ctx, itemID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), item.Quantity)
}

func TestCreateInvoice_ServiceLinesLeaveStockAlone(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	itemID := seedItem(t, store, "Gauze", 10)

	res, err := svc.CreateInvoice(ctx, clinic.Invoice{
		Date:      "1403/5/1",
		PatientID: 7,
		Items: []clinic.InvoiceItem{
			{Kind: clinic.ItemService, Description: "Checkup", Quantity: 1, Price: 200000},
		},
	})
	require.NoError(t, err)
	assert.Empty(t, res.Items)

	item, err := store.Inventory.Get(ctx, itemID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), item.Quantity)
}

func TestCreateInvoice_InsufficientStockRejectedBeforeAnyMove(t *testing.T) {
	// GIVEN: two inventory lines where only the second is short
	// WHEN: creating the invoice
	// THEN: the whole create fails and neither item's quantity moved

	svc, store := newTestService(t)
	ctx := context.Background()
	plenty := seedItem(t, store, "Gauze", 10)
	short := seedItem(t, store, "Syringes", 2)

	_, err := svc.CreateInvoice(ctx, clinic.Invoice{
		Date:      "1403/5/1",
		PatientID: 7,
		Items: []clinic.InvoiceItem{
			inventoryLine(plenty, 3),
			inventoryLine(short, 5),
		},
	})
	require.ErrorIs(t, err, ledger.ErrInsufficientStock)

	itemA, _ := store.Inventory.Get(ctx, plenty)
	itemB, _ := store.Inventory.Get(ctx, short)
	assert.Equal(t, int64(10), itemA.Quantity)
	assert.Equal(t, int64(2), itemB.Quantity)
}

func TestCreateInvoice_DefaultsTotalFromLines(t *testing.T) {
	svc, store := newTestService(t)
	itemID := seedItem(t, store, "Gauze", 10)

	res, err := svc.CreateInvoice(context.Background(), clinic.Invoice{
		Date:      "1403/5/1",
		PatientID: 7,
		Items: []clinic.InvoiceItem{
			inventoryLine(itemID, 2), // 100000
			{Kind: clinic.ItemService, Quantity: 1, Price: 40000},
		},
		PatientShare: 140000,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(140000), res.Invoice.TotalAmount)
}

func TestCreateInvoice_Validation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name    string
		invoice clinic.Invoice
	}{
		{"zero quantity line", clinic.Invoice{Date: "1403/5/1", Items: []clinic.InvoiceItem{{Kind: clinic.ItemService, Quantity: 0, Price: 100}}}},
		{"negative price", clinic.Invoice{Date: "1403/5/1", Items: []clinic.InvoiceItem{{Kind: clinic.ItemService, Quantity: 1, Price: -100}}}},
		{"inventory line without item", clinic.Invoice{Date: "1403/5/1", Items: []clinic.InvoiceItem{{Kind: clinic.ItemInventory, Quantity: 1, Price: 100}}}},
		{"patient share above total", clinic.Invoice{Date: "1403/5/1", Items: []clinic.InvoiceItem{{Kind: clinic.ItemService, Quantity: 1, Price: 100}}, PatientShare: 500}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateInvoice(ctx, tc.invoice)
			assert.ErrorIs(t, err, ledger.ErrValidation)
		})
	}
}

// =============================================================================
// INVOICE UPDATE TESTS
// =============================================================================

func TestUpdateInvoice_RestoresOldStockThenTakesNew(t *testing.T) {
	// GIVEN: an invoice holding 3 of an item that started at 10
	// WHEN: updating the invoice to hold 5 instead
	// THEN: on-hand lands at 5 (10 - 5), not 2 (7 - 5)

	svc, store := newTestService(t)
	ctx := context.Background()
	itemID := seedItem(t, store, "Gauze", 10)

	created, err := svc.CreateInvoice(ctx, clinic.Invoice{
		Date:      "1403/5/1",
		PatientID: 7,
		Items:     []clinic.InvoiceItem{inventoryLine(itemID, 3)},
	})
	require.NoError(t, err)

	updated := created.Invoice
	updated.Items = []clinic.InvoiceItem{inventoryLine(itemID, 5)}
	updated.TotalAmount = 0 // recompute from lines
	_, err = svc.UpdateInvoice(ctx, updated)
	require.NoError(t, err)

	item, err := store.Inventory.Get(ctx, itemID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), item.Quantity)
}

func TestUpdateInvoice_FailedStockCheckIsCleanNoOp(t *testing.T) {
	// GIVEN: an invoice holding 3 of a 10-item stock
	// WHEN: updating it to a quantity the restored stock cannot cover
	// THEN: the update fails and on-hand returns to its pre-update value

	svc, store := newTestService(t)
	ctx := context.Background()
	itemID := seedItem(t, store, "Gauze", 10)

	created, err := svc.CreateInvoice(ctx, clinic.Invoice{
		Date:      "1403/5/1",
		PatientID: 7,
		Items:     []clinic.InvoiceItem{inventoryLine(itemID, 3)},
	})
	require.NoError(t, err)

	updated := created.Invoice
	updated.Items = []clinic.InvoiceItem{inventoryLine(itemID, 11)}
	updated.TotalAmount = 0
	_, err = svc.UpdateInvoice(ctx, updated)
	require.ErrorIs(t, err, ledger.ErrInsufficientStock)

	item, err := store.Inventory.Get(ctx, itemID)
	require.NoError(t, err)
	assert.Equal(t, int64(7), item.Quantity, "the original 3 must stay taken")

	stored, err := store.Invoices.Get(ctx, created.Invoice.ID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, int64(3), stored.Items[0].Quantity, "stored invoice unchanged")
}

func TestUpdateInvoice_KeepsPaidAmountAndRederivesStatus(t *testing.T) {
	// GIVEN: an invoice partially paid at 60000 of a 100000 share
	// WHEN: the patient share drops to 60000
	// THEN: the invoice flips to paid without touching payments

	svc, store := newTestService(t)
	ctx := context.Background()
	seedInvoice(t, store, "INV-1", 100000)
	_, err := svc.CreatePayment(ctx, receipt(60000, "INV-1"))
	require.NoError(t, err)

	inv, err := store.Invoices.Get(ctx, "INV-1")
	require.NoError(t, err)
	require.Equal(t, clinic.StatusPartiallyPaid, inv.Status)

	inv.TotalAmount = 60000
	inv.PatientShare = 60000
	res, err := svc.UpdateInvoice(ctx, inv)
	require.NoError(t, err)
	assert.Equal(t, int64(60000), res.Invoice.PaidAmount)
	assert.Equal(t, clinic.StatusPaid, res.Invoice.Status)
}

// =============================================================================
// INVOICE DELETE TESTS
// =============================================================================

func TestDeleteInvoice_CascadesPaymentsAndLedgerRows(t *testing.T) {
	// GIVEN: an invoice with two linked payments
	// WHEN: deleting the invoice
	// THEN: both payments and all their ledger rows are gone

	svc, store := newTestService(t)
	ctx := context.Background()
	seedInvoice(t, store, "INV-1", 140000)

	p1, err := svc.CreatePayment(ctx, receipt(100000, "INV-1"))
	require.NoError(t, err)
	p2, err := svc.CreatePayment(ctx, receipt(40000, "INV-1"))
	require.NoError(t, err)

	res, err := svc.DeleteInvoice(ctx, "INV-1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{p1.Payment.ID, p2.Payment.ID}, res.DeletedPaymentIDs)
	assert.Len(t, res.DeletedEntryIDs, 4, "two balanced pairs")

	all, err := svc.Ledger().Store.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	_, err = store.Payments.Get(ctx, p1.Payment.ID)
	assert.True(t, ledger.IsNotFound(err))
	_, err = store.Invoices.Get(ctx, "INV-1")
	assert.True(t, ledger.IsNotFound(err))
}

func TestDeleteInvoice_UnknownIDFails(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.DeleteInvoice(context.Background(), "INV-404")
	assert.True(t, ledger.IsNotFound(err))
}
