package clinic_test

// Shared fixtures are defined in payment_test.go.

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlasclinic/ledger-engine/clinic"
	"github.com/atlasclinic/ledger-engine/ledger"
	"github.com/atlasclinic/ledger-engine/store/memory"
)

func seedOpenItem(t *testing.T, store *memory.Store, kind clinic.PayableReceivableKind, amount int64) int64 {
	t.Helper()
	id, err := store.Items.Put(context.Background(), clinic.PayableReceivable{
		Kind:     kind,
		EntityID: 9,
		Amount:   amount,
		DueDate:  "1403/6/1",
		Status:   clinic.PRStatusOpen,
	})
	require.NoError(t, err)
	return id
}

// =============================================================================
// SETTLEMENT TESTS
// =============================================================================

func TestSettle_PayableBecomesDisbursement(t *testing.T) {
	// GIVEN: an open payable of 450000
	// WHEN: settling it from the bank account
	// THEN: a disbursement credits the bank, the item flips to paid and
	//       records the payment id

	svc, store := newTestService(t)
	ctx := context.Background()
	id := seedOpenItem(t, store, clinic.KindPayable, 450000)

	res, err := svc.SettlePayableReceivable(ctx, id, bankAccount, "1403/5/8")
	require.NoError(t, err)
	assert.Equal(t, clinic.PRStatusPaid, res.Item.Status)
	assert.Equal(t, res.Payment.Payment.ID, res.Item.PaymentID)
	assert.Equal(t, clinic.DirectionDisbursement, res.Payment.Payment.Direction)

	require.Len(t, res.Payment.Entries, 1)
	assert.Equal(t, bankAccount, res.Payment.Entries[0].AccountID)
	assert.Equal(t, int64(450000), res.Payment.Entries[0].Credit)
}

func TestSettle_ReceivableBecomesReceipt(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	id := seedOpenItem(t, store, clinic.KindReceivable, 120000)

	res, err := svc.SettlePayableReceivable(ctx, id, cashAccount, "1403/5/8")
	require.NoError(t, err)
	assert.Equal(t, clinic.DirectionReceipt, res.Payment.Payment.Direction)

	require.Len(t, res.Payment.Entries, 1)
	assert.Equal(t, cashAccount, res.Payment.Entries[0].AccountID)
	assert.Equal(t, int64(120000), res.Payment.Entries[0].Debit)
}

func TestSettle_RejectsAlreadySettled(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	id := seedOpenItem(t, store, clinic.KindPayable, 450000)

	_, err := svc.SettlePayableReceivable(ctx, id, bankAccount, "1403/5/8")
	require.NoError(t, err)

	_, err = svc.SettlePayableReceivable(ctx, id, bankAccount, "1403/5/9")
	assert.ErrorIs(t, err, ledger.ErrValidation)
}

func TestSettle_UnknownItemFails(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.SettlePayableReceivable(context.Background(), 404, bankAccount, "1403/5/8")
	assert.True(t, ledger.IsNotFound(err))
}

func TestSettlementDirection(t *testing.T) {
	payable := clinic.PayableReceivable{Kind: clinic.KindPayable}
	assert.Equal(t, clinic.DirectionDisbursement, payable.SettlementDirection())
	receivable := clinic.PayableReceivable{Kind: clinic.KindReceivable}
	assert.Equal(t, clinic.DirectionReceipt, receivable.SettlementDirection())
}
