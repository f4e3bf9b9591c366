package clinic_test

// Shared fixtures are defined in payment_test.go.

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlasclinic/ledger-engine/clinic"
	"github.com/atlasclinic/ledger-engine/ledger"
)

func pendingClaim(claimed int64) clinic.InsuranceClaim {
	return clinic.InsuranceClaim{
		Date:          "1403/5/8",
		InsurerID:     3,
		ClaimedAmount: claimed,
		Status:        clinic.ClaimPending,
	}
}

// =============================================================================
// CLAIM SETTLEMENT TESTS
// =============================================================================

func TestSaveClaim_PendingWritesNoLedgerRows(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	res, err := svc.SaveClaim(ctx, pendingClaim(300000))
	require.NoError(t, err)
	assert.NotZero(t, res.Claim.ID)
	assert.Empty(t, res.Entries)

	all, err := svc.Ledger().Store.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestSaveClaim_TransitionToPaidPostsSettlement(t *testing.T) {
	// GIVEN: a pending claim
	// WHEN: re-saving it as paid with a received amount
	// THEN: a balanced pair lands (debit bank, credit receivable)

	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.SaveClaim(ctx, pendingClaim(300000))
	require.NoError(t, err)

	paid := created.Claim
	paid.Status = clinic.ClaimPaid
	paid.ReceivedAmount = 280000
	paid.BankAccountID = bankAccount
	res, err := svc.SaveClaim(ctx, paid)
	require.NoError(t, err)
	require.Len(t, res.Entries, 2)

	assert.Equal(t, bankAccount, res.Entries[0].AccountID)
	assert.Equal(t, int64(280000), res.Entries[0].Debit)
	assert.Equal(t, receivableAccount, res.Entries[1].AccountID)
	assert.Equal(t, int64(280000), res.Entries[1].Credit)
}

func TestSaveClaim_PaidToPaidDoesNotDoublePost(t *testing.T) {
	// GIVEN: an already-paid claim
	// WHEN: re-saving it with only the description changed
	// THEN: no new ledger rows appear

	svc, _ := newTestService(t)
	ctx := context.Background()

	claim := pendingClaim(300000)
	claim.Status = clinic.ClaimPaid
	claim.ReceivedAmount = 280000
	claim.BankAccountID = bankAccount
	created, err := svc.SaveClaim(ctx, claim)
	require.NoError(t, err)
	require.Len(t, created.Entries, 2)

	resaved := created.Claim
	resaved.Description = "follow-up note"
	res, err := svc.SaveClaim(ctx, resaved)
	require.NoError(t, err)
	assert.Empty(t, res.Entries)
	assert.Empty(t, res.DeletedEntryIDs)

	all, err := svc.Ledger().Store.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2, "exactly one settlement family")
}

func TestSaveClaim_PaidToUnpaidReversesSettlement(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	claim := pendingClaim(300000)
	claim.Status = clinic.ClaimPaid
	claim.ReceivedAmount = 280000
	claim.BankAccountID = bankAccount
	created, err := svc.SaveClaim(ctx, claim)
	require.NoError(t, err)

	reverted := created.Claim
	reverted.Status = clinic.ClaimApproved
	res, err := svc.SaveClaim(ctx, reverted)
	require.NoError(t, err)
	assert.Len(t, res.DeletedEntryIDs, 2)

	all, err := svc.Ledger().Store.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestDeleteClaim_ReversesSettlement(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	claim := pendingClaim(300000)
	claim.Status = clinic.ClaimPaid
	claim.ReceivedAmount = 280000
	claim.BankAccountID = bankAccount
	created, err := svc.SaveClaim(ctx, claim)
	require.NoError(t, err)

	res, err := svc.DeleteClaim(ctx, created.Claim.ID)
	require.NoError(t, err)
	assert.Len(t, res.DeletedEntryIDs, 2)

	all, err := svc.Ledger().Store.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestSaveClaim_Validation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	// A paid claim needs a received amount and a bank account
	paid := pendingClaim(300000)
	paid.Status = clinic.ClaimPaid
	paid.BankAccountID = bankAccount
	_, err := svc.SaveClaim(ctx, paid)
	assert.ErrorIs(t, err, ledger.ErrValidation)

	paid.ReceivedAmount = 280000
	paid.BankAccountID = 0
	_, err = svc.SaveClaim(ctx, paid)
	assert.ErrorIs(t, err, ledger.ErrValidation)

	negative := pendingClaim(-1)
	_, err = svc.SaveClaim(ctx, negative)
	assert.ErrorIs(t, err, ledger.ErrValidation)
}
