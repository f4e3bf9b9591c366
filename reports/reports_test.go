package reports_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlasclinic/ledger-engine/clinic"
	"github.com/atlasclinic/ledger-engine/ledger"
	"github.com/atlasclinic/ledger-engine/reports"
	"github.com/atlasclinic/ledger-engine/store/memory"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestReporter(t *testing.T) (*reports.Reporter, *memory.Store) {
	t.Helper()
	store := memory.New()

	store.Accounts.Put(ledger.Account{ID: 1, Name: "Assets", MainType: ledger.MainTypeAsset, Code: "1000"})
	store.Accounts.Put(ledger.Account{ID: 2, Name: "Cash", MainType: ledger.MainTypeAsset, Code: "1010", ParentID: 1})
	store.Accounts.Put(ledger.Account{ID: 3, Name: "Bank", MainType: ledger.MainTypeAsset, Code: "1020", ParentID: 1})
	store.Accounts.Put(ledger.Account{ID: 6, Name: "Liabilities", MainType: ledger.MainTypeLiability, Code: "2000"})
	store.Accounts.Put(ledger.Account{ID: 8, Name: "Equity", MainType: ledger.MainTypeEquity, Code: "3000"})
	store.Accounts.Put(ledger.Account{ID: 10, Name: "Income", MainType: ledger.MainTypeIncome, Code: "4000"})
	store.Accounts.Put(ledger.Account{ID: 11, Name: "Treatment Income", MainType: ledger.MainTypeIncome, Code: "4100", ParentID: 10})
	store.Accounts.Put(ledger.Account{ID: 13, Name: "Expenses", MainType: ledger.MainTypeExpense, Code: "5000"})
	store.Accounts.Put(ledger.Account{ID: 15, Name: "Rent", MainType: ledger.MainTypeExpense, Code: "5200", ParentID: 13})

	return reports.NewReporter(store.Entries, store.Accounts, store.Items), store
}

func post(t *testing.T, store *memory.Store, date string, account, debit, credit int64, ref string) {
	t.Helper()
	_, err := store.Entries.Append(context.Background(), ledger.Entry{
		Date: date, AccountID: account, Debit: debit, Credit: credit, ReferenceID: ref,
	})
	require.NoError(t, err)
}

// =============================================================================
// PROFIT & LOSS TESTS
// =============================================================================

func TestProfitAndLoss_SignAdjustedLinesAndNet(t *testing.T) {
	// GIVEN: income of 500000 (credit) and rent of 300000 (debit) in range
	// WHEN: running the statement
	// THEN: both read positive, net is 200000, inactive accounts are omitted

	r, store := newTestReporter(t)
	post(t, store, "1403/5/8", 11, 0, 500000, "payment-1")
	post(t, store, "1403/5/9", 15, 300000, 0, "expense-1")

	pl, err := r.ProfitAndLoss(context.Background(), "1403/5/1", "1403/5/31")
	require.NoError(t, err)

	require.Len(t, pl.Income, 1)
	assert.Equal(t, int64(11), pl.Income[0].AccountID)
	assert.Equal(t, int64(500000), pl.Income[0].Amount)

	require.Len(t, pl.Expenses, 1)
	assert.Equal(t, int64(15), pl.Expenses[0].AccountID)
	assert.Equal(t, int64(300000), pl.Expenses[0].Amount)

	assert.Equal(t, int64(500000), pl.TotalIncome)
	assert.Equal(t, int64(300000), pl.TotalExpense)
	assert.Equal(t, int64(200000), pl.Net)
}

func TestProfitAndLoss_RangeExcludesOutsideActivity(t *testing.T) {
	r, store := newTestReporter(t)
	post(t, store, "1403/4/30", 11, 0, 100000, "payment-1")
	post(t, store, "1403/5/8", 11, 0, 500000, "payment-2")
	post(t, store, "1403/6/1", 11, 0, 900000, "payment-3")

	pl, err := r.ProfitAndLoss(context.Background(), "1403/5/1", "1403/5/31")
	require.NoError(t, err)
	require.Len(t, pl.Income, 1)
	assert.Equal(t, int64(500000), pl.TotalIncome)
}

func TestProfitAndLoss_IgnoresNonOperatingAccounts(t *testing.T) {
	r, store := newTestReporter(t)
	post(t, store, "1403/5/8", 2, 500000, 0, "payment-1") // asset movement only

	pl, err := r.ProfitAndLoss(context.Background(), "", "")
	require.NoError(t, err)
	assert.Empty(t, pl.Income)
	assert.Empty(t, pl.Expenses)
	assert.Equal(t, int64(0), pl.Net)
}

// =============================================================================
// BALANCE SHEET TESTS
// =============================================================================

func TestBalanceSheet_RollsUpTopLevelPositions(t *testing.T) {
	// GIVEN: cash 100000 and bank 40000 under the asset root
	// WHEN: building the balance sheet
	// THEN: one asset line for the root carrying 140000

	r, store := newTestReporter(t)
	post(t, store, "1403/5/8", 2, 100000, 0, "payment-1")
	post(t, store, "1403/5/9", 3, 40000, 0, "payment-2")

	bs, err := r.BalanceSheet(context.Background(), "")
	require.NoError(t, err)

	require.Len(t, bs.Assets, 1)
	assert.Equal(t, int64(1), bs.Assets[0].AccountID)
	assert.Equal(t, int64(140000), bs.Assets[0].Amount)
	assert.Equal(t, int64(140000), bs.TotalAssets)
}

func TestBalanceSheet_AsOfCutsOffLaterActivity(t *testing.T) {
	r, store := newTestReporter(t)
	post(t, store, "1403/5/8", 2, 100000, 0, "payment-1")
	post(t, store, "1403/7/1", 2, 999999, 0, "payment-2")

	bs, err := r.BalanceSheet(context.Background(), "1403/6/1")
	require.NoError(t, err)
	assert.Equal(t, int64(100000), bs.TotalAssets)
}

func TestBalanceSheet_LiabilitiesReadPositive(t *testing.T) {
	r, store := newTestReporter(t)
	post(t, store, "1403/5/8", 6, 0, 80000, "expense-1")

	bs, err := r.BalanceSheet(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, bs.Liabilities, 1)
	assert.Equal(t, int64(80000), bs.Liabilities[0].Amount)
	assert.Equal(t, int64(80000), bs.TotalLiabilities)
}

// =============================================================================
// AGING TESTS
// =============================================================================

func TestAging_BucketsByMonthsOverdue(t *testing.T) {
	// GIVEN: open items due in the future, 2 months back, 5 months back,
	//        8 months back, and with no parseable due date
	// WHEN: aging as of 1403/8/15
	// THEN: each lands in its bucket; settled items are excluded

	r, store := newTestReporter(t)
	ctx := context.Background()

	seed := func(kind clinic.PayableReceivableKind, due string, amount int64, status clinic.PayableReceivableStatus) {
		_, err := store.Items.Put(ctx, clinic.PayableReceivable{
			Kind: kind, EntityID: 9, Amount: amount, DueDate: due, Status: status,
		})
		require.NoError(t, err)
	}
	seed(clinic.KindReceivable, "1403/9/1", 100, clinic.PRStatusOpen)   // current
	seed(clinic.KindReceivable, "1403/6/10", 200, clinic.PRStatusOpen)  // 2 months
	seed(clinic.KindReceivable, "1403/3/10", 300, clinic.PRStatusOpen)  // 5 months
	seed(clinic.KindReceivable, "1402/12/10", 400, clinic.PRStatusOpen) // 8 months
	seed(clinic.KindReceivable, "", 500, clinic.PRStatusOpen)           // undated
	seed(clinic.KindReceivable, "1403/3/10", 999, clinic.PRStatusPaid)  // settled
	seed(clinic.KindPayable, "1403/6/10", 700, clinic.PRStatusOpen)

	aging, err := r.Aging(ctx, "1403/8/15")
	require.NoError(t, err)

	totals := make([]int64, len(aging.Receivables))
	for i, b := range aging.Receivables {
		totals[i] = b.Total
	}
	assert.Equal(t, []int64{100, 200, 300, 400, 500}, totals)

	assert.Equal(t, int64(700), aging.Payables[1].Total)
	assert.Equal(t, "1-3 months", aging.Payables[1].Label)
}

func TestAging_DueTodayIsCurrent(t *testing.T) {
	r, store := newTestReporter(t)
	ctx := context.Background()
	_, err := store.Items.Put(ctx, clinic.PayableReceivable{
		Kind: clinic.KindPayable, Amount: 100, DueDate: "1403/8/15", Status: clinic.PRStatusOpen,
	})
	require.NoError(t, err)

	aging, err := r.Aging(ctx, "1403/8/15")
	require.NoError(t, err)
	assert.Equal(t, int64(100), aging.Payables[0].Total)
}
