/*
Package reports contains the read-side aggregators: profit & loss, balance
sheet, and payable/receivable aging.

PURPOSE:
  Pure consumers of the ledger store and the account tree. Nothing here
  writes; every number is recomputed from entries on each call, the same
  way account balances are.

SIGN CONVENTION:
  Statement amounts are sign-adjusted by account main type (income of 500
  reads as +500 even though it is a credit balance). The adjustment lives
  in ledger.StatementAmount.

SEE ALSO:
  - ledger/balance.go: the balance primitives
  - clinic package: the write side producing the entries
*/
package reports

import (
	"context"

	"github.com/atlasclinic/ledger-engine/clinic"
	"github.com/atlasclinic/ledger-engine/ledger"
)

// Reporter derives financial statements from the stores.
type Reporter struct {
	Store    ledger.Store
	Accounts ledger.AccountDirectory
	Items    clinic.PayableReceivableStore

	calc *ledger.BalanceCalculator
}

func NewReporter(store ledger.Store, accounts ledger.AccountDirectory, items clinic.PayableReceivableStore) *Reporter {
	return &Reporter{
		Store:    store,
		Accounts: accounts,
		Items:    items,
		calc:     ledger.NewBalanceCalculator(store, accounts),
	}
}

// =============================================================================
// PROFIT & LOSS
// =============================================================================

// AccountLine is one statement row.
type AccountLine struct {
	AccountID int64  `json:"account_id"`
	Code      string `json:"code"`
	Name      string `json:"name"`
	Amount    int64  `json:"amount"`
}

// ProfitAndLoss summarizes income vs expense activity in a date range.
type ProfitAndLoss struct {
	From         string        `json:"from"`
	To           string        `json:"to"`
	Income       []AccountLine `json:"income"`
	Expenses     []AccountLine `json:"expenses"`
	TotalIncome  int64         `json:"total_income"`
	TotalExpense int64         `json:"total_expense"`
	Net          int64         `json:"net"`
}

// ProfitAndLoss folds every income and expense account's own entries within
// [from, to]. Accounts without activity are omitted.
func (r *Reporter) ProfitAndLoss(ctx context.Context, from, to string) (ProfitAndLoss, error) {
	accounts, err := r.Accounts.Accounts()
	if err != nil {
		return ProfitAndLoss{}, err
	}

	report := ProfitAndLoss{From: from, To: to}
	for _, a := range accounts {
		if a.MainType != ledger.MainTypeIncome && a.MainType != ledger.MainTypeExpense {
			continue
		}
		entries, err := r.Store.ListInRange(ctx, a.ID, from, to)
		if err != nil {
			return ProfitAndLoss{}, err
		}
		var raw int64
		for _, e := range entries {
			raw += e.Signed()
		}
		if raw == 0 {
			continue
		}
		line := AccountLine{AccountID: a.ID, Code: a.Code, Name: a.Name, Amount: ledger.StatementAmount(a.MainType, raw)}
		if a.MainType == ledger.MainTypeIncome {
			report.Income = append(report.Income, line)
			report.TotalIncome += line.Amount
		} else {
			report.Expenses = append(report.Expenses, line)
			report.TotalExpense += line.Amount
		}
	}
	report.Net = report.TotalIncome - report.TotalExpense
	return report, nil
}

// =============================================================================
// BALANCE SHEET
// =============================================================================

// BalanceSheet lists top-level asset/liability/equity positions as of a
// date, each rolled up over its subtree.
type BalanceSheet struct {
	AsOf             string        `json:"as_of"`
	Assets           []AccountLine `json:"assets"`
	Liabilities      []AccountLine `json:"liabilities"`
	Equity           []AccountLine `json:"equity"`
	TotalAssets      int64         `json:"total_assets"`
	TotalLiabilities int64         `json:"total_liabilities"`
	TotalEquity      int64         `json:"total_equity"`
}

func (r *Reporter) BalanceSheet(ctx context.Context, asOf string) (BalanceSheet, error) {
	accounts, err := r.Accounts.Accounts()
	if err != nil {
		return BalanceSheet{}, err
	}

	report := BalanceSheet{AsOf: asOf}
	for _, a := range accounts {
		if a.ParentID != 0 {
			continue // top-level positions only; children roll up
		}
		switch a.MainType {
		case ledger.MainTypeAsset, ledger.MainTypeLiability, ledger.MainTypeEquity:
		default:
			continue
		}
		raw, err := r.calc.BalanceWithDescendants(ctx, a.ID, asOf)
		if err != nil {
			return BalanceSheet{}, err
		}
		line := AccountLine{AccountID: a.ID, Code: a.Code, Name: a.Name, Amount: ledger.StatementAmount(a.MainType, raw)}
		switch a.MainType {
		case ledger.MainTypeAsset:
			report.Assets = append(report.Assets, line)
			report.TotalAssets += line.Amount
		case ledger.MainTypeLiability:
			report.Liabilities = append(report.Liabilities, line)
			report.TotalLiabilities += line.Amount
		case ledger.MainTypeEquity:
			report.Equity = append(report.Equity, line)
			report.TotalEquity += line.Amount
		}
	}
	return report, nil
}

// =============================================================================
// AGING
// =============================================================================

// AgingBucket groups open items by how many months past due they are.
type AgingBucket struct {
	Label string                     `json:"label"`
	Items []clinic.PayableReceivable `json:"items"`
	Total int64                      `json:"total"`
}

// Aging summarizes open payables and receivables by months overdue.
type Aging struct {
	AsOf        string        `json:"as_of"`
	Payables    []AgingBucket `json:"payables"`
	Receivables []AgingBucket `json:"receivables"`
}

// Aging buckets: current (not yet due), 1-3 months, 4-6 months, over 6
// months, and undated (unparseable due date - excluded from range math but
// still owed).
func (r *Reporter) Aging(ctx context.Context, today string) (Aging, error) {
	items, err := r.Items.List(ctx)
	if err != nil {
		return Aging{}, err
	}

	labels := []string{"current", "1-3 months", "4-6 months", "over 6 months", "undated"}
	buckets := func() []AgingBucket {
		out := make([]AgingBucket, len(labels))
		for i, l := range labels {
			out[i] = AgingBucket{Label: l}
		}
		return out
	}

	payables, receivables := buckets(), buckets()
	todayKey := ledger.ToSortable(today)

	for _, item := range items {
		if item.Status != clinic.PRStatusOpen {
			continue
		}
		idx := agingBucketIndex(todayKey, ledger.ToSortable(item.DueDate))
		target := receivables
		if item.Kind == clinic.KindPayable {
			target = payables
		}
		target[idx].Items = append(target[idx].Items, item)
		target[idx].Total += item.Amount
	}
	return Aging{AsOf: today, Payables: payables, Receivables: receivables}, nil
}

func agingBucketIndex(todayKey, dueKey int) int {
	if dueKey == 0 {
		return 4 // undated
	}
	if dueKey >= todayKey {
		return 0 // current
	}
	monthsOverdue := (todayKey/10000*12 + (todayKey/100)%100) - (dueKey/10000*12 + (dueKey/100)%100)
	switch {
	case monthsOverdue <= 3:
		return 1
	case monthsOverdue <= 6:
		return 2
	default:
		return 3
	}
}
