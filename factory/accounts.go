/*
Package factory provides JSON to Go chart-of-accounts conversion.

PURPOSE:
  Converts JSON chart definitions into ledger.Account records. This enables
  chart configuration without code changes - an accountant can define the
  account tree in JSON, and the factory produces the proper Go structs and
  the engine settings derived from well-known account codes.

WHY JSON?
  - Non-developers can adjust the chart
  - Easy integration with an admin UI
  - Version control for chart definitions
  - Database seeding on first boot

JSON SCHEMA:
  {
    "accounts": [
      {"id": 1, "name": "Assets", "main_type": "asset", "code": "1000"},
      {"id": 2, "name": "Cash", "main_type": "asset", "code": "1010", "parent_id": 1},
      {"id": 5, "name": "Accounts Receivable", "main_type": "asset", "code": "1100", "parent_id": 1}
    ],
    "receivable_code": "1100"
  }

KEY FEATURES:
  - Validates ids, parent references, and main types
  - Resolves the receivable account by chart code
  - Ships a default clinic chart for fresh databases

USAGE:
  chart, err := factory.ParseChart(factory.DefaultChartJSON)
  for _, a := range chart.Accounts { accountStore.Put(a) }
  settings := clinic.Settings{ReceivableAccountID: chart.ReceivableAccountID}

SEE ALSO:
  - ledger/types.go: Account type definition
  - cmd/server/main.go: seeding on startup
*/
package factory

import (
	"encoding/json"
	"fmt"

	"github.com/atlasclinic/ledger-engine/ledger"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// ChartJSON is the JSON representation of a chart of accounts.
type ChartJSON struct {
	Accounts       []AccountJSON `json:"accounts"`
	ReceivableCode string        `json:"receivable_code"`
}

// AccountJSON is one account row in the chart.
type AccountJSON struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	MainType string `json:"main_type"`
	Code     string `json:"code,omitempty"`
	ParentID int64  `json:"parent_id,omitempty"`
}

// Chart is the parsed result: the account tree plus the resolved settings.
type Chart struct {
	Accounts            []ledger.Account
	ReceivableAccountID int64
}

// =============================================================================
// PARSING
// =============================================================================

// ParseChart parses a JSON chart definition and validates the tree.
func ParseChart(jsonStr string) (Chart, error) {
	var cj ChartJSON
	if err := json.Unmarshal([]byte(jsonStr), &cj); err != nil {
		return Chart{}, fmt.Errorf("failed to parse chart JSON: %w", err)
	}
	return FromJSON(cj)
}

// FromJSON converts ChartJSON to a validated Chart.
func FromJSON(cj ChartJSON) (Chart, error) {
	if len(cj.Accounts) == 0 {
		return Chart{}, fmt.Errorf("chart has no accounts")
	}

	seen := make(map[int64]bool, len(cj.Accounts))
	byCode := make(map[string]int64)
	var chart Chart
	for _, aj := range cj.Accounts {
		if aj.ID == 0 {
			return Chart{}, fmt.Errorf("account %q has no id", aj.Name)
		}
		if seen[aj.ID] {
			return Chart{}, fmt.Errorf("duplicate account id %d", aj.ID)
		}
		seen[aj.ID] = true

		mt, err := parseMainType(aj.MainType)
		if err != nil {
			return Chart{}, fmt.Errorf("account %d: %w", aj.ID, err)
		}
		if aj.Code != "" {
			byCode[aj.Code] = aj.ID
		}
		chart.Accounts = append(chart.Accounts, ledger.Account{
			ID:       aj.ID,
			Name:     aj.Name,
			MainType: mt,
			Code:     aj.Code,
			ParentID: aj.ParentID,
		})
	}

	// Parent references must point inside the chart.
	for _, a := range chart.Accounts {
		if a.ParentID != 0 && !seen[a.ParentID] {
			return Chart{}, fmt.Errorf("account %d references unknown parent %d", a.ID, a.ParentID)
		}
	}

	if cj.ReceivableCode != "" {
		id, ok := byCode[cj.ReceivableCode]
		if !ok {
			return Chart{}, fmt.Errorf("receivable_code %q matches no account", cj.ReceivableCode)
		}
		chart.ReceivableAccountID = id
	}
	return chart, nil
}

func parseMainType(s string) (ledger.MainType, error) {
	switch ledger.MainType(s) {
	case ledger.MainTypeAsset, ledger.MainTypeLiability, ledger.MainTypeEquity,
		ledger.MainTypeIncome, ledger.MainTypeExpense:
		return ledger.MainType(s), nil
	default:
		return "", fmt.Errorf("unknown main type %q", s)
	}
}

// =============================================================================
// DEFAULT CHART
// =============================================================================

// DefaultChartJSON is the chart seeded into a fresh database. Codes follow
// the usual 1xxx assets / 2xxx liabilities / 3xxx equity / 4xxx income /
// 5xxx expenses layout.
const DefaultChartJSON = `{
  "accounts": [
    {"id": 1,  "name": "Assets",               "main_type": "asset",     "code": "1000"},
    {"id": 2,  "name": "Cash",                 "main_type": "asset",     "code": "1010", "parent_id": 1},
    {"id": 3,  "name": "Bank",                 "main_type": "asset",     "code": "1020", "parent_id": 1},
    {"id": 4,  "name": "Accounts Receivable",  "main_type": "asset",     "code": "1100", "parent_id": 1},
    {"id": 5,  "name": "Inventory",            "main_type": "asset",     "code": "1200", "parent_id": 1},
    {"id": 6,  "name": "Liabilities",          "main_type": "liability", "code": "2000"},
    {"id": 7,  "name": "Accounts Payable",     "main_type": "liability", "code": "2100", "parent_id": 6},
    {"id": 8,  "name": "Equity",               "main_type": "equity",    "code": "3000"},
    {"id": 9,  "name": "Owner Capital",        "main_type": "equity",    "code": "3100", "parent_id": 8},
    {"id": 10, "name": "Income",               "main_type": "income",    "code": "4000"},
    {"id": 11, "name": "Treatment Income",     "main_type": "income",    "code": "4100", "parent_id": 10},
    {"id": 12, "name": "Insurance Income",     "main_type": "income",    "code": "4200", "parent_id": 10},
    {"id": 13, "name": "Expenses",             "main_type": "expense",   "code": "5000"},
    {"id": 14, "name": "Salaries",             "main_type": "expense",   "code": "5100", "parent_id": 13},
    {"id": 15, "name": "Rent",                 "main_type": "expense",   "code": "5200", "parent_id": 13},
    {"id": 16, "name": "Supplies",             "main_type": "expense",   "code": "5300", "parent_id": 13}
  ],
  "receivable_code": "1100"
}`
