/*
balance.go - Derived account balances

PURPOSE:
  Answers "what is this account worth?" by folding ledger entries. Balances
  are NEVER stored; every answer here is recomputed from the entry store.
  Recomputation cost is O(ledger size) per call, which is acceptable at
  clinic scale and a known scaling limit.

TWO PRIMITIVES:
  Balance:                signed sum of the account's own entries
  BalanceWithDescendants: the account plus its whole subtree

SIGN CONVENTION:
  The core primitive is type-agnostic debit-minus-credit. Statement
  contexts (P&L, balance sheet) flip the sign for credit-positive account
  types via StatementAmount.

CYCLE GUARD:
  Parent pointers are acyclic by construction, but the subtree walk still
  carries a visited set. Corrupted reference data should surface as
  ErrAccountCycle, not a hung process.

SEE ALSO:
  - types.go: AccountDirectory, MainType
  - reports package: statement-side consumers
*/
package ledger

import "context"

// =============================================================================
// BALANCE CALCULATOR
// =============================================================================

// BalanceCalculator derives account balances from the entry store and the
// read-only account tree.
type BalanceCalculator struct {
	Store    Store
	Accounts AccountDirectory
}

func NewBalanceCalculator(store Store, accounts AccountDirectory) *BalanceCalculator {
	return &BalanceCalculator{Store: store, Accounts: accounts}
}

// Balance returns the signed debit-minus-credit sum of the account's own
// entries. asOf == "" means all entries; otherwise only entries dated at or
// before asOf count, and entries with unparseable dates are excluded.
func (c *BalanceCalculator) Balance(ctx context.Context, accountID int64, asOf string) (int64, error) {
	entries, err := c.Store.ListInRange(ctx, accountID, "", asOf)
	if err != nil {
		return 0, err
	}
	var sum int64
	for _, e := range entries {
		sum += e.Signed()
	}
	return sum, nil
}

// BalanceWithDescendants returns the account's balance plus the balances of
// every account below it in the tree.
func (c *BalanceCalculator) BalanceWithDescendants(ctx context.Context, accountID int64, asOf string) (int64, error) {
	return c.subtreeBalance(ctx, accountID, asOf, map[int64]bool{})
}

func (c *BalanceCalculator) subtreeBalance(ctx context.Context, accountID int64, asOf string, visited map[int64]bool) (int64, error) {
	if visited[accountID] {
		return 0, ErrAccountCycle
	}
	visited[accountID] = true

	sum, err := c.Balance(ctx, accountID, asOf)
	if err != nil {
		return 0, err
	}
	children, err := c.Accounts.Children(accountID)
	if err != nil {
		return 0, err
	}
	for _, child := range children {
		childSum, err := c.subtreeBalance(ctx, child.ID, asOf, visited)
		if err != nil {
			return 0, err
		}
		sum += childSum
	}
	return sum, nil
}

// StatementAmount sign-adjusts a raw signed balance for statement display:
// debit-positive types keep their sign, credit-positive types flip it so
// that "income of 500" reads as +500.
func StatementAmount(t MainType, raw int64) int64 {
	if t.DebitPositive() {
		return raw
	}
	return -raw
}
