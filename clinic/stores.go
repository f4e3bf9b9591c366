/*
stores.go - Typed collection store contracts

PURPOSE:
  Each business collection is persisted through a small typed interface.
  Underneath they all map onto the same abstract get/put/getAll/delete
  store keyed per collection; the typed contracts replace stringly-typed
  collection routing with compile-time dispatch.

CONVENTIONS:
  - Put with a zero id assigns the next id and returns it (autoincrement
    semantics); Put with a nonzero id upserts.
  - Get returns a *ledger.NotFoundError for unknown keys.
  - Implementations must survive a bulk restore: no caches that outlive
    the underlying store contents.

SEE ALSO:
  - store/memory, store/sqlite: implementations
  - service.go: the poster façade bundling these stores
*/
package clinic

import "context"

// PaymentStore persists payments.
type PaymentStore interface {
	Get(ctx context.Context, id int64) (Payment, error)
	Put(ctx context.Context, p Payment) (int64, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]Payment, error)

	// ListByInvoice returns all payments linked to the invoice, for the
	// invoice delete cascade and paid-amount reconciliation.
	ListByInvoice(ctx context.Context, invoiceID string) ([]Payment, error)
}

// InvoiceStore persists invoices, keyed by their time-based string id.
type InvoiceStore interface {
	Get(ctx context.Context, id string) (Invoice, error)
	Put(ctx context.Context, inv Invoice) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]Invoice, error)
}

// ExpenseStore persists expenses.
type ExpenseStore interface {
	Get(ctx context.Context, id int64) (Expense, error)
	Put(ctx context.Context, e Expense) (int64, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]Expense, error)
}

// TransferStore persists inter-account transfers.
type TransferStore interface {
	Get(ctx context.Context, id int64) (Transfer, error)
	Put(ctx context.Context, t Transfer) (int64, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]Transfer, error)
}

// ClaimStore persists insurance claims.
type ClaimStore interface {
	Get(ctx context.Context, id int64) (InsuranceClaim, error)
	Put(ctx context.Context, c InsuranceClaim) (int64, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]InsuranceClaim, error)
}

// PayslipStore persists payslips.
type PayslipStore interface {
	Get(ctx context.Context, id int64) (Payslip, error)
	Put(ctx context.Context, p Payslip) (int64, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]Payslip, error)

	// FindByEmployeePeriod is the duplicate guard of the scheduled
	// generator: at most one payslip per employee per pay-period label.
	FindByEmployeePeriod(ctx context.Context, employeeID int64, period string) (Payslip, bool, error)
}

// EmployeeStore persists employees.
type EmployeeStore interface {
	Get(ctx context.Context, id int64) (Employee, error)
	Put(ctx context.Context, e Employee) (int64, error)
	List(ctx context.Context) ([]Employee, error)
}

// PayableReceivableStore persists open payables/receivables.
type PayableReceivableStore interface {
	Get(ctx context.Context, id int64) (PayableReceivable, error)
	Put(ctx context.Context, pr PayableReceivable) (int64, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]PayableReceivable, error)
}

// InventoryStore persists stock-tracked items.
type InventoryStore interface {
	Get(ctx context.Context, id int64) (InventoryItem, error)
	Put(ctx context.Context, it InventoryItem) (int64, error)
	List(ctx context.Context) ([]InventoryItem, error)
}

// Stores bundles every collection the posters touch.
type Stores struct {
	Payments           PaymentStore
	Invoices           InvoiceStore
	Expenses           ExpenseStore
	Transfers          TransferStore
	Claims             ClaimStore
	Payslips           PayslipStore
	Employees          EmployeeStore
	PayablesReceivable PayableReceivableStore
	Inventory          InventoryStore
}
