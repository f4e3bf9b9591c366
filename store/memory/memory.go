/*
Package memory provides an in-memory implementation of every store the
engine consumes: the ledger entry store, all business collections, and the
account directory.

PURPOSE:
  The default fixture for tests and the dev-mode backend for the server.
  Each collection is a mutex-guarded map with autoincrement keys, matching
  the abstract get/put/getAll/delete contract of the persistence layer.

RESTORE SAFETY:
  Nothing here caches derived state; replacing a table's contents wholesale
  (bulk restore) leaves every subsequent read consistent.

SEE ALSO:
  - ledger/store/memory.go: the entry store reused here
  - store/sqlite: the durable counterpart
*/
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/atlasclinic/ledger-engine/clinic"
	"github.com/atlasclinic/ledger-engine/ledger"
	ledgerstore "github.com/atlasclinic/ledger-engine/ledger/store"
)

// Store bundles in-memory tables for every collection.
type Store struct {
	Entries   *ledgerstore.Memory
	Payments  *PaymentTable
	Invoices  *InvoiceTable
	Expenses  *ExpenseTable
	Transfers *TransferTable
	Claims    *ClaimTable
	Payslips  *PayslipTable
	Employees *EmployeeTable
	Items     *PayableReceivableTable
	Inventory *InventoryTable
	Accounts  *AccountTable
}

func New() *Store {
	return &Store{
		Entries:   ledgerstore.NewMemory(),
		Payments:  &PaymentTable{rows: map[int64]clinic.Payment{}, nextID: 1},
		Invoices:  &InvoiceTable{rows: map[string]clinic.Invoice{}},
		Expenses:  &ExpenseTable{rows: map[int64]clinic.Expense{}, nextID: 1},
		Transfers: &TransferTable{rows: map[int64]clinic.Transfer{}, nextID: 1},
		Claims:    &ClaimTable{rows: map[int64]clinic.InsuranceClaim{}, nextID: 1},
		Payslips:  &PayslipTable{rows: map[int64]clinic.Payslip{}, nextID: 1},
		Employees: &EmployeeTable{rows: map[int64]clinic.Employee{}, nextID: 1},
		Items:     &PayableReceivableTable{rows: map[int64]clinic.PayableReceivable{}, nextID: 1},
		Inventory: &InventoryTable{rows: map[int64]clinic.InventoryItem{}, nextID: 1},
		Accounts:  &AccountTable{rows: map[int64]ledger.Account{}, nextID: 1},
	}
}

// Stores adapts the tables to the poster façade's bundle.
func (s *Store) Stores() clinic.Stores {
	return clinic.Stores{
		Payments:           s.Payments,
		Invoices:           s.Invoices,
		Expenses:           s.Expenses,
		Transfers:          s.Transfers,
		Claims:             s.Claims,
		Payslips:           s.Payslips,
		Employees:          s.Employees,
		PayablesReceivable: s.Items,
		Inventory:          s.Inventory,
	}
}

func notFound(collection string, key any) error {
	return &ledger.NotFoundError{Collection: collection, Key: fmt.Sprint(key)}
}

// =============================================================================
// PAYMENTS
// =============================================================================

type PaymentTable struct {
	mu     sync.RWMutex
	rows   map[int64]clinic.Payment
	nextID int64
}

func (t *PaymentTable) Get(_ context.Context, id int64) (clinic.Payment, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	p, ok := t.rows[id]
	if !ok {
		return clinic.Payment{}, notFound("payment", id)
	}
	return p, nil
}

func (t *PaymentTable) Put(_ context.Context, p clinic.Payment) (int64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if p.ID == 0 {
		p.ID = t.nextID
		t.nextID++
	} else if p.ID >= t.nextID {
		t.nextID = p.ID + 1
	}
	t.rows[p.ID] = p
	return p.ID, nil
}

func (t *PaymentTable) Delete(_ context.Context, id int64) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.rows, id)
	return nil
}

func (t *PaymentTable) List(_ context.Context) ([]clinic.Payment, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]clinic.Payment, 0, len(t.rows))
	for _, p := range t.rows {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (t *PaymentTable) ListByInvoice(_ context.Context, invoiceID string) ([]clinic.Payment, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var out []clinic.Payment
	for _, p := range t.rows {
		if p.InvoiceID == invoiceID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// =============================================================================
// INVOICES
// =============================================================================

type InvoiceTable struct {
	mu   sync.RWMutex
	rows map[string]clinic.Invoice
}

func (t *InvoiceTable) Get(_ context.Context, id string) (clinic.Invoice, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	inv, ok := t.rows[id]
	if !ok {
		return clinic.Invoice{}, notFound("invoice", id)
	}
	return inv, nil
}

func (t *InvoiceTable) Put(_ context.Context, inv clinic.Invoice) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if inv.ID == "" {
		return &ledger.ValidationError{Field: "id", Reason: "invoice id must be set"}
	}
	t.rows[inv.ID] = inv
	return nil
}

func (t *InvoiceTable) Delete(_ context.Context, id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.rows, id)
	return nil
}

func (t *InvoiceTable) List(_ context.Context) ([]clinic.Invoice, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]clinic.Invoice, 0, len(t.rows))
	for _, inv := range t.rows {
		out = append(out, inv)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// =============================================================================
// EXPENSES
// =============================================================================

type ExpenseTable struct {
	mu     sync.RWMutex
	rows   map[int64]clinic.Expense
	nextID int64
}

func (t *ExpenseTable) Get(_ context.Context, id int64) (clinic.Expense, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	e, ok := t.rows[id]
	if !ok {
		return clinic.Expense{}, notFound("expense", id)
	}
	return e, nil
}

func (t *ExpenseTable) Put(_ context.Context, e clinic.Expense) (int64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if e.ID == 0 {
		e.ID = t.nextID
		t.nextID++
	} else if e.ID >= t.nextID {
		t.nextID = e.ID + 1
	}
	t.rows[e.ID] = e
	return e.ID, nil
}

func (t *ExpenseTable) Delete(_ context.Context, id int64) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.rows, id)
	return nil
}

func (t *ExpenseTable) List(_ context.Context) ([]clinic.Expense, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]clinic.Expense, 0, len(t.rows))
	for _, e := range t.rows {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// =============================================================================
// TRANSFERS
// =============================================================================

type TransferTable struct {
	mu     sync.RWMutex
	rows   map[int64]clinic.Transfer
	nextID int64
}

func (t *TransferTable) Get(_ context.Context, id int64) (clinic.Transfer, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	tr, ok := t.rows[id]
	if !ok {
		return clinic.Transfer{}, notFound("transfer", id)
	}
	return tr, nil
}

func (t *TransferTable) Put(_ context.Context, tr clinic.Transfer) (int64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if tr.ID == 0 {
		tr.ID = t.nextID
		t.nextID++
	} else if tr.ID >= t.nextID {
		t.nextID = tr.ID + 1
	}
	t.rows[tr.ID] = tr
	return tr.ID, nil
}

func (t *TransferTable) Delete(_ context.Context, id int64) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.rows, id)
	return nil
}

func (t *TransferTable) List(_ context.Context) ([]clinic.Transfer, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]clinic.Transfer, 0, len(t.rows))
	for _, tr := range t.rows {
		out = append(out, tr)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// =============================================================================
// CLAIMS
// =============================================================================

type ClaimTable struct {
	mu     sync.RWMutex
	rows   map[int64]clinic.InsuranceClaim
	nextID int64
}

func (t *ClaimTable) Get(_ context.Context, id int64) (clinic.InsuranceClaim, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	c, ok := t.rows[id]
	if !ok {
		return clinic.InsuranceClaim{}, notFound("claim", id)
	}
	return c, nil
}

func (t *ClaimTable) Put(_ context.Context, c clinic.InsuranceClaim) (int64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if c.ID == 0 {
		c.ID = t.nextID
		t.nextID++
	} else if c.ID >= t.nextID {
		t.nextID = c.ID + 1
	}
	t.rows[c.ID] = c
	return c.ID, nil
}

func (t *ClaimTable) Delete(_ context.Context, id int64) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.rows, id)
	return nil
}

func (t *ClaimTable) List(_ context.Context) ([]clinic.InsuranceClaim, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]clinic.InsuranceClaim, 0, len(t.rows))
	for _, c := range t.rows {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// =============================================================================
// PAYSLIPS
// =============================================================================

type PayslipTable struct {
	mu     sync.RWMutex
	rows   map[int64]clinic.Payslip
	nextID int64
}

func (t *PayslipTable) Get(_ context.Context, id int64) (clinic.Payslip, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	p, ok := t.rows[id]
	if !ok {
		return clinic.Payslip{}, notFound("payslip", id)
	}
	return p, nil
}

func (t *PayslipTable) Put(_ context.Context, p clinic.Payslip) (int64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if p.ID == 0 {
		p.ID = t.nextID
		t.nextID++
	} else if p.ID >= t.nextID {
		t.nextID = p.ID + 1
	}
	t.rows[p.ID] = p
	return p.ID, nil
}

func (t *PayslipTable) Delete(_ context.Context, id int64) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.rows, id)
	return nil
}

func (t *PayslipTable) List(_ context.Context) ([]clinic.Payslip, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]clinic.Payslip, 0, len(t.rows))
	for _, p := range t.rows {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (t *PayslipTable) FindByEmployeePeriod(_ context.Context, employeeID int64, period string) (clinic.Payslip, bool, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, p := range t.rows {
		if p.EmployeeID == employeeID && p.Period == period {
			return p, true, nil
		}
	}
	return clinic.Payslip{}, false, nil
}

// =============================================================================
// EMPLOYEES
// =============================================================================

type EmployeeTable struct {
	mu     sync.RWMutex
	rows   map[int64]clinic.Employee
	nextID int64
}

func (t *EmployeeTable) Get(_ context.Context, id int64) (clinic.Employee, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	e, ok := t.rows[id]
	if !ok {
		return clinic.Employee{}, notFound("employee", id)
	}
	return e, nil
}

func (t *EmployeeTable) Put(_ context.Context, e clinic.Employee) (int64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if e.ID == 0 {
		e.ID = t.nextID
		t.nextID++
	} else if e.ID >= t.nextID {
		t.nextID = e.ID + 1
	}
	t.rows[e.ID] = e
	return e.ID, nil
}

func (t *EmployeeTable) List(_ context.Context) ([]clinic.Employee, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]clinic.Employee, 0, len(t.rows))
	for _, e := range t.rows {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// =============================================================================
// PAYABLES / RECEIVABLES
// =============================================================================

type PayableReceivableTable struct {
	mu     sync.RWMutex
	rows   map[int64]clinic.PayableReceivable
	nextID int64
}

func (t *PayableReceivableTable) Get(_ context.Context, id int64) (clinic.PayableReceivable, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	pr, ok := t.rows[id]
	if !ok {
		return clinic.PayableReceivable{}, notFound("payable_receivable", id)
	}
	return pr, nil
}

func (t *PayableReceivableTable) Put(_ context.Context, pr clinic.PayableReceivable) (int64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if pr.ID == 0 {
		pr.ID = t.nextID
		t.nextID++
	} else if pr.ID >= t.nextID {
		t.nextID = pr.ID + 1
	}
	t.rows[pr.ID] = pr
	return pr.ID, nil
}

func (t *PayableReceivableTable) Delete(_ context.Context, id int64) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.rows, id)
	return nil
}

func (t *PayableReceivableTable) List(_ context.Context) ([]clinic.PayableReceivable, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]clinic.PayableReceivable, 0, len(t.rows))
	for _, pr := range t.rows {
		out = append(out, pr)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// =============================================================================
// INVENTORY
// =============================================================================

type InventoryTable struct {
	mu     sync.RWMutex
	rows   map[int64]clinic.InventoryItem
	nextID int64
}

func (t *InventoryTable) Get(_ context.Context, id int64) (clinic.InventoryItem, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	it, ok := t.rows[id]
	if !ok {
		return clinic.InventoryItem{}, notFound("inventory_item", id)
	}
	return it, nil
}

func (t *InventoryTable) Put(_ context.Context, it clinic.InventoryItem) (int64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if it.ID == 0 {
		it.ID = t.nextID
		t.nextID++
	} else if it.ID >= t.nextID {
		t.nextID = it.ID + 1
	}
	t.rows[it.ID] = it
	return it.ID, nil
}

func (t *InventoryTable) List(_ context.Context) ([]clinic.InventoryItem, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]clinic.InventoryItem, 0, len(t.rows))
	for _, it := range t.rows {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// =============================================================================
// ACCOUNTS - Implements ledger.AccountDirectory
// =============================================================================

type AccountTable struct {
	mu     sync.RWMutex
	rows   map[int64]ledger.Account
	nextID int64
}

func (t *AccountTable) Account(id int64) (ledger.Account, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	a, ok := t.rows[id]
	if !ok {
		return ledger.Account{}, ledger.ErrAccountNotFound
	}
	return a, nil
}

func (t *AccountTable) Children(id int64) ([]ledger.Account, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var out []ledger.Account
	for _, a := range t.rows {
		if a.ParentID == id {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (t *AccountTable) Accounts() ([]ledger.Account, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]ledger.Account, 0, len(t.rows))
	for _, a := range t.rows {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Put seeds or replaces an account. Accounts are reference data; the engine
// itself never calls this.
func (t *AccountTable) Put(a ledger.Account) int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	if a.ID == 0 {
		a.ID = t.nextID
		t.nextID++
	} else if a.ID >= t.nextID {
		t.nextID = a.ID + 1
	}
	t.rows[a.ID] = a
	return a.ID
}

// Compile-time interface checks.
var (
	_ clinic.PaymentStore           = (*PaymentTable)(nil)
	_ clinic.InvoiceStore           = (*InvoiceTable)(nil)
	_ clinic.ExpenseStore           = (*ExpenseTable)(nil)
	_ clinic.TransferStore          = (*TransferTable)(nil)
	_ clinic.ClaimStore             = (*ClaimTable)(nil)
	_ clinic.PayslipStore           = (*PayslipTable)(nil)
	_ clinic.EmployeeStore          = (*EmployeeTable)(nil)
	_ clinic.PayableReceivableStore = (*PayableReceivableTable)(nil)
	_ clinic.InventoryStore         = (*InventoryTable)(nil)
	_ ledger.AccountDirectory       = (*AccountTable)(nil)
	_ ledger.Store                  = (*ledgerstore.Memory)(nil)
)
