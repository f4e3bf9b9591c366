/*
Package sqlite provides a SQLite-backed implementation of every store the
engine consumes.

PURPOSE:
  Durable persistence for the ledger and all business collections. The
  same patterns apply to any SQL backend; only dialect details differ.

KEY TABLES:
  ledger_entries:       dated debit/credit rows with a reference_id tag
  payments .. accounts: one table per business collection

REFERENCE INDEX:
  idx_ledger_reference backs FindByReference so a reversal never scans the
  ledger. A sort_key column holds the normalized date integer (0 for
  unparseable dates) so range queries exclude bad data the same way the
  in-memory store does.

ATOMIC BATCHES:
  AppendBatch wraps its inserts in a database transaction: a posting's
  entry family is written all-or-nothing.

WAL MODE:
  The database opens with WAL journaling: readers don't block and there is
  a single writer at a time, which matches the engine's single-writer
  model.

USAGE:
  store, err := sqlite.New("./data/clinic.db")   // or ":memory:"
  svc := clinic.NewService(store.Entries(), store.Stores(), settings)

SEE ALSO:
  - ledger/store/memory.go: in-memory counterpart
  - clinic/stores.go: the contracts implemented here
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/atlasclinic/ledger-engine/clinic"
	"github.com/atlasclinic/ledger-engine/ledger"
)

// Store owns the database handle. Collection accessors share it.
type Store struct {
	db *sql.DB
}

// New opens (and migrates) a SQLite database. Use ":memory:" for tests.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS ledger_entries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		date TEXT NOT NULL,
		sort_key INTEGER NOT NULL,
		description TEXT,
		account_id INTEGER NOT NULL,
		debit INTEGER NOT NULL CHECK (debit >= 0),
		credit INTEGER NOT NULL CHECK (credit >= 0),
		reference_id TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_ledger_reference
		ON ledger_entries(reference_id) WHERE reference_id != '';
	CREATE INDEX IF NOT EXISTS idx_ledger_account_date
		ON ledger_entries(account_id, sort_key);

	CREATE TABLE IF NOT EXISTS payments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		date TEXT, amount INTEGER NOT NULL, method TEXT,
		direction TEXT NOT NULL, description TEXT,
		entity_id INTEGER, account_id INTEGER NOT NULL,
		invoice_id TEXT, payable_receivable_id INTEGER
	);
	CREATE INDEX IF NOT EXISTS idx_payments_invoice
		ON payments(invoice_id) WHERE invoice_id != '';

	CREATE TABLE IF NOT EXISTS invoices (
		id TEXT PRIMARY KEY,
		date TEXT, patient_id INTEGER,
		items_json TEXT NOT NULL,
		total_amount INTEGER NOT NULL,
		patient_share INTEGER NOT NULL,
		paid_amount INTEGER NOT NULL,
		status TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS expenses (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		date TEXT, amount INTEGER NOT NULL,
		expense_account_id INTEGER NOT NULL,
		source_account_id INTEGER NOT NULL,
		description TEXT
	);

	CREATE TABLE IF NOT EXISTS transfers (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		date TEXT, amount INTEGER NOT NULL,
		from_account_id INTEGER NOT NULL,
		to_account_id INTEGER NOT NULL,
		description TEXT
	);

	CREATE TABLE IF NOT EXISTS claims (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		date TEXT, insurer_id INTEGER,
		claimed_amount INTEGER NOT NULL,
		received_amount INTEGER NOT NULL,
		bank_account_id INTEGER,
		status TEXT NOT NULL,
		description TEXT
	);

	CREATE TABLE IF NOT EXISTS payslips (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		employee_id INTEGER NOT NULL,
		period TEXT NOT NULL,
		date TEXT, net_pay INTEGER NOT NULL,
		status TEXT NOT NULL,
		payment_id INTEGER
	);
	CREATE INDEX IF NOT EXISTS idx_payslips_employee_period
		ON payslips(employee_id, period);

	CREATE TABLE IF NOT EXISTS employees (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT, base_salary INTEGER NOT NULL,
		benefits INTEGER NOT NULL,
		tax_rate TEXT NOT NULL,
		insurance_rate TEXT NOT NULL,
		next_payment_date TEXT
	);

	CREATE TABLE IF NOT EXISTS payables_receivables (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		kind TEXT NOT NULL, entity_id INTEGER,
		amount INTEGER NOT NULL, due_date TEXT,
		status TEXT NOT NULL, description TEXT,
		payment_id INTEGER
	);

	CREATE TABLE IF NOT EXISTS inventory_items (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT, quantity INTEGER NOT NULL,
		reorder_point INTEGER NOT NULL,
		purchase_price INTEGER NOT NULL,
		sale_price INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS accounts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL, main_type TEXT NOT NULL,
		code TEXT, parent_id INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_accounts_parent ON accounts(parent_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Entries returns the ledger entry store.
func (s *Store) Entries() ledger.Store { return &entryStore{db: s.db} }

// Accounts returns the account directory (plus seeding helpers).
func (s *Store) Accounts() *AccountStore { return &AccountStore{db: s.db} }

// Stores returns the business collection bundle for the poster façade.
func (s *Store) Stores() clinic.Stores {
	return clinic.Stores{
		Payments:           &paymentStore{db: s.db},
		Invoices:           &invoiceStore{db: s.db},
		Expenses:           &expenseStore{db: s.db},
		Transfers:          &transferStore{db: s.db},
		Claims:             &claimStore{db: s.db},
		Payslips:           &payslipStore{db: s.db},
		Employees:          &employeeStore{db: s.db},
		PayablesReceivable: &payableReceivableStore{db: s.db},
		Inventory:          &inventoryStore{db: s.db},
	}
}

// =============================================================================
// LEDGER ENTRIES
// =============================================================================

type entryStore struct{ db *sql.DB }

const entryColumns = `id, date, description, account_id, debit, credit, reference_id`

func (e *entryStore) Append(ctx context.Context, entry ledger.Entry) (int64, error) {
	if entry.Debit < 0 || entry.Credit < 0 {
		return 0, &ledger.ValidationError{Field: "amount", Reason: "debit and credit must be non-negative"}
	}
	res, err := e.db.ExecContext(ctx,
		`INSERT INTO ledger_entries (date, sort_key, description, account_id, debit, credit, reference_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.Date, ledger.ToSortable(entry.Date), entry.Description,
		entry.AccountID, entry.Debit, entry.Credit, entry.ReferenceID)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (e *entryStore) AppendBatch(ctx context.Context, entries []ledger.Entry) ([]ledger.Entry, error) {
	for _, entry := range entries {
		if entry.Debit < 0 || entry.Credit < 0 {
			return nil, &ledger.ValidationError{Field: "amount", Reason: "debit and credit must be non-negative"}
		}
	}

	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	out := make([]ledger.Entry, 0, len(entries))
	for _, entry := range entries {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO ledger_entries (date, sort_key, description, account_id, debit, credit, reference_id)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			entry.Date, ledger.ToSortable(entry.Date), entry.Description,
			entry.AccountID, entry.Debit, entry.Credit, entry.ReferenceID)
		if err != nil {
			return nil, err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, err
		}
		entry.ID = id
		out = append(out, entry)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return out, nil
}

func (e *entryStore) FindByReference(ctx context.Context, referenceID string) ([]ledger.Entry, error) {
	return e.query(ctx,
		`SELECT `+entryColumns+` FROM ledger_entries WHERE reference_id = ? ORDER BY id`,
		referenceID)
}

func (e *entryStore) DeleteMany(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	for _, id := range ids {
		if _, err := tx.ExecContext(ctx, `DELETE FROM ledger_entries WHERE id = ?`, id); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (e *entryStore) ListAll(ctx context.Context) ([]ledger.Entry, error) {
	return e.query(ctx, `SELECT `+entryColumns+` FROM ledger_entries ORDER BY sort_key, id`)
}

func (e *entryStore) ListInRange(ctx context.Context, accountID int64, from, to string) ([]ledger.Entry, error) {
	q := `SELECT ` + entryColumns + ` FROM ledger_entries WHERE 1=1`
	var args []any
	if accountID != 0 {
		q += ` AND account_id = ?`
		args = append(args, accountID)
	}
	if from != "" || to != "" {
		// Bounded ranges exclude rows with unparseable dates (sort_key 0).
		q += ` AND sort_key > 0`
		if from != "" {
			q += ` AND sort_key >= ?`
			args = append(args, ledger.ToSortable(from))
		}
		if to != "" {
			q += ` AND sort_key <= ?`
			args = append(args, ledger.ToSortable(to))
		}
	}
	q += ` ORDER BY sort_key, id`
	return e.query(ctx, q, args...)
}

func (e *entryStore) query(ctx context.Context, q string, args ...any) ([]ledger.Entry, error) {
	rows, err := e.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ledger.Entry
	for rows.Next() {
		var entry ledger.Entry
		if err := rows.Scan(&entry.ID, &entry.Date, &entry.Description,
			&entry.AccountID, &entry.Debit, &entry.Credit, &entry.ReferenceID); err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}

// =============================================================================
// PAYMENTS
// =============================================================================

type paymentStore struct{ db *sql.DB }

const paymentColumns = `id, date, amount, method, direction, description, entity_id, account_id, invoice_id, payable_receivable_id`

func (p *paymentStore) Get(ctx context.Context, id int64) (clinic.Payment, error) {
	var pay clinic.Payment
	err := p.db.QueryRowContext(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE id = ?`, id).
		Scan(&pay.ID, &pay.Date, &pay.Amount, &pay.Method, &pay.Direction,
			&pay.Description, &pay.EntityID, &pay.AccountID, &pay.InvoiceID, &pay.PayableReceivableID)
	if err == sql.ErrNoRows {
		return clinic.Payment{}, &ledger.NotFoundError{Collection: "payment", Key: fmt.Sprint(id)}
	}
	return pay, err
}

func (p *paymentStore) Put(ctx context.Context, pay clinic.Payment) (int64, error) {
	if pay.ID == 0 {
		res, err := p.db.ExecContext(ctx,
			`INSERT INTO payments (date, amount, method, direction, description, entity_id, account_id, invoice_id, payable_receivable_id)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			pay.Date, pay.Amount, pay.Method, pay.Direction, pay.Description,
			pay.EntityID, pay.AccountID, pay.InvoiceID, pay.PayableReceivableID)
		if err != nil {
			return 0, err
		}
		return res.LastInsertId()
	}
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO payments (id, date, amount, method, direction, description, entity_id, account_id, invoice_id, payable_receivable_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   date=excluded.date, amount=excluded.amount, method=excluded.method,
		   direction=excluded.direction, description=excluded.description,
		   entity_id=excluded.entity_id, account_id=excluded.account_id,
		   invoice_id=excluded.invoice_id, payable_receivable_id=excluded.payable_receivable_id`,
		pay.ID, pay.Date, pay.Amount, pay.Method, pay.Direction, pay.Description,
		pay.EntityID, pay.AccountID, pay.InvoiceID, pay.PayableReceivableID)
	return pay.ID, err
}

func (p *paymentStore) Delete(ctx context.Context, id int64) error {
	_, err := p.db.ExecContext(ctx, `DELETE FROM payments WHERE id = ?`, id)
	return err
}

func (p *paymentStore) List(ctx context.Context) ([]clinic.Payment, error) {
	return p.list(ctx, `SELECT `+paymentColumns+` FROM payments ORDER BY id`)
}

func (p *paymentStore) ListByInvoice(ctx context.Context, invoiceID string) ([]clinic.Payment, error) {
	return p.list(ctx, `SELECT `+paymentColumns+` FROM payments WHERE invoice_id = ? ORDER BY id`, invoiceID)
}

func (p *paymentStore) list(ctx context.Context, q string, args ...any) ([]clinic.Payment, error) {
	rows, err := p.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []clinic.Payment
	for rows.Next() {
		var pay clinic.Payment
		if err := rows.Scan(&pay.ID, &pay.Date, &pay.Amount, &pay.Method, &pay.Direction,
			&pay.Description, &pay.EntityID, &pay.AccountID, &pay.InvoiceID, &pay.PayableReceivableID); err != nil {
			return nil, err
		}
		out = append(out, pay)
	}
	return out, rows.Err()
}

// =============================================================================
// INVOICES
// =============================================================================

type invoiceStore struct{ db *sql.DB }

const invoiceColumns = `id, date, patient_id, items_json, total_amount, patient_share, paid_amount, status`

func (s *invoiceStore) Get(ctx context.Context, id string) (clinic.Invoice, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+invoiceColumns+` FROM invoices WHERE id = ?`, id)
	inv, err := scanInvoice(row.Scan)
	if err == sql.ErrNoRows {
		return clinic.Invoice{}, &ledger.NotFoundError{Collection: "invoice", Key: id}
	}
	return inv, err
}

func (s *invoiceStore) Put(ctx context.Context, inv clinic.Invoice) error {
	itemsJSON, err := json.Marshal(inv.Items)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO invoices (id, date, patient_id, items_json, total_amount, patient_share, paid_amount, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   date=excluded.date, patient_id=excluded.patient_id, items_json=excluded.items_json,
		   total_amount=excluded.total_amount, patient_share=excluded.patient_share,
		   paid_amount=excluded.paid_amount, status=excluded.status`,
		inv.ID, inv.Date, inv.PatientID, string(itemsJSON),
		inv.TotalAmount, inv.PatientShare, inv.PaidAmount, inv.Status)
	return err
}

func (s *invoiceStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM invoices WHERE id = ?`, id)
	return err
}

func (s *invoiceStore) List(ctx context.Context) ([]clinic.Invoice, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+invoiceColumns+` FROM invoices ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []clinic.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

func scanInvoice(scan func(...any) error) (clinic.Invoice, error) {
	var inv clinic.Invoice
	var itemsJSON string
	if err := scan(&inv.ID, &inv.Date, &inv.PatientID, &itemsJSON,
		&inv.TotalAmount, &inv.PatientShare, &inv.PaidAmount, &inv.Status); err != nil {
		return clinic.Invoice{}, err
	}
	if err := json.Unmarshal([]byte(itemsJSON), &inv.Items); err != nil {
		return clinic.Invoice{}, err
	}
	return inv, nil
}

// =============================================================================
// EXPENSES
// =============================================================================

type expenseStore struct{ db *sql.DB }

func (s *expenseStore) Get(ctx context.Context, id int64) (clinic.Expense, error) {
	var e clinic.Expense
	err := s.db.QueryRowContext(ctx,
		`SELECT id, date, amount, expense_account_id, source_account_id, description
		 FROM expenses WHERE id = ?`, id).
		Scan(&e.ID, &e.Date, &e.Amount, &e.ExpenseAccountID, &e.SourceAccountID, &e.Description)
	if err == sql.ErrNoRows {
		return clinic.Expense{}, &ledger.NotFoundError{Collection: "expense", Key: fmt.Sprint(id)}
	}
	return e, err
}

func (s *expenseStore) Put(ctx context.Context, e clinic.Expense) (int64, error) {
	if e.ID == 0 {
		res, err := s.db.ExecContext(ctx,
			`INSERT INTO expenses (date, amount, expense_account_id, source_account_id, description)
			 VALUES (?, ?, ?, ?, ?)`,
			e.Date, e.Amount, e.ExpenseAccountID, e.SourceAccountID, e.Description)
		if err != nil {
			return 0, err
		}
		return res.LastInsertId()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO expenses (id, date, amount, expense_account_id, source_account_id, description)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   date=excluded.date, amount=excluded.amount,
		   expense_account_id=excluded.expense_account_id,
		   source_account_id=excluded.source_account_id, description=excluded.description`,
		e.ID, e.Date, e.Amount, e.ExpenseAccountID, e.SourceAccountID, e.Description)
	return e.ID, err
}

func (s *expenseStore) Delete(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	return err
}

func (s *expenseStore) List(ctx context.Context) ([]clinic.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, date, amount, expense_account_id, source_account_id, description
		 FROM expenses ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []clinic.Expense
	for rows.Next() {
		var e clinic.Expense
		if err := rows.Scan(&e.ID, &e.Date, &e.Amount, &e.ExpenseAccountID, &e.SourceAccountID, &e.Description); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// =============================================================================
// TRANSFERS
// =============================================================================

type transferStore struct{ db *sql.DB }

func (s *transferStore) Get(ctx context.Context, id int64) (clinic.Transfer, error) {
	var t clinic.Transfer
	err := s.db.QueryRowContext(ctx,
		`SELECT id, date, amount, from_account_id, to_account_id, description
		 FROM transfers WHERE id = ?`, id).
		Scan(&t.ID, &t.Date, &t.Amount, &t.FromAccountID, &t.ToAccountID, &t.Description)
	if err == sql.ErrNoRows {
		return clinic.Transfer{}, &ledger.NotFoundError{Collection: "transfer", Key: fmt.Sprint(id)}
	}
	return t, err
}

func (s *transferStore) Put(ctx context.Context, t clinic.Transfer) (int64, error) {
	if t.ID == 0 {
		res, err := s.db.ExecContext(ctx,
			`INSERT INTO transfers (date, amount, from_account_id, to_account_id, description)
			 VALUES (?, ?, ?, ?, ?)`,
			t.Date, t.Amount, t.FromAccountID, t.ToAccountID, t.Description)
		if err != nil {
			return 0, err
		}
		return res.LastInsertId()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO transfers (id, date, amount, from_account_id, to_account_id, description)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   date=excluded.date, amount=excluded.amount,
		   from_account_id=excluded.from_account_id,
		   to_account_id=excluded.to_account_id, description=excluded.description`,
		t.ID, t.Date, t.Amount, t.FromAccountID, t.ToAccountID, t.Description)
	return t.ID, err
}

func (s *transferStore) Delete(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM transfers WHERE id = ?`, id)
	return err
}

func (s *transferStore) List(ctx context.Context) ([]clinic.Transfer, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, date, amount, from_account_id, to_account_id, description
		 FROM transfers ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []clinic.Transfer
	for rows.Next() {
		var t clinic.Transfer
		if err := rows.Scan(&t.ID, &t.Date, &t.Amount, &t.FromAccountID, &t.ToAccountID, &t.Description); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// =============================================================================
// CLAIMS
// =============================================================================

type claimStore struct{ db *sql.DB }

const claimColumns = `id, date, insurer_id, claimed_amount, received_amount, bank_account_id, status, description`

func (s *claimStore) Get(ctx context.Context, id int64) (clinic.InsuranceClaim, error) {
	var c clinic.InsuranceClaim
	err := s.db.QueryRowContext(ctx,
		`SELECT `+claimColumns+` FROM claims WHERE id = ?`, id).
		Scan(&c.ID, &c.Date, &c.InsurerID, &c.ClaimedAmount, &c.ReceivedAmount,
			&c.BankAccountID, &c.Status, &c.Description)
	if err == sql.ErrNoRows {
		return clinic.InsuranceClaim{}, &ledger.NotFoundError{Collection: "claim", Key: fmt.Sprint(id)}
	}
	return c, err
}

func (s *claimStore) Put(ctx context.Context, c clinic.InsuranceClaim) (int64, error) {
	if c.ID == 0 {
		res, err := s.db.ExecContext(ctx,
			`INSERT INTO claims (date, insurer_id, claimed_amount, received_amount, bank_account_id, status, description)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			c.Date, c.InsurerID, c.ClaimedAmount, c.ReceivedAmount, c.BankAccountID, c.Status, c.Description)
		if err != nil {
			return 0, err
		}
		return res.LastInsertId()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO claims (id, date, insurer_id, claimed_amount, received_amount, bank_account_id, status, description)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   date=excluded.date, insurer_id=excluded.insurer_id,
		   claimed_amount=excluded.claimed_amount, received_amount=excluded.received_amount,
		   bank_account_id=excluded.bank_account_id, status=excluded.status,
		   description=excluded.description`,
		c.ID, c.Date, c.InsurerID, c.ClaimedAmount, c.ReceivedAmount, c.BankAccountID, c.Status, c.Description)
	return c.ID, err
}

func (s *claimStore) Delete(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM claims WHERE id = ?`, id)
	return err
}

func (s *claimStore) List(ctx context.Context) ([]clinic.InsuranceClaim, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+claimColumns+` FROM claims ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []clinic.InsuranceClaim
	for rows.Next() {
		var c clinic.InsuranceClaim
		if err := rows.Scan(&c.ID, &c.Date, &c.InsurerID, &c.ClaimedAmount, &c.ReceivedAmount,
			&c.BankAccountID, &c.Status, &c.Description); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// =============================================================================
// PAYSLIPS
// =============================================================================

type payslipStore struct{ db *sql.DB }

const payslipColumns = `id, employee_id, period, date, net_pay, status, payment_id`

func (s *payslipStore) Get(ctx context.Context, id int64) (clinic.Payslip, error) {
	var p clinic.Payslip
	err := s.db.QueryRowContext(ctx,
		`SELECT `+payslipColumns+` FROM payslips WHERE id = ?`, id).
		Scan(&p.ID, &p.EmployeeID, &p.Period, &p.Date, &p.NetPay, &p.Status, &p.PaymentID)
	if err == sql.ErrNoRows {
		return clinic.Payslip{}, &ledger.NotFoundError{Collection: "payslip", Key: fmt.Sprint(id)}
	}
	return p, err
}

func (s *payslipStore) Put(ctx context.Context, p clinic.Payslip) (int64, error) {
	if p.ID == 0 {
		res, err := s.db.ExecContext(ctx,
			`INSERT INTO payslips (employee_id, period, date, net_pay, status, payment_id)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			p.EmployeeID, p.Period, p.Date, p.NetPay, p.Status, p.PaymentID)
		if err != nil {
			return 0, err
		}
		return res.LastInsertId()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO payslips (id, employee_id, period, date, net_pay, status, payment_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   employee_id=excluded.employee_id, period=excluded.period, date=excluded.date,
		   net_pay=excluded.net_pay, status=excluded.status, payment_id=excluded.payment_id`,
		p.ID, p.EmployeeID, p.Period, p.Date, p.NetPay, p.Status, p.PaymentID)
	return p.ID, err
}

func (s *payslipStore) Delete(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM payslips WHERE id = ?`, id)
	return err
}

func (s *payslipStore) List(ctx context.Context) ([]clinic.Payslip, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+payslipColumns+` FROM payslips ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []clinic.Payslip
	for rows.Next() {
		var p clinic.Payslip
		if err := rows.Scan(&p.ID, &p.EmployeeID, &p.Period, &p.Date, &p.NetPay, &p.Status, &p.PaymentID); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *payslipStore) FindByEmployeePeriod(ctx context.Context, employeeID int64, period string) (clinic.Payslip, bool, error) {
	var p clinic.Payslip
	err := s.db.QueryRowContext(ctx,
		`SELECT `+payslipColumns+` FROM payslips WHERE employee_id = ? AND period = ? LIMIT 1`,
		employeeID, period).
		Scan(&p.ID, &p.EmployeeID, &p.Period, &p.Date, &p.NetPay, &p.Status, &p.PaymentID)
	if err == sql.ErrNoRows {
		return clinic.Payslip{}, false, nil
	}
	if err != nil {
		return clinic.Payslip{}, false, err
	}
	return p, true, nil
}

// =============================================================================
// EMPLOYEES
// =============================================================================

type employeeStore struct{ db *sql.DB }

func (s *employeeStore) Get(ctx context.Context, id int64) (clinic.Employee, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, base_salary, benefits, tax_rate, insurance_rate, next_payment_date
		 FROM employees WHERE id = ?`, id)
	e, err := scanEmployee(row.Scan)
	if err == sql.ErrNoRows {
		return clinic.Employee{}, &ledger.NotFoundError{Collection: "employee", Key: fmt.Sprint(id)}
	}
	return e, err
}

func (s *employeeStore) Put(ctx context.Context, e clinic.Employee) (int64, error) {
	if e.ID == 0 {
		res, err := s.db.ExecContext(ctx,
			`INSERT INTO employees (name, base_salary, benefits, tax_rate, insurance_rate, next_payment_date)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			e.Name, e.BaseSalary, e.Benefits, e.TaxRate.String(), e.InsuranceRate.String(), e.NextPaymentDate)
		if err != nil {
			return 0, err
		}
		return res.LastInsertId()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO employees (id, name, base_salary, benefits, tax_rate, insurance_rate, next_payment_date)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name=excluded.name, base_salary=excluded.base_salary, benefits=excluded.benefits,
		   tax_rate=excluded.tax_rate, insurance_rate=excluded.insurance_rate,
		   next_payment_date=excluded.next_payment_date`,
		e.ID, e.Name, e.BaseSalary, e.Benefits, e.TaxRate.String(), e.InsuranceRate.String(), e.NextPaymentDate)
	return e.ID, err
}

func (s *employeeStore) List(ctx context.Context) ([]clinic.Employee, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, base_salary, benefits, tax_rate, insurance_rate, next_payment_date
		 FROM employees ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []clinic.Employee
	for rows.Next() {
		e, err := scanEmployee(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func scanEmployee(scan func(...any) error) (clinic.Employee, error) {
	var e clinic.Employee
	var taxRate, insuranceRate string
	if err := scan(&e.ID, &e.Name, &e.BaseSalary, &e.Benefits, &taxRate, &insuranceRate, &e.NextPaymentDate); err != nil {
		return clinic.Employee{}, err
	}
	var err error
	if e.TaxRate, err = decimal.NewFromString(taxRate); err != nil {
		return clinic.Employee{}, err
	}
	if e.InsuranceRate, err = decimal.NewFromString(insuranceRate); err != nil {
		return clinic.Employee{}, err
	}
	return e, nil
}

// =============================================================================
// PAYABLES / RECEIVABLES
// =============================================================================

type payableReceivableStore struct{ db *sql.DB }

const prColumns = `id, kind, entity_id, amount, due_date, status, description, payment_id`

func (s *payableReceivableStore) Get(ctx context.Context, id int64) (clinic.PayableReceivable, error) {
	var pr clinic.PayableReceivable
	err := s.db.QueryRowContext(ctx,
		`SELECT `+prColumns+` FROM payables_receivables WHERE id = ?`, id).
		Scan(&pr.ID, &pr.Kind, &pr.EntityID, &pr.Amount, &pr.DueDate, &pr.Status, &pr.Description, &pr.PaymentID)
	if err == sql.ErrNoRows {
		return clinic.PayableReceivable{}, &ledger.NotFoundError{Collection: "payable_receivable", Key: fmt.Sprint(id)}
	}
	return pr, err
}

func (s *payableReceivableStore) Put(ctx context.Context, pr clinic.PayableReceivable) (int64, error) {
	if pr.ID == 0 {
		res, err := s.db.ExecContext(ctx,
			`INSERT INTO payables_receivables (kind, entity_id, amount, due_date, status, description, payment_id)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			pr.Kind, pr.EntityID, pr.Amount, pr.DueDate, pr.Status, pr.Description, pr.PaymentID)
		if err != nil {
			return 0, err
		}
		return res.LastInsertId()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO payables_receivables (id, kind, entity_id, amount, due_date, status, description, payment_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   kind=excluded.kind, entity_id=excluded.entity_id, amount=excluded.amount,
		   due_date=excluded.due_date, status=excluded.status,
		   description=excluded.description, payment_id=excluded.payment_id`,
		pr.ID, pr.Kind, pr.EntityID, pr.Amount, pr.DueDate, pr.Status, pr.Description, pr.PaymentID)
	return pr.ID, err
}

func (s *payableReceivableStore) Delete(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM payables_receivables WHERE id = ?`, id)
	return err
}

func (s *payableReceivableStore) List(ctx context.Context) ([]clinic.PayableReceivable, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+prColumns+` FROM payables_receivables ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []clinic.PayableReceivable
	for rows.Next() {
		var pr clinic.PayableReceivable
		if err := rows.Scan(&pr.ID, &pr.Kind, &pr.EntityID, &pr.Amount, &pr.DueDate,
			&pr.Status, &pr.Description, &pr.PaymentID); err != nil {
			return nil, err
		}
		out = append(out, pr)
	}
	return out, rows.Err()
}

// =============================================================================
// INVENTORY
// =============================================================================

type inventoryStore struct{ db *sql.DB }

func (s *inventoryStore) Get(ctx context.Context, id int64) (clinic.InventoryItem, error) {
	var it clinic.InventoryItem
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, quantity, reorder_point, purchase_price, sale_price
		 FROM inventory_items WHERE id = ?`, id).
		Scan(&it.ID, &it.Name, &it.Quantity, &it.ReorderPoint, &it.PurchasePrice, &it.SalePrice)
	if err == sql.ErrNoRows {
		return clinic.InventoryItem{}, &ledger.NotFoundError{Collection: "inventory_item", Key: fmt.Sprint(id)}
	}
	return it, err
}

func (s *inventoryStore) Put(ctx context.Context, it clinic.InventoryItem) (int64, error) {
	if it.ID == 0 {
		res, err := s.db.ExecContext(ctx,
			`INSERT INTO inventory_items (name, quantity, reorder_point, purchase_price, sale_price)
			 VALUES (?, ?, ?, ?, ?)`,
			it.Name, it.Quantity, it.ReorderPoint, it.PurchasePrice, it.SalePrice)
		if err != nil {
			return 0, err
		}
		return res.LastInsertId()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO inventory_items (id, name, quantity, reorder_point, purchase_price, sale_price)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name=excluded.name, quantity=excluded.quantity, reorder_point=excluded.reorder_point,
		   purchase_price=excluded.purchase_price, sale_price=excluded.sale_price`,
		it.ID, it.Name, it.Quantity, it.ReorderPoint, it.PurchasePrice, it.SalePrice)
	return it.ID, err
}

func (s *inventoryStore) List(ctx context.Context) ([]clinic.InventoryItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, quantity, reorder_point, purchase_price, sale_price
		 FROM inventory_items ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []clinic.InventoryItem
	for rows.Next() {
		var it clinic.InventoryItem
		if err := rows.Scan(&it.ID, &it.Name, &it.Quantity, &it.ReorderPoint, &it.PurchasePrice, &it.SalePrice); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// =============================================================================
// ACCOUNTS - implements ledger.AccountDirectory
// =============================================================================

// AccountStore reads the chart of accounts and supports seeding it.
type AccountStore struct{ db *sql.DB }

func (s *AccountStore) Account(id int64) (ledger.Account, error) {
	var a ledger.Account
	err := s.db.QueryRow(
		`SELECT id, name, main_type, code, parent_id FROM accounts WHERE id = ?`, id).
		Scan(&a.ID, &a.Name, &a.MainType, &a.Code, &a.ParentID)
	if err == sql.ErrNoRows {
		return ledger.Account{}, ledger.ErrAccountNotFound
	}
	return a, err
}

func (s *AccountStore) Children(id int64) ([]ledger.Account, error) {
	return s.list(`SELECT id, name, main_type, code, parent_id FROM accounts WHERE parent_id = ? ORDER BY id`, id)
}

func (s *AccountStore) Accounts() ([]ledger.Account, error) {
	return s.list(`SELECT id, name, main_type, code, parent_id FROM accounts ORDER BY id`)
}

// Put seeds or replaces an account.
func (s *AccountStore) Put(a ledger.Account) (int64, error) {
	if a.ID == 0 {
		res, err := s.db.Exec(
			`INSERT INTO accounts (name, main_type, code, parent_id) VALUES (?, ?, ?, ?)`,
			a.Name, a.MainType, a.Code, a.ParentID)
		if err != nil {
			return 0, err
		}
		return res.LastInsertId()
	}
	_, err := s.db.Exec(
		`INSERT INTO accounts (id, name, main_type, code, parent_id)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name=excluded.name, main_type=excluded.main_type,
		   code=excluded.code, parent_id=excluded.parent_id`,
		a.ID, a.Name, a.MainType, a.Code, a.ParentID)
	return a.ID, err
}

// FindByCode resolves an account by its chart code.
func (s *AccountStore) FindByCode(code string) (ledger.Account, error) {
	var a ledger.Account
	err := s.db.QueryRow(
		`SELECT id, name, main_type, code, parent_id FROM accounts WHERE code = ? LIMIT 1`, code).
		Scan(&a.ID, &a.Name, &a.MainType, &a.Code, &a.ParentID)
	if err == sql.ErrNoRows {
		return ledger.Account{}, ledger.ErrAccountNotFound
	}
	return a, err
}

func (s *AccountStore) list(q string, args ...any) ([]ledger.Account, error) {
	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []ledger.Account
	for rows.Next() {
		var a ledger.Account
		if err := rows.Scan(&a.ID, &a.Name, &a.MainType, &a.Code, &a.ParentID); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Compile-time interface checks.
var (
	_ ledger.Store            = (*entryStore)(nil)
	_ ledger.AccountDirectory = (*AccountStore)(nil)
	_ clinic.PaymentStore     = (*paymentStore)(nil)
	_ clinic.InvoiceStore     = (*invoiceStore)(nil)
	_ clinic.PayslipStore     = (*payslipStore)(nil)
)
