// Package clinic implements the business-event posters of the clinic
// accounting system. It uses the ledger engine to derive and reverse the
// ledger footprint of every money-moving event, and keeps the dependent
// aggregates (invoice paid-amount/status, inventory quantities, payslip and
// payable/receivable statuses) in sync with those postings.
package clinic

import "github.com/shopspring/decimal"

// =============================================================================
// PAYMENT
// =============================================================================

// Direction distinguishes money received from money paid out.
type Direction string

const (
	DirectionReceipt      Direction = "receipt"
	DirectionDisbursement Direction = "disbursement"
)

// Payment is a cash movement. It lives in one shared collection regardless
// of which poster created it (payment form, payslip payment, settlement).
type Payment struct {
	ID          int64
	Date        string
	Amount      int64
	Method      string
	Direction   Direction
	Description string
	EntityID    int64 // counterparty (patient, employee, vendor)
	AccountID   int64 // cash/bank account moved

	// Optional linkages; at most one is set per payment.
	InvoiceID           string
	PayableReceivableID int64
}

// =============================================================================
// INVOICE
// =============================================================================

type InvoiceStatus string

const (
	StatusUnpaid        InvoiceStatus = "unpaid"
	StatusPartiallyPaid InvoiceStatus = "partially_paid"
	StatusPaid          InvoiceStatus = "paid"
)

// ItemKind classifies an invoice line. Only inventory lines move stock.
type ItemKind string

const (
	ItemService   ItemKind = "service"
	ItemInventory ItemKind = "inventory"
	ItemTemplate  ItemKind = "template"
)

// InvoiceItem is one line on an invoice.
type InvoiceItem struct {
	Kind        ItemKind
	ItemID      int64 // inventory item id for ItemInventory lines
	Description string
	Quantity    int64
	Price       int64 // unit price
}

// Invoice is a patient bill. PaidAmount is mutated only by payment posters
// and Status is always derived from PaidAmount vs PatientShare.
type Invoice struct {
	ID           string // time-based string id
	Date         string
	PatientID    int64
	Items        []InvoiceItem
	TotalAmount  int64
	PatientShare int64
	PaidAmount   int64
	Status       InvoiceStatus
}

// DeriveStatus recomputes the status from the paid amount. Called on every
// payment add/update/delete touching the invoice.
func (inv *Invoice) DeriveStatus() {
	switch {
	case inv.PaidAmount <= 0:
		inv.Status = StatusUnpaid
	case inv.PaidAmount >= inv.PatientShare:
		inv.Status = StatusPaid
	default:
		inv.Status = StatusPartiallyPaid
	}
}

// LineTotal returns quantity times unit price.
func (it InvoiceItem) LineTotal() int64 { return it.Quantity * it.Price }

// =============================================================================
// EXPENSE / TRANSFER
// =============================================================================

// Expense records money spent from a cash/bank account against an expense
// account.
type Expense struct {
	ID               int64
	Date             string
	Amount           int64
	ExpenseAccountID int64
	SourceAccountID  int64
	Description      string
}

// Transfer moves money between two cash/bank accounts.
type Transfer struct {
	ID            int64
	Date          string
	Amount        int64
	FromAccountID int64
	ToAccountID   int64
	Description   string
}

// =============================================================================
// INSURANCE CLAIM
// =============================================================================

type ClaimStatus string

const (
	ClaimPending  ClaimStatus = "pending"
	ClaimApproved ClaimStatus = "approved"
	ClaimPaid     ClaimStatus = "paid"
	ClaimRejected ClaimStatus = "rejected"
)

// InsuranceClaim tracks the insurer share of invoices. The ledger posting
// fires only on the transition into ClaimPaid, never on a re-save of an
// already-paid claim.
type InsuranceClaim struct {
	ID             int64
	Date           string
	InsurerID      int64
	ClaimedAmount  int64
	ReceivedAmount int64
	BankAccountID  int64
	Status         ClaimStatus
	Description    string
}

// =============================================================================
// PAYROLL
// =============================================================================

type PayslipStatus string

const (
	PayslipPending PayslipStatus = "pending"
	PayslipPaid    PayslipStatus = "paid"
)

// Payslip is one employee's pay for one period. No ledger rows exist until
// it is paid; payment delegates to the disbursement poster.
type Payslip struct {
	ID         int64
	EmployeeID int64
	Period     string // "Y/M" pay-period label
	Date       string
	NetPay     int64
	Status     PayslipStatus
	PaymentID  int64 // set when paid
}

// Employee carries the payroll inputs of the scheduled generator. Rates are
// fractions (0.10 = ten percent) applied to integer salaries.
type Employee struct {
	ID              int64
	Name            string
	BaseSalary      int64
	Benefits        int64
	TaxRate         decimal.Decimal
	InsuranceRate   decimal.Decimal
	NextPaymentDate string
}

// NetPay derives the period net pay: gross minus tax on gross minus
// insurance on base salary, rounded to the smallest currency unit.
func (e Employee) NetPay() int64 {
	gross := decimal.NewFromInt(e.BaseSalary + e.Benefits)
	tax := gross.Mul(e.TaxRate).Round(0)
	insurance := decimal.NewFromInt(e.BaseSalary).Mul(e.InsuranceRate).Round(0)
	return gross.Sub(tax).Sub(insurance).IntPart()
}

// =============================================================================
// PAYABLE / RECEIVABLE
// =============================================================================

type PayableReceivableKind string

const (
	KindPayable    PayableReceivableKind = "payable"
	KindReceivable PayableReceivableKind = "receivable"
)

type PayableReceivableStatus string

const (
	PRStatusOpen PayableReceivableStatus = "open"
	PRStatusPaid PayableReceivableStatus = "paid"
)

// PayableReceivable is an open item settled through the payment poster with
// the direction derived from its kind.
type PayableReceivable struct {
	ID          int64
	Kind        PayableReceivableKind
	EntityID    int64
	Amount      int64
	DueDate     string
	Status      PayableReceivableStatus
	Description string
	PaymentID   int64 // set when settled
}

// SettlementDirection maps the item kind to the payment direction.
func (pr PayableReceivable) SettlementDirection() Direction {
	if pr.Kind == KindPayable {
		return DirectionDisbursement
	}
	return DirectionReceipt
}

// =============================================================================
// INVENTORY
// =============================================================================

// InventoryItem is a stock-tracked product. Quantity is mutated only
// through the StockMover.
type InventoryItem struct {
	ID            int64
	Name          string
	Quantity      int64
	ReorderPoint  int64
	PurchasePrice int64
	SalePrice     int64
}

// BelowReorderPoint reports whether on-hand stock needs reordering.
func (it InventoryItem) BelowReorderPoint() bool {
	return it.Quantity <= it.ReorderPoint
}
