/*
dto.go - Request/response data structures for the HTTP API

PURPOSE:
  JSON shapes for the wire. Domain types stay free of transport concerns;
  the conversions live here next to the shapes.

CONVENTIONS:
  - Dates travel as solar-calendar "Y/M/D" strings, exactly as stored.
  - Amounts are integers in the smallest currency unit.
  - Payroll rates travel as decimal strings ("0.1" = 10%).

SEE ALSO:
  - handlers.go: where these are parsed and produced
*/
package api

import (
	"github.com/shopspring/decimal"

	"github.com/atlasclinic/ledger-engine/clinic"
	"github.com/atlasclinic/ledger-engine/ledger"
)

// =============================================================================
// REQUESTS
// =============================================================================

// PaymentRequest creates or updates a payment.
type PaymentRequest struct {
	Date                string `json:"date"`
	Amount              int64  `json:"amount"`
	Method              string `json:"method,omitempty"`
	Direction           string `json:"direction"`
	Description         string `json:"description,omitempty"`
	EntityID            int64  `json:"entity_id,omitempty"`
	AccountID           int64  `json:"account_id"`
	InvoiceID           string `json:"invoice_id,omitempty"`
	PayableReceivableID int64  `json:"payable_receivable_id,omitempty"`
}

func (r PaymentRequest) toDomain(id int64) clinic.Payment {
	return clinic.Payment{
		ID:                  id,
		Date:                r.Date,
		Amount:              r.Amount,
		Method:              r.Method,
		Direction:           clinic.Direction(r.Direction),
		Description:         r.Description,
		EntityID:            r.EntityID,
		AccountID:           r.AccountID,
		InvoiceID:           r.InvoiceID,
		PayableReceivableID: r.PayableReceivableID,
	}
}

// InvoiceItemRequest is one invoice line.
type InvoiceItemRequest struct {
	Kind        string `json:"kind"`
	ItemID      int64  `json:"item_id,omitempty"`
	Description string `json:"description,omitempty"`
	Quantity    int64  `json:"quantity"`
	Price       int64  `json:"price"`
}

// InvoiceRequest creates or updates an invoice.
type InvoiceRequest struct {
	Date         string               `json:"date"`
	PatientID    int64                `json:"patient_id"`
	Items        []InvoiceItemRequest `json:"items"`
	TotalAmount  int64                `json:"total_amount,omitempty"`
	PatientShare int64                `json:"patient_share"`
}

func (r InvoiceRequest) toDomain(id string) clinic.Invoice {
	inv := clinic.Invoice{
		ID:           id,
		Date:         r.Date,
		PatientID:    r.PatientID,
		TotalAmount:  r.TotalAmount,
		PatientShare: r.PatientShare,
	}
	for _, it := range r.Items {
		inv.Items = append(inv.Items, clinic.InvoiceItem{
			Kind:        clinic.ItemKind(it.Kind),
			ItemID:      it.ItemID,
			Description: it.Description,
			Quantity:    it.Quantity,
			Price:       it.Price,
		})
	}
	return inv
}

// ExpenseRequest creates or updates an expense.
type ExpenseRequest struct {
	Date             string `json:"date"`
	Amount           int64  `json:"amount"`
	ExpenseAccountID int64  `json:"expense_account_id"`
	SourceAccountID  int64  `json:"source_account_id"`
	Description      string `json:"description,omitempty"`
}

func (r ExpenseRequest) toDomain(id int64) clinic.Expense {
	return clinic.Expense{
		ID:               id,
		Date:             r.Date,
		Amount:           r.Amount,
		ExpenseAccountID: r.ExpenseAccountID,
		SourceAccountID:  r.SourceAccountID,
		Description:      r.Description,
	}
}

// TransferRequest creates or updates a transfer.
type TransferRequest struct {
	Date          string `json:"date"`
	Amount        int64  `json:"amount"`
	FromAccountID int64  `json:"from_account_id"`
	ToAccountID   int64  `json:"to_account_id"`
	Description   string `json:"description,omitempty"`
}

func (r TransferRequest) toDomain(id int64) clinic.Transfer {
	return clinic.Transfer{
		ID:            id,
		Date:          r.Date,
		Amount:        r.Amount,
		FromAccountID: r.FromAccountID,
		ToAccountID:   r.ToAccountID,
		Description:   r.Description,
	}
}

// ClaimRequest creates or updates an insurance claim.
type ClaimRequest struct {
	ID             int64  `json:"id,omitempty"`
	Date           string `json:"date"`
	InsurerID      int64  `json:"insurer_id,omitempty"`
	ClaimedAmount  int64  `json:"claimed_amount"`
	ReceivedAmount int64  `json:"received_amount,omitempty"`
	BankAccountID  int64  `json:"bank_account_id,omitempty"`
	Status         string `json:"status"`
	Description    string `json:"description,omitempty"`
}

func (r ClaimRequest) toDomain() clinic.InsuranceClaim {
	return clinic.InsuranceClaim{
		ID:             r.ID,
		Date:           r.Date,
		InsurerID:      r.InsurerID,
		ClaimedAmount:  r.ClaimedAmount,
		ReceivedAmount: r.ReceivedAmount,
		BankAccountID:  r.BankAccountID,
		Status:         clinic.ClaimStatus(r.Status),
		Description:    r.Description,
	}
}

// EmployeeRequest creates or updates an employee.
type EmployeeRequest struct {
	ID              int64  `json:"id,omitempty"`
	Name            string `json:"name"`
	BaseSalary      int64  `json:"base_salary"`
	Benefits        int64  `json:"benefits,omitempty"`
	TaxRate         string `json:"tax_rate"`
	InsuranceRate   string `json:"insurance_rate"`
	NextPaymentDate string `json:"next_payment_date"`
}

func (r EmployeeRequest) toDomain() (clinic.Employee, error) {
	taxRate, err := decimal.NewFromString(r.TaxRate)
	if err != nil {
		return clinic.Employee{}, &ledger.ValidationError{Field: "tax_rate", Reason: err.Error()}
	}
	insuranceRate, err := decimal.NewFromString(r.InsuranceRate)
	if err != nil {
		return clinic.Employee{}, &ledger.ValidationError{Field: "insurance_rate", Reason: err.Error()}
	}
	return clinic.Employee{
		ID:              r.ID,
		Name:            r.Name,
		BaseSalary:      r.BaseSalary,
		Benefits:        r.Benefits,
		TaxRate:         taxRate,
		InsuranceRate:   insuranceRate,
		NextPaymentDate: r.NextPaymentDate,
	}, nil
}

// PayRequest drives payslip payment and payable/receivable settlement:
// which account the cash moves through, on which date.
type PayRequest struct {
	AccountID int64  `json:"account_id"`
	Date      string `json:"date"`
}

// GenerateRequest optionally overrides "today" for a payroll run.
type GenerateRequest struct {
	Today string `json:"today,omitempty"`
}

// =============================================================================
// RESPONSES
// =============================================================================

// EntryDTO is one ledger row on the wire.
type EntryDTO struct {
	ID          int64  `json:"id"`
	Date        string `json:"date"`
	Description string `json:"description,omitempty"`
	AccountID   int64  `json:"account_id"`
	Debit       int64  `json:"debit"`
	Credit      int64  `json:"credit"`
	ReferenceID string `json:"reference_id,omitempty"`
}

func toEntryDTOs(entries []ledger.Entry) []EntryDTO {
	out := make([]EntryDTO, len(entries))
	for i, e := range entries {
		out[i] = EntryDTO{
			ID:          e.ID,
			Date:        e.Date,
			Description: e.Description,
			AccountID:   e.AccountID,
			Debit:       e.Debit,
			Credit:      e.Credit,
			ReferenceID: e.ReferenceID,
		}
	}
	return out
}

// MutationResponse is the uniform shape for write operations: what was
// written, what was removed, and the dependent records that moved.
type MutationResponse struct {
	Record            any        `json:"record,omitempty"`
	Entries           []EntryDTO `json:"entries,omitempty"`
	DeletedEntryIDs   []int64    `json:"deleted_entry_ids,omitempty"`
	DeletedPaymentIDs []int64    `json:"deleted_payment_ids,omitempty"`
	Dependents        any        `json:"dependents,omitempty"`
}

// BalanceResponse reports a computed account balance.
type BalanceResponse struct {
	AccountID   int64  `json:"account_id"`
	AsOf        string `json:"as_of,omitempty"`
	Balance     int64  `json:"balance"`
	WithSubtree bool   `json:"with_subtree"`
}

// ErrorResponse is the uniform error shape.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
