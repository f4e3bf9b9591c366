/*
service.go - Poster façade

PURPOSE:
  One Service method per business-event operation. Each call performs all
  reads and writes for its event (ledger rows, the event's own collection,
  dependent collections) and returns a result bundle listing everything
  that changed, so the caller can patch its cache without a full reload.

CONCURRENCY:
  The engine assumes a single writer. Service serializes every poster
  invocation behind one mutex; within a call the posters pre-validate
  everything that can fail (existence, stock, posting balance) before the
  first write, so the non-crash path never leaves partial state.

RE-ENTRANT SAFETY:
  Updates reverse the old effect first, then apply the new one. The end
  state of Update(X) equals Delete(old X) followed by Create(new X),
  including the case where a linkage (e.g. payment -> invoice) moved.

SEE ALSO:
  - payment.go, invoice.go, expense.go, transfer.go, claim.go,
    settlement.go, payroll.go: the posters themselves
*/
package clinic

import (
	"sync"

	"github.com/atlasclinic/ledger-engine/ledger"
)

// =============================================================================
// SERVICE
// =============================================================================

// Settings carries the configured accounts the posters need beyond what the
// events themselves reference.
type Settings struct {
	// ReceivableAccountID is credited when an invoice-linked receipt comes
	// in and when an insurance claim settles.
	ReceivableAccountID int64
}

// Service is the entry point for every money-moving operation.
type Service struct {
	mu       sync.Mutex // single-writer serialization across all posters
	ledger   *ledger.Ledger
	stores   Stores
	stock    *StockMover
	settings Settings
}

func NewService(entryStore ledger.Store, stores Stores, settings Settings) *Service {
	return &Service{
		ledger:   ledger.NewLedger(entryStore),
		stores:   stores,
		stock:    NewStockMover(stores.Inventory),
		settings: settings,
	}
}

// Ledger exposes the underlying posting engine for read-side consumers.
func (s *Service) Ledger() *ledger.Ledger { return s.ledger }

// Stores exposes the collection stores for read-side consumers.
func (s *Service) Stores() Stores { return s.stores }

// =============================================================================
// RESULT BUNDLES
// =============================================================================

// PaymentResult reports everything a payment operation changed.
type PaymentResult struct {
	Payment         Payment
	Entries         []ledger.Entry // newly created rows
	DeletedEntryIDs []int64        // rows removed by a reversal
	Invoices        []Invoice      // invoices whose paid amount moved
}

// InvoiceResult reports everything an invoice operation changed.
type InvoiceResult struct {
	Invoice           Invoice
	Items             []InventoryItem // inventory rows whose quantity moved
	DeletedPaymentIDs []int64         // cascade-deleted payments
	DeletedEntryIDs   []int64
}

// ExpenseResult reports an expense posting.
type ExpenseResult struct {
	Expense         Expense
	Entries         []ledger.Entry
	DeletedEntryIDs []int64
}

// TransferResult reports a transfer posting.
type TransferResult struct {
	Transfer        Transfer
	Entries         []ledger.Entry
	DeletedEntryIDs []int64
}

// ClaimResult reports a claim save or delete.
type ClaimResult struct {
	Claim           InsuranceClaim
	Entries         []ledger.Entry
	DeletedEntryIDs []int64
}

// PayslipPaymentResult reports a payslip payment: the updated payslip plus
// the delegated disbursement.
type PayslipPaymentResult struct {
	Payslip Payslip
	Payment PaymentResult
}

// SettlementResult reports a payable/receivable settlement.
type SettlementResult struct {
	Item    PayableReceivable
	Payment PaymentResult
}

// PayrollRunResult reports one due-date scan of the payslip generator.
type PayrollRunResult struct {
	Created   []Payslip  // newly generated payslips
	Employees []Employee // employees whose next-due date advanced
}
