/*
handlers.go - HTTP API handlers for the clinic accounting engine

PURPOSE:
  Exposes the posting engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to the clinic service and reporters.

ENDPOINTS:
  Payments:
    POST   /api/payments                      Create payment
    PUT    /api/payments/{id}                 Update payment (reverse + repost)
    DELETE /api/payments/{id}                 Delete payment

  Invoices:
    POST   /api/invoices                      Create invoice (moves stock)
    PUT    /api/invoices/{id}                 Update invoice
    DELETE /api/invoices/{id}                 Cascade delete

  Expenses / Transfers:  same create/update/delete triple

  Claims:
    POST   /api/claims                        Save claim (create or update)
    DELETE /api/claims/{id}                   Delete claim

  Payroll:
    POST   /api/employees                     Upsert employee
    POST   /api/payslips/generate             Run the due-date scan
    POST   /api/payslips/{id}/pay             Pay one payslip

  Settlement:
    POST   /api/payables-receivables/{id}/settle

  Read side:
    GET    /api/accounts                      Chart of accounts
    GET    /api/accounts/{id}/balance         Balance (?as_of=, ?subtree=)
    GET    /api/ledger                        Entries (?account_id=, ?from=, ?to=)
    GET    /api/reports/pl                    Profit & loss (?from=, ?to=)
    GET    /api/reports/balance-sheet         Balance sheet (?as_of=)
    GET    /api/reports/aging                 Payable/receivable aging

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Entity not found
  - 409: Insufficient stock
  - 500: Internal errors

SECURITY NOTE:
  Currently NO authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/atlasclinic/ledger-engine/clinic"
	"github.com/atlasclinic/ledger-engine/ledger"
	"github.com/atlasclinic/ledger-engine/reports"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Service  *clinic.Service
	Reporter *reports.Reporter
	Accounts ledger.AccountDirectory
	Calc     *ledger.BalanceCalculator

	// Today supplies "today" when a request leaves it out.
	Today ledger.TodayFunc
}

// NewHandler creates a new handler wired to the service and report layer.
func NewHandler(svc *clinic.Service, reporter *reports.Reporter, accounts ledger.AccountDirectory) *Handler {
	return &Handler{
		Service:  svc,
		Reporter: reporter,
		Accounts: accounts,
		Calc:     ledger.NewBalanceCalculator(svc.Ledger().Store, accounts),
		Today:    ledger.Today,
	}
}

// =============================================================================
// PAYMENT HANDLERS
// =============================================================================

func (h *Handler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var req PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON", err)
		return
	}
	res, err := h.Service.CreatePayment(r.Context(), req.toDomain(0))
	if err != nil {
		writeDomainError(w, "Failed to create payment", err)
		return
	}
	writeJSON(w, http.StatusCreated, paymentMutation(res))
}

func (h *Handler) UpdatePayment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON", err)
		return
	}
	res, err := h.Service.UpdatePayment(r.Context(), req.toDomain(id))
	if err != nil {
		writeDomainError(w, "Failed to update payment", err)
		return
	}
	writeJSON(w, http.StatusOK, paymentMutation(res))
}

func (h *Handler) DeletePayment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	res, err := h.Service.DeletePayment(r.Context(), id)
	if err != nil {
		writeDomainError(w, "Failed to delete payment", err)
		return
	}
	writeJSON(w, http.StatusOK, paymentMutation(res))
}

func paymentMutation(res clinic.PaymentResult) MutationResponse {
	return MutationResponse{
		Record:          res.Payment,
		Entries:         toEntryDTOs(res.Entries),
		DeletedEntryIDs: res.DeletedEntryIDs,
		Dependents:      res.Invoices,
	}
}

// =============================================================================
// INVOICE HANDLERS
// =============================================================================

func (h *Handler) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	var req InvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON", err)
		return
	}
	res, err := h.Service.CreateInvoice(r.Context(), req.toDomain(""))
	if err != nil {
		writeDomainError(w, "Failed to create invoice", err)
		return
	}
	writeJSON(w, http.StatusCreated, invoiceMutation(res))
}

func (h *Handler) UpdateInvoice(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req InvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON", err)
		return
	}
	res, err := h.Service.UpdateInvoice(r.Context(), req.toDomain(id))
	if err != nil {
		writeDomainError(w, "Failed to update invoice", err)
		return
	}
	writeJSON(w, http.StatusOK, invoiceMutation(res))
}

func (h *Handler) DeleteInvoice(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	res, err := h.Service.DeleteInvoice(r.Context(), id)
	if err != nil {
		writeDomainError(w, "Failed to delete invoice", err)
		return
	}
	writeJSON(w, http.StatusOK, invoiceMutation(res))
}

func invoiceMutation(res clinic.InvoiceResult) MutationResponse {
	return MutationResponse{
		Record:            res.Invoice,
		DeletedEntryIDs:   res.DeletedEntryIDs,
		DeletedPaymentIDs: res.DeletedPaymentIDs,
		Dependents:        res.Items,
	}
}

// =============================================================================
// EXPENSE AND TRANSFER HANDLERS
// =============================================================================

func (h *Handler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	var req ExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON", err)
		return
	}
	res, err := h.Service.CreateExpense(r.Context(), req.toDomain(0))
	if err != nil {
		writeDomainError(w, "Failed to create expense", err)
		return
	}
	writeJSON(w, http.StatusCreated, MutationResponse{Record: res.Expense, Entries: toEntryDTOs(res.Entries)})
}

func (h *Handler) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req ExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON", err)
		return
	}
	res, err := h.Service.UpdateExpense(r.Context(), req.toDomain(id))
	if err != nil {
		writeDomainError(w, "Failed to update expense", err)
		return
	}
	writeJSON(w, http.StatusOK, MutationResponse{
		Record: res.Expense, Entries: toEntryDTOs(res.Entries), DeletedEntryIDs: res.DeletedEntryIDs,
	})
}

func (h *Handler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	res, err := h.Service.DeleteExpense(r.Context(), id)
	if err != nil {
		writeDomainError(w, "Failed to delete expense", err)
		return
	}
	writeJSON(w, http.StatusOK, MutationResponse{Record: res.Expense, DeletedEntryIDs: res.DeletedEntryIDs})
}

func (h *Handler) CreateTransfer(w http.ResponseWriter, r *http.Request) {
	var req TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON", err)
		return
	}
	res, err := h.Service.CreateTransfer(r.Context(), req.toDomain(0))
	if err != nil {
		writeDomainError(w, "Failed to create transfer", err)
		return
	}
	writeJSON(w, http.StatusCreated, MutationResponse{Record: res.Transfer, Entries: toEntryDTOs(res.Entries)})
}

func (h *Handler) UpdateTransfer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON", err)
		return
	}
	res, err := h.Service.UpdateTransfer(r.Context(), req.toDomain(id))
	if err != nil {
		writeDomainError(w, "Failed to update transfer", err)
		return
	}
	writeJSON(w, http.StatusOK, MutationResponse{
		Record: res.Transfer, Entries: toEntryDTOs(res.Entries), DeletedEntryIDs: res.DeletedEntryIDs,
	})
}

func (h *Handler) DeleteTransfer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	res, err := h.Service.DeleteTransfer(r.Context(), id)
	if err != nil {
		writeDomainError(w, "Failed to delete transfer", err)
		return
	}
	writeJSON(w, http.StatusOK, MutationResponse{Record: res.Transfer, DeletedEntryIDs: res.DeletedEntryIDs})
}

// =============================================================================
// CLAIM HANDLERS
// =============================================================================

func (h *Handler) SaveClaim(w http.ResponseWriter, r *http.Request) {
	var req ClaimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON", err)
		return
	}
	res, err := h.Service.SaveClaim(r.Context(), req.toDomain())
	if err != nil {
		writeDomainError(w, "Failed to save claim", err)
		return
	}
	writeJSON(w, http.StatusOK, MutationResponse{
		Record: res.Claim, Entries: toEntryDTOs(res.Entries), DeletedEntryIDs: res.DeletedEntryIDs,
	})
}

func (h *Handler) DeleteClaim(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	res, err := h.Service.DeleteClaim(r.Context(), id)
	if err != nil {
		writeDomainError(w, "Failed to delete claim", err)
		return
	}
	writeJSON(w, http.StatusOK, MutationResponse{Record: res.Claim, DeletedEntryIDs: res.DeletedEntryIDs})
}

// =============================================================================
// PAYROLL HANDLERS
// =============================================================================

func (h *Handler) SaveEmployee(w http.ResponseWriter, r *http.Request) {
	var req EmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON", err)
		return
	}
	emp, err := req.toDomain()
	if err != nil {
		writeDomainError(w, "Invalid employee", err)
		return
	}
	id, err := h.Service.Stores().Employees.Put(r.Context(), emp)
	if err != nil {
		writeDomainError(w, "Failed to save employee", err)
		return
	}
	emp.ID = id
	writeJSON(w, http.StatusOK, MutationResponse{Record: emp})
}

func (h *Handler) GeneratePayslips(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON", err)
			return
		}
	}
	today := req.Today
	if today == "" {
		today = h.Today()
	}
	res, err := h.Service.GenerateDuePayslips(r.Context(), today)
	if err != nil {
		writeDomainError(w, "Failed to generate payslips", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) PayPayslip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req PayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON", err)
		return
	}
	date := req.Date
	if date == "" {
		date = h.Today()
	}
	res, err := h.Service.PayPayslip(r.Context(), id, req.AccountID, date)
	if err != nil {
		writeDomainError(w, "Failed to pay payslip", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// =============================================================================
// SETTLEMENT HANDLER
// =============================================================================

func (h *Handler) SettlePayableReceivable(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req PayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON", err)
		return
	}
	date := req.Date
	if date == "" {
		date = h.Today()
	}
	res, err := h.Service.SettlePayableReceivable(r.Context(), id, req.AccountID, date)
	if err != nil {
		writeDomainError(w, "Failed to settle item", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// =============================================================================
// READ-SIDE HANDLERS
// =============================================================================

func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.Accounts.Accounts()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list accounts", err)
		return
	}
	writeJSON(w, http.StatusOK, accounts)
}

func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	asOf := r.URL.Query().Get("as_of")
	subtree := r.URL.Query().Get("subtree") == "true"

	var balance int64
	var err error
	if subtree {
		balance, err = h.Calc.BalanceWithDescendants(r.Context(), id, asOf)
	} else {
		balance, err = h.Calc.Balance(r.Context(), id, asOf)
	}
	if err != nil {
		writeDomainError(w, "Failed to compute balance", err)
		return
	}
	writeJSON(w, http.StatusOK, BalanceResponse{
		AccountID: id, AsOf: asOf, Balance: balance, WithSubtree: subtree,
	})
}

func (h *Handler) ListEntries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var accountID int64
	if raw := q.Get("account_id"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid account_id", err)
			return
		}
		accountID = parsed
	}
	entries, err := h.Service.Ledger().Store.ListInRange(r.Context(), accountID, q.Get("from"), q.Get("to"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list entries", err)
		return
	}
	writeJSON(w, http.StatusOK, toEntryDTOs(entries))
}

func (h *Handler) ProfitAndLoss(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	report, err := h.Reporter.ProfitAndLoss(r.Context(), q.Get("from"), q.Get("to"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to build report", err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *Handler) BalanceSheet(w http.ResponseWriter, r *http.Request) {
	asOf := r.URL.Query().Get("as_of")
	if asOf == "" {
		asOf = h.Today()
	}
	report, err := h.Reporter.BalanceSheet(r.Context(), asOf)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to build report", err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *Handler) Aging(w http.ResponseWriter, r *http.Request) {
	today := r.URL.Query().Get("as_of")
	if today == "" {
		today = h.Today()
	}
	report, err := h.Reporter.Aging(r.Context(), today)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to build report", err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid id", err)
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string, err error) {
	resp := ErrorResponse{Error: msg}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps engine errors onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, msg string, err error) {
	switch {
	case ledger.IsNotFound(err):
		writeError(w, http.StatusNotFound, msg, err)
	case errors.Is(err, ledger.ErrInsufficientStock):
		writeError(w, http.StatusConflict, msg, err)
	case ledger.IsClientError(err):
		writeError(w, http.StatusBadRequest, msg, err)
	default:
		writeError(w, http.StatusInternalServerError, msg, err)
	}
}
