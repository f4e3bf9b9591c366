/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/payments/*               Payment posting
  /api/invoices/*               Invoice posting (moves stock)
  /api/expenses/*, transfers/*  Two-sided postings
  /api/claims/*                 Insurance claim settlement
  /api/payslips/*, employees    Payroll
  /api/payables-receivables/*   Settlement
  /api/accounts/*, ledger       Read side
  /api/reports/*                Financial statements

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Route("/payments", func(r chi.Router) {
			r.Post("/", h.CreatePayment)
			r.Put("/{id}", h.UpdatePayment)
			r.Delete("/{id}", h.DeletePayment)
		})

		r.Route("/invoices", func(r chi.Router) {
			r.Post("/", h.CreateInvoice)
			r.Put("/{id}", h.UpdateInvoice)
			r.Delete("/{id}", h.DeleteInvoice)
		})

		r.Route("/expenses", func(r chi.Router) {
			r.Post("/", h.CreateExpense)
			r.Put("/{id}", h.UpdateExpense)
			r.Delete("/{id}", h.DeleteExpense)
		})

		r.Route("/transfers", func(r chi.Router) {
			r.Post("/", h.CreateTransfer)
			r.Put("/{id}", h.UpdateTransfer)
			r.Delete("/{id}", h.DeleteTransfer)
		})

		r.Route("/claims", func(r chi.Router) {
			r.Post("/", h.SaveClaim)
			r.Delete("/{id}", h.DeleteClaim)
		})

		// Payroll routes
		r.Post("/employees", h.SaveEmployee)
		r.Route("/payslips", func(r chi.Router) {
			r.Post("/generate", h.GeneratePayslips)
			r.Post("/{id}/pay", h.PayPayslip)
		})

		r.Post("/payables-receivables/{id}/settle", h.SettlePayableReceivable)

		// Read side
		r.Route("/accounts", func(r chi.Router) {
			r.Get("/", h.ListAccounts)
			r.Get("/{id}/balance", h.GetBalance)
		})
		r.Get("/ledger", h.ListEntries)

		r.Route("/reports", func(r chi.Router) {
			r.Get("/pl", h.ProfitAndLoss)
			r.Get("/balance-sheet", h.BalanceSheet)
			r.Get("/aging", h.Aging)
		})
	})

	return r
}
