package handlers

import (
	"net/http"

	"github.com/a2sh3r/commission-ledger/internal/middleware"
	"github.com/go-chi/chi/v5"
)

type RouterOptions struct {
	SecretKey string
	// Limiter throttles authenticated routes; nil disables throttling.
	Limiter *middleware.AccountLimiter
	// Metrics is mounted at /metrics when set.
	Metrics http.Handler
}

func NewRouter(handler *Handler, opts RouterOptions) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.NewLoggingMiddleware())

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "invalid URL format")
	})

	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics)
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.NewGzipMiddleware())

		r.Route("/internal", func(r chi.Router) {
			r.Use(middleware.NewHashMiddleware(opts.SecretKey))
			r.Post("/accounts", handler.RegisterAccount)
			r.Put("/accounts/{id}/kyc", handler.SetKYCStatus)
			r.Post("/tokens", handler.IssueToken)
			r.Post("/commission-events", handler.PostCommissionEvent)
			r.Get("/commission-rules", handler.GetCommissionRules)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.JWTMiddleware(opts.SecretKey))
			if opts.Limiter != nil {
				r.Use(middleware.RateLimit(opts.Limiter))
			}

			r.Route("/wallet", func(r chi.Router) {
				r.Get("/eligibility", handler.GetEligibility)
				r.Get("/balance", handler.GetBalance)
				r.Get("/transactions", handler.GetTransactions)
				r.Put("/payment-method", handler.SetPaymentMethod)
			})

			r.Get("/team", handler.GetDownline)

			r.Route("/withdrawals", func(r chi.Router) {
				r.Post("/", handler.SubmitWithdrawal)
				r.Get("/", handler.ListWithdrawals)
				r.Get("/{id}", handler.GetWithdrawal)
				r.Post("/{id}/approve", handler.ApproveWithdrawal)
				r.Post("/{id}/mark-paid", handler.MarkWithdrawalPaid)
				r.Post("/{id}/reject", handler.RejectWithdrawal)
			})

			r.Route("/payment-approvals", func(r chi.Router) {
				r.Post("/", handler.CreatePaymentApproval)
				r.Get("/", handler.ListPaymentApprovals)
				r.Get("/{id}", handler.GetPaymentApproval)
				r.Post("/{id}/approve", handler.ApprovePaymentApproval)
				r.Post("/{id}/reject", handler.RejectPaymentApproval)
			})
		})
	})

	return r
}
