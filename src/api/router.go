package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fintrack-server/src/handlers"
	"fintrack-server/src/middleware"
)

// Deps is everything the HTTP surface needs. Webhooks may be nil to skip signature checks.
type Deps struct {
	Sessions     handlers.LinkSessionCreator
	Linker       handlers.AccountLinker
	Syncer       handlers.TransactionSyncer
	Accounts     handlers.AccountLister
	Transactions handlers.TransactionLister
	ItemOwners   handlers.ItemOwnerFinder
	Users        handlers.UserStore
	Jobs         handlers.JobSubmitter
	Webhooks     handlers.WebhookVerifier
	Cache        handlers.ReadCache

	Tokens         handlers.TokenIssuer
	AllowedOrigins []string
	RateLimiter    *middleware.RateLimiter
	ReadOnly       bool
}

func NewRouter(d Deps) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.SecurityHeadersMiddleware)
	r.Use(middleware.CORSMiddleware(d.AllowedOrigins))
	if d.RateLimiter != nil {
		r.Use(middleware.RateLimitMiddleware(d.RateLimiter))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.ReadOnlyMiddleware(d.ReadOnly))
			r.Post("/auth/signup", handlers.Signup(d.Users, d.Tokens))
			r.Post("/auth/signin", handlers.Signin(d.Users, d.Tokens))
			r.Post("/plaid/webhook", handlers.PlaidWebhook(d.Webhooks, d.ItemOwners, d.Jobs, d.Syncer, d.Cache))
		})

		// Protected routes
		r.With(middleware.JWTAuthMiddleware(d.Tokens.Secret), middleware.ReadOnlyMiddleware(d.ReadOnly)).Group(func(r chi.Router) {
			r.Get("/user", handlers.GetUser(d.Users))

			r.Post("/plaid/create-link-token", handlers.CreateLinkToken(d.Sessions))
			r.Post("/plaid/exchange-token", handlers.ExchangePublicToken(d.Linker, d.Cache))
			r.Post("/plaid/sync-transactions", handlers.SyncTransactions(d.Syncer, d.Cache))

			r.Get("/accounts", handlers.GetAccounts(d.Accounts, d.Cache))
			r.Get("/transactions", handlers.GetTransactions(d.Transactions, d.Cache))
		})

		// Super Admin Routes
		r.With(middleware.JWTAuthMiddleware(d.Tokens.Secret), middleware.SuperAdminMiddleware).Group(func(r chi.Router) {
			r.Post("/admin/plaid/sync/{user_id}", handlers.SyncTransactionsForUser(d.Syncer, d.Cache))
		})
	})

	return r
}
