package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"fintrack-server/src/api"
	"fintrack-server/src/config"
	"fintrack-server/src/db"
	store "fintrack-server/src/db/sql"
	"fintrack-server/src/handlers"
	"fintrack-server/src/linking"
	"fintrack-server/src/middleware"
	"fintrack-server/src/plaid"
	"fintrack-server/src/telemetry"
	"fintrack-server/src/util"
	"fintrack-server/src/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName: "fintrack-server",
		Environment: cfg.PlaidEnv,
	})
	if err != nil {
		log.Fatalf("Telemetry init failed: %v", err)
	}

	// Connect to database
	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("DB connection failed: %v", err)
	}
	defer pool.Close()

	if cfg.DBAutoMigrate {
		if err := db.RunMigrations(pool); err != nil {
			log.Fatalf("Migrations failed: %v", err)
		}
	}

	sealer, err := util.NewSealer(cfg.CredentialKey)
	if err != nil {
		log.Fatalf("Invalid CREDENTIAL_KEY: %v", err)
	}
	st := store.NewStore(pool, sealer)

	cache, err := db.NewCache(cfg.CacheTTL)
	if err != nil {
		log.Fatalf("Cache init failed: %v", err)
	}
	defer cache.Close()

	plaidClient, err := plaid.NewClient(plaid.Config{
		ClientID:     cfg.PlaidClientID,
		Secret:       cfg.PlaidSecret,
		Env:          cfg.PlaidEnv,
		ClientName:   cfg.PlaidClientName,
		CountryCodes: cfg.PlaidCountryCodes,
		Timeout:      cfg.AggregatorTimeout,
	})
	if err != nil {
		log.Fatalf("Plaid client init failed: %v", err)
	}

	var webhooks handlers.WebhookVerifier
	if cfg.PlaidVerifyWebhooks {
		verifier, err := util.NewWebhookVerifier(util.PlaidKeyFetcher(plaidClient.API()))
		if err != nil {
			log.Fatalf("Webhook verifier init failed: %v", err)
		}
		defer verifier.Close()
		webhooks = verifier
	} else {
		log.Println("WARN: Plaid webhook signature verification is disabled")
	}

	policy, _ := linking.ParseRelinkPolicy(cfg.RelinkPolicy)
	sessions := linking.NewSessionManager(plaidClient, linking.SessionDefaults{
		Products:     cfg.PlaidProducts,
		CountryCodes: cfg.PlaidCountryCodes,
		WebhookURL:   cfg.WebhookURL(),
	})
	linker := linking.NewLinker(plaidClient, st, policy)
	syncer := linking.NewSynchronizer(plaidClient, st, st, linking.SyncOptions{
		Window:           cfg.SyncWindow(),
		Concurrency:      cfg.SyncConcurrency,
		FetchTimeout:     cfg.AggregatorTimeout,
		ReconcilePending: cfg.ReconcilePending,
	})

	jobs := worker.NewPool(cfg.WorkerCount, cfg.WorkerQueueSize, 2*time.Minute)
	jobs.Start()

	var limiter *middleware.RateLimiter
	if cfg.RateLimitEnabled {
		limiter = middleware.NewRateLimiter(30 * time.Minute)
	}

	router := api.NewRouter(api.Deps{
		Sessions:     sessions,
		Linker:       linker,
		Syncer:       syncer,
		Accounts:     st,
		Transactions: st,
		ItemOwners:   st,
		Users:        st,
		Jobs:         jobs,
		Webhooks:     webhooks,
		Cache:        cache,
		Tokens: handlers.TokenIssuer{
			Secret: []byte(cfg.JWTSecret),
			TTL:    cfg.JWTTTL,
		},
		AllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimiter:    limiter,
		ReadOnly:       cfg.DemoMode,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      2 * time.Minute,
	}

	go func() {
		log.Println("API server running on port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	log.Println("INFO: shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("ERROR: HTTP shutdown: %v", err)
	}
	jobs.Shutdown(shutdownCtx)
	if err := shutdownTelemetry(shutdownCtx); err != nil {
		log.Printf("ERROR: telemetry shutdown: %v", err)
	}
}
