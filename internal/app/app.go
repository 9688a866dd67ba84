package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/a2sh3r/commission-ledger/internal/config"
	"github.com/a2sh3r/commission-ledger/internal/database"
	"github.com/a2sh3r/commission-ledger/internal/eligibility"
	"github.com/a2sh3r/commission-ledger/internal/handlers"
	"github.com/a2sh3r/commission-ledger/internal/logger"
	"github.com/a2sh3r/commission-ledger/internal/metrics"
	"github.com/a2sh3r/commission-ledger/internal/middleware"
	"github.com/a2sh3r/commission-ledger/internal/policy"
	"github.com/a2sh3r/commission-ledger/internal/repository"
	"github.com/a2sh3r/commission-ledger/internal/repository/memory"
	"github.com/a2sh3r/commission-ledger/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ErrEmptySecretKey is returned by New when no KEY is configured. The key
// signs user tokens and authenticates the internal routes.
var ErrEmptySecretKey = errors.New("secret key (KEY / -k) must not be empty")

type App struct {
	server     *http.Server
	store      repository.Store
	reconciler *service.Reconciler
}

func NewApp() (*App, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg.ParseFlags()

	return New(cfg)
}

// New wires the service from an already parsed config.
func New(cfg *config.Config) (*App, error) {
	if err := logger.Initialize(cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	if cfg.SecretKey == "" {
		return nil, ErrEmptySecretKey
	}

	store, err := openStore(cfg)
	if err != nil {
		logger.Log.Error("Storage initialization failed", zap.String("storage", cfg.Storage), zap.Error(err))
		return nil, err
	}

	rules, err := service.LoadRules(cfg.CommissionRulesPath)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	ruleSet, err := service.NewRuleSet(rules, cfg.MaxAggregateRate)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("invalid commission rules: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewLedger(reg)

	eligibilityRules := eligibility.Rules{CooldownDays: cfg.CooldownDays, KYCEnforced: cfg.KYCEnforced}
	hierarchy := service.NewHierarchyService(store, cfg.MaxHierarchyDepth)
	p := policy.New(hierarchy, nil)
	ledger := service.NewLedgerService(store, m)

	handler := handlers.NewHandler(handlers.Services{
		Accounts:         service.NewAccountService(store, eligibilityRules),
		Ledger:           ledger,
		Hierarchy:        hierarchy,
		Withdrawals:      service.NewWithdrawalService(store, ledger, p, hierarchy, eligibilityRules, m),
		PaymentApprovals: service.NewPaymentApprovalService(store, ledger, p, hierarchy, m),
		Commission:       service.NewCommissionService(store, hierarchy, ledger, ruleSet, m),
	}, cfg.SecretKey)

	r := handlers.NewRouter(handler, handlers.RouterOptions{
		SecretKey: cfg.SecretKey,
		Limiter:   middleware.NewAccountLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst),
		Metrics:   promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
	})

	var reconciler *service.Reconciler
	if cfg.ReconcileInterval > 0 {
		reconciler = service.NewReconciler(store.Accounts(), ledger, cfg.ReconcileInterval, m)
	}

	logger.Log.Info("commission rules loaded", zap.Int("rules", len(ruleSet.Rules())), zap.String("storage", cfg.Storage))

	return &App{
		server: &http.Server{
			Addr:              cfg.RunAddress,
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		},
		store:      store,
		reconciler: reconciler,
	}, nil
}

func openStore(cfg *config.Config) (repository.Store, error) {
	switch cfg.Storage {
	case config.StorageMemory:
		return memory.NewStore(), nil
	case config.StoragePostgres:
		db, err := database.InitDB(cfg)
		if err != nil {
			return nil, err
		}
		return repository.NewStore(db), nil
	default:
		return nil, fmt.Errorf("unknown storage %q", cfg.Storage)
	}
}

func (a *App) Handler() http.Handler {
	return a.server.Handler
}

func (a *App) Run(ctx context.Context) error {
	logger.Log.Info("starting server", zap.String("address", a.server.Addr))
	if a.reconciler != nil {
		go a.reconciler.Run(ctx)
	}
	go func() {
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("server failed to start", zap.Error(err))
		}
	}()
	return nil
}

func (a *App) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	logger.Log.Info("shutting down server...")
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("server shutdown failed", zap.Error(err))
		return err
	}

	logger.Log.Info("closing storage...")
	if err := a.store.Close(); err != nil {
		logger.Log.Error("failed to close storage", zap.Error(err))
		return err
	}

	return nil
}
