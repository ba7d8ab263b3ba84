// Package app wires the services and event handlers of the donation service.
package app

import (
	"log/slog"

	"github.com/amirasaad/donation/pkg/cache"
	"github.com/amirasaad/donation/pkg/config"
	"github.com/amirasaad/donation/pkg/eventbus"
	"github.com/amirasaad/donation/pkg/receipt"
	"github.com/amirasaad/donation/pkg/repository"
	"github.com/amirasaad/donation/pkg/service/auth"
	"github.com/amirasaad/donation/pkg/service/donation"
	"github.com/amirasaad/donation/pkg/service/fund"
	"github.com/amirasaad/donation/pkg/service/reconcile"
	"github.com/amirasaad/donation/pkg/service/settlement"
	"github.com/amirasaad/donation/pkg/service/user"
)

// Deps contains the infrastructure the services are built on.
type Deps struct {
	Uow           repository.UnitOfWork
	EventBus      eventbus.Bus
	ProgressCache cache.FundProgressCache
	// Receipts is nil when no archive is configured.
	Receipts receipt.Archiver
	Logger   *slog.Logger
}

type App struct {
	Deps              *Deps
	Config            *config.App
	AuthService       *auth.Service
	UserService       *user.Service
	SettlementService *settlement.Service
	DonationService   *donation.Service
	FundService       *fund.Service
	ReconcileService  *reconcile.Service
}

func New(deps *Deps, cfg *config.App) *App {
	app := &App{
		Deps:   deps,
		Config: cfg,
	}

	authMap := map[string]func() *auth.Service{
		"jwt": func() *auth.Service {
			return auth.NewWithJWT(deps.Uow, cfg.Auth.Jwt, deps.Logger)
		},
	}
	if authFactory, ok := authMap[cfg.Auth.Strategy]; ok {
		app.AuthService = authFactory()
	} else {
		deps.Logger.Warn("unknown auth strategy, using jwt", "strategy", cfg.Auth.Strategy)
		app.AuthService = authMap["jwt"]()
	}
	app.UserService = user.New(deps.Uow, deps.Logger)

	settlementCfg := settlement.Config{}
	if cfg.Settlement != nil {
		settlementCfg.PaymentMethod = cfg.Settlement.PaymentMethod
		settlementCfg.DefaultPurpose = cfg.Settlement.DefaultPurpose
	}
	app.SettlementService = settlement.New(deps.Uow, deps.EventBus, settlementCfg, deps.Logger)
	app.DonationService = donation.New(deps.Uow, deps.Logger)

	var ttl = defaultProgressTTL
	if cfg.Cache != nil && cfg.Cache.TTL > 0 {
		ttl = cfg.Cache.TTL
	}
	app.FundService = fund.New(deps.Uow, deps.EventBus, deps.ProgressCache, ttl, deps.Logger)

	tolerance := 0.0
	if cfg.Reconcile != nil {
		tolerance = cfg.Reconcile.Tolerance
	}
	app.ReconcileService = reconcile.New(deps.Uow, tolerance, deps.Logger)

	app.setupEventBus()
	return app
}
