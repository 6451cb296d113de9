package app

import (
	"context"
	"fmt"
	"net/http"

	"household-app-go/internal/config"
	"household-app-go/internal/db"
	"household-app-go/internal/domain/access"
	householddomain "household-app-go/internal/domain/household"
	productsdomain "household-app-go/internal/domain/products"
	recipesdomain "household-app-go/internal/domain/recipes"
	userdomain "household-app-go/internal/domain/user"
	"household-app-go/internal/observability"
	"household-app-go/internal/repository/inmemory"
	householdrepo "household-app-go/internal/repository/postgres/household"
	productsrepo "household-app-go/internal/repository/postgres/products"
	recipesrepo "household-app-go/internal/repository/postgres/recipes"
	userrepo "household-app-go/internal/repository/postgres/user"
	"household-app-go/internal/transport/httpserver"
	"household-app-go/internal/transport/httpserver/handler"
	authmw "household-app-go/internal/transport/httpserver/middleware"
	"household-app-go/pkg/logger"

	"gorm.io/gorm"
)

type App struct {
	cfg        config.Config
	log        logger.Logger
	httpServer *http.Server
	router     http.Handler
	db         *gorm.DB
	users      *userdomain.Service
}

type repositories struct {
	users      userdomain.Repository
	households householddomain.Repository
	products   productsdomain.Repository
	recipes    recipesdomain.Repository
}

// New wires storage, services and the HTTP stack. It touches no tables;
// Bootstrap does.
func New(cfg config.Config, log logger.Logger) (*App, error) {
	a := &App{cfg: cfg, log: log}

	log.Info("app: initializing storage", "driver", cfg.StorageDriver)
	repos, err := a.openStorage()
	if err != nil {
		return nil, err
	}

	var (
		metrics   *observability.Metrics
		decisions access.Recorder
		syncs     handler.SyncRecorder
	)
	if cfg.Metrics.Enabled {
		metrics = observability.NewMetrics()
		decisions = metrics
		syncs = metrics
	}

	var (
		householdCache householddomain.Cache
		identityCache  userdomain.Cache
	)
	if cfg.Cache.Size > 0 {
		householdCache = inmemory.NewHouseholdCache(cfg.Cache.Size, cfg.Cache.HouseholdTTL)
		identityCache = inmemory.NewIdentityCache(cfg.Cache.Size, cfg.Cache.IdentityTTL)
	}

	log.Info("app: initializing services")
	evaluator := access.NewEvaluator(decisions)
	gate := householddomain.NewGate(repos.households, householdCache, evaluator)
	a.users = userdomain.NewService(repos.users, identityCache)
	products := productsdomain.NewService(repos.products)
	services := handler.Services{
		Users:      a.users,
		Households: householddomain.NewService(repos.households, gate),
		Products:   products,
		Recipes:    recipesdomain.NewService(repos.recipes, products),
	}

	log.Info("app: initializing router")
	a.router = httpserver.NewRouter(cfg, httpserver.Dependencies{
		Handlers: handler.New(services, cfg.Auth.WebhookSecret, syncs, log),
		Auth:     authmw.NewAuth(cfg.Auth, authmw.NewVerifier(cfg.Auth), a.users, syncs, log),
		Scope:    authmw.NewScope(gate, log),
		Metrics:  metrics,
		Log:      log,
	})

	log.Info("app: initializing http server")
	a.httpServer = httpserver.New(cfg, a.router)
	return a, nil
}

func (a *App) openStorage() (repositories, error) {
	switch a.cfg.StorageDriver {
	case config.StorageDriverMemory:
		store := inmemory.NewStore()
		return repositories{
			users:      store.Users(),
			households: store.Households(),
			products:   store.Products(),
			recipes:    store.Recipes(),
		}, nil
	case config.StorageDriverPostgres:
		conn, err := db.NewPostgres(a.cfg.DB, a.log)
		if err != nil {
			return repositories{}, err
		}
		a.db = conn
		return repositories{
			users:      userrepo.NewPostgres(conn),
			households: householdrepo.NewPostgres(conn),
			products:   productsrepo.NewPostgres(conn),
			recipes:    recipesrepo.NewPostgres(conn),
		}, nil
	default:
		return repositories{}, fmt.Errorf("unknown storage driver %q", a.cfg.StorageDriver)
	}
}

// Migrate applies pending SQL migrations. The memory driver has nothing to
// migrate.
func (a *App) Migrate() ([]string, error) {
	if a.db == nil {
		return nil, nil
	}
	return db.Migrate(a.db, a.log)
}

// Bootstrap prepares storage before serving: optional migrations, then the
// mock user's allow-list entry when auth is skipped.
func (a *App) Bootstrap(ctx context.Context, migrate bool) error {
	if migrate {
		applied, err := a.Migrate()
		if err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		a.log.Info("app: migrations applied", "count", len(applied))
	}

	if a.cfg.Auth.SkipAuth {
		a.log.Warn("app: auth disabled, requests run as the mock user", "email", a.cfg.Auth.MockUser.Email)
		if err := a.users.AllowEmail(ctx, a.cfg.Auth.MockUser.Email); err != nil {
			return fmt.Errorf("allow mock user: %w", err)
		}
	}
	return nil
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) Router() http.Handler {
	return a.router
}

func (a *App) Users() *userdomain.Service {
	return a.users
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
