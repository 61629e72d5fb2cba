// Package bootstrap wires the application together in phases: config,
// infrastructure, services, HTTP. main stays a thin shell around it.
package bootstrap

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/appleboy/graceful"
	"github.com/gin-gonic/gin"

	"github.com/iwen-conf/DormDB/internal/config"
	"github.com/iwen-conf/DormDB/internal/grant"
	"github.com/iwen-conf/DormDB/internal/identity"
	"github.com/iwen-conf/DormDB/internal/metrics"
	"github.com/iwen-conf/DormDB/internal/retry"
	"github.com/iwen-conf/DormDB/internal/services"
	"github.com/iwen-conf/DormDB/internal/store"
)

// App holds every wired component of a running instance.
type App struct {
	cfg      *config.Config
	store    *store.Store
	engine   grant.Engine
	recorder metrics.Recorder

	provision *services.ProvisionService
	reconcile *services.ReconcileService
	admin     *services.AdminService
	allowlist *services.AllowlistService
	auth      *services.AuthService

	router *gin.Engine
}

// New builds a fully wired App. Both database connections are established
// (with startup retry) before this returns; a misconfigured instance never
// starts serving.
func New(cfg *config.Config) (*App, error) {
	policy := retry.Policy{
		MaxAttempts:  cfg.ConnectMaxRetries,
		InitialDelay: cfg.ConnectRetryDelay,
		MaxDelay:     10 * cfg.ConnectRetryDelay,
	}

	st, err := store.New(cfg.LedgerDriver, cfg.LedgerDSN, store.Options{
		MaxOpenConns: cfg.LedgerMaxOpenConns,
		ConnLifetime: cfg.ConnMaxLifetime,
		Retry:        policy,
	})
	if err != nil {
		return nil, err
	}
	log.Printf("ledger ready (%s)", cfg.LedgerDriver)

	engine, err := grant.NewMySQLEngine(cfg)
	if err != nil {
		return nil, err
	}
	log.Printf("mysql engine ready (%s:%d, allowed host %s)", cfg.MySQLHost, cfg.MySQLPort, cfg.AllowedHost)

	var recorder metrics.Recorder
	if cfg.EnableMetrics {
		recorder = metrics.New()
		log.Println("prometheus metrics enabled")
	} else {
		recorder = metrics.NewNoopRecorder()
	}

	validator := identity.NewValidator(cfg.KeyFormat == config.KeyFormatStrict, cfg.MaxKeyLength)

	app := &App{
		cfg:      cfg,
		store:    st,
		engine:   engine,
		recorder: recorder,

		provision: services.NewProvisionService(st, engine, validator, recorder, cfg.PasswordLength),
		reconcile: services.NewReconcileService(st, engine, validator, recorder),
		admin:     services.NewAdminService(st, engine, validator, recorder),
		allowlist: services.NewAllowlistService(st, validator),
		auth:      services.NewAuthService(cfg),
	}
	app.router = app.buildRouter()
	return app, nil
}

// Router exposes the HTTP handler, mostly for tests.
func (a *App) Router() *gin.Engine {
	return a.router
}

// Run serves until SIGINT/SIGTERM, then drains in-flight requests.
func (a *App) Run() error {
	srv := &http.Server{
		Addr:              a.cfg.ServerAddr,
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	m := graceful.NewManager()

	m.AddRunningJob(func(ctx context.Context) error {
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("server: %v", err)
			}
		}()
		<-ctx.Done()
		return nil
	})

	m.AddShutdownJob(func() error {
		log.Println("shutting down server")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("server forced to shut down: %v", err)
			return err
		}
		log.Println("server exited")
		return nil
	})

	log.Printf("listening on %s", a.cfg.ServerAddr)
	<-m.Done()
	return nil
}
