// Package server wires configuration, storage, services and transports into
// a runnable application: the HTTP API and website, the gRPC health
// endpoint and the expired-session sweeper.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/tilapp/internal/common"
	"github.com/dmitrijs2005/tilapp/internal/logging"
	"github.com/dmitrijs2005/tilapp/internal/netx"
	"github.com/dmitrijs2005/tilapp/internal/server/auth"
	"github.com/dmitrijs2005/tilapp/internal/server/config"
	"github.com/dmitrijs2005/tilapp/internal/server/httpapi"
	"github.com/dmitrijs2005/tilapp/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/tilapp/internal/server/services"
	"golang.org/x/sync/errgroup"

	gs "github.com/dmitrijs2005/tilapp/internal/server/grpc"
)

const (
	sweepInterval = 10 * time.Minute
	adminUserName = "admin"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	pinger   gs.Pinger
	services httpapi.Services
}

// NewApp connects to PostgreSQL, applies pending migrations and builds the
// services.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewDefault(os.Stdout, c.Debug)

	db, err := repomanager.OpenPostgres(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return newApp(c, logger, db, rm), nil
}

func newApp(c *config.Config, logger logging.Logger, db *sql.DB, rm repomanager.RepositoryManager) *App {
	hasher := auth.NewPasswordHasher(c.BcryptCost)
	categories := services.NewCategoryService(db, rm)

	return &App{
		config: c,
		logger: logger,
		db:     db,
		pinger: db,
		services: httpapi.Services{
			Users:      services.NewUserService(db, rm, hasher),
			Tokens:     services.NewTokenAuthority(db, rm, hasher, c.TokenSize),
			Sessions:   services.NewSessionAuthenticator(db, rm, c.SessionTTL),
			Forgery:    services.NewForgeryGuard(db, rm, c.TokenSize),
			Categories: categories,
			Acronyms:   services.NewAcronymService(db, rm, categories, c.ReconcileParallelism, logger),
		},
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// seedAdmin creates the admin user with a random password when it is
// missing. The password is printed once to stderr.
func (app *App) seedAdmin(ctx context.Context) error {
	password, err := common.MakeRandHexString(12)
	if err != nil {
		return err
	}
	created, err := app.services.Users.EnsureUser(ctx, "Admin", adminUserName, password)
	if err != nil {
		return fmt.Errorf("seeding admin: %w", err)
	}
	if created {
		app.logger.Info(ctx, "admin user created", "username", adminUserName)
		fmt.Fprintf(os.Stderr, "admin password: %s\n", password)
	}
	return nil
}

func (app *App) startHTTPServer(ctx context.Context, grp *errgroup.Group) error {
	listener, err := netx.Listen(ctx, app.config.EndpointAddrHTTP)
	if err != nil {
		return err
	}

	e := httpapi.New(app.config, app.logger, app.services)
	srv := &http.Server{Handler: e}

	app.logger.Info(ctx, "Starting HTTP server", "address", listener.Addr().String())
	netx.Serve(ctx, grp, srv, listener, netx.ShutdownTimeout)
	return nil
}

func (app *App) sweepSessions(ctx context.Context) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := app.services.Sessions.Sweep(ctx)
			if err != nil {
				app.logger.Warn(ctx, "session sweep failed", "error", err)
				continue
			}
			if n > 0 {
				app.logger.Debug(ctx, "expired sessions removed", "count", n)
			}
		}
	}
}

// Run serves until ctx is cancelled or a termination signal arrives.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")
	app.initSignalHandler(cancelFunc)

	if app.db != nil {
		defer func() {
			if err := app.db.Close(); err != nil {
				app.logger.Error(ctx, "closing database", "error", err)
			}
		}()
	}

	if app.config.SeedAdmin {
		if err := app.seedAdmin(ctx); err != nil {
			return err
		}
	}

	grp, ctx := errgroup.WithContext(ctx)

	if err := app.startHTTPServer(ctx, grp); err != nil {
		return err
	}

	grpcServer := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.pinger)
	grp.Go(func() error {
		return grpcServer.Run(ctx)
	})

	grp.Go(func() error {
		app.sweepSessions(ctx)
		return nil
	})

	err := grp.Wait()
	app.logger.Info(context.WithoutCancel(ctx), "App stopped")
	return err
}
