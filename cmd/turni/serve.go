package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Luni-4/volunteers-shifts/internal/api/handler"
	"github.com/Luni-4/volunteers-shifts/internal/api/middleware"
	"github.com/Luni-4/volunteers-shifts/internal/api/router"
	"github.com/Luni-4/volunteers-shifts/internal/notify"
	"github.com/Luni-4/volunteers-shifts/internal/repository"
	"github.com/Luni-4/volunteers-shifts/internal/roster"
	"github.com/Luni-4/volunteers-shifts/internal/service"
	"github.com/Luni-4/volunteers-shifts/pkg/database"
	"github.com/Luni-4/volunteers-shifts/pkg/jwt"
)

const rosterImportTimeout = 2 * time.Minute

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Avvia il server HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.serve(cmd.Context())
		},
	}
}

func (a *App) serve(parent context.Context) error {
	cfg, logger := a.cfg, a.logger
	logger.Info("avvio del servizio",
		zap.Int("port", cfg.Server.Port),
		zap.String("task_mode", cfg.Shifts.TaskMode),
	)

	// 1. database + migrations
	db, sqlDB, err := a.openDB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if err := database.RunMigrations(sqlDB, logger); err != nil {
		return fmt.Errorf("migrazioni fallite: %w", err)
	}

	// 2. optional Redis
	rdb := a.openRedis()
	if rdb != nil {
		defer rdb.Close()
	}

	// 3. refresh events, relayed across replicas when Redis is available
	broadcaster := notify.NewBroadcaster(notify.DefaultBuffer)
	var (
		notifier notify.Notifier = broadcaster
		bridge   *notify.Bridge
	)
	if rdb != nil {
		bridge = notify.NewBridge(broadcaster, rdb, logger)
		notifier = bridge
	}

	// 4. services
	builder, err := a.builder()
	if err != nil {
		return err
	}
	deps := service.Deps{
		Repo:     repository.NewRepository(db),
		JWT:      jwt.NewManager(&cfg.Auth),
		Builder:  builder,
		Notifier: notifier,
		Roster:   roster.NewFetcher(&cfg.Roster, logger),
		Logger:   logger,
	}
	var limiter middleware.RateLimiter
	if rdb != nil {
		deps.Sessions = rdb
		deps.Forms = rdb
		limiter = rdb
	}
	svc, err := service.NewService(cfg, deps)
	if err != nil {
		return err
	}

	// 5. roster import at startup
	importRoster(parent, svc.Volunteer, logger)

	// 6. HTTP
	h := handler.NewHandler(cfg, svc, broadcaster)
	engine := router.Setup(cfg, h, svc.Auth, limiter, logger)
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		// no WriteTimeout: the board stream is long-lived
		IdleTimeout: 60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("server HTTP avviato", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server HTTP: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("arresto del servizio in corso")

		// end open board streams first, Shutdown waits for them
		broadcaster.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("arresto del server HTTP fallito", zap.Error(err))
			return err
		}
		return nil
	})

	if bridge != nil {
		g.Go(func() error {
			return bridge.Run(gctx)
		})
	}

	err = g.Wait()
	logger.Info("servizio arrestato")
	return err
}

// importRoster refreshes volunteers from the roster export. Failures are
// logged: the service still starts with the volunteers already stored.
func importRoster(parent context.Context, volunteers service.VolunteerService, logger *zap.Logger) {
	ctx, cancel := context.WithTimeout(parent, rosterImportTimeout)
	defer cancel()

	n, err := volunteers.RefreshRoster(ctx)
	switch {
	case errors.Is(err, service.ErrRosterUnavailable):
		logger.Info("registro volontari non configurato, importazione saltata")
	case err != nil:
		logger.Error("importazione registro volontari fallita", zap.Error(err))
	default:
		logger.Info("registro volontari importato", zap.Int("volunteers", n))
	}
}
