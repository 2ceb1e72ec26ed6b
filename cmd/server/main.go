// Command server runs the HR records API: employee CRUD with a field-level
// change ledger, document expiry notifications, edit leases and the staff
// task board, plus the daily maintenance scheduler.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"kadry/internal/auth"
	"kadry/internal/editlock"
	"kadry/internal/history"
	hrservice "kadry/internal/hr/service"
	hrstore "kadry/internal/hr/store"
	"kadry/internal/notify"
	"kadry/internal/platform/config"
	"kadry/internal/platform/httpserver"
	"kadry/internal/platform/logger"
	"kadry/internal/platform/metrics"
	"kadry/internal/platform/postgres"
	platformredis "kadry/internal/platform/redis"
	"kadry/internal/scheduler"
	"kadry/internal/status"
	"kadry/internal/task"
	httptransport "kadry/internal/transport/http"
	"kadry/pkg/sentinel"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("server exited", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	db, err := postgres.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	redisClient, err := platformredis.New(ctx, cfg.RedisURL)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	m := metrics.New()

	// Auth.
	tokens := auth.NewTokenService(cfg.JWTSigningKey, "kadry", cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	users := auth.NewPostgresUserStore(db)
	authSvc, err := auth.NewService(users, tokens, auth.WithLogger(log))
	if err != nil {
		return err
	}
	if err := seedAdmin(ctx, authSvc, cfg); err != nil {
		return err
	}

	// HR aggregate.
	hrReads := hrstore.NewPostgres(db)
	hrSvc, err := hrservice.New(newHRPostgresTx(db), hrReads,
		hrservice.WithLogger(log), hrservice.WithMetrics(m))
	if err != nil {
		return err
	}

	// Notifications for read paths and for the scheduler.
	notifications := notify.NewPostgres(db)
	reconciler, err := notify.New(notifications, hrReads,
		notify.WithLogger(log), notify.WithMetrics(m))
	if err != nil {
		return err
	}

	// Edit leases.
	locks, err := editlock.New(editlock.NewRedisStore(redisClient.Client),
		editlock.WithTTL(cfg.EditLockTTL),
		editlock.WithLogger(log),
		editlock.WithMetrics(m))
	if err != nil {
		return err
	}

	// Task board.
	taskSvc, err := task.New(newTaskPostgresTx(db), task.NewPostgres(db), task.WithLogger(log))
	if err != nil {
		return err
	}

	// Daily maintenance.
	transitioner, err := status.New(newHRPostgresTx(db), cfg.SystemUserID,
		status.WithLogger(log), status.WithMetrics(m))
	if err != nil {
		return err
	}
	worker := scheduler.New(reconciler, transitioner, cfg.SweepHour, scheduler.WithLogger(log))

	router := httptransport.NewRouter(httptransport.Deps{
		Logger:        log,
		Auth:          authSvc,
		HR:            hrSvc,
		History:       history.NewPostgres(db),
		Notifications: notifications,
		Locks:         locks,
		Tasks:         taskSvc,
		DB:            db,
	})
	srv := httpserver.New(cfg.Addr, router)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("listening", slog.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		err := worker.Run(ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// seedAdmin creates the initial staff account on an empty database. On a
// fresh install it lands as user 1, the identity scheduled jobs attribute
// their changes to.
func seedAdmin(ctx context.Context, authSvc *auth.Service, cfg config.Config) error {
	_, err := authSvc.Register(ctx, cfg.AdminUsername, cfg.AdminPassword, true)
	if err != nil {
		// Already seeded on a previous start.
		if errors.Is(err, sentinel.ErrConflict) {
			return nil
		}
		return err
	}
	return nil
}
