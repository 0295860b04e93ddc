package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/fastprodman/betledger/internal/api"
	"github.com/fastprodman/betledger/internal/infra/cache"
	"github.com/fastprodman/betledger/internal/infra/logging"
	"github.com/fastprodman/betledger/internal/infra/metrics"
	"github.com/fastprodman/betledger/internal/infra/pgutils"
	"github.com/fastprodman/betledger/internal/infra/publisher"
	"github.com/fastprodman/betledger/internal/jobs"
	pgbets "github.com/fastprodman/betledger/internal/repos/bets/postgres"
	"github.com/fastprodman/betledger/internal/repos/settings"
	pgsettings "github.com/fastprodman/betledger/internal/repos/settings/postgres"
	redissettings "github.com/fastprodman/betledger/internal/repos/settings/redis"
	pgusers "github.com/fastprodman/betledger/internal/repos/users/postgres"
	"github.com/fastprodman/betledger/internal/services/aggregation"
	"github.com/fastprodman/betledger/internal/services/ledger"
	settingssvc "github.com/fastprodman/betledger/internal/services/settings"
	"github.com/fastprodman/betledger/pkg/shutdownqueue"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error running api: %v\n", err)
		//nolint:gocritic
		os.Exit(1)
	}
}

//nolint:funlen
func run(ctx context.Context) (retErr error) {
	cfg, err := readConfig()
	if err != nil {
		return fmt.Errorf("init config: %w", err)
	}

	logging.SetupJSON(cfg.LogLevel)

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		serr := shutdownqueue.Shutdown(shutdownCtx)
		if serr != nil {
			retErr = errors.Join(retErr, serr)
		}
	}()

	// --- Infra ---
	db, err := pgutils.OpenDB(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	shutdownqueue.AddCloser("postgres", db.Close)

	txm, err := pgutils.NewTxManager(db)
	if err != nil {
		return err
	}

	var settingsStore settings.Settings = pgsettings.New(db)

	rdb, err := cache.Connect(ctx, cfg.Redis)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	if rdb != nil {
		settingsStore = redissettings.New(settingsStore, rdb, cfg.Redis.TTL)
		shutdownqueue.AddCloser("redis", rdb.Close)
		slog.Info("settings cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.TTL)
	}

	events := publisher.New(cfg.Kafka)
	shutdownqueue.AddCloser("bet events", events.Close)

	m := metrics.New()

	// --- Services ---
	betsRepo := pgbets.New(db)
	usersRepo := pgusers.New(db)

	ledgerSvc := ledger.New(txm, betsRepo, usersRepo, settingsStore,
		ledger.WithPublisher(events),
		ledger.WithRecorder(m),
	)
	aggSvc := aggregation.New(betsRepo, usersRepo)
	settingsSvc := settingssvc.New(settingsStore)

	// --- Jobs ---
	refresher := jobs.NewStatsRefresher(aggSvc, m)

	err = refresher.Schedule(cfg.Metrics.StatsSchedule)
	if err != nil {
		return err
	}

	refresher.Start()
	shutdownqueue.Add("stats refresher", refresher.Stop)

	// --- HTTP servers ---
	handler := api.NewRouter(
		api.NewHandler(ledgerSvc, aggSvc, settingsSvc),
		api.RouterOptions{AllowedOrigins: cfg.HTTP.AllowedOrigins, Recorder: m},
	)
	srv := api.NewServer(cfg.HTTP.Port, handler)

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", m.Handler())
	metricsSrv := api.NewServer(cfg.Metrics.Port, metricsMux)

	errCh := make(chan error, 2)

	for name, s := range map[string]*http.Server{"api server": srv, "metrics server": metricsSrv} {
		shutdownqueue.Add(name, s.Shutdown)

		go func() {
			serr := s.ListenAndServe()
			// http.ErrServerClosed is the normal path during Shutdown
			if serr != nil && !errors.Is(serr, http.ErrServerClosed) {
				errCh <- fmt.Errorf("%s: %w", name, serr)
				return
			}

			errCh <- nil
		}()
	}

	slog.Info("API started", "port", cfg.HTTP.Port, "metrics_port", cfg.Metrics.Port)

	// --- Wait until either context cancels or a server errors out ---
	select {
	case <-ctx.Done():
		// graceful path; deferred shutdownqueue.Shutdown will run
		return nil
	case serr := <-errCh:
		if serr != nil {
			return fmt.Errorf("server error: %w", serr)
		}

		return nil
	}
}
