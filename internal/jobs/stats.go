package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/fastprodman/betledger/internal/infra/metrics"
	"github.com/fastprodman/betledger/internal/model"
	"github.com/fastprodman/betledger/internal/services/aggregation"
)

// TotalsSource is the subset of the aggregation service the job reads.
type TotalsSource interface {
	TotalsAcrossAllBets(ctx context.Context) (*aggregation.GlobalTotals, error)
	TotalBetCount(ctx context.Context) (int, error)
}

// TotalsSink receives each refreshed snapshot.
type TotalsSink interface {
	SetTotals(t metrics.Totals)
}

// StatsRefresher periodically copies the global bet totals into gauges.
type StatsRefresher struct {
	cron    *cron.Cron
	src     TotalsSource
	sink    TotalsSink
	timeout time.Duration
}

func NewStatsRefresher(src TotalsSource, sink TotalsSink) *StatsRefresher {
	return &StatsRefresher{
		cron:    cron.New(),
		src:     src,
		sink:    sink,
		timeout: 30 * time.Second,
	}
}

// Schedule registers the refresh under a cron expression such as "@every 1m".
func (r *StatsRefresher) Schedule(expr string) error {
	_, err := r.cron.AddFunc(expr, func() {
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()

		err := r.RunOnce(ctx)
		if err != nil {
			slog.Error("refresh bet stats", "err", err)
		}
	})
	if err != nil {
		return fmt.Errorf("schedule stats refresh %q: %w", expr, err)
	}

	return nil
}

func (r *StatsRefresher) Start() {
	r.cron.Start()
	slog.Info("stats refresher started")
}

// Stop waits for a running refresh to finish or ctx to expire.
func (r *StatsRefresher) Stop(ctx context.Context) error {
	done := r.cron.Stop()

	select {
	case <-done.Done():
		slog.Info("stats refresher stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("stop stats refresher: %w", ctx.Err())
	}
}

// RunOnce refreshes the gauges now. An empty bet set publishes zeros.
func (r *StatsRefresher) RunOnce(ctx context.Context) error {
	count, err := r.src.TotalBetCount(ctx)
	if err != nil {
		return fmt.Errorf("count bets: %w", err)
	}

	snapshot := metrics.Totals{Count: count}

	totals, err := r.src.TotalsAcrossAllBets(ctx)
	switch {
	case errors.Is(err, model.ErrEmptyCollection):
	case err != nil:
		return fmt.Errorf("bet totals: %w", err)
	default:
		snapshot.Available = totals.Available
		snapshot.Retained = totals.Retained
		snapshot.Balance = totals.Balance
		snapshot.Stake = totals.Bet
	}

	r.sink.SetTotals(snapshot)

	return nil
}
