package currency

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"bankengine/internal/domain"
)

// SnapshotStore persists fetched snapshots so a restart does not leave the
// table empty while the provider is unreachable.
type SnapshotStore interface {
	SaveSnapshotTx(ctx context.Context, querier domain.Querier, s *Snapshot) error
	LatestSnapshotTx(ctx context.Context, querier domain.Querier, base domain.Currency) (*Snapshot, error)
}

type RefreshRecorder interface {
	RecordRateRefresh(ok bool, fetchedAt time.Time)
}

type Refresher struct {
	table    *RateTable
	provider Provider
	store    SnapshotStore
	db       domain.Querier
	base     domain.Currency
	interval time.Duration
	metrics  RefreshRecorder
	logger   *zap.Logger
}

func NewRefresher(
	table *RateTable,
	provider Provider,
	store SnapshotStore,
	db domain.Querier,
	base domain.Currency,
	interval time.Duration,
	metrics RefreshRecorder,
	logger *zap.Logger,
) *Refresher {
	return &Refresher{
		table:    table,
		provider: provider,
		store:    store,
		db:       db,
		base:     base,
		interval: interval,
		metrics:  metrics,
		logger:   logger,
	}
}

// Start loads the last persisted snapshot, refreshes once and then keeps
// refreshing every interval until ctx is cancelled.
func (r *Refresher) Start(ctx context.Context) error {
	r.warmStart(ctx)

	if err := r.Refresh(ctx); err != nil {
		r.logger.Warn("Initial exchange rate refresh failed", zap.Error(err))
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Rate refresher stopped")
			return nil
		case <-ticker.C:
			if err := r.Refresh(ctx); err != nil {
				r.logger.Warn("Exchange rate refresh failed, keeping previous snapshot", zap.Error(err))
			}
		}
	}
}

// Refresh fetches, persists and publishes a new snapshot. On failure the
// current snapshot stays in place.
func (r *Refresher) Refresh(ctx context.Context) error {
	snapshot, err := r.provider.Fetch(ctx, r.base)
	if err != nil {
		r.metrics.RecordRateRefresh(false, time.Time{})
		return err
	}

	if err := r.store.SaveSnapshotTx(ctx, r.db, snapshot); err != nil {
		r.logger.Error("Failed to persist exchange rate snapshot", zap.Error(err))
	}

	r.table.Swap(snapshot)
	r.metrics.RecordRateRefresh(true, snapshot.FetchedAt)
	r.logger.Info("Exchange rates refreshed",
		zap.String("base", string(snapshot.Base)),
		zap.Int("currencies", len(snapshot.Rates)),
		zap.Time("fetched_at", snapshot.FetchedAt),
	)
	return nil
}

func (r *Refresher) warmStart(ctx context.Context) {
	snapshot, err := r.store.LatestSnapshotTx(ctx, r.db, r.base)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			r.logger.Info("No persisted exchange rate snapshot found")
			return
		}
		r.logger.Warn("Failed to load persisted exchange rate snapshot", zap.Error(err))
		return
	}
	r.table.Swap(snapshot)
	r.logger.Info("Loaded persisted exchange rate snapshot", zap.Time("fetched_at", snapshot.FetchedAt))
}
