package pipeline

import (
	"fmt"
	"log/slog"

	"tickflow/internal/domain"
	"tickflow/internal/infra"
)

// SnapshotService persists and restores pipeline state around a run.
// A zero interval disables periodic saves entirely.
type SnapshotService struct {
	store    domain.SnapshotStore
	interval int64
	metrics  *infra.Metrics
}

// NewSnapshotService creates the service. intervalTicks <= 0 disables
// periodic saving.
func NewSnapshotService(store domain.SnapshotStore, intervalTicks int, metrics *infra.Metrics) *SnapshotService {
	return &SnapshotService{
		store:    store,
		interval: int64(intervalTicks),
		metrics:  metrics,
	}
}

// Load restores the saved state for the symbol into the context and
// returns the tick id to resume from. A missing or unreadable snapshot
// starts the run fresh from tick 0.
func (s *SnapshotService) Load(ctx *Context, symbol string) (int64, error) {
	key := ctx.StateKey(symbol)
	snap, err := s.store.LoadSnapshot(key)
	if err != nil {
		return 0, fmt.Errorf("loading snapshot %q: %w", key, err)
	}
	if snap == nil {
		slog.Info("No saved state, starting fresh", slog.String("key", key))
		return 0, nil
	}

	ctx.ApplySnapshot(snap)
	slog.Info("Restored saved state",
		slog.String("key", key),
		slog.Int64("tick_id", snap.TickID),
	)
	return snap.TickID, nil
}

// MaybeSave persists the state when the save cadence is due. A save
// failure is logged and counted, never fatal; the pipeline keeps
// running on the in-memory state.
func (s *SnapshotService) MaybeSave(ctx *Context, symbol string, tickID int64) {
	if s.interval <= 0 || tickID%s.interval != 0 {
		return
	}
	s.Save(ctx, symbol, tickID)
}

// Save persists the state unconditionally, e.g. at shutdown.
func (s *SnapshotService) Save(ctx *Context, symbol string, tickID int64) {
	key := ctx.StateKey(symbol)
	snap := ctx.MakeSnapshot(symbol, tickID)
	if err := s.store.SaveSnapshot(key, snap); err != nil {
		slog.Error("Snapshot save failed",
			slog.String("key", key),
			slog.Int64("tick_id", tickID),
			slog.Any("error", err),
		)
		s.metrics.RecordSnapshotFailure()
		return
	}
	s.metrics.RecordSnapshotSave()
	slog.Debug("Snapshot saved", slog.String("key", key), slog.Int64("tick_id", tickID))
}
