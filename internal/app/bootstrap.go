// Package app wires the configuration, storage, pipeline stages and
// run loops together.
package app

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"tickflow/internal/cache"
	"tickflow/internal/domain"
	"tickflow/internal/execution"
	"tickflow/internal/indicator"
	"tickflow/internal/infra"
	"tickflow/internal/infra/storage"
	"tickflow/internal/pipeline"
	"tickflow/internal/strategy"
)

// Bootstrap performs the startup sequence and holds everything the run
// loops need.
type Bootstrap struct {
	Config    *infra.Config
	Pair      *domain.Pair
	Context   *pipeline.Context
	Pipeline  *pipeline.Pipeline
	Snapshots *pipeline.SnapshotService
	Paper     *execution.Paper
	Metrics   *infra.Metrics

	// Progress-rate bookkeeping for the periodic summary line.
	progressAt    time.Time
	progressTicks uint64
}

// NewBootstrap creates an empty bootstrap.
func NewBootstrap() *Bootstrap {
	return &Bootstrap{}
}

// Initialize loads the config, sets up logging, storage and the whole
// pipeline for the configured pair. symbolOverride (argv) wins over the
// file symbol when non-empty.
func (b *Bootstrap) Initialize(configPath, symbolOverride string) error {
	cfg, err := infra.LoadConfig(configPath, symbolOverride)
	if err != nil {
		return err
	}
	b.Config = cfg

	logger := infra.NewLogger(cfg)
	slog.SetDefault(logger)
	slog.Info("Bootstrapping",
		slog.String("app", cfg.App.Name),
		slog.String("mode", cfg.App.Mode),
		slog.String("symbol", cfg.Pair.Symbol),
		slog.String("environment", cfg.Environment),
	)

	snapStore, pairs, err := openStores(cfg)
	if err != nil {
		return err
	}

	pair, err := resolvePair(cfg, pairs)
	if err != nil {
		return err
	}
	b.Pair = pair

	b.Metrics = infra.GlobalMetrics

	ctx := pipeline.NewContext(cfg.Environment)
	ctx.RegisterPair(
		pair,
		cache.NewMarket(pair),
		cache.NewIndicatorStore(pair,
			cfg.Indicators.FastInterval,
			cfg.Indicators.MediumInterval,
			cfg.Indicators.HeavyInterval,
		),
		cache.NewWindow[decimal.Decimal](indicator.PriceHistoryLimit),
	)
	if !cfg.Risk.MaxAmount.IsZero() {
		max := cfg.Risk.MaxAmount
		ctx.Risk.MaxAmount = &max
	}
	b.Context = ctx

	b.Paper = execution.NewPaper()
	b.Paper.Deposit(pair.QuoteCurrency, decimal.NewFromInt(100000))
	b.Paper.Deposit(pair.BaseCurrency, decimal.NewFromInt(10))

	hub := strategy.NewHub(
		strategy.NewDemo(),
		strategy.NewSMACross(pair.Symbol, 5, 20, decimal.NewFromFloat(0.001)),
	)
	b.Pipeline = pipeline.New(ctx, indicator.NewEngine(cfg.Indicators.Extended), hub, b.Paper, b.Metrics)
	b.Snapshots = pipeline.NewSnapshotService(snapStore, cfg.State.SnapshotIntervalTicks, b.Metrics)

	slog.Info("Bootstrap complete", slog.String("state_backend", cfg.State.Backend))
	return nil
}

// openStores opens the persistence backend and hands out both roles.
// The sqlite backend backs snapshots and the pair registry with one
// database handle; the file backend pairs the JSON snapshot store with
// an in-memory registry rebuilt from the config each run.
func openStores(cfg *infra.Config) (domain.SnapshotStore, domain.PairRepository, error) {
	if cfg.State.Backend == infra.StateBackendSQLite {
		st, err := storage.NewStorage(cfg.State.DBPath)
		if err != nil {
			return nil, nil, err
		}
		return st, st, nil
	}

	snaps, err := storage.NewFileSnapshotStore(cfg.State.Dir)
	if err != nil {
		return nil, nil, err
	}
	pairs, err := storage.FromSymbols([]string{cfg.Pair.Symbol})
	if err != nil {
		return nil, nil, err
	}
	return snaps, pairs, nil
}

// resolvePair fetches the configured pair through the registry. Stored
// pair settings survive restarts on the sqlite backend, and a disabled
// stored pair refuses to start.
func resolvePair(cfg *infra.Config, repo domain.PairRepository) (*domain.Pair, error) {
	stored, err := repo.GetBySymbol(cfg.Pair.Symbol)
	switch {
	case err == nil:
		if !stored.Enabled {
			return nil, fmt.Errorf("%w: %s", domain.ErrPairDisabled, stored.Symbol)
		}
		return stored, nil
	case errors.Is(err, domain.ErrPairNotFound):
		pair, err := domain.NewPairFromSymbol(cfg.Pair.Symbol)
		if err != nil {
			return nil, err
		}
		if err := repo.Upsert(pair); err != nil {
			return nil, fmt.Errorf("registering pair %s: %w", pair.Symbol, err)
		}
		return pair, nil
	default:
		return nil, fmt.Errorf("looking up pair %s: %w", cfg.Pair.Symbol, err)
	}
}
