package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"tickflow/internal/domain"
	"tickflow/internal/infra/binance"
	"tickflow/internal/infra/sim"
	"tickflow/internal/worker"
)

// summaryEvery is the tick interval between progress log lines.
const summaryEvery = 10

// RunDemoOffline drives the pipeline from the synthetic tick generator
// until max_ticks is reached or ctx is cancelled. The order flow for
// each tick is simulated into the market cache, so the downstream
// stages see the same shape of data as live mode.
func (b *Bootstrap) RunDemoOffline(ctx context.Context) error {
	symbol := b.Pair.Symbol

	startTick, err := b.Snapshots.Load(b.Context, symbol)
	if err != nil {
		return err
	}

	gen := sim.NewTickGenerator(symbol, 0)
	flow := sim.NewOrderFlow(0)
	mc := b.Context.MarketCaches[symbol]
	sleep := time.Duration(b.Config.Ticks.SleepMS) * time.Millisecond

	slog.Info("Demo run starting",
		slog.String("symbol", symbol),
		slog.Int64("start_tick", startTick),
		slog.Int("max_ticks", b.Config.Ticks.MaxTicks),
	)

	lastTick := startTick
	for i := 0; i < b.Config.Ticks.MaxTicks; i++ {
		select {
		case <-ctx.Done():
			slog.Info("Demo run interrupted", slog.Int64("tick_id", lastTick))
			b.Snapshots.Save(b.Context, symbol, lastTick)
			return nil
		default:
		}

		tickID := startTick + int64(i) + 1
		tick := gen.Next()
		flow.Apply(mc, tick)

		b.Pipeline.ProcessTick(tickID, symbol, domain.TickerFromTick(tick))
		b.Snapshots.MaybeSave(b.Context, symbol, tickID)
		lastTick = tickID

		if tickID%summaryEvery == 0 {
			b.logProgress(tickID, symbol)
		}

		if sleep > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(sleep):
			}
		}
	}

	b.Snapshots.Save(b.Context, symbol, lastTick)
	b.logSummary(lastTick)
	return nil
}

// RunLiveFromExchange streams tickers from the exchange and runs the
// order-book refresh worker beside the pipeline until ctx is
// cancelled or the stream closes.
func (b *Bootstrap) RunLiveFromExchange(ctx context.Context) error {
	symbol := b.Pair.Symbol
	cfg := b.Config

	startTick, err := b.Snapshots.Load(b.Context, symbol)
	if err != nil {
		return err
	}

	connector := binance.NewConnector(cfg.Exchange.WSURL, cfg.Exchange.RestURL)
	defer connector.Close()

	// Refresh the pair precision before the first tick. Failure is
	// tolerable; the pair keeps its previous steps.
	metaCtx, cancelMeta := context.WithTimeout(ctx, 10*time.Second)
	if meta, err := connector.FetchPairMetadata(metaCtx, symbol); err != nil {
		slog.Warn("Pair metadata refresh failed", slog.String("symbol", symbol), slog.Any("error", err))
	} else {
		b.Pair.ApplyMetadata(meta)
	}
	cancelMeta()

	ticks, err := connector.StreamTicks(ctx, symbol)
	if err != nil {
		return fmt.Errorf("opening tick stream for %s: %w", symbol, err)
	}

	workerCtx, cancelWorker := context.WithCancel(ctx)
	defer cancelWorker()
	workerDone := make(chan error, 1)
	go func() {
		interval := time.Duration(cfg.OrderBook.RefreshIntervalSec * float64(time.Second))
		workerDone <- worker.RefreshOrderBook(
			workerCtx, connector, b.Context.MarketCaches[symbol], symbol, interval, b.Metrics)
	}()

	slog.Info("Live run starting",
		slog.String("symbol", symbol),
		slog.Int64("start_tick", startTick),
	)

	tickID := startTick
	for {
		select {
		case <-ctx.Done():
			b.Snapshots.Save(b.Context, symbol, tickID)
			cancelWorker()
			<-workerDone
			b.logSummary(tickID)
			return nil

		case err := <-workerDone:
			// The worker only returns early on a fetch failure.
			slog.Error("Order-book worker stopped",
				slog.Any("error", err),
				slog.Bool("retriable", domain.IsRetriable(err)),
			)
			b.Snapshots.Save(b.Context, symbol, tickID)
			return fmt.Errorf("order-book worker stopped: %w", err)

		case tk, ok := <-ticks:
			if !ok {
				b.Snapshots.Save(b.Context, symbol, tickID)
				cancelWorker()
				<-workerDone
				return fmt.Errorf("%w: tick stream closed", domain.ErrConnectionFailed)
			}
			tickID++
			b.Pipeline.ProcessTick(tickID, symbol, tk)
			b.Snapshots.MaybeSave(b.Context, symbol, tickID)
			if tickID%summaryEvery == 0 {
				b.logProgress(tickID, symbol)
			}
		}
	}
}

func (b *Bootstrap) logProgress(tickID int64, symbol string) {
	snap := b.Metrics.Snapshot()

	// Ticks per second since the previous progress line.
	var tps float64
	now := time.Now()
	if !b.progressAt.IsZero() {
		if elapsed := now.Sub(b.progressAt).Seconds(); elapsed > 0 {
			tps = float64(snap.TicksProcessed-b.progressTicks) / elapsed
		}
	}
	b.progressAt = now
	b.progressTicks = snap.TicksProcessed

	attrs := []any{
		slog.Int64("tick_id", tickID),
		slog.Uint64("ticks_processed", snap.TicksProcessed),
		slog.Float64("tps", tps),
		slog.Int64("latency_min_us", snap.MinLatencyNs/1000),
		slog.Int64("latency_avg_us", snap.AvgLatencyNs/1000),
		slog.Int64("latency_max_us", snap.MaxLatencyNs/1000),
	}
	if mv, ok := b.Context.Market[symbol]; ok {
		attrs = append(attrs, slog.String("last_price", mv.LastPrice.String()))
	}
	slog.Info("Progress", attrs...)
}

func (b *Bootstrap) logSummary(lastTick int64) {
	snap := b.Metrics.Snapshot()
	slog.Info("Run summary",
		slog.Int64("last_tick", lastTick),
		slog.Uint64("ticks_processed", snap.TicksProcessed),
		slog.Uint64("decisions_buy", snap.DecisionsBuy),
		slog.Uint64("decisions_sell", snap.DecisionsSell),
		slog.Uint64("decisions_hold", snap.DecisionsHold),
		slog.Uint64("snapshot_saves", snap.SnapshotSaves),
		slog.Uint64("book_refreshes", snap.BookRefreshes),
		slog.Uint64("errors", snap.ErrorsTotal),
		slog.Int64("latency_min_us", snap.MinLatencyNs/1000),
		slog.Int64("latency_avg_us", snap.AvgLatencyNs/1000),
		slog.Int64("latency_max_us", snap.MaxLatencyNs/1000),
	)
	for _, fill := range b.Paper.Fills() {
		slog.Debug("Fill",
			slog.Int64("tick_id", fill.TickID),
			slog.String("action", string(fill.Action)),
			slog.String("amount", fill.Amount.String()),
			slog.String("price", fill.Price.String()),
		)
	}
}
