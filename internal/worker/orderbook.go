// Package worker hosts the background loops that run beside the tick
// pipeline.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"tickflow/internal/domain"
	"tickflow/internal/infra"
)

// RefreshOrderBook periodically fetches the order book for one symbol
// and stores it into the market cache. The loop performs at least one
// fetch before checking for cancellation, so a short-lived run still
// observes a book. A fetch error terminates the worker; reconnect
// policy belongs to the connector, not here.
func RefreshOrderBook(
	ctx context.Context,
	connector domain.ExchangeConnector,
	cache domain.MarketCache,
	symbol string,
	interval time.Duration,
	metrics *infra.Metrics,
) error {
	slog.Info("Order-book refresh worker started",
		slog.String("symbol", symbol),
		slog.Duration("interval", interval),
	)

	// The first fetch runs detached from cancellation so that a stop
	// signalled before startup still leaves one book in the cache.
	fetchCtx := context.WithoutCancel(ctx)
	for {
		book, err := connector.FetchOrderBook(fetchCtx, symbol)
		if err != nil {
			slog.Error("Order-book fetch failed, stopping worker",
				slog.String("symbol", symbol),
				slog.Any("error", err),
			)
			metrics.RecordError()
			return fmt.Errorf("fetching order book for %s: %w", symbol, err)
		}
		cache.UpdateOrderBook(book)
		metrics.RecordBookRefresh()
		fetchCtx = ctx

		select {
		case <-ctx.Done():
			slog.Info("Order-book refresh worker stopped", slog.String("symbol", symbol))
			return nil
		case <-time.After(interval):
		}
	}
}
