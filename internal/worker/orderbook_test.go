package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"tickflow/internal/cache"
	"tickflow/internal/domain"
	"tickflow/internal/infra"
)

// fakeConnector serves canned order books and counts fetches. With
// honorCtx set it refuses fetches on a cancelled context, like the
// real connector does.
type fakeConnector struct {
	fetches  int
	err      error
	honorCtx bool
}

func (f *fakeConnector) StreamTicks(ctx context.Context, symbol string) (<-chan domain.Ticker, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeConnector) FetchOrderBook(ctx context.Context, symbol string) (domain.OrderBook, error) {
	f.fetches++
	if f.honorCtx && ctx.Err() != nil {
		return domain.OrderBook{}, ctx.Err()
	}
	if f.err != nil {
		return domain.OrderBook{}, f.err
	}
	p := decimal.NewFromInt(100)
	return domain.OrderBook{
		Symbol: symbol,
		Bids:   []domain.BookLevel{{Price: p, Amount: decimal.NewFromInt(1)}},
		Asks:   []domain.BookLevel{{Price: p.Add(decimal.NewFromInt(1)), Amount: decimal.NewFromInt(1)}},
	}, nil
}

func (f *fakeConnector) FetchPairMetadata(ctx context.Context, symbol string) (domain.PairMetadata, error) {
	return domain.PairMetadata{}, nil
}

func (f *fakeConnector) Close() error { return nil }

func testCache(t *testing.T) *cache.Market {
	t.Helper()
	pair, err := domain.NewPairFromSymbol("BTC/USDT")
	if err != nil {
		t.Fatalf("NewPairFromSymbol failed: %v", err)
	}
	return cache.NewMarket(pair)
}

func TestRefreshOrderBook_FetchesOnceBeforeStopCheck(t *testing.T) {
	conn := &fakeConnector{}
	mc := testCache(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // already cancelled before the worker starts

	err := RefreshOrderBook(ctx, conn, mc, "BTC/USDT", time.Second, &infra.Metrics{})
	if err != nil {
		t.Fatalf("worker failed: %v", err)
	}
	if conn.fetches != 1 {
		t.Errorf("expected exactly 1 fetch before stop, got %d", conn.fetches)
	}
	if _, ok := mc.OrderBook(); !ok {
		t.Error("expected the book stored in the cache")
	}
}

func TestRefreshOrderBook_FirstFetchSurvivesCancelledContext(t *testing.T) {
	conn := &fakeConnector{honorCtx: true}
	mc := testCache(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RefreshOrderBook(ctx, conn, mc, "BTC/USDT", time.Second, &infra.Metrics{})
	if err != nil {
		t.Fatalf("worker failed: %v", err)
	}
	if conn.fetches != 1 {
		t.Errorf("expected exactly 1 fetch before stop, got %d", conn.fetches)
	}
	if _, ok := mc.OrderBook(); !ok {
		t.Error("expected the book stored in the cache")
	}
}

func TestRefreshOrderBook_LoopsUntilCancelled(t *testing.T) {
	conn := &fakeConnector{}
	mc := testCache(t)
	metrics := &infra.Metrics{}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- RefreshOrderBook(ctx, conn, mc, "BTC/USDT", time.Millisecond, metrics)
	}()

	time.Sleep(25 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("worker failed: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after cancellation")
	}
	if conn.fetches < 2 {
		t.Errorf("expected repeated fetches, got %d", conn.fetches)
	}
	if got := metrics.Snapshot().BookRefreshes; got == 0 {
		t.Error("expected recorded book refreshes")
	}
}

func TestRefreshOrderBook_FetchErrorTerminates(t *testing.T) {
	conn := &fakeConnector{err: errors.New("exchange down")}
	mc := testCache(t)

	err := RefreshOrderBook(context.Background(), conn, mc, "BTC/USDT", time.Second, &infra.Metrics{})
	if err == nil {
		t.Fatal("expected error from failed fetch")
	}
	if _, ok := mc.OrderBook(); ok {
		t.Error("failed fetch must not store a book")
	}
}
