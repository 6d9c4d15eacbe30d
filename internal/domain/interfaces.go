package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// MarketCache is the per-pair bounded storage for the latest ticker,
// the latest order book and the trade/bar histories. Implementations
// must be safe for concurrent use: the tick pipeline and the order-book
// refresh worker write into the same instance.
type MarketCache interface {
	Symbol() string

	UpdateTicker(t Ticker)
	Ticker() (Ticker, bool)

	// UpdateOrderBook trims both sides to the pair's depth and
	// overwrites the stored book.
	UpdateOrderBook(book OrderBook)
	OrderBook() (OrderBook, bool)

	// AddTrade and AddBar append to bounded FIFOs; insertion past
	// capacity silently evicts the oldest entry.
	AddTrade(t Trade)
	AddBar(b Bar)

	// Trades and Bars return the most recent limit entries in
	// chronological order; limit <= 0 returns everything.
	Trades(limit int) []Trade
	Bars(limit int) []Bar
}

// IndicatorStore gates when indicator cadences may update and keeps a
// bounded history of raw values per cadence. It performs no
// computation itself.
type IndicatorStore interface {
	ShouldUpdateFast(tickID int64) bool
	ShouldUpdateMedium(tickID int64) bool
	ShouldUpdateHeavy(tickID int64) bool

	AppendFast(v decimal.Decimal)
	AppendMedium(v decimal.Decimal)
	AppendHeavy(v decimal.Decimal)

	FastHistory() []decimal.Decimal
	MediumHistory() []decimal.Decimal
	HeavyHistory() []decimal.Decimal
}

// SnapshotStore persists state snapshots under a string key,
// last-write-wins. LoadSnapshot returns (nil, nil) when the key is
// absent or the stored document cannot be read or parsed; a missing
// snapshot is never an error.
type SnapshotStore interface {
	SaveSnapshot(key string, snap *Snapshot) error
	LoadSnapshot(key string) (*Snapshot, error)
}

// ExchangeConnector is the black-box exchange client the core
// consumes. Reconnects and backoff are the connector's business; the
// core performs no protocol-level retry itself.
type ExchangeConnector interface {
	// StreamTicks delivers tickers for one symbol until ctx is
	// cancelled or the stream fails; the returned channel is closed
	// on termination.
	StreamTicks(ctx context.Context, symbol string) (<-chan Ticker, error)

	FetchOrderBook(ctx context.Context, symbol string) (OrderBook, error)

	FetchPairMetadata(ctx context.Context, symbol string) (PairMetadata, error)

	Close() error
}

// PairRepository is the source of truth for configured pairs.
type PairRepository interface {
	GetBySymbol(symbol string) (*Pair, error)
	ListActive() ([]*Pair, error)
	Upsert(p *Pair) error
}
