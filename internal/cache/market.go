package cache

import (
	"sync"

	"tickflow/internal/domain"
)

// Market is the in-memory market data cache for one pair. Window sizes
// come from the pair settings:
//
//   - BarWindowSize: bar history length
//   - TradesHistorySize: trade history length
//   - OrderBookDepth: max book levels per side
//
// The tick pipeline, the order-book refresh worker and (in demo mode)
// the orderflow simulator all write into the same instance, so every
// accessor takes the mutex. The order-book slot is a single overwrite
// target; the two loops stay causally independent apart from it.
type Market struct {
	mu     sync.RWMutex
	pair   *domain.Pair
	ticker *domain.Ticker
	book   *domain.OrderBook
	trades *Window[domain.Trade]
	bars   *Window[domain.Bar]
}

// NewMarket creates a market cache sized from the pair settings.
func NewMarket(pair *domain.Pair) *Market {
	return &Market{
		pair:   pair,
		trades: NewWindow[domain.Trade](pair.TradesHistorySize),
		bars:   NewWindow[domain.Bar](pair.BarWindowSize),
	}
}

// Symbol returns the owning pair symbol.
func (m *Market) Symbol() string {
	return m.pair.Symbol
}

// UpdateTicker stores the latest ticker unconditionally, tagging it
// with the owning symbol if missing.
func (m *Market) UpdateTicker(t domain.Ticker) {
	if t.Symbol == "" {
		t.Symbol = m.pair.Symbol
	}
	m.mu.Lock()
	m.ticker = &t
	m.mu.Unlock()
}

// Ticker returns a copy of the latest ticker.
func (m *Market) Ticker() (domain.Ticker, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.ticker == nil {
		return domain.Ticker{}, false
	}
	return *m.ticker, true
}

// UpdateOrderBook trims both sides to the pair depth, keeping the head
// of each list (closest-to-mid ordering is assumed to already hold),
// and overwrites the stored book.
func (m *Market) UpdateOrderBook(book domain.OrderBook) {
	if book.Symbol == "" {
		book.Symbol = m.pair.Symbol
	}
	depth := m.pair.OrderBookDepth
	book.Bids = trimLevels(book.Bids, depth)
	book.Asks = trimLevels(book.Asks, depth)

	m.mu.Lock()
	m.book = &book
	m.mu.Unlock()
}

func trimLevels(levels []domain.BookLevel, depth int) []domain.BookLevel {
	if len(levels) <= depth {
		return append([]domain.BookLevel(nil), levels...)
	}
	return append([]domain.BookLevel(nil), levels[:depth]...)
}

// OrderBook returns a copy of the latest order book snapshot.
func (m *Market) OrderBook() (domain.OrderBook, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.book == nil {
		return domain.OrderBook{}, false
	}
	out := *m.book
	out.Bids = append([]domain.BookLevel(nil), m.book.Bids...)
	out.Asks = append([]domain.BookLevel(nil), m.book.Asks...)
	return out, true
}

// AddTrade appends a trade, evicting the oldest past capacity.
func (m *Market) AddTrade(t domain.Trade) {
	m.mu.Lock()
	m.trades.Append(t)
	m.mu.Unlock()
}

// AddBar appends a bar, evicting the oldest past capacity.
func (m *Market) AddBar(b domain.Bar) {
	m.mu.Lock()
	m.bars.Append(b)
	m.mu.Unlock()
}

// Trades returns the most recent limit trades in chronological order;
// limit <= 0 returns the full history.
func (m *Market) Trades(limit int) []domain.Trade {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.trades.Last(limit)
}

// Bars returns the most recent limit bars in chronological order;
// limit <= 0 returns the full history.
func (m *Market) Bars(limit int) []domain.Bar {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.bars.Last(limit)
}

var _ domain.MarketCache = (*Market)(nil)
