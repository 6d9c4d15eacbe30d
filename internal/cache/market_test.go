package cache

import (
	"testing"

	"github.com/shopspring/decimal"

	"tickflow/internal/domain"
)

func testPair(t *testing.T) *domain.Pair {
	t.Helper()
	pair, err := domain.NewPairFromSymbol("BTC/USDT")
	if err != nil {
		t.Fatalf("NewPairFromSymbol failed: %v", err)
	}
	pair.OrderBookDepth = 3
	pair.TradesHistorySize = 4
	pair.BarWindowSize = 4
	return pair
}

func level(price, amount int64) domain.BookLevel {
	return domain.BookLevel{
		Price:  decimal.NewFromInt(price),
		Amount: decimal.NewFromInt(amount),
	}
}

func TestMarket_UpdateTicker_TagsSymbol(t *testing.T) {
	m := NewMarket(testPair(t))

	m.UpdateTicker(domain.Ticker{Last: decimal.NewFromInt(100), Timestamp: 1})

	tk, ok := m.Ticker()
	if !ok {
		t.Fatal("ticker should exist after update")
	}
	if tk.Symbol != "BTC/USDT" {
		t.Errorf("expected symbol tagged, got %q", tk.Symbol)
	}

	// Overwrite is unconditional
	m.UpdateTicker(domain.Ticker{Symbol: "BTC/USDT", Last: decimal.NewFromInt(101), Timestamp: 2})
	tk, _ = m.Ticker()
	if !tk.Last.Equal(decimal.NewFromInt(101)) {
		t.Errorf("expected last 101, got %s", tk.Last)
	}
}

func TestMarket_UpdateOrderBook_TrimsToDepth(t *testing.T) {
	m := NewMarket(testPair(t)) // depth 3

	book := domain.OrderBook{
		Timestamp: 1,
		Bids:      []domain.BookLevel{level(99, 1), level(98, 2), level(97, 3), level(96, 4), level(95, 5)},
		Asks:      []domain.BookLevel{level(101, 1), level(102, 2)},
	}
	m.UpdateOrderBook(book)

	got, ok := m.OrderBook()
	if !ok {
		t.Fatal("order book should exist after update")
	}
	if len(got.Bids) != 3 {
		t.Errorf("expected 3 bid levels, got %d", len(got.Bids))
	}
	if len(got.Asks) != 2 {
		t.Errorf("expected 2 ask levels, got %d", len(got.Asks))
	}
	// Head of the list survives trimming
	if !got.Bids[0].Price.Equal(decimal.NewFromInt(99)) {
		t.Errorf("expected best bid 99, got %s", got.Bids[0].Price)
	}
	if got.Symbol != "BTC/USDT" {
		t.Errorf("expected symbol tagged, got %q", got.Symbol)
	}
}

func TestMarket_TradesFIFO(t *testing.T) {
	m := NewMarket(testPair(t)) // trades capacity 4

	for i := int64(1); i <= 6; i++ {
		m.AddTrade(domain.Trade{Price: decimal.NewFromInt(i), Timestamp: i})
	}

	all := m.Trades(0)
	if len(all) != 4 {
		t.Fatalf("expected 4 trades after eviction, got %d", len(all))
	}
	if all[0].Timestamp != 3 || all[3].Timestamp != 6 {
		t.Errorf("expected trades 3..6 in order, got %v..%v", all[0].Timestamp, all[3].Timestamp)
	}

	last2 := m.Trades(2)
	if len(last2) != 2 || last2[1].Timestamp != 6 {
		t.Errorf("Trades(2): expected most recent last, got %v", last2)
	}
}

func TestMarket_BarsFIFO(t *testing.T) {
	m := NewMarket(testPair(t)) // bars capacity 4

	for i := int64(1); i <= 5; i++ {
		m.AddBar(domain.Bar{Timestamp: i, Close: decimal.NewFromInt(100 + i)})
	}

	bars := m.Bars(0)
	if len(bars) != 4 {
		t.Fatalf("expected 4 bars, got %d", len(bars))
	}
	if bars[0].Timestamp != 2 {
		t.Errorf("expected oldest bar ts=2, got %d", bars[0].Timestamp)
	}
}
