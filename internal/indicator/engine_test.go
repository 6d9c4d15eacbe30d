package indicator

import (
	"testing"

	"github.com/shopspring/decimal"

	"tickflow/internal/cache"
	"tickflow/internal/domain"
)

func newTestStore(t *testing.T, fast, medium, heavy int) *cache.IndicatorStore {
	t.Helper()
	pair, err := domain.NewPairFromSymbol("BTC/USDT")
	if err != nil {
		t.Fatalf("NewPairFromSymbol failed: %v", err)
	}
	pair.IndicatorWindowSize = 100
	return cache.NewIndicatorStore(pair, fast, medium, heavy)
}

func tickerAt(price int64) domain.Ticker {
	p := decimal.NewFromInt(price)
	return domain.Ticker{
		Symbol: "BTC/USDT", Timestamp: price,
		Last: p, Open: p, High: p, Low: p, Close: p, Bid: p, Ask: p,
	}
}

func TestEngine_BaseFieldsAlwaysPresent(t *testing.T) {
	engine := NewEngine(false)
	store := newTestStore(t, 1, 3, 5)
	history := cache.NewWindow[decimal.Decimal](PriceHistoryLimit)

	snap := engine.OnTicker(history, store, 1, tickerAt(100))

	if snap.Symbol != "BTC/USDT" || snap.TickID != 1 {
		t.Errorf("unexpected base fields: %+v", snap)
	}
	if !snap.Price.Equal(decimal.NewFromInt(100)) {
		t.Errorf("expected price 100, got %s", snap.Price)
	}
	// Only one sample: every SMA is omitted, no error
	if _, ok := snap.Values["sma_fast_5"]; ok {
		t.Error("sma_fast_5 must be omitted with insufficient history")
	}
}

func TestEngine_SMAWhenEnoughSamples(t *testing.T) {
	engine := NewEngine(false)
	store := newTestStore(t, 1, 3, 5)
	history := cache.NewWindow[decimal.Decimal](PriceHistoryLimit)

	var snap domain.IndicatorSnapshot
	for tick := int64(1); tick <= 5; tick++ {
		snap = engine.OnTicker(history, store, tick, tickerAt(100+tick))
	}

	// Prices 101..105, SMA over last 5 = 103
	got, ok := snap.Values["sma_fast_5"]
	if !ok {
		t.Fatal("expected sma_fast_5 after 5 samples")
	}
	if !got.Equal(decimal.NewFromInt(103)) {
		t.Errorf("expected sma 103, got %s", got)
	}
}

func TestEngine_CadenceGatesComputation(t *testing.T) {
	engine := NewEngine(false)
	store := newTestStore(t, 2, 4, 0)
	history := cache.NewWindow[decimal.Decimal](PriceHistoryLimit)

	for tick := int64(1); tick <= 120; tick++ {
		snap := engine.OnTicker(history, store, tick, tickerAt(100))

		// Due cadence plus enough samples (history grows one per tick)
		_, hasFast := snap.Values["sma_fast_5"]
		if hasFast != (tick%2 == 0 && tick >= 5) {
			t.Errorf("tick %d: fast presence %v", tick, hasFast)
		}
		_, hasMedium := snap.Values["sma_medium_20"]
		if hasMedium != (tick%4 == 0 && tick >= 20) {
			t.Errorf("tick %d: medium presence %v", tick, hasMedium)
		}
		if _, hasHeavy := snap.Values["sma_heavy_100"]; hasHeavy {
			t.Errorf("tick %d: heavy cadence disabled but computed", tick)
		}
	}
}

func TestEngine_MidPriceFallsBackOnZeroBidAsk(t *testing.T) {
	engine := NewEngine(false)
	store := newTestStore(t, 1, 3, 5)
	history := cache.NewWindow[decimal.Decimal](PriceHistoryLimit)

	tk := tickerAt(100)
	tk.Bid = decimal.Zero
	tk.Ask = decimal.Zero

	snap := engine.OnTicker(history, store, 1, tk)

	mid, ok := snap.Values["mid_price"]
	if !ok {
		t.Fatal("expected mid_price on fast cadence")
	}
	if !mid.Equal(decimal.NewFromInt(100)) {
		t.Errorf("expected mid fallback to last price, got %s", mid)
	}
	if !snap.Values["spread"].IsZero() {
		t.Errorf("expected zero spread, got %s", snap.Values["spread"])
	}
}

func TestEngine_StoreHistoriesAppendOncePerDueCadence(t *testing.T) {
	engine := NewEngine(false)
	store := newTestStore(t, 1, 2, 10)
	history := cache.NewWindow[decimal.Decimal](PriceHistoryLimit)

	for tick := int64(1); tick <= 2; tick++ {
		engine.OnTicker(history, store, tick, tickerAt(100+tick))
	}

	// After tick 2: fast appended twice, medium once, heavy never
	if n := len(store.FastHistory()); n != 2 {
		t.Errorf("expected fast history len 2, got %d", n)
	}
	if n := len(store.MediumHistory()); n != 1 {
		t.Errorf("expected medium history len 1, got %d", n)
	}
	if n := len(store.HeavyHistory()); n != 0 {
		t.Errorf("expected empty heavy history, got %d", n)
	}
}

func TestEngine_ExtendedSet(t *testing.T) {
	engine := NewEngine(true)
	store := newTestStore(t, 1, 1, 5)
	history := cache.NewWindow[decimal.Decimal](PriceHistoryLimit)

	var snap domain.IndicatorSnapshot
	for tick := int64(1); tick <= 25; tick++ {
		snap = engine.OnTicker(history, store, tick, tickerAt(100+tick))
	}

	rsi, ok := snap.Values["rsi_14"]
	if !ok {
		t.Fatal("expected rsi_14 with extended set and enough samples")
	}
	// Strictly rising prices: no losses, RSI pegs at 100
	if !rsi.Equal(decimal.NewFromInt(100)) {
		t.Errorf("expected RSI 100 on a strict uptrend, got %s", rsi)
	}
	if _, ok := snap.Values["ema_20"]; !ok {
		t.Error("expected ema_20 with extended set")
	}
	if _, ok := snap.Values["volatility_20"]; !ok {
		t.Error("expected volatility_20 with extended set")
	}
}

func TestEngine_ExtendedDisabled(t *testing.T) {
	engine := NewEngine(false)
	store := newTestStore(t, 1, 1, 1)
	history := cache.NewWindow[decimal.Decimal](PriceHistoryLimit)

	var snap domain.IndicatorSnapshot
	for tick := int64(1); tick <= 25; tick++ {
		snap = engine.OnTicker(history, store, tick, tickerAt(100))
	}

	for _, key := range []string{"rsi_14", "ema_20", "volatility_20"} {
		if _, ok := snap.Values[key]; ok {
			t.Errorf("%s must be absent when extended set is disabled", key)
		}
	}
}
