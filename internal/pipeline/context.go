// Package pipeline runs the per-tick processing chain: market update,
// indicator computation, strategy evaluation, decision reduction,
// execution and metrics. One Context holds the whole mutable state for
// a run.
package pipeline

import (
	"github.com/shopspring/decimal"

	"tickflow/internal/cache"
	"tickflow/internal/domain"
)

// History bounds for the per-tick artifacts kept in the context.
const (
	indicatorHistoryLimit = 100
	intentHistoryLimit    = 100
	decisionHistoryLimit  = 100
)

// Context is the shared mutable state of one pipeline run. All maps are
// keyed by pair symbol. Only the pipeline goroutine mutates it; the
// market caches inside carry their own locks for the refresh worker.
type Context struct {
	Environment string
	Pairs       map[string]*domain.Pair

	MarketCaches    map[string]domain.MarketCache
	IndicatorStores map[string]domain.IndicatorStore
	PriceHistory    map[string]*cache.Window[decimal.Decimal]

	Market           map[string]*domain.MarketView
	Indicators       map[string]domain.IndicatorSnapshot
	IndicatorHistory map[string]*cache.Window[domain.IndicatorSnapshot]
	Intents          map[string][]domain.Intent
	IntentHistory    map[string]*cache.Window[[]domain.Intent]
	Decisions        map[string]domain.Decision
	DecisionHistory  map[string]*cache.Window[domain.Decision]

	Risk    domain.RiskLimits
	Metrics domain.Metrics
}

// NewContext creates an empty context for the environment.
func NewContext(environment string) *Context {
	return &Context{
		Environment:      environment,
		Pairs:            make(map[string]*domain.Pair),
		MarketCaches:     make(map[string]domain.MarketCache),
		IndicatorStores:  make(map[string]domain.IndicatorStore),
		PriceHistory:     make(map[string]*cache.Window[decimal.Decimal]),
		Market:           make(map[string]*domain.MarketView),
		Indicators:       make(map[string]domain.IndicatorSnapshot),
		IndicatorHistory: make(map[string]*cache.Window[domain.IndicatorSnapshot]),
		Intents:          make(map[string][]domain.Intent),
		IntentHistory:    make(map[string]*cache.Window[[]domain.Intent]),
		Decisions:        make(map[string]domain.Decision),
		DecisionHistory:  make(map[string]*cache.Window[domain.Decision]),
	}
}

// RegisterPair wires a pair into the context with its market cache,
// indicator store and price history.
func (c *Context) RegisterPair(
	pair *domain.Pair,
	market domain.MarketCache,
	store domain.IndicatorStore,
	priceHistory *cache.Window[decimal.Decimal],
) {
	symbol := pair.Symbol
	c.Pairs[symbol] = pair
	c.MarketCaches[symbol] = market
	c.IndicatorStores[symbol] = store
	c.PriceHistory[symbol] = priceHistory
	c.IndicatorHistory[symbol] = cache.NewWindow[domain.IndicatorSnapshot](indicatorHistoryLimit)
	c.IntentHistory[symbol] = cache.NewWindow[[]domain.Intent](intentHistoryLimit)
	c.DecisionHistory[symbol] = cache.NewWindow[domain.Decision](decisionHistoryLimit)
}

// UpdateMarketState stores the ticker into the market cache and
// refreshes the high-level market view for the symbol.
func (c *Context) UpdateMarketState(symbol string, tk domain.Ticker) {
	if mc, ok := c.MarketCaches[symbol]; ok {
		mc.UpdateTicker(tk)
	}
	c.Market[symbol] = &domain.MarketView{
		LastPrice: tk.Last,
		TS:        tk.Timestamp,
	}
}

// RecordIndicators stores the latest snapshot and appends it to the
// bounded history.
func (c *Context) RecordIndicators(symbol string, snap domain.IndicatorSnapshot) {
	c.Indicators[symbol] = snap
	if h, ok := c.IndicatorHistory[symbol]; ok {
		h.Append(snap)
	}
}

// RecordIntents stores the per-tick intent list and appends it to the
// bounded history. An empty list is recorded too; the history tracks
// every tick.
func (c *Context) RecordIntents(symbol string, intents []domain.Intent) {
	c.Intents[symbol] = intents
	if h, ok := c.IntentHistory[symbol]; ok {
		h.Append(intents)
	}
}

// RecordDecision stores the adjudicated decision and appends it to the
// bounded history.
func (c *Context) RecordDecision(symbol string, d domain.Decision) {
	c.Decisions[symbol] = d
	if h, ok := c.DecisionHistory[symbol]; ok {
		h.Append(d)
	}
}

// StateKey is the snapshot key for a symbol in this environment.
func (c *Context) StateKey(symbol string) string {
	return c.Environment + ":" + symbol
}

// MakeSnapshot projects the context state for one symbol into a
// serializable snapshot at the given tick.
func (c *Context) MakeSnapshot(symbol string, tickID int64) *domain.Snapshot {
	snap := &domain.Snapshot{
		Symbol:  symbol,
		TickID:  tickID,
		Metrics: c.Metrics,
	}

	if mv, ok := c.Market[symbol]; ok {
		view := *mv
		snap.Market = &view
	}
	if ind, ok := c.Indicators[symbol]; ok {
		indCopy := ind
		snap.Indicators = &indCopy
	}
	if h, ok := c.IndicatorHistory[symbol]; ok {
		snap.IndicatorHistory = h.Items()
	}
	if intents, ok := c.Intents[symbol]; ok {
		snap.Intents = intents
	}
	if h, ok := c.IntentHistory[symbol]; ok {
		snap.IntentHistory = h.Items()
	}
	if d, ok := c.Decisions[symbol]; ok {
		dCopy := d
		snap.Decision = &dCopy
	}
	if h, ok := c.DecisionHistory[symbol]; ok {
		snap.DecisionHistory = h.Items()
	}

	return snap
}

// ApplySnapshot restores the context state for one symbol from a saved
// snapshot. Histories are replayed into fresh bounded windows; the
// market cache FIFOs are not part of the snapshot and stay empty.
func (c *Context) ApplySnapshot(snap *domain.Snapshot) {
	if snap == nil {
		return
	}
	symbol := snap.Symbol

	if snap.Market != nil {
		view := *snap.Market
		c.Market[symbol] = &view
	}
	if snap.Indicators != nil {
		c.Indicators[symbol] = *snap.Indicators
	}
	if h, ok := c.IndicatorHistory[symbol]; ok {
		for _, s := range snap.IndicatorHistory {
			h.Append(s)
		}
	}
	if snap.Intents != nil {
		c.Intents[symbol] = snap.Intents
	}
	if h, ok := c.IntentHistory[symbol]; ok {
		for _, list := range snap.IntentHistory {
			h.Append(list)
		}
	}
	if snap.Decision != nil {
		c.Decisions[symbol] = *snap.Decision
	}
	if h, ok := c.DecisionHistory[symbol]; ok {
		for _, d := range snap.DecisionHistory {
			h.Append(d)
		}
	}
	c.Metrics = snap.Metrics
}
