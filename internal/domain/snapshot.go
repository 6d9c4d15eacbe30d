package domain

import "github.com/shopspring/decimal"

// MarketView is the high-level market slice strategies read: the last
// tick price and its timestamp.
type MarketView struct {
	LastPrice decimal.Decimal `json:"last_price"`
	TS        int64           `json:"ts"`
}

// IndicatorSnapshot is the flat derived-value snapshot one tick
// produces. The base fields are always present; Values holds whatever
// cadences were due and computable this tick.
type IndicatorSnapshot struct {
	Symbol string                     `json:"symbol"`
	TickID int64                      `json:"tick_id"`
	Price  decimal.Decimal            `json:"price"`
	TS     int64                      `json:"ts"`
	Values map[string]decimal.Decimal `json:"values,omitempty"`
}

// Metrics are the aggregate pipeline counters that survive a restart.
type Metrics struct {
	Ticks int64 `json:"ticks"`
}

// Snapshot is the serializable projection of the pipeline state for
// one pair, used to resume after a restart. It deliberately excludes
// the market cache FIFOs (order book, trades, bars), the pair registry
// and any connector handles.
type Snapshot struct {
	Symbol           string              `json:"symbol"`
	TickID           int64               `json:"tick_id"`
	Market           *MarketView         `json:"market,omitempty"`
	Indicators       *IndicatorSnapshot  `json:"indicators,omitempty"`
	IndicatorHistory []IndicatorSnapshot `json:"indicator_history,omitempty"`
	Intents          []Intent            `json:"intents,omitempty"`
	IntentHistory    [][]Intent          `json:"intent_history,omitempty"`
	Decision         *Decision           `json:"decision,omitempty"`
	DecisionHistory  []Decision          `json:"decision_history,omitempty"`
	Metrics          Metrics             `json:"metrics"`
}
