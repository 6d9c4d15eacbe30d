package strategy

import (
	"github.com/shopspring/decimal"

	"tickflow/internal/domain"
)

// Demo is the placeholder strategy for offline runs: it alternates
// SELL/BUY/HOLD purely from the tick id so the downstream stages have
// something to reduce and execute. No market data is consulted.
type Demo struct{}

// NewDemo creates the demo strategy.
func NewDemo() *Demo {
	return &Demo{}
}

// Evaluate returns one intent per tick: SELL every third tick, BUY
// every second, HOLD otherwise.
func (d *Demo) Evaluate(in Input) []domain.Intent {
	switch {
	case in.TickID%3 == 0:
		return []domain.Intent{{
			Action:     domain.ActionSell,
			Confidence: 0.4,
			Reason:     "demo_down",
			Params:     domain.Params{},
		}}
	case in.TickID%2 == 0:
		return []domain.Intent{{
			Action:     domain.ActionBuy,
			Confidence: 0.7,
			Reason:     "demo_up",
			Params:     domain.Params{"budget": decimal.NewFromInt(100)},
		}}
	default:
		return []domain.Intent{{
			Action:     domain.ActionHold,
			Confidence: 0.1,
			Reason:     "no_signal",
			Params:     domain.Params{},
		}}
	}
}
