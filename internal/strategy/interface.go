package strategy

import (
	"github.com/shopspring/decimal"

	"tickflow/internal/domain"
)

// Input is the per-tick view a strategy evaluates: the tick identity,
// the latest price and the indicator snapshot the pipeline just
// produced.
type Input struct {
	TickID     int64
	Symbol     string
	Price      decimal.Decimal
	TS         int64
	Indicators domain.IndicatorSnapshot
}

// Strategy is the interface trading strategies implement. Evaluate is
// called synchronously by the pipeline once per tick and returns the
// strategy's intents; an empty result means "no opinion" and the
// decision stage defaults to HOLD.
type Strategy interface {
	Evaluate(in Input) []domain.Intent
}

// Hub fans one tick out to a list of strategies and concatenates their
// intents in registration order. The ordering matters: the decision
// stage picks the first non-HOLD intent.
type Hub struct {
	strategies []Strategy
}

// NewHub creates a hub over the given strategies.
func NewHub(strategies ...Strategy) *Hub {
	return &Hub{strategies: strategies}
}

// Evaluate collects the intents of every registered strategy.
func (h *Hub) Evaluate(in Input) []domain.Intent {
	var intents []domain.Intent
	for _, s := range h.strategies {
		intents = append(intents, s.Evaluate(in)...)
	}
	return intents
}
