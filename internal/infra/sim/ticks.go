// Package sim generates synthetic market data for demo mode: a random
// walk tick source plus the order flow derived from it.
package sim

import (
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"tickflow/internal/domain"
)

// TickGenerator produces a bounded random-walk price series. Each tick
// moves the price by at most ±0.1%.
type TickGenerator struct {
	symbol string
	price  decimal.Decimal
	rng    *rand.Rand
}

// NewTickGenerator seeds the walk at a random price near 100. seed 0
// uses the current time.
func NewTickGenerator(symbol string, seed int64) *TickGenerator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	start := decimal.NewFromFloat(100 + rng.Float64()*10)
	return &TickGenerator{symbol: symbol, price: start, rng: rng}
}

// Next advances the walk one step and returns the tick.
func (g *TickGenerator) Next() domain.Tick {
	// Uniform step in [-0.1%, +0.1%]
	drift := decimal.NewFromFloat((g.rng.Float64()*2 - 1) * 0.001)
	g.price = g.price.Add(g.price.Mul(drift))
	return domain.Tick{
		Symbol: g.symbol,
		Price:  g.price,
		TS:     time.Now().UnixMilli(),
	}
}
