package strategy

import (
	"github.com/shopspring/decimal"

	"tickflow/internal/domain"
)

// SMACross is a stateful, deterministic SMA crossover strategy. It
// keeps its own price ring buffer with a running sum so the hot path
// does not reallocate per tick.
type SMACross struct {
	symbol      string
	shortPeriod int
	longPeriod  int
	amount      decimal.Decimal

	// Ring buffer state. head points at the next write slot; when the
	// buffer is full it also points at the oldest value.
	prices []decimal.Decimal
	head   int
	count  int
	sum    decimal.Decimal

	prevShort decimal.Decimal
	prevLong  decimal.Decimal
	warmed    bool
}

// NewSMACross creates the strategy. amount is the order size attached
// to every intent it emits.
func NewSMACross(symbol string, shortPeriod, longPeriod int, amount decimal.Decimal) *SMACross {
	if shortPeriod >= longPeriod {
		panic("SMACross: shortPeriod must be less than longPeriod")
	}
	return &SMACross{
		symbol:      symbol,
		shortPeriod: shortPeriod,
		longPeriod:  longPeriod,
		amount:      amount,
		prices:      make([]decimal.Decimal, longPeriod),
		sum:         decimal.Zero,
	}
}

// Evaluate pushes the tick price into the ring buffer and emits a BUY
// intent on a golden cross, a SELL intent on a dead cross, and nothing
// otherwise. The first full window only seeds the previous SMAs.
func (s *SMACross) Evaluate(in Input) []domain.Intent {
	if in.Symbol != s.symbol {
		return nil
	}

	if s.count == s.longPeriod {
		s.sum = s.sum.Sub(s.prices[s.head])
	}
	s.prices[s.head] = in.Price
	s.sum = s.sum.Add(in.Price)
	s.head = (s.head + 1) % s.longPeriod
	if s.count < s.longPeriod {
		s.count++
	}

	if s.count < s.longPeriod {
		return nil
	}

	currLong := s.sum.Div(decimal.NewFromInt(int64(s.longPeriod)))
	currShort := s.shortSMA()

	var intents []domain.Intent
	if s.warmed {
		// Golden cross: short crosses above long
		if s.prevShort.LessThanOrEqual(s.prevLong) && currShort.GreaterThan(currLong) {
			intents = append(intents, domain.Intent{
				Action:     domain.ActionBuy,
				Confidence: 0.8,
				Reason:     "sma_golden_cross",
				Params:     domain.Params{"amount": s.amount},
			})
		}
		// Dead cross: short crosses below long
		if s.prevShort.GreaterThanOrEqual(s.prevLong) && currShort.LessThan(currLong) {
			intents = append(intents, domain.Intent{
				Action:     domain.ActionSell,
				Confidence: 0.8,
				Reason:     "sma_dead_cross",
				Params:     domain.Params{"amount": s.amount},
			})
		}
	}

	s.prevShort = currShort
	s.prevLong = currLong
	s.warmed = true

	return intents
}

// shortSMA averages the newest shortPeriod entries by walking the ring
// backwards from the latest write.
func (s *SMACross) shortSMA() decimal.Decimal {
	sum := decimal.Zero
	idx := s.head
	for i := 0; i < s.shortPeriod; i++ {
		idx--
		if idx < 0 {
			idx = s.longPeriod - 1
		}
		sum = sum.Add(s.prices[idx])
	}
	return sum.Div(decimal.NewFromInt(int64(s.shortPeriod)))
}
