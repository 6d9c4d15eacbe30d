package sim

import (
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"tickflow/internal/domain"
)

const bookLevels = 10

// OrderFlow synthesizes the order book, trade and bar implied by each
// demo tick, so the market cache fills the same way it would in live
// mode.
type OrderFlow struct {
	rng *rand.Rand
}

// NewOrderFlow creates a generator. seed 0 uses the current time.
func NewOrderFlow(seed int64) *OrderFlow {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &OrderFlow{rng: rand.New(rand.NewSource(seed))}
}

// Apply writes one tick's worth of synthetic order flow into the cache:
// a book around the tick price, one trade and one bar.
func (o *OrderFlow) Apply(mc domain.MarketCache, tick domain.Tick) {
	mc.UpdateOrderBook(o.book(tick))
	mc.AddTrade(domain.Trade{
		Symbol:    tick.Symbol,
		Price:     tick.Price,
		Amount:    decimal.NewFromInt(1),
		Timestamp: tick.TS,
		Side:      o.side(),
	})
	mc.AddBar(domain.Bar{
		Symbol:    tick.Symbol,
		Timestamp: tick.TS,
		Open:      tick.Price,
		High:      tick.Price,
		Low:       tick.Price,
		Close:     tick.Price,
		Volume:    decimal.NewFromInt(1),
	})
}

// book builds a ≤10-level book around the price. The half-spread is
// 0.05% of the price with a 0.01 floor so cheap instruments still get
// a nonzero spread.
func (o *OrderFlow) book(tick domain.Tick) domain.OrderBook {
	halfSpread := tick.Price.Mul(decimal.NewFromFloat(0.0005))
	floor := decimal.NewFromFloat(0.01)
	if halfSpread.LessThan(floor) {
		halfSpread = floor
	}

	bids := make([]domain.BookLevel, 0, bookLevels)
	asks := make([]domain.BookLevel, 0, bookLevels)
	for i := 1; i <= bookLevels; i++ {
		step := halfSpread.Mul(decimal.NewFromInt(int64(i)))
		amount := decimal.NewFromFloat(o.rng.Float64()*2 + 0.1)
		bids = append(bids, domain.BookLevel{Price: tick.Price.Sub(step), Amount: amount})
		asks = append(asks, domain.BookLevel{Price: tick.Price.Add(step), Amount: amount})
	}
	return domain.OrderBook{
		Symbol:    tick.Symbol,
		Timestamp: tick.TS,
		Bids:      bids,
		Asks:      asks,
	}
}

func (o *OrderFlow) side() string {
	if o.rng.Intn(2) == 0 {
		return "buy"
	}
	return "sell"
}
