// Package indicator computes the derived-value snapshot for a tick:
// moving averages per cadence plus an optional extended set. The
// cadence gating itself lives in the indicator store; this package only
// decides what a due cadence computes.
package indicator

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/shopspring/decimal"

	"tickflow/internal/cache"
	"tickflow/internal/domain"
)

// Cadence-specific lookback windows (ticks).
const (
	fastWindow   = 5
	mediumWindow = 20
	heavyWindow  = 100

	rsiPeriod        = 14
	emaPeriod        = 20
	volatilityPeriod = 20
)

// PriceHistoryLimit bounds the rolling price window the moving-average
// math runs on. It is independent of the indicator store windows.
const PriceHistoryLimit = 500

// Engine computes indicator snapshots. The extended flag is the
// capability switch for the richer indicator set; it is resolved once
// at construction, so a disabled set is skipped deterministically
// instead of failing per call.
type Engine struct {
	extended bool
}

// NewEngine creates an engine. extended enables RSI/EMA/volatility on
// top of the SMA set.
func NewEngine(extended bool) *Engine {
	return &Engine{extended: extended}
}

// OnTicker appends the last price to the rolling history, computes
// every indicator whose cadence is due and has enough samples, appends
// the raw price into the store per due cadence, and returns the
// snapshot. Indicators with too little history are omitted for the
// tick; the base fields are always present.
func (e *Engine) OnTicker(
	history *cache.Window[decimal.Decimal],
	store domain.IndicatorStore,
	tickID int64,
	tk domain.Ticker,
) domain.IndicatorSnapshot {
	last := tk.Last
	history.Append(last)

	values := make(map[string]decimal.Decimal)

	fastDue := store.ShouldUpdateFast(tickID)
	mediumDue := store.ShouldUpdateMedium(tickID)
	heavyDue := store.ShouldUpdateHeavy(tickID)

	if fastDue && history.Len() >= fastWindow {
		values["sma_fast_5"] = sma(history.Last(fastWindow))
	}
	if mediumDue && history.Len() >= mediumWindow {
		values["sma_medium_20"] = sma(history.Last(mediumWindow))
	}
	if heavyDue && history.Len() >= heavyWindow {
		values["sma_heavy_100"] = sma(history.Last(heavyWindow))
	}

	if fastDue {
		spread := tk.Ask.Sub(tk.Bid)
		if spread.IsNegative() {
			spread = decimal.Zero
		}
		values["spread"] = spread

		// Zero bid/ask would make the midpoint meaningless; fall
		// back to the last price.
		mid := last
		if !tk.Bid.IsZero() && !tk.Ask.IsZero() {
			mid = tk.Ask.Add(tk.Bid).Div(decimal.NewFromInt(2))
		}
		values["mid_price"] = mid
	}

	if e.extended {
		e.computeExtended(values, history, fastDue, mediumDue)
	}

	// Raw price goes into the store history of every due cadence, at
	// most once per tick.
	if fastDue {
		store.AppendFast(last)
	}
	if mediumDue {
		store.AppendMedium(last)
	}
	if heavyDue {
		store.AppendHeavy(last)
	}

	return domain.IndicatorSnapshot{
		Symbol: tk.Symbol,
		TickID: tickID,
		Price:  last,
		TS:     tk.Timestamp,
		Values: values,
	}
}

// computeExtended adds the richer indicator set. Each computation is
// isolated: a failure is logged and its field omitted, the rest of the
// snapshot is unaffected.
func (e *Engine) computeExtended(
	values map[string]decimal.Decimal,
	history *cache.Window[decimal.Decimal],
	fastDue, mediumDue bool,
) {
	if fastDue && history.Len() >= rsiPeriod+1 {
		if v, ok := compute("rsi_14", func() decimal.Decimal {
			return rsi(history.Last(rsiPeriod + 1))
		}); ok {
			values["rsi_14"] = v
		}
	}
	if fastDue && history.Len() >= emaPeriod {
		if v, ok := compute("ema_20", func() decimal.Decimal {
			return ema(history.Last(emaPeriod))
		}); ok {
			values["ema_20"] = v
		}
	}
	if mediumDue && history.Len() >= volatilityPeriod {
		if v, ok := compute("volatility_20", func() decimal.Decimal {
			return stddev(history.Last(volatilityPeriod))
		}); ok {
			values["volatility_20"] = v
		}
	}
}

// compute runs fn, converting a panic from the numerics layer into an
// omitted field.
func compute(name string, fn func() decimal.Decimal) (v decimal.Decimal, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("Indicator computation failed, omitting field",
				slog.String("indicator", name),
				slog.Any("error", fmt.Errorf("%v", r)),
			)
			ok = false
		}
	}()
	return fn(), true
}

// sma is the simple moving average of values. The caller guarantees a
// non-empty slice via the history-length guard.
func sma(values []decimal.Decimal) decimal.Decimal {
	sum := decimal.Zero
	for _, v := range values {
		sum = sum.Add(v)
	}
	return sum.Div(decimal.NewFromInt(int64(len(values))))
}

// rsi computes the relative strength index over period+1 prices.
func rsi(prices []decimal.Decimal) decimal.Decimal {
	gains := decimal.Zero
	losses := decimal.Zero
	for i := 1; i < len(prices); i++ {
		delta := prices[i].Sub(prices[i-1])
		if delta.IsPositive() {
			gains = gains.Add(delta)
		} else {
			losses = losses.Sub(delta)
		}
	}
	if losses.IsZero() {
		return decimal.NewFromInt(100)
	}
	rs := gains.Div(losses)
	hundred := decimal.NewFromInt(100)
	return hundred.Sub(hundred.Div(decimal.NewFromInt(1).Add(rs)))
}

// ema computes the exponential moving average over the full slice,
// seeded with the first value.
func ema(prices []decimal.Decimal) decimal.Decimal {
	k := decimal.NewFromInt(2).Div(decimal.NewFromInt(int64(len(prices) + 1)))
	out := prices[0]
	for _, p := range prices[1:] {
		out = p.Sub(out).Mul(k).Add(out)
	}
	return out
}

// stddev computes the population standard deviation. The square root
// goes through float64; indicator precision does not need exact
// decimals.
func stddev(prices []decimal.Decimal) decimal.Decimal {
	mean := sma(prices)
	sumSq := decimal.Zero
	for _, p := range prices {
		d := p.Sub(mean)
		sumSq = sumSq.Add(d.Mul(d))
	}
	variance := sumSq.Div(decimal.NewFromInt(int64(len(prices))))
	f, _ := variance.Float64()
	return decimal.NewFromFloat(math.Sqrt(f))
}
