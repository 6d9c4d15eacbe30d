package domain

import "github.com/shopspring/decimal"

// Tick is one atomic unit of incoming market data. It advances the
// pipeline by exactly one step.
type Tick struct {
	Symbol string          `json:"symbol"`
	Price  decimal.Decimal `json:"price"`
	TS     int64           `json:"ts"` // unix milliseconds
}

// Ticker is the full market ticker an exchange publishes. The offline
// demo fills every price field with the tick price and leaves the
// volumes at zero.
type Ticker struct {
	Symbol      string          `json:"symbol"`
	Timestamp   int64           `json:"timestamp"`
	Last        decimal.Decimal `json:"last"`
	Open        decimal.Decimal `json:"open"`
	High        decimal.Decimal `json:"high"`
	Low         decimal.Decimal `json:"low"`
	Close       decimal.Decimal `json:"close"`
	Bid         decimal.Decimal `json:"bid"`
	Ask         decimal.Decimal `json:"ask"`
	BaseVolume  decimal.Decimal `json:"base_volume"`
	QuoteVolume decimal.Decimal `json:"quote_volume"`
}

// TickerFromTick expands a bare tick into a ticker, mirroring every
// price field from the tick price.
func TickerFromTick(t Tick) Ticker {
	return Ticker{
		Symbol:    t.Symbol,
		Timestamp: t.TS,
		Last:      t.Price,
		Open:      t.Price,
		High:      t.Price,
		Low:       t.Price,
		Close:     t.Price,
		Bid:       t.Price,
		Ask:       t.Price,
	}
}

// BookLevel is one price level of an order book side.
type BookLevel struct {
	Price  decimal.Decimal `json:"price"`
	Amount decimal.Decimal `json:"amount"`
}

// OrderBook is a point-in-time order book snapshot. Both sides are
// ordered closest-to-mid first.
type OrderBook struct {
	Symbol    string      `json:"symbol"`
	Timestamp int64       `json:"timestamp"`
	Bids      []BookLevel `json:"bids"`
	Asks      []BookLevel `json:"asks"`
}

// Trade is a single executed trade.
type Trade struct {
	Symbol    string          `json:"symbol"`
	Price     decimal.Decimal `json:"price"`
	Amount    decimal.Decimal `json:"amount"`
	Timestamp int64           `json:"timestamp"`
	Side      string          `json:"side,omitempty"`
}

// Bar is one OHLCV candle.
type Bar struct {
	Symbol    string          `json:"symbol"`
	Timestamp int64           `json:"timestamp"`
	Open      decimal.Decimal `json:"open"`
	High      decimal.Decimal `json:"high"`
	Low       decimal.Decimal `json:"low"`
	Close     decimal.Decimal `json:"close"`
	Volume    decimal.Decimal `json:"volume"`
}
