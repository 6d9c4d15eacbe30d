package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Default window sizes keep the per-pair cache footprint around ~2MB.
const (
	DefaultBarWindowSize       = 10000
	DefaultOrderBookDepth      = 2000
	DefaultTradesHistorySize   = 5000
	DefaultIndicatorWindowSize = 10000
)

// Pair is a tradable instrument plus the sizing parameters for every
// bounded buffer derived from it. One process owns exactly one pair.
//
// The struct is created once at startup and treated as immutable, with
// the exception of PriceStep/MinStep which may be refreshed from
// exchange metadata.
type Pair struct {
	Symbol        string `gorm:"primaryKey" json:"symbol"` // "BTC/USDT"
	BaseCurrency  string `json:"base_currency"`
	QuoteCurrency string `json:"quote_currency"`
	Enabled       bool   `gorm:"index" json:"enabled"`

	// Trading settings
	DealQuota     decimal.Decimal `gorm:"type:text" json:"deal_quota"`    // deal size in quote currency
	ProfitMarkup  decimal.Decimal `gorm:"type:text" json:"profit_markup"` // desired profit, percent
	DealCount     int             `json:"deal_count"`                     // max simultaneously open deals
	OrderLifeTime int             `json:"order_life_time"`                // minutes until an order is cancelled

	// Exchange technical params (refreshable from metadata)
	MinStep   decimal.Decimal `gorm:"type:text" json:"min_step"`   // lot size step
	PriceStep decimal.Decimal `gorm:"type:text" json:"price_step"` // tick size

	// Cache sizing
	BarWindowSize       int `json:"bar_window_size"`
	OrderBookDepth      int `json:"orderbook_depth"`
	TradesHistorySize   int `json:"trades_history_size"`
	IndicatorWindowSize int `json:"indicator_window_size"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewPairFromSymbol builds a pair with default settings from a
// "BASE/QUOTE" symbol string.
func NewPairFromSymbol(symbol string) (*Pair, error) {
	symbol = strings.TrimSpace(symbol)
	parts := strings.Split(symbol, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil, fmt.Errorf("%w: %q (expected BASE/QUOTE, e.g. BTC/USDT)", ErrInvalidSymbol, symbol)
	}

	now := time.Now()
	return &Pair{
		Symbol:              symbol,
		BaseCurrency:        parts[0],
		QuoteCurrency:       parts[1],
		Enabled:             true,
		DealQuota:           decimal.NewFromInt(25),
		ProfitMarkup:        decimal.NewFromFloat(1.5),
		DealCount:           3,
		OrderLifeTime:       1,
		MinStep:             decimal.NewFromFloat(0.0001),
		PriceStep:           decimal.NewFromFloat(0.01),
		BarWindowSize:       DefaultBarWindowSize,
		OrderBookDepth:      DefaultOrderBookDepth,
		TradesHistorySize:   DefaultTradesHistorySize,
		IndicatorWindowSize: DefaultIndicatorWindowSize,
		CreatedAt:           now,
		UpdatedAt:           now,
	}, nil
}

// ApplyMetadata refreshes the exchange precision fields. Zero values
// are ignored so a partial metadata response never clears a step.
func (p *Pair) ApplyMetadata(meta PairMetadata) {
	if !meta.PriceStep.IsZero() {
		p.PriceStep = meta.PriceStep
	}
	if !meta.MinStep.IsZero() {
		p.MinStep = meta.MinStep
	}
	p.UpdatedAt = time.Now()
}

// PairMetadata carries the precision fields an exchange publishes for
// a pair.
type PairMetadata struct {
	PriceStep decimal.Decimal
	MinStep   decimal.Decimal
}
