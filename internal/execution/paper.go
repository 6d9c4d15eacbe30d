// Package execution turns decisions into simulated fills. The paper
// executor keeps an in-memory balance book and never touches an
// exchange.
package execution

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"tickflow/internal/cache"
	"tickflow/internal/domain"
)

// fillHistoryLimit bounds the kept fill log.
const fillHistoryLimit = 1000

// Fill is one simulated execution.
type Fill struct {
	TickID int64           `json:"tick_id"`
	Symbol string          `json:"symbol"`
	Action domain.Action   `json:"action"`
	Reason string          `json:"reason"`
	Amount decimal.Decimal `json:"amount"`
	Price  decimal.Decimal `json:"price"`
	TS     int64           `json:"ts"`
}

// Paper simulates order execution against an internal balance book.
// Fills are instant at the decision price with no slippage or fees.
type Paper struct {
	mu       sync.Mutex
	balances map[string]decimal.Decimal
	fills    *cache.Window[Fill]
}

// NewPaper creates a paper executor with an empty balance book.
func NewPaper() *Paper {
	return &Paper{
		balances: make(map[string]decimal.Decimal),
		fills:    cache.NewWindow[Fill](fillHistoryLimit),
	}
}

// Deposit credits the currency. Used to seed the book before a run.
func (p *Paper) Deposit(currency string, amount decimal.Decimal) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.balances[currency] = p.balances[currency].Add(amount)
}

// Balance returns the current balance of a currency, zero if unknown.
func (p *Paper) Balance(currency string) decimal.Decimal {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.balances[currency]
}

// Fills returns the recorded fills, oldest first.
func (p *Paper) Fills() []Fill {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.fills.Items()
}

// Execute applies a non-HOLD decision to the balance book at the given
// price and records a fill. HOLD decisions are rejected; the pipeline
// filters them before calling.
func (p *Paper) Execute(pair *domain.Pair, decision domain.Decision, tickID int64, price decimal.Decimal) error {
	if decision.Action == domain.ActionHold {
		return fmt.Errorf("execute called with HOLD decision at tick %d", tickID)
	}
	if price.IsZero() {
		return fmt.Errorf("cannot execute at zero price for %s", pair.Symbol)
	}

	amount, ok := decision.Params.Amount()
	if !ok || amount.IsZero() {
		// A sized order needs an amount; an unsized signal fills a
		// nominal unit so the run still produces a trade log.
		amount = decimal.NewFromInt(1)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	cost := amount.Mul(price)
	switch decision.Action {
	case domain.ActionBuy:
		if p.balances[pair.QuoteCurrency].LessThan(cost) {
			return fmt.Errorf("insufficient %s balance: have %s, need %s",
				pair.QuoteCurrency, p.balances[pair.QuoteCurrency], cost)
		}
		p.balances[pair.QuoteCurrency] = p.balances[pair.QuoteCurrency].Sub(cost)
		p.balances[pair.BaseCurrency] = p.balances[pair.BaseCurrency].Add(amount)
	case domain.ActionSell:
		if p.balances[pair.BaseCurrency].LessThan(amount) {
			return fmt.Errorf("insufficient %s balance: have %s, need %s",
				pair.BaseCurrency, p.balances[pair.BaseCurrency], amount)
		}
		p.balances[pair.BaseCurrency] = p.balances[pair.BaseCurrency].Sub(amount)
		p.balances[pair.QuoteCurrency] = p.balances[pair.QuoteCurrency].Add(cost)
	default:
		return fmt.Errorf("unknown action %q", decision.Action)
	}

	fill := Fill{
		TickID: tickID,
		Symbol: pair.Symbol,
		Action: decision.Action,
		Reason: decision.Reason,
		Amount: amount,
		Price:  price,
		TS:     time.Now().UnixMilli(),
	}
	p.fills.Append(fill)

	slog.Info("Paper fill",
		slog.Int64("tick_id", tickID),
		slog.String("symbol", pair.Symbol),
		slog.String("action", string(decision.Action)),
		slog.String("reason", decision.Reason),
		slog.String("amount", amount.String()),
		slog.String("price", price.String()),
	)
	return nil
}
