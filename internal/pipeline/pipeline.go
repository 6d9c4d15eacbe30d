package pipeline

import (
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"tickflow/internal/domain"
	"tickflow/internal/indicator"
	"tickflow/internal/infra"
	"tickflow/internal/strategy"
)

// Executor consumes the adjudicated decision of a tick. The pipeline
// only calls it for non-HOLD decisions.
type Executor interface {
	Execute(pair *domain.Pair, decision domain.Decision, tickID int64, price decimal.Decimal) error
}

// Pipeline chains the per-tick stages in a fixed order over one
// context. It is not safe for concurrent ProcessTick calls; one
// goroutine drives it.
type Pipeline struct {
	ctx      *Context
	engine   *indicator.Engine
	hub      *strategy.Hub
	executor Executor
	metrics  *infra.Metrics
}

// New creates a pipeline over the given context and stages.
func New(ctx *Context, engine *indicator.Engine, hub *strategy.Hub, executor Executor, metrics *infra.Metrics) *Pipeline {
	return &Pipeline{
		ctx:      ctx,
		engine:   engine,
		hub:      hub,
		executor: executor,
		metrics:  metrics,
	}
}

// Context returns the pipeline's shared state.
func (p *Pipeline) Context() *Context {
	return p.ctx
}

// ProcessTick runs one tick through every stage: market update,
// indicators, strategies, decision, execution, metrics. The stage
// order is fixed; each stage reads what the previous ones wrote into
// the context.
func (p *Pipeline) ProcessTick(tickID int64, symbol string, tk domain.Ticker) domain.Decision {
	started := time.Now()

	// 1. Market state
	p.ctx.UpdateMarketState(symbol, tk)

	// 2. Indicators
	snap := p.engine.OnTicker(p.ctx.PriceHistory[symbol], p.ctx.IndicatorStores[symbol], tickID, tk)
	p.ctx.RecordIndicators(symbol, snap)

	// 3. Strategies
	intents := p.hub.Evaluate(strategy.Input{
		TickID:     tickID,
		Symbol:     symbol,
		Price:      tk.Last,
		TS:         tk.Timestamp,
		Indicators: snap,
	})
	p.ctx.RecordIntents(symbol, intents)

	// 4. Decision
	decision := Decide(p.ctx, symbol, intents)
	p.ctx.RecordDecision(symbol, decision)

	// 5. Execution. HOLD ticks skip the executor entirely; a failed
	// execution is logged and counted but never stops the pipeline.
	if decision.Action == domain.ActionHold {
		slog.Debug("Skipping execution",
			slog.Int64("tick_id", tickID),
			slog.String("symbol", symbol),
			slog.String("reason", decision.Reason),
		)
	} else if p.executor != nil {
		if err := p.executor.Execute(p.ctx.Pairs[symbol], decision, tickID, tk.Last); err != nil {
			slog.Error("Execution failed",
				slog.Int64("tick_id", tickID),
				slog.String("symbol", symbol),
				slog.Any("error", err),
			)
			p.metrics.RecordError()
		}
	}

	// 6. Metrics
	p.ctx.Metrics.Ticks++
	p.metrics.RecordTick(time.Since(started).Nanoseconds())
	p.metrics.RecordDecision(string(decision.Action))

	return decision
}
