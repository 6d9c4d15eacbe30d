package pipeline

import (
	"log/slog"

	"tickflow/internal/domain"
)

// Decide reduces the intents of one tick to a single decision:
//
//   - no intents, or only HOLDs: HOLD with reason "no_action"
//   - otherwise the first non-HOLD intent wins verbatim (action,
//     reason, params), intents after it are ignored
//   - a winning intent whose amount exceeds the risk limit is
//     downgraded to HOLD with reason "risk_limit_exceeded" and its
//     params dropped
//
// The decision timestamp comes from the market view when present.
func Decide(ctx *Context, symbol string, intents []domain.Intent) domain.Decision {
	decision := domain.Decision{
		Action: domain.ActionHold,
		Reason: "no_action",
	}

	for _, intent := range intents {
		if intent.Action == domain.ActionHold {
			continue
		}
		decision = domain.Decision{
			Action: intent.Action,
			Reason: intent.Reason,
			Params: intent.Params,
		}
		break
	}

	if decision.Action != domain.ActionHold && ctx.Risk.MaxAmount != nil {
		if amount, ok := decision.Params.Amount(); ok && amount.GreaterThan(*ctx.Risk.MaxAmount) {
			slog.Warn("Risk limit exceeded, downgrading decision to HOLD",
				slog.String("symbol", symbol),
				slog.String("action", string(decision.Action)),
				slog.String("amount", amount.String()),
				slog.String("max_amount", ctx.Risk.MaxAmount.String()),
			)
			decision = domain.Decision{
				Action: domain.ActionHold,
				Reason: "risk_limit_exceeded",
			}
		}
	}

	if mv, ok := ctx.Market[symbol]; ok {
		decision.TS = mv.TS
	}
	return decision
}
