package domain

import "github.com/shopspring/decimal"

// Action is the closed set of trading actions.
type Action string

const (
	ActionBuy  Action = "BUY"
	ActionSell Action = "SELL"
	ActionHold Action = "HOLD"
)

// Params carries the numeric order parameters of an intent or
// decision, e.g. {"amount": 0.001, "price": 50000}.
type Params map[string]decimal.Decimal

// Amount returns the "amount" parameter if present.
func (p Params) Amount() (decimal.Decimal, bool) {
	if p == nil {
		return decimal.Decimal{}, false
	}
	v, ok := p["amount"]
	return v, ok
}

// Intent is a candidate trading action proposed by a strategy, not yet
// adjudicated. Intents are ephemeral; only the per-tick list is kept
// in history.
type Intent struct {
	Action     Action  `json:"action"`
	Reason     string  `json:"reason,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
	Params     Params  `json:"params,omitempty"`
}

// Decision is the single adjudicated trading action for a tick, after
// reduction and risk gating. It is consumed once by the execution
// stage.
type Decision struct {
	Action Action `json:"action"`
	Reason string `json:"reason"`
	Params Params `json:"params,omitempty"`
	TS     int64  `json:"ts,omitempty"` // timestamp of the triggering tick
}

// RiskLimits is the per-pair risk configuration the decision stage
// enforces. A nil MaxAmount disables the gate.
type RiskLimits struct {
	MaxAmount *decimal.Decimal `json:"max_amount,omitempty"`
}
