package strategy_test

import (
	"testing"

	"github.com/shopspring/decimal"

	"tickflow/internal/domain"
	"tickflow/internal/strategy"
)

func TestSMACross(t *testing.T) {
	// Short=3, Long=5
	strat := strategy.NewSMACross("BTC/USDT", 3, 5, decimal.NewFromInt(1))

	tick := int64(0)
	push := func(price int64) []domain.Intent {
		tick++
		return strat.Evaluate(strategy.Input{
			TickID: tick,
			Symbol: "BTC/USDT",
			Price:  decimal.NewFromInt(price),
		})
	}

	// T1-T5: flat at 100. The window fills at T5 and only seeds the
	// previous SMAs; no intent yet.
	for i := 0; i < 5; i++ {
		if intents := push(100); len(intents) > 0 {
			t.Errorf("T%d: expected no intents, got %v", i+1, intents)
		}
	}

	// T6: jump to 200.
	// Short(3) = (100+100+200)/3, Long(5) = (100*4+200)/5 = 120.
	// Prev(S=100, L=100) -> Curr(S>L) => golden cross, BUY.
	intents := push(200)
	if len(intents) != 1 {
		t.Fatalf("T6: expected 1 intent, got %d", len(intents))
	}
	if intents[0].Action != domain.ActionBuy || intents[0].Reason != "sma_golden_cross" {
		t.Errorf("T6: expected BUY sma_golden_cross, got %+v", intents[0])
	}
	if amt, ok := intents[0].Params.Amount(); !ok || !amt.Equal(decimal.NewFromInt(1)) {
		t.Errorf("T6: expected amount 1, got %v", intents[0].Params)
	}

	// T7: drop to 50. Short stays above long, no cross.
	if intents := push(50); len(intents) != 0 {
		t.Errorf("T7: expected no intents, got %v", intents)
	}

	// T8: drop to 0.
	// Short(3) = (200+50+0)/3 = 83.3, Long(5) = 450/5 = 90.
	// Short crosses below long => dead cross, SELL.
	intents = push(0)
	if len(intents) != 1 {
		t.Fatalf("T8: expected 1 intent, got %d", len(intents))
	}
	if intents[0].Action != domain.ActionSell || intents[0].Reason != "sma_dead_cross" {
		t.Errorf("T8: expected SELL sma_dead_cross, got %+v", intents[0])
	}
}

func TestSMACross_IgnoresOtherSymbols(t *testing.T) {
	strat := strategy.NewSMACross("BTC/USDT", 2, 3, decimal.NewFromInt(1))

	for i := int64(1); i <= 10; i++ {
		intents := strat.Evaluate(strategy.Input{
			TickID: i,
			Symbol: "ETH/USDT",
			Price:  decimal.NewFromInt(100 * i),
		})
		if len(intents) != 0 {
			t.Fatalf("tick %d: expected no intents for foreign symbol, got %v", i, intents)
		}
	}
}

func TestSMACross_PanicsOnBadPeriods(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic when shortPeriod >= longPeriod")
		}
	}()
	strategy.NewSMACross("BTC/USDT", 5, 5, decimal.NewFromInt(1))
}

func TestDemo_Alternation(t *testing.T) {
	demo := strategy.NewDemo()

	cases := []struct {
		tickID int64
		action domain.Action
		reason string
	}{
		{1, domain.ActionHold, "no_signal"},
		{2, domain.ActionBuy, "demo_up"},
		{3, domain.ActionSell, "demo_down"},
		{4, domain.ActionBuy, "demo_up"},
		{5, domain.ActionHold, "no_signal"},
		{6, domain.ActionSell, "demo_down"}, // %3 wins over %2
	}
	for _, tc := range cases {
		intents := demo.Evaluate(strategy.Input{TickID: tc.tickID, Symbol: "BTC/USDT"})
		if len(intents) != 1 {
			t.Fatalf("tick %d: expected 1 intent, got %d", tc.tickID, len(intents))
		}
		if intents[0].Action != tc.action || intents[0].Reason != tc.reason {
			t.Errorf("tick %d: expected %s/%s, got %s/%s",
				tc.tickID, tc.action, tc.reason, intents[0].Action, intents[0].Reason)
		}
	}
}

func TestHub_ConcatenatesInRegistrationOrder(t *testing.T) {
	hub := strategy.NewHub(
		strategy.NewDemo(),
		strategy.NewSMACross("BTC/USDT", 2, 3, decimal.NewFromInt(1)),
	)

	intents := hub.Evaluate(strategy.Input{
		TickID: 2,
		Symbol: "BTC/USDT",
		Price:  decimal.NewFromInt(100),
	})
	// Demo always emits one; the cross strategy is still warming up.
	if len(intents) != 1 {
		t.Fatalf("expected 1 intent, got %d", len(intents))
	}
	if intents[0].Reason != "demo_up" {
		t.Errorf("expected demo intent first, got %+v", intents[0])
	}
}
