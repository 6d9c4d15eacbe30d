package execution

import (
	"testing"

	"github.com/shopspring/decimal"

	"tickflow/internal/domain"
)

func testPair(t *testing.T) *domain.Pair {
	t.Helper()
	pair, err := domain.NewPairFromSymbol("BTC/USDT")
	if err != nil {
		t.Fatalf("NewPairFromSymbol failed: %v", err)
	}
	return pair
}

func TestPaper_Buy(t *testing.T) {
	paper := NewPaper()
	pair := testPair(t)

	paper.Deposit("USDT", decimal.NewFromInt(10000))

	decision := domain.Decision{
		Action: domain.ActionBuy,
		Reason: "sma_golden_cross",
		Params: domain.Params{"amount": decimal.NewFromFloat(0.1)},
	}
	if err := paper.Execute(pair, decision, 1, decimal.NewFromInt(50000)); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if got := paper.Balance("BTC"); !got.Equal(decimal.NewFromFloat(0.1)) {
		t.Errorf("expected 0.1 BTC, got %s", got)
	}
	// 10000 - 0.1*50000 = 5000
	if got := paper.Balance("USDT"); !got.Equal(decimal.NewFromInt(5000)) {
		t.Errorf("expected 5000 USDT, got %s", got)
	}

	fills := paper.Fills()
	if len(fills) != 1 {
		t.Fatalf("expected 1 fill, got %d", len(fills))
	}
	if fills[0].Action != domain.ActionBuy || fills[0].TickID != 1 {
		t.Errorf("unexpected fill: %+v", fills[0])
	}
}

func TestPaper_Sell(t *testing.T) {
	paper := NewPaper()
	pair := testPair(t)

	paper.Deposit("BTC", decimal.NewFromInt(1))

	decision := domain.Decision{
		Action: domain.ActionSell,
		Reason: "sma_dead_cross",
		Params: domain.Params{"amount": decimal.NewFromFloat(0.5)},
	}
	if err := paper.Execute(pair, decision, 2, decimal.NewFromInt(50000)); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if got := paper.Balance("BTC"); !got.Equal(decimal.NewFromFloat(0.5)) {
		t.Errorf("expected 0.5 BTC left, got %s", got)
	}
	if got := paper.Balance("USDT"); !got.Equal(decimal.NewFromInt(25000)) {
		t.Errorf("expected 25000 USDT, got %s", got)
	}
}

func TestPaper_InsufficientBalance(t *testing.T) {
	paper := NewPaper()
	pair := testPair(t)

	paper.Deposit("USDT", decimal.NewFromInt(100))

	decision := domain.Decision{
		Action: domain.ActionBuy,
		Reason: "demo_up",
		Params: domain.Params{"amount": decimal.NewFromInt(1)},
	}
	err := paper.Execute(pair, decision, 3, decimal.NewFromInt(50000))
	if err == nil {
		t.Fatal("expected error for insufficient balance, got nil")
	}
	if len(paper.Fills()) != 0 {
		t.Errorf("failed execution must not record a fill")
	}
	if got := paper.Balance("USDT"); !got.Equal(decimal.NewFromInt(100)) {
		t.Errorf("failed execution must not touch balances, got %s", got)
	}
}

func TestPaper_RejectsHold(t *testing.T) {
	paper := NewPaper()
	pair := testPair(t)

	decision := domain.Decision{Action: domain.ActionHold, Reason: "no_action"}
	if err := paper.Execute(pair, decision, 4, decimal.NewFromInt(100)); err == nil {
		t.Error("expected error executing a HOLD decision")
	}
}

func TestPaper_DefaultsAmountWhenUnsized(t *testing.T) {
	paper := NewPaper()
	pair := testPair(t)

	paper.Deposit("USDT", decimal.NewFromInt(10000))

	decision := domain.Decision{Action: domain.ActionBuy, Reason: "demo_up"}
	if err := paper.Execute(pair, decision, 5, decimal.NewFromInt(100)); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if got := paper.Balance("BTC"); !got.Equal(decimal.NewFromInt(1)) {
		t.Errorf("expected nominal fill of 1 BTC, got %s", got)
	}
}
