package storage

import (
	"errors"
	"testing"

	"tickflow/internal/domain"
)

func TestFromSymbols(t *testing.T) {
	repo, err := FromSymbols([]string{"ETH/USDT", "BTC/USDT"})
	if err != nil {
		t.Fatalf("FromSymbols failed: %v", err)
	}

	pair, err := repo.GetBySymbol("BTC/USDT")
	if err != nil {
		t.Fatalf("GetBySymbol failed: %v", err)
	}
	if pair.BaseCurrency != "BTC" || pair.QuoteCurrency != "USDT" {
		t.Errorf("unexpected pair: %+v", pair)
	}

	if _, err := repo.GetBySymbol("NOPE/USDT"); !errors.Is(err, domain.ErrPairNotFound) {
		t.Errorf("expected ErrPairNotFound, got %v", err)
	}
}

func TestFromSymbols_InvalidSymbol(t *testing.T) {
	if _, err := FromSymbols([]string{"BTCUSDT"}); !errors.Is(err, domain.ErrInvalidSymbol) {
		t.Errorf("expected ErrInvalidSymbol, got %v", err)
	}
}

func TestInMemoryPairRepository_ListActiveSorted(t *testing.T) {
	repo, err := FromSymbols([]string{"ETH/USDT", "BTC/USDT", "ADA/USDT"})
	if err != nil {
		t.Fatalf("FromSymbols failed: %v", err)
	}

	eth, _ := repo.GetBySymbol("ETH/USDT")
	eth.Enabled = false
	repo.Upsert(eth)

	pairs, err := repo.ListActive()
	if err != nil {
		t.Fatalf("ListActive failed: %v", err)
	}
	if len(pairs) != 2 {
		t.Fatalf("expected 2 active pairs, got %d", len(pairs))
	}
	if pairs[0].Symbol != "ADA/USDT" || pairs[1].Symbol != "BTC/USDT" {
		t.Errorf("expected sorted order, got %s, %s", pairs[0].Symbol, pairs[1].Symbol)
	}
}
