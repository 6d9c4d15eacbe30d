package storage

import (
	"fmt"
	"sort"
	"sync"

	"tickflow/internal/domain"
)

// InMemoryPairRepository is the default pair registry: pairs built from
// configured symbols, no persistence. The SQLite Storage offers the
// same interface with persistence when pair settings need to survive
// restarts.
type InMemoryPairRepository struct {
	mu    sync.RWMutex
	pairs map[string]*domain.Pair
}

// NewInMemoryPairRepository creates an empty registry.
func NewInMemoryPairRepository() *InMemoryPairRepository {
	return &InMemoryPairRepository{pairs: make(map[string]*domain.Pair)}
}

// FromSymbols builds a registry with a default pair per symbol.
func FromSymbols(symbols []string) (*InMemoryPairRepository, error) {
	repo := NewInMemoryPairRepository()
	for _, symbol := range symbols {
		pair, err := domain.NewPairFromSymbol(symbol)
		if err != nil {
			return nil, fmt.Errorf("pair repository: %w", err)
		}
		repo.pairs[pair.Symbol] = pair
	}
	return repo, nil
}

// GetBySymbol retrieves a pair by symbol.
func (r *InMemoryPairRepository) GetBySymbol(symbol string) (*domain.Pair, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	pair, ok := r.pairs[symbol]
	if !ok {
		return nil, domain.ErrPairNotFound
	}
	return pair, nil
}

// ListActive returns the enabled pairs, sorted by symbol for a stable
// iteration order.
func (r *InMemoryPairRepository) ListActive() ([]*domain.Pair, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Pair, 0, len(r.pairs))
	for _, pair := range r.pairs {
		if pair.Enabled {
			out = append(out, pair)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out, nil
}

// Upsert stores or replaces a pair.
func (r *InMemoryPairRepository) Upsert(pair *domain.Pair) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pairs[pair.Symbol] = pair
	return nil
}

var _ domain.PairRepository = (*InMemoryPairRepository)(nil)
