package oracle

import (
	"context"
	"math/big"
	"sync"
	"time"
)

// MockAggregator is an in-memory feed for development chains. Each
// UpdateAnswer starts a new round.
type MockAggregator struct {
	mu        sync.RWMutex
	decimals  uint8
	answer    *big.Int
	round     uint64
	updatedAt time.Time
}

// NewMockAggregator creates a feed reporting initialAnswer at the given scale.
func NewMockAggregator(decimals uint8, initialAnswer *big.Int) *MockAggregator {
	m := &MockAggregator{decimals: decimals}
	m.UpdateAnswer(initialAnswer)
	return m
}

// UpdateAnswer records a new answer.
func (m *MockAggregator) UpdateAnswer(answer *big.Int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if answer == nil {
		answer = new(big.Int)
	}
	m.answer = new(big.Int).Set(answer)
	m.round++
	m.updatedAt = time.Now().UTC()
}

// Decimals returns the answer scale.
func (m *MockAggregator) Decimals() uint8 {
	return m.decimals
}

// LatestPrice implements PriceOracle.
func (m *MockAggregator) LatestPrice(ctx context.Context) (Price, error) {
	if err := ctx.Err(); err != nil {
		return Price{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	p := Price{
		Answer:    new(big.Int).Set(m.answer),
		Decimals:  m.decimals,
		RoundID:   m.round,
		UpdatedAt: m.updatedAt,
	}
	if err := p.Validate(); err != nil {
		return Price{}, err
	}
	return p, nil
}
