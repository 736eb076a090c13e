package storage

import (
	"context"
	"math/big"
	"slices"
	"sync"

	"fundme/internal/domain"
)

// MemoryEventRetention is the number of most recent events MemoryStore keeps
// per contract.
const MemoryEventRetention = 1000

// MemoryStore keeps ledger snapshots and the most recent events in process
// memory.
type MemoryStore struct {
	mu        sync.RWMutex
	retain    int
	snapshots map[domain.Address]domain.LedgerSnapshot
	events    map[domain.Address][]domain.LedgerEvent
}

// NewMemoryStore returns an empty store keeping MemoryEventRetention events
// per contract.
func NewMemoryStore() *MemoryStore {
	return NewMemoryStoreWithRetention(MemoryEventRetention)
}

// NewMemoryStoreWithRetention returns an empty store keeping at most retain
// events per contract. A non-positive retain uses MemoryEventRetention.
func NewMemoryStoreWithRetention(retain int) *MemoryStore {
	if retain <= 0 {
		retain = MemoryEventRetention
	}
	return &MemoryStore{
		retain:    retain,
		snapshots: make(map[domain.Address]domain.LedgerSnapshot),
		events:    make(map[domain.Address][]domain.LedgerEvent),
	}
}

func (s *MemoryStore) Commit(ctx context.Context, snapshot domain.LedgerSnapshot, events []domain.LedgerEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[snapshot.Contract] = cloneSnapshot(snapshot)
	kept := s.events[snapshot.Contract]
	for _, ev := range events {
		kept = append(kept, cloneEvent(ev))
	}
	if len(kept) > s.retain {
		kept = slices.Clone(kept[len(kept)-s.retain:])
	}
	s.events[snapshot.Contract] = kept
	return nil
}

func (s *MemoryStore) Load(_ context.Context, contract domain.Address) (*domain.LedgerSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.snapshots[contract]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := cloneSnapshot(snap)
	return &out, nil
}

func (s *MemoryStore) ListRecentEvents(_ context.Context, contract domain.Address, limit int) ([]domain.LedgerEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := s.events[contract]
	var items []domain.LedgerEvent
	for i := len(all) - 1; i >= 0 && (limit <= 0 || len(items) < limit); i-- {
		items = append(items, cloneEvent(all[i]))
	}
	return items, nil
}

func cloneSnapshot(s domain.LedgerSnapshot) domain.LedgerSnapshot {
	out := s
	out.Held = cloneAmount(s.Held)
	out.Funders = append([]domain.Address(nil), s.Funders...)
	out.Balances = make(map[domain.Address]*big.Int, len(s.Balances))
	for k, v := range s.Balances {
		out.Balances[k] = cloneAmount(v)
	}
	return out
}

func cloneEvent(ev domain.LedgerEvent) domain.LedgerEvent {
	ev.Amount = cloneAmount(ev.Amount)
	return ev
}

func cloneAmount(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(v)
}

var _ domain.LedgerRepository = (*MemoryStore)(nil)
