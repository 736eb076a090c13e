package domain

import "context"

// LedgerRepository persists ledger snapshots together with the events that
// produced them. Commit must store both or neither.
type LedgerRepository interface {
	Commit(ctx context.Context, snapshot LedgerSnapshot, events []LedgerEvent) error
	Load(ctx context.Context, contract Address) (*LedgerSnapshot, error)
	ListRecentEvents(ctx context.Context, contract Address, limit int) ([]LedgerEvent, error)
}
