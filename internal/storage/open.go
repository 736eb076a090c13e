package storage

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"fundme/internal/adapter/repo"
	"fundme/internal/domain"
	"fundme/internal/infra"
)

// Open returns the ledger repository selected by cfg.StoreDriver together with
// a function releasing its resources.
func Open(ctx context.Context, cfg *infra.Config, logger zerolog.Logger) (domain.LedgerRepository, func(), error) {
	switch cfg.StoreDriver {
	case infra.StoreMemory, "":
		return NewMemoryStore(), func() {}, nil
	case infra.StoreSQLite:
		s, err := NewSQLiteStore(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil
	case infra.StorePostgres:
		pool, err := infra.NewDBPool(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		return repo.NewLedgerRepository(infra.NewSQLRunner(pool, logger)), pool.Close, nil
	default:
		return nil, nil, fmt.Errorf("storage: unsupported driver %q", cfg.StoreDriver)
	}
}
