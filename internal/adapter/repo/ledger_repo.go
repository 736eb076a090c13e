package repo

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"fundme/internal/domain"
	"fundme/internal/infra"
	"fundme/internal/sqlinline"
)

// LedgerRepositoryPG implements domain.LedgerRepository using PostgreSQL.
type LedgerRepositoryPG struct {
	sql infra.TxExecutor
}

// NewLedgerRepository creates a ledger repository over a marked-query runner.
func NewLedgerRepository(sql infra.TxExecutor) *LedgerRepositoryPG {
	return &LedgerRepositoryPG{sql: sql}
}

// Commit replaces the stored snapshot and appends events in one transaction.
func (r *LedgerRepositoryPG) Commit(ctx context.Context, snapshot domain.LedgerSnapshot, events []domain.LedgerEvent) error {
	return r.sql.InTx(ctx, func(tx infra.SQLExecutor) error {
		contract := snapshot.Contract.Hex()
		held := amountText(snapshot.Held)
		if _, err := tx.Exec(ctx, sqlinline.QUpsertLedgerSnapshot, contract, snapshot.Owner.Hex(), snapshot.PriceFeed.Hex(), held, snapshot.UpdatedAt); err != nil {
			return fmt.Errorf("upsert snapshot: %w", err)
		}
		if _, err := tx.Exec(ctx, sqlinline.QDeleteLedgerBalances, contract); err != nil {
			return fmt.Errorf("clear balances: %w", err)
		}
		for i, funder := range snapshot.Funders {
			amount := amountText(snapshot.Balances[funder])
			if _, err := tx.Exec(ctx, sqlinline.QInsertLedgerBalance, contract, i, funder.Hex(), amount); err != nil {
				return fmt.Errorf("insert balance %d: %w", i, err)
			}
		}
		for _, ev := range events {
			if _, err := tx.Exec(ctx, sqlinline.QInsertLedgerEvent, ev.ID, contract, string(ev.Kind), ev.Address.Hex(), amountText(ev.Amount), ev.CreatedAt); err != nil {
				return fmt.Errorf("insert event %s: %w", ev.ID, err)
			}
		}
		return nil
	})
}

// Load returns the stored snapshot of contract, or domain.ErrNotFound.
func (r *LedgerRepositoryPG) Load(ctx context.Context, contract domain.Address) (*domain.LedgerSnapshot, error) {
	var (
		owner, feed, held string
		updatedAt         time.Time
	)
	err := r.sql.QueryRow(ctx, sqlinline.QSelectLedgerSnapshot, contract.Hex()).Scan(&owner, &feed, &held, &updatedAt)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	snap := &domain.LedgerSnapshot{
		Contract:  contract,
		Balances:  make(map[domain.Address]*big.Int),
		UpdatedAt: updatedAt,
	}
	if snap.Owner, err = domain.ParseAddress(owner); err != nil {
		return nil, fmt.Errorf("owner %q: %w", owner, err)
	}
	if snap.PriceFeed, err = domain.ParseAddress(feed); err != nil {
		return nil, fmt.Errorf("price feed %q: %w", feed, err)
	}
	if snap.Held, err = domain.ParseWei(held); err != nil {
		return nil, fmt.Errorf("held: %w", err)
	}

	rows, err := r.sql.Query(ctx, sqlinline.QSelectLedgerBalances, contract.Hex())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var funder, amount string
		if err := rows.Scan(&funder, &amount); err != nil {
			return nil, err
		}
		addr, err := domain.ParseAddress(funder)
		if err != nil {
			return nil, fmt.Errorf("funder %q: %w", funder, err)
		}
		wei, err := domain.ParseWei(amount)
		if err != nil {
			return nil, fmt.Errorf("balance of %s: %w", funder, err)
		}
		snap.Funders = append(snap.Funders, addr)
		snap.Balances[addr] = wei
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return snap, nil
}

// ListRecentEvents returns the newest events of contract first.
func (r *LedgerRepositoryPG) ListRecentEvents(ctx context.Context, contract domain.Address, limit int) ([]domain.LedgerEvent, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListLedgerEvents, contract.Hex(), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.LedgerEvent
	for rows.Next() {
		var (
			ev              domain.LedgerEvent
			kind, addr, amt string
		)
		if err := rows.Scan(&ev.ID, &kind, &addr, &amt, &ev.CreatedAt); err != nil {
			return nil, err
		}
		ev.Contract = contract
		ev.Kind = domain.EventKind(kind)
		if ev.Address, err = domain.ParseAddress(addr); err != nil {
			return nil, fmt.Errorf("event %s address: %w", ev.ID, err)
		}
		if ev.Amount, err = domain.ParseWei(amt); err != nil {
			return nil, fmt.Errorf("event %s amount: %w", ev.ID, err)
		}
		items = append(items, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func amountText(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

var _ domain.LedgerRepository = (*LedgerRepositoryPG)(nil)
