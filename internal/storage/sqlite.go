package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"fundme/internal/domain"
)

// SQLiteStore persists each ledger as a JSON snapshot row plus an append-only
// event table in a single SQLite file.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

type snapshotRecord struct {
	Owner     string            `json:"owner"`
	PriceFeed string            `json:"price_feed"`
	Held      string            `json:"held_wei"`
	Funders   []string          `json:"funders"`
	Balances  map[string]string `json:"balances"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// NewSQLiteStore opens (creating if needed) the database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path == "" {
		path = "fundme.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	for _, stmt := range []string{
		`CREATE TABLE IF NOT EXISTS snapshots (
			contract TEXT PRIMARY KEY,
			payload BLOB NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS events (
			id TEXT PRIMARY KEY,
			contract TEXT NOT NULL,
			kind TEXT NOT NULL,
			address TEXT NOT NULL,
			amount_wei TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
	} {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("create schema: %w", err)
		}
	}
	return &SQLiteStore{db: db, path: path}, nil
}

// Commit stores the snapshot and events in one transaction.
func (s *SQLiteStore) Commit(ctx context.Context, snapshot domain.LedgerSnapshot, events []domain.LedgerEvent) (retErr error) {
	payload, err := json.Marshal(encodeSnapshot(snapshot))
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()
	contract := snapshot.Contract.Hex()
	if _, err := tx.ExecContext(ctx, `INSERT INTO snapshots(contract,payload) VALUES(?,?) ON CONFLICT(contract) DO UPDATE SET payload=excluded.payload`, contract, payload); err != nil {
		return fmt.Errorf("upsert snapshot: %w", err)
	}
	for _, ev := range events {
		if _, err := tx.ExecContext(ctx, `INSERT INTO events(id,contract,kind,address,amount_wei,created_at) VALUES(?,?,?,?,?,?)`,
			ev.ID, contract, string(ev.Kind), ev.Address.Hex(), cloneAmount(ev.Amount).String(), ev.CreatedAt.UTC().Format(time.RFC3339Nano)); err != nil {
			return fmt.Errorf("insert event %s: %w", ev.ID, err)
		}
	}
	return tx.Commit()
}

// Load returns the stored snapshot of contract, or domain.ErrNotFound.
func (s *SQLiteStore) Load(ctx context.Context, contract domain.Address) (*domain.LedgerSnapshot, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM snapshots WHERE contract = ?`, contract.Hex()).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select snapshot: %w", err)
	}
	var rec snapshotRecord
	if err := json.Unmarshal(payload, &rec); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return decodeSnapshot(contract, rec)
}

// ListRecentEvents returns the newest events of contract first.
func (s *SQLiteStore) ListRecentEvents(ctx context.Context, contract domain.Address, limit int) ([]domain.LedgerEvent, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `SELECT id, kind, address, amount_wei, created_at FROM events WHERE contract = ? ORDER BY rowid DESC LIMIT ?`, contract.Hex(), limit)
	if err != nil {
		return nil, fmt.Errorf("select events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var items []domain.LedgerEvent
	for rows.Next() {
		var id, kind, addr, amount, created string
		if err := rows.Scan(&id, &kind, &addr, &amount, &created); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		ev := domain.LedgerEvent{ID: id, Contract: contract, Kind: domain.EventKind(kind)}
		if ev.Address, err = domain.ParseAddress(addr); err != nil {
			return nil, fmt.Errorf("event %s address: %w", id, err)
		}
		if ev.Amount, err = domain.ParseWei(amount); err != nil {
			return nil, fmt.Errorf("event %s amount: %w", id, err)
		}
		if ev.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return nil, fmt.Errorf("event %s time: %w", id, err)
		}
		items = append(items, ev)
	}
	return items, rows.Err()
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error { return s.db.Close() }

// Path returns the configured database path.
func (s *SQLiteStore) Path() string { return s.path }

func encodeSnapshot(s domain.LedgerSnapshot) snapshotRecord {
	rec := snapshotRecord{
		Owner:     s.Owner.Hex(),
		PriceFeed: s.PriceFeed.Hex(),
		Held:      cloneAmount(s.Held).String(),
		Balances:  make(map[string]string, len(s.Balances)),
		UpdatedAt: s.UpdatedAt,
	}
	for _, f := range s.Funders {
		rec.Funders = append(rec.Funders, f.Hex())
		rec.Balances[f.Hex()] = cloneAmount(s.Balances[f]).String()
	}
	return rec
}

func decodeSnapshot(contract domain.Address, rec snapshotRecord) (*domain.LedgerSnapshot, error) {
	snap := &domain.LedgerSnapshot{Contract: contract, UpdatedAt: rec.UpdatedAt}
	var err error
	if snap.Owner, err = domain.ParseAddress(rec.Owner); err != nil {
		return nil, fmt.Errorf("owner: %w", err)
	}
	if snap.PriceFeed, err = domain.ParseAddress(rec.PriceFeed); err != nil {
		return nil, fmt.Errorf("price feed: %w", err)
	}
	if snap.Held, err = domain.ParseWei(rec.Held); err != nil {
		return nil, fmt.Errorf("held: %w", err)
	}
	snap.Balances = make(map[domain.Address]*big.Int, len(rec.Funders))
	for _, raw := range rec.Funders {
		addr, err := domain.ParseAddress(raw)
		if err != nil {
			return nil, fmt.Errorf("funder %q: %w", raw, err)
		}
		wei, err := domain.ParseWei(rec.Balances[raw])
		if err != nil {
			return nil, fmt.Errorf("balance of %s: %w", raw, err)
		}
		snap.Funders = append(snap.Funders, addr)
		snap.Balances[addr] = wei
	}
	return snap, nil
}

var _ domain.LedgerRepository = (*SQLiteStore)(nil)
