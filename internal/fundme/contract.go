package fundme

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/google/uuid"

	"fundme/internal/domain"
	"fundme/internal/oracle"
)

// Transferer moves value out of the contract. Implementations may call back
// into the contract using the supplied context.
type Transferer interface {
	Transfer(ctx context.Context, to domain.Address, amount *big.Int) error
}

// Journal receives the final snapshot and the events of every successful
// top-level call. A Journal error aborts the call.
type Journal interface {
	Commit(ctx context.Context, snapshot domain.LedgerSnapshot, events []domain.LedgerEvent) error
}

// Config describes a deployment.
type Config struct {
	// Address is the contract's own identity.
	Address domain.Address
	// Owner is the deploying caller; only it may withdraw.
	Owner     domain.Address
	PriceFeed domain.Address
	Oracle    oracle.PriceOracle
	Transfer  Transferer
	Journal   Journal
	// MinimumUSD overrides oracle.MinimumUSD when set.
	MinimumUSD *big.Int
	// Restore seeds the ledger from a previously committed snapshot.
	Restore *domain.LedgerSnapshot
	Clock   func() time.Time
}

// Contract is a deployed FundMe ledger.
type Contract struct {
	address    domain.Address
	owner      domain.Address
	priceFeed  domain.Address
	oracle     oracle.PriceOracle
	transfer   Transferer
	journal    Journal
	minimumUSD *big.Int
	now        func() time.Time

	mu    sync.RWMutex
	state ledger
}

// Deploy creates a contract from cfg.
func Deploy(cfg Config) (*Contract, error) {
	if cfg.Oracle == nil {
		return nil, errors.New("fundme: price oracle is required")
	}
	if cfg.Transfer == nil {
		return nil, errors.New("fundme: transferer is required")
	}
	if cfg.Owner == domain.ZeroAddress {
		return nil, fmt.Errorf("fundme: owner: %w", domain.ErrInvalidAddress)
	}
	c := &Contract{
		address:    cfg.Address,
		owner:      cfg.Owner,
		priceFeed:  cfg.PriceFeed,
		oracle:     cfg.Oracle,
		transfer:   cfg.Transfer,
		journal:    cfg.Journal,
		minimumUSD: oracle.MinimumUSD,
		now:        cfg.Clock,
		state:      newLedger(),
	}
	if cfg.MinimumUSD != nil {
		c.minimumUSD = new(big.Int).Set(cfg.MinimumUSD)
	}
	if c.now == nil {
		c.now = func() time.Time { return time.Now().UTC() }
	}
	if snap := cfg.Restore; snap != nil {
		if snap.Owner != cfg.Owner || snap.Contract != cfg.Address {
			return nil, fmt.Errorf("fundme: snapshot belongs to contract %s owned by %s", snap.Contract.Hex(), snap.Owner.Hex())
		}
		c.state = restoreLedger(snap.Held, snap.Funders, snap.Balances)
	}
	return c, nil
}

// Address returns the contract's own identity.
func (c *Contract) Address() domain.Address { return c.address }

// Owner returns the immutable owner.
func (c *Contract) Owner() domain.Address { return c.owner }

// PriceFeed returns the address of the configured price feed.
func (c *Contract) PriceFeed() domain.Address { return c.priceFeed }

// MinimumUSD returns the contribution threshold in USD at 18 decimals.
func (c *Contract) MinimumUSD() *big.Int { return new(big.Int).Set(c.minimumUSD) }

// AddressToAmountFunded returns the recorded contribution of addr, zero when
// it has none.
func (c *Contract) AddressToAmountFunded(ctx context.Context, addr domain.Address) *big.Int {
	var out *big.Int
	c.view(ctx, func(l *ledger) { out = l.balanceOf(addr) })
	return out
}

// Funder returns the funder at index in insertion order.
func (c *Contract) Funder(ctx context.Context, index int) (domain.Address, error) {
	var (
		addr domain.Address
		err  error
	)
	c.view(ctx, func(l *ledger) {
		if index < 0 || index >= len(l.funders) {
			err = fmt.Errorf("%w: %d", domain.ErrIndexOutOfRange, index)
			return
		}
		addr = l.funders[index]
	})
	return addr, err
}

// FunderCount returns the number of distinct funders since the last withdrawal.
func (c *Contract) FunderCount(ctx context.Context) int {
	var n int
	c.view(ctx, func(l *ledger) { n = len(l.funders) })
	return n
}

// Balance returns the held value, including unsolicited credits.
func (c *Contract) Balance(ctx context.Context) *big.Int {
	var out *big.Int
	c.view(ctx, func(l *ledger) { out = new(big.Int).Set(l.held) })
	return out
}

// Snapshot returns a deep copy of the current state.
func (c *Contract) Snapshot(ctx context.Context) domain.LedgerSnapshot {
	var snap domain.LedgerSnapshot
	c.view(ctx, func(l *ledger) { snap = c.snapshotOf(l) })
	return snap
}

func (c *Contract) snapshotOf(l *ledger) domain.LedgerSnapshot {
	funders, balances, held := l.snapshot()
	return domain.LedgerSnapshot{
		Contract:  c.address,
		Owner:     c.owner,
		PriceFeed: c.priceFeed,
		Held:      held,
		Funders:   funders,
		Balances:  balances,
		UpdatedAt: c.now(),
	}
}

func (c *Contract) event(kind domain.EventKind, addr domain.Address, amount *big.Int) domain.LedgerEvent {
	return domain.LedgerEvent{
		ID:        uuid.NewString(),
		Contract:  c.address,
		Kind:      kind,
		Address:   addr,
		Amount:    new(big.Int).Set(amount),
		CreatedAt: c.now(),
	}
}
