package fundme

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"fundme/internal/domain"
	"fundme/internal/oracle"
)

var (
	owner    = addr(0)
	feedAddr = common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")
	self     = common.HexToAddress("0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512")
)

// sendValue is one ether, the amount each funder sends in the scenarios.
var sendValue = domain.Ether(1)

func addr(i int) domain.Address {
	return common.HexToAddress(fmt.Sprintf("0x%040x", i+1))
}

// payee credits recipients in memory and can run a hook during the transfer.
type payee struct {
	credited map[domain.Address]*big.Int
	hook     func(ctx context.Context, to domain.Address, amount *big.Int) error
	calls    int
}

func newPayee() *payee {
	return &payee{credited: make(map[domain.Address]*big.Int)}
}

func (p *payee) Transfer(ctx context.Context, to domain.Address, amount *big.Int) error {
	p.calls++
	if p.hook != nil {
		if err := p.hook(ctx, to, amount); err != nil {
			return err
		}
	}
	bal, ok := p.credited[to]
	if !ok {
		bal = new(big.Int)
		p.credited[to] = bal
	}
	bal.Add(bal, amount)
	return nil
}

func (p *payee) balance(a domain.Address) *big.Int {
	if v, ok := p.credited[a]; ok {
		return v
	}
	return new(big.Int)
}

type memJournal struct {
	commits []domain.LedgerSnapshot
	events  []domain.LedgerEvent
	err     error
}

func (j *memJournal) Commit(_ context.Context, snap domain.LedgerSnapshot, events []domain.LedgerEvent) error {
	if j.err != nil {
		return j.err
	}
	j.commits = append(j.commits, snap)
	j.events = append(j.events, events...)
	return nil
}

type brokenOracle struct{}

func (brokenOracle) LatestPrice(context.Context) (oracle.Price, error) {
	return oracle.Price{}, errors.New("feed offline")
}

type fixture struct {
	contract *Contract
	feed     *oracle.MockAggregator
	payee    *payee
	journal  *memJournal
}

func deploy(t *testing.T) fixture {
	t.Helper()
	feed := oracle.NewMockAggregator(8, big.NewInt(200000000000))
	p := newPayee()
	j := &memJournal{}
	c, err := Deploy(Config{
		Address:   self,
		Owner:     owner,
		PriceFeed: feedAddr,
		Oracle:    feed,
		Transfer:  p,
		Journal:   j,
	})
	if err != nil {
		t.Fatalf("Deploy() error: %v", err)
	}
	return fixture{contract: c, feed: feed, payee: p, journal: j}
}

func mustFund(t *testing.T, c *Contract, from domain.Address, amount *big.Int) {
	t.Helper()
	if err := c.Fund(context.Background(), from, amount); err != nil {
		t.Fatalf("Fund(%s, %s) error: %v", from.Hex(), amount, err)
	}
}

// checkInvariants asserts that funders and balances describe each other and
// that the recorded balances never exceed the held value.
func checkInvariants(t *testing.T, c *Contract) {
	t.Helper()
	snap := c.Snapshot(context.Background())
	if len(snap.Funders) != len(snap.Balances) {
		t.Fatalf("funders (%d) and balances (%d) out of sync", len(snap.Funders), len(snap.Balances))
	}
	seen := make(map[domain.Address]bool)
	for _, f := range snap.Funders {
		if seen[f] {
			t.Fatalf("funder %s listed twice", f.Hex())
		}
		seen[f] = true
		bal, ok := snap.Balances[f]
		if !ok || bal.Sign() <= 0 {
			t.Fatalf("funder %s has no positive balance", f.Hex())
		}
	}
	if snap.Total().Cmp(snap.Held) > 0 {
		t.Fatalf("recorded total %s exceeds held %s", snap.Total(), snap.Held)
	}
}
