package fundme

import (
	"context"
	"errors"
	"math/big"
	"reflect"
	"testing"

	"fundme/internal/domain"
	"fundme/internal/oracle"
)

func TestDeployRecordsOwnerAndPriceFeed(t *testing.T) {
	fx := deploy(t)
	if got := fx.contract.PriceFeed(); got != feedAddr {
		t.Fatalf("PriceFeed() = %s, want %s", got.Hex(), feedAddr.Hex())
	}
	if got := fx.contract.Owner(); got != owner {
		t.Fatalf("Owner() = %s, want %s", got.Hex(), owner.Hex())
	}
	if fx.contract.Balance(context.Background()).Sign() != 0 {
		t.Fatalf("new contract holds value")
	}
}

func TestDeployValidation(t *testing.T) {
	feed := oracle.NewMockAggregator(8, big.NewInt(1))
	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "no oracle", cfg: Config{Owner: owner, Transfer: newPayee()}},
		{name: "no transferer", cfg: Config{Owner: owner, Oracle: feed}},
		{name: "no owner", cfg: Config{Oracle: feed, Transfer: newPayee()}},
		{name: "foreign snapshot", cfg: Config{Owner: owner, Oracle: feed, Transfer: newPayee(),
			Restore: &domain.LedgerSnapshot{Owner: addr(5), Contract: self}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Deploy(tc.cfg); err == nil {
				t.Fatalf("Deploy() expected error")
			}
		})
	}
}

func TestFundFailsWithoutEnoughValue(t *testing.T) {
	fx := deploy(t)
	ctx := context.Background()
	mustFund(t, fx.contract, addr(1), sendValue)
	commits := len(fx.journal.commits)
	before := fx.contract.Snapshot(ctx)

	err := fx.contract.Fund(ctx, owner, new(big.Int))
	if !errors.Is(err, domain.ErrInsufficientContribution) {
		t.Fatalf("Fund(0) error = %v, want ErrInsufficientContribution", err)
	}
	after := fx.contract.Snapshot(ctx)
	after.UpdatedAt = before.UpdatedAt
	if !reflect.DeepEqual(before, after) {
		t.Fatalf("rejected fund changed state: %+v -> %+v", before, after)
	}
	if len(fx.journal.commits) != commits {
		t.Fatalf("rejected fund was journaled")
	}
}

func TestFundUpdatesAmountFunded(t *testing.T) {
	fx := deploy(t)
	mustFund(t, fx.contract, owner, sendValue)

	got := fx.contract.AddressToAmountFunded(context.Background(), owner)
	if got.Cmp(sendValue) != 0 {
		t.Fatalf("AddressToAmountFunded() = %s, want %s", got, sendValue)
	}
	funder, err := fx.contract.Funder(context.Background(), 0)
	if err != nil {
		t.Fatalf("Funder(0) error: %v", err)
	}
	if funder != owner {
		t.Fatalf("Funder(0) = %s, want %s", funder.Hex(), owner.Hex())
	}
	checkInvariants(t, fx.contract)
}

func TestFundThresholdBoundary(t *testing.T) {
	fx := deploy(t)
	ctx := context.Background()
	min, _, err := fx.contract.MinimumContribution(ctx)
	if err != nil {
		t.Fatalf("MinimumContribution() error: %v", err)
	}
	funder := addr(1)
	mustFund(t, fx.contract, addr(2), sendValue)
	mustFund(t, fx.contract, funder, sendValue)
	before := fx.contract.Snapshot(ctx)

	below := new(big.Int).Sub(min, big.NewInt(1))
	if err := fx.contract.Fund(ctx, funder, below); !errors.Is(err, domain.ErrInsufficientContribution) {
		t.Fatalf("Fund(X-1) error = %v, want ErrInsufficientContribution", err)
	}
	after := fx.contract.Snapshot(ctx)
	after.UpdatedAt = before.UpdatedAt
	if !reflect.DeepEqual(before, after) {
		t.Fatalf("rejected fund changed state: %+v -> %+v", before, after)
	}

	mustFund(t, fx.contract, funder, min)
	want := new(big.Int).Add(sendValue, min)
	if got := fx.contract.AddressToAmountFunded(ctx, funder); got.Cmp(want) != 0 {
		t.Fatalf("recorded %s, want %s", got, want)
	}
	checkInvariants(t, fx.contract)
}

func TestFundReadsOracleEveryCall(t *testing.T) {
	fx := deploy(t)
	ctx := context.Background()
	amount := new(big.Int).Div(domain.Ether(1), big.NewInt(40)) // 50 USD at 2000 USD/ETH
	mustFund(t, fx.contract, addr(1), amount)

	fx.feed.UpdateAnswer(big.NewInt(100000000000)) // 1000 USD/ETH
	if err := fx.contract.Fund(ctx, addr(1), amount); !errors.Is(err, domain.ErrInsufficientContribution) {
		t.Fatalf("Fund() after price drop error = %v, want ErrInsufficientContribution", err)
	}
	if got := fx.contract.AddressToAmountFunded(ctx, addr(1)); got.Cmp(amount) != 0 {
		t.Fatalf("balance = %s, want %s", got, amount)
	}
}

func TestFundTwiceListsFunderOnce(t *testing.T) {
	fx := deploy(t)
	ctx := context.Background()
	mustFund(t, fx.contract, addr(3), sendValue)
	mustFund(t, fx.contract, addr(3), domain.Ether(2))

	if n := fx.contract.FunderCount(ctx); n != 1 {
		t.Fatalf("FunderCount() = %d, want 1", n)
	}
	if got := fx.contract.AddressToAmountFunded(ctx, addr(3)); got.Cmp(domain.Ether(3)) != 0 {
		t.Fatalf("balance = %s, want 3 ether", got)
	}
	if _, err := fx.contract.Funder(ctx, 1); !errors.Is(err, domain.ErrIndexOutOfRange) {
		t.Fatalf("Funder(1) error = %v, want ErrIndexOutOfRange", err)
	}
	checkInvariants(t, fx.contract)
}

func TestFundSumMatchesHeldValue(t *testing.T) {
	fx := deploy(t)
	ctx := context.Background()
	total := new(big.Int)
	for i := 0; i < 25; i++ {
		amount := new(big.Int).Add(sendValue, big.NewInt(int64(i*7919)))
		mustFund(t, fx.contract, addr(i%9), amount)
		total.Add(total, amount)
	}
	snap := fx.contract.Snapshot(ctx)
	if snap.Total().Cmp(total) != 0 {
		t.Fatalf("sum of balances = %s, want %s", snap.Total(), total)
	}
	if snap.Held.Cmp(total) != 0 {
		t.Fatalf("held = %s, want %s", snap.Held, total)
	}
	if len(snap.Funders) != 9 {
		t.Fatalf("funders = %d, want 9", len(snap.Funders))
	}
	for i, f := range snap.Funders {
		if f != addr(i) {
			t.Fatalf("funder %d = %s, want insertion order", i, f.Hex())
		}
	}
	checkInvariants(t, fx.contract)
}

func TestFundPropagatesOracleFailure(t *testing.T) {
	c, err := Deploy(Config{Owner: owner, Oracle: brokenOracle{}, Transfer: newPayee()})
	if err != nil {
		t.Fatalf("Deploy() error: %v", err)
	}
	err = c.Fund(context.Background(), addr(1), sendValue)
	if err == nil || errors.Is(err, domain.ErrInsufficientContribution) {
		t.Fatalf("Fund() error = %v, want oracle failure", err)
	}
	if c.Balance(context.Background()).Sign() != 0 {
		t.Fatalf("failed fund changed held value")
	}
}

func TestFundRejectsNegativeAmount(t *testing.T) {
	fx := deploy(t)
	if err := fx.contract.Fund(context.Background(), addr(1), big.NewInt(-1)); !errors.Is(err, domain.ErrInvalidAmount) {
		t.Fatalf("Fund(-1) error = %v, want ErrInvalidAmount", err)
	}
}

func TestReceiveIsHeldButNotRecorded(t *testing.T) {
	fx := deploy(t)
	ctx := context.Background()
	if err := fx.contract.Receive(ctx, addr(4), big.NewInt(12345)); err != nil {
		t.Fatalf("Receive() error: %v", err)
	}
	if got := fx.contract.Balance(ctx); got.Int64() != 12345 {
		t.Fatalf("Balance() = %s, want 12345", got)
	}
	if got := fx.contract.AddressToAmountFunded(ctx, addr(4)); got.Sign() != 0 {
		t.Fatalf("unsolicited credit recorded as contribution: %s", got)
	}
	if fx.contract.FunderCount(ctx) != 0 {
		t.Fatalf("unsolicited sender listed as funder")
	}
	if len(fx.journal.events) != 1 || fx.journal.events[0].Kind != domain.EventReceived {
		t.Fatalf("unexpected events %+v", fx.journal.events)
	}
}

func TestJournalFailureRollsBackFund(t *testing.T) {
	fx := deploy(t)
	fx.journal.err = errors.New("disk full")
	if err := fx.contract.Fund(context.Background(), addr(1), sendValue); err == nil {
		t.Fatalf("Fund() expected journal error")
	}
	if fx.contract.Balance(context.Background()).Sign() != 0 || fx.contract.FunderCount(context.Background()) != 0 {
		t.Fatalf("journal failure left partial state")
	}
}

func TestDeployRestoresSnapshot(t *testing.T) {
	fx := deploy(t)
	ctx := context.Background()
	mustFund(t, fx.contract, addr(1), sendValue)
	mustFund(t, fx.contract, addr(2), domain.Ether(2))
	if err := fx.contract.Receive(ctx, addr(9), big.NewInt(5)); err != nil {
		t.Fatalf("Receive() error: %v", err)
	}
	last := fx.journal.commits[len(fx.journal.commits)-1]

	restored, err := Deploy(Config{
		Address:   self,
		Owner:     owner,
		PriceFeed: feedAddr,
		Oracle:    fx.feed,
		Transfer:  newPayee(),
		Restore:   &last,
	})
	if err != nil {
		t.Fatalf("Deploy() error: %v", err)
	}
	if got := restored.Balance(ctx); got.Cmp(fx.contract.Balance(ctx)) != 0 {
		t.Fatalf("restored held = %s, want %s", got, fx.contract.Balance(ctx))
	}
	for i := 0; i < 2; i++ {
		a, _ := fx.contract.Funder(ctx, i)
		b, err := restored.Funder(ctx, i)
		if err != nil || a != b {
			t.Fatalf("restored funder %d = %s (%v), want %s", i, b.Hex(), err, a.Hex())
		}
	}
	checkInvariants(t, restored)
}
