// Package deploy stands up a FundMe ledger on a network: it deploys the mock
// price feed on development chains, restores any persisted ledger and routes
// every call through a value-carrying transaction on the bank.
package deploy

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/rs/zerolog"

	"fundme/internal/chain"
	"fundme/internal/domain"
	"fundme/internal/fundme"
	"fundme/internal/network"
	"fundme/internal/oracle"
)

// Options configures Deploy.
type Options struct {
	Table    *network.Table
	Network  network.Network
	Bank     *chain.Bank
	Deployer domain.Address
	// Repo is consulted for a snapshot to restore. Optional.
	Repo    domain.LedgerRepository
	Journal fundme.Journal
	// Feed is the live price oracle; required outside development chains.
	Feed   oracle.PriceOracle
	Logger zerolog.Logger
}

// Deployment is a deployed ledger bound to its bank.
type Deployment struct {
	network  network.Network
	bank     *chain.Bank
	contract *fundme.Contract
	mock     *oracle.MockAggregator
	feed     oracle.PriceOracle
	restored bool
}

// Deploy deploys the price feed (when needed) and the ledger from
// opts.Deployer. Contract addresses follow the deployer's nonce, so the same
// deployer on a fresh bank always yields the same addresses.
func Deploy(ctx context.Context, opts Options) (*Deployment, error) {
	if opts.Table == nil || opts.Bank == nil {
		return nil, errors.New("deploy: network table and bank are required")
	}
	if opts.Deployer == domain.ZeroAddress {
		return nil, fmt.Errorf("deploy: deployer: %w", domain.ErrInvalidAddress)
	}
	log := opts.Logger.With().Str("network", opts.Network.Name).Uint64("chain_id", opts.Network.ChainID).Logger()

	d := &Deployment{network: opts.Network, bank: opts.Bank}
	var feedAddr domain.Address
	if opts.Table.IsDevelopment(opts.Network.Name) {
		log.Info().Msg("Local network detected! Deploying mocks...")
		answer, err := opts.Table.Mock.Answer()
		if err != nil {
			return nil, err
		}
		feedAddr = opts.Bank.Deploy(opts.Deployer)
		d.mock = oracle.NewMockAggregator(opts.Table.Mock.Decimals, answer)
		d.feed = d.mock
		log.Info().Str("address", feedAddr.Hex()).Uint8("decimals", opts.Table.Mock.Decimals).Str("answer", answer.String()).Msg("Mocks deployed!")
	} else {
		if opts.Feed == nil {
			return nil, fmt.Errorf("deploy: network %s needs a live price feed", opts.Network.Name)
		}
		addr, err := opts.Network.PriceFeedAddress()
		if err != nil {
			return nil, err
		}
		feedAddr = addr
		d.feed = opts.Feed
	}

	log.Info().Msg("Deploying FundMe and waiting for confirmations...")
	contractAddr := opts.Bank.Deploy(opts.Deployer)

	var restore *domain.LedgerSnapshot
	if opts.Repo != nil {
		snap, err := opts.Repo.Load(ctx, contractAddr)
		switch {
		case err == nil:
			restore = snap
		case errors.Is(err, domain.ErrNotFound):
		default:
			return nil, fmt.Errorf("deploy: load snapshot: %w", err)
		}
	}

	contract, err := fundme.Deploy(fundme.Config{
		Address:   contractAddr,
		Owner:     opts.Deployer,
		PriceFeed: feedAddr,
		Oracle:    d.feed,
		Transfer:  opts.Bank.Account(contractAddr),
		Journal:   opts.Journal,
		Restore:   restore,
	})
	if err != nil {
		return nil, err
	}
	d.contract = contract
	d.restored = restore != nil

	ev := log.Info().Str("owner", opts.Deployer.Hex()).Str("price_feed", feedAddr.Hex())
	if restore != nil {
		ev = ev.Int("restored_funders", len(restore.Funders)).Str("restored_held_eth", domain.FormatEther(restore.Held))
	}
	ev.Msgf("Done! At: %s", contractAddr.Hex())
	return d, nil
}

// Contract returns the deployed ledger for reads.
func (d *Deployment) Contract() *fundme.Contract { return d.contract }

// Bank returns the bank the ledger settles on.
func (d *Deployment) Bank() *chain.Bank { return d.bank }

// Network returns the network deployed to.
func (d *Deployment) Network() network.Network { return d.network }

// Mock returns the mock aggregator, or nil on live networks.
func (d *Deployment) Mock() *oracle.MockAggregator { return d.mock }

// Feed returns the price oracle the ledger reads.
func (d *Deployment) Feed() oracle.PriceOracle { return d.feed }

// Restored reports whether the ledger was seeded from a stored snapshot.
func (d *Deployment) Restored() bool { return d.restored }

// Fund sends value from caller to the ledger's fund entry point.
func (d *Deployment) Fund(ctx context.Context, caller domain.Address, value *big.Int) error {
	return d.bank.Transact(ctx, caller, value, func(ctx context.Context) error {
		return d.contract.Fund(ctx, caller, value)
	})
}

// Send transfers value from caller to the ledger without calling Fund.
func (d *Deployment) Send(ctx context.Context, caller domain.Address, value *big.Int) error {
	return d.bank.Transact(ctx, caller, value, func(ctx context.Context) error {
		return d.contract.Receive(ctx, caller, value)
	})
}

// Withdraw calls Withdraw as caller and returns the value swept to the
// owner.
func (d *Deployment) Withdraw(ctx context.Context, caller domain.Address) (*big.Int, error) {
	return d.withdraw(ctx, caller, d.contract.Withdraw)
}

// CheaperWithdraw calls CheaperWithdraw as caller and returns the value swept
// to the owner.
func (d *Deployment) CheaperWithdraw(ctx context.Context, caller domain.Address) (*big.Int, error) {
	return d.withdraw(ctx, caller, d.contract.CheaperWithdraw)
}

// withdraw reads the held value inside the bank transaction, so no other
// transaction can change it before the sweep.
func (d *Deployment) withdraw(ctx context.Context, caller domain.Address, call func(context.Context, domain.Address) error) (*big.Int, error) {
	var swept *big.Int
	err := d.bank.Transact(ctx, caller, nil, func(ctx context.Context) error {
		held := d.contract.Balance(ctx)
		if err := call(ctx, caller); err != nil {
			return err
		}
		swept = held
		return nil
	})
	if err != nil {
		return nil, err
	}
	return swept, nil
}
