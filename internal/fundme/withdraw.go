package fundme

import (
	"context"
	"fmt"
	"math/big"

	"fundme/internal/domain"
)

// Withdraw sends the entire held value to the owner after clearing every
// contributor balance and the funder list. Only the owner may call it. A
// rejected transfer fails with domain.ErrTransferFailed and leaves the ledger
// as it was.
func (c *Contract) Withdraw(ctx context.Context, caller domain.Address) error {
	return c.run(ctx, func(ctx context.Context, f *frame) error {
		if caller != c.owner {
			return domain.ErrUnauthorized
		}
		for i := 0; i < len(c.state.funders); i++ {
			delete(c.state.balances, c.state.funders[i])
		}
		c.state.funders = nil
		return c.sweep(ctx, f)
	})
}

// CheaperWithdraw behaves exactly like Withdraw but walks a local copy of the
// funder list instead of re-reading the ledger on every iteration.
func (c *Contract) CheaperWithdraw(ctx context.Context, caller domain.Address) error {
	return c.run(ctx, func(ctx context.Context, f *frame) error {
		if caller != c.owner {
			return domain.ErrUnauthorized
		}
		funders := c.state.funders
		balances := c.state.balances
		for _, funder := range funders {
			delete(balances, funder)
		}
		c.state.funders = nil
		return c.sweep(ctx, f)
	})
}

// sweep zeroes the held value and transfers it to the owner. It must run after
// every other state change of the withdrawal.
func (c *Contract) sweep(ctx context.Context, f *frame) error {
	amount := new(big.Int).Set(c.state.held)
	c.state.held.SetInt64(0)
	f.events = append(f.events, c.event(domain.EventWithdrawn, c.owner, amount))
	if err := c.transfer.Transfer(ctx, c.owner, amount); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrTransferFailed, err)
	}
	return nil
}
