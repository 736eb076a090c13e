package fundme

import (
	"context"
	"fmt"
	"math/big"

	"fundme/internal/domain"
	"fundme/internal/oracle"
)

// Fund records amount, attached by caller, as a contribution. The amount
// converted to USD through the oracle must reach the minimum, otherwise the
// call fails with domain.ErrInsufficientContribution and changes nothing.
func (c *Contract) Fund(ctx context.Context, caller domain.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return domain.ErrInvalidAmount
	}
	return c.run(ctx, func(ctx context.Context, f *frame) error {
		price, err := c.oracle.LatestPrice(ctx)
		if err != nil {
			return fmt.Errorf("fundme: read price: %w", err)
		}
		if err := price.Validate(); err != nil {
			return fmt.Errorf("fundme: read price: %w", err)
		}
		if oracle.ConversionRate(amount, price).Cmp(c.minimumUSD) < 0 {
			return domain.ErrInsufficientContribution
		}
		c.state.credit(caller, amount)
		f.events = append(f.events, c.event(domain.EventFunded, caller, amount))
		return nil
	})
}

// Receive accepts value sent without calling Fund. It is held and swept on
// withdrawal but never recorded against the sender.
func (c *Contract) Receive(ctx context.Context, from domain.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return domain.ErrInvalidAmount
	}
	return c.run(ctx, func(ctx context.Context, f *frame) error {
		c.state.held.Add(c.state.held, amount)
		f.events = append(f.events, c.event(domain.EventReceived, from, amount))
		return nil
	})
}

// MinimumContribution returns the smallest wei amount Fund currently accepts,
// or nil when the oracle price is zero.
func (c *Contract) MinimumContribution(ctx context.Context) (*big.Int, oracle.Price, error) {
	price, err := c.oracle.LatestPrice(ctx)
	if err != nil {
		return nil, oracle.Price{}, fmt.Errorf("fundme: read price: %w", err)
	}
	if err := price.Validate(); err != nil {
		return nil, oracle.Price{}, fmt.Errorf("fundme: read price: %w", err)
	}
	return oracle.MinimumWei(c.minimumUSD, price), price, nil
}
