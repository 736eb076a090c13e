// Package oracle defines the read-only price feed the ledger consults and the
// implementations used for development chains and live networks.
package oracle

import (
	"context"
	"errors"
	"math/big"
	"time"
)

// ErrInvalidPrice is returned when a feed reports a negative answer or an
// unusable decimal scale.
var ErrInvalidPrice = errors.New("oracle: invalid price")

// Price is a fixed-point quote: the real price is Answer / 10^Decimals.
type Price struct {
	Answer    *big.Int
	Decimals  uint8
	RoundID   uint64
	UpdatedAt time.Time
}

// PriceOracle reports the current ETH/USD price. Every call re-reads the feed.
type PriceOracle interface {
	LatestPrice(ctx context.Context) (Price, error)
}

// Validate checks that the price can be used for conversion.
func (p Price) Validate() error {
	if p.Answer == nil || p.Answer.Sign() < 0 {
		return ErrInvalidPrice
	}
	if p.Decimals > 77 {
		return ErrInvalidPrice
	}
	return nil
}
