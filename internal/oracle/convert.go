package oracle

import (
	"math/big"
)

// Scale is the fixed-point precision used for USD amounts (same as wei).
const Scale = 18

var scaleFactor = pow10(Scale)

// MinimumUSD is the smallest accepted contribution: 50 USD at 18 decimals.
var MinimumUSD = new(big.Int).Mul(big.NewInt(50), scaleFactor)

func pow10(n int) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
}

// Normalize returns the price scaled to 18 decimals.
func (p Price) Normalize() *big.Int {
	if p.Answer == nil {
		return new(big.Int)
	}
	out := new(big.Int).Set(p.Answer)
	switch d := int(p.Decimals); {
	case d < Scale:
		out.Mul(out, pow10(Scale-d))
	case d > Scale:
		out.Quo(out, pow10(d-Scale))
	}
	return out
}

// ConversionRate converts a wei amount to USD at 18 decimals, truncating.
func ConversionRate(weiAmount *big.Int, p Price) *big.Int {
	if weiAmount == nil {
		return new(big.Int)
	}
	usd := new(big.Int).Mul(p.Normalize(), weiAmount)
	return usd.Quo(usd, scaleFactor)
}

// MinimumWei returns the smallest wei amount whose converted value reaches
// minUSD. It returns nil when the price is zero and no amount can qualify.
func MinimumWei(minUSD *big.Int, p Price) *big.Int {
	price := p.Normalize()
	if price.Sign() <= 0 {
		return nil
	}
	num := new(big.Int).Mul(minUSD, scaleFactor)
	q, r := new(big.Int).QuoRem(num, price, new(big.Int))
	if r.Sign() != 0 {
		q.Add(q, big.NewInt(1))
	}
	return q
}
