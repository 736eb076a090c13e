package domain

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/shopspring/decimal"
)

// EtherDecimals is the number of wei decimals in one ether.
const EtherDecimals = 18

// maxWeiDigits is the number of decimal digits of 2^256-1. Amounts are
// bounded by uint256 like on-chain values.
const maxWeiDigits = 78

// WeiPerEther is 10^18.
var WeiPerEther = new(big.Int).Exp(big.NewInt(10), big.NewInt(EtherDecimals), nil)

// Ether returns n ether expressed in wei.
func Ether(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), WeiPerEther)
}

// FormatEther renders a wei amount as a decimal ether string.
func FormatEther(wei *big.Int) string {
	if wei == nil {
		return "0"
	}
	return decimal.NewFromBigInt(wei, -EtherDecimals).String()
}

// ParseWei parses a non-negative base-10 wei amount.
func ParseWei(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, ErrInvalidAmount
	}
	if len(s) > maxWeiDigits {
		return nil, fmt.Errorf("%w: exceeds uint256", ErrInvalidAmount)
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok || v.Sign() < 0 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if v.Cmp(math.MaxBig256) > 0 {
		return nil, fmt.Errorf("%w: exceeds uint256", ErrInvalidAmount)
	}
	return v, nil
}

// ParseEther parses a decimal ether amount such as "0.025" into wei. Amounts
// with more precision than one wei are rejected.
func ParseEther(s string) (*big.Int, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	// Exponent notation can describe numbers far larger or finer than any
	// wei amount; bound both ends before anything is rescaled.
	exp := int64(d.Exponent())
	if exp < -maxWeiDigits || int64(d.NumDigits())+exp+EtherDecimals > maxWeiDigits {
		return nil, fmt.Errorf("%w: %q out of range", ErrInvalidAmount, s)
	}
	wei := d.Shift(EtherDecimals)
	if wei.Sign() < 0 || !wei.Equal(wei.Truncate(0)) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	v := wei.BigInt()
	if v.Cmp(math.MaxBig256) > 0 {
		return nil, fmt.Errorf("%w: exceeds uint256", ErrInvalidAmount)
	}
	return v, nil
}
