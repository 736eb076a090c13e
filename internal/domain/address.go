package domain

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Address identifies a contributor, the owner or a deployed entity. Equality is
// exact byte equality; no checksum or case normalisation is applied to keys.
type Address = common.Address

// ZeroAddress is the empty identity.
var ZeroAddress = Address{}

// ParseAddress parses a 0x-prefixed (or bare) 20-byte hex address.
func ParseAddress(s string) (Address, error) {
	s = strings.TrimSpace(s)
	if !common.IsHexAddress(s) {
		return Address{}, ErrInvalidAddress
	}
	return common.HexToAddress(s), nil
}
