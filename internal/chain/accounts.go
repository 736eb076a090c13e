package chain

import (
	"crypto/ecdsa"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/crypto"

	"fundme/internal/domain"
)

// DevAccountCount matches the signer set of a local development node.
const DevAccountCount = 20

// DevAccountBalance is the starting balance of every development account.
var DevAccountBalance = domain.Ether(10000)

// DevAccount is a deterministic development signer.
type DevAccount struct {
	Index   int
	Address domain.Address
	Key     *ecdsa.PrivateKey
}

// DevAccounts derives n deterministic accounts. The same seed always yields the
// same addresses so persisted ledgers survive restarts.
func DevAccounts(seed string, n int) ([]DevAccount, error) {
	out := make([]DevAccount, 0, n)
	for i := 0; i < n; i++ {
		key, err := crypto.ToECDSA(crypto.Keccak256([]byte(fmt.Sprintf("%s/%d", seed, i))))
		if err != nil {
			return nil, fmt.Errorf("chain: derive account %d: %w", i, err)
		}
		out = append(out, DevAccount{Index: i, Address: crypto.PubkeyToAddress(key.PublicKey), Key: key})
	}
	return out, nil
}

// Fund sets every account's balance to amount.
func (b *Bank) Fund(accounts []DevAccount, amount *big.Int) {
	for _, a := range accounts {
		b.SetBalance(a.Address, amount)
	}
}

// NewDevBank returns a bank holding DevAccountCount accounts derived from seed,
// each with DevAccountBalance.
func NewDevBank(seed string) (*Bank, []DevAccount, error) {
	accounts, err := DevAccounts(seed, DevAccountCount)
	if err != nil {
		return nil, nil, err
	}
	b := NewBank()
	b.Fund(accounts, DevAccountBalance)
	return b, accounts, nil
}
