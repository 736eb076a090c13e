// Package chain simulates the accounts side of a development network: native
// balances, value-carrying transactions, contract deployment addresses and
// recipient receive hooks.
package chain

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/crypto"

	"fundme/internal/domain"
)

// ReceiveHook runs when value is transferred to an address. Returning an error
// rejects the transfer. The context lets the hook call back into contracts.
type ReceiveHook func(ctx context.Context, from domain.Address, amount *big.Int) error

type txKey struct{ b *Bank }

type tx struct {
	from domain.Address
}

// Origin returns the sender of the transaction carried by ctx.
func (b *Bank) Origin(ctx context.Context) (domain.Address, bool) {
	if t := b.current(ctx); t != nil {
		return t.from, true
	}
	return domain.Address{}, false
}

// Bank holds native balances. Transactions are serialised like blocks on a
// single-producer chain; calls made from inside a transaction reuse it.
type Bank struct {
	mu       sync.Mutex
	balances map[domain.Address]*big.Int
	nonces   map[domain.Address]uint64
	hooks    map[domain.Address]ReceiveHook
}

// NewBank returns an empty bank.
func NewBank() *Bank {
	return &Bank{
		balances: make(map[domain.Address]*big.Int),
		nonces:   make(map[domain.Address]uint64),
		hooks:    make(map[domain.Address]ReceiveHook),
	}
}

// SetBalance overwrites the balance of addr.
func (b *Bank) SetBalance(addr domain.Address, amount *big.Int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.balances[addr] = new(big.Int).Set(amount)
}

// BalanceOf returns the balance of addr.
func (b *Bank) BalanceOf(ctx context.Context, addr domain.Address) *big.Int {
	if b.current(ctx) != nil {
		return b.balanceLocked(addr)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.balanceLocked(addr)
}

// OnReceive registers hook for transfers to addr. A nil hook removes it.
func (b *Bank) OnReceive(addr domain.Address, hook ReceiveHook) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if hook == nil {
		delete(b.hooks, addr)
		return
	}
	b.hooks[addr] = hook
}

// Deploy returns the address of a contract created by from and bumps its nonce.
func (b *Bank) Deploy(from domain.Address) domain.Address {
	b.mu.Lock()
	defer b.mu.Unlock()
	nonce := b.nonces[from]
	b.nonces[from] = nonce + 1
	return crypto.CreateAddress(from, nonce)
}

// Transact debits value from the sender, runs call, and undoes every balance
// change made during the transaction when call fails.
func (b *Bank) Transact(ctx context.Context, from domain.Address, value *big.Int, call func(ctx context.Context) error) error {
	if value == nil {
		value = new(big.Int)
	}
	if value.Sign() < 0 {
		return domain.ErrInvalidAmount
	}
	if b.current(ctx) == nil {
		b.mu.Lock()
		defer b.mu.Unlock()
		ctx = context.WithValue(ctx, txKey{b}, &tx{from: from})
	}

	saved := b.snapshotLocked()
	bal := b.balanceLocked(from)
	if bal.Cmp(value) < 0 {
		return fmt.Errorf("%w: %s has %s wei, needs %s", domain.ErrInsufficientBalance, from.Hex(), bal, value)
	}
	b.balances[from] = bal.Sub(bal, value)
	b.nonces[from]++
	if err := call(ctx); err != nil {
		b.balances = saved
		return err
	}
	return nil
}

// Transfer credits amount to the recipient on behalf of from and runs the
// recipient's receive hook. The sender's side is accounted by the caller,
// typically a contract paying out of its own held value. It only works inside a
// transaction.
func (b *Bank) Transfer(ctx context.Context, from, to domain.Address, amount *big.Int) error {
	if b.current(ctx) == nil {
		return fmt.Errorf("chain: transfer outside a transaction")
	}
	if amount == nil || amount.Sign() < 0 {
		return domain.ErrInvalidAmount
	}
	saved := b.snapshotLocked()
	bal := b.balanceLocked(to)
	b.balances[to] = bal.Add(bal, amount)
	if hook := b.hooks[to]; hook != nil {
		if err := hook(ctx, from, new(big.Int).Set(amount)); err != nil {
			b.balances = saved
			return err
		}
	}
	return nil
}

// Account binds a sender address to the bank so a contract can pay out.
type Account struct {
	bank *Bank
	addr domain.Address
}

// Account returns the payer view of addr.
func (b *Bank) Account(addr domain.Address) Account {
	return Account{bank: b, addr: addr}
}

// Address returns the bound address.
func (a Account) Address() domain.Address { return a.addr }

// Transfer pays amount from the bound address to to.
func (a Account) Transfer(ctx context.Context, to domain.Address, amount *big.Int) error {
	return a.bank.Transfer(ctx, a.addr, to, amount)
}

func (b *Bank) current(ctx context.Context) *tx {
	t, _ := ctx.Value(txKey{b}).(*tx)
	return t
}

func (b *Bank) balanceLocked(addr domain.Address) *big.Int {
	if bal, ok := b.balances[addr]; ok {
		return new(big.Int).Set(bal)
	}
	return new(big.Int)
}

func (b *Bank) snapshotLocked() map[domain.Address]*big.Int {
	out := make(map[domain.Address]*big.Int, len(b.balances))
	for k, v := range b.balances {
		out[k] = new(big.Int).Set(v)
	}
	return out
}
