package fundme

import (
	"math/big"

	"fundme/internal/domain"
)

// ledger keeps contributor balances and the insertion-ordered funder list in
// sync: an address is in funders iff it has a positive balance entry.
type ledger struct {
	held     *big.Int
	balances map[domain.Address]*big.Int
	funders  []domain.Address
}

func newLedger() ledger {
	return ledger{held: new(big.Int), balances: make(map[domain.Address]*big.Int)}
}

func (l *ledger) credit(addr domain.Address, amount *big.Int) {
	bal, ok := l.balances[addr]
	if !ok {
		bal = new(big.Int)
		l.balances[addr] = bal
		l.funders = append(l.funders, addr)
	}
	bal.Add(bal, amount)
	l.held.Add(l.held, amount)
}

func (l *ledger) balanceOf(addr domain.Address) *big.Int {
	if bal, ok := l.balances[addr]; ok {
		return new(big.Int).Set(bal)
	}
	return new(big.Int)
}

func (l ledger) clone() ledger {
	out := ledger{
		held:     new(big.Int).Set(l.held),
		balances: make(map[domain.Address]*big.Int, len(l.balances)),
	}
	for k, v := range l.balances {
		out.balances[k] = new(big.Int).Set(v)
	}
	if l.funders != nil {
		out.funders = append([]domain.Address(nil), l.funders...)
	}
	return out
}

func (l ledger) snapshot() (funders []domain.Address, balances map[domain.Address]*big.Int, held *big.Int) {
	c := l.clone()
	return c.funders, c.balances, c.held
}

func restoreLedger(held *big.Int, funders []domain.Address, balances map[domain.Address]*big.Int) ledger {
	l := newLedger()
	if held != nil {
		l.held.Set(held)
	}
	for _, f := range funders {
		bal, ok := balances[f]
		if !ok || bal.Sign() <= 0 {
			continue
		}
		if _, dup := l.balances[f]; dup {
			continue
		}
		l.balances[f] = new(big.Int).Set(bal)
		l.funders = append(l.funders, f)
	}
	return l
}
