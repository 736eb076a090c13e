package domain

import (
	"math/big"
	"time"
)

// LedgerSnapshot is the persisted state of one deployed FundMe ledger.
type LedgerSnapshot struct {
	Contract  Address
	Owner     Address
	PriceFeed Address
	Held      *big.Int
	Funders   []Address
	Balances  map[Address]*big.Int
	UpdatedAt time.Time
}

// Total returns the sum of all recorded contributor balances.
func (s LedgerSnapshot) Total() *big.Int {
	total := new(big.Int)
	for _, v := range s.Balances {
		total.Add(total, v)
	}
	return total
}

// EventKind enumerates ledger event types.
type EventKind string

const (
	EventFunded    EventKind = "funded"
	EventReceived  EventKind = "received"
	EventWithdrawn EventKind = "withdrawn"
)

// LedgerEvent records a successful state transition.
type LedgerEvent struct {
	ID        string
	Contract  Address
	Kind      EventKind
	Address   Address
	Amount    *big.Int
	CreatedAt time.Time
}
