package models

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Transfer is one leg of a value movement between two holdings
type Transfer struct {
	From      common.Address `json:"from" yaml:"from"`
	To        common.Address `json:"to" yaml:"to"`
	Authority common.Address `json:"authority" yaml:"authority"`
	Asset     common.Address `json:"asset" yaml:"asset"`
	Amount    uint64         `json:"amount" yaml:"amount"`
}

// Receipt acknowledges a set of legs applied together
type Receipt struct {
	ID        string     `json:"id" yaml:"id"`
	Legs      []Transfer `json:"legs" yaml:"legs"`
	AppliedAt time.Time  `json:"appliedAt" yaml:"appliedAt"`
}

// Holding is the balance of one asset at one address
type Holding struct {
	Owner   common.Address `json:"owner" yaml:"owner"`
	Asset   common.Address `json:"asset" yaml:"asset"`
	Balance uint64         `json:"balance" yaml:"balance"`
}
