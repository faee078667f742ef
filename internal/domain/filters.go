package domain

import "github.com/ethereum/go-ethereum/common"

// ProposalFilter defines filtering options for proposals
type ProposalFilter struct {
	// Status matches the proposal status string (e.g. "open"); empty matches all
	Status   string
	Proposer common.Address
}

// ScheduleFilter defines filtering options for streams, recurring and milestone payments
type ScheduleFilter struct {
	Recipient       common.Address
	IncludeInactive bool
}
