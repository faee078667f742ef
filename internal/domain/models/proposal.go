package models

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/lo"
	"github.com/trebuchet-org/treasury-cli/internal/domain"
)

// ProposalStatus represents the lifecycle state of a spending proposal
type ProposalStatus string

const (
	ProposalStatusDraft    ProposalStatus = "draft"
	ProposalStatusOpen     ProposalStatus = "open"
	ProposalStatusApproved ProposalStatus = "approved"
	ProposalStatusRejected ProposalStatus = "rejected"
	ProposalStatusExecuted ProposalStatus = "executed"
)

// MaxTitleLength bounds proposal titles
const MaxTitleLength = 100

// Proposal is a discretionary spend awaiting co-signer approval
type Proposal struct {
	// Identification
	Treasury common.Address `json:"treasury" yaml:"treasury"`
	ID       uint64         `json:"id" yaml:"id"`
	Proposer common.Address `json:"proposer" yaml:"proposer"`

	// Content
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`

	// Payout, fixed at creation
	Amount    uint64         `json:"amount" yaml:"amount"`
	Asset     common.Address `json:"asset" yaml:"asset"`
	Recipient common.Address `json:"recipient" yaml:"recipient"`

	// Tally
	VotesFor     uint32           `json:"votesFor" yaml:"votesFor"`
	VotesAgainst uint32           `json:"votesAgainst" yaml:"votesAgainst"`
	Voters       []common.Address `json:"voters" yaml:"voters"`

	Status     ProposalStatus `json:"status" yaml:"status"`
	CreatedAt  time.Time      `json:"createdAt" yaml:"createdAt"`
	ExecutedAt *time.Time     `json:"executedAt,omitempty" yaml:"executedAt,omitempty"`
}

// Address is the record address of the proposal
func (p *Proposal) Address() common.Address {
	return domain.IDRecordAddress(domain.SeedProposal, p.Treasury, p.ID)
}

// Validate checks the creation invariants of the proposal
func (p *Proposal) Validate() error {
	if err := ValidateAmount(p.Amount); err != nil {
		return err
	}
	if p.Title == "" || len(p.Title) > MaxTitleLength {
		return fmt.Errorf("%w: title must be 1-%d bytes", domain.ErrInvalidText, MaxTitleLength)
	}
	if len(p.Description) > MaxDescriptionLength {
		return fmt.Errorf("%w: description longer than %d bytes", domain.ErrInvalidText, MaxDescriptionLength)
	}
	return nil
}

// HasVoted reports whether voter already cast a vote
func (p *Proposal) HasVoted(voter common.Address) bool {
	return lo.Contains(p.Voters, voter)
}

// CastVote records a vote and settles the status. The proposal is approved once
// votes for reach threshold and rejected once votes against exceed
// signerCount - threshold, the point where approval is no longer reachable.
func (p *Proposal) CastVote(voter common.Address, support bool, threshold uint8, signerCount int) error {
	if p.Status != ProposalStatusOpen {
		return fmt.Errorf("%w: status is %s", domain.ErrProposalNotOpen, p.Status)
	}
	if p.HasVoted(voter) {
		return domain.ErrUserAlreadyVoted
	}

	p.Voters = append(p.Voters, voter)
	if support {
		p.VotesFor++
	} else {
		p.VotesAgainst++
	}

	switch {
	case p.VotesFor >= uint32(threshold):
		p.Status = ProposalStatusApproved
	case int(p.VotesAgainst) > signerCount-int(threshold):
		p.Status = ProposalStatusRejected
	}
	return nil
}

// CheckExecutable fails unless the proposal is approved and not yet executed
func (p *Proposal) CheckExecutable() error {
	switch p.Status {
	case ProposalStatusApproved:
		return nil
	case ProposalStatusExecuted:
		return domain.ErrProposalAlreadyExecuted
	default:
		return fmt.Errorf("%w: status is %s", domain.ErrProposalNotApproved, p.Status)
	}
}

// MarkExecuted moves an approved proposal to its terminal state
func (p *Proposal) MarkExecuted(now time.Time) error {
	if err := p.CheckExecutable(); err != nil {
		return err
	}
	p.Status = ProposalStatusExecuted
	p.ExecutedAt = &now
	return nil
}
