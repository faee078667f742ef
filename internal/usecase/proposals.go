package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/treasury-cli/internal/domain"
	"github.com/trebuchet-org/treasury-cli/internal/domain/models"
)

// CreateProposalParams contains parameters for proposing a spend
type CreateProposalParams struct {
	Treasury string
	Caller   common.Address
	// ID is assigned automatically when zero
	ID          uint64
	Title       string
	Description string
	Amount      uint64
	Asset       common.Address
	Recipient   common.Address
}

// CreateProposal opens a proposal for voting. Requires propose.
type CreateProposal struct {
	store TreasuryStore
	clock Clock
	log   *slog.Logger
}

// NewCreateProposal creates a new CreateProposal use case
func NewCreateProposal(store TreasuryStore, clock Clock, log *slog.Logger) *CreateProposal {
	return &CreateProposal{store: store, clock: clock, log: log.With("component", "CreateProposal")}
}

// Run stores the proposal with status open and an empty tally
func (uc *CreateProposal) Run(ctx context.Context, params CreateProposalParams) (*models.Proposal, error) {
	var proposal *models.Proposal

	err := uc.store.Atomic(ctx, func(tx StoreTx) error {
		treasury, err := loadTreasury(tx, params.Treasury)
		if err != nil {
			return err
		}
		if _, err := authorize(tx, treasury, params.Caller, models.CapPropose, models.ScopeRole); err != nil {
			return err
		}

		id := params.ID
		if id == 0 {
			existing, err := tx.ListProposals(treasury.Address, domain.ProposalFilter{})
			if err != nil {
				return err
			}
			id = nextID(existing, func(p *models.Proposal) uint64 { return p.ID })
		}

		proposal = &models.Proposal{
			Treasury:    treasury.Address,
			ID:          id,
			Proposer:    params.Caller,
			Title:       params.Title,
			Description: params.Description,
			Amount:      params.Amount,
			Asset:       params.Asset,
			Recipient:   params.Recipient,
			Voters:      []common.Address{},
			Status:      models.ProposalStatusOpen,
			CreatedAt:   uc.clock.Now(),
		}
		if err := proposal.Validate(); err != nil {
			return err
		}
		if err := tx.CreateProposal(proposal); err != nil {
			return fmt.Errorf("failed to create proposal %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info("proposal created",
		"treasury", params.Treasury,
		"caller", params.Caller.Hex(),
		"id", proposal.ID,
		"amount", proposal.Amount,
		"recipient", proposal.Recipient.Hex(),
	)
	return proposal, nil
}

// VoteOnProposalParams contains parameters for casting a vote
type VoteOnProposalParams struct {
	Treasury string
	Caller   common.Address
	ID       uint64
	Support  bool
}

// VoteOnProposal casts one vote per voter and settles the proposal status.
// Requires vote and signer membership. Voting is not affected by pause.
type VoteOnProposal struct {
	store TreasuryStore
	log   *slog.Logger
}

// NewVoteOnProposal creates a new VoteOnProposal use case
func NewVoteOnProposal(store TreasuryStore, log *slog.Logger) *VoteOnProposal {
	return &VoteOnProposal{store: store, log: log.With("component", "VoteOnProposal")}
}

// Run records the vote
func (uc *VoteOnProposal) Run(ctx context.Context, params VoteOnProposalParams) (*models.Proposal, error) {
	var proposal *models.Proposal

	err := uc.store.Atomic(ctx, func(tx StoreTx) error {
		treasury, err := loadTreasury(tx, params.Treasury)
		if err != nil {
			return err
		}
		if _, err := authorize(tx, treasury, params.Caller, models.CapVote, models.ScopeRole); err != nil {
			return err
		}
		if !treasury.IsSigner(params.Caller) {
			return fmt.Errorf("%w: %s is not a signer", domain.ErrInsufficientPermissions, params.Caller.Hex())
		}
		proposal, err = tx.GetProposal(treasury.Address, params.ID)
		if err != nil {
			return err
		}
		if err := proposal.CastVote(params.Caller, params.Support, treasury.Threshold, len(treasury.Signers)); err != nil {
			return err
		}
		return tx.SaveProposal(proposal)
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info("vote recorded",
		"treasury", params.Treasury,
		"caller", params.Caller.Hex(),
		"id", params.ID,
		"support", params.Support,
		"status", proposal.Status,
	)
	return proposal, nil
}

// ExecuteProposalParams identifies the proposal to execute
type ExecuteProposalParams struct {
	Treasury string
	Caller   common.Address
	ID       uint64
}

// ProposalExecutionResult reports an executed proposal
type ProposalExecutionResult struct {
	PayoutResult
	Proposal *models.Proposal
}

// ExecuteProposal pays out an approved proposal through the payout guards
type ExecuteProposal struct {
	store TreasuryStore
	clock Clock
	disburser
}

// NewExecuteProposal creates a new ExecuteProposal use case
func NewExecuteProposal(store TreasuryStore, transfers TransferService, clock Clock, log *slog.Logger) *ExecuteProposal {
	return &ExecuteProposal{
		store:     store,
		clock:     clock,
		disburser: disburser{transfers: transfers, log: log.With("component", "ExecuteProposal")},
	}
}

// Run pays the proposal amount and marks it executed
func (uc *ExecuteProposal) Run(ctx context.Context, params ExecuteProposalParams) (*ProposalExecutionResult, error) {
	var result *ProposalExecutionResult

	err := uc.store.Atomic(ctx, func(tx StoreTx) error {
		treasury, err := loadTreasury(tx, params.Treasury)
		if err != nil {
			return err
		}
		proposal, err := tx.GetProposal(treasury.Address, params.ID)
		if err != nil {
			return err
		}

		p := &payout{
			treasury: treasury,
			caller:   params.Caller,
			asset:    proposal.Asset,
			now:      uc.clock.Now(),
		}
		approved := func(_ StoreTx, p *payout) error {
			if err := proposal.CheckExecutable(); err != nil {
				return err
			}
			p.legs = []models.Transfer{{To: proposal.Recipient, Amount: proposal.Amount}}
			return nil
		}
		receipt, err := uc.pay(ctx, tx, p, approved)
		if err != nil {
			return err
		}
		if err := proposal.MarkExecuted(p.now); err != nil {
			return err
		}
		if err := tx.SaveProposal(proposal); err != nil {
			return fmt.Errorf("failed to save proposal: %w", err)
		}

		result = &ProposalExecutionResult{
			PayoutResult: PayoutResult{Treasury: treasury, Role: p.role, Amount: proposal.Amount, Receipt: receipt},
			Proposal:     proposal,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ListProposalsParams contains parameters for listing proposals
type ListProposalsParams struct {
	Treasury string
	Caller   common.Address
	Filter   domain.ProposalFilter
}

// ListProposals lists proposals of a treasury. Requires the authority or view_treasury.
type ListProposals struct {
	store TreasuryStore
}

// NewListProposals creates a new ListProposals use case
func NewListProposals(store TreasuryStore) *ListProposals {
	return &ListProposals{store: store}
}

// Run lists the proposals matching the filter
func (uc *ListProposals) Run(ctx context.Context, params ListProposalsParams) ([]*models.Proposal, error) {
	var proposals []*models.Proposal

	err := uc.store.Atomic(ctx, func(tx StoreTx) error {
		treasury, err := loadTreasury(tx, params.Treasury)
		if err != nil {
			return err
		}
		if _, err := authorize(tx, treasury, params.Caller, models.CapViewTreasury, models.ScopeConfig); err != nil {
			return err
		}
		proposals, err = tx.ListProposals(treasury.Address, params.Filter)
		return err
	})
	if err != nil {
		return nil, err
	}
	return proposals, nil
}
