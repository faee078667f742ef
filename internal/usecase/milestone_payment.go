package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/lo"
	"github.com/trebuchet-org/treasury-cli/internal/domain"
	"github.com/trebuchet-org/treasury-cli/internal/domain/models"
)

// CreateMilestonePaymentParams contains parameters for a milestone payment
type CreateMilestonePaymentParams struct {
	Treasury string
	Caller   common.Address
	// ID is assigned automatically when zero
	ID          uint64
	Recipient   common.Address
	Asset       common.Address
	Amount      uint64
	Description string
	Category    string
}

// CreateMilestonePayment registers a one-shot payment unlocked by completion.
// Requires create_streams.
type CreateMilestonePayment struct {
	store TreasuryStore
	clock Clock
	log   *slog.Logger
}

// NewCreateMilestonePayment creates a new CreateMilestonePayment use case
func NewCreateMilestonePayment(store TreasuryStore, clock Clock, log *slog.Logger) *CreateMilestonePayment {
	return &CreateMilestonePayment{store: store, clock: clock, log: log.With("component", "CreateMilestonePayment")}
}

// Run validates and stores the milestone
func (uc *CreateMilestonePayment) Run(ctx context.Context, params CreateMilestonePaymentParams) (*models.MilestonePayment, error) {
	var milestone *models.MilestonePayment

	err := uc.store.Atomic(ctx, func(tx StoreTx) error {
		treasury, err := loadTreasury(tx, params.Treasury)
		if err != nil {
			return err
		}
		if _, err := authorize(tx, treasury, params.Caller, models.CapCreateStreams, models.ScopeRole); err != nil {
			return err
		}

		id := params.ID
		if id == 0 {
			existing, err := tx.ListMilestones(treasury.Address, domain.ScheduleFilter{IncludeInactive: true})
			if err != nil {
				return err
			}
			id = nextID(existing, func(m *models.MilestonePayment) uint64 { return m.ID })
		}

		milestone = &models.MilestonePayment{
			Treasury:    treasury.Address,
			ID:          id,
			Recipient:   params.Recipient,
			Asset:       params.Asset,
			Amount:      params.Amount,
			Description: params.Description,
			CreatedAt:   uc.clock.Now(),
			Category:    params.Category,
			Creator:     params.Caller,
		}
		if err := milestone.Validate(); err != nil {
			return err
		}
		if err := tx.CreateMilestone(milestone); err != nil {
			return fmt.Errorf("failed to create milestone %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info("milestone payment created",
		"treasury", params.Treasury,
		"caller", params.Caller.Hex(),
		"id", milestone.ID,
		"recipient", params.Recipient.Hex(),
		"amount", params.Amount,
	)
	return milestone, nil
}

// CompleteMilestoneParams identifies the milestone to complete
type CompleteMilestoneParams struct {
	Treasury string
	Caller   common.Address
	ID       uint64
}

// MilestonePaymentResult reports a completed milestone
type MilestonePaymentResult struct {
	PayoutResult
	Milestone *models.MilestonePayment
}

// CompleteMilestone marks a milestone complete and pays it, exactly once
type CompleteMilestone struct {
	store TreasuryStore
	clock Clock
	disburser
}

// NewCompleteMilestone creates a new CompleteMilestone use case
func NewCompleteMilestone(store TreasuryStore, transfers TransferService, clock Clock, log *slog.Logger) *CompleteMilestone {
	return &CompleteMilestone{
		store:     store,
		clock:     clock,
		disburser: disburser{transfers: transfers, log: log.With("component", "CompleteMilestone")},
	}
}

// Run pays the milestone and records its completion
func (uc *CompleteMilestone) Run(ctx context.Context, params CompleteMilestoneParams) (*MilestonePaymentResult, error) {
	var result *MilestonePaymentResult

	err := uc.store.Atomic(ctx, func(tx StoreTx) error {
		treasury, err := loadTreasury(tx, params.Treasury)
		if err != nil {
			return err
		}
		milestone, err := tx.GetMilestone(treasury.Address, params.ID)
		if err != nil {
			return err
		}

		p := &payout{
			treasury: treasury,
			caller:   params.Caller,
			asset:    milestone.Asset,
			now:      uc.clock.Now(),
		}
		receipt, err := uc.pay(ctx, tx, p, dueGuard(milestone))
		if err != nil {
			return err
		}
		if err := milestone.Advance(p.now); err != nil {
			return err
		}
		if err := tx.SaveMilestone(milestone); err != nil {
			return fmt.Errorf("failed to save milestone: %w", err)
		}

		result = &MilestonePaymentResult{
			PayoutResult: PayoutResult{Treasury: treasury, Role: p.role, Amount: milestone.Amount, Receipt: receipt},
			Milestone:    milestone,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// nextID returns one more than the highest id in records
func nextID[T any](records []T, id func(T) uint64) uint64 {
	return lo.Max(lo.Map(records, func(r T, _ int) uint64 { return id(r) })) + 1
}
