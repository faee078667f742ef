package usecase

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/treasury-cli/internal/domain"
	"github.com/trebuchet-org/treasury-cli/internal/domain/models"
)

// TreasuryStore runs a unit of work against the record store. Every read and
// write made through tx is committed together when fn returns nil and
// discarded otherwise.
type TreasuryStore interface {
	Atomic(ctx context.Context, fn func(tx StoreTx) error) error
}

// StoreTx is the record view available inside one atomic unit.
// Get methods return an error wrapping domain.ErrNotFound for missing records;
// Create methods fail with domain.ErrAlreadyExists when the derived address is taken.
type StoreTx interface {
	GetTreasury(name string) (*models.Treasury, error)
	CreateTreasury(treasury *models.Treasury) error
	SaveTreasury(treasury *models.Treasury) error

	GetRole(treasury, user common.Address) (*models.Role, error)
	CreateRole(role *models.Role) error
	SaveRole(role *models.Role) error
	DeleteRole(treasury, user common.Address) error
	ListRoles(treasury common.Address) ([]*models.Role, error)

	GetWhitelisted(treasury, recipient common.Address) (*models.WhitelistedRecipient, error)
	CreateWhitelisted(entry *models.WhitelistedRecipient) error
	DeleteWhitelisted(treasury, recipient common.Address) error
	ListWhitelist(treasury common.Address) ([]*models.WhitelistedRecipient, error)

	GetStream(treasury, recipient common.Address) (*models.PaymentStream, error)
	CreateStream(stream *models.PaymentStream) error
	SaveStream(stream *models.PaymentStream) error
	ListStreams(treasury common.Address, filter domain.ScheduleFilter) ([]*models.PaymentStream, error)

	GetRecurring(treasury, recipient common.Address) (*models.RecurringPayment, error)
	CreateRecurring(payment *models.RecurringPayment) error
	SaveRecurring(payment *models.RecurringPayment) error
	ListRecurring(treasury common.Address, filter domain.ScheduleFilter) ([]*models.RecurringPayment, error)

	GetMilestone(treasury common.Address, id uint64) (*models.MilestonePayment, error)
	CreateMilestone(milestone *models.MilestonePayment) error
	SaveMilestone(milestone *models.MilestonePayment) error
	ListMilestones(treasury common.Address, filter domain.ScheduleFilter) ([]*models.MilestonePayment, error)

	GetProposal(treasury common.Address, id uint64) (*models.Proposal, error)
	CreateProposal(proposal *models.Proposal) error
	SaveProposal(proposal *models.Proposal) error
	ListProposals(treasury common.Address, filter domain.ProposalFilter) ([]*models.Proposal, error)
}

// TransferService moves value between holdings. All legs of one call are
// applied together or not at all.
type TransferService interface {
	Transfer(ctx context.Context, legs ...models.Transfer) (*models.Receipt, error)
	Balance(ctx context.Context, owner, asset common.Address) (uint64, error)
}

// UnstakeResult reports what the yield service returned to the vault
type UnstakeResult struct {
	Principal uint64
	Reward    uint64
	Receipt   *models.Receipt
}

// YieldService delegates treasury funds to an external yield source
type YieldService interface {
	// StakeLeg is the transfer Stake would apply, for callers that must
	// commit it together with other legs
	StakeLeg(treasury *models.Treasury, amount uint64) models.Transfer
	Stake(ctx context.Context, treasury *models.Treasury, amount uint64) (*models.Receipt, error)
	Unstake(ctx context.Context, treasury *models.Treasury, amount uint64) (*UnstakeResult, error)
}

// Clock supplies the time at which lazy resets and due dates are evaluated
type Clock interface {
	Now() time.Time
}

// Confirmer asks the operator to confirm an action
type Confirmer interface {
	Confirm(prompt string) (bool, error)
}

// ProposalSelector lets the operator pick a proposal when none was named
type ProposalSelector interface {
	SelectProposal(ctx context.Context, proposals []*models.Proposal, prompt string) (*models.Proposal, error)
}

// Progress tracking interfaces

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage   string
	Message string
	Spinner bool
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
}

// NopProgress is a no-op implementation of ProgressSink
type NopProgress struct{}

func (NopProgress) OnProgress(context.Context, ProgressEvent) {}
func (NopProgress) Info(string)                               {}
