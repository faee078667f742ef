package usecase

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/treasury-cli/internal/domain"
	"github.com/trebuchet-org/treasury-cli/internal/domain/models"
)

// ListSchedulesParams contains parameters for listing disbursement schedules
type ListSchedulesParams struct {
	Treasury string
	Caller   common.Address
	// Kinds restricts the listing; empty lists every kind
	Kinds  []models.ScheduleKind
	Filter domain.ScheduleFilter
}

// ScheduleEntry is a schedule with the amount payable right now
type ScheduleEntry struct {
	Schedule models.Disbursement
	DueNow   uint64
}

// ListSchedulesResult groups schedules by kind
type ListSchedulesResult struct {
	Streams    []*models.PaymentStream
	Recurring  []*models.RecurringPayment
	Milestones []*models.MilestonePayment
	// Entries holds every listed schedule with its current due amount
	Entries []ScheduleEntry
}

// ListSchedules lists streams, recurring and milestone payments. Requires the
// authority or view_treasury.
type ListSchedules struct {
	store TreasuryStore
	clock Clock
}

// NewListSchedules creates a new ListSchedules use case
func NewListSchedules(store TreasuryStore, clock Clock) *ListSchedules {
	return &ListSchedules{store: store, clock: clock}
}

// Run lists the schedules and evaluates what each owes now
func (uc *ListSchedules) Run(ctx context.Context, params ListSchedulesParams) (*ListSchedulesResult, error) {
	result := &ListSchedulesResult{}
	wants := func(kind models.ScheduleKind) bool {
		if len(params.Kinds) == 0 {
			return true
		}
		for _, k := range params.Kinds {
			if k == kind {
				return true
			}
		}
		return false
	}

	err := uc.store.Atomic(ctx, func(tx StoreTx) error {
		treasury, err := loadTreasury(tx, params.Treasury)
		if err != nil {
			return err
		}
		if _, err := authorize(tx, treasury, params.Caller, models.CapViewTreasury, models.ScopeConfig); err != nil {
			return err
		}

		if wants(models.ScheduleStream) {
			if result.Streams, err = tx.ListStreams(treasury.Address, params.Filter); err != nil {
				return err
			}
		}
		if wants(models.ScheduleRecurring) {
			if result.Recurring, err = tx.ListRecurring(treasury.Address, params.Filter); err != nil {
				return err
			}
		}
		if wants(models.ScheduleMilestone) {
			if result.Milestones, err = tx.ListMilestones(treasury.Address, params.Filter); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	add := func(d models.Disbursement) {
		// Inactive and completed schedules owe nothing
		due, err := d.DueAmount(now)
		if err != nil {
			due = 0
		}
		result.Entries = append(result.Entries, ScheduleEntry{Schedule: d, DueNow: due})
	}
	for _, s := range result.Streams {
		add(s)
	}
	for _, r := range result.Recurring {
		add(r)
	}
	for _, m := range result.Milestones {
		add(m)
	}
	return result, nil
}
