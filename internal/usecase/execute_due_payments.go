package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/treasury-cli/internal/domain"
	"github.com/trebuchet-org/treasury-cli/internal/domain/models"
)

// Due-payment sweep stages
const (
	StageScanning = "scanning"
	StagePaying   = "paying"
	StagePaid     = "paid"
	StageFailed   = "failed"
)

// ExecuteDuePaymentsParams contains parameters for a due-payment sweep
type ExecuteDuePaymentsParams struct {
	Treasury string
	Caller   common.Address
}

// DuePaymentOutcome is the result of one schedule in a sweep. Exactly one of
// Amount or Err is meaningful.
type DuePaymentOutcome struct {
	Kind      models.ScheduleKind
	Recipient common.Address
	Amount    uint64
	Receipt   *models.Receipt
	Err       error
}

// ExecuteDuePaymentsResult summarizes a sweep
type ExecuteDuePaymentsResult struct {
	Outcomes  []DuePaymentOutcome
	TotalPaid uint64
}

// Failed returns the outcomes that did not pay
func (r *ExecuteDuePaymentsResult) Failed() []DuePaymentOutcome {
	var out []DuePaymentOutcome
	for _, o := range r.Outcomes {
		if o.Err != nil {
			out = append(out, o)
		}
	}
	return out
}

// ExecuteDuePayments pays every active stream and recurring payment that has
// something due. Each schedule is paid in its own unit through the regular
// execute use cases, so one failure does not roll back the others.
type ExecuteDuePayments struct {
	store     TreasuryStore
	clock     Clock
	streams   *ExecuteStreamPayment
	recurring *ExecuteRecurringPayment
	progress  ProgressSink
	log       *slog.Logger
}

// NewExecuteDuePayments creates a new ExecuteDuePayments use case
func NewExecuteDuePayments(
	store TreasuryStore,
	clock Clock,
	streams *ExecuteStreamPayment,
	recurring *ExecuteRecurringPayment,
	progress ProgressSink,
	log *slog.Logger,
) *ExecuteDuePayments {
	return &ExecuteDuePayments{
		store:     store,
		clock:     clock,
		streams:   streams,
		recurring: recurring,
		progress:  progress,
		log:       log.With("component", "ExecuteDuePayments"),
	}
}

type dueSchedule struct {
	kind      models.ScheduleKind
	recipient common.Address
}

// Run sweeps the treasury
func (uc *ExecuteDuePayments) Run(ctx context.Context, params ExecuteDuePaymentsParams) (*ExecuteDuePaymentsResult, error) {
	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   StageScanning,
		Message: fmt.Sprintf("Scanning schedules of %s", params.Treasury),
		Spinner: true,
	})

	due, err := uc.collect(ctx, params.Treasury)
	if err != nil {
		uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageFailed, Message: err.Error()})
		return nil, err
	}

	result := &ExecuteDuePaymentsResult{}
	for i, d := range due {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		uc.progress.OnProgress(ctx, ProgressEvent{
			Stage:   StagePaying,
			Message: fmt.Sprintf("[%d/%d] Paying %s to %s", i+1, len(due), d.kind, d.recipient.Hex()),
			Spinner: true,
		})

		outcome := uc.pay(ctx, params, d)
		result.Outcomes = append(result.Outcomes, outcome)
		if outcome.Err != nil {
			uc.progress.Info(fmt.Sprintf("%s to %s failed: %v", d.kind, d.recipient.Hex(), outcome.Err))
			continue
		}
		if result.TotalPaid, err = domain.AddAmount(result.TotalPaid, outcome.Amount); err != nil {
			return result, err
		}
	}

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   StagePaid,
		Message: fmt.Sprintf("Paid %d of %d schedules", len(result.Outcomes)-len(result.Failed()), len(due)),
	})
	uc.log.Info("due payments swept",
		"treasury", params.Treasury,
		"caller", params.Caller.Hex(),
		"schedules", len(due),
		"failed", len(result.Failed()),
		"amount", result.TotalPaid,
	)
	return result, nil
}

// collect finds active schedules with a positive due amount
func (uc *ExecuteDuePayments) collect(ctx context.Context, name string) ([]dueSchedule, error) {
	now := uc.clock.Now()
	var due []dueSchedule

	err := uc.store.Atomic(ctx, func(tx StoreTx) error {
		treasury, err := loadTreasury(tx, name)
		if err != nil {
			return err
		}
		streams, err := tx.ListStreams(treasury.Address, domain.ScheduleFilter{})
		if err != nil {
			return err
		}
		recurring, err := tx.ListRecurring(treasury.Address, domain.ScheduleFilter{})
		if err != nil {
			return err
		}

		schedules := make([]models.Disbursement, 0, len(streams)+len(recurring))
		for _, s := range streams {
			schedules = append(schedules, s)
		}
		for _, r := range recurring {
			schedules = append(schedules, r)
		}
		for _, s := range schedules {
			amount, err := s.DueAmount(now)
			if err != nil || amount == 0 {
				continue
			}
			due = append(due, dueSchedule{kind: s.Kind(), recipient: s.Payee()})
		}
		return nil
	})
	return due, err
}

func (uc *ExecuteDuePayments) pay(ctx context.Context, params ExecuteDuePaymentsParams, d dueSchedule) DuePaymentOutcome {
	outcome := DuePaymentOutcome{Kind: d.kind, Recipient: d.recipient}
	schedule := ScheduleParams{Treasury: params.Treasury, Caller: params.Caller, Recipient: d.recipient}

	switch d.kind {
	case models.ScheduleStream:
		res, err := uc.streams.Run(ctx, schedule)
		if err != nil {
			outcome.Err = err
			return outcome
		}
		outcome.Amount, outcome.Receipt = res.Amount, res.Receipt
	case models.ScheduleRecurring:
		res, err := uc.recurring.Run(ctx, schedule)
		if err != nil {
			outcome.Err = err
			return outcome
		}
		outcome.Amount, outcome.Receipt = res.Amount, res.Receipt
	default:
		outcome.Err = fmt.Errorf("unsupported schedule kind %q", d.kind)
	}
	return outcome
}
