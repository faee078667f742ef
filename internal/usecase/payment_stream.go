package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/treasury-cli/internal/domain"
	"github.com/trebuchet-org/treasury-cli/internal/domain/models"
)

// CreatePaymentStreamParams contains parameters for opening a stream
type CreatePaymentStreamParams struct {
	Treasury        string
	Caller          common.Address
	Recipient       common.Address
	Asset           common.Address
	AmountPerPeriod uint64
	Period          time.Duration
	// Start defaults to now when zero
	Start    time.Time
	End      time.Time
	Category string
}

// CreatePaymentStream opens a continuously accruing stream. Requires create_streams.
type CreatePaymentStream struct {
	store TreasuryStore
	clock Clock
	log   *slog.Logger
}

// NewCreatePaymentStream creates a new CreatePaymentStream use case
func NewCreatePaymentStream(store TreasuryStore, clock Clock, log *slog.Logger) *CreatePaymentStream {
	return &CreatePaymentStream{store: store, clock: clock, log: log.With("component", "CreatePaymentStream")}
}

// Run validates and stores the stream
func (uc *CreatePaymentStream) Run(ctx context.Context, params CreatePaymentStreamParams) (*models.PaymentStream, error) {
	start := params.Start
	if start.IsZero() {
		start = uc.clock.Now()
	}

	var stream *models.PaymentStream
	err := uc.store.Atomic(ctx, func(tx StoreTx) error {
		treasury, err := loadTreasury(tx, params.Treasury)
		if err != nil {
			return err
		}
		if _, err := authorize(tx, treasury, params.Caller, models.CapCreateStreams, models.ScopeRole); err != nil {
			return err
		}

		stream = &models.PaymentStream{
			Treasury:        treasury.Address,
			Recipient:       params.Recipient,
			Asset:           params.Asset,
			AmountPerPeriod: params.AmountPerPeriod,
			PeriodDuration:  params.Period,
			StartTime:       start,
			EndTime:         params.End,
			LastPaymentTime: start,
			Active:          true,
			Category:        params.Category,
			Creator:         params.Caller,
		}
		if err := stream.Validate(); err != nil {
			return err
		}
		if err := tx.CreateStream(stream); err != nil {
			return fmt.Errorf("failed to create stream to %s: %w", params.Recipient.Hex(), err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info("payment stream created",
		"treasury", params.Treasury,
		"caller", params.Caller.Hex(),
		"recipient", params.Recipient.Hex(),
		"amount", params.AmountPerPeriod,
		"period", params.Period,
	)
	return stream, nil
}

// ScheduleParams identifies a recipient-keyed schedule
type ScheduleParams struct {
	Treasury  string
	Caller    common.Address
	Recipient common.Address
}

// StreamPaymentResult reports an executed stream payment
type StreamPaymentResult struct {
	PayoutResult
	Stream *models.PaymentStream
}

// ExecuteStreamPayment pays out every whole period accrued on a stream
type ExecuteStreamPayment struct {
	store TreasuryStore
	clock Clock
	disburser
}

// NewExecuteStreamPayment creates a new ExecuteStreamPayment use case
func NewExecuteStreamPayment(store TreasuryStore, transfers TransferService, clock Clock, log *slog.Logger) *ExecuteStreamPayment {
	return &ExecuteStreamPayment{
		store:     store,
		clock:     clock,
		disburser: disburser{transfers: transfers, log: log.With("component", "ExecuteStreamPayment")},
	}
}

// Run pays the accrued amount and advances the stream cursor
func (uc *ExecuteStreamPayment) Run(ctx context.Context, params ScheduleParams) (*StreamPaymentResult, error) {
	var result *StreamPaymentResult

	err := uc.store.Atomic(ctx, func(tx StoreTx) error {
		treasury, err := loadTreasury(tx, params.Treasury)
		if err != nil {
			return err
		}
		stream, err := tx.GetStream(treasury.Address, params.Recipient)
		if err != nil {
			return err
		}

		p := &payout{
			treasury: treasury,
			caller:   params.Caller,
			asset:    stream.Asset,
			now:      uc.clock.Now(),
		}
		receipt, err := uc.pay(ctx, tx, p, dueGuard(stream))
		if err != nil {
			return err
		}
		amount := p.legs[0].Amount

		if err := stream.Advance(p.now); err != nil {
			return err
		}
		if err := tx.SaveStream(stream); err != nil {
			return fmt.Errorf("failed to save stream: %w", err)
		}

		result = &StreamPaymentResult{
			PayoutResult: PayoutResult{Treasury: treasury, Role: p.role, Amount: amount, Receipt: receipt},
			Stream:       stream,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// dueGuard turns a schedule's due amount into the single payout leg. A schedule
// with nothing due fails with ErrPaymentStreamNotDue.
func dueGuard(d models.Disbursement) guard {
	return func(_ StoreTx, p *payout) error {
		due, err := d.DueAmount(p.now)
		if err != nil {
			return err
		}
		if due == 0 {
			return domain.ErrPaymentStreamNotDue
		}
		p.legs = []models.Transfer{{To: d.Payee(), Amount: due}}
		return nil
	}
}

// CancelPaymentStream deactivates a stream. Unpaid accrual is forfeited.
// Requires the authority or create_streams.
type CancelPaymentStream struct {
	store TreasuryStore
	log   *slog.Logger
}

// NewCancelPaymentStream creates a new CancelPaymentStream use case
func NewCancelPaymentStream(store TreasuryStore, log *slog.Logger) *CancelPaymentStream {
	return &CancelPaymentStream{store: store, log: log.With("component", "CancelPaymentStream")}
}

// Run deactivates the stream
func (uc *CancelPaymentStream) Run(ctx context.Context, params ScheduleParams) (*models.PaymentStream, error) {
	var stream *models.PaymentStream

	err := uc.store.Atomic(ctx, func(tx StoreTx) error {
		treasury, err := loadTreasury(tx, params.Treasury)
		if err != nil {
			return err
		}
		if _, err := authorize(tx, treasury, params.Caller, models.CapCreateStreams, models.ScopeConfig); err != nil {
			return err
		}
		stream, err = tx.GetStream(treasury.Address, params.Recipient)
		if err != nil {
			return err
		}
		if !stream.Active {
			return domain.ErrPaymentStreamInactive
		}
		stream.Active = false
		return tx.SaveStream(stream)
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info("payment stream cancelled", "treasury", params.Treasury, "caller", params.Caller.Hex(), "recipient", params.Recipient.Hex())
	return stream, nil
}
