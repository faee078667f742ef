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

// CreateRecurringPaymentParams contains parameters for scheduling a recurring payment
type CreateRecurringPaymentParams struct {
	Treasury  string
	Caller    common.Address
	Recipient common.Address
	Asset     common.Address
	Amount    uint64
	Interval  time.Duration
	// FirstPayment defaults to now when zero
	FirstPayment time.Time
	Category     string
}

// CreateRecurringPayment schedules a fixed payment per interval. Requires create_streams.
type CreateRecurringPayment struct {
	store TreasuryStore
	clock Clock
	log   *slog.Logger
}

// NewCreateRecurringPayment creates a new CreateRecurringPayment use case
func NewCreateRecurringPayment(store TreasuryStore, clock Clock, log *slog.Logger) *CreateRecurringPayment {
	return &CreateRecurringPayment{store: store, clock: clock, log: log.With("component", "CreateRecurringPayment")}
}

// Run validates and stores the recurring payment
func (uc *CreateRecurringPayment) Run(ctx context.Context, params CreateRecurringPaymentParams) (*models.RecurringPayment, error) {
	first := params.FirstPayment
	if first.IsZero() {
		first = uc.clock.Now()
	}

	var payment *models.RecurringPayment
	err := uc.store.Atomic(ctx, func(tx StoreTx) error {
		treasury, err := loadTreasury(tx, params.Treasury)
		if err != nil {
			return err
		}
		if _, err := authorize(tx, treasury, params.Caller, models.CapCreateStreams, models.ScopeRole); err != nil {
			return err
		}

		payment = &models.RecurringPayment{
			Treasury:    treasury.Address,
			Recipient:   params.Recipient,
			Asset:       params.Asset,
			Amount:      params.Amount,
			Interval:    params.Interval,
			NextPayment: first,
			Active:      true,
			Category:    params.Category,
			Creator:     params.Caller,
		}
		if err := payment.Validate(); err != nil {
			return err
		}
		if err := tx.CreateRecurring(payment); err != nil {
			return fmt.Errorf("failed to create recurring payment to %s: %w", params.Recipient.Hex(), err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info("recurring payment created",
		"treasury", params.Treasury,
		"caller", params.Caller.Hex(),
		"recipient", params.Recipient.Hex(),
		"amount", params.Amount,
		"interval", params.Interval,
	)
	return payment, nil
}

// RecurringPaymentResult reports an executed recurring payment
type RecurringPaymentResult struct {
	PayoutResult
	Payment *models.RecurringPayment
}

// ExecuteRecurringPayment pays one due installment of a recurring payment
type ExecuteRecurringPayment struct {
	store TreasuryStore
	clock Clock
	disburser
}

// NewExecuteRecurringPayment creates a new ExecuteRecurringPayment use case
func NewExecuteRecurringPayment(store TreasuryStore, transfers TransferService, clock Clock, log *slog.Logger) *ExecuteRecurringPayment {
	return &ExecuteRecurringPayment{
		store:     store,
		clock:     clock,
		disburser: disburser{transfers: transfers, log: log.With("component", "ExecuteRecurringPayment")},
	}
}

// Run pays the installment and moves the next due time forward by one interval
func (uc *ExecuteRecurringPayment) Run(ctx context.Context, params ScheduleParams) (*RecurringPaymentResult, error) {
	var result *RecurringPaymentResult

	err := uc.store.Atomic(ctx, func(tx StoreTx) error {
		treasury, err := loadTreasury(tx, params.Treasury)
		if err != nil {
			return err
		}
		payment, err := tx.GetRecurring(treasury.Address, params.Recipient)
		if err != nil {
			return err
		}

		p := &payout{
			treasury: treasury,
			caller:   params.Caller,
			asset:    payment.Asset,
			now:      uc.clock.Now(),
		}
		receipt, err := uc.pay(ctx, tx, p, dueGuard(payment))
		if err != nil {
			return err
		}
		if err := payment.Advance(p.now); err != nil {
			return err
		}
		if err := tx.SaveRecurring(payment); err != nil {
			return fmt.Errorf("failed to save recurring payment: %w", err)
		}

		result = &RecurringPaymentResult{
			PayoutResult: PayoutResult{Treasury: treasury, Role: p.role, Amount: payment.Amount, Receipt: receipt},
			Payment:      payment,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// CancelRecurringPayment deactivates a recurring payment. Requires the
// authority or create_streams.
type CancelRecurringPayment struct {
	store TreasuryStore
	log   *slog.Logger
}

// NewCancelRecurringPayment creates a new CancelRecurringPayment use case
func NewCancelRecurringPayment(store TreasuryStore, log *slog.Logger) *CancelRecurringPayment {
	return &CancelRecurringPayment{store: store, log: log.With("component", "CancelRecurringPayment")}
}

// Run deactivates the recurring payment
func (uc *CancelRecurringPayment) Run(ctx context.Context, params ScheduleParams) (*models.RecurringPayment, error) {
	var payment *models.RecurringPayment

	err := uc.store.Atomic(ctx, func(tx StoreTx) error {
		treasury, err := loadTreasury(tx, params.Treasury)
		if err != nil {
			return err
		}
		if _, err := authorize(tx, treasury, params.Caller, models.CapCreateStreams, models.ScopeConfig); err != nil {
			return err
		}
		payment, err = tx.GetRecurring(treasury.Address, params.Recipient)
		if err != nil {
			return err
		}
		if !payment.Active {
			return domain.ErrPaymentStreamInactive
		}
		payment.Active = false
		return tx.SaveRecurring(payment)
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info("recurring payment cancelled", "treasury", params.Treasury, "caller", params.Caller.Hex(), "recipient", params.Recipient.Hex())
	return payment, nil
}
