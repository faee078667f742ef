package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/treasury-cli/internal/domain"
	"github.com/trebuchet-org/treasury-cli/internal/domain/models"
)

// WithdrawParams contains parameters for a direct payout
type WithdrawParams struct {
	Treasury  string
	Caller    common.Address
	Recipient common.Address
	Asset     common.Address
	Amount    uint64
}

// PayoutResult is returned by every payout path
type PayoutResult struct {
	Treasury *models.Treasury
	Role     *models.Role
	Amount   uint64
	Receipt  *models.Receipt
}

// Withdraw pays a recipient from the vault through the payout guards
type Withdraw struct {
	store TreasuryStore
	clock Clock
	disburser
}

// NewWithdraw creates a new Withdraw use case
func NewWithdraw(store TreasuryStore, transfers TransferService, clock Clock, log *slog.Logger) *Withdraw {
	return &Withdraw{
		store:     store,
		clock:     clock,
		disburser: disburser{transfers: transfers, log: log.With("component", "Withdraw")},
	}
}

// Run executes the withdrawal
func (uc *Withdraw) Run(ctx context.Context, params WithdrawParams) (*PayoutResult, error) {
	if err := models.ValidateAmount(params.Amount); err != nil {
		return nil, err
	}

	var result *PayoutResult
	err := uc.store.Atomic(ctx, func(tx StoreTx) error {
		treasury, err := loadTreasury(tx, params.Treasury)
		if err != nil {
			return err
		}
		p := &payout{
			treasury: treasury,
			caller:   params.Caller,
			asset:    params.Asset,
			legs:     []models.Transfer{{To: params.Recipient, Amount: params.Amount}},
			now:      uc.clock.Now(),
		}
		receipt, err := uc.pay(ctx, tx, p, nil)
		if err != nil {
			return err
		}
		result = &PayoutResult{Treasury: treasury, Role: p.role, Amount: params.Amount, Receipt: receipt}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// BatchTransferParams contains parameters for paying several recipients at once
type BatchTransferParams struct {
	Treasury   string
	Caller     common.Address
	Asset      common.Address
	Recipients []common.Address
	Amounts    []uint64
}

// BatchTransfer pays several recipients in one unit. The whole batch counts
// against the caller's spending limit and is applied all or nothing.
type BatchTransfer struct {
	store TreasuryStore
	clock Clock
	disburser
}

// NewBatchTransfer creates a new BatchTransfer use case
func NewBatchTransfer(store TreasuryStore, transfers TransferService, clock Clock, log *slog.Logger) *BatchTransfer {
	return &BatchTransfer{
		store:     store,
		clock:     clock,
		disburser: disburser{transfers: transfers, log: log.With("component", "BatchTransfer")},
	}
}

// Run executes the batch
func (uc *BatchTransfer) Run(ctx context.Context, params BatchTransferParams) (*PayoutResult, error) {
	if len(params.Recipients) == 0 || len(params.Recipients) != len(params.Amounts) {
		return nil, fmt.Errorf("%w: %d recipients, %d amounts", domain.ErrInvalidBatch, len(params.Recipients), len(params.Amounts))
	}

	legs := make([]models.Transfer, len(params.Recipients))
	for i, recipient := range params.Recipients {
		if err := models.ValidateAmount(params.Amounts[i]); err != nil {
			return nil, fmt.Errorf("batch entry %d: %w", i, err)
		}
		legs[i] = models.Transfer{To: recipient, Amount: params.Amounts[i]}
	}
	total, err := domain.SumAmounts(params.Amounts)
	if err != nil {
		return nil, err
	}

	var result *PayoutResult
	err = uc.store.Atomic(ctx, func(tx StoreTx) error {
		treasury, err := loadTreasury(tx, params.Treasury)
		if err != nil {
			return err
		}
		p := &payout{
			treasury: treasury,
			caller:   params.Caller,
			asset:    params.Asset,
			legs:     legs,
			now:      uc.clock.Now(),
		}
		receipt, err := uc.pay(ctx, tx, p, nil)
		if err != nil {
			return err
		}
		result = &PayoutResult{Treasury: treasury, Role: p.role, Amount: total, Receipt: receipt}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
