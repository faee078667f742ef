package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/treasury-cli/internal/domain"
	"github.com/trebuchet-org/treasury-cli/internal/domain/models"
)

// DepositParams contains parameters for funding a treasury
type DepositParams struct {
	Treasury string
	Caller   common.Address
	Asset    common.Address
	Amount   uint64
}

// DepositResult reports the deposit and any stake the auto-stake policy placed
type DepositResult struct {
	Treasury     *models.Treasury
	Receipt      *models.Receipt
	AutoStaked   uint64
	StakeReceipt *models.Receipt
}

// Deposit moves funds from the caller into the treasury vault. Anyone may
// deposit while the treasury is not paused.
type Deposit struct {
	store     TreasuryStore
	transfers TransferService
	yield     YieldService
	log       *slog.Logger
}

// NewDeposit creates a new Deposit use case
func NewDeposit(store TreasuryStore, transfers TransferService, yield YieldService, log *slog.Logger) *Deposit {
	return &Deposit{
		store:     store,
		transfers: transfers,
		yield:     yield,
		log:       log.With("component", "Deposit"),
	}
}

// Run credits the vault and the deposited counter in one unit
func (uc *Deposit) Run(ctx context.Context, params DepositParams) (*DepositResult, error) {
	if err := models.ValidateAmount(params.Amount); err != nil {
		return nil, err
	}

	result := &DepositResult{}
	err := uc.store.Atomic(ctx, func(tx StoreTx) error {
		treasury, err := loadTreasury(tx, params.Treasury)
		if err != nil {
			return err
		}
		if err := checkNotPaused(treasury); err != nil {
			return err
		}
		if err := treasury.RecordDeposit(params.Amount); err != nil {
			return err
		}

		stake, err := uc.autoStakeAmount(ctx, treasury, params.Asset, params.Amount)
		if err != nil {
			return err
		}
		if stake > 0 {
			if err := treasury.RecordStake(stake); err != nil {
				return err
			}
		}
		if err := tx.SaveTreasury(treasury); err != nil {
			return fmt.Errorf("failed to save treasury: %w", err)
		}

		// The deposit and its auto-stake land in the ledger together or not at all
		legs := []models.Transfer{{
			From:      params.Caller,
			To:        treasury.Address,
			Authority: params.Caller,
			Asset:     params.Asset,
			Amount:    params.Amount,
		}}
		if stake > 0 {
			legs = append(legs, uc.yield.StakeLeg(treasury, stake))
		}
		receipt, err := uc.transfers.Transfer(ctx, legs...)
		if err != nil {
			return fmt.Errorf("transfer failed: %w", err)
		}
		result.Receipt = receipt
		if stake > 0 {
			result.AutoStaked = stake
			result.StakeReceipt = receipt
		}

		result.Treasury = treasury
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info("deposit committed",
		"treasury", params.Treasury,
		"caller", params.Caller.Hex(),
		"amount", params.Amount,
		"auto_staked", result.AutoStaked,
	)
	return result, nil
}

// autoStakeAmount is the stake needed to reach the target percentage. Only
// native deposits are staked, and never more than the vault will hold in
// native funds once the deposit lands.
func (uc *Deposit) autoStakeAmount(ctx context.Context, treasury *models.Treasury, asset common.Address, deposit uint64) (uint64, error) {
	if !treasury.AutoStake || asset != domain.NativeAsset {
		return 0, nil
	}
	target := treasury.StakeTarget()
	if target <= treasury.TotalStaked {
		return 0, nil
	}

	held, err := uc.transfers.Balance(ctx, treasury.Address, domain.NativeAsset)
	if err != nil {
		return 0, fmt.Errorf("failed to read vault balance: %w", err)
	}
	native, err := domain.AddAmount(held, deposit)
	if err != nil {
		return 0, err
	}
	return min(target-treasury.TotalStaked, treasury.Available(), native), nil
}
