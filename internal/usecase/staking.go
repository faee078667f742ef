package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/treasury-cli/internal/domain"
	"github.com/trebuchet-org/treasury-cli/internal/domain/models"
)

// StakeParams contains parameters for staking or unstaking treasury funds
type StakeParams struct {
	Treasury string
	Caller   common.Address
	Amount   uint64
}

// StakeResult reports the staking counters after the operation
type StakeResult struct {
	Treasury *models.Treasury
	Receipt  *models.Receipt
	// Reward is the yield returned on unstake
	Reward uint64
}

// StakeForYield delegates available native funds to the yield service.
// Requires execute_payments; blocked while paused.
type StakeForYield struct {
	store TreasuryStore
	yield YieldService
	log   *slog.Logger
}

// NewStakeForYield creates a new StakeForYield use case
func NewStakeForYield(store TreasuryStore, yield YieldService, log *slog.Logger) *StakeForYield {
	return &StakeForYield{store: store, yield: yield, log: log.With("component", "StakeForYield")}
}

// Run stakes the amount
func (uc *StakeForYield) Run(ctx context.Context, params StakeParams) (*StakeResult, error) {
	if err := models.ValidateAmount(params.Amount); err != nil {
		return nil, err
	}

	result := &StakeResult{}
	err := uc.store.Atomic(ctx, func(tx StoreTx) error {
		treasury, err := loadTreasury(tx, params.Treasury)
		if err != nil {
			return err
		}
		if err := checkNotPaused(treasury); err != nil {
			return err
		}
		if _, err := authorize(tx, treasury, params.Caller, models.CapExecutePayments, models.ScopeRole); err != nil {
			return err
		}
		if err := treasury.RecordStake(params.Amount); err != nil {
			return err
		}
		if err := tx.SaveTreasury(treasury); err != nil {
			return fmt.Errorf("failed to save treasury: %w", err)
		}

		receipt, err := uc.yield.Stake(ctx, treasury, params.Amount)
		if err != nil {
			return fmt.Errorf("stake failed: %w", err)
		}
		result.Treasury = treasury
		result.Receipt = receipt
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info("funds staked", "treasury", params.Treasury, "caller", params.Caller.Hex(), "amount", params.Amount)
	return result, nil
}

// Unstake withdraws principal and accrued reward from the yield service.
// Requires execute_payments; blocked while paused.
type Unstake struct {
	store TreasuryStore
	yield YieldService
	log   *slog.Logger
}

// NewUnstake creates a new Unstake use case
func NewUnstake(store TreasuryStore, yield YieldService, log *slog.Logger) *Unstake {
	return &Unstake{store: store, yield: yield, log: log.With("component", "Unstake")}
}

// Run unstakes the amount
func (uc *Unstake) Run(ctx context.Context, params StakeParams) (*StakeResult, error) {
	if err := models.ValidateAmount(params.Amount); err != nil {
		return nil, err
	}

	result := &StakeResult{}
	err := uc.store.Atomic(ctx, func(tx StoreTx) error {
		treasury, err := loadTreasury(tx, params.Treasury)
		if err != nil {
			return err
		}
		if err := checkNotPaused(treasury); err != nil {
			return err
		}
		if _, err := authorize(tx, treasury, params.Caller, models.CapExecutePayments, models.ScopeRole); err != nil {
			return err
		}
		if params.Amount > treasury.TotalStaked {
			return fmt.Errorf("%w: requested %d, staked %d", domain.ErrInsufficientFunds, params.Amount, treasury.TotalStaked)
		}

		out, err := uc.yield.Unstake(ctx, treasury, params.Amount)
		if err != nil {
			return fmt.Errorf("unstake failed: %w", err)
		}
		if err := treasury.RecordUnstake(out.Principal, out.Reward); err != nil {
			return err
		}
		if err := tx.SaveTreasury(treasury); err != nil {
			return fmt.Errorf("failed to save treasury: %w", err)
		}
		result.Treasury = treasury
		result.Receipt = out.Receipt
		result.Reward = out.Reward
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info("funds unstaked", "treasury", params.Treasury, "caller", params.Caller.Hex(), "amount", params.Amount, "reward", result.Reward)
	return result, nil
}
