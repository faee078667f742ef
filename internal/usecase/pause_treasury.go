package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/treasury-cli/internal/domain/models"
)

// PauseParams identifies the treasury and caller of a pause toggle
type PauseParams struct {
	Treasury string
	Caller   common.Address
}

// PauseResult reports the pause state after the operation
type PauseResult struct {
	Treasury *models.Treasury
	// Changed is false when the treasury was already in the requested state
	Changed bool
}

// pauseToggle is shared by PauseTreasury and ResumeTreasury
type pauseToggle struct {
	store TreasuryStore
	log   *slog.Logger
}

func (p *pauseToggle) set(ctx context.Context, params PauseParams, paused bool) (*PauseResult, error) {
	result := &PauseResult{}

	err := p.store.Atomic(ctx, func(tx StoreTx) error {
		treasury, err := loadTreasury(tx, params.Treasury)
		if err != nil {
			return err
		}
		if _, err := authorize(tx, treasury, params.Caller, models.CapManageRoles, models.ScopeConfig); err != nil {
			return err
		}

		result.Treasury = treasury
		if treasury.Paused == paused {
			return nil
		}
		treasury.Paused = paused
		result.Changed = true
		if err := tx.SaveTreasury(treasury); err != nil {
			return fmt.Errorf("failed to save treasury: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Changed {
		p.log.Info("treasury pause state changed", "treasury", params.Treasury, "paused", paused, "caller", params.Caller.Hex())
	}
	return result, nil
}

// PauseTreasury suspends all value-moving operations of a treasury
type PauseTreasury struct {
	pauseToggle
}

// NewPauseTreasury creates a new PauseTreasury use case
func NewPauseTreasury(store TreasuryStore, log *slog.Logger) *PauseTreasury {
	return &PauseTreasury{pauseToggle{store: store, log: log.With("component", "PauseTreasury")}}
}

// Run pauses the treasury
func (uc *PauseTreasury) Run(ctx context.Context, params PauseParams) (*PauseResult, error) {
	return uc.set(ctx, params, true)
}

// ResumeTreasury lifts a pause
type ResumeTreasury struct {
	pauseToggle
}

// NewResumeTreasury creates a new ResumeTreasury use case
func NewResumeTreasury(store TreasuryStore, log *slog.Logger) *ResumeTreasury {
	return &ResumeTreasury{pauseToggle{store: store, log: log.With("component", "ResumeTreasury")}}
}

// Run resumes the treasury
func (uc *ResumeTreasury) Run(ctx context.Context, params PauseParams) (*PauseResult, error) {
	return uc.set(ctx, params, false)
}
