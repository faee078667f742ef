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

// UpdateTreasuryConfigParams lists the fields to change. Nil fields are left as is.
type UpdateTreasuryConfigParams struct {
	Treasury string
	Caller   common.Address

	Signers   []common.Address
	Threshold *uint8

	Limits      *models.SpendingLimits
	ResetPeriod *time.Duration

	AutoStake             *bool
	StakeTargetPercentage *uint8
	WhitelistEnabled      *bool
}

// UpdateTreasuryConfig changes configuration fields of a treasury. Only the
// treasury authority may do so.
type UpdateTreasuryConfig struct {
	store TreasuryStore
	log   *slog.Logger
}

// NewUpdateTreasuryConfig creates a new UpdateTreasuryConfig use case
func NewUpdateTreasuryConfig(store TreasuryStore, log *slog.Logger) *UpdateTreasuryConfig {
	return &UpdateTreasuryConfig{
		store: store,
		log:   log.With("component", "UpdateTreasuryConfig"),
	}
}

// Run re-validates every touched field and saves the treasury
func (uc *UpdateTreasuryConfig) Run(ctx context.Context, params UpdateTreasuryConfigParams) (*models.Treasury, error) {
	var updated *models.Treasury

	err := uc.store.Atomic(ctx, func(tx StoreTx) error {
		treasury, err := loadTreasury(tx, params.Treasury)
		if err != nil {
			return err
		}
		if params.Caller != treasury.Authority {
			return fmt.Errorf("%w: only the treasury authority can change its configuration", domain.ErrInsufficientPermissions)
		}

		if params.Signers != nil || params.Threshold != nil {
			signers, threshold := treasury.Signers, treasury.Threshold
			if params.Signers != nil {
				signers = params.Signers
			}
			if params.Threshold != nil {
				threshold = *params.Threshold
			}
			if err := models.ValidateSigners(signers, threshold); err != nil {
				return err
			}
			treasury.Signers, treasury.Threshold = signers, threshold
		}
		if params.Limits != nil {
			treasury.Limits = *params.Limits
		}
		if params.ResetPeriod != nil {
			if err := models.ValidateResetPeriod(*params.ResetPeriod); err != nil {
				return err
			}
			treasury.ResetPeriod = *params.ResetPeriod
		}
		if params.StakeTargetPercentage != nil {
			if err := models.ValidateStakePercentage(*params.StakeTargetPercentage); err != nil {
				return err
			}
			treasury.StakeTargetPercentage = *params.StakeTargetPercentage
		}
		if params.AutoStake != nil {
			treasury.AutoStake = *params.AutoStake
		}
		if params.WhitelistEnabled != nil {
			treasury.WhitelistEnabled = *params.WhitelistEnabled
		}

		if err := tx.SaveTreasury(treasury); err != nil {
			return fmt.Errorf("failed to save treasury: %w", err)
		}
		updated = treasury
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info("treasury configuration updated", "treasury", updated.Name, "caller", params.Caller.Hex())
	return updated, nil
}
