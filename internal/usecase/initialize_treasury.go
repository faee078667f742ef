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

// InitializeTreasuryParams contains parameters for creating a treasury
type InitializeTreasuryParams struct {
	Name      string
	Authority common.Address

	Signers   []common.Address
	Threshold uint8

	Limits      models.SpendingLimits
	ResetPeriod time.Duration

	AutoStake             bool
	StakeTargetPercentage uint8

	WhitelistEnabled bool
	// Initial whitelist entries, recipient -> label
	Whitelist map[common.Address]string
}

// InitializeTreasuryResult contains the created treasury
type InitializeTreasuryResult struct {
	Treasury  *models.Treasury
	Whitelist []*models.WhitelistedRecipient
}

// InitializeTreasury creates a named treasury owned by the calling authority
type InitializeTreasury struct {
	store TreasuryStore
	clock Clock
	log   *slog.Logger
}

// NewInitializeTreasury creates a new InitializeTreasury use case
func NewInitializeTreasury(store TreasuryStore, clock Clock, log *slog.Logger) *InitializeTreasury {
	return &InitializeTreasury{
		store: store,
		clock: clock,
		log:   log.With("component", "InitializeTreasury"),
	}
}

// Run validates the configuration and creates the treasury record
func (uc *InitializeTreasury) Run(ctx context.Context, params InitializeTreasuryParams) (*InitializeTreasuryResult, error) {
	now := uc.clock.Now()

	treasury := &models.Treasury{
		Name:                  params.Name,
		Address:               domain.TreasuryAddress(params.Name),
		Authority:             params.Authority,
		Signers:               params.Signers,
		Threshold:             params.Threshold,
		Limits:                params.Limits,
		ResetPeriod:           params.ResetPeriod,
		AutoStake:             params.AutoStake,
		StakeTargetPercentage: params.StakeTargetPercentage,
		WhitelistEnabled:      params.WhitelistEnabled,
		CreatedAt:             now,
	}
	if err := treasury.Validate(); err != nil {
		return nil, err
	}

	entries := make([]*models.WhitelistedRecipient, 0, len(params.Whitelist))
	for recipient, label := range params.Whitelist {
		if err := models.ValidateLabel(label); err != nil {
			return nil, err
		}
		entries = append(entries, &models.WhitelistedRecipient{
			Treasury:  treasury.Address,
			Recipient: recipient,
			Label:     label,
			AddedBy:   params.Authority,
			AddedAt:   now,
		})
	}

	err := uc.store.Atomic(ctx, func(tx StoreTx) error {
		if err := tx.CreateTreasury(treasury); err != nil {
			return fmt.Errorf("failed to create treasury %q: %w", params.Name, err)
		}
		for _, entry := range entries {
			if err := tx.CreateWhitelisted(entry); err != nil {
				return fmt.Errorf("failed to whitelist %s: %w", entry.Recipient.Hex(), err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info("treasury initialized",
		"treasury", treasury.Name,
		"address", treasury.Address.Hex(),
		"authority", treasury.Authority.Hex(),
		"signers", len(treasury.Signers),
		"threshold", treasury.Threshold,
	)

	return &InitializeTreasuryResult{Treasury: treasury, Whitelist: entries}, nil
}
