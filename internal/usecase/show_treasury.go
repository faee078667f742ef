package usecase

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/treasury-cli/internal/domain"
	"github.com/trebuchet-org/treasury-cli/internal/domain/models"
)

// ShowTreasuryParams contains parameters for showing a treasury
type ShowTreasuryParams struct {
	Treasury string
	Caller   common.Address
	// Asset whose vault balance is reported; defaults to the native asset
	Asset common.Address
}

// TreasuryOverview is a treasury with figures derived from its counters and the vault
type TreasuryOverview struct {
	Treasury     *models.Treasury
	Available    uint64
	StakeTarget  uint64
	VaultBalance uint64
	Asset        common.Address
	StakePool    common.Address
}

// ShowTreasury reads a treasury. The caller must be the authority or hold view_treasury.
type ShowTreasury struct {
	store     TreasuryStore
	transfers TransferService
}

// NewShowTreasury creates a new ShowTreasury use case
func NewShowTreasury(store TreasuryStore, transfers TransferService) *ShowTreasury {
	return &ShowTreasury{store: store, transfers: transfers}
}

// Run loads the treasury and its vault balance
func (uc *ShowTreasury) Run(ctx context.Context, params ShowTreasuryParams) (*TreasuryOverview, error) {
	var overview *TreasuryOverview

	err := uc.store.Atomic(ctx, func(tx StoreTx) error {
		treasury, err := loadTreasury(tx, params.Treasury)
		if err != nil {
			return err
		}
		if _, err := authorize(tx, treasury, params.Caller, models.CapViewTreasury, models.ScopeConfig); err != nil {
			return err
		}

		balance, err := uc.transfers.Balance(ctx, treasury.Address, params.Asset)
		if err != nil {
			return fmt.Errorf("failed to read vault balance: %w", err)
		}

		overview = &TreasuryOverview{
			Treasury:     treasury,
			Available:    treasury.Available(),
			StakeTarget:  treasury.StakeTarget(),
			VaultBalance: balance,
			Asset:        params.Asset,
			StakePool:    domain.StakePoolAddress(treasury.Address),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return overview, nil
}
