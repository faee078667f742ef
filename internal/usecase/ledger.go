package usecase

import (
	"context"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/treasury-cli/internal/domain/models"
)

// Funder mints balance into a holding. Only the local ledger implements it.
type Funder interface {
	Credit(ctx context.Context, owner, asset common.Address, amount uint64) (*models.Receipt, error)
}

// HoldingParams identifies a holding
type HoldingParams struct {
	Owner  common.Address
	Asset  common.Address
	Amount uint64
}

// FundAccount credits a holding on the local ledger for development use
type FundAccount struct {
	funder Funder
	log    *slog.Logger
}

// NewFundAccount creates a new FundAccount use case
func NewFundAccount(funder Funder, log *slog.Logger) *FundAccount {
	return &FundAccount{funder: funder, log: log.With("component", "FundAccount")}
}

// Run credits the holding
func (uc *FundAccount) Run(ctx context.Context, params HoldingParams) (*models.Receipt, error) {
	if err := models.ValidateAmount(params.Amount); err != nil {
		return nil, err
	}
	receipt, err := uc.funder.Credit(ctx, params.Owner, params.Asset, params.Amount)
	if err != nil {
		return nil, err
	}
	uc.log.Info("holding funded", "owner", params.Owner.Hex(), "asset", params.Asset.Hex(), "amount", params.Amount)
	return receipt, nil
}

// ShowBalance reads a holding balance from the transfer service
type ShowBalance struct {
	transfers TransferService
}

// NewShowBalance creates a new ShowBalance use case
func NewShowBalance(transfers TransferService) *ShowBalance {
	return &ShowBalance{transfers: transfers}
}

// Run returns the holding with its balance
func (uc *ShowBalance) Run(ctx context.Context, params HoldingParams) (*models.Holding, error) {
	balance, err := uc.transfers.Balance(ctx, params.Owner, params.Asset)
	if err != nil {
		return nil, err
	}
	return &models.Holding{Owner: params.Owner, Asset: params.Asset, Balance: balance}, nil
}
