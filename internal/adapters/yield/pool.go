package yield

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/trebuchet-org/treasury-cli/internal/domain"
	"github.com/trebuchet-org/treasury-cli/internal/domain/models"
	"github.com/trebuchet-org/treasury-cli/internal/usecase"
)

// StakePool is a local yield source. Staked native funds move from the
// treasury vault into a pool holding derived from the treasury address.
// Anything credited to the pool above the staked principal is reward, paid
// out pro rata on unstake.
type StakePool struct {
	transfers usecase.TransferService
	log       *slog.Logger
}

// NewStakePool creates a new StakePool
func NewStakePool(transfers usecase.TransferService, log *slog.Logger) *StakePool {
	return &StakePool{transfers: transfers, log: log.With("component", "StakePool")}
}

// StakeLeg implements usecase.YieldService. Only native funds are staked.
func (p *StakePool) StakeLeg(treasury *models.Treasury, amount uint64) models.Transfer {
	return models.Transfer{
		From:      treasury.Address,
		To:        domain.StakePoolAddress(treasury.Address),
		Authority: treasury.Address,
		Asset:     domain.NativeAsset,
		Amount:    amount,
	}
}

// Stake implements usecase.YieldService
func (p *StakePool) Stake(ctx context.Context, treasury *models.Treasury, amount uint64) (*models.Receipt, error) {
	receipt, err := p.transfers.Transfer(ctx, p.StakeLeg(treasury, amount))
	if err != nil {
		return nil, err
	}
	p.log.Debug("staked", "treasury", treasury.Name, "amount", amount)
	return receipt, nil
}

// Unstake implements usecase.YieldService. treasury.TotalStaked is the
// principal before this call.
func (p *StakePool) Unstake(ctx context.Context, treasury *models.Treasury, amount uint64) (*usecase.UnstakeResult, error) {
	if amount > treasury.TotalStaked {
		return nil, fmt.Errorf("%w: requested %d, staked %d", domain.ErrInsufficientFunds, amount, treasury.TotalStaked)
	}

	pool := domain.StakePoolAddress(treasury.Address)
	held, err := p.transfers.Balance(ctx, pool, domain.NativeAsset)
	if err != nil {
		return nil, fmt.Errorf("failed to read pool balance: %w", err)
	}
	reward := shareOfSurplus(held, treasury.TotalStaked, amount)

	payout, err := domain.AddAmount(amount, reward)
	if err != nil {
		return nil, err
	}
	receipt, err := p.transfers.Transfer(ctx, models.Transfer{
		From:      pool,
		To:        treasury.Address,
		Authority: pool,
		Asset:     domain.NativeAsset,
		Amount:    payout,
	})
	if err != nil {
		return nil, err
	}

	p.log.Debug("unstaked", "treasury", treasury.Name, "principal", amount, "reward", reward)
	return &usecase.UnstakeResult{Principal: amount, Reward: reward, Receipt: receipt}, nil
}

// shareOfSurplus returns amount/staked of whatever the pool holds above staked
func shareOfSurplus(held, staked, amount uint64) uint64 {
	if staked == 0 || held <= staked {
		return 0
	}
	surplus := new(big.Int).SetUint64(held - staked)
	surplus.Mul(surplus, new(big.Int).SetUint64(amount))
	surplus.Div(surplus, new(big.Int).SetUint64(staked))
	return surplus.Uint64()
}
