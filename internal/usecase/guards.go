package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/treasury-cli/internal/domain"
	"github.com/trebuchet-org/treasury-cli/internal/domain/models"
)

// payout is the state a payout path threads through its guards
type payout struct {
	treasury *models.Treasury
	caller   common.Address
	asset    common.Address
	legs     []models.Transfer
	now      time.Time

	// set by requirePayer
	role *models.Role
}

func (p *payout) total() (uint64, error) {
	amounts := make([]uint64, len(p.legs))
	for i, leg := range p.legs {
		amounts[i] = leg.Amount
	}
	return domain.SumAmounts(amounts)
}

// guard is one check in the payout pipeline. Guards run in order and the first
// failure stops the pipeline. Only chargeSpendingLimit mutates state.
type guard func(tx StoreTx, p *payout) error

// payoutGuards returns the ordered pipeline applied before every transfer out
// of a vault: pause, permission, the path's own check, whitelist, funds, limit.
func payoutGuards(pathCheck guard) []guard {
	guards := []guard{requireActive, requirePayer}
	if pathCheck != nil {
		guards = append(guards, pathCheck)
	}
	return append(guards, requireWhitelisted, requireFunds, chargeSpendingLimit)
}

func runGuards(tx StoreTx, p *payout, guards []guard) error {
	for _, g := range guards {
		if err := g(tx, p); err != nil {
			return err
		}
	}
	return nil
}

func requireActive(_ StoreTx, p *payout) error {
	return checkNotPaused(p.treasury)
}

func checkNotPaused(treasury *models.Treasury) error {
	if treasury.Paused {
		return fmt.Errorf("%w: %s", domain.ErrTreasuryPaused, treasury.Name)
	}
	return nil
}

func requirePayer(tx StoreTx, p *payout) error {
	role, err := authorize(tx, p.treasury, p.caller, models.CapExecutePayments, models.ScopeRole)
	if err != nil {
		return err
	}
	p.role = role
	return nil
}

func requireWhitelisted(tx StoreTx, p *payout) error {
	if !p.treasury.WhitelistEnabled {
		return nil
	}
	for _, leg := range p.legs {
		ok, err := isWhitelisted(tx, p.treasury.Address, leg.To)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %s", domain.ErrRecipientNotWhitelisted, leg.To.Hex())
		}
	}
	return nil
}

func requireFunds(_ StoreTx, p *payout) error {
	total, err := p.total()
	if err != nil {
		return err
	}
	if total > p.treasury.Available() {
		return fmt.Errorf("%w: requested %d, available %d", domain.ErrInsufficientFunds, total, p.treasury.Available())
	}
	return nil
}

func chargeSpendingLimit(_ StoreTx, p *payout) error {
	total, err := p.total()
	if err != nil {
		return err
	}
	limit := p.treasury.Limits.For(p.role.Tier)
	return p.role.CheckAndRecord(limit, p.treasury.ResetPeriod, total, p.now)
}

// isWhitelisted is the registry membership test
func isWhitelisted(tx StoreTx, treasury, recipient common.Address) (bool, error) {
	_, err := tx.GetWhitelisted(treasury, recipient)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// resolveCaller loads the caller's role record, if any, and classifies the caller
func resolveCaller(tx StoreTx, treasury *models.Treasury, addr common.Address) (models.Caller, error) {
	role, err := tx.GetRole(treasury.Address, addr)
	if errors.Is(err, domain.ErrNotFound) {
		role = nil
	} else if err != nil {
		return nil, err
	}
	return models.ResolveCaller(treasury, addr, role), nil
}

func authorize(tx StoreTx, treasury *models.Treasury, addr common.Address, capability models.Capability, scope models.AuthScope) (*models.Role, error) {
	caller, err := resolveCaller(tx, treasury, addr)
	if err != nil {
		return nil, err
	}
	return models.Authorize(caller, capability, scope)
}

// disburser executes payout paths: guards, accounting, then the transfer.
// It must run inside TreasuryStore.Atomic so a failed transfer discards the
// counters it staged.
type disburser struct {
	transfers TransferService
	log       *slog.Logger
}

func (d disburser) pay(ctx context.Context, tx StoreTx, p *payout, pathCheck guard) (*models.Receipt, error) {
	if err := runGuards(tx, p, payoutGuards(pathCheck)); err != nil {
		d.log.Debug("payout denied", "treasury", p.treasury.Name, "caller", p.caller.Hex(), "error", err)
		return nil, err
	}

	total, err := p.total()
	if err != nil {
		return nil, err
	}
	if err := p.treasury.RecordWithdrawal(total); err != nil {
		return nil, err
	}
	if err := tx.SaveTreasury(p.treasury); err != nil {
		return nil, fmt.Errorf("failed to save treasury: %w", err)
	}
	if err := tx.SaveRole(p.role); err != nil {
		return nil, fmt.Errorf("failed to save role: %w", err)
	}

	for i := range p.legs {
		p.legs[i].From = p.treasury.Address
		p.legs[i].Authority = p.treasury.Address
		p.legs[i].Asset = p.asset
	}
	receipt, err := d.transfers.Transfer(ctx, p.legs...)
	if err != nil {
		return nil, fmt.Errorf("transfer failed: %w", err)
	}

	d.log.Info("payout committed",
		"treasury", p.treasury.Name,
		"caller", p.caller.Hex(),
		"amount", total,
		"legs", len(p.legs),
		"receipt", receipt.ID,
	)
	return receipt, nil
}

// loadTreasury reads the treasury by name, mapping a missing record to a
// readable error.
func loadTreasury(tx StoreTx, name string) (*models.Treasury, error) {
	treasury, err := tx.GetTreasury(name)
	if err != nil {
		return nil, fmt.Errorf("failed to load treasury %q: %w", name, err)
	}
	return treasury, nil
}
