package models

import (
	"fmt"
	"math"
	"math/bits"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/lo"
	"github.com/trebuchet-org/treasury-cli/internal/domain"
)

// MaxStakeTargetPercentage is the upper bound for Treasury.StakeTargetPercentage
const MaxStakeTargetPercentage = 100

// SpendingLimits is the maximum amount each tier may pay out per reset period
type SpendingLimits struct {
	Admin       uint64 `json:"admin" yaml:"admin"`
	Treasurer   uint64 `json:"treasurer" yaml:"treasurer"`
	Contributor uint64 `json:"contributor" yaml:"contributor"`
}

// For returns the limit applying to a tier. Custom tiers use the contributor limit.
func (l SpendingLimits) For(tier RoleTier) uint64 {
	switch tier {
	case TierAdmin:
		return l.Admin
	case TierTreasurer:
		return l.Treasurer
	default:
		return l.Contributor
	}
}

// Treasury is the root record of a named fund. Its address doubles as the vault
// holding the fund's assets.
type Treasury struct {
	// Identification
	Name      string         `json:"name" yaml:"name"`
	Address   common.Address `json:"address" yaml:"address"`
	Authority common.Address `json:"authority" yaml:"authority"`

	// Multi-signature configuration
	Signers   []common.Address `json:"signers" yaml:"signers"`
	Threshold uint8            `json:"threshold" yaml:"threshold"`

	// Control surface
	Paused           bool `json:"paused" yaml:"paused"`
	WhitelistEnabled bool `json:"whitelistEnabled" yaml:"whitelistEnabled"`

	// Monotonic accounting counters
	TotalDeposited uint64 `json:"totalDeposited" yaml:"totalDeposited"`
	TotalWithdrawn uint64 `json:"totalWithdrawn" yaml:"totalWithdrawn"`
	TotalYield     uint64 `json:"totalYield" yaml:"totalYield"`

	// Principal currently delegated to the yield service
	TotalStaked uint64 `json:"totalStaked" yaml:"totalStaked"`

	// Spending policy
	Limits      SpendingLimits `json:"limits" yaml:"limits"`
	ResetPeriod time.Duration  `json:"resetPeriod" yaml:"resetPeriod"`

	// Staking policy
	AutoStake             bool  `json:"autoStake" yaml:"autoStake"`
	StakeTargetPercentage uint8 `json:"stakeTargetPercentage" yaml:"stakeTargetPercentage"`

	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
}

// ValidateSigners checks signer uniqueness and the threshold range
func ValidateSigners(signers []common.Address, threshold uint8) error {
	if len(lo.Uniq(signers)) != len(signers) {
		return domain.ErrDuplicateSigner
	}
	if threshold < 1 || int(threshold) > len(signers) {
		return fmt.Errorf("%w: threshold %d with %d signers", domain.ErrInvalidSignatureThreshold, threshold, len(signers))
	}
	return nil
}

// ValidateStakePercentage checks the stake target range
func ValidateStakePercentage(percentage uint8) error {
	if percentage > MaxStakeTargetPercentage {
		return fmt.Errorf("%w: got %d", domain.ErrInvalidStakePercentage, percentage)
	}
	return nil
}

// ValidateResetPeriod requires a positive spending-limit reset period
func ValidateResetPeriod(period time.Duration) error {
	if period <= 0 {
		return fmt.Errorf("%w: reset period must be positive", domain.ErrInvalidSchedule)
	}
	return nil
}

// Validate checks every configuration invariant of the treasury
func (t *Treasury) Validate() error {
	if err := domain.ValidateName(t.Name); err != nil {
		return err
	}
	if err := ValidateSigners(t.Signers, t.Threshold); err != nil {
		return err
	}
	if err := ValidateStakePercentage(t.StakeTargetPercentage); err != nil {
		return err
	}
	return ValidateResetPeriod(t.ResetPeriod)
}

// IsSigner reports whether addr is one of the configured co-signers
func (t *Treasury) IsSigner(addr common.Address) bool {
	return lo.Contains(t.Signers, addr)
}

// Available is the amount the treasury may still pay out:
// deposits plus yield, minus withdrawals and staked principal.
func (t *Treasury) Available() uint64 {
	in := t.TotalDeposited + t.TotalYield
	out := t.TotalWithdrawn + t.TotalStaked
	if out >= in {
		return 0
	}
	return in - out
}

// RecordDeposit credits the deposited counter
func (t *Treasury) RecordDeposit(amount uint64) error {
	total, err := domain.AddAmount(t.TotalDeposited, amount)
	if err != nil {
		return err
	}
	t.TotalDeposited = total
	return nil
}

// RecordWithdrawal debits available funds. It fails without mutating when the
// withdrawal would exceed deposits plus yield.
func (t *Treasury) RecordWithdrawal(amount uint64) error {
	if amount > t.Available() {
		return fmt.Errorf("%w: requested %d, available %d", domain.ErrInsufficientFunds, amount, t.Available())
	}
	t.TotalWithdrawn += amount
	return nil
}

// RecordStake moves available funds into staked principal
func (t *Treasury) RecordStake(amount uint64) error {
	if amount > t.Available() {
		return fmt.Errorf("%w: requested %d, available %d", domain.ErrInsufficientFunds, amount, t.Available())
	}
	t.TotalStaked += amount
	return nil
}

// RecordUnstake returns principal from the yield service along with any reward
func (t *Treasury) RecordUnstake(principal, reward uint64) error {
	if principal > t.TotalStaked {
		return fmt.Errorf("%w: requested %d, staked %d", domain.ErrInsufficientFunds, principal, t.TotalStaked)
	}
	yield, err := domain.AddAmount(t.TotalYield, reward)
	if err != nil {
		return err
	}
	t.TotalStaked -= principal
	t.TotalYield = yield
	return nil
}

// StakeTarget is the staked amount the auto-stake policy aims for
func (t *Treasury) StakeTarget() uint64 {
	base, err := domain.AddAmount(t.Available(), t.TotalStaked)
	if err != nil {
		base = math.MaxUint64
	}
	pct := min(uint64(t.StakeTargetPercentage), MaxStakeTargetPercentage)
	// base*pct fits in 128 bits and the quotient fits in 64 since pct <= 100
	hi, low := bits.Mul64(base, pct)
	target, _ := bits.Div64(hi, low, 100)
	return target
}
