package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/treasury-cli/internal/domain"
	"github.com/trebuchet-org/treasury-cli/internal/domain/config"
	"github.com/trebuchet-org/treasury-cli/internal/domain/models"
)

// Policy is a decoded treasury policy file with addresses and durations parsed
type Policy struct {
	Name                  string
	Signers               []common.Address
	Threshold             uint8
	Limits                models.SpendingLimits
	ResetPeriod           time.Duration
	AutoStake             bool
	StakeTargetPercentage uint8
	WhitelistEnabled      bool
	Whitelist             map[common.Address]string
}

// DefaultResetPeriod applies when a policy file omits limits.reset_period
const DefaultResetPeriod = 24 * time.Hour

// LoadPolicyFile decodes a TOML policy file
func LoadPolicyFile(path string) (*Policy, error) {
	var raw config.PolicyFile
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse policy file %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown keys in policy file %s: %v", path, undecoded)
	}
	return parsePolicy(&raw)
}

func parsePolicy(raw *config.PolicyFile) (*Policy, error) {
	policy := &Policy{
		Name:      raw.Name,
		Threshold: raw.Threshold,
		Limits: models.SpendingLimits{
			Admin:       raw.Limits.Admin,
			Treasurer:   raw.Limits.Treasurer,
			Contributor: raw.Limits.Contributor,
		},
		ResetPeriod:           DefaultResetPeriod,
		AutoStake:             raw.Staking.AutoStake,
		StakeTargetPercentage: raw.Staking.TargetPercentage,
		WhitelistEnabled:      raw.Whitelist.Enabled,
		Whitelist:             make(map[common.Address]string, len(raw.Whitelist.Recipients)),
	}

	for _, s := range raw.Signers {
		addr, err := domain.ParseAddress(s)
		if err != nil {
			return nil, fmt.Errorf("signer %q: %w", s, err)
		}
		policy.Signers = append(policy.Signers, addr)
	}

	if raw.Limits.ResetPeriod != "" {
		d, err := time.ParseDuration(raw.Limits.ResetPeriod)
		if err != nil {
			return nil, fmt.Errorf("limits.reset_period: %w", err)
		}
		policy.ResetPeriod = d
	}

	for s, label := range raw.Whitelist.Recipients {
		addr, err := domain.ParseAddress(s)
		if err != nil {
			return nil, fmt.Errorf("whitelist recipient %q: %w", s, err)
		}
		policy.Whitelist[addr] = label
	}

	return policy, nil
}
