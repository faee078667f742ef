package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/treasury-cli/internal/domain"
)

// RoleTier is informational except for selecting the spending limit.
// Values above TierContributor are custom tiers.
type RoleTier uint8

const (
	TierAdmin       RoleTier = 0
	TierTreasurer   RoleTier = 1
	TierContributor RoleTier = 2
)

func (t RoleTier) String() string {
	switch t {
	case TierAdmin:
		return "admin"
	case TierTreasurer:
		return "treasurer"
	case TierContributor:
		return "contributor"
	default:
		return fmt.Sprintf("custom-%d", uint8(t))
	}
}

// IsCustom reports whether the tier is outside the three named tiers
func (t RoleTier) IsCustom() bool {
	return t > TierContributor
}

// ParseRoleTier accepts a tier name or its numeric value
func ParseRoleTier(s string) (RoleTier, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "admin":
		return TierAdmin, nil
	case "treasurer":
		return TierTreasurer, nil
	case "contributor":
		return TierContributor, nil
	}
	s = strings.TrimPrefix(s, "custom-")
	n, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return 0, fmt.Errorf("unknown role tier %q", s)
	}
	return RoleTier(n), nil
}

// Capability names one of the six independent role permissions
type Capability string

const (
	CapExecutePayments Capability = "execute_payments"
	CapCreateStreams   Capability = "create_streams"
	CapManageRoles     Capability = "manage_roles"
	CapViewTreasury    Capability = "view_treasury"
	CapPropose         Capability = "propose"
	CapVote            Capability = "vote"
)

// AllCapabilities in display order
var AllCapabilities = []Capability{
	CapExecutePayments,
	CapCreateStreams,
	CapManageRoles,
	CapViewTreasury,
	CapPropose,
	CapVote,
}

// ParseCapability validates a capability name
func ParseCapability(s string) (Capability, error) {
	c := Capability(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AllCapabilities {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown capability %q", s)
}

// Capabilities are explicit per role and never implied by tier
type Capabilities struct {
	ExecutePayments bool `json:"executePayments" yaml:"executePayments"`
	CreateStreams   bool `json:"createStreams" yaml:"createStreams"`
	ManageRoles     bool `json:"manageRoles" yaml:"manageRoles"`
	ViewTreasury    bool `json:"viewTreasury" yaml:"viewTreasury"`
	Propose         bool `json:"propose" yaml:"propose"`
	Vote            bool `json:"vote" yaml:"vote"`
}

// CapabilitiesOf builds a capability set from a list of names
func CapabilitiesOf(caps ...Capability) Capabilities {
	var c Capabilities
	for _, capability := range caps {
		c.set(capability)
	}
	return c
}

func (c *Capabilities) set(capability Capability) {
	switch capability {
	case CapExecutePayments:
		c.ExecutePayments = true
	case CapCreateStreams:
		c.CreateStreams = true
	case CapManageRoles:
		c.ManageRoles = true
	case CapViewTreasury:
		c.ViewTreasury = true
	case CapPropose:
		c.Propose = true
	case CapVote:
		c.Vote = true
	}
}

// Has reports whether the capability is granted
func (c Capabilities) Has(capability Capability) bool {
	switch capability {
	case CapExecutePayments:
		return c.ExecutePayments
	case CapCreateStreams:
		return c.CreateStreams
	case CapManageRoles:
		return c.ManageRoles
	case CapViewTreasury:
		return c.ViewTreasury
	case CapPropose:
		return c.Propose
	case CapVote:
		return c.Vote
	}
	return false
}

// List returns the granted capabilities in display order
func (c Capabilities) List() []Capability {
	var out []Capability
	for _, capability := range AllCapabilities {
		if c.Has(capability) {
			out = append(out, capability)
		}
	}
	return out
}

// Role binds a user to a treasury with a tier, capabilities and spend tracking
type Role struct {
	Treasury     common.Address `json:"treasury" yaml:"treasury"`
	User         common.Address `json:"user" yaml:"user"`
	Tier         RoleTier       `json:"tier" yaml:"tier"`
	Capabilities Capabilities   `json:"capabilities" yaml:"capabilities"`

	// Spend tracking, lazily reset once the treasury's reset period elapses
	SpendingLimitUsed uint64    `json:"spendingLimitUsed" yaml:"spendingLimitUsed"`
	LastLimitReset    time.Time `json:"lastLimitReset" yaml:"lastLimitReset"`

	AssignedBy common.Address `json:"assignedBy" yaml:"assignedBy"`
	AssignedAt time.Time      `json:"assignedAt" yaml:"assignedAt"`
}

// Address is the record address of the role
func (r *Role) Address() common.Address {
	return domain.RecipientRecordAddress(domain.SeedRole, r.Treasury, r.User)
}

// EffectiveUsed returns the used counter as of now, applying a due reset
// without mutating the role.
func (r *Role) EffectiveUsed(period time.Duration, now time.Time) uint64 {
	if r.resetDue(period, now) {
		return 0
	}
	return r.SpendingLimitUsed
}

func (r *Role) resetDue(period time.Duration, now time.Time) bool {
	return now.Sub(r.LastLimitReset) >= period
}

// Remaining is how much the role may still spend in the current period
func (r *Role) Remaining(limit uint64, period time.Duration, now time.Time) uint64 {
	used := r.EffectiveUsed(period, now)
	if used >= limit {
		return 0
	}
	return limit - used
}

// CheckAndRecord applies a due reset and then charges amount against limit.
// On failure the role is left untouched.
func (r *Role) CheckAndRecord(limit uint64, period time.Duration, amount uint64, now time.Time) error {
	used, reset := r.SpendingLimitUsed, r.LastLimitReset
	if r.resetDue(period, now) {
		used, reset = 0, now
	}

	total, err := domain.AddAmount(used, amount)
	if err != nil || total > limit {
		return fmt.Errorf("%w: used %d of %d, requested %d", domain.ErrSpendingLimitExceeded, used, limit, amount)
	}

	r.SpendingLimitUsed = total
	r.LastLimitReset = reset
	return nil
}
