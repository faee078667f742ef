package models

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/treasury-cli/internal/domain"
)

// AuthScope selects whether the treasury authority is implicitly allowed
type AuthScope int

const (
	// ScopeConfig covers configuration-level operations: limits, threshold,
	// role assignment, pause and whitelist edits. The authority is allowed.
	ScopeConfig AuthScope = iota
	// ScopeRole requires a role record carrying the capability, whoever the caller is.
	ScopeRole
)

// Caller is the authenticated identity behind an operation, resolved against
// a treasury. It is one of TreasuryAuthority, RoleHolder or Unprivileged.
type Caller interface {
	Identity() common.Address
	role() *Role
}

// TreasuryAuthority is the treasury's owning authority. It may also hold a role.
type TreasuryAuthority struct {
	Address common.Address
	Role    *Role
}

func (c TreasuryAuthority) Identity() common.Address { return c.Address }
func (c TreasuryAuthority) role() *Role              { return c.Role }

// RoleHolder is a non-authority caller with a role record
type RoleHolder struct {
	Role *Role
}

func (c RoleHolder) Identity() common.Address { return c.Role.User }
func (c RoleHolder) role() *Role              { return c.Role }

// Unprivileged is a caller with no role record
type Unprivileged struct {
	Address common.Address
}

func (c Unprivileged) Identity() common.Address { return c.Address }
func (c Unprivileged) role() *Role              { return nil }

// ResolveCaller classifies addr for the given treasury. role may be nil.
func ResolveCaller(treasury *Treasury, addr common.Address, role *Role) Caller {
	if addr == treasury.Authority {
		return TreasuryAuthority{Address: addr, Role: role}
	}
	if role != nil {
		return RoleHolder{Role: role}
	}
	return Unprivileged{Address: addr}
}

// Authorize is the permission predicate. It returns the caller's role record
// when one backs the decision; for the authority under ScopeConfig the role may be nil.
func Authorize(caller Caller, capability Capability, scope AuthScope) (*Role, error) {
	if _, ok := caller.(TreasuryAuthority); ok && scope == ScopeConfig {
		return caller.role(), nil
	}
	role := caller.role()
	if role == nil || !role.Capabilities.Has(capability) {
		return nil, fmt.Errorf("%w: %s lacks %s", domain.ErrInsufficientPermissions, caller.Identity().Hex(), capability)
	}
	return role, nil
}

// IsAuthority reports whether the caller is the treasury authority
func IsAuthority(caller Caller) bool {
	_, ok := caller.(TreasuryAuthority)
	return ok
}
