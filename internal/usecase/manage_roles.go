package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/treasury-cli/internal/domain/models"
)

// AssignRoleParams contains parameters for granting a role
type AssignRoleParams struct {
	Treasury     string
	Caller       common.Address
	User         common.Address
	Tier         models.RoleTier
	Capabilities models.Capabilities
}

// AssignRole creates a role record for a user. Requires the authority or manage_roles.
type AssignRole struct {
	store TreasuryStore
	clock Clock
	log   *slog.Logger
}

// NewAssignRole creates a new AssignRole use case
func NewAssignRole(store TreasuryStore, clock Clock, log *slog.Logger) *AssignRole {
	return &AssignRole{
		store: store,
		clock: clock,
		log:   log.With("component", "AssignRole"),
	}
}

// Run creates the role. It fails with domain.ErrAlreadyExists when the user
// already holds a role in the treasury.
func (uc *AssignRole) Run(ctx context.Context, params AssignRoleParams) (*models.Role, error) {
	now := uc.clock.Now()
	var role *models.Role

	err := uc.store.Atomic(ctx, func(tx StoreTx) error {
		treasury, err := loadTreasury(tx, params.Treasury)
		if err != nil {
			return err
		}
		if _, err := authorize(tx, treasury, params.Caller, models.CapManageRoles, models.ScopeConfig); err != nil {
			return err
		}

		role = &models.Role{
			Treasury:       treasury.Address,
			User:           params.User,
			Tier:           params.Tier,
			Capabilities:   params.Capabilities,
			LastLimitReset: now,
			AssignedBy:     params.Caller,
			AssignedAt:     now,
		}
		if err := tx.CreateRole(role); err != nil {
			return fmt.Errorf("failed to assign role to %s: %w", params.User.Hex(), err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info("role assigned",
		"treasury", params.Treasury,
		"caller", params.Caller.Hex(),
		"user", params.User.Hex(),
		"tier", params.Tier.String(),
	)
	return role, nil
}

// RemoveRoleParams contains parameters for revoking a role
type RemoveRoleParams struct {
	Treasury string
	Caller   common.Address
	User     common.Address
}

// RemoveRole deletes a user's role record. Requires the authority or manage_roles.
type RemoveRole struct {
	store TreasuryStore
	log   *slog.Logger
}

// NewRemoveRole creates a new RemoveRole use case
func NewRemoveRole(store TreasuryStore, log *slog.Logger) *RemoveRole {
	return &RemoveRole{store: store, log: log.With("component", "RemoveRole")}
}

// Run removes the role and returns the record as it was before removal
func (uc *RemoveRole) Run(ctx context.Context, params RemoveRoleParams) (*models.Role, error) {
	var removed *models.Role

	err := uc.store.Atomic(ctx, func(tx StoreTx) error {
		treasury, err := loadTreasury(tx, params.Treasury)
		if err != nil {
			return err
		}
		if _, err := authorize(tx, treasury, params.Caller, models.CapManageRoles, models.ScopeConfig); err != nil {
			return err
		}

		removed, err = tx.GetRole(treasury.Address, params.User)
		if err != nil {
			return err
		}
		return tx.DeleteRole(treasury.Address, params.User)
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info("role removed", "treasury", params.Treasury, "caller", params.Caller.Hex(), "user", params.User.Hex())
	return removed, nil
}

// ListRolesParams contains parameters for listing roles
type ListRolesParams struct {
	Treasury string
	Caller   common.Address
}

// ListRolesResult contains the roles of a treasury with their current spend
type ListRolesResult struct {
	Treasury *models.Treasury
	Roles    []*models.Role
}

// ListRoles lists every role of a treasury. Requires the authority or view_treasury.
type ListRoles struct {
	store TreasuryStore
}

// NewListRoles creates a new ListRoles use case
func NewListRoles(store TreasuryStore) *ListRoles {
	return &ListRoles{store: store}
}

// Run lists the roles
func (uc *ListRoles) Run(ctx context.Context, params ListRolesParams) (*ListRolesResult, error) {
	result := &ListRolesResult{}

	err := uc.store.Atomic(ctx, func(tx StoreTx) error {
		treasury, err := loadTreasury(tx, params.Treasury)
		if err != nil {
			return err
		}
		if _, err := authorize(tx, treasury, params.Caller, models.CapViewTreasury, models.ScopeConfig); err != nil {
			return err
		}
		roles, err := tx.ListRoles(treasury.Address)
		if err != nil {
			return err
		}
		result.Treasury = treasury
		result.Roles = roles
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
