package models_test

import (
	"errors"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/treasury-cli/internal/domain"
	"github.com/trebuchet-org/treasury-cli/internal/domain/models"
)

var (
	authority = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	alice     = common.HexToAddress("0x00000000000000000000000000000000000000b1")
	bob       = common.HexToAddress("0x00000000000000000000000000000000000000b2")
	carol     = common.HexToAddress("0x00000000000000000000000000000000000000b3")
	t0        = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
)

func TestRole_CheckAndRecord(t *testing.T) {
	const limit = 1000
	day := 24 * time.Hour

	t.Run("accumulates within limit", func(t *testing.T) {
		role := &models.Role{LastLimitReset: t0}
		require.NoError(t, role.CheckAndRecord(limit, day, 400, t0.Add(time.Hour)))
		require.NoError(t, role.CheckAndRecord(limit, day, 600, t0.Add(2*time.Hour)))
		assert.Equal(t, uint64(1000), role.SpendingLimitUsed)
		assert.Equal(t, t0, role.LastLimitReset)
	})

	t.Run("exceeding leaves role unchanged", func(t *testing.T) {
		role := &models.Role{SpendingLimitUsed: 900, LastLimitReset: t0}
		before := *role

		err := role.CheckAndRecord(limit, day, 101, t0.Add(time.Hour))
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrSpendingLimitExceeded))
		assert.Equal(t, before, *role)
	})

	t.Run("resets once period elapsed", func(t *testing.T) {
		role := &models.Role{SpendingLimitUsed: 1000, LastLimitReset: t0}
		now := t0.Add(day)

		require.NoError(t, role.CheckAndRecord(limit, day, 300, now))
		assert.Equal(t, uint64(300), role.SpendingLimitUsed)
		assert.Equal(t, now, role.LastLimitReset)
	})

	t.Run("failed charge after reset keeps old counters", func(t *testing.T) {
		role := &models.Role{SpendingLimitUsed: 1000, LastLimitReset: t0}

		err := role.CheckAndRecord(limit, day, 1001, t0.Add(2*day))
		assert.ErrorIs(t, err, domain.ErrSpendingLimitExceeded)
		assert.Equal(t, uint64(1000), role.SpendingLimitUsed)
		assert.Equal(t, t0, role.LastLimitReset)
	})

	t.Run("effective used reflects pending reset", func(t *testing.T) {
		role := &models.Role{SpendingLimitUsed: 700, LastLimitReset: t0}
		assert.Equal(t, uint64(700), role.EffectiveUsed(day, t0.Add(time.Hour)))
		assert.Equal(t, uint64(0), role.EffectiveUsed(day, t0.Add(day)))
		assert.Equal(t, uint64(300), role.Remaining(limit, day, t0.Add(time.Hour)))
	})
}

func TestSpendingLimits_For(t *testing.T) {
	limits := models.SpendingLimits{Admin: 3, Treasurer: 2, Contributor: 1}

	assert.Equal(t, uint64(3), limits.For(models.TierAdmin))
	assert.Equal(t, uint64(2), limits.For(models.TierTreasurer))
	assert.Equal(t, uint64(1), limits.For(models.TierContributor))
	assert.Equal(t, uint64(1), limits.For(models.RoleTier(7)))
}

func TestParseRoleTier(t *testing.T) {
	tests := []struct {
		in      string
		want    models.RoleTier
		wantErr bool
	}{
		{in: "admin", want: models.TierAdmin},
		{in: "Treasurer", want: models.TierTreasurer},
		{in: "contributor", want: models.TierContributor},
		{in: "custom-9", want: models.RoleTier(9)},
		{in: "5", want: models.RoleTier(5)},
		{in: "owner", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := models.ParseRoleTier(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAuthorize(t *testing.T) {
	treasury := &models.Treasury{Authority: authority}
	payer := &models.Role{User: alice, Tier: models.TierAdmin, Capabilities: models.CapabilitiesOf(models.CapExecutePayments)}
	viewer := &models.Role{User: bob, Tier: models.TierAdmin, Capabilities: models.CapabilitiesOf(models.CapViewTreasury)}

	t.Run("authority allowed for configuration", func(t *testing.T) {
		caller := models.ResolveCaller(treasury, authority, nil)
		_, err := models.Authorize(caller, models.CapManageRoles, models.ScopeConfig)
		assert.NoError(t, err)
	})

	t.Run("authority without role cannot pay", func(t *testing.T) {
		caller := models.ResolveCaller(treasury, authority, nil)
		_, err := models.Authorize(caller, models.CapExecutePayments, models.ScopeRole)
		assert.ErrorIs(t, err, domain.ErrInsufficientPermissions)
	})

	t.Run("role holder needs the exact capability", func(t *testing.T) {
		role, err := models.Authorize(models.ResolveCaller(treasury, alice, payer), models.CapExecutePayments, models.ScopeRole)
		require.NoError(t, err)
		assert.Same(t, payer, role)

		_, err = models.Authorize(models.ResolveCaller(treasury, bob, viewer), models.CapExecutePayments, models.ScopeRole)
		assert.ErrorIs(t, err, domain.ErrInsufficientPermissions)
	})

	t.Run("admin tier does not imply capabilities", func(t *testing.T) {
		_, err := models.Authorize(models.ResolveCaller(treasury, bob, viewer), models.CapManageRoles, models.ScopeConfig)
		assert.ErrorIs(t, err, domain.ErrInsufficientPermissions)
	})

	t.Run("unprivileged denied", func(t *testing.T) {
		caller := models.ResolveCaller(treasury, carol, nil)
		assert.IsType(t, models.Unprivileged{}, caller)
		_, err := models.Authorize(caller, models.CapVote, models.ScopeRole)
		assert.ErrorIs(t, err, domain.ErrInsufficientPermissions)
	})
}
