package yield_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/treasury-cli/internal/adapters/ledger"
	"github.com/trebuchet-org/treasury-cli/internal/adapters/repository/records"
	"github.com/trebuchet-org/treasury-cli/internal/adapters/yield"
	"github.com/trebuchet-org/treasury-cli/internal/domain"
	"github.com/trebuchet-org/treasury-cli/internal/domain/config"
	"github.com/trebuchet-org/treasury-cli/internal/domain/models"
)

func TestStakePool(t *testing.T) {
	ctx := context.Background()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	backend, err := records.Open(config.StorageFile, t.TempDir(), "ledger")
	require.NoError(t, err)
	l := ledger.NewLedger(backend, log)
	pool := yield.NewStakePool(l, log)

	treasury := &models.Treasury{Name: "dao", Address: domain.TreasuryAddress("dao")}
	poolAddr := domain.StakePoolAddress(treasury.Address)

	_, err = l.Credit(ctx, treasury.Address, domain.NativeAsset, 1000)
	require.NoError(t, err)

	_, err = pool.Stake(ctx, treasury, 400)
	require.NoError(t, err)
	treasury.TotalStaked = 400

	held, err := l.Balance(ctx, poolAddr, domain.NativeAsset)
	require.NoError(t, err)
	assert.Equal(t, uint64(400), held)

	// 40 of yield lands in the pool
	_, err = l.Credit(ctx, poolAddr, domain.NativeAsset, 40)
	require.NoError(t, err)

	out, err := pool.Unstake(ctx, treasury, 200)
	require.NoError(t, err)
	assert.Equal(t, uint64(200), out.Principal)
	assert.Equal(t, uint64(20), out.Reward)

	vault, err := l.Balance(ctx, treasury.Address, domain.NativeAsset)
	require.NoError(t, err)
	assert.Equal(t, uint64(820), vault)

	_, err = pool.Unstake(ctx, treasury, 500)
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
}
