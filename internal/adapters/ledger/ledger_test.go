package ledger_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/treasury-cli/internal/adapters/ledger"
	"github.com/trebuchet-org/treasury-cli/internal/adapters/repository/records"
	"github.com/trebuchet-org/treasury-cli/internal/domain"
	"github.com/trebuchet-org/treasury-cli/internal/domain/config"
	"github.com/trebuchet-org/treasury-cli/internal/domain/models"
)

var (
	vault = common.HexToAddress("0x00000000000000000000000000000000000000f1")
	alice = common.HexToAddress("0x00000000000000000000000000000000000000b1")
	bob   = common.HexToAddress("0x00000000000000000000000000000000000000b2")
	usdc  = common.HexToAddress("0x00000000000000000000000000000000000000c1")
)

func newLedger(t *testing.T) *ledger.Ledger {
	backend, err := records.Open(config.StorageFile, t.TempDir(), "ledger")
	require.NoError(t, err)
	return ledger.NewLedger(backend, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestLedger_Transfer(t *testing.T) {
	ctx := context.Background()

	t.Run("moves funds between holdings", func(t *testing.T) {
		l := newLedger(t)
		_, err := l.Credit(ctx, vault, domain.NativeAsset, 1000)
		require.NoError(t, err)

		receipt, err := l.Transfer(ctx,
			models.Transfer{From: vault, To: alice, Authority: vault, Asset: domain.NativeAsset, Amount: 300},
			models.Transfer{From: vault, To: bob, Authority: vault, Asset: domain.NativeAsset, Amount: 200},
		)
		require.NoError(t, err)
		assert.NotEmpty(t, receipt.ID)
		assert.Len(t, receipt.Legs, 2)

		for owner, want := range map[common.Address]uint64{vault: 500, alice: 300, bob: 200} {
			got, err := l.Balance(ctx, owner, domain.NativeAsset)
			require.NoError(t, err)
			assert.Equal(t, want, got, owner.Hex())
		}

		stored, err := l.Receipt(ctx, receipt.ID)
		require.NoError(t, err)
		assert.Equal(t, receipt.Legs, stored.Legs)
	})

	t.Run("insufficient funds applies nothing", func(t *testing.T) {
		l := newLedger(t)
		_, err := l.Credit(ctx, vault, domain.NativeAsset, 400)
		require.NoError(t, err)

		_, err = l.Transfer(ctx,
			models.Transfer{From: vault, To: alice, Authority: vault, Asset: domain.NativeAsset, Amount: 300},
			models.Transfer{From: vault, To: bob, Authority: vault, Asset: domain.NativeAsset, Amount: 200},
		)
		assert.ErrorIs(t, err, domain.ErrInsufficientFunds)

		got, err := l.Balance(ctx, vault, domain.NativeAsset)
		require.NoError(t, err)
		assert.Equal(t, uint64(400), got)
		got, err = l.Balance(ctx, alice, domain.NativeAsset)
		require.NoError(t, err)
		assert.Zero(t, got)
	})

	t.Run("assets are tracked separately", func(t *testing.T) {
		l := newLedger(t)
		_, err := l.Credit(ctx, vault, domain.NativeAsset, 1000)
		require.NoError(t, err)

		_, err = l.Transfer(ctx, models.Transfer{From: vault, To: alice, Authority: vault, Asset: usdc, Amount: 1})
		assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
	})

	t.Run("authority must own the source", func(t *testing.T) {
		l := newLedger(t)
		_, err := l.Credit(ctx, vault, domain.NativeAsset, 1000)
		require.NoError(t, err)

		_, err = l.Transfer(ctx, models.Transfer{From: vault, To: alice, Authority: alice, Asset: domain.NativeAsset, Amount: 1})
		assert.ErrorIs(t, err, domain.ErrAuthorityMismatch)
	})

	t.Run("no legs", func(t *testing.T) {
		l := newLedger(t)
		_, err := l.Transfer(ctx)
		assert.ErrorIs(t, err, domain.ErrInvalidBatch)
	})
}
