package treasury_test

import (
	"context"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/treasury-cli/internal/adapters/repository/records"
	"github.com/trebuchet-org/treasury-cli/internal/adapters/repository/treasury"
	"github.com/trebuchet-org/treasury-cli/internal/domain"
	"github.com/trebuchet-org/treasury-cli/internal/domain/config"
	"github.com/trebuchet-org/treasury-cli/internal/domain/models"
	"github.com/trebuchet-org/treasury-cli/internal/usecase"
)

var (
	authority = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	alice     = common.HexToAddress("0x00000000000000000000000000000000000000b1")
	bob       = common.HexToAddress("0x00000000000000000000000000000000000000b2")
	t0        = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
)

func newStore(t *testing.T, storage config.StorageBackend) *treasury.Store {
	backend, err := records.Open(storage, t.TempDir(), "treasury")
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })
	return treasury.NewStore(backend)
}

func sampleTreasury() *models.Treasury {
	return &models.Treasury{
		Name:        "dao",
		Address:     domain.TreasuryAddress("dao"),
		Authority:   authority,
		Signers:     []common.Address{alice, bob},
		Threshold:   2,
		Limits:      models.SpendingLimits{Admin: 1000, Treasurer: 500, Contributor: 100},
		ResetPeriod: 24 * time.Hour,
		CreatedAt:   t0,
	}
}

func TestStore(t *testing.T) {
	ctx := context.Background()

	for _, storage := range []config.StorageBackend{config.StorageFile, config.StorageSQLite} {
		t.Run(string(storage), func(t *testing.T) {
			t.Run("treasury round trip", func(t *testing.T) {
				store := newStore(t, storage)
				want := sampleTreasury()

				require.NoError(t, store.Atomic(ctx, func(tx usecase.StoreTx) error {
					return tx.CreateTreasury(want)
				}))

				var got *models.Treasury
				require.NoError(t, store.Atomic(ctx, func(tx usecase.StoreTx) error {
					var err error
					got, err = tx.GetTreasury("dao")
					return err
				}))
				if diff := cmp.Diff(want, got); diff != "" {
					t.Errorf("treasury mismatch (-want +got):\n%s", diff)
				}
			})

			t.Run("create at taken address fails", func(t *testing.T) {
				store := newStore(t, storage)
				require.NoError(t, store.Atomic(ctx, func(tx usecase.StoreTx) error {
					return tx.CreateTreasury(sampleTreasury())
				}))

				err := store.Atomic(ctx, func(tx usecase.StoreTx) error {
					return tx.CreateTreasury(sampleTreasury())
				})
				assert.ErrorIs(t, err, domain.ErrAlreadyExists)
			})

			t.Run("missing records", func(t *testing.T) {
				store := newStore(t, storage)
				require.NoError(t, store.Atomic(ctx, func(tx usecase.StoreTx) error {
					_, err := tx.GetTreasury("nope")
					assert.ErrorIs(t, err, domain.ErrNotFound)
					_, err = tx.GetProposal(domain.TreasuryAddress("nope"), 1)
					assert.ErrorIs(t, err, domain.ErrNotFound)
					return nil
				}))
			})

			t.Run("lists are scoped and filtered", func(t *testing.T) {
				store := newStore(t, storage)
				dao := domain.TreasuryAddress("dao")
				other := domain.TreasuryAddress("other")

				require.NoError(t, store.Atomic(ctx, func(tx usecase.StoreTx) error {
					for id := uint64(3); id >= 1; id-- {
						require.NoError(t, tx.CreateProposal(&models.Proposal{Treasury: dao, ID: id, Status: models.ProposalStatusOpen}))
					}
					require.NoError(t, tx.CreateProposal(&models.Proposal{Treasury: other, ID: 1, Status: models.ProposalStatusOpen}))
					require.NoError(t, tx.CreateStream(&models.PaymentStream{Treasury: dao, Recipient: alice, Active: true}))
					require.NoError(t, tx.CreateStream(&models.PaymentStream{Treasury: dao, Recipient: bob, Active: false}))
					return nil
				}))

				require.NoError(t, store.Atomic(ctx, func(tx usecase.StoreTx) error {
					proposals, err := tx.ListProposals(dao, domain.ProposalFilter{})
					require.NoError(t, err)
					require.Len(t, proposals, 3)
					assert.Equal(t, []uint64{1, 2, 3}, []uint64{proposals[0].ID, proposals[1].ID, proposals[2].ID})

					active, err := tx.ListStreams(dao, domain.ScheduleFilter{})
					require.NoError(t, err)
					require.Len(t, active, 1)
					assert.Equal(t, alice, active[0].Recipient)

					all, err := tx.ListStreams(dao, domain.ScheduleFilter{IncludeInactive: true})
					require.NoError(t, err)
					assert.Len(t, all, 2)
					return nil
				}))
			})

			t.Run("role delete", func(t *testing.T) {
				store := newStore(t, storage)
				dao := domain.TreasuryAddress("dao")
				require.NoError(t, store.Atomic(ctx, func(tx usecase.StoreTx) error {
					return tx.CreateRole(&models.Role{Treasury: dao, User: alice})
				}))
				require.NoError(t, store.Atomic(ctx, func(tx usecase.StoreTx) error {
					return tx.DeleteRole(dao, alice)
				}))
				err := store.Atomic(ctx, func(tx usecase.StoreTx) error {
					return tx.DeleteRole(dao, alice)
				})
				assert.ErrorIs(t, err, domain.ErrNotFound)
			})
		})
	}
}
