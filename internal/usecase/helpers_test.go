package usecase_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/treasury-cli/internal/adapters/clock"
	"github.com/trebuchet-org/treasury-cli/internal/adapters/ledger"
	"github.com/trebuchet-org/treasury-cli/internal/adapters/repository/records"
	"github.com/trebuchet-org/treasury-cli/internal/adapters/repository/treasury"
	"github.com/trebuchet-org/treasury-cli/internal/adapters/yield"
	"github.com/trebuchet-org/treasury-cli/internal/domain"
	"github.com/trebuchet-org/treasury-cli/internal/domain/config"
	"github.com/trebuchet-org/treasury-cli/internal/domain/models"
	"github.com/trebuchet-org/treasury-cli/internal/usecase"
)

var (
	authority = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	alice     = common.HexToAddress("0x00000000000000000000000000000000000000b1")
	bob       = common.HexToAddress("0x00000000000000000000000000000000000000b2")
	carol     = common.HexToAddress("0x00000000000000000000000000000000000000b3")
	payee     = common.HexToAddress("0x00000000000000000000000000000000000000c1")
	outsider  = common.HexToAddress("0x00000000000000000000000000000000000000d1")

	t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
)

const (
	day        = 24 * time.Hour
	treasuryID = "dao"
)

var defaultLimits = models.SpendingLimits{Admin: 100_000, Treasurer: 10_000, Contributor: 1_000}

// env wires the use cases to the local adapters in a temp directory
type env struct {
	store  *treasury.Store
	ledger *ledger.Ledger
	clock  *clock.Fixed
	log    *slog.Logger
}

func newEnv(t *testing.T) *env {
	t.Helper()
	dir := t.TempDir()

	storeBackend, err := records.Open(config.StorageFile, dir, "treasury")
	require.NoError(t, err)
	ledgerBackend, err := records.Open(config.StorageFile, dir, "ledger")
	require.NoError(t, err)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &env{
		store:  treasury.NewStore(storeBackend),
		ledger: ledger.NewLedger(ledgerBackend, log),
		clock:  &clock.Fixed{T: t0},
		log:    log,
	}
}

func (e *env) stakePool() *yield.StakePool {
	return yield.NewStakePool(e.ledger, e.log)
}

// setup creates the "dao" treasury with alice, bob and carol as 2-of-3 signers
func (e *env) setup(t *testing.T, mutate ...func(*usecase.InitializeTreasuryParams)) *models.Treasury {
	t.Helper()
	params := usecase.InitializeTreasuryParams{
		Name:        treasuryID,
		Authority:   authority,
		Signers:     []common.Address{alice, bob, carol},
		Threshold:   2,
		Limits:      defaultLimits,
		ResetPeriod: day,
	}
	for _, m := range mutate {
		m(&params)
	}
	res, err := usecase.NewInitializeTreasury(e.store, e.clock, e.log).Run(context.Background(), params)
	require.NoError(t, err)
	return res.Treasury
}

func (e *env) assign(t *testing.T, user common.Address, tier models.RoleTier, caps ...models.Capability) {
	t.Helper()
	_, err := usecase.NewAssignRole(e.store, e.clock, e.log).Run(context.Background(), usecase.AssignRoleParams{
		Treasury:     treasuryID,
		Caller:       authority,
		User:         user,
		Tier:         tier,
		Capabilities: models.CapabilitiesOf(caps...),
	})
	require.NoError(t, err)
}

// fund deposits native funds into the vault from a freshly credited depositor
func (e *env) fund(t *testing.T, amount uint64) {
	t.Helper()
	ctx := context.Background()
	_, err := e.ledger.Credit(ctx, outsider, domain.NativeAsset, amount)
	require.NoError(t, err)
	_, err = usecase.NewDeposit(e.store, e.ledger, e.stakePool(), e.log).Run(ctx, usecase.DepositParams{
		Treasury: treasuryID,
		Caller:   outsider,
		Asset:    domain.NativeAsset,
		Amount:   amount,
	})
	require.NoError(t, err)
}

func (e *env) current(t *testing.T) *models.Treasury {
	t.Helper()
	var out *models.Treasury
	require.NoError(t, e.store.Atomic(context.Background(), func(tx usecase.StoreTx) error {
		var err error
		out, err = tx.GetTreasury(treasuryID)
		return err
	}))
	return out
}

func (e *env) role(t *testing.T, user common.Address) *models.Role {
	t.Helper()
	var out *models.Role
	require.NoError(t, e.store.Atomic(context.Background(), func(tx usecase.StoreTx) error {
		var err error
		out, err = tx.GetRole(domain.TreasuryAddress(treasuryID), user)
		return err
	}))
	return out
}

func (e *env) balance(t *testing.T, owner common.Address) uint64 {
	t.Helper()
	b, err := e.ledger.Balance(context.Background(), owner, domain.NativeAsset)
	require.NoError(t, err)
	return b
}

// MockTransferService is a mock implementation of TransferService
type MockTransferService struct {
	mock.Mock
}

func (m *MockTransferService) Transfer(ctx context.Context, legs ...models.Transfer) (*models.Receipt, error) {
	args := m.Called(ctx, legs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Receipt), args.Error(1)
}

func (m *MockTransferService) Balance(ctx context.Context, owner, asset common.Address) (uint64, error) {
	args := m.Called(ctx, owner, asset)
	return args.Get(0).(uint64), args.Error(1)
}

// MockProgressSink records progress events
type MockProgressSink struct {
	events []usecase.ProgressEvent
	infos  []string
}

func (m *MockProgressSink) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	m.events = append(m.events, event)
}

func (m *MockProgressSink) Info(message string) {
	m.infos = append(m.infos, message)
}
