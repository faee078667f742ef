package adapters

import (
	"fmt"
	"log/slog"

	"github.com/google/wire"
	"github.com/trebuchet-org/treasury-cli/internal/adapters/clock"
	"github.com/trebuchet-org/treasury-cli/internal/adapters/interactive"
	"github.com/trebuchet-org/treasury-cli/internal/adapters/ledger"
	"github.com/trebuchet-org/treasury-cli/internal/adapters/progress"
	"github.com/trebuchet-org/treasury-cli/internal/adapters/repository/records"
	"github.com/trebuchet-org/treasury-cli/internal/adapters/repository/treasury"
	"github.com/trebuchet-org/treasury-cli/internal/adapters/yield"
	"github.com/trebuchet-org/treasury-cli/internal/domain/config"
	"github.com/trebuchet-org/treasury-cli/internal/usecase"
)

// Backend names inside the data directory. The ledger keeps its own backend
// so a payout can call it while the treasury store is locked.
const (
	treasuryBackendName = "treasury"
	ledgerBackendName   = "ledger"
)

// ProvideTreasuryStore opens the treasury records backend
func ProvideTreasuryStore(cfg *config.RuntimeConfig) (*treasury.Store, func(), error) {
	backend, err := records.Open(cfg.Storage, cfg.DataDir, treasuryBackendName)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open treasury store: %w", err)
	}
	return treasury.NewStore(backend), func() { _ = backend.Close() }, nil
}

// ProvideLedger opens the ledger records backend
func ProvideLedger(cfg *config.RuntimeConfig, log *slog.Logger) (*ledger.Ledger, func(), error) {
	backend, err := records.Open(cfg.Storage, cfg.DataDir, ledgerBackendName)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open ledger: %w", err)
	}
	return ledger.NewLedger(backend, log), func() { _ = backend.Close() }, nil
}

// StorageSet provides the persistent stores
var StorageSet = wire.NewSet(
	ProvideTreasuryStore,
	wire.Bind(new(usecase.TreasuryStore), new(*treasury.Store)),

	ProvideLedger,
	wire.Bind(new(usecase.TransferService), new(*ledger.Ledger)),
	wire.Bind(new(usecase.Funder), new(*ledger.Ledger)),
)

// YieldSet provides the staking pool
var YieldSet = wire.NewSet(
	yield.NewStakePool,
	wire.Bind(new(usecase.YieldService), new(*yield.StakePool)),
)

// ClockSet provides the wall clock
var ClockSet = wire.NewSet(
	clock.NewSystem,
	wire.Bind(new(usecase.Clock), new(*clock.System)),
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewPrompter,
	wire.Bind(new(usecase.Confirmer), new(*interactive.Prompter)),
	wire.Bind(new(usecase.ProposalSelector), new(*interactive.Prompter)),
)

// ProgressSet provides the progress sink for long-running commands
var ProgressSet = wire.NewSet(
	progress.NewProgressSink,
)

// AllAdapters includes all adapter providers
var AllAdapters = wire.NewSet(
	StorageSet,
	YieldSet,
	ClockSet,
	InteractiveSet,
	ProgressSet,
)
