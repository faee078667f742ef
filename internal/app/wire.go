//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/treasury-cli/internal/adapters"
	"github.com/trebuchet-org/treasury-cli/internal/config"
	"github.com/trebuchet-org/treasury-cli/internal/logging"
	"github.com/trebuchet-org/treasury-cli/internal/usecase"
)

// InitApp creates a fully wired App instance. The cleanup closes the
// stores opened for the run.
func InitApp(v *viper.Viper) (*App, func(), error) {
	wire.Build(
		// Configuration
		config.Provider,
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,

		// Use cases
		usecase.NewInitializeTreasury,
		usecase.NewUpdateTreasuryConfig,
		usecase.NewShowTreasury,
		usecase.NewPauseTreasury,
		usecase.NewResumeTreasury,
		usecase.NewAssignRole,
		usecase.NewRemoveRole,
		usecase.NewListRoles,
		usecase.NewAddWhitelistRecipient,
		usecase.NewRemoveWhitelistRecipient,
		usecase.NewListWhitelist,
		usecase.NewDeposit,
		usecase.NewWithdraw,
		usecase.NewBatchTransfer,
		usecase.NewStakeForYield,
		usecase.NewUnstake,
		usecase.NewCreatePaymentStream,
		usecase.NewExecuteStreamPayment,
		usecase.NewCancelPaymentStream,
		usecase.NewCreateRecurringPayment,
		usecase.NewExecuteRecurringPayment,
		usecase.NewCancelRecurringPayment,
		usecase.NewCreateMilestonePayment,
		usecase.NewCompleteMilestone,
		usecase.NewListSchedules,
		usecase.NewExecuteDuePayments,
		usecase.NewCreateProposal,
		usecase.NewVoteOnProposal,
		usecase.NewExecuteProposal,
		usecase.NewListProposals,
		usecase.NewFundAccount,
		usecase.NewShowBalance,

		// App
		NewApp,
	)
	return nil, nil, nil
}
