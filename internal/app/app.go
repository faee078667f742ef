package app

import (
	"github.com/trebuchet-org/treasury-cli/internal/domain/config"
	"github.com/trebuchet-org/treasury-cli/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig

	// Shared dependencies
	Confirmer usecase.Confirmer
	Selector  usecase.ProposalSelector

	// Treasury lifecycle
	InitializeTreasury   *usecase.InitializeTreasury
	UpdateTreasuryConfig *usecase.UpdateTreasuryConfig
	ShowTreasury         *usecase.ShowTreasury
	PauseTreasury        *usecase.PauseTreasury
	ResumeTreasury       *usecase.ResumeTreasury

	// Access control
	AssignRole               *usecase.AssignRole
	RemoveRole               *usecase.RemoveRole
	ListRoles                *usecase.ListRoles
	AddWhitelistRecipient    *usecase.AddWhitelistRecipient
	RemoveWhitelistRecipient *usecase.RemoveWhitelistRecipient
	ListWhitelist            *usecase.ListWhitelist

	// Funds
	Deposit       *usecase.Deposit
	Withdraw      *usecase.Withdraw
	BatchTransfer *usecase.BatchTransfer
	StakeForYield *usecase.StakeForYield
	Unstake       *usecase.Unstake

	// Schedules
	CreatePaymentStream    *usecase.CreatePaymentStream
	ExecuteStreamPayment   *usecase.ExecuteStreamPayment
	CancelPaymentStream    *usecase.CancelPaymentStream
	CreateRecurringPayment *usecase.CreateRecurringPayment
	ExecuteRecurring       *usecase.ExecuteRecurringPayment
	CancelRecurringPayment *usecase.CancelRecurringPayment
	CreateMilestone        *usecase.CreateMilestonePayment
	CompleteMilestone      *usecase.CompleteMilestone
	ListSchedules          *usecase.ListSchedules
	ExecuteDuePayments     *usecase.ExecuteDuePayments

	// Governance
	CreateProposal  *usecase.CreateProposal
	VoteOnProposal  *usecase.VoteOnProposal
	ExecuteProposal *usecase.ExecuteProposal
	ListProposals   *usecase.ListProposals

	// Ledger
	FundAccount *usecase.FundAccount
	ShowBalance *usecase.ShowBalance
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	confirmer usecase.Confirmer,
	selector usecase.ProposalSelector,
	initializeTreasury *usecase.InitializeTreasury,
	updateTreasuryConfig *usecase.UpdateTreasuryConfig,
	showTreasury *usecase.ShowTreasury,
	pauseTreasury *usecase.PauseTreasury,
	resumeTreasury *usecase.ResumeTreasury,
	assignRole *usecase.AssignRole,
	removeRole *usecase.RemoveRole,
	listRoles *usecase.ListRoles,
	addWhitelistRecipient *usecase.AddWhitelistRecipient,
	removeWhitelistRecipient *usecase.RemoveWhitelistRecipient,
	listWhitelist *usecase.ListWhitelist,
	deposit *usecase.Deposit,
	withdraw *usecase.Withdraw,
	batchTransfer *usecase.BatchTransfer,
	stakeForYield *usecase.StakeForYield,
	unstake *usecase.Unstake,
	createPaymentStream *usecase.CreatePaymentStream,
	executeStreamPayment *usecase.ExecuteStreamPayment,
	cancelPaymentStream *usecase.CancelPaymentStream,
	createRecurringPayment *usecase.CreateRecurringPayment,
	executeRecurring *usecase.ExecuteRecurringPayment,
	cancelRecurringPayment *usecase.CancelRecurringPayment,
	createMilestone *usecase.CreateMilestonePayment,
	completeMilestone *usecase.CompleteMilestone,
	listSchedules *usecase.ListSchedules,
	executeDuePayments *usecase.ExecuteDuePayments,
	createProposal *usecase.CreateProposal,
	voteOnProposal *usecase.VoteOnProposal,
	executeProposal *usecase.ExecuteProposal,
	listProposals *usecase.ListProposals,
	fundAccount *usecase.FundAccount,
	showBalance *usecase.ShowBalance,
) *App {
	return &App{
		Config:                   cfg,
		Confirmer:                confirmer,
		Selector:                 selector,
		InitializeTreasury:       initializeTreasury,
		UpdateTreasuryConfig:     updateTreasuryConfig,
		ShowTreasury:             showTreasury,
		PauseTreasury:            pauseTreasury,
		ResumeTreasury:           resumeTreasury,
		AssignRole:               assignRole,
		RemoveRole:               removeRole,
		ListRoles:                listRoles,
		AddWhitelistRecipient:    addWhitelistRecipient,
		RemoveWhitelistRecipient: removeWhitelistRecipient,
		ListWhitelist:            listWhitelist,
		Deposit:                  deposit,
		Withdraw:                 withdraw,
		BatchTransfer:            batchTransfer,
		StakeForYield:            stakeForYield,
		Unstake:                  unstake,
		CreatePaymentStream:      createPaymentStream,
		ExecuteStreamPayment:     executeStreamPayment,
		CancelPaymentStream:      cancelPaymentStream,
		CreateRecurringPayment:   createRecurringPayment,
		ExecuteRecurring:         executeRecurring,
		CancelRecurringPayment:   cancelRecurringPayment,
		CreateMilestone:          createMilestone,
		CompleteMilestone:        completeMilestone,
		ListSchedules:            listSchedules,
		ExecuteDuePayments:       executeDuePayments,
		CreateProposal:           createProposal,
		VoteOnProposal:           voteOnProposal,
		ExecuteProposal:          executeProposal,
		ListProposals:            listProposals,
		FundAccount:              fundAccount,
		ShowBalance:              showBalance,
	}
}
