package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/treasury-cli/internal/app"
	"github.com/trebuchet-org/treasury-cli/internal/config"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey contextKey = "app"
)

// Execute builds the root command, runs it and releases whatever the
// command opened
func Execute(ctx context.Context) error {
	rootCmd, release := newRootCmd()
	defer release()
	return rootCmd.ExecuteContext(ctx)
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd, _ := newRootCmd()
	return rootCmd
}

func newRootCmd() (*cobra.Command, func()) {
	var cleanups []func()
	release := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
		cleanups = nil
	}

	rootCmd := &cobra.Command{
		Use:   "treasury",
		Short: "Governance and disbursement control for shared treasuries",
		Long: `treasury manages a shared vault of funds: signers and approval thresholds,
tiered roles with rolling spending limits, recipient whitelists, payment
streams, recurring and milestone payouts, proposals and staking.

Every command acts as the caller given by --as (or TREASURY_CALLER) on the
treasury given by --treasury (or TREASURY_TREASURY).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip for help/version commands
			if cmd.Name() == "version" || cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}

			workDir, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to resolve working directory: %w", err)
			}

			// Set up viper with the command's flags bound
			v := config.SetupViper(workDir, cmd)

			// Initialize app with DI
			appInstance, cleanup, err := app.InitApp(v)
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}
			cleanups = append(cleanups, cleanup)

			// Store app in context
			ctx := context.WithValue(cmd.Context(), appKey, appInstance)

			// Add timeout if configured
			if appInstance.Config.Timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, appInstance.Config.Timeout)
				cleanups = append(cleanups, cancel)
			}

			cmd.SetContext(ctx)
			return nil
		},
	}

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.String("as", "", "Caller address the command acts as")
	flags.StringP("treasury", "t", "", "Treasury name")
	flags.String("data-dir", "", "Directory holding the treasury and ledger stores (default .treasury)")
	flags.String("storage", "", "Storage backend: file or sqlite")
	flags.Bool("json", false, "Output results as JSON")
	flags.StringP("output", "o", "", "Output format: table, json or yaml")
	flags.Int32("decimals", 0, "Decimal places used to read and display amounts")
	flags.Bool("non-interactive", false, "Disable interactive prompts")
	flags.Bool("debug", false, "Enable debug output")

	// Add command groups
	rootCmd.AddGroup(&cobra.Group{
		ID:    "treasury",
		Title: "Treasury Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "funds",
		Title: "Funds Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "schedules",
		Title: "Schedule Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "governance",
		Title: "Governance Commands",
	})

	addToGroup(rootCmd, "treasury",
		NewInitCmd(),
		NewConfigCmd(),
		NewShowCmd(),
		NewPauseCmd(),
		NewResumeCmd(),
		NewRoleCmd(),
		NewWhitelistCmd(),
	)
	addToGroup(rootCmd, "funds",
		NewDepositCmd(),
		NewWithdrawCmd(),
		NewBatchCmd(),
		NewStakeCmd(),
		NewUnstakeCmd(),
		NewLedgerCmd(),
	)
	addToGroup(rootCmd, "schedules",
		NewStreamCmd(),
		NewRecurringCmd(),
		NewMilestoneCmd(),
		NewSchedulesCmd(),
	)
	addToGroup(rootCmd, "governance",
		NewProposalCmd(),
	)

	// Version command
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd, release
}

func addToGroup(root *cobra.Command, group string, cmds ...*cobra.Command) {
	for _, cmd := range cmds {
		cmd.GroupID = group
		root.AddCommand(cmd)
	}
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	appInstance := cmd.Context().Value(appKey)
	if appInstance == nil {
		return nil, fmt.Errorf("app not initialized")
	}

	app, ok := appInstance.(*app.App)
	if !ok {
		return nil, fmt.Errorf("invalid app instance")
	}

	return app, nil
}
