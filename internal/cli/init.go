package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/treasury-cli/internal/cli/render"
	"github.com/trebuchet-org/treasury-cli/internal/config"
	"github.com/trebuchet-org/treasury-cli/internal/domain/models"
	"github.com/trebuchet-org/treasury-cli/internal/usecase"
)

// limitFlags holds the spending limit flags shared by init and config
type limitFlags struct {
	admin       string
	treasurer   string
	contributor string
	resetPeriod string
}

func (f *limitFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.admin, "admin-limit", "", "Spending limit per window for admins")
	cmd.Flags().StringVar(&f.treasurer, "treasurer-limit", "", "Spending limit per window for treasurers")
	cmd.Flags().StringVar(&f.contributor, "contributor-limit", "", "Spending limit per window for contributors and custom tiers")
	cmd.Flags().StringVar(&f.resetPeriod, "reset-period", "", "Spending window length, e.g. 24h or 7d")
}

// apply overrides limits with every flag that was given
func (f *limitFlags) apply(limits *models.SpendingLimits, decimals int32) (changed bool, err error) {
	for _, l := range []struct {
		value  string
		target *uint64
	}{
		{f.admin, &limits.Admin},
		{f.treasurer, &limits.Treasurer},
		{f.contributor, &limits.Contributor},
	} {
		if l.value == "" {
			continue
		}
		if *l.target, err = parseAmount(l.value, decimals); err != nil {
			return false, err
		}
		changed = true
	}
	return changed, nil
}

// NewInitCmd creates the init command
func NewInitCmd() *cobra.Command {
	var (
		file             string
		signers          []string
		threshold        uint8
		limits           limitFlags
		autoStake        bool
		stakeTarget      uint8
		whitelistEnabled bool
	)

	cmd := &cobra.Command{
		Use:   "init [name]",
		Short: "Create a treasury",
		Long: `Create a treasury owned by the caller. The caller becomes the authority,
which may change configuration, assign roles and pause payouts.

The policy can come from a TOML file or from flags; flags override the file.

Examples:
  treasury init dao --as 0xA1.. --signer 0xB1..,0xB2..,0xB3.. --threshold 2 \
    --admin-limit 100000 --treasurer-limit 10000 --contributor-limit 1000
  treasury init --file policy.toml --as 0xA1..`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			caller, err := config.RequireCaller(app.Config)
			if err != nil {
				return err
			}

			params := usecase.InitializeTreasuryParams{
				Authority:   caller,
				ResetPeriod: config.DefaultResetPeriod,
			}
			if file != "" {
				policy, err := config.LoadPolicyFile(file)
				if err != nil {
					return err
				}
				params = usecase.InitializeTreasuryParams{
					Name:                  policy.Name,
					Authority:             caller,
					Signers:               policy.Signers,
					Threshold:             policy.Threshold,
					Limits:                policy.Limits,
					ResetPeriod:           policy.ResetPeriod,
					AutoStake:             policy.AutoStake,
					StakeTargetPercentage: policy.StakeTargetPercentage,
					WhitelistEnabled:      policy.WhitelistEnabled,
					Whitelist:             policy.Whitelist,
				}
			}

			if len(args) == 1 {
				params.Name = args[0]
			}
			if params.Name == "" {
				if params.Name, err = config.RequireTreasury(app.Config, ""); err != nil {
					return fmt.Errorf("treasury name required: %w", err)
				}
			}

			if len(signers) > 0 {
				if params.Signers, err = parseAddresses(signers); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("threshold") {
				params.Threshold = threshold
			}
			if _, err := limits.apply(&params.Limits, app.Config.Decimals); err != nil {
				return err
			}
			if limits.resetPeriod != "" {
				if params.ResetPeriod, err = parseDuration(limits.resetPeriod); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("auto-stake") {
				params.AutoStake = autoStake
			}
			if cmd.Flags().Changed("stake-target") {
				params.StakeTargetPercentage = stakeTarget
			}
			if cmd.Flags().Changed("whitelist-enabled") {
				params.WhitelistEnabled = whitelistEnabled
			}

			result, err := app.InitializeTreasury.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			renderer := render.NewTreasuryRenderer(render.NewPrinter(cmd.OutOrStdout(), app.Config))
			return renderer.RenderInitialized(result)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "TOML policy file")
	cmd.Flags().StringSliceVar(&signers, "signer", nil, "Signer address (repeatable or comma separated)")
	cmd.Flags().Uint8Var(&threshold, "threshold", 0, "Approving votes needed to pass a proposal")
	limits.register(cmd)
	cmd.Flags().BoolVar(&autoStake, "auto-stake", false, "Stake native deposits automatically")
	cmd.Flags().Uint8Var(&stakeTarget, "stake-target", 0, "Share of funds to keep staked, in percent")
	cmd.Flags().BoolVar(&whitelistEnabled, "whitelist-enabled", false, "Only pay whitelisted recipients")

	return cmd
}
