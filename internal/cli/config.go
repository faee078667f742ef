package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/treasury-cli/internal/cli/render"
	"github.com/trebuchet-org/treasury-cli/internal/usecase"
)

// NewConfigCmd creates the config command
func NewConfigCmd() *cobra.Command {
	var (
		signers          []string
		threshold        uint8
		limits           limitFlags
		autoStake        bool
		stakeTarget      uint8
		whitelistEnabled bool
	)

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Update treasury configuration",
		Long: `Update the configuration of a treasury. Only the authority may do this.
Only the flags given are changed.

Examples:
  treasury config --threshold 3
  treasury config --signer 0xB1..,0xB2.. --threshold 1
  treasury config --contributor-limit 500 --reset-period 7d
  treasury config --whitelist-enabled`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}

			params := usecase.UpdateTreasuryConfigParams{
				Treasury: s.treasury,
				Caller:   s.caller,
			}

			if len(signers) > 0 {
				if params.Signers, err = parseAddresses(signers); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("threshold") {
				params.Threshold = &threshold
			}
			if limits.admin != "" || limits.treasurer != "" || limits.contributor != "" {
				current, err := s.ShowTreasury.Run(cmd.Context(), usecase.ShowTreasuryParams{Treasury: s.treasury, Caller: s.caller})
				if err != nil {
					return err
				}
				updated := current.Treasury.Limits
				if _, err := limits.apply(&updated, s.Config.Decimals); err != nil {
					return err
				}
				params.Limits = &updated
			}
			if limits.resetPeriod != "" {
				period, err := parseDuration(limits.resetPeriod)
				if err != nil {
					return err
				}
				params.ResetPeriod = &period
			}
			if cmd.Flags().Changed("auto-stake") {
				params.AutoStake = &autoStake
			}
			if cmd.Flags().Changed("stake-target") {
				params.StakeTargetPercentage = &stakeTarget
			}
			if cmd.Flags().Changed("whitelist-enabled") {
				params.WhitelistEnabled = &whitelistEnabled
			}

			treasury, err := s.UpdateTreasuryConfig.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			return render.NewTreasuryRenderer(s.printer(cmd)).RenderConfig(treasury)
		},
	}

	cmd.Flags().StringSliceVar(&signers, "signer", nil, "Replace the signer set (repeatable or comma separated)")
	cmd.Flags().Uint8Var(&threshold, "threshold", 0, "Approving votes needed to pass a proposal")
	limits.register(cmd)
	cmd.Flags().BoolVar(&autoStake, "auto-stake", false, "Stake native deposits automatically")
	cmd.Flags().Uint8Var(&stakeTarget, "stake-target", 0, "Share of funds to keep staked, in percent")
	cmd.Flags().BoolVar(&whitelistEnabled, "whitelist-enabled", false, "Only pay whitelisted recipients")

	return cmd
}
