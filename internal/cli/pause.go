package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/treasury-cli/internal/cli/render"
	"github.com/trebuchet-org/treasury-cli/internal/usecase"
)

// NewPauseCmd creates the pause command
func NewPauseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pause",
		Short: "Pause every payout of a treasury",
		Long: `Pause a treasury. While paused, deposits, withdrawals, batches, scheduled
payouts, proposal execution and staking are refused. Proposals, votes, role
and whitelist changes and reads keep working. Requires the authority or the
manage_roles capability.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}

			ok, err := s.Confirmer.Confirm(fmt.Sprintf("Pause treasury %s", s.treasury))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Aborted")
				return nil
			}

			result, err := s.PauseTreasury.Run(cmd.Context(), usecase.PauseParams{Treasury: s.treasury, Caller: s.caller})
			if err != nil {
				return err
			}
			return render.NewTreasuryRenderer(s.printer(cmd)).RenderPause(result)
		},
	}
}

// NewResumeCmd creates the resume command
func NewResumeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resume",
		Short: "Resume payouts of a paused treasury",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}

			result, err := s.ResumeTreasury.Run(cmd.Context(), usecase.PauseParams{Treasury: s.treasury, Caller: s.caller})
			if err != nil {
				return err
			}
			return render.NewTreasuryRenderer(s.printer(cmd)).RenderPause(result)
		},
	}
}
