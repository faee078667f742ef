package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/treasury-cli/internal/cli/render"
	"github.com/trebuchet-org/treasury-cli/internal/domain"
	"github.com/trebuchet-org/treasury-cli/internal/usecase"
)

// NewShowCmd creates the show command
func NewShowCmd() *cobra.Command {
	var asset string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show treasury configuration and funds",
		Long: `Show the configuration, counters and vault balance of a treasury.
Requires the authority or the view_treasury capability.

Examples:
  treasury show
  treasury show --asset 0xE1..
  treasury show --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			assetAddr, err := domain.ParseAsset(asset)
			if err != nil {
				return err
			}

			result, err := s.ShowTreasury.Run(cmd.Context(), usecase.ShowTreasuryParams{
				Treasury: s.treasury,
				Caller:   s.caller,
				Asset:    assetAddr,
			})
			if err != nil {
				return err
			}

			return render.NewTreasuryRenderer(s.printer(cmd)).RenderOverview(result)
		},
	}

	cmd.Flags().StringVar(&asset, "asset", "native", "Asset whose vault balance is shown")

	return cmd
}
