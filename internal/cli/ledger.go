package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/treasury-cli/internal/cli/render"
	"github.com/trebuchet-org/treasury-cli/internal/config"
	"github.com/trebuchet-org/treasury-cli/internal/domain"
	"github.com/trebuchet-org/treasury-cli/internal/usecase"
)

// NewLedgerCmd creates the ledger command group
func NewLedgerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Inspect and fund the local asset ledger",
		Long: `The ledger holds the balances that deposits and payouts move between.
Funding credits an account out of thin air and exists for local testing.`,
	}

	cmd.AddCommand(newLedgerFundCmd())
	cmd.AddCommand(newLedgerBalanceCmd())

	return cmd
}

func newLedgerFundCmd() *cobra.Command {
	var asset string

	cmd := &cobra.Command{
		Use:   "fund <owner> <amount>",
		Short: "Credit an account on the local ledger",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			params, err := holdingParams(args[0], asset)
			if err != nil {
				return err
			}
			if params.Amount, err = parseAmount(args[1], app.Config.Decimals); err != nil {
				return err
			}

			receipt, err := app.FundAccount.Run(cmd.Context(), params)
			if err != nil {
				return err
			}
			return render.NewPayoutRenderer(render.NewPrinter(cmd.OutOrStdout(), app.Config)).RenderFunded(receipt)
		},
	}

	cmd.Flags().StringVar(&asset, "asset", "native", "Asset to credit: native or a token address")

	return cmd
}

func newLedgerBalanceCmd() *cobra.Command {
	var (
		asset string
		vault bool
	)

	cmd := &cobra.Command{
		Use:   "balance [owner]",
		Short: "Show a ledger balance",
		Long: `Show the ledger balance of an account. Without an owner the caller's
balance is shown; --vault shows the selected treasury's vault.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			var owner string
			switch {
			case len(args) == 1:
				owner = args[0]
			case vault:
				name, err := config.RequireTreasury(app.Config, "")
				if err != nil {
					return err
				}
				owner = domain.TreasuryAddress(name).Hex()
			default:
				caller, err := config.RequireCaller(app.Config)
				if err != nil {
					return err
				}
				owner = caller.Hex()
			}

			params, err := holdingParams(owner, asset)
			if err != nil {
				return err
			}
			holding, err := app.ShowBalance.Run(cmd.Context(), params)
			if err != nil {
				return err
			}
			return render.NewPayoutRenderer(render.NewPrinter(cmd.OutOrStdout(), app.Config)).RenderHolding(holding)
		},
	}

	cmd.Flags().StringVar(&asset, "asset", "native", "Asset to show: native or a token address")
	cmd.Flags().BoolVar(&vault, "vault", false, "Show the treasury vault balance")

	return cmd
}

func holdingParams(owner, asset string) (usecase.HoldingParams, error) {
	ownerAddr, err := domain.ParseAddress(owner)
	if err != nil {
		return usecase.HoldingParams{}, err
	}
	assetAddr, err := domain.ParseAsset(asset)
	if err != nil {
		return usecase.HoldingParams{}, err
	}
	return usecase.HoldingParams{Owner: ownerAddr, Asset: assetAddr}, nil
}
