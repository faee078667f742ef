package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/treasury-cli/internal/cli/render"
	"github.com/trebuchet-org/treasury-cli/internal/domain"
	"github.com/trebuchet-org/treasury-cli/internal/usecase"
)

// NewDepositCmd creates the deposit command
func NewDepositCmd() *cobra.Command {
	var asset string

	cmd := &cobra.Command{
		Use:   "deposit <amount>",
		Short: "Deposit funds into the treasury vault",
		Long: `Move funds from the caller's ledger holding into the treasury vault. Anyone
may deposit. With auto-stake on, part of a native deposit is staked straight
away to keep the staked share at the target.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			assetAddr, err := domain.ParseAsset(asset)
			if err != nil {
				return err
			}
			amount, err := parseAmount(args[0], s.Config.Decimals)
			if err != nil {
				return err
			}

			result, err := s.Deposit.Run(cmd.Context(), usecase.DepositParams{
				Treasury: s.treasury,
				Caller:   s.caller,
				Asset:    assetAddr,
				Amount:   amount,
			})
			if err != nil {
				return err
			}
			return render.NewPayoutRenderer(s.printer(cmd)).RenderDeposit(result)
		},
	}

	cmd.Flags().StringVar(&asset, "asset", "native", "Asset to deposit: native or a token address")

	return cmd
}

// NewWithdrawCmd creates the withdraw command
func NewWithdrawCmd() *cobra.Command {
	var asset string

	cmd := &cobra.Command{
		Use:   "withdraw <recipient> <amount>",
		Short: "Pay a recipient from the vault",
		Long: `Pay a recipient directly from the vault. The caller needs a role with the
execute_payments capability; the amount counts against the role's spending
limit and the recipient must be whitelisted when enforcement is on.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			recipient, err := domain.ParseAddress(args[0])
			if err != nil {
				return err
			}
			amount, err := parseAmount(args[1], s.Config.Decimals)
			if err != nil {
				return err
			}
			assetAddr, err := domain.ParseAsset(asset)
			if err != nil {
				return err
			}

			p := s.printer(cmd)
			ok, err := s.Confirmer.Confirm(fmt.Sprintf("Pay %s %s to %s", p.Amount(amount), render.FormatAsset(assetAddr), recipient.Hex()))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Aborted")
				return nil
			}

			result, err := s.Withdraw.Run(cmd.Context(), usecase.WithdrawParams{
				Treasury:  s.treasury,
				Caller:    s.caller,
				Recipient: recipient,
				Asset:     assetAddr,
				Amount:    amount,
			})
			if err != nil {
				return err
			}
			return render.NewPayoutRenderer(p).RenderPayout("Withdrew", result, nil)
		},
	}

	cmd.Flags().StringVar(&asset, "asset", "native", "Asset to pay: native or a token address")

	return cmd
}

// NewBatchCmd creates the batch command
func NewBatchCmd() *cobra.Command {
	var asset string

	cmd := &cobra.Command{
		Use:   "batch <recipient>=<amount>...",
		Short: "Pay several recipients in one all-or-nothing transfer",
		Long: `Pay several recipients at once. The total counts against the caller's
spending limit and either every payment is made or none is.

Example:
  treasury batch 0xC1..=100 0xC2..=250`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			recipients, amounts, err := parsePayments(args, s.Config.Decimals)
			if err != nil {
				return err
			}
			assetAddr, err := domain.ParseAsset(asset)
			if err != nil {
				return err
			}

			result, err := s.BatchTransfer.Run(cmd.Context(), usecase.BatchTransferParams{
				Treasury:   s.treasury,
				Caller:     s.caller,
				Asset:      assetAddr,
				Recipients: recipients,
				Amounts:    amounts,
			})
			if err != nil {
				return err
			}
			return render.NewPayoutRenderer(s.printer(cmd)).RenderPayout("Paid batch of", result, nil)
		},
	}

	cmd.Flags().StringVar(&asset, "asset", "native", "Asset to pay: native or a token address")

	return cmd
}

// NewStakeCmd creates the stake command
func NewStakeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stake <amount>",
		Short: "Stake available native funds for yield",
		Long:  `Move available native funds to the stake pool. Requires a role with execute_payments.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStake(cmd, args[0], false)
		},
	}
}

// NewUnstakeCmd creates the unstake command
func NewUnstakeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unstake <amount>",
		Short: "Withdraw staked funds and their reward",
		Long: `Return staked principal from the stake pool with its pro-rata share of
the pool's reward. The reward is added to the treasury's yield. Requires a
role with execute_payments.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStake(cmd, args[0], true)
		},
	}
}

func runStake(cmd *cobra.Command, value string, unstake bool) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	amount, err := parseAmount(value, s.Config.Decimals)
	if err != nil {
		return err
	}

	params := usecase.StakeParams{Treasury: s.treasury, Caller: s.caller, Amount: amount}
	var result *usecase.StakeResult
	if unstake {
		result, err = s.Unstake.Run(cmd.Context(), params)
	} else {
		result, err = s.StakeForYield.Run(cmd.Context(), params)
	}
	if err != nil {
		return err
	}
	return render.NewPayoutRenderer(s.printer(cmd)).RenderStake(unstake, amount, result)
}
