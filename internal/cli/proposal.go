package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/treasury-cli/internal/cli/render"
	"github.com/trebuchet-org/treasury-cli/internal/domain"
	"github.com/trebuchet-org/treasury-cli/internal/domain/models"
	"github.com/trebuchet-org/treasury-cli/internal/usecase"
)

// NewProposalCmd creates the proposal command group
func NewProposalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "proposal",
		Short: "Propose, vote on and execute spending proposals",
		Long: `Proposals pay a recipient once enough signers approve. A proposal is
approved when approving votes reach the threshold and rejected once the
remaining signers can no longer approve it.`,
	}

	cmd.AddCommand(newProposalCreateCmd())
	cmd.AddCommand(newProposalVoteCmd())
	cmd.AddCommand(newProposalExecuteCmd())
	cmd.AddCommand(newProposalListCmd())
	cmd.AddCommand(newProposalShowCmd())

	return cmd
}

func newProposalCreateCmd() *cobra.Command {
	var (
		id          uint64
		title       string
		description string
		amount      string
		asset       string
	)

	cmd := &cobra.Command{
		Use:   "create <recipient>",
		Short: "Create a proposal",
		Long: `Create a proposal to pay a recipient. Requires the propose capability.

Example:
  treasury proposal create 0xC1.. --title "Conference sponsorship" --amount 2500`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			recipient, err := domain.ParseAddress(args[0])
			if err != nil {
				return err
			}
			value, err := parseAmount(amount, s.Config.Decimals)
			if err != nil {
				return err
			}
			assetAddr, err := domain.ParseAsset(asset)
			if err != nil {
				return err
			}

			proposal, err := s.CreateProposal.Run(cmd.Context(), usecase.CreateProposalParams{
				Treasury:    s.treasury,
				Caller:      s.caller,
				ID:          id,
				Title:       title,
				Description: description,
				Amount:      value,
				Asset:       assetAddr,
				Recipient:   recipient,
			})
			if err != nil {
				return err
			}
			return render.NewProposalsRenderer(s.printer(cmd)).RenderProposal(proposal)
		},
	}

	cmd.Flags().Uint64Var(&id, "id", 0, "Proposal id (default next free id)")
	cmd.Flags().StringVar(&title, "title", "", "Short title")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Longer description")
	cmd.Flags().StringVar(&amount, "amount", "", "Amount to pay")
	cmd.Flags().StringVar(&asset, "asset", "native", "Asset to pay: native or a token address")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func newProposalVoteCmd() *cobra.Command {
	var against bool

	cmd := &cobra.Command{
		Use:   "vote [id]",
		Short: "Vote on an open proposal",
		Long: `Vote for a proposal, or against it with --against. The caller must be a
signer holding the vote capability and may vote once. Without an id, an open
proposal is picked interactively.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			id, err := resolveProposalID(cmd, s, args, models.ProposalStatusOpen, "Select proposal to vote on")
			if err != nil {
				return err
			}

			proposal, err := s.VoteOnProposal.Run(cmd.Context(), usecase.VoteOnProposalParams{
				Treasury: s.treasury,
				Caller:   s.caller,
				ID:       id,
				Support:  !against,
			})
			if err != nil {
				return err
			}
			return render.NewProposalsRenderer(s.printer(cmd)).RenderProposal(proposal)
		},
	}

	cmd.Flags().BoolVar(&against, "against", false, "Vote against the proposal")

	return cmd
}

func newProposalExecuteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "execute [id]",
		Short: "Pay out an approved proposal",
		Long: `Execute an approved proposal. The caller needs execute_payments and the
amount counts against their spending limit. Without an id, an approved
proposal is picked interactively.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			id, err := resolveProposalID(cmd, s, args, models.ProposalStatusApproved, "Select proposal to execute")
			if err != nil {
				return err
			}

			result, err := s.ExecuteProposal.Run(cmd.Context(), usecase.ExecuteProposalParams{
				Treasury: s.treasury,
				Caller:   s.caller,
				ID:       id,
			})
			if err != nil {
				return err
			}
			return render.NewPayoutRenderer(s.printer(cmd)).RenderPayout(fmt.Sprintf("Executed proposal #%d, paid", id), &result.PayoutResult, result)
		},
	}
}

func newProposalListCmd() *cobra.Command {
	var (
		status   string
		proposer string
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List proposals",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}

			filter := domain.ProposalFilter{Status: status}
			if proposer != "" {
				if filter.Proposer, err = domain.ParseAddress(proposer); err != nil {
					return err
				}
			}

			proposals, err := s.ListProposals.Run(cmd.Context(), usecase.ListProposalsParams{
				Treasury: s.treasury,
				Caller:   s.caller,
				Filter:   filter,
			})
			if err != nil {
				return err
			}
			return render.NewProposalsRenderer(s.printer(cmd)).RenderProposals(proposals)
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Only show proposals with this status (open, approved, rejected, executed)")
	cmd.Flags().StringVar(&proposer, "proposer", "", "Only show proposals by this proposer")

	return cmd
}

func newProposalShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a proposal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			proposals, err := s.ListProposals.Run(cmd.Context(), usecase.ListProposalsParams{Treasury: s.treasury, Caller: s.caller})
			if err != nil {
				return err
			}
			for _, p := range proposals {
				if p.ID == id {
					return render.NewProposalsRenderer(s.printer(cmd)).RenderProposal(p)
				}
			}
			return fmt.Errorf("proposal #%d: %w", id, domain.ErrNotFound)
		},
	}
}

// resolveProposalID returns the id given on the command line, or lets the
// operator pick among the proposals in status
func resolveProposalID(cmd *cobra.Command, s *session, args []string, status models.ProposalStatus, prompt string) (uint64, error) {
	if len(args) == 1 {
		return parseID(args[0])
	}

	proposals, err := s.ListProposals.Run(cmd.Context(), usecase.ListProposalsParams{
		Treasury: s.treasury,
		Caller:   s.caller,
		Filter:   domain.ProposalFilter{Status: string(status)},
	})
	if err != nil {
		return 0, err
	}
	if len(proposals) == 0 {
		return 0, fmt.Errorf("no %s proposals", status)
	}

	selected, err := s.Selector.SelectProposal(cmd.Context(), proposals, prompt)
	if err != nil {
		return 0, err
	}
	return selected.ID, nil
}
