package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/treasury-cli/internal/cli/render"
	"github.com/trebuchet-org/treasury-cli/internal/domain"
	"github.com/trebuchet-org/treasury-cli/internal/domain/models"
	"github.com/trebuchet-org/treasury-cli/internal/usecase"
)

// NewMilestoneCmd creates the milestone command group
func NewMilestoneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "milestone",
		Short: "Manage one-off milestone payments",
	}

	cmd.AddCommand(newMilestoneCreateCmd())
	cmd.AddCommand(newMilestoneCompleteCmd())
	cmd.AddCommand(newScheduleListCmd("list", models.ScheduleMilestone))

	return cmd
}

func newMilestoneCreateCmd() *cobra.Command {
	var (
		flags       scheduleFlags
		id          uint64
		description string
	)

	cmd := &cobra.Command{
		Use:   "create <recipient>",
		Short: "Create a milestone payment",
		Long: `Create a milestone that pays a recipient once when completed. Without --id
the next free id is used.

Example:
  treasury milestone create 0xC1.. --amount 5000 --description "Audit report delivered"`,
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
			asset, amount, err := flags.parse(s)
			if err != nil {
				return err
			}

			milestone, err := s.CreateMilestone.Run(cmd.Context(), usecase.CreateMilestonePaymentParams{
				Treasury:    s.treasury,
				Caller:      s.caller,
				ID:          id,
				Recipient:   recipient,
				Asset:       asset,
				Amount:      amount,
				Description: description,
				Category:    flags.category,
			})
			if err != nil {
				return err
			}
			return render.NewSchedulesRenderer(s.printer(cmd)).RenderMilestone(milestone)
		},
	}

	flags.register(cmd, "Amount paid on completion")
	cmd.Flags().Uint64Var(&id, "id", 0, "Milestone id (default next free id)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "What must be delivered")

	return cmd
}

func newMilestoneCompleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "complete <id>",
		Short: "Complete a milestone and pay its recipient",
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

			result, err := s.CompleteMilestone.Run(cmd.Context(), usecase.CompleteMilestoneParams{
				Treasury: s.treasury,
				Caller:   s.caller,
				ID:       id,
			})
			if err != nil {
				return err
			}
			return render.NewPayoutRenderer(s.printer(cmd)).RenderPayout("Paid milestone", &result.PayoutResult, result)
		},
	}
}
