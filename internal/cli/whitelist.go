package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/treasury-cli/internal/cli/render"
	"github.com/trebuchet-org/treasury-cli/internal/domain"
	"github.com/trebuchet-org/treasury-cli/internal/usecase"
)

// NewWhitelistCmd creates the whitelist command group
func NewWhitelistCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "whitelist",
		Short: "Manage approved recipients",
		Long: `Manage the recipients a treasury may pay while whitelist enforcement is on.
Changes require the authority or the manage_roles capability.`,
	}

	cmd.AddCommand(newWhitelistAddCmd())
	cmd.AddCommand(newWhitelistRemoveCmd())
	cmd.AddCommand(newWhitelistListCmd())

	return cmd
}

func newWhitelistAddCmd() *cobra.Command {
	var label string

	cmd := &cobra.Command{
		Use:   "add <recipient>",
		Short: "Whitelist a recipient",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			recipient, err := domain.ParseAddress(args[0])
			if err != nil {
				return err
			}

			entry, err := s.AddWhitelistRecipient.Run(cmd.Context(), usecase.WhitelistParams{
				Treasury:  s.treasury,
				Caller:    s.caller,
				Recipient: recipient,
				Label:     label,
			})
			if err != nil {
				return err
			}
			return render.NewRolesRenderer(s.printer(cmd)).RenderWhitelistEntry(entry)
		},
	}

	cmd.Flags().StringVar(&label, "label", "", "Label for the recipient")

	return cmd
}

func newWhitelistRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <recipient>",
		Short: "Remove a recipient from the whitelist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			recipient, err := domain.ParseAddress(args[0])
			if err != nil {
				return err
			}

			if err := s.RemoveWhitelistRecipient.Run(cmd.Context(), usecase.WhitelistParams{
				Treasury:  s.treasury,
				Caller:    s.caller,
				Recipient: recipient,
			}); err != nil {
				return err
			}

			p := s.printer(cmd)
			if p.Structured() {
				return p.Emit(map[string]any{"removed": recipient})
			}
			fmt.Fprintln(cmd.OutOrStdout(), render.FormatSuccess(fmt.Sprintf("Removed %s from the whitelist", recipient.Hex())))
			return nil
		},
	}
}

func newWhitelistListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List whitelisted recipients",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}

			result, err := s.ListWhitelist.Run(cmd.Context(), usecase.ListWhitelistParams{Treasury: s.treasury, Caller: s.caller})
			if err != nil {
				return err
			}
			return render.NewRolesRenderer(s.printer(cmd)).RenderWhitelist(result)
		},
	}
}
