package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/treasury-cli/internal/cli/render"
	"github.com/trebuchet-org/treasury-cli/internal/domain"
	"github.com/trebuchet-org/treasury-cli/internal/domain/models"
	"github.com/trebuchet-org/treasury-cli/internal/usecase"
)

// NewRoleCmd creates the role command group
func NewRoleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "role",
		Short: "Manage roles and capabilities",
	}

	cmd.AddCommand(newRoleAssignCmd())
	cmd.AddCommand(newRoleRemoveCmd())
	cmd.AddCommand(newRoleListCmd())

	return cmd
}

func newRoleAssignCmd() *cobra.Command {
	var (
		tier string
		caps []string
	)

	cmd := &cobra.Command{
		Use:   "assign <user>",
		Short: "Assign a role to a user",
		Long: fmt.Sprintf(`Assign a tiered role to a user, replacing any existing role.
Requires the authority or the manage_roles capability.

Tiers: admin, treasurer, contributor or custom-<n>.
Capabilities: %s.

Examples:
  treasury role assign 0xB1.. --tier treasurer --cap execute_payments,create_streams
  treasury role assign 0xB2.. --tier contributor --cap vote --cap propose`, joinCapabilities()),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			user, err := domain.ParseAddress(args[0])
			if err != nil {
				return err
			}
			roleTier, err := models.ParseRoleTier(tier)
			if err != nil {
				return err
			}

			var capabilities []models.Capability
			for _, c := range caps {
				capability, err := models.ParseCapability(c)
				if err != nil {
					return err
				}
				capabilities = append(capabilities, capability)
			}

			role, err := s.AssignRole.Run(cmd.Context(), usecase.AssignRoleParams{
				Treasury:     s.treasury,
				Caller:       s.caller,
				User:         user,
				Tier:         roleTier,
				Capabilities: models.CapabilitiesOf(capabilities...),
			})
			if err != nil {
				return err
			}
			return render.NewRolesRenderer(s.printer(cmd)).RenderRole(role, false)
		},
	}

	cmd.Flags().StringVar(&tier, "tier", "contributor", "Role tier")
	cmd.Flags().StringSliceVar(&caps, "cap", nil, "Capability to grant (repeatable or comma separated)")

	return cmd
}

func newRoleRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <user>",
		Short: "Remove a user's role",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			user, err := domain.ParseAddress(args[0])
			if err != nil {
				return err
			}

			role, err := s.RemoveRole.Run(cmd.Context(), usecase.RemoveRoleParams{
				Treasury: s.treasury,
				Caller:   s.caller,
				User:     user,
			})
			if err != nil {
				return err
			}
			return render.NewRolesRenderer(s.printer(cmd)).RenderRole(role, true)
		},
	}
}

func newRoleListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List roles",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}

			result, err := s.ListRoles.Run(cmd.Context(), usecase.ListRolesParams{Treasury: s.treasury, Caller: s.caller})
			if err != nil {
				return err
			}
			return render.NewRolesRenderer(s.printer(cmd)).RenderRoles(result)
		},
	}
}

func joinCapabilities() string {
	names := make([]string, len(models.AllCapabilities))
	for i, c := range models.AllCapabilities {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}
