package render

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"
	"github.com/trebuchet-org/treasury-cli/internal/domain/models"
	"github.com/trebuchet-org/treasury-cli/internal/usecase"
)

// RolesRenderer renders roles and whitelist entries
type RolesRenderer struct {
	*Printer
}

// NewRolesRenderer creates a new roles renderer
func NewRolesRenderer(p *Printer) *RolesRenderer {
	return &RolesRenderer{Printer: p}
}

// RenderRoles renders the role table of a treasury
func (r *RolesRenderer) RenderRoles(result *usecase.ListRolesResult) error {
	if r.Structured() {
		return r.Emit(result.Roles)
	}
	if len(result.Roles) == 0 {
		r.println("No roles assigned")
		return nil
	}

	t := newTable("User", "Tier", "Capabilities", "Used", "Limit", "Window start")
	for _, role := range result.Roles {
		t.AppendRow(table.Row{
			addressStyle.Sprint(role.User.Hex()),
			FormatTier(role.Tier),
			formatCapabilities(role.Capabilities),
			r.Amount(role.SpendingLimitUsed),
			r.Amount(result.Treasury.Limits.For(role.Tier)),
			timestampStyle.Sprint(FormatTime(role.LastLimitReset)),
		})
	}
	r.println(t.Render())
	return nil
}

// RenderRole renders a single role after assignment or removal
func (r *RolesRenderer) RenderRole(role *models.Role, removed bool) error {
	if r.Structured() {
		return r.Emit(role)
	}
	if removed {
		r.println(FormatSuccess(fmt.Sprintf("Removed %s role from %s", FormatTier(role.Tier), role.User.Hex())))
		return nil
	}
	r.println(FormatSuccess(fmt.Sprintf("Assigned %s role to %s", FormatTier(role.Tier), role.User.Hex())))
	r.printf("  Capabilities: %s\n", formatCapabilities(role.Capabilities))
	return nil
}

// RenderWhitelist renders the whitelist of a treasury
func (r *RolesRenderer) RenderWhitelist(result *usecase.ListWhitelistResult) error {
	if r.Structured() {
		return r.Emit(result)
	}

	r.printf("Whitelist: %s\n\n", status(result.Enabled, "enforced", "off"))
	if len(result.Entries) == 0 {
		r.println("No whitelisted recipients")
		return nil
	}

	t := newTable("Recipient", "Label", "Added by", "Added")
	for _, e := range result.Entries {
		t.AppendRow(table.Row{
			addressStyle.Sprint(e.Recipient.Hex()),
			tagStyle.Sprint(e.Label),
			e.AddedBy.Hex(),
			timestampStyle.Sprint(FormatTime(e.AddedAt)),
		})
	}
	r.println(t.Render())
	return nil
}

// RenderWhitelistEntry renders an added whitelist entry
func (r *RolesRenderer) RenderWhitelistEntry(entry *models.WhitelistedRecipient) error {
	if r.Structured() {
		return r.Emit(entry)
	}
	label := ""
	if entry.Label != "" {
		label = fmt.Sprintf(" (%s)", entry.Label)
	}
	r.println(FormatSuccess(fmt.Sprintf("Whitelisted %s%s", entry.Recipient.Hex(), label)))
	return nil
}

func formatCapabilities(c models.Capabilities) string {
	caps := c.List()
	if len(caps) == 0 {
		return "-"
	}
	return strings.Join(lo.Map(caps, func(c models.Capability, _ int) string {
		return string(c)
	}), ", ")
}
