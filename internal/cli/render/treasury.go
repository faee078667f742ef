package render

import (
	"fmt"
	"strings"

	"github.com/trebuchet-org/treasury-cli/internal/domain/models"
	"github.com/trebuchet-org/treasury-cli/internal/usecase"
)

// TreasuryRenderer renders treasury state and configuration changes
type TreasuryRenderer struct {
	*Printer
}

// NewTreasuryRenderer creates a new treasury renderer
func NewTreasuryRenderer(p *Printer) *TreasuryRenderer {
	return &TreasuryRenderer{Printer: p}
}

// RenderOverview renders the result of treasury show
func (r *TreasuryRenderer) RenderOverview(result *usecase.TreasuryOverview) error {
	if r.Structured() {
		return r.Emit(result)
	}

	t := result.Treasury
	r.printf("🏦 %s\n\n", headerStyle.Sprint(t.Name))
	r.println(r.configTable(t))
	r.println()

	r.println(headerStyle.Sprint("Funds"))
	r.println(keyValueTable([][2]string{
		{"Deposited", amountStyle.Sprint(r.Amount(t.TotalDeposited))},
		{"Withdrawn", r.Amount(t.TotalWithdrawn)},
		{"Staked", r.Amount(t.TotalStaked)},
		{"Yield", r.Amount(t.TotalYield)},
		{"Available", amountStyle.Sprint(r.Amount(result.Available))},
		{"Stake target", r.Amount(result.StakeTarget)},
		{fmt.Sprintf("Vault (%s)", FormatAsset(result.Asset)), r.Amount(result.VaultBalance)},
	}))
	return nil
}

// RenderInitialized renders the result of treasury init
func (r *TreasuryRenderer) RenderInitialized(result *usecase.InitializeTreasuryResult) error {
	if r.Structured() {
		return r.Emit(result)
	}

	r.println(FormatSuccess(fmt.Sprintf("Initialized treasury %s", result.Treasury.Name)))
	r.println()
	r.println(r.configTable(result.Treasury))
	if len(result.Whitelist) > 0 {
		r.println()
		r.printf("Whitelisted %d recipient(s)\n", len(result.Whitelist))
	}
	return nil
}

// RenderConfig renders a treasury after a configuration update
func (r *TreasuryRenderer) RenderConfig(t *models.Treasury) error {
	if r.Structured() {
		return r.Emit(t)
	}

	r.println(FormatSuccess(fmt.Sprintf("Updated configuration of %s", t.Name)))
	r.println()
	r.println(r.configTable(t))
	return nil
}

// RenderPause renders the result of pause and resume
func (r *TreasuryRenderer) RenderPause(result *usecase.PauseResult) error {
	if r.Structured() {
		return r.Emit(result)
	}

	state := "resumed"
	if result.Treasury.Paused {
		state = "paused"
	}
	if !result.Changed {
		r.println(FormatWarning(fmt.Sprintf("Treasury %s is already %s", result.Treasury.Name, state)))
		return nil
	}
	r.println(FormatSuccess(fmt.Sprintf("Treasury %s %s", result.Treasury.Name, state)))
	return nil
}

func (r *TreasuryRenderer) configTable(t *models.Treasury) string {
	signers := make([]string, len(t.Signers))
	for i, s := range t.Signers {
		signers[i] = addressStyle.Sprint(s.Hex())
	}

	autoStake := "off"
	if t.AutoStake {
		autoStake = fmt.Sprintf("%d%%", t.StakeTargetPercentage)
	}

	return keyValueTable([][2]string{
		{"Address", addressStyle.Sprint(t.Address.Hex())},
		{"Authority", addressStyle.Sprint(t.Authority.Hex())},
		{"Status", status(!t.Paused, "active", "paused")},
		{"Signers", strings.Join(signers, "\n")},
		{"Threshold", fmt.Sprintf("%d of %d", t.Threshold, len(t.Signers))},
		{"Limits", fmt.Sprintf("admin %s, treasurer %s, contributor %s",
			r.Amount(t.Limits.Admin), r.Amount(t.Limits.Treasurer), r.Amount(t.Limits.Contributor))},
		{"Reset period", FormatDuration(t.ResetPeriod)},
		{"Whitelist", status(t.WhitelistEnabled, "enforced", "off")},
		{"Auto-stake", autoStake},
		{"Created", timestampStyle.Sprint(FormatTime(t.CreatedAt))},
	})
}
