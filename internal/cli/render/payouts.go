package render

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/trebuchet-org/treasury-cli/internal/domain/models"
	"github.com/trebuchet-org/treasury-cli/internal/usecase"
)

// PayoutRenderer renders value movements: payouts, deposits, staking and
// ledger holdings
type PayoutRenderer struct {
	*Printer
}

// NewPayoutRenderer creates a new payout renderer
func NewPayoutRenderer(p *Printer) *PayoutRenderer {
	return &PayoutRenderer{Printer: p}
}

// RenderPayout renders a completed payout. What describes the payout,
// e.g. "Withdrew" or "Paid stream".
func (r *PayoutRenderer) RenderPayout(what string, result *usecase.PayoutResult, detail any) error {
	if r.Structured() {
		if detail != nil {
			return r.Emit(detail)
		}
		return r.Emit(result)
	}

	r.println(FormatSuccess(fmt.Sprintf("%s %s", what, r.Amount(result.Amount))))
	r.renderReceipt(result.Receipt)
	if result.Role != nil {
		r.printf("  Spending used: %s of %s\n",
			r.Amount(result.Role.SpendingLimitUsed),
			r.Amount(result.Treasury.Limits.For(result.Role.Tier)))
	}
	r.printf("  Available:     %s\n", r.Amount(result.Treasury.Available()))
	return nil
}

// RenderDeposit renders a deposit and any automatic stake
func (r *PayoutRenderer) RenderDeposit(result *usecase.DepositResult) error {
	if r.Structured() {
		return r.Emit(result)
	}

	r.println(FormatSuccess(fmt.Sprintf("Deposited into %s", result.Treasury.Name)))
	r.renderReceipt(result.Receipt)
	if result.AutoStaked > 0 {
		r.printf("  Auto-staked:   %s\n", r.Amount(result.AutoStaked))
	}
	r.printf("  Available:     %s\n", r.Amount(result.Treasury.Available()))
	return nil
}

// RenderStake renders a stake or unstake
func (r *PayoutRenderer) RenderStake(unstake bool, amount uint64, result *usecase.StakeResult) error {
	if r.Structured() {
		return r.Emit(result)
	}

	if unstake {
		r.println(FormatSuccess(fmt.Sprintf("Unstaked %s with %s reward", r.Amount(amount), r.Amount(result.Reward))))
	} else {
		r.println(FormatSuccess(fmt.Sprintf("Staked %s", r.Amount(amount))))
	}
	r.renderReceipt(result.Receipt)
	r.printf("  Staked:        %s\n", r.Amount(result.Treasury.TotalStaked))
	r.printf("  Available:     %s\n", r.Amount(result.Treasury.Available()))
	return nil
}

// RenderHolding renders a ledger balance
func (r *PayoutRenderer) RenderHolding(h *models.Holding) error {
	if r.Structured() {
		return r.Emit(h)
	}

	t := newTable("Owner", "Asset", "Balance")
	t.AppendRow(table.Row{addressStyle.Sprint(h.Owner.Hex()), FormatAsset(h.Asset), amountStyle.Sprint(r.Amount(h.Balance))})
	r.println(t.Render())
	return nil
}

// RenderFunded renders a ledger credit
func (r *PayoutRenderer) RenderFunded(receipt *models.Receipt) error {
	if r.Structured() {
		return r.Emit(receipt)
	}
	for _, leg := range receipt.Legs {
		r.println(FormatSuccess(fmt.Sprintf("Credited %s %s to %s", r.Amount(leg.Amount), FormatAsset(leg.Asset), leg.To.Hex())))
	}
	return nil
}

func (r *PayoutRenderer) renderReceipt(receipt *models.Receipt) {
	if receipt == nil {
		return
	}
	r.printf("  Receipt:       %s\n", timestampStyle.Sprint(receipt.ID))
	if len(receipt.Legs) <= 1 {
		return
	}

	t := newTable("To", "Asset", "Amount")
	for _, leg := range receipt.Legs {
		t.AppendRow(table.Row{addressStyle.Sprint(leg.To.Hex()), FormatAsset(leg.Asset), r.Amount(leg.Amount)})
	}
	r.println(t.Render())
}
