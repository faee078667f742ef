package render

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/trebuchet-org/treasury-cli/internal/domain/models"
)

// ProposalsRenderer renders governance proposals
type ProposalsRenderer struct {
	*Printer
}

// NewProposalsRenderer creates a new proposals renderer
func NewProposalsRenderer(p *Printer) *ProposalsRenderer {
	return &ProposalsRenderer{Printer: p}
}

// RenderProposals renders a proposal list
func (r *ProposalsRenderer) RenderProposals(proposals []*models.Proposal) error {
	if r.Structured() {
		return r.Emit(proposals)
	}
	if len(proposals) == 0 {
		r.println("No proposals found")
		return nil
	}

	t := newTable("ID", "Title", "Amount", "Recipient", "For", "Against", "Status")
	for _, p := range proposals {
		t.AppendRow(table.Row{
			p.ID,
			p.Title,
			r.Amount(p.Amount),
			addressStyle.Sprint(p.Recipient.Hex()),
			p.VotesFor,
			p.VotesAgainst,
			proposalStatus(p.Status),
		})
	}
	r.println(t.Render())
	return nil
}

// RenderProposal renders a single proposal in detail
func (r *ProposalsRenderer) RenderProposal(p *models.Proposal) error {
	if r.Structured() {
		return r.Emit(p)
	}

	r.printf("Proposal #%d: %s\n\n", p.ID, headerStyle.Sprint(p.Title))
	rows := [][2]string{
		{"Status", proposalStatus(p.Status)},
		{"Proposer", addressStyle.Sprint(p.Proposer.Hex())},
		{"Recipient", addressStyle.Sprint(p.Recipient.Hex())},
		{"Amount", amountStyle.Sprint(r.Amount(p.Amount))},
		{"Asset", FormatAsset(p.Asset)},
		{"Votes", fmt.Sprintf("%d for, %d against", p.VotesFor, p.VotesAgainst)},
		{"Created", timestampStyle.Sprint(FormatTime(p.CreatedAt))},
	}
	if p.ExecutedAt != nil {
		rows = append(rows, [2]string{"Executed", timestampStyle.Sprint(FormatTime(*p.ExecutedAt))})
	}
	if p.Description != "" {
		rows = append(rows, [2]string{"Description", p.Description})
	}
	r.println(keyValueTable(rows))
	return nil
}

func proposalStatus(s models.ProposalStatus) string {
	switch s {
	case models.ProposalStatusApproved, models.ProposalStatusExecuted:
		return activeStyle.Sprint(s)
	case models.ProposalStatusRejected:
		return inactiveStyle.Sprint(s)
	default:
		return pendingStyle.Sprint(s)
	}
}
