package render

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/trebuchet-org/treasury-cli/internal/domain/models"
	"github.com/trebuchet-org/treasury-cli/internal/usecase"
)

// SchedulesRenderer renders streams, recurring and milestone payments
type SchedulesRenderer struct {
	*Printer
}

// NewSchedulesRenderer creates a new schedules renderer
func NewSchedulesRenderer(p *Printer) *SchedulesRenderer {
	return &SchedulesRenderer{Printer: p}
}

type scheduleView struct {
	Kind     models.ScheduleKind `json:"kind" yaml:"kind"`
	DueNow   uint64              `json:"dueNow" yaml:"dueNow"`
	Schedule models.Disbursement `json:"schedule" yaml:"schedule"`
}

// RenderSchedules renders schedules with what each owes now
func (r *SchedulesRenderer) RenderSchedules(result *usecase.ListSchedulesResult) error {
	if r.Structured() {
		views := make([]scheduleView, len(result.Entries))
		for i, e := range result.Entries {
			views[i] = scheduleView{Kind: e.Schedule.Kind(), DueNow: e.DueNow, Schedule: e.Schedule}
		}
		return r.Emit(views)
	}
	if len(result.Entries) == 0 {
		r.println("No schedules found")
		return nil
	}

	t := newTable("Kind", "Recipient", "Asset", "Terms", "Paid", "Due now", "Status")
	for _, e := range result.Entries {
		terms, paid, state := r.describe(e.Schedule)
		due := r.Amount(e.DueNow)
		if e.DueNow > 0 {
			due = pendingStyle.Sprint(due)
		}
		t.AppendRow(table.Row{
			tagStyle.Sprint(e.Schedule.Kind()),
			addressStyle.Sprint(e.Schedule.Payee().Hex()),
			FormatAsset(e.Schedule.AssetType()),
			terms,
			r.Amount(paid),
			due,
			state,
		})
	}
	r.println(t.Render())
	return nil
}

func (r *SchedulesRenderer) describe(d models.Disbursement) (terms string, paid uint64, state string) {
	switch s := d.(type) {
	case *models.PaymentStream:
		return fmt.Sprintf("%s every %s until %s", r.Amount(s.AmountPerPeriod), FormatDuration(s.PeriodDuration), FormatTime(s.EndTime)),
			s.TotalPaid, status(s.Active, "active", "cancelled")
	case *models.RecurringPayment:
		return fmt.Sprintf("%s every %s, next %s", r.Amount(s.Amount), FormatDuration(s.Interval), FormatTime(s.NextPayment)),
			s.TotalPaid, status(s.Active, "active", "cancelled")
	case *models.MilestonePayment:
		paid := uint64(0)
		if s.Completed {
			paid = s.Amount
		}
		return fmt.Sprintf("#%d %s: %s", s.ID, r.Amount(s.Amount), s.Description),
			paid, status(!s.Completed, "open", "completed")
	}
	return "", 0, ""
}

// RenderStream renders a created or cancelled stream
func (r *SchedulesRenderer) RenderStream(s *models.PaymentStream) error {
	if r.Structured() {
		return r.Emit(s)
	}
	if !s.Active {
		r.println(FormatSuccess(fmt.Sprintf("Cancelled stream to %s after paying %s", s.Recipient.Hex(), r.Amount(s.TotalPaid))))
		return nil
	}
	r.println(FormatSuccess(fmt.Sprintf("Created stream to %s", s.Recipient.Hex())))
	r.println(keyValueTable([][2]string{
		{"Amount per period", r.Amount(s.AmountPerPeriod)},
		{"Period", FormatDuration(s.PeriodDuration)},
		{"Start", FormatTime(s.StartTime)},
		{"End", FormatTime(s.EndTime)},
		{"Category", s.Category},
	}))
	return nil
}

// RenderRecurring renders a created or cancelled recurring payment
func (r *SchedulesRenderer) RenderRecurring(p *models.RecurringPayment) error {
	if r.Structured() {
		return r.Emit(p)
	}
	if !p.Active {
		r.println(FormatSuccess(fmt.Sprintf("Cancelled recurring payment to %s after paying %s", p.Recipient.Hex(), r.Amount(p.TotalPaid))))
		return nil
	}
	r.println(FormatSuccess(fmt.Sprintf("Created recurring payment to %s", p.Recipient.Hex())))
	r.println(keyValueTable([][2]string{
		{"Amount", r.Amount(p.Amount)},
		{"Interval", FormatDuration(p.Interval)},
		{"First payment", FormatTime(p.NextPayment)},
		{"Category", p.Category},
	}))
	return nil
}

// RenderMilestone renders a created milestone
func (r *SchedulesRenderer) RenderMilestone(m *models.MilestonePayment) error {
	if r.Structured() {
		return r.Emit(m)
	}
	r.println(FormatSuccess(fmt.Sprintf("Created milestone #%d for %s", m.ID, m.Recipient.Hex())))
	r.println(keyValueTable([][2]string{
		{"Amount", r.Amount(m.Amount)},
		{"Description", m.Description},
		{"Category", m.Category},
	}))
	return nil
}

type dueOutcomeView struct {
	Kind      models.ScheduleKind `json:"kind" yaml:"kind"`
	Recipient common.Address      `json:"recipient" yaml:"recipient"`
	Amount    uint64              `json:"amount" yaml:"amount"`
	Receipt   *models.Receipt     `json:"receipt,omitempty" yaml:"receipt,omitempty"`
	Error     string              `json:"error,omitempty" yaml:"error,omitempty"`
}

type dueSweepView struct {
	TotalPaid uint64           `json:"totalPaid" yaml:"totalPaid"`
	Outcomes  []dueOutcomeView `json:"outcomes" yaml:"outcomes"`
}

// RenderDueSweep renders the result of schedules run
func (r *SchedulesRenderer) RenderDueSweep(result *usecase.ExecuteDuePaymentsResult) error {
	if r.Structured() {
		view := dueSweepView{TotalPaid: result.TotalPaid, Outcomes: make([]dueOutcomeView, len(result.Outcomes))}
		for i, o := range result.Outcomes {
			view.Outcomes[i] = dueOutcomeView{Kind: o.Kind, Recipient: o.Recipient, Amount: o.Amount, Receipt: o.Receipt}
			if o.Err != nil {
				view.Outcomes[i].Error = o.Err.Error()
			}
		}
		return r.Emit(view)
	}
	if len(result.Outcomes) == 0 {
		r.println("Nothing due")
		return nil
	}

	t := newTable("Kind", "Recipient", "Amount", "Result")
	for _, o := range result.Outcomes {
		outcome := activeStyle.Sprint("paid")
		if o.Err != nil {
			outcome = inactiveStyle.Sprint(o.Err.Error())
		}
		t.AppendRow(table.Row{tagStyle.Sprint(o.Kind), addressStyle.Sprint(o.Recipient.Hex()), r.Amount(o.Amount), outcome})
	}
	r.println(t.Render())
	r.println()

	failed := len(result.Failed())
	if failed > 0 {
		r.println(FormatWarning(fmt.Sprintf("Paid %s, %d payment(s) failed", r.Amount(result.TotalPaid), failed)))
		return nil
	}
	r.println(FormatSuccess(fmt.Sprintf("Paid %s", r.Amount(result.TotalPaid))))
	return nil
}
