package models

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/treasury-cli/internal/domain"
)

// MaxCategoryLength bounds the free-form category of a disbursement
const MaxCategoryLength = 32

// ScheduleKind identifies a disbursement scheduler
type ScheduleKind string

const (
	ScheduleStream    ScheduleKind = "stream"
	ScheduleRecurring ScheduleKind = "recurring"
	ScheduleMilestone ScheduleKind = "milestone"
)

// Disbursement is the shared shape of the three schedulers: how much is owed
// at a point in time, and how to record that it was paid.
type Disbursement interface {
	Kind() ScheduleKind
	Payee() common.Address
	AssetType() common.Address
	// DueAmount is the amount payable at now. It never mutates the schedule.
	DueAmount(now time.Time) (uint64, error)
	// Advance records payment of DueAmount(now)
	Advance(now time.Time) error
}

// ValidateCategory checks the category length
func ValidateCategory(category string) error {
	if len(category) > MaxCategoryLength {
		return fmt.Errorf("%w: category longer than %d bytes", domain.ErrInvalidText, MaxCategoryLength)
	}
	return nil
}

// ValidateAmount requires a positive payment amount
func ValidateAmount(amount uint64) error {
	if amount == 0 {
		return domain.ErrInvalidPaymentAmount
	}
	return nil
}

// PaymentStream accrues amount-per-period for every whole period elapsed
// between the last payment and min(now, end).
type PaymentStream struct {
	Treasury        common.Address `json:"treasury" yaml:"treasury"`
	Recipient       common.Address `json:"recipient" yaml:"recipient"`
	Asset           common.Address `json:"asset" yaml:"asset"`
	AmountPerPeriod uint64         `json:"amountPerPeriod" yaml:"amountPerPeriod"`
	PeriodDuration  time.Duration  `json:"periodDuration" yaml:"periodDuration"`
	StartTime       time.Time      `json:"startTime" yaml:"startTime"`
	EndTime         time.Time      `json:"endTime" yaml:"endTime"`
	LastPaymentTime time.Time      `json:"lastPaymentTime" yaml:"lastPaymentTime"`
	TotalPaid       uint64         `json:"totalPaid" yaml:"totalPaid"`
	Active          bool           `json:"active" yaml:"active"`
	Category        string         `json:"category" yaml:"category"`
	Creator         common.Address `json:"creator" yaml:"creator"`
}

// Address is the record address of the stream
func (s *PaymentStream) Address() common.Address {
	return domain.RecipientRecordAddress(domain.SeedStream, s.Treasury, s.Recipient)
}

// Validate checks the creation invariants of the stream
func (s *PaymentStream) Validate() error {
	if err := ValidateAmount(s.AmountPerPeriod); err != nil {
		return err
	}
	if s.PeriodDuration <= 0 {
		return fmt.Errorf("%w: period must be positive", domain.ErrInvalidSchedule)
	}
	if !s.EndTime.After(s.StartTime) {
		return fmt.Errorf("%w: end must be after start", domain.ErrInvalidSchedule)
	}
	return ValidateCategory(s.Category)
}

func (s *PaymentStream) Kind() ScheduleKind        { return ScheduleStream }
func (s *PaymentStream) Payee() common.Address     { return s.Recipient }
func (s *PaymentStream) AssetType() common.Address { return s.Asset }

// duePeriods counts whole periods payable at now
func (s *PaymentStream) duePeriods(now time.Time) (uint64, error) {
	if !s.Active {
		return 0, domain.ErrPaymentStreamInactive
	}
	if now.Before(s.StartTime) {
		return 0, nil
	}
	upTo := now
	if upTo.After(s.EndTime) {
		upTo = s.EndTime
	}
	elapsed := upTo.Sub(s.LastPaymentTime)
	if elapsed <= 0 {
		return 0, nil
	}
	return uint64(elapsed / s.PeriodDuration), nil
}

// DueAmount returns the accrued amount at now. An inactive stream fails with
// ErrPaymentStreamInactive.
func (s *PaymentStream) DueAmount(now time.Time) (uint64, error) {
	periods, err := s.duePeriods(now)
	if err != nil {
		return 0, err
	}
	return domain.MulAmount(periods, s.AmountPerPeriod)
}

// Advance moves the payment cursor forward by the whole periods paid at now.
// Partial periods carry over to the next payment.
func (s *PaymentStream) Advance(now time.Time) error {
	periods, err := s.duePeriods(now)
	if err != nil {
		return err
	}
	if periods == 0 {
		return domain.ErrPaymentStreamNotDue
	}
	due, err := domain.MulAmount(periods, s.AmountPerPeriod)
	if err != nil {
		return err
	}
	total, err := domain.AddAmount(s.TotalPaid, due)
	if err != nil {
		return err
	}
	s.LastPaymentTime = s.LastPaymentTime.Add(time.Duration(periods) * s.PeriodDuration)
	s.TotalPaid = total
	return nil
}

// Exhausted reports whether no further amount can ever accrue
func (s *PaymentStream) Exhausted() bool {
	return s.EndTime.Sub(s.LastPaymentTime) < s.PeriodDuration
}

// RecurringPayment pays a fixed amount once per interval, with no partial accrual
type RecurringPayment struct {
	Treasury    common.Address `json:"treasury" yaml:"treasury"`
	Recipient   common.Address `json:"recipient" yaml:"recipient"`
	Asset       common.Address `json:"asset" yaml:"asset"`
	Amount      uint64         `json:"amount" yaml:"amount"`
	Interval    time.Duration  `json:"interval" yaml:"interval"`
	NextPayment time.Time      `json:"nextPayment" yaml:"nextPayment"`
	TotalPaid   uint64         `json:"totalPaid" yaml:"totalPaid"`
	Active      bool           `json:"active" yaml:"active"`
	Category    string         `json:"category" yaml:"category"`
	Creator     common.Address `json:"creator" yaml:"creator"`
}

// Address is the record address of the recurring payment
func (r *RecurringPayment) Address() common.Address {
	return domain.RecipientRecordAddress(domain.SeedRecurring, r.Treasury, r.Recipient)
}

// Validate checks the creation invariants of the recurring payment
func (r *RecurringPayment) Validate() error {
	if err := ValidateAmount(r.Amount); err != nil {
		return err
	}
	if r.Interval <= 0 {
		return fmt.Errorf("%w: interval must be positive", domain.ErrInvalidSchedule)
	}
	return ValidateCategory(r.Category)
}

func (r *RecurringPayment) Kind() ScheduleKind        { return ScheduleRecurring }
func (r *RecurringPayment) Payee() common.Address     { return r.Recipient }
func (r *RecurringPayment) AssetType() common.Address { return r.Asset }

// DueAmount is the fixed amount when active and now has reached the next due time
func (r *RecurringPayment) DueAmount(now time.Time) (uint64, error) {
	if !r.Active {
		return 0, domain.ErrPaymentStreamInactive
	}
	if now.Before(r.NextPayment) {
		return 0, nil
	}
	return r.Amount, nil
}

// Advance schedules the next due time one interval after the current one
func (r *RecurringPayment) Advance(now time.Time) error {
	due, err := r.DueAmount(now)
	if err != nil {
		return err
	}
	if due == 0 {
		return domain.ErrPaymentStreamNotDue
	}
	total, err := domain.AddAmount(r.TotalPaid, due)
	if err != nil {
		return err
	}
	r.NextPayment = r.NextPayment.Add(r.Interval)
	r.TotalPaid = total
	return nil
}

// MilestonePayment is a one-shot payment unlocked by explicit completion
type MilestonePayment struct {
	Treasury    common.Address `json:"treasury" yaml:"treasury"`
	ID          uint64         `json:"id" yaml:"id"`
	Recipient   common.Address `json:"recipient" yaml:"recipient"`
	Asset       common.Address `json:"asset" yaml:"asset"`
	Amount      uint64         `json:"amount" yaml:"amount"`
	Description string         `json:"description" yaml:"description"`
	Completed   bool           `json:"completed" yaml:"completed"`
	CreatedAt   time.Time      `json:"createdAt" yaml:"createdAt"`
	CompletedAt *time.Time     `json:"completedAt,omitempty" yaml:"completedAt,omitempty"`
	Category    string         `json:"category" yaml:"category"`
	Creator     common.Address `json:"creator" yaml:"creator"`
}

// MaxDescriptionLength bounds milestone and proposal descriptions
const MaxDescriptionLength = 500

// Address is the record address of the milestone
func (m *MilestonePayment) Address() common.Address {
	return domain.IDRecordAddress(domain.SeedMilestone, m.Treasury, m.ID)
}

// Validate checks the creation invariants of the milestone
func (m *MilestonePayment) Validate() error {
	if err := ValidateAmount(m.Amount); err != nil {
		return err
	}
	if len(m.Description) > MaxDescriptionLength {
		return fmt.Errorf("%w: description longer than %d bytes", domain.ErrInvalidText, MaxDescriptionLength)
	}
	return ValidateCategory(m.Category)
}

func (m *MilestonePayment) Kind() ScheduleKind        { return ScheduleMilestone }
func (m *MilestonePayment) Payee() common.Address     { return m.Recipient }
func (m *MilestonePayment) AssetType() common.Address { return m.Asset }

// DueAmount is the full amount until the milestone has been completed
func (m *MilestonePayment) DueAmount(time.Time) (uint64, error) {
	if m.Completed {
		return 0, domain.ErrMilestoneAlreadyCompleted
	}
	return m.Amount, nil
}

// Advance marks the milestone completed at now
func (m *MilestonePayment) Advance(now time.Time) error {
	if m.Completed {
		return domain.ErrMilestoneAlreadyCompleted
	}
	m.Completed = true
	m.CompletedAt = &now
	return nil
}
