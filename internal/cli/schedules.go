package cli

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/treasury-cli/internal/cli/render"
	"github.com/trebuchet-org/treasury-cli/internal/domain"
	"github.com/trebuchet-org/treasury-cli/internal/domain/models"
	"github.com/trebuchet-org/treasury-cli/internal/usecase"
)

// scheduleFlags holds the flags shared by every schedule create command
type scheduleFlags struct {
	amount   string
	asset    string
	category string
}

func (f *scheduleFlags) register(cmd *cobra.Command, amountUsage string) {
	cmd.Flags().StringVar(&f.amount, "amount", "", amountUsage)
	cmd.Flags().StringVar(&f.asset, "asset", "native", "Asset to pay: native or a token address")
	cmd.Flags().StringVar(&f.category, "category", "", "Free-form category")
	_ = cmd.MarkFlagRequired("amount")
}

func (f *scheduleFlags) parse(s *session) (common.Address, uint64, error) {
	asset, err := domain.ParseAsset(f.asset)
	if err != nil {
		return common.Address{}, 0, err
	}
	amount, err := parseAmount(f.amount, s.Config.Decimals)
	if err != nil {
		return common.Address{}, 0, err
	}
	return asset, amount, nil
}

// optionalTime parses a time flag, leaving it zero when unset
func optionalTime(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	return parseTime(value, time.Now().UTC())
}

// NewStreamCmd creates the stream command group
func NewStreamCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stream",
		Short: "Manage payment streams",
		Long: `A payment stream pays a fixed amount for every whole period that has
elapsed between its start and end. Creating one requires the create_streams
capability; executing one requires execute_payments and counts against the
executor's spending limit.`,
	}

	cmd.AddCommand(newStreamCreateCmd())
	cmd.AddCommand(newScheduleExecuteCmd(models.ScheduleStream))
	cmd.AddCommand(newScheduleCancelCmd(models.ScheduleStream))
	cmd.AddCommand(newScheduleListCmd("list", models.ScheduleStream))

	return cmd
}

func newStreamCreateCmd() *cobra.Command {
	var (
		flags      scheduleFlags
		period     string
		start, end string
	)

	cmd := &cobra.Command{
		Use:   "create <recipient>",
		Short: "Create a payment stream",
		Long: `Create a payment stream to a recipient.

Example:
  treasury stream create 0xC1.. --amount 10 --period 1d --end now+30d`,
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
			periodDuration, err := parseDuration(period)
			if err != nil {
				return err
			}
			startTime, err := optionalTime(start)
			if err != nil {
				return err
			}
			endTime, err := parseTime(end, time.Now().UTC())
			if err != nil {
				return err
			}

			stream, err := s.CreatePaymentStream.Run(cmd.Context(), usecase.CreatePaymentStreamParams{
				Treasury:        s.treasury,
				Caller:          s.caller,
				Recipient:       recipient,
				Asset:           asset,
				AmountPerPeriod: amount,
				Period:          periodDuration,
				Start:           startTime,
				End:             endTime,
				Category:        flags.category,
			})
			if err != nil {
				return err
			}
			return render.NewSchedulesRenderer(s.printer(cmd)).RenderStream(stream)
		},
	}

	flags.register(cmd, "Amount paid per period")
	cmd.Flags().StringVar(&period, "period", "", "Period length, e.g. 1h or 7d")
	cmd.Flags().StringVar(&start, "start", "", "Start time (default now)")
	cmd.Flags().StringVar(&end, "end", "", "End time, e.g. 2025-01-01 or now+90d")
	_ = cmd.MarkFlagRequired("period")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}

// NewRecurringCmd creates the recurring command group
func NewRecurringCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recurring",
		Short: "Manage recurring payments",
		Long: `A recurring payment pays a fixed amount once per interval. Each execution
pays one installment and moves the next due date forward by one interval.`,
	}

	cmd.AddCommand(newRecurringCreateCmd())
	cmd.AddCommand(newScheduleExecuteCmd(models.ScheduleRecurring))
	cmd.AddCommand(newScheduleCancelCmd(models.ScheduleRecurring))
	cmd.AddCommand(newScheduleListCmd("list", models.ScheduleRecurring))

	return cmd
}

func newRecurringCreateCmd() *cobra.Command {
	var (
		flags    scheduleFlags
		interval string
		first    string
	)

	cmd := &cobra.Command{
		Use:   "create <recipient>",
		Short: "Create a recurring payment",
		Long: `Create a recurring payment to a recipient.

Example:
  treasury recurring create 0xC1.. --amount 100 --interval 30d --first now+30d`,
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
			every, err := parseDuration(interval)
			if err != nil {
				return err
			}
			firstPayment, err := optionalTime(first)
			if err != nil {
				return err
			}

			payment, err := s.CreateRecurringPayment.Run(cmd.Context(), usecase.CreateRecurringPaymentParams{
				Treasury:     s.treasury,
				Caller:       s.caller,
				Recipient:    recipient,
				Asset:        asset,
				Amount:       amount,
				Interval:     every,
				FirstPayment: firstPayment,
				Category:     flags.category,
			})
			if err != nil {
				return err
			}
			return render.NewSchedulesRenderer(s.printer(cmd)).RenderRecurring(payment)
		},
	}

	flags.register(cmd, "Amount paid per installment")
	cmd.Flags().StringVar(&interval, "interval", "", "Interval between installments, e.g. 30d")
	cmd.Flags().StringVar(&first, "first", "", "Due time of the first installment (default now)")
	_ = cmd.MarkFlagRequired("interval")

	return cmd
}

func newScheduleExecuteCmd(kind models.ScheduleKind) *cobra.Command {
	return &cobra.Command{
		Use:   "execute <recipient>",
		Short: "Pay what is due on the " + string(kind) + " to a recipient",
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

			params := usecase.ScheduleParams{Treasury: s.treasury, Caller: s.caller, Recipient: recipient}
			renderer := render.NewPayoutRenderer(s.printer(cmd))
			if kind == models.ScheduleStream {
				result, err := s.ExecuteStreamPayment.Run(cmd.Context(), params)
				if err != nil {
					return err
				}
				return renderer.RenderPayout("Paid stream", &result.PayoutResult, result)
			}
			result, err := s.ExecuteRecurring.Run(cmd.Context(), params)
			if err != nil {
				return err
			}
			return renderer.RenderPayout("Paid installment", &result.PayoutResult, result)
		},
	}
}

func newScheduleCancelCmd(kind models.ScheduleKind) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <recipient>",
		Short: "Cancel the " + string(kind) + " to a recipient",
		Long: `Cancel a schedule. Anything accrued but not yet executed is forfeited.
Requires the authority or the create_streams capability.`,
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

			params := usecase.ScheduleParams{Treasury: s.treasury, Caller: s.caller, Recipient: recipient}
			renderer := render.NewSchedulesRenderer(s.printer(cmd))
			if kind == models.ScheduleStream {
				stream, err := s.CancelPaymentStream.Run(cmd.Context(), params)
				if err != nil {
					return err
				}
				return renderer.RenderStream(stream)
			}
			payment, err := s.CancelRecurringPayment.Run(cmd.Context(), params)
			if err != nil {
				return err
			}
			return renderer.RenderRecurring(payment)
		},
	}
}

func newScheduleListCmd(use string, kinds ...models.ScheduleKind) *cobra.Command {
	var (
		recipient string
		all       bool
	)

	cmd := &cobra.Command{
		Use:     use,
		Aliases: []string{"ls"},
		Short:   "List schedules with what each owes now",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}

			filter := domain.ScheduleFilter{IncludeInactive: all}
			if recipient != "" {
				if filter.Recipient, err = domain.ParseAddress(recipient); err != nil {
					return err
				}
			}

			result, err := s.ListSchedules.Run(cmd.Context(), usecase.ListSchedulesParams{
				Treasury: s.treasury,
				Caller:   s.caller,
				Kinds:    kinds,
				Filter:   filter,
			})
			if err != nil {
				return err
			}
			return render.NewSchedulesRenderer(s.printer(cmd)).RenderSchedules(result)
		},
	}

	cmd.Flags().StringVar(&recipient, "recipient", "", "Only show schedules paying this recipient")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "Include cancelled and completed schedules")

	return cmd
}

// NewSchedulesCmd creates the schedules command group
func NewSchedulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedules",
		Short: "Work with every schedule of a treasury at once",
	}

	cmd.AddCommand(newScheduleListCmd("list"))
	cmd.AddCommand(newSchedulesRunCmd())

	return cmd
}

func newSchedulesRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Pay every stream and recurring payment that is due",
		Long: `Execute every active stream and recurring payment with something due.
Each payment is made on its own; a failed payment is reported and the
remaining ones still run. The caller needs execute_payments and enough
spending limit for the payments made.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}

			result, err := s.ExecuteDuePayments.Run(cmd.Context(), usecase.ExecuteDuePaymentsParams{
				Treasury: s.treasury,
				Caller:   s.caller,
			})
			if err != nil {
				return err
			}
			return render.NewSchedulesRenderer(s.printer(cmd)).RenderDueSweep(result)
		},
	}
}
