package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/treasury-cli/internal/adapters/yield"
	"github.com/trebuchet-org/treasury-cli/internal/domain"
	"github.com/trebuchet-org/treasury-cli/internal/domain/models"
	"github.com/trebuchet-org/treasury-cli/internal/usecase"
)

func TestWithdraw(t *testing.T) {
	ctx := context.Background()

	withdraw := func(e *env, caller common.Address, amount uint64) (*usecase.PayoutResult, error) {
		return usecase.NewWithdraw(e.store, e.ledger, e.clock, e.log).Run(ctx, usecase.WithdrawParams{
			Treasury:  treasuryID,
			Caller:    caller,
			Recipient: payee,
			Asset:     domain.NativeAsset,
			Amount:    amount,
		})
	}

	t.Run("pays and charges the limit", func(t *testing.T) {
		e := newEnv(t)
		e.setup(t)
		e.fund(t, 5_000)
		e.assign(t, alice, models.TierContributor, models.CapExecutePayments)

		res, err := withdraw(e, alice, 600)
		require.NoError(t, err)
		assert.Equal(t, uint64(600), res.Amount)
		assert.NotEmpty(t, res.Receipt.ID)
		assert.Equal(t, uint64(600), res.Role.SpendingLimitUsed)
		assert.Equal(t, uint64(600), e.balance(t, payee))
		assert.Equal(t, uint64(4_400), e.balance(t, domain.TreasuryAddress(treasuryID)))
	})

	t.Run("limit exceeded leaves no trace", func(t *testing.T) {
		e := newEnv(t)
		e.setup(t)
		e.fund(t, 5_000)
		e.assign(t, alice, models.TierContributor, models.CapExecutePayments)

		_, err := withdraw(e, alice, 600)
		require.NoError(t, err)

		_, err = withdraw(e, alice, 600)
		assert.ErrorIs(t, err, domain.ErrSpendingLimitExceeded)
		assert.Equal(t, domain.CategoryPolicy, domain.CategoryOf(err))

		assert.Equal(t, uint64(600), e.role(t, alice).SpendingLimitUsed)
		assert.Equal(t, uint64(600), e.current(t).TotalWithdrawn)
		assert.Equal(t, uint64(600), e.balance(t, payee))

		// a full reset period later the limit is fresh
		e.clock.Advance(day)
		_, err = withdraw(e, alice, 600)
		require.NoError(t, err)
		assert.Equal(t, uint64(600), e.role(t, alice).SpendingLimitUsed)
	})

	t.Run("tier limits differ", func(t *testing.T) {
		e := newEnv(t)
		e.setup(t)
		e.fund(t, 50_000)
		e.assign(t, alice, models.TierTreasurer, models.CapExecutePayments)

		_, err := withdraw(e, alice, 10_000)
		require.NoError(t, err)
		_, err = withdraw(e, alice, 1)
		assert.ErrorIs(t, err, domain.ErrSpendingLimitExceeded)
	})

	t.Run("authority and outsiders are not payers", func(t *testing.T) {
		e := newEnv(t)
		e.setup(t)
		e.fund(t, 1_000)
		e.assign(t, bob, models.TierAdmin, models.CapViewTreasury)

		for _, caller := range []common.Address{authority, outsider, bob} {
			_, err := withdraw(e, caller, 1)
			assert.ErrorIs(t, err, domain.ErrInsufficientPermissions, caller.Hex())
		}
	})

	t.Run("cannot exceed available funds", func(t *testing.T) {
		e := newEnv(t)
		e.setup(t)
		e.fund(t, 100)
		e.assign(t, alice, models.TierAdmin, models.CapExecutePayments)

		_, err := withdraw(e, alice, 101)
		assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
		assert.Zero(t, e.role(t, alice).SpendingLimitUsed)
	})

	t.Run("zero amount", func(t *testing.T) {
		e := newEnv(t)
		e.setup(t)
		e.assign(t, alice, models.TierAdmin, models.CapExecutePayments)

		_, err := withdraw(e, alice, 0)
		assert.ErrorIs(t, err, domain.ErrInvalidPaymentAmount)
	})

	t.Run("whitelist", func(t *testing.T) {
		e := newEnv(t)
		e.setup(t, func(p *usecase.InitializeTreasuryParams) { p.WhitelistEnabled = true })
		e.fund(t, 1_000)
		e.assign(t, alice, models.TierAdmin, models.CapExecutePayments)

		_, err := withdraw(e, alice, 10)
		assert.ErrorIs(t, err, domain.ErrRecipientNotWhitelisted)

		_, err = usecase.NewAddWhitelistRecipient(e.store, e.clock, e.log).Run(ctx, usecase.WhitelistParams{
			Treasury: treasuryID, Caller: authority, Recipient: payee, Label: "vendor",
		})
		require.NoError(t, err)

		_, err = withdraw(e, alice, 10)
		require.NoError(t, err)

		err = usecase.NewRemoveWhitelistRecipient(e.store, e.log).Run(ctx, usecase.WhitelistParams{
			Treasury: treasuryID, Caller: authority, Recipient: payee,
		})
		require.NoError(t, err)

		_, err = withdraw(e, alice, 10)
		assert.ErrorIs(t, err, domain.ErrRecipientNotWhitelisted)
	})
}

func TestWithdraw_TransferFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.setup(t)
	e.fund(t, 1_000)
	e.assign(t, alice, models.TierAdmin, models.CapExecutePayments)

	transfers := new(MockTransferService)
	transfers.On("Transfer", mock.Anything, mock.MatchedBy(func(legs []models.Transfer) bool {
		return len(legs) == 1 && legs[0].From == domain.TreasuryAddress(treasuryID) && legs[0].Amount == 300
	})).Return(nil, domain.ErrInsufficientFunds)

	_, err := usecase.NewWithdraw(e.store, transfers, e.clock, e.log).Run(ctx, usecase.WithdrawParams{
		Treasury: treasuryID, Caller: alice, Recipient: payee, Asset: domain.NativeAsset, Amount: 300,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
	transfers.AssertExpectations(t)

	assert.Zero(t, e.current(t).TotalWithdrawn)
	assert.Zero(t, e.role(t, alice).SpendingLimitUsed)
}

func TestWithdraw_TokenShortfallRollsBack(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.setup(t)
	e.fund(t, 1_000)
	e.assign(t, alice, models.TierAdmin, models.CapExecutePayments)

	// counters allow it but the vault holds none of this token
	token := common.HexToAddress("0x00000000000000000000000000000000000000e1")
	_, err := usecase.NewWithdraw(e.store, e.ledger, e.clock, e.log).Run(ctx, usecase.WithdrawParams{
		Treasury: treasuryID, Caller: alice, Recipient: payee, Asset: token, Amount: 10,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
	assert.Zero(t, e.current(t).TotalWithdrawn)
}

func TestDeposit_AutoStake(t *testing.T) {
	ctx := context.Background()
	token := common.HexToAddress("0x00000000000000000000000000000000000000e1")
	vault := domain.TreasuryAddress(treasuryID)
	pool := domain.StakePoolAddress(vault)

	autoStake := func(pct uint8) func(*usecase.InitializeTreasuryParams) {
		return func(p *usecase.InitializeTreasuryParams) {
			p.AutoStake = true
			p.StakeTargetPercentage = pct
		}
	}

	deposit := func(t *testing.T, e *env, asset common.Address, amount uint64) (*usecase.DepositResult, error) {
		t.Helper()
		_, err := e.ledger.Credit(ctx, outsider, asset, amount)
		require.NoError(t, err)
		return usecase.NewDeposit(e.store, e.ledger, e.stakePool(), e.log).Run(ctx, usecase.DepositParams{
			Treasury: treasuryID, Caller: outsider, Asset: asset, Amount: amount,
		})
	}

	t.Run("stakes up to the target", func(t *testing.T) {
		e := newEnv(t)
		e.setup(t, autoStake(50))

		res, err := deposit(t, e, domain.NativeAsset, 1_000)
		require.NoError(t, err)
		assert.Equal(t, uint64(500), res.AutoStaked)
		assert.Equal(t, res.Receipt, res.StakeReceipt)
		assert.Len(t, res.Receipt.Legs, 2)

		tr := e.current(t)
		assert.Equal(t, uint64(1_000), tr.TotalDeposited)
		assert.Equal(t, uint64(500), tr.TotalStaked)
		assert.Equal(t, uint64(500), tr.Available())
		assert.Equal(t, uint64(500), e.balance(t, vault))
		assert.Equal(t, uint64(500), e.balance(t, pool))

		// tops up to the new target
		res, err = deposit(t, e, domain.NativeAsset, 200)
		require.NoError(t, err)
		assert.Equal(t, uint64(100), res.AutoStaked)
		assert.Equal(t, uint64(600), e.current(t).TotalStaked)
	})

	t.Run("token deposits are not staked", func(t *testing.T) {
		e := newEnv(t)
		e.setup(t, autoStake(50))

		res, err := deposit(t, e, token, 1_000)
		require.NoError(t, err)
		assert.Zero(t, res.AutoStaked)
		assert.Nil(t, res.StakeReceipt)
		assert.Zero(t, e.current(t).TotalStaked)
		assert.Zero(t, e.balance(t, pool))
	})

	t.Run("stake is capped by native funds in the vault", func(t *testing.T) {
		e := newEnv(t)
		e.setup(t, autoStake(100))

		_, err := deposit(t, e, token, 1_000)
		require.NoError(t, err)

		res, err := deposit(t, e, domain.NativeAsset, 10)
		require.NoError(t, err)
		assert.Equal(t, uint64(10), res.AutoStaked)

		tr := e.current(t)
		assert.Equal(t, uint64(1_010), tr.TotalDeposited)
		assert.Equal(t, uint64(10), tr.TotalStaked)
		assert.Zero(t, e.balance(t, vault))
		assert.Equal(t, uint64(10), e.balance(t, pool))
		assert.Zero(t, e.balance(t, outsider))
	})
}

func TestDeposit_AutoStakeFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.setup(t, func(p *usecase.InitializeTreasuryParams) {
		p.AutoStake = true
		p.StakeTargetPercentage = 100
	})
	vault := domain.TreasuryAddress(treasuryID)

	transfers := new(MockTransferService)
	transfers.On("Balance", mock.Anything, vault, domain.NativeAsset).Return(uint64(0), nil)
	transfers.On("Transfer", mock.Anything, mock.MatchedBy(func(legs []models.Transfer) bool {
		return len(legs) == 2 &&
			legs[0].To == vault && legs[0].Amount == 400 &&
			legs[1].From == vault && legs[1].To == domain.StakePoolAddress(vault) && legs[1].Amount == 400
	})).Return(nil, domain.ErrInsufficientFunds).Once()

	_, err := usecase.NewDeposit(e.store, transfers, yield.NewStakePool(transfers, e.log), e.log).Run(ctx, usecase.DepositParams{
		Treasury: treasuryID, Caller: outsider, Asset: domain.NativeAsset, Amount: 400,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
	transfers.AssertExpectations(t)
	transfers.AssertNumberOfCalls(t, "Transfer", 1)

	tr := e.current(t)
	assert.Zero(t, tr.TotalDeposited)
	assert.Zero(t, tr.TotalStaked)
}

func TestBatchTransfer(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.setup(t)
	e.fund(t, 1_000)
	e.assign(t, alice, models.TierAdmin, models.CapExecutePayments)

	batch := usecase.NewBatchTransfer(e.store, e.ledger, e.clock, e.log)

	t.Run("mismatched batch", func(t *testing.T) {
		_, err := batch.Run(ctx, usecase.BatchTransferParams{
			Treasury: treasuryID, Caller: alice, Asset: domain.NativeAsset,
			Recipients: []common.Address{bob, carol},
			Amounts:    []uint64{1},
		})
		assert.ErrorIs(t, err, domain.ErrInvalidBatch)
	})

	t.Run("empty batch", func(t *testing.T) {
		_, err := batch.Run(ctx, usecase.BatchTransferParams{Treasury: treasuryID, Caller: alice, Asset: domain.NativeAsset})
		assert.ErrorIs(t, err, domain.ErrInvalidBatch)
	})

	t.Run("pays every recipient as one unit", func(t *testing.T) {
		res, err := batch.Run(ctx, usecase.BatchTransferParams{
			Treasury: treasuryID, Caller: alice, Asset: domain.NativeAsset,
			Recipients: []common.Address{bob, carol},
			Amounts:    []uint64{100, 250},
		})
		require.NoError(t, err)
		assert.Equal(t, uint64(350), res.Amount)
		assert.Len(t, res.Receipt.Legs, 2)
		assert.Equal(t, uint64(100), e.balance(t, bob))
		assert.Equal(t, uint64(250), e.balance(t, carol))
		assert.Equal(t, uint64(350), e.current(t).TotalWithdrawn)
	})
}

func TestPaymentStream(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.setup(t)
	e.fund(t, 10_000)
	e.assign(t, alice, models.TierAdmin, models.CapExecutePayments, models.CapCreateStreams)

	stream, err := usecase.NewCreatePaymentStream(e.store, e.clock, e.log).Run(ctx, usecase.CreatePaymentStreamParams{
		Treasury:        treasuryID,
		Caller:          alice,
		Recipient:       payee,
		Asset:           domain.NativeAsset,
		AmountPerPeriod: 10,
		Period:          day,
		End:             t0.Add(5 * day),
		Category:        "payroll",
	})
	require.NoError(t, err)
	assert.Equal(t, t0, stream.LastPaymentTime)

	execute := usecase.NewExecuteStreamPayment(e.store, e.ledger, e.clock, e.log)
	params := usecase.ScheduleParams{Treasury: treasuryID, Caller: alice, Recipient: payee}

	_, err = execute.Run(ctx, params)
	assert.ErrorIs(t, err, domain.ErrPaymentStreamNotDue)

	e.clock.Advance(3*day + 12*time.Hour)
	res, err := execute.Run(ctx, params)
	require.NoError(t, err)
	assert.Equal(t, uint64(30), res.Amount)
	assert.Equal(t, t0.Add(3*day), res.Stream.LastPaymentTime)

	_, err = execute.Run(ctx, params)
	assert.ErrorIs(t, err, domain.ErrPaymentStreamNotDue)

	// accrual stops at the end time
	e.clock.Advance(10 * day)
	res, err = execute.Run(ctx, params)
	require.NoError(t, err)
	assert.Equal(t, uint64(20), res.Amount)
	assert.Equal(t, uint64(50), res.Stream.TotalPaid)
	assert.Equal(t, uint64(50), e.balance(t, payee))

	_, err = usecase.NewCancelPaymentStream(e.store, e.log).Run(ctx, usecase.ScheduleParams{Treasury: treasuryID, Caller: authority, Recipient: payee})
	require.NoError(t, err)
	_, err = execute.Run(ctx, params)
	assert.ErrorIs(t, err, domain.ErrPaymentStreamInactive)
}

func TestRecurringPayment(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.setup(t)
	e.fund(t, 10_000)
	e.assign(t, alice, models.TierAdmin, models.CapExecutePayments, models.CapCreateStreams)

	_, err := usecase.NewCreateRecurringPayment(e.store, e.clock, e.log).Run(ctx, usecase.CreateRecurringPaymentParams{
		Treasury:  treasuryID,
		Caller:    alice,
		Recipient: payee,
		Asset:     domain.NativeAsset,
		Amount:    100,
		Interval:  7 * day,
	})
	require.NoError(t, err)

	execute := usecase.NewExecuteRecurringPayment(e.store, e.ledger, e.clock, e.log)
	params := usecase.ScheduleParams{Treasury: treasuryID, Caller: alice, Recipient: payee}

	res, err := execute.Run(ctx, params)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), res.Amount)
	assert.Equal(t, t0.Add(7*day), res.Payment.NextPayment)

	e.clock.Advance(6 * day)
	_, err = execute.Run(ctx, params)
	assert.ErrorIs(t, err, domain.ErrPaymentStreamNotDue)

	e.clock.Advance(day)
	res, err = execute.Run(ctx, params)
	require.NoError(t, err)
	assert.Equal(t, t0.Add(14*day), res.Payment.NextPayment)
	assert.Equal(t, uint64(200), res.Payment.TotalPaid)
	assert.Equal(t, uint64(200), e.balance(t, payee))

	_, err = usecase.NewCancelRecurringPayment(e.store, e.log).Run(ctx, params)
	require.NoError(t, err)
	e.clock.Advance(7 * day)
	_, err = execute.Run(ctx, params)
	assert.ErrorIs(t, err, domain.ErrPaymentStreamInactive)
}

func TestMilestonePayment(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.setup(t)
	e.fund(t, 10_000)
	e.assign(t, alice, models.TierAdmin, models.CapExecutePayments, models.CapCreateStreams)

	create := usecase.NewCreateMilestonePayment(e.store, e.clock, e.log)
	first, err := create.Run(ctx, usecase.CreateMilestonePaymentParams{
		Treasury: treasuryID, Caller: alice, Recipient: payee, Asset: domain.NativeAsset,
		Amount: 700, Description: "Ship v1",
	})
	require.NoError(t, err)
	second, err := create.Run(ctx, usecase.CreateMilestonePaymentParams{
		Treasury: treasuryID, Caller: alice, Recipient: payee, Asset: domain.NativeAsset,
		Amount: 300, Description: "Ship v2",
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), first.ID)
	assert.Equal(t, uint64(2), second.ID)

	complete := usecase.NewCompleteMilestone(e.store, e.ledger, e.clock, e.log)
	res, err := complete.Run(ctx, usecase.CompleteMilestoneParams{Treasury: treasuryID, Caller: alice, ID: first.ID})
	require.NoError(t, err)
	assert.True(t, res.Milestone.Completed)
	assert.Equal(t, uint64(700), e.balance(t, payee))

	_, err = complete.Run(ctx, usecase.CompleteMilestoneParams{Treasury: treasuryID, Caller: alice, ID: first.ID})
	assert.ErrorIs(t, err, domain.ErrMilestoneAlreadyCompleted)
	assert.Equal(t, uint64(700), e.balance(t, payee))

	listed, err := usecase.NewListSchedules(e.store, e.clock).Run(ctx, usecase.ListSchedulesParams{
		Treasury: treasuryID,
		Caller:   authority,
		Kinds:    []models.ScheduleKind{models.ScheduleMilestone},
	})
	require.NoError(t, err)
	require.Len(t, listed.Milestones, 1)
	assert.Equal(t, second.ID, listed.Milestones[0].ID)
}

func TestExecuteDuePayments(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.setup(t)
	e.fund(t, 10_000)
	e.assign(t, alice, models.TierAdmin, models.CapExecutePayments, models.CapCreateStreams)

	_, err := usecase.NewCreatePaymentStream(e.store, e.clock, e.log).Run(ctx, usecase.CreatePaymentStreamParams{
		Treasury: treasuryID, Caller: alice, Recipient: bob, Asset: domain.NativeAsset,
		AmountPerPeriod: 10, Period: day,
	})
	require.NoError(t, err)
	createRecurring := usecase.NewCreateRecurringPayment(e.store, e.clock, e.log)
	_, err = createRecurring.Run(ctx, usecase.CreateRecurringPaymentParams{
		Treasury: treasuryID, Caller: alice, Recipient: carol, Asset: domain.NativeAsset,
		Amount: 100, Interval: 7 * day,
	})
	require.NoError(t, err)
	_, err = createRecurring.Run(ctx, usecase.CreateRecurringPaymentParams{
		Treasury: treasuryID, Caller: alice, Recipient: payee, Asset: domain.NativeAsset,
		Amount: 100, Interval: 7 * day, FirstPayment: t0.Add(30 * day),
	})
	require.NoError(t, err)

	e.clock.Advance(2 * day)

	sink := &MockProgressSink{}
	sweep := usecase.NewExecuteDuePayments(
		e.store,
		e.clock,
		usecase.NewExecuteStreamPayment(e.store, e.ledger, e.clock, e.log),
		usecase.NewExecuteRecurringPayment(e.store, e.ledger, e.clock, e.log),
		sink,
		e.log,
	)

	res, err := sweep.Run(ctx, usecase.ExecuteDuePaymentsParams{Treasury: treasuryID, Caller: alice})
	require.NoError(t, err)
	require.Len(t, res.Outcomes, 2)
	assert.Empty(t, res.Failed())
	assert.Equal(t, uint64(120), res.TotalPaid)
	assert.Equal(t, uint64(20), e.balance(t, bob))
	assert.Equal(t, uint64(100), e.balance(t, carol))
	assert.Zero(t, e.balance(t, payee))

	require.NotEmpty(t, sink.events)
	assert.Equal(t, usecase.StageScanning, sink.events[0].Stage)
	assert.Equal(t, usecase.StagePaid, sink.events[len(sink.events)-1].Stage)

	t.Run("failures are collected", func(t *testing.T) {
		e.clock.Advance(7 * day)
		res, err := sweep.Run(ctx, usecase.ExecuteDuePaymentsParams{Treasury: treasuryID, Caller: outsider})
		require.NoError(t, err)
		require.Len(t, res.Failed(), 2)
		for _, f := range res.Failed() {
			assert.ErrorIs(t, f.Err, domain.ErrInsufficientPermissions)
		}
		assert.NotEmpty(t, sink.infos)
	})
}

func TestStaking(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.setup(t)
	e.fund(t, 1_000)
	e.assign(t, alice, models.TierAdmin, models.CapExecutePayments)

	stake := usecase.NewStakeForYield(e.store, e.stakePool(), e.log)
	unstake := usecase.NewUnstake(e.store, e.stakePool(), e.log)
	vault := domain.TreasuryAddress(treasuryID)

	res, err := stake.Run(ctx, usecase.StakeParams{Treasury: treasuryID, Caller: alice, Amount: 400})
	require.NoError(t, err)
	assert.Equal(t, uint64(400), res.Treasury.TotalStaked)
	assert.Equal(t, uint64(600), res.Treasury.Available())
	assert.Equal(t, uint64(600), e.balance(t, vault))

	_, err = stake.Run(ctx, usecase.StakeParams{Treasury: treasuryID, Caller: alice, Amount: 601})
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)

	// yield accrues in the pool
	_, err = e.ledger.Credit(ctx, domain.StakePoolAddress(vault), domain.NativeAsset, 40)
	require.NoError(t, err)

	res, err = unstake.Run(ctx, usecase.StakeParams{Treasury: treasuryID, Caller: alice, Amount: 400})
	require.NoError(t, err)
	assert.Equal(t, uint64(40), res.Reward)
	assert.Zero(t, res.Treasury.TotalStaked)
	assert.Equal(t, uint64(40), res.Treasury.TotalYield)
	assert.Equal(t, uint64(1_040), res.Treasury.Available())
	assert.Equal(t, uint64(1_040), e.balance(t, vault))
}
