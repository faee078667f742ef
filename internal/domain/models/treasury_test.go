package models_test

import (
	"math"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/treasury-cli/internal/domain"
	"github.com/trebuchet-org/treasury-cli/internal/domain/models"
)

func TestValidateSigners(t *testing.T) {
	signers := []common.Address{alice, bob, carol}

	tests := []struct {
		name      string
		signers   []common.Address
		threshold uint8
		wantErr   error
	}{
		{name: "lower bound", signers: signers, threshold: 1},
		{name: "upper bound", signers: signers, threshold: 3},
		{name: "zero", signers: signers, threshold: 0, wantErr: domain.ErrInvalidSignatureThreshold},
		{name: "above signers", signers: signers, threshold: 4, wantErr: domain.ErrInvalidSignatureThreshold},
		{name: "no signers", signers: nil, threshold: 1, wantErr: domain.ErrInvalidSignatureThreshold},
		{name: "duplicate", signers: []common.Address{alice, alice}, threshold: 1, wantErr: domain.ErrDuplicateSigner},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := models.ValidateSigners(tt.signers, tt.threshold)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, domain.CategoryInvalidInput, domain.CategoryOf(err))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestTreasury_Validate(t *testing.T) {
	valid := func() *models.Treasury {
		return &models.Treasury{
			Name:                  "dao",
			Signers:               []common.Address{alice},
			Threshold:             1,
			ResetPeriod:           24 * time.Hour,
			StakeTargetPercentage: 100,
		}
	}

	require.NoError(t, valid().Validate())

	tr := valid()
	tr.StakeTargetPercentage = 101
	assert.ErrorIs(t, tr.Validate(), domain.ErrInvalidStakePercentage)

	tr = valid()
	tr.ResetPeriod = 0
	assert.ErrorIs(t, tr.Validate(), domain.ErrInvalidSchedule)

	tr = valid()
	tr.Name = "a-name-that-is-much-longer-than-32-bytes"
	assert.ErrorIs(t, tr.Validate(), domain.ErrInvalidText)
}

func TestTreasury_Accounting(t *testing.T) {
	tr := &models.Treasury{}

	require.NoError(t, tr.RecordDeposit(1000))
	assert.Equal(t, uint64(1000), tr.Available())

	require.NoError(t, tr.RecordStake(400))
	assert.Equal(t, uint64(600), tr.Available())

	err := tr.RecordWithdrawal(601)
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
	assert.Equal(t, uint64(0), tr.TotalWithdrawn)

	require.NoError(t, tr.RecordUnstake(400, 50))
	assert.Equal(t, uint64(1050), tr.Available())
	assert.Equal(t, uint64(50), tr.TotalYield)

	require.NoError(t, tr.RecordWithdrawal(1050))
	assert.LessOrEqual(t, tr.TotalWithdrawn, tr.TotalDeposited+tr.TotalYield)
	assert.Zero(t, tr.Available())

	assert.ErrorIs(t, tr.RecordUnstake(1, 0), domain.ErrInsufficientFunds)
}

func TestTreasury_StakeTarget(t *testing.T) {
	tests := []struct {
		name      string
		deposited uint64
		staked    uint64
		pct       uint8
		want      uint64
	}{
		{name: "small base at full target", deposited: 99, pct: 100, want: 99},
		{name: "rounds down", deposited: 99, pct: 50, want: 49},
		{name: "counts staked principal", deposited: 1000, staked: 200, pct: 50, want: 500},
		{name: "zero target", deposited: 1000, pct: 0, want: 0},
		{name: "no overflow near max", deposited: math.MaxUint64, pct: 100, want: math.MaxUint64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := &models.Treasury{TotalDeposited: tt.deposited, StakeTargetPercentage: tt.pct}
			if tt.staked > 0 {
				require.NoError(t, tr.RecordStake(tt.staked))
			}
			assert.Equal(t, tt.want, tr.StakeTarget())
		})
	}
}
