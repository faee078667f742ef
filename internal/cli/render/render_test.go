package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/treasury-cli/internal/domain"
	"github.com/trebuchet-org/treasury-cli/internal/domain/config"
	"github.com/trebuchet-org/treasury-cli/internal/domain/models"
	"github.com/trebuchet-org/treasury-cli/internal/usecase"
	"gopkg.in/yaml.v3"
)

func init() {
	color.NoColor = true
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		amount   uint64
		decimals int32
		want     string
	}{
		{0, 0, "0"},
		{1000, 0, "1000"},
		{1500, 3, "1.500"},
		{5, 2, "0.05"},
		{18446744073709551615, 0, "18446744073709551615"},
		{1_000_000_000_000_000_000, 18, "1.000000000000000000"},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d/%d", tt.amount, tt.decimals), func(t *testing.T) {
			assert.Equal(t, tt.want, FormatAmount(tt.amount, tt.decimals))
		})
	}
}

func TestFormatTier(t *testing.T) {
	assert.Equal(t, "Admin", FormatTier(models.TierAdmin))
	assert.Equal(t, "Contributor", FormatTier(models.TierContributor))
	assert.Equal(t, "Custom 7", FormatTier(models.RoleTier(7)))
}

func TestFormatAsset(t *testing.T) {
	assert.Equal(t, "native", FormatAsset(domain.NativeAsset))
	token := common.HexToAddress("0x00000000000000000000000000000000000000e1")
	assert.Equal(t, token.Hex(), FormatAsset(token))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "1 day", FormatDuration(24*time.Hour))
	assert.Equal(t, "7 days", FormatDuration(7*24*time.Hour))
	assert.Equal(t, "1h30m0s", FormatDuration(90*time.Minute))
}

func TestFormatError(t *testing.T) {
	err := fmt.Errorf("%w: used 900 of 1000", domain.ErrSpendingLimitExceeded)
	assert.Contains(t, FormatError(err), domain.ErrSpendingLimitExceeded.Code+":")
	assert.Contains(t, FormatError(fmt.Errorf("plain failure")), "Plain failure")
}

func TestDueSweepStructuredOutput(t *testing.T) {
	recipient := common.HexToAddress("0x00000000000000000000000000000000000000c1")
	result := &usecase.ExecuteDuePaymentsResult{
		TotalPaid: 20,
		Outcomes: []usecase.DuePaymentOutcome{
			{Kind: models.ScheduleStream, Recipient: recipient, Amount: 20, Receipt: &models.Receipt{ID: "r-1"}},
			{Kind: models.ScheduleRecurring, Recipient: recipient, Amount: 100, Err: domain.ErrInsufficientPermissions},
		},
	}

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		r := NewSchedulesRenderer(NewPrinter(&buf, &config.RuntimeConfig{Output: config.OutputJSON}))
		require.NoError(t, r.RenderDueSweep(result))

		var view dueSweepView
		require.NoError(t, json.Unmarshal(buf.Bytes(), &view))
		assert.Equal(t, uint64(20), view.TotalPaid)
		require.Len(t, view.Outcomes, 2)
		assert.Empty(t, view.Outcomes[0].Error)
		assert.Equal(t, domain.ErrInsufficientPermissions.Error(), view.Outcomes[1].Error)
		assert.Equal(t, recipient, view.Outcomes[1].Recipient)
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		r := NewSchedulesRenderer(NewPrinter(&buf, &config.RuntimeConfig{Output: config.OutputYAML}))
		require.NoError(t, r.RenderDueSweep(result))

		var doc map[string]any
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
		assert.Equal(t, 20, doc["totalPaid"])
		assert.Len(t, doc["outcomes"], 2)
	})

	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		r := NewSchedulesRenderer(NewPrinter(&buf, &config.RuntimeConfig{Output: config.OutputTable}))
		require.NoError(t, r.RenderDueSweep(result))
		assert.Contains(t, buf.String(), "paid")
		assert.Contains(t, buf.String(), "1 payment(s) failed")
	})
}

func TestTreasuryOverviewTable(t *testing.T) {
	treasury := &models.Treasury{
		Name:           "dao",
		Signers:        []common.Address{common.HexToAddress("0xb1")},
		Threshold:      1,
		Limits:         models.SpendingLimits{Admin: 100, Treasurer: 10, Contributor: 1},
		ResetPeriod:    24 * time.Hour,
		TotalDeposited: 1500,
		TotalWithdrawn: 500,
		Paused:         true,
	}

	var buf bytes.Buffer
	r := NewTreasuryRenderer(NewPrinter(&buf, &config.RuntimeConfig{Output: config.OutputTable, Decimals: 2}))
	require.NoError(t, r.RenderOverview(&usecase.TreasuryOverview{Treasury: treasury, Available: treasury.Available()}))

	out := buf.String()
	assert.Contains(t, out, "dao")
	assert.Contains(t, out, "paused")
	assert.Contains(t, out, "1 of 1")
	assert.Contains(t, out, "15.00")
	assert.Contains(t, out, "10.00")
}
