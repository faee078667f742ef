package render

import (
	"errors"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/shopspring/decimal"
	"github.com/trebuchet-org/treasury-cli/internal/domain"
	"github.com/trebuchet-org/treasury-cli/internal/domain/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Color styles shared by the renderers
var (
	labelStyle     = color.New(color.Faint)
	headerStyle    = color.New(color.Bold, color.FgHiWhite)
	addressStyle   = color.New(color.FgWhite)
	amountStyle    = color.New(color.FgGreen)
	timestampStyle = color.New(color.Faint)
	activeStyle    = color.New(color.FgGreen)
	inactiveStyle  = color.New(color.FgRed)
	pendingStyle   = color.New(color.FgYellow)
	tagStyle       = color.New(color.FgCyan)
)

// FormatWarning formats a warning message with the warning icon
func FormatWarning(message string) string {
	return color.New(color.FgYellow).Sprintf("⚠️  %s", message)
}

// FormatError formats an error with the error icon. Treasury errors are
// prefixed with their code.
func FormatError(err error) string {
	var terr *domain.TreasuryError
	if errors.As(err, &terr) {
		return color.New(color.FgRed).Sprintf("❌ %s: %s", terr.Code, capitalize(err.Error()))
	}
	return color.New(color.FgRed).Sprintf("❌ %s", capitalize(err.Error()))
}

// FormatSuccess formats a success message with the success icon
func FormatSuccess(message string) string {
	return color.New(color.FgGreen).Sprintf("✅ %s", message)
}

func capitalize(msg string) string {
	if len(msg) > 0 {
		msg = strings.ToUpper(msg[:1]) + msg[1:]
	}
	return msg
}

// FormatAmount renders a base-unit amount with the given number of decimals
func FormatAmount(amount uint64, decimals int32) string {
	if decimals <= 0 {
		return decimal.NewFromBigInt(new(big.Int).SetUint64(amount), 0).String()
	}
	return decimal.NewFromBigInt(new(big.Int).SetUint64(amount), -decimals).StringFixed(decimals)
}

// FormatAsset renders the native asset by name and tokens by address
func FormatAsset(asset common.Address) string {
	if asset == domain.NativeAsset {
		return "native"
	}
	return asset.Hex()
}

// FormatTier title-cases a role tier
func FormatTier(tier models.RoleTier) string {
	return cases.Title(language.English).String(strings.ReplaceAll(tier.String(), "-", " "))
}

// FormatTime renders a timestamp, or "-" when unset
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format("2006-01-02 15:04:05")
}

// FormatDuration renders durations in whole days when they divide evenly
func FormatDuration(d time.Duration) string {
	const day = 24 * time.Hour
	if d >= day && d%day == 0 {
		n := d / day
		if n == 1 {
			return "1 day"
		}
		return big.NewInt(int64(n)).String() + " days"
	}
	return d.String()
}

// status renders a coloured active/inactive marker
func status(active bool, on, off string) string {
	if active {
		return activeStyle.Sprint(on)
	}
	return inactiveStyle.Sprint(off)
}

// newTable returns a borderless table writer in the house style
func newTable(header ...any) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateColumns = false
	t.Style().Options.SeparateRows = false
	t.Style().Options.SeparateHeader = true
	t.Style().Box.PaddingRight = "   "
	t.Style().Format.Header = text.FormatUpper

	if len(header) > 0 {
		t.AppendHeader(table.Row(header))
	}
	return t
}

// keyValueTable renders label/value pairs
func keyValueTable(rows [][2]string) string {
	t := newTable()
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft},
		{Number: 2, Align: text.AlignLeft},
	})
	for _, r := range rows {
		t.AppendRow(table.Row{labelStyle.Sprint(r[0]), r[1]})
	}
	return t.Render()
}
