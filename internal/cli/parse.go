package cli

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/treasury-cli/internal/app"
	"github.com/trebuchet-org/treasury-cli/internal/cli/render"
	"github.com/trebuchet-org/treasury-cli/internal/config"
	"github.com/trebuchet-org/treasury-cli/internal/domain"
)

// session bundles what a treasury command needs: the app, the selected
// treasury and the acting caller
type session struct {
	*app.App
	treasury string
	caller   common.Address
}

// newSession resolves the app, treasury and caller for cmd
func newSession(cmd *cobra.Command) (*session, error) {
	a, err := getApp(cmd)
	if err != nil {
		return nil, err
	}
	treasury, err := config.RequireTreasury(a.Config, "")
	if err != nil {
		return nil, err
	}
	caller, err := config.RequireCaller(a.Config)
	if err != nil {
		return nil, err
	}
	return &session{App: a, treasury: treasury, caller: caller}, nil
}

func (s *session) printer(cmd *cobra.Command) *render.Printer {
	return render.NewPrinter(cmd.OutOrStdout(), s.Config)
}

var maxAmount = decimal.NewFromBigInt(new(big.Int).SetUint64(math.MaxUint64), 0)

// parseAmount reads a decimal amount scaled by the configured decimals into
// base units
func parseAmount(s string, decimals int32) (uint64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	base := d.Shift(decimals)
	if !base.IsInteger() {
		return 0, fmt.Errorf("invalid amount %q: more than %d decimal places", s, decimals)
	}
	if base.Sign() < 0 || base.GreaterThan(maxAmount) {
		return 0, fmt.Errorf("invalid amount %q: out of range", s)
	}
	return base.BigInt().Uint64(), nil
}

// parseDuration accepts Go durations plus a whole-day suffix, e.g. "30d"
func parseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.ParseUint(days, 10, 32)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q", s)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", s, err)
	}
	return d, nil
}

// parseTime accepts RFC 3339 timestamps, a date, or "now" optionally
// followed by +duration
func parseTime(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if rest, ok := strings.CutPrefix(s, "now"); ok {
		if rest == "" {
			return now, nil
		}
		offset, err := parseDuration(strings.TrimPrefix(rest, "+"))
		if err != nil {
			return time.Time{}, err
		}
		return now.Add(offset), nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q: use RFC 3339, YYYY-MM-DD or now+<duration>", s)
}

// parseAddresses parses a list of addresses, accepting comma separated values
func parseAddresses(values []string) ([]common.Address, error) {
	parts := lo.FlatMap(values, func(v string, _ int) []string {
		return strings.Split(v, ",")
	})
	parts = lo.Filter(parts, func(p string, _ int) bool { return strings.TrimSpace(p) != "" })

	out := make([]common.Address, 0, len(parts))
	for _, p := range parts {
		addr, err := domain.ParseAddress(p)
		if err != nil {
			return nil, err
		}
		out = append(out, addr)
	}
	return out, nil
}

// parsePayments parses recipient=amount pairs for a batch transfer
func parsePayments(pairs []string, decimals int32) ([]common.Address, []uint64, error) {
	recipients := make([]common.Address, 0, len(pairs))
	amounts := make([]uint64, 0, len(pairs))
	for _, pair := range pairs {
		to, amount, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, nil, fmt.Errorf("invalid payment %q: expected <recipient>=<amount>", pair)
		}
		addr, err := domain.ParseAddress(to)
		if err != nil {
			return nil, nil, err
		}
		value, err := parseAmount(amount, decimals)
		if err != nil {
			return nil, nil, err
		}
		recipients = append(recipients, addr)
		amounts = append(amounts, value)
	}
	return recipients, amounts, nil
}

// parseID parses a numeric record id
func parseID(s string) (uint64, error) {
	id, err := strconv.ParseUint(strings.TrimPrefix(strings.TrimSpace(s), "#"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}
