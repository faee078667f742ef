package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/trebuchet-org/treasury-cli/internal/domain/config"
	"gopkg.in/yaml.v3"
)

// Printer writes command results either as human-readable tables or as a
// structured document
type Printer struct {
	out      io.Writer
	format   config.OutputFormat
	decimals int32
}

// NewPrinter creates a printer for the configured output format
func NewPrinter(out io.Writer, cfg *config.RuntimeConfig) *Printer {
	return &Printer{
		out:      out,
		format:   cfg.Output,
		decimals: cfg.Decimals,
	}
}

// Structured reports whether results are emitted as JSON or YAML
func (p *Printer) Structured() bool {
	return p.format == config.OutputJSON || p.format == config.OutputYAML
}

// Emit writes v as a JSON or YAML document
func (p *Printer) Emit(v any) error {
	switch p.format {
	case config.OutputYAML:
		enc := yaml.NewEncoder(p.out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(p.out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}
		return nil
	}
}

// Amount formats a base-unit amount with the configured decimals
func (p *Printer) Amount(amount uint64) string {
	return FormatAmount(amount, p.decimals)
}

func (p *Printer) println(a ...any) {
	fmt.Fprintln(p.out, a...)
}

func (p *Printer) printf(format string, a ...any) {
	fmt.Fprintf(p.out, format, a...)
}
