package progress

import (
	"github.com/fatih/color"
	"github.com/trebuchet-org/treasury-cli/internal/domain/config"
	"github.com/trebuchet-org/treasury-cli/internal/usecase"
)

// NewProgressSink picks the sink for the run: a spinner on stderr for
// interactive table output, nothing otherwise.
func NewProgressSink(cfg *config.RuntimeConfig) usecase.ProgressSink {
	if cfg.NonInteractive || cfg.Output != config.OutputTable {
		return usecase.NopProgress{}
	}
	return NewSpinnerSink(color.Error)
}
