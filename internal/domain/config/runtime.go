package config

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// StorageBackend selects how records are persisted
type StorageBackend string

const (
	StorageFile   StorageBackend = "file"
	StorageSQLite StorageBackend = "sqlite"
)

// OutputFormat selects how command results are printed
type OutputFormat string

const (
	OutputTable OutputFormat = "table"
	OutputJSON  OutputFormat = "json"
	OutputYAML  OutputFormat = "yaml"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	DataDir string
	Storage StorageBackend

	// Identity of the caller. The environment has already authenticated it.
	Caller common.Address

	// Treasury is the default treasury name for commands that take one
	Treasury string

	// Execution settings
	Debug          bool
	NonInteractive bool
	Output         OutputFormat
	Timeout        time.Duration

	// Display settings
	Decimals int32
}

// JSON reports whether results should be printed as JSON
func (c *RuntimeConfig) JSON() bool {
	return c.Output == OutputJSON
}
