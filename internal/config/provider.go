package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/treasury-cli/internal/domain"
	"github.com/trebuchet-org/treasury-cli/internal/domain/config"
)

// DefaultDataDir is the data directory used when none is configured,
// relative to the working directory
const DefaultDataDir = ".treasury"

// Provider creates RuntimeConfig for Wire dependency injection
func Provider(v *viper.Viper) (*config.RuntimeConfig, error) {
	dataDir := v.GetString("data_dir")
	if dataDir == "" {
		dataDir = DefaultDataDir
	}
	dataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory: %w", err)
	}

	cfg := &config.RuntimeConfig{
		DataDir:        dataDir,
		Storage:        config.StorageBackend(strings.ToLower(v.GetString("storage"))),
		Treasury:       v.GetString("treasury"),
		Debug:          v.GetBool("debug"),
		NonInteractive: v.GetBool("non_interactive"),
		Output:         config.OutputFormat(strings.ToLower(v.GetString("output"))),
		Timeout:        v.GetDuration("timeout"),
		Decimals:       v.GetInt32("decimals"),
	}

	switch cfg.Storage {
	case config.StorageFile, config.StorageSQLite:
	default:
		return nil, fmt.Errorf("unknown storage backend %q (expected file or sqlite)", cfg.Storage)
	}

	// --json wins over --output
	if v.GetBool("json") {
		cfg.Output = config.OutputJSON
	}
	switch cfg.Output {
	case config.OutputTable, config.OutputJSON, config.OutputYAML:
	default:
		return nil, fmt.Errorf("unknown output format %q (expected table, json or yaml)", cfg.Output)
	}

	if cfg.Decimals < 0 || cfg.Decimals > 18 {
		return nil, fmt.Errorf("decimals must be between 0 and 18, got %d", cfg.Decimals)
	}

	if caller := v.GetString("caller"); caller != "" {
		addr, err := domain.ParseAddress(caller)
		if err != nil {
			return nil, fmt.Errorf("invalid caller: %w", err)
		}
		cfg.Caller = addr
	}

	return cfg, nil
}

// RequireCaller returns the configured caller or an error telling the
// operator how to set one
func RequireCaller(cfg *config.RuntimeConfig) (common.Address, error) {
	if cfg.Caller == (common.Address{}) {
		return common.Address{}, fmt.Errorf("no caller configured: pass --as <address> or set TREASURY_CALLER")
	}
	return cfg.Caller, nil
}

// RequireTreasury returns the treasury named on the command line, falling
// back to the configured default
func RequireTreasury(cfg *config.RuntimeConfig, name string) (string, error) {
	if name != "" {
		return name, nil
	}
	if cfg.Treasury == "" {
		return "", fmt.Errorf("no treasury selected: pass --treasury <name> or set TREASURY_TREASURY")
	}
	return cfg.Treasury, nil
}

// LoadEnvFiles loads .env and .env.local from dir without overriding
// variables that are already set
func LoadEnvFiles(dir string) {
	envFiles := []string{
		filepath.Join(dir, ".env"),
		filepath.Join(dir, ".env.local"),
	}

	for _, envFile := range envFiles {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: Failed to load %s: %v\n", envFile, err)
			}
		}
	}
}

// SetupViper creates and configures a viper instance
func SetupViper(workDir string, cmd *cobra.Command) *viper.Viper {
	LoadEnvFiles(workDir)

	v := viper.New()

	// Set up environment variables
	v.SetEnvPrefix("TREASURY")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	// Set defaults
	v.SetDefault("data_dir", filepath.Join(workDir, DefaultDataDir))
	v.SetDefault("storage", string(config.StorageFile))
	v.SetDefault("output", string(config.OutputTable))
	v.SetDefault("timeout", "1m")
	v.SetDefault("decimals", 0)
	v.SetDefault("debug", false)
	v.SetDefault("non_interactive", false)
	v.SetDefault("json", false)

	if cmd != nil {
		cmd.Flags().VisitAll(func(f *pflag.Flag) {
			if err := v.BindPFlag(flagKey(f.Name), f); err != nil {
				panic(err)
			}
		})
	}

	// Config file lives in the data directory, which may itself come from a flag
	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(v.GetString("data_dir"))

	// Try to read config file (ignore error if not found)
	_ = v.ReadInConfig()

	return v
}

// flagKey maps a flag name onto its viper key. --as sets the caller.
func flagKey(name string) string {
	if name == "as" {
		return "caller"
	}
	return strings.ReplaceAll(name, "-", "_")
}
