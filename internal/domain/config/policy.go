package config

// PolicyFile is the on-disk treasury policy used by `treasury init --file`.
// Durations use Go duration syntax ("24h", "720h").
type PolicyFile struct {
	Name      string   `toml:"name"`
	Signers   []string `toml:"signers"`
	Threshold uint8    `toml:"threshold"`

	Limits struct {
		Admin       uint64 `toml:"admin"`
		Treasurer   uint64 `toml:"treasurer"`
		Contributor uint64 `toml:"contributor"`
		ResetPeriod string `toml:"reset_period"`
	} `toml:"limits"`

	Staking struct {
		AutoStake        bool  `toml:"auto_stake"`
		TargetPercentage uint8 `toml:"target_percentage"`
	} `toml:"staking"`

	Whitelist struct {
		Enabled    bool              `toml:"enabled"`
		Recipients map[string]string `toml:"recipients"` // address -> label
	} `toml:"whitelist"`
}
