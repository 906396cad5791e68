package config

// Default split parameters: a 3-of-5 deal is the common starting point for
// distributing a secret across keepers.
const (
	DefaultThreshold = 3
	DefaultShares    = 5
)

// Defaults returns the default configuration.
func Defaults() *Config {
	return &Config{
		Version: 1,
		Home:    "~/.shardkey",
		Split: SplitConfig{
			DefaultThreshold: DefaultThreshold,
			DefaultShares:    DefaultShares,
			DefaultFormat:    "json",
		},
		Store: StoreConfig{
			Path:    "", // resolved under home
			Encrypt: true,
		},
		Security: SecurityConfig{
			MemoryLock:    true,
			AuthPerMinute: 10,
			AuthBurst:     5,
		},
		Output: OutputConfig{
			DefaultFormat: "auto",
			Color:         "auto",
			Verbose:       false,
		},
		Logging: LoggingConfig{
			Level: "error",
			File:  "~/.shardkey/shardkey.log",
		},
	}
}
