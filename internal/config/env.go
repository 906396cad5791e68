package config

import (
	"os"
	"strconv"
	"strings"
)

// Environment variable names.
const (
	EnvHome            = "SHARDKEY_HOME"
	EnvOutputFormat    = "SHARDKEY_OUTPUT_FORMAT"
	EnvVerbose         = "SHARDKEY_VERBOSE"
	EnvLogLevel        = "SHARDKEY_LOG_LEVEL"
	EnvStorePath       = "SHARDKEY_STORE_PATH"
	EnvStorePassphrase = "SHARDKEY_STORE_PASSPHRASE" // #nosec G101 -- const name, not a credential
	EnvNoColor         = "NO_COLOR"
)

// ApplyEnvironment applies environment variable overrides to the
// configuration.
func ApplyEnvironment(cfg *Config) {
	if v := os.Getenv(EnvHome); v != "" {
		cfg.Home = v
	}

	if v := os.Getenv(EnvOutputFormat); v != "" {
		cfg.Output.DefaultFormat = strings.ToLower(strings.TrimSpace(v))
	}

	if v := os.Getenv(EnvVerbose); v != "" {
		cfg.Output.Verbose = parseBool(v)
	}

	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}

	if v := os.Getenv(EnvStorePath); v != "" {
		cfg.Store.Path = v
	}

	// NO_COLOR disables colored output regardless of value.
	if _, ok := os.LookupEnv(EnvNoColor); ok {
		cfg.Output.Color = "never"
	}
}

// StorePassphrase returns the at-rest encryption passphrase from the
// environment, or empty when none is set.
func StorePassphrase() string {
	return os.Getenv(EnvStorePassphrase)
}

func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "1" || s == "true" || s == "yes" || s == "on" {
		return true
	}
	b, _ := strconv.ParseBool(s)
	return b
}
