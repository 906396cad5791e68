package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"

	shkerr "github.com/shardkey/shardkey/pkg/errors"
)

// keys.go maps dot-notation paths (split.default_threshold, output.color)
// onto Config fields for the `config get`/`config set` commands.

type keyAccess struct {
	get func(*Config) string
	set func(*Config, string) error
}

//nolint:gochecknoglobals // static key table
var keyTable = map[string]keyAccess{
	"home": {
		get: func(c *Config) string { return c.Home },
		set: func(c *Config, v string) error { c.Home = v; return nil },
	},
	"split.default_threshold": {
		get: func(c *Config) string { return strconv.Itoa(c.Split.DefaultThreshold) },
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil || n < 2 || n > 255 {
				return shkerr.WithSuggestion(shkerr.ErrInvalidThreshold, "threshold must be an integer in 2..255")
			}
			c.Split.DefaultThreshold = n
			return nil
		},
	},
	"split.default_shares": {
		get: func(c *Config) string { return strconv.Itoa(c.Split.DefaultShares) },
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil || n < 2 || n > 255 {
				return shkerr.WithSuggestion(shkerr.ErrInvalidInput, "share count must be an integer in 2..255")
			}
			c.Split.DefaultShares = n
			return nil
		},
	},
	"split.default_format": {
		get: func(c *Config) string { return c.Split.DefaultFormat },
		set: func(c *Config, v string) error {
			v = strings.ToLower(strings.TrimSpace(v))
			switch v {
			case "json", "hex", "base64", "raw":
				c.Split.DefaultFormat = v
				return nil
			}
			return shkerr.WithSuggestion(shkerr.ErrInvalidFormat, "valid formats: json, hex, base64, raw")
		},
	},
	"store.path": {
		get: func(c *Config) string { return c.Store.Path },
		set: func(c *Config, v string) error { c.Store.Path = v; return nil },
	},
	"store.encrypt": {
		get: func(c *Config) string { return strconv.FormatBool(c.Store.Encrypt) },
		set: func(c *Config, v string) error { c.Store.Encrypt = parseBool(v); return nil },
	},
	"security.memory_lock": {
		get: func(c *Config) string { return strconv.FormatBool(c.Security.MemoryLock) },
		set: func(c *Config, v string) error { c.Security.MemoryLock = parseBool(v); return nil },
	},
	"security.auth_per_minute": {
		get: func(c *Config) string { return strconv.Itoa(c.Security.AuthPerMinute) },
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 {
				return shkerr.WithSuggestion(shkerr.ErrInvalidInput, "auth_per_minute must be a positive integer")
			}
			c.Security.AuthPerMinute = n
			return nil
		},
	},
	"output.default_format": {
		get: func(c *Config) string { return c.Output.DefaultFormat },
		set: func(c *Config, v string) error { c.Output.DefaultFormat = strings.ToLower(v); return nil },
	},
	"output.color": {
		get: func(c *Config) string { return c.Output.Color },
		set: func(c *Config, v string) error { c.Output.Color = strings.ToLower(v); return nil },
	},
	"output.verbose": {
		get: func(c *Config) string { return strconv.FormatBool(c.Output.Verbose) },
		set: func(c *Config, v string) error { c.Output.Verbose = parseBool(v); return nil },
	},
	"logging.level": {
		get: func(c *Config) string { return c.Logging.Level },
		set: func(c *Config, v string) error { c.Logging.Level = strings.ToLower(v); return nil },
	},
	"logging.file": {
		get: func(c *Config) string { return c.Logging.File },
		set: func(c *Config, v string) error { c.Logging.File = v; return nil },
	},
}

// Keys returns all settable key paths, sorted.
func Keys() []string {
	keys := make([]string, 0, len(keyTable))
	for k := range keyTable {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the value at a dot-notation key path.
func Get(cfg *Config, key string) (string, error) {
	access, ok := keyTable[key]
	if !ok {
		return "", unknownKey(key)
	}
	return access.get(cfg), nil
}

// Set assigns the value at a dot-notation key path.
func Set(cfg *Config, key, value string) error {
	access, ok := keyTable[key]
	if !ok {
		return unknownKey(key)
	}
	return access.set(cfg, value)
}

// unknownKey builds the error for a missing key, suggesting the closest
// known one when the typo is plausible.
func unknownKey(key string) error {
	err := shkerr.WithDetails(shkerr.ErrUnknownConfigKey, map[string]string{"key": key})
	if suggestion := closestKey(key); suggestion != "" {
		return shkerr.WithSuggestion(err, fmt.Sprintf("did you mean %q?", suggestion))
	}
	return err
}

// closestKey returns the known key nearest to input, or "" when nothing is
// within editing distance 3.
func closestKey(input string) string {
	best := ""
	bestDist := 4
	for _, k := range Keys() {
		dist := levenshtein.ComputeDistance(input, k)
		if dist < bestDist {
			best = k
			bestDist = dist
		}
	}
	return best
}
