package cli

import (
	"github.com/shardkey/shardkey/internal/config"
	"github.com/shardkey/shardkey/internal/store"
)

// openStore opens the metadata store configured for this invocation. The
// at-rest passphrase comes from the environment so it never appears in
// argv or the config file.
func openStore() (*store.Store, error) {
	passphrase := ""
	if cfg.Store.Encrypt {
		passphrase = config.StorePassphrase()
	}
	return store.Open(store.Options{
		Path:          cfg.StorePath(),
		Passphrase:    passphrase,
		AuthPerMinute: cfg.Security.AuthPerMinute,
		AuthBurst:     cfg.Security.AuthBurst,
	})
}
