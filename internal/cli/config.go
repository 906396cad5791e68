package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/shardkey/shardkey/internal/config"
	"github.com/shardkey/shardkey/internal/output"
	shkerr "github.com/shardkey/shardkey/pkg/errors"
)

var configForce bool

// configCmd is the parent command for configuration operations.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `View and modify shardkey configuration settings.`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	Long: `Create a default configuration file at ~/.shardkey/config.yaml.

An existing file is not overwritten unless --force is given.`,
	RunE: runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Long: `Get a configuration value by its dot-notation key.

Examples:
  shardkey config get split.default_threshold
  shardkey config get logging.level`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value by its dot-notation key and save the file.

Examples:
  shardkey config set split.default_threshold 4
  shardkey config set store.encrypt false`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all configuration keys",
	RunE:  runConfigList,
}

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "overwrite an existing configuration file")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configListCmd)
}

func runConfigInit(_ *cobra.Command, _ []string) error {
	path := config.Path(cfg.Home)
	if _, err := os.Stat(path); err == nil && !configForce {
		return shkerr.WithSuggestion(
			shkerr.WithDetails(shkerr.ErrConfigInvalid, map[string]string{"path": path}),
			"configuration already exists; use --force to overwrite",
		)
	}

	defaults := config.Defaults()
	defaults.Home = cfg.Home
	if err := config.Save(defaults, path); err != nil {
		return shkerr.Wrap(err, "writing configuration")
	}
	return output.FormatSuccess(formatter.Writer(), "Configuration written to "+path, formatter.Format())
}

func runConfigShow(_ *cobra.Command, _ []string) error {
	if formatter.IsJSON() {
		return formatter.Print(cfg)
	}

	table := output.NewTable("KEY", "VALUE")
	for _, key := range config.Keys() {
		value, err := config.Get(cfg, key)
		if err != nil {
			return err
		}
		table.AddRow(key, value)
	}
	return table.Render(formatter.Writer())
}

func runConfigGet(_ *cobra.Command, args []string) error {
	value, err := config.Get(cfg, args[0])
	if err != nil {
		return err
	}
	return formatter.Print(value)
}

func runConfigSet(_ *cobra.Command, args []string) error {
	if err := config.Set(cfg, args[0], args[1]); err != nil {
		return err
	}
	if err := config.Save(cfg, config.Path(cfg.Home)); err != nil {
		return shkerr.Wrap(err, "saving configuration")
	}
	return output.FormatSuccess(formatter.Writer(), args[0]+" updated", formatter.Format())
}

func runConfigList(_ *cobra.Command, _ []string) error {
	if formatter.IsJSON() {
		return formatter.Print(map[string]any{"keys": config.Keys()})
	}
	for _, key := range config.Keys() {
		if err := formatter.Println(key); err != nil {
			return err
		}
	}
	return nil
}
