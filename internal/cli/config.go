package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/ballot-dapp/ballot/internal/config"
	"github.com/ballot-dapp/ballot/internal/output"
	ballerr "github.com/ballot-dapp/ballot/pkg/errors"
)

// configCmd is the parent command for configuration operations.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `View and modify ballot configuration settings.`,
}

// configInitCmd initializes the configuration.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	Long: `Create a default configuration file at ~/.ballot/config.yaml.

If a configuration file already exists, this command will not overwrite it
unless --force is specified.`,
	Example: `  ballot config init
  ballot config init --force`,
	RunE: runConfigInit,
}

// configShowCmd shows the current configuration.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long: `Display the effective configuration, after environment variables and
flags have been applied.`,
	Example: `  ballot config show
  ballot config show -o json`,
	RunE: runConfigShow,
}

// configGetCmd gets a specific configuration value.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Long: `Get a specific configuration value by its dot-notation key.
List values print comma-separated.`,
	Example: `  ballot config get provider.url
  ballot config get network.allowed_chain_ids
  ballot config get logging.level`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigGet,
}

// configSetCmd sets a configuration value.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a specific configuration value by its dot-notation key.
List values are comma-separated. The configuration file is updated
immediately.`,
	Example: `  ballot config set provider.url ws://127.0.0.1:1248
  ballot config set network.allowed_chain_ids 0x539,0x1691
  ballot config set ui.install_url https://metamask.io/download`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var configForce bool

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	enrichParentLong(configCmd)

	configInitCmd.Flags().BoolVar(&configForce, "force", false, "overwrite existing configuration")
	configCmd.GroupID = "config"
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	path := config.Path(cfg.Home)
	if _, err := os.Stat(path); err == nil && !configForce {
		return ballerr.WithDetails(
			ballerr.WithSuggestion(ballerr.ErrGeneral, "rerun with --force to overwrite it"),
			map[string]string{"path": path, "reason": "configuration already exists"},
		)
	}

	fresh := config.Defaults()
	fresh.Home = cfg.Home
	if err := config.Save(fresh, path); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	w := cmd.OutOrStdout()
	if formatter.IsJSON() {
		return output.FormatSuccess(w, "Configuration initialized at "+path, output.FormatJSON)
	}
	out(w, "Configuration initialized at %s\n\n", path)
	outln(w, "Settings most deployments change:")
	for _, hint := range [][2]string{
		{"provider.url", "wallet provider endpoint (http, https, ws or wss)"},
		{"network.allowed_chain_ids", "chains the voting front end accepts"},
		{"ui.install_url", "where the install button points"},
		{"logging.level", "off, error, info or debug"},
	} {
		out(w, "  %-26s %s\n", hint[0], hint[1])
	}
	return nil
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	values, err := configValues(cfg)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if formatter.IsJSON() {
		return writeJSON(w, values)
	}
	table := output.NewTable("KEY", "VALUE")
	for _, key := range config.Keys() {
		table.AddRow(key, values[key])
	}
	return table.Render(w)
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	value, err := cfg.Get(args[0])
	if err != nil {
		return err
	}
	outln(cmd.OutOrStdout(), value)
	return nil
}

// runConfigSet edits the file on disk, not the effective configuration, so
// environment and flag overrides never get persisted.
func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]
	path := config.Path(cfg.Home)

	onDisk, err := config.Load(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		onDisk = config.Defaults()
		onDisk.Home = cfg.Home
	case err != nil:
		return err
	}

	if err = onDisk.Set(key, value); err != nil {
		return err
	}
	if err = config.Save(onDisk, path); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	stored, _ := onDisk.Get(key)
	out(cmd.OutOrStdout(), "Set %s = %s\n", key, stored)
	return nil
}

func configValues(c *config.Config) (map[string]string, error) {
	values := make(map[string]string)
	for _, key := range config.Keys() {
		v, err := c.Get(key)
		if err != nil {
			return nil, err
		}
		values[key] = v
	}
	return values, nil
}
