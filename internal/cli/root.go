// Package cli implements the ballot command-line interface.
//
// Flags and the state derived from them live in package variables, set up
// by the root command's PersistentPreRunE and released in its
// PersistentPostRun.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level state
package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ballot-dapp/ballot/internal/config"
	"github.com/ballot-dapp/ballot/internal/output"
	"github.com/ballot-dapp/ballot/internal/provider"
	ballerr "github.com/ballot-dapp/ballot/pkg/errors"
)

// BuildInfo describes the binary being run.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

var (
	homeDir      string
	outputFormat string
	verbose      bool
	providerURL  string

	cfg       *config.Config
	logger    *config.Logger
	formatter *output.Formatter

	buildInfo BuildInfo
)

var rootCmd = &cobra.Command{
	Use:   "ballot",
	Short: "Wallet connector for the ballot voting front end",
	Long: `Ballot negotiates with an EIP-1193 wallet provider on behalf of the
voting front end: it detects the wallet, keeps it on an allowed network,
requests account access and drives the connect and switch-account buttons.`,
	Example: `  ballot status
  ballot network ensure
  ballot connect
  ballot watch`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		return initGlobals()
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		cleanup()
	},
}

// Execute runs the command line and reports any error on stderr in the
// selected output format.
func Execute() error {
	err := rootCmd.Execute()
	if err == nil {
		return nil
	}

	err = classifyError(err)
	format := output.FormatText
	if formatter != nil {
		format = formatter.Format()
	}
	_ = output.FormatError(os.Stderr, err, format)
	return err
}

// classifyError gives a raw provider error a code and exit status while
// keeping the provider's own message for the user.
func classifyError(err error) error {
	var be *ballerr.BallotError
	if errors.As(err, &be) {
		return err
	}
	var pe *provider.Error
	if !errors.As(err, &pe) {
		return err
	}
	wrapped := ballerr.WithMessage(ballerr.ErrProviderRequest, pe.Error(), err)
	return ballerr.WithDetails(wrapped, map[string]string{
		"code": strconv.Itoa(pe.Code),
		"kind": pe.Kind().String(),
	})
}

// ExitCode maps an error returned by Execute to a process exit status.
func ExitCode(err error) int {
	return ballerr.ExitCode(err)
}

// SetBuildInfo records version metadata injected at link time.
func SetBuildInfo(info BuildInfo) {
	buildInfo = info
	rootCmd.Version = formatVersion(info)
}

func formatVersion(info BuildInfo) string {
	orDefault := func(s, def string) string {
		if s == "" {
			return def
		}
		return s
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)",
		orDefault(info.Version, "dev"), orDefault(info.Commit, "unknown"), orDefault(info.Date, "unknown"))
}

// resolveHome picks the data directory: --home, then BALLOT_HOME, then the
// default.
func resolveHome() string {
	for _, h := range []string{homeDir, os.Getenv(config.EnvHome)} {
		if h != "" {
			return h
		}
	}
	return config.DefaultHome()
}

// initGlobals layers defaults, the config file, home/.env, the process
// environment and flags, in that order, then builds the logger and formatter. A missing config
// file is normal. An unreadable one is logged and defaults are used so
// that `config init --force` and `config set` can still repair it.
func initGlobals() error {
	home := resolveHome()

	loaded, loadErr := config.Load(config.Path(home))
	if loadErr != nil {
		loaded = config.Defaults()
	}
	cfg = loaded
	cfg.Home = home

	dotenv, envErr := config.ReadEnvFile(home)
	config.ApplyEnvironmentFrom(cfg, config.LayeredLookup(dotenv))

	if homeDir != "" {
		cfg.Home = homeDir
	}
	if providerURL != "" {
		cfg.Provider.URL = config.SanitizeURL(providerURL)
	}
	if verbose {
		cfg.Output.Verbose = true
		cfg.Logging.Level = config.LogLevelDebug.String()
	}
	if output.ParseFormat(outputFormat) != output.FormatAuto {
		cfg.Output.DefaultFormat = outputFormat
	}

	var err error
	if logger, err = config.NewLogger(config.ParseLogLevel(cfg.Logging.Level), cfg.Logging.File); err != nil {
		logger = config.NullLogger()
	}
	if loadErr != nil && !errors.Is(loadErr, fs.ErrNotExist) {
		logger.Error("loading %s: %v; using defaults", config.Path(home), loadErr)
	}
	if envErr != nil {
		logger.Error("reading %s: %v", filepath.Join(home, config.EnvFileName), envErr)
	}

	formatter = output.NewFormatter(output.Resolve(os.Stdout, cfg.Output.DefaultFormat), os.Stdout)
	return nil
}

func cleanup() {
	if logger != nil {
		_ = logger.Close()
	}
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for flag registration
func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&homeDir, "home", "", "ballot data directory (default: ~/.ballot)")
	flags.StringVarP(&outputFormat, "output", "o", "auto", "output format: text, json, auto")
	flags.BoolVarP(&verbose, "verbose", "v", false, "enable verbose output and debug logging")
	flags.StringVar(&providerURL, "provider", "", "wallet provider endpoint (overrides provider.url)")

	rootCmd.Version = formatVersion(buildInfo)
	rootCmd.AddGroup(
		&cobra.Group{ID: "wallet", Title: "Wallet Operations:"},
		&cobra.Group{ID: "config", Title: "Configuration:"},
	)
}
