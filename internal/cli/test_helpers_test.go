package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/ballot-dapp/ballot/internal/config"
	"github.com/ballot-dapp/ballot/internal/metrics"
	"github.com/ballot-dapp/ballot/internal/output"
	"github.com/ballot-dapp/ballot/internal/provider"
)

// withTestGlobals installs fresh CLI globals and a scripted provider for the
// duration of a test. A nil provider simulates a machine with no wallet.
func withTestGlobals(t *testing.T, p provider.Provider, format output.Format) {
	t.Helper()

	origCfg, origLogger, origFormatter := cfg, logger, formatter
	origOpen := openProviderFn
	t.Cleanup(func() {
		cfg, logger, formatter = origCfg, origLogger, origFormatter
		openProviderFn = origOpen
		metrics.Global.Reset()
	})

	cfg = config.Defaults()
	cfg.Home = t.TempDir()
	logger = config.NullLogger()
	formatter = output.NewFormatter(format, io.Discard)
	metrics.Global.Reset()

	openProviderFn = func(context.Context, *config.Config, *config.Logger) (provider.Provider, func()) {
		return p, func() {}
	}
}

// newTestCmd returns a command with captured stdout and stderr and the
// given stdin.
func newTestCmd(stdin string) (*cobra.Command, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	return cmd, &stdout, &stderr
}
