// Package main is the entry point for the ballot CLI.
package main

import (
	"os"

	"github.com/ballot-dapp/ballot/internal/cli"
)

// Set via -ldflags at build time.
//
//nolint:gochecknoglobals // Build metadata injected by the linker
var (
	version string
	commit  string
	date    string
)

func main() {
	cli.SetBuildInfo(cli.BuildInfo{Version: version, Commit: commit, Date: date})
	if err := cli.Execute(); err != nil {
		os.Exit(cli.ExitCode(err))
	}
}
