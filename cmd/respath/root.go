// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/respath/respath/internal/config"
	"github.com/respath/respath/internal/issue"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// newRootCommand builds the whole command tree around app.
func newRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "respath",
		Short: "Locate patches, externals and help files along search paths",
		Long: TitleStyle.Render("respath") + SubtitleStyle.Render(" - Locate patches, externals and help files") + `

respath searches the base directory, the temporary search path, the user
search path and the standard path, in that order, and reports the first
regular file it finds. Help files are looked up per locale.

` + SubtitleStyle.Render("Examples:") + `
  respath resolve osc~ --ext .pd        Find osc~.pd
  respath explain zexy --ext .pd_linux  Show every probe made
  respath help-file metro               Find the help patch for metro
  respath list append searchpath.main ~/pd-externals --save
  respath config show                   Show current configuration`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if app.opts.configDir != "" {
				config.SetConfigDirOverride(app.opts.configDir)
			}
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&app.opts.verbose, "verbose", "v", false, "log every probe made while resolving")
	pf.StringVar(&app.opts.configDir, "config-dir", "", "configuration directory (default is the platform config dir)")
	pf.StringVar(&app.opts.extraDir, "extra", "", "built-in extra directory appended to the standard path")
	pf.BoolVar(&app.opts.noStdPath, "no-std-path", false, "do not search the standard path")

	rootCmd.AddCommand(
		newResolveCommand(app),
		newExplainCommand(app),
		newHelpFileCommand(app),
		newDocCommand(app),
		newListCommand(app),
		newTokenizeCommand(app),
		newFlagsCommand(app),
		newAddPathCommand(app),
		newConfigCommand(app),
		newVersionCommand(app),
	)

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Main runs the CLI with os.Args and returns the process exit code.
func Main() int {
	rootCmd := newRootCommand(NewApp(Dependencies{}))
	err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	)
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}

// Execute runs the CLI and exits the process with its status.
// This is called by main.main().
func Execute() {
	os.Exit(Main())
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}

func newVersionCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the respath version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(app.stdout, "respath %s\n", getVersionString())
		},
	}
}
