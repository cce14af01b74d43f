// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/respath/respath/internal/config"
	"github.com/respath/respath/internal/instance"
)

type (
	// App wires CLI services and shared dependencies. It is the composition
	// root for the CLI layer: every command handler receives an App and
	// builds its per-run instance through it.
	App struct {
		Config config.Provider
		stdout io.Writer
		stderr io.Writer
		opts   rootOptions
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config config.Provider
		Stdout io.Writer
		Stderr io.Writer
	}

	// rootOptions holds the persistent flags shared by every command.
	rootOptions struct {
		configDir string
		extraDir  string
		verbose   bool
		noStdPath bool
	}
)

// NewApp creates the CLI composition root.
func NewApp(deps Dependencies) *App {
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	return &App{Config: deps.Config, stdout: deps.Stdout, stderr: deps.Stderr}
}

// loadOptions builds config loading options from the persistent flags.
func (a *App) loadOptions() config.LoadOptions {
	return config.LoadOptions{ConfigDirPath: a.opts.configDir}
}

// loadConfig reads the configuration selected by the persistent flags.
func (a *App) loadConfig(ctx context.Context) (*config.Config, string, error) {
	return a.Config.Load(ctx, a.loadOptions())
}

// newInstance builds the state for one CLI run: the saved preferences,
// the standard path, then the saved startup flags. An unreadable config
// file is reported and the defaults are used instead. Command-line switches
// are applied last so they win over everything stored.
func (a *App) newInstance(ctx context.Context) (*instance.Instance, error) {
	opts := []instance.Option{instance.WithLogOutput(a.stderr)}

	cfg, _, err := a.loadConfig(ctx)
	switch {
	case err == nil:
		opts = append(opts, instance.WithSaver(config.Saver()))
	case ctx.Err() != nil:
		return nil, err
	default:
		// Saving over a broken file would lose it.
		fmt.Fprintln(a.stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, a.opts.verbose))
		cfg = config.DefaultConfig()
	}

	inst := instance.New(opts...)
	config.Apply(cfg, inst)
	inst.SetExtraPath(a.opts.extraDir)

	// A bad startup string is already logged by the instance and must not
	// stop the command itself.
	_ = inst.DoFlags(nil)

	if a.opts.verbose {
		inst.SetVerbose(true)
	}
	if a.opts.noStdPath {
		inst.SetUseStdPath(false)
	}
	return inst, nil
}

// fail prints err with its suggestions and returns the exit status for it.
// Cobra's own error line is silenced so the message appears once.
func (a *App) fail(cmd *cobra.Command, err error) error {
	cmd.SilenceErrors = true
	fmt.Fprintln(a.stderr, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, a.opts.verbose))
	return &ExitError{Code: 1, Err: err}
}
