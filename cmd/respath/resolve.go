// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/respath/respath/internal/issue"
	"github.com/respath/respath/internal/resolver"
)

// resolveOptions are the flags shared by resolve and explain.
type resolveOptions struct {
	ext     string
	baseDir string
}

func (o *resolveOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.ext, "ext", "e", "", "extension appended to the name (e.g. .pd)")
	cmd.Flags().StringVarP(&o.baseDir, "dir", "d", "", "base directory searched first")
}

func newResolveCommand(app *App) *cobra.Command {
	var opts resolveOptions
	cmd := &cobra.Command{
		Use:   "resolve <name>",
		Short: "Print the first file found for name along the search path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inst, err := app.newInstance(cmd.Context())
			if err != nil {
				return err
			}
			defer inst.Close()

			res, err := inst.Resolve(opts.baseDir, args[0], opts.ext)
			if err != nil {
				var attempts []resolver.Attempt
				if errors.Is(err, resolver.ErrNotFound) {
					attempts, _, _ = inst.Explain(opts.baseDir, args[0], opts.ext)
				}
				return app.fail(cmd, resolveError(err, attempts))
			}
			defer res.Close()

			fmt.Fprintln(app.stdout, res.Path())
			return nil
		},
	}
	opts.bind(cmd)
	return cmd
}

func newExplainCommand(app *App) *cobra.Command {
	var opts resolveOptions
	cmd := &cobra.Command{
		Use:   "explain <name>",
		Short: "Show every candidate probed while resolving name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inst, err := app.newInstance(cmd.Context())
			if err != nil {
				return err
			}
			defer inst.Close()

			attempts, res, err := inst.Explain(opts.baseDir, args[0], opts.ext)
			for _, a := range attempts {
				fmt.Fprintf(app.stdout, "%s %s %s\n", tierStyle.Render(a.Tier), outcomeStyle(a.Outcome).Render(fmt.Sprintf("%-8s", a.Outcome)), a.Path)
			}
			if err != nil {
				return app.fail(cmd, resolveError(err, nil))
			}
			fmt.Fprintf(app.stdout, "\n%s %s\n", SuccessStyle.Render("found"), res.Path())
			return nil
		},
	}
	opts.bind(cmd)
	return cmd
}

func newHelpFileCommand(app *App) *cobra.Command {
	var baseDir string
	cmd := &cobra.Command{
		Use:   "help-file <name>",
		Short: "Print the help patch for an object class",
		Long: `Print the help patch for an object class.

The localized names NAME-help.LANG_REGION.pd and NAME-help.LANG.pd are tried
before NAME-help.pd and the legacy help-NAME. The locale comes from $LANG.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inst, err := app.newInstance(cmd.Context())
			if err != nil {
				return err
			}
			defer inst.Close()

			loc, err := inst.ResolveHelp(args[0], baseDir)
			if err != nil {
				if errors.Is(err, resolver.ErrOverflow) {
					return app.fail(cmd, resolveError(err, nil))
				}
				return app.fail(cmd, issue.NewErrorContext().
					WithOperation("find help patch").
					WithResource(args[0]).
					WithSuggestion("Check the help path with 'respath list get helppath.main'").
					WithSuggestion("Run 'respath doc help-not-found' for details").
					Wrap(err).
					BuildError())
			}
			fmt.Fprintln(app.stdout, loc.Path())
			return nil
		},
	}
	cmd.Flags().StringVarP(&baseDir, "dir", "d", "", "directory of the patch asking for help")
	return cmd
}

// resolveError turns a resolver failure into an actionable error pointing
// at the matching issue page. The resolver's message already names the file.
func resolveError(err error, attempts []resolver.Attempt) error {
	ctx := issue.NewErrorContext().
		WithOperation("resolve file")
	for _, a := range attempts {
		ctx.WithProbe(a.Tier, a.Path, a.Outcome.String())
	}
	if errors.Is(err, resolver.ErrOverflow) {
		ctx.WithSuggestions(
			"Shorten or remove the offending search directory",
			"Run 'respath doc path-overflow' for details")
	} else {
		ctx.WithSuggestions(
			"Run 'respath explain' with the same arguments to see every probe",
			"Run 'respath doc resource-not-found' for details")
	}
	return ctx.Wrap(err).BuildError()
}

func outcomeStyle(o resolver.Outcome) lipgloss.Style {
	switch o {
	case resolver.Found:
		return SuccessStyle
	case resolver.Rejected:
		return ErrorStyle
	case resolver.Skipped:
		return WarningStyle
	default:
		return SubtitleStyle
	}
}
