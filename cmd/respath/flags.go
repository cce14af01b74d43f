// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/respath/respath/internal/dialog"
	"github.com/respath/respath/internal/instance"
	"github.com/respath/respath/internal/issue"
	"github.com/respath/respath/internal/startup"
	"github.com/respath/respath/pkg/argv"
)

func newTokenizeCommand(app *App) *cobra.Command {
	var join bool
	cmd := &cobra.Command{
		Use:   "tokenize <flags>",
		Short: "Split a startup flags string into arguments",
		Long: `Split a startup flags string into arguments.

Each argument is printed on its own line between brackets. With --join the
arguments are quoted back into a single canonical string instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tokens, err := argv.Tokenize(args[0])
			if err != nil {
				return app.fail(cmd, flagsError(err))
			}
			if join {
				joined, err := argv.Join(tokens)
				if err != nil {
					return app.fail(cmd, flagsError(err))
				}
				fmt.Fprintln(app.stdout, joined)
				return nil
			}
			for _, tok := range tokens {
				fmt.Fprintf(app.stdout, "[%s]\n", tok)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&join, "join", false, "print the arguments re-quoted as one string")
	return cmd
}

// newFlagsCommand creates the `respath flags` command tree.
func newFlagsCommand(app *App) *cobra.Command {
	flagsCmd := &cobra.Command{
		Use:   "flags",
		Short: "Work with the startup flags string",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	flagsCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "List the flags a startup string may contain",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(app.stdout, startup.Usage())
		},
	})

	flagsCmd.AddCommand(&cobra.Command{
		Use:   "parse <flags>",
		Short: "Parse a startup flags string and print what it sets",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tokens, err := argv.Tokenize(args[0])
			if err != nil {
				return app.fail(cmd, flagsError(err))
			}
			f, err := startup.Parse(tokens)
			if err != nil {
				return app.fail(cmd, flagsError(err))
			}
			printFlags(app, f)
			return nil
		},
	})

	var save bool
	setCmd := &cobra.Command{
		Use:   "set <flags> [libraries...]",
		Short: "Replace the saved startup flags and library list",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inst, err := app.newInstance(cmd.Context())
			if err != nil {
				return err
			}
			defer inst.Close()

			encodedLibs := make([]string, 0, len(args)-1)
			for _, lib := range args[1:] {
				encodedLibs = append(encodedLibs, dialog.Encode(lib))
			}
			if err := inst.StartupDialog(dialog.Encode(args[0]), encodedLibs...); err != nil {
				return err
			}

			// Rejected flags are never stored.
			if err := inst.DoFlags(nil); err != nil {
				return app.fail(cmd, flagsError(err))
			}
			if save {
				if err := app.save(cmd.Context(), inst); err != nil {
					return app.fail(cmd, err)
				}
				fmt.Fprintln(app.stdout, SuccessStyle.Render("✓")+" saved")
			}
			return nil
		},
	}
	setCmd.Flags().BoolVar(&save, "save", false, "write the result to the configuration file")
	flagsCmd.AddCommand(setCmd)

	return flagsCmd
}

// newAddPathCommand adds directories the way the path dialog's add
// button does.
func newAddPathCommand(app *App) *cobra.Command {
	var (
		helpPath bool
		mode     string
	)
	cmd := &cobra.Command{
		Use:   "add-path <dirs>",
		Short: "Add directories to the search path the way the path dialog does",
		Long: `Add directories to the search path the way the path dialog does.

The mode decides where the directories go: "temporary" adds them to the
temporary list for this run only, "keep" adds them to the user list and
"save" also writes the configuration file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := parseMode(mode)
			if err != nil {
				return err
			}
			inst, err := app.newInstance(cmd.Context())
			if err != nil {
				return err
			}
			defer inst.Close()

			add := inst.AddToPath
			if helpPath {
				add = inst.AddToHelpPath
			}
			if err := add(dialog.Encode(args[0]), m); err != nil {
				return app.fail(cmd, issue.WrapWithOperation(err, "save configuration"))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&helpPath, "help-path", false, "add to the help path instead")
	cmd.Flags().StringVar(&mode, "mode", "save", "temporary, keep or save")
	return cmd
}

func parseMode(s string) (instance.Mode, error) {
	switch strings.ToLower(s) {
	case "temporary", "temp":
		return instance.Temporary, nil
	case "keep":
		return instance.Keep, nil
	case "save":
		return instance.Save, nil
	default:
		return 0, fmt.Errorf("unknown mode %q (want temporary, keep or save)", s)
	}
}

func printFlags(app *App, f *startup.Flags) {
	row := func(label string, values []string) {
		if len(values) == 0 {
			fmt.Fprintf(app.stdout, "%s: %s\n", KeyStyle.Render(label), SubtitleStyle.Render("(none)"))
			return
		}
		fmt.Fprintf(app.stdout, "%s: %s\n", KeyStyle.Render(label), strings.Join(values, ", "))
	}
	row("path", f.Paths)
	row("helppath", f.HelpPaths)
	fmt.Fprintf(app.stdout, "%s: %s\n", KeyStyle.Render("stdpath"), f.StdPath)
	fmt.Fprintf(app.stdout, "%s: %d\n", KeyStyle.Render("verbose"), f.Verbose)
	row("lib", f.Libs)
	row("files", f.Files)
}

func flagsError(err error) error {
	return issue.NewErrorContext().
		WithOperation("parse startup flags").
		WithSuggestion("Run 'respath flags show' to list the accepted flags").
		WithSuggestion("Run 'respath doc flags-parse-failed' for details").
		Wrap(err).
		BuildError()
}
