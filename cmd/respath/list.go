// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/respath/respath/internal/config"
	"github.com/respath/respath/internal/instance"
	"github.com/respath/respath/internal/issue"
	"github.com/respath/respath/internal/registry"
)

// newListCommand creates the `respath list` command tree over the named
// list registry.
func newListCommand(app *App) *cobra.Command {
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Inspect and edit named path lists",
		Long: `Inspect and edit named path lists.

Built-in keys:
  searchpath.temp    directories added on the command line
  searchpath.main    the user search path
  searchpath.static  the standard path
  helppath.main      the user help path

Any other key is created by its first append. Changes last for one run
unless --save writes them to the configuration file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	listCmd.AddCommand(&cobra.Command{
		Use:   "keys",
		Short: "List every defined key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			inst, err := app.newInstance(cmd.Context())
			if err != nil {
				return err
			}
			defer inst.Close()

			for _, key := range inst.Registry().Keys() {
				fmt.Fprintln(app.stdout, key)
			}
			return nil
		},
	})

	listCmd.AddCommand(&cobra.Command{
		Use:   "get <key>",
		Short: "Print the entries of a list, one per line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inst, err := app.newInstance(cmd.Context())
			if err != nil {
				return err
			}
			defer inst.Close()

			reg := inst.Registry()
			if !reg.Has(args[0]) {
				return app.fail(cmd, unknownKeyError(args[0]))
			}
			for _, e := range reg.List(args[0]) {
				fmt.Fprintln(app.stdout, e)
			}
			return nil
		},
	})

	var setSave bool
	setCmd := &cobra.Command{
		Use:   "set <key> [paths...]",
		Short: "Replace a list with the given delimited path strings",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.editList(cmd, setSave, func(reg *registry.Registry) {
				reg.Ensure(args[0])
				reg.Set(args[0], args[1:]...)
			})
		},
	}
	setCmd.Flags().BoolVar(&setSave, "save", false, "write the result to the configuration file")
	listCmd.AddCommand(setCmd)

	var (
		appendSave bool
		allowDup   bool
	)
	appendCmd := &cobra.Command{
		Use:   "append <key> <path>",
		Short: "Append one path to a list, creating the key if needed",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.editList(cmd, appendSave, func(reg *registry.Registry) {
				reg.Append(args[0], args[1], allowDup)
			})
		},
	}
	appendCmd.Flags().BoolVar(&appendSave, "save", false, "write the result to the configuration file")
	appendCmd.Flags().BoolVar(&allowDup, "allow-duplicates", false, "append even if the path is already listed")
	listCmd.AddCommand(appendCmd)

	var freeSave bool
	freeCmd := &cobra.Command{
		Use:   "free <key>",
		Short: "Remove every entry of a list; the key stays defined",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.editList(cmd, freeSave, func(reg *registry.Registry) {
				if !reg.Has(args[0]) {
					fmt.Fprintln(app.stderr, WarningStyle.Render("Warning: ")+"no list named "+args[0])
				}
				reg.Free(args[0])
			})
		},
	}
	freeCmd.Flags().BoolVar(&freeSave, "save", false, "write the result to the configuration file")
	listCmd.AddCommand(freeCmd)

	return listCmd
}

// editList runs edit against a fresh instance, prints the edited lists
// and saves them when asked.
func (a *App) editList(cmd *cobra.Command, save bool, edit func(*registry.Registry)) error {
	inst, err := a.newInstance(cmd.Context())
	if err != nil {
		return err
	}
	defer inst.Close()

	edit(inst.Registry())

	if save {
		if err := a.save(cmd.Context(), inst); err != nil {
			return a.fail(cmd, err)
		}
		fmt.Fprintln(a.stdout, SuccessStyle.Render("✓")+" saved")
	}
	return nil
}

// save persists inst, refusing to overwrite a configuration file that
// does not load.
func (a *App) save(ctx context.Context, inst *instance.Instance) error {
	if _, _, err := a.loadConfig(ctx); err != nil {
		return err
	}
	if err := config.Save(config.Snapshot(inst)); err != nil {
		return issue.WrapWithOperation(err, "save configuration")
	}
	return nil
}

func unknownKeyError(key string) error {
	return issue.NewErrorContext().
		WithOperation("read list").
		WithResource(key).
		WithSuggestion("Run 'respath list keys' to see the defined keys").
		WithSuggestion("Run 'respath doc unknown-list-key' for details").
		Wrap(fmt.Errorf("no list named %s", key)).
		BuildError()
}
