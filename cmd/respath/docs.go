// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/respath/respath/internal/issue"
)

// docTopics names the issue pages reachable from the doc command.
var docTopics = []struct {
	name string
	id   issue.Id
}{
	{"resource-not-found", issue.ResourceNotFoundId},
	{"help-not-found", issue.HelpNotFoundId},
	{"path-overflow", issue.PathOverflowId},
	{"flags-parse-failed", issue.FlagsParseFailedId},
	{"config-load-failed", issue.ConfigLoadFailedId},
	{"unknown-list-key", issue.UnknownListKeyId},
}

func newDocCommand(app *App) *cobra.Command {
	var style string
	cmd := &cobra.Command{
		Use:   "doc [topic]",
		Short: "Show troubleshooting pages",
		Long: `Show troubleshooting pages.

Without a topic, the available topics are listed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				fmt.Fprintln(app.stdout, TitleStyle.Render("Topics"))
				for _, t := range docTopics {
					fmt.Fprintf(app.stdout, "  %s\n", KeyStyle.Render(t.name))
				}
				return nil
			}

			for _, t := range docTopics {
				if t.name != args[0] {
					continue
				}
				rendered, err := issue.Get(t.id).Render(style)
				if err != nil {
					return fmt.Errorf("failed to render %s: %w", t.name, err)
				}
				fmt.Fprint(app.stdout, rendered)
				return nil
			}
			return app.fail(cmd, issue.NewErrorContext().
				WithOperation("show topic").
				WithResource(args[0]).
				WithSuggestion("Run 'respath doc' to list the topics").
				Wrap(fmt.Errorf("unknown topic %q", args[0])).
				BuildError())
		},
	}
	cmd.Flags().StringVar(&style, "style", "dark", "glamour style: dark, light, notty or a JSON style file")
	return cmd
}
