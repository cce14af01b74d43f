// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/respath/respath/internal/config"
	"github.com/respath/respath/internal/issue"
)

// newConfigCommand creates the `respath config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage respath configuration",
		Long: `Manage respath configuration.

Configuration is stored in:
  - Linux: ~/.config/respath/config.cue
  - macOS: ~/Library/Application Support/respath/config.cue
  - Windows: %APPDATA%\respath\config.cue`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd, app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, err := config.ConfigPath(app.opts.configDir)
			if err != nil {
				return err
			}
			fmt.Fprintln(app.stdout, cfgPath)
			return nil
		},
	})

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, err := config.CreateDefaultConfig(force)
			if err != nil {
				return fmt.Errorf("failed to create config: %w", err)
			}
			fmt.Fprintf(app.stdout, "%s Created default configuration at %s\n", SuccessStyle.Render("✓"), cfgPath)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing configuration file")
	cfgCmd.AddCommand(initCmd)

	var format string
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Print the configuration in CUE or TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadOrReport(cmd.Context(), cmd, app)
			if err != nil {
				return err
			}
			switch strings.ToLower(format) {
			case "toml":
				out, err := config.ExportTOML(cfg)
				if err != nil {
					return err
				}
				fmt.Fprint(app.stdout, out)
			case "cue":
				fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
			default:
				return fmt.Errorf("unknown format %q (want cue or toml)", format)
			}
			return nil
		},
	}
	exportCmd.Flags().StringVar(&format, "format", "toml", "output format: cue or toml")
	cfgCmd.AddCommand(exportCmd)

	importCmd := &cobra.Command{
		Use:   "import <file.toml>",
		Short: "Replace the configuration with a TOML export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}
			cfg, err := config.ImportTOML(data)
			if err != nil {
				return app.fail(cmd, issue.WrapWithContext(err, "import configuration", args[0]))
			}
			if err := config.Save(cfg); err != nil {
				return app.fail(cmd, issue.WrapWithOperation(err, "save configuration"))
			}
			fmt.Fprintf(app.stdout, "%s Imported %s\n", SuccessStyle.Render("✓"), args[0])
			return nil
		},
	}
	cfgCmd.AddCommand(importCmd)

	return cfgCmd
}

// loadOrReport loads the configuration, printing the config-load issue
// page when the file is broken.
func loadOrReport(ctx context.Context, cmd *cobra.Command, app *App) (*config.Config, string, error) {
	cfg, source, err := app.loadConfig(ctx)
	if err != nil {
		rendered, _ := issue.Get(issue.ConfigLoadFailedId).Render("notty")
		fmt.Fprint(app.stderr, rendered)
		return nil, "", app.fail(cmd, err)
	}
	return cfg, source, nil
}

func showConfig(cmd *cobra.Command, app *App) error {
	cfg, source, err := loadOrReport(cmd.Context(), cmd, app)
	if err != nil {
		return err
	}

	out := app.stdout
	fmt.Fprintln(out, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(out)

	if source != "" {
		fmt.Fprintf(out, "%s: %s\n", KeyStyle.Render("Config file"), source)
	} else {
		fmt.Fprintf(out, "%s: %s\n", KeyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Fprintln(out)

	fmt.Fprintf(out, "%s: %s\n", KeyStyle.Render("use_std_path"), SuccessStyle.Render(fmt.Sprintf("%v", cfg.UseStdPath)))
	fmt.Fprintf(out, "%s: %s\n", KeyStyle.Render("verbose"), SuccessStyle.Render(fmt.Sprintf("%v", cfg.Verbose)))

	printList := func(label string, values []string) {
		fmt.Fprintln(out)
		fmt.Fprintf(out, "%s:\n", KeyStyle.Render(label))
		if len(values) == 0 {
			fmt.Fprintf(out, "  %s\n", SubtitleStyle.Render("(none configured)"))
			return
		}
		for _, v := range values {
			fmt.Fprintf(out, "  - %s\n", SuccessStyle.Render(v))
		}
	}
	printList("search_paths", cfg.SearchPaths)
	printList("help_paths", cfg.HelpPaths)

	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s:\n", KeyStyle.Render("startup"))
	fmt.Fprintf(out, "  flags: %s\n", SuccessStyle.Render(fmt.Sprintf("%q", cfg.Startup.Flags)))
	fmt.Fprintf(out, "  libraries: %s\n", SuccessStyle.Render(strings.Join(cfg.Startup.Libraries, ", ")))

	for _, nl := range cfg.NamedLists {
		printList(nl.Key, nl.Paths)
	}
	return nil
}
