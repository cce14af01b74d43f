// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"cuelang.org/go/cue/literal"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"github.com/respath/respath/internal/instance"
	"github.com/respath/respath/internal/issue"
	"github.com/respath/respath/internal/registry"
	"github.com/respath/respath/pkg/platform"
)

const (
	// AppName is the application name.
	AppName = "respath"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// MaxFileSize bounds the config file read before parsing.
	MaxFileSize = 1 << 20
)

//go:embed config_schema.cue
var configSchema string

// ConfigDir returns the respath configuration directory using platform-specific
// conventions: Windows uses %APPDATA%, macOS uses ~/Library/Application Support,
// and Linux/others use $XDG_CONFIG_HOME (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var configDir string

	switch runtime.GOOS {
	case platform.Windows:
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case platform.Darwin:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default:
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// ConfigPath returns the config file path inside dir, or inside ConfigDir
// when dir is empty.
func ConfigPath(dir string) (string, error) {
	cfgDir, err := configDirWithOverride(dir)
	if err != nil {
		return "", err
	}
	return filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt), nil
}

// loadWithOptions reads the config file named by opts, or the default one
// if it exists. A missing default file yields DefaultConfig.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("use_std_path", defaults.UseStdPath)
	v.SetDefault("verbose", defaults.Verbose)
	v.SetDefault("search_paths", defaults.SearchPaths)
	v.SetDefault("help_paths", defaults.HelpPaths)
	v.SetDefault("startup.flags", defaults.Startup.Flags)
	v.SetDefault("startup.libraries", defaults.Startup.Libraries)
	v.SetDefault("named_lists", defaults.NamedLists)

	resolvedPath := ""

	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Use 'respath config show' to see the default configuration").
				Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
				BuildError()
		}
		if err := loadCUEIntoViper(v, opts.ConfigFilePath); err != nil {
			return nil, "", loadError(opts.ConfigFilePath, err)
		}
		resolvedPath = opts.ConfigFilePath
	} else {
		cuePath, err := ConfigPath(opts.ConfigDirPath)
		if err != nil {
			return nil, "", err
		}
		if fileExists(cuePath) {
			if err := loadCUEIntoViper(v, cuePath); err != nil {
				return nil, "", loadError(cuePath, err)
			}
			resolvedPath = cuePath
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(resolvedPath).
			WithSuggestion("Give every named list a unique key").
			WithSuggestion("Store searchpath.main and helppath.main in search_paths and help_paths").
			Wrap(err).
			BuildError()
	}

	return &cfg, resolvedPath, nil
}

func loadError(path string, err error) error {
	return issue.NewErrorContext().
		WithOperation("load configuration").
		WithResource(path).
		WithSuggestion("Check that the file contains valid CUE syntax").
		WithSuggestion("Verify the configuration values match the expected schema").
		WithSuggestion("Run 'respath config init --force' to start over").
		Wrap(err).
		BuildError()
}

// configDirWithOverride resolves the configuration directory, honoring
// explicit provider options before platform defaults.
func configDirWithOverride(configDirPath string) (string, error) {
	if configDirPath != "" {
		return configDirPath, nil
	}
	return ConfigDir()
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

// Apply restores cfg into inst. Every list goes through the registry's set
// operation, so earlier contents are replaced, never merged.
func Apply(cfg *Config, inst *instance.Instance) {
	inst.SetUseStdPath(cfg.UseStdPath)
	inst.SetVerbose(cfg.Verbose)

	reg := inst.Registry()
	reg.Set(registry.SearchPathMain, cfg.SearchPaths...)
	reg.Set(registry.HelpPathMain, cfg.HelpPaths...)
	for _, nl := range cfg.NamedLists {
		reg.Ensure(nl.Key)
		reg.Set(nl.Key, nl.Paths...)
	}

	inst.SetFlags(cfg.Startup.Flags)
	inst.SetLibraries(cfg.Startup.Libraries...)
}

// Snapshot reads the persistable state of inst. The temporary lists and
// the startup-populated standard path are left out.
func Snapshot(inst *instance.Instance) *Config {
	reg := inst.Registry()
	cfg := DefaultConfig()
	cfg.UseStdPath = inst.UseStdPath()
	cfg.Verbose = inst.Verbose()
	cfg.SearchPaths = orEmpty(reg.List(registry.SearchPathMain))
	cfg.HelpPaths = orEmpty(reg.List(registry.HelpPathMain))
	cfg.Startup = StartupConfig{Flags: inst.Flags(), Libraries: orEmpty(inst.Libraries())}

	for _, key := range reg.Keys() {
		if !persisted(key) {
			continue
		}
		cfg.NamedLists = append(cfg.NamedLists, NamedList{Key: key, Paths: orEmpty(reg.List(key))})
	}
	return cfg
}

// persisted reports whether a registry key is stored under named_lists.
func persisted(key string) bool {
	if registry.IsBuiltin(key) {
		return false
	}
	return key != registry.HelpPathTemp && key != registry.HelpPathStatic
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// CreateDefaultConfig writes a default config file unless one exists.
func CreateDefaultConfig(force bool) (string, error) {
	cfgPath, err := ConfigPath("")
	if err != nil {
		return "", err
	}
	if !force && fileExists(cfgPath) {
		return cfgPath, nil
	}
	return cfgPath, writeFile(cfgPath, GenerateCUE(DefaultConfig()))
}

// Save writes cfg to the default config file.
func Save(cfg *Config) error {
	cfgPath, err := ConfigPath("")
	if err != nil {
		return err
	}
	return writeFile(cfgPath, GenerateCUE(cfg))
}

// Saver returns an instance hook that snapshots and saves the settings.
func Saver() instance.Saver {
	return instance.SaverFunc(func(inst *instance.Instance) error {
		return Save(Snapshot(inst))
	})
}

func writeFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// GenerateCUE generates a CUE representation of the configuration
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// respath configuration file\n\n")

	fmt.Fprintf(&sb, "use_std_path: %v\n", cfg.UseStdPath)
	fmt.Fprintf(&sb, "verbose: %v\n", cfg.Verbose)

	writeCUEList(&sb, "", "search_paths", cfg.SearchPaths)
	writeCUEList(&sb, "", "help_paths", cfg.HelpPaths)

	sb.WriteString("\nstartup: {\n")
	fmt.Fprintf(&sb, "\tflags: %s\n", literal.String.Quote(cfg.Startup.Flags))
	writeCUEList(&sb, "\t", "libraries", cfg.Startup.Libraries)
	sb.WriteString("}\n")

	if len(cfg.NamedLists) > 0 {
		sb.WriteString("\nnamed_lists: [\n")
		for _, nl := range cfg.NamedLists {
			fmt.Fprintf(&sb, "\t{key: %s, paths: [", literal.String.Quote(nl.Key))
			for i, p := range nl.Paths {
				if i > 0 {
					sb.WriteString(", ")
				}
				sb.WriteString(literal.String.Quote(p))
			}
			sb.WriteString("]},\n")
		}
		sb.WriteString("]\n")
	}

	return sb.String()
}

func writeCUEList(sb *strings.Builder, indent, field string, values []string) {
	if len(values) == 0 {
		fmt.Fprintf(sb, "%s%s: []\n", indent, field)
		return
	}
	fmt.Fprintf(sb, "%s%s: [\n", indent, field)
	for _, v := range values {
		fmt.Fprintf(sb, "%s\t%s,\n", indent, literal.String.Quote(v))
	}
	fmt.Fprintf(sb, "%s]\n", indent)
}

// ExportTOML renders cfg as TOML.
func ExportTOML(cfg *Config) (string, error) {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("failed to encode config as TOML: %w", err)
	}
	return string(data), nil
}

// ImportTOML reads a TOML rendering produced by ExportTOML.
func ImportTOML(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode TOML config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
