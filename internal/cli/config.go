package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/pelletier/go-toml/v2"
	"github.com/runoshun/taskflow/internal/domain"
	"github.com/runoshun/taskflow/internal/infra/config"
	"github.com/spf13/cobra"
)

// newConfigCommand creates the config command.
func newConfigCommand(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long: `Manage taskflow configuration files and settings.

Settings are merged in this order, later sources winning:
  1. Built-in defaults
  2. Global config ($XDG_CONFIG_HOME/taskflow/config.toml)
  3. ./taskflow.toml, or the file given with --config
  4. Command-line flags (--store, --store-path, --addr, --log-level, --log-file)`,
		// No RunE: shows subcommand list when called without arguments
	}

	cmd.AddCommand(newConfigShowCommand(s))
	cmd.AddCommand(newConfigTemplateCommand())
	cmd.AddCommand(newConfigInitCommand(s))
	cmd.AddCommand(newConfigEditCommand(s))

	return cmd
}

// newConfigShowCommand creates the config show subcommand.
func newConfigShowCommand(s *session) *cobra.Command {
	var global bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Display effective configuration",
		Long: `Display effective configuration after merging all sources.

Shows which config files were found and the final merged configuration.
With --global, shows only the global configuration on top of the defaults.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()

			if global {
				return showGlobalConfig(w, s)
			}

			// Display loaded files section
			_, _ = fmt.Fprintln(w, "[Loaded from]")
			for _, info := range []domain.ConfigInfo{
				s.c.ConfigManager.GetGlobalConfigInfo(),
				s.c.ConfigManager.GetLocalConfigInfo(),
			} {
				if info.Path == "" {
					continue
				}
				if info.Exists {
					_, _ = fmt.Fprintf(w, "- %s\n", info.Path)
				} else {
					_, _ = fmt.Fprintf(w, "- %s (not found)\n", info.Path)
				}
			}
			if s.overrides.ConfigPath != "" {
				_, _ = fmt.Fprintf(w, "- %s (--config)\n", s.overrides.ConfigPath)
			}
			_, _ = fmt.Fprintln(w)

			// Display effective config in TOML format
			_, _ = fmt.Fprintln(w, "[Effective Config]")
			if err := formatEffectiveConfig(w, s.c.AppConfig, s.c.StorePath); err != nil {
				return err
			}

			for _, warning := range s.c.AppConfig.Warnings {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", warning)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&global, "global", false, "Show only the global configuration")

	return cmd
}

// showGlobalConfig prints the global config file merged over the defaults.
func showGlobalConfig(w io.Writer, s *session) error {
	cfg, err := s.c.ConfigLoader.LoadGlobal()
	if err != nil {
		return fmt.Errorf("load global config: %w", err)
	}

	info := s.c.ConfigManager.GetGlobalConfigInfo()
	_, _ = fmt.Fprintln(w, "[Loaded from]")
	if info.Exists {
		_, _ = fmt.Fprintf(w, "- %s\n", info.Path)
	} else {
		_, _ = fmt.Fprintf(w, "- %s (not found)\n", info.Path)
	}
	_, _ = fmt.Fprintln(w)

	storePath := cfg.Store.Path
	if storePath == "" && cfg.Store.Kind != domain.StoreMemory {
		storePath = domain.DefaultStorePath(s.c.Paths.DataDir, cfg.Store.Kind)
	}
	_, _ = fmt.Fprintln(w, "[Global Config]")
	return formatEffectiveConfig(w, cfg, storePath)
}

// effectiveConfig mirrors the config file layout for display.
type effectiveConfig struct {
	Store struct {
		Kind string `toml:"kind"`
		Path string `toml:"path"`
	} `toml:"store"`
	Server struct {
		Addr string `toml:"addr"`
	} `toml:"server"`
	Log struct {
		Level string `toml:"level"`
		File  string `toml:"file,omitempty"`
	} `toml:"log"`
}

// formatEffectiveConfig writes cfg as TOML. storePath is the resolved
// store location, which may differ from the configured (empty) path.
func formatEffectiveConfig(w io.Writer, cfg *domain.Config, storePath string) error {
	var out effectiveConfig
	out.Store.Kind = cfg.Store.Kind
	out.Store.Path = storePath
	out.Server.Addr = cfg.Server.Addr
	out.Log.Level = cfg.Log.Level
	out.Log.File = cfg.Log.File

	if err := toml.NewEncoder(w).Encode(out); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// newConfigTemplateCommand creates the config template subcommand.
func newConfigTemplateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "template",
		Short: "Output configuration template",
		Long: `Output a configuration file template with default values to stdout.

It does not read existing configuration files and works even if they are broken.`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipContainer: ""},
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, _ = fmt.Fprint(cmd.OutOrStdout(), domain.RenderConfigTemplate(domain.NewDefaultConfig()))
			return nil
		},
	}
}

// newConfigInitCommand creates the config init subcommand.
func newConfigInitCommand(s *session) *cobra.Command {
	var global bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate configuration file template",
		Long: `Generate a configuration file holding the default values.

By default, creates ./taskflow.toml.
With --global, creates $XDG_CONFIG_HOME/taskflow/config.toml.

Error conditions:
- Target file already exists: error`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipContainer: ""},
		RunE: func(cmd *cobra.Command, _ []string) error {
			mgr := config.NewManagerWithGlobalDir(s.opts.Paths.WorkDir, s.opts.Paths.GlobalConfigDir)
			cfg := domain.NewDefaultConfig()

			var path string
			var err error
			if global {
				path, err = mgr.InitGlobalConfig(cfg)
			} else {
				path, err = mgr.InitLocalConfig(cfg)
			}
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created config file: %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&global, "global", false, "Generate global configuration")

	return cmd
}

// newConfigEditCommand creates the config edit subcommand.
func newConfigEditCommand(s *session) *cobra.Command {
	var global bool

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Open a configuration file in $EDITOR",
		Long: `Open the local (or, with --global, the global) configuration file
in $EDITOR, falling back to $VISUAL and then vi.

The file is created from the default template first if it does not exist.`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipContainer: ""},
		RunE: func(cmd *cobra.Command, _ []string) error {
			mgr := config.NewManagerWithGlobalDir(s.opts.Paths.WorkDir, s.opts.Paths.GlobalConfigDir)

			info := mgr.GetLocalConfigInfo()
			initFn := mgr.InitLocalConfig
			if global {
				info = mgr.GetGlobalConfigInfo()
				initFn = mgr.InitGlobalConfig
			}

			path := info.Path
			if !info.Exists {
				created, err := initFn(domain.NewDefaultConfig())
				if err != nil && !errors.Is(err, domain.ErrConfigExists) {
					return err
				}
				if created != "" {
					path = created
				}
			}

			return openEditor(path, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().BoolVar(&global, "global", false, "Edit global configuration")

	return cmd
}
