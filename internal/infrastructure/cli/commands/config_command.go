package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/doeshing/aicmd/internal/app"
	configapp "github.com/doeshing/aicmd/internal/application/config"
	"github.com/doeshing/aicmd/internal/domain"
	"github.com/doeshing/aicmd/internal/infrastructure/cli/helpers"
	"github.com/doeshing/aicmd/internal/infrastructure/shell"
)

// NewConfigCommand creates the config command with all subcommands
func NewConfigCommand(container *app.Container) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect aicmd configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfiguration(cmd, container)
		},
	}

	configCmd.AddCommand(
		newConfigPathCommand(container),
		newConfigShowCommand(container),
		newConfigValidateCommand(container),
		newConfigSetShortcutCommand(container),
	)

	return configCmd
}

// newConfigPathCommand creates the 'config path' subcommand
func newConfigPathCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file location",
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.ConfigLoader == nil {
				return errors.New(ErrConfigLoaderUnavailable)
			}
			fmt.Fprintln(cmd.OutOrStdout(), container.ConfigLoader.Path())
			return nil
		},
	}
}

// newConfigShowCommand creates the 'config show' subcommand
func newConfigShowCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfiguration(cmd, container)
		},
	}
}

// newConfigValidateCommand creates the 'config validate' subcommand
func newConfigValidateCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := configapp.Validate(container.Config); err != nil {
				return fmt.Errorf("configuration validation failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), MsgConfigurationValid)
			return nil
		},
	}
}

// newConfigSetShortcutCommand creates the 'config set-shortcut' subcommand
func newConfigSetShortcutCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "set-shortcut <binding>",
		Short: "Change the key binding, e.g. Ctrl+G or Alt+Space",
		Long: `Change the key binding used by the shell widget.

A binding is one or more modifiers (Ctrl, Shift, Alt/Option, Cmd/Command)
followed by one key, joined with '+'. The previous config file is kept as
config.yaml.bak. An installed widget is rewritten with the new binding.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setShortcut(cmd, container, args[0])
		},
	}
}

// showConfiguration prints the effective configuration as YAML
func showConfiguration(cmd *cobra.Command, container *app.Container) error {
	raw, err := yaml.Marshal(container.Config)
	if err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), string(raw))
	return nil
}

func setShortcut(cmd *cobra.Command, container *app.Container, binding string) error {
	if container.ConfigLoader == nil {
		return errors.New(ErrConfigLoaderUnavailable)
	}
	cfg := container.Config
	if err := cfg.SetShortcut(binding); err != nil {
		return err
	}
	sc, err := cfg.GetShortcut()
	if err != nil {
		return err
	}

	backup, err := helpers.SaveConfigWithValidation(container.ConfigLoader, cfg)
	if err != nil {
		return err
	}
	container.Config = cfg

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Shortcut set to %s\n", sc)
	if backup != "" {
		fmt.Fprintf(out, "Previous configuration saved to %s\n", backup)
	}

	if _, err := shell.KeySequence(domain.ShellZsh, sc); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
		return nil
	}
	if container.ShellIntegrator == nil {
		return nil
	}
	if status := container.ShellIntegrator.Status(""); status.LinePresent {
		res, err := container.ShellIntegrator.Install("", sc, false)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Updated %s widget. Restart your shell to use the new shortcut.\n", res.Shell)
	}
	return nil
}
