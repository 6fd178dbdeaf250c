package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/doeshing/aicmd/internal/app"
)

// NewInstallCommand creates the install command
func NewInstallCommand(container *app.Container) *cobra.Command {
	var shellName string
	var force bool

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Install the shell widget bound to shortcut_key",
		Long: `Install the aicmd line-editor widget for zsh or bash.

This command will:
1. Render the widget for your shell, bound to shortcut_key
2. Write it to ~/.aicmd/shell/<shell>.sh
3. Source it from ~/.zshrc or ~/.bashrc

Press the shortcut with a request typed on the prompt (or an empty prompt to
open the input dialog). The generated command replaces the line buffer and is
never executed automatically.`,
		Example: `  aicmd install              # Auto-detect shell
  aicmd install --shell zsh  # Install for zsh`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.ShellIntegrator == nil {
				return errors.New(ErrShellInstallerUnavailable)
			}
			sc, err := container.Config.GetShortcut()
			if err != nil {
				return err
			}
			res, err := container.ShellIntegrator.Install(shellName, sc, force)
			if err != nil {
				return err
			}
			writeLines(cmd.OutOrStdout(),
				fmt.Sprintf("Installed for %s (%s)", res.Shell, sc),
				"Script: "+res.ScriptPath,
				"RC File: "+res.RCFile,
			)
			if res.RCUpdated {
				fmt.Fprintf(cmd.OutOrStdout(), "Restart your shell or run: source %s\n", res.RCFile)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&shellName, "shell", "", "Shell to install (zsh|bash, auto-detected by default)")
	cmd.Flags().BoolVar(&force, "force", false, "Force rewrite of rc entry")

	return cmd
}

// NewUninstallCommand creates the uninstall command
func NewUninstallCommand(container *app.Container) *cobra.Command {
	var shellName string

	cmd := &cobra.Command{
		Use:   "uninstall",
		Short: "Remove the shell widget from the rc file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.ShellIntegrator == nil {
				return errors.New(ErrShellInstallerUnavailable)
			}
			res, err := container.ShellIntegrator.Uninstall(shellName)
			if err != nil {
				return err
			}
			if !res.RCUpdated {
				fmt.Fprintf(cmd.OutOrStdout(), "No aicmd line found in %s\n", res.RCFile)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed sourcing line for %s in %s\n", res.Shell, res.RCFile)
			return nil
		},
	}

	cmd.Flags().StringVar(&shellName, "shell", "", "Shell to uninstall (zsh|bash, auto-detected by default)")

	return cmd
}
