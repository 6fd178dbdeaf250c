package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/doeshing/aicmd/internal/app"
	"github.com/doeshing/aicmd/internal/infrastructure/cli/helpers"
)

// NewKeyCommand creates the key command with set/status subcommands
func NewKeyCommand(container *app.Container) *cobra.Command {
	keyCmd := &cobra.Command{
		Use:   "key",
		Short: "Manage the Gemini API key in the OS keychain",
	}

	keyCmd.AddCommand(
		newKeySetCommand(container),
		newKeyStatusCommand(container),
	)

	return keyCmd
}

// newKeySetCommand creates the 'key set' subcommand
func newKeySetCommand(container *app.Container) *cobra.Command {
	var fromStdin bool

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Store the API key in the keychain",
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.SecretStore == nil {
				return errors.New(ErrSecretStoreUnavailable)
			}
			key, err := readAPIKey(cmd.InOrStdin(), cmd.ErrOrStderr(), fromStdin)
			if err != nil {
				return err
			}
			cfg := container.Config
			if err := container.SecretStore.Set(cfg.GetSecretService(), cfg.GetSecretAccount(), key); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "API key stored as %s/%s\n", cfg.GetSecretService(), cfg.GetSecretAccount())
			return nil
		},
	}

	cmd.Flags().BoolVar(&fromStdin, "stdin", false, "Read the key from stdin instead of prompting")
	return cmd
}

// newKeyStatusCommand creates the 'key status' subcommand
func newKeyStatusCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Report whether an API key is available",
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.SecretStore == nil {
				return errors.New(ErrSecretStoreUnavailable)
			}
			cfg := container.Config
			_, found, err := container.SecretStore.Get(cfg.GetSecretService(), cfg.GetSecretAccount())
			if err != nil {
				return err
			}
			if !found {
				fmt.Fprintf(cmd.OutOrStdout(), "No API key in the keychain or $%s. Run `aicmd key set`.\n", cfg.GetAPIKeyEnv())
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "API key configured")
			return nil
		},
	}
}

// readAPIKey reads the key hidden from a terminal, or as one line otherwise.
func readAPIKey(in io.Reader, prompt io.Writer, fromStdin bool) (string, error) {
	if f, ok := in.(*os.File); ok && !fromStdin && helpers.IsTerminal(f) {
		fmt.Fprint(prompt, "Gemini API key: ")
		raw, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(prompt)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(raw)), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
