package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/doeshing/aicmd/internal/app"
	"github.com/doeshing/aicmd/internal/domain"
	"github.com/doeshing/aicmd/internal/infrastructure/cli/helpers"
)

// NewHistoryCommand creates the history command with all subcommands
func NewHistoryCommand(container *app.Container) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect and reuse remembered commands",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listHistoryEntries(cmd.OutOrStdout(), container, DefaultHistoryLimit)
		},
	}

	historyCmd.AddCommand(
		newHistoryListCommand(container),
		newHistorySearchCommand(container),
		newHistoryRunCommand(container),
		newHistoryDeleteCommand(container),
		newHistoryClearCommand(container),
	)

	return historyCmd
}

// newHistoryListCommand creates the 'history list' subcommand
func newHistoryListCommand(container *app.Container) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List entries, most recently used first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listHistoryEntries(cmd.OutOrStdout(), container, limit)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", DefaultHistoryLimit, "Max entries to show (0 shows all)")
	return cmd
}

// newHistorySearchCommand creates the 'history search' subcommand
func newHistorySearchCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search prompts, commands and aliases (case-insensitive)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.HistoryStore == nil {
				return errors.New(ErrHistoryStoreUnavailable)
			}
			matches := container.HistoryStore.Search(args[0])
			if len(matches) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), MsgNoMatches)
				return nil
			}
			helpers.NewRenderer(cmd.OutOrStdout()).History(matches)
			return nil
		},
	}
}

// newHistoryRunCommand creates the 'history run' subcommand
func newHistoryRunCommand(container *app.Container) *cobra.Command {
	var emit bool

	cmd := &cobra.Command{
		Use:   "run <alias|id|number>",
		Short: "Reuse a remembered command after re-checking its risk",
		Long: `Reuse a remembered command. The selector is an alias, an entry id or
the number shown by 'history list'. The command is classified and confirmed
again before it is handed to the terminal.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.GenerateService == nil {
				return errors.New(ErrGenerateServiceUnavailable)
			}
			s := newSession(cmd, container, emit)
			out, err := s.service.Recall(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			s.report(out)
			return nil
		},
	}

	cmd.Flags().BoolVar(&emit, "emit", false, "Write only the approved command to stdout, for the shell widget")
	return cmd
}

// newHistoryDeleteCommand creates the 'history delete' subcommand
func newHistoryDeleteCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete one entry by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.HistoryStore == nil {
				return errors.New(ErrHistoryStoreUnavailable)
			}
			removed, err := container.HistoryStore.Delete(args[0])
			if err != nil {
				return fmt.Errorf("failed to delete history entry: %w", err)
			}
			if !removed {
				return domain.NewValidationError("delete history", fmt.Sprintf("no history entry with id %q", args[0]))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}
}

// newHistoryClearCommand creates the 'history clear' subcommand
func newHistoryClearCommand(container *app.Container) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every history entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.HistoryStore == nil {
				return errors.New(ErrHistoryStoreUnavailable)
			}
			if !yes {
				ok, err := helpers.NewLinePrompter(cmd.InOrStdin(), cmd.ErrOrStderr()).
					Confirm(domain.RiskWarning, "history clear", []string{fmt.Sprintf("Deletes %d entries", container.HistoryStore.Count())})
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), MsgCancelled)
					return nil
				}
			}
			if err := container.HistoryStore.Clear(); err != nil {
				return fmt.Errorf("failed to clear history: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "History cleared.")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

// listHistoryEntries lists recent history entries
func listHistoryEntries(out io.Writer, container *app.Container, limit int) error {
	if container.HistoryStore == nil {
		return errors.New(ErrHistoryStoreUnavailable)
	}

	entries := container.HistoryStore.All()
	if len(entries) == 0 {
		fmt.Fprintln(out, MsgNoHistoryRecorded)
		return nil
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	helpers.NewRenderer(out).History(entries)
	return nil
}
