package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/doeshing/aicmd/internal/app"
	"github.com/doeshing/aicmd/internal/domain"
	"github.com/doeshing/aicmd/internal/infrastructure/cli/helpers"
	"github.com/doeshing/aicmd/internal/infrastructure/security"
	"github.com/doeshing/aicmd/internal/pkg/filesystem"
)

// NewRulesCommand creates the rules command with all subcommands
func NewRulesCommand(container *app.Container) *cobra.Command {
	rulesCmd := &cobra.Command{
		Use:   "rules",
		Short: "Inspect and customise risk rules",
	}

	rulesCmd.AddCommand(
		newRulesListCommand(container),
		newRulesInitCommand(container),
		newRulesAddCommand(container),
		newRulesRemoveCommand(container),
	)

	return rulesCmd
}

// newRulesListCommand creates the 'rules list' subcommand
func newRulesListCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List active rules in evaluation order",
		RunE: func(cmd *cobra.Command, args []string) error {
			helpers.NewRenderer(cmd.OutOrStdout()).Rules(container.Classifier.Patterns())
			return nil
		},
	}
}

// newRulesInitCommand creates the 'rules init' subcommand
func newRulesInitCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a starter rules file to security.rules_file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := container.Config.Security.RulesFile
			created, err := security.InitRulesFile(path)
			if err != nil {
				return err
			}
			if created {
				fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", filesystem.ExpandHome(path))
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s already exists\n", filesystem.ExpandHome(path))
			}
			return nil
		},
	}
}

// newRulesAddCommand creates the 'rules add' subcommand
func newRulesAddCommand(container *app.Container) *cobra.Command {
	var level, reason string

	cmd := &cobra.Command{
		Use:   "add <pattern>",
		Short: "Add a case-insensitive regular expression rule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := domain.ParseRiskLevel(level)
			if err != nil {
				return err
			}
			if reason == "" {
				reason = "Matches custom rule " + args[0]
			}
			return editRulesFile(container, func(rf *security.RulesFile) (bool, error) {
				return true, rf.Add(domain.RiskRule{Pattern: args[0], Level: parsed, Reason: reason})
			}, cmd, fmt.Sprintf("Added %s rule %s", parsed, args[0]))
		},
	}

	cmd.Flags().StringVar(&level, "level", "warning", "Risk level (warning|dangerous)")
	cmd.Flags().StringVar(&reason, "reason", "", "Message shown when the rule matches")
	return cmd
}

// newRulesRemoveCommand creates the 'rules remove' subcommand
func newRulesRemoveCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <pattern>",
		Short: "Remove a custom rule or disable a built-in one by its exact pattern",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editRulesFile(container, func(rf *security.RulesFile) (bool, error) {
				if !rf.Drop(args[0]) {
					return false, domain.NewValidationError("remove rule", fmt.Sprintf("no rule with pattern %q", args[0]))
				}
				return true, nil
			}, cmd, fmt.Sprintf("Removed %s", args[0]))
		},
	}
}

// editRulesFile loads the rules file, applies edit and saves it. The result
// takes effect on the next invocation.
func editRulesFile(container *app.Container, edit func(*security.RulesFile) (bool, error), cmd *cobra.Command, done string) error {
	path := container.Config.Security.RulesFile
	if path == "" {
		return domain.NewValidationError("edit rules", "security.rules_file is not set")
	}
	rf, err := security.LoadRulesFile(path)
	if err != nil {
		return err
	}
	changed, err := edit(&rf)
	if err != nil || !changed {
		return err
	}
	if err := security.SaveRulesFile(path, rf); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), done)
	return nil
}
