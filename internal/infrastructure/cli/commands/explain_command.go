package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doeshing/aicmd/internal/app"
	"github.com/doeshing/aicmd/internal/infrastructure/cli/helpers"
)

// NewExplainCommand creates the explain command
func NewExplainCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "explain <command...>",
		Short: "Explain what a shell command does",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.GenerateService == nil {
				return errors.New(ErrGenerateServiceUnavailable)
			}
			command := strings.Join(args, " ")
			s := newSession(cmd, container, false)

			explanation, err := s.service.Explain(cmd.Context(), command)
			if err != nil {
				return err
			}
			risk := container.Classifier.Analyze(command)
			render := helpers.NewRenderer(cmd.OutOrStdout())
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n\nRisk: %s\n", explanation, render.RiskBadge(risk.Level))
			for _, reason := range risk.Reasons {
				fmt.Fprintf(cmd.OutOrStdout(), " - %s\n", reason)
			}
			return nil
		},
	}
}

// NewCheckCommand creates the check command, which classifies without
// calling the model.
func NewCheckCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "check <command...>",
		Short: "Classify a shell command as SAFE, WARNING or DANGEROUS",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.Classifier == nil {
				return errors.New("risk classifier unavailable")
			}
			command := strings.Join(args, " ")
			risk := container.Classifier.Analyze(command)

			render := helpers.NewRenderer(cmd.OutOrStdout())
			fmt.Fprintln(cmd.OutOrStdout(), render.RiskBadge(risk.Level))
			for _, reason := range risk.Reasons {
				fmt.Fprintf(cmd.OutOrStdout(), " - %s\n", reason)
			}
			return nil
		},
	}
}
