package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/doeshing/aicmd/internal/app"
	"github.com/doeshing/aicmd/internal/infrastructure/cli/commands"
)

// Version is set at build time with -ldflags "-X ...cli.Version=v1.2.3".
var Version = "dev"

// Options holds CLI-level configuration.
type Options struct {
	Verbose    bool
	ConfigPath string
}

// NewRootCmd builds the container and wires the cobra root command. The
// caller closes the returned container.
func NewRootCmd(ctx context.Context, opts Options) (*cobra.Command, *app.Container, error) {
	container, err := app.BuildContainer(ctx, app.Options{Verbose: opts.Verbose, ConfigPath: opts.ConfigPath})
	if err != nil {
		return nil, nil, err
	}
	return NewRootCmdWithContainer(container), container, nil
}

// NewRootCmdWithContainer wires the command tree around an existing container.
func NewRootCmdWithContainer(container *app.Container) *cobra.Command {
	generateCmd := commands.NewGenerateCommand(container)

	root := &cobra.Command{
		Use:   "aicmd [request...]",
		Short: "aicmd - natural language to shell commands",
		Long: `aicmd turns a natural-language request into one shell command, classifies
its risk and asks for confirmation before placing it on your prompt.

'aicmd <request>' is shorthand for 'aicmd generate <request>'.`,
		Version: Version,
		Args:    cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && !cmd.Flags().Changed("emit") {
				return cmd.Help()
			}
			return generateCmd.RunE(cmd, args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.Flags().AddFlagSet(generateCmd.Flags())
	root.PersistentFlags().BoolP("verbose", "v", false, "Log debug output to stderr (also AICMD_DEBUG=1)")
	root.PersistentFlags().String("config", "", "Config file path (also AICMD_CONFIG)")

	root.AddCommand(
		generateCmd,
		commands.NewExplainCommand(container),
		commands.NewCheckCommand(container),
		commands.NewRulesCommand(container),
		commands.NewHistoryCommand(container),
		commands.NewKeyCommand(container),
		commands.NewConfigCommand(container),
		commands.NewInstallCommand(container),
		commands.NewUninstallCommand(container),
		commands.NewDoctorCommand(container),
	)
	return root
}
