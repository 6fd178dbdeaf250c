package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/doeshing/aicmd/internal/app"
	configapp "github.com/doeshing/aicmd/internal/application/config"
	"github.com/doeshing/aicmd/internal/application/generate"
	"github.com/doeshing/aicmd/internal/domain"
	"github.com/doeshing/aicmd/internal/infrastructure/cli/helpers"
)

// generateOptions holds the flags shared by `generate` and the root command.
type generateOptions struct {
	shell   string
	dir     string
	emit    bool
	copy    bool
	save    bool
	alias   string
	preview bool
	explain bool
}

// NewGenerateCommand creates the generate command. The returned command's
// flags and RunE are also mounted on the root command.
func NewGenerateCommand(container *app.Container) *cobra.Command {
	var opts generateOptions

	cmd := &cobra.Command{
		Use:   "generate [request...]",
		Short: "Generate a shell command from a natural-language request",
		Long: `Generate a shell command from a natural-language request.

The command is classified as SAFE, WARNING or DANGEROUS. WARNING commands
need one confirmation. DANGEROUS commands also need CONFIRM typed exactly.
Approved commands are recorded in history and handed to the terminal; they
are never executed.

Without a request, an input dialog asks for one.`,
		Example: `  aicmd generate find files larger than 100MB
  aicmd generate --preview --explain "compress the logs directory"
  aicmd generate --save --alias du "disk usage of this folder"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, container, opts, args)
		},
	}

	bindGenerateFlags(cmd.Flags(), &opts)
	return cmd
}

func bindGenerateFlags(flags *pflag.FlagSet, opts *generateOptions) {
	flags.StringVar(&opts.shell, "shell", "", "Target shell dialect (bash|zsh|sh|fish, detected from $SHELL by default)")
	flags.StringVar(&opts.dir, "dir", "", "Working directory sent as context (current directory by default)")
	flags.BoolVar(&opts.emit, "emit", false, "Write only the approved command to stdout, for the shell widget")
	flags.BoolVarP(&opts.copy, "copy", "c", false, "Copy the command to the clipboard once approved or saved")
	flags.BoolVarP(&opts.save, "save", "s", false, "Save to history without confirmation or injection")
	flags.StringVarP(&opts.alias, "alias", "a", "", "Alias to store with --save")
	flags.BoolVarP(&opts.preview, "preview", "p", false, "Only show the command and its risk")
	flags.BoolVarP(&opts.explain, "explain", "e", false, "Ask the model to explain the command")
}

func runGenerate(cmd *cobra.Command, container *app.Container, opts generateOptions, args []string) error {
	if container.GenerateService == nil {
		return errors.New(ErrGenerateServiceUnavailable)
	}
	if err := configapp.Validate(container.Config); err != nil {
		return err
	}
	if opts.alias != "" && !opts.save {
		return domain.NewValidationError("generate", "--alias requires --save")
	}

	var shell domain.ShellName
	if opts.shell != "" {
		shell = domain.NormalizeShell(opts.shell)
		if shell == domain.ShellUnknown {
			return domain.NewValidationError("generate", fmt.Sprintf("unsupported shell %q (expected one of %s)",
				opts.shell, strings.Join(domain.SupportedShellNames(), ", ")))
		}
	}

	s := newSession(cmd, container, opts.emit)
	request := strings.TrimSpace(strings.Join(args, " "))
	if request == "" {
		asked, err := s.dialog.AskRequest(container.Config.GetMaxInputLength())
		if err != nil {
			return err
		}
		if asked == "" {
			s.render.Notice(MsgCancelled)
			return nil
		}
		request = asked
	}

	out, err := s.service.Run(cmd.Context(), domain.PromptRequest{
		Input:      request,
		WorkingDir: opts.dir,
		Shell:      shell,
	}, generate.RunOptions{
		PreviewOnly: opts.preview,
		Save:        opts.save,
		Alias:       opts.alias,
		Explain:     opts.explain,
		Copy:        opts.copy,
	})
	if err != nil {
		return err
	}
	s.report(out)
	return nil
}

// session is one interactive run of the generate service. Dialogs and
// status lines go to stderr in emit mode so stdout carries only the command.
type session struct {
	service *generate.Service
	dialog  helpers.Dialog
	render  *helpers.Renderer
	emit    bool
}

func newSession(cmd *cobra.Command, container *app.Container, emit bool) *session {
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()
	display := stdout
	if emit {
		display = stderr
	}

	svc := *container.GenerateService
	dialog := helpers.NewDialog(cmd.InOrStdin(), stderr)
	svc.Prompter = dialog
	svc.Clipboard = helpers.NewClipboard()
	if emit {
		svc.Injector = helpers.NewBufferInjector(stdout)
	} else {
		svc.Injector = helpers.NewPrintInjector(stdout, nil)
	}
	if helpers.IsTerminal(stderr) && svc.Generator != nil {
		svc.Generator = helpers.SpinningGenerator{Generator: svc.Generator, Spinner: helpers.NewSpinner(stderr)}
	}

	return &session{
		service: &svc,
		dialog:  dialog,
		render:  helpers.NewRenderer(display),
		emit:    emit,
	}
}

func (s *session) report(out generate.Outcome) {
	switch out.Action {
	case generate.ActionPreviewed:
		s.render.Generated(out.Result)
	case generate.ActionSaved:
		s.render.Generated(out.Result)
		if out.Entry != nil && out.Entry.HasAlias() {
			s.render.Notice("Saved to history as %q.", out.Entry.Alias)
		} else {
			s.render.Notice("Saved to history.")
		}
	case generate.ActionDeclined:
		s.render.Notice("Command was not used.")
	case generate.ActionInjected:
		if out.Result.Explanation != "" {
			s.render.Notice("%s", out.Result.Explanation)
		}
		if !s.emit && out.Entry != nil {
			s.render.Notice("%s risk, used %d time(s).", strings.ToUpper(out.Result.Risk.Level.String()), out.Entry.UseCount)
		}
	}
}

// writeLines prints each value on its own line.
func writeLines(out io.Writer, lines ...string) {
	for _, line := range lines {
		fmt.Fprintln(out, line)
	}
}
