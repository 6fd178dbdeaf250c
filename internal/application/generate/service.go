package generate

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/doeshing/aicmd/internal/domain"
	"github.com/doeshing/aicmd/internal/ports"
)

// Action reports how a request ended.
type Action string

const (
	ActionPreviewed Action = "previewed"
	ActionSaved     Action = "saved"
	ActionInjected  Action = "injected"
	ActionDeclined  Action = "declined"
)

// RunOptions selects what happens after a command is generated.
type RunOptions struct {
	// PreviewOnly stops after classification.
	PreviewOnly bool
	// Save records the command under Alias without confirmation or injection.
	Save  bool
	Alias string
	// Explain asks the provider to describe the command before confirmation.
	Explain bool
	// Copy places the command on the clipboard once it is saved or approved.
	Copy bool
}

// Outcome is the result of Run or Recall.
type Outcome struct {
	Result domain.GeneratedCommand
	Entry  *domain.HistoryEntry
	Action Action
}

// Service orchestrates generate -> classify -> confirm -> record -> inject.
type Service struct {
	Generator      ports.CommandGenerator
	Classifier     ports.RiskClassifier
	History        ports.HistoryRepository
	Prompter       ports.ConfirmationPrompter
	Injector       ports.TerminalInjector
	Collector      ports.ContextCollector
	Clipboard      ports.Clipboard
	Logger         ports.Logger
	MaxInputLength int
}

// Generate validates req, asks the provider for a command and classifies it.
// Validation failures are returned before the provider is called.
func (s *Service) Generate(ctx context.Context, req domain.PromptRequest) (domain.GeneratedCommand, error) {
	if s.Generator == nil || s.Classifier == nil || s.Logger == nil {
		return domain.GeneratedCommand{}, errors.New("generate.Service dependencies not satisfied")
	}

	if s.Collector != nil {
		collected, err := s.Collector.Collect(ctx, req)
		if err != nil {
			return domain.GeneratedCommand{}, fmt.Errorf("collect context: %w", err)
		}
		req = collected
	}
	if err := req.Validate(s.MaxInputLength); err != nil {
		return domain.GeneratedCommand{}, err
	}

	s.Logger.Info("generating command", map[string]interface{}{
		"shell":  string(req.Shell),
		"dir":    req.WorkingDir,
		"length": len([]rune(req.Input)),
	})

	command, err := s.Generator.Generate(ctx, req)
	if err != nil {
		s.Logger.Error("generation failed", err, map[string]interface{}{"kind": domain.KindOf(err).String()})
		return domain.GeneratedCommand{}, err
	}

	risk := s.Classifier.Analyze(command)
	s.Logger.Info("command generated", map[string]interface{}{
		"command": command,
		"risk":    risk.Level.String(),
		"reasons": risk.Reasons,
	})

	return domain.GeneratedCommand{
		Prompt:  req.Input,
		Command: command,
		Risk:    risk,
	}, nil
}

// Run generates a command and then previews, saves or confirms and injects
// it according to opts.
func (s *Service) Run(ctx context.Context, req domain.PromptRequest, opts RunOptions) (Outcome, error) {
	result, err := s.Generate(ctx, req)
	if err != nil {
		return Outcome{}, err
	}
	out := Outcome{Result: result}

	if opts.Explain {
		explanation, err := s.Explain(ctx, result.Command)
		if err != nil {
			return out, err
		}
		out.Result.Explanation = explanation
	}

	switch {
	case opts.PreviewOnly:
		out.Action = ActionPreviewed
		return out, nil
	case opts.Save:
		if s.History == nil {
			return out, errors.New("generate.Service history not configured")
		}
		entry, err := s.History.Add(result.Prompt, result.Command, opts.Alias)
		if err != nil {
			return out, err
		}
		out.Entry = &entry
		out.Action = ActionSaved
		if opts.Copy {
			s.copy(result.Command)
		}
		return out, nil
	default:
		return s.approveAndInject(out, result.Prompt, opts.Copy)
	}
}

// Recall re-runs a history entry selected by alias, id or 1-based position
// in the most-recent-first listing. The command is classified and confirmed
// again before injection.
func (s *Service) Recall(ctx context.Context, selector string) (Outcome, error) {
	if s.Classifier == nil || s.Logger == nil {
		return Outcome{}, errors.New("generate.Service dependencies not satisfied")
	}
	entry, err := s.Lookup(selector)
	if err != nil {
		return Outcome{}, err
	}

	out := Outcome{Result: domain.GeneratedCommand{
		Prompt:  entry.Prompt,
		Command: entry.Command,
		Risk:    s.Classifier.Analyze(entry.Command),
	}}
	s.Logger.Info("recalling history entry", map[string]interface{}{
		"id":   entry.ID,
		"risk": out.Result.Risk.Level.String(),
	})
	return s.approveAndInject(out, entry.Prompt, false)
}

// Lookup resolves selector against the history.
func (s *Service) Lookup(selector string) (domain.HistoryEntry, error) {
	if s.History == nil {
		return domain.HistoryEntry{}, errors.New("generate.Service history not configured")
	}
	if entry, ok := s.History.ByAlias(selector); ok {
		return entry, nil
	}
	if entry, ok := s.History.ByID(selector); ok {
		return entry, nil
	}
	if n, err := strconv.Atoi(selector); err == nil {
		all := s.History.All()
		if n >= 1 && n <= len(all) {
			return all[n-1], nil
		}
	}
	return domain.HistoryEntry{}, domain.NewValidationError("recall", fmt.Sprintf("no history entry matches %q", selector))
}

// Explain asks the provider to describe command.
func (s *Service) Explain(ctx context.Context, command string) (string, error) {
	if s.Generator == nil {
		return "", errors.New("generate.Service dependencies not satisfied")
	}
	return s.Generator.Explain(ctx, command)
}

// Confirm runs as many confirmation steps as the risk level requires.
// Dangerous commands additionally need the confirmation token typed exactly.
func (s *Service) Confirm(result domain.GeneratedCommand) (bool, error) {
	steps := result.Risk.Level.ConfirmationSteps()
	if steps == 0 {
		return true, nil
	}
	if s.Prompter == nil || !s.Prompter.Enabled() {
		s.Logger.Warn("confirmation required but prompter disabled", map[string]interface{}{
			"risk": result.Risk.Level.String(),
		})
		return false, nil
	}

	ok, err := s.Prompter.Confirm(result.Risk.Level, result.Command, result.Risk.Reasons)
	if err != nil || !ok {
		return false, err
	}
	if steps < 2 {
		return true, nil
	}

	typed, err := s.Prompter.ConfirmTyped(result.Command, domain.ConfirmToken)
	if err != nil {
		return false, err
	}
	return typed == domain.ConfirmToken, nil
}

func (s *Service) approveAndInject(out Outcome, prompt string, copyCommand bool) (Outcome, error) {
	if s.History == nil || s.Injector == nil {
		return out, errors.New("generate.Service dependencies not satisfied")
	}

	ok, err := s.Confirm(out.Result)
	if err != nil {
		return out, err
	}
	if !ok {
		s.Logger.Info("command declined", map[string]interface{}{"risk": out.Result.Risk.Level.String()})
		out.Action = ActionDeclined
		return out, nil
	}

	entry, err := s.History.Add(prompt, out.Result.Command, "")
	if err != nil {
		return out, fmt.Errorf("record history: %w", err)
	}
	out.Entry = &entry
	if copyCommand {
		s.copy(out.Result.Command)
	}

	if err := s.Injector.Inject(out.Result.Command); err != nil {
		return out, fmt.Errorf("inject command: %w", err)
	}
	out.Action = ActionInjected
	return out, nil
}

func (s *Service) copy(command string) {
	if s.Clipboard == nil || !s.Clipboard.Enabled() {
		return
	}
	if err := s.Clipboard.Copy(command); err != nil {
		s.Logger.Warn("clipboard copy failed", map[string]interface{}{"error": err.Error()})
	}
}
