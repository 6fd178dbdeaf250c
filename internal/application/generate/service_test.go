package generate

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/aicmd/internal/domain"
	"github.com/doeshing/aicmd/internal/infrastructure/history"
	"github.com/doeshing/aicmd/internal/infrastructure/security"
	"github.com/doeshing/aicmd/internal/pkg/logger"
)

type stubGenerator struct {
	command     string
	explanation string
	err         error
	calls       int
}

func (s *stubGenerator) Generate(context.Context, domain.PromptRequest) (string, error) {
	s.calls++
	return s.command, s.err
}

func (s *stubGenerator) Explain(context.Context, string) (string, error) {
	return s.explanation, s.err
}

type stubPrompter struct {
	enabled  bool
	confirm  bool
	typed    string
	confirms int
	typedN   int
}

func (s *stubPrompter) Confirm(domain.RiskLevel, string, []string) (bool, error) {
	s.confirms++
	return s.confirm, nil
}

func (s *stubPrompter) ConfirmTyped(string, string) (string, error) {
	s.typedN++
	return s.typed, nil
}

func (s *stubPrompter) Enabled() bool { return s.enabled }

type stubInjector struct {
	injected []string
	err      error
}

func (s *stubInjector) Inject(command string) error {
	if s.err != nil {
		return s.err
	}
	s.injected = append(s.injected, command)
	return nil
}

type memPersister struct {
	entries []domain.HistoryEntry
	saveErr error
}

func (m *memPersister) Load() ([]domain.HistoryEntry, error) { return m.entries, nil }

func (m *memPersister) Save(entries []domain.HistoryEntry) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.entries = entries
	return nil
}

type fixture struct {
	svc       *Service
	generator *stubGenerator
	prompter  *stubPrompter
	injector  *stubInjector
	persister *memPersister
	store     *history.Store
}

func newFixture(command string) *fixture {
	f := &fixture{
		generator: &stubGenerator{command: command, explanation: "does things"},
		prompter:  &stubPrompter{enabled: true, confirm: true, typed: domain.ConfirmToken},
		injector:  &stubInjector{},
		persister: &memPersister{},
	}
	f.store = history.NewStore(f.persister, 10, logger.NewNop())
	f.svc = &Service{
		Generator:      f.generator,
		Classifier:     security.NewClassifier(),
		History:        f.store,
		Prompter:       f.prompter,
		Injector:       f.injector,
		Logger:         logger.NewNop(),
		MaxInputLength: 20,
	}
	return f
}

func request(input string) domain.PromptRequest {
	return domain.PromptRequest{Input: input, WorkingDir: "/tmp", Shell: domain.ShellZsh}
}

func TestGenerateValidatesBeforeProvider(t *testing.T) {
	f := newFixture("ls")

	tests := []domain.PromptRequest{
		request(""),
		request(strings.Repeat("x", 21)),
		{Input: "list", Shell: "powershell"},
	}
	for _, req := range tests {
		_, err := f.svc.Generate(context.Background(), req)
		assert.ErrorIs(t, err, domain.ErrValidation)
	}
	assert.Zero(t, f.generator.calls)
}

func TestGenerateClassifies(t *testing.T) {
	f := newFixture("sudo rm -rf /")

	result, err := f.svc.Generate(context.Background(), request("wipe"))
	require.NoError(t, err)
	assert.Equal(t, "wipe", result.Prompt)
	assert.Equal(t, domain.RiskDangerous, result.Risk.Level)
	assert.NotEmpty(t, result.Risk.Reasons)
}

func TestGeneratePropagatesProviderErrors(t *testing.T) {
	f := newFixture("")
	f.generator.err = domain.NewRateLimitError("generate", "API rate limit exceeded", errors.New("429"))

	_, err := f.svc.Run(context.Background(), request("list"), RunOptions{})
	assert.ErrorIs(t, err, domain.ErrRateLimit)
	assert.Empty(t, f.injector.injected)
	assert.Zero(t, f.store.Count())
}

func TestRunConfirmationTiers(t *testing.T) {
	tests := []struct {
		name         string
		command      string
		confirm      bool
		typed        string
		wantAction   Action
		wantConfirms int
		wantTyped    int
	}{
		{name: "safe needs nothing", command: "ls -la", wantAction: ActionInjected},
		{name: "warning accepted", command: "sudo apt update", confirm: true, wantAction: ActionInjected, wantConfirms: 1},
		{name: "warning declined", command: "sudo apt update", confirm: false, wantAction: ActionDeclined, wantConfirms: 1},
		{name: "dangerous confirmed", command: "rm -rf ~", confirm: true, typed: "CONFIRM", wantAction: ActionInjected, wantConfirms: 1, wantTyped: 1},
		{name: "dangerous wrong token", command: "rm -rf ~", confirm: true, typed: "confirm", wantAction: ActionDeclined, wantConfirms: 1, wantTyped: 1},
		{name: "dangerous first step declined", command: "rm -rf ~", confirm: false, wantAction: ActionDeclined, wantConfirms: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(tt.command)
			f.prompter.confirm = tt.confirm
			f.prompter.typed = tt.typed

			out, err := f.svc.Run(context.Background(), request("do it"), RunOptions{})
			require.NoError(t, err)
			assert.Equal(t, tt.wantAction, out.Action)
			assert.Equal(t, tt.wantConfirms, f.prompter.confirms)
			assert.Equal(t, tt.wantTyped, f.prompter.typedN)

			if tt.wantAction == ActionInjected {
				assert.Equal(t, []string{tt.command}, f.injector.injected)
				require.NotNil(t, out.Entry)
				assert.Equal(t, 1, f.store.Count())
			} else {
				assert.Empty(t, f.injector.injected)
				assert.Zero(t, f.store.Count())
			}
		})
	}
}

func TestRunDisabledPrompterDeclinesRiskyCommands(t *testing.T) {
	f := newFixture("sudo reboot")
	f.prompter.enabled = false

	out, err := f.svc.Run(context.Background(), request("restart"), RunOptions{})
	require.NoError(t, err)
	assert.Equal(t, ActionDeclined, out.Action)
	assert.Empty(t, f.injector.injected)
}

func TestRunPreviewDoesNothing(t *testing.T) {
	f := newFixture("rm -rf /")

	out, err := f.svc.Run(context.Background(), request("wipe"), RunOptions{PreviewOnly: true, Explain: true})
	require.NoError(t, err)
	assert.Equal(t, ActionPreviewed, out.Action)
	assert.Equal(t, "does things", out.Result.Explanation)
	assert.Zero(t, f.prompter.confirms)
	assert.Empty(t, f.injector.injected)
	assert.Zero(t, f.store.Count())
}

func TestRunSaveStoresAliasWithoutInjection(t *testing.T) {
	f := newFixture("du -sh .")

	out, err := f.svc.Run(context.Background(), request("disk usage"), RunOptions{Save: true, Alias: "du"})
	require.NoError(t, err)
	assert.Equal(t, ActionSaved, out.Action)
	require.NotNil(t, out.Entry)
	assert.Equal(t, "du", out.Entry.Alias)
	assert.Empty(t, f.injector.injected)

	entry, ok := f.store.ByAlias("du")
	require.True(t, ok)
	assert.Equal(t, "du -sh .", entry.Command)
}

func TestRunHistoryFailureAbortsInjection(t *testing.T) {
	f := newFixture("ls -la")
	f.persister.saveErr = errors.New("read-only filesystem")

	_, err := f.svc.Run(context.Background(), request("list"), RunOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrPersistence)
	assert.Empty(t, f.injector.injected)
}

func TestRunInjectFailureSurfaces(t *testing.T) {
	f := newFixture("ls -la")
	f.injector.err = errors.New("no terminal")

	_, err := f.svc.Run(context.Background(), request("list"), RunOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no terminal")
}

func TestRecall(t *testing.T) {
	f := newFixture("unused")
	first, err := f.store.Add("list", "ls -la", "ll")
	require.NoError(t, err)
	_, err = f.store.Add("status", "git status", "")
	require.NoError(t, err)

	out, err := f.svc.Recall(context.Background(), "ll")
	require.NoError(t, err)
	assert.Equal(t, ActionInjected, out.Action)
	assert.Equal(t, 2, out.Entry.UseCount)
	assert.Equal(t, first.ID, out.Entry.ID)

	out, err = f.svc.Recall(context.Background(), first.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, out.Entry.UseCount)

	// most recent first: "ls -la" was just used
	out, err = f.svc.Recall(context.Background(), "2")
	require.NoError(t, err)
	assert.Equal(t, "git status", out.Result.Command)

	_, err = f.svc.Recall(context.Background(), "99")
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Zero(t, f.generator.calls)
}

func TestRecallReconfirmsRiskyCommands(t *testing.T) {
	f := newFixture("unused")
	_, err := f.store.Add("wipe home", "rm -rf ~", "nuke")
	require.NoError(t, err)
	f.prompter.confirm = false

	out, err := f.svc.Recall(context.Background(), "nuke")
	require.NoError(t, err)
	assert.Equal(t, ActionDeclined, out.Action)
	assert.Equal(t, domain.RiskDangerous, out.Result.Risk.Level)

	entry, _ := f.store.ByAlias("nuke")
	assert.Equal(t, 1, entry.UseCount)
}

func TestExplain(t *testing.T) {
	f := newFixture("ls")

	got, err := f.svc.Explain(context.Background(), "ls")
	require.NoError(t, err)
	assert.Equal(t, "does things", got)
}

type stubClipboard struct {
	copied []string
}

func (s *stubClipboard) Enabled() bool { return true }

func (s *stubClipboard) Copy(text string) error {
	s.copied = append(s.copied, text)
	return nil
}

func TestRunCopiesOnlyApprovedOrSavedCommands(t *testing.T) {
	tests := []struct {
		name       string
		command    string
		opts       RunOptions
		confirm    bool
		wantCopied []string
	}{
		{name: "declined dangerous", command: "rm -rf ~", opts: RunOptions{Copy: true}, confirm: false},
		{name: "approved warning", command: "sudo apt update", opts: RunOptions{Copy: true}, confirm: true, wantCopied: []string{"sudo apt update"}},
		{name: "saved", command: "rm -rf ~", opts: RunOptions{Copy: true, Save: true}, wantCopied: []string{"rm -rf ~"}},
		{name: "preview", command: "ls", opts: RunOptions{Copy: true, PreviewOnly: true}},
		{name: "copy not requested", command: "ls", opts: RunOptions{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(tt.command)
			f.prompter.confirm = tt.confirm
			clip := &stubClipboard{}
			f.svc.Clipboard = clip

			_, err := f.svc.Run(context.Background(), request("do it"), tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCopied, clip.copied)
		})
	}
}
