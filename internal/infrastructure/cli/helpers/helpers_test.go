package helpers

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/aicmd/internal/domain"
)

func TestLinePrompterConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
	}

	for _, tt := range tests {
		var out bytes.Buffer
		p := NewLinePrompter(strings.NewReader(tt.input), &out)

		got, err := p.Confirm(domain.RiskWarning, "sudo reboot", []string{"Runs with administrator privileges"})
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
		assert.Contains(t, out.String(), "WARNING risk detected")
		assert.Contains(t, out.String(), "Runs with administrator privileges")
		assert.Contains(t, out.String(), "sudo reboot")
	}
}

func TestLinePrompterConfirmTypedKeepsInputVerbatim(t *testing.T) {
	var out bytes.Buffer
	p := NewLinePrompter(strings.NewReader(" CONFIRM\r\nCONFIRM\n"), &out)

	first, err := p.ConfirmTyped("rm -rf ~", domain.ConfirmToken)
	require.NoError(t, err)
	assert.Equal(t, " CONFIRM", first)

	second, err := p.ConfirmTyped("rm -rf ~", domain.ConfirmToken)
	require.NoError(t, err)
	assert.Equal(t, domain.ConfirmToken, second)
	assert.Contains(t, out.String(), "Type CONFIRM to proceed")
}

func TestLinePrompterAskRequest(t *testing.T) {
	var out bytes.Buffer
	p := NewLinePrompter(strings.NewReader("  list big files  \n"), &out)

	got, err := p.AskRequest(500)
	require.NoError(t, err)
	assert.Equal(t, "list big files", got)
	assert.Contains(t, out.String(), "max 500")
}

func TestNewDialogFallsBackToLines(t *testing.T) {
	d := NewDialog(strings.NewReader(""), &bytes.Buffer{})
	_, ok := d.(*LinePrompter)
	assert.True(t, ok)
	assert.False(t, IsTerminal(&bytes.Buffer{}))
}

type fakeClipboard struct {
	enabled bool
	copied  []string
	err     error
}

func (f *fakeClipboard) Enabled() bool { return f.enabled }

func (f *fakeClipboard) Copy(text string) error {
	f.copied = append(f.copied, text)
	return f.err
}

func TestBufferInjectorWritesNoNewline(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, NewBufferInjector(&out).Inject("ls -la"))
	assert.Equal(t, "ls -la", out.String())
}

func TestPrintInjector(t *testing.T) {
	var out bytes.Buffer
	clip := &fakeClipboard{enabled: true}
	require.NoError(t, NewPrintInjector(&out, clip).Inject("git status"))
	assert.Equal(t, "git status\n", out.String())
	assert.Equal(t, []string{"git status"}, clip.copied)

	clip = &fakeClipboard{enabled: false}
	require.NoError(t, NewPrintInjector(&bytes.Buffer{}, clip).Inject("ls"))
	assert.Empty(t, clip.copied)

	clip = &fakeClipboard{enabled: true, err: errors.New("no display")}
	assert.Error(t, NewPrintInjector(&bytes.Buffer{}, clip).Inject("ls"))

	require.NoError(t, NewPrintInjector(&bytes.Buffer{}, nil).Inject("ls"))
}

func TestRendererPlainOutput(t *testing.T) {
	var out bytes.Buffer
	r := NewRenderer(&out)

	r.Generated(domain.GeneratedCommand{
		Command:     "rm -rf /",
		Explanation: "Deletes everything.",
		Risk:        domain.RiskResult{Level: domain.RiskDangerous, Reasons: []string{"Deleting the root directory"}},
	})
	r.History([]domain.HistoryEntry{{
		ID: "abc", Prompt: "list", Command: "ls -la", Alias: "ll", UseCount: 3,
		LastUsed: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}})
	r.Doctor(domain.HealthReport{Checks: []domain.HealthCheck{{Name: "API key", Status: domain.HealthError, Details: "missing"}}})

	text := out.String()
	assert.Contains(t, text, "DANGEROUS")
	assert.Contains(t, text, "Deleting the root directory")
	assert.Contains(t, text, "Deletes everything.")
	assert.Contains(t, text, " 1. ls -la [ll]")
	assert.Contains(t, text, "used 3x")
	assert.Contains(t, text, "[ERROR] API key - missing")
	assert.NotContains(t, text, "\x1b[", "no ANSI codes when output is not a terminal")
}

type fakeSaver struct {
	saved   []domain.Config
	saveErr error
}

func (f *fakeSaver) Backup() (string, error) { return "/tmp/config.yaml.bak", nil }

func (f *fakeSaver) Save(cfg domain.Config) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, cfg)
	return nil
}

func validConfig() domain.Config {
	return domain.Config{
		ConfigFormatVersion: "1",
		Secret:              domain.SecretSettings{Service: "aicmd", Account: "key"},
		ShortcutKey:         "Ctrl+G",
		MaxHistory:          50,
		MaxInputLength:      500,
		Model:               domain.ModelSettings{Name: "gemini-2.5-flash", TimeoutSeconds: 30},
		History:             domain.HistorySettings{Backend: domain.HistoryBackendJSON},
	}
}

func TestSaveConfigWithValidation(t *testing.T) {
	saver := &fakeSaver{}

	backup, err := SaveConfigWithValidation(saver, validConfig())
	require.NoError(t, err)
	assert.Equal(t, "/tmp/config.yaml.bak", backup)
	assert.Len(t, saver.saved, 1)

	bad := validConfig()
	bad.MaxHistory = -1
	_, err = SaveConfigWithValidation(saver, bad)
	assert.ErrorIs(t, err, domain.ErrConfig)
	assert.Len(t, saver.saved, 1)

	_, err = SaveConfigWithValidation(nil, validConfig())
	assert.Error(t, err)
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type echoGenerator struct{}

func (echoGenerator) Generate(_ context.Context, req domain.PromptRequest) (string, error) {
	return "echo " + req.Input, nil
}

func (echoGenerator) Explain(context.Context, string) (string, error) {
	return "prints its arguments", nil
}

func TestSpinnerRestart(t *testing.T) {
	var out syncBuffer
	s := NewSpinner(&out)
	s.interval = time.Millisecond

	for i := 0; i < 2; i++ {
		s.Start("Working...")
		s.Start("ignored while running")
		time.Sleep(5 * time.Millisecond)
		s.Stop()
		s.Stop()
	}

	got := out.String()
	assert.Contains(t, got, "Working...")
	assert.NotContains(t, got, "ignored while running")
	assert.True(t, strings.HasSuffix(got, "\r\033[K"))
}

func TestSpinningGenerator(t *testing.T) {
	var out syncBuffer
	g := SpinningGenerator{Generator: echoGenerator{}, Spinner: NewSpinner(&out)}

	cmd, err := g.Generate(context.Background(), domain.PromptRequest{Input: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "echo hi", cmd)

	explanation, err := g.Explain(context.Background(), cmd)
	require.NoError(t, err)
	assert.Equal(t, "prints its arguments", explanation)

	assert.Contains(t, out.String(), "Generating command...")
	assert.Contains(t, out.String(), "Explaining command...")
}
