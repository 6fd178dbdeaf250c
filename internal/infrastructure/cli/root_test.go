package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"github.com/doeshing/aicmd/internal/domain"
)

type fixedGenerator struct{ command string }

func (g fixedGenerator) Generate(context.Context, domain.PromptRequest) (string, error) {
	return g.command, nil
}

func (g fixedGenerator) Explain(context.Context, string) (string, error) {
	return "", nil
}

func runRoot(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("AICMD_CONFIG", "")
	t.Setenv("GEMINI_API_KEY", "")
	keyring.MockInit()

	root, container, err := NewRootCmd(context.Background(), Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Close() })
	container.GenerateService.Generator = fixedGenerator{command: "git status"}

	var stdout bytes.Buffer
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&stdout)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err = root.ExecuteContext(context.Background())
	return stdout.String(), err
}

func TestRootShowsHelpWithoutRequest(t *testing.T) {
	out, err := runRoot(t, "", []string{}...)
	require.NoError(t, err)
	assert.Contains(t, out, "aicmd turns a natural-language request")
	assert.Contains(t, out, "history")
}

func TestRootGeneratesFromBareRequest(t *testing.T) {
	out, err := runRoot(t, "", "--emit", "--shell", "bash", "show", "repo", "status")
	require.NoError(t, err)
	assert.Equal(t, "git status", out)
}

func TestRootEmitAsksForRequest(t *testing.T) {
	out, err := runRoot(t, "status please\n", "--emit")
	require.NoError(t, err)
	assert.Equal(t, "git status", out)
}

func TestRootVersion(t *testing.T) {
	out, err := runRoot(t, "", "--version")
	require.NoError(t, err)
	assert.Contains(t, out, Version)
}

func TestRootSubcommandDispatch(t *testing.T) {
	out, err := runRoot(t, "", "check", "sudo", "ls")
	require.NoError(t, err)
	assert.Contains(t, out, "WARNING")
}
