package shell

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/aicmd/internal/domain"
	"github.com/doeshing/aicmd/internal/pkg/logger"
)

func newTestInstaller(t *testing.T) *Installer {
	t.Helper()
	return &Installer{
		home:   t.TempDir(),
		binary: "aicmd",
		getenv: func(k string) string { return map[string]string{"SHELL": "/bin/zsh"}[k] },
		logger: logger.NewNop(),
	}
}

func mustShortcut(t *testing.T, value string) domain.Shortcut {
	t.Helper()
	sc, err := domain.ParseShortcut(value)
	require.NoError(t, err)
	return sc
}

func TestKeySequence(t *testing.T) {
	tests := []struct {
		shortcut string
		zsh      string
		bash     string
		wantErr  bool
	}{
		{shortcut: "Ctrl+G", zsh: "^G", bash: `\C-g`},
		{shortcut: "Ctrl+Shift+A", zsh: "^A", bash: `\C-a`},
		{shortcut: "Alt+k", zsh: `\ek`, bash: `\ek`},
		{shortcut: "Option+Shift+k", zsh: `\eK`, bash: `\eK`},
		{shortcut: "Ctrl+Alt+x", zsh: `\e^X`, bash: `\e\C-x`},
		{shortcut: "Cmd+K", wantErr: true},
		{shortcut: "Shift+A", wantErr: true},
		{shortcut: "Ctrl+1", wantErr: true},
		{shortcut: "Ctrl+Enter", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.shortcut, func(t *testing.T) {
			sc := mustShortcut(t, tt.shortcut)

			zsh, err := KeySequence(domain.ShellZsh, sc)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.zsh, zsh)

			bash, err := KeySequence(domain.ShellBash, sc)
			require.NoError(t, err)
			assert.Equal(t, tt.bash, bash)
		})
	}
}

func TestRenderWidgets(t *testing.T) {
	installer := newTestInstaller(t)
	sc := mustShortcut(t, "Ctrl+G")

	zsh, err := installer.Render(domain.ShellZsh, sc)
	require.NoError(t, err)
	assert.Contains(t, zsh, "bindkey '^G' _aicmd_generate")
	assert.Contains(t, zsh, "aicmd generate --emit --shell zsh")
	assert.Contains(t, zsh, `BUFFER="$cmd"`)
	assert.NotContains(t, zsh, "accept-line")

	bash, err := installer.Render(domain.ShellBash, sc)
	require.NoError(t, err)
	assert.Contains(t, bash, `bind -x '"\C-g": _aicmd_generate'`)
	assert.Contains(t, bash, `READLINE_LINE="$cmd"`)

	_, err = installer.Render(domain.ShellFish, sc)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestInstallStatusUninstall(t *testing.T) {
	installer := newTestInstaller(t)
	rc := filepath.Join(installer.home, ".zshrc")
	require.NoError(t, os.WriteFile(rc, []byte("export EDITOR=vim\n"), 0o644))

	status := installer.Status("")
	assert.Equal(t, domain.ShellZsh, status.Shell)
	assert.False(t, status.ScriptExists)
	assert.False(t, status.LinePresent)

	result, err := installer.Install("", mustShortcut(t, "Alt+g"), false)
	require.NoError(t, err)
	assert.True(t, result.RCUpdated)

	script, err := os.ReadFile(result.ScriptPath)
	require.NoError(t, err)
	assert.Contains(t, string(script), `bindkey '\eg' _aicmd_generate`)

	rcContents, err := os.ReadFile(rc)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(rcContents), "export EDITOR=vim\n"))
	assert.Equal(t, 1, strings.Count(string(rcContents), "source $HOME/.aicmd/shell/zsh.sh"))

	status = installer.Status("zsh")
	assert.True(t, status.ScriptExists)
	assert.True(t, status.LinePresent)

	result, err = installer.Install("zsh", mustShortcut(t, "Ctrl+G"), false)
	require.NoError(t, err)
	assert.False(t, result.RCUpdated)

	result, err = installer.Uninstall("zsh")
	require.NoError(t, err)
	assert.True(t, result.RCUpdated)
	rcContents, err = os.ReadFile(rc)
	require.NoError(t, err)
	assert.NotContains(t, string(rcContents), "aicmd")
	assert.False(t, installer.Status("zsh").LinePresent)
}

func TestInstallCreatesMissingRC(t *testing.T) {
	installer := newTestInstaller(t)

	result, err := installer.Install("bash", mustShortcut(t, "Ctrl+G"), false)
	require.NoError(t, err)

	contents, err := os.ReadFile(result.RCFile)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(contents), "# Added by aicmd installer\n"))
}

func TestInstallRejectsUnsupportedShell(t *testing.T) {
	installer := newTestInstaller(t)

	_, err := installer.Install("fish", mustShortcut(t, "Ctrl+G"), false)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.NotEmpty(t, installer.Status("fish").Error)
}

func TestInstallRejectsUnbindableShortcut(t *testing.T) {
	installer := newTestInstaller(t)

	_, err := installer.Install("zsh", mustShortcut(t, "Cmd+K"), false)
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, statErr := os.Stat(filepath.Join(installer.home, ".zshrc"))
	assert.True(t, os.IsNotExist(statErr))
}
