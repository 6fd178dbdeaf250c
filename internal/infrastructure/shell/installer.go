package shell

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	rootassets "github.com/doeshing/aicmd/assets"
	"github.com/doeshing/aicmd/internal/domain"
	"github.com/doeshing/aicmd/internal/pkg/filesystem"
	"github.com/doeshing/aicmd/internal/ports"
)

var widgetTemplates = map[domain.ShellName]*template.Template{
	domain.ShellZsh:  template.Must(template.New("zsh").Parse(rootassets.ZshWidgetTemplate)),
	domain.ShellBash: template.Must(template.New("bash").Parse(rootassets.BashWidgetTemplate)),
}

// Installer writes the line-editor widget for zsh or bash and sources it
// from the shell rc file.
type Installer struct {
	home   string
	binary string
	getenv func(string) string
	logger ports.Logger
}

// NewInstaller builds a shell installer for the current user. binary is the
// command the widget invokes.
func NewInstaller(binary string, logger ports.Logger) *Installer {
	return &Installer{
		home:   filesystem.UserHomeDir(),
		binary: binary,
		getenv: os.Getenv,
		logger: logger,
	}
}

// Install renders the widget bound to shortcut and adds the source line to
// the rc file. The shell is auto-detected when empty.
func (i *Installer) Install(shell string, shortcut domain.Shortcut, force bool) (domain.ShellInstallResult, error) {
	name := i.normalizeShell(shell)
	scriptPath, rcFile := i.scriptPaths(name)
	if scriptPath == "" {
		return domain.ShellInstallResult{}, domain.NewValidationError("install", fmt.Sprintf("unsupported shell: %s (zsh and bash are supported)", name))
	}

	script, err := i.Render(name, shortcut)
	if err != nil {
		return domain.ShellInstallResult{}, err
	}
	if err := filesystem.EnsureParentDir(scriptPath); err != nil {
		return domain.ShellInstallResult{}, err
	}
	if err := os.WriteFile(scriptPath, []byte(script), 0o644); err != nil {
		return domain.ShellInstallResult{}, err
	}

	rcUpdated, err := ensureRCLine(rcFile, i.sourceLine(scriptPath), force)
	if err != nil {
		return domain.ShellInstallResult{}, err
	}
	i.logger.Info("shell integration installed", map[string]interface{}{
		"shell":    string(name),
		"shortcut": shortcut.String(),
		"rc":       rcFile,
	})

	return domain.ShellInstallResult{
		Shell:         name,
		ScriptPath:    scriptPath,
		RCFile:        rcFile,
		ScriptUpdated: true,
		RCUpdated:     rcUpdated,
	}, nil
}

// Uninstall removes sourcing line from rc file (script retained as backup).
func (i *Installer) Uninstall(shell string) (domain.ShellInstallResult, error) {
	name := i.normalizeShell(shell)
	scriptPath, rcFile := i.scriptPaths(name)
	if scriptPath == "" {
		return domain.ShellInstallResult{}, domain.NewValidationError("uninstall", fmt.Sprintf("unsupported shell: %s", name))
	}
	updated, err := removeRCLine(rcFile, i.sourceLine(scriptPath))
	if err != nil {
		return domain.ShellInstallResult{}, err
	}
	return domain.ShellInstallResult{
		Shell:      name,
		ScriptPath: scriptPath,
		RCFile:     rcFile,
		RCUpdated:  updated,
	}, nil
}

// Status reports current integration state.
func (i *Installer) Status(shell string) domain.ShellStatus {
	name := i.normalizeShell(shell)
	scriptPath, rcFile := i.scriptPaths(name)
	status := domain.ShellStatus{
		Shell:      name,
		ScriptPath: scriptPath,
		RCFile:     rcFile,
	}
	if scriptPath == "" {
		status.Error = fmt.Sprintf("unsupported shell: %s", name)
		return status
	}

	if info, err := os.Stat(scriptPath); err == nil && info.Mode().IsRegular() {
		status.ScriptExists = true
	}
	if contents, err := os.ReadFile(rcFile); err == nil {
		status.LinePresent = strings.Contains(string(contents), i.sourceLine(scriptPath))
	}
	return status
}

// DetectShell inspects the SHELL env var.
func (i *Installer) DetectShell() string {
	return i.getenv("SHELL")
}

// Render returns the widget script for shell bound to shortcut.
func (i *Installer) Render(shell domain.ShellName, shortcut domain.Shortcut) (string, error) {
	tmpl, ok := widgetTemplates[shell]
	if !ok {
		return "", domain.NewValidationError("render widget", fmt.Sprintf("unsupported shell: %s", shell))
	}
	key, err := KeySequence(shell, shortcut)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, struct {
		Binary   string
		Shortcut string
		Key      string
	}{
		Binary:   i.binary,
		Shortcut: shortcut.String(),
		Key:      key,
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// KeySequence converts a shortcut into the key notation of the shell's line
// editor. Ctrl maps to ^X (zsh) or \C-x (bash) and Alt/Option to \ex.
// Shift is folded into the key because terminals cannot tell Ctrl+Shift+A
// from Ctrl+A. Cmd never reaches the terminal and is rejected.
func KeySequence(shell domain.ShellName, sc domain.Shortcut) (string, error) {
	if sc.Has("Cmd") {
		return "", domain.NewValidationError("bind shortcut", "Cmd shortcuts are handled by the terminal app and cannot be bound in a shell")
	}
	if len([]rune(sc.Key)) != 1 {
		return "", domain.NewValidationError("bind shortcut", fmt.Sprintf("shortcut key must be a single character, got %q", sc.Key))
	}
	ctrl, alt := sc.Has("Ctrl"), sc.Has("Alt")
	if !ctrl && !alt {
		return "", domain.NewValidationError("bind shortcut", "shortcut needs Ctrl or Alt to be bound in a shell")
	}

	key := strings.ToLower(sc.Key)
	if ctrl && (key < "a" || key > "z") {
		return "", domain.NewValidationError("bind shortcut", fmt.Sprintf("Ctrl can only be combined with a letter, got %q", sc.Key))
	}
	if !ctrl && sc.Has("Shift") {
		key = strings.ToUpper(key)
	}

	var seq string
	if alt {
		seq = `\e`
	}
	switch {
	case ctrl && shell == domain.ShellZsh:
		seq += "^" + strings.ToUpper(key)
	case ctrl:
		seq += `\C-` + key
	default:
		seq += key
	}
	return seq, nil
}

func (i *Installer) normalizeShell(shell string) domain.ShellName {
	if shell == "" {
		shell = i.getenv("SHELL")
	}
	return domain.NormalizeShell(shell)
}

func (i *Installer) scriptPaths(shell domain.ShellName) (string, string) {
	switch shell {
	case domain.ShellZsh:
		return filepath.Join(i.home, domain.AppDirName, "shell", "zsh.sh"), filepath.Join(i.home, ".zshrc")
	case domain.ShellBash:
		return filepath.Join(i.home, domain.AppDirName, "shell", "bash.sh"), filepath.Join(i.home, ".bashrc")
	default:
		return "", ""
	}
}

func (i *Installer) sourceLine(scriptPath string) string {
	friendly := i.friendlyPath(scriptPath)
	return fmt.Sprintf("[ -f %s ] && source %s", friendly, friendly)
}

func (i *Installer) friendlyPath(path string) string {
	if strings.HasPrefix(path, i.home) {
		rel := strings.TrimPrefix(path, i.home)
		rel = strings.TrimPrefix(rel, string(os.PathSeparator))
		return filepath.Join("$HOME", rel)
	}
	return path
}

func ensureRCLine(path string, line string, force bool) (bool, error) {
	contents, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return false, err
	}
	if errors.Is(err, os.ErrNotExist) {
		return true, os.WriteFile(path, []byte(headerComment()+line+"\n"), 0o644)
	}
	if strings.Contains(string(contents), line) && !force {
		return false, nil
	}

	var kept []string
	for _, existing := range strings.Split(string(contents), "\n") {
		if !strings.Contains(existing, line) {
			kept = append(kept, existing)
		}
	}
	final := strings.TrimRight(strings.Join(kept, "\n"), "\n") + "\n" + line + "\n"
	return true, os.WriteFile(path, []byte(final), 0o644)
}

func removeRCLine(path string, line string) (bool, error) {
	contents, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	var kept []string
	removed := false
	for _, existing := range strings.Split(string(contents), "\n") {
		if strings.Contains(existing, line) {
			removed = true
			continue
		}
		kept = append(kept, existing)
	}
	if !removed {
		return false, nil
	}
	final := strings.TrimRight(strings.Join(kept, "\n"), "\n") + "\n"
	return true, os.WriteFile(path, []byte(final), 0o644)
}

func headerComment() string {
	return "# Added by aicmd installer\n"
}

var _ ports.ShellIntegrator = (*Installer)(nil)
