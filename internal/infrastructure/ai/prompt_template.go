package ai

import (
	"bytes"
	"runtime"
	"strings"
	"text/template"

	"github.com/doeshing/aicmd/internal/domain"
)

const generationTemplate = `You are a shell command expert. Generate a single shell command based on the user's request.

Context:
- Operating System: {{.OS}}
- Shell: {{.Shell}}
- Current Directory: {{.WorkingDir}}

User Request: {{.Request}}

Rules:
1. Return ONLY the shell command, nothing else
2. No explanations, no markdown, no code blocks
3. Command must be valid for {{.OS}} {{.Shell}}
4. If the request is unclear, generate the most likely intended command
5. Prefer common, well-known commands over obscure ones

Command:`

const explanationTemplate = `Explain this shell command in detail:

Command: {{.Command}}

Provide:
1. Overall purpose of the command
2. Explanation of each flag/option
3. Expected output or behavior
4. Any warnings or considerations

Keep the explanation concise but informative. Use simple language.`

var (
	generationTmpl  = template.Must(template.New("generate").Parse(generationTemplate))
	explanationTmpl = template.Must(template.New("explain").Parse(explanationTemplate))
)

type templateData struct {
	OS         string
	Shell      string
	WorkingDir string
	Request    string
	Command    string
}

// buildGenerationPrompt renders the generation prompt for req.
func buildGenerationPrompt(req domain.PromptRequest) (string, error) {
	return executeTemplate(generationTmpl, templateData{
		OS:         osDisplayName(runtime.GOOS),
		Shell:      valueOrDefault(string(req.Shell), string(domain.ShellBash)),
		WorkingDir: valueOrDefault(req.WorkingDir, "~"),
		Request:    strings.TrimSpace(req.Input),
	})
}

// buildExplanationPrompt renders the explanation prompt for command.
func buildExplanationPrompt(command string) (string, error) {
	return executeTemplate(explanationTmpl, templateData{Command: command})
}

func executeTemplate(tmpl *template.Template, data templateData) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func osDisplayName(goos string) string {
	switch goos {
	case "darwin":
		return "macOS"
	case "linux":
		return "Linux"
	case "windows":
		return "Windows"
	default:
		return goos
	}
}
