package helpers

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/doeshing/aicmd/internal/domain"
)

// Renderer prints results with lipgloss styles. Colors are dropped
// automatically when out is not a terminal.
type Renderer struct {
	out    io.Writer
	styles rendererStyles
}

type rendererStyles struct {
	safe      lipgloss.Style
	warning   lipgloss.Style
	dangerous lipgloss.Style
	command   lipgloss.Style
	muted     lipgloss.Style
	label     lipgloss.Style
}

// NewRenderer builds a renderer bound to out.
func NewRenderer(out io.Writer) *Renderer {
	r := lipgloss.NewRenderer(out)
	return &Renderer{
		out: out,
		styles: rendererStyles{
			safe:      r.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
			warning:   r.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
			dangerous: r.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
			command:   r.NewStyle().Foreground(lipgloss.Color("86")).PaddingLeft(2),
			muted:     r.NewStyle().Foreground(lipgloss.Color("245")),
			label:     r.NewStyle().Bold(true),
		},
	}
}

// RiskBadge returns the upper-case level name in its color.
func (r *Renderer) RiskBadge(level domain.RiskLevel) string {
	name := strings.ToUpper(level.String())
	switch level {
	case domain.RiskDangerous:
		return r.styles.dangerous.Render(name)
	case domain.RiskWarning:
		return r.styles.warning.Render(name)
	default:
		return r.styles.safe.Render(name)
	}
}

// RiskSummary prints the level, the command and every matched reason.
func (r *Renderer) RiskSummary(level domain.RiskLevel, command string, reasons []string) {
	fmt.Fprintf(r.out, "\n%s risk detected\n", r.RiskBadge(level))
	for _, reason := range reasons {
		fmt.Fprintf(r.out, " - %s\n", reason)
	}
	fmt.Fprintf(r.out, "Command:\n%s\n", r.styles.command.Render(command))
}

// Generated prints a generated command with its classification.
func (r *Renderer) Generated(result domain.GeneratedCommand) {
	fmt.Fprintln(r.out, r.styles.label.Render("Generated command:"))
	fmt.Fprintln(r.out, r.styles.command.Render(result.Command))
	fmt.Fprintf(r.out, "Risk: %s\n", r.RiskBadge(result.Risk.Level))
	for _, reason := range result.Risk.Reasons {
		fmt.Fprintf(r.out, " - %s\n", reason)
	}
	if result.Explanation != "" {
		fmt.Fprintf(r.out, "\n%s\n%s\n", r.styles.label.Render("Explanation:"), result.Explanation)
	}
}

// Notice prints a dimmed status line.
func (r *Renderer) Notice(format string, args ...interface{}) {
	fmt.Fprintln(r.out, r.styles.muted.Render(fmt.Sprintf(format, args...)))
}

// History prints entries numbered from 1 in the given order.
func (r *Renderer) History(entries []domain.HistoryEntry) {
	for i, entry := range entries {
		alias := ""
		if entry.HasAlias() {
			alias = fmt.Sprintf(" [%s]", entry.Alias)
		}
		fmt.Fprintf(r.out, "%2d. %s%s\n", i+1, entry.Command, alias)
		fmt.Fprintln(r.out, r.styles.muted.Render(fmt.Sprintf("    %s | used %dx | %s | %s",
			entry.Prompt, entry.UseCount, entry.LastUsed.Local().Format(domain.TimestampFormat), entry.ID)))
	}
}

// Rules prints rules in evaluation order.
func (r *Renderer) Rules(rules []domain.RiskRule) {
	for _, rule := range rules {
		fmt.Fprintf(r.out, "%-9s %s\n", strings.ToUpper(rule.Level.String()), rule.Pattern)
		fmt.Fprintln(r.out, r.styles.muted.Render("          "+rule.Reason))
	}
}

// Doctor prints one line per health check.
func (r *Renderer) Doctor(report domain.HealthReport) {
	for _, check := range report.Checks {
		status := strings.ToUpper(string(check.Status))
		switch check.Status {
		case domain.HealthOK:
			status = r.styles.safe.Render(status)
		case domain.HealthWarn:
			status = r.styles.warning.Render(status)
		case domain.HealthError:
			status = r.styles.dangerous.Render(status)
		}
		fmt.Fprintf(r.out, "[%s] %s - %s\n", status, check.Name, check.Details)
	}
}
