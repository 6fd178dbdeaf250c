package ai

import "strings"

func valueOrDefault(value string, def string) string {
	if value == "" {
		return def
	}
	return value
}

// cleanCommand turns a model reply into a single command line: code fences
// and surrounding backticks are dropped and only the first line is kept.
func cleanCommand(reply string) string {
	command := strings.TrimSpace(reply)
	if strings.HasPrefix(command, "```") {
		lines := strings.Split(command, "\n")
		if len(lines) > 2 {
			lines = lines[1 : len(lines)-1]
		}
		command = strings.Join(lines, "\n")
	}

	command = strings.TrimSpace(strings.Trim(command, "`"))
	if idx := strings.Index(command, "\n"); idx >= 0 {
		command = strings.TrimSpace(command[:idx])
	}
	return command
}
