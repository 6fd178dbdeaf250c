package security

import (
	"fmt"
	"regexp"
	"sync"

	"github.com/doeshing/aicmd/internal/domain"
	"github.com/doeshing/aicmd/internal/ports"
)

// Classifier implements the RiskClassifier port with an ordered list of
// case-insensitive regular expressions.
type Classifier struct {
	mu    sync.RWMutex
	rules []compiledRule
}

type compiledRule struct {
	re   *regexp.Regexp
	rule domain.RiskRule
}

// NewClassifier builds a classifier loaded with the built-in rules.
func NewClassifier() *Classifier {
	c := &Classifier{}
	for _, rule := range builtinRules() {
		c.rules = append(c.rules, compiledRule{re: regexp.MustCompile("(?i)" + rule.Pattern), rule: rule})
	}
	return c
}

// Analyze evaluates every rule against command. The level is the most
// severe matching rule; reasons keep rule order.
func (c *Classifier) Analyze(command string) domain.RiskResult {
	result := domain.RiskResult{Level: domain.RiskSafe}
	if c == nil {
		return result
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, r := range c.rules {
		if !r.re.MatchString(command) {
			continue
		}
		result.Reasons = append(result.Reasons, r.rule.Reason)
		result.Level = result.Level.Max(r.rule.Level)
	}
	return result
}

// AddPattern appends a rule at the end of the evaluation order.
func (c *Classifier) AddPattern(pattern string, level domain.RiskLevel, reason string) error {
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return domain.NewConfigError("add pattern", fmt.Sprintf("invalid risk pattern %q", pattern), err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.rules = append(c.rules, compiledRule{
		re:   re,
		rule: domain.RiskRule{Pattern: pattern, Level: level, Reason: reason},
	})
	return nil
}

// RemovePattern drops every rule registered with exactly this pattern string.
func (c *Classifier) RemovePattern(pattern string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.rules[:0:0]
	for _, r := range c.rules {
		if r.rule.Pattern != pattern {
			kept = append(kept, r)
		}
	}
	removed := len(kept) < len(c.rules)
	c.rules = kept
	return removed
}

// Patterns returns a copy of the registered rules in evaluation order.
func (c *Classifier) Patterns() []domain.RiskRule {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]domain.RiskRule, 0, len(c.rules))
	for _, r := range c.rules {
		out = append(out, r.rule)
	}
	return out
}

// rmRecursiveFlags matches rm followed by at least one option group. The
// path rules below match any target starting at / or the home directory.
const rmRecursiveFlags = `rm\s+(-[a-z]*[rf][a-z]*\s+|--[a-z-]+\s+)+`

func builtinRules() []domain.RiskRule {
	dangerous := []struct{ pattern, reason string }{
		{rmRecursiveFlags + `/`, "Deleting the root directory"},
		{rmRecursiveFlags + `(~|\$\{?HOME\}?)`, "Deleting the home directory"},
		{`rm\s+.*--no-preserve-root`, "Deleting the root directory"},
		{`mkfs\.`, "Formatting a filesystem"},
		{`>\s*/dev/sd[a-z]`, "Overwriting a disk device"},
		{`>\s*/dev/nvme`, "Overwriting an NVMe device"},
		{`:\(\)\s*\{\s*:\s*\|\s*:\s*&\s*\}\s*;\s*:`, "Fork bomb"},
		{`echo\s+.*>\s*/dev/sd[a-z]`, "Writing data directly to a disk"},
	}
	warning := []struct{ pattern, reason string }{
		{`chmod\s+(-[a-z]+\s+)*0?777`, "World-writable permissions (777)"},
		{`chmod\s+-[a-z]*R`, "Recursive permission change"},
		{`chown\s+-[a-z]*R`, "Recursive ownership change"},
		{`\bdd\s+if=`, "Raw disk image write"},
		{`\bsudo\s+`, "Runs with administrator privileges"},
		{`\b(curl|wget)\s+.*\|\s*(sudo\s+)?(ba|z)?sh\b`, "Runs a downloaded script"},
		{`>\s*/etc/`, "Overwrites a file under /etc"},
		{`\brm\s+-[a-z]*[rf]`, "Forced or recursive delete"},
		{`\bp?kill\s+-(9|kill)\b`, "Force-kills processes"},
		{`\bshutdown\b`, "Shuts down the system"},
		{`\breboot\b`, "Reboots the system"},
		{`\binit\s+[06]\b`, "Changes the system runlevel"},
		{`systemctl\s+(stop|disable|mask)`, "Stops or disables a service"},
		{`launchctl\s+(unload|bootout)`, "Unloads a service"},
		{`>\s*/dev/null\s+2>&1\s*&`, "Hides output in the background"},
		{`\bhistory\s+-c`, "Clears shell history"},
		{`\bshred\s+`, "Permanently destroys files"},
	}

	rules := make([]domain.RiskRule, 0, len(dangerous)+len(warning))
	for _, p := range dangerous {
		rules = append(rules, domain.RiskRule{Pattern: p.pattern, Level: domain.RiskDangerous, Reason: p.reason})
	}
	for _, p := range warning {
		rules = append(rules, domain.RiskRule{Pattern: p.pattern, Level: domain.RiskWarning, Reason: p.reason})
	}
	return rules
}

var _ ports.RiskClassifier = (*Classifier)(nil)
