package security

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/aicmd/assets"
	"github.com/doeshing/aicmd/internal/domain"
	"github.com/doeshing/aicmd/internal/pkg/filesystem"
)

// RulesFile is the YAML schema of the user rules file.
//
//	rules:
//	  - pattern: 'terraform\s+destroy'
//	    level: dangerous
//	    reason: Destroys managed infrastructure
//	remove:
//	  - '\bsudo\s+'
type RulesFile struct {
	Rules  []domain.RiskRule `yaml:"rules"`
	Remove []string          `yaml:"remove"`
}

// LoadRulesFile reads a rules file. A missing file yields an empty RulesFile.
func LoadRulesFile(path string) (RulesFile, error) {
	var rf RulesFile
	if path == "" {
		return rf, nil
	}
	data, err := os.ReadFile(filesystem.ExpandHome(path))
	if errors.Is(err, fs.ErrNotExist) {
		return rf, nil
	}
	if err != nil {
		return rf, domain.NewConfigError("load rules", fmt.Sprintf("cannot read rules file %s", path), err)
	}
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return RulesFile{}, domain.NewConfigError("load rules", fmt.Sprintf("malformed rules file %s", path), err)
	}
	return rf, nil
}

// SaveRulesFile writes rf to path with owner-only permissions.
func SaveRulesFile(path string, rf RulesFile) error {
	raw, err := yaml.Marshal(rf)
	if err != nil {
		return domain.NewConfigError("save rules", "cannot encode rules", err)
	}
	return writeRules(path, raw)
}

// InitRulesFile writes the commented starter rules file unless one exists.
// It reports whether a file was created.
func InitRulesFile(path string) (bool, error) {
	if path == "" {
		return false, domain.NewValidationError("init rules", "security.rules_file is not set")
	}
	if _, err := os.Stat(filesystem.ExpandHome(path)); err == nil {
		return false, nil
	}
	if err := writeRules(path, assets.DefaultRulesYAML); err != nil {
		return false, err
	}
	return true, nil
}

// Add appends a custom rule once it passes checkRule.
func (rf *RulesFile) Add(rule domain.RiskRule) error {
	if err := checkRule(rule); err != nil {
		return err
	}
	rf.Rules = append(rf.Rules, rule)
	return nil
}

// Drop deletes custom rules with pattern. When no custom rule matches and
// pattern is a built-in, it is listed under remove instead. Drop reports
// whether rf changed.
func (rf *RulesFile) Drop(pattern string) bool {
	kept := rf.Rules[:0]
	for _, rule := range rf.Rules {
		if rule.Pattern != pattern {
			kept = append(kept, rule)
		}
	}
	if len(kept) != len(rf.Rules) {
		rf.Rules = kept
		return true
	}

	for _, removed := range rf.Remove {
		if removed == pattern {
			return false
		}
	}
	for _, rule := range builtinRules() {
		if rule.Pattern == pattern {
			rf.Remove = append(rf.Remove, pattern)
			return true
		}
	}
	return false
}

// Validate checks every custom rule without touching a classifier.
func (rf RulesFile) Validate() error {
	for _, rule := range rf.Rules {
		if err := checkRule(rule); err != nil {
			return err
		}
	}
	return nil
}

// Apply removes the listed built-in patterns, then appends the custom rules.
// The file is validated first; an invalid file leaves c unchanged.
func (rf RulesFile) Apply(c *Classifier) error {
	if err := rf.Validate(); err != nil {
		return err
	}
	for _, pattern := range rf.Remove {
		c.RemovePattern(pattern)
	}
	for _, rule := range rf.Rules {
		if err := c.AddPattern(rule.Pattern, rule.Level, rule.Reason); err != nil {
			return err
		}
	}
	return nil
}

// NewClassifierFromFile builds the built-in classifier and applies the rules
// file at path on top of it. On error the classifier holds only the built-in
// rules.
func NewClassifierFromFile(path string) (*Classifier, error) {
	c := NewClassifier()
	rf, err := LoadRulesFile(path)
	if err != nil {
		return c, err
	}
	if err := rf.Apply(c); err != nil {
		return c, err
	}
	return c, nil
}

// checkRule rejects patterns that do not compile and levels below warning.
// A rule without a level decodes as safe and is rejected too.
func checkRule(rule domain.RiskRule) error {
	if _, err := regexp.Compile("(?i)" + rule.Pattern); err != nil {
		return domain.NewConfigError("check rule", fmt.Sprintf("invalid risk pattern %q", rule.Pattern), err)
	}
	if rule.Level < domain.RiskWarning {
		return domain.NewConfigError("check rule",
			fmt.Sprintf("rule %q needs level warning or dangerous, got %s", rule.Pattern, rule.Level), nil)
	}
	return nil
}

func writeRules(path string, data []byte) error {
	path = filesystem.ExpandHome(path)
	if err := filesystem.EnsureParentDir(path); err != nil {
		return domain.NewConfigError("save rules", "cannot create rules directory", err)
	}
	if err := os.WriteFile(path, data, domain.SecureFilePermissions); err != nil {
		return domain.NewConfigError("save rules", fmt.Sprintf("cannot write %s", path), err)
	}
	return nil
}
