package contextcollector

import (
	"context"
	"os"

	"github.com/doeshing/aicmd/internal/domain"
	"github.com/doeshing/aicmd/internal/ports"
)

// BasicCollector fills in the working directory and shell dialect of a
// request from the process environment.
type BasicCollector struct {
	getwd  func() (string, error)
	getenv func(string) string
}

func NewBasicCollector() *BasicCollector {
	return &BasicCollector{getwd: os.Getwd, getenv: os.Getenv}
}

// Collect keeps any value the caller already set. An unknown $SHELL falls
// back to bash.
func (c *BasicCollector) Collect(_ context.Context, req domain.PromptRequest) (domain.PromptRequest, error) {
	if req.WorkingDir == "" {
		if wd, err := c.getwd(); err == nil {
			req.WorkingDir = wd
		} else if pwd := c.getenv("PWD"); pwd != "" {
			req.WorkingDir = pwd
		} else {
			req.WorkingDir = "~"
		}
	}
	if req.Shell == "" || req.Shell == domain.ShellUnknown {
		req.Shell = c.DetectShell()
	}
	return req, nil
}

// DetectShell reads $SHELL.
func (c *BasicCollector) DetectShell() domain.ShellName {
	if shell := domain.NormalizeShell(c.getenv("SHELL")); shell != domain.ShellUnknown {
		return shell
	}
	return domain.ShellBash
}

var _ ports.ContextCollector = (*BasicCollector)(nil)
