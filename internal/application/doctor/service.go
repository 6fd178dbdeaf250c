package doctor

import (
	"context"
	"fmt"

	appconfig "github.com/doeshing/aicmd/internal/application/config"
	"github.com/doeshing/aicmd/internal/domain"
	"github.com/doeshing/aicmd/internal/ports"
)

// Service runs environment diagnostics.
type Service struct {
	ConfigProvider  ports.ConfigProvider
	SecretStore     ports.SecretStore
	History         ports.HistoryPersister
	ShellIntegrator ports.ShellIntegrator
	// LoadRules builds the classifier from the custom rules file and
	// returns the number of active rules.
	LoadRules func(path string) (int, error)
}

// Run executes checks and returns a report.
func (s *Service) Run(ctx context.Context) (domain.HealthReport, error) {
	var checks []domain.HealthCheck

	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		checks = append(checks, fail("Config file", fmt.Sprintf("load failed: %v", err)))
		return domain.HealthReport{Checks: checks}, err
	}
	if err := appconfig.Validate(cfg); err != nil {
		checks = append(checks, fail("Config file", err.Error()))
	} else {
		checks = append(checks, ok("Config file", fmt.Sprintf("format %s, model %s", cfg.ConfigFormatVersion, cfg.Model.Name)))
	}

	checks = append(checks, s.apiKeyCheck(cfg))

	if s.History != nil {
		if entries, err := s.History.Load(); err != nil {
			checks = append(checks, warn("History", fmt.Sprintf("%v (history will start empty)", err)))
		} else {
			checks = append(checks, ok("History", fmt.Sprintf("%s backend, %d entries", cfg.History.Backend, len(entries))))
		}
	}

	if s.LoadRules != nil {
		if n, err := s.LoadRules(cfg.Security.RulesFile); err != nil {
			checks = append(checks, fail("Risk rules", err.Error()))
		} else {
			checks = append(checks, ok("Risk rules", fmt.Sprintf("%d rules active", n)))
		}
	}

	if s.ShellIntegrator != nil {
		status := s.ShellIntegrator.Status("")
		if status.ScriptExists && status.LinePresent {
			checks = append(checks, ok("Shell integration", fmt.Sprintf("%s ready", status.Shell)))
		} else if status.Error != "" {
			checks = append(checks, warn("Shell integration", status.Error))
		} else {
			checks = append(checks, warn("Shell integration", "not installed, run `aicmd install`"))
		}
	}

	return domain.HealthReport{Checks: checks}, nil
}

func (s *Service) apiKeyCheck(cfg domain.Config) domain.HealthCheck {
	if s.SecretStore == nil {
		return warn("API key", "secret store not initialized")
	}
	_, found, err := s.SecretStore.Get(cfg.GetSecretService(), cfg.GetSecretAccount())
	switch {
	case err != nil:
		return fail("API key", err.Error())
	case !found:
		return fail("API key", fmt.Sprintf("not found in keychain or $%s, run `aicmd key set`", cfg.GetAPIKeyEnv()))
	default:
		return ok("API key", "configured")
	}
}

func ok(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthOK, Details: details}
}

func warn(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthWarn, Details: details}
}

func fail(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthError, Details: details}
}
