package app

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"sync"

	appconfig "github.com/doeshing/aicmd/internal/application/config"
	"github.com/doeshing/aicmd/internal/application/doctor"
	"github.com/doeshing/aicmd/internal/application/generate"
	"github.com/doeshing/aicmd/internal/domain"
	"github.com/doeshing/aicmd/internal/infrastructure/ai"
	"github.com/doeshing/aicmd/internal/infrastructure/config"
	contextcollector "github.com/doeshing/aicmd/internal/infrastructure/context"
	"github.com/doeshing/aicmd/internal/infrastructure/history"
	"github.com/doeshing/aicmd/internal/infrastructure/secrets"
	"github.com/doeshing/aicmd/internal/infrastructure/security"
	"github.com/doeshing/aicmd/internal/infrastructure/shell"
	"github.com/doeshing/aicmd/internal/pkg/filesystem"
	"github.com/doeshing/aicmd/internal/pkg/logger"
	"github.com/doeshing/aicmd/internal/ports"
)

// Options controls how the container is built.
type Options struct {
	Verbose    bool
	ConfigPath string
}

// Container wires up application services with infrastructure adapters.
type Container struct {
	Config           domain.Config
	ConfigLoader     *config.FileLoader
	Logger           *logger.ZapLogger
	Classifier       *security.Classifier
	HistoryStore     *history.Store
	HistoryPersister ports.HistoryPersister
	SecretStore      ports.SecretStore
	ShellIntegrator  ports.ShellIntegrator
	GenerateService  *generate.Service
	DoctorService    *doctor.Service

	closers []func() error
}

// BuildContainer constructs the dependency graph. The Gemini client is only
// created on the first generate or explain call, so commands that never talk
// to the provider work without an API key.
func BuildContainer(ctx context.Context, opts Options) (*Container, error) {
	cfgLoader := config.NewFileLoader(opts.ConfigPath)
	cfg, err := cfgLoader.Load(ctx)
	if err != nil {
		return nil, err
	}

	log, err := logger.New(logger.Options{Verbose: opts.Verbose, File: filesystem.ExpandHome(cfg.Log.File)})
	if err != nil {
		log = logger.NewNop()
	}
	c := &Container{
		Config:       cfg,
		ConfigLoader: cfgLoader,
		Logger:       log,
		closers:      []func() error{log.Sync},
	}

	if err := appconfig.Validate(cfg); err != nil {
		log.Warn("configuration has problems", map[string]interface{}{"error": err.Error()})
	}

	classifier, err := security.NewClassifierFromFile(cfg.Security.RulesFile)
	if err != nil {
		log.Warn("custom risk rules ignored", map[string]interface{}{"error": err.Error()})
	}
	c.Classifier = classifier

	persister, err := newHistoryPersister(cfg)
	if err != nil {
		log.Warn("history backend unavailable, falling back to json", map[string]interface{}{"error": err.Error()})
		persister = history.NewJSONFilePersister("")
	}
	if closer, ok := persister.(interface{ Close() error }); ok {
		c.closers = append(c.closers, closer.Close)
	}
	c.HistoryPersister = persister
	c.HistoryStore = history.NewStore(persister, cfg.GetMaxHistory(), log)

	c.SecretStore = secrets.EnvFallback{
		Store:  secrets.NewKeyringStore(),
		EnvVar: cfg.GetAPIKeyEnv(),
		Getenv: os.Getenv,
	}
	c.ShellIntegrator = shell.NewInstaller(widgetBinary(), log)

	c.GenerateService = &generate.Service{
		Generator:      &lazyGenerator{build: c.buildGenerator},
		Classifier:     classifier,
		History:        c.HistoryStore,
		Collector:      contextcollector.NewBasicCollector(),
		Logger:         log,
		MaxInputLength: cfg.GetMaxInputLength(),
	}
	c.DoctorService = &doctor.Service{
		ConfigProvider:  cfgLoader,
		SecretStore:     c.SecretStore,
		History:         persister,
		ShellIntegrator: c.ShellIntegrator,
		LoadRules:       countRules,
	}
	return c, nil
}

// Close flushes the logger and releases the history backend.
func (c *Container) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (c *Container) buildGenerator(ctx context.Context) (ports.CommandGenerator, error) {
	key, found, err := c.SecretStore.Get(c.Config.GetSecretService(), c.Config.GetSecretAccount())
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, domain.NewSecretStoreError("load api key",
			"Gemini API key not found in the keychain or $"+c.Config.GetAPIKeyEnv()+", run `aicmd key set`", nil)
	}
	return ai.NewGeminiGenerator(ctx, ai.GeminiOptions{
		APIKey:  key,
		Model:   c.Config.GetModelName(),
		Timeout: c.Config.GetModelTimeout(),
		Logger:  c.Logger,
	})
}

func newHistoryPersister(cfg domain.Config) (ports.HistoryPersister, error) {
	switch cfg.GetHistoryBackend() {
	case domain.HistoryBackendSQLite:
		return history.NewSQLitePersister(cfg.History.Path)
	default:
		return history.NewJSONFilePersister(cfg.History.Path), nil
	}
}

func countRules(path string) (int, error) {
	classifier, err := security.NewClassifierFromFile(path)
	if err != nil {
		return 0, err
	}
	return len(classifier.Patterns()), nil
}

// widgetBinary is the command the shell widget invokes: the bare name when
// aicmd is on PATH, the absolute executable path otherwise.
func widgetBinary() string {
	if _, err := exec.LookPath("aicmd"); err == nil {
		return "aicmd"
	}
	if exe, err := os.Executable(); err == nil {
		return exe
	}
	return "aicmd"
}

// lazyGenerator defers building the provider client until first use.
type lazyGenerator struct {
	build func(context.Context) (ports.CommandGenerator, error)

	mu  sync.Mutex
	gen ports.CommandGenerator
}

func (l *lazyGenerator) get(ctx context.Context) (ports.CommandGenerator, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.gen != nil {
		return l.gen, nil
	}
	gen, err := l.build(ctx)
	if err != nil {
		return nil, err
	}
	l.gen = gen
	return gen, nil
}

// Generate implements ports.CommandGenerator.
func (l *lazyGenerator) Generate(ctx context.Context, req domain.PromptRequest) (string, error) {
	gen, err := l.get(ctx)
	if err != nil {
		return "", err
	}
	return gen.Generate(ctx, req)
}

// Explain implements ports.CommandGenerator.
func (l *lazyGenerator) Explain(ctx context.Context, command string) (string, error) {
	gen, err := l.get(ctx)
	if err != nil {
		return "", err
	}
	return gen.Explain(ctx, command)
}
