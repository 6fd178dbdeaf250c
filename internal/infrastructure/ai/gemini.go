package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/doeshing/aicmd/internal/domain"
	"github.com/doeshing/aicmd/internal/ports"
)

// generateFunc sends one prompt and returns the raw text reply.
type generateFunc func(ctx context.Context, model, prompt string) (string, error)

// GeminiGenerator implements ports.CommandGenerator on the Gemini API.
type GeminiGenerator struct {
	model    string
	timeout  time.Duration
	generate generateFunc
	logger   ports.Logger
}

// GeminiOptions configures a GeminiGenerator.
type GeminiOptions struct {
	APIKey  string
	Model   string
	Timeout time.Duration
	Logger  ports.Logger
}

// NewGeminiGenerator creates a Gemini API client.
func NewGeminiGenerator(ctx context.Context, opts GeminiOptions) (*GeminiGenerator, error) {
	if opts.APIKey == "" {
		return nil, domain.NewSecretStoreError("create generator", "Gemini API key is not set, run `aicmd key set`", nil)
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, domain.NewAPIError("create generator", "failed to create Gemini client", err)
	}

	return newGenerator(opts, func(ctx context.Context, model, prompt string) (string, error) {
		resp, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
		if err != nil {
			return "", err
		}
		return resp.Text(), nil
	}), nil
}

func newGenerator(opts GeminiOptions, fn generateFunc) *GeminiGenerator {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = domain.DefaultModelTimeout
	}
	return &GeminiGenerator{
		model:    valueOrDefault(opts.Model, domain.DefaultModelName),
		timeout:  timeout,
		generate: fn,
		logger:   opts.Logger,
	}
}

// Generate implements ports.CommandGenerator.
func (g *GeminiGenerator) Generate(ctx context.Context, req domain.PromptRequest) (string, error) {
	prompt, err := buildGenerationPrompt(req)
	if err != nil {
		return "", domain.NewAPIError("generate", "failed to build prompt", err)
	}

	reply, err := g.call(ctx, prompt)
	if err != nil {
		return "", mapError("generate", "Failed to generate command", err)
	}

	command := cleanCommand(reply)
	if command == "" {
		return "", domain.NewAPIError("generate", "Failed to generate command: empty response", nil)
	}
	g.debug("command generated", map[string]interface{}{"model": g.model, "shell": string(req.Shell)})
	return command, nil
}

// Explain implements ports.CommandGenerator.
func (g *GeminiGenerator) Explain(ctx context.Context, command string) (string, error) {
	prompt, err := buildExplanationPrompt(command)
	if err != nil {
		return "", domain.NewAPIError("explain", "failed to build prompt", err)
	}

	reply, err := g.call(ctx, prompt)
	if err != nil {
		return "", mapError("explain", "Failed to explain command", err)
	}
	return strings.TrimSpace(reply), nil
}

func (g *GeminiGenerator) call(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	reply, err := g.generate(ctx, g.model, prompt)
	g.debug("gemini call finished", map[string]interface{}{
		"model":    g.model,
		"duration": time.Since(start).String(),
		"failed":   err != nil,
	})
	return reply, err
}

func (g *GeminiGenerator) debug(msg string, fields map[string]interface{}) {
	if g.logger != nil {
		g.logger.Debug(msg, fields)
	}
}

// mapError classifies a provider failure. Structured throttling signals are
// checked first; otherwise the message heuristic decides.
func mapError(op, msg string, err error) error {
	if isThrottled(err) || domain.IsRateLimitMessage(err.Error()) {
		return domain.NewRateLimitError(op, "API rate limit exceeded", err)
	}
	return domain.NewAPIError(op, msg, err)
}

func isThrottled(err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusTooManyRequests || apiErr.Status == "RESOURCE_EXHAUSTED"
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiErrPtr.Code == http.StatusTooManyRequests || apiErrPtr.Status == "RESOURCE_EXHAUSTED"
	}
	return false
}

var _ ports.CommandGenerator = (*GeminiGenerator)(nil)

// String describes the generator for diagnostics.
func (g *GeminiGenerator) String() string {
	return fmt.Sprintf("gemini:%s", g.model)
}
