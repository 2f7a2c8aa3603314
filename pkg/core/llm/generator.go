package llm

import (
	"context"
	"fmt"
)

// Request describes one generation call. Prompts carry all subject context;
// the generator never drives control flow.
type Request struct {
	System      string
	Prompt      string
	Temperature float32
	JSONOutput  bool
}

// Generator is the contract for the external text-completion service used by
// case builders, the debate engine, and the arbiter. Implementations are
// opaque, slow, and fallible; every call must honor ctx deadlines.
type Generator interface {
	// GenerateText returns free-form prose for the request.
	GenerateText(ctx context.Context, req Request) (string, error)
	// GenerateObject requests schema-shaped output and decodes it into out.
	// Undecodable output is an error (wrapping textutil.ErrUnparseable),
	// never a silent best guess.
	GenerateObject(ctx context.Context, req Request, out interface{}) error
}

// Config selects and parameterizes a generator backend.
type Config struct {
	Backend string `yaml:"backend" default:"gemini" validate:"oneof=gemini genai deepseek"`
	Model   string `yaml:"model"`
	APIKey  string `yaml:"api_key"`
}

// New constructs the configured generator backend.
func New(cfg Config) (Generator, error) {
	switch cfg.Backend {
	case "gemini":
		return NewGeminiGenerator(cfg.APIKey, cfg.Model)
	case "genai":
		return NewGenAIGenerator(cfg.APIKey, cfg.Model), nil
	case "deepseek":
		return NewDeepSeekGenerator(cfg.APIKey, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unknown generator backend %q", cfg.Backend)
	}
}
