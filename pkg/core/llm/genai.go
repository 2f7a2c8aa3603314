package llm

import (
	"context"
	"fmt"
	"os"

	"google.golang.org/genai"

	"agentic_research/pkg/core/textutil"
)

const defaultGenAIModel = "gemini-2.0-flash-exp"

// GenAIGenerator implements Generator on the newer unified GenAI SDK. The
// client is created per call so each request rides the caller's context.
type GenAIGenerator struct {
	apiKey string
	model  string
}

var _ Generator = (*GenAIGenerator)(nil)

// NewGenAIGenerator creates a generator backed by the unified GenAI SDK.
func NewGenAIGenerator(apiKey, model string) *GenAIGenerator {
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if model == "" {
		model = defaultGenAIModel
	}
	return &GenAIGenerator{apiKey: apiKey, model: model}
}

func (g *GenAIGenerator) GenerateText(ctx context.Context, req Request) (string, error) {
	if g.apiKey == "" {
		return "", fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  g.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create GenAI client: %w", err)
	}

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(req.Temperature),
	}
	if req.JSONOutput {
		config.ResponseMIMEType = "application/json"
	}
	if req.System != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: req.System}},
		}
	}

	result, err := client.Models.GenerateContent(ctx, g.model, genai.Text(req.Prompt), config)
	if err != nil {
		return "", fmt.Errorf("genai generation failed: %w", err)
	}
	return result.Text(), nil
}

func (g *GenAIGenerator) GenerateObject(ctx context.Context, req Request, out interface{}) error {
	req.JSONOutput = true
	text, err := g.GenerateText(ctx, req)
	if err != nil {
		return err
	}
	if err := textutil.SmartParse(text, out); err != nil {
		return fmt.Errorf("genai structured output: %w", err)
	}
	return nil
}
