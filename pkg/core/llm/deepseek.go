package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"agentic_research/pkg/core/textutil"
)

const (
	deepseekEndpoint     = "https://api.deepseek.com/chat/completions"
	deepseekDefaultModel = "deepseek-chat"
)

// DeepSeekGenerator backs the Generator contract with the DeepSeek chat
// completion API.
type DeepSeekGenerator struct {
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewDeepSeekGenerator creates a DeepSeek-backed generator. An empty apiKey
// falls back to the DEEPSEEK_API_KEY environment variable.
func NewDeepSeekGenerator(apiKey, model string) *DeepSeekGenerator {
	if apiKey == "" {
		apiKey = os.Getenv("DEEPSEEK_API_KEY")
	}
	if model == "" {
		model = deepseekDefaultModel
	}
	return &DeepSeekGenerator{
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type deepseekRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
	Stream         bool            `json:"stream"`
}

type deepseekResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (g *DeepSeekGenerator) GenerateText(ctx context.Context, req Request) (string, error) {
	if g.apiKey == "" {
		return "", fmt.Errorf("deepseek API key not configured")
	}

	var messages []chatMessage
	if req.System != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.System})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.Prompt})

	body := deepseekRequest{
		Model:       g.model,
		Messages:    messages,
		Temperature: float64(req.Temperature),
		MaxTokens:   4096,
	}
	if req.JSONOutput {
		body.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal deepseek request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, deepseekEndpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("deepseek request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read deepseek response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("deepseek returned status %d: %s", resp.StatusCode, string(raw))
	}

	var parsed deepseekResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode deepseek response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("deepseek returned no choices: %s", string(raw))
	}
	return parsed.Choices[0].Message.Content, nil
}

func (g *DeepSeekGenerator) GenerateObject(ctx context.Context, req Request, out interface{}) error {
	req.JSONOutput = true
	text, err := g.GenerateText(ctx, req)
	if err != nil {
		return err
	}
	return textutil.SmartParse(text, out)
}
