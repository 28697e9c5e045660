package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/tubetext/tubetext/pkg/config"
)

// ErrMissingAPIKey marks a client constructed without credentials. Callers must
// treat this as a configuration fault, not a transient provider failure.
var ErrMissingAPIKey = errors.New("cerebras api key not configured")

const translatePrompt = "You are a professional translator. Translate the user's text " +
	"faithfully, preserving meaning, tone and any timestamps. Reply with the " +
	"translation only, no commentary."

const summarizePrompt = "You are a concise summarizer. Summarize the transcript the " +
	"user provides into a few short paragraphs covering the main points."

// CerebrasClient is a minimal client for Cerebras chat completion calls
type CerebrasClient struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

// NewCerebrasClient creates a Cerebras client using values from the provided
// config. An empty API key is allowed; calls will fail until one is configured.
func NewCerebrasClient(cfg *config.CerebrasConfig) *CerebrasClient {
	var apiKey string
	if cfg != nil {
		apiKey = cfg.APIKey
	}

	base := "https://api.cerebras.ai"
	if cfg != nil && cfg.BaseURL != "" {
		base = cfg.BaseURL
	}

	model := "gpt-oss-120b"
	if cfg != nil && cfg.Model != "" {
		model = cfg.Model
	}

	hc := &http.Client{}
	if cfg != nil && cfg.Timeout > 0 {
		hc.Timeout = cfg.Timeout
	}

	return &CerebrasClient{
		apiKey:  apiKey,
		baseURL: base,
		model:   model,
		client:  hc,
	}
}

// ChatMessage is a single chat-completion message
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the shape for chat completion requests
type ChatRequest struct {
	Model    string        `json:"model,omitempty"`
	Messages []ChatMessage `json:"messages,omitempty"`
}

// ChatResponse is a minimal response shape
type ChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Translate translates text into the target language.
func (c *CerebrasClient) Translate(ctx context.Context, text, language string) (string, error) {
	user := fmt.Sprintf("Translate the following to %s:\n\n%s", language, text)
	return c.chat(ctx, translatePrompt, user)
}

// Summarize produces a short summary of a transcript.
func (c *CerebrasClient) Summarize(ctx context.Context, transcription string) (string, error) {
	return c.chat(ctx, summarizePrompt, transcription)
}

func (c *CerebrasClient) chat(ctx context.Context, system, user string) (string, error) {
	if c.apiKey == "" {
		return "", ErrMissingAPIKey
	}

	reqBody := ChatRequest{
		Model: c.model,
		Messages: []ChatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	}

	b, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	endpoint := c.baseURL + "/v1/chat/completions"
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("cerebras returned status %d", resp.StatusCode)
	}

	var cr ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", err
	}
	if len(cr.Choices) == 0 {
		return "", fmt.Errorf("empty response from cerebras")
	}
	return cr.Choices[0].Message.Content, nil
}
