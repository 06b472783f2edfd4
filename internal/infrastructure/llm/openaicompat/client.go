// Package openaicompat talks to any OpenAI-compatible chat completions
// endpoint (HuggingFace router, Groq, vLLM, Ollama's /v1). One client carries
// both the vision transcription model and the text model used for translation
// and field operations.
package openaicompat

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/kirillkom/handwriting-extraction/internal/infrastructure/resilience"
)

type Client struct {
	baseURL     string
	apiKey      string
	visionModel string
	textModel   string
	httpClient  *http.Client
	executor    *resilience.Executor
}

type Options struct {
	RequestTimeout time.Duration
	Executor       *resilience.Executor
}

func New(baseURL, apiKey, visionModel, textModel string, options Options) *Client {
	timeout := options.RequestTimeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	executor := options.Executor
	if executor == nil {
		executor = resilience.NewExecutor(resilience.DefaultConfig())
	}
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		apiKey:      apiKey,
		visionModel: visionModel,
		textModel:   textModel,
		httpClient:  &http.Client{Timeout: timeout},
		executor:    executor,
	}
}

// Configured reports whether the provider credentials are present. Agents
// built on an unconfigured client report not-ready instead of failing calls
// with opaque auth errors.
func (c *Client) Configured() bool {
	return c.baseURL != "" && c.apiKey != ""
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) VisionModel() string {
	return c.visionModel
}

func (c *Client) TextModel() string {
	return c.textModel
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

// chat issues one chat/completions call through the resilience executor and
// returns the first choice's content.
func (c *Client) chat(ctx context.Context, operation, model string, messages []chatMessage, jsonMode bool) (string, error) {
	payload := map[string]any{
		"model":       model,
		"messages":    messages,
		"temperature": 0.1,
	}
	if jsonMode {
		payload["response_format"] = map[string]any{"type": "json_object"}
	}

	var content string
	err := c.executor.Execute(ctx, operation, func(ctx context.Context) error {
		var response struct {
			Choices []struct {
				Message struct {
					Content string `json:"content"`
				} `json:"message"`
			} `json:"choices"`
		}
		if err := c.postJSON(ctx, "/chat/completions", payload, &response, operation); err != nil {
			return err
		}
		if len(response.Choices) == 0 {
			return fmt.Errorf("no choices in %s response", operation)
		}
		content = strings.TrimSpace(response.Choices[0].Message.Content)
		return nil
	}, classifyProviderError)
	if err != nil {
		return "", wrapTemporaryIfNeeded(operation, err)
	}
	return content, nil
}
