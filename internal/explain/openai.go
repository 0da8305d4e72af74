package explain

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// ErrMissingAPIKey means the client could not be constructed because no API
// key was available. This is the only fatal condition in the system and is
// checked before any file I/O happens.
var ErrMissingAPIKey = errors.New("missing API key")

const systemPrompt = "You are an expert Python code explainer. Provide a detailed, " +
	"line-by-line explanation of the code snippet, breaking down its purpose, " +
	"functionality, and any important nuances."

const userPromptPrefix = "Please provide a comprehensive, line-by-line explanation of this code:\n\n"

// Options configures the chat-completions client. Zero values fall back to
// OpenAI defaults.
type Options struct {
	BaseURL        string
	Model          string
	APIKeyEnv      string
	APIKey         string // plaintext key, for tests; env var wins in practice
	MaxTokens      int
	TimeoutSeconds int
}

func (o *Options) defaults() {
	if o.BaseURL == "" {
		o.BaseURL = "https://api.openai.com/v1"
	}
	if o.Model == "" {
		o.Model = "gpt-3.5-turbo"
	}
	if o.APIKeyEnv == "" {
		o.APIKeyEnv = "OPENAI_API_KEY"
	}
	if o.MaxTokens <= 0 {
		o.MaxTokens = 500
	}
	if o.TimeoutSeconds <= 0 {
		o.TimeoutSeconds = 60
	}
}

// Client is an Explainer backed by an OpenAI-compatible chat-completions
// endpoint. One request per snippet, no retries, no streaming.
type Client struct {
	client    *http.Client
	url       string
	apiKey    string
	model     string
	maxTokens int
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *apiError `json:"error,omitempty"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// NewClient builds a chat-completions client. The API key is taken from
// opts.APIKey, falling back to the environment variable named by
// opts.APIKeyEnv; if neither yields a key the constructor fails with
// ErrMissingAPIKey.
func NewClient(opts Options) (*Client, error) {
	opts.defaults()

	key := opts.APIKey
	if key == "" {
		key = os.Getenv(opts.APIKeyEnv)
	}
	if key == "" {
		return nil, fmt.Errorf("%w: set %s", ErrMissingAPIKey, opts.APIKeyEnv)
	}

	return &Client{
		client: &http.Client{
			Timeout: time.Duration(opts.TimeoutSeconds) * time.Second,
		},
		url:       strings.TrimRight(opts.BaseURL, "/") + "/chat/completions",
		apiKey:    key,
		model:     opts.Model,
		maxTokens: opts.MaxTokens,
	}, nil
}

// Model returns the chat model requests are issued against.
func (c *Client) Model() string {
	return c.model
}

// Explain requests one explanation for the given code snippet and returns
// the trimmed response text.
func (c *Client) Explain(ctx context.Context, code string) (string, error) {
	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPromptPrefix + code},
		},
		MaxTokens: c.maxTokens,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		preview := strings.TrimSpace(string(body))
		if len(preview) > 200 {
			preview = preview[:200]
		}
		return "", fmt.Errorf("API returned status %d: %s", resp.StatusCode, preview)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if chatResp.Error != nil {
		return "", fmt.Errorf("API error: %s", chatResp.Error.Message)
	}
	if len(chatResp.Choices) == 0 || chatResp.Choices[0].Message.Content == "" {
		return "", errors.New("API returned no completion")
	}

	return strings.TrimSpace(chatResp.Choices[0].Message.Content), nil
}
