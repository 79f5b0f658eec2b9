package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"wound-backend/internal/vision"
)

const (
	apiURL       = "https://api.openai.com/v1/chat/completions"
	providerName = "openai"
)

// Client implements vision.Client using OpenAI Chat Completions with an
// inline image part and a JSON-mode reply.
type Client struct {
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewClient constructs a new OpenAI client.
func NewClient(apiKey, model string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("OPENAI_MODEL is required")
	}
	timeout := 120 * time.Second
	if raw := strings.TrimSpace(os.Getenv("OPENAI_TIMEOUT_SECONDS")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			timeout = time.Duration(parsed) * time.Second
		}
	}
	return &Client{
		apiKey: apiKey,
		model:  model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// Label returns the provider label recorded in the audit ledger.
func (c *Client) Label() string {
	return "ChatGPT"
}

type imageURL struct {
	URL string `json:"url"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	ResponseFormat responseFormat `json:"response_format"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
			Refusal string `json:"refusal"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error,omitempty"`
}

// Classify sends the prompt and image in a single multimodal call and
// returns the reply content, which is requested as a JSON object.
func (c *Client) Classify(ctx context.Context, image, prompt string) (string, error) {
	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: prompt},
			{Role: "user", Content: []contentPart{
				{Type: "image_url", ImageURL: &imageURL{URL: vision.EnsureDataURI(image)}},
			}},
		},
		ResponseFormat: responseFormat{Type: "json_object"},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", vision.NewProviderError(providerName, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(payload))
	if err != nil {
		return "", vision.NewProviderError(providerName, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
			return "", vision.NewProviderError(providerName, fmt.Errorf("openai request timeout: %w", err))
		}
		return "", vision.NewProviderError(providerName, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", vision.NewProviderError(providerName, err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", vision.NewProviderError(providerName, fmt.Errorf("openai response parse: %w", err))
	}
	if parsed.Error != nil {
		err := fmt.Errorf("openai error: %s (%s)", parsed.Error.Message, parsed.Error.Type)
		if isSafetySignal(parsed.Error.Message) || isSafetySignal(parsed.Error.Code) {
			return "", vision.NewSafetyBlockedError(providerName, err)
		}
		return "", vision.NewProviderError(providerName, err)
	}
	if len(parsed.Choices) == 0 {
		return "", vision.NewProviderError(providerName, fmt.Errorf("openai response missing choices"))
	}

	choice := parsed.Choices[0]
	if choice.Message.Refusal != "" || strings.EqualFold(choice.FinishReason, "content_filter") {
		return "", vision.NewSafetyBlockedError(providerName, fmt.Errorf("openai refusal: %s", choice.Message.Refusal))
	}

	content := strings.TrimSpace(choice.Message.Content)
	if content == "" {
		return "", vision.NewProviderError(providerName, fmt.Errorf("openai response empty content"))
	}
	return content, nil
}

// isSafetySignal is the single translation point from OpenAI's error text to
// the typed safety-block kind.
func isSafetySignal(msg string) bool {
	lowered := strings.ToLower(msg)
	return strings.Contains(lowered, "blocked") ||
		strings.Contains(lowered, "safety") ||
		strings.Contains(lowered, "content_policy") ||
		strings.Contains(lowered, "content policy")
}

var _ vision.Client = (*Client)(nil)
