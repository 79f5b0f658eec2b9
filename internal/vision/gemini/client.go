package gemini

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
	apiBaseURL   = "https://generativelanguage.googleapis.com/v1beta/models"
	providerName = "gemini"
)

// harmCategories are configured to the most permissive threshold so that
// medical wound imagery is not refused as graphic content.
var harmCategories = []string{
	"HARM_CATEGORY_HARASSMENT",
	"HARM_CATEGORY_HATE_SPEECH",
	"HARM_CATEGORY_SEXUALLY_EXPLICIT",
	"HARM_CATEGORY_DANGEROUS_CONTENT",
}

// Client implements vision.Client using the Gemini generateContent REST API.
// The prompt travels as a system instruction, separate from the user-turn
// image attachment.
type Client struct {
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewClient constructs a new Gemini client.
func NewClient(apiKey, model string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("GEMINI_MODEL is required")
	}
	timeout := 120 * time.Second
	if raw := strings.TrimSpace(os.Getenv("GEMINI_TIMEOUT_SECONDS")); raw != "" {
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
	return "Gemini"
}

type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
	Role  string `json:"role,omitempty"`
}

type safetySetting struct {
	Category  string `json:"category"`
	Threshold string `json:"threshold"`
}

type generateRequest struct {
	SystemInstruction *content        `json:"system_instruction,omitempty"`
	Contents          []content       `json:"contents"`
	SafetySettings    []safetySetting `json:"safetySettings,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback,omitempty"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}

// Classify sends the image with all harm categories set to BLOCK_NONE and
// returns the reply text with any Markdown code fences stripped.
func (c *Client) Classify(ctx context.Context, image, prompt string) (string, error) {
	settings := make([]safetySetting, 0, len(harmCategories))
	for _, category := range harmCategories {
		settings = append(settings, safetySetting{Category: category, Threshold: "BLOCK_NONE"})
	}

	reqBody := generateRequest{
		SystemInstruction: &content{Parts: []part{{Text: prompt}}},
		Contents: []content{{
			Role: "user",
			Parts: []part{{
				InlineData: &inlineData{MimeType: "image/jpeg", Data: vision.StripDataURI(image)},
			}},
		}},
		SafetySettings: settings,
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", vision.NewProviderError(providerName, err)
	}

	url := fmt.Sprintf("%s/%s:generateContent?key=%s", apiBaseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", vision.NewProviderError(providerName, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
			return "", vision.NewProviderError(providerName, fmt.Errorf("gemini request timeout: %w", err))
		}
		return "", vision.NewProviderError(providerName, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", vision.NewProviderError(providerName, err)
	}

	var parsed generateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", vision.NewProviderError(providerName, fmt.Errorf("gemini response parse: %w", err))
	}
	if parsed.Error != nil {
		err := fmt.Errorf("gemini error: %s (%s)", parsed.Error.Message, parsed.Error.Status)
		if isSafetySignal(parsed.Error.Message) || isSafetySignal(parsed.Error.Status) {
			return "", vision.NewSafetyBlockedError(providerName, err)
		}
		return "", vision.NewProviderError(providerName, err)
	}
	if parsed.PromptFeedback != nil && parsed.PromptFeedback.BlockReason != "" {
		return "", vision.NewSafetyBlockedError(providerName, fmt.Errorf("gemini prompt blocked: %s", parsed.PromptFeedback.BlockReason))
	}
	if len(parsed.Candidates) == 0 {
		// Gemini drops all candidates when the reply itself is filtered.
		return "", vision.NewSafetyBlockedError(providerName, fmt.Errorf("gemini response missing candidates"))
	}

	candidate := parsed.Candidates[0]
	if strings.EqualFold(candidate.FinishReason, "SAFETY") {
		return "", vision.NewSafetyBlockedError(providerName, fmt.Errorf("gemini candidate finished with SAFETY"))
	}

	var text strings.Builder
	for _, p := range candidate.Content.Parts {
		text.WriteString(p.Text)
	}
	cleaned := stripFences(text.String())
	if cleaned == "" {
		return "", vision.NewProviderError(providerName, fmt.Errorf("gemini response empty content"))
	}
	return cleaned, nil
}

// stripFences removes Markdown ```json ... ``` wrapping from the reply.
func stripFences(raw string) string {
	cleaned := strings.ReplaceAll(raw, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	return strings.TrimSpace(cleaned)
}

// isSafetySignal is the single translation point from Gemini's error text to
// the typed safety-block kind.
func isSafetySignal(msg string) bool {
	lowered := strings.ToLower(msg)
	return strings.Contains(lowered, "blocked") || strings.Contains(lowered, "safety")
}

var _ vision.Client = (*Client)(nil)
