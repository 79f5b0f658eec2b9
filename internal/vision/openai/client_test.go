package openai

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"wound-backend/internal/vision"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func newTestClient(t *testing.T, respond roundTripFunc) *Client {
	t.Helper()
	return &Client{
		apiKey: "test-key",
		model:  "gpt-4o-mini",
		httpClient: &http.Client{
			Transport: respond,
			Timeout:   5 * time.Second,
		},
	}
}

func jsonResponse(body string) *http.Response {
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

func TestClassifyReturnsContent(t *testing.T) {
	var captured string
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		payload, _ := io.ReadAll(req.Body)
		captured = string(payload)
		return jsonResponse(`{"choices":[{"message":{"role":"assistant","content":"{\"ok\":true}"}}]}`), nil
	})

	content, err := client.Classify(context.Background(), "abcd", "el prompt")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if content != `{"ok":true}` {
		t.Fatalf("unexpected content %q", content)
	}
	if !strings.Contains(captured, `"response_format":{"type":"json_object"}`) {
		t.Fatalf("expected JSON-mode request, got %s", captured)
	}
	if !strings.Contains(captured, "data:image/jpeg;base64,abcd") {
		t.Fatalf("expected raw base64 wrapped in a data URI, got %s", captured)
	}
	if !strings.Contains(captured, "el prompt") {
		t.Fatalf("expected prompt in system message, got %s", captured)
	}
}

func TestClassifySafetyErrorEnvelope(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(`{"error":{"message":"Your request was blocked by our content policy","type":"invalid_request_error"}}`), nil
	})

	_, err := client.Classify(context.Background(), "abcd", "prompt")
	if !vision.IsSafetyBlocked(err) {
		t.Fatalf("expected safety-blocked error, got %v", err)
	}
}

func TestClassifyContentFilterFinish(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(`{"choices":[{"message":{"role":"assistant","content":"","refusal":"I can't help with that"},"finish_reason":"content_filter"}]}`), nil
	})

	_, err := client.Classify(context.Background(), "abcd", "prompt")
	if !vision.IsSafetyBlocked(err) {
		t.Fatalf("expected safety-blocked error, got %v", err)
	}
}

func TestClassifyQuotaErrorIsProviderError(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(`{"error":{"message":"You exceeded your current quota","type":"insufficient_quota"}}`), nil
	})

	_, err := client.Classify(context.Background(), "abcd", "prompt")
	if err == nil {
		t.Fatalf("expected error")
	}
	if vision.IsSafetyBlocked(err) {
		t.Fatalf("quota error misclassified as safety block")
	}
}

func TestClassifyMissingChoices(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(`{"choices":[]}`), nil
	})

	_, err := client.Classify(context.Background(), "abcd", "prompt")
	if err == nil || vision.IsSafetyBlocked(err) {
		t.Fatalf("expected provider error for missing choices, got %v", err)
	}
}

func TestIsSafetySignal(t *testing.T) {
	tests := []struct {
		msg  string
		want bool
	}{
		{msg: "Your request was blocked", want: true},
		{msg: "flagged by SAFETY system", want: true},
		{msg: "violates our content policy", want: true},
		{msg: "content_policy_violation", want: true},
		{msg: "rate limit exceeded", want: false},
		{msg: "", want: false},
	}
	for _, tt := range tests {
		if got := isSafetySignal(tt.msg); got != tt.want {
			t.Fatalf("isSafetySignal(%q) = %v, want %v", tt.msg, got, tt.want)
		}
	}
}

func TestNewClientValidation(t *testing.T) {
	if _, err := NewClient("", "gpt-4o-mini"); err == nil {
		t.Fatalf("expected error for missing API key")
	}
	if _, err := NewClient("key", ""); err == nil {
		t.Fatalf("expected error for missing model")
	}
}
