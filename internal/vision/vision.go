package vision

import (
	"context"
	"errors"
	"fmt"
)

// Client abstracts hosted vision-language providers for wound classification.
// Implementations send the prompt and inline image in a single call and return
// the provider's text reply, which is expected to contain JSON.
type Client interface {
	Classify(ctx context.Context, image, prompt string) (string, error)
	Label() string
}

// Kind discriminates provider failure classes. Downstream code switches on
// this closed set; message sniffing stays inside each provider client.
type Kind string

const (
	// KindProvider covers network, auth, quota, and malformed-request failures.
	KindProvider Kind = "provider"
	// KindSafetyBlocked means the provider refused on content-policy grounds.
	KindSafetyBlocked Kind = "safety_blocked"
)

// Error is the typed failure returned by every provider client.
type Error struct {
	Kind     Kind
	Provider string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Provider, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewProviderError wraps a hard provider failure.
func NewProviderError(provider string, err error) *Error {
	return &Error{Kind: KindProvider, Provider: provider, Err: err}
}

// NewSafetyBlockedError wraps a content-policy refusal.
func NewSafetyBlockedError(provider string, err error) *Error {
	return &Error{Kind: KindSafetyBlocked, Provider: provider, Err: err}
}

// IsSafetyBlocked reports whether err is a content-policy refusal.
func IsSafetyBlocked(err error) bool {
	var ve *Error
	return errors.As(err, &ve) && ve.Kind == KindSafetyBlocked
}

// Registry resolves provider clients by their enumerated id.
type Registry struct {
	clients   map[string]Client
	defaultID string
}

// NewRegistry constructs a Registry. defaultID is used for absent or
// unrecognized ids.
func NewRegistry(defaultID string, clients map[string]Client) *Registry {
	return &Registry{clients: clients, defaultID: defaultID}
}

// Resolve returns the client for id, falling back to the default. The
// returned id is the one actually resolved.
func (r *Registry) Resolve(id string) (Client, string) {
	if c, ok := r.clients[id]; ok {
		return c, id
	}
	return r.clients[r.defaultID], r.defaultID
}

// ErrNotConfigured is returned by the placeholder client.
var ErrNotConfigured = errors.New("vision provider not configured")

// PlaceholderClient is a stub implementation used when no API key is set.
type PlaceholderClient struct {
	Name string
}

// Classify returns ErrNotConfigured.
func (p PlaceholderClient) Classify(ctx context.Context, image, prompt string) (string, error) {
	_ = ctx
	_ = image
	_ = prompt
	return "", NewProviderError(p.Name, ErrNotConfigured)
}

// Label returns the provider's human-readable label.
func (p PlaceholderClient) Label() string {
	return p.Name
}
