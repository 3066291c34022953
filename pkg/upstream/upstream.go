// Package upstream defines how the relay talks to each kind of third-party
// API. An Upstream knows how to build the single outbound request for an
// inbound query and how to interpret what comes back. Authentication is
// applied separately by the relay's header handler, so upstream
// implementations never see credential values.
package upstream

import (
	"context"
	"fmt"
	"net/http"

	"github.com/janadata/relay/pkg/upstream/datagov"
	"github.com/janadata/relay/pkg/upstream/openai"
)

// Supported upstream kind constants
const (
	Chat = "chat"
	Data = "data"
)

// EmptyReply is substituted when a successful chat response lacks the
// expected reply field.
const EmptyReply = "empty response"

// Query carries the inbound parameters an Upstream may need to build its
// outbound request. Chat kinds use Prompt; data kinds use Limit and State.
type Query struct {
	Prompt string
	Limit  int
	State  string
}

// Target is the fixed per-endpoint upstream contract: where to call and,
// for chat kinds, the payload template.
type Target struct {
	URL          string
	Model        string
	SystemPrompt string
	Temperature  float64
	MaxTokens    int
}

// Upstream builds and interprets requests for one kind of third-party API.
type Upstream interface {
	// Name returns the canonical kind name (e.g. "chat", "data").
	Name() string

	// BuildRequest constructs the single outbound request for the query.
	// The returned request carries no credentials.
	BuildRequest(ctx context.Context, q Query) (*http.Request, error)

	// Passthrough reports whether successful upstream bodies are relayed
	// verbatim instead of being reshaped into a reply object.
	Passthrough() bool

	// Reply extracts the reply text from a successful response body.
	// Returns false if the body does not have the expected shape.
	Reply(body []byte) (string, bool)

	// ErrorMessage extracts the upstream-provided error message from a
	// non-success response body. Returns "" if none is present.
	ErrorMessage(body []byte) string
}

// SupportedKinds returns the list of all supported upstream kind names.
func SupportedKinds() []string {
	return []string{Chat, Data}
}

// New creates an Upstream for the given kind and target.
// Returns an error if the kind is not recognized.
func New(kind string, target Target) (Upstream, error) {
	switch kind {
	case Chat:
		return chatUpstream{openai.New(openai.Target{
			URL:          target.URL,
			Model:        target.Model,
			SystemPrompt: target.SystemPrompt,
			Temperature:  target.Temperature,
			MaxTokens:    target.MaxTokens,
		})}, nil
	case Data:
		return dataUpstream{datagov.New(datagov.Target{URL: target.URL})}, nil
	default:
		return nil, fmt.Errorf("unknown upstream kind: %q (supported: %v)", kind, SupportedKinds())
	}
}

// chatUpstream adapts the openai implementation to the Upstream interface.
type chatUpstream struct {
	*openai.Upstream
}

func (c chatUpstream) BuildRequest(ctx context.Context, q Query) (*http.Request, error) {
	return c.Upstream.BuildRequest(ctx, q.Prompt)
}

// dataUpstream adapts the datagov implementation to the Upstream interface.
type dataUpstream struct {
	*datagov.Upstream
}

func (d dataUpstream) BuildRequest(ctx context.Context, q Query) (*http.Request, error) {
	return d.Upstream.BuildRequest(ctx, q.Limit, q.State)
}

// Reply is never consulted for passthrough kinds.
func (d dataUpstream) Reply([]byte) (string, bool) {
	return "", false
}
