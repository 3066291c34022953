// Package openai builds and interprets chat-completion exchanges for
// upstreams speaking the OpenAI wire format.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
)

// Target is the fixed payload template for one chat endpoint.
type Target struct {
	URL          string
	Model        string
	SystemPrompt string
	Temperature  float64
	MaxTokens    int
}

// Upstream talks to OpenAI-compatible Chat Completions APIs (OpenAI, Groq,
// OpenRouter and friends share the wire format).
type Upstream struct {
	target Target
}

func New(target Target) *Upstream { return &Upstream{target: target} }

func (u *Upstream) Name() string {
	return "chat"
}

func (u *Upstream) Passthrough() bool {
	return false
}

// BuildRequest builds the chat-completion POST: optional system prompt
// followed by the user's text, with the endpoint's model, temperature and
// token cap.
func (u *Upstream) BuildRequest(ctx context.Context, prompt string) (*http.Request, error) {
	messages := make([]chatMessage, 0, 2)
	if u.target.SystemPrompt != "" {
		messages = append(messages, chatMessage{Role: "system", Content: u.target.SystemPrompt})
	}
	messages = append(messages, chatMessage{Role: "user", Content: prompt})

	payload := chatRequest{
		Model:       u.target.Model,
		Messages:    messages,
		Temperature: u.target.Temperature,
		MaxTokens:   u.target.MaxTokens,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.target.URL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	return req, nil
}

// Reply extracts choices[0].message.content from a successful response.
func (u *Upstream) Reply(body []byte) (string, bool) {
	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", false
	}
	if len(resp.Choices) == 0 {
		return "", false
	}
	return resp.Choices[0].Message.Content, true
}

// ErrorMessage extracts the error message from a failure payload. The
// OpenAI-compatible shape is {"error":{"message":...}}, but some gateways
// flatten it to {"error":"..."}.
func (u *Upstream) ErrorMessage(body []byte) string {
	var wrapped struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil && wrapped.Error.Message != "" {
		return wrapped.Error.Message
	}

	var flat struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &flat); err == nil && flat.Error != "" {
		return flat.Error
	}

	return ""
}
