// Package datagov builds requests for the data.gov.in resource API.
//
// The resource API is queried with GET plus query parameters; responses are
// arbitrary JSON relayed to the caller verbatim. The api-key parameter is
// attached by the relay's auth handling, not here.
package datagov

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
)

// Target identifies one data.gov.in resource.
type Target struct {
	URL string
}

type Upstream struct {
	target Target
}

func New(target Target) *Upstream { return &Upstream{target: target} }

func (u *Upstream) Name() string {
	return "data"
}

func (u *Upstream) Passthrough() bool {
	return true
}

// BuildRequest builds the resource query. The state filter is only attached
// when non-empty so national-level resources keep working.
func (u *Upstream) BuildRequest(ctx context.Context, limit int, state string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.target.URL, nil)
	if err != nil {
		return nil, err
	}

	q := req.URL.Query()
	q.Set("format", "json")
	q.Set("limit", strconv.Itoa(limit))
	if state != "" {
		q.Set("filters[state]", state)
	}
	req.URL.RawQuery = q.Encode()

	req.Header.Set("Accept", "application/json")

	return req, nil
}

// ErrorMessage extracts the message field data.gov.in returns on failures,
// e.g. {"message":"invalid api key","status":"error"}.
func (u *Upstream) ErrorMessage(body []byte) string {
	var resp struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return ""
	}
	if resp.Message != "" {
		return resp.Message
	}
	return resp.Error
}
