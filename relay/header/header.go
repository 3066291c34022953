// Package header provides header handling for the relay gateway.
//
// The relay sits between browser frontends and credentialed upstreams like so:
//
//	Frontend <--> Relay <--> Upstream API
//
// The frontend leg needs permissive cross-origin headers (the dashboards are
// served from a different origin than the gateway); the upstream leg needs
// the endpoint's secret attached under whatever scheme that upstream
// documents. Both concerns live here so handlers never touch raw headers.
package header

import (
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/janadata/relay/pkg/config"
)

// Permissive cross-origin policy for browser dashboards.
const (
	allowOrigin  = "*"
	allowMethods = "GET, OPTIONS, POST"
	allowHeaders = "Content-Type, Authorization"
)

// Handler manages headers on both legs of a relayed request.
type Handler struct{}

// NewHandler creates a new header Handler.
func NewHandler() *Handler {
	return &Handler{}
}

// SetCORSHeaders marks a response as cross-origin readable. Applied to every
// response of a CORS-enabled endpoint, not just preflights.
func (h *Handler) SetCORSHeaders(c *fiber.Ctx) {
	c.Set(fiber.HeaderAccessControlAllowOrigin, allowOrigin)
	c.Set(fiber.HeaderAccessControlAllowMethods, allowMethods)
	c.Set(fiber.HeaderAccessControlAllowHeaders, allowHeaders)
}

// SetUpstreamAuth attaches the secret to the outgoing request under the
// endpoint's configured scheme. The secret value is written only to the
// request, never logged.
func (h *Handler) SetUpstreamAuth(req *http.Request, scheme, name, secret string) error {
	switch scheme {
	case config.AuthBearer:
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+secret)
	case config.AuthHeader:
		req.Header.Set(name, secret)
	case config.AuthQuery:
		q := req.URL.Query()
		q.Set(name, secret)
		req.URL.RawQuery = q.Encode()
	default:
		return fmt.Errorf("unknown auth scheme: %q", scheme)
	}
	return nil
}
