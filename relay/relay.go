// Package relay provides an HTTP gateway that forwards inbound requests to
// credentialed third-party APIs.
//
// Every route follows the same pipeline: gate the method, parse the inbound
// payload, resolve the endpoint's secret, issue exactly one upstream call,
// and map the outcome to a JSON response. Endpoints differ only in the
// configuration they carry, never in code.
package relay

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/janadata/relay/pkg/credentials"
	"github.com/janadata/relay/pkg/upstream"
	"github.com/janadata/relay/relay/header"
)

// ReplyResponse is the success body of chat endpoints.
type ReplyResponse struct {
	Reply string `json:"reply"`
}

// ErrorResponse is the failure body of every endpoint.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// route pairs an endpoint's configuration with its upstream implementation
// and the single verb it accepts.
type route struct {
	endpoint Endpoint
	upstream upstream.Upstream
	verb     string
}

// Server is the relay gateway. It holds no per-request state; the only
// cross-request mutable state is the stats counters.
type Server struct {
	config     Config
	creds      credentials.Store
	logger     *zap.Logger
	httpClient *http.Client
	app        *fiber.App
	header     *header.Handler
	stats      *stats
	startedAt  time.Time
}

// New creates a new relay Server. The credential store is injected so tests
// can run against fake secrets. Returns an error if any endpoint references
// an unknown upstream kind.
func New(config Config, creds credentials.Store, logger *zap.Logger) (*Server, error) {
	if len(config.Endpoints) == 0 {
		return nil, errors.New("at least one endpoint is required")
	}
	if creds == nil {
		return nil, errors.New("credential store is required")
	}
	if config.UpstreamTimeout <= 0 {
		config.UpstreamTimeout = DefaultUpstreamTimeout
	}

	app := fiber.New(fiber.Config{
		// Disable startup message for cleaner logs
		DisableStartupMessage: true,
	})
	app.Use(compress.New())

	names := make([]string, 0, len(config.Endpoints))
	for _, ep := range config.Endpoints {
		names = append(names, ep.Name)
	}

	s := &Server{
		config: config,
		creds:  creds,
		logger: logger,
		app:    app,
		header: header.NewHandler(),
		stats:  newStats(names),
		httpClient: &http.Client{
			Timeout: config.UpstreamTimeout,
		},
		startedAt: time.Now(),
	}

	for _, ep := range config.Endpoints {
		up, err := upstream.New(ep.Kind, upstream.Target{
			URL:          ep.Upstream,
			Model:        ep.Model,
			SystemPrompt: ep.SystemPrompt,
			Temperature:  ep.Temperature,
			MaxTokens:    ep.MaxTokens,
		})
		if err != nil {
			return nil, fmt.Errorf("endpoint %q: %w", ep.Name, err)
		}

		rt := &route{endpoint: ep, upstream: up, verb: verbFor(ep.Kind)}
		// One catch-all registration per path so the method gate can
		// answer wrong verbs with the JSON error shape.
		app.All(ep.Path, s.makeHandler(rt))
	}

	// Service endpoints are cross-origin readable so dashboards on other
	// origins can poll them.
	app.Get("/ping", s.handlePing)
	app.Options("/ping", s.handlePreflight)
	app.Get("/api/insights", s.handleInsights)
	app.Options("/api/insights", s.handlePreflight)

	return s, nil
}

// verbFor maps an upstream kind to the single verb its endpoints accept.
func verbFor(kind string) string {
	if kind == upstream.Data {
		return fiber.MethodGet
	}
	return fiber.MethodPost
}

// Run starts the relay server on the configured listening address.
func (s *Server) Run() error {
	s.logger.Info("starting relay server",
		zap.String("listen", s.config.ListenAddr),
		zap.Int("endpoints", len(s.config.Endpoints)),
	)

	return s.app.Listen(s.config.ListenAddr)
}

// RunWithListener starts the relay server using the provided listener.
func (s *Server) RunWithListener(listener net.Listener) error {
	s.logger.Info("starting relay server",
		zap.String("listen", listener.Addr().String()),
		zap.Int("endpoints", len(s.config.Endpoints)),
	)

	return s.app.Listener(listener)
}

// Close gracefully shuts down the relay server.
func (s *Server) Close() error {
	return s.app.Shutdown()
}

// handlePreflight answers OPTIONS on the service endpoints.
func (s *Server) handlePreflight(c *fiber.Ctx) error {
	s.header.SetCORSHeaders(c)
	return c.SendStatus(fiber.StatusOK)
}

// handlePing returns a simple health check response.
func (s *Server) handlePing(c *fiber.Ctx) error {
	s.header.SetCORSHeaders(c)
	return c.JSON("pong")
}

// handleInsights returns per-endpoint relay counters.
func (s *Server) handleInsights(c *fiber.Ctx) error {
	s.header.SetCORSHeaders(c)
	return c.JSON(map[string]any{
		"started_at":     s.startedAt.UTC().Format(time.RFC3339),
		"uptime_seconds": int64(time.Since(s.startedAt).Seconds()),
		"endpoints":      s.stats.snapshot(),
	})
}

// makeHandler builds the relay pipeline for one route. The pipeline performs
// at most one upstream call and always answers with a single JSON object.
func (s *Server) makeHandler(rt *route) fiber.Handler {
	ep := rt.endpoint

	return func(c *fiber.Ctx) error {
		start := time.Now()
		requestID := uuid.NewString()
		counters := s.stats.get(ep.Name)
		counters.requests.Add(1)

		if ep.CORS {
			s.header.SetCORSHeaders(c)
			if c.Method() == fiber.MethodOptions {
				return c.SendStatus(fiber.StatusOK)
			}
		}

		if c.Method() != rt.verb {
			counters.clientErrors.Add(1)
			return c.Status(fiber.StatusMethodNotAllowed).JSON(ErrorResponse{
				Error: fmt.Sprintf("method %s not allowed, use %s", c.Method(), rt.verb),
			})
		}

		query, clientErr := s.buildQuery(c, rt)
		if clientErr != nil {
			counters.clientErrors.Add(1)
			s.logger.Debug("rejected request",
				zap.String("endpoint", ep.Name),
				zap.String("request_id", requestID),
				zap.String("reason", clientErr.Error),
			)
			return c.Status(fiber.StatusBadRequest).JSON(*clientErr)
		}

		secret, ok := s.creds.Lookup(ep.CredentialKey)
		if !ok {
			counters.configErrors.Add(1)
			// Log the key name and presence only, never the value.
			s.logger.Error("credential not configured",
				zap.String("endpoint", ep.Name),
				zap.String("request_id", requestID),
				zap.String("credential_key", ep.CredentialKey),
			)
			return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
				Error: fmt.Sprintf("server misconfiguration: %s is not set", ep.CredentialKey),
			})
		}

		req, err := rt.upstream.BuildRequest(c.Context(), query)
		if err != nil {
			s.logger.Error("failed to create upstream request",
				zap.String("endpoint", ep.Name),
				zap.String("request_id", requestID),
				zap.Error(err),
			)
			return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "internal error"})
		}

		if err := s.header.SetUpstreamAuth(req, ep.AuthScheme, ep.AuthName, secret); err != nil {
			s.logger.Error("failed to attach credential",
				zap.String("endpoint", ep.Name),
				zap.String("request_id", requestID),
				zap.Error(err),
			)
			return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "internal error"})
		}

		s.logger.Debug("forwarding request to upstream",
			zap.String("endpoint", ep.Name),
			zap.String("request_id", requestID),
			zap.String("upstream", logURL(req.URL)),
		)

		// The one upstream call for this request.
		httpResp, err := s.httpClient.Do(req)
		if err != nil {
			counters.upstreamErrors.Add(1)
			s.logger.Error("upstream request failed",
				zap.String("endpoint", ep.Name),
				zap.String("request_id", requestID),
				zap.String("upstream", logURL(req.URL)),
				zap.Error(err),
			)
			return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
				Error:   "upstream request failed",
				Details: err.Error(),
			})
		}
		defer httpResp.Body.Close()

		body, err := io.ReadAll(httpResp.Body)
		if err != nil {
			counters.upstreamErrors.Add(1)
			s.logger.Error("failed to read upstream response",
				zap.String("endpoint", ep.Name),
				zap.String("request_id", requestID),
				zap.Error(err),
			)
			return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
				Error: "failed to read upstream response",
			})
		}

		if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
			counters.upstreamErrors.Add(1)
			details := rt.upstream.ErrorMessage(body)
			if details == "" {
				details = strings.TrimSpace(string(body))
			}
			s.logger.Warn("upstream returned error",
				zap.String("endpoint", ep.Name),
				zap.String("request_id", requestID),
				zap.Int("status", httpResp.StatusCode),
				zap.String("body", string(body)),
			)
			return c.Status(httpResp.StatusCode).JSON(ErrorResponse{
				Error:   "upstream error",
				Details: details,
			})
		}

		counters.relayed.Add(1)
		s.logger.Debug("relayed upstream response",
			zap.String("endpoint", ep.Name),
			zap.String("request_id", requestID),
			zap.Int("status", httpResp.StatusCode),
			zap.Duration("duration", time.Since(start)),
		)

		if ep.CacheControl != "" {
			c.Set(fiber.HeaderCacheControl, ep.CacheControl)
		}

		if rt.upstream.Passthrough() {
			c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
			return c.Status(fiber.StatusOK).Send(body)
		}

		reply, ok := rt.upstream.Reply(body)
		if !ok || reply == "" {
			reply = upstream.EmptyReply
		}
		return c.JSON(ReplyResponse{Reply: reply})
	}
}

// buildQuery extracts the upstream query from the inbound request. A non-nil
// ErrorResponse means the request is a client error and no upstream call may
// happen.
func (s *Server) buildQuery(c *fiber.Ctx, rt *route) (upstream.Query, *ErrorResponse) {
	ep := rt.endpoint

	if ep.Kind == upstream.Data {
		limit := c.QueryInt("limit", ep.DefaultLimit)
		if limit <= 0 {
			limit = ep.DefaultLimit
		}
		state := c.Query("state", ep.DefaultState)
		return upstream.Query{Limit: limit, State: state}, nil
	}

	body := c.Body()
	if len(body) == 0 {
		return upstream.Query{}, &ErrorResponse{Error: "request body is required"}
	}

	var fields map[string]any
	if err := json.Unmarshal(body, &fields); err != nil {
		return upstream.Query{}, &ErrorResponse{Error: "request body is not valid JSON"}
	}

	for _, name := range ep.PromptFields {
		if v, ok := fields[name].(string); ok && strings.TrimSpace(v) != "" {
			return upstream.Query{Prompt: v}, nil
		}
	}

	return upstream.Query{}, &ErrorResponse{
		Error: fmt.Sprintf("missing required field: one of %s", strings.Join(ep.PromptFields, ", ")),
	}
}

// logURL renders an upstream URL for logging with the query string dropped,
// since query-scheme endpoints carry their credential there.
func logURL(u *url.URL) string {
	return u.Scheme + "://" + u.Host + u.Path
}
