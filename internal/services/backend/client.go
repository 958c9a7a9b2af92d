package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	apperrors "github.com/louisbranch/familyhub/internal/platform/errors"
	platformotel "github.com/louisbranch/familyhub/internal/platform/otel"
	"github.com/louisbranch/familyhub/internal/platform/timeouts"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/louisbranch/familyhub/internal/services/backend"

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 64 << 10

// Authorizer supplies the Authorization header for outbound requests.
type Authorizer interface {
	Authorization() string
}

// Config configures a Client.
type Config struct {
	// BaseURL is the REST API root, for example http://localhost:8080.
	BaseURL string
	// ProbeURL is fetched before gated calls. Empty disables the probe.
	ProbeURL string
	// HTTPClient overrides the default client with a timeouts.Request timeout.
	HTTPClient *http.Client
	// ProbeClient overrides the default client with a timeouts.Probe timeout.
	ProbeClient *http.Client
}

// Client calls the familyhub REST API.
type Client struct {
	baseURL  *url.URL
	probeURL string
	http     *http.Client
	probe    *http.Client
	auth     Authorizer
	tracer   trace.Tracer
}

// NewClient builds a client for cfg. auth may be nil for anonymous use.
func NewClient(cfg Config, auth Authorizer) (*Client, error) {
	raw := strings.TrimSpace(cfg.BaseURL)
	if raw == "" {
		return nil, errors.New("base url is required")
	}
	base, err := url.Parse(strings.TrimRight(raw, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("base url scheme must be http or https, got %q", base.Scheme)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeouts.Request}
	}
	probeClient := cfg.ProbeClient
	if probeClient == nil {
		probeClient = &http.Client{Timeout: timeouts.Probe}
	}
	return &Client{
		baseURL:  base,
		probeURL: strings.TrimSpace(cfg.ProbeURL),
		http:     httpClient,
		probe:    probeClient,
		auth:     auth,
		tracer:   platformotel.Tracer(tracerName),
	}, nil
}

// BaseURL returns the REST API root without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// errorBody is the JSON error envelope returned by the API.
type errorBody struct {
	Status  json.RawMessage `json:"status"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
}

// request describes one API call.
type request struct {
	method string
	// route is the templated path used for span names, for example
	// /activities/{id}.
	route string
	// path is already escaped; callers escape each id segment.
	path  string
	query url.Values
	body  any
	// gated calls run the connectivity probe first.
	gated bool
}

func (c *Client) do(ctx context.Context, r request, out any) error {
	ctx, span := c.tracer.Start(ctx, r.method+" "+r.route,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", r.method),
			attribute.String("url.path", r.path),
		),
	)
	defer span.End()

	err := c.send(ctx, r, out, span)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(apperrors.CodeOf(err)))
	}
	return err
}

func (c *Client) send(ctx context.Context, r request, out any, span trace.Span) error {
	if r.gated {
		if err := c.Probe(ctx); err != nil {
			return err
		}
	}

	var body io.Reader
	if r.body != nil {
		data, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("encode %s body: %w", r.route, err)
		}
		body = bytes.NewReader(data)
	}

	target := *c.baseURL
	target.RawPath = strings.TrimRight(c.baseURL.EscapedPath(), "/") + r.path
	unescaped, err := url.PathUnescape(target.RawPath)
	if err != nil {
		return fmt.Errorf("build %s path: %w", r.route, err)
	}
	target.Path = unescaped
	if len(r.query) > 0 {
		target.RawQuery = r.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, r.method, target.String(), body)
	if err != nil {
		return fmt.Errorf("build %s request: %w", r.route, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.auth != nil {
		if header := c.auth.Authorization(); header != "" {
			req.Header.Set("Authorization", header)
		}
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.http.Do(req)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeNetwork, r.method+" "+r.route, err)
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(r, resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return apperrors.Wrap(apperrors.CodeUnexpectedStatus, "decode "+r.route+" response", err)
	}
	return nil
}

// statusError maps a non-2xx response to a server error code. The body's
// error text is kept as Detail for alert templating.
func statusError(r request, resp *http.Response) error {
	detail := ""
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var payload errorBody
	if json.Unmarshal(data, &payload) == nil {
		detail = strings.TrimSpace(payload.Error)
		if detail == "" {
			detail = strings.TrimSpace(payload.Message)
		}
	}
	code := apperrors.CodeForStatus(resp.StatusCode)
	return apperrors.WithMetadata(code,
		fmt.Sprintf("%s %s returned %d", r.method, r.route, resp.StatusCode),
		map[string]string{
			"Status": strconv.Itoa(resp.StatusCode),
			"Detail": detail,
		})
}
