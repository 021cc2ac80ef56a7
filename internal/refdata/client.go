package refdata

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"caseflow/pkg/platform/circuit"
	"caseflow/pkg/platform/sentinel"
)

// Client is an HTTP Gateway implementation against the reference data
// service. It is a potentially slow, retryable dependency: failures trip a
// circuit breaker so commands fail fast while the service is down.
type Client struct {
	baseURL string
	http    *http.Client
	breaker *circuit.Breaker
	tracer  trace.Tracer
	logger  *slog.Logger
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.http = hc
	}
}

// WithBreaker overrides the default circuit breaker.
func WithBreaker(b *circuit.Breaker) ClientOption {
	return func(c *Client) {
		c.breaker = b
	}
}

// WithLogger sets a logger for breaker state transitions.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a reference data client for the given base URL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
		breaker: circuit.New("refdata"),
		tracer:  otel.Tracer("caseflow/refdata"),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// get performs a keyed lookup, decoding the response into out.
// Unknown keys map to sentinel.ErrNotFound; transport failures and server
// errors map to sentinel.ErrUnavailable and feed the circuit breaker.
func (c *Client) get(ctx context.Context, resource, key string, out any) error {
	ctx, span := c.tracer.Start(ctx, "refdata."+resource,
		trace.WithAttributes(attribute.String("refdata.key", key)))
	var opErr error
	defer func() {
		if opErr != nil {
			span.RecordError(opErr)
			span.SetStatus(codes.Error, opErr.Error())
		}
		span.End()
	}()

	if c.breaker.IsOpen() {
		opErr = fmt.Errorf("refdata circuit open: %w", sentinel.ErrUnavailable)
		return opErr
	}

	u := fmt.Sprintf("%s/%s/%s", c.baseURL, resource, url.PathEscape(key))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		opErr = err
		return opErr
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.recordFailure()
		opErr = fmt.Errorf("refdata lookup %s/%s: %w", resource, key, sentinel.ErrUnavailable)
		return opErr
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		// A missing key is an answer, not an outage.
		c.breaker.RecordSuccess()
		opErr = sentinel.ErrNotFound
		return opErr
	case resp.StatusCode >= 500:
		c.recordFailure()
		opErr = fmt.Errorf("refdata lookup %s/%s: status %d: %w", resource, key, resp.StatusCode, sentinel.ErrUnavailable)
		return opErr
	case resp.StatusCode != http.StatusOK:
		c.breaker.RecordSuccess()
		opErr = fmt.Errorf("refdata lookup %s/%s: unexpected status %d", resource, key, resp.StatusCode)
		return opErr
	}

	if _, change := c.breaker.RecordSuccess(); change.Closed {
		c.logger.InfoContext(ctx, "refdata circuit closed")
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		opErr = fmt.Errorf("decode refdata %s/%s: %w", resource, key, err)
		return opErr
	}
	return nil
}

func (c *Client) recordFailure() {
	if _, change := c.breaker.RecordFailure(); change.Opened {
		c.logger.Warn("refdata circuit opened", "breaker", c.breaker.Name())
	}
}

func (c *Client) InitiationCode(ctx context.Context, code string) (*InitiationCode, error) {
	var out InitiationCode
	if err := c.get(ctx, "initiation-codes", code, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CaseMarker(ctx context.Context, code string) (*CaseMarker, error) {
	var out CaseMarker
	if err := c.get(ctx, "case-markers", code, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Offence(ctx context.Context, code string) (*OffenceDefinition, error) {
	var out OffenceDefinition
	if err := c.get(ctx, "offences", code, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) OrganisationalUnit(ctx context.Context, code string) (*OrganisationalUnit, error) {
	var out OrganisationalUnit
	if err := c.get(ctx, "organisational-units", code, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CustodyStatus(ctx context.Context, code string) (*CustodyStatus, error) {
	var out CustodyStatus
	if err := c.get(ctx, "custody-statuses", code, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DocumentTypeAccess(ctx context.Context, documentType string) (*DocumentTypeAccess, error) {
	var out DocumentTypeAccess
	if err := c.get(ctx, "document-types", documentType, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ProsecutorByCode(ctx context.Context, code string) (*Prosecutor, error) {
	var out Prosecutor
	if err := c.get(ctx, "prosecutors", code, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
