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
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/iho/logiadmin/internal/domain"
	"github.com/iho/logiadmin/internal/infrastructure/metrics"
)

const (
	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 4 << 20
)

// Config holds backend client settings.
type Config struct {
	BaseURL string
	Timeout time.Duration
	// MaxRetries applies to idempotent GET requests only.
	MaxRetries int
	// RetryInterval is the initial backoff interval. Zero uses 100ms.
	RetryInterval time.Duration
}

// Client talks to the logistics backend REST API. It implements
// usecase.AuthGateway and usecase.MenuGateway.
type Client struct {
	baseURL       string
	httpClient    *http.Client
	maxRetries    int
	retryInterval time.Duration
	logger        zerolog.Logger
	metrics       *metrics.Metrics
}

// New creates a backend client. m may be nil.
func New(cfg Config, logger zerolog.Logger, m *metrics.Metrics) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	interval := cfg.RetryInterval
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	return &Client{
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		httpClient:    &http.Client{Timeout: timeout},
		maxRetries:    max(cfg.MaxRetries, 0),
		retryInterval: interval,
		logger:        logger.With().Str("component", "backend").Logger(),
		metrics:       m,
	}
}

// BaseURL returns the API root the client sends requests to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type request struct {
	endpoint string
	method   string
	path     string
	query    url.Values
	token    string
	body     any
}

// do sends req and returns the unwrapped payload of a successful response.
// A nil payload means the backend reported success without data.
func (c *Client) do(ctx context.Context, req request) (json.RawMessage, error) {
	var body []byte
	if req.body != nil {
		var err error
		body, err = json.Marshal(req.body)
		if err != nil {
			return nil, fmt.Errorf("encode %s request: %w", req.endpoint, err)
		}
	}

	target := c.baseURL + req.path
	if len(req.query) > 0 {
		target += "?" + req.query.Encode()
	}

	retries := 0
	if req.method == http.MethodGet {
		retries = c.maxRetries
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.retryInterval
	b.MaxInterval = 2 * time.Second
	b.MaxElapsedTime = 0

	attempt := 0
	var payload json.RawMessage
	err := backoff.Retry(func() error {
		attempt++
		out, err := c.send(ctx, req, target, body)
		if err == nil {
			payload = out
			return nil
		}
		if !retryable(err) {
			return backoff.Permanent(err)
		}
		if attempt <= retries {
			c.logger.Warn().
				Err(err).
				Str("endpoint", req.endpoint).
				Int("attempt", attempt).
				Msg("backend request failed, retrying")
		}
		return err
	}, backoff.WithContext(backoff.WithMaxRetries(b, uint64(retries)), ctx))
	if err != nil {
		return nil, err
	}
	return payload, nil
}

func (c *Client) send(ctx context.Context, req request, target string, body []byte) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", req.endpoint, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.token)
	}
	requestID := ulid.Make().String()
	httpReq.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	c.observe(req.endpoint, resp, start)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrBackendUnavailable, req.endpoint, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: read body: %v", domain.ErrBackendUnavailable, req.endpoint, err)
	}

	c.logger.Debug().
		Str("endpoint", req.endpoint).
		Str("method", req.method).
		Str("request_id", requestID).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("backend request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{
			Endpoint:   req.endpoint,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(raw),
		}
	}

	payload, err := unwrapEnvelope(raw)
	if err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) {
			statusErr.Endpoint = req.endpoint
		}
		return nil, err
	}
	return payload, nil
}

func (c *Client) observe(endpoint string, resp *http.Response, start time.Time) {
	if c.metrics == nil {
		return
	}
	status := "error"
	if resp != nil {
		status = strconv.Itoa(resp.StatusCode)
	}
	c.metrics.BackendRequests.WithLabelValues(endpoint, status).Inc()
	c.metrics.BackendDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
}

// retryable reports transport failures and 5xx responses.
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode >= http.StatusInternalServerError
	}
	return errors.Is(err, domain.ErrBackendUnavailable)
}

// decode unmarshals a payload into out. A missing payload is reported as
// a malformed response.
func decode(endpoint string, payload json.RawMessage, out any) error {
	if isNull(payload) {
		return fmt.Errorf("%w: %s: no data", domain.ErrMalformedResponse, endpoint)
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrMalformedResponse, endpoint, err)
	}
	return nil
}
