package courtapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/avstrong/canchalibre/internal/booking"
	"github.com/avstrong/canchalibre/internal/logger"
)

const (
	defaultBaseURL = "https://api.canchalibre.ar"
	defaultTimeout = 15 * time.Second
)

var tracer = otel.Tracer("canchalibre/courtapi")

type observer interface {
	ObserveUpstream(op string, status int, elapsed time.Duration)
}

type noopObserver struct{}

func (noopObserver) ObserveUpstream(string, int, time.Duration) {}

type Conf struct {
	L          *logger.Logger
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Metrics    observer
}

// Client talks to the remote court booking REST API.
type Client struct {
	l          *logger.Logger
	baseURL    string
	httpClient *http.Client
	metrics    observer
}

func New(conf Conf) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(conf.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	httpClient := conf.HTTPClient
	if httpClient == nil {
		timeout := conf.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}

		//nolint:exhaustruct
		httpClient = &http.Client{Timeout: timeout}
	}

	var metrics observer = noopObserver{}
	if conf.Metrics != nil {
		metrics = conf.Metrics
	}

	l := conf.L
	if l == nil {
		l = logger.Discard()
	}

	return &Client{
		l:          l,
		baseURL:    baseURL,
		httpClient: httpClient,
		metrics:    metrics,
	}
}

type call struct {
	op     string
	method string
	path   string
	query  url.Values
	in     any
	out    any
	header http.Header
}

func (c *Client) do(ctx context.Context, cl call) error {
	ctx, span := tracer.Start(ctx, "courtapi."+cl.op)
	defer span.End()

	span.SetAttributes(
		attribute.String("http.method", cl.method),
		attribute.String("courtapi.op", cl.op),
	)

	var body io.Reader

	if cl.in != nil {
		payload, err := json.Marshal(cl.in)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", cl.op, err)
		}

		body = bytes.NewReader(payload)
	}

	full := c.baseURL + cl.path
	if len(cl.query) > 0 {
		full += "?" + cl.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, full, body)
	if err != nil {
		return fmt.Errorf("build %s request: %w", cl.op, err)
	}

	req.Header.Set("Accept", "application/json")

	if cl.in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	for k, vs := range cl.header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ObserveUpstream(cl.op, 0, time.Since(start))
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport")

		if ctx.Err() != nil {
			return fmt.Errorf("%s: %w", cl.op, ctx.Err())
		}

		return fmt.Errorf("%s: %w: %w", cl.op, ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)

	c.metrics.ObserveUpstream(cl.op, resp.StatusCode, time.Since(start))
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if err != nil {
		return fmt.Errorf("%s: read response: %w: %w", cl.op, ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := decodeAPIError(resp.StatusCode, data)
		span.SetStatus(codes.Error, apiErr.Message)
		c.l.LogWarnf("Court API %s %s answered %d: %s", cl.method, cl.path, resp.StatusCode, apiErr.Message)

		return fmt.Errorf("%s: %w", cl.op, apiErr)
	}

	if cl.out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, cl.out); err != nil {
		return fmt.Errorf("decode %s response: %w", cl.op, err)
	}

	return nil
}

func escape(segment string) string {
	return url.PathEscape(segment)
}

func idempotencyHeader(ctx context.Context) http.Header {
	key, ok := booking.IdempotencyKeyFromContext(ctx)
	if !ok {
		return nil
	}

	h := http.Header{}
	h.Set("Idempotency-Key", key)

	return h
}
