package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"strings"
	"time"

	"poultrydx/pkg/types"
)

const (
	// DefaultTimeout bounds a single webhook call.
	DefaultTimeout          = 60 * time.Second
	defaultMaxResponseBytes = 1 << 20
	errorBodySnippet        = 4096
)

// Options configures a Client. Endpoint is required; the rest have defaults.
type Options struct {
	Endpoint         string
	PathMarker       string
	Timeout          time.Duration
	MaxResponseBytes int64
	// HTTPClient overrides the default transport (tests, proxies).
	HTTPClient *http.Client
}

// Client posts diagnosis requests to one webhook endpoint. The endpoint is
// fixed at construction.
type Client struct {
	endpoint   string
	timeout    time.Duration
	maxBody    int64
	httpClient *http.Client
}

// RawResult is the undecoded reply of a successful (2xx) webhook call.
type RawResult struct {
	Status   int
	Header   http.Header
	Body     []byte
	Duration time.Duration
}

// NewClient validates the endpoint and builds a Client. A bad endpoint yields
// a *ConfigurationError and no client.
func NewClient(opts Options) (*Client, error) {
	if err := ValidateEndpoint(opts.Endpoint, opts.PathMarker); err != nil {
		return nil, err
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	maxBody := opts.MaxResponseBytes
	if maxBody <= 0 {
		maxBody = defaultMaxResponseBytes
	}
	cli := opts.HTTPClient
	if cli == nil {
		tr := &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   10 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:          10,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
		}
		// Timeout stays 0: Send applies the deadline through the request context.
		cli = &http.Client{Transport: tr}
	}
	return &Client{
		endpoint:   strings.TrimSpace(opts.Endpoint),
		timeout:    timeout,
		maxBody:    maxBody,
		httpClient: cli,
	}, nil
}

// Endpoint returns the configured webhook URL.
func (c *Client) Endpoint() string { return c.endpoint }

// Timeout returns the per-call deadline.
func (c *Client) Timeout() time.Duration { return c.timeout }

// Send performs exactly one POST of req as JSON. Network errors, the timeout
// and non-2xx statuses are returned as *TransportError. There are no retries.
func (c *Client) Send(ctx context.Context, req types.DiagnosisRequest) (RawResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return RawResult{}, fmt.Errorf("encode request: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return RawResult{}, &TransportError{Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json, text/plain;q=0.9, */*;q=0.8")

	logStart(req)
	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		te := &TransportError{Err: err, Timeout: isTimeout(ctx, err)}
		c.observe(te, start)
		return RawResult{}, te
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodySnippet))
		te := &TransportError{Status: resp.StatusCode, Body: strings.TrimSpace(string(b))}
		c.observe(te, start)
		return RawResult{}, te
	}

	b, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		te := &TransportError{Err: fmt.Errorf("read response: %w", err), Timeout: isTimeout(ctx, err)}
		c.observe(te, start)
		return RawResult{}, te
	}
	if int64(len(b)) > c.maxBody {
		te := &TransportError{Err: fmt.Errorf("response body exceeds %d bytes", c.maxBody)}
		c.observe(te, start)
		return RawResult{}, te
	}
	res := RawResult{
		Status:   resp.StatusCode,
		Header:   resp.Header.Clone(),
		Body:     b,
		Duration: time.Since(start),
	}
	c.observe(nil, start)
	return res, nil
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

func outcomeOf(te *TransportError) string {
	switch {
	case te == nil:
		return outcomeOK
	case te.Status != 0:
		return outcomeHTTPError
	case te.Timeout:
		return outcomeTimeout
	default:
		return outcomeNetworkError
	}
}

func (c *Client) observe(te *TransportError, start time.Time) {
	dur := time.Since(start)
	outcome := outcomeOf(te)
	requestsTotal.WithLabelValues(outcome).Inc()
	requestDuration.WithLabelValues(outcome).Observe(dur.Seconds())

	var err error
	if te != nil {
		err = te
	}
	if zlog != nil {
		ev := zlog.Info()
		if err != nil {
			ev = zlog.Warn().Err(err)
		}
		ev.Str("outcome", outcome).Dur("dur", dur).Msg("webhook send end")
		return
	}
	if err != nil {
		log.Printf("webhook send end outcome=%s dur=%s err=%v", outcome, dur, err)
	}
}

func logStart(req types.DiagnosisRequest) {
	if zlog == nil {
		return
	}
	zlog.Debug().
		Str("species", string(req.Species)).
		Int("age_weeks", req.AgeWeeks).
		Int("symptoms_len", len(req.Symptoms)).
		Msg("webhook send start")
}
