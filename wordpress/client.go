package wordpress

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"wp-dispatch/httpclient"
)

const (
	defaultRequestTimeout = 15 * time.Second
	defaultRouteLimit     = 10
	maxResponseBytes      = 1 << 20
)

// Options are the per-deployment settings shared by the publisher and prober.
type Options struct {
	// Production enables the non-public host guard.
	Production      bool
	RequestTimeout  time.Duration
	ProbeRouteLimit int
	UserAgent       string
}

func (o Options) timeout() time.Duration {
	if o.RequestTimeout <= 0 {
		return defaultRequestTimeout
	}
	return o.RequestTimeout
}

func (o Options) routeLimit() int {
	if o.ProbeRouteLimit <= 0 {
		return defaultRouteLimit
	}
	return o.ProbeRouteLimit
}

// Client performs the raw HTTP exchanges with a WordPress site.
// It is safe for concurrent use; every call carries its own timeout.
type Client struct {
	http *http.Client
	opts Options
}

// NewClient wraps httpClient. A nil httpClient gets a logging client whose
// own timeout sits above the per-call timeout.
func NewClient(httpClient *http.Client, opts Options) *Client {
	if httpClient == nil {
		httpClient = httpclient.New(httpclient.Config{
			Timeout:   opts.timeout() + 5*time.Second,
			UserAgent: opts.UserAgent,
		})
	}
	return &Client{http: httpClient, opts: opts}
}

// Options returns the settings the client was built with.
func (c *Client) Options() Options { return c.opts }

// guard rejects loopback endpoints when running in production.
func (c *Client) guard(ep Endpoint, stage Stage) error {
	if c.opts.Production && ep.NonPublic {
		return &Error{
			Kind:    KindEnvironmentMismatch,
			Stage:   stage,
			Message: "localhost URLs are not reachable from production; update the blog with a public address",
			Details: ep.URL,
		}
	}
	return nil
}

type outgoing struct {
	method      string
	url         string
	auth        string
	contentType string
	body        []byte
}

type response struct {
	status int
	body   []byte
	// readErr is set when the body could not be read after headers arrived.
	readErr error
}

func (r response) ok() bool { return r.status >= 200 && r.status < 300 }

// send issues one request under its own timeout. Transport failures come back
// as KindNetwork errors; HTTP error statuses are returned as responses.
func (c *Client) send(ctx context.Context, stage Stage, out outgoing) (response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.opts.timeout())
	defer cancel()

	var body io.Reader
	if out.body != nil {
		body = bytes.NewReader(out.body)
	}
	req, err := http.NewRequestWithContext(ctx, out.method, out.url, body)
	if err != nil {
		return response{}, &Error{Kind: KindConfiguration, Stage: stage, Message: "invalid endpoint URL", Details: out.url, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if out.contentType != "" {
		req.Header.Set("Content-Type", out.contentType)
	}
	if out.auth != "" {
		req.Header.Set("Authorization", out.auth)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.dropConnections(ctx)
		return response{}, networkError(stage, err)
	}
	defer resp.Body.Close()

	data, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if readErr != nil {
		c.dropConnections(ctx)
	}
	return response{status: resp.StatusCode, body: data, readErr: readErr}, nil
}

// dropConnections closes pooled connections after a cancelled exchange so the
// next call never reuses a half-finished connection.
func (c *Client) dropConnections(ctx context.Context) {
	if ctx.Err() != nil {
		c.http.CloseIdleConnections()
	}
}

func networkError(stage Stage, err error) *Error {
	timeout := errors.Is(err, context.DeadlineExceeded)
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		timeout = true
	}
	msg := "could not reach WordPress"
	if timeout {
		msg = "WordPress did not respond in time"
	}
	return &Error{Kind: KindNetwork, Stage: stage, Timeout: timeout, Message: msg, Err: err}
}

// failureDetail extracts details from a non-2xx response: compacted JSON first,
// raw text second, NoDetail last. WordPress error bodies carry code and message.
type failureDetail struct {
	details string
	code    string
	message string
}

func readFailureDetail(r response) failureDetail {
	if r.readErr != nil {
		return failureDetail{details: NoDetail}
	}
	trimmed := bytes.TrimSpace(r.body)
	if len(trimmed) == 0 {
		return failureDetail{details: NoDetail}
	}
	if json.Valid(trimmed) {
		var buf bytes.Buffer
		_ = json.Compact(&buf, trimmed)
		fd := failureDetail{details: buf.String()}
		var wpErr struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		if err := json.Unmarshal(trimmed, &wpErr); err == nil {
			fd.code = wpErr.Code
			fd.message = wpErr.Message
		}
		return fd
	}
	return failureDetail{details: string(trimmed)}
}

func remoteError(kind Kind, stage Stage, summary string, r response) *Error {
	fd := readFailureDetail(r)
	msg := summary
	if fd.message != "" {
		msg = summary + ": " + strings.TrimSpace(fd.message)
	}
	return &Error{
		Kind:    kind,
		Stage:   stage,
		Status:  r.status,
		Code:    fd.code,
		Message: msg,
		Details: fd.details,
	}
}
