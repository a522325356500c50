// Package favicon finds an icon URL for an arbitrary site. Resolution never
// fails: when every discovery step comes up empty the resolver returns a
// third-party favicon-by-domain URL.
package favicon

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"wp-dispatch/httpclient"
	"wp-dispatch/logger"
)

const (
	DefaultFallbackURL = "https://www.google.com/s2/favicons?domain=%s&sz=128"
	defaultTimeout     = 5 * time.Second
	maxPageBytes       = 2 << 20
)

// OutcomeKind tags the result of one step of the chain.
type OutcomeKind string

const (
	OutcomeFound       OutcomeKind = "found"
	OutcomeMissing     OutcomeKind = "missing"
	OutcomeUnreachable OutcomeKind = "unreachable"
	OutcomeParseFailed OutcomeKind = "parse_failed"
	OutcomeRejected    OutcomeKind = "rejected"
)

// Step names, in chain order.
const (
	StepScrape       = "scrape"
	StepConventional = "conventional"
	StepVerify       = "verify"
	StepFallback     = "fallback"
)

// Outcome records what one step produced.
type Outcome struct {
	Step   string      `json:"step"`
	Kind   OutcomeKind `json:"kind"`
	URL    string      `json:"url,omitempty"`
	Status int         `json:"status,omitempty"`
	Err    string      `json:"error,omitempty"`
}

// Result is the resolved icon plus the outcome of every step that ran.
type Result struct {
	URL   string    `json:"favicon"`
	Steps []Outcome `json:"steps"`
}

// Source is the step whose URL was returned.
func (r Result) Source() string {
	if len(r.Steps) == 0 {
		return ""
	}
	return r.Steps[len(r.Steps)-1].Step
}

type Config struct {
	// Timeout bounds each network step separately.
	Timeout time.Duration
	// FallbackURL is a fmt template with one %s for the host name.
	FallbackURL string
	UserAgent   string
}

type Resolver struct {
	client      *http.Client
	timeout     time.Duration
	fallbackURL string
}

// NewResolver builds a resolver. A nil client gets the shared logging client.
func NewResolver(client *http.Client, cfg Config) *Resolver {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.FallbackURL == "" || !strings.Contains(cfg.FallbackURL, "%s") {
		cfg.FallbackURL = DefaultFallbackURL
	}
	if client == nil {
		client = httpclient.New(httpclient.Config{Timeout: cfg.Timeout + time.Second, UserAgent: cfg.UserAgent})
	}
	return &Resolver{client: client, timeout: cfg.Timeout, fallbackURL: cfg.FallbackURL}
}

// Resolve returns a non-empty icon URL for siteURL.
func (r *Resolver) Resolve(ctx context.Context, siteURL string) string {
	return r.ResolveDetailed(ctx, siteURL).URL
}

// ResolveDetailed runs the chain: scrape the page for icon links, default to
// /favicon.ico when none is declared, verify the candidate exists, and fall
// back to the favicon service whenever a step yields nothing usable.
func (r *Resolver) ResolveDetailed(ctx context.Context, siteURL string) Result {
	var res Result
	record := func(o Outcome) Outcome {
		res.Steps = append(res.Steps, o)
		return o
	}

	page, ok := parseSiteURL(siteURL)
	if !ok {
		return r.finish(&res, siteURL, record)
	}

	scraped := record(r.scrape(ctx, page))
	var candidate string
	switch scraped.Kind {
	case OutcomeFound:
		candidate = scraped.URL
	case OutcomeMissing, OutcomeParseFailed:
		candidate = record(defaultIcon(page)).URL
	default:
		// An unreachable page means /favicon.ico on the same host is not tried either.
		return r.finish(&res, page.Hostname(), record)
	}

	if verified := record(r.verify(ctx, candidate)); verified.Kind == OutcomeFound {
		res.URL = verified.URL
		r.log(siteURL, res)
		return res
	}
	return r.finish(&res, page.Hostname(), record)
}

func (r *Resolver) finish(res *Result, host string, record func(Outcome) Outcome) Result {
	res.URL = record(r.fallback(host)).URL
	r.log(host, *res)
	return *res
}

func (r *Resolver) log(site string, res Result) {
	kinds := make([]string, 0, len(res.Steps))
	for _, s := range res.Steps {
		kinds = append(kinds, s.Step+"="+string(s.Kind))
	}
	logger.DebugWithFields("favicon resolved", logger.Fields{
		"site":    site,
		"favicon": res.URL,
		"source":  res.Source(),
		"steps":   strings.Join(kinds, ","),
	})
}

// parseSiteURL accepts bare host names by assuming https.
func parseSiteURL(raw string) (*url.URL, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, false
	}
	lower := strings.ToLower(raw)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		raw = "https://" + strings.TrimLeft(raw, "/")
	}
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return nil, false
	}
	return u, true
}

func origin(u *url.URL) *url.URL {
	return &url.URL{Scheme: u.Scheme, Host: u.Host, Path: "/"}
}

func defaultIcon(page *url.URL) Outcome {
	ico := origin(page).ResolveReference(&url.URL{Path: "/favicon.ico"})
	return Outcome{Step: StepConventional, Kind: OutcomeFound, URL: ico.String()}
}

// verify checks the candidate with HEAD, retrying with GET for servers that
// do not implement HEAD.
func (r *Resolver) verify(ctx context.Context, candidate string) Outcome {
	out := Outcome{Step: StepVerify, URL: candidate}

	status, err := r.check(ctx, http.MethodHead, candidate)
	if err == nil && (status == http.StatusMethodNotAllowed || status == http.StatusNotImplemented) {
		status, err = r.check(ctx, http.MethodGet, candidate)
	}
	out.Status = status
	switch {
	case err != nil:
		out.Kind = OutcomeUnreachable
		out.Err = err.Error()
	case status >= 200 && status < 300:
		out.Kind = OutcomeFound
	default:
		out.Kind = OutcomeRejected
	}
	return out
}

func (r *Resolver) check(ctx context.Context, method, target string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return 0, err
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return 0, err
	}
	resp.Body.Close()
	return resp.StatusCode, nil
}

func (r *Resolver) fallback(host string) Outcome {
	return Outcome{
		Step: StepFallback,
		Kind: OutcomeFound,
		URL:  fmt.Sprintf(r.fallbackURL, url.QueryEscape(strings.TrimSpace(host))),
	}
}
