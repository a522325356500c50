package wordpress

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"wp-dispatch/logger"
)

// StageProbing marks errors raised while reading the discovery document.
const StageProbing Stage = "probing"

// ProbeResult is what a reachable site reports about itself.
type ProbeResult struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	URL         string   `json:"url,omitempty"`
	Routes      []string `json:"routes"`
	// Authenticated is true when the probe carried credentials.
	Authenticated bool `json:"authenticated"`
}

// Prober checks a site's configuration against GET {base}/wp-json without
// creating content.
type Prober struct {
	client *Client
}

func NewProber(client *Client) *Prober {
	return &Prober{client: client}
}

func (p *Prober) Probe(ctx context.Context, site Site) (*ProbeResult, error) {
	ep, err := NormalizeEndpoint(site.BaseURL, ResourceRoot)
	if err != nil {
		return nil, err
	}
	if err := p.client.guard(ep, StageProbing); err != nil {
		return nil, err
	}

	var authHeader string
	if creds, ok := ResolveCredentials(site.Credentials, Credentials{}); ok {
		authHeader = creds.Header()
	}

	resp, err := p.client.send(ctx, StageProbing, outgoing{
		method: http.MethodGet,
		url:    ep.URL,
		auth:   authHeader,
	})
	if err != nil {
		logger.WarnWithFields("wordpress probe failed", logger.Fields{"site": site.Name, "endpoint": ep.URL, "error": err.Error()})
		return nil, err
	}
	if !resp.ok() {
		rerr := remoteError(KindRemoteRejection, StageProbing, "WordPress rejected the connection test", resp)
		logger.WarnWithFields("wordpress probe rejected", logger.Fields{"site": site.Name, "endpoint": ep.URL, "status": resp.status})
		return nil, rerr
	}

	var doc struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		URL         string `json:"url"`
	}
	if err := json.Unmarshal(resp.body, &doc); err != nil {
		return nil, &Error{
			Kind:    KindRemoteRejection,
			Stage:   StageProbing,
			Status:  resp.status,
			Message: "the discovery document is not valid JSON",
			Details: readFailureDetail(resp).details,
			Err:     err,
		}
	}

	result := &ProbeResult{
		Name:          doc.Name,
		Description:   doc.Description,
		URL:           doc.URL,
		Routes:        routeNames(resp.body, p.client.opts.routeLimit()),
		Authenticated: authHeader != "",
	}
	logger.InfoWithFields("wordpress probe succeeded", logger.Fields{
		"site":     site.Name,
		"endpoint": ep.URL,
		"routes":   len(result.Routes),
	})
	return result, nil
}

// routeNames returns up to limit keys of the top-level "routes" object in
// document order. encoding/json maps lose ordering, so the tokens are walked.
func routeNames(body []byte, limit int) []string {
	dec := json.NewDecoder(bytes.NewReader(body))
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return []string{}
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return []string{}
		}
		key, _ := tok.(string)
		if key != "routes" {
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return []string{}
			}
			continue
		}
		return objectKeys(dec, limit)
	}
	return []string{}
}

func objectKeys(dec *json.Decoder, limit int) []string {
	keys := []string{}
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return keys
	}
	for dec.More() && len(keys) < limit {
		tok, err := dec.Token()
		if err != nil {
			return keys
		}
		if key, ok := tok.(string); ok {
			keys = append(keys, key)
		}
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return keys
		}
	}
	return keys
}
