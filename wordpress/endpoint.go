package wordpress

import (
	"net/url"
	"strings"
)

// Resource is a REST path appended to a blog's base URL.
type Resource string

const (
	ResourceRoot  Resource = "/wp-json"
	ResourcePosts Resource = "/wp-json/wp/v2/posts"
	ResourceMedia Resource = "/wp-json/wp/v2/media"
)

// Endpoint is an absolute REST URL derived from a stored base URL.
type Endpoint struct {
	URL string
	// NonPublic is set for loopback hosts that are unreachable from production.
	NonPublic bool
}

// NormalizeEndpoint builds the REST URL for resource from a user-entered base URL.
// Malformed bases are coerced rather than rejected; only an empty base fails.
func NormalizeEndpoint(base string, resource Resource) (Endpoint, error) {
	if base == "" {
		return Endpoint{}, configurationError("missing endpoint")
	}

	trimmed := strings.TrimSuffix(base, "/")
	// Bases saved with part of the REST path ("https://x.com/wp-json/wp/v2") are cut
	// back to the site root so the resource is never appended twice.
	if idx := strings.Index(trimmed, string(ResourceRoot)); idx >= 0 && isSegmentEnd(trimmed, idx+len(ResourceRoot)) {
		trimmed = trimmed[:idx]
	}

	endpoint := trimmed + string(resource)
	if !hasHTTPScheme(endpoint) {
		endpoint = "https://" + strings.TrimLeft(endpoint, "/")
	}

	return Endpoint{URL: endpoint, NonPublic: isNonPublicHost(endpoint)}, nil
}

// NormalizeBase returns the scheme-qualified site root without a trailing slash.
func NormalizeBase(base string) (string, error) {
	ep, err := NormalizeEndpoint(base, ResourceRoot)
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(ep.URL, string(ResourceRoot)), nil
}

func isSegmentEnd(s string, i int) bool {
	return i == len(s) || s[i] == '/' || s[i] == '?' || s[i] == '#'
}

func hasHTTPScheme(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

func isNonPublicHost(endpoint string) bool {
	host := endpoint
	if u, err := url.Parse(endpoint); err == nil && u.Host != "" {
		host = u.Host
	}
	host = strings.ToLower(host)
	return strings.Contains(host, "localhost") || strings.Contains(host, "127.0.0.1")
}
