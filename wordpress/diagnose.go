package wordpress

import (
	"strings"
	"time"
)

// Diagnosis is an offline report on how a site's stored settings will be used.
// It issues no network calls.
type Diagnosis struct {
	Name           string    `json:"name"`
	BaseURL        string    `json:"api_url"`
	HasBaseURL     bool      `json:"has_api_url"`
	HasUser        bool      `json:"has_user"`
	HasPassword    bool      `json:"has_api_key"`
	AbsoluteURL    bool      `json:"absolute_url"`
	NormalizedBase string    `json:"normalized_base,omitempty"`
	PostsEndpoint  string    `json:"posts_endpoint,omitempty"`
	MediaEndpoint  string    `json:"media_endpoint,omitempty"`
	ProbeEndpoint  string    `json:"probe_endpoint,omitempty"`
	NonPublic      bool      `json:"non_public"`
	Warnings       []string  `json:"warnings"`
	Environment    string    `json:"environment"`
	GeneratedAt    time.Time `json:"generated_at"`
}

// Diagnose inspects site the same way Publish and Probe would, without
// contacting it. env is reported verbatim.
func Diagnose(site Site, opts Options, env string, now time.Time) Diagnosis {
	d := Diagnosis{
		Name:        site.Name,
		BaseURL:     site.BaseURL,
		HasBaseURL:  strings.TrimSpace(site.BaseURL) != "",
		HasUser:     site.Credentials.User != "",
		HasPassword: site.Credentials.Password != "",
		AbsoluteURL: hasHTTPScheme(site.BaseURL),
		Warnings:    []string{},
		Environment: env,
		GeneratedAt: now.UTC(),
	}

	if !d.HasBaseURL {
		d.Warnings = append(d.Warnings, "the blog has no API URL; publishing will fail")
		return d
	}
	if base, err := NormalizeBase(site.BaseURL); err == nil {
		d.NormalizedBase = base
	}
	if ep, err := NormalizeEndpoint(site.BaseURL, ResourcePosts); err == nil {
		d.PostsEndpoint = ep.URL
		d.NonPublic = ep.NonPublic
	}
	if ep, err := NormalizeEndpoint(site.BaseURL, ResourceMedia); err == nil {
		d.MediaEndpoint = ep.URL
	}
	if ep, err := NormalizeEndpoint(site.BaseURL, ResourceRoot); err == nil {
		d.ProbeEndpoint = ep.URL
	}

	if !d.AbsoluteURL {
		d.Warnings = append(d.Warnings, "the API URL has no scheme; https:// will be assumed")
	}
	if d.HasUser != d.HasPassword {
		d.Warnings = append(d.Warnings, "only one of username and application password is stored")
	} else if !d.HasUser {
		d.Warnings = append(d.Warnings, "no credentials are stored; requests will be unauthenticated")
	}
	if d.NonPublic && opts.Production {
		d.Warnings = append(d.Warnings, "localhost URLs are not reachable from production; use a public address")
	}
	return d
}
