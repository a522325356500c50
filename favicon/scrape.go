package favicon

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// iconRels are the link relations searched, highest priority first.
var iconRels = []string{
	"icon",
	"shortcut icon",
	"apple-touch-icon",
	"apple-touch-icon-precomposed",
}

func (r *Resolver) scrape(ctx context.Context, page *url.URL) Outcome {
	out := Outcome{Step: StepScrape}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, page.String(), nil)
	if err != nil {
		out.Kind = OutcomeUnreachable
		out.Err = err.Error()
		return out
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := r.client.Do(req)
	if err != nil {
		out.Kind = OutcomeUnreachable
		out.Err = err.Error()
		return out
	}
	defer resp.Body.Close()

	out.Status = resp.StatusCode
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		out.Kind = OutcomeRejected
		out.Err = fmt.Sprintf("page returned status %d", resp.StatusCode)
		return out
	}

	doc, err := html.Parse(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		out.Kind = OutcomeParseFailed
		out.Err = err.Error()
		return out
	}

	href := findIconHref(doc)
	if href == "" {
		out.Kind = OutcomeMissing
		return out
	}
	resolved, err := resolveHref(page, href)
	if err != nil {
		out.Kind = OutcomeParseFailed
		out.Err = err.Error()
		return out
	}
	out.Kind = OutcomeFound
	out.URL = resolved
	return out
}

// findIconHref returns the href of the highest priority icon link.
func findIconHref(doc *html.Node) string {
	byRel := make(map[string]string, len(iconRels))
	goquery.NewDocumentFromNode(doc).Find("link[rel][href]").Each(func(_ int, s *goquery.Selection) {
		rel := normalizeRel(s.AttrOr("rel", ""))
		href := strings.TrimSpace(s.AttrOr("href", ""))
		if href == "" || strings.HasPrefix(strings.ToLower(href), "data:") {
			return
		}
		if _, seen := byRel[rel]; !seen {
			byRel[rel] = href
		}
	})
	for _, rel := range iconRels {
		if href, ok := byRel[rel]; ok {
			return href
		}
	}
	return ""
}

func normalizeRel(rel string) string {
	return strings.Join(strings.Fields(strings.ToLower(rel)), " ")
}

// resolveHref makes href absolute against the page origin.
func resolveHref(page *url.URL, href string) (string, error) {
	ref, err := url.Parse(href)
	if err != nil {
		return "", err
	}
	if ref.IsAbs() {
		return ref.String(), nil
	}
	return origin(page).ResolveReference(ref).String(), nil
}
