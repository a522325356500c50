package favicon

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func newSite(t *testing.T, page string, icons map[string]int) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			w.Header().Set("Content-Type", "text/html")
			_, _ = io.WriteString(w, page)
			return
		}
		status, ok := icons[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		if status == http.StatusMethodNotAllowed && r.Method == http.MethodGet {
			status = http.StatusOK
		}
		w.WriteHeader(status)
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestResolver(server *httptest.Server) *Resolver {
	var client *http.Client
	if server != nil {
		client = server.Client()
	}
	return NewResolver(client, Config{Timeout: time.Second})
}

func hostOf(t *testing.T, raw string) string {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u.Hostname()
}

func TestResolvePrefersIconLinkByPriority(t *testing.T) {
	page := `<html><head>
		<link rel="apple-touch-icon" href="/apple.png">
		<link rel="Shortcut Icon" href="/shortcut.ico">
		<link rel="icon" href="static/icon.png">
	</head><body></body></html>`
	server := newSite(t, page, map[string]int{"/static/icon.png": http.StatusOK})

	res := newTestResolver(server).ResolveDetailed(context.Background(), server.URL+"/")

	assert.Equal(t, server.URL+"/static/icon.png", res.URL)
	assert.Equal(t, StepVerify, res.Source())
	require.Len(t, res.Steps, 2)
	assert.Equal(t, OutcomeFound, res.Steps[0].Kind)
}

func TestResolveDefaultsToFaviconICO(t *testing.T) {
	server := newSite(t, `<html><head><title>no icons</title></head></html>`, map[string]int{"/favicon.ico": http.StatusOK})

	res := newTestResolver(server).ResolveDetailed(context.Background(), server.URL)

	assert.Equal(t, server.URL+"/favicon.ico", res.URL)
	require.Len(t, res.Steps, 3)
	assert.Equal(t, OutcomeMissing, res.Steps[0].Kind)
	assert.Equal(t, StepConventional, res.Steps[1].Step)
}

func TestResolveRetriesWithGETWhenHEADNotAllowed(t *testing.T) {
	server := newSite(t, `<link rel="icon" href="/icon.svg">`, map[string]int{"/icon.svg": http.StatusMethodNotAllowed})

	got := newTestResolver(server).Resolve(context.Background(), server.URL)
	assert.Equal(t, server.URL+"/icon.svg", got)
}

func TestResolveMissingIconFallsBackToService(t *testing.T) {
	server := newSite(t, `<link rel="icon" href="/gone.png">`, nil)

	res := newTestResolver(server).ResolveDetailed(context.Background(), server.URL)

	want := "https://www.google.com/s2/favicons?domain=" + hostOf(t, server.URL) + "&sz=128"
	assert.Equal(t, want, res.URL)
	assert.Equal(t, StepFallback, res.Source())
	assert.Equal(t, OutcomeRejected, res.Steps[1].Kind)
	assert.Equal(t, http.StatusNotFound, res.Steps[1].Status)
}

func TestResolveUnreachableHostNeverFails(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	target := server.URL
	server.Close()

	res := newTestResolver(nil).ResolveDetailed(context.Background(), target)

	assert.True(t, strings.HasPrefix(res.URL, "https://www.google.com/s2/favicons?domain="+hostOf(t, target)))
	require.Len(t, res.Steps, 2)
	assert.Equal(t, OutcomeUnreachable, res.Steps[0].Kind)
}

func TestResolveBareHostAndGarbage(t *testing.T) {
	resolver := NewResolver(&http.Client{Transport: failingTransport{}}, Config{FallbackURL: "https://icons.example/%s.ico"})

	assert.Equal(t, "https://icons.example/example.org.ico", resolver.Resolve(context.Background(), "example.org/about"))
	assert.NotEmpty(t, resolver.Resolve(context.Background(), ""))
	assert.NotEmpty(t, resolver.Resolve(context.Background(), "http://"))
}

type failingTransport struct{}

func (failingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	return nil, io.ErrUnexpectedEOF
}

func TestFindIconHref(t *testing.T) {
	testCases := []struct {
		name string
		page string
		want string
	}{
		{name: "no links", page: `<p>hi</p>`, want: ""},
		{name: "data uri skipped", page: `<link rel="icon" href="data:image/png;base64,AAAA"><link rel="apple-touch-icon" href="/a.png">`, want: "/a.png"},
		{name: "precomposed last", page: `<link rel="apple-touch-icon-precomposed" href="/p.png"><link rel="shortcut   icon" href="/s.ico">`, want: "/s.ico"},
		{name: "first of same rel wins", page: `<link rel="icon" href="/1.png"><link rel="icon" href="/2.png">`, want: "/1.png"},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			doc, err := html.Parse(strings.NewReader(testCase.page))
			if err != nil {
				t.Fatalf("failed to parse html: %v", err)
			}
			if got := findIconHref(doc); got != testCase.want {
				t.Fatalf("expected %q, got %q", testCase.want, got)
			}
		})
	}
}

func TestResolveHref(t *testing.T) {
	page, _ := url.Parse("https://blog.example/2024/01/post")
	testCases := map[string]string{
		"/icon.png":                     "https://blog.example/icon.png",
		"icon.png":                      "https://blog.example/icon.png",
		"//cdn.example/icon.png":        "https://cdn.example/icon.png",
		"https://other.example/fav.ico": "https://other.example/fav.ico",
	}
	for href, want := range testCases {
		got, err := resolveHref(page, href)
		require.NoError(t, err)
		assert.Equal(t, want, got, href)
	}
}
