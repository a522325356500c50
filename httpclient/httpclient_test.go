package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"wp-dispatch/trace"
)

func TestRoundTripPropagatesTraceHeaders(t *testing.T) {
	var gotRequestID, gotSpanID, gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRequestID = r.Header.Get(trace.HeaderRequestID)
		gotSpanID = r.Header.Get(trace.HeaderSpanID)
		gotUA = r.Header.Get("User-Agent")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := New(Config{UserAgent: "wp-dispatch-test"})
	ctx := trace.WithRequestAndSpan(context.Background(), "req-1", 0)

	for i, wantSpan := range []string{"1", "2"} {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, srv.URL, strings.NewReader(`{"a":1}`))
		if err != nil {
			t.Fatalf("new request: %v", err)
		}
		req.Header.Set("Content-Type", "application/json")
		resp, err := client.Do(req)
		if err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
		resp.Body.Close()

		if gotRequestID != "req-1" {
			t.Fatalf("expected request id req-1, got %q", gotRequestID)
		}
		if gotSpanID != wantSpan {
			t.Fatalf("expected span %s, got %q", wantSpan, gotSpanID)
		}
	}
	if gotUA != "wp-dispatch-test" {
		t.Fatalf("expected user agent to be set, got %q", gotUA)
	}
}

func TestSnippetBodySkipsMultipart(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "http://example.com", strings.NewReader("binary"))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=x")
	if got := snippetBody(req); got != "" {
		t.Fatalf("expected no snippet for multipart body, got %q", got)
	}
}
