package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wp-dispatch/cmd/api/auth"
)

type stubParser struct {
	sub string
	err error
}

func (p stubParser) Parse(string) (string, error) { return p.sub, p.err }

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw...)
	r.Any("/echo", func(c *gin.Context) {
		body, _ := io.ReadAll(c.Request.Body)
		sub, _ := auth.SubjectFromContext(c)
		c.JSON(http.StatusOK, gin.H{"body": string(body), "sub": sub})
	})
	return r
}

func TestSessionAuth(t *testing.T) {
	cases := []struct {
		name       string
		parser     TokenParser
		header     string
		wantStatus int
		wantSub    string
	}{
		{name: "disabled", parser: nil, wantStatus: http.StatusOK},
		{name: "missing header", parser: stubParser{sub: "u"}, wantStatus: http.StatusUnauthorized},
		{name: "invalid token", parser: stubParser{err: errors.New("bad")}, header: "Bearer x", wantStatus: http.StatusUnauthorized},
		{name: "valid token", parser: stubParser{sub: "user_1"}, header: "Bearer x", wantStatus: http.StatusOK, wantSub: "user_1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newEngine(SessionAuth(tc.parser))
			req := httptest.NewRequest(http.MethodGet, "/echo", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tc.wantStatus, w.Code)
			if tc.wantSub != "" {
				assert.Contains(t, w.Body.String(), tc.wantSub)
			}
		})
	}
}

func TestRequestTraceKeepsBodyAndSetsHeaders(t *testing.T) {
	r := newEngine(RequestTrace())

	req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(`{"title":"hi","wp_password":"secret"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(headerRequestID, "req-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "req-123", w.Header().Get(headerRequestID))
	assert.Equal(t, "0", w.Header().Get(headerSpanID))
	assert.Contains(t, w.Body.String(), `wp_password`)
}

func TestRequestTraceLargeBodyReachesHandlerWhole(t *testing.T) {
	r := newEngine(RequestTrace())

	payload := `{"content":"` + strings.Repeat("x", maxBodyCapture*2) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var got struct {
		Body string `json:"body"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, payload, got.Body)
}

func TestRedact(t *testing.T) {
	out := redact([]byte(`{"title":"hi","wp_password":"secret","API_KEY":"k"}`))
	assert.NotContains(t, out, "secret")
	assert.NotContains(t, out, `"k"`)
	assert.Contains(t, out, `"title":"hi"`)

	assert.Empty(t, redact([]byte(`["not","an","object"]`)))
}
