package httpclient

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"time"

	"wp-dispatch/logger"
	"wp-dispatch/trace"
)

// Config는 HTTP 클라이언트 공통 설정을 캡슐화한다.
type Config struct {
	// Timeout은 http.Client 수준의 상한이다. 개별 호출은 context로 별도 제한한다.
	Timeout   time.Duration
	UserAgent string
}

const maxBodyLog = 1024

// loggingRoundTripper는 모든 아웃바운드 HTTP 호출에 대해 공통 로깅과
// X-Request-Id 헤더 트레이싱을 수행한다.
// Authorization 헤더는 로그에 남기지 않는다.
type loggingRoundTripper struct {
	inner     http.RoundTripper
	userAgent string
}

func (l *loggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	requestID, spanID := trace.NextSpanID(req.Context())
	req.Header.Set(trace.HeaderRequestID, requestID)
	req.Header.Set(trace.HeaderSpanID, spanID)
	if l.userAgent != "" && req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", l.userAgent)
	}

	query := ""
	if req.URL != nil {
		query = req.URL.RawQuery
	}
	bodySnippet := snippetBody(req)

	resp, err := l.inner.RoundTrip(req)
	duration := time.Since(start)
	fields := logger.Fields{
		"method":     req.Method,
		"url":        req.URL.String(),
		"query":      query,
		"duration":   duration.String(),
		"request_id": requestID,
		"span_id":    spanID,
	}
	if bodySnippet != "" {
		fields["body"] = bodySnippet
	}
	if err != nil {
		fields["error"] = err.Error()
		logger.ErrorWithFields("httpclient request failed", fields)
		return nil, err
	}

	fields["status"] = resp.StatusCode
	logger.DebugWithFields("httpclient request success", fields)
	return resp, nil
}

// CloseIdleConnections는 http.Client.CloseIdleConnections가 내부 Transport까지 전달되도록 한다.
func (l *loggingRoundTripper) CloseIdleConnections() {
	type closeIdler interface{ CloseIdleConnections() }
	if ci, ok := l.inner.(closeIdler); ok {
		ci.CloseIdleConnections()
	}
}

// snippetBody는 JSON/텍스트 요청 바디의 앞부분만 읽어 로깅용 문자열로 돌려주고 바디를 복원한다.
// multipart(미디어 업로드) 등 바이너리 바디는 읽지 않는다.
func snippetBody(req *http.Request) string {
	if req.Body == nil || req.Body == http.NoBody {
		return ""
	}
	ct := strings.ToLower(req.Header.Get("Content-Type"))
	if !strings.HasPrefix(ct, "application/json") && !strings.HasPrefix(ct, "text/") {
		return ""
	}
	bodyBytes, err := io.ReadAll(req.Body)
	if err != nil {
		return ""
	}
	req.Body = io.NopCloser(bytes.NewReader(bodyBytes))
	if len(bodyBytes) > maxBodyLog {
		return string(bodyBytes[:maxBodyLog])
	}
	return string(bodyBytes)
}

// New는 주어진 설정으로 http.Client를 생성한다.
// 클라이언트마다 전용 Transport를 사용하므로 CloseIdleConnections가 다른 클라이언트에 영향을 주지 않는다.
// Timeout이 0이면 기본값 30초를 사용한다.
func New(cfg Config) *http.Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	return &http.Client{
		Timeout:   timeout,
		Transport: &loggingRoundTripper{inner: transport, userAgent: cfg.UserAgent},
	}
}

// NewDefault는 공통 기본 설정을 사용하는 http.Client를 생성한다.
func NewDefault() *http.Client {
	return New(Config{})
}
