package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"wp-dispatch/logger"
	"wp-dispatch/trace"
)

const (
	headerRequestID = "X-Request-Id"
	headerSpanID    = "X-Span-Id"

	maxBodyLog = 1024
	// 이보다 큰 바디는 앞부분만 읽고 로그에 남기지 않는다.
	maxBodyCapture = 64 << 10
)

// sensitiveKeys 는 로그에 남기기 전에 가려야 하는 JSON 필드이다.
var sensitiveKeys = map[string]struct{}{
	"api_key":     {},
	"wp_password": {},
	"password":    {},
}

// RequestTrace는 모든 inbound HTTP 요청에 대해 Request ID와 Span ID를 보장하고,
// 이를 컨텍스트/헤더에 저장한 뒤 완료 로그에 포함시킨다.
func RequestTrace() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		req := c.Request

		requestID := req.Header.Get(headerRequestID)
		if requestID == "" {
			requestID = trace.GenerateID()
		}

		// inbound 로그는 span_id=0, WordPress/파비콘 호출은 1,2,3,... 로 증가한다.
		ctxWithTrace := trace.WithRequestAndSpan(req.Context(), requestID, 0)
		c.Request = req.WithContext(ctxWithTrace)
		req = c.Request

		currentSpan := trace.CurrentSpanID(ctxWithTrace)
		c.Request.Header.Set(headerRequestID, requestID)
		c.Request.Header.Set(headerSpanID, currentSpan)
		c.Writer.Header().Set(headerRequestID, requestID)
		c.Writer.Header().Set(headerSpanID, currentSpan)

		queryParams := map[string][]string{}
		for key, values := range req.URL.Query() {
			if len(values) > 0 {
				queryParams[key] = values
			}
		}
		bodySnippet := captureBody(c)

		c.Next()

		fields := logger.Fields{
			"method":       req.Method,
			"path":         req.URL.Path,
			"query_params": queryParams,
			"status":       c.Writer.Status(),
			"duration":     time.Since(start).String(),
			"request_id":   requestID,
			"span_id":      trace.CurrentSpanID(c.Request.Context()),
		}
		if bodySnippet != "" {
			fields["body"] = bodySnippet
		}
		logger.InfoWithFields("completed request", fields)
	}
}

// captureBody 는 JSON 요청 바디의 앞부분을 읽어 스니펫으로 반환하고 Body 를 복원한다.
// multipart 바디(첨부 이미지)와 웹훅 원문은 기록하지 않는다.
func captureBody(c *gin.Context) string {
	req := c.Request
	if req.Body == nil || req.ContentLength == 0 {
		return ""
	}
	switch req.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
	default:
		return ""
	}
	if !strings.HasPrefix(req.Header.Get("Content-Type"), "application/json") || strings.HasPrefix(req.URL.Path, "/api/webhooks") {
		return ""
	}

	bodyBytes, err := io.ReadAll(io.LimitReader(req.Body, maxBodyCapture+1))
	// gin 핸들러가 전체 바디를 읽을 수 있도록 읽은 앞부분과 나머지를 이어 붙인다.
	c.Request.Body = struct {
		io.Reader
		io.Closer
	}{io.MultiReader(bytes.NewReader(bodyBytes), req.Body), req.Body}
	if err != nil || len(bodyBytes) > maxBodyCapture {
		return ""
	}

	snippet := redact(bodyBytes)
	if len(snippet) > maxBodyLog {
		snippet = snippet[:maxBodyLog]
	}
	return snippet
}

// redact masks credential fields of a top-level JSON object. Bodies that are
// not an object are not logged at all.
func redact(body []byte) string {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil {
		return ""
	}
	for key := range obj {
		if _, ok := sensitiveKeys[strings.ToLower(key)]; ok {
			obj[key] = json.RawMessage(`"***"`)
		}
	}
	out, err := json.Marshal(obj)
	if err != nil {
		return ""
	}
	return string(out)
}
