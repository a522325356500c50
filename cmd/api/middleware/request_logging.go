package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"wp-dispatch/logger"
)

// RequestLogging 는 요청 진입부터 응답까지 걸린 시간을 로깅한다.
// 4xx/5xx 응답은 warn 레벨로 남긴다.
func RequestLogging() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		status := c.Writer.Status()
		fields := logger.Fields{
			"method":      method,
			"path":        path,
			"route":       c.FullPath(),
			"status":      status,
			"duration_ms": time.Since(start).Milliseconds(),
		}
		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
		}
		if status >= 400 {
			logger.WarnWithFields("api_request", fields)
			return
		}
		logger.InfoWithFields("api_request", fields)
	}
}
