package middleware

import (
	"github.com/gin-gonic/gin"

	"wp-dispatch/cmd/api/auth"
	"wp-dispatch/logger"
)

// TokenParser verifies a session token and returns its subject.
type TokenParser interface {
	Parse(token string) (string, error)
}

// SessionAuth 는 요청 헤더의 Bearer 토큰을 검증하고 sub(external user id)를
// 컨텍스트에 저장한다. parser 가 nil 이면 인증 없이 통과시킨다.
func SessionAuth(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		if parser == nil {
			c.Next()
			return
		}

		token, err := auth.ExtractBearerToken(c)
		if err != nil {
			auth.AbortWithUnauthorized(c, err)
			return
		}

		sub, err := parser.Parse(token)
		if err != nil {
			logger.WarnWithFields("session token rejected", logger.Fields{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			})
			auth.AbortWithUnauthorized(c, auth.ErrInvalidToken)
			return
		}

		c.Set(auth.ContextKeySubject, sub)
		c.Next()
	}
}
