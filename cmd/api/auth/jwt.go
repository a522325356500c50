package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"wp-dispatch/config"
)

var ErrMissingSecret = errors.New("jwt secret is required")

// JWTManager 는 HS256 단일 시크릿 문자열로 세션 토큰을 검증한다.
// sub 클레임은 identity provider 의 사용자 ID(external_id)이다.
type JWTManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewJWTManager 는 설정에서 시크릿/issuer 를 읽어 JWTManager 를 생성한다.
//
// - auth.jwt_secret (JWT_SECRET): 필수
// - auth.jwt_issuer (JWT_ISSUER): 선택, 기본값 "wp-dispatch"
func NewJWTManager(cfg config.AuthConfig) (*JWTManager, error) {
	if cfg.JWTSecret == "" {
		return nil, ErrMissingSecret
	}
	issuer := cfg.JWTIssuer
	if issuer == "" {
		issuer = "wp-dispatch"
	}
	return &JWTManager{
		secret: []byte(cfg.JWTSecret),
		issuer: issuer,
		ttl:    24 * time.Hour,
	}, nil
}

// Sign 은 로컬 개발/테스트용 세션 토큰을 발급한다.
func (m *JWTManager) Sign(externalID string) (string, error) {
	claims := jwt.MapClaims{
		"sub": externalID,
		"iss": m.issuer,
		"exp": time.Now().Add(m.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Parse 는 토큰을 검증하고 sub 클레임을 반환한다.
func (m *JWTManager) Parse(tokenString string) (string, error) {
	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return "", fmt.Errorf("invalid token claims")
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", fmt.Errorf("token missing sub claim")
	}
	return sub, nil
}
