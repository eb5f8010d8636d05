package pkg

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenExpired      = errors.New("token expired")
	ErrTokenInvalid      = errors.New("token invalid")
	ErrTokenParseFailure = errors.New("token parse failure")
)

const AccessTTL = time.Minute * 30

// AccessSecret 登录态由外部系统签发，这里只需共享同一个 HS256 密钥做校验
var AccessSecret = []byte(envOr("JWT_SECRET", "secret-key"))

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

type Claims struct {
	UserID uint64 `json:"user_id"`
	jwt.RegisteredClaims
}

// GenerateAccess 测试和本地联调用；生产 token 由外部登录服务签发
func GenerateAccess(userID uint64) (string, error) {
	now := time.Now()
	access := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(AccessTTL)),
			Subject:   "access",
		},
	})
	return access.SignedString(AccessSecret)
}

// ParseAccess 解析 access token
func ParseAccess(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		return AccessSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			return nil, ErrTokenInvalid
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		default:
			return nil, err
		}
	}
	if !token.Valid {
		return nil, ErrTokenParseFailure
	}
	return token.Claims.(*Claims), nil
}
