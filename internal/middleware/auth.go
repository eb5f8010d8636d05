package middleware

import (
	"net/http"
	"strings"

	"commune/internal/pkg"

	"github.com/gin-gonic/gin"
)

const ContextUserIDKey = "user_id"

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}

// AuthRequired 无有效 token 直接 401
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}
		claims, err := pkg.ParseAccess(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}
		c.Set(ContextUserIDKey, claims.UserID)
		c.Next()
	}
}

// AuthOptional 匿名放行；带了 token 但无效的同样按匿名处理，
// 公开内容的可读性不因过期登录态受影响
func AuthOptional() gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenStr, ok := bearerToken(c); ok {
			if claims, err := pkg.ParseAccess(tokenStr); err == nil {
				c.Set(ContextUserIDKey, claims.UserID)
			}
		}
		c.Next()
	}
}

// UserID 从上下文取当前用户，匿名返回 0
func UserID(c *gin.Context) uint64 {
	if v, ok := c.Get(ContextUserIDKey); ok {
		if id, ok := v.(uint64); ok {
			return id
		}
	}
	return 0
}
