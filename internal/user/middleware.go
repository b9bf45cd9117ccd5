package user

import (
	"net/http"

	"github.com/SlpAus/culling-game-backend/internal/platform/logger"
	"github.com/SlpAus/culling-game-backend/pkg/token"
	"github.com/gin-gonic/gin"
)

const (
	CookieName   = "cg-session"
	CookieMaxAge = 7 * 24 * 60 * 60
	UserIDKey    = "userID"
)

// RequireSessionMiddleware 校验会话cookie并将用户ID放入Gin上下文中。
// 没有合法会话的请求一律拒绝，不发放匿名身份。
// 首次见到的用户会根据payload中的email和国家惰性建档。
func RequireSessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(CookieName)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		payload, err := token.Verify(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired session"})
			return
		}

		known, err := IsKnown(payload.UserID)
		if err != nil {
			logger.L.Warnw("检查用户档案失败", "userID", payload.UserID, "error", err)
		}
		if !known {
			if _, err := GetOrCreate(payload.UserID, payload.Email, payload.Country); err != nil {
				logger.L.Errorw("惰性创建用户档案失败", "userID", payload.UserID, "error", err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to load user profile"})
				return
			}
		}

		c.Set(UserIDKey, payload.UserID)
		c.Next()
	}
}

// IssueSessionCookie 为指定用户签发新的会话cookie
func IssueSessionCookie(c *gin.Context, u *User) error {
	signed, err := token.Sign(token.NewSessionPayload(u.ID, u.Email, u.Country, CookieMaxAge))
	if err != nil {
		return err
	}
	c.SetCookie(CookieName, signed, CookieMaxAge, "/", "", false, true)
	return nil
}

// CurrentUserID 从Gin上下文中取出已认证的用户ID
func CurrentUserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}
