package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/your-org/miniapp-backend/internal/auth"
	"github.com/your-org/miniapp-backend/internal/common/errors"
	"github.com/your-org/miniapp-backend/internal/common/logger"
)

const authUserKey = "auth_user"

// AuthUser returns the verified identity stored by InitDataAuth.
func AuthUser(c *gin.Context) (*auth.User, bool) {
	v, exists := c.Get(authUserKey)
	if !exists {
		return nil, false
	}
	user, ok := v.(*auth.User)
	return user, ok
}

// SetAuthUser stores the verified identity on the request context.
func SetAuthUser(c *gin.Context, user *auth.User) {
	c.Set(authUserKey, user)
}

// InitDataAuth authenticates requests by Telegram init-data. The credential
// is taken from "Authorization: Bearer <init-data>" or, as a fallback, the
// X-Telegram-Init-Data header. Every rejection yields the same 401 body so
// clients learn nothing about why a forged payload was refused.
func InitDataAuth(verifier *auth.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		credential := bearerToken(c)
		if credential == "" {
			credential = c.GetHeader("X-Telegram-Init-Data")
		}
		if credential == "" {
			rejectAuth(c)
			return
		}

		user, err := verifier.Verify(credential)
		if err != nil {
			// The reason stays in the logs only.
			logger.Warn().Err(err).Str("path", c.Request.URL.Path).Msg("init-data rejected")
			rejectAuth(c)
			return
		}

		SetAuthUser(c, user)
		c.Next()
	}
}

// rejectAuth renders the one failure body every rejection shares.
func rejectAuth(c *gin.Context) {
	appErr := errors.New(errors.ErrCodeUnauthorized, "authentication failed").
		WithRequestID(c.GetString("request_id"))
	sendErrorResponse(c, appErr)
	c.Abort()
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return token
	}
	// Some Mini App clients send "tma <init-data>" per the community convention.
	if token, ok := strings.CutPrefix(header, "tma "); ok {
		return token
	}
	return header
}
