package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "cashbook/internal/errors"
	"cashbook/internal/uuid"
)

// UserIDHeader carries the caller identity set by the authenticating proxy.
const UserIDHeader = "X-User-ID"

// UserIDKey is the gin context key holding the caller's user id.
const UserIDKey = "userID"

// Identity creates a Gin middleware that requires a UUID in the X-User-ID
// header and stores it in the context under UserIDKey. Rejections are left
// on the context for ErrorHandler to render.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := uuid.Parse(strings.TrimSpace(c.GetHeader(UserIDHeader)))
		if err != nil {
			_ = c.Error(apperrors.ErrUnauthorized)
			c.Abort()
			return
		}
		c.Set(UserIDKey, userID)
		c.Next()
	}
}
