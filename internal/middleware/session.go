package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"survey_wizard/internal/util"
)

// SessionMiddleware resolves the survey session id from the path parameter,
// falling back to the query string, and stores it on the context. A missing
// id is not an error here; the survey pages render it as an invalid session.
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := strings.TrimSpace(c.Param(util.SessionParam))
		if sessionID == "" {
			sessionID = strings.TrimSpace(c.Query(util.SessionParam))
		}
		c.Set(util.SessionIDKey, sessionID)
		c.Next()
	}
}

// RequireSession rejects API requests that carry no session id.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if SessionID(c) == "" {
			util.BadRequest(c, util.ErrSessionMissing.Error())
			c.Abort()
			return
		}
		c.Next()
	}
}

func SessionID(c *gin.Context) string {
	return c.GetString(util.SessionIDKey)
}
