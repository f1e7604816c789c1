package middleware

import (
	"net/http"

	"tradewinds/utils"

	"github.com/gin-gonic/gin"
)

// SessionTokenHeader carries the token issued when a session is created.
const SessionTokenHeader = "X-Session-Token"

// SessionTokenMiddleware requires a session token whose subject is the
// :sessionID path parameter and whose kind matches.
func SessionTokenMiddleware(kind string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.GetHeader(SessionTokenHeader)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Missing session token",
			})
			return
		}

		sessionID, tokenKind, err := utils.ExtractSessionFromToken(tokenString)
		if err != nil || tokenKind != kind || sessionID != c.Param("sessionID") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid session token",
			})
			return
		}

		c.Set("sessionID", sessionID)
		c.Next()
	}
}
