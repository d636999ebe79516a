package api

import (
	"net/http"
	"strings"

	"github.com/betexcr/pokemon-sub007/internal/constants"
	"github.com/gin-gonic/gin"
)

// AuthRequired validates the bearer session token and injects the player
// identity into the request context.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(constants.HeaderAuthorization)
		if !strings.HasPrefix(header, constants.BearerPrefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrAuthRequired})
			return
		}
		token := strings.TrimPrefix(header, constants.BearerPrefix)
		claims, err := parseAndValidateSession(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrInvalidSession})
			return
		}
		c.Set("playerUID", claims.Sub)
		c.Set("playerName", claims.Name)
		c.Next()
	}
}

// sessionPlayerUID returns the authenticated player's UID, or the empty
// string when the request is unauthenticated.
func sessionPlayerUID(c *gin.Context) string {
	v, _ := c.Get("playerUID")
	s, _ := v.(string)
	return s
}
