package identity

import (
	"net/http"
	"strings"

	"github.com/beka-birhanu/vinom-chase/service/i"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// ContextPlayerID is the key used to store the player id in the Gin context.
	ContextPlayerID = "playerID"
	// ContextUsername is the key used to store the username in the Gin context.
	ContextUsername = "username"

	tokenQueryParam = "token"
)

// Authorize resolves the bearer token of a request to a player. Browsers cannot set
// headers on websocket upgrades, so the token may also come as the token query parameter.
func Authorize(pa i.PlayerAuthenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearer(c.GetHeader("Authorization"))
		if !ok {
			token = c.Query(tokenQueryParam)
		}
		if token == "" {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		id, username, err := pa.Authenticate(token)
		if err != nil {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		c.Set(ContextPlayerID, id)
		c.Set(ContextUsername, username)
		c.Next()
	}
}

func bearer(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", false
	}
	return parts[1], true
}

// Player returns the player set by Authorize.
func Player(c *gin.Context) (uuid.UUID, string, bool) {
	raw, ok := c.Get(ContextPlayerID)
	if !ok {
		return uuid.Nil, "", false
	}
	id, ok := raw.(uuid.UUID)
	return id, c.GetString(ContextUsername), ok
}
