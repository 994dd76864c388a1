package i

import (
	"time"

	"github.com/beka-birhanu/vinom-chase/identity"
	"github.com/google/uuid"
)

// Tokenizer defines methods for generating and decoding tokens.
type Tokenizer interface {
	// Generate creates a token with the given claims and expiration duration.
	Generate(claims map[string]interface{}, expTime time.Duration) (string, error)

	// Decode validates and parses a token, returning its claims.
	Decode(token string) (map[string]interface{}, error)
}

// Authenticator registers players and signs them in.
type Authenticator interface {
	Register(username, password string) (*identity.Player, error)
	SignIn(username, password string) (*identity.Player, string, error)
}

// PlayerAuthenticator resolves the player behind a token.
type PlayerAuthenticator interface {
	Authenticate(token string) (uuid.UUID, string, error)
}
