package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/beka-birhanu/vinom-chase/identity"
	"github.com/beka-birhanu/vinom-chase/service/i"
	"github.com/google/uuid"
)

const (
	tokenLifetime = 24 * time.Hour

	claimPlayerID = "playerID"
	claimUsername = "username"
)

// Auth errors.
var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidClaims      = errors.New("token does not name a player")
)

var (
	_ i.Authenticator       = &Auth{}
	_ i.PlayerAuthenticator = &Auth{}
)

// Auth registers players, signs them in and resolves their tokens.
type Auth struct {
	playerRepo i.PlayerRepo
	tokenizer  i.Tokenizer
}

// NewAuthService creates the auth service.
func NewAuthService(pr i.PlayerRepo, t i.Tokenizer) (*Auth, error) {
	if pr == nil || t == nil {
		return nil, errors.New("auth service needs a player repository and a tokenizer")
	}
	return &Auth{playerRepo: pr, tokenizer: t}, nil
}

// Register creates a player.
func (a *Auth) Register(username, password string) (*identity.Player, error) {
	if _, err := a.playerRepo.ByUsername(username); err == nil {
		return nil, ErrUsernameTaken
	}

	player, err := identity.NewPlayer(identity.PlayerConfig{
		ID:            uuid.New(),
		Username:      username,
		PlainPassword: password,
	})
	if err != nil {
		return nil, err
	}

	if err := a.playerRepo.Save(player); err != nil {
		return nil, err
	}
	return player, nil
}

// SignIn checks the credentials of a player and returns a token for it.
func (a *Auth) SignIn(username, password string) (*identity.Player, string, error) {
	player, err := a.playerRepo.ByUsername(username)
	if err != nil {
		return nil, "", ErrInvalidCredentials
	}

	if !player.VerifyPassword(password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := a.tokenizer.Generate(map[string]interface{}{
		claimPlayerID: player.ID.String(),
		claimUsername: player.Username,
	}, tokenLifetime)
	if err != nil {
		return nil, "", err
	}
	return player, token, nil
}

// Authenticate returns the player named by a token.
func (a *Auth) Authenticate(token string) (uuid.UUID, string, error) {
	claims, err := a.tokenizer.Decode(token)
	if err != nil {
		return uuid.Nil, "", err
	}
	return PlayerFromClaims(claims)
}

// PlayerFromClaims reads the player id and username out of decoded token claims.
func PlayerFromClaims(claims map[string]interface{}) (uuid.UUID, string, error) {
	raw, ok := claims[claimPlayerID].(string)
	if !ok {
		return uuid.Nil, "", ErrInvalidClaims
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, "", fmt.Errorf("%w: %v", ErrInvalidClaims, err)
	}
	username, _ := claims[claimUsername].(string)
	return id, username, nil
}
