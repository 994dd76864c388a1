package identity

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeAuthenticator struct {
	token    string
	id       uuid.UUID
	username string
}

func (f *fakeAuthenticator) Authenticate(token string) (uuid.UUID, string, error) {
	if token != f.token {
		return uuid.Nil, "", errors.New("bad token")
	}
	return f.id, f.username, nil
}

func TestAuthorize(t *testing.T) {
	gin.SetMode(gin.TestMode)
	auth := &fakeAuthenticator{token: "secret", id: uuid.New(), username: "player_one"}

	router := gin.New()
	router.GET("/me", Authorize(auth), func(c *gin.Context) {
		id, username, ok := Player(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, id.String()+" "+username)
	})

	tests := []struct {
		name   string
		target string
		header string
		status int
	}{
		{name: "bearer header", target: "/me", header: "Bearer secret", status: http.StatusOK},
		{name: "lowercase scheme", target: "/me", header: "bearer secret", status: http.StatusOK},
		{name: "query parameter", target: "/me?token=secret", status: http.StatusOK},
		{name: "no token", target: "/me", status: http.StatusUnauthorized},
		{name: "wrong token", target: "/me", header: "Bearer nope", status: http.StatusUnauthorized},
		{name: "wrong scheme falls back to query", target: "/me", header: "Basic secret", status: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, auth.id.String()+" player_one", w.Body.String())
			}
		})
	}
}

func TestPlayerWithoutAuthorize(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	id, username, ok := Player(c)
	assert.False(t, ok)
	assert.Equal(t, uuid.Nil, id)
	assert.Empty(t, username)
}
