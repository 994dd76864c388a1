package identity

import (
	"errors"
	"net/http"

	dmn "github.com/beka-birhanu/vinom-chase/identity"
	"github.com/beka-birhanu/vinom-chase/service"
	"github.com/beka-birhanu/vinom-chase/service/i"
	"github.com/gin-gonic/gin"
)

const historyLength = 10

// IdentityServer handles HTTP requests related to players.
type IdentityServer struct {
	authService i.Authenticator
	playerRepo  i.PlayerRepo
	resultRepo  i.ResultRepo
}

// NewIdentityServer creates a new IdentityServer.
func NewIdentityServer(a i.Authenticator, pr i.PlayerRepo, rr i.ResultRepo) *IdentityServer {
	return &IdentityServer{
		authService: a,
		playerRepo:  pr,
		resultRepo:  rr,
	}
}

// RegisterPublic registers public routes.
func (c *IdentityServer) RegisterPublic(route *gin.RouterGroup) {
	players := route.Group("/players")
	{
		players.POST("", c.register)
		players.POST("/signin", c.signIn)
	}
}

// RegisterProtected registers privileged routes.
func (c *IdentityServer) RegisterProtected(route *gin.RouterGroup) {
	route.GET("/players/me", c.profile)
}

// register handles player registration.
func (c *IdentityServer) register(ctx *gin.Context) {
	var request AuthRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	player, err := c.authService.Register(request.Username, request.Password)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, service.ErrUsernameTaken) {
			status = http.StatusConflict
		}
		ctx.JSON(status, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"id": player.ID.String(), "username": player.Username})
}

// signIn handles player sign in.
func (c *IdentityServer) signIn(ctx *gin.Context) {
	var request AuthRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	player, token, err := c.authService.SignIn(request.Username, request.Password)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, &AuthResponse{
		ID:       player.ID.String(),
		Username: player.Username,
		Token:    token,
	})
}

// profile returns the statistics and best results of the signed in player.
func (c *IdentityServer) profile(ctx *gin.Context) {
	id, _, ok := Player(ctx)
	if !ok {
		ctx.Status(http.StatusUnauthorized)
		return
	}

	player, err := c.playerRepo.ByID(id)
	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	results, err := c.resultRepo.ByPlayer(id, historyLength)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "error while loading results"})
		return
	}

	ctx.JSON(http.StatusOK, toProfile(player, results))
}

func toProfile(p *dmn.Player, results []*dmn.LevelResult) *ProfileResponse {
	resp := &ProfileResponse{
		ID:           p.ID.String(),
		Username:     p.Username,
		BestScore:    p.BestScore,
		LevelsPlayed: p.LevelsPlayed,
		LevelsWon:    p.LevelsWon,
		Results:      make([]ResultResponse, 0, len(results)),
	}
	for _, r := range results {
		resp.Results = append(resp.Results, ResultResponse{
			LevelID:    r.LevelID.String(),
			Score:      r.Score,
			Won:        r.Won,
			Infinite:   r.Infinite,
			Width:      r.Width,
			Height:     r.Height,
			DurationMS: r.Duration.Milliseconds(),
			FinishedAt: r.FinishedAt,
		})
	}
	return resp
}
