// Package leaderboardapi serves the best scores.
package leaderboardapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	apiidentity "github.com/beka-birhanu/vinom-chase/api/identity"
	"github.com/beka-birhanu/vinom-chase/infrastruture/sortedstorage"
	"github.com/beka-birhanu/vinom-chase/service"
	"github.com/beka-birhanu/vinom-chase/service/i"
	"github.com/gin-gonic/gin"
)

const (
	defaultLimit = 10
	maxLimit     = 100
	readTimeout  = 500 * time.Millisecond
)

var boards = map[string]string{
	"classic":  service.BoardClassic,
	"infinite": service.BoardInfinite,
}

// StandingResponse is one entry of a leaderboard.
type StandingResponse struct {
	Rank     int64   `json:"rank"`
	Username string  `json:"username"`
	Score    float64 `json:"score"`
}

// BoardResponse is a leaderboard page with the rank of the caller, -1 when unranked.
type BoardResponse struct {
	Mode      string             `json:"mode"`
	Standings []StandingResponse `json:"standings"`
	MyRank    int64              `json:"my_rank"`
}

// LeaderboardController serves the leaderboards.
type LeaderboardController struct {
	leaderboard i.Leaderboard
}

// NewLeaderboardController creates a LeaderboardController.
func NewLeaderboardController(lb i.Leaderboard) *LeaderboardController {
	return &LeaderboardController{leaderboard: lb}
}

// RegisterPublic registers public routes.
func (c *LeaderboardController) RegisterPublic(route *gin.RouterGroup) {}

// RegisterProtected registers protected routes.
func (c *LeaderboardController) RegisterProtected(route *gin.RouterGroup) {
	route.GET("/leaderboard", c.top)
}

func (c *LeaderboardController) top(ctx *gin.Context) {
	mode := ctx.DefaultQuery("mode", "classic")
	board, ok := boards[mode]
	if !ok {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "unknown mode " + mode})
		return
	}
	limit, err := strconv.ParseInt(ctx.DefaultQuery("limit", strconv.Itoa(defaultLimit)), 10, 64)
	if err != nil || limit <= 0 || limit > maxLimit {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 100"})
		return
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()
	standings, err := c.leaderboard.Top(timeoutCtx, board, limit)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "error while reading leaderboard"})
		return
	}

	resp := &BoardResponse{Mode: mode, Standings: make([]StandingResponse, 0, len(standings)), MyRank: -1}
	for rank, s := range standings {
		resp.Standings = append(resp.Standings, StandingResponse{Rank: int64(rank), Username: s.Member, Score: s.Score})
	}

	if _, username, ok := apiidentity.Player(ctx); ok {
		rank, err := c.leaderboard.Rank(timeoutCtx, board, username)
		switch {
		case err == nil:
			resp.MyRank = rank
		case !errors.Is(err, sortedstorage.ErrNotRanked):
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "error while reading leaderboard"})
			return
		}
	}
	ctx.JSON(http.StatusOK, resp)
}
