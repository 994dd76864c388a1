package levelapi

import (
	"errors"
	"net/http"

	apiidentity "github.com/beka-birhanu/vinom-chase/api/identity"
	"github.com/beka-birhanu/vinom-chase/game"
	"github.com/beka-birhanu/vinom-chase/game/maze"
	"github.com/beka-birhanu/vinom-chase/service"
	"github.com/beka-birhanu/vinom-chase/service/i"
	general_i "github.com/beka-birhanu/vinom-common/interfaces/general"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Wire formats of binary snapshots.
const (
	FormatProto   = "proto"
	FormatMsgPack = "msgpack"
)

var contentTypes = map[string]string{
	FormatProto:   "application/x-protobuf",
	FormatMsgPack: "application/msgpack",
}

// LevelController drives the levels of the signed in player.
type LevelController struct {
	levels   i.LevelManager
	encoders map[string]game.Encoder
	logger   general_i.Logger
}

// NewLevelController creates a LevelController. encoders maps a format name to its
// encoder; requests pick one with the format query parameter, msgpack by default.
func NewLevelController(lm i.LevelManager, encoders map[string]game.Encoder, logger general_i.Logger) (*LevelController, error) {
	if _, ok := encoders[FormatMsgPack]; !ok {
		return nil, errors.New("a msgpack encoder is required")
	}
	return &LevelController{
		levels:   lm,
		encoders: encoders,
		logger:   logger,
	}, nil
}

// RegisterPublic registers public routes.
func (lc *LevelController) RegisterPublic(route *gin.RouterGroup) {}

// RegisterProtected registers protected routes.
func (lc *LevelController) RegisterProtected(route *gin.RouterGroup) {
	levels := route.Group("/levels")
	{
		levels.POST("", lc.create)
		levels.GET("/:ID", lc.level)
		levels.DELETE("/:ID", lc.ownerAction(lc.levels.Close))
		levels.GET("/:ID/snapshot", lc.snapshot)
		levels.GET("/:ID/events", lc.events)
		levels.POST("/:ID/start", lc.ownerAction(lc.levels.Start))
		levels.POST("/:ID/stop", lc.ownerAction(lc.levels.Stop))
		levels.POST("/:ID/shoot", lc.ownerAction(lc.levels.Shoot))
		levels.POST("/:ID/steer", lc.directed(lc.levels.Steer))
		levels.POST("/:ID/extend", lc.directed(lc.levels.Extend))
	}
}

// create handles level creation requests.
func (lc *LevelController) create(ctx *gin.Context) {
	owner, username, ok := apiidentity.Player(ctx)
	if !ok {
		ctx.Status(http.StatusUnauthorized)
		return
	}

	ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, maxCreateBody)
	var request CreateLevelRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, err := lc.levels.Create(owner, username, i.LevelOptions{
		Infinite: request.Infinite,
		Width:    request.Width,
		Height:   request.Height,
		Hunters:  request.Hunters,
		Template: request.Template,
	})
	if err != nil {
		lc.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"id": id.String()})
}

// level returns the JSON snapshot of a level.
func (lc *LevelController) level(ctx *gin.Context) {
	id, ok := levelID(ctx)
	if !ok {
		return
	}
	snap, err := lc.levels.Snapshot(id)
	if err != nil {
		lc.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, toLevelResponse(snap))
}

// snapshot returns the binary snapshot of a level.
func (lc *LevelController) snapshot(ctx *gin.Context) {
	id, ok := levelID(ctx)
	if !ok {
		return
	}
	format, enc, ok := lc.encoder(ctx)
	if !ok {
		return
	}

	snap, err := lc.levels.Snapshot(id)
	if err != nil {
		lc.fail(ctx, err)
		return
	}
	data, err := enc.MarshalSnapshot(snap)
	if err != nil {
		lc.logger.Error("Encoding snapshot: " + err.Error())
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "error while encoding snapshot"})
		return
	}
	ctx.Data(http.StatusOK, contentTypes[format], data)
}

// ownerAction adapts a level operation reserved to the owner to a handler.
func (lc *LevelController) ownerAction(action func(id, owner uuid.UUID) error) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		owner, _, ok := apiidentity.Player(ctx)
		if !ok {
			ctx.Status(http.StatusUnauthorized)
			return
		}
		id, ok := levelID(ctx)
		if !ok {
			return
		}
		if err := action(id, owner); err != nil {
			lc.fail(ctx, err)
			return
		}
		ctx.Status(http.StatusNoContent)
	}
}

// directed is ownerAction for operations taking a direction.
func (lc *LevelController) directed(action func(id, owner uuid.UUID, d maze.Direction) error) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var request DirectionRequest
		if err := ctx.ShouldBindJSON(&request); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		d, err := maze.ParseDirection(request.Direction)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		lc.ownerAction(func(id, owner uuid.UUID) error { return action(id, owner, d) })(ctx)
	}
}

func (lc *LevelController) encoder(ctx *gin.Context) (string, game.Encoder, bool) {
	format := ctx.DefaultQuery("format", FormatMsgPack)
	enc, ok := lc.encoders[format]
	if !ok {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "unknown format " + format})
		return "", nil, false
	}
	return format, enc, true
}

func levelID(ctx *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Params.ByName("ID"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid level id"})
		return uuid.Nil, false
	}
	return id, true
}

// fail maps service errors to HTTP statuses.
func (lc *LevelController) fail(ctx *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrLevelNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrNotOwner):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrLevelFinished), errors.Is(err, game.ErrNotArmed):
		status = http.StatusConflict
	case errors.Is(err, maze.ErrConfiguration), errors.Is(err, game.ErrNoPlayerStart):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		lc.logger.Error("Level request failed: " + err.Error())
	}
	ctx.JSON(status, gin.H{"error": err.Error()})
}
