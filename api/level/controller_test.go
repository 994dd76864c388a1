package levelapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	apiidentity "github.com/beka-birhanu/vinom-chase/api/identity"
	"github.com/beka-birhanu/vinom-chase/game"
	"github.com/beka-birhanu/vinom-chase/game/maze"
	msgpack "github.com/beka-birhanu/vinom-chase/game/msgpack_encoder"
	pb "github.com/beka-birhanu/vinom-chase/game/pb_encoder"
	"github.com/beka-birhanu/vinom-chase/service"
	"github.com/beka-birhanu/vinom-chase/service/i"
	logger "github.com/beka-birhanu/vinom-common/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLevels owns a single level and records the last call.
type fakeLevels struct {
	id      uuid.UUID
	owner   uuid.UUID
	snap    game.Snapshot
	opts    i.LevelOptions
	called  string
	dir     maze.Direction
	failure error
}

func (f *fakeLevels) check(id, owner uuid.UUID, call string) error {
	f.called = call
	if f.failure != nil {
		return f.failure
	}
	if id != f.id {
		return service.ErrLevelNotFound
	}
	if owner != f.owner {
		return service.ErrNotOwner
	}
	return nil
}

func (f *fakeLevels) Create(owner uuid.UUID, _ string, opts i.LevelOptions) (uuid.UUID, error) {
	f.called, f.opts = "create", opts
	if f.failure != nil {
		return uuid.Nil, f.failure
	}
	return f.id, nil
}

func (f *fakeLevels) Start(id, owner uuid.UUID) error { return f.check(id, owner, "start") }
func (f *fakeLevels) Stop(id, owner uuid.UUID) error  { return f.check(id, owner, "stop") }
func (f *fakeLevels) Shoot(id, owner uuid.UUID) error { return f.check(id, owner, "shoot") }
func (f *fakeLevels) Close(id, owner uuid.UUID) error { return f.check(id, owner, "close") }

func (f *fakeLevels) Steer(id, owner uuid.UUID, d maze.Direction) error {
	f.dir = d
	return f.check(id, owner, "steer")
}

func (f *fakeLevels) Extend(id, owner uuid.UUID, d maze.Direction) error {
	f.dir = d
	return f.check(id, owner, "extend")
}

func (f *fakeLevels) Snapshot(id uuid.UUID) (game.Snapshot, error) {
	if id != f.id {
		return game.Snapshot{}, service.ErrLevelNotFound
	}
	return f.snap, nil
}

func (f *fakeLevels) Subscribe(id uuid.UUID) (<-chan game.Snapshot, func(), error) {
	if id != f.id {
		return nil, nil, service.ErrLevelNotFound
	}
	ch := make(chan game.Snapshot)
	close(ch)
	return ch, func() {}, nil
}

type fixture struct {
	levels *fakeLevels
	router *gin.Engine
	player uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	l, err := logger.New("TEST", "", f)
	require.NoError(t, err)

	owner := uuid.New()
	levels := &fakeLevels{
		id:    uuid.New(),
		owner: owner,
		snap: game.Snapshot{
			Width:       2,
			Height:      1,
			Running:     true,
			PelletsLeft: 1,
			Rows:        []string{"P."},
			Units:       []game.UnitState{{ID: uuid.New(), Kind: game.KindPlayer, OnBoard: true, Alive: true, Lives: 1}},
		},
	}
	levels.snap.ID = levels.id

	lc, err := NewLevelController(levels, map[string]game.Encoder{
		FormatProto:   &pb.Protobuf{},
		FormatMsgPack: &msgpack.MsgPack{},
	}, l)
	require.NoError(t, err)

	fx := &fixture{levels: levels, router: gin.New(), player: owner}
	group := fx.router.Group("/v1")
	group.Use(func(c *gin.Context) {
		c.Set(apiidentity.ContextPlayerID, fx.player)
		c.Set(apiidentity.ContextUsername, "player_one")
	})
	lc.RegisterProtected(group)
	return fx
}

func (fx *fixture) do(method, target string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	fx.router.ServeHTTP(w, req)
	return w
}

func (fx *fixture) path(suffix string) string {
	return "/v1/levels/" + fx.levels.id.String() + suffix
}

func TestNewLevelControllerNeedsMsgPack(t *testing.T) {
	_, err := NewLevelController(&fakeLevels{}, map[string]game.Encoder{FormatProto: &pb.Protobuf{}}, nil)
	assert.Error(t, err)
}

func TestCreate(t *testing.T) {
	fx := newFixture(t)

	w := fx.do(http.MethodPost, "/v1/levels", CreateLevelRequest{Infinite: true, Width: 6, Height: 5, Hunters: 2})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), fx.levels.id.String())
	assert.Equal(t, i.LevelOptions{Infinite: true, Width: 6, Height: 5, Hunters: 2}, fx.levels.opts)

	w = fx.do(http.MethodPost, "/v1/levels", CreateLevelRequest{Width: 50})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	fx.levels.failure = maze.ErrConfiguration
	w = fx.do(http.MethodPost, "/v1/levels", CreateLevelRequest{Template: "?"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateRejectsOversizedTemplates(t *testing.T) {
	fx := newFixture(t)

	w := fx.do(http.MethodPost, "/v1/levels", CreateLevelRequest{Template: strings.Repeat("#", MaxTemplateLength+1)})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = fx.do(http.MethodPost, "/v1/levels", map[string]string{"template": "#", "padding": strings.Repeat(" ", maxCreateBody)})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, fx.levels.opts)

	w = fx.do(http.MethodPost, "/v1/levels", CreateLevelRequest{Template: strings.Repeat("#", MaxTemplateLength)})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Len(t, fx.levels.opts.Template, MaxTemplateLength)
}

func TestLevelJSON(t *testing.T) {
	fx := newFixture(t)

	w := fx.do(http.MethodGet, fx.path(""), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp LevelResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, fx.levels.id.String(), resp.ID)
	assert.Equal(t, []string{"P."}, resp.Rows)
	require.Len(t, resp.Units, 1)
	assert.Equal(t, game.KindPlayer.String(), resp.Units[0].Kind)

	w = fx.do(http.MethodGet, "/v1/levels/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = fx.do(http.MethodGet, "/v1/levels/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBinarySnapshot(t *testing.T) {
	fx := newFixture(t)

	decoders := map[string]game.Encoder{
		FormatMsgPack: &msgpack.MsgPack{},
		FormatProto:   &pb.Protobuf{},
	}
	for format, dec := range decoders {
		t.Run(format, func(t *testing.T) {
			w := fx.do(http.MethodGet, fx.path("/snapshot?format="+format), nil)
			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, contentTypes[format], w.Header().Get("Content-Type"))

			snap, err := dec.UnmarshalSnapshot(w.Body.Bytes())
			require.NoError(t, err)
			assert.Equal(t, fx.levels.snap, snap)
		})
	}

	w := fx.do(http.MethodGet, fx.path("/snapshot?format=xml"), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOwnerActions(t *testing.T) {
	for _, action := range []string{"start", "stop", "shoot"} {
		t.Run(action, func(t *testing.T) {
			fx := newFixture(t)

			w := fx.do(http.MethodPost, fx.path("/"+action), nil)
			assert.Equal(t, http.StatusNoContent, w.Code)
			assert.Equal(t, action, fx.levels.called)

			fx.player = uuid.New()
			w = fx.do(http.MethodPost, fx.path("/"+action), nil)
			assert.Equal(t, http.StatusForbidden, w.Code)
		})
	}

	t.Run("close", func(t *testing.T) {
		fx := newFixture(t)
		w := fx.do(http.MethodDelete, fx.path(""), nil)
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "close", fx.levels.called)
	})
}

func TestDirected(t *testing.T) {
	fx := newFixture(t)

	w := fx.do(http.MethodPost, fx.path("/steer"), DirectionRequest{Direction: "north"})
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, maze.North, fx.levels.dir)

	w = fx.do(http.MethodPost, fx.path("/extend"), DirectionRequest{Direction: "E"})
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "extend", fx.levels.called)
	assert.Equal(t, maze.East, fx.levels.dir)

	w = fx.do(http.MethodPost, fx.path("/steer"), DirectionRequest{Direction: "up"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = fx.do(http.MethodPost, fx.path("/steer"), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFailStatuses(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{err: service.ErrLevelFinished, status: http.StatusConflict},
		{err: game.ErrNotArmed, status: http.StatusConflict},
		{err: game.ErrNoPlayerStart, status: http.StatusBadRequest},
		{err: assert.AnError, status: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			fx := newFixture(t)
			fx.levels.failure = tt.err
			w := fx.do(http.MethodPost, fx.path("/shoot"), nil)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}
