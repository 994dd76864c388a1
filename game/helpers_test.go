package game

import (
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/beka-birhanu/vinom-chase/game/maze"
	general_i "github.com/beka-birhanu/vinom-common/interfaces/general"
	logger "github.com/beka-birhanu/vinom-common/log"
	"github.com/stretchr/testify/require"
)

func testLogger(t *testing.T) general_i.Logger {
	t.Helper()
	f, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	l, err := logger.New("TEST", "", f)
	require.NoError(t, err)
	return l
}

// fastTuning keeps the spawners quiet and every actor quick.
func fastTuning() Tuning {
	t := DefaultTuning()
	t.PlayerInterval = 10 * time.Millisecond
	t.HunterInterval = 10 * time.Millisecond
	t.FearedInterval = 20 * time.Millisecond
	t.ProjectileInterval = 10 * time.Millisecond
	t.FirstSpawnDelay = time.Hour
	t.FruitDelay = time.Hour
	t.RampPeriod = time.Hour
	return t
}

// idle is a hunter policy that never moves.
func idle() Policy {
	return PolicyFunc(func(*Unit, View) (maze.Direction, bool) { return 0, false })
}

func testLevel(t *testing.T, tuning Tuning, lines ...string) *Level {
	t.Helper()
	tpl, err := maze.ParseTemplate(lines)
	require.NoError(t, err)
	l, err := NewLevel(tpl, Config{Tuning: tuning, HunterPolicy: idle, Logger: testLogger(t)})
	require.NoError(t, err)
	t.Cleanup(l.Stop)
	return l
}

func joinedPlayer(t *testing.T, l *Level) *Unit {
	t.Helper()
	p := l.NewPlayer()
	require.NoError(t, l.RegisterPlayer(p))
	return p
}

// recorder counts observer notifications.
type recorder struct {
	won, lost, hunt, respawn, shooting atomic.Int32

	mu      sync.Mutex
	expired []*Unit
}

func (r *recorder) LevelWon()           { r.won.Add(1) }
func (r *recorder) LevelLost()          { r.lost.Add(1) }
func (r *recorder) HunterModeStarted()  { r.hunt.Add(1) }
func (r *recorder) HunterNeedsRespawn() { r.respawn.Add(1) }
func (r *recorder) UnitShooting()       { r.shooting.Add(1) }

func (r *recorder) ProjectilesToClean(expired, _ []*Unit) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.expired = append(r.expired, expired...)
}

func (r *recorder) expiredCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.expired)
}

// stopper stops the level it observes as soon as the level is decided.
type stopper struct {
	NopObserver
	l *Level
}

func (s *stopper) LevelWon()  { s.l.Stop() }
func (s *stopper) LevelLost() { s.l.Stop() }
