package game

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/beka-birhanu/vinom-chase/game/maze"
)

type eventKind uint8

// Timer events. One-shot events restore state and are applied even after the level
// stopped; periodic events only apply to the run that armed them.
const (
	evWarning      eventKind = iota // Power window is about to close.
	evExpiry                        // Power window closed.
	evRespawn                       // An eaten hunter comes back.
	evRestore                       // A trapped actor can move again.
	evDisarm                        // A player can no longer shoot.
	evFruitExpired                  // A fruit leaves the board.
	evFruit                         // Periodic: place a fruit.
	evHunter                        // Periodic: add a hunter.
	evRamp                          // Periodic: speed hunters up.
)

// event is a typed message posted by a timer into the level.
type event struct {
	kind eventKind
	unit *Unit  // Unit the event is about, if any.
	gen  uint64 // Generation the event belongs to: window, run or arm count.
}

// post arms a timer that applies e after d.
func (l *Level) post(d time.Duration, e event) *time.Timer {
	return time.AfterFunc(d, func() { l.apply(e) })
}

// apply is the single entry point of timer events. It runs under the move lock like a
// move step.
func (l *Level) apply(e event) {
	l.moveLock.Lock()
	defer l.moveLock.Unlock()

	switch e.kind {
	case evWarning:
		if e.gen == l.window && l.mode == HunterActive {
			l.warnHunters()
		}
	case evExpiry:
		if e.gen == l.window && l.mode != Normal {
			l.stopHunterMode()
		}
	case evRespawn:
		l.respawnHunter()
	case evRestore:
		e.unit.setMovable(true)
	case evDisarm:
		if l.armed[e.unit] == e.gen {
			e.unit.setShooting(false)
			delete(l.armed, e.unit)
		}
	case evFruitExpired:
		if _, ok := l.fruits[e.unit]; ok {
			delete(l.fruits, e.unit)
			e.unit.consume()
		}
	case evFruit:
		if l.current(e.gen) {
			l.spawnFruit()
			l.rearm(evFruit, e.gen, l.tuning.FruitDelay+jitter(l.tuning.FruitJitter))
		}
	case evHunter:
		if l.current(e.gen) {
			l.spawnHunter()
			delay := l.tuning.HunterSpawnDelay + jitter(l.tuning.HunterSpawnJitter) + time.Duration(len(l.hunters))*l.tuning.HunterSpawnStep
			l.rearm(evHunter, e.gen, delay)
		}
	case evRamp:
		if l.current(e.gen) {
			for _, h := range l.hunters {
				h.addSpeed(l.tuning.RampStep)
			}
			l.rearm(evRamp, e.gen, l.tuning.RampPeriod)
		}
	}
}

// current reports whether run gen is still going.
func (l *Level) current(gen uint64) bool {
	l.startStopLock.Lock()
	defer l.startStopLock.Unlock()
	return l.inProgress.Load() && l.run == gen
}

// rearm arms the next firing of a periodic event of run gen.
func (l *Level) rearm(kind eventKind, gen uint64, d time.Duration) {
	l.startStopLock.Lock()
	defer l.startStopLock.Unlock()
	if !l.inProgress.Load() || l.run != gen {
		return
	}
	l.timers[kind] = l.post(d, event{kind: kind, gen: gen})
}

func jitter(limit time.Duration) time.Duration {
	if limit <= 0 {
		return 0
	}
	return time.Duration(rand.Int63n(int64(limit)))
}

// spawnFruit places a random fruit in a template-sized window around the first living
// player, on a free cell the player can reach.
func (l *Level) spawnFruit() {
	var ref *maze.Cell
	for _, p := range l.players {
		if c := p.Cell(); p.Alive() && c != nil {
			ref = c
			break
		}
	}
	if ref == nil {
		return
	}

	kind := l.tuning.Fruits[rand.Intn(len(l.tuning.Fruits))]
	tw, th := l.board.TileWidth(), l.board.TileHeight()
	for i := 0; i < l.tuning.SpawnRetries; i++ {
		c := l.board.Wrap(ref.X-tw/2+rand.Intn(tw), ref.Y-th/2+rand.Intn(th))
		if c == ref || !c.Accessible() || hasKind(c, KindFruit) {
			continue
		}
		if !maze.Reachable(ref, c, l.tuning.SearchLimit) {
			continue
		}
		fruit := NewFruit(kind.Value, kind.Lifetime, kind.Arms)
		fruit.Occupy(c)
		l.fruits[fruit] = struct{}{}
		if kind.Lifetime > 0 {
			l.post(kind.Lifetime, event{kind: evFruitExpired, unit: fruit})
		}
		l.logger.Info(fmt.Sprintf("Level %s placed a %s at (%d,%d)", l.ID, kind.Name, c.X, c.Y))
		return
	}
	l.logger.Warning(fmt.Sprintf("Level %s found no cell for a fruit after %d tries", l.ID, l.tuning.SpawnRetries))
}

// spawnHunter adds a hunter in the center region unless the cap is reached, then
// restarts every actor task.
func (l *Level) spawnHunter() {
	if len(l.hunters) >= l.tuning.HunterCap {
		return
	}
	c := l.spawnCell(l.board.Center())
	if c == nil {
		l.logger.Warning(fmt.Sprintf("Level %s found no cell for a new hunter", l.ID))
		return
	}
	h := l.newHunter()
	h.Occupy(c)
	l.population++
	l.expected++
	l.addActor(h, RoleHunter)
	l.restartTasks()
	l.logger.Info(fmt.Sprintf("Level %s spawned hunter %s at (%d,%d)", l.ID, h.ID, c.X, c.Y))
}

// spawnCell picks an accessible cell without a hunter around center. It gives up after
// the configured number of tries and falls back to center when that is free.
func (l *Level) spawnCell(center *maze.Cell) *maze.Cell {
	r := l.tuning.CenterRadius
	for i := 0; i < l.tuning.SpawnRetries; i++ {
		c := l.board.Wrap(center.X-r+rand.Intn(2*r+1), center.Y-r+rand.Intn(2*r+1))
		if c.Accessible() && !hasKind(c, KindHunter) {
			return c
		}
	}
	if center.Accessible() {
		return center
	}
	return nil
}

func hasKind(c *maze.Cell, k Kind) bool {
	for _, o := range c.Occupants() {
		if u, ok := o.(*Unit); ok && u.Kind == k {
			return true
		}
	}
	return false
}
