/*
Package game runs a maze-chase level.

A Level owns a toroidal board, the actors moving on it (players, hunters and
projectiles) and the stationary features they collide with. Every actor steps on its own
goroutine; a move lock serializes steps, timer events and board growth, and a start/stop
lock serializes the bulk start and cancellation of the actor tasks.
*/
package game

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/beka-birhanu/vinom-chase/game/maze"
	general_i "github.com/beka-birhanu/vinom-common/interfaces/general"
	"github.com/google/uuid"
)

// Level-related errors.
var (
	ErrNoPlayerStart = errors.New("template has no player start")
	ErrRoleMismatch  = errors.New("unit kind does not match the role")
	ErrUnknownUnit   = errors.New("unit is not registered on the level")
	ErrNotArmed      = errors.New("player cannot shoot")
	ErrNotOnBoard    = errors.New("unit is not on the board")
	ErrNoSpawnCell   = errors.New("no free spawn cell")
	ErrNoLogger      = errors.New("logger is required")
)

// Role partitions the actors of a level.
type Role uint8

// Actor roles.
const (
	RolePlayer Role = iota
	RoleHunter
	RoleProjectile
)

func (r Role) kind() Kind {
	switch r {
	case RolePlayer:
		return KindPlayer
	case RoleHunter:
		return KindHunter
	default:
		return KindProjectile
	}
}

// Config configures a level.
type Config struct {
	Tuning       Tuning           // Timings, caps and values.
	Infinite     bool             // Unbounded play: hunter spawner and ramp, no win condition.
	HunterPolicy func() Policy    // Policy of every new hunter, Pursue when nil.
	Logger       general_i.Logger // Logger of the level.
}

// schedule is the handle of a running actor task.
type schedule struct {
	cancel func() // Stops the task, nil while not running.
}

// Level is a running game on one board.
type Level struct {
	ID uuid.UUID // Unique identifier of the level.

	board      *maze.Board
	template   *maze.Template
	tuning     Tuning
	infinite   bool
	newPolicy  func() Policy
	logger     general_i.Logger
	collisions *Collisions
	observers  []Observer

	players     []*Unit                   // Registered players in registration order.
	hunters     []*Unit                   // Registered hunters, on the board or waiting to respawn.
	projectiles []*Unit                   // Live and dead projectiles.
	schedules   map[*Unit]*schedule       // Task handle of every registered actor.
	starts      []*maze.Cell              // Player start cells.
	nextStart   int                       // Start cell of the next player.
	armed       map[*Unit]uint64          // Shooting window generation per player.
	fruits      map[*Unit]struct{}        // Fruits on the board.
	timers      map[eventKind]*time.Timer // Periodic spawner timers of the current run.

	inProgress atomic.Bool // Written under startStopLock.
	run        uint64      // Generation of the current run, bumped by every start.

	mode       Mode        // Global power mode.
	window     uint64      // Generation of the current power window.
	warnTimer  *time.Timer // Warning of the current window.
	endTimer   *time.Timer // Expiry of the current window.
	powerLeft  int         // Power pellets left on the board.
	eatenCount int         // Hunters eaten in the current window.
	eaten      []*Unit     // Eaten hunters waiting to respawn, most recent last.
	population int         // Hunters on the board.
	expected   int         // Hunters the level is meant to have.
	huntStart  bool        // A power window opened since the last observer pass.
	won        bool        // LevelWon was already sent.

	moveLock      sync.Mutex
	startStopLock sync.Mutex
}

// NewLevel builds a level on a single tile of tpl. Features and hunters are placed on
// their marks; players join with RegisterPlayer.
func NewLevel(tpl *maze.Template, c Config) (*Level, error) {
	if c.Logger == nil {
		return nil, ErrNoLogger
	}
	if err := c.Tuning.Validate(); err != nil {
		return nil, err
	}
	board, tile, err := maze.FromTemplate(tpl)
	if err != nil {
		return nil, err
	}

	l := &Level{
		ID:        uuid.New(),
		board:     board,
		template:  tpl,
		tuning:    c.Tuning,
		infinite:  c.Infinite,
		newPolicy: c.HunterPolicy,
		logger:    c.Logger,
		schedules: make(map[*Unit]*schedule),
		armed:     make(map[*Unit]uint64),
		fruits:    make(map[*Unit]struct{}),
		timers:    make(map[eventKind]*time.Timer),
		mode:      Normal,
	}
	if l.newPolicy == nil {
		limit := c.Tuning.SearchLimit
		l.newPolicy = func() Policy { return Pursue{Limit: limit} }
	}
	l.collisions = NewCollisions(l)

	l.attach(tile.Marks, true)
	if len(l.starts) == 0 {
		return nil, ErrNoPlayerStart
	}
	return l, nil
}

// attach places a unit on every mark. Player marks only record start cells, and only
// for the initial tile. The caller holds the move lock or owns the level exclusively.
func (l *Level) attach(marks []maze.Mark, initial bool) {
	for _, m := range marks {
		switch m.Tag {
		case maze.TagPlayer:
			if initial {
				l.starts = append(l.starts, m.Cell)
			}
		case maze.TagPellet:
			NewPellet(l.tuning.PelletValue).Occupy(m.Cell)
		case maze.TagPower:
			NewPowerPellet(l.tuning.PowerPelletValue).Occupy(m.Cell)
			l.powerLeft++
		case maze.TagHole:
			NewHole(l.tuning.HoleTrap).Occupy(m.Cell)
		case maze.TagTeleport:
			NewTeleport(m.Destination).Occupy(m.Cell)
		case maze.TagBridge:
			NewBridge(m.Bridge).Occupy(m.Cell)
		case maze.TagHunter:
			h := l.newHunter()
			h.Occupy(m.Cell)
			l.population++
			l.expected++
			l.addActor(h, RoleHunter)
		}
	}
}

func (l *Level) newHunter() *Unit {
	return NewHunter(l.newPolicy(), l.tuning.HunterInterval, l.tuning.FearedInterval)
}

// NewPlayer returns a player with the level's interval and lives.
func (l *Level) NewPlayer() *Unit {
	return NewPlayer(l.tuning.PlayerLives, l.tuning.PlayerInterval)
}

// addActor records u under role and starts its task when the level runs.
// The caller holds the move lock.
func (l *Level) addActor(u *Unit, role Role) {
	l.startStopLock.Lock()
	defer l.startStopLock.Unlock()

	s := &schedule{}
	l.schedules[u] = s
	switch role {
	case RolePlayer:
		l.players = append(l.players, u)
	case RoleHunter:
		l.hunters = append(l.hunters, u)
	case RoleProjectile:
		l.projectiles = append(l.projectiles, u)
	}
	if l.inProgress.Load() && u.Alive() {
		l.startTask(u, s)
	}
}

// removeActor cancels the task of u and forgets it. The caller holds the move lock.
func (l *Level) removeActor(u *Unit) {
	l.startStopLock.Lock()
	defer l.startStopLock.Unlock()

	if s, ok := l.schedules[u]; ok && s.cancel != nil {
		s.cancel()
	}
	delete(l.schedules, u)
	del := func(s []*Unit) []*Unit {
		return slices.DeleteFunc(s, func(o *Unit) bool { return o == u })
	}
	l.players = del(l.players)
	l.hunters = del(l.hunters)
	l.projectiles = del(l.projectiles)
}

// RegisterPlayer registers a player and places it on the next start cell.
func (l *Level) RegisterPlayer(p *Unit) error {
	return l.RegisterUnit(p, RolePlayer)
}

// RegisterHunter registers a hunter. A hunter that is not on the board is placed in the
// center region.
func (l *Level) RegisterHunter(h *Unit) error {
	return l.RegisterUnit(h, RoleHunter)
}

// RegisterUnit registers an actor under role. Registering twice has no effect. Players
// off the board go to the next start cell, hunters off the board to the center region;
// projectiles must already be on the board.
func (l *Level) RegisterUnit(u *Unit, role Role) error {
	if u.Kind != role.kind() {
		return fmt.Errorf("%w: %v as %v", ErrRoleMismatch, u.Kind, role.kind())
	}

	l.moveLock.Lock()
	defer l.moveLock.Unlock()

	if l.registered(u) {
		return nil
	}
	switch role {
	case RolePlayer:
		start := l.starts[l.nextStart]
		l.nextStart = (l.nextStart + 1) % len(l.starts)
		u.start = start
		if u.Cell() == nil {
			u.Occupy(start)
		}
	case RoleHunter:
		if u.Cell() == nil {
			c := l.spawnCell(l.board.Center())
			if c == nil {
				return ErrNoSpawnCell
			}
			u.Occupy(c)
		}
		l.population++
		l.expected++
	case RoleProjectile:
		if u.Cell() == nil {
			return ErrNotOnBoard
		}
	}
	l.addActor(u, role)
	return nil
}

func (l *Level) registered(u *Unit) bool {
	_, ok := l.schedules[u]
	return ok
}

// Unregister takes an actor off the level and cancels its task. Unknown units are
// ignored.
func (l *Level) Unregister(u *Unit) {
	l.moveLock.Lock()
	defer l.moveLock.Unlock()

	if !l.registered(u) {
		return
	}
	if u.Kind == KindHunter {
		if u.Cell() != nil {
			l.population--
		}
		l.expected--
		l.eaten = slices.DeleteFunc(l.eaten, func(o *Unit) bool { return o == u })
	}
	u.LeaveCell()
	delete(l.armed, u)
	l.removeActor(u)
}

// AddObserver adds an observer. Adding the same observer twice has no effect.
func (l *Level) AddObserver(o Observer) {
	l.moveLock.Lock()
	defer l.moveLock.Unlock()
	if slices.Contains(l.observers, o) {
		return
	}
	l.observers = append(l.observers, o)
}

// RemoveObserver removes an observer.
func (l *Level) RemoveObserver(o Observer) {
	l.moveLock.Lock()
	defer l.moveLock.Unlock()
	l.observers = slices.DeleteFunc(l.observers, func(x Observer) bool { return x == o })
}

// Move moves u one cell towards d if possible, resolves collisions and notifies
// observers. It does nothing while the level is stopped or u cannot move.
func (l *Level) Move(u *Unit, d maze.Direction) {
	l.moveLock.Lock()
	defer l.moveLock.Unlock()
	l.move(u, d)
}

// move is Move for callers holding the move lock.
func (l *Level) move(u *Unit, d maze.Direction) {
	if !l.IsRunning() || !u.Alive() || !u.Movable() {
		return
	}
	from := u.Cell()
	if from == nil {
		return
	}

	u.setFacing(d)
	to := from.Neighbor(d)
	if to.Accessible() && !blockedByBridge(u, d) {
		u.setBridgePosition(NotApplicable)
		occupants := to.Occupants()
		u.Occupy(to)
		// Bridges first: they decide which occupants u can meet.
		slices.SortStableFunc(occupants, func(a, b maze.Occupant) int {
			return bridgeRank(a) - bridgeRank(b)
		})
		for _, o := range occupants {
			if other, ok := o.(*Unit); ok {
				l.collisions.Collide(u, other)
			}
		}
	} else if u.Kind == KindProjectile {
		u.kill()
	}
	l.updateObservers()
}

func bridgeRank(o maze.Occupant) int {
	if u, ok := o.(*Unit); ok && u.Kind == KindBridge {
		return 0
	}
	return 1
}

// Steer sets the direction a player keeps moving in.
func (l *Level) Steer(p *Unit, d maze.Direction) error {
	l.moveLock.Lock()
	defer l.moveLock.Unlock()

	s, ok := p.policy.(*steered)
	if !ok || !l.registered(p) {
		return ErrUnknownUnit
	}
	s.dir, s.set = d, true
	return nil
}

// Shoot fires a projectile from the cell of p in the direction p faces.
func (l *Level) Shoot(p *Unit) (*Unit, error) {
	l.moveLock.Lock()
	defer l.moveLock.Unlock()

	if p.Kind != KindPlayer || !l.registered(p) {
		return nil, ErrUnknownUnit
	}
	if !p.Alive() || !p.Shooting() {
		return nil, ErrNotArmed
	}
	c := p.Cell()
	if c == nil {
		return nil, ErrNotOnBoard
	}
	proj := NewProjectile(p, p.Facing(), l.tuning.ProjectileInterval)
	proj.Occupy(c)
	l.addActor(proj, RoleProjectile)
	return proj, nil
}

// Extend grows the board by one template tile in direction d and populates the new
// tiles. Hunters found on the new tiles join the level.
func (l *Level) Extend(d maze.Direction) error {
	l.moveLock.Lock()
	defer l.moveLock.Unlock()

	tiles, err := l.board.Extend(d, func() (*maze.Tile, error) { return l.template.NewTile(), nil })
	if err != nil {
		l.logger.Error(fmt.Sprintf("Level %s failed to extend %v: %v", l.ID, d, err))
		return err
	}
	for _, t := range tiles {
		l.attach(t.Marks, false)
	}
	l.logger.Info(fmt.Sprintf("Level %s extended %v to %dx%d", l.ID, d, l.board.Width(), l.board.Height()))
	return nil
}

// NearEdge returns the directions in which u is at most margin cells from the edge.
func (l *Level) NearEdge(u *Unit, margin int) []maze.Direction {
	l.moveLock.Lock()
	defer l.moveLock.Unlock()
	c := u.Cell()
	if c == nil {
		return nil
	}
	return l.board.NearEdges(c, margin)
}

// Players returns the registered players in registration order.
func (l *Level) Players() []*Unit {
	l.moveLock.Lock()
	defer l.moveLock.Unlock()
	return slices.Clone(l.players)
}

// Hunters returns the registered hunters.
func (l *Level) Hunters() []*Unit {
	l.moveLock.Lock()
	defer l.moveLock.Unlock()
	return slices.Clone(l.hunters)
}

// Mode returns the current power mode.
func (l *Level) Mode() Mode {
	l.moveLock.Lock()
	defer l.moveLock.Unlock()
	return l.mode
}

// Infinite reports whether the level runs in infinite mode.
func (l *Level) Infinite() bool { return l.infinite }

// remainingPellets counts the small and power pellets on the board.
func (l *Level) remainingPellets() int {
	n := 0
	l.board.Cells(func(c *maze.Cell) bool {
		for _, o := range c.Occupants() {
			if u, ok := o.(*Unit); ok && (u.Kind == KindPellet || u.Kind == KindPowerPellet) {
				n++
			}
		}
		return true
	})
	return n
}

// levelView is the View handed to policies while the move lock is held.
type levelView struct{ l *Level }

func (v levelView) Board() *maze.Board { return v.l.board }
func (v levelView) Players() []*Unit   { return v.l.players }
func (v levelView) Hunters() []*Unit   { return v.l.hunters }
