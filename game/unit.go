package game

import (
	"sync"
	"time"

	"github.com/beka-birhanu/vinom-chase/game/maze"
	"github.com/google/uuid"
)

// Kind is the closed set of unit variants.
type Kind uint8

// Unit kinds. Actors come first.
const (
	KindPlayer Kind = iota
	KindHunter
	KindProjectile
	KindPellet
	KindPowerPellet
	KindFruit
	KindHole
	KindTeleport
	KindBridge
)

var kindNames = [...]string{
	KindPlayer:      "player",
	KindHunter:      "hunter",
	KindProjectile:  "projectile",
	KindPellet:      "pellet",
	KindPowerPellet: "power-pellet",
	KindFruit:       "fruit",
	KindHole:        "hole",
	KindTeleport:    "teleport",
	KindBridge:      "bridge",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Actor reports whether units of this kind move on their own.
func (k Kind) Actor() bool {
	return k <= KindProjectile
}

// BridgePosition tells on which level of a bridge a unit is.
type BridgePosition uint8

// Bridge positions.
const (
	NotApplicable BridgePosition = iota // Not on a bridge cell.
	OnBridge                            // Crossing along the bridge.
	UnderBridge                         // Crossing below the bridge.
)

// Unit is anything that occupies a cell: an actor (player, hunter, projectile) or a
// stationary feature. Fields that do not apply to a kind stay at their zero value.
//
// Unit state is mutated by the level under its move lock; the embedded lock only makes
// the accessors safe for readers outside the level.
type Unit struct {
	ID   uuid.UUID // Unique identifier of the unit.
	Kind Kind      // Variant of the unit.

	cell      *maze.Cell     // Cell the unit stands on, nil when off the board.
	facing    maze.Direction // Direction the unit last moved or was turned to.
	interval  time.Duration  // Base time between two steps.
	feared    time.Duration  // Step interval override while feared, zero for none.
	speed     float64        // Speed multiplier applied to interval.
	alive     bool           // Liveness of an actor.
	movable   bool           // False while trapped.
	bridge    BridgePosition // Elevation relative to a bridge.
	policy    Policy         // Decides the next step of an actor.
	score     int            // Points collected by a player.
	lives     int            // Extra lives of a player.
	isFeared  bool           // Hunter is vulnerable.
	warning   bool           // Hunter vulnerability is about to end.
	exploding bool           // Hunter was shot.
	shooting  bool           // Player may shoot.
	owner     *Unit          // Player that fired a projectile.
	start     *maze.Cell     // Start cell of a player.

	value       int             // Points given by a collectible.
	lifetime    time.Duration   // Time a fruit stays on the board.
	trap        time.Duration   // Time a hole immobilizes its victim.
	arms        time.Duration   // Shooting time granted by a fruit.
	destination *maze.Cell      // Destination of a teleport.
	orientation maze.BridgeSpec // Orientation of a bridge.
	consumed    bool            // Feature has been taken off the board.

	mu sync.RWMutex
}

func newActor(kind Kind, interval time.Duration, policy Policy) *Unit {
	return &Unit{
		ID:       uuid.New(),
		Kind:     kind,
		interval: interval,
		speed:    1,
		alive:    true,
		movable:  true,
		policy:   policy,
	}
}

// NewPlayer returns a player with the given number of extra lives, steered by Steer.
func NewPlayer(lives int, interval time.Duration) *Unit {
	p := newActor(KindPlayer, interval, nil)
	p.lives = lives
	p.policy = &steered{}
	p.facing = maze.West
	return p
}

// NewHunter returns a hunter driven by policy. feared is the step interval used while
// the hunter is feared, zero to keep the normal interval.
func NewHunter(policy Policy, interval, feared time.Duration) *Unit {
	h := newActor(KindHunter, interval, policy)
	h.feared = feared
	return h
}

// NewProjectile returns a projectile flying straight in facing, fired by owner.
func NewProjectile(owner *Unit, facing maze.Direction, interval time.Duration) *Unit {
	p := newActor(KindProjectile, interval, Straight{})
	p.owner = owner
	p.facing = facing
	return p
}

func newFeature(kind Kind) *Unit {
	return &Unit{ID: uuid.New(), Kind: kind}
}

// NewPellet returns a small collectible worth value points.
func NewPellet(value int) *Unit {
	u := newFeature(KindPellet)
	u.value = value
	return u
}

// NewPowerPellet returns a power collectible worth value points.
func NewPowerPellet(value int) *Unit {
	u := newFeature(KindPowerPellet)
	u.value = value
	return u
}

// NewFruit returns a fruit worth value points that stays lifetime on the board and
// lets its eater shoot for arms.
func NewFruit(value int, lifetime, arms time.Duration) *Unit {
	u := newFeature(KindFruit)
	u.value = value
	u.lifetime = lifetime
	u.arms = arms
	return u
}

// NewHole returns a hole that immobilizes its victim for trap.
func NewHole(trap time.Duration) *Unit {
	u := newFeature(KindHole)
	u.trap = trap
	return u
}

// NewTeleport returns a teleport to destination.
func NewTeleport(destination *maze.Cell) *Unit {
	u := newFeature(KindTeleport)
	u.destination = destination
	return u
}

// NewBridge returns a bridge with the given orientation.
func NewBridge(spec maze.BridgeSpec) *Unit {
	u := newFeature(KindBridge)
	u.orientation = spec
	u.facing = spec.Facing
	return u
}

// Glyph implements maze.Occupant.
func (u *Unit) Glyph() rune {
	switch u.Kind {
	case KindPlayer:
		return rune(maze.TagPlayer)
	case KindHunter:
		return rune(maze.TagHunter)
	case KindProjectile:
		return '*'
	case KindPellet:
		return rune(maze.TagPellet)
	case KindPowerPellet:
		return rune(maze.TagPower)
	case KindFruit:
		return 'F'
	case KindHole:
		return rune(maze.TagHole)
	case KindTeleport:
		return rune(maze.TagTeleport)
	case KindBridge:
		return rune(maze.TagBridge)
	}
	return '?'
}

// Occupy moves the unit to c, leaving its old cell first.
func (u *Unit) Occupy(c *maze.Cell) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.cell != nil {
		u.cell.Leave(u)
	}
	u.cell = c
	c.Enter(u)
}

// LeaveCell takes the unit off the board.
func (u *Unit) LeaveCell() {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.cell != nil {
		u.cell.Leave(u)
		u.cell = nil
	}
}

// consume takes a feature off the board. It reports false when the feature was
// already consumed.
func (u *Unit) consume() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.consumed {
		return false
	}
	u.consumed = true
	if u.cell != nil {
		u.cell.Leave(u)
		u.cell = nil
	}
	return true
}

// Cell returns the cell the unit stands on, nil when it is off the board.
func (u *Unit) Cell() *maze.Cell {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.cell
}

// Facing returns the direction the unit is facing.
func (u *Unit) Facing() maze.Direction {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.facing
}

func (u *Unit) setFacing(d maze.Direction) {
	u.mu.Lock()
	u.facing = d
	u.mu.Unlock()
}

// Interval returns the time until the next step, taking speed and fear into account.
func (u *Unit) Interval() time.Duration {
	u.mu.RLock()
	defer u.mu.RUnlock()
	base := u.interval
	if u.isFeared && u.feared > 0 {
		base = u.feared
	}
	if u.speed <= 0 {
		return base
	}
	return time.Duration(float64(base) / u.speed)
}

// Speed returns the speed multiplier.
func (u *Unit) Speed() float64 {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.speed
}

func (u *Unit) addSpeed(step float64) {
	u.mu.Lock()
	u.speed += step
	u.mu.Unlock()
}

// Alive reports whether the actor is alive.
func (u *Unit) Alive() bool {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.alive
}

func (u *Unit) kill() {
	u.mu.Lock()
	u.alive = false
	u.mu.Unlock()
}

// Movable reports whether the actor may move.
func (u *Unit) Movable() bool {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.movable
}

func (u *Unit) setMovable(m bool) {
	u.mu.Lock()
	u.movable = m
	u.mu.Unlock()
}

// BridgePosition returns the elevation of the unit relative to a bridge.
func (u *Unit) BridgePosition() BridgePosition {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.bridge
}

func (u *Unit) setBridgePosition(b BridgePosition) {
	u.mu.Lock()
	u.bridge = b
	u.mu.Unlock()
}

// Score returns the points of a player.
func (u *Unit) Score() int {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.score
}

func (u *Unit) addScore(points int) {
	u.mu.Lock()
	u.score += points
	u.mu.Unlock()
}

// Lives returns the extra lives left to a player.
func (u *Unit) Lives() int {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.lives
}

// loseLife spends an extra life. It reports false when none was left.
func (u *Unit) loseLife() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.lives <= 0 {
		return false
	}
	u.lives--
	return true
}

// Feared reports whether a hunter is vulnerable.
func (u *Unit) Feared() bool {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.isFeared
}

// Warning reports whether the vulnerability of a hunter is about to end.
func (u *Unit) Warning() bool {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.warning
}

// Exploding reports whether a hunter was shot.
func (u *Unit) Exploding() bool {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.exploding
}

func (u *Unit) setFear(feared, warning bool) {
	u.mu.Lock()
	u.isFeared = feared
	u.warning = warning
	u.mu.Unlock()
}

func (u *Unit) setExploding(e bool) {
	u.mu.Lock()
	u.exploding = e
	u.mu.Unlock()
}

// Shooting reports whether a player may shoot.
func (u *Unit) Shooting() bool {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.shooting
}

func (u *Unit) setShooting(s bool) {
	u.mu.Lock()
	u.shooting = s
	u.mu.Unlock()
}

// Value returns the points given by a collectible.
func (u *Unit) Value() int { return u.value }

// Lifetime returns how long a fruit stays on the board.
func (u *Unit) Lifetime() time.Duration { return u.lifetime }

// Destination returns the destination of a teleport.
func (u *Unit) Destination() *maze.Cell { return u.destination }

// Orientation returns the orientation of a bridge.
func (u *Unit) Orientation() maze.BridgeSpec { return u.orientation }

// Consumed reports whether a feature has been taken off the board.
func (u *Unit) Consumed() bool {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.consumed
}
