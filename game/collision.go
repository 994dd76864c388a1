package game

import (
	"time"

	"github.com/beka-birhanu/vinom-chase/game/maze"
)

// Effects are the level-wide consequences a collision can trigger. The level
// implements it; collisions work without one, flipping unit flags only.
type Effects interface {
	// PowerUp starts power mode for every hunter on the board.
	PowerUp(player *Unit)
	// HunterEaten takes a hunter off the board and returns its bounty.
	HunterEaten(hunter *Unit) int
	// Immobilize arms the timer that gives mobility back to u after d.
	Immobilize(u *Unit, d time.Duration)
	// Arm lets player shoot for d.
	Arm(player *Unit, d time.Duration)
	// PlayerHit puts a player that lost a life back on its start cell.
	PlayerHit(player *Unit)
}

type pair struct {
	mover    Kind
	occupant Kind
}

type rule func(c *Collisions, mover, occupant *Unit)

// Collisions resolves what happens when a unit arrives on a cell holding another.
// Rules are looked up by (mover, occupant) kind and fall back to the swapped pair,
// so (hunter, player) resolves like (player, hunter).
type Collisions struct {
	effects Effects
	rules   map[pair]rule
}

// NewCollisions returns the collision table. effects may be nil.
func NewCollisions(effects Effects) *Collisions {
	return &Collisions{
		effects: effects,
		rules: map[pair]rule{
			{KindPlayer, KindHunter}:      playerVersusHunter,
			{KindPlayer, KindPellet}:      playerVersusCollectible,
			{KindPlayer, KindPowerPellet}: playerVersusPowerPellet,
			{KindPlayer, KindFruit}:       playerVersusFruit,
			{KindPlayer, KindHole}:        actorVersusHole,
			{KindHunter, KindHole}:        actorVersusHole,
			{KindPlayer, KindTeleport}:    playerVersusTeleport,
			{KindPlayer, KindBridge}:      actorVersusBridge,
			{KindHunter, KindBridge}:      actorVersusBridge,
			{KindProjectile, KindHunter}:  projectileVersusHunter,
		},
	}
}

// Collide resolves mover arriving on the cell of occupant. Units at different bridge
// positions do not interact. Pairs without a rule are ignored.
func (c *Collisions) Collide(mover, occupant *Unit) {
	if mover == occupant || mover.BridgePosition() != occupant.BridgePosition() {
		return
	}
	if cell := mover.Cell(); cell == nil || cell != occupant.Cell() {
		return
	}
	if r, ok := c.rules[pair{mover.Kind, occupant.Kind}]; ok {
		r(c, mover, occupant)
		return
	}
	if r, ok := c.rules[pair{occupant.Kind, mover.Kind}]; ok {
		r(c, occupant, mover)
	}
}

func playerVersusHunter(c *Collisions, player, hunter *Unit) {
	if !player.Alive() {
		return
	}
	if hunter.Feared() {
		bounty := defaultBounty
		if c.effects != nil {
			bounty = c.effects.HunterEaten(hunter)
		} else {
			hunter.LeaveCell()
		}
		player.addScore(bounty)
		return
	}
	if player.loseLife() {
		if c.effects != nil {
			c.effects.PlayerHit(player)
		}
		return
	}
	player.kill()
}

func playerVersusCollectible(_ *Collisions, player, collectible *Unit) {
	if collectible.consume() {
		player.addScore(collectible.Value())
	}
}

func playerVersusPowerPellet(c *Collisions, player, pellet *Unit) {
	if !pellet.consume() {
		return
	}
	player.addScore(pellet.Value())
	if c.effects != nil {
		c.effects.PowerUp(player)
	}
}

func playerVersusFruit(c *Collisions, player, fruit *Unit) {
	if !fruit.consume() {
		return
	}
	player.addScore(fruit.Value())
	if fruit.arms > 0 {
		player.setShooting(true)
		if c.effects != nil {
			c.effects.Arm(player, fruit.arms)
		}
	}
}

func actorVersusHole(c *Collisions, actor, hole *Unit) {
	if !hole.consume() {
		return
	}
	actor.setMovable(false)
	if c.effects != nil {
		c.effects.Immobilize(actor, hole.trap)
	}
}

func playerVersusTeleport(c *Collisions, player, teleport *Unit) {
	dest := teleport.Destination()
	if dest == nil || !dest.Accessible() {
		return
	}
	occupants := dest.Occupants()
	player.Occupy(dest)
	for _, o := range occupants {
		u, ok := o.(*Unit)
		if !ok || u.Kind == KindTeleport {
			continue
		}
		if u.Kind == KindBridge {
			player.setFacing(u.Orientation().Facing)
		}
		c.Collide(player, u)
	}
}

func actorVersusBridge(_ *Collisions, actor, bridge *Unit) {
	if parallel(bridge.Orientation(), actor.Facing()) {
		actor.setBridgePosition(OnBridge)
	} else {
		actor.setBridgePosition(UnderBridge)
	}
}

func projectileVersusHunter(c *Collisions, projectile, hunter *Unit) {
	if !projectile.Alive() {
		return
	}
	hunter.setExploding(true)
	bounty := defaultBounty
	if c.effects != nil {
		bounty = c.effects.HunterEaten(hunter)
	} else {
		hunter.LeaveCell()
	}
	if projectile.owner != nil {
		projectile.owner.addScore(bounty)
	}
	projectile.kill()
}

// parallel reports whether d runs along the bridge.
func parallel(b maze.BridgeSpec, d maze.Direction) bool {
	return b.Vertical != d.Horizontal()
}

// blockedByBridge reports whether u may not leave its cell towards d: a unit on a
// bridge only moves along it, a unit under a bridge only across it.
func blockedByBridge(u *Unit, d maze.Direction) bool {
	pos := u.BridgePosition()
	if pos == NotApplicable {
		return false
	}
	c := u.Cell()
	if c == nil {
		return false
	}
	for _, o := range c.Occupants() {
		b, ok := o.(*Unit)
		if !ok || b.Kind != KindBridge {
			continue
		}
		along := parallel(b.Orientation(), d)
		return (pos == OnBridge && !along) || (pos == UnderBridge && along)
	}
	return false
}
