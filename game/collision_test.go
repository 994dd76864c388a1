package game

import (
	"testing"
	"time"

	"github.com/beka-birhanu/vinom-chase/game/maze"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEffects struct {
	powerUps  int
	eaten     []*Unit
	trapped   map[*Unit]time.Duration
	armedFor  time.Duration
	hitPlayer *Unit
}

func (f *fakeEffects) PowerUp(*Unit) { f.powerUps++ }

func (f *fakeEffects) HunterEaten(h *Unit) int {
	h.LeaveCell()
	f.eaten = append(f.eaten, h)
	return 400
}

func (f *fakeEffects) Immobilize(u *Unit, d time.Duration) {
	if f.trapped == nil {
		f.trapped = make(map[*Unit]time.Duration)
	}
	f.trapped[u] = d
}

func (f *fakeEffects) Arm(_ *Unit, d time.Duration) { f.armedFor = d }
func (f *fakeEffects) PlayerHit(p *Unit)            { f.hitPlayer = p }

func corridor(t *testing.T) *maze.Board {
	t.Helper()
	tpl, err := maze.ParseTemplate([]string{"######", "#    #", "######"})
	require.NoError(t, err)
	b, _, err := maze.FromTemplate(tpl)
	require.NoError(t, err)
	return b
}

func TestCollideTeleport(t *testing.T) {
	t.Run("Relocates to the reference", func(t *testing.T) {
		tpl, err := maze.ParseTemplate([]string{"####", "#T #", "####", "----", "2 1"})
		require.NoError(t, err)
		b, tile, err := maze.FromTemplate(tpl)
		require.NoError(t, err)
		require.Len(t, tile.Marks, 1)

		m := tile.Marks[0]
		tp := NewTeleport(m.Destination)
		tp.Occupy(m.Cell)
		p := NewPlayer(0, time.Second)
		p.Occupy(m.Cell)

		NewCollisions(nil).Collide(p, tp)

		assert.Same(t, b.MustCellAt(2, 1), p.Cell())
		assert.Equal(t, []maze.Occupant{tp}, b.MustCellAt(1, 1).Occupants())
	})

	t.Run("Chain does not recurse", func(t *testing.T) {
		tpl, err := maze.ParseTemplate([]string{"#####", "#TT #", "#####", "-----", "2 1", "1 1"})
		require.NoError(t, err)
		b, tile, err := maze.FromTemplate(tpl)
		require.NoError(t, err)
		var tps []*Unit
		for _, m := range tile.Marks {
			tp := NewTeleport(m.Destination)
			tp.Occupy(m.Cell)
			tps = append(tps, tp)
		}
		p := NewPlayer(0, time.Second)
		p.Occupy(b.MustCellAt(1, 1))

		NewCollisions(nil).Collide(p, tps[0])

		assert.Same(t, b.MustCellAt(2, 1), p.Cell())
		assert.True(t, b.MustCellAt(2, 1).Has(tps[1]))
	})

	t.Run("Adopts the facing of a bridge", func(t *testing.T) {
		b := corridor(t)
		dest := b.MustCellAt(3, 1)
		bridge := NewBridge(maze.BridgeSpec{Vertical: true, Facing: maze.South})
		bridge.Occupy(dest)
		tp := NewTeleport(dest)
		tp.Occupy(b.MustCellAt(1, 1))
		p := NewPlayer(0, time.Second)
		p.setFacing(maze.East)
		p.Occupy(b.MustCellAt(1, 1))

		NewCollisions(nil).Collide(p, tp)

		assert.Same(t, dest, p.Cell())
		assert.Equal(t, maze.South, p.Facing())
		assert.Equal(t, OnBridge, p.BridgePosition())
	})
}

func TestCollidePlayerHunter(t *testing.T) {
	b := corridor(t)
	cell := b.MustCellAt(2, 1)

	t.Run("Last life kills the player", func(t *testing.T) {
		p, h := NewPlayer(0, time.Second), NewHunter(idle(), time.Second, 0)
		h.Occupy(cell)
		p.Occupy(cell)
		NewCollisions(nil).Collide(p, h)
		assert.False(t, p.Alive())
		h.LeaveCell()
		p.LeaveCell()
	})

	t.Run("Hunter arriving resolves the same way", func(t *testing.T) {
		p, h := NewPlayer(0, time.Second), NewHunter(idle(), time.Second, 0)
		p.Occupy(cell)
		h.Occupy(cell)
		NewCollisions(nil).Collide(h, p)
		assert.False(t, p.Alive())
		h.LeaveCell()
		p.LeaveCell()
	})

	t.Run("Extra life is spent", func(t *testing.T) {
		fx := &fakeEffects{}
		p, h := NewPlayer(1, time.Second), NewHunter(idle(), time.Second, 0)
		h.Occupy(cell)
		p.Occupy(cell)
		NewCollisions(fx).Collide(p, h)
		assert.True(t, p.Alive())
		assert.Equal(t, 0, p.Lives())
		assert.Same(t, p, fx.hitPlayer)
		h.LeaveCell()
		p.LeaveCell()
	})

	t.Run("Feared hunter is eaten", func(t *testing.T) {
		p, h := NewPlayer(0, time.Second), NewHunter(idle(), time.Second, 0)
		h.setFear(true, false)
		h.Occupy(cell)
		p.Occupy(cell)
		NewCollisions(nil).Collide(p, h)
		assert.True(t, p.Alive())
		assert.Equal(t, defaultBounty, p.Score())
		assert.Nil(t, h.Cell())
		p.LeaveCell()
	})

	t.Run("Different bridge positions do not meet", func(t *testing.T) {
		p, h := NewPlayer(0, time.Second), NewHunter(idle(), time.Second, 0)
		h.setBridgePosition(UnderBridge)
		p.setBridgePosition(OnBridge)
		h.Occupy(cell)
		p.Occupy(cell)
		NewCollisions(nil).Collide(p, h)
		assert.True(t, p.Alive())
		h.LeaveCell()
		p.LeaveCell()
	})
}

func TestCollideFeatures(t *testing.T) {
	b := corridor(t)
	cell := b.MustCellAt(2, 1)

	t.Run("Pellet counts once", func(t *testing.T) {
		p, pellet := NewPlayer(0, time.Second), NewPellet(10)
		pellet.Occupy(cell)
		p.Occupy(cell)
		c := NewCollisions(nil)
		c.Collide(p, pellet)
		c.Collide(p, pellet)
		assert.Equal(t, 10, p.Score())
		assert.True(t, pellet.Consumed())
		assert.False(t, cell.Has(pellet))
		p.LeaveCell()
	})

	t.Run("Power pellet powers up", func(t *testing.T) {
		fx := &fakeEffects{}
		p, pellet := NewPlayer(0, time.Second), NewPowerPellet(50)
		pellet.Occupy(cell)
		p.Occupy(cell)
		NewCollisions(fx).Collide(p, pellet)
		assert.Equal(t, 50, p.Score())
		assert.Equal(t, 1, fx.powerUps)
		p.LeaveCell()
	})

	t.Run("Hole traps", func(t *testing.T) {
		fx := &fakeEffects{}
		h, hole := NewHunter(idle(), time.Second, 0), NewHole(3*time.Second)
		hole.Occupy(cell)
		h.Occupy(cell)
		NewCollisions(fx).Collide(h, hole)
		assert.False(t, h.Movable())
		assert.Equal(t, 3*time.Second, fx.trapped[h])
		h.LeaveCell()
	})

	t.Run("Armed fruit", func(t *testing.T) {
		fx := &fakeEffects{}
		p, fruit := NewPlayer(0, time.Second), NewFruit(50, time.Second, 5*time.Second)
		fruit.Occupy(cell)
		p.Occupy(cell)
		NewCollisions(fx).Collide(p, fruit)
		assert.Equal(t, 50, p.Score())
		assert.True(t, p.Shooting())
		assert.Equal(t, 5*time.Second, fx.armedFor)
		p.LeaveCell()
	})

	t.Run("Bridge elevation follows facing", func(t *testing.T) {
		bridge := NewBridge(maze.BridgeSpec{Facing: maze.East})
		bridge.Occupy(cell)
		along, across := NewHunter(idle(), time.Second, 0), NewHunter(idle(), time.Second, 0)
		along.setFacing(maze.West)
		across.setFacing(maze.North)
		along.Occupy(cell)
		across.Occupy(cell)
		c := NewCollisions(nil)
		c.Collide(along, bridge)
		c.Collide(across, bridge)
		assert.Equal(t, OnBridge, along.BridgePosition())
		assert.Equal(t, UnderBridge, across.BridgePosition())
		assert.True(t, blockedByBridge(along, maze.North))
		assert.False(t, blockedByBridge(along, maze.East))
		assert.True(t, blockedByBridge(across, maze.West))
		assert.False(t, blockedByBridge(across, maze.South))
		along.LeaveCell()
		across.LeaveCell()
		bridge.LeaveCell()
	})

	t.Run("Projectile hits hunter", func(t *testing.T) {
		fx := &fakeEffects{}
		owner := NewPlayer(0, time.Second)
		proj, h := NewProjectile(owner, maze.East, time.Second), NewHunter(idle(), time.Second, 0)
		h.Occupy(cell)
		proj.Occupy(cell)
		NewCollisions(fx).Collide(proj, h)
		assert.False(t, proj.Alive())
		assert.True(t, h.Exploding())
		assert.Equal(t, 400, owner.Score())
		assert.Equal(t, []*Unit{h}, fx.eaten)
		proj.LeaveCell()
	})
}
