package game

import (
	"fmt"
	"time"
)

const defaultBounty = 200 // Points of the first hunter eaten in a power window.

// Mode is the global power mode of a level.
type Mode uint8

// Power modes.
const (
	Normal        Mode = iota // Hunters chase players.
	HunterActive              // Hunters are feared.
	HunterWarning             // Hunters are feared and the window is about to close.
)

func (m Mode) String() string {
	switch m {
	case HunterActive:
		return "hunter-active"
	case HunterWarning:
		return "hunter-warning"
	default:
		return "normal"
	}
}

var _ Effects = &Level{}

// PowerUp implements Effects.
func (l *Level) PowerUp(*Unit) {
	l.powerLeft--
	l.startHunterMode()
}

// startHunterMode fears every hunter on the board and opens a new power window. More
// power pellets left means a longer window.
func (l *Level) startHunterMode() {
	l.window++
	if l.warnTimer != nil {
		l.warnTimer.Stop()
	}
	if l.endTimer != nil {
		l.endTimer.Stop()
	}

	warn, end := l.tuning.ShortWarning, l.tuning.ShortExpiry
	if l.powerLeft >= l.tuning.LongWindowPellets {
		warn, end = l.tuning.LongWarning, l.tuning.LongExpiry
	}
	l.warnTimer = l.post(warn, event{kind: evWarning, gen: l.window})
	l.endTimer = l.post(end, event{kind: evExpiry, gen: l.window})

	for _, h := range l.hunters {
		if h.Cell() != nil {
			h.setFear(true, false)
		}
	}
	l.mode = HunterActive
	l.eatenCount = 0
	l.huntStart = true
	l.logger.Info(fmt.Sprintf("Level %s power window %d opened for %v, %d power pellets left", l.ID, l.window, end, l.powerLeft))
}

// warnHunters flags every feared hunter as about to recover.
func (l *Level) warnHunters() {
	for _, h := range l.hunters {
		if h.Feared() {
			h.setFear(true, true)
		}
	}
	l.mode = HunterWarning
}

// stopHunterMode ends the power window.
func (l *Level) stopHunterMode() {
	for _, h := range l.hunters {
		h.setFear(false, false)
	}
	l.mode = Normal
	l.logger.Info(fmt.Sprintf("Level %s power window %d closed", l.ID, l.window))
}

// maxBountyShift caps the doubling of the hunter bounty within one window.
const maxBountyShift = 16

// HunterEaten implements Effects. The bounty doubles for every hunter eaten in the
// current power window; outside a window it is flat.
func (l *Level) HunterEaten(h *Unit) int {
	if h.Cell() == nil {
		return 0
	}
	h.LeaveCell()
	bounty := l.tuning.HunterBounty
	if l.mode != Normal {
		bounty <<= min(l.eatenCount, maxBountyShift)
		l.eatenCount++
	}
	l.eaten = append(l.eaten, h)
	l.population--
	l.post(l.tuning.RespawnDelay, event{kind: evRespawn})
	return bounty
}

// respawnHunter puts the most recently eaten hunter back in the center region.
func (l *Level) respawnHunter() {
	if len(l.eaten) == 0 {
		return
	}
	h := l.eaten[len(l.eaten)-1]
	c := l.spawnCell(l.board.Center())
	if c == nil {
		l.logger.Warning(fmt.Sprintf("Level %s has no free cell to respawn hunter %s", l.ID, h.ID))
		l.post(l.tuning.RespawnDelay, event{kind: evRespawn})
		return
	}
	l.eaten = l.eaten[:len(l.eaten)-1]

	h.setExploding(false)
	h.setFear(false, false)
	h.setBridgePosition(NotApplicable)
	h.Occupy(c)
	l.population++
	l.restartTasks()
}

// Immobilize implements Effects.
func (l *Level) Immobilize(u *Unit, d time.Duration) {
	l.post(d, event{kind: evRestore, unit: u})
}

// Arm implements Effects.
func (l *Level) Arm(p *Unit, d time.Duration) {
	l.armed[p]++
	l.post(d, event{kind: evDisarm, unit: p, gen: l.armed[p]})
}

// PlayerHit implements Effects.
func (l *Level) PlayerHit(p *Unit) {
	if p.start == nil {
		return
	}
	p.setBridgePosition(NotApplicable)
	p.Occupy(p.start)
}

// updateObservers evaluates the level after a move and notifies the observers.
// The caller holds the move lock.
func (l *Level) updateObservers() {
	if !l.infinite {
		if l.population < l.expected {
			for _, o := range l.observers {
				o.HunterNeedsRespawn()
			}
		}
		if !l.won && l.remainingPellets() == 0 {
			l.won = true
			l.logger.Info(fmt.Sprintf("Level %s won", l.ID))
			for _, o := range l.observers {
				o.LevelWon()
			}
		}
	}
	if len(l.players) > 0 && !l.anyPlayerAlive() {
		for _, o := range l.observers {
			o.LevelLost()
		}
	}
	if l.huntStart {
		l.huntStart = false
		for _, o := range l.observers {
			o.HunterModeStarted()
		}
	}
	if l.anyPlayerShooting() {
		for _, o := range l.observers {
			o.UnitShooting()
		}
	}

	var expired, live []*Unit
	for _, p := range l.projectiles {
		if p.Alive() {
			live = append(live, p)
		} else {
			expired = append(expired, p)
		}
	}
	if len(expired) == 0 {
		return
	}
	for _, o := range l.observers {
		o.ProjectilesToClean(expired, live)
	}
	for _, p := range expired {
		p.LeaveCell()
		l.removeActor(p)
	}
}

func (l *Level) anyPlayerAlive() bool {
	for _, p := range l.players {
		if p.Alive() {
			return true
		}
	}
	return false
}

func (l *Level) anyPlayerShooting() bool {
	for _, p := range l.players {
		if p.Shooting() {
			return true
		}
	}
	return false
}
