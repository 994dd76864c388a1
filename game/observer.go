package game

// Observer is notified about the state of a level after every move.
//
// Calls are synchronous, made in registration order while the level holds its move
// lock, and repeat on every move for which the condition holds; LevelWon is the only
// one-shot. An observer may call Stop, Start and IsRunning on the level but must not
// call anything else on it.
type Observer interface {
	// LevelWon is called once when no pellets are left.
	LevelWon()
	// LevelLost is called when no player is alive.
	LevelLost()
	// HunterModeStarted is called after a power pellet was eaten.
	HunterModeStarted()
	// HunterNeedsRespawn is called while fewer hunters than expected are on the board.
	HunterNeedsRespawn()
	// UnitShooting is called while a player may shoot.
	UnitShooting()
	// ProjectilesToClean is called with the projectiles that died and the live ones.
	// The expired projectiles are removed from the level right after.
	ProjectilesToClean(expired, live []*Unit)
}

// NopObserver ignores every notification. Embed it to implement part of Observer.
type NopObserver struct{}

func (NopObserver) LevelWon()                       {}
func (NopObserver) LevelLost()                      {}
func (NopObserver) HunterModeStarted()              {}
func (NopObserver) HunterNeedsRespawn()             {}
func (NopObserver) UnitShooting()                   {}
func (NopObserver) ProjectilesToClean(_, _ []*Unit) {}
