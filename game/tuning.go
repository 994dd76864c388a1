package game

import (
	"fmt"
	"time"

	"github.com/beka-birhanu/vinom-chase/game/maze"
)

// FruitKind describes one kind of fruit the collectible spawner can place.
type FruitKind struct {
	Name     string        `yaml:"name"`
	Value    int           `yaml:"value"`
	Lifetime time.Duration `yaml:"lifetime"`
	Arms     time.Duration `yaml:"arms"` // Shooting time granted to the eater, zero for none.
}

// Tuning holds every duration, cap and value of a level.
type Tuning struct {
	PlayerInterval     time.Duration `yaml:"player_interval"`     // Step interval of players.
	HunterInterval     time.Duration `yaml:"hunter_interval"`     // Step interval of hunters.
	FearedInterval     time.Duration `yaml:"feared_interval"`     // Step interval of feared hunters.
	ProjectileInterval time.Duration `yaml:"projectile_interval"` // Step interval of projectiles.

	PelletValue      int           `yaml:"pellet_value"`       // Points of a small pellet.
	PowerPelletValue int           `yaml:"power_pellet_value"` // Points of a power pellet.
	HunterBounty     int           `yaml:"hunter_bounty"`      // Points of the first hunter eaten in a window.
	PlayerLives      int           `yaml:"player_lives"`       // Extra lives of a player.
	HoleTrap         time.Duration `yaml:"hole_trap"`          // Time a hole immobilizes its victim.

	LongWindowPellets int           `yaml:"long_window_pellets"` // Power pellets left for the long window.
	LongWarning       time.Duration `yaml:"long_warning"`        // Warning delay of the long window.
	LongExpiry        time.Duration `yaml:"long_expiry"`         // Expiry delay of the long window.
	ShortWarning      time.Duration `yaml:"short_warning"`       // Warning delay of the short window.
	ShortExpiry       time.Duration `yaml:"short_expiry"`        // Expiry delay of the short window.
	RespawnDelay      time.Duration `yaml:"respawn_delay"`       // Time an eaten hunter stays off the board.

	HunterCap         int           `yaml:"hunter_cap"`          // Hunters the spawner stops at.
	HunterSpawnDelay  time.Duration `yaml:"hunter_spawn_delay"`  // Base delay between hunter spawns.
	HunterSpawnJitter time.Duration `yaml:"hunter_spawn_jitter"` // Random extra delay between hunter spawns.
	HunterSpawnStep   time.Duration `yaml:"hunter_spawn_step"`   // Extra delay per hunter on the board.

	FruitDelay       time.Duration `yaml:"fruit_delay"`        // Base delay between fruit spawns.
	FruitJitter      time.Duration `yaml:"fruit_jitter"`       // Random extra delay between fruit spawns.
	FirstSpawnDelay  time.Duration `yaml:"first_spawn_delay"`  // Base delay of the first spawner firing.
	FirstSpawnJitter time.Duration `yaml:"first_spawn_jitter"` // Random extra delay of the first spawner firing.
	RampPeriod       time.Duration `yaml:"ramp_period"`        // Period of the difficulty ramp.
	RampStep         float64       `yaml:"ramp_step"`          // Hunter speed added on every ramp.
	SpawnRetries     int           `yaml:"spawn_retries"`      // Placement attempts of a spawner firing.
	SearchLimit      int           `yaml:"search_limit"`       // Cells a reachability search may visit.
	CenterRadius     int           `yaml:"center_radius"`      // Half size of the center spawn region.
	Fruits           []FruitKind   `yaml:"fruits"`             // Fruits the spawner picks from.
}

// DefaultTuning returns the classic timings.
func DefaultTuning() Tuning {
	return Tuning{
		PlayerInterval:     200 * time.Millisecond,
		HunterInterval:     250 * time.Millisecond,
		FearedInterval:     400 * time.Millisecond,
		ProjectileInterval: 80 * time.Millisecond,

		PelletValue:      10,
		PowerPelletValue: 50,
		HunterBounty:     defaultBounty,
		PlayerLives:      0,
		HoleTrap:         3 * time.Second,

		LongWindowPellets: 2,
		LongWarning:       5 * time.Second,
		LongExpiry:        7 * time.Second,
		ShortWarning:      3 * time.Second,
		ShortExpiry:       5 * time.Second,
		RespawnDelay:      5 * time.Second,

		HunterCap:         10,
		HunterSpawnDelay:  4 * time.Second,
		HunterSpawnJitter: 6 * time.Second,
		HunterSpawnStep:   time.Second,

		FruitDelay:       10 * time.Second,
		FruitJitter:      6 * time.Second,
		FirstSpawnDelay:  10 * time.Second,
		FirstSpawnJitter: 11 * time.Second,
		RampPeriod:       10 * time.Second,
		RampStep:         0.05,
		SpawnRetries:     64,
		SearchLimit:      4096,
		CenterRadius:     2,
		Fruits: []FruitKind{
			{Name: "cherry", Value: 100, Lifetime: 8 * time.Second},
			{Name: "strawberry", Value: 300, Lifetime: 8 * time.Second},
			{Name: "pepper", Value: 50, Lifetime: 6 * time.Second, Arms: 5 * time.Second},
		},
	}
}

// Validate checks that every duration that arms a timer is positive.
func (t Tuning) Validate() error {
	positive := map[string]time.Duration{
		"player_interval":     t.PlayerInterval,
		"hunter_interval":     t.HunterInterval,
		"projectile_interval": t.ProjectileInterval,
		"long_warning":        t.LongWarning,
		"long_expiry":         t.LongExpiry,
		"short_warning":       t.ShortWarning,
		"short_expiry":        t.ShortExpiry,
		"respawn_delay":       t.RespawnDelay,
		"fruit_delay":         t.FruitDelay,
		"ramp_period":         t.RampPeriod,
		"hunter_spawn_delay":  t.HunterSpawnDelay,
	}
	for name, d := range positive {
		if d <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %v", maze.ErrConfiguration, name, d)
		}
	}
	if t.LongWarning > t.LongExpiry || t.ShortWarning > t.ShortExpiry {
		return fmt.Errorf("%w: warning must not come after expiry", maze.ErrConfiguration)
	}
	if t.SpawnRetries <= 0 {
		return fmt.Errorf("%w: spawn_retries must be positive", maze.ErrConfiguration)
	}
	if t.HunterCap < 0 || t.PlayerLives < 0 || t.CenterRadius < 0 || t.SearchLimit < 0 {
		return fmt.Errorf("%w: caps, lives and radii must not be negative", maze.ErrConfiguration)
	}
	if len(t.Fruits) == 0 {
		return fmt.Errorf("%w: at least one fruit is needed", maze.ErrConfiguration)
	}
	return nil
}
