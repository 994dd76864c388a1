package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/beka-birhanu/vinom-chase/game"
	"github.com/beka-birhanu/vinom-chase/game/maze"
	"github.com/beka-birhanu/vinom-chase/identity"
	"github.com/beka-birhanu/vinom-chase/service/i"
	general_i "github.com/beka-birhanu/vinom-common/interfaces/general"
	"github.com/google/uuid"
)

const (
	defaultRoomsAcross    = 8
	defaultRoomsDown      = 6
	defaultHunters        = 3
	defaultPelletProb     = 0.9
	defaultStreamInterval = 100 * time.Millisecond
	defaultRetention      = time.Minute
	subscriberBuffer      = 4
	storeTimeout          = 2 * time.Second
)

// Leaderboard names.
const (
	BoardClassic  = "chase:classic"
	BoardInfinite = "chase:infinite"
)

// Level manager errors.
var (
	ErrLevelNotFound = errors.New("level not found")
	ErrNotOwner      = errors.New("level belongs to another player")
	ErrLevelFinished = errors.New("level is finished")
)

var _ i.LevelManager = &LevelManager{}

// LevelManager runs one level per session and records the outcome of finished levels.
type LevelManager struct {
	sessions    map[uuid.UUID]*session
	tuning      game.Tuning
	template    *maze.Template
	playerRepo  i.PlayerRepo
	resultRepo  i.ResultRepo
	leaderboard i.Leaderboard
	logger      general_i.Logger
	levelLogger general_i.Logger
	interval    time.Duration
	retention   time.Duration
	margin      int
	sync.RWMutex
}

// Config configures a LevelManager. Template may be nil, levels then get a generated
// maze. Repositories and the leaderboard may be nil to skip recording.
type Config struct {
	Tuning         game.Tuning      // Tuning of every level.
	Template       *maze.Template   // Default map, nil to generate one per level.
	PlayerRepo     i.PlayerRepo     // Player statistics.
	ResultRepo     i.ResultRepo     // Finished level history.
	Leaderboard    i.Leaderboard    // Best scores.
	Logger         general_i.Logger // Logger of the manager.
	LevelLogger    general_i.Logger // Logger handed to every level.
	StreamInterval time.Duration    // Time between two streamed snapshots.
	ExtendMargin   int              // Cells from the edge at which infinite levels grow, zero to never grow.
	Retention      time.Duration    // Time a finished level stays readable before it is forgotten.
}

// session is a running level and the streams that follow it.
type session struct {
	id        uuid.UUID
	level     *game.Level
	owner     uuid.UUID
	username  string
	player    *game.Unit
	createdAt time.Time

	mu          sync.Mutex
	subscribers map[chan game.Snapshot]struct{}
	closed      bool
	finished    bool
	done        chan struct{} // Closed when the session closes.
	published   chan struct{} // Closed when publish returns.
	finish      sync.Once
}

// NewLevelManager creates a level manager.
func NewLevelManager(c *Config) (*LevelManager, error) {
	if c.Logger == nil || c.LevelLogger == nil {
		return nil, game.ErrNoLogger
	}
	if err := c.Tuning.Validate(); err != nil {
		return nil, err
	}
	interval := c.StreamInterval
	if interval <= 0 {
		interval = defaultStreamInterval
	}
	retention := c.Retention
	if retention <= 0 {
		retention = defaultRetention
	}
	return &LevelManager{
		sessions:    make(map[uuid.UUID]*session),
		tuning:      c.Tuning,
		template:    c.Template,
		playerRepo:  c.PlayerRepo,
		resultRepo:  c.ResultRepo,
		leaderboard: c.Leaderboard,
		logger:      c.Logger,
		levelLogger: c.LevelLogger,
		interval:    interval,
		retention:   retention,
		margin:      c.ExtendMargin,
	}, nil
}

// Create builds a level for owner and registers the owner's player on it. The level
// waits for Start.
func (m *LevelManager) Create(owner uuid.UUID, username string, opts i.LevelOptions) (uuid.UUID, error) {
	tpl, err := m.templateFor(opts)
	if err != nil {
		m.logger.Error(fmt.Sprintf("Building template for %s: %v", username, err))
		return uuid.Nil, err
	}

	level, err := game.NewLevel(tpl, game.Config{
		Tuning:   m.tuning,
		Infinite: opts.Infinite,
		Logger:   m.levelLogger,
	})
	if err != nil {
		m.logger.Error(fmt.Sprintf("Creating level for %s: %v", username, err))
		return uuid.Nil, err
	}

	player := level.NewPlayer()
	if err := level.RegisterPlayer(player); err != nil {
		return uuid.Nil, err
	}

	s := &session{
		id:          level.ID,
		level:       level,
		owner:       owner,
		username:    username,
		player:      player,
		createdAt:   time.Now(),
		subscribers: make(map[chan game.Snapshot]struct{}),
		done:        make(chan struct{}),
		published:   make(chan struct{}),
	}
	level.AddObserver(&sessionObserver{manager: m, session: s})

	m.Lock()
	m.sessions[s.id] = s
	m.Unlock()

	go m.publish(s)
	m.logger.Info(fmt.Sprintf("Created level %s (%dx%d, infinite=%v) for %s", s.id, tpl.Width, tpl.Height, opts.Infinite, username))
	return s.id, nil
}

func (m *LevelManager) templateFor(opts i.LevelOptions) (*maze.Template, error) {
	if opts.Template != "" {
		return maze.ParseTemplateText(opts.Template)
	}
	if m.template != nil && opts.Width == 0 && opts.Height == 0 {
		return m.template, nil
	}

	cfg := maze.GeneratorConfig{
		Width:       opts.Width,
		Height:      opts.Height,
		PelletProb:  defaultPelletProb,
		Hunters:     opts.Hunters,
		OpenTunnels: opts.Infinite,
	}
	if cfg.Width == 0 {
		cfg.Width = defaultRoomsAcross
	}
	if cfg.Height == 0 {
		cfg.Height = defaultRoomsDown
	}
	if cfg.Hunters == 0 {
		cfg.Hunters = defaultHunters
	}
	return maze.Generate(cfg)
}

// owned returns the session of level id if owner owns it.
func (m *LevelManager) owned(id, owner uuid.UUID) (*session, error) {
	s, err := m.session(id)
	if err != nil {
		return nil, err
	}
	if s.owner != owner {
		return nil, ErrNotOwner
	}
	return s, nil
}

func (m *LevelManager) session(id uuid.UUID) (*session, error) {
	m.RLock()
	defer m.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrLevelNotFound
	}
	return s, nil
}

// Start starts or resumes a level.
func (m *LevelManager) Start(id, owner uuid.UUID) error {
	s, err := m.owned(id, owner)
	if err != nil {
		return err
	}
	if s.isFinished() {
		return ErrLevelFinished
	}
	s.level.Start()
	return nil
}

// Stop pauses a level.
func (m *LevelManager) Stop(id, owner uuid.UUID) error {
	s, err := m.owned(id, owner)
	if err != nil {
		return err
	}
	s.level.Stop()
	return nil
}

// Steer turns the player of the owner.
func (m *LevelManager) Steer(id, owner uuid.UUID, d maze.Direction) error {
	s, err := m.owned(id, owner)
	if err != nil {
		return err
	}
	return s.level.Steer(s.player, d)
}

// Shoot fires a projectile from the player of the owner.
func (m *LevelManager) Shoot(id, owner uuid.UUID) error {
	s, err := m.owned(id, owner)
	if err != nil {
		return err
	}
	_, err = s.level.Shoot(s.player)
	return err
}

// Extend grows the board of a level by one tile in d.
func (m *LevelManager) Extend(id, owner uuid.UUID, d maze.Direction) error {
	s, err := m.owned(id, owner)
	if err != nil {
		return err
	}
	return s.level.Extend(d)
}

// Snapshot returns the current state of a level.
func (m *LevelManager) Snapshot(id uuid.UUID) (game.Snapshot, error) {
	s, err := m.session(id)
	if err != nil {
		return game.Snapshot{}, err
	}
	return s.level.Snapshot(), nil
}

// Subscribe streams the snapshots of a level. Slow subscribers miss snapshots.
func (m *LevelManager) Subscribe(id uuid.UUID) (<-chan game.Snapshot, func(), error) {
	s, err := m.session(id)
	if err != nil {
		return nil, nil, err
	}

	ch := make(chan game.Snapshot, subscriberBuffer)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		if s.finished {
			return nil, nil, ErrLevelFinished
		}
		return nil, nil, ErrLevelNotFound
	}
	s.subscribers[ch] = struct{}{}

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
	}
	return ch, cancel, nil
}

// Close stops a level, ends its streams and forgets it.
func (m *LevelManager) Close(id, owner uuid.UUID) error {
	s, err := m.owned(id, owner)
	if err != nil {
		return err
	}

	m.Lock()
	delete(m.sessions, id)
	m.Unlock()

	s.level.Stop()
	s.close()
	m.logger.Info(fmt.Sprintf("Closed level %s of %s", id, s.username))
	return nil
}

// publish streams snapshots of s until the session closes. Infinite levels grow
// whenever the player gets close to an edge.
func (m *LevelManager) publish(s *session) {
	defer close(s.published)
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
		}

		if m.margin > 0 && s.level.Infinite() && s.level.IsRunning() {
			for _, d := range s.level.NearEdge(s.player, m.margin) {
				if err := s.level.Extend(d); err != nil {
					m.logger.Warning(fmt.Sprintf("Growing level %s towards %v: %v", s.id, d, err))
				}
			}
		}
		s.broadcast(s.level.Snapshot())
	}
}

func (s *session) broadcast(snap game.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ch := range s.subscribers {
		select {
		case ch <- snap:
		default:
		}
	}
}

func (s *session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.done)
	for ch := range s.subscribers {
		delete(s.subscribers, ch)
		close(ch)
	}
}

func (s *session) isFinished() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finished
}

// retire records a finished level, sends its final state to the streams and closes
// them. The level stays readable for the retention period, then it is forgotten.
func (m *LevelManager) retire(s *session, won bool) {
	m.record(s, won)
	s.broadcast(s.level.Snapshot())
	s.close()
	time.AfterFunc(m.retention, func() { m.forget(s) })
}

// forget drops s unless it was already closed and replaced.
func (m *LevelManager) forget(s *session) {
	m.Lock()
	defer m.Unlock()
	if m.sessions[s.id] == s {
		delete(m.sessions, s.id)
		m.logger.Info(fmt.Sprintf("Forgot finished level %s of %s", s.id, s.username))
	}
}

// record stores the outcome of a finished level. It runs outside of the level locks.
func (m *LevelManager) record(s *session, won bool) {
	snap := s.level.Snapshot()
	score := s.player.Score()
	result := &identity.LevelResult{
		ID:         uuid.New(),
		LevelID:    s.id,
		PlayerID:   s.owner,
		Score:      score,
		Won:        won,
		Infinite:   snap.Infinite,
		Width:      snap.Width,
		Height:     snap.Height,
		Duration:   time.Since(s.createdAt),
		FinishedAt: time.Now().UTC(),
	}
	m.logger.Info(fmt.Sprintf("Level %s of %s finished, won=%v score=%d", s.id, s.username, won, score))

	if m.resultRepo != nil {
		if err := m.resultRepo.Save(result); err != nil {
			m.logger.Error(fmt.Sprintf("Saving result of level %s: %v", s.id, err))
		}
	}

	if m.playerRepo != nil {
		player, err := m.playerRepo.ByID(s.owner)
		if err != nil {
			m.logger.Error(fmt.Sprintf("Loading player %s: %v", s.owner, err))
		} else {
			player.RecordLevel(score, won)
			if err := m.playerRepo.Save(player); err != nil {
				m.logger.Error(fmt.Sprintf("Saving player %s: %v", s.owner, err))
			}
		}
	}

	if m.leaderboard != nil {
		board := BoardClassic
		if snap.Infinite {
			board = BoardInfinite
		}
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		if err := m.leaderboard.Submit(ctx, board, s.username, float64(score)); err != nil {
			m.logger.Error(fmt.Sprintf("Submitting score of %s: %v", s.username, err))
		}
	}
}

// sessionObserver stops a level once it is decided and records the outcome.
type sessionObserver struct {
	game.NopObserver
	manager *LevelManager
	session *session
}

func (o *sessionObserver) LevelWon()  { o.end(true) }
func (o *sessionObserver) LevelLost() { o.end(false) }

func (o *sessionObserver) HunterModeStarted() {
	o.manager.logger.Info(fmt.Sprintf("Level %s: hunters are on the run", o.session.id))
}

// end runs under the move lock of the level: it may only stop the level.
func (o *sessionObserver) end(won bool) {
	o.session.finish.Do(func() {
		o.session.level.Stop()
		o.session.mu.Lock()
		o.session.finished = true
		o.session.mu.Unlock()
		go o.manager.retire(o.session, won)
	})
}
