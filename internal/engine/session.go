// Package engine is the authoritative game session: one mutex-guarded
// state machine that validates every red, blue and GM command, applies
// it, and emits the corresponding events.
package engine

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pewpewlabs/pewpew-tabletop/internal/alerts"
	"github.com/pewpewlabs/pewpew-tabletop/internal/catalog"
	"github.com/pewpewlabs/pewpew-tabletop/internal/models"
	"github.com/pewpewlabs/pewpew-tabletop/internal/resolver"
	"github.com/pewpewlabs/pewpew-tabletop/internal/vote"
)

// Publisher delivers events to connected clients. Implementations must
// not block for long; the session publishes outside its own lock but
// still on the caller's request path.
type Publisher interface {
	Publish(ev models.Event)
	PublishToRoles(roles []string, ev models.Event)
}

// NopPublisher discards all events. Used in tests and as the default
// when no hub is wired.
type NopPublisher struct{}

func (NopPublisher) Publish(models.Event)                  {}
func (NopPublisher) PublishToRoles([]string, models.Event) {}

// Alert streams go to the defenders and observers, never to red
var alertRoles = []string{"blue", "audience", "gm"}

// Mini-game IDs. Each is owned by one side; votes from the other side
// are rejected.
const (
	VoteVulnTool      = "red_vuln_tool"
	VoteAttack        = "red_attack"
	VotePivot         = "red_pivot"
	VoteSourceIP      = "blue_source_ip"
	VoteResponse      = "blue_response"
	VoteInvestigation = "blue_investigation"
)

const historyLimit = 100

// Config wires a Session's collaborators. Zero-value fields fall back
// to sensible defaults, so tests only set what they exercise.
type Config struct {
	Catalog   *catalog.Catalog
	Resolver  *resolver.Resolver
	Generator *alerts.Generator
	Publisher Publisher
	Logger    zerolog.Logger

	// Now and Rand are injectable for deterministic tests
	Now  func() time.Time
	Rand *rand.Rand

	TurnTimeLimit  int // seconds, 0 means default
	RoundTimeLimit int // seconds, 0 means default
}

// Session is the single authoritative game instance. All exported
// methods are safe for concurrent use; one mutex covers each logical
// operation end to end, and events are published after the lock is
// released.
type Session struct {
	mu sync.Mutex

	cat *catalog.Catalog
	res *resolver.Resolver
	gen *alerts.Generator
	pub Publisher
	log zerolog.Logger
	now func() time.Time
	rng *rand.Rand

	turnLimit  int
	roundLimit int

	state    models.GameState
	score    models.Score
	scenario models.Scenario
	launched []models.LaunchedAttack
	actions  []models.BlueAction
	games    map[string]*vote.MiniGame

	history []models.Event

	// generation invalidates stale timer goroutines across restarts
	generation uint64
	timerStop  chan struct{}
}

// NewSession creates a session in lobby state
func NewSession(cfg Config) *Session {
	if cfg.Catalog == nil {
		cfg.Catalog = catalog.Default()
	}
	if cfg.Resolver == nil {
		cfg.Resolver = resolver.New(resolver.StrategyTiered, cfg.Logger)
	}
	if cfg.Generator == nil {
		cfg.Generator = alerts.NewGenerator(cfg.Rand, true)
	}
	if cfg.Publisher == nil {
		cfg.Publisher = NopPublisher{}
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if cfg.TurnTimeLimit <= 0 {
		cfg.TurnTimeLimit = models.DefaultTurnTimeLimit
	}
	if cfg.RoundTimeLimit <= 0 {
		cfg.RoundTimeLimit = models.DefaultRoundTimeLimit
	}
	return &Session{
		cat:        cfg.Catalog,
		res:        cfg.Resolver,
		gen:        cfg.Generator,
		pub:        cfg.Publisher,
		log:        cfg.Logger,
		now:        cfg.Now,
		rng:        cfg.Rand,
		turnLimit:  cfg.TurnTimeLimit,
		roundLimit: cfg.RoundTimeLimit,
		state:      models.NewGameState(),
		games:      map[string]*vote.MiniGame{},
	}
}

// outbound pairs an event with its audience; nil roles means everyone
type outbound struct {
	ev    models.Event
	roles []string
}

// newEvent builds an event and records it in the bounded history.
// Callers must hold the lock.
func (s *Session) newEvent(kind models.EventKind, payload map[string]any) models.Event {
	ev := models.Event{
		ID:      uuid.NewString(),
		Kind:    kind,
		TS:      s.now(),
		Payload: payload,
	}
	s.history = append(s.history, ev)
	if len(s.history) > historyLimit {
		s.history = s.history[len(s.history)-historyLimit:]
	}
	return ev
}

// send publishes collected events. Called after the lock is released.
func (s *Session) send(events []outbound) {
	for _, out := range events {
		if out.roles == nil {
			s.pub.Publish(out.ev)
		} else {
			s.pub.PublishToRoles(out.roles, out.ev)
		}
	}
}

// applyScore adds deltas, clamps at zero and returns the score_update
// event. Callers must hold the lock.
func (s *Session) applyScore(d models.ScoreDeltas) outbound {
	s.score.Apply(d)
	return outbound{ev: s.newEvent(models.EventScoreUpdate, map[string]any{
		"red":  s.score.Red,
		"blue": s.score.Blue,
	})}
}

// attackSourceIP picks a pseudo-external source address distinct from
// the reconnaissance decoys so the source-IP mini-game stays solvable.
func (s *Session) attackSourceIP() string {
	for range 10 {
		ip := s.randomExternalIP()
		if !s.state.IPScanned(ip) {
			return ip
		}
	}
	return s.randomExternalIP()
}

func (s *Session) randomExternalIP() string {
	return fmt.Sprintf("%d.%d.%d.%d",
		198+s.rng.Intn(6), 51+s.rng.Intn(49), 100+s.rng.Intn(156), 1+s.rng.Intn(254))
}

// State returns a copy of the game state with the timer recomputed
func (s *Session) State() models.GameState {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	if st.Status == models.StatusRunning && !st.StartTime.IsZero() {
		elapsed := int(s.now().Sub(st.StartTime).Seconds())
		st.Timer = min(max(0, elapsed), s.roundLimit)
	}
	st.BlockedIPs = append([]string(nil), st.BlockedIPs...)
	st.ScanIPs = append([]string(nil), st.ScanIPs...)
	return st
}

// Score returns the current cumulative score
func (s *Session) Score() models.Score {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.score
}

// Scenario returns the active scenario, if a game has been started
func (s *Session) Scenario() (models.Scenario, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scenario, s.state.ScenarioID != ""
}

// LaunchedAttacks returns a copy of this round's attack log
func (s *Session) LaunchedAttacks() []models.LaunchedAttack {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.LaunchedAttack(nil), s.launched...)
}

// BlueActions returns a copy of this round's blue action log
func (s *Session) BlueActions() []models.BlueAction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.BlueAction(nil), s.actions...)
}

// Events returns up to limit most recent events, oldest first
func (s *Session) Events(limit int) []models.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.history)
	if limit > 0 && limit < n {
		n = limit
	}
	return append([]models.Event(nil), s.history[len(s.history)-n:]...)
}

// MiniGameTally returns the current tally for one vote mini-game
func (s *Session) MiniGameTally(id string) (vote.Tally, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	mg, ok := s.games[id]
	if !ok {
		return vote.Tally{}, ErrUnknownMiniGame
	}
	return mg.Tally(), nil
}
