package engine

import (
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/pewpewlabs/pewpew-tabletop/internal/catalog"
	"github.com/pewpewlabs/pewpew-tabletop/internal/models"
)

// fakeClock is an injectable clock the tests advance by hand
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// constSource makes every random draw zero, so generated source IPs
// are always 198.51.100.1 and blocked-IP paths become reachable.
type constSource struct{}

func (constSource) Int63() int64 { return 0 }
func (constSource) Seed(int64)   {}

// recorder captures published events for assertions
type recorder struct {
	mu     sync.Mutex
	events []models.Event
}

func (r *recorder) Publish(ev models.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) PublishToRoles(_ []string, ev models.Event) {
	r.Publish(ev)
}

func (r *recorder) kinds() map[models.EventKind]int {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := map[models.EventKind]int{}
	for _, ev := range r.events {
		counts[ev.Kind]++
	}
	return counts
}

func testScenario(maxTurns int) models.Scenario {
	return models.Scenario{
		ID:   "scn-test",
		Name: "Test Exercise",
		Topology: models.Topology{
			Nodes: []models.Node{{ID: "internet"}, {ID: "web-1"}, {ID: "db-1"}},
			Links: []models.Link{{From: "internet", To: "web-1"}, {From: "web-1", To: "db-1"}},
		},
		Attacks: []models.Attack{
			{ID: "atk-rce", Type: models.AttackRCE, FromNode: "internet", ToNode: "web-1",
				IsCorrectChoice: true, RequiresScan: true, RequiredScanTool: models.ScanToolZAP},
			{ID: "atk-sqli", Type: models.AttackSQLi, FromNode: "internet", ToNode: "db-1"},
		},
		RequiredScanTool:     models.ScanToolZAP,
		MaxTurnsPerSide:      maxTurns,
		CorrectPivotStrategy: "pivot-app",
		CorrectResponse:      models.ActionIsolateHost,
	}
}

func newTestSession(t *testing.T, scenario models.Scenario) (*Session, *fakeClock, *recorder) {
	t.Helper()
	cat := catalog.New()
	cat.Put(scenario)
	clock := &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	rec := &recorder{}
	s := NewSession(Config{
		Catalog:   cat,
		Publisher: rec,
		Logger:    zerolog.Nop(),
		Now:       clock.Now,
		Rand:      rand.New(constSource{}),
	})
	t.Cleanup(func() { s.Reset() })
	return s, clock, rec
}

// startRound starts the test scenario and dismisses the briefing so
// the clocks run.
func startRound(t *testing.T, s *Session) {
	t.Helper()
	_, err := s.Start("scn-test")
	require.NoError(t, err)
	_, err = s.DismissBriefing()
	require.NoError(t, err)
}

func TestStart(t *testing.T) {
	t.Run("fresh round begins with red to act and clocks unset", func(t *testing.T) {
		s, _, rec := newTestSession(t, testScenario(0))

		state, err := s.Start("scn-test")
		require.NoError(t, err)
		require.Equal(t, models.StatusRunning, state.Status)
		require.Equal(t, 1, state.Round)
		require.Equal(t, models.SideRed, state.CurrentTurn)
		require.Zero(t, state.RedTurnCount)
		require.Zero(t, state.BlueTurnCount)
		require.True(t, state.StartTime.IsZero(), "clocks wait for the briefing")
		require.False(t, state.BriefingDismissed)
		require.Positive(t, rec.kinds()[models.EventRoundStarted])
	})

	t.Run("unknown scenario is rejected", func(t *testing.T) {
		s, _, _ := newTestSession(t, testScenario(0))
		_, err := s.Start("scn-nope")
		require.ErrorIs(t, err, ErrScenarioNotFound)
	})

	t.Run("restarting a running round ends it first", func(t *testing.T) {
		s, _, rec := newTestSession(t, testScenario(0))
		startRound(t, s)

		state, err := s.Start("scn-test")
		require.NoError(t, err)
		require.Equal(t, 2, state.Round, "the round counter survives restarts")
		require.Positive(t, rec.kinds()[models.EventRoundEnded])
	})
}

func TestBriefingGate(t *testing.T) {
	s, clock, _ := newTestSession(t, testScenario(0))
	_, err := s.Start("scn-test")
	require.NoError(t, err)

	clock.Advance(10 * time.Second)
	s.Tick()
	require.Zero(t, s.State().Timer, "the timer must not run before the briefing is dismissed")

	state, err := s.DismissBriefing()
	require.NoError(t, err)
	require.False(t, state.StartTime.IsZero())
	require.False(t, state.TurnStartTime.IsZero())

	again, err := s.DismissBriefing()
	require.NoError(t, err)
	require.Equal(t, state.StartTime, again.StartTime, "dismissal is idempotent")

	clock.Advance(7 * time.Second)
	s.Tick()
	require.Equal(t, 7, s.State().Timer)
}

func TestLaunchAttack(t *testing.T) {
	t.Run("scan-gated attack needs reconnaissance first", func(t *testing.T) {
		s, _, _ := newTestSession(t, testScenario(0))
		startRound(t, s)

		_, err := s.LaunchAttack("atk-rce", "mallory")
		require.ErrorIs(t, err, ErrScanRequired)

		state := s.State()
		require.Equal(t, models.SideRed, state.CurrentTurn, "a rejected launch must not consume the turn")
		require.False(t, state.RedAttackThisTurn)
	})

	t.Run("correct attack after scan goes pending and passes the turn", func(t *testing.T) {
		s, _, rec := newTestSession(t, testScenario(0))
		startRound(t, s)

		scan, err := s.RunScan(models.ScanToolZAP, "web-1", "mallory")
		require.NoError(t, err)
		require.True(t, scan.Success)
		require.Equal(t, 2, scan.Points)
		require.Equal(t, 2, s.Score().Red)

		result, err := s.LaunchAttack("atk-rce", "mallory")
		require.NoError(t, err)
		require.Equal(t, models.ResultPending, result.Result)
		require.NotEmpty(t, result.Alerts)
		require.Equal(t, "198.51.100.1", result.SourceIP)

		state := s.State()
		require.Equal(t, models.SideBlue, state.CurrentTurn)
		require.Equal(t, 1, state.RedTurnCount)
		require.Equal(t, 5, s.Score().Red, "scan +2 and correct choice +3")
		require.Positive(t, rec.kinds()[models.EventAttackLaunched])
		require.Positive(t, rec.kinds()[models.EventAlertEmitted])

		_, err = s.LaunchAttack("atk-rce", "mallory")
		require.ErrorIs(t, err, ErrNotYourTurn, "red cannot act on blue's turn")
	})

	t.Run("wrong attack misses immediately and the penalty clamps at zero", func(t *testing.T) {
		s, _, rec := newTestSession(t, testScenario(0))
		startRound(t, s)

		result, err := s.LaunchAttack("atk-sqli", "mallory")
		require.NoError(t, err)
		require.Equal(t, models.ResultMiss, result.Result)
		require.Zero(t, s.Score().Red, "the -2 choice penalty cannot push the score negative")
		require.Equal(t, models.SideBlue, s.State().CurrentTurn, "even a miss consumes the turn")
		require.Positive(t, rec.kinds()[models.EventAttackResolved])
	})

	t.Run("unknown attack id is rejected", func(t *testing.T) {
		s, _, _ := newTestSession(t, testScenario(0))
		startRound(t, s)
		_, err := s.LaunchAttack("atk-nope", "mallory")
		require.ErrorIs(t, err, ErrAttackNotFound)
	})

	t.Run("launch requires a running game", func(t *testing.T) {
		s, _, _ := newTestSession(t, testScenario(0))
		_, err := s.LaunchAttack("atk-rce", "mallory")
		require.ErrorIs(t, err, ErrGameNotRunning)
	})
}

func TestSubmitAction(t *testing.T) {
	t.Run("optimal response blocks the pending attack", func(t *testing.T) {
		s, _, rec := newTestSession(t, testScenario(0))
		startRound(t, s)

		_, err := s.RunScan(models.ScanToolZAP, "web-1", "mallory")
		require.NoError(t, err)
		_, err = s.LaunchAttack("atk-rce", "mallory")
		require.NoError(t, err)

		redBefore := s.Score().Red
		_, err = s.SubmitAction(models.ActionIsolateHost, "web-1", "containing the RCE", "trent")
		require.NoError(t, err)

		score := s.Score()
		require.Equal(t, 10, score.Blue, "optimal isolation scores the full tier")
		require.Equal(t, redBefore, score.Red, "a blocked attack earns red nothing at resolution")

		state := s.State()
		require.Equal(t, models.SideRed, state.CurrentTurn, "resolution passes the turn back")
		require.Equal(t, 1, state.BlueTurnCount)
		require.Positive(t, rec.kinds()[models.EventAttackResolved])
	})

	t.Run("action on red's turn is rejected", func(t *testing.T) {
		s, _, _ := newTestSession(t, testScenario(0))
		startRound(t, s)
		_, err := s.SubmitAction(models.ActionOpenTicket, "web-1", "", "trent")
		require.ErrorIs(t, err, ErrNotYourTurn)
	})

	t.Run("a resolved attack cannot be scored twice across a timeout", func(t *testing.T) {
		s, clock, rec := newTestSession(t, testScenario(0))
		startRound(t, s)

		_, err := s.RunScan(models.ScanToolZAP, "web-1", "mallory")
		require.NoError(t, err)
		_, err = s.LaunchAttack("atk-rce", "mallory")
		require.NoError(t, err)
		_, err = s.SubmitAction(models.ActionIsolateHost, "web-1", "", "trent")
		require.NoError(t, err)
		require.Equal(t, 10, s.Score().Blue)
		require.Equal(t, 1, rec.kinds()[models.EventAttackResolved])

		// Red stalls out, handing blue a second action against the
		// same launch
		clock.Advance(301 * time.Second)
		s.Tick()
		require.Equal(t, models.SideBlue, s.State().CurrentTurn)

		_, err = s.SubmitAction(models.ActionOpenTicket, "db-1", "", "trent")
		require.NoError(t, err)
		require.Equal(t, 10, s.Score().Blue, "a settled launch must not be re-scored")
		require.Equal(t, 5, s.Score().Red, "red keeps only the scan and choice points")
		require.Equal(t, 1, rec.kinds()[models.EventAttackResolved])
	})

	t.Run("blocking an IP stops the next launch from it pre-detonation", func(t *testing.T) {
		s, _, _ := newTestSession(t, testScenario(0))
		startRound(t, s)

		// Red misses, blue blocks the observed source address
		result, err := s.LaunchAttack("atk-sqli", "mallory")
		require.NoError(t, err)
		require.Equal(t, "198.51.100.1", result.SourceIP)

		_, err = s.SubmitAction(models.ActionBlockIP, result.SourceIP, "", "trent")
		require.NoError(t, err)
		require.Contains(t, s.State().BlockedIPs, result.SourceIP)
		require.Zero(t, s.Score().Blue, "a miss resolves at launch, the action itself scores nothing")

		// The deterministic source generator reuses the blocked address
		blocked, err := s.LaunchAttack("atk-sqli", "mallory")
		require.NoError(t, err)
		require.True(t, blocked.Blocked)
		require.Equal(t, models.ResultBlocked, blocked.Result)
		require.Empty(t, blocked.Alerts, "a pre-detonation block generates no alerts")
		require.Equal(t, 8, s.Score().Blue)
		require.Equal(t, models.SideBlue, s.State().CurrentTurn, "a blocked launch still consumes red's turn")

		launched := s.LaunchedAttacks()
		require.Len(t, launched, 2)
		require.True(t, launched[1].Blocked)
	})
}

func TestTurnTimeout(t *testing.T) {
	s, clock, rec := newTestSession(t, testScenario(0))
	startRound(t, s)

	clock.Advance(301 * time.Second)
	s.Tick()

	state := s.State()
	require.Equal(t, models.SideBlue, state.CurrentTurn, "the expired turn passes to the opponent")
	require.Zero(t, state.RedTurnCount, "a timed-out turn does not count against the budget")
	require.Zero(t, state.BlueTurnCount)
	require.False(t, state.RedAttackThisTurn)
	require.False(t, state.BlueActionThisTurn)
	require.Positive(t, rec.kinds()[models.EventTurnTimeout])

	clock.Advance(301 * time.Second)
	s.Tick()
	require.Equal(t, models.SideRed, s.State().CurrentTurn)
	require.Zero(t, s.State().BlueTurnCount, "timeouts never increment either counter")
}

func TestRoundTimeLimit(t *testing.T) {
	s, clock, rec := newTestSession(t, testScenario(0))
	startRound(t, s)

	clock.Advance(models.DefaultRoundTimeLimit * time.Second)
	s.Tick()

	require.Equal(t, models.StatusFinished, s.State().Status)
	require.Positive(t, rec.kinds()[models.EventRoundEnded])

	_, err := s.LaunchAttack("atk-sqli", "mallory")
	require.ErrorIs(t, err, ErrGameNotRunning, "a finished round accepts no commands")
}

func TestMaxTurnsEndRound(t *testing.T) {
	s, _, rec := newTestSession(t, testScenario(1))
	startRound(t, s)

	_, err := s.LaunchAttack("atk-sqli", "mallory")
	require.NoError(t, err)
	require.Equal(t, models.StatusRunning, s.State().Status,
		"red alone exhausting its budget does not end the round")

	_, err = s.SubmitAction(models.ActionOpenTicket, "db-1", "", "trent")
	require.NoError(t, err)

	state := s.State()
	require.Equal(t, models.StatusFinished, state.Status)
	require.Equal(t, 1, state.RedTurnCount)
	require.Equal(t, 1, state.BlueTurnCount)
	require.Positive(t, rec.kinds()[models.EventRoundEnded])
}

func TestCastVote(t *testing.T) {
	t.Run("correct majority scores the bonus and completes the turn", func(t *testing.T) {
		s, _, rec := newTestSession(t, testScenario(0))
		startRound(t, s)

		res, err := s.CastVote(VoteAttack, "alice", "atk-rce")
		require.NoError(t, err)
		require.True(t, res.Reached)
		require.True(t, res.Correct)
		require.Equal(t, 5, res.Points)
		require.Equal(t, 5, s.Score().Red)

		state := s.State()
		require.Equal(t, models.SideBlue, state.CurrentTurn, "a vote majority is a voluntary turn completion")
		require.Equal(t, 1, state.RedTurnCount)
		require.Positive(t, rec.kinds()[models.EventVoteResult])
	})

	t.Run("wrong majority still completes the turn, without points", func(t *testing.T) {
		s, _, _ := newTestSession(t, testScenario(0))
		startRound(t, s)

		_, err := s.CastVote(VoteAttack, "alice", "atk-sqli")
		require.NoError(t, err)

		res, err := s.CastVote(VoteResponse, "bob", string(models.ActionBlockDomain))
		require.NoError(t, err)
		require.True(t, res.Reached)
		require.False(t, res.Correct)
		require.Zero(t, res.Points)
		require.Zero(t, s.Score().Blue)
		require.Equal(t, models.SideRed, s.State().CurrentTurn)
		require.Equal(t, 1, s.State().BlueTurnCount)
	})

	t.Run("votes from the side not to act are rejected", func(t *testing.T) {
		s, _, _ := newTestSession(t, testScenario(0))
		startRound(t, s)

		_, err := s.CastVote(VoteResponse, "bob", "isolate_host")
		require.ErrorIs(t, err, ErrNotYourTurn, "blue's mini-games wait for blue's turn")
	})

	t.Run("unknown mini-game is rejected", func(t *testing.T) {
		s, _, _ := newTestSession(t, testScenario(0))
		startRound(t, s)
		_, err := s.CastVote("nope", "alice", "A")
		require.ErrorIs(t, err, ErrUnknownMiniGame)
	})
}

func TestLifecycle(t *testing.T) {
	t.Run("pause and resume toggle validation", func(t *testing.T) {
		s, _, _ := newTestSession(t, testScenario(0))
		startRound(t, s)

		_, err := s.Resume()
		require.ErrorIs(t, err, ErrGameNotPaused)

		state, err := s.Pause()
		require.NoError(t, err)
		require.Equal(t, models.StatusPaused, state.Status)

		_, err = s.LaunchAttack("atk-sqli", "mallory")
		require.ErrorIs(t, err, ErrGameNotRunning, "a paused game accepts no play commands")

		state, err = s.Resume()
		require.NoError(t, err)
		require.Equal(t, models.StatusRunning, state.Status)
	})

	t.Run("stop finishes the round and clears the scenario", func(t *testing.T) {
		s, _, _ := newTestSession(t, testScenario(0))
		startRound(t, s)

		state, err := s.Stop()
		require.NoError(t, err)
		require.Equal(t, models.StatusFinished, state.Status)
		require.Empty(t, state.ScenarioID)

		_, err = s.Stop()
		require.ErrorIs(t, err, ErrNoActiveGame)
	})

	t.Run("reset returns to the lobby and zeroes everything", func(t *testing.T) {
		s, _, _ := newTestSession(t, testScenario(0))
		startRound(t, s)
		_, err := s.LaunchAttack("atk-sqli", "mallory")
		require.NoError(t, err)

		state, err := s.Reset()
		require.NoError(t, err)
		require.Equal(t, models.StatusLobby, state.Status)
		require.Zero(t, state.Round)
		require.Zero(t, s.Score().Red)
		require.Empty(t, s.LaunchedAttacks())
	})
}

func TestStateTimerIsLive(t *testing.T) {
	s, clock, _ := newTestSession(t, testScenario(0))
	startRound(t, s)

	clock.Advance(42 * time.Second)
	require.Equal(t, 42, s.State().Timer, "State recomputes the timer without waiting for a tick")
}
