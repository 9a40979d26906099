package engine

import (
	"github.com/pewpewlabs/pewpew-tabletop/internal/models"
	"github.com/pewpewlabs/pewpew-tabletop/internal/vote"
)

// Start begins a new round with the given scenario. A running or
// paused round is ended first, so Start doubles as a restart. The
// round clocks stay unset until the red briefing is dismissed.
func (s *Session) Start(scenarioID string) (models.GameState, error) {
	s.mu.Lock()

	scenario, ok := s.cat.Lookup(scenarioID)
	if !ok {
		s.mu.Unlock()
		return models.GameState{}, ErrScenarioNotFound
	}

	var events []outbound
	if s.state.Status == models.StatusRunning || s.state.Status == models.StatusPaused {
		s.stopTimerLocked()
		events = append(events, outbound{ev: s.newEvent(models.EventRoundEnded, map[string]any{
			"reason":               "new_game_starting",
			"elapsed_seconds":      s.state.Timer,
			"previous_scenario_id": s.state.ScenarioID,
		})})
	}

	round := s.state.Round + 1
	s.state = models.NewGameState()
	s.state.Status = models.StatusRunning
	s.state.Round = round
	s.state.ScenarioID = scenario.ID
	s.state.CurrentTurn = models.SideRed
	s.state.TurnTimeLimit = s.turnLimit
	s.state.MaxTurnsPerSide = scenario.MaxTurnsPerSide

	s.scenario = scenario
	s.score = models.Score{}
	s.launched = nil
	s.actions = nil
	s.setupMiniGames(scenario)
	s.startTimerLocked()

	s.log.Info().
		Int("round", round).
		Str("scenario", scenario.ID).
		Msg("round started")

	events = append(events,
		outbound{ev: s.newEvent(models.EventRoundStarted, map[string]any{
			"round":         round,
			"scenario_id":   scenario.ID,
			"scenario_name": scenario.Name,
		})},
		s.applyScore(models.ScoreDeltas{}),
	)

	state := s.state
	s.mu.Unlock()

	s.send(events)
	return state, nil
}

// setupMiniGames builds the six vote mini-games for a fresh round.
// Answers only known mid-round (source IP, investigation outcome) are
// filled in later via SetCorrect. Callers must hold the lock.
func (s *Session) setupMiniGames(scenario models.Scenario) {
	correctAttack := ""
	if a, ok := scenario.CorrectAttack(); ok {
		correctAttack = a.ID
	}
	s.games = map[string]*vote.MiniGame{
		VoteVulnTool:      vote.NewMiniGame(VoteVulnTool, models.SideRed, string(scenario.RequiredScanTool)),
		VoteAttack:        vote.NewMiniGame(VoteAttack, models.SideRed, correctAttack),
		VotePivot:         vote.NewMiniGame(VotePivot, models.SideRed, scenario.CorrectPivotStrategy),
		VoteSourceIP:      vote.NewMiniGame(VoteSourceIP, models.SideBlue, ""),
		VoteResponse:      vote.NewMiniGame(VoteResponse, models.SideBlue, string(scenario.CorrectResponse)),
		VoteInvestigation: vote.NewMiniGame(VoteInvestigation, models.SideBlue, ""),
	}
}

// DismissBriefing marks the red briefing as read and starts the round
// and turn clocks. Idempotent: a second call is a no-op.
func (s *Session) DismissBriefing() (models.GameState, error) {
	s.mu.Lock()

	if s.state.Status != models.StatusRunning {
		s.mu.Unlock()
		return models.GameState{}, ErrGameNotRunning
	}
	if s.state.BriefingDismissed {
		state := s.state
		s.mu.Unlock()
		return state, nil
	}

	now := s.now()
	s.state.BriefingDismissed = true
	s.state.StartTime = now
	s.state.TurnStartTime = now
	s.state.Timer = 0

	s.log.Info().Time("start", now).Msg("briefing dismissed, clocks started")

	ev := outbound{ev: s.newEvent(models.EventTimerUpdate, map[string]any{
		"timer":              0,
		"timer_limit":        s.roundLimit,
		"time_remaining":     s.roundLimit,
		"briefing_dismissed": true,
	})}
	state := s.state
	s.mu.Unlock()

	s.send([]outbound{ev})
	return state, nil
}

// Pause suspends play. The round clock keeps counting wall time; only
// command validation changes.
func (s *Session) Pause() (models.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Status != models.StatusRunning {
		return models.GameState{}, ErrGameNotRunning
	}
	s.state.Status = models.StatusPaused
	return s.state, nil
}

// Resume continues a paused round
func (s *Session) Resume() (models.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Status != models.StatusPaused {
		return models.GameState{}, ErrGameNotPaused
	}
	s.state.Status = models.StatusRunning
	return s.state, nil
}

// Stop ends the current round by GM decision
func (s *Session) Stop() (models.GameState, error) {
	s.mu.Lock()

	if s.state.Status != models.StatusRunning && s.state.Status != models.StatusPaused {
		s.mu.Unlock()
		return models.GameState{}, ErrNoActiveGame
	}

	s.stopTimerLocked()
	prevScenario := s.state.ScenarioID
	s.state.Status = models.StatusFinished
	s.state.ScenarioID = ""

	s.log.Info().Str("scenario", prevScenario).Msg("round stopped")

	ev := outbound{ev: s.newEvent(models.EventRoundEnded, map[string]any{
		"reason":               "gm_stopped",
		"elapsed_seconds":      s.state.Timer,
		"previous_scenario_id": prevScenario,
	})}
	state := s.state
	s.mu.Unlock()

	s.send([]outbound{ev})
	return state, nil
}

// Reset returns the session to lobby state, ending any active round
// and discarding all round data including the event history.
func (s *Session) Reset() (models.GameState, error) {
	s.mu.Lock()

	s.stopTimerLocked()
	elapsed := s.state.Timer

	s.state = models.NewGameState()
	s.scenario = models.Scenario{}
	s.score = models.Score{}
	s.launched = nil
	s.actions = nil
	s.games = map[string]*vote.MiniGame{}
	s.history = nil

	s.log.Info().Msg("session reset to lobby")

	events := []outbound{
		{ev: s.newEvent(models.EventRoundEnded, map[string]any{
			"reason":          "reset",
			"elapsed_seconds": elapsed,
		})},
		s.applyScore(models.ScoreDeltas{}),
	}
	state := s.state
	s.mu.Unlock()

	s.send(events)
	return state, nil
}
