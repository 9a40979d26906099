package engine

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/pewpewlabs/pewpew-tabletop/internal/models"
)

// Attack choice points, applied at launch time. Distinct from the
// execution points the resolver awards for a successful detonation.
const (
	correctAttackPoints = 3
	wrongAttackPenalty  = -2
)

// LaunchResult is returned to the attacking player
type LaunchResult struct {
	AttackID string         `json:"attack_id"`
	Result   string         `json:"result"` // pending, miss or blocked
	Message  string         `json:"message,omitempty"`
	SourceIP string         `json:"source_ip"`
	Blocked  bool           `json:"is_blocked"`
	Alerts   []models.Alert `json:"alerts"`
}

// LaunchAttack launches a catalog attack for the red team. It consumes
// red's turn: alerts are generated and frozen, choice points applied,
// and play passes to blue. Attacks from an already-blocked source IP
// are stopped pre-detonation; attacks that are not the scenario's
// intended exploit resolve to a miss immediately.
func (s *Session) LaunchAttack(attackID, player string) (LaunchResult, error) {
	s.mu.Lock()

	if err := s.checkLaunch(); err != nil {
		s.mu.Unlock()
		return LaunchResult{}, err
	}
	attack, ok := s.scenario.FindAttack(attackID)
	if !ok {
		s.mu.Unlock()
		return LaunchResult{}, ErrAttackNotFound
	}

	sourceIP := s.attackSourceIP()
	if s.state.IPBlocked(sourceIP) {
		result, events := s.launchBlocked(attack, player, sourceIP)
		s.mu.Unlock()
		s.send(events)
		return result, nil
	}

	if attack.RequiresScan && !s.state.RedScanCompleted {
		s.mu.Unlock()
		return LaunchResult{}, ErrScanRequired
	}

	now := s.now()
	generated := s.gen.Generate(attack, s.scenario, now)
	for i := range generated {
		if generated[i].IOC == nil {
			generated[i].IOC = map[string]any{}
		}
		generated[i].IOC["source_ip"] = sourceIP
	}

	s.launched = append(s.launched, models.LaunchedAttack{
		ID:         uuid.NewString(),
		Attack:     attack,
		LaunchedAt: now,
		Alerts:     generated,
		Player:     player,
		SourceIP:   sourceIP,
		// A wrong choice is final at launch; it can never be re-scored
		// by a later blue action.
		Resolved: !attack.IsCorrectChoice,
	})
	if mg := s.games[VoteSourceIP]; mg != nil {
		mg.SetCorrect(sourceIP)
	}

	s.log.Info().
		Str("attack", attack.ID).
		Str("type", string(attack.Type)).
		Str("source_ip", sourceIP).
		Int("alerts", len(generated)).
		Msg("attack launched")

	events := []outbound{{ev: s.newEvent(models.EventAttackLaunched, map[string]any{
		"attack_id":   attack.ID,
		"attack_type": string(attack.Type),
		"from":        attack.FromNode,
		"to":          attack.ToNode,
		"player_name": player,
		"source_ip":   sourceIP,
		"is_blocked":  false,
	})}}

	s.state.RedAttackThisTurn = true
	events = append(events, s.completeTurn(models.SideRed, "attack_launched")...)

	for _, alert := range generated {
		events = append(events, outbound{
			ev:    s.newEvent(models.EventAlertEmitted, alertPayload(alert)),
			roles: alertRoles,
		})
	}

	choicePoints := wrongAttackPenalty
	if attack.IsCorrectChoice {
		choicePoints = correctAttackPoints
	}
	events = append(events, s.applyScore(models.ScoreDeltas{Red: choicePoints}))

	result := LaunchResult{
		AttackID: attack.ID,
		Result:   models.ResultPending,
		SourceIP: sourceIP,
		Alerts:   generated,
	}
	if !attack.IsCorrectChoice {
		result.Result = models.ResultMiss
		events = append(events, outbound{ev: s.newEvent(models.EventAttackResolved, map[string]any{
			"attack_id":    attack.ID,
			"attack_type":  string(attack.Type),
			"from":         attack.FromNode,
			"to":           attack.ToNode,
			"result":       models.ResultMiss,
			"preliminary":  false,
			"reason":       "Attack does not match scenario artifacts",
			"score_deltas": models.ScoreDeltas{Red: choicePoints},
		})})
	}

	s.mu.Unlock()
	s.send(events)
	return result, nil
}

// checkLaunch validates all launch preconditions before any mutation.
// Callers must hold the lock.
func (s *Session) checkLaunch() error {
	if s.state.Status != models.StatusRunning {
		return ErrGameNotRunning
	}
	if s.state.ScenarioID == "" {
		return ErrNoActiveGame
	}
	if s.state.CurrentTurn != models.SideRed {
		return ErrNotYourTurn
	}
	if s.state.RedAttackThisTurn {
		return ErrTurnActionUsed
	}
	return nil
}

// launchBlocked handles an attack whose source IP the blue team has
// already blocked: blue scores pre-detonation, no alerts are emitted,
// and red's turn is still consumed. Callers must hold the lock.
func (s *Session) launchBlocked(attack models.Attack, player, sourceIP string) (LaunchResult, []outbound) {
	s.log.Info().
		Str("attack", attack.ID).
		Str("source_ip", sourceIP).
		Msg("attack blocked pre-detonation")

	s.launched = append(s.launched, models.LaunchedAttack{
		ID:         uuid.NewString(),
		Attack:     attack,
		LaunchedAt: s.now(),
		Alerts:     []models.Alert{},
		Player:     player,
		SourceIP:   sourceIP,
		Blocked:    true,
		Resolved:   true,
	})

	deltas := models.ScoreDeltas{Blue: 8}
	events := []outbound{
		s.applyScore(deltas),
		{ev: s.newEvent(models.EventAttackResolved, map[string]any{
			"attack_id":    attack.ID,
			"attack_type":  string(attack.Type),
			"from":         attack.FromNode,
			"to":           attack.ToNode,
			"result":       models.ResultBlocked,
			"reason":       "source_ip_blocked",
			"source_ip":    sourceIP,
			"score_deltas": deltas,
		})},
	}

	s.state.RedAttackThisTurn = true
	events = append(events, s.completeTurn(models.SideRed, "attack_blocked")...)

	return LaunchResult{
		AttackID: attack.ID,
		Result:   models.ResultBlocked,
		Message:  fmt.Sprintf("Attack launched but blocked: source IP %s is blocked.", sourceIP),
		SourceIP: sourceIP,
		Blocked:  true,
		Alerts:   []models.Alert{},
	}, events
}

func alertPayload(a models.Alert) map[string]any {
	return map[string]any{
		"id":         a.ID,
		"timestamp":  a.Timestamp,
		"source":     a.Source,
		"severity":   a.Severity,
		"summary":    a.Summary,
		"details":    a.Details,
		"ioc":        a.IOC,
		"confidence": a.Confidence,
	}
}
