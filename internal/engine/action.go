package engine

import (
	"github.com/google/uuid"

	"github.com/pewpewlabs/pewpew-tabletop/internal/models"
)

// SubmitAction records a blue team mitigation. It consumes blue's
// turn. If the most recent launched attack is still unresolved, the
// action additionally triggers resolution against the full set of
// actions taken this round.
func (s *Session) SubmitAction(actionType models.BlueActionType, target, note, player string) (models.BlueAction, error) {
	s.mu.Lock()

	if s.state.Status != models.StatusRunning {
		s.mu.Unlock()
		return models.BlueAction{}, ErrGameNotRunning
	}
	if s.state.ScenarioID == "" {
		s.mu.Unlock()
		return models.BlueAction{}, ErrNoActiveGame
	}
	if s.state.CurrentTurn != models.SideBlue {
		s.mu.Unlock()
		return models.BlueAction{}, ErrNotYourTurn
	}
	if s.state.BlueActionThisTurn {
		s.mu.Unlock()
		return models.BlueAction{}, ErrTurnActionUsed
	}

	action := models.BlueAction{
		ID:        uuid.NewString(),
		Type:      actionType,
		Target:    target,
		Note:      note,
		Timestamp: s.now(),
		Player:    player,
	}
	s.state.BlueActionThisTurn = true
	s.actions = append(s.actions, action)

	// Blocking an IP arms the pre-detonation defense for future launches
	if actionType == models.ActionBlockIP && target != "" && !s.state.IPBlocked(target) {
		s.state.BlockedIPs = append(s.state.BlockedIPs, target)
	}

	s.log.Info().
		Str("action", action.ID).
		Str("type", string(actionType)).
		Str("target", target).
		Msg("blue action submitted")

	events := []outbound{{ev: s.newEvent(models.EventActionTaken, map[string]any{
		"id":          action.ID,
		"type":        string(action.Type),
		"target":      action.Target,
		"note":        action.Note,
		"timestamp":   action.Timestamp,
		"player_name": action.Player,
	})}}

	events = append(events, s.resolvePendingAttack()...)
	events = append(events, s.completeTurn(models.SideBlue, "blue_action_taken")...)

	s.mu.Unlock()
	s.send(events)
	return action, nil
}

// resolvePendingAttack resolves the most recent launched attack, if
// one is waiting on a blue response. A settled launch (blocked or
// missed at launch, or scored by an earlier action) is never resolved
// twice, even when a turn timeout hands blue another action.
// Callers must hold the lock.
func (s *Session) resolvePendingAttack() []outbound {
	if len(s.launched) == 0 {
		return nil
	}
	latest := &s.launched[len(s.launched)-1]
	if latest.Resolved {
		return nil
	}
	latest.Resolved = true

	clock := s.now().Sub(latest.LaunchedAt).Seconds()
	outcome := s.res.Resolve(latest.Attack, s.actions, latest.Alerts, clock)

	if mg := s.games[VoteInvestigation]; mg != nil {
		mg.SetCorrect(outcome.Result)
	}

	events := []outbound{{ev: s.newEvent(models.EventAttackResolved, map[string]any{
		"attack_id":          latest.Attack.ID,
		"attack_type":        string(latest.Attack.Type),
		"from":               latest.Attack.FromNode,
		"to":                 latest.Attack.ToNode,
		"result":             outcome.Result,
		"preliminary":        false,
		"blue_actions_count": len(s.actions),
		"attack_succeeded":   outcome.AttackSucceeded,
		"success_indicators": outcome.SuccessIndicators,
		"action_evaluations": outcome.ActionEvaluations,
		"score_deltas":       outcome.ScoreDeltas,
	})}}
	events = append(events, s.applyScore(outcome.ScoreDeltas))
	return events
}
