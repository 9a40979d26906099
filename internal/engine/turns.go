package engine

import (
	"github.com/pewpewlabs/pewpew-tabletop/internal/models"
)

// completeTurn records a voluntary turn completion by side: its turn
// counter goes up and play passes to the opponent. If both sides have
// exhausted the scenario's turn budget the round ends instead.
// Timeouts do not go through here; they switch play without counting
// a turn. Callers must hold the lock.
func (s *Session) completeTurn(side models.Side, reason string) []outbound {
	switch side {
	case models.SideRed:
		s.state.RedTurnCount++
	case models.SideBlue:
		s.state.BlueTurnCount++
	}

	if maxTurns := s.state.MaxTurnsPerSide; maxTurns > 0 &&
		s.state.RedTurnCount >= maxTurns && s.state.BlueTurnCount >= maxTurns {
		s.state.Status = models.StatusFinished
		s.stopTimerLocked()
		s.log.Info().
			Int("red_turns", s.state.RedTurnCount).
			Int("blue_turns", s.state.BlueTurnCount).
			Msg("turn limit reached, ending round")
		return []outbound{{ev: s.newEvent(models.EventRoundEnded, map[string]any{
			"reason":             "turn_limit_reached",
			"elapsed_seconds":    s.state.Timer,
			"red_turns":          s.state.RedTurnCount,
			"blue_turns":         s.state.BlueTurnCount,
			"max_turns_per_side": maxTurns,
		})}}
	}

	next := side.Opponent()
	s.state.CurrentTurn = next
	s.state.TurnStartTime = s.now()
	switch next {
	case models.SideRed:
		s.state.RedAttackThisTurn = false
	case models.SideBlue:
		s.state.BlueActionThisTurn = false
	}

	s.log.Debug().
		Str("from", string(side)).
		Str("to", string(next)).
		Str("reason", reason).
		Msg("turn changed")
	return []outbound{{ev: s.newEvent(models.EventTurnChanged, map[string]any{
		"turn":            string(next),
		"reason":          reason,
		"previous_turn":   string(side),
		"turn_start_time": s.state.TurnStartTime,
	})}}
}
