package engine

import (
	"time"

	"github.com/pewpewlabs/pewpew-tabletop/internal/models"
)

// timer_update cadence, to keep websocket traffic down
const timerUpdateInterval = 5

// startTimerLocked launches the 1 Hz timer goroutine for the current
// round. Callers must hold the lock.
func (s *Session) startTimerLocked() {
	s.stopTimerLocked()
	stop := make(chan struct{})
	s.timerStop = stop
	go s.timerLoop(s.generation, stop)
}

// stopTimerLocked stops any running timer goroutine and bumps the
// generation so a goroutine mid-tick cannot act on a newer round.
// Callers must hold the lock.
func (s *Session) stopTimerLocked() {
	if s.timerStop != nil {
		close(s.timerStop)
		s.timerStop = nil
	}
	s.generation++
}

func (s *Session) timerLoop(gen uint64, stop <-chan struct{}) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			s.mu.Lock()
			if gen != s.generation {
				s.mu.Unlock()
				return
			}
			events, cont := s.tickLocked()
			s.mu.Unlock()
			s.send(events)
			if !cont {
				return
			}
		}
	}
}

// Tick runs a single timer step against the injected clock. The
// background loop calls it every second; tests call it directly.
func (s *Session) Tick() {
	s.mu.Lock()
	events, _ := s.tickLocked()
	s.mu.Unlock()
	s.send(events)
}

// tickLocked advances the round clock: update elapsed time, expire the
// current turn, and end the round at the duration limit. It only runs
// once the red briefing is dismissed, since the clocks are unset until
// then. Returns false when the round is over. Callers must hold the
// lock.
func (s *Session) tickLocked() ([]outbound, bool) {
	if s.state.Status != models.StatusRunning ||
		s.state.StartTime.IsZero() || !s.state.BriefingDismissed {
		return nil, true
	}

	now := s.now()
	elapsed := max(0, int(now.Sub(s.state.StartTime).Seconds()))
	s.state.Timer = elapsed

	var events []outbound

	if s.state.CurrentTurn != models.SideNone && !s.state.TurnStartTime.IsZero() {
		turnElapsed := int(now.Sub(s.state.TurnStartTime).Seconds())
		if turnElapsed >= s.state.TurnTimeLimit {
			events = append(events, s.expireTurn(turnElapsed)...)
		}
	}

	if elapsed >= s.roundLimit {
		s.state.Status = models.StatusFinished
		s.log.Info().Int("elapsed", elapsed).Msg("round duration limit reached")
		events = append(events,
			outbound{ev: s.newEvent(models.EventRoundEnded, map[string]any{
				"reason":          "time_limit",
				"elapsed_seconds": elapsed,
				"limit_seconds":   s.roundLimit,
			})},
			outbound{ev: s.newEvent(models.EventTimerUpdate, map[string]any{
				"timer":          elapsed,
				"timer_limit":    s.roundLimit,
				"time_remaining": 0,
			})},
		)
		return events, false
	}

	if elapsed%timerUpdateInterval == 0 {
		events = append(events, outbound{ev: s.newEvent(models.EventTimerUpdate, map[string]any{
			"timer":          elapsed,
			"timer_limit":    s.roundLimit,
			"time_remaining": s.roundLimit - elapsed,
		})})
	}

	return events, true
}

// expireTurn forces the turn over to the other side after a timeout.
// Unlike a voluntary completion, a timed-out turn does not count
// against either side's turn budget, so stalling cannot run out the
// opponent's turns. Callers must hold the lock.
func (s *Session) expireTurn(turnElapsed int) []outbound {
	expired := s.state.CurrentTurn
	next := expired.Opponent()

	s.state.CurrentTurn = next
	s.state.TurnStartTime = s.now()
	s.state.RedAttackThisTurn = false
	s.state.BlueActionThisTurn = false

	s.log.Info().
		Str("expired", string(expired)).
		Str("next", string(next)).
		Int("elapsed", turnElapsed).
		Msg("turn timed out")

	return []outbound{
		{ev: s.newEvent(models.EventTurnTimeout, map[string]any{
			"expired_turn":    string(expired),
			"new_turn":        string(next),
			"reason":          "time_limit",
			"elapsed_seconds": turnElapsed,
			"turn_start_time": s.state.TurnStartTime,
		})},
		{ev: s.newEvent(models.EventTurnChanged, map[string]any{
			"turn":            string(next),
			"reason":          "turn_timeout",
			"previous_turn":   string(expired),
			"turn_start_time": s.state.TurnStartTime,
		})},
	}
}
