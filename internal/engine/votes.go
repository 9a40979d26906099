package engine

import (
	"github.com/pewpewlabs/pewpew-tabletop/internal/models"
	"github.com/pewpewlabs/pewpew-tabletop/internal/vote"
)

// CastVote records one player's vote in a team mini-game. Votes are
// only accepted from the side whose turn it is. The vote that first
// establishes a strict majority resolves the mini-game: a correct
// majority earns the side its one-time bonus, and either way the
// decision completes the side's turn.
func (s *Session) CastVote(gameID, voter, choice string) (vote.Result, error) {
	s.mu.Lock()

	if s.state.Status != models.StatusRunning {
		s.mu.Unlock()
		return vote.Result{}, ErrGameNotRunning
	}
	mg, ok := s.games[gameID]
	if !ok {
		s.mu.Unlock()
		return vote.Result{}, ErrUnknownMiniGame
	}
	if s.state.CurrentTurn != mg.Side {
		s.mu.Unlock()
		return vote.Result{}, ErrNotYourTurn
	}

	res := mg.Cast(voter, choice)

	events := []outbound{{
		ev: s.newEvent(models.EventVoteUpdate, map[string]any{
			"mini_game":    gameID,
			"role":         string(mg.Side),
			"counts":       res.Tally.Counts,
			"total":        res.Tally.Total,
			"leader":       res.Tally.Leader,
			"leader_count": res.Tally.LeaderCount,
		}),
		roles: []string{string(mg.Side)},
	}}

	if res.Reached {
		s.log.Info().
			Str("mini_game", gameID).
			Str("choice", res.Tally.Leader).
			Bool("correct", res.Correct).
			Int("points", res.Points).
			Msg("vote majority reached")

		events = append(events, outbound{ev: s.newEvent(models.EventVoteResult, map[string]any{
			"mini_game": gameID,
			"role":      string(mg.Side),
			"choice":    res.Tally.Leader,
			"correct":   res.Correct,
			"points":    res.Points,
			"counts":    res.Tally.Counts,
		})})

		if res.Points > 0 {
			deltas := models.ScoreDeltas{}
			if mg.Side == models.SideRed {
				deltas.Red = res.Points
			} else {
				deltas.Blue = res.Points
			}
			events = append(events, s.applyScore(deltas))
		}

		events = append(events, s.completeTurn(mg.Side, "vote_majority")...)
	}

	s.mu.Unlock()
	s.send(events)
	return res, nil
}
