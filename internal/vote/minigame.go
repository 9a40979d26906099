package vote

import "github.com/pewpewlabs/pewpew-tabletop/internal/models"

// Bonus awarded when a team's majority lands on the correct answer
const Bonus = 5

// MiniGame is one team decision resolved by majority vote: identify
// the scan IP, the vulnerability tool, the attack, the pivot strategy,
// the correct response action, or the final outcome.
type MiniGame struct {
	ID      string
	Side    models.Side
	correct string
	ledger  *Ledger

	// resolved guards the one-shot bonus: once a majority is reached
	// this round, later votes can never re-trigger it.
	resolved bool
}

// NewMiniGame creates a mini-game owned by side. correct may be empty
// if the answer is only known later in the round (see SetCorrect).
func NewMiniGame(id string, side models.Side, correct string) *MiniGame {
	return &MiniGame{ID: id, Side: side, correct: correct, ledger: NewLedger()}
}

// SetCorrect sets the correct answer once it is known (e.g. the attack
// source IP is generated at launch time)
func (m *MiniGame) SetCorrect(answer string) {
	m.correct = answer
}

// Result reports the effect of one cast vote
type Result struct {
	Tally Tally
	// Reached is true only on the vote that first establishes a
	// majority this round.
	Reached bool
	// Correct is whether the majority choice equals the correct
	// answer; meaningful only when Reached.
	Correct bool
	// Points is the one-time bonus for the owning side (0 or Bonus)
	Points int
}

// Cast records a vote and reports whether it newly resolved the game
func (m *MiniGame) Cast(voter, choice string) Result {
	m.ledger.Cast(voter, choice)
	tally := m.ledger.Tally()

	res := Result{Tally: tally}
	if tally.HasMajority && !m.resolved {
		m.resolved = true
		res.Reached = true
		res.Correct = m.correct != "" && tally.Leader == m.correct
		if res.Correct {
			res.Points = Bonus
		}
	}
	return res
}

// Resolved reports whether a majority has already been reached
func (m *MiniGame) Resolved() bool {
	return m.resolved
}

// Tally returns the current vote tally
func (m *MiniGame) Tally() Tally {
	return m.ledger.Tally()
}
