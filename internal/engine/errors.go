package engine

import "errors"

// Precondition and lookup errors. Every check runs before any state
// mutation, so a rejected command leaves the session unchanged.
var (
	ErrGameNotRunning   = errors.New("game is not running")
	ErrGameNotPaused    = errors.New("game is not paused")
	ErrNoActiveGame     = errors.New("no active game")
	ErrNotYourTurn      = errors.New("not your team's turn")
	ErrTurnActionUsed   = errors.New("action already taken this turn")
	ErrScanRequired     = errors.New("attack requires reconnaissance scanning first")
	ErrScenarioNotFound = errors.New("scenario not found")
	ErrAttackNotFound   = errors.New("attack not found")
	ErrUnknownMiniGame  = errors.New("unknown vote mini-game")
)
