// Package resolver scores a launched attack against the defending
// actions taken against it.
package resolver

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/pewpewlabs/pewpew-tabletop/internal/models"
)

// Strategy selects the resolution algorithm at construction time
type Strategy int

const (
	// StrategyTiered is the production path: explicit success
	// tracking plus the per-action effectiveness matrix.
	StrategyTiered Strategy = iota
	// StrategyLegacy is the original flat block/hit logic, kept as a
	// degraded fallback.
	StrategyLegacy
)

// executionPoints are the red points for a successful, uncontained
// attack, per attack type. Distinct from the choice points awarded at
// scan and launch time.
var executionPoints = map[models.AttackType]int{
	models.AttackRCE:         10,
	models.AttackSQLi:        8,
	models.AttackBruteforce:  5,
	models.AttackPhishing:    3,
	models.AttackLateralMove: 3,
	models.AttackExfil:       5,
}

// Resolver computes attack outcomes. Safe for concurrent use; it holds
// no mutable state.
type Resolver struct {
	strategy Strategy
	log      zerolog.Logger
}

// New creates a resolver with the given strategy
func New(strategy Strategy, log zerolog.Logger) *Resolver {
	return &Resolver{strategy: strategy, log: log}
}

// Resolve scores attack against the defending actions and the alerts
// frozen at launch. clock is seconds since launch. The returned deltas
// are to be added by the caller, which clamps the running score at
// zero. If the tiered path fails it falls back to the legacy path;
// the two attempts are mutually exclusive, so deltas are never
// double-applied.
func (r *Resolver) Resolve(attack models.Attack, actions []models.BlueAction, alerts []models.Alert, clock float64) models.Outcome {
	if r.strategy == StrategyLegacy || len(alerts) == 0 {
		return r.resolveLegacy(attack, actions, clock)
	}
	out, err := r.resolveTiered(attack, actions, alerts)
	if err != nil {
		r.log.Warn().Err(err).Str("attack", attack.ID).Msg("tiered resolution failed, falling back to legacy")
		return r.resolveLegacy(attack, actions, clock)
	}
	return out
}

// resolveTiered is the default production path. Any panic inside it is
// recovered into err so the caller can fall back cleanly.
func (r *Resolver) resolveTiered(attack models.Attack, actions []models.BlueAction, alerts []models.Alert) (out models.Outcome, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("tiered resolution: %v", p)
		}
	}()

	succeeded, indicators := DetermineSuccess(attack, alerts)
	r.log.Debug().
		Str("attack", attack.ID).
		Bool("succeeded", succeeded).
		Strs("indicators", indicators).
		Msg("attack success determined")

	evaluations := make([]models.ActionEvaluation, 0, len(actions))
	bluePoints := 0
	for _, action := range actions {
		ev := evaluateAction(action, attack, succeeded)
		evaluations = append(evaluations, ev)
		bluePoints += ev.Points
		r.log.Debug().
			Str("action", action.ID).
			Str("effectiveness", string(ev.Effectiveness)).
			Int("points", ev.Points).
			Msg("action evaluated")
	}

	result := classify(evaluations, len(actions))

	redPoints := 0
	if succeeded {
		switch result {
		case models.ResultHit, models.ResultUnsuccessfulBlock, models.ResultUnsuccessfulMitigation:
			redPoints = executionPoints[attack.Type]
		}
	}

	r.log.Info().
		Str("attack", attack.ID).
		Str("result", result).
		Int("red", redPoints).
		Int("blue", bluePoints).
		Msg("attack resolved")

	return models.Outcome{
		Result:            result,
		AttackSucceeded:   succeeded,
		SuccessIndicators: indicators,
		ScoreDeltas:       models.ScoreDeltas{Red: redPoints, Blue: bluePoints},
		ActionEvaluations: evaluations,
		EmittedAlerts:     alerts,
	}, nil
}

// classify derives the overall result from the per-action tiers
func classify(evaluations []models.ActionEvaluation, actionCount int) string {
	anyOptimal, anyEffective, anyPositive := false, false, false
	for _, ev := range evaluations {
		anyOptimal = anyOptimal || ev.Effectiveness == models.EffectOptimal
		anyEffective = anyEffective || ev.Effectiveness == models.EffectEffective
		anyPositive = anyPositive || ev.Points > 0
	}
	switch {
	case anyOptimal:
		return models.ResultSuccessfulBlock
	case anyEffective:
		return models.ResultSuccessfulMitigation
	case anyPositive:
		return models.ResultUnsuccessfulMitigation
	case actionCount == 0:
		return models.ResultHit
	default:
		return models.ResultUnsuccessfulBlock
	}
}
