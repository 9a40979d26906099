package resolver

import (
	"fmt"
	"slices"
	"strings"

	"github.com/pewpewlabs/pewpew-tabletop/internal/models"
)

// attributionTerms make the note check lenient: naming the attack
// family in any common spelling counts as correct attribution.
var attributionTerms = []string{
	"attack", "rce", "sqli", "sql", "brute", "phish", "lateral", "exfil",
}

// legacyBlockRules: which action types block which attack types, and
// the blue points awarded for the block.
var legacyBlockRules = []struct {
	actions []models.BlueActionType
	attacks []models.AttackType
	points  int
}{
	{
		actions: []models.BlueActionType{models.ActionIsolateHost, models.ActionBlockIP},
		attacks: []models.AttackType{
			models.AttackRCE, models.AttackSQLi, models.AttackBruteforce,
			models.AttackPhishing, models.AttackLateralMove, models.AttackExfil,
		},
		points: 8,
	},
	{
		actions: []models.BlueActionType{models.ActionUpdateWAF},
		attacks: []models.AttackType{models.AttackSQLi, models.AttackRCE, models.AttackBruteforce},
		points:  8,
	},
	{
		actions: []models.BlueActionType{models.ActionBlockDomain},
		attacks: []models.AttackType{models.AttackPhishing, models.AttackExfil},
		points:  6,
	},
}

// resolveLegacy is the pre-tiered flat resolution: block/hit/miss with
// attribution and quick-containment bonuses. Kept as a degraded mode.
func (r *Resolver) resolveLegacy(attack models.Attack, actions []models.BlueAction, clock float64) models.Outcome {
	// An incorrect attack choice is a miss regardless of the defense.
	// Normally caught at launch time; checked again for completeness.
	if !attack.IsCorrectChoice {
		r.log.Debug().Str("attack", attack.ID).Msg("incorrect attack choice, resolving as miss")
		return models.Outcome{
			Result:            models.ResultMiss,
			SuccessIndicators: []string{},
			ScoreDeltas:       models.ScoreDeltas{},
			ActionEvaluations: []models.ActionEvaluation{},
			EmittedAlerts:     []models.Alert{},
		}
	}

	result := models.ResultHit
	deltas := models.ScoreDeltas{}
	blocked := false
	correctAttribution := false

	for _, action := range actions {
		targetsNode := action.Target == attack.ToNode || action.Target == attack.FromNode
		if targetsNode && !blocked {
			for _, rule := range legacyBlockRules {
				if slices.Contains(rule.actions, action.Type) && slices.Contains(rule.attacks, attack.Type) {
					blocked = true
					result = models.ResultBlocked
					deltas.Blue += rule.points
					break
				}
			}
		}

		if action.Note != "" && !correctAttribution {
			note := strings.ToLower(action.Note)
			terms := append([]string{strings.ToLower(string(attack.Type))}, attributionTerms...)
			for _, term := range terms {
				if strings.Contains(note, term) {
					correctAttribution = true
					break
				}
			}
		}
	}

	if result == models.ResultHit {
		deltas.Red += executionPoints[attack.Type]
	}

	containedQuickly := false
	if len(actions) > 0 && clock > 0 && clock < 300 {
		containedQuickly = true
	}
	if containedQuickly && result != models.ResultHit {
		deltas.Blue += 5
	}

	if len(actions) > 0 {
		if correctAttribution {
			deltas.Blue += 2
		} else {
			deltas.Blue -= 1
		}
	}

	// Penalty for excessive response
	if len(actions) > 3 && result != models.ResultHit {
		deltas.Blue -= 5
	}

	// Minimum point for attempting a defense, even a wrong one
	if len(actions) > 0 && deltas.Blue <= 0 && !blocked {
		deltas.Blue = 1
	}

	emitted := []models.Alert{}
	if !blocked {
		emitted = append(emitted, models.Alert{
			Source:   "IDS",
			Severity: "high",
			Summary:  fmt.Sprintf("Potential %s detected", attack.Type),
		})
	}

	return models.Outcome{
		Result:            result,
		AttackSucceeded:   result == models.ResultHit,
		SuccessIndicators: []string{},
		ScoreDeltas:       deltas,
		ActionEvaluations: []models.ActionEvaluation{},
		EmittedAlerts:     emitted,
	}
}
