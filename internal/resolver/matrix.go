package resolver

import (
	"fmt"

	"github.com/pewpewlabs/pewpew-tabletop/internal/models"
)

// matrixKey addresses one tier entry: the action taken and whether its
// target matched the attack's source or destination node.
type matrixKey struct {
	Action        models.BlueActionType
	TargetCorrect bool
}

// tier is one hand-authored effectiveness entry
type tier struct {
	Effectiveness models.Effectiveness
	Points        int
	Reason        string
	Result        string
}

// defaultTier applies when an (action, target-correctness) pair is
// absent from the matrix for the attack type.
func defaultTier(action models.BlueActionType, attackType models.AttackType) tier {
	return tier{
		Effectiveness: models.EffectIneffective,
		Points:        -2,
		Reason:        fmt.Sprintf("%s is not effective against %s attack.", action, attackType),
		Result:        models.ResultUnsuccessfulMitigation,
	}
}

// ScoringMatrix returns the tier table for an attack type and success
// state. The succeeded branch favors containment (host isolation is
// typically optimal); the not-yet-succeeded branch favors prevention
// (WAF/domain/IP blocking).
func ScoringMatrix(attackType models.AttackType, succeeded bool) map[matrixKey]tier {
	m := map[matrixKey]tier{}

	switch attackType {
	case models.AttackRCE:
		if succeeded {
			m[matrixKey{models.ActionIsolateHost, true}] = tier{
				models.EffectOptimal, 10,
				"Optimal post-exploitation containment. Isolates compromised host to prevent lateral movement and data exfiltration.",
				models.ResultSuccessfulBlock,
			}
			m[matrixKey{models.ActionBlockIP, true}] = tier{
				models.EffectEffective, 6,
				"Effective containment. Cuts off reverse shell connection, but backdoor may still be active.",
				models.ResultSuccessfulMitigation,
			}
			m[matrixKey{models.ActionUpdateWAF, true}] = tier{
				models.EffectPartial, 3,
				"Partial mitigation. Too late for current attack, but prevents future similar attacks.",
				models.ResultSuccessfulMitigation,
			}
			m[matrixKey{models.ActionBlockDomain, true}] = tier{
				models.EffectIneffective, -2,
				"Ineffective action. Domain blocking does not help with RCE attacks.",
				models.ResultUnsuccessfulMitigation,
			}
			m[matrixKey{models.ActionIsolateHost, false}] = tier{
				models.EffectWrongTarget, -3,
				"Wrong target. Isolating the wrong host wastes resources and doesn't contain the threat.",
				models.ResultUnsuccessfulBlock,
			}
		} else {
			m[matrixKey{models.ActionUpdateWAF, true}] = tier{
				models.EffectOptimal, 10,
				"Optimal preventive blocking. Updates WAF rules to prevent RCE exploit from succeeding.",
				models.ResultSuccessfulBlock,
			}
			m[matrixKey{models.ActionIsolateHost, true}] = tier{
				models.EffectEffective, 6,
				"Effective defense in depth. Isolates host before exploit can execute.",
				models.ResultSuccessfulMitigation,
			}
			m[matrixKey{models.ActionBlockIP, true}] = tier{
				models.EffectPartial, 3,
				"Partial prevention. Blocks attacker IP but may not prevent all attack vectors.",
				models.ResultSuccessfulMitigation,
			}
			m[matrixKey{models.ActionBlockDomain, true}] = tier{
				models.EffectIneffective, -2,
				"Ineffective action. Domain blocking does not help with RCE attacks.",
				models.ResultUnsuccessfulMitigation,
			}
			m[matrixKey{models.ActionUpdateWAF, false}] = tier{
				models.EffectWrongTarget, -3,
				"Wrong target. Updating WAF on wrong node doesn't prevent the attack.",
				models.ResultUnsuccessfulBlock,
			}
		}

	case models.AttackSQLi:
		if succeeded {
			m[matrixKey{models.ActionIsolateHost, true}] = tier{
				models.EffectOptimal, 10,
				"Optimal containment. Isolates database server to prevent further data access.",
				models.ResultSuccessfulBlock,
			}
			m[matrixKey{models.ActionUpdateWAF, true}] = tier{
				models.EffectEffective, 6,
				"Effective mitigation. Updates WAF to prevent future SQL injection attempts.",
				models.ResultSuccessfulMitigation,
			}
		} else {
			m[matrixKey{models.ActionUpdateWAF, true}] = tier{
				models.EffectOptimal, 10,
				"Optimal preventive blocking. Updates WAF rules to block SQL injection patterns.",
				models.ResultSuccessfulBlock,
			}
			m[matrixKey{models.ActionIsolateHost, true}] = tier{
				models.EffectEffective, 6,
				"Effective defense in depth. Isolates database server before data is accessed.",
				models.ResultSuccessfulMitigation,
			}
		}

	case models.AttackBruteforce:
		if succeeded {
			m[matrixKey{models.ActionDisableAccount, true}] = tier{
				models.EffectOptimal, 10,
				"Optimal containment. Disables compromised account immediately.",
				models.ResultSuccessfulBlock,
			}
			m[matrixKey{models.ActionIsolateHost, true}] = tier{
				models.EffectEffective, 6,
				"Effective containment. Isolates host to prevent further access.",
				models.ResultSuccessfulMitigation,
			}
		} else {
			m[matrixKey{models.ActionDisableAccount, true}] = tier{
				models.EffectOptimal, 10,
				"Optimal preventive action. Disables account before successful compromise.",
				models.ResultSuccessfulBlock,
			}
			m[matrixKey{models.ActionIsolateHost, true}] = tier{
				models.EffectEffective, 6,
				"Effective defense. Isolates host to prevent brute force attempts.",
				models.ResultSuccessfulMitigation,
			}
		}

	case models.AttackPhishing:
		if succeeded {
			m[matrixKey{models.ActionIsolateHost, true}] = tier{
				models.EffectOptimal, 10,
				"Optimal containment. Isolates compromised endpoint to prevent further damage.",
				models.ResultSuccessfulBlock,
			}
			m[matrixKey{models.ActionBlockDomain, true}] = tier{
				models.EffectEffective, 6,
				"Effective mitigation. Blocks malicious domain to prevent C2 communication.",
				models.ResultSuccessfulMitigation,
			}
		} else {
			m[matrixKey{models.ActionBlockDomain, true}] = tier{
				models.EffectOptimal, 10,
				"Optimal preventive action. Blocks malicious domain before payload executes.",
				models.ResultSuccessfulBlock,
			}
			m[matrixKey{models.ActionIsolateHost, true}] = tier{
				models.EffectEffective, 6,
				"Effective defense. Isolates endpoint to prevent phishing payload execution.",
				models.ResultSuccessfulMitigation,
			}
		}

	case models.AttackLateralMove:
		if succeeded {
			m[matrixKey{models.ActionIsolateHost, true}] = tier{
				models.EffectOptimal, 10,
				"Optimal containment. Isolates compromised host to prevent further lateral movement.",
				models.ResultSuccessfulBlock,
			}
			m[matrixKey{models.ActionBlockIP, true}] = tier{
				models.EffectEffective, 6,
				"Effective containment. Blocks attacker IP to limit lateral movement.",
				models.ResultSuccessfulMitigation,
			}
		} else {
			m[matrixKey{models.ActionIsolateHost, true}] = tier{
				models.EffectOptimal, 10,
				"Optimal preventive action. Isolates host before lateral movement occurs.",
				models.ResultSuccessfulBlock,
			}
			m[matrixKey{models.ActionBlockIP, true}] = tier{
				models.EffectEffective, 6,
				"Effective defense. Blocks attacker IP to prevent lateral movement.",
				models.ResultSuccessfulMitigation,
			}
		}

	case models.AttackExfil:
		if succeeded {
			m[matrixKey{models.ActionIsolateHost, true}] = tier{
				models.EffectOptimal, 10,
				"Optimal containment. Isolates host to stop ongoing data exfiltration.",
				models.ResultSuccessfulBlock,
			}
			m[matrixKey{models.ActionBlockIP, true}] = tier{
				models.EffectEffective, 6,
				"Effective containment. Blocks exfiltration destination IP.",
				models.ResultSuccessfulMitigation,
			}
			m[matrixKey{models.ActionBlockDomain, true}] = tier{
				models.EffectPartial, 3,
				"Partial mitigation. Blocks domain but may not stop IP-based exfiltration.",
				models.ResultSuccessfulMitigation,
			}
		} else {
			m[matrixKey{models.ActionBlockIP, true}] = tier{
				models.EffectOptimal, 10,
				"Optimal preventive action. Blocks exfiltration destination before data transfer.",
				models.ResultSuccessfulBlock,
			}
			m[matrixKey{models.ActionIsolateHost, true}] = tier{
				models.EffectEffective, 6,
				"Effective defense. Isolates host to prevent data exfiltration.",
				models.ResultSuccessfulMitigation,
			}
			m[matrixKey{models.ActionBlockDomain, true}] = tier{
				models.EffectPartial, 3,
				"Partial prevention. Blocks domain but may not prevent IP-based exfiltration.",
				models.ResultSuccessfulMitigation,
			}
		}
	}

	return m
}

// evaluateAction assigns the tiered verdict for one blue action
func evaluateAction(action models.BlueAction, attack models.Attack, succeeded bool) models.ActionEvaluation {
	targetCorrect := action.Target == attack.ToNode || action.Target == attack.FromNode

	t, ok := ScoringMatrix(attack.Type, succeeded)[matrixKey{action.Type, targetCorrect}]
	if !ok {
		t = defaultTier(action.Type, attack.Type)
	}

	return models.ActionEvaluation{
		ActionID:      action.ID,
		ActionType:    action.Type,
		Target:        action.Target,
		Effectiveness: t.Effectiveness,
		Points:        t.Points,
		Reason:        t.Reason,
		Result:        t.Result,
	}
}
