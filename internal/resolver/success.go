package resolver

import (
	"strings"

	"github.com/pewpewlabs/pewpew-tabletop/internal/models"
)

// summarySignatures are the per-attack-type keyword signatures the
// success check scans alert summaries for. They must stay in lockstep
// with the templates in the alerts package: the generator authors the
// text, this table recognizes it.
var summarySignatures = map[models.AttackType][]string{
	models.AttackRCE: {
		"command execution", "spawned",
		"reverse shell", "outbound network connection",
		"backdoor", "file system write",
	},
	models.AttackSQLi:        {"anomalous database query"},
	models.AttackBruteforce:  {"successful login", "authentication success"},
	models.AttackPhishing:    {"macro execution", "macro"},
	models.AttackLateralMove: {"privilege escalation", "lateral movement"},
	models.AttackExfil:       {"large data transfer", "data transfer"},
}

// DetermineSuccess decides whether an attack has succeeded, based on
// the alerts generated for it. Any single keyword match flips success
// and records the matching summary as an indicator. This is a
// heuristic over generator output, not independent ground truth.
func DetermineSuccess(attack models.Attack, alerts []models.Alert) (bool, []string) {
	indicators := []string{}
	succeeded := false

	keywords := summarySignatures[attack.Type]
	for _, alert := range alerts {
		summary := strings.ToLower(alert.Summary)
		matched := false
		for _, kw := range keywords {
			if strings.Contains(summary, kw) {
				matched = true
				break
			}
		}
		// SQLi additionally counts any database-sourced alert
		if !matched && attack.Type == models.AttackSQLi &&
			strings.Contains(strings.ToLower(alert.Source), "database") {
			matched = true
		}
		if matched {
			succeeded = true
			indicators = append(indicators, alert.Summary)
		}
	}
	return succeeded, indicators
}
