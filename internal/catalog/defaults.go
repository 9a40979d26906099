package catalog

import "github.com/pewpewlabs/pewpew-tabletop/internal/models"

// defaultScenarios builds the scenarios shipped with the server. The
// exercise content (topology, attack options, scan artifacts) is hand
// authored; exactly one attack per scenario is the correct choice.
func defaultScenarios() []models.Scenario {
	return []models.Scenario{
		{
			ID:          "scenario-1",
			Name:        "NH360 SharePoint — CVE-2019-11043",
			Description: "Exploitation of a PHP-FPM RCE on the NH360 web tier. The attacker gains remote code execution, establishes persistence and attempts data exfiltration.",
			Topology: models.Topology{
				Nodes: []models.Node{
					{ID: "internet", Type: "internet", Label: "Internet"},
					{ID: "fw-1", Type: "firewall", Label: "Perimeter Firewall"},
					{ID: "waf-1", Type: "waf", Label: "WAF"},
					{ID: "web-1", Type: "web", Label: "Web Server"},
					{ID: "app-1", Type: "app", Label: "App Server"},
					{ID: "db-1", Type: "db", Label: "Database"},
					{ID: "ad-1", Type: "ad", Label: "Active Directory"},
				},
				Links: []models.Link{
					{From: "internet", To: "fw-1"},
					{From: "fw-1", To: "waf-1"},
					{From: "waf-1", To: "web-1"},
					{From: "web-1", To: "app-1"},
					{From: "app-1", To: "db-1"},
					{From: "app-1", To: "ad-1"},
				},
			},
			Attacks: []models.Attack{
				{
					ID:               "atk-rce-web",
					Type:             models.AttackRCE,
					FromNode:         "internet",
					ToNode:           "web-1",
					IsCorrectChoice:  true,
					RequiresScan:     true,
					RequiredScanTool: models.ScanToolZAP,
				},
				{
					ID:               "atk-sqli-web",
					Type:             models.AttackSQLi,
					FromNode:         "internet",
					ToNode:           "web-1",
					RequiresScan:     true,
					RequiredScanTool: models.ScanToolSQLMap,
				},
				{
					ID:       "atk-brute-ad",
					Type:     models.AttackBruteforce,
					FromNode: "internet",
					ToNode:   "ad-1",
				},
				{
					ID:       "atk-phish-endpoint",
					Type:     models.AttackPhishing,
					FromNode: "internet",
					ToNode:   "app-1",
				},
				{
					ID:       "atk-exfil-db",
					Type:     models.AttackExfil,
					FromNode: "db-1",
					ToNode:   "internet",
				},
			},
			RequiredScanTool: models.ScanToolZAP,
			ScanArtifacts: map[string]map[string]string{
				string(models.ScanToolZAP): {
					"vulnerability":  "CVE-2019-11043 (PHP-FPM RCE)",
					"severity":       "Critical",
					"target":         "/plugins/legacy.php",
					"php_version":    "5.6.40",
					"confidence":     "High",
					"recommendation": "Exploit available for this vulnerability",
					"zap":            "PHP 5.6.40 detected on /plugins/legacy.php\nVulnerability: CVE-2019-11043 (PHP-FPM RCE)\nConfidence: High\nPath: /plugins/legacy.php\nMethod: POST",
				},
			},
			MaxTurnsPerSide:      6,
			CorrectPivotStrategy: "pivot-app-server",
			CorrectResponse:      models.ActionIsolateHost,
			RedBriefing: &models.Briefing{
				Text:       "MISSION: Penetrate the NH360 web tier\nTARGET: Web Server (web-1)\nOBJECTIVE: Gain remote code execution\n\nINTEL:\n- WAF in permissive mode\n- No EDR protection on the web tier\n- Legacy PHP plugins still deployed",
				TargetInfo: "Target: web-1 (NH360 Web Server)\nInfrastructure: WAF -> Web Server -> App Server -> Database",
				Objectives: []string{
					"Conduct reconnaissance to identify the attack surface",
					"Choose the most effective attack vector",
					"Establish persistence and maintain access",
				},
			},
			BlueBriefing: &models.Briefing{
				Text:       "ADVISORY: Threat intelligence indicates an imminent intrusion attempt against the NH360 environment. Monitor alerts, identify the attack source and contain compromised hosts.",
				TargetInfo: "Protected assets: web-1, app-1, db-1, ad-1",
				Objectives: []string{
					"Identify the attacker's source IP from alert traffic",
					"Choose the mitigating action that contains the intrusion",
					"Investigate the final outcome of the engagement",
				},
			},
		},
	}
}
