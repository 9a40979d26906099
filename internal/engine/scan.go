package engine

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/pewpewlabs/pewpew-tabletop/internal/models"
)

// RunScan performs a reconnaissance scan for the red team. Scans are
// not turn-bound: any number may run at any point of a running round.
// Choosing the scenario's required tool reveals the vulnerability and
// earns points; a wrong tool that is still tied to some attack costs
// a point; purely informational scans are free.
func (s *Session) RunScan(tool models.ScanTool, targetNode, player string) (models.ScanResult, error) {
	s.mu.Lock()

	if s.state.Status != models.StatusRunning {
		s.mu.Unlock()
		return models.ScanResult{}, ErrGameNotRunning
	}
	if s.state.ScenarioID == "" {
		s.mu.Unlock()
		return models.ScanResult{}, ErrNoActiveGame
	}

	correct := s.scenario.RequiredScanTool != "" && tool == s.scenario.RequiredScanTool
	linked := false
	for _, a := range s.scenario.Attacks {
		if a.RequiresScan && a.RequiredScanTool == tool {
			linked = true
			break
		}
	}

	points := 0
	switch {
	case correct:
		points = 2
	case linked:
		points = -1
	}

	s.state.RedScanCompleted = true
	s.state.RedScanTool = tool
	s.state.RedScanSuccess = correct

	// Each scan leaves a decoy source address in the pool the blue
	// team later has to tell apart from the real attack source.
	decoy := s.randomExternalIP()
	s.state.ScanIPs = append(s.state.ScanIPs, decoy)

	result := models.ScanResult{
		ScanID:    uuid.NewString(),
		Tool:      tool,
		Target:    targetNode,
		Success:   correct,
		Results:   scanResults(tool, s.scenario, correct),
		Message:   scanMessage(tool, s.scenario, correct),
		Timestamp: s.now(),
		Player:    player,
		Points:    points,
	}

	s.log.Info().
		Str("tool", string(tool)).
		Str("target", targetNode).
		Bool("success", correct).
		Int("points", points).
		Msg("scan completed")

	var events []outbound
	if points != 0 {
		events = append(events, s.applyScore(models.ScoreDeltas{Red: points}))
	}
	events = append(events, outbound{ev: s.newEvent(models.EventScanCompleted, map[string]any{
		"scan_id":     result.ScanID,
		"tool":        string(tool),
		"target_node": targetNode,
		"success":     correct,
		"scenario_id": s.state.ScenarioID,
		"points":      points,
	})})

	s.mu.Unlock()
	s.send(events)
	return result, nil
}

// scanResults returns the artifact set a tool reveals. Scenarios can
// override per-tool artifacts; otherwise the built-in tables apply.
func scanResults(tool models.ScanTool, scenario models.Scenario, correct bool) map[string]string {
	if artifacts, ok := scenario.ScanArtifacts[string(tool)]; ok {
		return artifacts
	}

	switch tool {
	case models.ScanToolZAP:
		if correct {
			return map[string]string{
				"vulnerability":  "CVE-2019-11043 (PHP-FPM RCE)",
				"severity":       "Critical",
				"target":         "/plugins/legacy.php",
				"php_version":    "5.6.40",
				"confidence":     "High",
				"recommendation": "Exploit available for this vulnerability",
				"zap":            "PHP 5.6.40 detected on /plugins/legacy.php\nVulnerability: CVE-2019-11043 (PHP-FPM RCE)\nConfidence: High\nPath: /plugins/legacy.php\nMethod: POST",
			}
		}
		return map[string]string{
			"status": "Scan complete",
			"note":   "No critical vulnerabilities detected in this scan.",
		}

	case models.ScanToolNmap:
		if correct {
			return map[string]string{
				"ports":             "80/tcp open http, 443/tcp open https, 22/tcp filtered ssh, 8080/tcp open http-proxy",
				"service_detection": "Apache/2.4.41, Proxy service on 8080",
				"vulnerability":     "Exposed proxy service on non-standard port",
				"severity":          "Medium",
				"target":            "web-1:8080",
				"confidence":        "High",
				"recommendation":    "Proxy service may allow unauthorized access",
				"nmap":              "PORT     STATE SERVICE\n80/tcp   open  http\n443/tcp  open  https\n22/tcp   filtered ssh\n8080/tcp open  http-proxy\n\nService: Apache/2.4.41\nProxy detected on port 8080",
			}
		}
		return map[string]string{
			"ports":             "80/tcp open http, 443/tcp open https, 22/tcp filtered ssh",
			"service_detection": "Apache/2.4.41",
			"vulnerability":     "None identified",
			"note":              "Network scan complete. No application-level vulnerabilities detected.",
			"nmap":              "PORT     STATE SERVICE\n80/tcp   open  http\n443/tcp  open  https\n22/tcp   filtered ssh",
		}

	case models.ScanToolSQLMap:
		if correct {
			return map[string]string{
				"target":         "/api/user.php?id=1",
				"sql_injection":  "Detected",
				"vulnerability":  "SQL Injection in id parameter",
				"severity":       "High",
				"database":       "MySQL 5.7",
				"confidence":     "High",
				"recommendation": "SQL injection exploit available for this endpoint",
				"sqlmap":         "Parameter: id (GET)\nType: boolean-based blind\nTitle: AND boolean-based blind - WHERE or HAVING clause\nPayload: id=1 AND 1234=1234",
			}
		}
		return map[string]string{
			"target":        "/plugins/legacy.php",
			"sql_injection": "Not detected",
			"note":          "SQL injection scan complete. This endpoint does not appear vulnerable to SQL injection.",
			"status":        "No SQL injection vulnerabilities found",
		}

	case models.ScanToolNikto:
		if correct {
			return map[string]string{
				"server":         "Apache/2.4.41",
				"vulnerability":  "CVE-2021-41773 (Path Traversal)",
				"severity":       "High",
				"target":         "/cgi-bin/",
				"issues":         "Path traversal vulnerability in Apache mod_cgi",
				"confidence":     "High",
				"recommendation": "Exploit available for path traversal vulnerability",
				"nikto":          "Apache/2.4.41 detected\nCVE-2021-41773: Path Traversal in mod_cgi\nTarget: /cgi-bin/\nConfidence: High",
			}
		}
		return map[string]string{
			"server":        "Apache/2.4.41",
			"issues":        "Outdated server headers detected",
			"vulnerability": "No critical vulnerabilities found",
			"note":          "Web server scan complete. Some minor issues detected, but no exploitable vulnerabilities identified.",
			"status":        "Scan complete - minor issues only",
		}

	case models.ScanToolHaveIBeenPwnd:
		if correct {
			return map[string]string{
				"breach_data":    "Multiple corporate email addresses found in data breaches",
				"severity":       "Medium",
				"target":         "Corporate email domain",
				"breaches":       "LinkedIn (2012), Adobe (2013), Dropbox (2012), Yahoo (2013-2014)",
				"confidence":     "High",
				"recommendation": "Corporate email addresses exposed in historical breaches. Credentials may be reused or compromised.",
				"haveibeenpwned": "Domain: example.com\nBreaches found: 4\nTotal accounts exposed: 1,247\n\nRisk: High probability of credential reuse. Phishing campaigns targeting exposed accounts likely to succeed.",
			}
		}
		return map[string]string{
			"breach_data":    "No significant breaches found",
			"severity":       "None",
			"target":         "Corporate email domain",
			"breaches":       "None",
			"confidence":     "High",
			"recommendation": "No major data breaches found for this domain. Focus on other attack vectors.",
			"haveibeenpwned": "Domain: example.com\nBreaches found: 0\nTotal accounts exposed: 0",
		}
	}

	return map[string]string{"status": "Scan complete", "note": "No significant findings."}
}

// scanMessage is the one-line summary shown to the scanning player
func scanMessage(tool models.ScanTool, scenario models.Scenario, correct bool) string {
	if correct {
		if artifacts, ok := scenario.ScanArtifacts[string(tool)]; ok {
			if tool == models.ScanToolHaveIBeenPwnd {
				if breach, ok := artifacts["breach_data"]; ok {
					return fmt.Sprintf("Breach data identified! %s.", breach)
				}
			} else if vuln, ok := artifacts["vulnerability"]; ok {
				return fmt.Sprintf("Vulnerability identified! %s detected.", vuln)
			}
		}
		switch tool {
		case models.ScanToolZAP:
			return "Vulnerability identified! Critical web application vulnerability detected."
		case models.ScanToolNmap:
			return "Vulnerability identified! Network vulnerability detected."
		case models.ScanToolSQLMap:
			return "Vulnerability identified! SQL Injection detected."
		case models.ScanToolNikto:
			return "Vulnerability identified! Web server vulnerability detected."
		case models.ScanToolHaveIBeenPwnd:
			return "Breach data identified! Corporate email addresses found in data breaches."
		}
		return fmt.Sprintf("%s scan complete. Critical vulnerability identified!", tool)
	}

	switch tool {
	case models.ScanToolNmap:
		return "Network scan complete. Open ports identified, but no application-level vulnerabilities detected."
	case models.ScanToolSQLMap:
		return "SQL injection scan complete. No SQL injection vulnerabilities detected on this endpoint."
	case models.ScanToolNikto:
		return "Web server scan complete. Some minor issues detected, but no critical vulnerabilities found."
	}
	return fmt.Sprintf("%s scan complete. No critical vulnerabilities identified.", tool)
}
