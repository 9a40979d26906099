package alerts

import "github.com/pewpewlabs/pewpew-tabletop/internal/models"

// template is one scripted alert in an attack's alert sequence.
//
// The summary wording is load-bearing: the resolver's success check
// scans these summaries for attack-type keywords. Edit the templates
// and the resolver signatures together.
type template struct {
	Source     string
	Severity   string
	Summary    string
	Details    string
	Confidence float64
	IOC        map[string]any
}

var alertTemplates = map[models.AttackType][]template{
	models.AttackRCE: {
		{
			Source:     "WAF",
			Severity:   "high",
			Summary:    "POST request to /plugins/legacy.php with base64-encoded payload",
			Details:    "Suspicious POST request detected with base64-encoded command injection payload. User-Agent spoofing detected. Request bypassed WAF signature detection.",
			Confidence: 0.8,
			IOC:        map[string]any{"url": "/plugins/legacy.php", "method": "POST", "payload_type": "base64-encoded"},
		},
		{
			Source:     "IDS",
			Severity:   "critical",
			Summary:    "Command execution pattern detected: /bin/sh spawned by PHP-FPM",
			Details:    "Process 'sh' spawned by PHP-FPM with unusual arguments. Command execution pattern matches known RCE exploit (CVE-2019-11043).",
			Confidence: 0.9,
			IOC:        map[string]any{"process": "/bin/sh", "parent": "php-fpm", "cve": "CVE-2019-11043"},
		},
		{
			Source:     "Proxy",
			Severity:   "high",
			Summary:    "Outbound network connection from web-1 to external IP on port 4444",
			Details:    "Suspicious outbound TCP connection from web-1 (10.0.0.10:44323) to external IP 198.51.100.7:4444. Connection established immediately after suspicious POST request. Likely reverse shell.",
			Confidence: 0.85,
			IOC:        map[string]any{"src_ip": "10.0.0.10", "dst_ip": "198.51.100.7", "dst_port": 4444, "protocol": "TCP"},
		},
		{
			Source:     "EDR",
			Severity:   "high",
			Summary:    "File system write detected: /tmp/.backdoor.php created",
			Details:    "New file created in /tmp/ directory with suspicious name pattern. File contains PHP code with base64-encoded payload. Created by www-data user.",
			Confidence: 0.75,
			IOC:        map[string]any{"file": "/tmp/.backdoor.php", "user": "www-data", "file_type": "PHP"},
		},
	},
	models.AttackSQLi: {
		{Source: "WAF", Severity: "medium", Summary: "SQL injection pattern detected", Confidence: 0.9},
		{Source: "DB", Severity: "high", Summary: "Anomalous database query", Confidence: 0.8},
	},
	models.AttackBruteforce: {
		{Source: "IDS", Severity: "medium", Summary: "Multiple failed login attempts", Confidence: 0.9},
		{Source: "WAF", Severity: "low", Summary: "Rate limit threshold approached", Confidence: 0.6},
	},
	models.AttackPhishing: {
		{Source: "Mail GW", Severity: "medium", Summary: "Suspicious email attachment", Confidence: 0.7},
		{Source: "EDR", Severity: "high", Summary: "Macro execution detected", Confidence: 0.8},
	},
	models.AttackLateralMove: {
		{Source: "EDR", Severity: "high", Summary: "Lateral movement via RPC", Confidence: 0.8},
		{Source: "AD", Severity: "critical", Summary: "Privilege escalation detected", Confidence: 0.9},
	},
	models.AttackExfil: {
		{Source: "Proxy", Severity: "high", Summary: "Large data transfer to external IP", Confidence: 0.8},
		{Source: "Cloud", Severity: "medium", Summary: "Unauthorized bucket access", Confidence: 0.7},
	},
}

// delayOffsets are the nominal per-alert delays from launch, in seconds
var delayOffsets = map[models.AttackType][]float64{
	models.AttackRCE:         {0, 2, 5, 10, 15},
	models.AttackSQLi:        {0, 1, 3},
	models.AttackBruteforce:  {0, 2, 5},
	models.AttackPhishing:    {0, 3, 8},
	models.AttackLateralMove: {0, 5, 10},
	models.AttackExfil:       {0, 5, 15},
}

var defaultOffsets = []float64{0, 1, 2}

var (
	noiseSources    = []string{"IDS", "WAF", "Proxy", "EDR"}
	noiseSeverities = []string{"low", "medium"}
)

const noiseSummary = "Benign traffic anomaly"
