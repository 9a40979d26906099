package models

import "time"

// Alert is a simulated security alert generated for a launched attack
type Alert struct {
	ID         string         `json:"id"`
	Timestamp  time.Time      `json:"timestamp"`
	Source     string         `json:"source"` // IDS, EDR, Proxy, WAF, DB, ...
	Severity   string         `json:"severity"`
	Summary    string         `json:"summary"`
	Details    string         `json:"details"`
	IOC        map[string]any `json:"ioc,omitempty"`
	Confidence float64        `json:"confidence"`
}

// LaunchedAttack records one attack launch within a round. Alerts are
// frozen at launch time. Resolved marks a settled launch: blocked or
// missed at launch, or already scored by a blue response.
type LaunchedAttack struct {
	ID         string    `json:"id"`
	Attack     Attack    `json:"attack"`
	LaunchedAt time.Time `json:"launched_at"`
	Alerts     []Alert   `json:"alerts"`
	Player     string    `json:"player,omitempty"`
	SourceIP   string    `json:"source_ip"`
	Blocked    bool      `json:"blocked"`
	Resolved   bool      `json:"resolved"`
}

// BlueAction is a mitigating action submitted by the blue team
type BlueAction struct {
	ID        string         `json:"id"`
	Type      BlueActionType `json:"type"`
	Target    string         `json:"target"`
	Note      string         `json:"note"`
	Timestamp time.Time      `json:"timestamp"`
	Player    string         `json:"player,omitempty"`
}

// ScanResult is returned to the red team after a reconnaissance scan
type ScanResult struct {
	ScanID    string            `json:"scan_id"`
	Tool      ScanTool          `json:"tool"`
	Target    string            `json:"target_node"`
	Success   bool              `json:"success"`
	Results   map[string]string `json:"results"`
	Message   string            `json:"message"`
	Timestamp time.Time         `json:"timestamp"`
	Player    string            `json:"player,omitempty"`
	Points    int               `json:"points"`
}

// ActionEvaluation is the tiered verdict for one blue action
type ActionEvaluation struct {
	ActionID      string         `json:"action_id"`
	ActionType    BlueActionType `json:"action_type"`
	Target        string         `json:"target"`
	Effectiveness Effectiveness  `json:"effectiveness"`
	Points        int            `json:"points"`
	Reason        string         `json:"reason"`
	Result        string         `json:"result"`
}

// ScoreDeltas are per-side point changes to be added to the running
// score; the caller clamps the cumulative total at zero.
type ScoreDeltas struct {
	Red  int `json:"red"`
	Blue int `json:"blue"`
}

// Outcome is the resolver's verdict for one attack
type Outcome struct {
	Result            string             `json:"result"`
	AttackSucceeded   bool               `json:"attack_succeeded"`
	SuccessIndicators []string           `json:"success_indicators"`
	ScoreDeltas       ScoreDeltas        `json:"score_deltas"`
	ActionEvaluations []ActionEvaluation `json:"action_evaluations"`
	EmittedAlerts     []Alert            `json:"emitted_alerts"`
}

// Score is the cumulative per-side score, never negative
type Score struct {
	Red  int `json:"red"`
	Blue int `json:"blue"`
}

// Apply adds deltas and clamps both totals at zero
func (s *Score) Apply(d ScoreDeltas) {
	s.Red = max(0, s.Red+d.Red)
	s.Blue = max(0, s.Blue+d.Blue)
}
