package models

// Node is a host or network element in the scenario topology
type Node struct {
	ID    string `json:"id"`
	Type  string `json:"type"`
	Label string `json:"label"`
}

// Link connects two topology nodes
type Link struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Topology is the fixed network map for a scenario
type Topology struct {
	Nodes []Node `json:"nodes"`
	Links []Link `json:"links"`
}

// Attack is a static exploit option defined by the scenario catalog.
// Exactly one attack per scenario should carry IsCorrectChoice; the
// engine trusts catalog authors to maintain that.
type Attack struct {
	ID               string     `json:"id"`
	Type             AttackType `json:"attack_type"`
	FromNode         string     `json:"from"`
	ToNode           string     `json:"to"`
	IsCorrectChoice  bool       `json:"is_correct_choice"`
	RequiresScan     bool       `json:"requires_scan"`
	RequiredScanTool ScanTool   `json:"required_scan_tool,omitempty"`
}

// Briefing is shown to one side when a round starts
type Briefing struct {
	Text       string   `json:"text"`
	TargetInfo string   `json:"target_info,omitempty"`
	Objectives []string `json:"objectives,omitempty"`
}

// Scenario is a static content bundle: topology, attack catalog and
// scan artifacts for one exercise. Read-only to the engine.
type Scenario struct {
	ID               string                       `json:"id"`
	Name             string                       `json:"name"`
	Description      string                       `json:"description"`
	Topology         Topology                     `json:"topology"`
	Attacks          []Attack                     `json:"attacks"`
	RequiredScanTool ScanTool                     `json:"required_scan_tool,omitempty"`
	ScanArtifacts    map[string]map[string]string `json:"scan_artifacts,omitempty"`
	MaxTurnsPerSide  int                          `json:"max_turns_per_side,omitempty"` // 0 means unlimited
	RedBriefing      *Briefing                    `json:"red_briefing,omitempty"`
	BlueBriefing     *Briefing                    `json:"blue_briefing,omitempty"`

	// Precomputed correct answers for the vote mini-games.
	CorrectPivotStrategy string         `json:"correct_pivot_strategy,omitempty"`
	CorrectResponse      BlueActionType `json:"correct_response,omitempty"`
}

// CorrectAttack returns the scenario's intended exploit, if any
func (s Scenario) CorrectAttack() (Attack, bool) {
	for _, a := range s.Attacks {
		if a.IsCorrectChoice {
			return a, true
		}
	}
	return Attack{}, false
}

// FindAttack looks up an attack option by id
func (s Scenario) FindAttack(id string) (Attack, bool) {
	for _, a := range s.Attacks {
		if a.ID == id {
			return a, true
		}
	}
	return Attack{}, false
}
