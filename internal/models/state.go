package models

import "time"

// GameState holds all per-round mutable state of one session. Every
// field is reinitialized on game start; nothing is inherited from a
// prior round.
type GameState struct {
	Status     GameStatus `json:"status"`
	Round      int        `json:"round"`
	ScenarioID string     `json:"current_scenario_id,omitempty"`

	Timer     int       `json:"timer"` // elapsed seconds, driven by the timer loop
	StartTime time.Time `json:"start_time,omitzero"`

	CurrentTurn   Side      `json:"current_turn,omitempty"`
	TurnStartTime time.Time `json:"turn_start_time,omitzero"`
	TurnTimeLimit int       `json:"turn_time_limit"` // seconds

	RedTurnCount    int `json:"red_turn_count"`
	BlueTurnCount   int `json:"blue_turn_count"`
	MaxTurnsPerSide int `json:"max_turns_per_side,omitempty"` // 0 means unlimited

	// Per-turn single-action guards
	RedAttackThisTurn  bool `json:"red_attack_this_turn"`
	BlueActionThisTurn bool `json:"blue_action_this_turn"`

	// Scan bookkeeping
	RedScanCompleted bool     `json:"red_scan_completed"`
	RedScanTool      ScanTool `json:"red_scan_tool,omitempty"`
	RedScanSuccess   bool     `json:"red_scan_success"`

	// The round clocks stay unset until the red briefing is dismissed
	BriefingDismissed bool `json:"red_briefing_dismissed"`

	// IP pools for the identification side games
	BlockedIPs []string `json:"blocked_ips"`
	ScanIPs    []string `json:"scan_ips"`
}

// NewGameState returns a fully initialized lobby-state GameState
func NewGameState() GameState {
	return GameState{
		Status:        StatusLobby,
		CurrentTurn:   SideNone,
		TurnTimeLimit: DefaultTurnTimeLimit,
		BlockedIPs:    []string{},
		ScanIPs:       []string{},
	}
}

// Default time limits, in seconds
const (
	DefaultTurnTimeLimit  = 300
	DefaultRoundTimeLimit = 1800
)

// IPBlocked reports whether ip is in the blocked pool
func (g *GameState) IPBlocked(ip string) bool {
	for _, b := range g.BlockedIPs {
		if b == ip {
			return true
		}
	}
	return false
}

// IPScanned reports whether ip was already used as a scan source
func (g *GameState) IPScanned(ip string) bool {
	for _, s := range g.ScanIPs {
		if s == ip {
			return true
		}
	}
	return false
}
