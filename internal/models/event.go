package models

import "time"

// EventKind tags outbound events with a stable kind
type EventKind string

const (
	EventRoundStarted   EventKind = "round_started"
	EventRoundEnded     EventKind = "round_ended"
	EventAttackLaunched EventKind = "attack_launched"
	EventAttackResolved EventKind = "attack_resolved"
	EventAlertEmitted   EventKind = "alert_emitted"
	EventActionTaken    EventKind = "action_taken"
	EventScoreUpdate    EventKind = "score_update"
	EventTimerUpdate    EventKind = "timer_update"
	EventTurnChanged    EventKind = "turn_changed"
	EventTurnTimeout    EventKind = "turn_timeout"
	EventScanCompleted  EventKind = "scan_completed"
	EventVoteUpdate     EventKind = "vote_update"
	EventVoteResult     EventKind = "vote_result"
)

// Event is the envelope handed to the broadcast collaborator. Every
// externally observable state mutation is accompanied by exactly one
// corresponding event.
type Event struct {
	ID      string         `json:"id"`
	Kind    EventKind      `json:"kind"`
	TS      time.Time      `json:"ts"`
	Payload map[string]any `json:"payload"`
}
