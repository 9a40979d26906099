package models

// GameStatus represents the lifecycle state of a game round
type GameStatus string

const (
	StatusLobby    GameStatus = "lobby"
	StatusRunning  GameStatus = "running"
	StatusPaused   GameStatus = "paused"
	StatusFinished GameStatus = "finished"
)

// Side identifies one of the two competing teams
type Side string

const (
	SideRed  Side = "red"
	SideBlue Side = "blue"
	SideNone Side = ""
)

// Opponent returns the other side
func (s Side) Opponent() Side {
	switch s {
	case SideRed:
		return SideBlue
	case SideBlue:
		return SideRed
	default:
		return SideNone
	}
}

// AttackType classifies attacks in the catalog
type AttackType string

const (
	AttackRCE         AttackType = "RCE"
	AttackSQLi        AttackType = "SQLi"
	AttackBruteforce  AttackType = "Bruteforce"
	AttackPhishing    AttackType = "Phishing"
	AttackLateralMove AttackType = "LateralMove"
	AttackExfil       AttackType = "Exfil"
)

// ScanTool is a reconnaissance tool the red team can run
type ScanTool string

const (
	ScanToolZAP           ScanTool = "OWASP ZAP"
	ScanToolNmap          ScanTool = "Nmap"
	ScanToolSQLMap        ScanTool = "SQLMap"
	ScanToolNikto         ScanTool = "Nikto"
	ScanToolHaveIBeenPwnd ScanTool = "HaveIBeenPwned"
)

// BlueActionType is a mitigating action the blue team can take
type BlueActionType string

const (
	ActionIsolateHost    BlueActionType = "isolate_host"
	ActionBlockIP        BlueActionType = "block_ip"
	ActionBlockDomain    BlueActionType = "block_domain"
	ActionUpdateWAF      BlueActionType = "update_waf"
	ActionDisableAccount BlueActionType = "disable_account"
	ActionResetPassword  BlueActionType = "reset_password"
	ActionOpenTicket     BlueActionType = "open_ticket"
)

// Effectiveness is the tier assigned to a blue action against an attack
type Effectiveness string

const (
	EffectOptimal     Effectiveness = "optimal"
	EffectEffective   Effectiveness = "effective"
	EffectPartial     Effectiveness = "partial"
	EffectIneffective Effectiveness = "ineffective"
	EffectWrongTarget Effectiveness = "wrong_target"
)

// Result classifications for a resolved attack
const (
	ResultHit                    = "hit"
	ResultMiss                   = "miss"
	ResultBlocked                = "blocked"
	ResultPending                = "pending"
	ResultSuccessfulBlock        = "successful_block"
	ResultSuccessfulMitigation   = "successful_mitigation"
	ResultUnsuccessfulBlock      = "unsuccessful_block"
	ResultUnsuccessfulMitigation = "unsuccessful_mitigation"
)
