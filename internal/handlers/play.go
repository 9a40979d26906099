package handlers

import (
	"net/http"

	"github.com/pewpewlabs/pewpew-tabletop/internal/models"
)

// HandleLaunchAttack launches a red team attack
func (ctx *Context) HandleLaunchAttack(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AttackID   string `json:"attack_id"`
		PlayerName string `json:"player_name"`
	}
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid request body"})
		return
	}

	result, err := ctx.Session.LaunchAttack(req.AttackID, req.PlayerName)
	if err != nil {
		ctx.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// HandleSubmitAction records a blue team mitigation
func (ctx *Context) HandleSubmitAction(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Type       models.BlueActionType `json:"type"`
		Target     string                `json:"target"`
		Note       string                `json:"note"`
		PlayerName string                `json:"player_name"`
	}
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid request body"})
		return
	}

	action, err := ctx.Session.SubmitAction(req.Type, req.Target, req.Note, req.PlayerName)
	if err != nil {
		ctx.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "acknowledged",
		"action_id": action.ID,
	})
}

// HandleListAttacks returns this round's attack log
func (ctx *Context) HandleListAttacks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"attacks": ctx.Session.LaunchedAttacks(),
	})
}

// HandleListActions returns this round's blue action log
func (ctx *Context) HandleListActions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"actions": ctx.Session.BlueActions(),
	})
}

// HandleRunScan performs a red team reconnaissance scan
func (ctx *Context) HandleRunScan(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Tool       models.ScanTool `json:"tool"`
		TargetNode string          `json:"target_node"`
		PlayerName string          `json:"player_name"`
	}
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid request body"})
		return
	}

	result, err := ctx.Session.RunScan(req.Tool, req.TargetNode, req.PlayerName)
	if err != nil {
		ctx.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// HandleCastVote records a vote in a team mini-game
func (ctx *Context) HandleCastVote(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MiniGame  string `json:"mini_game"`
		VoterName string `json:"voter_name"`
		Choice    string `json:"choice"`
	}
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid request body"})
		return
	}

	result, err := ctx.Session.CastVote(req.MiniGame, req.VoterName, req.Choice)
	if err != nil {
		ctx.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// HandleVoteStatus returns the current tally for one mini-game
func (ctx *Context) HandleVoteStatus(w http.ResponseWriter, r *http.Request) {
	tally, err := ctx.Session.MiniGameTally(r.URL.Query().Get("mini_game"))
	if err != nil {
		ctx.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tally)
}
