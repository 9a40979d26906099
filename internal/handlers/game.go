package handlers

import (
	"net/http"

	"github.com/pewpewlabs/pewpew-tabletop/internal/models"
)

// HandleGameState returns the current game state with a live timer
func (ctx *Context) HandleGameState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ctx.Session.State())
}

// HandleScore returns the cumulative score
func (ctx *Context) HandleScore(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ctx.Session.Score())
}

// HandleStartGame starts a new round with the requested scenario
func (ctx *Context) HandleStartGame(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ScenarioID string `json:"scenario_id"`
	}
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid request body"})
		return
	}

	state, err := ctx.Session.Start(req.ScenarioID)
	if err != nil {
		ctx.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// HandleDismissBriefing starts the round clocks after the red team
// has read its briefing
func (ctx *Context) HandleDismissBriefing(w http.ResponseWriter, r *http.Request) {
	state, err := ctx.Session.DismissBriefing()
	if err != nil {
		ctx.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// HandlePauseGame pauses play
func (ctx *Context) HandlePauseGame(w http.ResponseWriter, r *http.Request) {
	ctx.lifecycle(w, ctx.Session.Pause)
}

// HandleResumeGame resumes a paused round
func (ctx *Context) HandleResumeGame(w http.ResponseWriter, r *http.Request) {
	ctx.lifecycle(w, ctx.Session.Resume)
}

// HandleStopGame ends the current round
func (ctx *Context) HandleStopGame(w http.ResponseWriter, r *http.Request) {
	ctx.lifecycle(w, ctx.Session.Stop)
}

// HandleResetGame returns the session to the lobby
func (ctx *Context) HandleResetGame(w http.ResponseWriter, r *http.Request) {
	ctx.lifecycle(w, ctx.Session.Reset)
}

func (ctx *Context) lifecycle(w http.ResponseWriter, op func() (models.GameState, error)) {
	state, err := op()
	if err != nil {
		ctx.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// HandleCurrentScenario returns the scenario of the active round
func (ctx *Context) HandleCurrentScenario(w http.ResponseWriter, r *http.Request) {
	scenario, ok := ctx.Session.Scenario()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "no active game"})
		return
	}
	writeJSON(w, http.StatusOK, scenario)
}

// HandleEvents returns the recent event history, oldest first
func (ctx *Context) HandleEvents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"events": ctx.Session.Events(0),
	})
}
