package handlers

import "net/http"

// Register mounts all API routes on mux
func (ctx *Context) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/status", ctx.HandleStatus)

	mux.HandleFunc("GET /api/game/state", ctx.HandleGameState)
	mux.HandleFunc("GET /api/game/scenario", ctx.HandleCurrentScenario)
	mux.HandleFunc("POST /api/game/start", ctx.HandleStartGame)
	mux.HandleFunc("POST /api/game/dismiss-briefing", ctx.HandleDismissBriefing)
	mux.HandleFunc("POST /api/game/pause", ctx.HandlePauseGame)
	mux.HandleFunc("POST /api/game/resume", ctx.HandleResumeGame)
	mux.HandleFunc("POST /api/game/stop", ctx.HandleStopGame)
	mux.HandleFunc("POST /api/game/reset", ctx.HandleResetGame)

	mux.HandleFunc("GET /api/score", ctx.HandleScore)
	mux.HandleFunc("GET /api/events", ctx.HandleEvents)

	mux.HandleFunc("GET /api/attacks", ctx.HandleListAttacks)
	mux.HandleFunc("POST /api/attacks/launch", ctx.HandleLaunchAttack)
	mux.HandleFunc("GET /api/actions", ctx.HandleListActions)
	mux.HandleFunc("POST /api/actions", ctx.HandleSubmitAction)
	mux.HandleFunc("POST /api/scans/scan", ctx.HandleRunScan)

	mux.HandleFunc("POST /api/voting/vote", ctx.HandleCastVote)
	mux.HandleFunc("GET /api/voting/status", ctx.HandleVoteStatus)

	mux.HandleFunc("GET /api/scenarios", ctx.HandleListScenarios)
	mux.HandleFunc("GET /api/scenarios/{id}", ctx.HandleGetScenario)
}
