// Package handlers is the thin HTTP layer: decode the request, call
// the session, map sentinel errors to status codes, encode the result.
// No game rules live here.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/pewpewlabs/pewpew-tabletop/internal/catalog"
	"github.com/pewpewlabs/pewpew-tabletop/internal/engine"
	"github.com/pewpewlabs/pewpew-tabletop/internal/ws"
)

// Context carries the shared collaborators into each handler
type Context struct {
	Session *engine.Session
	Catalog *catalog.Catalog
	Hub     *ws.Hub
	Log     zerolog.Logger
}

// HandleStatus reports liveness, connected clients and catalog size
func (ctx *Context) HandleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":            "ok",
		"connected_clients": ctx.Hub.ClientCount(),
		"scenarios":         len(ctx.Catalog.List()),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (ctx *Context) writeError(w http.ResponseWriter, err error) {
	writeJSON(w, errorStatus(err), map[string]string{"detail": err.Error()})
}

// errorStatus maps the engine's sentinel errors to HTTP status codes
func errorStatus(err error) int {
	switch {
	case errors.Is(err, engine.ErrScenarioNotFound),
		errors.Is(err, engine.ErrAttackNotFound),
		errors.Is(err, engine.ErrUnknownMiniGame):
		return http.StatusNotFound
	case errors.Is(err, engine.ErrNotYourTurn):
		return http.StatusForbidden
	case errors.Is(err, engine.ErrGameNotRunning),
		errors.Is(err, engine.ErrGameNotPaused),
		errors.Is(err, engine.ErrNoActiveGame),
		errors.Is(err, engine.ErrTurnActionUsed),
		errors.Is(err, engine.ErrScanRequired):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// decode parses a JSON request body into v
func decode(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
