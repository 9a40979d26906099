package handlers

import (
	"net/http"
)

// HandleListScenarios returns all scenarios in the catalog
func (ctx *Context) HandleListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"scenarios": ctx.Catalog.List(),
	})
}

// HandleGetScenario returns one scenario by id
func (ctx *Context) HandleGetScenario(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	scenario, ok := ctx.Catalog.Lookup(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "scenario not found: " + id})
		return
	}
	writeJSON(w, http.StatusOK, scenario)
}
