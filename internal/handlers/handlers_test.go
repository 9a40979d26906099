package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/pewpewlabs/pewpew-tabletop/internal/catalog"
	"github.com/pewpewlabs/pewpew-tabletop/internal/engine"
	"github.com/pewpewlabs/pewpew-tabletop/internal/models"
	"github.com/pewpewlabs/pewpew-tabletop/internal/ws"
)

func newTestMux(t *testing.T) (*Context, *http.ServeMux) {
	t.Helper()
	cat := catalog.New()
	cat.Put(models.Scenario{
		ID:   "scn-api",
		Name: "API Exercise",
		Attacks: []models.Attack{
			{ID: "atk-1", Type: models.AttackSQLi, FromNode: "internet", ToNode: "db-1", IsCorrectChoice: true},
		},
	})

	session := engine.NewSession(engine.Config{
		Catalog: cat,
		Logger:  zerolog.Nop(),
	})
	t.Cleanup(func() { session.Reset() })

	ctx := &Context{
		Session: session,
		Catalog: cat,
		Hub:     ws.NewHub(zerolog.Nop()),
		Log:     zerolog.Nop(),
	}
	mux := http.NewServeMux()
	ctx.Register(mux)
	return ctx, mux
}

func get(t *testing.T, mux *http.ServeMux, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHandleStatus(t *testing.T) {
	_, mux := newTestMux(t)

	rec := get(t, mux, "/api/status")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Status    string `json:"status"`
		Clients   int    `json:"connected_clients"`
		Scenarios int    `json:"scenarios"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "ok", body.Status)
	require.Zero(t, body.Clients)
	require.Equal(t, 1, body.Scenarios)
}

func TestHandleCurrentScenario(t *testing.T) {
	ctx, mux := newTestMux(t)

	rec := get(t, mux, "/api/game/scenario")
	require.Equal(t, http.StatusNotFound, rec.Code, "no scenario before a round starts")

	_, err := ctx.Session.Start("scn-api")
	require.NoError(t, err)

	rec = get(t, mux, "/api/game/scenario")
	require.Equal(t, http.StatusOK, rec.Code)

	var scenario models.Scenario
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &scenario))
	require.Equal(t, "scn-api", scenario.ID)
}

func TestHandleRoundLogs(t *testing.T) {
	ctx, mux := newTestMux(t)
	_, err := ctx.Session.Start("scn-api")
	require.NoError(t, err)

	rec := get(t, mux, "/api/attacks")
	require.Equal(t, http.StatusOK, rec.Code)
	var attacks struct {
		Attacks []models.LaunchedAttack `json:"attacks"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &attacks))
	require.Empty(t, attacks.Attacks)

	_, err = ctx.Session.LaunchAttack("atk-1", "mallory")
	require.NoError(t, err)
	_, err = ctx.Session.SubmitAction(models.ActionUpdateWAF, "db-1", "", "trent")
	require.NoError(t, err)

	rec = get(t, mux, "/api/attacks")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &attacks))
	require.Len(t, attacks.Attacks, 1)

	rec = get(t, mux, "/api/actions")
	require.Equal(t, http.StatusOK, rec.Code)
	var actions struct {
		Actions []models.BlueAction `json:"actions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &actions))
	require.Len(t, actions.Actions, 1)
	require.Equal(t, models.ActionUpdateWAF, actions.Actions[0].Type)
}
