package main

import (
	"net/http"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/pewpewlabs/pewpew-tabletop/internal/catalog"
	"github.com/pewpewlabs/pewpew-tabletop/internal/engine"
	"github.com/pewpewlabs/pewpew-tabletop/internal/handlers"
	"github.com/pewpewlabs/pewpew-tabletop/internal/models"
	"github.com/pewpewlabs/pewpew-tabletop/internal/ws"
)

func main() {
	godotenv.Load()

	level := zerolog.InfoLevel
	if os.Getenv("DEBUG") != "" {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()

	cat := catalog.Default()
	if path := os.Getenv("SCENARIO_FILE"); path != "" {
		if err := cat.LoadFile(path); err != nil {
			log.Fatal().Err(err).Str("path", path).Msg("loading scenario file")
		}
		log.Info().Str("path", path).Msg("loaded scenario file")
	}

	hub := ws.NewHub(log)
	session := engine.NewSession(engine.Config{
		Catalog:        cat,
		Publisher:      hub,
		Logger:         log,
		TurnTimeLimit:  envInt("TURN_TIME_LIMIT", 0),
		RoundTimeLimit: envInt("ROUND_TIME_LIMIT", 0),
	})

	ctx := &handlers.Context{Session: session, Catalog: cat, Hub: hub, Log: log}

	mux := http.NewServeMux()
	ctx.Register(mux)
	mux.HandleFunc("GET /ws", ws.Handler(hub, func() []models.Event {
		return session.Events(0)
	}))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}

	log.Info().Str("port", port).Int("scenarios", len(cat.List())).Msg("server starting")
	if err := http.ListenAndServe(":"+port, mux); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
