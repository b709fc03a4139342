// internal/httpserver/routes_settings.go
//
// Routes that outlive a single game:
//   - GET    /setup/last              → players to prefill the next setup
//   - GET    /history                 → finished games, newest first
//   - DELETE /history                 → clear history (admin PIN)
//   - GET    /settings/theme          → court and kitchen colours
//   - PUT    /settings/theme          → save colours
//   - GET    /settings/theme/presets  → built-in colour schemes

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/picklescore/internal/game"
	"github.com/robalobadob/picklescore/internal/history"
	"github.com/robalobadob/picklescore/internal/setup"
	"github.com/robalobadob/picklescore/internal/theme"
)

func (s *Server) mountSettings(timeout func(http.Handler) http.Handler) {
	s.r.Group(func(r chi.Router) {
		r.Use(timeout)
		r.Get("/setup/last", s.handleLastSetup)
		r.Get("/history", s.handleListHistory)
		r.With(s.requireAdminPIN).Delete("/history", s.handleClearHistory)
		r.Get("/settings/theme", s.handleGetTheme)
		r.Put("/settings/theme", s.handlePutTheme)
		r.Get("/settings/theme/presets", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, theme.Presets)
		})
	})
}

type lastSetupRes struct {
	Mode     game.Mode    `json:"mode"`
	Players  game.Players `json:"players"`
	Previous bool         `json:"previous"` // false: defaults, no game played yet
}

func (s *Server) handleLastSetup(w http.ResponseWriter, r *http.Request) {
	players, mode, ok := s.store.LastPlayers(r.Context())
	if !ok {
		mode = game.Doubles
		if m := game.Mode(r.URL.Query().Get("mode")); m.Valid() {
			mode = m
		}
		players = setup.DefaultPlayers(mode)
	}
	writeJSON(w, http.StatusOK, lastSetupRes{Mode: mode, Players: players, Previous: ok})
}

type historyRow struct {
	history.Item
	Team1 string `json:"team1"`
	Team2 string `json:"team2"`
}

func (s *Server) handleListHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeJSON(w, http.StatusOK, []historyRow{})
		return
	}
	items, err := s.history.List(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("list history")
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	out := make([]historyRow, 0, len(items))
	for _, it := range items {
		t1, t2 := it.TeamLabels()
		out = append(out, historyRow{Item: it, Team1: t1, Team2: t2})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	if s.history != nil {
		if err := s.history.Clear(r.Context()); err != nil {
			log.Error().Err(err).Msg("clear history")
			http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
			return
		}
	}
	log.Info().Msg("history cleared")
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleGetTheme(w http.ResponseWriter, r *http.Request) {
	t, err := s.theme.Load(r.Context())
	if err != nil {
		// Still usable: Load falls back to the default colours.
		log.Warn().Err(err).Msg("load theme")
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handlePutTheme(w http.ResponseWriter, r *http.Request) {
	var t theme.Theme
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	err := s.theme.Save(r.Context(), t)
	if errors.Is(err, theme.ErrInvalidColor) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("save theme")
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, t)
}
