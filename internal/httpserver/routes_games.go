// internal/httpserver/routes_games.go
//
// HTTP routes for live games:
//   - POST   /games                → validate settings, start a game, issue a token
//   - GET    /games/{id}           → current state
//   - POST   /games/{id}/point     → rally won by {team} (scorekeeper)
//   - POST   /games/{id}/undo      → revert the last rally (scorekeeper)
//   - POST   /games/{id}/announce  → call score, server and side (scorekeeper)
//   - DELETE /games/{id}           → reset: stop timers, drop game (scorekeeper)
//   - GET    /games/{id}/events    → server-sent events
//
// Rallies that arrive while a side-out or win is pending are absorbed by the
// game and reported as outcome "ignored" with status 200.

package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/picklescore/internal/game"
	"github.com/robalobadob/picklescore/internal/session"
	"github.com/robalobadob/picklescore/internal/setup"
	"github.com/robalobadob/picklescore/internal/sse"
	"github.com/robalobadob/picklescore/internal/store"
)

// keepAlive is how often an idle event stream gets a comment line.
const keepAlive = 15 * time.Second

// mountGames registers the /games routes. Everything but the event stream
// runs under the request timeout.
func (s *Server) mountGames(timeout func(http.Handler) http.Handler) {
	s.r.Route("/games", func(r chi.Router) {
		r.Get("/{id}/events", s.handleEvents)
		r.Group(func(r chi.Router) {
			r.Use(timeout)
			r.Post("/", s.handleNewGame)
			r.Get("/{id}", s.handleGetGame)
			r.With(s.requireScorekeeper).Post("/{id}/announce", s.handleAnnounce)
			r.With(s.requireScorekeeper).Post("/{id}/point", s.handlePoint)
			r.With(s.requireScorekeeper).Post("/{id}/undo", s.handleUndo)
			r.With(s.requireScorekeeper).Delete("/{id}", s.handleDeleteGame)
		})
	})
}

type newGameRes struct {
	GameID    string    `json:"gameId"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	State     game.View `json:"state"`
}

// handleNewGame validates settings and starts a session.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req game.Settings
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	settings, err := setup.Validate(req)
	var verr *setup.ValidationError
	if errors.As(err, &verr) {
		writeError(w, http.StatusBadRequest, verr.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_settings")
		return
	}

	opts := session.Options{
		Scheduler:           s.sched,
		SideOutDelay:        s.cfg.SideOutDelay,
		WinRevealDelay:      s.cfg.WinRevealDelay,
		WinnerAnnounceDelay: s.cfg.WinnerAnnounceDelay,
		Now:                 func() time.Time { return s.now() },
	}
	if s.history != nil {
		opts.Recorder = s.history
	}
	sess := session.New(uuid.NewString(), settings, opts)
	if err := s.store.Save(r.Context(), sess); err != nil {
		sess.Close()
		log.Error().Err(err).Msg("save game")
		http.Error(w, `{"error":"save_failed"}`, http.StatusInternalServerError)
		return
	}

	token, exp, err := s.signScorekeeper(sess.ID)
	if err != nil {
		log.Error().Err(err).Str("gameId", sess.ID).Msg("sign token")
		http.Error(w, `{"error":"sign_failed"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, newGameRes{GameID: sess.ID, Token: token, ExpiresAt: exp, State: sess.View()})
}

// loadSession looks up the game in the URL, writing 404 when it is unknown.
func (s *Server) loadSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return nil, false
	}
	if err != nil {
		log.Error().Err(err).Msg("load game")
		http.Error(w, `{"error":"load_failed"}`, http.StatusInternalServerError)
		return nil, false
	}
	return sess, true
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"gameId": sess.ID, "state": sess.View()})
}

type pointReq struct {
	Team game.Team `json:"team"`
}

type pointRes struct {
	Outcome game.Outcome `json:"outcome"`
	State   game.View    `json:"state"`
}

func (s *Server) handlePoint(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadSession(w, r)
	if !ok {
		return
	}
	var req pointReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	out, view, err := sess.PointWonBy(req.Team)
	if errors.Is(err, game.ErrInvalidTeam) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid team %d", req.Team))
		return
	}
	writeJSON(w, http.StatusOK, pointRes{Outcome: out, State: view})
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadSession(w, r)
	if !ok {
		return
	}
	undone, view := sess.Undo()
	writeJSON(w, http.StatusOK, map[string]any{"undone": undone, "state": view})
}

func (s *Server) handleAnnounce(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadSession(w, r)
	if !ok {
		return
	}
	a, ok := sess.AnnounceServe()
	if !ok {
		http.Error(w, `{"error":"game_over"}`, http.StatusConflict)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"text": a.Text})
}

func (s *Server) handleDeleteGame(w http.ResponseWriter, r *http.Request) {
	err := s.store.Delete(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("delete game")
		http.Error(w, `{"error":"delete_failed"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// handleEvents streams the game's announcements and state until the client
// leaves or the game is reset.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadSession(w, r)
	if !ok {
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, `{"error":"streaming_unsupported"}`, http.StatusInternalServerError)
		return
	}

	ch, cancel := sess.Subscribe()
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable buffering in nginx/proxies
	w.WriteHeader(http.StatusOK)

	// Current state first so a new watcher can draw straight away.
	if raw, err := json.Marshal(sess.View()); err == nil {
		_ = sse.Message{Event: "state", Data: string(raw)}.Write(w)
	}
	flusher.Flush()

	ticker := time.NewTicker(keepAlive)
	defer ticker.Stop()
	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			if _, err := w.Write([]byte(": ping\n\n")); err != nil {
				return
			}
			flusher.Flush()
		case m, open := <-ch:
			if !open {
				return
			}
			if err := m.Write(w); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
