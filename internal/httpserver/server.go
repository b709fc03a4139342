// internal/httpserver/server.go
//
// HTTP server wiring for the PickleScore backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs,
//     access log).
//   - Public endpoints: "/", "/health".
//   - Game endpoints: create, read, rally, undo, announce, reset, SSE stream.
//   - Settings endpoints: last-used players, history, theme colours.
//
// Notes:
//   - Creating a game returns a scorekeeper token; only its holder may change
//     that game (rallies, undo, serve calls, reset). Anyone may read it or
//     watch its event stream.
//   - The event stream is mounted outside the request timeout.

package httpserver

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/picklescore/internal/config"
	"github.com/robalobadob/picklescore/internal/history"
	"github.com/robalobadob/picklescore/internal/schedule"
	"github.com/robalobadob/picklescore/internal/store"
	"github.com/robalobadob/picklescore/internal/theme"
)

// Deps are the collaborators a Server needs.
type Deps struct {
	Store   store.Store
	History *history.Store
	Theme   *theme.Store
	Config  config.Config
	// Scheduler drives game timers; nil means wall-clock time.
	Scheduler schedule.Scheduler
}

// Server bundles router, session registry, and persistent stores.
type Server struct {
	r       *chi.Mux
	store   store.Store
	history *history.Store
	theme   *theme.Store
	cfg     config.Config
	sched   schedule.Scheduler
	now     func() time.Time
}

// New constructs a Server, installs middleware, and registers routes.
func New(d Deps) *Server {
	s := &Server{
		r:       chi.NewRouter(),
		store:   d.Store,
		history: d.History,
		theme:   d.Theme,
		cfg:     d.Config,
		sched:   d.Scheduler,
		now:     time.Now,
	}
	if s.sched == nil {
		s.sched = schedule.Real{}
	}
	timeout := s.cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)             // add X-Request-ID
	s.r.Use(chimw.RealIP)                // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(accessLog)                   // one line per request
	s.r.Use(chimw.Recoverer)             // recover from panics
	s.r.Use(jsonContentType)             // default JSON responses
	s.r.Use(corsFor(s.cfg.ClientOrigin)) // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"picklescore","endpoints":["/health","POST /games","/games/{id}","/history","/settings/theme"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	s.mountGames(chimw.Timeout(timeout))
	s.mountSettings(chimw.Timeout(timeout))

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found")
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// corsFor enables credentialed CORS for a single origin.
func corsFor(origin string) func(http.Handler) http.Handler {
	if origin == "" {
		origin = "http://localhost:5173"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Admin-Pin")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// accessLog writes one zerolog line per request.
func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		log.Info().
			Str("reqId", chimw.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("took", time.Since(start)).
			Msg("http")
	})
}

// ------------------------------- small util --------------------------------

// writeError writes {"error": msg} with status code.
func writeError(w http.ResponseWriter, code int, msg string) {
	raw, _ := json.Marshal(map[string]string{"error": msg})
	http.Error(w, string(raw), code)
}

// writeJSON encodes v as the response body.
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}
