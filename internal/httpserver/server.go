// internal/httpserver/server.go
//
// HTTP server wiring for the CiYi backend.
// Responsibilities:
//   - Router + middleware (JSON, timeouts, panic recovery, request IDs,
//     request logging).
//   - Public endpoints: "/", "/health", "/debug/words".
//   - Token endpoint for bot clients: POST /auth/token.
//   - Game endpoints (require auth): mounted under /game.
//
// The server is thin plumbing: every game decision lives in internal/game.
// The surrounding chat bot is the only intended consumer; it authenticates
// with client credentials and passes channel/user identity per request.

package httpserver

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/ciyi-game/go-server/internal/config"
	"github.com/ciyi-game/go-server/internal/daily"
	"github.com/ciyi-game/go-server/internal/game"
	"github.com/ciyi-game/go-server/internal/word"
)

// Server bundles router, engine, and DB handle.
type Server struct {
	r      *chi.Mux
	engine *game.Engine
	db     *sql.DB
	clock  daily.Clock
	cfg    config.Config
}

// New constructs a Server, installs middleware, and registers routes.
func New(engine *game.Engine, db *sql.DB, clock daily.Clock, cfg config.Config) *Server {
	s := &Server{r: chi.NewRouter(), engine: engine, db: db, clock: clock, cfg: cfg}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(15 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(requestLogger)                   // zerolog access log

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"ciyi-go","endpoints":["/health","POST /auth/token","POST /game/guess","GET /game/history","GET /game/leaderboard"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	s.r.Get("/debug/words", func(w http.ResponseWriter, r *http.Request) {
		lex, q := word.Stats()
		_ = json.NewEncoder(w).Encode(map[string]int{"lexicon": lex, "questions": q})
	})

	// Token issuance for bot clients.
	s.r.Post("/auth/token", s.handleToken)

	// Game endpoints — require a valid client token.
	s.r.Route("/game", func(r chi.Router) {
		r.Use(s.requireClient)
		r.Post("/guess", s.handleGuess)
		r.Get("/history", s.handleHistory)
		r.Get("/leaderboard", s.handleLeaderboard)
		r.Get("/direct-guess", s.handleDirectGuess)
		r.Post("/direct-guess/toggle", s.handleToggleDirectGuess)
	})

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not_found","path":"`+r.URL.Path+`"}`, http.StatusNotFound)
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// todayKey computes the canonical date key from the injected clock.
func (s *Server) todayKey() string {
	return daily.DateKey(s.clock.Now(), s.cfg.TZOffsetHours)
}

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// requestLogger emits one zerolog line per request.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Str("reqId", chimw.GetReqID(r.Context())).
			Msg("request")
	})
}
