// internal/httpserver/routes_game.go
//
// HTTP routes for the guessing game.
// Endpoints under /game (all require a client token):
//   - POST /game/guess                → submit one guess for a channel
//   - GET  /game/history              → recent guesses for today (or a date)
//   - GET  /game/leaderboard          → channel or global standings
//   - GET  /game/direct-guess         → whether bare words count as guesses
//   - POST /game/direct-guess/toggle  → flip the channel's direct-guess flag
//
// Date keys default to "today" per the injected clock; history accepts an
// explicit ?date= for auditing past days.

package httpserver

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/ciyi-game/go-server/internal/game"
	"github.com/ciyi-game/go-server/internal/hint"
	"github.com/ciyi-game/go-server/internal/leaderboard"
)

// guessReq/guessRes payloads for POST /game/guess.
type guessReq struct {
	ChannelID string `json:"channelId"`
	UserID    string `json:"userId"`
	Username  string `json:"username"`
	Word      string `json:"word"`
}

// handleGuess runs one guess through the engine. Every user-visible
// condition arrives as an Outcome kind; only storage failures become 500s.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	if req.ChannelID == "" || req.UserID == "" {
		http.Error(w, `{"error":"missing_channel_or_user"}`, http.StatusBadRequest)
		return
	}
	if req.Username == "" {
		req.Username = req.UserID
	}

	outcome, err := s.engine.SubmitGuess(r.Context(), req.ChannelID, s.todayKey(), req.UserID, req.Username, req.Word)
	if err != nil {
		log.Error().Err(err).Str("channel", req.ChannelID).Msg("guess commit failed")
		http.Error(w, `{"error":"storage_failure"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(outcome)
}

// handleHistory returns recent ledger entries, newest-first.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	channelID := r.URL.Query().Get("channelId")
	if channelID == "" {
		http.Error(w, `{"error":"missing_channel"}`, http.StatusBadRequest)
		return
	}
	date := r.URL.Query().Get("date")
	if date == "" {
		date = s.todayKey()
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	recs, err := s.engine.QueryHistory(r.Context(), channelID, date, limit)
	if err != nil {
		log.Error().Err(err).Str("channel", channelID).Msg("history query failed")
		http.Error(w, `{"error":"storage_failure"}`, http.StatusInternalServerError)
		return
	}

	out := make([]historyEntry, 0, len(recs))
	for _, rec := range recs {
		out = append(out, historyEntry{
			GuessRecord: rec,
			Line:        hint.FormatLine(rec.CloserHint, rec.Word, rec.FartherHint, rec.Rank),
		})
	}
	_ = json.NewEncoder(w).Encode(out)
}

// historyEntry decorates a ledger record with its display line.
type historyEntry struct {
	game.GuessRecord
	Line string `json:"line"`
}

// handleLeaderboard returns standings for ?scope=global or ?channelId=...
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	scope := r.URL.Query().Get("channelId")
	if r.URL.Query().Get("scope") == "global" || scope == "" {
		scope = leaderboard.Global
	}
	n, _ := strconv.Atoi(r.URL.Query().Get("n"))

	entries, err := s.engine.QueryLeaderboard(r.Context(), scope, n)
	if err != nil {
		log.Error().Err(err).Str("scope", scope).Msg("leaderboard query failed")
		http.Error(w, `{"error":"storage_failure"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(entries)
}

// directGuessRes is shared by the flag read and toggle endpoints.
type directGuessRes struct {
	ChannelID string `json:"channelId"`
	Enabled   bool   `json:"enabled"`
}

func (s *Server) handleDirectGuess(w http.ResponseWriter, r *http.Request) {
	channelID := r.URL.Query().Get("channelId")
	if channelID == "" {
		http.Error(w, `{"error":"missing_channel"}`, http.StatusBadRequest)
		return
	}
	enabled, err := s.engine.DirectGuessEligible(r.Context(), channelID)
	if err != nil {
		http.Error(w, `{"error":"storage_failure"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(directGuessRes{ChannelID: channelID, Enabled: enabled})
}

func (s *Server) handleToggleDirectGuess(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ChannelID string `json:"channelId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ChannelID == "" {
		http.Error(w, `{"error":"missing_channel"}`, http.StatusBadRequest)
		return
	}
	enabled, err := s.engine.ToggleDirectGuess(r.Context(), req.ChannelID)
	if err != nil {
		http.Error(w, `{"error":"storage_failure"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(directGuessRes{ChannelID: req.ChannelID, Enabled: enabled})
}
