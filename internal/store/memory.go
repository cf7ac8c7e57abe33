// internal/store/memory.go
//
// In-memory implementation of game.Store.
// Used in tests and when durability is not required; state is lost on
// restart. All methods are safe for concurrent use via a single RWMutex —
// per-key serialization of guess submission is the engine's job, this layer
// only guarantees each call is atomic.

package store

import (
	"context"
	"sort"
	"sync"

	"github.com/ciyi-game/go-server/internal/game"
	"github.com/ciyi-game/go-server/internal/leaderboard"
	"github.com/ciyi-game/go-server/internal/word"
)

type memory struct {
	mu       sync.RWMutex
	sessions map[string]*game.Session      // keyed by channel|date
	guesses  map[string][]game.GuessRecord // keyed by channel|date, append order
	board    map[string]*leaderboard.Entry // keyed by scope|user
	direct   map[string]bool               // channel overrides
}

// NewMemory constructs an empty in-memory store.
func NewMemory() game.Store {
	return &memory{
		sessions: make(map[string]*game.Session),
		guesses:  make(map[string][]game.GuessRecord),
		board:    make(map[string]*leaderboard.Entry),
		direct:   make(map[string]bool),
	}
}

func key(channelID, date string) string { return channelID + "|" + date }

func (m *memory) GetSession(ctx context.Context, channelID, date string) (*game.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[key(channelID, date)]
	if !ok {
		return nil, game.ErrSessionNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memory) CreateSession(ctx context.Context, s *game.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.sessions[key(s.ChannelID, s.Date)] = &cp
	return nil
}

func (m *memory) TargetHistory(ctx context.Context, channelID string) ([]word.Word, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []word.Word
	for _, s := range m.sessions {
		if s.ChannelID == channelID {
			out = append(out, s.TargetWord)
		}
	}
	return out, nil
}

func (m *memory) AppendGuess(ctx context.Context, rec *game.GuessRecord) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.appendLocked(rec)
}

func (m *memory) AppendWin(ctx context.Context, rec *game.GuessRecord) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seq, err := m.appendLocked(rec)
	if err != nil {
		return 0, err
	}
	s := m.sessions[key(rec.ChannelID, rec.Date)]
	s.Solved = true
	s.SolvedBy = rec.Guesser
	for _, scope := range []string{rec.ChannelID, leaderboard.Global} {
		k := scope + "|" + rec.Guesser
		e, ok := m.board[k]
		if !ok {
			e = &leaderboard.Entry{Scope: scope, UserID: rec.Guesser, FirstWinAt: rec.Timestamp}
			m.board[k] = e
		}
		e.Username = rec.Username
		e.Wins++
	}
	return seq, nil
}

// appendLocked assigns the next seq and stores the record. Caller holds mu.
func (m *memory) appendLocked(rec *game.GuessRecord) (int, error) {
	k := key(rec.ChannelID, rec.Date)
	s, ok := m.sessions[k]
	if !ok {
		return 0, game.ErrSessionNotFound
	}
	if s.Solved {
		return 0, game.ErrSessionSolved
	}
	cp := *rec
	cp.Seq = len(m.guesses[k]) + 1
	m.guesses[k] = append(m.guesses[k], cp)
	return cp.Seq, nil
}

func (m *memory) RecentGuesses(ctx context.Context, channelID, date string, limit int) ([]game.GuessRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	all := m.guesses[key(channelID, date)]
	out := make([]game.GuessRecord, 0, limit)
	for i := len(all) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, all[i])
	}
	return out, nil
}

func (m *memory) TopN(ctx context.Context, scope string, n int) ([]leaderboard.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var entries []leaderboard.Entry
	for _, e := range m.board {
		if e.Scope == scope {
			entries = append(entries, *e)
		}
	}
	// map iteration order is arbitrary; sort twice to keep ties stable
	sort.Slice(entries, func(i, j int) bool { return entries[i].UserID < entries[j].UserID })
	leaderboard.Sort(entries)
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries, nil
}

func (m *memory) DirectGuess(ctx context.Context, channelID string, def bool) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.direct[channelID]; ok {
		return v, nil
	}
	return def, nil
}

func (m *memory) ToggleDirectGuess(ctx context.Context, channelID string, def bool) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.direct[channelID]
	if !ok {
		cur = def
	}
	m.direct[channelID] = !cur
	return !cur, nil
}
