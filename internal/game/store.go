// internal/game/store.go
//
// Persistence contract the engine depends on.
// Implementations may be backed by SQLite (production) or memory (tests);
// see internal/store.

package game

import (
	"context"
	"errors"

	"github.com/ciyi-game/go-server/internal/leaderboard"
	"github.com/ciyi-game/go-server/internal/word"
)

var (
	// ErrSessionNotFound is returned by GetSession when no session exists
	// yet for the (channel, date) key.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionSolved rejects appends to a solved session's ledger.
	ErrSessionSolved = errors.New("session already solved")
)

// Store is the durable substrate for sessions, the guess ledger, leaderboard
// counters, and per-channel settings. Append ordering within one
// (channel, date) key is the engine's responsibility (per-key lock); the
// store guarantees atomicity of each call.
type Store interface {
	// GetSession fetches the session for a key, or ErrSessionNotFound.
	GetSession(ctx context.Context, channelID, date string) (*Session, error)

	// CreateSession persists a fresh session. At most one session may ever
	// exist per (channel, date).
	CreateSession(ctx context.Context, s *Session) error

	// TargetHistory lists every target the channel has ever used, so the
	// oracle never repeats one.
	TargetHistory(ctx context.Context, channelID string) ([]word.Word, error)

	// AppendGuess assigns the next sequence number and appends the record.
	// Fails with ErrSessionSolved once the session is solved.
	AppendGuess(ctx context.Context, rec *GuessRecord) (seq int, err error)

	// AppendWin atomically appends the winning guess, marks the session
	// solved, and bumps both leaderboard scopes. All or nothing.
	AppendWin(ctx context.Context, rec *GuessRecord) (seq int, err error)

	// RecentGuesses returns up to limit records newest-first by Seq.
	RecentGuesses(ctx context.Context, channelID, date string, limit int) ([]GuessRecord, error)

	// TopN reads leaderboard standings for a scope.
	TopN(ctx context.Context, scope string, n int) ([]leaderboard.Entry, error)

	// DirectGuess reports the channel's direct-guess flag, falling back to
	// def when the channel has no override.
	DirectGuess(ctx context.Context, channelID string, def bool) (bool, error)

	// ToggleDirectGuess flips the flag atomically and returns the new value.
	ToggleDirectGuess(ctx context.Context, channelID string, def bool) (bool, error)
}
