package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ciyi-game/go-server/internal/game"
	"github.com/ciyi-game/go-server/internal/leaderboard"
)

// newTestDB opens a throwaway SQLite file and applies the initial schema.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	schema, err := os.ReadFile(filepath.Join("..", "..", "sql", "001_init.sql"))
	require.NoError(t, err)
	_, err = db.Exec(string(schema))
	require.NoError(t, err)
	return db
}

func TestSQLiteSessionLifecycle(t *testing.T) {
	s := NewSQLite(newTestDB(t))
	ctx := context.Background()

	_, err := s.GetSession(ctx, "C1", "D1")
	assert.ErrorIs(t, err, game.ErrSessionNotFound)

	require.NoError(t, s.CreateSession(ctx, newSession("C1", "D1")))
	sess, err := s.GetSession(ctx, "C1", "D1")
	require.NoError(t, err)
	assert.Equal(t, "C1", sess.ChannelID)
	assert.Equal(t, "D1", sess.Date)
	assert.Equal(t, newSession("C1", "D1").TargetWord, sess.TargetWord)
	assert.False(t, sess.Solved)

	hist, err := s.TargetHistory(ctx, "C1")
	require.NoError(t, err)
	require.Len(t, hist, 1)
	assert.Equal(t, sess.TargetWord, hist[0])
}

func TestSQLiteAppendWinAtomic(t *testing.T) {
	s := NewSQLite(newTestDB(t))
	ctx := context.Background()
	require.NoError(t, s.CreateSession(ctx, newSession("C1", "D1")))

	seq, err := s.AppendGuess(ctx, newRecord("C1", "D1", "U1", 47))
	require.NoError(t, err)
	assert.Equal(t, 1, seq)
	seq, err = s.AppendGuess(ctx, newRecord("C1", "D1", "U1", 12))
	require.NoError(t, err)
	assert.Equal(t, 2, seq)

	seq, err = s.AppendWin(ctx, newRecord("C1", "D1", "U2", 1))
	require.NoError(t, err)
	assert.Equal(t, 3, seq)

	sess, err := s.GetSession(ctx, "C1", "D1")
	require.NoError(t, err)
	assert.True(t, sess.Solved)
	assert.Equal(t, "U2", sess.SolvedBy)

	for _, scope := range []string{"C1", leaderboard.Global} {
		entries, err := s.TopN(ctx, scope, 10)
		require.NoError(t, err)
		require.Len(t, entries, 1, "scope=%s", scope)
		assert.Equal(t, "U2", entries[0].UserID)
		assert.Equal(t, 1, entries[0].Wins)
	}

	// A solved session rejects further appends and a losing AppendWin
	// leaves the ledger and counters untouched.
	_, err = s.AppendGuess(ctx, newRecord("C1", "D1", "U1", 5))
	assert.ErrorIs(t, err, game.ErrSessionSolved)
	_, err = s.AppendWin(ctx, newRecord("C1", "D1", "U3", 1))
	assert.ErrorIs(t, err, game.ErrSessionSolved)

	recs, err := s.RecentGuesses(ctx, "C1", "D1", 10)
	require.NoError(t, err)
	assert.Len(t, recs, 3)
	entries, err := s.TopN(ctx, leaderboard.Global, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 1, entries[0].Wins)
}

func TestSQLiteRecentGuessesNewestFirst(t *testing.T) {
	s := NewSQLite(newTestDB(t))
	ctx := context.Background()
	require.NoError(t, s.CreateSession(ctx, newSession("C1", "D1")))
	for i := 0; i < 5; i++ {
		_, err := s.AppendGuess(ctx, newRecord("C1", "D1", "U1", i+2))
		require.NoError(t, err)
	}

	recs, err := s.RecentGuesses(ctx, "C1", "D1", 3)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, 5, recs[0].Seq)
	assert.Equal(t, 3, recs[2].Seq)
}

func TestSQLiteDirectGuessToggle(t *testing.T) {
	s := NewSQLite(newTestDB(t))
	ctx := context.Background()

	v, err := s.DirectGuess(ctx, "C1", true)
	require.NoError(t, err)
	assert.True(t, v, "default applies when the channel has no override")

	v, err = s.ToggleDirectGuess(ctx, "C1", true)
	require.NoError(t, err)
	assert.False(t, v)

	v, err = s.DirectGuess(ctx, "C1", true)
	require.NoError(t, err)
	assert.False(t, v, "override wins over the default")

	v, err = s.ToggleDirectGuess(ctx, "C1", true)
	require.NoError(t, err)
	assert.True(t, v)
}
