package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ciyi-game/go-server/internal/game"
	"github.com/ciyi-game/go-server/internal/leaderboard"
)

func newSession(channel, date string) *game.Session {
	return &game.Session{
		ChannelID:  channel,
		Date:       date,
		TargetWord: "企业",
		CreatedAt:  time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

func newRecord(channel, date, user string, rank int) *game.GuessRecord {
	return &game.GuessRecord{
		ChannelID: channel,
		Date:      date,
		Guesser:   user,
		Username:  user,
		Word:      "公司",
		Rank:      rank,
		Timestamp: time.Date(2025, 3, 1, 1, 0, 0, 0, time.UTC),
	}
}

func TestMemorySessionLifecycle(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	_, err := m.GetSession(ctx, "C1", "D1")
	assert.ErrorIs(t, err, game.ErrSessionNotFound)

	require.NoError(t, m.CreateSession(ctx, newSession("C1", "D1")))
	s, err := m.GetSession(ctx, "C1", "D1")
	require.NoError(t, err)
	assert.False(t, s.Solved)

	hist, err := m.TargetHistory(ctx, "C1")
	require.NoError(t, err)
	assert.Len(t, hist, 1)
}

func TestMemoryAppendRejectsSolvedSession(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	require.NoError(t, m.CreateSession(ctx, newSession("C1", "D1")))

	seq, err := m.AppendGuess(ctx, newRecord("C1", "D1", "U1", 47))
	require.NoError(t, err)
	assert.Equal(t, 1, seq)

	seq, err = m.AppendWin(ctx, newRecord("C1", "D1", "U2", 1))
	require.NoError(t, err)
	assert.Equal(t, 2, seq)

	_, err = m.AppendGuess(ctx, newRecord("C1", "D1", "U1", 12))
	assert.ErrorIs(t, err, game.ErrSessionSolved)
	_, err = m.AppendWin(ctx, newRecord("C1", "D1", "U3", 1))
	assert.ErrorIs(t, err, game.ErrSessionSolved)
}

func TestMemoryWinBumpsBothScopes(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	require.NoError(t, m.CreateSession(ctx, newSession("C1", "D1")))
	_, err := m.AppendWin(ctx, newRecord("C1", "D1", "U2", 1))
	require.NoError(t, err)

	for _, scope := range []string{"C1", leaderboard.Global} {
		entries, err := m.TopN(ctx, scope, 10)
		require.NoError(t, err)
		require.Len(t, entries, 1, "scope=%s", scope)
		assert.Equal(t, "U2", entries[0].UserID)
		assert.Equal(t, 1, entries[0].Wins)
	}
}

func TestMemoryRecentGuessesNewestFirst(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	require.NoError(t, m.CreateSession(ctx, newSession("C1", "D1")))
	for i := 0; i < 5; i++ {
		_, err := m.AppendGuess(ctx, newRecord("C1", "D1", "U1", i+2))
		require.NoError(t, err)
	}

	recs, err := m.RecentGuesses(ctx, "C1", "D1", 3)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, 5, recs[0].Seq)
	assert.Equal(t, 3, recs[2].Seq)
}
