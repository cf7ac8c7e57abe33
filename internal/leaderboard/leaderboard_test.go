package leaderboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSort(t *testing.T) {
	t0 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	entries := []Entry{
		{UserID: "late", Wins: 3, FirstWinAt: t0.Add(48 * time.Hour)},
		{UserID: "few", Wins: 1, FirstWinAt: t0},
		{UserID: "early", Wins: 3, FirstWinAt: t0},
		{UserID: "mid", Wins: 3, FirstWinAt: t0.Add(24 * time.Hour)},
	}

	Sort(entries)

	order := make([]string, len(entries))
	for i, e := range entries {
		order[i] = e.UserID
	}
	// wins descending, ties by earliest first win
	assert.Equal(t, []string{"early", "mid", "late", "few"}, order)
}

func TestSortTieBreakIsDeterministic(t *testing.T) {
	t0 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	a := []Entry{
		{UserID: "b", Wins: 2, FirstWinAt: t0},
		{UserID: "a", Wins: 2, FirstWinAt: t0},
	}
	b := []Entry{
		{UserID: "a", Wins: 2, FirstWinAt: t0},
		{UserID: "b", Wins: 2, FirstWinAt: t0},
	}
	Sort(a)
	Sort(b)
	assert.Equal(t, a[0].UserID, b[0].UserID, "full ties fall back to user id")
}
