// internal/leaderboard/leaderboard.go
//
// Durable correct-guess counters, scoped per channel and globally.
//
// Every solved session bumps two rows — (channel, user) and (GLOBAL, user) —
// inside the same transaction as the winning guess, so the counters can never
// drift from the ledger. Ordering is deterministic: wins descending, ties
// broken by earliest first win.

package leaderboard

import (
	"context"
	"database/sql"
	"sort"
	"time"
)

// Global is the cross-channel scope key.
const Global = "GLOBAL"

// Entry is one user's standing within a scope.
type Entry struct {
	Scope      string    `json:"scope"`
	UserID     string    `json:"userId"`
	Username   string    `json:"username"`
	Wins       int       `json:"wins"`
	FirstWinAt time.Time `json:"firstWinAt"`
}

// DBTX is the subset of database/sql used here, satisfied by *sql.DB and
// *sql.Tx, so RecordWin can run inside the engine's commit transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// RecordWin bumps the channel-scoped and global counters for a user.
// Callers pass a *sql.Tx alongside the winning guess insert; both increments
// commit or neither does.
func RecordWin(ctx context.Context, db DBTX, userID, username, channelID string, at time.Time) error {
	for _, scope := range []string{channelID, Global} {
		if _, err := db.ExecContext(ctx, `
			INSERT INTO leaderboard (scope, user_id, username, wins, first_win_at)
			VALUES (?, ?, ?, 1, ?)
			ON CONFLICT(scope, user_id)
			DO UPDATE SET wins = wins + 1, username = excluded.username`,
			scope, userID, username, at.UTC().Format(time.RFC3339)); err != nil {
			return err
		}
	}
	return nil
}

// TopN fetches the best n entries for a scope.
func TopN(ctx context.Context, db DBTX, scope string, n int) ([]Entry, error) {
	if n <= 0 {
		n = 10
	}
	rows, err := db.QueryContext(ctx, `
		SELECT scope, user_id, username, wins, first_win_at
		FROM leaderboard
		WHERE scope = ?
		ORDER BY wins DESC, first_win_at ASC, user_id ASC
		LIMIT ?`, scope, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Entry, 0, n)
	for rows.Next() {
		var e Entry
		var firstWin string
		if err := rows.Scan(&e.Scope, &e.UserID, &e.Username, &e.Wins, &firstWin); err != nil {
			return nil, err
		}
		e.FirstWinAt, _ = time.Parse(time.RFC3339, firstWin)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Sort orders entries by wins descending, ties by earliest first win then
// user id. Shared with the in-memory store so both backends agree.
func Sort(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Wins != entries[j].Wins {
			return entries[i].Wins > entries[j].Wins
		}
		if !entries[i].FirstWinAt.Equal(entries[j].FirstWinAt) {
			return entries[i].FirstWinAt.Before(entries[j].FirstWinAt)
		}
		return entries[i].UserID < entries[j].UserID
	})
}
