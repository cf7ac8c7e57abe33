// internal/store/sqlite.go
//
// SQLite implementation of game.Store.
// Schema lives in sql/001_init.sql (sessions, guesses, leaderboard,
// channel_settings). Winning commits run in one transaction so the ledger,
// the solved flag, and both leaderboard scopes can never diverge.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ciyi-game/go-server/internal/game"
	"github.com/ciyi-game/go-server/internal/leaderboard"
	"github.com/ciyi-game/go-server/internal/word"
)

// SQLite persists game state in a SQLite database.
type SQLite struct {
	db *sql.DB
}

// NewSQLite wraps an opened database handle.
func NewSQLite(db *sql.DB) *SQLite { return &SQLite{db: db} }

func (s *SQLite) GetSession(ctx context.Context, channelID, date string) (*game.Session, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT channel_id, date, target_word, solved, solved_by, created_at
		FROM sessions WHERE channel_id=? AND date=?`, channelID, date)
	return scanSession(row)
}

func (s *SQLite) CreateSession(ctx context.Context, sess *game.Session) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (channel_id, date, target_word, solved, solved_by, created_at)
		VALUES (?, ?, ?, 0, '', ?)`,
		sess.ChannelID, sess.Date, string(sess.TargetWord),
		sess.CreatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

func (s *SQLite) TargetHistory(ctx context.Context, channelID string) ([]word.Word, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT target_word FROM sessions WHERE channel_id=?`, channelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []word.Word
	for rows.Next() {
		var w string
		if err := rows.Scan(&w); err != nil {
			return nil, err
		}
		out = append(out, word.Word(w))
	}
	return out, rows.Err()
}

func (s *SQLite) AppendGuess(ctx context.Context, rec *game.GuessRecord) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	seq, err := appendGuessTx(ctx, tx, rec)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit guess: %w", err)
	}
	return seq, nil
}

func (s *SQLite) AppendWin(ctx context.Context, rec *game.GuessRecord) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	seq, err := appendGuessTx(ctx, tx, rec)
	if err != nil {
		return 0, err
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE sessions SET solved=1, solved_by=? WHERE channel_id=? AND date=?`,
		rec.Guesser, rec.ChannelID, rec.Date); err != nil {
		return 0, fmt.Errorf("mark solved: %w", err)
	}
	if err := leaderboard.RecordWin(ctx, tx, rec.Guesser, rec.Username, rec.ChannelID, rec.Timestamp); err != nil {
		return 0, fmt.Errorf("record win: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit win: %w", err)
	}
	return seq, nil
}

// appendGuessTx guards the solved flag and assigns the next gapless seq.
func appendGuessTx(ctx context.Context, tx *sql.Tx, rec *game.GuessRecord) (int, error) {
	var solved int
	err := tx.QueryRowContext(ctx,
		`SELECT solved FROM sessions WHERE channel_id=? AND date=?`,
		rec.ChannelID, rec.Date).Scan(&solved)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, game.ErrSessionNotFound
	}
	if err != nil {
		return 0, err
	}
	if solved != 0 {
		return 0, game.ErrSessionSolved
	}

	var seq int
	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(seq),0)+1 FROM guesses WHERE channel_id=? AND date=?`,
		rec.ChannelID, rec.Date).Scan(&seq); err != nil {
		return 0, err
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO guesses
			(channel_id, date, seq, guesser, username, word, rank, closer_hint, farther_hint, created_at)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		rec.ChannelID, rec.Date, seq, rec.Guesser, rec.Username, string(rec.Word),
		rec.Rank, rec.CloserHint, rec.FartherHint,
		rec.Timestamp.UTC().Format(time.RFC3339)); err != nil {
		return 0, fmt.Errorf("insert guess: %w", err)
	}
	return seq, nil
}

func (s *SQLite) RecentGuesses(ctx context.Context, channelID, date string, limit int) ([]game.GuessRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT channel_id, date, seq, guesser, username, word, rank, closer_hint, farther_hint, created_at
		FROM guesses
		WHERE channel_id=? AND date=?
		ORDER BY seq DESC
		LIMIT ?`, channelID, date, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]game.GuessRecord, 0, limit)
	for rows.Next() {
		var r game.GuessRecord
		var w, ts string
		if err := rows.Scan(&r.ChannelID, &r.Date, &r.Seq, &r.Guesser, &r.Username,
			&w, &r.Rank, &r.CloserHint, &r.FartherHint, &ts); err != nil {
			return nil, err
		}
		r.Word = word.Word(w)
		r.Timestamp, _ = time.Parse(time.RFC3339, ts)
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLite) TopN(ctx context.Context, scope string, n int) ([]leaderboard.Entry, error) {
	return leaderboard.TopN(ctx, s.db, scope, n)
}

func (s *SQLite) DirectGuess(ctx context.Context, channelID string, def bool) (bool, error) {
	var v int
	err := s.db.QueryRowContext(ctx,
		`SELECT direct_guess FROM channel_settings WHERE channel_id=?`, channelID).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return def, nil
	}
	if err != nil {
		return false, err
	}
	return v != 0, nil
}

func (s *SQLite) ToggleDirectGuess(ctx context.Context, channelID string, def bool) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback() }()

	cur := def
	var v int
	err = tx.QueryRowContext(ctx,
		`SELECT direct_guess FROM channel_settings WHERE channel_id=?`, channelID).Scan(&v)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// fall through with the default
	case err != nil:
		return false, err
	default:
		cur = v != 0
	}

	next := !cur
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO channel_settings (channel_id, direct_guess) VALUES (?, ?)
		ON CONFLICT(channel_id) DO UPDATE SET direct_guess=excluded.direct_guess`,
		channelID, boolToInt(next)); err != nil {
		return false, err
	}
	if err := tx.Commit(); err != nil {
		return false, err
	}
	return next, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// scanSession reads one sessions row.
func scanSession(row *sql.Row) (*game.Session, error) {
	var (
		sess       game.Session
		target, ts string
		solved     int
	)
	err := row.Scan(&sess.ChannelID, &sess.Date, &target, &solved, &sess.SolvedBy, &ts)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, game.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	sess.TargetWord = word.Word(target)
	sess.Solved = solved != 0
	sess.CreatedAt, _ = time.Parse(time.RFC3339, ts)
	return &sess, nil
}
