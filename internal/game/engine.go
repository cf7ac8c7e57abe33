// internal/game/engine.go
//
// Orchestration of a guess submission.
// Responsibilities:
//   - Normalize and lexicon-check input.
//   - Lazily create the channel's daily session via the oracle.
//   - Evaluate guesses through the oracle and mask neighbor hints.
//   - Append to the ledger and record wins, exactly once per day.
//
// Concurrency model: one mutex per (channel, date) key. The oracle call runs
// outside the critical section; the commit step re-reads the session under
// the lock and re-checks the solved flag before touching storage, so a slow
// oracle never serializes unrelated guesses and a win can only be recorded
// once. Storage errors abort the whole submission and surface as a non-nil
// error (never a partial commit).

package game

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/ciyi-game/go-server/internal/daily"
	"github.com/ciyi-game/go-server/internal/hint"
	"github.com/ciyi-game/go-server/internal/leaderboard"
	"github.com/ciyi-game/go-server/internal/oracle"
	"github.com/ciyi-game/go-server/internal/word"
)

// Config carries the engine's tunables. Values come from the server config;
// the engine never reads globals.
type Config struct {
	HistoryDisplay     int  // default cap for QueryHistory
	RankDisplay        int  // default cap for QueryLeaderboard
	DirectGuessDefault bool // direct-guess mode for channels with no override
}

// Engine wires the store, oracle, and clock into the guess operations
// exposed to the surrounding bot.
type Engine struct {
	store  Store
	oracle oracle.Oracle
	clock  daily.Clock
	cfg    Config

	mu       sync.Mutex
	locks    map[string]*sync.Mutex // one per (channel, date) key
	lockDate string                 // newest date key seen, for pruning
}

// NewEngine constructs an Engine.
func NewEngine(st Store, or oracle.Oracle, clock daily.Clock, cfg Config) *Engine {
	if cfg.HistoryDisplay <= 0 {
		cfg.HistoryDisplay = 10
	}
	if cfg.RankDisplay <= 0 {
		cfg.RankDisplay = 10
	}
	return &Engine{
		store:  st,
		oracle: or,
		clock:  clock,
		cfg:    cfg,
		locks:  make(map[string]*sync.Mutex),
	}
}

// keyLock returns the mutex guarding one (channel, date) key. When the date
// key advances past everything seen so far, locks for older days are pruned;
// date keys sort lexically, and the key suffix after the separator is the
// fixed-width date.
func (e *Engine) keyLock(channelID, date string) *sync.Mutex {
	key := channelID + "|" + date
	e.mu.Lock()
	defer e.mu.Unlock()
	if date > e.lockDate {
		for k := range e.locks {
			if len(k) >= len(date) && k[len(k)-len(date):] < date {
				delete(e.locks, k)
			}
		}
		e.lockDate = date
	}
	lk, ok := e.locks[key]
	if !ok {
		lk = &sync.Mutex{}
		e.locks[key] = lk
	}
	return lk
}

// SubmitGuess runs one guess through the full pipeline. The returned error
// is non-nil only for storage failures; every user-visible condition is an
// Outcome kind.
func (e *Engine) SubmitGuess(ctx context.Context, channelID, date, userID, username, raw string) (Outcome, error) {
	w, err := word.Normalize(raw)
	if err != nil {
		return invalidOutcome(err), nil
	}
	if !word.InLexicon(w) {
		return Outcome{Kind: OutcomeInvalidWord, Reason: ReasonNotInLexicon}, nil
	}

	lk := e.keyLock(channelID, date)

	// Prepare: under the lock, decide whether a session must be created and
	// capture the oracle ref for an existing one.
	lk.Lock()
	sess, err := e.store.GetSession(ctx, channelID, date)
	var (
		ref     oracle.SessionRef
		history []word.Word
	)
	switch {
	case err == nil && sess.Solved:
		lk.Unlock()
		return Outcome{Kind: OutcomeAlreadySolved}, nil
	case err == nil:
		ref = e.oracle.Restore(channelID, date, sess.TargetWord)
	case errors.Is(err, ErrSessionNotFound):
		history, err = e.store.TargetHistory(ctx, channelID)
		if err != nil {
			lk.Unlock()
			return Outcome{}, err
		}
	default:
		lk.Unlock()
		return Outcome{}, err
	}
	lk.Unlock()

	// Oracle work happens outside the critical section.
	if ref == nil {
		ref, err = e.oracle.NewSession(ctx, channelID, date, history)
		if errors.Is(err, oracle.ErrExhausted) {
			return Outcome{Kind: OutcomePoolExhausted}, nil
		}
		if err != nil {
			log.Warn().Err(err).Str("channel", channelID).Msg("oracle session creation failed")
			return Outcome{Kind: OutcomeOracleUnavailable}, nil
		}
	}
	res, err := e.oracle.Rank(ctx, ref, w)
	if errors.Is(err, oracle.ErrUnranked) {
		return Outcome{Kind: OutcomeInvalidWord, Reason: ReasonNotInLexicon}, nil
	}
	if err != nil {
		log.Warn().Err(err).Str("channel", channelID).Msg("oracle rank failed")
		return Outcome{Kind: OutcomeOracleUnavailable}, nil
	}
	closerHint, fartherHint := hint.Mask(res.Closer, res.Farther)

	// Commit: re-validate under the lock, then write.
	lk.Lock()
	defer lk.Unlock()

	sess, err = e.store.GetSession(ctx, channelID, date)
	switch {
	case errors.Is(err, ErrSessionNotFound):
		sess = &Session{
			ChannelID:  channelID,
			Date:       date,
			TargetWord: ref.Target(),
			CreatedAt:  e.clock.Now().UTC(),
		}
		if err := e.store.CreateSession(ctx, sess); err != nil {
			return Outcome{}, err
		}
	case err != nil:
		return Outcome{}, err
	case sess.Solved:
		return Outcome{Kind: OutcomeAlreadySolved}, nil
	case sess.TargetWord != ref.Target():
		// The session changed underneath us; the ranking we computed is for
		// a stale target, so ask the caller to retry.
		return Outcome{Kind: OutcomeOracleUnavailable}, nil
	}

	rec := &GuessRecord{
		ChannelID:   channelID,
		Date:        date,
		Guesser:     userID,
		Username:    username,
		Word:        w,
		Rank:        res.Rank,
		CloserHint:  closerHint,
		FartherHint: fartherHint,
		Timestamp:   e.clock.Now().UTC(),
	}

	if res.Rank == 1 {
		seq, err := e.store.AppendWin(ctx, rec)
		if errors.Is(err, ErrSessionSolved) {
			return Outcome{Kind: OutcomeAlreadySolved}, nil
		}
		if err != nil {
			return Outcome{}, err
		}
		log.Info().Str("channel", channelID).Str("user", userID).Int("guesses", seq).Msg("puzzle solved")
		return Outcome{Kind: OutcomeCorrect, Seq: seq, Answer: w}, nil
	}

	seq, err := e.store.AppendGuess(ctx, rec)
	if errors.Is(err, ErrSessionSolved) {
		return Outcome{Kind: OutcomeAlreadySolved}, nil
	}
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{
		Kind:        OutcomeHint,
		Rank:        res.Rank,
		CloserHint:  closerHint,
		FartherHint: fartherHint,
		Seq:         seq,
	}, nil
}

// QueryHistory returns up to limit ledger entries for a key, newest-first.
// A non-positive limit falls back to the configured display cap.
func (e *Engine) QueryHistory(ctx context.Context, channelID, date string, limit int) ([]GuessRecord, error) {
	if limit <= 0 {
		limit = e.cfg.HistoryDisplay
	}
	return e.store.RecentGuesses(ctx, channelID, date, limit)
}

// QueryLeaderboard returns the top standings for a scope (a channel id or
// leaderboard.Global).
func (e *Engine) QueryLeaderboard(ctx context.Context, scope string, n int) ([]leaderboard.Entry, error) {
	if n <= 0 {
		n = e.cfg.RankDisplay
	}
	return e.store.TopN(ctx, scope, n)
}

// DirectGuessEligible reports whether bare two-character messages in a
// channel should be treated as guesses.
func (e *Engine) DirectGuessEligible(ctx context.Context, channelID string) (bool, error) {
	return e.store.DirectGuess(ctx, channelID, e.cfg.DirectGuessDefault)
}

// ToggleDirectGuess flips the channel's direct-guess flag and returns the
// new value.
func (e *Engine) ToggleDirectGuess(ctx context.Context, channelID string) (bool, error) {
	return e.store.ToggleDirectGuess(ctx, channelID, e.cfg.DirectGuessDefault)
}

// invalidOutcome maps a normalization error onto an Outcome.
func invalidOutcome(err error) Outcome {
	reason := ReasonWrongLength
	if errors.Is(err, word.ErrInvalidChars) {
		reason = ReasonInvalidChars
	}
	return Outcome{Kind: OutcomeInvalidWord, Reason: reason}
}
