// internal/game/types.go
//
// Core type definitions for the guessing-session engine.
// Defines:
//   - Session: one channel's daily puzzle instance.
//   - GuessRecord: one ledger entry (immutable once appended).
//   - Outcome: the result of a guess submission.

package game

import (
	"time"

	"github.com/ciyi-game/go-server/internal/word"
)

// Session is the per-(channel, date) puzzle. TargetWord is immutable once
// created; only Solved/SolvedBy change, exactly once.
type Session struct {
	ChannelID  string    // owning channel
	Date       string    // YYYY-MM-DD date key
	TargetWord word.Word // secret target, held for restart rehydration only
	Solved     bool      // true once someone guessed the target
	SolvedBy   string    // user id of the solver, empty while unsolved
	CreatedAt  time.Time // first-guess instant that created the session
}

// GuessRecord is one appended ledger entry. Seq is a gapless 1..N counter
// within a (channel, date) partition and doubles as the displayed index.
type GuessRecord struct {
	ChannelID   string    `json:"channelId"`
	Date        string    `json:"date"`
	Seq         int       `json:"seq"`
	Guesser     string    `json:"guesser"`
	Username    string    `json:"username"`
	Word        word.Word `json:"word"`
	Rank        int       `json:"rank"`
	CloserHint  string    `json:"closerHint"`
	FartherHint string    `json:"fartherHint"`
	Timestamp   time.Time `json:"timestamp"`
}

// OutcomeKind classifies a guess submission result.
// Possible values:
//   - "invalid_word":       input rejected before any state change.
//   - "already_solved":     today's puzzle is done for this channel.
//   - "oracle_unavailable": transient oracle failure, safe to retry.
//   - "pool_exhausted":     no unused target word remains for this channel.
//   - "correct":            exact match, session solved by this guess.
//   - "hint":               ranked guess with masked neighbor hints.
type OutcomeKind string

const (
	OutcomeInvalidWord       OutcomeKind = "invalid_word"
	OutcomeAlreadySolved     OutcomeKind = "already_solved"
	OutcomeOracleUnavailable OutcomeKind = "oracle_unavailable"
	OutcomePoolExhausted     OutcomeKind = "pool_exhausted"
	OutcomeCorrect           OutcomeKind = "correct"
	OutcomeHint              OutcomeKind = "hint"
)

// Outcome is what SubmitGuess reports back to the bot layer.
// Rank/CloserHint/FartherHint are set for "hint"; Seq for "hint" and
// "correct"; Answer is revealed only on "correct".
type Outcome struct {
	Kind        OutcomeKind `json:"kind"`
	Reason      string      `json:"reason,omitempty"`
	Rank        int         `json:"rank,omitempty"`
	CloserHint  string      `json:"closerHint,omitempty"`
	FartherHint string      `json:"fartherHint,omitempty"`
	Seq         int         `json:"seq,omitempty"`
	Answer      word.Word   `json:"answer,omitempty"`
}

// Invalid-word reasons surfaced in Outcome.Reason.
const (
	ReasonWrongLength  = "wrong_length"
	ReasonInvalidChars = "invalid_characters"
	ReasonNotInLexicon = "not_in_lexicon"
)
