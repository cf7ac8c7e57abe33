// internal/oracle/oracle.go
//
// SimilarityOracle contract consumed by the game engine.
//
// The oracle owns target selection and the full similarity ordering for a
// target. The engine never inspects the ordering; it only asks for the rank
// of a candidate and the two adjacent words. Rank 1 means exact match.
//
// Failure taxonomy:
//   - ErrUnavailable: transient (network/service) failure, safe to retry.
//   - ErrUnranked:    the candidate is not present in the ordering.
//   - ErrExhausted:   no unused target word remains for a channel.

package oracle

import (
	"context"
	"errors"

	"github.com/ciyi-game/go-server/internal/word"
)

var (
	ErrUnavailable = errors.New("similarity oracle unavailable")
	ErrUnranked    = errors.New("word not present in similarity ordering")
	ErrExhausted   = errors.New("question word pool exhausted")
)

// SessionRef is an opaque handle to one channel-day puzzle held by the
// oracle. Target is exposed only so the session can be persisted and
// restored across restarts; callers outside the storage path must not
// reveal it.
type SessionRef interface {
	Target() word.Word
}

// Result is the oracle's answer for one candidate word.
// Rank 1 signals an exact match with the secret target. Closer is the word
// immediately more similar (rank − 1) and Farther the word immediately less
// similar (rank + 1); either is empty at a ranking boundary.
type Result struct {
	Rank    int
	Closer  word.Word
	Farther word.Word
}

// Oracle is the collaborator interface the engine depends on.
type Oracle interface {
	// NewSession selects a fresh target for (channelID, date), excluding
	// targets the channel has already used, and primes the ordering.
	NewSession(ctx context.Context, channelID, date string, exclude []word.Word) (SessionRef, error)

	// Restore rehydrates a session for a previously chosen target.
	Restore(channelID, date string, target word.Word) SessionRef

	// Rank evaluates one candidate against the session's ordering.
	Rank(ctx context.Context, ref SessionRef, guess word.Word) (Result, error)
}
