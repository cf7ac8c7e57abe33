// internal/oracle/client.go
//
// HTTP-backed Oracle implementation.
//
// The similarity service publishes, per target word, the full similarity
// ordering as a newline-separated text document:
//
//	GET {base}/v1/ci-yi-list/{target}.txt
//
// The target itself is the first entry (rank 1). Orderings are cached
// in-process per target and refetched lazily after a restart, so a Restore'd
// session works without an eager network call.
//
// Target selection is deterministic: HMAC(salt, date|channel) indexes into
// the not-yet-used question words, so every instance agrees on the day's
// target without coordination.

package oracle

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ciyi-game/go-server/internal/daily"
	"github.com/ciyi-game/go-server/internal/word"
)

const defaultTimeout = 5 * time.Second

// Client talks to the similarity service.
type Client struct {
	base string
	salt string
	http *http.Client

	mu        sync.Mutex
	cache     map[word.Word]cachedOrdering // ordering per target
	cacheDate string                       // newest date key seen, for pruning
}

// cachedOrdering is one fetched document plus the date key it served, so
// past days' orderings can be evicted on rollover.
type cachedOrdering struct {
	date  string
	words []word.Word
}

// NewClient constructs a Client for the given service base URL.
// A non-positive timeout falls back to the default.
func NewClient(base, salt string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		base:  strings.TrimRight(base, "/"),
		salt:  salt,
		http:  &http.Client{Timeout: timeout},
		cache: make(map[word.Word]cachedOrdering),
	}
}

// session is the Client's SessionRef.
type session struct {
	channelID string
	date      string
	target    word.Word
}

func (s *session) Target() word.Word { return s.target }

// NewSession picks the day's target for a channel and primes its ordering.
func (c *Client) NewSession(ctx context.Context, channelID, date string, exclude []word.Word) (SessionRef, error) {
	used := make(map[word.Word]struct{}, len(exclude))
	for _, w := range exclude {
		used[w] = struct{}{}
	}
	var candidates []word.Word
	for _, w := range word.Questions() {
		if _, ok := used[w]; !ok {
			candidates = append(candidates, w)
		}
	}
	if len(candidates) == 0 {
		return nil, ErrExhausted
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i] < candidates[j] })

	idx := daily.TargetIndex(date+"|"+channelID, c.salt, len(candidates))
	target := candidates[idx]

	if _, err := c.ordering(ctx, date, target); err != nil {
		return nil, err
	}
	log.Debug().Str("channel", channelID).Str("date", date).Msg("oracle session created")
	return &session{channelID: channelID, date: date, target: target}, nil
}

// Restore rehydrates a session without touching the network; the ordering is
// fetched lazily on the first Rank call.
func (c *Client) Restore(channelID, date string, target word.Word) SessionRef {
	return &session{channelID: channelID, date: date, target: target}
}

// Rank locates the guess in the session's ordering.
func (c *Client) Rank(ctx context.Context, ref SessionRef, guess word.Word) (Result, error) {
	s, ok := ref.(*session)
	if !ok {
		return Result{}, fmt.Errorf("%w: foreign session ref", ErrUnavailable)
	}
	ordering, err := c.ordering(ctx, s.date, s.target)
	if err != nil {
		return Result{}, err
	}

	idx := -1
	for i, w := range ordering {
		if w == guess {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Result{}, ErrUnranked
	}

	res := Result{Rank: idx + 1}
	if idx > 0 {
		res.Closer = ordering[idx-1]
	}
	if idx+1 < len(ordering) {
		res.Farther = ordering[idx+1]
	}
	return res, nil
}

// ordering returns the cached similarity ordering for target, fetching it
// from the service when missing. Caching a newer date key evicts every
// entry cached for an older day.
func (c *Client) ordering(ctx context.Context, date string, target word.Word) ([]word.Word, error) {
	c.mu.Lock()
	cached, ok := c.cache[target]
	c.mu.Unlock()
	if ok {
		return cached.words, nil
	}

	fetched, err := c.fetch(ctx, target)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if date > c.cacheDate {
		for t, e := range c.cache {
			if e.date < date {
				delete(c.cache, t)
			}
		}
		c.cacheDate = date
	}
	c.cache[target] = cachedOrdering{date: date, words: fetched}
	c.mu.Unlock()
	return fetched, nil
}

// fetch downloads and parses one ordering document.
func (c *Client) fetch(ctx context.Context, target word.Word) ([]word.Word, error) {
	u := c.base + "/v1/ci-yi-list/" + url.PathEscape(string(target)) + ".txt"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var ordering []word.Word
	for _, line := range strings.Split(strings.TrimSpace(string(body)), "\n") {
		s := strings.TrimSpace(line)
		if s == "" {
			continue
		}
		// The document comes from an external service; drop any line that is
		// not a canonical two-rune word instead of letting it reach hints.
		w, err := word.Normalize(s)
		if err != nil {
			log.Warn().Str("target", string(target)).Str("line", s).Msg("skipping malformed ordering line")
			continue
		}
		ordering = append(ordering, w)
	}
	if len(ordering) == 0 {
		return nil, fmt.Errorf("%w: empty ordering for target", ErrUnavailable)
	}
	return ordering, nil
}
