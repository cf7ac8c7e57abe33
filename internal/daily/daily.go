// internal/daily/daily.go
//
// Date keying and target selection helpers.
//
// All per-day game state is keyed by a "YYYY-MM-DD" date key computed from an
// injected clock plus a fixed locale offset, so rollover behavior is
// deterministic and testable. There is no reset job: a new date key simply
// addresses a fresh session.

package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"
)

// Clock supplies the current instant. Injected everywhere a date key is
// computed so tests can pin time.
type Clock interface {
	Now() time.Time
}

// SystemClock is the real wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// DateKey returns YYYY-MM-DD after shifting t by the locale offset in hours.
// The default deployment uses UTC+8 day boundaries.
func DateKey(t time.Time, offsetHours int) string {
	return t.UTC().Add(time.Duration(offsetHours) * time.Hour).Format("2006-01-02")
}

// TargetIndex returns a deterministic index for a date using
// HMAC(salt, dateKey) % n, so every instance picks the same target for a day
// without coordination.
func TargetIndex(dateKey, salt string, n int) int {
	if n <= 0 {
		return 0
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(dateKey))
	sum := h.Sum(nil)
	// first 8 bytes as uint64 for modulus distribution
	v := binary.BigEndian.Uint64(sum[:8])
	return int(v % uint64(n))
}
