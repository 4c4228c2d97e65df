// internal/daily/daily.go
//
// Deterministic, date-keyed randomness for the "daily pizza" mode.
// Every player who starts a daily game on the same UTC day, with the same
// salt, gets the same sequence of targets.
//
// Draw i on a day is HMAC-SHA256(salt, "YYYY-MM-DD#i"); the first 8 bytes are
// read as a big-endian uint64 and reduced modulo n.

package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"strconv"
	"time"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Source is a deterministic uniform source for one day. Not safe for concurrent use.
type Source struct {
	date string
	salt []byte
	n    uint64 // draws so far
}

// NewSource returns the source for the day containing t.
func NewSource(t time.Time, salt string) *Source {
	return &Source{date: DateKey(t), salt: []byte(salt)}
}

// Date returns the day key this source is bound to.
func (s *Source) Date() string { return s.date }

// Intn returns the next value in [0, n). It panics if n <= 0.
func (s *Source) Intn(n int) int {
	if n <= 0 {
		panic("daily: invalid argument to Intn")
	}
	h := hmac.New(sha256.New, s.salt)
	h.Write([]byte(s.date))
	h.Write([]byte{'#'})
	h.Write([]byte(strconv.FormatUint(s.n, 10)))
	s.n++
	sum := h.Sum(nil)
	v := binary.BigEndian.Uint64(sum[:8])
	return int(v % uint64(n))
}
