package pkg

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// StringUtils provides string utility functions
type StringUtils struct{}

// IsEmpty checks if string is empty or contains only whitespace
func (StringUtils) IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Truncate truncates string to specified length
func (StringUtils) Truncate(s string, length int) string {
	if len(s) <= length {
		return s
	}
	return s[:length] + "..."
}

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]{0,63}$`)

// IsValidUsername reports whether s is a safe profile username.
// Usernames double as file names for profile documents, so the
// character set is restricted and dot-prefixed names are rejected.
func (StringUtils) IsValidUsername(s string) bool {
	if !usernameRegex.MatchString(s) {
		return false
	}
	return !strings.Contains(s, "..")
}

// TimeUtils provides time utility functions
type TimeUtils struct{}

// StartOfDay returns start of day (00:00:00)
func (TimeUtils) StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns end of day (23:59:59.999999999)
func (TimeUtils) EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

// DayBucket returns the canonical analytics-day key for t: the
// calendar day of t with the time-of-day pinned to anchorHour:00:00.
// Every daily-scoped read and write for one request must reuse a
// single DayBucket value computed once per request.
func (TimeUtils) DayBucket(t time.Time, anchorHour int) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), anchorHour, 0, 0, 0, t.Location())
}

// Exported utility instances
var (
	Strings StringUtils
	Times   TimeUtils
)

// GenerateRequestID generates a random request identifier
func GenerateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}
