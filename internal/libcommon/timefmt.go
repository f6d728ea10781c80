package libcommon

import (
	"fmt"
	"strings"
	"time"
)

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the wall clock.
var SystemClock Clock = ClockFunc(time.Now)

// Phrases renders the relative-age buckets.
type Phrases interface {
	JustNow() string
	MinutesAgo(n int) string
	HoursAgo(n int) string
	DaysAgo(n int) string
}

type englishPhrases struct{}

func (englishPhrases) JustNow() string         { return "just now" }
func (englishPhrases) MinutesAgo(n int) string { return fmt.Sprintf("%d minutes ago", n) }
func (englishPhrases) HoursAgo(n int) string   { return fmt.Sprintf("%d hours ago", n) }
func (englishPhrases) DaysAgo(n int) string    { return fmt.Sprintf("%d days ago", n) }

// EnglishPhrases is the default phrase set.
var EnglishPhrases Phrases = englishPhrases{}

// TimeFormatter turns ISO-8601 timestamps into relative ages.
type TimeFormatter struct {
	clock   Clock
	phrases Phrases
}

// NewTimeFormatter builds a formatter. Nil arguments fall back to the system
// clock and English phrases.
func NewTimeFormatter(clock Clock, phrases Phrases) *TimeFormatter {
	if clock == nil {
		clock = SystemClock
	}
	if phrases == nil {
		phrases = EnglishPhrases
	}
	return &TimeFormatter{clock: clock, phrases: phrases}
}

var defaultFormatter = NewTimeFormatter(nil, nil)

// FormatTime formats dateStr relative to the wall clock in English.
func FormatTime(dateStr string) string {
	return defaultFormatter.Format(dateStr)
}

// Format returns "just now", "N minutes ago", "N hours ago" or "N days ago",
// and the date part of dateStr once it is a week old or cannot be parsed.
// Timestamps in the future count as zero elapsed.
func (f *TimeFormatter) Format(dateStr string) string {
	date, ok := parseTimestamp(dateStr)
	if !ok {
		return datePart(dateStr)
	}
	ms := f.clock.Now().Sub(date).Milliseconds()
	if ms < 0 {
		ms = 0
	}
	minutes := ms / 60000
	hours := ms / 3600000
	days := ms / 86400000

	switch {
	case minutes < 1:
		return f.phrases.JustNow()
	case minutes < 60:
		return f.phrases.MinutesAgo(int(minutes))
	case hours < 24:
		return f.phrases.HoursAgo(int(hours))
	case days < 7:
		return f.phrases.DaysAgo(int(days))
	default:
		return datePart(dateStr)
	}
}

func datePart(dateStr string) string {
	before, _, _ := strings.Cut(dateStr, "T")
	return before
}

// Zone-less layouts are what the backend emits for LocalDateTime fields; they
// are read in local time. A bare date is read as UTC.
var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
}

func parseTimestamp(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, true
		}
	}
	if t, err := time.Parse(time.DateOnly, value); err == nil {
		return t, true
	}
	return time.Time{}, false
}
