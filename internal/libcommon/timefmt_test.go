package libcommon

import (
	"testing"
	"time"
)

func fixedClock(t time.Time) Clock {
	return ClockFunc(func() time.Time { return t })
}

func TestTimeFormatter_Buckets(t *testing.T) {
	now := time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC)
	f := NewTimeFormatter(fixedClock(now), nil)

	cases := []struct {
		name string
		ago  time.Duration
		want string
	}{
		{"30 seconds", 30 * time.Second, "just now"},
		{"59.999 seconds", time.Minute - time.Millisecond, "just now"},
		{"1 minute", time.Minute, "1 minutes ago"},
		{"5 minutes", 5 * time.Minute, "5 minutes ago"},
		{"59 minutes", 59*time.Minute + 59*time.Second, "59 minutes ago"},
		{"3 hours", 3 * time.Hour, "3 hours ago"},
		{"23 hours", 23*time.Hour + 59*time.Minute, "23 hours ago"},
		{"2 days", 48 * time.Hour, "2 days ago"},
		{"6 days", 6*24*time.Hour + 23*time.Hour, "6 days ago"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := now.Add(-tc.ago).Format(time.RFC3339Nano)
			if got := f.Format(in); got != tc.want {
				t.Fatalf("Format(%q) = %q, want %q", in, got, tc.want)
			}
		})
	}
}

func TestTimeFormatter_OlderThanAWeekReturnsDatePart(t *testing.T) {
	now := time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC)
	f := NewTimeFormatter(fixedClock(now), nil)

	in := "2025-03-10T08:30:00Z"
	if got := f.Format(in); got != "2025-03-10" {
		t.Fatalf("Format(%q) = %q, want 2025-03-10", in, got)
	}
	if got := f.Format("2025-01-02"); got != "2025-01-02" {
		t.Fatalf("Format(date only) = %q, want 2025-01-02", got)
	}
}

func TestTimeFormatter_LocalDateTimeWithoutZone(t *testing.T) {
	now := time.Date(2025, 3, 20, 12, 0, 0, 0, time.Local)
	f := NewTimeFormatter(fixedClock(now), nil)

	if got := f.Format("2025-03-20T11:55:00"); got != "5 minutes ago" {
		t.Fatalf("Format = %q, want 5 minutes ago", got)
	}
	if got := f.Format("2025-03-20T09:00:00.123456"); got != "3 hours ago" {
		t.Fatalf("Format = %q, want 3 hours ago", got)
	}
}

func TestTimeFormatter_FutureIsJustNow(t *testing.T) {
	now := time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC)
	f := NewTimeFormatter(fixedClock(now), nil)

	for _, ahead := range []time.Duration{time.Second, 2 * time.Hour, 400 * 24 * time.Hour} {
		in := now.Add(ahead).Format(time.RFC3339)
		if got := f.Format(in); got != "just now" {
			t.Fatalf("Format(%q) = %q, want just now", in, got)
		}
	}
}

func TestTimeFormatter_UnparseableReturnsDatePart(t *testing.T) {
	f := NewTimeFormatter(fixedClock(time.Now()), nil)
	if got := f.Format("yesterday"); got != "yesterday" {
		t.Fatalf("Format = %q, want input unchanged", got)
	}
	if got := f.Format("soonTlater"); got != "soon" {
		t.Fatalf("Format = %q, want text before T", got)
	}
	if got := f.Format(""); got != "" {
		t.Fatalf("Format(empty) = %q, want empty", got)
	}
}

type shoutPhrases struct{}

func (shoutPhrases) JustNow() string       { return "NOW" }
func (shoutPhrases) MinutesAgo(int) string { return "MIN" }
func (shoutPhrases) HoursAgo(int) string   { return "HOUR" }
func (shoutPhrases) DaysAgo(int) string    { return "DAY" }

func TestTimeFormatter_CustomPhrases(t *testing.T) {
	now := time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC)
	f := NewTimeFormatter(fixedClock(now), shoutPhrases{})
	if got := f.Format(now.Add(-2 * time.Hour).Format(time.RFC3339)); got != "HOUR" {
		t.Fatalf("Format = %q, want HOUR", got)
	}
}

func TestFormatTime_UsesWallClock(t *testing.T) {
	in := time.Now().Add(-10 * time.Second).Format(time.RFC3339Nano)
	if got := FormatTime(in); got != "just now" {
		t.Fatalf("FormatTime(%q) = %q, want just now", in, got)
	}
}
