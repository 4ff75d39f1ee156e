package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

const isoMillis = "2006-01-02T15:04:05.000Z"

var isoDatePrefix = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})`)

// Date parses an assorted date spelling. A bare YYYY-MM-DD prefix that the
// free-form parser rejects is pinned to 12:00 UTC so the calendar day survives
// any later time zone shift.
func Date(raw string) *time.Time {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	if t, err := dateparse.ParseIn(trimmed, time.UTC); err == nil {
		utc := t.UTC()
		return &utc
	}

	m := isoDatePrefix.FindStringSubmatch(trimmed)
	if m == nil {
		return nil
	}
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return nil
	}
	t := time.Date(year, time.Month(month), day, 12, 0, 0, 0, time.UTC)
	if t.Day() != day {
		return nil
	}
	return &t
}

// ISOInstant renders t as a UTC instant with millisecond precision.
func ISOInstant(t time.Time) string {
	return t.UTC().Format(isoMillis)
}

// DateString is Date followed by ISOInstant; empty when raw does not parse.
func DateString(raw string) string {
	t := Date(raw)
	if t == nil {
		return ""
	}
	return ISOInstant(*t)
}
