package integration

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseUpstreamDate parses the upstream "DD.MM.YYYY HH:MM:SS" timestamp
// into local time. The format is fixed but hand-assembled upstream, so the
// value is taken apart field by field rather than trusting time.Parse to
// reject every malformed variant the API has been seen to produce.
func ParseUpstreamDate(value string) (time.Time, error) {
	parts := strings.Fields(strings.TrimSpace(value))
	if len(parts) != 2 {
		return time.Time{}, fmt.Errorf("invalid upstream date %q: expected date and time parts", value)
	}

	dateParts := strings.Split(parts[0], ".")
	if len(dateParts) != 3 {
		return time.Time{}, fmt.Errorf("invalid upstream date %q: expected DD.MM.YYYY", value)
	}
	timeParts := strings.Split(parts[1], ":")
	if len(timeParts) != 3 {
		return time.Time{}, fmt.Errorf("invalid upstream date %q: expected HH:MM:SS", value)
	}

	fields := make([]int, 0, 6)
	for _, s := range append(dateParts, timeParts...) {
		n, err := strconv.Atoi(s)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid upstream date %q: %w", value, err)
		}
		fields = append(fields, n)
	}

	day, month, year := fields[0], fields[1], fields[2]
	hour, minute, second := fields[3], fields[4], fields[5]

	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("invalid upstream date %q: calendar fields out of range", value)
	}
	if hour > 23 || minute > 59 || second > 59 {
		return time.Time{}, fmt.Errorf("invalid upstream date %q: clock fields out of range", value)
	}

	t := time.Date(year, time.Month(month), day, hour, minute, second, 0, time.Local)
	// time.Date normalizes overflow (e.g. 31.02 becomes 02/03); reject it.
	if t.Day() != day || t.Month() != time.Month(month) || t.Year() != year {
		return time.Time{}, fmt.Errorf("invalid upstream date %q: no such calendar day", value)
	}
	return t, nil
}

// EffectiveOrderDate picks the order date for analytics: the payment time
// when present, otherwise the creation time.
func EffectiveOrderDate(paidAt *string, createdAt string) (time.Time, error) {
	if paidAt != nil && strings.TrimSpace(*paidAt) != "" {
		return ParseUpstreamDate(*paidAt)
	}
	return ParseUpstreamDate(createdAt)
}
