package availability

import (
	"fmt"
	"time"

	"github.com/jwalitptl/booking-api/internal/model"
)

// ParseDateOnly parses a YYYY-MM-DD string as local midnight in loc.
func ParseDateOnly(value string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(model.DateKeyFormat, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", value, err)
	}
	return t, nil
}

// DateKey formats an instant as its local calendar date.
func DateKey(t time.Time) string {
	return t.Format(model.DateKeyFormat)
}

// StartOfDay truncates an instant to local midnight.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last representable instant of the local day.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

// DaysBetween counts calendar days from start to end, ignoring clock time.
// The dates are re-anchored in UTC so DST transitions cannot skew the count.
func DaysBetween(start, end time.Time) int {
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	days := int(e.Sub(s) / (24 * time.Hour))
	if days < 0 {
		return -days
	}
	return days
}

// GroupByDay buckets appointments under their local calendar date key.
func GroupByDay(appointments []*model.Appointment, loc *time.Location) map[string][]*model.Appointment {
	grouped := make(map[string][]*model.Appointment)
	for _, appt := range appointments {
		key := DateKey(appt.Date.In(loc))
		grouped[key] = append(grouped[key], appt)
	}
	return grouped
}
