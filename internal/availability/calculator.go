package availability

import (
	"time"

	"github.com/jwalitptl/booking-api/internal/config"
	"github.com/jwalitptl/booking-api/internal/model"
)

// Calculator turns clinic hours, a service duration and a day's appointments
// into the bookable slot grid. It holds no state beyond the injected policy
// and is safe for concurrent use.
type Calculator struct {
	policy config.CalendarConfig
}

func NewCalculator(policy config.CalendarConfig) *Calculator {
	return &Calculator{policy: policy}
}

// DayAvailability is the computed result for one calendar day. TotalSlots
// counts every slot that fits within clinic hours, including slots excluded
// only by the same-day lead time; Available holds the bookable subset in
// ascending order.
type DayAvailability struct {
	TotalSlots int
	Available  []time.Time
}

// ComputeDay generates candidate slots for the given day on a grid aligned to
// local midnight, not to the request time. durationMin is the queried
// service's duration; durations resolves other services' durations for
// conflict intervals, falling back to durationMin for unknown services.
func (c *Calculator) ComputeDay(day time.Time, durationMin int, appointments []*model.Appointment, durations map[string]int, now time.Time) DayAvailability {
	dayStart := StartOfDay(day)
	close := dayStart.Add(time.Duration(c.policy.CloseMinuteOfDay) * time.Minute)
	threshold := now.Add(time.Duration(c.policy.SameDayLeadMinutes) * time.Minute)

	var result DayAvailability
	for offset := c.policy.OpenMinuteOfDay; offset+durationMin <= c.policy.CloseMinuteOfDay; offset += c.policy.SlotIntervalMinutes {
		slotStart := dayStart.Add(time.Duration(offset) * time.Minute)
		slotEnd := slotStart.Add(time.Duration(durationMin) * time.Minute)

		if slotEnd.After(close) {
			continue
		}

		result.TotalSlots++

		// Lead-time exclusion: too-soon slots still count toward capacity.
		if slotStart.Before(threshold) {
			continue
		}

		if !c.hasConflict(slotStart, slotEnd, appointments, durations, durationMin) {
			result.Available = append(result.Available, slotStart)
		}
	}

	return result
}

// hasConflict applies strict half-open interval intersection, so back-to-back
// appointments do not collide.
func (c *Calculator) hasConflict(slotStart, slotEnd time.Time, appointments []*model.Appointment, durations map[string]int, fallbackMin int) bool {
	for _, appt := range appointments {
		if !appt.Occupies() {
			continue
		}

		apptDuration, ok := durations[appt.ServiceID]
		if !ok || apptDuration <= 0 {
			apptDuration = fallbackMin
		}

		apptStart := appt.Date
		apptEnd := apptStart.Add(time.Duration(apptDuration) * time.Minute)

		if apptStart.Before(slotEnd) && apptEnd.After(slotStart) {
			return true
		}
	}
	return false
}
