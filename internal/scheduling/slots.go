package scheduling

import "time"

// FindSlots walks window in duration steps from window.Start and keeps every
// step whose [start, start+duration) span overlaps no busy interval. A step
// that would run past window.End is not taken. The result is chronological
// and depends only on the inputs.
func FindSlots(window TimeWindow, busy []BusyInterval, duration time.Duration) []time.Time {
	if duration <= 0 || !window.Start.Before(window.End) {
		return nil
	}

	var slots []time.Time
	for current := window.Start; !current.Add(duration).After(window.End); current = current.Add(duration) {
		end := current.Add(duration)
		free := true
		for _, b := range busy {
			if b.Overlaps(current, end) {
				free = false
				break
			}
		}
		if free {
			slots = append(slots, current)
		}
	}
	return slots
}

// WorkingHourSlots keeps the slots whose local hour lies in the configured
// working hours, preserving order.
func (c Config) WorkingHourSlots(slots []time.Time) []time.Time {
	out := make([]time.Time, 0, len(slots))
	for _, s := range slots {
		if c.InWorkingHours(s) {
			out = append(out, s.In(c.Location))
		}
	}
	return out
}
