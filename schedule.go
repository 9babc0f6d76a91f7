package pulse

import "time"

// Schedule fires once a day at a fixed wall-clock time in a given location.
// Next is recomputed after every run rather than once at process start, so a
// daylight-saving shift moves the firing time with the wall clock.
type Schedule struct {
	Hour     int
	Minute   int
	Location *time.Location
}

// Next returns the first instant strictly after 'after' at which the
// schedule fires.
func (s Schedule) Next(after time.Time) time.Time {
	loc := s.Location
	if loc == nil {
		loc = time.Local
	}
	t := after.In(loc)
	next := time.Date(t.Year(), t.Month(), t.Day(), s.Hour, s.Minute, 0, 0, loc)
	if !next.After(after) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
