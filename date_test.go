package pulse

import (
	"testing"
	"time"
)

func TestDateIsWeekend(t *testing.T) {
	testCases := []struct {
		date Date
		want bool
	}{
		{NewDate(2025, time.June, 2), false}, // Monday
		{NewDate(2025, time.June, 6), false}, // Friday
		{NewDate(2025, time.June, 7), true},  // Saturday
		{NewDate(2025, time.June, 8), true},  // Sunday
	}
	for _, tc := range testCases {
		if got := tc.date.IsWeekend(); got != tc.want {
			t.Errorf("%s (%s) IsWeekend() = %v, want %v", tc.date, tc.date.Weekday(), got, tc.want)
		}
	}
}

func TestDateOf(t *testing.T) {
	// The date is taken in the instant's own location.
	loc := time.FixedZone("IST", 5*3600+1800)
	instant := time.Date(2025, time.June, 7, 1, 0, 0, 0, loc)
	if got := DateOf(instant); got.String() != "2025-06-07" {
		t.Errorf("DateOf() = %s, want 2025-06-07", got)
	}
}

func TestDateAdd(t *testing.T) {
	d := NewDate(2025, time.June, 30)
	if got := d.Add(1).String(); got != "2025-07-01" {
		t.Errorf("Add(1) = %s, want 2025-07-01", got)
	}
	if got := d.Add(-30).String(); got != "2025-05-31" {
		t.Errorf("Add(-30) = %s, want 2025-05-31", got)
	}
}
