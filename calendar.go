package folio

import (
	"time"

	"github.com/etnz/folio/date"
)

// maxMultiplier bounds the search for a multiple of a unit in AppropriateUnit.
const maxMultiplier = 300

// AppropriateUnit chooses a sampling unit and multiplier so that the number of
// samples between start and end lies within [min, max].
//
// Base units are tried from the coarsest (years) to the finest (days). When
// none fits, multiples 2 to 300 of each unit are tried, days first.
func AppropriateUnit(start, end date.Date, min, max int) (date.Unit, int, error) {
	switch {
	case !start.Before(end):
		return date.Days, 0, failf(ErrInvalidRange, "invalid range: start %s must be before end %s", start, end)
	case min < 1:
		return date.Days, 0, failf(ErrInvalidRange, "invalid range: minimum %d must be at least 1", min)
	case min >= max:
		return date.Days, 0, failf(ErrInvalidRange, "invalid range: minimum %d must be less than maximum %d", min, max)
	}
	fits := func(n int) bool { return n >= min && n <= max }

	for _, u := range []date.Unit{date.Years, date.Months, date.Weeks, date.Days} {
		if fits(u.Between(start, end)) {
			return u, 1, nil
		}
	}
	for _, u := range []date.Unit{date.Days, date.Weeks, date.Months, date.Years} {
		n := u.Between(start, end)
		for m := 2; m <= maxMultiplier; m++ {
			if fits(n / m) {
				return u, m, nil
			}
		}
	}
	return date.Days, 0, failf(ErrInvalidRange, "invalid range: no unit gives between %d and %d points from %s to %s", min, max, start, end)
}

// LastWeekdayOfPreviousUnit steps back length units from day and anchors the
// result on the last weekday of that period: the end of the month for months,
// the end of the year for years and above, the Friday for weeks.
func LastWeekdayOfPreviousUnit(day date.Date, unit date.Unit, length int) (date.Date, error) {
	if !unit.IsDateBased() {
		return date.Date{}, failf(ErrUnsupportedUnit, "unsupported unit %q", unit)
	}
	if length <= 0 {
		return date.Date{}, failf(ErrInvalidLength, "invalid length %d, must be positive", length)
	}
	d := unit.AddTo(day, -length)
	switch unit {
	case date.Months:
		d = d.EndOfMonth()
	case date.Years, date.Decades, date.Centuries:
		d = d.EndOfYear()
	case date.Weeks:
		// Friday of the same Monday based week.
		fromMonday := (int(d.Weekday()) + 6) % 7
		d = d.Add(4 - fromMonday)
	}
	return previousWeekday(d), nil
}

// previousWeekday returns d, or the Friday before it when d is on a weekend.
func previousWeekday(d date.Date) date.Date {
	switch d.Weekday() {
	case time.Saturday:
		return d.Add(-1)
	case time.Sunday:
		return d.Add(-2)
	}
	return d
}
