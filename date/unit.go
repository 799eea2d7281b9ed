package date

import (
	"fmt"
	"strings"
)

// Unit is a calendar unit used to step through dates.
//
// Only Days, Weeks, Months, Years, Decades and Centuries are date-based; Hours
// and Minutes exist so that callers can name them and be told they are not
// supported at day granularity.
type Unit int

const (
	Days Unit = iota
	Weeks
	Months
	Years
	Decades
	Centuries
	Hours
	Minutes
)

func (u Unit) String() string {
	switch u {
	case Days:
		return "days"
	case Weeks:
		return "weeks"
	case Months:
		return "months"
	case Years:
		return "years"
	case Decades:
		return "decades"
	case Centuries:
		return "centuries"
	case Hours:
		return "hours"
	case Minutes:
		return "minutes"
	default:
		return fmt.Sprintf("unit(%d)", int(u))
	}
}

// IsDateBased reports whether u can be added to a Date.
func (u Unit) IsDateBased() bool { return u >= Days && u <= Centuries }

// ParseUnit parses a unit name, singular or plural, or its adverb form (daily, weekly...).
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "d", "day", "days", "daily":
		return Days, nil
	case "w", "week", "weeks", "weekly":
		return Weeks, nil
	case "m", "month", "months", "monthly":
		return Months, nil
	case "y", "year", "years", "yearly":
		return Years, nil
	case "decade", "decades":
		return Decades, nil
	case "century", "centuries":
		return Centuries, nil
	case "h", "hour", "hours", "hourly":
		return Hours, nil
	case "minute", "minutes":
		return Minutes, nil
	default:
		return Days, fmt.Errorf("unknown unit %q", s)
	}
}

// AddTo returns d moved by n units. It panics if u is not date-based.
func (u Unit) AddTo(d Date, n int) Date {
	switch u {
	case Days:
		return d.Add(n)
	case Weeks:
		return d.Add(7 * n)
	case Months:
		return d.AddMonths(n)
	case Years:
		return d.AddMonths(12 * n)
	case Decades:
		return d.AddMonths(120 * n)
	case Centuries:
		return d.AddMonths(1200 * n)
	default:
		panic(fmt.Sprintf("cannot add %s to a date", u))
	}
}

// Between returns the number of complete units between from and to.
// The result is negative if to is before from. It panics if u is not date-based.
func (u Unit) Between(from, to Date) int {
	switch u {
	case Days:
		return from.DaysUntil(to)
	case Weeks:
		return from.DaysUntil(to) / 7
	}
	months := (to.y-from.y)*12 + int(to.m-from.m)
	// an incomplete last month does not count
	if months > 0 && to.d < from.d {
		months--
	} else if months < 0 && to.d > from.d {
		months++
	}
	switch u {
	case Months:
		return months
	case Years:
		return months / 12
	case Decades:
		return months / 120
	case Centuries:
		return months / 1200
	default:
		panic(fmt.Sprintf("cannot count %s between dates", u))
	}
}
