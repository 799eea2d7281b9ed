package folio

import (
	"errors"
	"testing"

	"github.com/etnz/folio/date"
)

func TestAppropriateUnit(t *testing.T) {
	end := date.MustParse("2024-06-28")
	tests := []struct {
		name      string
		start     date.Date
		min, max  int
		wantUnit  date.Unit
		wantMulti int
	}{
		{"few days", end.Add(-4), 3, 50, date.Days, 1},
		{"fifty days", end.Add(-50), 2, 30, date.Weeks, 1},
		{"three years", date.MustParse("2021-06-01"), 3, 20, date.Years, 1},
		{"one year in months", date.MustParse("2023-06-28"), 6, 20, date.Months, 1},
		{"multiple of days", end.Add(-100), 10, 12, date.Days, 8},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			unit, multi, err := AppropriateUnit(tc.start, end, tc.min, tc.max)
			if err != nil {
				t.Fatalf("AppropriateUnit() unexpected error: %v", err)
			}
			if unit != tc.wantUnit || multi != tc.wantMulti {
				t.Errorf("AppropriateUnit() = (%v, %d), want (%v, %d)", unit, multi, tc.wantUnit, tc.wantMulti)
			}
		})
	}
}

func TestAppropriateUnit_InvalidRange(t *testing.T) {
	end := date.MustParse("2024-06-28")
	tests := []struct {
		name     string
		start    date.Date
		min, max int
	}{
		{"start after end", end.Add(1), 3, 50},
		{"start equals end", end, 3, 50},
		{"min equals max", end.Add(-10), 5, 5},
		{"min greater than max", end.Add(-10), 6, 5},
		{"min below one", end.Add(-10), 0, 5},
		{"no fit", end.Add(-1), 2, 3},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := AppropriateUnit(tc.start, end, tc.min, tc.max)
			if !errors.Is(err, ErrInvalidRange) {
				t.Errorf("AppropriateUnit() error = %v, want %v", err, ErrInvalidRange)
			}
		})
	}
}

func TestLastWeekdayOfPreviousUnit(t *testing.T) {
	tests := []struct {
		on     string
		unit   date.Unit
		length int
		want   string
	}{
		{"2024-03-04", date.Weeks, 2, "2024-02-23"},
		{"2024-03-04", date.Months, 2, "2024-01-31"},
		{"2024-03-04", date.Days, 1, "2024-03-01"},  // sunday steps back to friday
		{"2024-03-05", date.Days, 3, "2024-03-01"},  // saturday steps back to friday
		{"2024-03-20", date.Days, 1, "2024-03-19"},  // plain weekday
		{"2024-07-15", date.Months, 1, "2024-06-28"}, // june 30th is a sunday
		{"2024-03-04", date.Years, 1, "2023-12-29"},  // 2023-12-31 is a sunday
		{"2024-03-04", date.Decades, 1, "2014-12-31"},
		{"2024-03-04", date.Centuries, 1, "1924-12-31"},
		{"2024-03-10", date.Weeks, 1, "2024-03-01"}, // a sunday closes the week started on monday
	}
	for _, tc := range tests {
		got, err := LastWeekdayOfPreviousUnit(date.MustParse(tc.on), tc.unit, tc.length)
		if err != nil {
			t.Errorf("LastWeekdayOfPreviousUnit(%s, %v, %d) unexpected error: %v", tc.on, tc.unit, tc.length, err)
			continue
		}
		if got != date.MustParse(tc.want) {
			t.Errorf("LastWeekdayOfPreviousUnit(%s, %v, %d) = %v, want %s", tc.on, tc.unit, tc.length, got, tc.want)
		}
	}
}

func TestLastWeekdayOfPreviousUnit_Errors(t *testing.T) {
	on := date.MustParse("2024-03-04")
	if _, err := LastWeekdayOfPreviousUnit(on, date.Hours, 1); !errors.Is(err, ErrUnsupportedUnit) {
		t.Errorf("hours error = %v, want %v", err, ErrUnsupportedUnit)
	}
	if _, err := LastWeekdayOfPreviousUnit(on, date.Days, 0); !errors.Is(err, ErrInvalidLength) {
		t.Errorf("zero length error = %v, want %v", err, ErrInvalidLength)
	}
	if _, err := LastWeekdayOfPreviousUnit(on, date.Weeks, -1); !errors.Is(err, ErrInvalidLength) {
		t.Errorf("negative length error = %v, want %v", err, ErrInvalidLength)
	}
}
