// Package dateutil provides calendar-day arithmetic over ISO formatted
// dates. The store keeps dates as YYYY-MM-DD text, which compares
// lexicographically in date order, so helpers here accept and return
// strings in that layout.
package dateutil

import (
	"fmt"
	"time"
)

const (
	// DateLayout is the canonical on-disk date format.
	DateLayout = "2006-01-02"
	// TimestampLayout is the canonical on-disk timestamp format.
	TimestampLayout = "2006-01-02 15:04:05"
)

// Today returns the current date in DateLayout.
func Today() string {
	return time.Now().Format(DateLayout)
}

// Now returns the current timestamp in TimestampLayout.
func Now() string {
	return time.Now().Format(TimestampLayout)
}

// Parse parses an ISO date string.
func Parse(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

// Format renders t in DateLayout.
func Format(t time.Time) string {
	return t.Format(DateLayout)
}

// AddDays shifts an ISO date by n calendar days.
func AddDays(day string, n int) (string, error) {
	t, err := Parse(day)
	if err != nil {
		return "", err
	}
	return Format(t.AddDate(0, 0, n)), nil
}

// DaysBetween returns the whole-day difference to - from. Negative when
// to precedes from.
func DaysBetween(from, to string) (int, error) {
	f, err := Parse(from)
	if err != nil {
		return 0, err
	}
	t, err := Parse(to)
	if err != nil {
		return 0, err
	}
	return int(t.Sub(f).Hours() / 24), nil
}

// Age returns full years elapsed between dob and the reference date,
// accounting for whether the birthday has passed yet that year.
func Age(dob, on string) (int, error) {
	b, err := Parse(dob)
	if err != nil {
		return 0, err
	}
	ref, err := Parse(on)
	if err != nil {
		return 0, err
	}
	years := ref.Year() - b.Year()
	if ref.Month() < b.Month() || (ref.Month() == b.Month() && ref.Day() < b.Day()) {
		years--
	}
	return years, nil
}

// WeekRange returns the Monday and Sunday of the week containing ref,
// shifted by offsetWeeks whole weeks (negative = past).
func WeekRange(ref string, offsetWeeks int) (monday, sunday string, err error) {
	t, err := Parse(ref)
	if err != nil {
		return "", "", err
	}
	// time.Weekday puts Sunday at 0; weeks here anchor on Monday.
	wd := int(t.Weekday()+6) % 7
	mon := t.AddDate(0, 0, -wd+7*offsetWeeks)
	return Format(mon), Format(mon.AddDate(0, 0, 6)), nil
}

// ResolveBirthDate applies the admission date-of-birth policy: a detailed
// birth date wins; otherwise an age converts to January 1 of
// currentYear-age with the year clamped to [1900, currentYear]; otherwise
// a bare birth year converts to January 1 of that year. Returns "" when
// nothing usable was supplied.
func ResolveBirthDate(detail *string, age *int, year int, now time.Time) string {
	if detail != nil && *detail != "" {
		return *detail
	}
	if age != nil {
		yr := now.Year() - *age
		if yr < 1900 {
			yr = 1900
		}
		if yr > now.Year() {
			yr = now.Year()
		}
		return fmt.Sprintf("%04d-01-01", yr)
	}
	if year > 0 {
		return fmt.Sprintf("%04d-01-01", year)
	}
	return ""
}

// OverlapDays returns the inclusive day count of the intersection of a
// stay [admission, discharge-or-∞) with a reporting window [start, end].
// Zero when the intervals do not meet.
func OverlapDays(admission string, discharge *string, start, end string) (int, error) {
	lo := admission
	if start > lo {
		lo = start
	}
	hi := end
	if discharge != nil && *discharge < hi {
		hi = *discharge
	}
	if lo > hi {
		return 0, nil
	}
	days, err := DaysBetween(lo, hi)
	if err != nil {
		return 0, err
	}
	return days + 1, nil
}
