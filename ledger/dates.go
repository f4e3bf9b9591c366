/*
dates.go - Local-calendar date handling

PURPOSE:
  The system stores every date as a local (solar hijri) calendar string in
  "Y/M/D" form, e.g. "1403/5/8". This file is the ONLY place that parses or
  compares those strings. Everything else treats them as opaque keys.

GRACEFUL DEGRADATION:
  ToSortable returns 0 for ANY malformed input (wrong segment count,
  non-numeric segment) instead of returning an error. 0 sorts before all
  valid dates, so bounded range queries naturally exclude bad data and
  report rendering never crashes on it. This is deliberate and load-bearing;
  do not "fix" it into an error return.

MONTH ARITHMETIC:
  AddMonths moves to the next occurrence of the same day-of-month, clamping
  to the target month's length (months 1-6 have 31 days, 7-11 have 30,
  month 12 has 29, or 30 in leap years). This is calendar arithmetic, not a
  fixed 30-day offset.

SEE ALSO:
  - balance.go, reports package: range comparisons via ToSortable
  - clinic/payroll.go: due-date scanning and month advance
*/
package ledger

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// =============================================================================
// DATE NORMALIZER
// =============================================================================

// ToSortable converts a local-calendar "Y/M/D" string into an integer that
// sorts chronologically. Malformed input returns the sentinel 0, which sorts
// before every valid date; callers treat 0 as "excluded from range".
func ToSortable(date string) int {
	parts := strings.Split(date, "/")
	if len(parts) != 3 {
		return 0
	}
	y, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0
	}
	m, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0
	}
	d, err := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err != nil {
		return 0
	}
	if y <= 0 || m <= 0 || d <= 0 {
		return 0
	}
	return y*10000 + m*100 + d
}

// IsValid reports whether the string parses as a date at all.
func IsValid(date string) bool { return ToSortable(date) != 0 }

// InRange reports whether date falls in [from, to]. Empty bounds are open.
// Malformed dates are excluded from any bounded range.
func InRange(date, from, to string) bool {
	key := ToSortable(date)
	if from == "" && to == "" {
		return true
	}
	if key == 0 {
		return false
	}
	if from != "" && key < ToSortable(from) {
		return false
	}
	if to != "" && key > ToSortable(to) {
		return false
	}
	return true
}

// FormatDate renders date components in the system's unpadded "Y/M/D" form.
func FormatDate(y, m, d int) string {
	return fmt.Sprintf("%d/%d/%d", y, m, d)
}

// MonthLabel returns the "Y/M" pay-period label for a date, or "" for
// malformed input.
func MonthLabel(date string) string {
	key := ToSortable(date)
	if key == 0 {
		return ""
	}
	return fmt.Sprintf("%d/%d", key/10000, (key/100)%100)
}

// =============================================================================
// CALENDAR ARITHMETIC
// =============================================================================

// isLeapYear implements the 33-year cycle leap rule of the local calendar.
func isLeapYear(y int) bool {
	return (25*y+11)%33 < 8
}

// DaysInMonth returns the length of a local-calendar month.
func DaysInMonth(y, m int) int {
	switch {
	case m >= 1 && m <= 6:
		return 31
	case m >= 7 && m <= 11:
		return 30
	case m == 12:
		if isLeapYear(y) {
			return 30
		}
		return 29
	default:
		return 0
	}
}

// AddMonths advances a date by n calendar months, clamping the day to the
// target month's length. Malformed input returns an error; this function is
// used for scheduling, not rendering, so degradation would hide bugs.
func AddMonths(date string, n int) (string, error) {
	key := ToSortable(date)
	if key == 0 {
		return "", &ValidationError{Field: "date", Reason: fmt.Sprintf("unparseable date %q", date)}
	}
	y, m, d := key/10000, (key/100)%100, key%100

	months := y*12 + (m - 1) + n
	y, m = months/12, months%12+1
	if max := DaysInMonth(y, m); d > max {
		d = max
	}
	return FormatDate(y, m, d), nil
}

// =============================================================================
// TODAY SOURCE
// =============================================================================

// TodayFunc supplies "today" as a local-calendar string. Posters and the
// payroll generator take dates from their callers; only the scheduler and
// server wiring need a live source.
type TodayFunc func() string

// FromTime converts a Gregorian instant to the local-calendar "Y/M/D" string.
func FromTime(t time.Time) string {
	gy, gm, gd := t.Date()
	return fromGregorian(gy, int(gm), gd)
}

// Today returns the current local-calendar date.
func Today() string { return FromTime(time.Now()) }

// fromGregorian converts a Gregorian civil date to the local solar calendar.
// Standard integer conversion over the shared day count epoch.
func fromGregorian(gy, gm, gd int) string {
	gdm := [12]int{0, 31, 59, 90, 120, 151, 181, 212, 243, 273, 304, 334}

	gy2 := gy
	if gm > 2 {
		gy2 = gy + 1
	}
	days := 355666 + 365*gy + (gy2+3)/4 - (gy2+99)/100 + (gy2+399)/400 + gd + gdm[gm-1]

	jy := -1595 + 33*(days/12053)
	days %= 12053
	jy += 4 * (days / 1461)
	days %= 1461
	if days > 365 {
		jy += (days - 1) / 365
		days = (days - 1) % 365
	}

	var jm, jd int
	if days < 186 {
		jm = 1 + days/31
		jd = 1 + days%31
	} else {
		jm = 7 + (days-186)/30
		jd = 1 + (days-186)%30
	}
	return FormatDate(jy, jm, jd)
}
