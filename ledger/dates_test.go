package ledger_test

import (
	"testing"
	"time"

	"github.com/atlasclinic/ledger-engine/ledger"
)

// =============================================================================
// DATE NORMALIZER TESTS
// =============================================================================

func TestToSortable_OrdersChronologically(t *testing.T) {
	// GIVEN: two dates in the same month where string comparison misorders
	// WHEN: normalizing with ToSortable
	// THEN: the numeric keys order chronologically

	day8 := ledger.ToSortable("1403/5/8")
	day10 := ledger.ToSortable("1403/5/10")
	if day8 >= day10 {
		t.Errorf("expected 1403/5/8 (%d) to sort before 1403/5/10 (%d)", day8, day10)
	}

	// Month and year boundaries order too
	if ledger.ToSortable("1403/6/1") <= ledger.ToSortable("1403/5/31") {
		t.Error("expected month boundary to order chronologically")
	}
	if ledger.ToSortable("1404/1/1") <= ledger.ToSortable("1403/12/29") {
		t.Error("expected year boundary to order chronologically")
	}
}

func TestToSortable_MalformedReturnsZero(t *testing.T) {
	// GIVEN: malformed date strings of every shape
	// WHEN: normalizing
	// THEN: all return the sentinel 0, never panic

	cases := []string{
		"not-a-date",
		"",
		"1403/5",
		"1403/5/8/9",
		"1403/x/8",
		"y/5/8",
		"1403/5/z",
		"-1403/5/8",
		"1403/0/8",
		"1403/5/0",
	}
	for _, input := range cases {
		if got := ledger.ToSortable(input); got != 0 {
			t.Errorf("ToSortable(%q) = %d, want 0", input, got)
		}
	}
}

func TestInRange_BoundsAndSentinels(t *testing.T) {
	// GIVEN: a bounded range
	// WHEN: testing dates inside, on the bounds, outside, and malformed
	// THEN: bounds are inclusive and malformed dates are excluded

	from, to := "1403/2/1", "1403/3/31"

	if !ledger.InRange("1403/2/1", from, to) {
		t.Error("lower bound should be inclusive")
	}
	if !ledger.InRange("1403/3/31", from, to) {
		t.Error("upper bound should be inclusive")
	}
	if ledger.InRange("1403/1/31", from, to) {
		t.Error("date before the range should be excluded")
	}
	if ledger.InRange("1403/4/1", from, to) {
		t.Error("date after the range should be excluded")
	}
	if ledger.InRange("garbage", from, to) {
		t.Error("malformed date should be excluded from a bounded range")
	}

	// Unbounded range includes everything, malformed included
	if !ledger.InRange("garbage", "", "") {
		t.Error("unbounded range should include everything")
	}
	// Half-open ranges still exclude malformed dates
	if ledger.InRange("garbage", "", to) {
		t.Error("malformed date should be excluded when an upper bound is set")
	}
}

func TestMonthLabel(t *testing.T) {
	if got := ledger.MonthLabel("1403/5/8"); got != "1403/5" {
		t.Errorf("MonthLabel = %q, want 1403/5", got)
	}
	if got := ledger.MonthLabel("junk"); got != "" {
		t.Errorf("MonthLabel of malformed input = %q, want empty", got)
	}
}

// =============================================================================
// CALENDAR ARITHMETIC TESTS
// =============================================================================

func TestAddMonths_SameDayNextMonth(t *testing.T) {
	got, err := ledger.AddMonths("1403/2/15", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "1403/3/15" {
		t.Errorf("AddMonths = %q, want 1403/3/15", got)
	}
}

func TestAddMonths_ClampsToShorterMonth(t *testing.T) {
	// GIVEN: the 31st of month 6 (last 31-day month)
	// WHEN: advancing one month into a 30-day month
	// THEN: the day clamps to 30

	got, err := ledger.AddMonths("1403/6/31", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "1403/7/30" {
		t.Errorf("AddMonths = %q, want 1403/7/30", got)
	}
}

func TestAddMonths_ClampsIntoMonthTwelve(t *testing.T) {
	// 1403 is a leap year (month 12 has 30 days), 1404 is not (29 days)
	got, err := ledger.AddMonths("1403/11/30", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "1403/12/30" {
		t.Errorf("leap year clamp = %q, want 1403/12/30", got)
	}

	got, err = ledger.AddMonths("1404/11/30", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "1404/12/29" {
		t.Errorf("common year clamp = %q, want 1404/12/29", got)
	}
}

func TestAddMonths_YearRollover(t *testing.T) {
	got, err := ledger.AddMonths("1403/12/29", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "1404/1/29" {
		t.Errorf("AddMonths = %q, want 1404/1/29", got)
	}
}

func TestAddMonths_MalformedInputErrors(t *testing.T) {
	if _, err := ledger.AddMonths("nope", 1); err == nil {
		t.Error("expected an error for malformed input")
	}
}

func TestDaysInMonth(t *testing.T) {
	if got := ledger.DaysInMonth(1403, 1); got != 31 {
		t.Errorf("month 1 = %d days, want 31", got)
	}
	if got := ledger.DaysInMonth(1403, 7); got != 30 {
		t.Errorf("month 7 = %d days, want 30", got)
	}
	if got := ledger.DaysInMonth(1403, 12); got != 30 {
		t.Errorf("month 12 of leap year = %d days, want 30", got)
	}
	if got := ledger.DaysInMonth(1404, 12); got != 29 {
		t.Errorf("month 12 of common year = %d days, want 29", got)
	}
}

// =============================================================================
// GREGORIAN CONVERSION TESTS
// =============================================================================

func TestFromTime_KnownDates(t *testing.T) {
	cases := []struct {
		gregorian time.Time
		want      string
	}{
		{time.Date(2024, time.July, 29, 12, 0, 0, 0, time.UTC), "1403/5/8"},
		{time.Date(2025, time.March, 21, 0, 0, 0, 0, time.UTC), "1404/1/1"},
	}
	for _, tc := range cases {
		if got := ledger.FromTime(tc.gregorian); got != tc.want {
			t.Errorf("FromTime(%v) = %q, want %q", tc.gregorian.Format("2006-01-02"), got, tc.want)
		}
	}
}
