package period

import (
	"testing"
	"time"
)

func date(s string) time.Time {
	t, ok := ParseDate(s)
	if !ok {
		panic("bad test date " + s)
	}
	return t
}

func TestRangeFor(t *testing.T) {
	cases := []struct {
		name string
		mode Mode
		ref  string
		want Range
	}{
		{"weekly midweek", Weekly, "2024-03-13", Range{"2024-03-11", "2024-03-17"}},
		{"weekly on monday", Weekly, "2024-03-11", Range{"2024-03-11", "2024-03-17"}},
		{"weekly on sunday", Weekly, "2024-03-17", Range{"2024-03-11", "2024-03-17"}},
		{"weekly across year", Weekly, "2025-01-01", Range{"2024-12-30", "2025-01-05"}},
		{"monthly", Monthly, "2024-03-13", Range{"2024-03-01", "2024-03-31"}},
		{"monthly leap february", Monthly, "2024-02-10", Range{"2024-02-01", "2024-02-29"}},
		{"monthly february", Monthly, "2023-02-10", Range{"2023-02-01", "2023-02-28"}},
		{"monthly thirty days", Monthly, "2024-04-30", Range{"2024-04-01", "2024-04-30"}},
		{"all time", AllTime, "2024-03-13", Range{}},
		{"unknown falls back to monthly", Mode("yearly"), "2024-03-13", Range{"2024-03-01", "2024-03-31"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := RangeFor(tc.mode, date(tc.ref)); got != tc.want {
				t.Errorf("RangeFor(%s, %s) = %+v, want %+v", tc.mode, tc.ref, got, tc.want)
			}
		})
	}
}

func TestWeeksOfMonth(t *testing.T) {
	t.Run("month starting midweek", func(t *testing.T) {
		weeks := WeeksOfMonth(2024, time.May)
		if len(weeks) != 5 {
			t.Fatalf("expected 5 weeks, got %d", len(weeks))
		}
		if weeks[0].Start != "2024-04-29" {
			t.Errorf("expected first week to start 2024-04-29, got %s", weeks[0].Start)
		}
		if weeks[4].End != "2024-06-02" {
			t.Errorf("expected last week to end 2024-06-02, got %s", weeks[4].End)
		}
	})

	t.Run("february starting monday", func(t *testing.T) {
		weeks := WeeksOfMonth(2021, time.February)
		if len(weeks) != 4 {
			t.Fatalf("expected 4 weeks, got %d", len(weeks))
		}
		if weeks[0].Start != "2021-02-01" || weeks[3].End != "2021-02-28" {
			t.Errorf("unexpected bounds %+v", weeks)
		}
	})

	t.Run("weeks are contiguous", func(t *testing.T) {
		weeks := WeeksOfMonth(2024, time.December)
		for i := 1; i < len(weeks); i++ {
			if DayBefore(weeks[i].Start) != weeks[i-1].End {
				t.Errorf("gap between %+v and %+v", weeks[i-1], weeks[i])
			}
		}
	})
}

func TestNormalizeYearMonth(t *testing.T) {
	today := date("2024-06-15")
	cases := []struct {
		name      string
		year      string
		month     string
		wantYear  int
		wantMonth time.Month
	}{
		{"valid", "2023", "2", 2023, time.February},
		{"empty", "", "", 2024, time.June},
		{"month zero", "2023", "0", 2023, time.June},
		{"month thirteen", "2023", "13", 2023, time.June},
		{"month text", "2023", "feb", 2023, time.June},
		{"year too small", "12", "3", 2024, time.March},
		{"year too large", "10000", "3", 2024, time.March},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			y, m := NormalizeYearMonth(tc.year, tc.month, today)
			if y != tc.wantYear || m != tc.wantMonth {
				t.Errorf("got %d-%d, want %d-%d", y, m, tc.wantYear, tc.wantMonth)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	for _, s := range []string{"2024-02-29", "1999-12-31"} {
		if !ValidDate(s) {
			t.Errorf("expected %s to be valid", s)
		}
	}
	for _, s := range []string{"", "2023-02-29", "2024-13-01", "2024-1-01", "01/02/2024", "2024-01-01T00:00:00Z"} {
		if ValidDate(s) {
			t.Errorf("expected %q to be invalid", s)
		}
	}
}

func TestDayBefore(t *testing.T) {
	cases := map[string]string{
		"2024-03-01": "2024-02-29",
		"2024-01-01": "2023-12-31",
		"garbage":    "",
	}
	for in, want := range cases {
		if got := DayBefore(in); got != want {
			t.Errorf("DayBefore(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestClampEnd(t *testing.T) {
	r := ClampEnd(Range{"2024-03-01", "2024-03-31"}, "2024-03-13")
	if r.End != "2024-03-13" {
		t.Errorf("expected end clamped to today, got %s", r.End)
	}
	if got := ClampEnd(Range{"2024-03-01", "2024-03-31"}, "2024-04-02"); got.End != "2024-03-31" {
		t.Errorf("expected end unchanged, got %s", got.End)
	}
	if got := ClampEnd(Range{}, "2024-03-13"); !got.Unbounded() {
		t.Errorf("expected unbounded range to stay unbounded, got %+v", got)
	}
}
