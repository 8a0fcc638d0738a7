package period

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestClampDay(t *testing.T) {
	cases := []struct {
		year  int
		month time.Month
		day   int
		want  int
	}{
		{2025, time.January, 31, 31},
		{2025, time.February, 31, 28},
		{2024, time.February, 31, 29}, // leap year
		{2025, time.April, 31, 30},
		{2025, time.February, 15, 15},
		{2025, time.June, 1, 1},
	}
	for _, c := range cases {
		if got := ClampDay(c.year, c.month, c.day); got != c.want {
			t.Errorf("ClampDay(%d, %s, %d) = %d, want %d", c.year, c.month, c.day, got, c.want)
		}
	}
}

func TestCurrentMonthly(t *testing.T) {
	t.Run("first_of_month_anchor", func(t *testing.T) {
		s := Current(date(2025, time.July, 14), KindMonthly, 1)
		if !s.Start.Equal(date(2025, time.July, 1)) {
			t.Errorf("start = %v, want 2025-07-01", s.Start)
		}
		if !s.End.Equal(date(2025, time.August, 1)) {
			t.Errorf("end = %v, want 2025-08-01", s.End)
		}
	})

	t.Run("before_refresh_day_falls_in_previous_window", func(t *testing.T) {
		s := Current(date(2025, time.July, 10), KindMonthly, 15)
		if !s.Start.Equal(date(2025, time.June, 15)) {
			t.Errorf("start = %v, want 2025-06-15", s.Start)
		}
		if !s.End.Equal(date(2025, time.July, 15)) {
			t.Errorf("end = %v, want 2025-07-15", s.End)
		}
	})

	t.Run("on_refresh_day_starts_new_window", func(t *testing.T) {
		s := Current(date(2025, time.July, 15), KindMonthly, 15)
		if !s.Start.Equal(date(2025, time.July, 15)) {
			t.Errorf("start = %v, want 2025-07-15", s.Start)
		}
	})

	t.Run("clamped_february", func(t *testing.T) {
		s := Current(date(2025, time.February, 27), KindMonthly, 31)
		if !s.Start.Equal(date(2025, time.January, 31)) {
			t.Errorf("start = %v, want 2025-01-31", s.Start)
		}
		if !s.End.Equal(date(2025, time.February, 28)) {
			t.Errorf("end = %v, want 2025-02-28", s.End)
		}
	})

	t.Run("january_rollback_across_year", func(t *testing.T) {
		s := Current(date(2025, time.January, 3), KindMonthly, 10)
		if !s.Start.Equal(date(2024, time.December, 10)) {
			t.Errorf("start = %v, want 2024-12-10", s.Start)
		}
		if !s.End.Equal(date(2025, time.January, 10)) {
			t.Errorf("end = %v, want 2025-01-10", s.End)
		}
	})
}

func TestCurrentYearly(t *testing.T) {
	t.Run("after_anchor", func(t *testing.T) {
		s := Current(date(2025, time.June, 1), KindYearly, 1)
		if !s.Start.Equal(date(2025, time.January, 1)) {
			t.Errorf("start = %v, want 2025-01-01", s.Start)
		}
		if !s.End.Equal(date(2026, time.January, 1)) {
			t.Errorf("end = %v, want 2026-01-01", s.End)
		}
	})

	t.Run("before_anchor", func(t *testing.T) {
		s := Current(date(2025, time.January, 5), KindYearly, 15)
		if !s.Start.Equal(date(2024, time.January, 15)) {
			t.Errorf("start = %v, want 2024-01-15", s.Start)
		}
		if !s.End.Equal(date(2025, time.January, 15)) {
			t.Errorf("end = %v, want 2025-01-15", s.End)
		}
	})
}

func TestNextContiguity(t *testing.T) {
	t.Run("clamp_snaps_back_after_short_month", func(t *testing.T) {
		s := Current(date(2025, time.January, 31), KindMonthly, 31)
		s = Next(s) // [Feb 28, Mar 31)
		if !s.Start.Equal(date(2025, time.February, 28)) {
			t.Errorf("start = %v, want 2025-02-28", s.Start)
		}
		if !s.End.Equal(date(2025, time.March, 31)) {
			t.Errorf("end = %v, want 2025-03-31", s.End)
		}
	})

	t.Run("monthly_chain_has_no_gaps", func(t *testing.T) {
		s := Current(date(2024, time.January, 20), KindMonthly, 31)
		for i := 0; i < 26; i++ {
			next := Next(s)
			if !next.Start.Equal(s.End) {
				t.Fatalf("step %d: next.Start = %v, prev.End = %v", i, next.Start, s.End)
			}
			if !next.End.After(next.Start) {
				t.Fatalf("step %d: empty period %v..%v", i, next.Start, next.End)
			}
			s = next
		}
	})

	t.Run("yearly_chain", func(t *testing.T) {
		s := Current(date(2024, time.March, 1), KindYearly, 1)
		next := Next(s)
		if !next.Start.Equal(s.End) {
			t.Errorf("next.Start = %v, want %v", next.Start, s.End)
		}
		if !next.End.Equal(date(2026, time.January, 1)) {
			t.Errorf("next.End = %v, want 2026-01-01", next.End)
		}
	})
}

func TestContains(t *testing.T) {
	s := Current(date(2025, time.July, 1), KindMonthly, 1)

	if !s.Contains(s.Start) {
		t.Error("expected start to be inside the window")
	}
	if s.Contains(s.End) {
		t.Error("expected end to be outside the window (half-open)")
	}
	if !s.Contains(s.End.Add(-time.Nanosecond)) {
		t.Error("expected instant before end to be inside the window")
	}
}

func TestLabel(t *testing.T) {
	monthly := Current(date(2025, time.July, 14), KindMonthly, 1)
	if got := Label(monthly); got != "2025-07" {
		t.Errorf("monthly label = %q, want 2025-07", got)
	}

	yearly := Current(date(2025, time.July, 14), KindYearly, 1)
	if got := Label(yearly); got != "2025" {
		t.Errorf("yearly label = %q, want 2025", got)
	}
}

func TestValidate(t *testing.T) {
	if err := Validate(KindMonthly, 15); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := Validate(Kind("weekly"), 1); err == nil {
		t.Error("expected error for unknown kind")
	}
	if err := Validate(KindMonthly, 0); err == nil {
		t.Error("expected error for refresh day 0")
	}
	if err := Validate(KindMonthly, 32); err == nil {
		t.Error("expected error for refresh day 32")
	}
}
