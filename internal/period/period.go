// Package period implements the pure calendar math for budget periods.
// A period is a half-open interval [Start, End) anchored on a refresh day:
// the day of month (monthly) or day of January (yearly) a budget renews on.
// Refresh days past the end of a short month clamp to its last day, but the
// anchor day is preserved so the following period snaps back (Jan 31 ->
// Feb 28 -> Mar 31).
package period

import (
	"fmt"
	"time"
)

// Kind is the cadence of a budget period.
type Kind string

const (
	KindMonthly Kind = "monthly"
	KindYearly  Kind = "yearly"
)

// Span is one budget period window. End equals the next period's Start.
type Span struct {
	Kind       Kind
	RefreshDay int
	Start      time.Time
	End        time.Time
}

// Contains reports whether t falls inside the half-open window [Start, End).
func (s Span) Contains(t time.Time) bool {
	return !t.Before(s.Start) && t.Before(s.End)
}

// ClampDay returns day limited to the number of days in the given month.
func ClampDay(year int, month time.Month, day int) int {
	last := daysIn(year, month)
	if day > last {
		return last
	}
	return day
}

// daysIn returns the number of days in the month. The zeroth day of the
// following month normalizes to the last day of this one.
func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// anchor returns midnight on the clamped refresh day of the given month,
// in the given location.
func anchor(year int, month time.Month, refreshDay int, loc *time.Location) time.Time {
	return time.Date(year, month, ClampDay(year, month, refreshDay), 0, 0, 0, 0, loc)
}

// Current computes the period of the given kind containing now.
func Current(now time.Time, kind Kind, refreshDay int) Span {
	loc := now.Location()

	if kind == KindYearly {
		candidate := anchor(now.Year(), time.January, refreshDay, loc)
		if now.Before(candidate) {
			return Span{
				Kind:       kind,
				RefreshDay: refreshDay,
				Start:      anchor(now.Year()-1, time.January, refreshDay, loc),
				End:        candidate,
			}
		}
		return Span{
			Kind:       kind,
			RefreshDay: refreshDay,
			Start:      candidate,
			End:        anchor(now.Year()+1, time.January, refreshDay, loc),
		}
	}

	candidate := anchor(now.Year(), now.Month(), refreshDay, loc)
	if now.Before(candidate) {
		prev := time.Date(now.Year(), now.Month()-1, 1, 0, 0, 0, 0, loc)
		return Span{
			Kind:       kind,
			RefreshDay: refreshDay,
			Start:      anchor(prev.Year(), prev.Month(), refreshDay, loc),
			End:        candidate,
		}
	}
	next := time.Date(now.Year(), now.Month()+1, 1, 0, 0, 0, 0, loc)
	return Span{
		Kind:       kind,
		RefreshDay: refreshDay,
		Start:      candidate,
		End:        anchor(next.Year(), next.Month(), refreshDay, loc),
	}
}

// Next returns the period immediately following s. Its Start equals s.End
// exactly; continuation relies on that contiguity.
func Next(s Span) Span {
	loc := s.End.Location()

	if s.Kind == KindYearly {
		return Span{
			Kind:       s.Kind,
			RefreshDay: s.RefreshDay,
			Start:      s.End,
			End:        anchor(s.End.Year()+1, time.January, s.RefreshDay, loc),
		}
	}

	// s.End is the anchor of the month the next period starts in.
	after := time.Date(s.End.Year(), s.End.Month()+1, 1, 0, 0, 0, 0, loc)
	return Span{
		Kind:       s.Kind,
		RefreshDay: s.RefreshDay,
		Start:      s.End,
		End:        anchor(after.Year(), after.Month(), s.RefreshDay, loc),
	}
}

// Label renders the human period tag used in settlement history:
// "2006-01" for monthly periods, "2006" for yearly ones, keyed off the
// period start.
func Label(s Span) string {
	if s.Kind == KindYearly {
		return s.Start.Format("2006")
	}
	return s.Start.Format("2006-01")
}

// Validate checks that the kind and refresh day form a usable anchor.
func Validate(kind Kind, refreshDay int) error {
	if kind != KindMonthly && kind != KindYearly {
		return fmt.Errorf("unknown period kind %q", kind)
	}
	if refreshDay < 1 || refreshDay > 31 {
		return fmt.Errorf("refresh day %d out of range 1-31", refreshDay)
	}
	return nil
}
