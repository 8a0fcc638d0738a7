package services

import (
	"testing"
	"time"

	"tallybook/internal/period"
)

func TestPlanContinuation(t *testing.T) {
	jan := period.Current(time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), period.KindMonthly, 1)

	t.Run("empty when latest contains now", func(t *testing.T) {
		plan := PlanContinuation(jan, time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC))
		if len(plan) != 0 {
			t.Errorf("expected empty plan, got %d spans", len(plan))
		}
	})

	t.Run("empty when now predates the period", func(t *testing.T) {
		plan := PlanContinuation(jan, time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC))
		if len(plan) != 0 {
			t.Errorf("expected empty plan, got %d spans", len(plan))
		}
	})

	t.Run("single step for the adjacent period", func(t *testing.T) {
		plan := PlanContinuation(jan, time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC))
		if len(plan) != 1 {
			t.Fatalf("expected 1 span, got %d", len(plan))
		}
		if !plan[0].Start.Equal(jan.End) {
			t.Errorf("expected plan to start at %v, got %v", jan.End, plan[0].Start)
		}
	})

	t.Run("six month gap plans six contiguous periods", func(t *testing.T) {
		now := time.Date(2025, 7, 20, 0, 0, 0, 0, time.UTC)
		plan := PlanContinuation(jan, now)
		if len(plan) != 6 {
			t.Fatalf("expected 6 spans, got %d", len(plan))
		}

		prevEnd := jan.End
		for i, s := range plan {
			if !s.Start.Equal(prevEnd) {
				t.Errorf("span %d: expected start %v, got %v", i, prevEnd, s.Start)
			}
			prevEnd = s.End
		}
		if !plan[len(plan)-1].Contains(now) {
			t.Errorf("expected final span to contain %v", now)
		}
	})

	t.Run("yearly gap", func(t *testing.T) {
		y := period.Current(time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC), period.KindYearly, 1)
		plan := PlanContinuation(y, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
		if len(plan) != 2 {
			t.Fatalf("expected 2 spans, got %d", len(plan))
		}
	})
}
