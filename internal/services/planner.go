package services

import (
	"time"

	"tallybook/internal/period"
)

// maxPlanSteps caps how many missing periods a single plan may synthesize.
// A slot untouched for this long (25+ years monthly) points at corrupt
// data, not a real gap.
const maxPlanSteps = 320

// PlanContinuation returns the chain of periods that must exist after
// latest so that the final one contains now. The first planned span
// starts exactly at latest.End; consecutive spans are contiguous. The
// result is empty when latest already contains now or now predates it.
//
// Planning is pure calendar walking. Amounts are resolved later, during
// settlement, because each period's incoming rollover depends on the
// settled figures of the one before it.
func PlanContinuation(latest period.Span, now time.Time) []period.Span {
	if now.Before(latest.End) {
		return nil
	}

	var plan []period.Span
	cur := latest
	for len(plan) < maxPlanSteps {
		cur = period.Next(cur)
		plan = append(plan, cur)
		if cur.Contains(now) {
			break
		}
	}
	return plan
}
