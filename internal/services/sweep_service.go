package services

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"tallybook/internal/logger"
)

// sweepConcurrency bounds how many slots settle in parallel during a
// sweep. Settlements are short transactions; the bound exists to keep
// the sweep from saturating the connection pool.
const sweepConcurrency = 8

// SweepReport summarizes one sweep run.
type SweepReport struct {
	Slots   int `json:"slots"`
	Settled int `json:"settled"`
	Failed  int `json:"failed"`
}

// sweepService drives scheduled continuation: it finds every slot with
// an elapsed active period and brings each current. Slots whose owners
// never log in still settle on time this way.
type sweepService struct {
	ledger BudgetLedgerer
	cont   ContinuationServicer
}

// NewSweepService creates a new SweepServicer.
func NewSweepService(ledger BudgetLedgerer, cont ContinuationServicer) SweepServicer {
	return &sweepService{ledger: ledger, cont: cont}
}

// Run settles all due slots as of now. One slot failing does not stop
// the others; failures are counted and logged, and the sweep as a whole
// only errors when the due-slot scan itself fails.
func (s *sweepService) Run(ctx context.Context, now time.Time) (*SweepReport, error) {
	keys, err := s.ledger.DueSlots(now)
	if err != nil {
		return nil, err
	}

	var settled, failed atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(sweepConcurrency)
	for _, key := range keys {
		key := key
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			if _, err := s.cont.Ensure(key, now); err != nil {
				failed.Add(1)
				logger.Get().Warnw("sweep: slot settlement failed",
					"owner_id", key.OwnerID,
					"book_id", key.BookID,
					"category_id", key.CategoryID,
					"error", err.Error(),
				)
				return nil
			}
			settled.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &SweepReport{
		Slots:   len(keys),
		Settled: int(settled.Load()),
		Failed:  int(failed.Load()),
	}
	logger.Get().Infow("sweep complete",
		"slots", report.Slots, "settled", report.Settled, "failed", report.Failed)
	return report, nil
}
