package services

import (
	"context"
	"testing"
	"time"

	"tallybook/internal/models"
	"tallybook/internal/period"
	"tallybook/internal/testutil"
)

func TestSweepRun(t *testing.T) {
	jan := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

	t.Run("settles every due slot", func(t *testing.T) {
		db, cont, ledger := newContinuationFixture(t)
		sweep := NewSweepService(ledger, cont)

		alice := testutil.CreateTestUser(t, db)
		bob := testutil.CreateTestUser(t, db)
		aliceBook := testutil.CreateTestBook(t, db, alice.ID)
		bobBook := testutil.CreateTestBook(t, db, bob.ID)

		_, err := cont.CreateBudget(alice.ID, alice.ID, models.OwnerKindAccount, aliceBook.ID, "",
			period.KindMonthly, 1, 1000, true, jan)
		testutil.AssertNoError(t, err)
		_, err = cont.CreateBudget(bob.ID, bob.ID, models.OwnerKindAccount, bobBook.ID, "",
			period.KindMonthly, 1, 2000, false, jan)
		testutil.AssertNoError(t, err)

		now := time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)
		report, err := sweep.Run(context.Background(), now)
		testutil.AssertNoError(t, err)

		if report.Slots != 2 || report.Settled != 2 || report.Failed != 0 {
			t.Errorf("unexpected report: %+v", report)
		}

		var active []models.BudgetPeriod
		testutil.AssertNoError(t, db.Where("status = ?", models.PeriodStatusActive).Find(&active).Error)
		if len(active) != 2 {
			t.Fatalf("expected 2 active periods after sweep, got %d", len(active))
		}
		for _, p := range active {
			if !p.Contains(now) {
				t.Errorf("active period [%v, %v) does not contain %v", p.StartDate, p.EndDate, now)
			}
		}
	})

	t.Run("nothing due is a clean no-op", func(t *testing.T) {
		db, cont, ledger := newContinuationFixture(t)
		sweep := NewSweepService(ledger, cont)

		user := testutil.CreateTestUser(t, db)
		book := testutil.CreateTestBook(t, db, user.ID)
		_, err := cont.CreateBudget(user.ID, user.ID, models.OwnerKindAccount, book.ID, "",
			period.KindMonthly, 1, 1000, true, jan)
		testutil.AssertNoError(t, err)

		report, err := sweep.Run(context.Background(), jan.AddDate(0, 0, 1))
		testutil.AssertNoError(t, err)
		if report.Slots != 0 || report.Settled != 0 {
			t.Errorf("unexpected report: %+v", report)
		}
	})
}
