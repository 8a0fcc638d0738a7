package services

import (
	"testing"
	"time"

	"tallybook/internal/models"
	"tallybook/internal/pagination"
	"tallybook/internal/period"
	"tallybook/internal/testutil"

	"gorm.io/gorm"
)

func newTransactionFixture(t *testing.T) (*gorm.DB, TransactionServicer, ContinuationServicer) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })
	spend := NewSpendService()
	ledger := NewBudgetLedger(db, spend)
	cont := NewContinuationService(db, ledger, spend)
	family := NewFamilyService(db)
	return db, NewTransactionService(db, family, cont), cont
}

func TestCreateTransaction(t *testing.T) {
	t.Run("books an expense for the user", func(t *testing.T) {
		db, svc, _ := newTransactionFixture(t)
		user := testutil.CreateTestUser(t, db)
		book := testutil.CreateTestBook(t, db, user.ID)

		tx, err := svc.CreateTransaction(user.ID, book.ID, nil, nil,
			models.TransactionTypeExpense, 1250, "groceries", time.Now())
		testutil.AssertNoError(t, err)
		if tx.UserID == nil || *tx.UserID != user.ID {
			t.Error("expected the booking to be attributed to the user")
		}
		if tx.FamilyMemberID != nil {
			t.Error("expected no member attribution")
		}
	})

	t.Run("custodial booking is attributed to the member", func(t *testing.T) {
		db, svc, _ := newTransactionFixture(t)
		user := testutil.CreateTestUser(t, db)
		book := testutil.CreateTestBook(t, db, user.ID)
		family := testutil.CreateTestFamily(t, db, user.ID)
		member := testutil.CreateTestCustodialMember(t, db, family.ID, user.ID)

		tx, err := svc.CreateTransaction(user.ID, book.ID, &member.ID, nil,
			models.TransactionTypeExpense, 500, "allowance spend", time.Now())
		testutil.AssertNoError(t, err)
		if tx.FamilyMemberID == nil || *tx.FamilyMemberID != member.ID {
			t.Error("expected the booking to be attributed to the member")
		}
		if tx.UserID != nil {
			t.Error("expected no user attribution")
		}
	})

	t.Run("booking brings the budget slot current first", func(t *testing.T) {
		db, svc, cont := newTransactionFixture(t)
		user := testutil.CreateTestUser(t, db)
		book := testutil.CreateTestBook(t, db, user.ID)

		// Configure a budget far in the past, then book today: the
		// booking must land in a freshly ensured current period.
		past := time.Now().AddDate(0, -3, 0)
		_, err := cont.CreateBudget(user.ID, user.ID, models.OwnerKindAccount, book.ID, "",
			period.KindMonthly, 1, 1000, true, past)
		testutil.AssertNoError(t, err)

		_, err = svc.CreateTransaction(user.ID, book.ID, nil, nil,
			models.TransactionTypeExpense, 100, "", time.Now())
		testutil.AssertNoError(t, err)

		var active models.BudgetPeriod
		testutil.AssertNoError(t, db.Where("owner_id = ? AND status = ?", user.ID, models.PeriodStatusActive).
			First(&active).Error)
		if !active.Contains(time.Now()) {
			t.Errorf("expected an active period containing now, got [%v, %v)", active.StartDate, active.EndDate)
		}
	})

	t.Run("rejects a foreign book", func(t *testing.T) {
		db, svc, _ := newTransactionFixture(t)
		user := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		book := testutil.CreateTestBook(t, db, other.ID)

		_, err := svc.CreateTransaction(user.ID, book.ID, nil, nil,
			models.TransactionTypeExpense, 100, "", time.Now())
		testutil.AssertAppError(t, err, "BOOK_NOT_FOUND")
	})

	t.Run("rejects a non-positive amount", func(t *testing.T) {
		db, svc, _ := newTransactionFixture(t)
		user := testutil.CreateTestUser(t, db)
		book := testutil.CreateTestBook(t, db, user.ID)

		_, err := svc.CreateTransaction(user.ID, book.ID, nil, nil,
			models.TransactionTypeExpense, 0, "", time.Now())
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("rejects a category from another book", func(t *testing.T) {
		db, svc, _ := newTransactionFixture(t)
		user := testutil.CreateTestUser(t, db)
		book := testutil.CreateTestBook(t, db, user.ID)
		otherBook := testutil.CreateTestBook(t, db, user.ID)
		cat := testutil.CreateTestCategory(t, db, otherBook.ID, models.CategoryTypeExpense)

		_, err := svc.CreateTransaction(user.ID, book.ID, nil, &cat.ID,
			models.TransactionTypeExpense, 100, "", time.Now())
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})
}

func TestGetBookTransactions(t *testing.T) {
	t.Run("filters by type and member", func(t *testing.T) {
		db, svc, _ := newTransactionFixture(t)
		user := testutil.CreateTestUser(t, db)
		book := testutil.CreateTestBook(t, db, user.ID)
		family := testutil.CreateTestFamily(t, db, user.ID)
		member := testutil.CreateTestCustodialMember(t, db, family.ID, user.ID)

		now := time.Now()
		testutil.CreateTestExpense(t, db, user.ID, book.ID, nil, 100, now)
		testutil.CreateTestMemberExpense(t, db, member.ID, book.ID, 200, now)

		expense := models.TransactionTypeExpense
		page, err := svc.GetBookTransactions(user.ID, book.ID,
			pagination.PageRequest{Page: 1, PageSize: 20},
			TransactionFilter{Type: &expense, FamilyMemberID: &member.ID})
		testutil.AssertNoError(t, err)
		if len(page.Data) != 1 || page.Data[0].Amount != 200 {
			t.Errorf("expected only the member booking, got %d rows", len(page.Data))
		}
	})
}
