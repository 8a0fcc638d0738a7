package services

import (
	"testing"

	"tallybook/internal/pagination"
	"tallybook/internal/testutil"
)

func TestCreateBook(t *testing.T) {
	t.Run("defaults the currency", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBookService(db)
		user := testutil.CreateTestUser(t, db)

		book, err := svc.CreateBook(user.ID, "Household", "", "", nil)
		testutil.AssertNoError(t, err)
		if book.Currency != "USD" {
			t.Errorf("expected USD default, got %s", book.Currency)
		}
	})

	t.Run("requires a name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBookService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateBook(user.ID, "", "", "USD", nil)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("rejects a family the user did not create", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBookService(db)
		user := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		family := testutil.CreateTestFamily(t, db, other.ID)

		_, err := svc.CreateBook(user.ID, "Shared", "", "USD", &family.ID)
		testutil.AssertAppError(t, err, "FAMILY_NOT_FOUND")
	})
}

func TestGetUserBooks(t *testing.T) {
	t.Run("only the owner's books", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBookService(db)
		user := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)

		testutil.CreateTestBook(t, db, user.ID)
		testutil.CreateTestBook(t, db, user.ID)
		testutil.CreateTestBook(t, db, other.ID)

		page, err := svc.GetUserBooks(user.ID, pagination.PageRequest{})
		testutil.AssertNoError(t, err)
		if page.TotalItems != 2 {
			t.Errorf("expected 2 books, got %d", page.TotalItems)
		}
	})
}

func TestGetBookByID(t *testing.T) {
	t.Run("foreign book is not found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBookService(db)
		user := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		book := testutil.CreateTestBook(t, db, other.ID)

		_, err := svc.GetBookByID(user.ID, book.ID)
		testutil.AssertAppError(t, err, "BOOK_NOT_FOUND")
	})
}
