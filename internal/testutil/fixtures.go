package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"tallybook/internal/models"
	"tallybook/internal/period"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		Name:     fmt.Sprintf("Test User %d", nextID()),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestFamily creates a family with the given creator.
func CreateTestFamily(t *testing.T, db *gorm.DB, creatorID string) *models.Family {
	t.Helper()

	family := &models.Family{
		Name:      fmt.Sprintf("Test Family %d", nextID()),
		CreatorID: creatorID,
	}
	if err := db.Create(family).Error; err != nil {
		t.Fatalf("failed to create test family: %v", err)
	}
	return family
}

// CreateTestCustodialMember creates a custodial member guarded by the user.
func CreateTestCustodialMember(t *testing.T, db *gorm.DB, familyID, guardianID string) *models.FamilyMember {
	t.Helper()

	member := &models.FamilyMember{
		FamilyID:    familyID,
		GuardianID:  guardianID,
		Name:        fmt.Sprintf("Test Member %d", nextID()),
		IsCustodial: true,
	}
	if err := db.Create(member).Error; err != nil {
		t.Fatalf("failed to create test family member: %v", err)
	}
	return member
}

// CreateTestBook creates a book owned by the user.
func CreateTestBook(t *testing.T, db *gorm.DB, ownerID string) *models.Book {
	t.Helper()

	book := &models.Book{
		OwnerID:  ownerID,
		Name:     fmt.Sprintf("Test Book %d", nextID()),
		Currency: "USD",
	}
	if err := db.Create(book).Error; err != nil {
		t.Fatalf("failed to create test book: %v", err)
	}
	return book
}

// CreateTestCategory creates a category of the given type in the book.
func CreateTestCategory(t *testing.T, db *gorm.DB, bookID string, categoryType models.CategoryType) *models.Category {
	t.Helper()

	category := &models.Category{
		BookID: bookID,
		Name:   fmt.Sprintf("Test Category %d", nextID()),
		Type:   categoryType,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestExpense books an expense for the user in the book at the given date.
func CreateTestExpense(t *testing.T, db *gorm.DB, userID, bookID string, categoryID *string, amount int64, date time.Time) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		BookID:     bookID,
		UserID:     &userID,
		CategoryID: categoryID,
		Type:       models.TransactionTypeExpense,
		Amount:     amount,
		Date:       date,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test expense: %v", err)
	}
	return tx
}

// CreateTestMemberExpense books an expense attributed to a custodial member.
func CreateTestMemberExpense(t *testing.T, db *gorm.DB, memberID, bookID string, amount int64, date time.Time) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		BookID:         bookID,
		FamilyMemberID: &memberID,
		Type:           models.TransactionTypeExpense,
		Amount:         amount,
		Date:           date,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test member expense: %v", err)
	}
	return tx
}

// CreateTestBudgetPeriod creates an active monthly whole-book period
// anchored on the window containing at.
func CreateTestBudgetPeriod(t *testing.T, db *gorm.DB, ownerID, bookID string, baseAmount int64, rollover bool, at time.Time) *models.BudgetPeriod {
	t.Helper()

	span := period.Current(at, period.KindMonthly, 1)
	p := &models.BudgetPeriod{
		OwnerID:         ownerID,
		OwnerKind:       models.OwnerKindAccount,
		BookID:          bookID,
		PeriodKind:      span.Kind,
		RefreshDay:      span.RefreshDay,
		StartDate:       span.Start,
		EndDate:         span.End,
		BaseAmount:      baseAmount,
		RolloverEnabled: rollover,
		Status:          models.PeriodStatusActive,
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("failed to create test budget period: %v", err)
	}
	return p
}
