package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"tallybook/internal/models"
	"tallybook/internal/pagination"
	"tallybook/internal/period"
)

// SlotKey identifies a budget slot: one owner's budget within a book,
// optionally narrowed to a category. CategoryID is empty for whole-book
// slots.
type SlotKey struct {
	OwnerID    string `json:"owner_id"`
	BookID     string `json:"book_id"`
	CategoryID string `json:"category_id"`
}

// PeriodFigures is a budget period with its spend position. Figures on
// active periods are provisional; settled ones are frozen in history.
type PeriodFigures struct {
	Period            models.BudgetPeriod `json:"period"`
	SpentAmount       int64               `json:"spent_amount"`
	TotalAvailable    int64               `json:"total_available"`
	ProjectedOutgoing int64               `json:"projected_outgoing"`
	Provisional       bool                `json:"provisional"`
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	FromDate       *time.Time
	ToDate         *time.Time
	Type           *models.TransactionType
	CategoryID     *string
	FamilyMemberID *string
}

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, name string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(email, password string) (*models.User, error)
	StoreRefreshTokenHash(userID, tokenHash string) error
	GetRefreshTokenHash(userID string) (string, error)
}

// BookServicer defines the contract for book-related business logic.
type BookServicer interface {
	CreateBook(ownerID, name, description, currency string, familyID *string) (*models.Book, error)
	GetUserBooks(ownerID string, page pagination.PageRequest) (*pagination.PageResponse[models.Book], error)
	GetBookByID(ownerID, bookID string) (*models.Book, error)
	UpdateBook(ownerID, bookID, name, description string) (*models.Book, error)
	DeleteBook(ownerID, bookID string) error
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(userID, bookID, name string, categoryType models.CategoryType) (*models.Category, error)
	GetBookCategories(userID, bookID string, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error)
	GetCategoryByID(userID, bookID, categoryID string) (*models.Category, error)
	DeleteCategory(userID, bookID, categoryID string) error
}

// FamilyServicer defines the contract for the owner directory.
type FamilyServicer interface {
	CreateFamily(creatorID, name string) (*models.Family, error)
	AddMember(userID, familyID, name string, custodial bool) (*models.FamilyMember, error)
	GetFamilyMembers(userID, familyID string, page pagination.PageRequest) (*pagination.PageResponse[models.FamilyMember], error)
	GetMemberByID(guardianID, memberID string) (*models.FamilyMember, error)
	ResolveOwner(userID string, familyMemberID *string) (string, models.OwnerKind, error)
}

// TransactionServicer defines the contract for booking business logic.
type TransactionServicer interface {
	CreateTransaction(userID, bookID string, familyMemberID, categoryID *string, txType models.TransactionType, amount int64, description string, date time.Time) (*models.Transaction, error)
	GetBookTransactions(userID, bookID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetTransactionByID(userID, transactionID string) (*models.Transaction, error)
	DeleteTransaction(userID, transactionID string) error
}

// SpendAggregator sums booked spend for a budget period's slot and window.
type SpendAggregator interface {
	SumExpenses(db *gorm.DB, p *models.BudgetPeriod) (int64, error)
}

// BudgetLedgerer defines the persistence contract for budget periods and
// settlement history.
type BudgetLedgerer interface {
	UpsertPeriod(db *gorm.DB, p *models.BudgetPeriod) (*models.BudgetPeriod, bool, error)
	LatestPeriod(db *gorm.DB, key SlotKey) (*models.BudgetPeriod, error)
	PeriodAt(db *gorm.DB, key SlotKey, at time.Time) (*models.BudgetPeriod, error)
	SettleAndAdvance(p *models.BudgetPeriod) (*models.BudgetPeriod, error)
	DueSlots(now time.Time) ([]SlotKey, error)
	History(key SlotKey, limit int) ([]models.BudgetHistory, error)
	CorrectHistory(historyID string, spentAmount int64, description string) (*models.BudgetHistory, error)
}

// ContinuationServicer defines the contract for the budget continuation
// engine.
type ContinuationServicer interface {
	CreateBudget(userID, ownerID string, ownerKind models.OwnerKind, bookID, categoryID string, kind period.Kind, refreshDay int, baseAmount int64, rolloverEnabled bool, now time.Time) (*models.BudgetPeriod, error)
	Ensure(key SlotKey, now time.Time) (*models.BudgetPeriod, error)
	EnsureForBooking(ownerID, bookID string, categoryID *string, now time.Time) error
	ListPeriods(userID string, key SlotKey, page pagination.PageRequest) (*pagination.PageResponse[PeriodFigures], error)
	GetHistory(userID string, key SlotKey, limit int) ([]models.BudgetHistory, error)
	CorrectHistory(userID, historyID string, spentAmount int64, description string) (*models.BudgetHistory, error)
}

// SweepServicer defines the contract for scheduled settlement runs.
type SweepServicer interface {
	Run(ctx context.Context, now time.Time) (*SweepReport, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(actorID, action, resourceType, resourceID, ipAddress string, detail map[string]any)
}
