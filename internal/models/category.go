package models

// CategoryType distinguishes spending from income categories.
type CategoryType string

const (
	CategoryTypeExpense CategoryType = "expense"
	CategoryTypeIncome  CategoryType = "income"
)

// Category labels transactions within a book. Budgets may be scoped to a
// single expense category or cover the whole book.
type Category struct {
	Base
	BookID string       `gorm:"type:uuid;not null;index" json:"book_id"`
	Name   string       `gorm:"not null" json:"name"`
	Type   CategoryType `gorm:"not null" json:"type"`

	Transactions []Transaction `gorm:"foreignKey:CategoryID" json:"transactions,omitempty"`
}
