package models

import "time"

// TransactionType represents the direction of a transaction. Amounts are
// stored as positive integer cents; the type carries the sign.
type TransactionType string

const (
	TransactionTypeExpense TransactionType = "expense"
	TransactionTypeIncome  TransactionType = "income"
)

// Transaction is a single booking in a book. Exactly one of UserID or
// FamilyMemberID is set: registered users book against their own ID,
// custodial members are booked for by their guardian.
type Transaction struct {
	Base
	BookID         string          `gorm:"type:uuid;not null;index" json:"book_id"`
	UserID         *string         `gorm:"type:uuid;index" json:"user_id,omitempty"`
	FamilyMemberID *string         `gorm:"type:uuid;index" json:"family_member_id,omitempty"`
	CategoryID     *string         `gorm:"type:uuid;index" json:"category_id,omitempty"`
	Type           TransactionType `gorm:"not null" json:"type"`
	Amount         int64           `gorm:"type:bigint;not null" json:"amount"`
	Description    string          `json:"description"`
	Date           time.Time       `gorm:"not null;index" json:"date"`

	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}
