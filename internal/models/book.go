package models

// Book is a ledger/scope: every transaction, category, and budget period
// belongs to exactly one book. A book may be attached to a family, in
// which case custodial members can appear as transaction and budget
// owners inside it.
type Book struct {
	Base
	OwnerID     string  `gorm:"type:uuid;not null;index" json:"owner_id"`
	FamilyID    *string `gorm:"type:uuid" json:"family_id,omitempty"`
	Name        string  `gorm:"not null" json:"name"`
	Description string  `json:"description"`
	Currency    string  `gorm:"not null;default:'USD'" json:"currency"`

	Categories   []Category    `gorm:"foreignKey:BookID" json:"categories,omitempty"`
	Transactions []Transaction `gorm:"foreignKey:BookID" json:"transactions,omitempty"`
}
