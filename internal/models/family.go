package models

// Family groups a guardian account with its members so shared books can
// carry budgets for people who never log in themselves.
type Family struct {
	Base
	Name      string `gorm:"not null" json:"name"`
	CreatorID string `gorm:"type:uuid;not null" json:"creator_id"`

	Members []FamilyMember `gorm:"foreignKey:FamilyID" json:"members,omitempty"`
}

// FamilyMember is a person inside a family. Custodial members have no
// credentials of their own; a guardian account administers their budgets
// and their continuation runs piggyback on the guardian's activity.
type FamilyMember struct {
	Base
	FamilyID    string `gorm:"type:uuid;not null;index" json:"family_id"`
	GuardianID  string `gorm:"type:uuid;not null;index" json:"guardian_id"`
	Name        string `gorm:"not null" json:"name"`
	IsCustodial bool   `gorm:"default:false" json:"is_custodial"`
}
