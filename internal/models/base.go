package models

import (
	"time"

	"tallybook/internal/uuid"

	"gorm.io/gorm"
)

// Base holds the columns shared by every table. Primary keys are
// time-ordered UUIDv7 strings so rows sort by creation without a sequence.
type Base struct {
	ID        string         `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// BeforeCreate assigns a UUIDv7 when no ID was set by the caller.
func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New()
	}
	return nil
}
