package models

// AuditLog records settlement, correction, and other sensitive operations
// for after-the-fact review.
type AuditLog struct {
	Base
	ActorID      string `gorm:"type:uuid;index" json:"actor_id"`
	Action       string `gorm:"not null" json:"action"`
	ResourceType string `gorm:"not null" json:"resource_type"`
	ResourceID   string `gorm:"type:uuid" json:"resource_id"`
	IPAddress    string `json:"ip_address"`
	Detail       string `json:"detail,omitempty"`
}
