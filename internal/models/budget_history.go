package models

// SettlementType classifies a settlement by the sign of its outgoing
// rollover.
type SettlementType string

const (
	SettlementSurplus SettlementType = "surplus"
	SettlementDeficit SettlementType = "deficit"
)

// BudgetHistory is the append-only settlement record, one row per settled
// BudgetPeriod. Rows are never updated in place: a correction inserts a
// new row and points the superseded one at it via SupersededByID, which
// is the only field ever written after creation.
type BudgetHistory struct {
	Base
	PeriodID         string         `gorm:"type:uuid;not null;index" json:"period_id"`
	PeriodLabel      string         `gorm:"not null" json:"period_label"`
	BaseAmount       int64          `gorm:"type:bigint;not null" json:"base_amount"`
	SpentAmount      int64          `gorm:"type:bigint;not null" json:"spent_amount"`
	IncomingRollover int64          `gorm:"type:bigint;not null" json:"incoming_rollover"`
	OutgoingRollover int64          `gorm:"type:bigint;not null" json:"outgoing_rollover"`
	SettlementType   SettlementType `gorm:"not null" json:"settlement_type"`
	Description      string         `json:"description,omitempty"`
	SupersededByID   *string        `gorm:"type:uuid" json:"superseded_by_id,omitempty"`
}
