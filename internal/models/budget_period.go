package models

import (
	"time"

	"tallybook/internal/period"
)

// OwnerKind tells the engine how to attribute spend for a budget owner.
type OwnerKind string

const (
	// OwnerKindAccount is a registered user; spend is matched on user_id.
	OwnerKindAccount OwnerKind = "account"
	// OwnerKindCustodial is a family member without a login; spend is
	// matched on family_member_id.
	OwnerKindCustodial OwnerKind = "custodial"
)

// PeriodStatus is the lifecycle state of a budget period.
type PeriodStatus string

const (
	// PeriodStatusActive means the end date is in the future and rollover
	// figures are provisional.
	PeriodStatusActive PeriodStatus = "active"
	// PeriodStatusSettled means the period closed: its outgoing rollover
	// is frozen and mirrored into budget history.
	PeriodStatusSettled PeriodStatus = "settled"
)

// BudgetPeriod is one allocation window for an owner within a book,
// optionally scoped to a single expense category. CategoryID is the empty
// string for whole-book budgets so the slot index below stays effective
// (NULLs never collide in a unique index, which would defeat the
// compare-and-create upsert).
//
// For a fixed (owner, book, category) slot the periods partition time:
// each EndDate equals the next StartDate. Gaps exist only before
// continuation has run and are exactly what the planner backfills.
type BudgetPeriod struct {
	Base
	OwnerID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_budget_slot" json:"owner_id"`
	OwnerKind  OwnerKind `gorm:"not null" json:"owner_kind"`
	BookID     string    `gorm:"type:uuid;not null;uniqueIndex:idx_budget_slot" json:"book_id"`
	CategoryID string    `gorm:"size:36;not null;default:'';uniqueIndex:idx_budget_slot" json:"category_id,omitempty"`

	PeriodKind period.Kind `gorm:"not null" json:"period_kind"`
	RefreshDay int         `gorm:"not null;default:1" json:"refresh_day"`
	StartDate  time.Time   `gorm:"not null;uniqueIndex:idx_budget_slot" json:"start_date"`
	EndDate    time.Time   `gorm:"not null;index" json:"end_date"`

	BaseAmount       int64        `gorm:"type:bigint;not null" json:"base_amount"`
	RolloverEnabled  bool         `gorm:"default:false" json:"rollover_enabled"`
	IncomingRollover int64        `gorm:"type:bigint;not null;default:0" json:"incoming_rollover"`
	Status           PeriodStatus `gorm:"not null;default:'active';index" json:"status"`
}

// Span returns the period window as pure calendar data.
func (p *BudgetPeriod) Span() period.Span {
	return period.Span{
		Kind:       p.PeriodKind,
		RefreshDay: p.RefreshDay,
		Start:      p.StartDate,
		End:        p.EndDate,
	}
}

// Contains reports whether t falls in the half-open [StartDate, EndDate).
func (p *BudgetPeriod) Contains(t time.Time) bool {
	return p.Span().Contains(t)
}
