package services

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "tallybook/internal/errors"
	"tallybook/internal/models"
	"tallybook/internal/period"
)

// errSlotConflict signals that another settlement won the race for a
// period. Callers refetch and continue; the error never reaches clients.
var errSlotConflict = errors.New("budget period settled concurrently")

// budgetLedger persists budget periods and their settlement history.
// All multi-row writes go through transactions so a slot can never end
// up half settled.
type budgetLedger struct {
	db    *gorm.DB
	spend SpendAggregator
}

// NewBudgetLedger creates a new BudgetLedgerer.
func NewBudgetLedger(db *gorm.DB, spend SpendAggregator) BudgetLedgerer {
	return &budgetLedger{db: db, spend: spend}
}

// UpsertPeriod inserts the period unless its slot already has one with
// the same start date. On conflict the insert is a no-op and the winning
// row is fetched back, so concurrent callers converge on one period per
// (owner, book, category, start). Returns the surviving row and whether
// this call created it.
func (l *budgetLedger) UpsertPeriod(db *gorm.DB, p *models.BudgetPeriod) (*models.BudgetPeriod, bool, error) {
	res := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "owner_id"}, {Name: "book_id"}, {Name: "category_id"}, {Name: "start_date"},
		},
		DoNothing: true,
	}).Create(p)
	if res.Error != nil {
		return nil, false, apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected > 0 {
		return p, true, nil
	}

	// Lost the race: return the row the other writer created.
	var existing models.BudgetPeriod
	err := db.Where("owner_id = ? AND book_id = ? AND category_id = ? AND start_date = ?",
		p.OwnerID, p.BookID, p.CategoryID, p.StartDate).First(&existing).Error
	if err != nil {
		return nil, false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &existing, false, nil
}

// LatestPeriod returns the most recent period of a slot by start date.
func (l *budgetLedger) LatestPeriod(db *gorm.DB, key SlotKey) (*models.BudgetPeriod, error) {
	var p models.BudgetPeriod
	err := db.Where("owner_id = ? AND book_id = ? AND category_id = ?",
		key.OwnerID, key.BookID, key.CategoryID).
		Order("start_date DESC").
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNoBudgetTemplate
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &p, nil
}

// PeriodAt returns the slot's period whose window contains at, if any.
func (l *budgetLedger) PeriodAt(db *gorm.DB, key SlotKey, at time.Time) (*models.BudgetPeriod, error) {
	var p models.BudgetPeriod
	err := db.Where("owner_id = ? AND book_id = ? AND category_id = ? AND start_date <= ? AND end_date > ?",
		key.OwnerID, key.BookID, key.CategoryID, at, at).
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPeriodNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &p, nil
}

// SettleAndAdvance closes one active period and creates its successor in
// a single transaction: flip the status, freeze the settlement figures
// into history, then upsert the next period seeded with the carried
// rollover. A spend aggregation failure aborts the whole settlement.
//
// If another writer settled the period first, the transaction rolls back
// with errSlotConflict and the caller refetches; the history row is only
// ever written by the writer that won the status flip.
func (l *budgetLedger) SettleAndAdvance(p *models.BudgetPeriod) (*models.BudgetPeriod, error) {
	var next *models.BudgetPeriod

	err := l.db.Transaction(func(tx *gorm.DB) error {
		// Claim the settlement. Zero rows means someone else got here
		// first (or the period was already settled).
		res := tx.Model(&models.BudgetPeriod{}).
			Where("id = ? AND status = ?", p.ID, models.PeriodStatusActive).
			Update("status", models.PeriodStatusSettled)
		if res.Error != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
		}
		if res.RowsAffected == 0 {
			return errSlotConflict
		}

		spent, err := l.spend.SumExpenses(tx, p)
		if err != nil {
			return err
		}

		settlement := SettleRollover(p.BaseAmount, p.IncomingRollover, spent, p.RolloverEnabled)

		history := &models.BudgetHistory{
			PeriodID:         p.ID,
			PeriodLabel:      period.Label(p.Span()),
			BaseAmount:       p.BaseAmount,
			SpentAmount:      spent,
			IncomingRollover: p.IncomingRollover,
			OutgoingRollover: settlement.Outgoing,
			SettlementType:   settlement.Type,
		}
		if err := tx.Create(history).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		span := period.Next(p.Span())
		candidate := &models.BudgetPeriod{
			OwnerID:          p.OwnerID,
			OwnerKind:        p.OwnerKind,
			BookID:           p.BookID,
			CategoryID:       p.CategoryID,
			PeriodKind:       p.PeriodKind,
			RefreshDay:       p.RefreshDay,
			StartDate:        span.Start,
			EndDate:          span.End,
			BaseAmount:       p.BaseAmount,
			RolloverEnabled:  p.RolloverEnabled,
			IncomingRollover: settlement.Outgoing,
			Status:           models.PeriodStatusActive,
		}

		next, _, err = l.UpsertPeriod(tx, candidate)
		return err
	})
	if err != nil {
		return nil, err
	}

	p.Status = models.PeriodStatusSettled
	return next, nil
}

// DueSlots returns the distinct slots holding an active period whose
// window has already closed. These are the slots a sweep must settle.
func (l *budgetLedger) DueSlots(now time.Time) ([]SlotKey, error) {
	var keys []SlotKey
	err := l.db.Model(&models.BudgetPeriod{}).
		Distinct("owner_id", "book_id", "category_id").
		Where("status = ? AND end_date <= ?", models.PeriodStatusActive, now).
		Scan(&keys).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return keys, nil
}

// History returns a slot's settlement records, newest first.
func (l *budgetLedger) History(key SlotKey, limit int) ([]models.BudgetHistory, error) {
	q := l.db.Model(&models.BudgetHistory{}).
		Joins("JOIN budget_periods ON budget_periods.id = budget_histories.period_id").
		Where("budget_periods.owner_id = ? AND budget_periods.book_id = ? AND budget_periods.category_id = ?",
			key.OwnerID, key.BookID, key.CategoryID).
		Order("budget_periods.start_date DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var entries []models.BudgetHistory
	if err := q.Find(&entries).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return entries, nil
}

// CorrectHistory repairs a settled figure without rewriting it: a new
// history row with the corrected spend is appended and the original is
// marked superseded. Rollovers already carried into later periods are
// left untouched; the correction documents the discrepancy instead of
// rewriting the chain. An entry can be superseded only once.
func (l *budgetLedger) CorrectHistory(historyID string, spentAmount int64, description string) (*models.BudgetHistory, error) {
	var correction *models.BudgetHistory

	err := l.db.Transaction(func(tx *gorm.DB) error {
		var original models.BudgetHistory
		if err := tx.Where("id = ?", historyID).First(&original).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrHistoryNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if original.SupersededByID != nil {
			return apperrors.ErrHistoryImmutable
		}

		var settled models.BudgetPeriod
		if err := tx.First(&settled, "id = ?", original.PeriodID).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		settlement := SettleRollover(original.BaseAmount, original.IncomingRollover, spentAmount, settled.RolloverEnabled)
		correction = &models.BudgetHistory{
			PeriodID:         original.PeriodID,
			PeriodLabel:      original.PeriodLabel,
			BaseAmount:       original.BaseAmount,
			SpentAmount:      spentAmount,
			IncomingRollover: original.IncomingRollover,
			OutgoingRollover: settlement.Outgoing,
			SettlementType:   settlement.Type,
			Description:      description,
		}
		if err := tx.Create(correction).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		// The only in-place write history rows ever see.
		res := tx.Model(&models.BudgetHistory{}).
			Where("id = ? AND superseded_by_id IS NULL", original.ID).
			Update("superseded_by_id", correction.ID)
		if res.Error != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
		}
		if res.RowsAffected == 0 {
			return apperrors.ErrHistoryImmutable
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return correction, nil
}
