package services

import (
	"gorm.io/gorm"

	apperrors "tallybook/internal/errors"
	"tallybook/internal/models"
)

// spendService aggregates booked spend for budget periods.
type spendService struct{}

// NewSpendService creates a new SpendAggregator.
func NewSpendService() SpendAggregator {
	return &spendService{}
}

// SumExpenses returns the total expense amount booked against the
// period's slot inside its half-open window [StartDate, EndDate).
// Income never reduces spend, and an empty window sums to zero. The
// query runs on the given handle so callers can pin it inside the
// settlement transaction.
func (s *spendService) SumExpenses(db *gorm.DB, p *models.BudgetPeriod) (int64, error) {
	q := db.Model(&models.Transaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("book_id = ? AND type = ? AND date >= ? AND date < ?",
			p.BookID, models.TransactionTypeExpense, p.StartDate, p.EndDate)

	// Attribute spend by owner kind: registered users book on user_id,
	// custodial members on family_member_id.
	switch p.OwnerKind {
	case models.OwnerKindCustodial:
		q = q.Where("family_member_id = ?", p.OwnerID)
	default:
		q = q.Where("user_id = ?", p.OwnerID)
	}

	if p.CategoryID != "" {
		q = q.Where("category_id = ?", p.CategoryID)
	}

	var spent int64
	if err := q.Scan(&spent).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrSpendAggregation, err)
	}
	return spent, nil
}
