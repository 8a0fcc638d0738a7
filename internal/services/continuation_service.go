package services

import (
	"errors"
	"sync"
	"time"

	"gorm.io/gorm"

	apperrors "tallybook/internal/errors"
	"tallybook/internal/models"
	"tallybook/internal/pagination"
	"tallybook/internal/period"
)

// continuationService keeps budget slots current: whenever a slot is
// touched it settles every elapsed period and synthesizes the chain up
// to the one containing now, carrying rollovers through the gap.
type continuationService struct {
	db     *gorm.DB
	ledger BudgetLedgerer
	spend  SpendAggregator

	// locks serializes continuation per slot within this process. The
	// ledger's compare-and-create upsert and settlement claim keep
	// cross-process races convergent; the per-slot mutex just stops
	// goroutines in one process from burning transactions against each
	// other.
	locks sync.Map
}

// NewContinuationService creates a new ContinuationServicer.
func NewContinuationService(db *gorm.DB, ledger BudgetLedgerer, spend SpendAggregator) ContinuationServicer {
	return &continuationService{db: db, ledger: ledger, spend: spend}
}

func (s *continuationService) slotLock(key SlotKey) *sync.Mutex {
	mu, _ := s.locks.LoadOrStore(key, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// CreateBudget configures a slot by creating its first period, anchored
// on the window containing now. A slot is configured exactly once; the
// continuation engine owns every period after the first.
func (s *continuationService) CreateBudget(
	userID, ownerID string,
	ownerKind models.OwnerKind,
	bookID, categoryID string,
	kind period.Kind,
	refreshDay int,
	baseAmount int64,
	rolloverEnabled bool,
	now time.Time,
) (*models.BudgetPeriod, error) {
	if err := period.Validate(kind, refreshDay); err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
	}
	if baseAmount < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "base amount must not be negative")
	}

	key := SlotKey{OwnerID: ownerID, BookID: bookID, CategoryID: categoryID}
	if err := s.authorizeSlot(userID, key, ownerKind); err != nil {
		return nil, err
	}

	mu := s.slotLock(key)
	mu.Lock()
	defer mu.Unlock()

	if _, err := s.ledger.LatestPeriod(s.db, key); err == nil {
		return nil, apperrors.ErrDuplicateBudget
	} else if err != apperrors.ErrNoBudgetTemplate {
		return nil, err
	}

	span := period.Current(now, kind, refreshDay)
	p := &models.BudgetPeriod{
		OwnerID:          ownerID,
		OwnerKind:        ownerKind,
		BookID:           bookID,
		CategoryID:       categoryID,
		PeriodKind:       kind,
		RefreshDay:       refreshDay,
		StartDate:        span.Start,
		EndDate:          span.End,
		BaseAmount:       baseAmount,
		RolloverEnabled:  rolloverEnabled,
		IncomingRollover: 0,
		Status:           models.PeriodStatusActive,
	}

	p, created, err := s.ledger.UpsertPeriod(s.db, p)
	if err != nil {
		return nil, err
	}
	if !created {
		return nil, apperrors.ErrDuplicateBudget
	}
	return p, nil
}

// Ensure returns the slot's period containing now, settling and creating
// periods as needed to get there. Calling it twice is a no-op the second
// time; it never creates a period that already exists and never settles
// a period twice.
func (s *continuationService) Ensure(key SlotKey, now time.Time) (*models.BudgetPeriod, error) {
	mu := s.slotLock(key)
	mu.Lock()
	defer mu.Unlock()

	// Fast path: the covering period already exists (active, or settled
	// when now points into the past).
	if p, err := s.ledger.PeriodAt(s.db, key, now); err == nil {
		return p, nil
	} else if err != apperrors.ErrPeriodNotFound {
		return nil, err
	}

	// Retry a few times: a concurrent settlement from another process
	// invalidates our walk, and we pick it up from the new latest.
	for attempt := 0; attempt < 3; {
		cur, err := s.ledger.LatestPeriod(s.db, key)
		if err != nil {
			return nil, err
		}
		if cur.Contains(now) {
			return cur, nil
		}

		conflicted := false
		for range PlanContinuation(cur.Span(), now) {
			next, err := s.ledger.SettleAndAdvance(cur)
			if errors.Is(err, errSlotConflict) {
				conflicted = true
				break
			}
			if err != nil {
				return nil, err
			}
			cur = next
		}
		if conflicted {
			attempt++
			continue
		}

		if cur.Contains(now) {
			return cur, nil
		}
		if !now.Before(cur.EndDate) {
			// The plan hit its step cap before reaching now. Every pass
			// advances the chain, so re-plan from the new latest without
			// spending a retry.
			continue
		}
		// Empty plan and no covering period: now predates the chain.
		return nil, apperrors.ErrPeriodNotFound
	}

	return nil, apperrors.WithMessage(apperrors.ErrInternalServer, "budget continuation did not converge")
}

// EnsureForBooking brings the budget slots a transaction books against
// up to date before the booking lands: the owner's whole-book slot and,
// when the booking is categorized, the category slot. Unconfigured slots
// are skipped silently; booking never requires a budget.
func (s *continuationService) EnsureForBooking(ownerID, bookID string, categoryID *string, now time.Time) error {
	keys := []SlotKey{{OwnerID: ownerID, BookID: bookID}}
	if categoryID != nil && *categoryID != "" {
		keys = append(keys, SlotKey{OwnerID: ownerID, BookID: bookID, CategoryID: *categoryID})
	}

	for _, key := range keys {
		if _, err := s.Ensure(key, now); err != nil {
			if err == apperrors.ErrNoBudgetTemplate || err == apperrors.ErrPeriodNotFound {
				continue
			}
			return err
		}
	}
	return nil
}

// ListPeriods returns a slot's periods newest first, each with its spend
// figures. Active periods are provisional: their totals move with every
// booking until settlement freezes them into history.
func (s *continuationService) ListPeriods(userID string, key SlotKey, page pagination.PageRequest) (*pagination.PageResponse[PeriodFigures], error) {
	if err := s.authorizeSlotRead(userID, key); err != nil {
		return nil, err
	}
	page.Defaults()

	base := s.db.Model(&models.BudgetPeriod{}).
		Where("owner_id = ? AND book_id = ? AND category_id = ?", key.OwnerID, key.BookID, key.CategoryID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var periods []models.BudgetPeriod
	if err := base.Order("start_date DESC").Scopes(pagination.Paginate(page)).Find(&periods).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	figures := make([]PeriodFigures, 0, len(periods))
	for i := range periods {
		p := periods[i]
		spent, err := s.spend.SumExpenses(s.db, &p)
		if err != nil {
			return nil, err
		}
		available := p.BaseAmount + p.IncomingRollover
		figures = append(figures, PeriodFigures{
			Period:            p,
			SpentAmount:       spent,
			TotalAvailable:    available,
			ProjectedOutgoing: available - spent,
			Provisional:       p.Status == models.PeriodStatusActive,
		})
	}

	result := pagination.NewPageResponse(figures, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetHistory returns a slot's settlement records, newest first.
func (s *continuationService) GetHistory(userID string, key SlotKey, limit int) ([]models.BudgetHistory, error) {
	if err := s.authorizeSlotRead(userID, key); err != nil {
		return nil, err
	}
	return s.ledger.History(key, limit)
}

// CorrectHistory files a correction for a settlement record of a slot
// the user can access.
func (s *continuationService) CorrectHistory(userID, historyID string, spentAmount int64, description string) (*models.BudgetHistory, error) {
	if spentAmount < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "spent amount must not be negative")
	}

	var p models.BudgetPeriod
	err := s.db.Model(&models.BudgetPeriod{}).
		Joins("JOIN budget_histories ON budget_histories.period_id = budget_periods.id").
		Where("budget_histories.id = ?", historyID).
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrHistoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	key := SlotKey{OwnerID: p.OwnerID, BookID: p.BookID, CategoryID: p.CategoryID}
	if err := s.authorizeSlot(userID, key, p.OwnerKind); err != nil {
		return nil, err
	}

	return s.ledger.CorrectHistory(historyID, spentAmount, description)
}

// authorizeSlot verifies the acting user may manage the slot: the book
// must belong to them, and a slot owned by someone other than the user
// must belong to a custodial family member they guard.
func (s *continuationService) authorizeSlot(userID string, key SlotKey, ownerKind models.OwnerKind) error {
	var book models.Book
	if err := s.db.Where("id = ? AND owner_id = ?", key.BookID, userID).First(&book).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrBookNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if key.CategoryID != "" {
		var category models.Category
		if err := s.db.Where("id = ? AND book_id = ?", key.CategoryID, key.BookID).First(&category).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrCategoryNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	if key.OwnerID == userID {
		return nil
	}
	if ownerKind != models.OwnerKindCustodial {
		return apperrors.ErrForbidden
	}

	var member models.FamilyMember
	err := s.db.Where("id = ? AND guardian_id = ?", key.OwnerID, userID).First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrMemberNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if !member.IsCustodial {
		return apperrors.ErrNotCustodial
	}
	return nil
}

// authorizeSlotRead is authorizeSlot for read paths, where the owner
// kind comes from the stored periods rather than the request.
func (s *continuationService) authorizeSlotRead(userID string, key SlotKey) error {
	kind := models.OwnerKindAccount
	if key.OwnerID != userID {
		kind = models.OwnerKindCustodial
	}
	return s.authorizeSlot(userID, key, kind)
}
