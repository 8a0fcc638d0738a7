package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "tallybook/internal/errors"
	"tallybook/internal/models"
	"tallybook/internal/pagination"
)

// transactionService handles bookings.
type transactionService struct {
	db     *gorm.DB
	family FamilyServicer
	cont   ContinuationServicer
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB, family FamilyServicer, cont ContinuationServicer) TransactionServicer {
	return &transactionService{db: db, family: family, cont: cont}
}

// CreateTransaction books an amount in a book the user owns. Custodial
// bookings are attributed to the family member, everything else to the
// user. The owner's budget slots are brought current before the booking
// lands so the new spend can never fall into a stale period.
func (s *transactionService) CreateTransaction(
	userID, bookID string,
	familyMemberID, categoryID *string,
	txType models.TransactionType,
	amount int64,
	description string,
	date time.Time,
) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be positive")
	}

	var book models.Book
	if err := s.db.Where("id = ? AND owner_id = ?", bookID, userID).First(&book).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBookNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if categoryID != nil && *categoryID != "" {
		var category models.Category
		if err := s.db.Where("id = ? AND book_id = ?", *categoryID, bookID).First(&category).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrCategoryNotFound
			}
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	ownerID, ownerKind, err := s.family.ResolveOwner(userID, familyMemberID)
	if err != nil {
		return nil, err
	}

	if err := s.cont.EnsureForBooking(ownerID, bookID, categoryID, time.Now()); err != nil {
		return nil, err
	}

	transaction := &models.Transaction{
		BookID:      bookID,
		CategoryID:  categoryID,
		Type:        txType,
		Amount:      amount,
		Description: description,
		Date:        date,
	}
	if ownerKind == models.OwnerKindCustodial {
		transaction.FamilyMemberID = &ownerID
	} else {
		transaction.UserID = &ownerID
	}

	if err := s.db.Create(transaction).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return transaction, nil
}

// GetBookTransactions returns a paginated, filtered list of a book's
// transactions, newest first.
func (s *transactionService) GetBookTransactions(userID, bookID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	var count int64
	if err := s.db.Model(&models.Book{}).Where("id = ? AND owner_id = ?", bookID, userID).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count == 0 {
		return nil, apperrors.ErrBookNotFound
	}
	page.Defaults()

	base := s.db.Model(&models.Transaction{}).Where("book_id = ?", bookID)
	if filter.FromDate != nil {
		base = base.Where("date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		base = base.Where("date < ?", *filter.ToDate)
	}
	if filter.Type != nil {
		base = base.Where("type = ?", *filter.Type)
	}
	if filter.CategoryID != nil {
		base = base.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.FamilyMemberID != nil {
		base = base.Where("family_member_id = ?", *filter.FamilyMemberID)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Preload("Category").Order("date DESC").Scopes(pagination.Paginate(page)).Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetTransactionByID returns a transaction if its book belongs to the user.
func (s *transactionService) GetTransactionByID(userID, transactionID string) (*models.Transaction, error) {
	var transaction models.Transaction
	err := s.db.Preload("Category").
		Joins("JOIN books ON books.id = transactions.book_id").
		Where("transactions.id = ? AND books.owner_id = ?", transactionID, userID).
		First(&transaction).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// DeleteTransaction soft-deletes a transaction. Settled history is not
// recomputed; discrepancies against frozen figures go through history
// corrections.
func (s *transactionService) DeleteTransaction(userID, transactionID string) error {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(transaction).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
