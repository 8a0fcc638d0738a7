package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "tallybook/internal/errors"
	"tallybook/internal/models"
	"tallybook/internal/pagination"
)

// bookService handles book-related business logic.
type bookService struct {
	db *gorm.DB
}

// NewBookService creates a new BookServicer.
func NewBookService(db *gorm.DB) BookServicer {
	return &bookService{db: db}
}

// CreateBook creates a new book owned by the user, optionally shared
// with a family the user belongs to.
func (s *bookService) CreateBook(ownerID, name, description, currency string, familyID *string) (*models.Book, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name is required")
	}
	if currency == "" {
		currency = "USD"
	}

	if familyID != nil {
		var family models.Family
		if err := s.db.Where("id = ? AND creator_id = ?", *familyID, ownerID).First(&family).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrFamilyNotFound
			}
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	book := &models.Book{
		OwnerID:     ownerID,
		FamilyID:    familyID,
		Name:        name,
		Description: description,
		Currency:    currency,
	}
	if err := s.db.Create(book).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return book, nil
}

// GetUserBooks returns a paginated list of books owned by the user.
func (s *bookService) GetUserBooks(ownerID string, page pagination.PageRequest) (*pagination.PageResponse[models.Book], error) {
	page.Defaults()

	base := s.db.Model(&models.Book{}).Where("owner_id = ?", ownerID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var books []models.Book
	if err := base.Order("created_at DESC").Scopes(pagination.Paginate(page)).Find(&books).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(books, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetBookByID returns a book by ID if it belongs to the user.
func (s *bookService) GetBookByID(ownerID, bookID string) (*models.Book, error) {
	var book models.Book
	if err := s.db.Where("id = ? AND owner_id = ?", bookID, ownerID).First(&book).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBookNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &book, nil
}

// UpdateBook updates a book's name and description.
func (s *bookService) UpdateBook(ownerID, bookID, name, description string) (*models.Book, error) {
	book, err := s.GetBookByID(ownerID, bookID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if name != "" {
		updates["name"] = name
	}
	if description != "" {
		updates["description"] = description
	}

	if len(updates) > 0 {
		if err := s.db.Model(book).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return book, nil
}

// DeleteBook soft-deletes a book.
func (s *bookService) DeleteBook(ownerID, bookID string) error {
	book, err := s.GetBookByID(ownerID, bookID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(book).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
