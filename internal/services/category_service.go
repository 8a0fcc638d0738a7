package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "tallybook/internal/errors"
	"tallybook/internal/models"
	"tallybook/internal/pagination"
)

// categoryService handles category-related business logic.
type categoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	return &categoryService{db: db}
}

// CreateCategory creates a new category inside a book the user owns.
func (s *categoryService) CreateCategory(userID, bookID, name string, categoryType models.CategoryType) (*models.Category, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name is required")
	}

	if err := s.verifyBook(userID, bookID); err != nil {
		return nil, err
	}

	category := &models.Category{
		BookID: bookID,
		Name:   name,
		Type:   categoryType,
	}
	if err := s.db.Create(category).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return category, nil
}

// GetBookCategories returns a paginated list of a book's categories.
func (s *categoryService) GetBookCategories(userID, bookID string, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error) {
	if err := s.verifyBook(userID, bookID); err != nil {
		return nil, err
	}
	page.Defaults()

	base := s.db.Model(&models.Category{}).Where("book_id = ?", bookID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var categories []models.Category
	if err := base.Order("name ASC").Scopes(pagination.Paginate(page)).Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(categories, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetCategoryByID returns a category by ID if its book belongs to the user.
func (s *categoryService) GetCategoryByID(userID, bookID, categoryID string) (*models.Category, error) {
	if err := s.verifyBook(userID, bookID); err != nil {
		return nil, err
	}

	var category models.Category
	if err := s.db.Where("id = ? AND book_id = ?", categoryID, bookID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &category, nil
}

// DeleteCategory soft-deletes a category. Transactions keep their
// category reference for history; they just render uncategorized.
func (s *categoryService) DeleteCategory(userID, bookID, categoryID string) error {
	category, err := s.GetCategoryByID(userID, bookID, categoryID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(category).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

func (s *categoryService) verifyBook(userID, bookID string) error {
	var count int64
	if err := s.db.Model(&models.Book{}).Where("id = ? AND owner_id = ?", bookID, userID).Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count == 0 {
		return apperrors.ErrBookNotFound
	}
	return nil
}
