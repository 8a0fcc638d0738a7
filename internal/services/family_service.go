package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "tallybook/internal/errors"
	"tallybook/internal/models"
	"tallybook/internal/pagination"
)

// familyService is the owner directory: it manages families and their
// members, and resolves which budget owner a booking belongs to.
type familyService struct {
	db *gorm.DB
}

// NewFamilyService creates a new FamilyServicer.
func NewFamilyService(db *gorm.DB) FamilyServicer {
	return &familyService{db: db}
}

// CreateFamily creates a new family with the user as its creator.
func (s *familyService) CreateFamily(creatorID, name string) (*models.Family, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name is required")
	}

	family := &models.Family{
		Name:      name,
		CreatorID: creatorID,
	}
	if err := s.db.Create(family).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return family, nil
}

// AddMember adds a member to a family the user created. Custodial
// members have no login of their own; the adding user becomes their
// guardian and books and budgets on their behalf.
func (s *familyService) AddMember(userID, familyID, name string, custodial bool) (*models.FamilyMember, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name is required")
	}

	var family models.Family
	if err := s.db.Where("id = ? AND creator_id = ?", familyID, userID).First(&family).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrFamilyNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	member := &models.FamilyMember{
		FamilyID:    familyID,
		GuardianID:  userID,
		Name:        name,
		IsCustodial: custodial,
	}
	if err := s.db.Create(member).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return member, nil
}

// GetFamilyMembers returns a paginated list of a family's members.
func (s *familyService) GetFamilyMembers(userID, familyID string, page pagination.PageRequest) (*pagination.PageResponse[models.FamilyMember], error) {
	var family models.Family
	if err := s.db.Where("id = ? AND creator_id = ?", familyID, userID).First(&family).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrFamilyNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	page.Defaults()

	base := s.db.Model(&models.FamilyMember{}).Where("family_id = ?", familyID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var members []models.FamilyMember
	if err := base.Order("name ASC").Scopes(pagination.Paginate(page)).Find(&members).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(members, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetMemberByID returns a family member the user guards.
func (s *familyService) GetMemberByID(guardianID, memberID string) (*models.FamilyMember, error) {
	var member models.FamilyMember
	if err := s.db.Where("id = ? AND guardian_id = ?", memberID, guardianID).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrMemberNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &member, nil
}

// ResolveOwner maps a booking's attribution to a budget owner. With no
// member reference the user books for themselves; with one, the member
// must be custodial and guarded by the user, and becomes the owner.
func (s *familyService) ResolveOwner(userID string, familyMemberID *string) (string, models.OwnerKind, error) {
	if familyMemberID == nil || *familyMemberID == "" {
		return userID, models.OwnerKindAccount, nil
	}

	member, err := s.GetMemberByID(userID, *familyMemberID)
	if err != nil {
		return "", "", err
	}
	if !member.IsCustodial {
		return "", "", apperrors.ErrNotCustodial
	}
	return member.ID, models.OwnerKindCustodial, nil
}
