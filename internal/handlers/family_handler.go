package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "tallybook/internal/errors"
	"tallybook/internal/pagination"
	"tallybook/internal/services"
)

// FamilyHandler handles family and member requests
type FamilyHandler struct {
	familyService services.FamilyServicer
}

// NewFamilyHandler creates a new FamilyHandler
func NewFamilyHandler(familyService services.FamilyServicer) *FamilyHandler {
	return &FamilyHandler{familyService: familyService}
}

// CreateFamilyRequest represents the family creation payload
type CreateFamilyRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

// AddMemberRequest represents the member creation payload
type AddMemberRequest struct {
	Name      string `json:"name" binding:"required,max=100"`
	Custodial bool   `json:"custodial"`
}

// CreateFamily creates a family
// @Summary     Create a family
// @Description Create a family with the authenticated user as creator
// @Tags        families
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateFamilyRequest true "Family data"
// @Success     201 {object} models.Family "Family created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /families [post]
func (h *FamilyHandler) CreateFamily(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateFamilyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	family, err := h.familyService.CreateFamily(userID, req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"family": family})
}

// AddMember adds a member to a family
// @Summary     Add a family member
// @Description Add a member to a family the user created; custodial members are budgeted for by their guardian
// @Tags        families
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Family ID"
// @Param       request body AddMemberRequest true "Member data"
// @Success     201 {object} models.FamilyMember "Member added"
// @Failure     404 {object} ErrorResponse "Family not found"
// @Router      /families/{id}/members [post]
func (h *FamilyHandler) AddMember(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	familyID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	member, err := h.familyService.AddMember(userID, familyID, req.Name, req.Custodial)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"member": member})
}

// ListMembers lists a family's members
// @Summary     List family members
// @Description List the members of a family the user created
// @Tags        families
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Family ID"
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} pagination.PageResponse[models.FamilyMember] "Members"
// @Failure     404 {object} ErrorResponse "Family not found"
// @Router      /families/{id}/members [get]
func (h *FamilyHandler) ListMembers(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	familyID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	members, err := h.familyService.GetFamilyMembers(userID, familyID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, members)
}
