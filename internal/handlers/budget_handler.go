package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "tallybook/internal/errors"
	"tallybook/internal/pagination"
	"tallybook/internal/period"
	"tallybook/internal/services"
)

// BudgetHandler handles budget configuration and continuation requests
type BudgetHandler struct {
	continuation services.ContinuationServicer
	family       services.FamilyServicer
	audit        services.AuditServicer
}

// NewBudgetHandler creates a new BudgetHandler
func NewBudgetHandler(continuation services.ContinuationServicer, family services.FamilyServicer, audit services.AuditServicer) *BudgetHandler {
	return &BudgetHandler{continuation: continuation, family: family, audit: audit}
}

// CreateBudgetRequest represents the budget configuration payload.
// Leave category_id empty for a whole-book budget; set family_member_id
// to budget for a custodial member.
type CreateBudgetRequest struct {
	FamilyMemberID  *string `json:"family_member_id" binding:"omitempty,uuid"`
	CategoryID      string  `json:"category_id" binding:"omitempty,uuid"`
	PeriodKind      string  `json:"period_kind" binding:"required,period_kind"`
	RefreshDay      int     `json:"refresh_day" binding:"required,min=1,max=31"`
	BaseAmount      int64   `json:"base_amount" binding:"min=0"`
	RolloverEnabled bool    `json:"rollover_enabled"`
}

// CorrectHistoryRequest represents the settlement correction payload
type CorrectHistoryRequest struct {
	SpentAmount int64  `json:"spent_amount" binding:"min=0"`
	Description string `json:"description" binding:"required,max=500"`
}

// slotQuery identifies a budget slot in query parameters.
type slotQuery struct {
	FamilyMemberID *string `form:"family_member_id" binding:"omitempty,uuid"`
	CategoryID     string  `form:"category_id" binding:"omitempty,uuid"`
}

func (h *BudgetHandler) resolveSlot(userID, bookID string, familyMemberID *string, categoryID string) (services.SlotKey, error) {
	ownerID, _, err := h.family.ResolveOwner(userID, familyMemberID)
	if err != nil {
		return services.SlotKey{}, err
	}
	return services.SlotKey{OwnerID: ownerID, BookID: bookID, CategoryID: categoryID}, nil
}

// CreateBudget configures a budget slot
// @Summary     Create a budget
// @Description Configure a budget slot by creating its first period; later periods are synthesized automatically
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Book ID"
// @Param       request body CreateBudgetRequest true "Budget configuration"
// @Success     201 {object} models.BudgetPeriod "Initial budget period"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Book, category, or member not found"
// @Failure     409 {object} ErrorResponse "Slot already configured"
// @Router      /books/{id}/budgets [post]
func (h *BudgetHandler) CreateBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	bookID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	ownerID, ownerKind, err := h.family.ResolveOwner(userID, req.FamilyMemberID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	p, err := h.continuation.CreateBudget(userID, ownerID, ownerKind, bookID, req.CategoryID,
		period.Kind(req.PeriodKind), req.RefreshDay, req.BaseAmount, req.RolloverEnabled, time.Now())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.audit.Log(userID, "budget.create", "budget_period", p.ID, c.ClientIP(),
		map[string]any{"book_id": bookID, "owner_id": ownerID, "base_amount": req.BaseAmount})
	c.JSON(http.StatusCreated, gin.H{"period": p})
}

// EnsureCurrent settles elapsed periods and returns the current one
// @Summary     Ensure the current budget period
// @Description Settle every elapsed period of the slot and return the period covering now
// @Tags        budgets
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Book ID"
// @Param       category_id query string false "Category ID (empty for the whole-book slot)"
// @Param       family_member_id query string false "Custodial member ID"
// @Success     200 {object} models.BudgetPeriod "Current period"
// @Failure     404 {object} ErrorResponse "No budget configured"
// @Router      /books/{id}/budgets/current [post]
func (h *BudgetHandler) EnsureCurrent(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	bookID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var q slotQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	key, err := h.resolveSlot(userID, bookID, q.FamilyMemberID, q.CategoryID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	p, err := h.continuation.Ensure(key, time.Now())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.audit.Log(userID, "budget.ensure", "budget_period", p.ID, c.ClientIP(),
		map[string]any{"book_id": bookID, "owner_id": key.OwnerID})
	c.JSON(http.StatusOK, gin.H{"period": p})
}

// ListPeriods lists a slot's periods with figures
// @Summary     List budget periods
// @Description List a slot's periods newest first; active periods carry provisional figures
// @Tags        budgets
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Book ID"
// @Param       category_id query string false "Category ID (empty for the whole-book slot)"
// @Param       family_member_id query string false "Custodial member ID"
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} pagination.PageResponse[services.PeriodFigures] "Periods"
// @Failure     404 {object} ErrorResponse "Book not found"
// @Router      /books/{id}/budgets/periods [get]
func (h *BudgetHandler) ListPeriods(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	bookID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var q struct {
		slotQuery
		pagination.PageRequest
	}
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	key, err := h.resolveSlot(userID, bookID, q.FamilyMemberID, q.CategoryID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	periods, err := h.continuation.ListPeriods(userID, key, q.PageRequest)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, periods)
}

// GetHistory returns a slot's settlement history
// @Summary     Get settlement history
// @Description List a slot's frozen settlement records, newest first
// @Tags        budgets
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Book ID"
// @Param       category_id query string false "Category ID (empty for the whole-book slot)"
// @Param       family_member_id query string false "Custodial member ID"
// @Param       limit query int false "Maximum entries"
// @Success     200 {array} models.BudgetHistory "History entries"
// @Failure     404 {object} ErrorResponse "Book not found"
// @Router      /books/{id}/budgets/history [get]
func (h *BudgetHandler) GetHistory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	bookID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var q struct {
		slotQuery
		Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
	}
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	key, err := h.resolveSlot(userID, bookID, q.FamilyMemberID, q.CategoryID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	history, err := h.continuation.GetHistory(userID, key, q.Limit)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": history})
}

// CorrectHistory files a settlement correction
// @Summary     Correct a settlement record
// @Description Append a correction for a frozen settlement record; the original stays visible, marked superseded
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "History entry ID"
// @Param       request body CorrectHistoryRequest true "Corrected figures"
// @Success     201 {object} models.BudgetHistory "Correction entry"
// @Failure     404 {object} ErrorResponse "History entry not found"
// @Failure     409 {object} ErrorResponse "Entry already superseded"
// @Router      /budgets/history/{id}/corrections [post]
func (h *BudgetHandler) CorrectHistory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	historyID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CorrectHistoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	correction, err := h.continuation.CorrectHistory(userID, historyID, req.SpentAmount, req.Description)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.audit.Log(userID, "budget.history.correct", "budget_history", historyID, c.ClientIP(),
		map[string]any{"spent_amount": req.SpentAmount})
	c.JSON(http.StatusCreated, gin.H{"correction": correction})
}
