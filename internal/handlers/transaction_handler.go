package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "tallybook/internal/errors"
	"tallybook/internal/models"
	"tallybook/internal/pagination"
	"tallybook/internal/services"
)

// TransactionHandler handles booking requests
type TransactionHandler struct {
	transactionService services.TransactionServicer
	audit              services.AuditServicer
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactionService services.TransactionServicer, audit services.AuditServicer) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService, audit: audit}
}

// CreateTransactionRequest represents the booking payload. Amount is in
// integer cents.
type CreateTransactionRequest struct {
	FamilyMemberID *string   `json:"family_member_id" binding:"omitempty,uuid"`
	CategoryID     *string   `json:"category_id" binding:"omitempty,uuid"`
	Type           string    `json:"type" binding:"required,transaction_type"`
	Amount         int64     `json:"amount" binding:"required,gt=0"`
	Description    string    `json:"description" binding:"max=500"`
	Date           time.Time `json:"date" binding:"required"`
}

// listTransactionsQuery holds the list filters.
type listTransactionsQuery struct {
	pagination.PageRequest
	From           *time.Time `form:"from"`
	To             *time.Time `form:"to"`
	Type           *string    `form:"type" binding:"omitempty,transaction_type"`
	CategoryID     *string    `form:"category_id" binding:"omitempty,uuid"`
	FamilyMemberID *string    `form:"family_member_id" binding:"omitempty,uuid"`
}

// CreateTransaction books an amount
// @Summary     Create a transaction
// @Description Book an expense or income in one of the user's books; set family_member_id to book for a custodial member
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Book ID"
// @Param       request body CreateTransactionRequest true "Transaction data"
// @Success     201 {object} models.Transaction "Transaction created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Book, category, or member not found"
// @Router      /books/{id}/transactions [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
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

	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	transaction, err := h.transactionService.CreateTransaction(
		userID, bookID, req.FamilyMemberID, req.CategoryID,
		models.TransactionType(req.Type), req.Amount, req.Description, req.Date)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.audit.Log(userID, "transaction.create", "transaction", transaction.ID, c.ClientIP(),
		map[string]any{"book_id": bookID, "amount": req.Amount, "type": req.Type})
	c.JSON(http.StatusCreated, gin.H{"transaction": transaction})
}

// ListTransactions lists a book's transactions
// @Summary     List transactions
// @Description List a book's transactions with optional filters, newest first
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Book ID"
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Param       from query string false "Earliest date (inclusive, RFC 3339)"
// @Param       to query string false "Latest date (exclusive, RFC 3339)"
// @Param       type query string false "Transaction type"
// @Param       category_id query string false "Category ID"
// @Param       family_member_id query string false "Family member ID"
// @Success     200 {object} pagination.PageResponse[models.Transaction] "Transactions"
// @Failure     404 {object} ErrorResponse "Book not found"
// @Router      /books/{id}/transactions [get]
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
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

	var q listTransactionsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	filter := services.TransactionFilter{
		FromDate:       q.From,
		ToDate:         q.To,
		CategoryID:     q.CategoryID,
		FamilyMemberID: q.FamilyMemberID,
	}
	if q.Type != nil {
		txType := models.TransactionType(*q.Type)
		filter.Type = &txType
	}

	transactions, err := h.transactionService.GetBookTransactions(userID, bookID, q.PageRequest, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, transactions)
}

// DeleteTransaction deletes a transaction
// @Summary     Delete a transaction
// @Description Soft-delete a transaction from one of the user's books
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Success     204 "Deleted"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.transactionService.DeleteTransaction(userID, transactionID); err != nil {
		respondWithError(c, err)
		return
	}

	h.audit.Log(userID, "transaction.delete", "transaction", transactionID, c.ClientIP(), nil)
	c.Status(http.StatusNoContent)
}
