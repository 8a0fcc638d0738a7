package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "tallybook/internal/errors"
	"tallybook/internal/pagination"
	"tallybook/internal/services"
)

// BookHandler handles book-related requests
type BookHandler struct {
	bookService services.BookServicer
}

// NewBookHandler creates a new BookHandler
func NewBookHandler(bookService services.BookServicer) *BookHandler {
	return &BookHandler{bookService: bookService}
}

// CreateBookRequest represents the book creation payload
type CreateBookRequest struct {
	Name        string  `json:"name" binding:"required,max=100"`
	Description string  `json:"description" binding:"max=500"`
	Currency    string  `json:"currency" binding:"omitempty,iso4217"`
	FamilyID    *string `json:"family_id" binding:"omitempty,uuid"`
}

// UpdateBookRequest represents the book update payload
type UpdateBookRequest struct {
	Name        string `json:"name" binding:"max=100"`
	Description string `json:"description" binding:"max=500"`
}

// CreateBook creates a new book
// @Summary     Create a book
// @Description Create a new bookkeeping book for the authenticated user
// @Tags        books
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateBookRequest true "Book data"
// @Success     201 {object} models.Book "Book created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /books [post]
func (h *BookHandler) CreateBook(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	book, err := h.bookService.CreateBook(userID, req.Name, req.Description, req.Currency, req.FamilyID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"book": book})
}

// ListBooks lists the user's books
// @Summary     List books
// @Description List the authenticated user's books
// @Tags        books
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} pagination.PageResponse[models.Book] "Books"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /books [get]
func (h *BookHandler) ListBooks(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	books, err := h.bookService.GetUserBooks(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, books)
}

// GetBook returns one book
// @Summary     Get a book
// @Description Get one of the authenticated user's books by ID
// @Tags        books
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Book ID"
// @Success     200 {object} models.Book "Book"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /books/{id} [get]
func (h *BookHandler) GetBook(c *gin.Context) {
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

	book, err := h.bookService.GetBookByID(userID, bookID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"book": book})
}

// UpdateBook updates a book
// @Summary     Update a book
// @Description Update a book's name or description
// @Tags        books
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Book ID"
// @Param       request body UpdateBookRequest true "Fields to update"
// @Success     200 {object} models.Book "Updated book"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /books/{id} [patch]
func (h *BookHandler) UpdateBook(c *gin.Context) {
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

	var req UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	book, err := h.bookService.UpdateBook(userID, bookID, req.Name, req.Description)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"book": book})
}

// DeleteBook deletes a book
// @Summary     Delete a book
// @Description Soft-delete one of the authenticated user's books
// @Tags        books
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Book ID"
// @Success     204 "Deleted"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /books/{id} [delete]
func (h *BookHandler) DeleteBook(c *gin.Context) {
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

	if err := h.bookService.DeleteBook(userID, bookID); err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
