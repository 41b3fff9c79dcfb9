package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "cashbook/internal/errors"
	"cashbook/internal/models"
	"cashbook/internal/pagination"
	"cashbook/internal/period"
	"cashbook/internal/services"
)

// BookHandler handles book-related requests.
type BookHandler struct {
	bookService    services.BookServicer
	summaryService services.SummaryServicer
	auditService   services.AuditServicer
	today          Clock
}

// NewBookHandler creates a new BookHandler.
func NewBookHandler(bookService services.BookServicer, summaryService services.SummaryServicer, auditService services.AuditServicer, today Clock) *BookHandler {
	return &BookHandler{
		bookService:    bookService,
		summaryService: summaryService,
		auditService:   auditService,
		today:          today,
	}
}

// CreateBookRequest represents the request payload for creating a book.
// Budget is in major units, e.g. "1500000" or 1500000.50.
type CreateBookRequest struct {
	Name         string              `json:"name" binding:"required,max=255"`
	Description  string              `json:"description" binding:"max=1000"`
	Budget       *decimal.Decimal    `json:"budget"`
	ReportPeriod models.ReportPeriod `json:"report_period" binding:"omitempty,report_period"`
	CurrencyCode string              `json:"currency_code" binding:"omitempty,iso4217"`
}

// UpdateBookRequest represents the request payload for updating a book.
// ClearBudget removes the budget; it wins over Budget.
type UpdateBookRequest struct {
	Name         *string              `json:"name" binding:"omitempty,max=255"`
	Description  *string              `json:"description" binding:"omitempty,max=1000"`
	Budget       *decimal.Decimal     `json:"budget"`
	ClearBudget  bool                 `json:"clear_budget"`
	ReportPeriod *models.ReportPeriod `json:"report_period" binding:"omitempty,report_period"`
	CurrencyCode *string              `json:"currency_code" binding:"omitempty,iso4217"`
	IsActive     *bool                `json:"is_active"`
}

// BalanceResponse is the balance of a book as of a date.
type BalanceResponse struct {
	BookID  string `json:"book_id"`
	Date    string `json:"date"`
	Balance int64  `json:"balance"`
}

// CreateBook handles the creation of a new book
// @Summary     Create a book
// @Description Create a new cash book owned by the caller
// @Tags        books
// @Accept      json
// @Produce     json
// @Param       X-User-ID header string true "Caller user id"
// @Param       request body CreateBookRequest true "Book details"
// @Success     201 {object} models.Book "Book created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     422 {object} ErrorResponse "Negative budget"
// @Failure     500 {object} ErrorResponse "Server error"
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

	var budget *int64
	if req.Budget != nil {
		minor, err := parseAmount(*req.Budget)
		if err != nil {
			respondWithError(c, err)
			return
		}
		budget = &minor
	}

	book, err := h.bookService.CreateBook(userID, req.Name, req.Description, budget, req.ReportPeriod, req.CurrencyCode)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_BOOK", "book", book.ID, c.ClientIP(),
		map[string]interface{}{"name": book.Name, "report_period": book.ReportPeriod})

	c.JSON(http.StatusCreated, gin.H{"book": book})
}

// GetUserBooks handles listing the caller's active books
// @Summary     List books
// @Description Get a paginated list of the caller's active books
// @Tags        books
// @Produce     json
// @Param       X-User-ID header string true  "Caller user id"
// @Param       page      query  int    false "Page number (default 1)"
// @Param       page_size query  int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Book] "Paginated books"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /books [get]
func (h *BookHandler) GetUserBooks(c *gin.Context) {
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

	result, err := h.bookService.GetUserBooks(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetBookByID handles the retrieval of a specific book
// @Summary     Get book by ID
// @Description Get one of the caller's books, active or not
// @Tags        books
// @Produce     json
// @Param       X-User-ID header string true "Caller user id"
// @Param       id        path   string true "Book ID"
// @Success     200 {object} models.Book "Book details"
// @Failure     400 {object} ErrorResponse "Invalid book ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Book not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /books/{id} [get]
func (h *BookHandler) GetBookByID(c *gin.Context) {
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

// UpdateBook handles updating a book
// @Summary     Update book
// @Description Update a book's name, budget, report period, currency or active flag
// @Tags        books
// @Accept      json
// @Produce     json
// @Param       X-User-ID header string            true "Caller user id"
// @Param       id        path   string            true "Book ID"
// @Param       request   body   UpdateBookRequest true "Fields to update"
// @Success     200 {object} models.Book "Updated book"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Book not found"
// @Failure     422 {object} ErrorResponse "Negative budget"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /books/{id} [put]
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

	fields := services.BookUpdateFields{
		Name:         req.Name,
		Description:  req.Description,
		ReportPeriod: req.ReportPeriod,
		CurrencyCode: req.CurrencyCode,
		IsActive:     req.IsActive,
	}
	switch {
	case req.ClearBudget:
		var none *int64
		fields.Budget = &none
	case req.Budget != nil:
		minor, err := parseAmount(*req.Budget)
		if err != nil {
			respondWithError(c, err)
			return
		}
		budget := &minor
		fields.Budget = &budget
	}

	book, err := h.bookService.UpdateBook(userID, bookID, fields)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_BOOK", "book", bookID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"book": book})
}

// DeactivateBook handles hiding a book
// @Summary     Deactivate book
// @Description Deactivate a book. Its transactions are kept and it can be reactivated with an update.
// @Tags        books
// @Produce     json
// @Param       X-User-ID header string true "Caller user id"
// @Param       id        path   string true "Book ID"
// @Success     200 {object} MessageResponse "Book deactivated"
// @Failure     400 {object} ErrorResponse "Invalid book ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Book not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /books/{id} [delete]
func (h *BookHandler) DeactivateBook(c *gin.Context) {
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

	if err := h.bookService.DeactivateBook(userID, bookID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DEACTIVATE_BOOK", "book", bookID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Book deactivated successfully"})
}

// GetBalance handles the book balance as of a date
// @Summary     Get book balance
// @Description Income minus spending over every transaction dated on or before date. A missing or malformed date means today.
// @Tags        books
// @Produce     json
// @Param       X-User-ID header string true  "Caller user id"
// @Param       id        path   string true  "Book ID"
// @Param       date      query  string false "YYYY-MM-DD (default today)"
// @Success     200 {object} BalanceResponse "Balance in minor units"
// @Failure     400 {object} ErrorResponse "Invalid book ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Book not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /books/{id}/balance [get]
func (h *BookHandler) GetBalance(c *gin.Context) {
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

	if _, err := h.bookService.GetBookByID(userID, bookID); err != nil {
		respondWithError(c, err)
		return
	}

	date := c.Query("date")
	if !period.ValidDate(date) {
		date = period.FormatDate(h.today())
	}

	balance, err := h.bookService.GetBalance(bookID, date)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, BalanceResponse{BookID: bookID, Date: date, Balance: balance})
}

// GetSummary handles the book dashboard
// @Summary     Current period summary
// @Description Balances and totals for the book's current report period up to today, with the budget comparison
// @Tags        books
// @Produce     json
// @Param       X-User-ID header string true "Caller user id"
// @Param       id        path   string true "Book ID"
// @Success     200 {object} services.CurrentSummary "Current summary"
// @Failure     400 {object} ErrorResponse "Invalid book ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Book not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /books/{id}/summary [get]
func (h *BookHandler) GetSummary(c *gin.Context) {
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

	if _, err := h.bookService.GetBookByID(userID, bookID); err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.summaryService.GetCurrentSummary(bookID, h.today())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
