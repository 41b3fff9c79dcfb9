package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "cashbook/internal/errors"
	"cashbook/internal/models"
	"cashbook/internal/money"
	"cashbook/internal/pagination"
	"cashbook/internal/period"
	"cashbook/internal/services"
	"cashbook/internal/uuid"
)

// TransactionHandler handles transaction-related requests.
type TransactionHandler struct {
	transactionService services.TransactionServicer
	bookService        services.BookServicer
	summaryService     services.SummaryServicer
	auditService       services.AuditServicer
	today              Clock
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(
	transactionService services.TransactionServicer,
	bookService services.BookServicer,
	summaryService services.SummaryServicer,
	auditService services.AuditServicer,
	today Clock,
) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		bookService:        bookService,
		summaryService:     summaryService,
		auditService:       auditService,
		today:              today,
	}
}

// CreateTransactionRequest represents the request payload for creating a transaction.
// Amount is in major units; Date defaults to today.
type CreateTransactionRequest struct {
	Amount        *decimal.Decimal `json:"amount" binding:"required"`
	Direction     models.Direction `json:"direction" binding:"required"`
	Date          string           `json:"date"`
	Description   string           `json:"description" binding:"max=500"`
	CategoryID    *string          `json:"category_id"`
	BankAccountID *string          `json:"bank_account_id"`
}

// UpdateTransactionRequest represents the request payload for updating a transaction.
// An empty or "null" category_id / bank_account_id clears the reference.
type UpdateTransactionRequest struct {
	Amount        *decimal.Decimal  `json:"amount"`
	Direction     *models.Direction `json:"direction"`
	Date          *string           `json:"date"`
	Description   *string           `json:"description" binding:"omitempty,max=500"`
	CategoryID    *string           `json:"category_id"`
	BankAccountID *string           `json:"bank_account_id"`
}

// DeleteTransactionRequest confirms a deletion by repeating the transaction id.
type DeleteTransactionRequest struct {
	TransactionID string `json:"transaction_id" binding:"required"`
}

// ListTransactions handles the book's transaction listing with balances
// @Summary     List book transactions
// @Description Lists a book's transactions in a date window with starting balance, totals and ending balance. The window is start_date..end_date when either is given, else the year/month, else the book's current report period. Malformed parameters fall back to defaults; all_time books list everything.
// @Tags        books,transactions
// @Produce     json
// @Param       X-User-ID       header string true  "Caller user id"
// @Param       id              path   string true  "Book ID"
// @Param       start_date      query  string false "Inclusive start, YYYY-MM-DD"
// @Param       end_date        query  string false "Inclusive end, YYYY-MM-DD"
// @Param       year            query  int    false "Year of the month to list"
// @Param       month           query  int    false "Month to list (1-12)"
// @Param       date            query  string false "Only transactions on this date"
// @Param       category_id     query  string false "Category id, or null for uncategorized"
// @Param       bank_account_id query  string false "Bank account id, or null for cash"
// @Param       query           query  string false "Case-insensitive description search"
// @Param       sort            query  string false "date, description or amount (default date)"
// @Param       order           query  string false "asc or desc (default asc)"
// @Success     200 {object} services.Summary "Listing with balances"
// @Failure     400 {object} ErrorResponse "Invalid book ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Book not found"
// @Failure     500 {object} ErrorResponse "Server error"
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

	book, err := h.bookService.GetBookByID(userID, bookID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	window := listingWindow(c, period.Mode(book.ReportPeriod), h.today())
	summary, err := h.summaryService.ComputeSummary(bookID, services.SummaryQuery{
		Start:  window.Start,
		End:    window.End,
		Filter: parseTransactionFilter(c),
		Sort:   parseSort(c),
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// SearchTransactions handles paginated transaction search
// @Summary     Search book transactions
// @Description Paginated, newest-first search over a book's transactions
// @Tags        books,transactions
// @Produce     json
// @Param       X-User-ID       header string true  "Caller user id"
// @Param       id              path   string true  "Book ID"
// @Param       page            query  int    false "Page number (default 1)"
// @Param       page_size       query  int    false "Items per page (default 20, max 100)"
// @Param       date            query  string false "Only transactions on this date"
// @Param       category_id     query  string false "Category id, or null for uncategorized"
// @Param       bank_account_id query  string false "Bank account id, or null for cash"
// @Param       query           query  string false "Case-insensitive description search"
// @Success     200 {object} pagination.PageResponse[models.Transaction] "Paginated transactions"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Book not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /books/{id}/transactions/search [get]
func (h *TransactionHandler) SearchTransactions(c *gin.Context) {
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

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.transactionService.SearchTransactions(userID, bookID, parseTransactionFilter(c), page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// CreateTransaction handles recording a transaction in a book
// @Summary     Create a transaction
// @Description Record an income or spending entry in an active book
// @Tags        books,transactions
// @Accept      json
// @Produce     json
// @Param       X-User-ID header string                   true "Caller user id"
// @Param       id        path   string                   true "Book ID"
// @Param       request   body   CreateTransactionRequest true "Transaction details"
// @Success     201 {object} models.Transaction "Transaction created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Book, category or bank account not found"
// @Failure     409 {object} ErrorResponse "Book is inactive"
// @Failure     422 {object} ErrorResponse "Negative amount, unknown direction or invalid date"
// @Failure     500 {object} ErrorResponse "Server error"
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

	amount, err := parseAmount(*req.Amount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	date := req.Date
	if date == "" {
		date = period.FormatDate(h.today())
	}

	transaction, err := h.transactionService.CreateTransaction(
		userID,
		bookID,
		req.CategoryID,
		req.BankAccountID,
		req.Direction,
		amount,
		req.Description,
		date,
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_TRANSACTION", "transaction", transaction.ID, c.ClientIP(), auditChanges(transaction))

	c.JSON(http.StatusCreated, gin.H{
		"transaction": transaction,
		"return_to":   resolveReturnTarget(c, transaction),
	})
}

// GetTransactionByID handles the retrieval of a specific transaction
// @Summary     Get transaction by ID
// @Description Get a transaction in one of the caller's books
// @Tags        transactions
// @Produce     json
// @Param       X-User-ID header string true "Caller user id"
// @Param       id        path   string true "Transaction ID"
// @Success     200 {object} models.Transaction "Transaction details"
// @Failure     400 {object} ErrorResponse "Invalid transaction ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [get]
func (h *TransactionHandler) GetTransactionByID(c *gin.Context) {
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

	transaction, err := h.transactionService.GetTransactionByID(userID, transactionID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": transaction})
}

// UpdateTransaction handles updating an existing transaction
// @Summary     Update transaction
// @Description Update a transaction. The response names the listing to return to.
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Param       X-User-ID           header string                   true  "Caller user id"
// @Param       id                  path   string                   true  "Transaction ID"
// @Param       reference_page      query  string                   false "category to return to the category page"
// @Param       start_date          query  string                   false "Category page start date"
// @Param       end_date            query  string                   false "Category page end date"
// @Param       query               query  string                   false "Search text to keep"
// @Param       queried_category_id query  string                   false "Category filter to keep on the transactions page"
// @Param       request             body   UpdateTransactionRequest true  "Fields to update"
// @Success     200 {object} models.Transaction "Updated transaction"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction, category or bank account not found"
// @Failure     422 {object} ErrorResponse "Negative amount, unknown direction or invalid date"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [put]
func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
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

	var req UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	fields := services.TransactionUpdateFields{
		Direction:   req.Direction,
		Date:        req.Date,
		Description: req.Description,
	}
	if req.Amount != nil {
		amount, err := parseAmount(*req.Amount)
		if err != nil {
			respondWithError(c, err)
			return
		}
		fields.Amount = &amount
	}
	if req.CategoryID != nil {
		fields.CategoryID = &req.CategoryID
	}
	if req.BankAccountID != nil {
		fields.BankAccountID = &req.BankAccountID
	}

	transaction, err := h.transactionService.UpdateTransaction(userID, transactionID, fields)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_TRANSACTION", "transaction", transactionID, c.ClientIP(), auditChanges(transaction))

	c.JSON(http.StatusOK, gin.H{
		"transaction": transaction,
		"return_to":   resolveReturnTarget(c, transaction),
	})
}

// DeleteTransaction handles the deletion of a transaction
// @Summary     Delete transaction
// @Description Permanently delete a transaction. The body must repeat the transaction id.
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Param       X-User-ID      header string                   true  "Caller user id"
// @Param       id             path   string                   true  "Transaction ID"
// @Param       reference_page query  string                   false "category to return to the category page"
// @Param       start_date     query  string                   false "Category page start date"
// @Param       end_date       query  string                   false "Category page end date"
// @Param       query          query  string                   false "Search text to keep"
// @Param       request        body   DeleteTransactionRequest true  "Confirmation"
// @Success     200 {object} MessageResponse "Transaction deleted"
// @Failure     400 {object} ErrorResponse "Missing or mismatched confirmation"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
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

	var req DeleteTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	if confirmed, err := uuid.Parse(req.TransactionID); err != nil || confirmed != transactionID {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "transaction_id does not match the transaction being deleted"))
		return
	}

	transaction, err := h.transactionService.DeleteTransaction(userID, transactionID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_TRANSACTION", "transaction", transactionID, c.ClientIP(), auditChanges(transaction))

	c.JSON(http.StatusOK, gin.H{
		"message":   "Transaction deleted successfully",
		"return_to": resolveReturnTarget(c, transaction),
	})
}

// listingWindow picks the listing bounds from the request: explicit dates
// first, then year/month, then the book's current report period.
// auditChanges records a transaction's state with the amount in major units.
func auditChanges(tx *models.Transaction) map[string]interface{} {
	return map[string]interface{}{
		"book_id":   tx.BookID,
		"direction": tx.Direction,
		"amount":    money.Format(tx.Amount),
		"date":      tx.Date,
	}
}

func listingWindow(c *gin.Context, mode period.Mode, today time.Time) period.Range {
	start, end := c.Query("start_date"), c.Query("end_date")
	if period.ValidDate(start) || period.ValidDate(end) {
		return period.Range{Start: start, End: end}
	}
	if c.Query("year") != "" || c.Query("month") != "" {
		year, month := period.NormalizeYearMonth(c.Query("year"), c.Query("month"), today)
		return period.MonthRange(year, month)
	}
	return period.RangeFor(mode, today)
}

func parseTransactionFilter(c *gin.Context) services.TransactionFilter {
	return services.TransactionFilter{
		CategoryID:    c.Query("category_id"),
		BankAccountID: c.Query("bank_account_id"),
		Query:         c.Query("query"),
		ExactDate:     c.Query("date"),
	}
}

func parseSort(c *gin.Context) services.Sort {
	return services.Sort{
		Field: services.SortField(c.Query("sort")),
		Order: services.SortOrder(c.Query("order")),
	}
}
