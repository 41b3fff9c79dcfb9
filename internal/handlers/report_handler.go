package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cashbook/internal/period"
	"cashbook/internal/services"
)

// ReportHandler serves carried-forward and category reports for a book.
type ReportHandler struct {
	reportService services.ReportServicer
	bookService   services.BookServicer
	today         Clock
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService services.ReportServicer, bookService services.BookServicer, today Clock) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		bookService:   bookService,
		today:         today,
	}
}

// GetMonthlyReport handles the twelve-month report
// @Summary     Monthly report
// @Description One row per month of the year, each starting from the previous month's ending balance. A missing or malformed year means the current year.
// @Tags        books,reports
// @Produce     json
// @Param       X-User-ID header string true  "Caller user id"
// @Param       id        path   string true  "Book ID"
// @Param       year      query  int    false "Year (default current)"
// @Success     200 {object} services.PeriodReport "Monthly report"
// @Failure     400 {object} ErrorResponse "Invalid book ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Book not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /books/{id}/reports/months [get]
func (h *ReportHandler) GetMonthlyReport(c *gin.Context) {
	bookID, ok := h.ownedBookID(c)
	if !ok {
		return
	}

	year := period.NormalizeYear(c.Query("year"), h.today())
	report, err := h.reportService.GetMonthlyReport(bookID, year)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// GetWeeklyReport handles the weekly report of a month
// @Summary     Weekly report
// @Description One row per Monday-to-Sunday week overlapping the month, with balances carried forward
// @Tags        books,reports
// @Produce     json
// @Param       X-User-ID header string true  "Caller user id"
// @Param       id        path   string true  "Book ID"
// @Param       year      query  int    false "Year (default current)"
// @Param       month     query  int    false "Month 1-12 (default current)"
// @Success     200 {object} services.PeriodReport "Weekly report"
// @Failure     400 {object} ErrorResponse "Invalid book ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Book not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /books/{id}/reports/weeks [get]
func (h *ReportHandler) GetWeeklyReport(c *gin.Context) {
	bookID, ok := h.ownedBookID(c)
	if !ok {
		return
	}

	year, month := period.NormalizeYearMonth(c.Query("year"), c.Query("month"), h.today())
	report, err := h.reportService.GetWeeklyReport(bookID, year, month)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// GetCategoryReport handles the per-category breakdown
// @Summary     Category report
// @Description Income and spending per category over a date range. Without valid dates the range is the current month.
// @Tags        books,reports
// @Produce     json
// @Param       X-User-ID  header string true  "Caller user id"
// @Param       id         path   string true  "Book ID"
// @Param       start_date query  string false "Inclusive start, YYYY-MM-DD"
// @Param       end_date   query  string false "Inclusive end, YYYY-MM-DD"
// @Success     200 {object} services.CategoryReport "Category report"
// @Failure     400 {object} ErrorResponse "Invalid book ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Book not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /books/{id}/reports/categories [get]
func (h *ReportHandler) GetCategoryReport(c *gin.Context) {
	bookID, ok := h.ownedBookID(c)
	if !ok {
		return
	}

	var window period.Range
	if start := c.Query("start_date"); period.ValidDate(start) {
		window.Start = start
	}
	if end := c.Query("end_date"); period.ValidDate(end) {
		window.End = end
	}
	if window.Unbounded() {
		today := h.today()
		window = period.MonthRange(today.Year(), today.Month())
	}

	report, err := h.reportService.GetCategoryReport(bookID, window)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// ownedBookID resolves the book path parameter and checks the caller owns it.
// It writes the error response itself and reports false on failure.
func (h *ReportHandler) ownedBookID(c *gin.Context) (string, bool) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return "", false
	}

	bookID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return "", false
	}

	if _, err := h.bookService.GetBookByID(userID, bookID); err != nil {
		respondWithError(c, err)
		return "", false
	}
	return bookID, true
}
