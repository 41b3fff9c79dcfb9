package handlers

import (
	"github.com/gin-gonic/gin"

	"cashbook/internal/models"
	"cashbook/internal/period"
)

// ReturnPage names the listing a client should go back to after a write.
type ReturnPage string

const (
	ReturnToCategory     ReturnPage = "category"
	ReturnToTransactions ReturnPage = "transactions"
)

// ReturnTarget tells the client which listing to show after a transaction is
// updated or deleted, with the parameters to reopen it.
type ReturnTarget struct {
	Page       ReturnPage `json:"page"`
	BookID     string     `json:"book_id"`
	CategoryID string     `json:"category_id,omitempty"`
	StartDate  string     `json:"start_date,omitempty"`
	EndDate    string     `json:"end_date,omitempty"`
	Query      string     `json:"query,omitempty"`
	Year       int        `json:"year,omitempty"`
	Month      int        `json:"month,omitempty"`
}

// resolveReturnTarget reads reference_page, start_date, end_date, query and
// queried_category_id from the request query. The category page is chosen
// only when asked for and the transaction still has a category; otherwise
// the client goes back to the month of the transaction.
func resolveReturnTarget(c *gin.Context, tx *models.Transaction) ReturnTarget {
	query := c.Query("query")

	if ReturnPage(c.Query("reference_page")) == ReturnToCategory && tx.CategoryID != nil {
		target := ReturnTarget{
			Page:       ReturnToCategory,
			BookID:     tx.BookID,
			CategoryID: *tx.CategoryID,
			Query:      query,
		}
		if start := c.Query("start_date"); period.ValidDate(start) {
			target.StartDate = start
		}
		if end := c.Query("end_date"); period.ValidDate(end) {
			target.EndDate = end
		}
		return target
	}

	target := ReturnTarget{
		Page:       ReturnToTransactions,
		BookID:     tx.BookID,
		CategoryID: c.Query("queried_category_id"),
		Query:      query,
	}
	if date, ok := period.ParseDate(tx.Date); ok {
		target.Year = date.Year()
		target.Month = int(date.Month())
	}
	return target
}
