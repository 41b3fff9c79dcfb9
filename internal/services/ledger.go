package services

import (
	"strings"

	"cashbook/internal/models"
	"cashbook/internal/period"

	"gorm.io/gorm"
)

// signedSum adds income and subtracts spending. Rows with any other
// direction contribute nothing.
const signedSum = "CAST(COALESCE(SUM(CASE WHEN direction = 'income' THEN amount " +
	"WHEN direction = 'spending' THEN -amount ELSE 0 END), 0) AS BIGINT)"

// balanceBefore returns the book's balance carried into date: everything
// through the day before, ignoring listing filters. An empty or invalid date
// yields 0.
func balanceBefore(db *gorm.DB, bookID, date string) (int64, error) {
	dayBefore := period.DayBefore(date)
	if dayBefore == "" {
		return 0, nil
	}
	return balanceThrough(db, bookID, dayBefore)
}

// balanceThrough returns the book's balance over transactions dated on or
// before date. An empty date covers the whole history.
func balanceThrough(db *gorm.DB, bookID, date string) (int64, error) {
	q := db.Model(&models.Transaction{}).Select(signedSum).Where("book_id = ?", bookID)
	if date != "" {
		q = q.Where("date <= ?", date)
	}
	var balance int64
	err := q.Scan(&balance).Error
	return balance, err
}

type directionTotal struct {
	Direction models.Direction
	Total     int64
}

// sumByDirection aggregates q, which must already be scoped to transactions,
// into income and spending totals.
func sumByDirection(q *gorm.DB) (income, spending int64, err error) {
	var rows []directionTotal
	if err := q.Select("direction, CAST(COALESCE(SUM(amount), 0) AS BIGINT) AS total").
		Group("direction").
		Scan(&rows).Error; err != nil {
		return 0, 0, err
	}
	for _, row := range rows {
		switch row.Direction {
		case models.DirectionIncome:
			income += row.Total
		case models.DirectionSpending:
			spending += row.Total
		}
	}
	return income, spending, nil
}

func applyDateBounds(q *gorm.DB, start, end string) *gorm.DB {
	if start != "" {
		q = q.Where("date >= ?", start)
	}
	if end != "" {
		q = q.Where("date <= ?", end)
	}
	return q
}

func applyTransactionFilters(q *gorm.DB, f TransactionFilter) *gorm.DB {
	switch f.CategoryID {
	case "":
	case FilterNone:
		q = q.Where("category_id IS NULL")
	default:
		q = q.Where("category_id = ?", f.CategoryID)
	}
	switch f.BankAccountID {
	case "":
	case FilterNone:
		q = q.Where("bank_account_id IS NULL")
	default:
		q = q.Where("bank_account_id = ?", f.BankAccountID)
	}
	if f.Query != "" {
		q = q.Where("LOWER(description) LIKE ? ESCAPE '\\'", "%"+escapeLike(strings.ToLower(f.Query))+"%")
	}
	if f.ExactDate != "" {
		q = q.Where("date = ?", f.ExactDate)
	}
	return q
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
