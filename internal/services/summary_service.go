package services

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "cashbook/internal/errors"
	"cashbook/internal/logger"
	"cashbook/internal/metrics"
	"cashbook/internal/models"
	"cashbook/internal/period"
)

// summaryService computes balances and totals for a book. It only reads.
type summaryService struct {
	db      *gorm.DB
	metrics metrics.Collector
}

// NewSummaryService creates a new SummaryServicer. A nil collector disables metrics.
func NewSummaryService(db *gorm.DB, collector metrics.Collector) SummaryServicer {
	if collector == nil {
		collector = metrics.NoOpCollector{}
	}
	return &summaryService{db: db, metrics: collector}
}

// ComputeSummary lists the book's transactions inside the query window and
// totals them. The starting balance covers every transaction dated before
// the window start and ignores the listing filters.
func (s *summaryService) ComputeSummary(bookID string, query SummaryQuery) (*Summary, error) {
	started := time.Now()

	book, err := findBook(s.db, bookID)
	if err != nil {
		return nil, err
	}

	mode := bookMode(book)
	query = normalizeSummaryQuery(mode, query)

	startingBalance, err := balanceBefore(s.db, bookID, query.Start)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	q := s.db.Preload("Category").Preload("BankAccount").Where("book_id = ?", bookID)
	q = applyDateBounds(q, query.Start, query.End)
	q = applyTransactionFilters(q, query.Filter)
	if err := q.Order(orderClause(query.Sort)).Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if transactions == nil {
		transactions = []models.Transaction{}
	}

	groups := groupByDate(transactions)
	var income, spending int64
	for _, g := range groups {
		income += g.IncomeTotal
		spending += g.SpendingTotal
	}

	summary := &Summary{
		BookID:          bookID,
		Mode:            mode,
		StartDate:       query.Start,
		EndDate:         query.End,
		Filter:          query.Filter,
		Sort:            query.Sort,
		Transactions:    transactions,
		Groups:          groups,
		StartingBalance: startingBalance,
		IncomeTotal:     income,
		SpendingTotal:   spending,
		EndingBalance:   startingBalance + income - spending,
	}

	elapsed := time.Since(started)
	s.metrics.RecordSummary(string(mode), len(transactions), elapsed)
	logger.Get().Debugw("computed summary",
		"book_id", bookID,
		"mode", mode,
		"start_date", query.Start,
		"end_date", query.End,
		"listed", len(transactions),
		"duration", elapsed,
	)

	return summary, nil
}

// GetCurrentSummary summarizes the book's current report period up to today
// and compares it against the book's budget.
func (s *summaryService) GetCurrentSummary(bookID string, today time.Time) (*CurrentSummary, error) {
	book, err := findBook(s.db, bookID)
	if err != nil {
		return nil, err
	}

	window := period.ClampEnd(period.RangeFor(bookMode(book), today), period.FormatDate(today))
	summary, err := s.ComputeSummary(bookID, SummaryQuery{Start: window.Start, End: window.End})
	if err != nil {
		return nil, err
	}

	current := &CurrentSummary{Summary: *summary, Budget: book.Budget}
	if book.Budget != nil {
		difference := *book.Budget - (summary.StartingBalance + summary.IncomeTotal)
		current.BudgetDifference = &difference
	}
	return current, nil
}

// bookMode maps the stored report period onto a period mode. Unknown values
// from legacy rows are read as monthly.
func bookMode(book *models.Book) period.Mode {
	mode := period.Mode(book.ReportPeriod)
	if !mode.Valid() {
		return period.Monthly
	}
	return mode
}

// NormalizeSort replaces unknown sort values with the date ascending default.
func NormalizeSort(sort Sort) Sort {
	switch SortField(strings.ToLower(string(sort.Field))) {
	case SortByDate, SortByDescription, SortByAmount:
		sort.Field = SortField(strings.ToLower(string(sort.Field)))
	default:
		sort.Field = SortByDate
	}
	switch SortOrder(strings.ToLower(string(sort.Order))) {
	case SortDesc:
		sort.Order = SortDesc
	default:
		sort.Order = SortAsc
	}
	return sort
}

// normalizeSummaryQuery applies the engine's defaults. It never fails:
// malformed values are dropped, reversed bounds are swapped, and all-time
// books ignore the bounds entirely.
func normalizeSummaryQuery(mode period.Mode, query SummaryQuery) SummaryQuery {
	if !period.ValidDate(query.Start) {
		query.Start = ""
	}
	if !period.ValidDate(query.End) {
		query.End = ""
	}
	if query.Start != "" && query.End != "" && query.Start > query.End {
		query.Start, query.End = query.End, query.Start
	}
	if mode == period.AllTime {
		query.Start, query.End = "", ""
	}

	if !period.ValidDate(query.Filter.ExactDate) {
		query.Filter.ExactDate = ""
	}
	query.Filter.CategoryID = strings.TrimSpace(query.Filter.CategoryID)
	query.Filter.BankAccountID = strings.TrimSpace(query.Filter.BankAccountID)
	query.Filter.Query = strings.TrimSpace(query.Filter.Query)

	query.Sort = NormalizeSort(query.Sort)
	return query
}

// orderClause renders a normalized sort with the id tie-break. Descriptions
// compare case-insensitively so every driver lists them in the same order.
func orderClause(sort Sort) string {
	column := string(sort.Field)
	if sort.Field == SortByDescription {
		column = "LOWER(description)"
	}
	return fmt.Sprintf("%s %s, id ASC", column, strings.ToUpper(string(sort.Order)))
}

// groupByDate buckets transactions by date. Groups appear in the order their
// first member appears, and members keep their listing order.
func groupByDate(transactions []models.Transaction) []DateGroup {
	groups := []DateGroup{}
	index := make(map[string]int)
	for _, tx := range transactions {
		i, ok := index[tx.Date]
		if !ok {
			i = len(groups)
			index[tx.Date] = i
			groups = append(groups, DateGroup{Date: tx.Date})
		}
		g := &groups[i]
		g.Transactions = append(g.Transactions, tx)
		g.Net += tx.SignedAmount()
		switch tx.Direction {
		case models.DirectionIncome:
			g.IncomeTotal += tx.Amount
		case models.DirectionSpending:
			g.SpendingTotal += tx.Amount
		}
	}
	return groups
}
