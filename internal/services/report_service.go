package services

import (
	"sort"
	"time"

	"gorm.io/gorm"

	apperrors "cashbook/internal/errors"
	"cashbook/internal/models"
	"cashbook/internal/period"
)

// UncategorizedName labels the category report row for transactions without a category.
const UncategorizedName = "Uncategorized"

// reportService builds multi-period reports on top of the ledger queries.
type reportService struct {
	db *gorm.DB
}

// NewReportService creates a new ReportServicer.
func NewReportService(db *gorm.DB) ReportServicer {
	return &reportService{db: db}
}

// GetMonthlyReport returns one row per month of year, carrying the balance
// forward from everything dated before January 1st.
func (s *reportService) GetMonthlyReport(bookID string, year int) (*PeriodReport, error) {
	ranges := make([]period.Range, 0, 12)
	labels := make([]string, 0, 12)
	for m := time.January; m <= time.December; m++ {
		ranges = append(ranges, period.MonthRange(year, m))
		labels = append(labels, time.Date(year, m, 1, 0, 0, 0, 0, time.UTC).Format("2006-01"))
	}
	return s.buildPeriodReport(bookID, ranges, labels)
}

// GetWeeklyReport returns one row per Monday-started week overlapping the month.
func (s *reportService) GetWeeklyReport(bookID string, year int, month time.Month) (*PeriodReport, error) {
	ranges := period.WeeksOfMonth(year, month)
	labels := make([]string, len(ranges))
	for i, r := range ranges {
		labels[i] = r.Start
	}
	return s.buildPeriodReport(bookID, ranges, labels)
}

// buildPeriodReport totals each adjacent range and chains the balances.
func (s *reportService) buildPeriodReport(bookID string, ranges []period.Range, labels []string) (*PeriodReport, error) {
	if err := bookExists(s.db, bookID); err != nil {
		return nil, err
	}

	report := &PeriodReport{
		BookID:    bookID,
		StartDate: ranges[0].Start,
		EndDate:   ranges[len(ranges)-1].End,
		Rows:      make([]ReportRow, 0, len(ranges)),
	}

	balance, err := balanceBefore(s.db, bookID, report.StartDate)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	report.StartingBalance = balance

	for i, r := range ranges {
		q := applyDateBounds(s.db.Model(&models.Transaction{}).Where("book_id = ?", bookID), r.Start, r.End)
		income, spending, err := sumByDirection(q)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		row := ReportRow{
			Label:           labels[i],
			StartDate:       r.Start,
			EndDate:         r.End,
			StartingBalance: balance,
			IncomeTotal:     income,
			SpendingTotal:   spending,
			Difference:      income - spending,
		}
		balance += row.Difference
		row.EndingBalance = balance

		report.Rows = append(report.Rows, row)
		report.IncomeTotal += income
		report.SpendingTotal += spending
	}
	report.EndingBalance = balance

	return report, nil
}

type categoryTotal struct {
	CategoryID *string
	Direction  models.Direction
	Total      int64
}

// GetCategoryReport totals income and spending per category within r.
// Rows are ordered by combined total descending, then by name.
func (s *reportService) GetCategoryReport(bookID string, r period.Range) (*CategoryReport, error) {
	if err := bookExists(s.db, bookID); err != nil {
		return nil, err
	}

	if !period.ValidDate(r.Start) {
		r.Start = ""
	}
	if !period.ValidDate(r.End) {
		r.End = ""
	}
	if r.Start != "" && r.End != "" && r.Start > r.End {
		r.Start, r.End = r.End, r.Start
	}

	var totals []categoryTotal
	q := applyDateBounds(s.db.Model(&models.Transaction{}).Where("book_id = ?", bookID), r.Start, r.End)
	if err := q.Select("category_id, direction, CAST(COALESCE(SUM(amount), 0) AS BIGINT) AS total").
		Group("category_id, direction").
		Scan(&totals).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	report := &CategoryReport{BookID: bookID, StartDate: r.Start, EndDate: r.End, Rows: []CategoryReportRow{}}
	rows := make(map[string]*CategoryReportRow)
	var ids []string
	for _, t := range totals {
		key := ""
		if t.CategoryID != nil {
			key = *t.CategoryID
		}
		row, ok := rows[key]
		if !ok {
			row = &CategoryReportRow{CategoryID: t.CategoryID, Name: UncategorizedName}
			rows[key] = row
			if key != "" {
				ids = append(ids, key)
			}
		}
		switch t.Direction {
		case models.DirectionIncome:
			row.IncomeTotal += t.Total
			report.IncomeTotal += t.Total
		case models.DirectionSpending:
			row.SpendingTotal += t.Total
			report.SpendingTotal += t.Total
		}
	}

	if len(ids) > 0 {
		var categories []models.Category
		if err := s.db.Where("id IN ?", ids).Find(&categories).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		for _, c := range categories {
			if row, ok := rows[c.ID]; ok {
				row.Name = c.Name
				row.Color = c.Color
			}
		}
	}

	for _, row := range rows {
		report.Rows = append(report.Rows, *row)
	}
	sort.SliceStable(report.Rows, func(i, j int) bool {
		a, b := report.Rows[i], report.Rows[j]
		ta, tb := a.IncomeTotal+a.SpendingTotal, b.IncomeTotal+b.SpendingTotal
		if ta != tb {
			return ta > tb
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.CategoryID == nil || (b.CategoryID != nil && *a.CategoryID < *b.CategoryID)
	})

	return report, nil
}
