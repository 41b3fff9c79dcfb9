package services

import (
	"testing"
	"time"

	"cashbook/internal/models"
	"cashbook/internal/period"
	"cashbook/internal/testutil"
)

func TestGetMonthlyReport(t *testing.T) {
	t.Run("carries_balance_forward", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(db)

		book := testutil.CreateTestBook(t, db, testutil.NewUserID())
		testutil.CreateTestTransaction(t, db, book, models.DirectionIncome, 10000, "2023-12-31")
		testutil.CreateTestTransaction(t, db, book, models.DirectionSpending, 2000, "2024-01-15")
		testutil.CreateTestTransaction(t, db, book, models.DirectionIncome, 500, "2024-03-01")
		testutil.CreateTestTransaction(t, db, book, models.DirectionSpending, 100, "2024-12-31")
		testutil.CreateTestTransaction(t, db, book, models.DirectionIncome, 99999, "2025-01-01")

		report, err := svc.GetMonthlyReport(book.ID, 2024)
		testutil.AssertNoError(t, err)

		if len(report.Rows) != 12 {
			t.Fatalf("expected 12 rows, got %d", len(report.Rows))
		}
		if report.Rows[0].Label != "2024-01" || report.Rows[11].Label != "2024-12" {
			t.Errorf("unexpected labels %s..%s", report.Rows[0].Label, report.Rows[11].Label)
		}
		if report.Rows[1].EndDate != "2024-02-29" {
			t.Errorf("expected leap February, got %s", report.Rows[1].EndDate)
		}

		testutil.AssertAmount(t, "starting balance", report.StartingBalance, 10000)
		testutil.AssertAmount(t, "january ending", report.Rows[0].EndingBalance, 8000)
		testutil.AssertAmount(t, "february starting", report.Rows[1].StartingBalance, 8000)
		testutil.AssertAmount(t, "march difference", report.Rows[2].Difference, 500)
		testutil.AssertAmount(t, "ending balance", report.EndingBalance, 8400)
		testutil.AssertAmount(t, "income total", report.IncomeTotal, 500)
		testutil.AssertAmount(t, "spending total", report.SpendingTotal, 2100)

		for i := 1; i < len(report.Rows); i++ {
			if report.Rows[i].StartingBalance != report.Rows[i-1].EndingBalance {
				t.Errorf("row %d does not chain from row %d", i, i-1)
			}
		}
	})

	t.Run("rows_match_summary_engine", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		reports := NewReportService(db)
		summaries := NewSummaryService(db, nil)

		book := testutil.CreateTestBook(t, db, testutil.NewUserID())
		testutil.CreateTestTransaction(t, db, book, models.DirectionIncome, 7000, "2023-06-01")
		testutil.CreateTestTransaction(t, db, book, models.DirectionSpending, 300, "2024-02-10")
		testutil.CreateTestTransaction(t, db, book, models.DirectionIncome, 1200, "2024-07-20")
		testutil.CreateTestTransaction(t, db, book, models.DirectionSpending, 450, "2024-07-21")

		report, err := reports.GetMonthlyReport(book.ID, 2024)
		testutil.AssertNoError(t, err)

		for _, row := range report.Rows {
			summary, err := summaries.ComputeSummary(book.ID, SummaryQuery{Start: row.StartDate, End: row.EndDate})
			testutil.AssertNoError(t, err)
			testutil.AssertAmount(t, row.Label+" starting", row.StartingBalance, summary.StartingBalance)
			testutil.AssertAmount(t, row.Label+" income", row.IncomeTotal, summary.IncomeTotal)
			testutil.AssertAmount(t, row.Label+" spending", row.SpendingTotal, summary.SpendingTotal)
			testutil.AssertAmount(t, row.Label+" ending", row.EndingBalance, summary.EndingBalance)
		}
	})

	t.Run("book_not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(db)

		_, err := svc.GetMonthlyReport("missing", 2024)
		testutil.AssertAppError(t, err, "BOOK_NOT_FOUND")
	})
}

func TestGetWeeklyReport(t *testing.T) {
	t.Run("weeks_overlapping_month", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(db)

		book := testutil.CreateTestBookWithPeriod(t, db, testutil.NewUserID(), models.ReportPeriodWeekly)
		testutil.CreateTestTransaction(t, db, book, models.DirectionIncome, 100, "2024-02-26")
		testutil.CreateTestTransaction(t, db, book, models.DirectionIncome, 40, "2024-03-04")

		report, err := svc.GetWeeklyReport(book.ID, 2024, time.March)
		testutil.AssertNoError(t, err)

		if report.Rows[0].StartDate != "2024-02-26" || report.Rows[0].Label != "2024-02-26" {
			t.Errorf("expected first week to start Monday 2024-02-26, got %+v", report.Rows[0])
		}
		last := report.Rows[len(report.Rows)-1]
		if last.EndDate != "2024-03-31" {
			t.Errorf("expected last week to end Sunday 2024-03-31, got %s", last.EndDate)
		}
		testutil.AssertAmount(t, "starting balance", report.StartingBalance, 0)
		testutil.AssertAmount(t, "first week income", report.Rows[0].IncomeTotal, 100)
		testutil.AssertAmount(t, "second week starting", report.Rows[1].StartingBalance, 100)
		testutil.AssertAmount(t, "ending balance", report.EndingBalance, 140)
	})
}

func TestGetCategoryReport(t *testing.T) {
	t.Run("groups_by_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(db)

		book := testutil.CreateTestBook(t, db, testutil.NewUserID())
		food := testutil.CreateTestCategory(t, db, book, models.DirectionSpending)
		salary := testutil.CreateTestCategory(t, db, book, models.DirectionIncome)

		testutil.CreateTestTransaction(t, db, book, models.DirectionSpending, 300, "2024-03-01", testutil.WithCategory(food.ID))
		testutil.CreateTestTransaction(t, db, book, models.DirectionSpending, 200, "2024-03-02", testutil.WithCategory(food.ID))
		testutil.CreateTestTransaction(t, db, book, models.DirectionIncome, 9000, "2024-03-03", testutil.WithCategory(salary.ID))
		testutil.CreateTestTransaction(t, db, book, models.DirectionSpending, 50, "2024-03-04")
		testutil.CreateTestTransaction(t, db, book, models.DirectionSpending, 7777, "2024-04-01", testutil.WithCategory(food.ID))

		report, err := svc.GetCategoryReport(book.ID, period.Range{Start: "2024-03-01", End: "2024-03-31"})
		testutil.AssertNoError(t, err)

		if len(report.Rows) != 3 {
			t.Fatalf("expected 3 rows, got %d", len(report.Rows))
		}
		if report.Rows[0].Name != salary.Name || report.Rows[0].IncomeTotal != 9000 {
			t.Errorf("expected salary first, got %+v", report.Rows[0])
		}
		if report.Rows[1].Name != food.Name || report.Rows[1].SpendingTotal != 500 || report.Rows[1].Color != food.Color {
			t.Errorf("expected food second, got %+v", report.Rows[1])
		}
		if report.Rows[2].CategoryID != nil || report.Rows[2].Name != UncategorizedName {
			t.Errorf("expected uncategorized last, got %+v", report.Rows[2])
		}
		testutil.AssertAmount(t, "income total", report.IncomeTotal, 9000)
		testutil.AssertAmount(t, "spending total", report.SpendingTotal, 550)
	})

	t.Run("empty_range", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(db)

		book := testutil.CreateTestBook(t, db, testutil.NewUserID())

		report, err := svc.GetCategoryReport(book.ID, period.Range{Start: "2024-03-01", End: "2024-03-31"})
		testutil.AssertNoError(t, err)
		if report.Rows == nil || len(report.Rows) != 0 {
			t.Errorf("expected empty rows, got %v", report.Rows)
		}
	})
}
