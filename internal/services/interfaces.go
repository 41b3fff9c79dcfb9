package services

import (
	"time"

	"cashbook/internal/models"
	"cashbook/internal/pagination"
	"cashbook/internal/period"
)

// Defaults carries configured values applied when a request leaves them out.
type Defaults struct {
	Currency      string
	ReportPeriod  models.ReportPeriod
	IncomeColor   string
	SpendingColor string
}

// BookUpdateFields holds the optional fields for a book update.
// Budget uses a double pointer: nil leaves it unchanged, a pointer to nil clears it.
type BookUpdateFields struct {
	Name         *string
	Description  *string
	Budget       **int64
	ReportPeriod *models.ReportPeriod
	CurrencyCode *string
	IsActive     *bool
}

// BookServicer defines the contract for book-related business logic.
type BookServicer interface {
	CreateBook(creatorID, name, description string, budget *int64, reportPeriod models.ReportPeriod, currencyCode string) (*models.Book, error)
	GetUserBooks(creatorID string, page pagination.PageRequest) (*pagination.PageResponse[models.Book], error)
	GetBookByID(creatorID, bookID string) (*models.Book, error)
	UpdateBook(creatorID, bookID string, fields BookUpdateFields) (*models.Book, error)
	DeactivateBook(creatorID, bookID string) error
	GetBalance(bookID, asOf string) (int64, error)
}

// CategoryUpdateFields holds the optional fields for a category update.
type CategoryUpdateFields struct {
	Name        *string
	Direction   *models.Direction
	Color       *string
	Description *string
	IsActive    *bool
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(userID, bookID, name string, direction models.Direction, color, description string) (*models.Category, error)
	GetBookCategories(userID, bookID string, direction *models.Direction, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error)
	GetCategoryByID(userID, categoryID string) (*models.Category, error)
	UpdateCategory(userID, categoryID string, fields CategoryUpdateFields) (*models.Category, error)
	DeleteCategory(userID, categoryID string) error
}

// BankAccountUpdateFields holds the optional fields for a bank account update.
type BankAccountUpdateFields struct {
	Name        *string
	Number      *string
	AccountName *string
	Description *string
	IsActive    *bool
}

// BankAccountServicer defines the contract for bank account business logic.
type BankAccountServicer interface {
	CreateBankAccount(userID, name, number, accountName, description string) (*models.BankAccount, error)
	GetUserBankAccounts(userID string, activeOnly bool, page pagination.PageRequest) (*pagination.PageResponse[models.BankAccount], error)
	GetBankAccountByID(userID, bankAccountID string) (*models.BankAccount, error)
	UpdateBankAccount(userID, bankAccountID string, fields BankAccountUpdateFields) (*models.BankAccount, error)
	DeleteBankAccount(userID, bankAccountID string) error
}

// BankAccountBalanceUpdateFields holds the optional fields for a recorded balance update.
type BankAccountBalanceUpdateFields struct {
	Amount      *int64
	Date        *string
	Description *string
}

// BankAccountBalanceServicer defines the contract for balances recorded on bank accounts.
type BankAccountBalanceServicer interface {
	CreateBalance(userID, bankAccountID string, amount int64, date, description string) (*models.BankAccountBalance, error)
	GetBalances(userID, bankAccountID string, page pagination.PageRequest) (*pagination.PageResponse[models.BankAccountBalance], error)
	GetBalanceByID(userID, bankAccountID, balanceID string) (*models.BankAccountBalance, error)
	UpdateBalance(userID, bankAccountID, balanceID string, fields BankAccountBalanceUpdateFields) (*models.BankAccountBalance, error)
	DeleteBalance(userID, bankAccountID, balanceID string) error
}

// FilterNone is the filter value that selects transactions without a
// category, or without a bank account (cash).
const FilterNone = "null"

// TransactionFilter holds the optional listing filters shared by the
// summary engine and transaction search. Empty fields do not filter.
type TransactionFilter struct {
	CategoryID    string `json:"category_id,omitempty"`
	BankAccountID string `json:"bank_account_id,omitempty"`
	Query         string `json:"query,omitempty"`
	ExactDate     string `json:"date,omitempty"`
}

// TransactionUpdateFields holds the optional fields for a transaction update.
// CategoryID and BankAccountID use double pointers: nil leaves the field
// unchanged, a pointer to nil clears it.
type TransactionUpdateFields struct {
	Amount        *int64
	Direction     *models.Direction
	Date          *string
	Description   *string
	CategoryID    **string
	BankAccountID **string
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	CreateTransaction(userID, bookID string, categoryID, bankAccountID *string, direction models.Direction, amount int64, description, date string) (*models.Transaction, error)
	GetTransactionByID(userID, transactionID string) (*models.Transaction, error)
	UpdateTransaction(userID, transactionID string, fields TransactionUpdateFields) (*models.Transaction, error)
	DeleteTransaction(userID, transactionID string) (*models.Transaction, error)
	SearchTransactions(userID, bookID string, filter TransactionFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error)
}

// SortField is a column the summary listing can be ordered by.
type SortField string

const (
	SortByDate        SortField = "date"
	SortByDescription SortField = "description"
	SortByAmount      SortField = "amount"
)

// SortOrder is the direction of a listing sort.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Sort selects the listing order. Ties are always broken by id ascending.
type Sort struct {
	Field SortField `json:"field"`
	Order SortOrder `json:"order"`
}

// SummaryQuery is the input to ComputeSummary. Start and End are inclusive
// YYYY-MM-DD bounds; an empty bound leaves that side open.
type SummaryQuery struct {
	Start  string
	End    string
	Filter TransactionFilter
	Sort   Sort
}

// DateGroup is the listing's transactions sharing one date, in listing order.
// Net is income minus spending for the date.
type DateGroup struct {
	Date          string               `json:"date"`
	Transactions  []models.Transaction `json:"transactions"`
	IncomeTotal   int64                `json:"income_total"`
	SpendingTotal int64                `json:"spending_total"`
	Net           int64                `json:"net"`
}

// Summary is the engine result for one book and window.
// EndingBalance always equals StartingBalance + IncomeTotal - SpendingTotal.
type Summary struct {
	BookID          string               `json:"book_id"`
	Mode            period.Mode          `json:"report_period"`
	StartDate       string               `json:"start_date"`
	EndDate         string               `json:"end_date"`
	Filter          TransactionFilter    `json:"filter"`
	Sort            Sort                 `json:"sort"`
	Transactions    []models.Transaction `json:"transactions"`
	Groups          []DateGroup          `json:"groups"`
	StartingBalance int64                `json:"starting_balance"`
	IncomeTotal     int64                `json:"income_total"`
	SpendingTotal   int64                `json:"spending_total"`
	EndingBalance   int64                `json:"ending_balance"`
}

// CurrentSummary is a book's dashboard: the summary of its current report
// period plus the budget comparison when the book has a budget.
type CurrentSummary struct {
	Summary
	Budget           *int64 `json:"budget"`
	BudgetDifference *int64 `json:"budget_difference"`
}

// SummaryServicer defines the contract for the balance and summary engine.
type SummaryServicer interface {
	ComputeSummary(bookID string, query SummaryQuery) (*Summary, error)
	GetCurrentSummary(bookID string, today time.Time) (*CurrentSummary, error)
}

// ReportRow is one period of a carried-forward report.
type ReportRow struct {
	Label           string `json:"label"`
	StartDate       string `json:"start_date"`
	EndDate         string `json:"end_date"`
	StartingBalance int64  `json:"starting_balance"`
	IncomeTotal     int64  `json:"income_total"`
	SpendingTotal   int64  `json:"spending_total"`
	Difference      int64  `json:"difference"`
	EndingBalance   int64  `json:"ending_balance"`
}

// PeriodReport is a sequence of adjacent periods with balances carried forward.
type PeriodReport struct {
	BookID          string      `json:"book_id"`
	StartDate       string      `json:"start_date"`
	EndDate         string      `json:"end_date"`
	StartingBalance int64       `json:"starting_balance"`
	Rows            []ReportRow `json:"rows"`
	IncomeTotal     int64       `json:"income_total"`
	SpendingTotal   int64       `json:"spending_total"`
	EndingBalance   int64       `json:"ending_balance"`
}

// CategoryReportRow totals one category, or uncategorized transactions when CategoryID is nil.
type CategoryReportRow struct {
	CategoryID    *string `json:"category_id"`
	Name          string  `json:"name"`
	Color         string  `json:"color"`
	IncomeTotal   int64   `json:"income_total"`
	SpendingTotal int64   `json:"spending_total"`
}

// CategoryReport breaks a range's totals down by category.
type CategoryReport struct {
	BookID        string              `json:"book_id"`
	StartDate     string              `json:"start_date"`
	EndDate       string              `json:"end_date"`
	Rows          []CategoryReportRow `json:"rows"`
	IncomeTotal   int64               `json:"income_total"`
	SpendingTotal int64               `json:"spending_total"`
}

// ReportServicer defines the contract for book reports.
type ReportServicer interface {
	GetMonthlyReport(bookID string, year int) (*PeriodReport, error)
	GetWeeklyReport(bookID string, year int, month time.Month) (*PeriodReport, error)
	GetCategoryReport(bookID string, r period.Range) (*CategoryReport, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
