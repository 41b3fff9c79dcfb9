package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"cashbook/internal/models"
	"cashbook/internal/uuid"

	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// NewUserID returns a fresh caller identity.
func NewUserID() string {
	return uuid.New()
}

// CreateTestBook creates an active monthly book owned by creatorID.
func CreateTestBook(t *testing.T, db *gorm.DB, creatorID string) *models.Book {
	t.Helper()
	return CreateTestBookWithPeriod(t, db, creatorID, models.ReportPeriodMonthly)
}

// CreateTestBookWithPeriod creates an active book with the given report period.
func CreateTestBookWithPeriod(t *testing.T, db *gorm.DB, creatorID string, reportPeriod models.ReportPeriod) *models.Book {
	t.Helper()

	book := &models.Book{
		Name:         fmt.Sprintf("Test Book %d", nextID()),
		CreatorID:    creatorID,
		ReportPeriod: reportPeriod,
		CurrencyCode: "IDR",
		IsActive:     true,
	}
	if err := db.Create(book).Error; err != nil {
		t.Fatalf("failed to create test book: %v", err)
	}
	return book
}

// CreateTestCategory creates an active category in the book.
func CreateTestCategory(t *testing.T, db *gorm.DB, book *models.Book, direction models.Direction) *models.Category {
	t.Helper()

	category := &models.Category{
		BookID:    book.ID,
		Name:      fmt.Sprintf("Test Category %d", nextID()),
		Direction: direction,
		Color:     "#00aabb",
		IsActive:  true,
		CreatorID: book.CreatorID,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestBankAccount creates an active bank account owned by creatorID.
func CreateTestBankAccount(t *testing.T, db *gorm.DB, creatorID string) *models.BankAccount {
	t.Helper()

	n := nextID()
	account := &models.BankAccount{
		Name:        fmt.Sprintf("Test Bank %d", n),
		Number:      fmt.Sprintf("000%d", n),
		AccountName: "Test Holder",
		IsActive:    true,
		CreatorID:   creatorID,
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create test bank account: %v", err)
	}
	return account
}

// CreateTestBankAccountBalance records a balance on the account.
func CreateTestBankAccountBalance(t *testing.T, db *gorm.DB, account *models.BankAccount, amount int64, date string) *models.BankAccountBalance {
	t.Helper()

	balance := &models.BankAccountBalance{
		BankAccountID: account.ID,
		Date:          date,
		Amount:        amount,
		Description:   fmt.Sprintf("Statement %d", nextID()),
		CreatorID:     account.CreatorID,
	}
	if err := db.Create(balance).Error; err != nil {
		t.Fatalf("failed to create test bank account balance: %v", err)
	}
	return balance
}

// TransactionOption adjusts a fixture transaction before it is saved.
type TransactionOption func(*models.Transaction)

// WithCategory attaches a category.
func WithCategory(categoryID string) TransactionOption {
	return func(tx *models.Transaction) { tx.CategoryID = &categoryID }
}

// WithBankAccount attaches a bank account.
func WithBankAccount(bankAccountID string) TransactionOption {
	return func(tx *models.Transaction) { tx.BankAccountID = &bankAccountID }
}

// WithDescription sets the description.
func WithDescription(description string) TransactionOption {
	return func(tx *models.Transaction) { tx.Description = description }
}

// CreateTestTransaction creates a transaction in the book with the given
// direction, amount (in minor units) and YYYY-MM-DD date.
func CreateTestTransaction(t *testing.T, db *gorm.DB, book *models.Book, direction models.Direction, amount int64, date string, opts ...TransactionOption) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		BookID:      book.ID,
		Amount:      amount,
		Direction:   direction,
		Date:        date,
		Description: fmt.Sprintf("Test Transaction %d", nextID()),
		CreatorID:   book.CreatorID,
	}
	for _, opt := range opts {
		opt(tx)
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}
