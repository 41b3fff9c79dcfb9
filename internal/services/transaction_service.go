package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "cashbook/internal/errors"
	"cashbook/internal/models"
	"cashbook/internal/pagination"
	"cashbook/internal/period"
)

// transactionService handles transaction-related business logic.
type transactionService struct {
	db          *gorm.DB
	bookService BookServicer
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB, bookService BookServicer) TransactionServicer {
	return &transactionService{
		db:          db,
		bookService: bookService,
	}
}

// CreateTransaction records an income or spending entry in an active book
func (s *transactionService) CreateTransaction(
	userID string,
	bookID string,
	categoryID *string,
	bankAccountID *string,
	direction models.Direction,
	amount int64,
	description string,
	date string,
) (*models.Transaction, error) {
	if err := validateEntry(amount, direction, date); err != nil {
		return nil, err
	}

	book, err := s.bookService.GetBookByID(userID, bookID)
	if err != nil {
		return nil, err
	}
	if !book.IsActive {
		return nil, apperrors.ErrBookInactive
	}

	categoryID = normalizeRef(categoryID)
	bankAccountID = normalizeRef(bankAccountID)
	if err := s.checkCategory(bookID, categoryID, direction, true); err != nil {
		return nil, err
	}
	if err := s.checkBankAccount(userID, bankAccountID); err != nil {
		return nil, err
	}

	transaction := &models.Transaction{
		BookID:        bookID,
		Amount:        amount,
		Direction:     direction,
		Date:          date,
		Description:   strings.TrimSpace(description),
		CategoryID:    categoryID,
		BankAccountID: bankAccountID,
		CreatorID:     userID,
	}

	if err := s.db.Create(transaction).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return s.GetTransactionByID(userID, transaction.ID)
}

// GetTransactionByID retrieves a transaction in one of the user's books
func (s *transactionService) GetTransactionByID(userID, transactionID string) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.Preload("Category").Preload("BankAccount").
		Where("id = ? AND book_id IN (?)", transactionID, s.userBooks(userID)).
		First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// UpdateTransaction applies the provided fields to a transaction. The book
// and creator of a transaction never change.
func (s *transactionService) UpdateTransaction(userID, transactionID string, fields TransactionUpdateFields) (*models.Transaction, error) {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if fields.Amount != nil {
		if *fields.Amount < 0 {
			return nil, apperrors.ErrNegativeAmount
		}
		updates["amount"] = *fields.Amount
	}
	direction := transaction.Direction
	if fields.Direction != nil {
		if !fields.Direction.Valid() {
			return nil, apperrors.ErrInvalidDirection
		}
		direction = *fields.Direction
		updates["direction"] = direction
	}
	if fields.Date != nil {
		if !period.ValidDate(*fields.Date) {
			return nil, apperrors.ErrInvalidDate
		}
		updates["date"] = *fields.Date
	}
	if fields.Description != nil {
		updates["description"] = strings.TrimSpace(*fields.Description)
	}
	categoryID := transaction.CategoryID
	if fields.CategoryID != nil {
		categoryID = normalizeRef(*fields.CategoryID)
		updates["category_id"] = categoryID
	}
	if fields.CategoryID != nil || fields.Direction != nil {
		if err := s.checkCategory(transaction.BookID, categoryID, direction, fields.CategoryID != nil); err != nil {
			return nil, err
		}
	}
	if fields.BankAccountID != nil {
		bankAccountID := normalizeRef(*fields.BankAccountID)
		if err := s.checkBankAccount(userID, bankAccountID); err != nil {
			return nil, err
		}
		updates["bank_account_id"] = bankAccountID
	}

	if len(updates) > 0 {
		if err := s.db.Model(&models.Transaction{}).
			Where("id = ?", transaction.ID).
			Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return s.GetTransactionByID(userID, transactionID)
}

// DeleteTransaction permanently removes a transaction and returns it as it was
// before deletion.
func (s *transactionService) DeleteTransaction(userID, transactionID string) (*models.Transaction, error) {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Delete(&models.Transaction{}, "id = ?", transaction.ID).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return transaction, nil
}

// SearchTransactions retrieves a paginated, filtered list of a book's
// transactions, newest first.
func (s *transactionService) SearchTransactions(userID, bookID string, filter TransactionFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error) {
	if _, err := s.bookService.GetBookByID(userID, bookID); err != nil {
		return nil, err
	}
	if filter.ExactDate != "" && !period.ValidDate(filter.ExactDate) {
		filter.ExactDate = ""
	}

	page.Defaults()

	scope := func(db *gorm.DB) *gorm.DB {
		return applyTransactionFilters(db.Where("book_id = ?", bookID), filter)
	}

	var totalItems int64
	if err := s.db.Model(&models.Transaction{}).Scopes(scope).Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := s.db.Preload("Category").Preload("BankAccount").
		Scopes(scope, pagination.Paginate(page)).
		Order("date DESC, id DESC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// userBooks is a subquery selecting the ids of books created by userID.
func (s *transactionService) userBooks(userID string) *gorm.DB {
	return s.db.Model(&models.Book{}).Select("id").Where("creator_id = ?", userID)
}

// checkCategory verifies that a referenced category exists in the book and
// has the transaction's direction. A category being assigned must also be
// active; one already on the transaction is kept even if deactivated since.
func (s *transactionService) checkCategory(bookID string, categoryID *string, direction models.Direction, assigning bool) error {
	if categoryID == nil {
		return nil
	}
	var category models.Category
	if err := s.db.Where("id = ? AND book_id = ?", *categoryID, bookID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrCategoryNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if category.Direction != direction {
		return apperrors.ErrCategoryMismatch
	}
	if assigning && !category.IsActive {
		return apperrors.ErrCategoryInactive
	}
	return nil
}

// checkBankAccount verifies that a referenced bank account exists and is active.
func (s *transactionService) checkBankAccount(userID string, bankAccountID *string) error {
	if bankAccountID == nil {
		return nil
	}
	var account models.BankAccount
	if err := s.db.Where("id = ? AND creator_id = ?", *bankAccountID, userID).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrBankAccountNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if !account.IsActive {
		return apperrors.WithMessage(apperrors.ErrConstraintViolation, "bank account is not active")
	}
	return nil
}

// validateEntry checks the invariants every stored transaction satisfies.
func validateEntry(amount int64, direction models.Direction, date string) error {
	if amount < 0 {
		return apperrors.ErrNegativeAmount
	}
	if !direction.Valid() {
		return apperrors.ErrInvalidDirection
	}
	if !period.ValidDate(date) {
		return apperrors.ErrInvalidDate
	}
	return nil
}

// normalizeRef treats empty ids and the "null" filter value as no reference.
func normalizeRef(id *string) *string {
	if id == nil || *id == "" || *id == FilterNone {
		return nil
	}
	return id
}
