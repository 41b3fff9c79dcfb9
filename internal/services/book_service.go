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

// bookService handles book-related business logic.
type bookService struct {
	db       *gorm.DB
	defaults Defaults
}

// NewBookService creates a new BookServicer.
func NewBookService(db *gorm.DB, defaults Defaults) BookServicer {
	if defaults.Currency == "" {
		defaults.Currency = "IDR"
	}
	if !defaults.ReportPeriod.Valid() {
		defaults.ReportPeriod = models.ReportPeriodMonthly
	}
	return &bookService{db: db, defaults: defaults}
}

// CreateBook creates a new book owned by creatorID
func (s *bookService) CreateBook(
	creatorID string,
	name string,
	description string,
	budget *int64,
	reportPeriod models.ReportPeriod,
	currencyCode string,
) (*models.Book, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "book name is required")
	}
	if budget != nil && *budget < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrConstraintViolation, "budget must not be negative")
	}

	if reportPeriod == "" {
		reportPeriod = s.defaults.ReportPeriod
	}
	if !reportPeriod.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "report period must be weekly, monthly or all_time")
	}

	if currencyCode == "" {
		currencyCode = s.defaults.Currency
	}

	book := &models.Book{
		Name:         name,
		Description:  description,
		CreatorID:    creatorID,
		Budget:       budget,
		ReportPeriod: reportPeriod,
		CurrencyCode: strings.ToUpper(currencyCode),
		IsActive:     true,
	}

	if err := s.db.Create(book).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return book, nil
}

// GetUserBooks retrieves a paginated list of the user's active books.
func (s *bookService) GetUserBooks(creatorID string, page pagination.PageRequest) (*pagination.PageResponse[models.Book], error) {
	page.Defaults()

	var totalItems int64
	base := s.db.Model(&models.Book{}).Where("creator_id = ? AND is_active = ?", creatorID, true)
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var books []models.Book
	if err := s.db.Where("creator_id = ? AND is_active = ?", creatorID, true).
		Order("name ASC, id ASC").
		Scopes(pagination.Paginate(page)).
		Find(&books).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(books, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetBookByID retrieves a book by ID for its creator. Inactive books are
// returned so they can be reactivated.
func (s *bookService) GetBookByID(creatorID, bookID string) (*models.Book, error) {
	var book models.Book
	if err := s.db.Where("id = ? AND creator_id = ?", bookID, creatorID).First(&book).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBookNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &book, nil
}

// UpdateBook applies the provided fields to a book
func (s *bookService) UpdateBook(creatorID, bookID string, fields BookUpdateFields) (*models.Book, error) {
	book, err := s.GetBookByID(creatorID, bookID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if fields.Name != nil {
		name := strings.TrimSpace(*fields.Name)
		if name == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "book name is required")
		}
		updates["name"] = name
	}
	if fields.Description != nil {
		updates["description"] = *fields.Description
	}
	if fields.Budget != nil {
		if *fields.Budget != nil && **fields.Budget < 0 {
			return nil, apperrors.WithMessage(apperrors.ErrConstraintViolation, "budget must not be negative")
		}
		updates["budget"] = *fields.Budget
	}
	if fields.ReportPeriod != nil {
		if !fields.ReportPeriod.Valid() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "report period must be weekly, monthly or all_time")
		}
		updates["report_period"] = *fields.ReportPeriod
	}
	if fields.CurrencyCode != nil {
		updates["currency_code"] = strings.ToUpper(*fields.CurrencyCode)
	}
	if fields.IsActive != nil {
		updates["is_active"] = *fields.IsActive
	}

	if len(updates) > 0 {
		if err := s.db.Model(book).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return s.GetBookByID(creatorID, bookID)
}

// DeactivateBook hides a book from listings. Its transactions are untouched.
func (s *bookService) DeactivateBook(creatorID, bookID string) error {
	book, err := s.GetBookByID(creatorID, bookID)
	if err != nil {
		return err
	}

	if err := s.db.Model(book).Update("is_active", false).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetBalance returns income minus spending over the book's transactions
// dated on or before asOf. An empty asOf covers the whole history.
func (s *bookService) GetBalance(bookID, asOf string) (int64, error) {
	if asOf != "" && !period.ValidDate(asOf) {
		return 0, apperrors.ErrInvalidDate
	}
	if err := bookExists(s.db, bookID); err != nil {
		return 0, err
	}

	balance, err := balanceThrough(s.db, bookID, asOf)
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return balance, nil
}

// findBook loads a book regardless of owner.
func findBook(db *gorm.DB, bookID string) (*models.Book, error) {
	var book models.Book
	if err := db.Where("id = ?", bookID).First(&book).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBookNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &book, nil
}

func bookExists(db *gorm.DB, bookID string) error {
	_, err := findBook(db, bookID)
	return err
}
