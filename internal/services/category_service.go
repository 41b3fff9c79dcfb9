package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "cashbook/internal/errors"
	"cashbook/internal/models"
	"cashbook/internal/pagination"
)

// categoryService handles category-related business logic.
type categoryService struct {
	db          *gorm.DB
	bookService BookServicer
	defaults    Defaults
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB, bookService BookServicer, defaults Defaults) CategoryServicer {
	return &categoryService{db: db, bookService: bookService, defaults: defaults}
}

// defaultColor returns the configured color for a direction.
func (s *categoryService) defaultColor(direction models.Direction) string {
	if direction == models.DirectionIncome {
		return s.defaults.IncomeColor
	}
	return s.defaults.SpendingColor
}

// CreateCategory creates a new category in one of the user's books
func (s *categoryService) CreateCategory(
	userID string,
	bookID string,
	name string,
	direction models.Direction,
	color string,
	description string,
) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}
	if !direction.Valid() {
		return nil, apperrors.ErrInvalidDirection
	}

	if _, err := s.bookService.GetBookByID(userID, bookID); err != nil {
		return nil, err
	}

	// Names are unique within a book
	var count int64
	if err := s.db.Model(&models.Category{}).
		Where("book_id = ? AND name = ?", bookID, name).
		Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category with this name already exists")
	}

	if color == "" {
		color = s.defaultColor(direction)
	}

	category := &models.Category{
		BookID:      bookID,
		Name:        name,
		Direction:   direction,
		Color:       color,
		Description: description,
		IsActive:    true,
		CreatorID:   userID,
	}

	if err := s.db.Create(category).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return category, nil
}

// GetBookCategories retrieves a paginated list of a book's categories,
// optionally narrowed to one direction.
func (s *categoryService) GetBookCategories(userID, bookID string, direction *models.Direction, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error) {
	if _, err := s.bookService.GetBookByID(userID, bookID); err != nil {
		return nil, err
	}

	page.Defaults()

	scope := func(db *gorm.DB) *gorm.DB {
		db = db.Where("book_id = ?", bookID)
		if direction != nil {
			db = db.Where("direction = ?", *direction)
		}
		return db
	}

	var totalItems int64
	if err := s.db.Model(&models.Category{}).Scopes(scope).Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var categories []models.Category
	if err := s.db.Scopes(scope, pagination.Paginate(page)).
		Order("name ASC, id ASC").
		Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(categories, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetCategoryByID retrieves a category by ID for a specific user
func (s *categoryService) GetCategoryByID(userID, categoryID string) (*models.Category, error) {
	var category models.Category
	if err := s.db.Where("id = ? AND creator_id = ?", categoryID, userID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &category, nil
}

// UpdateCategory updates an existing category
func (s *categoryService) UpdateCategory(userID, categoryID string, fields CategoryUpdateFields) (*models.Category, error) {
	category, err := s.GetCategoryByID(userID, categoryID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if fields.Name != nil {
		name := strings.TrimSpace(*fields.Name)
		if name == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
		}
		if name != category.Name {
			var count int64
			if err := s.db.Model(&models.Category{}).
				Where("book_id = ? AND name = ? AND id <> ?", category.BookID, name, categoryID).
				Count(&count).Error; err != nil {
				return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			if count > 0 {
				return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category with this name already exists")
			}
		}
		updates["name"] = name
	}
	direction := category.Direction
	if fields.Direction != nil {
		if !fields.Direction.Valid() {
			return nil, apperrors.ErrInvalidDirection
		}
		direction = *fields.Direction
		if direction != category.Direction {
			var txCount int64
			if err := s.db.Model(&models.Transaction{}).Where("category_id = ?", categoryID).Count(&txCount).Error; err != nil {
				return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			if txCount > 0 {
				return nil, apperrors.WithMessage(apperrors.ErrCategoryInUse, "Direction of a category with transactions cannot change")
			}
		}
		updates["direction"] = direction
	}
	if fields.Color != nil {
		color := *fields.Color
		if color == "" {
			color = s.defaultColor(direction)
		}
		updates["color"] = color
	}
	if fields.Description != nil {
		updates["description"] = *fields.Description
	}
	if fields.IsActive != nil {
		updates["is_active"] = *fields.IsActive
	}

	if len(updates) > 0 {
		if err := s.db.Model(category).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return s.GetCategoryByID(userID, categoryID)
}

// DeleteCategory deletes a category that no transaction refers to
func (s *categoryService) DeleteCategory(userID, categoryID string) error {
	category, err := s.GetCategoryByID(userID, categoryID)
	if err != nil {
		return err
	}

	var txCount int64
	if err := s.db.Model(&models.Transaction{}).Where("category_id = ?", categoryID).Count(&txCount).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if txCount > 0 {
		return apperrors.ErrCategoryInUse
	}

	if err := s.db.Delete(category).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
