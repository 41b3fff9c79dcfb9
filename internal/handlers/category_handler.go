package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "cashbook/internal/errors"
	"cashbook/internal/models"
	"cashbook/internal/pagination"
	"cashbook/internal/period"
	"cashbook/internal/services"
)

// CategoryHandler handles category-related requests
type CategoryHandler struct {
	categoryService services.CategoryServicer
	summaryService  services.SummaryServicer
	auditService    services.AuditServicer
	today           Clock
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService services.CategoryServicer, summaryService services.SummaryServicer, auditService services.AuditServicer, today Clock) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
		summaryService:  summaryService,
		auditService:    auditService,
		today:           today,
	}
}

// CreateCategoryRequest represents the request payload for creating a category.
// An empty color picks the configured default for the direction.
type CreateCategoryRequest struct {
	Name        string           `json:"name" binding:"required,max=255"`
	Direction   models.Direction `json:"direction" binding:"required"`
	Color       string           `json:"color" binding:"omitempty,hex_color"`
	Description string           `json:"description" binding:"max=1000"`
}

// UpdateCategoryRequest represents the request payload for updating a category
type UpdateCategoryRequest struct {
	Name        *string           `json:"name" binding:"omitempty,max=255"`
	Direction   *models.Direction `json:"direction"`
	Color       *string           `json:"color" binding:"omitempty,hex_color"`
	Description *string           `json:"description" binding:"omitempty,max=1000"`
	IsActive    *bool             `json:"is_active"`
}

// ListCategoriesQuery holds the optional listing filter for categories
type ListCategoriesQuery struct {
	pagination.PageRequest
	Direction models.Direction `form:"direction" binding:"omitempty,direction"`
}

// CategoryDetailResponse is a category with its transactions over a window
type CategoryDetailResponse struct {
	Category *models.Category  `json:"category"`
	Summary  *services.Summary `json:"summary"`
}

// CreateCategory handles the creation of a new category
// @Summary     Create a category
// @Description Create a category in one of the caller's books
// @Tags        books,categories
// @Accept      json
// @Produce     json
// @Param       X-User-ID header string                true "Caller user id"
// @Param       id        path   string                true "Book ID"
// @Param       request   body   CreateCategoryRequest true "Category details"
// @Success     201 {object} models.Category "Category created"
// @Failure     400 {object} ErrorResponse "Invalid input or duplicate name"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Book not found"
// @Failure     422 {object} ErrorResponse "Unknown direction"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /books/{id}/categories [post]
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	bookID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	category, err := h.categoryService.CreateCategory(userID, bookID, req.Name, req.Direction, req.Color, req.Description)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_CATEGORY", "category", category.ID, c.ClientIP(),
		map[string]interface{}{"book_id": bookID, "name": category.Name, "direction": category.Direction})

	c.JSON(http.StatusCreated, gin.H{"category": category})
}

// GetBookCategories handles listing a book's categories
// @Summary     List categories
// @Description Get a paginated list of a book's categories, optionally narrowed to one direction
// @Tags        books,categories
// @Produce     json
// @Param       X-User-ID header string true  "Caller user id"
// @Param       id        path   string true  "Book ID"
// @Param       direction query  string false "income or spending"
// @Param       page      query  int    false "Page number (default 1)"
// @Param       page_size query  int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Category] "Paginated categories"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Book not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /books/{id}/categories [get]
func (h *CategoryHandler) GetBookCategories(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	bookID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var query ListCategoriesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var direction *models.Direction
	if query.Direction != "" {
		direction = &query.Direction
	}

	result, err := h.categoryService.GetBookCategories(userID, bookID, direction, query.PageRequest)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetCategoryByID handles the retrieval of a specific category
// @Summary     Get category by ID
// @Description Get a category created by the caller
// @Tags        categories
// @Produce     json
// @Param       X-User-ID header string true "Caller user id"
// @Param       id        path   string true "Category ID"
// @Success     200 {object} models.Category "Category details"
// @Failure     400 {object} ErrorResponse "Invalid category ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /categories/{id} [get]
func (h *CategoryHandler) GetCategoryByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	categoryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	category, err := h.categoryService.GetCategoryByID(userID, categoryID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"category": category})
}

// GetCategoryTransactions handles the category detail listing
// @Summary     Category transactions
// @Description The book listing narrowed to one category. Without start_date or end_date the window is the current year.
// @Tags        categories,transactions
// @Produce     json
// @Param       X-User-ID  header string true  "Caller user id"
// @Param       id         path   string true  "Category ID"
// @Param       start_date query  string false "Inclusive start, YYYY-MM-DD"
// @Param       end_date   query  string false "Inclusive end, YYYY-MM-DD"
// @Param       query      query  string false "Case-insensitive description search"
// @Param       sort       query  string false "date, description or amount (default date)"
// @Param       order      query  string false "asc or desc (default asc)"
// @Success     200 {object} CategoryDetailResponse "Category with listing"
// @Failure     400 {object} ErrorResponse "Invalid category ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /categories/{id}/transactions [get]
func (h *CategoryHandler) GetCategoryTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	categoryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	category, err := h.categoryService.GetCategoryByID(userID, categoryID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	window := period.Range{Start: c.Query("start_date"), End: c.Query("end_date")}
	if !period.ValidDate(window.Start) && !period.ValidDate(window.End) {
		window = period.YearRange(h.today().Year())
	}

	summary, err := h.summaryService.ComputeSummary(category.BookID, services.SummaryQuery{
		Start: window.Start,
		End:   window.End,
		Filter: services.TransactionFilter{
			CategoryID: category.ID,
			Query:      c.Query("query"),
		},
		Sort: parseSort(c),
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, CategoryDetailResponse{Category: category, Summary: summary})
}

// UpdateCategory handles updating an existing category
// @Summary     Update category
// @Description Update a category's name, direction, color, description or active flag
// @Tags        categories
// @Accept      json
// @Produce     json
// @Param       X-User-ID header string                true "Caller user id"
// @Param       id        path   string                true "Category ID"
// @Param       request   body   UpdateCategoryRequest true "Fields to update"
// @Success     200 {object} models.Category "Updated category"
// @Failure     400 {object} ErrorResponse "Invalid input or duplicate name"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     422 {object} ErrorResponse "Unknown direction"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /categories/{id} [put]
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	categoryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	category, err := h.categoryService.UpdateCategory(userID, categoryID, services.CategoryUpdateFields{
		Name:        req.Name,
		Direction:   req.Direction,
		Color:       req.Color,
		Description: req.Description,
		IsActive:    req.IsActive,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_CATEGORY", "category", categoryID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"category": category})
}

// DeleteCategory handles the deletion of a category
// @Summary     Delete category
// @Description Delete a category that no transaction references
// @Tags        categories
// @Produce     json
// @Param       X-User-ID header string true "Caller user id"
// @Param       id        path   string true "Category ID"
// @Success     200 {object} MessageResponse "Category deleted"
// @Failure     400 {object} ErrorResponse "Invalid category ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     409 {object} ErrorResponse "Category has transactions"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /categories/{id} [delete]
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	categoryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.categoryService.DeleteCategory(userID, categoryID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_CATEGORY", "category", categoryID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
}
