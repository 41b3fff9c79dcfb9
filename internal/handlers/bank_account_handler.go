package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "cashbook/internal/errors"
	"cashbook/internal/pagination"
	"cashbook/internal/services"
)

// BankAccountHandler handles bank account requests
type BankAccountHandler struct {
	bankAccountService services.BankAccountServicer
	auditService       services.AuditServicer
}

// NewBankAccountHandler creates a new BankAccountHandler
func NewBankAccountHandler(bankAccountService services.BankAccountServicer, auditService services.AuditServicer) *BankAccountHandler {
	return &BankAccountHandler{
		bankAccountService: bankAccountService,
		auditService:       auditService,
	}
}

// CreateBankAccountRequest represents the request payload for creating a bank account
type CreateBankAccountRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	Number      string `json:"number" binding:"max=64"`
	AccountName string `json:"account_name" binding:"max=255"`
	Description string `json:"description" binding:"max=1000"`
}

// UpdateBankAccountRequest represents the request payload for updating a bank account
type UpdateBankAccountRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=255"`
	Number      *string `json:"number" binding:"omitempty,max=64"`
	AccountName *string `json:"account_name" binding:"omitempty,max=255"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
	IsActive    *bool   `json:"is_active"`
}

// ListBankAccountsQuery holds the listing parameters for bank accounts
type ListBankAccountsQuery struct {
	pagination.PageRequest
	ActiveOnly bool `form:"active_only"`
}

// CreateBankAccount handles the creation of a bank account
// @Summary     Create a bank account
// @Description Register a bank account transactions can be attributed to
// @Tags        bank_accounts
// @Accept      json
// @Produce     json
// @Param       X-User-ID header string                   true "Caller user id"
// @Param       request   body   CreateBankAccountRequest true "Bank account details"
// @Success     201 {object} models.BankAccount "Bank account created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /bank_accounts [post]
func (h *BankAccountHandler) CreateBankAccount(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateBankAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	account, err := h.bankAccountService.CreateBankAccount(userID, req.Name, req.Number, req.AccountName, req.Description)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_BANK_ACCOUNT", "bank_account", account.ID, c.ClientIP(),
		map[string]interface{}{"name": account.Name})

	c.JSON(http.StatusCreated, gin.H{"bank_account": account})
}

// GetUserBankAccounts handles listing the caller's bank accounts
// @Summary     List bank accounts
// @Description Get a paginated list of the caller's bank accounts
// @Tags        bank_accounts
// @Produce     json
// @Param       X-User-ID   header string true  "Caller user id"
// @Param       active_only query  bool   false "Only active accounts"
// @Param       page        query  int    false "Page number (default 1)"
// @Param       page_size   query  int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.BankAccount] "Paginated bank accounts"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /bank_accounts [get]
func (h *BankAccountHandler) GetUserBankAccounts(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var query ListBankAccountsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.bankAccountService.GetUserBankAccounts(userID, query.ActiveOnly, query.PageRequest)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetBankAccountByID handles the retrieval of a bank account
// @Summary     Get bank account by ID
// @Description Get one of the caller's bank accounts
// @Tags        bank_accounts
// @Produce     json
// @Param       X-User-ID header string true "Caller user id"
// @Param       id        path   string true "Bank account ID"
// @Success     200 {object} models.BankAccount "Bank account details"
// @Failure     400 {object} ErrorResponse "Invalid bank account ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Bank account not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /bank_accounts/{id} [get]
func (h *BankAccountHandler) GetBankAccountByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	accountID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	account, err := h.bankAccountService.GetBankAccountByID(userID, accountID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"bank_account": account})
}

// UpdateBankAccount handles updating a bank account
// @Summary     Update bank account
// @Description Update a bank account's details or active flag
// @Tags        bank_accounts
// @Accept      json
// @Produce     json
// @Param       X-User-ID header string                   true "Caller user id"
// @Param       id        path   string                   true "Bank account ID"
// @Param       request   body   UpdateBankAccountRequest true "Fields to update"
// @Success     200 {object} models.BankAccount "Updated bank account"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Bank account not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /bank_accounts/{id} [put]
func (h *BankAccountHandler) UpdateBankAccount(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	accountID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateBankAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	account, err := h.bankAccountService.UpdateBankAccount(userID, accountID, services.BankAccountUpdateFields{
		Name:        req.Name,
		Number:      req.Number,
		AccountName: req.AccountName,
		Description: req.Description,
		IsActive:    req.IsActive,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_BANK_ACCOUNT", "bank_account", accountID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"bank_account": account})
}

// DeleteBankAccount handles the deletion of a bank account
// @Summary     Delete bank account
// @Description Delete a bank account that no transaction references
// @Tags        bank_accounts
// @Produce     json
// @Param       X-User-ID header string true "Caller user id"
// @Param       id        path   string true "Bank account ID"
// @Success     200 {object} MessageResponse "Bank account deleted"
// @Failure     400 {object} ErrorResponse "Invalid bank account ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Bank account not found"
// @Failure     409 {object} ErrorResponse "Bank account has transactions"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /bank_accounts/{id} [delete]
func (h *BankAccountHandler) DeleteBankAccount(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	accountID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.bankAccountService.DeleteBankAccount(userID, accountID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_BANK_ACCOUNT", "bank_account", accountID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Bank account deleted successfully"})
}
