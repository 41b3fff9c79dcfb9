package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "cashbook/internal/errors"
	"cashbook/internal/models"
	"cashbook/internal/money"
	"cashbook/internal/pagination"
	"cashbook/internal/period"
	"cashbook/internal/services"
)

// BankAccountBalanceHandler handles balances recorded on bank accounts
type BankAccountBalanceHandler struct {
	balanceService services.BankAccountBalanceServicer
	auditService   services.AuditServicer
	today          Clock
}

// NewBankAccountBalanceHandler creates a new BankAccountBalanceHandler
func NewBankAccountBalanceHandler(balanceService services.BankAccountBalanceServicer, auditService services.AuditServicer, today Clock) *BankAccountBalanceHandler {
	return &BankAccountBalanceHandler{
		balanceService: balanceService,
		auditService:   auditService,
		today:          today,
	}
}

// CreateBankAccountBalanceRequest represents the request payload for recording a balance.
// Amount is in major units and may be negative for an overdrawn account.
type CreateBankAccountBalanceRequest struct {
	Amount      *decimal.Decimal `json:"amount" binding:"required"`
	Date        string           `json:"date"`
	Description string           `json:"description" binding:"max=255"`
}

// UpdateBankAccountBalanceRequest represents the request payload for updating a recorded balance
type UpdateBankAccountBalanceRequest struct {
	Amount      *decimal.Decimal `json:"amount"`
	Date        *string          `json:"date"`
	Description *string          `json:"description" binding:"omitempty,max=255"`
}

// CreateBalance handles recording a balance on a bank account
// @Summary     Record a bank account balance
// @Description Record the balance of a bank account at a date; the date defaults to today
// @Tags        bank_accounts
// @Accept      json
// @Produce     json
// @Param       X-User-ID header string                          true "Caller user id"
// @Param       id        path   string                          true "Bank account ID"
// @Param       request   body   CreateBankAccountBalanceRequest true "Balance details"
// @Success     201 {object} models.BankAccountBalance "Balance recorded"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Bank account not found"
// @Failure     422 {object} ErrorResponse "Invalid date"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /bank_accounts/{id}/balances [post]
func (h *BankAccountBalanceHandler) CreateBalance(c *gin.Context) {
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

	var req CreateBankAccountBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	amount, err := parseAmount(*req.Amount)
	if err != nil {
		respondWithError(c, err)
		return
	}
	date := req.Date
	if date == "" {
		date = period.FormatDate(h.today())
	}

	balance, err := h.balanceService.CreateBalance(userID, accountID, amount, date, req.Description)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_BANK_ACCOUNT_BALANCE", "bank_account_balance", balance.ID, c.ClientIP(), balanceAuditChanges(balance))

	c.JSON(http.StatusCreated, gin.H{"balance": balance})
}

// GetBalances handles listing a bank account's recorded balances
// @Summary     List bank account balances
// @Description Get a paginated list of a bank account's recorded balances, latest date first
// @Tags        bank_accounts
// @Produce     json
// @Param       X-User-ID header string true  "Caller user id"
// @Param       id        path   string true  "Bank account ID"
// @Param       page      query  int    false "Page number (default 1)"
// @Param       page_size query  int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.BankAccountBalance] "Paginated balances"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Bank account not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /bank_accounts/{id}/balances [get]
func (h *BankAccountBalanceHandler) GetBalances(c *gin.Context) {
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

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.balanceService.GetBalances(userID, accountID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetBalanceByID handles the retrieval of a recorded balance
// @Summary     Get bank account balance by ID
// @Description Get one recorded balance of a bank account
// @Tags        bank_accounts
// @Produce     json
// @Param       X-User-ID  header string true "Caller user id"
// @Param       id         path   string true "Bank account ID"
// @Param       balance_id path   string true "Balance ID"
// @Success     200 {object} models.BankAccountBalance "Balance details"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Bank account or balance not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /bank_accounts/{id}/balances/{balance_id} [get]
func (h *BankAccountBalanceHandler) GetBalanceByID(c *gin.Context) {
	userID, accountID, balanceID, ok := h.balancePath(c)
	if !ok {
		return
	}

	balance, err := h.balanceService.GetBalanceByID(userID, accountID, balanceID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"balance": balance})
}

// UpdateBalance handles updating a recorded balance
// @Summary     Update bank account balance
// @Description Update the amount, date or description of a recorded balance
// @Tags        bank_accounts
// @Accept      json
// @Produce     json
// @Param       X-User-ID  header string                          true "Caller user id"
// @Param       id         path   string                          true "Bank account ID"
// @Param       balance_id path   string                          true "Balance ID"
// @Param       request    body   UpdateBankAccountBalanceRequest true "Fields to update"
// @Success     200 {object} models.BankAccountBalance "Updated balance"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Bank account or balance not found"
// @Failure     422 {object} ErrorResponse "Invalid date"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /bank_accounts/{id}/balances/{balance_id} [put]
func (h *BankAccountBalanceHandler) UpdateBalance(c *gin.Context) {
	userID, accountID, balanceID, ok := h.balancePath(c)
	if !ok {
		return
	}

	var req UpdateBankAccountBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	fields := services.BankAccountBalanceUpdateFields{
		Date:        req.Date,
		Description: req.Description,
	}
	if req.Amount != nil {
		amount, err := parseAmount(*req.Amount)
		if err != nil {
			respondWithError(c, err)
			return
		}
		fields.Amount = &amount
	}

	balance, err := h.balanceService.UpdateBalance(userID, accountID, balanceID, fields)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_BANK_ACCOUNT_BALANCE", "bank_account_balance", balanceID, c.ClientIP(), balanceAuditChanges(balance))

	c.JSON(http.StatusOK, gin.H{"balance": balance})
}

// DeleteBalance handles the deletion of a recorded balance
// @Summary     Delete bank account balance
// @Description Delete a recorded balance
// @Tags        bank_accounts
// @Produce     json
// @Param       X-User-ID  header string true "Caller user id"
// @Param       id         path   string true "Bank account ID"
// @Param       balance_id path   string true "Balance ID"
// @Success     200 {object} MessageResponse "Balance deleted"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Bank account or balance not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /bank_accounts/{id}/balances/{balance_id} [delete]
func (h *BankAccountBalanceHandler) DeleteBalance(c *gin.Context) {
	userID, accountID, balanceID, ok := h.balancePath(c)
	if !ok {
		return
	}

	if err := h.balanceService.DeleteBalance(userID, accountID, balanceID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_BANK_ACCOUNT_BALANCE", "bank_account_balance", balanceID, c.ClientIP(),
		map[string]interface{}{"bank_account_id": accountID})

	c.JSON(http.StatusOK, gin.H{"message": "Balance deleted successfully"})
}

// balancePath reads the caller and both path ids, writing the error response
// itself when one is missing or malformed.
func (h *BankAccountBalanceHandler) balancePath(c *gin.Context) (userID, accountID, balanceID string, ok bool) {
	var err error
	if userID, err = getUserID(c); err != nil {
		respondWithError(c, err)
		return "", "", "", false
	}
	if accountID, err = parsePathID(c, "id"); err != nil {
		respondWithError(c, err)
		return "", "", "", false
	}
	if balanceID, err = parsePathID(c, "balance_id"); err != nil {
		respondWithError(c, err)
		return "", "", "", false
	}
	return userID, accountID, balanceID, true
}

func balanceAuditChanges(balance *models.BankAccountBalance) map[string]interface{} {
	return map[string]interface{}{
		"bank_account_id": balance.BankAccountID,
		"amount":          money.Format(balance.Amount),
		"date":            balance.Date,
	}
}
