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

// bankAccountBalanceService records statement balances on bank accounts.
type bankAccountBalanceService struct {
	db                 *gorm.DB
	bankAccountService BankAccountServicer
}

// NewBankAccountBalanceService creates a new BankAccountBalanceServicer.
func NewBankAccountBalanceService(db *gorm.DB, bankAccountService BankAccountServicer) BankAccountBalanceServicer {
	return &bankAccountBalanceService{
		db:                 db,
		bankAccountService: bankAccountService,
	}
}

// CreateBalance records a balance on one of the user's bank accounts
func (s *bankAccountBalanceService) CreateBalance(userID, bankAccountID string, amount int64, date, description string) (*models.BankAccountBalance, error) {
	if !period.ValidDate(date) {
		return nil, apperrors.ErrInvalidDate
	}
	if _, err := s.bankAccountService.GetBankAccountByID(userID, bankAccountID); err != nil {
		return nil, err
	}

	balance := &models.BankAccountBalance{
		BankAccountID: bankAccountID,
		Date:          date,
		Amount:        amount,
		Description:   strings.TrimSpace(description),
		CreatorID:     userID,
	}
	if err := s.db.Create(balance).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return balance, nil
}

// GetBalances lists an account's recorded balances, latest date first.
func (s *bankAccountBalanceService) GetBalances(userID, bankAccountID string, page pagination.PageRequest) (*pagination.PageResponse[models.BankAccountBalance], error) {
	if _, err := s.bankAccountService.GetBankAccountByID(userID, bankAccountID); err != nil {
		return nil, err
	}

	page.Defaults()

	var totalItems int64
	if err := s.db.Model(&models.BankAccountBalance{}).
		Where("bank_account_id = ?", bankAccountID).
		Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var balances []models.BankAccountBalance
	if err := s.db.Where("bank_account_id = ?", bankAccountID).
		Scopes(pagination.Paginate(page)).
		Order("date DESC, id DESC").
		Find(&balances).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(balances, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetBalanceByID retrieves a recorded balance of one of the user's bank accounts
func (s *bankAccountBalanceService) GetBalanceByID(userID, bankAccountID, balanceID string) (*models.BankAccountBalance, error) {
	if _, err := s.bankAccountService.GetBankAccountByID(userID, bankAccountID); err != nil {
		return nil, err
	}

	var balance models.BankAccountBalance
	if err := s.db.Where("id = ? AND bank_account_id = ?", balanceID, bankAccountID).First(&balance).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBankAccountBalanceNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &balance, nil
}

// UpdateBalance applies the provided fields to a recorded balance
func (s *bankAccountBalanceService) UpdateBalance(userID, bankAccountID, balanceID string, fields BankAccountBalanceUpdateFields) (*models.BankAccountBalance, error) {
	balance, err := s.GetBalanceByID(userID, bankAccountID, balanceID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if fields.Amount != nil {
		updates["amount"] = *fields.Amount
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

	if len(updates) > 0 {
		if err := s.db.Model(balance).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return s.GetBalanceByID(userID, bankAccountID, balanceID)
}

// DeleteBalance removes a recorded balance
func (s *bankAccountBalanceService) DeleteBalance(userID, bankAccountID, balanceID string) error {
	balance, err := s.GetBalanceByID(userID, bankAccountID, balanceID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(balance).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
