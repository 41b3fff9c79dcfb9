package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "cashbook/internal/errors"
	"cashbook/internal/models"
	"cashbook/internal/pagination"
)

// bankAccountService handles bank account business logic.
type bankAccountService struct {
	db *gorm.DB
}

// NewBankAccountService creates a new BankAccountServicer.
func NewBankAccountService(db *gorm.DB) BankAccountServicer {
	return &bankAccountService{db: db}
}

// CreateBankAccount creates a new active bank account
func (s *bankAccountService) CreateBankAccount(userID, name, number, accountName, description string) (*models.BankAccount, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "bank account name is required")
	}

	account := &models.BankAccount{
		Name:        name,
		Number:      strings.TrimSpace(number),
		AccountName: accountName,
		Description: description,
		IsActive:    true,
		CreatorID:   userID,
	}

	if err := s.db.Create(account).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return account, nil
}

// GetUserBankAccounts retrieves a paginated list of the user's bank accounts.
func (s *bankAccountService) GetUserBankAccounts(userID string, activeOnly bool, page pagination.PageRequest) (*pagination.PageResponse[models.BankAccount], error) {
	page.Defaults()

	scope := func(db *gorm.DB) *gorm.DB {
		db = db.Where("creator_id = ?", userID)
		if activeOnly {
			db = db.Where("is_active = ?", true)
		}
		return db
	}

	var totalItems int64
	if err := s.db.Model(&models.BankAccount{}).Scopes(scope).Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var accounts []models.BankAccount
	if err := s.db.Scopes(scope, pagination.Paginate(page)).
		Order("name ASC, id ASC").
		Find(&accounts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(accounts, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetBankAccountByID retrieves a bank account by ID for a specific user
func (s *bankAccountService) GetBankAccountByID(userID, bankAccountID string) (*models.BankAccount, error) {
	var account models.BankAccount
	if err := s.db.Where("id = ? AND creator_id = ?", bankAccountID, userID).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBankAccountNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &account, nil
}

// UpdateBankAccount updates an existing bank account
func (s *bankAccountService) UpdateBankAccount(userID, bankAccountID string, fields BankAccountUpdateFields) (*models.BankAccount, error) {
	account, err := s.GetBankAccountByID(userID, bankAccountID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if fields.Name != nil {
		name := strings.TrimSpace(*fields.Name)
		if name == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "bank account name is required")
		}
		updates["name"] = name
	}
	if fields.Number != nil {
		updates["number"] = strings.TrimSpace(*fields.Number)
	}
	if fields.AccountName != nil {
		updates["account_name"] = *fields.AccountName
	}
	if fields.Description != nil {
		updates["description"] = *fields.Description
	}
	if fields.IsActive != nil {
		updates["is_active"] = *fields.IsActive
	}

	if len(updates) > 0 {
		if err := s.db.Model(account).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return s.GetBankAccountByID(userID, bankAccountID)
}

// DeleteBankAccount deletes a bank account that no transaction refers to,
// together with its recorded balances
func (s *bankAccountService) DeleteBankAccount(userID, bankAccountID string) error {
	account, err := s.GetBankAccountByID(userID, bankAccountID)
	if err != nil {
		return err
	}

	var txCount int64
	if err := s.db.Model(&models.Transaction{}).Where("bank_account_id = ?", bankAccountID).Count(&txCount).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if txCount > 0 {
		return apperrors.ErrBankAccountInUse
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("bank_account_id = ?", bankAccountID).Delete(&models.BankAccountBalance{}).Error; err != nil {
			return err
		}
		return tx.Delete(account).Error
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
