package services

import (
	"testing"

	"cashbook/internal/models"
	"cashbook/internal/pagination"
	"cashbook/internal/testutil"
)

func newTestBalanceService(t *testing.T) (BankAccountBalanceServicer, func()) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return NewBankAccountBalanceService(db, NewBankAccountService(db)), func() { testutil.TeardownTestDB(t, db) }
}

func TestCreateBalance(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBankAccountBalanceService(db, NewBankAccountService(db))

		userID := testutil.NewUserID()
		account := testutil.CreateTestBankAccount(t, db, userID)

		balance, err := svc.CreateBalance(userID, account.ID, 1500050, "2024-02-29", " February statement ")
		testutil.AssertNoError(t, err)

		if balance.ID == "" || balance.BankAccountID != account.ID || balance.CreatorID != userID {
			t.Errorf("unexpected balance %+v", balance)
		}
		testutil.AssertAmount(t, "amount", balance.Amount, 1500050)
		if balance.Description != "February statement" {
			t.Errorf("expected trimmed description, got %q", balance.Description)
		}
	})

	t.Run("overdrawn_amount_is_kept", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBankAccountBalanceService(db, NewBankAccountService(db))

		userID := testutil.NewUserID()
		account := testutil.CreateTestBankAccount(t, db, userID)

		balance, err := svc.CreateBalance(userID, account.ID, -2500, "2024-03-01", "")
		testutil.AssertNoError(t, err)
		testutil.AssertAmount(t, "amount", balance.Amount, -2500)
	})

	t.Run("invalid_date", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBankAccountBalanceService(db, NewBankAccountService(db))

		userID := testutil.NewUserID()
		account := testutil.CreateTestBankAccount(t, db, userID)

		_, err := svc.CreateBalance(userID, account.ID, 100, "2024-02-30", "")
		testutil.AssertAppError(t, err, "CONSTRAINT_VIOLATION")
	})

	t.Run("account_of_another_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBankAccountBalanceService(db, NewBankAccountService(db))

		account := testutil.CreateTestBankAccount(t, db, testutil.NewUserID())

		_, err := svc.CreateBalance(testutil.NewUserID(), account.ID, 100, "2024-03-01", "")
		testutil.AssertAppError(t, err, "BANK_ACCOUNT_NOT_FOUND")
	})
}

func TestGetBalances(t *testing.T) {
	t.Run("latest_first_and_scoped_to_account", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBankAccountBalanceService(db, NewBankAccountService(db))

		userID := testutil.NewUserID()
		account := testutil.CreateTestBankAccount(t, db, userID)
		other := testutil.CreateTestBankAccount(t, db, userID)
		testutil.CreateTestBankAccountBalance(t, db, account, 100, "2024-01-31")
		testutil.CreateTestBankAccountBalance(t, db, account, 300, "2024-03-31")
		testutil.CreateTestBankAccountBalance(t, db, account, 200, "2024-02-29")
		testutil.CreateTestBankAccountBalance(t, db, other, 999, "2024-04-30")

		result, err := svc.GetBalances(userID, account.ID, pagination.PageRequest{Page: 1, PageSize: 2})
		testutil.AssertNoError(t, err)

		if result.TotalItems != 3 || result.TotalPages != 2 {
			t.Errorf("expected 3 items over 2 pages, got %d over %d", result.TotalItems, result.TotalPages)
		}
		if len(result.Data) != 2 || result.Data[0].Date != "2024-03-31" || result.Data[1].Date != "2024-02-29" {
			t.Errorf("unexpected first page %+v", result.Data)
		}
	})

	t.Run("account_not_found", func(t *testing.T) {
		svc, teardown := newTestBalanceService(t)
		defer teardown()

		_, err := svc.GetBalances(testutil.NewUserID(), "missing", pagination.PageRequest{})
		testutil.AssertAppError(t, err, "BANK_ACCOUNT_NOT_FOUND")
	})
}

func TestGetBalanceByID(t *testing.T) {
	t.Run("must_belong_to_the_account", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBankAccountBalanceService(db, NewBankAccountService(db))

		userID := testutil.NewUserID()
		account := testutil.CreateTestBankAccount(t, db, userID)
		other := testutil.CreateTestBankAccount(t, db, userID)
		balance := testutil.CreateTestBankAccountBalance(t, db, account, 100, "2024-01-31")

		found, err := svc.GetBalanceByID(userID, account.ID, balance.ID)
		testutil.AssertNoError(t, err)
		if found.ID != balance.ID {
			t.Errorf("expected %s, got %s", balance.ID, found.ID)
		}

		_, err = svc.GetBalanceByID(userID, other.ID, balance.ID)
		testutil.AssertAppError(t, err, "BANK_ACCOUNT_BALANCE_NOT_FOUND")

		_, err = svc.GetBalanceByID(testutil.NewUserID(), account.ID, balance.ID)
		testutil.AssertAppError(t, err, "BANK_ACCOUNT_NOT_FOUND")
	})
}

func TestUpdateBalance(t *testing.T) {
	t.Run("updates_fields", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBankAccountBalanceService(db, NewBankAccountService(db))

		userID := testutil.NewUserID()
		account := testutil.CreateTestBankAccount(t, db, userID)
		balance := testutil.CreateTestBankAccountBalance(t, db, account, 100, "2024-01-31")

		amount := int64(0)
		date := "2024-02-01"
		description := "Corrected"
		updated, err := svc.UpdateBalance(userID, account.ID, balance.ID, BankAccountBalanceUpdateFields{
			Amount:      &amount,
			Date:        &date,
			Description: &description,
		})
		testutil.AssertNoError(t, err)

		testutil.AssertAmount(t, "amount", updated.Amount, 0)
		if updated.Date != "2024-02-01" || updated.Description != "Corrected" {
			t.Errorf("unexpected balance %+v", updated)
		}
	})

	t.Run("rejects_invalid_date", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBankAccountBalanceService(db, NewBankAccountService(db))

		userID := testutil.NewUserID()
		account := testutil.CreateTestBankAccount(t, db, userID)
		balance := testutil.CreateTestBankAccountBalance(t, db, account, 100, "2024-01-31")

		date := "31/01/2024"
		_, err := svc.UpdateBalance(userID, account.ID, balance.ID, BankAccountBalanceUpdateFields{Date: &date})
		testutil.AssertAppError(t, err, "CONSTRAINT_VIOLATION")

		stored, err := svc.GetBalanceByID(userID, account.ID, balance.ID)
		testutil.AssertNoError(t, err)
		if stored.Date != "2024-01-31" {
			t.Errorf("expected date to be unchanged, got %s", stored.Date)
		}
	})
}

func TestDeleteBalance(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBankAccountBalanceService(db, NewBankAccountService(db))

		userID := testutil.NewUserID()
		account := testutil.CreateTestBankAccount(t, db, userID)
		balance := testutil.CreateTestBankAccountBalance(t, db, account, 100, "2024-01-31")

		testutil.AssertNoError(t, svc.DeleteBalance(userID, account.ID, balance.ID))

		var count int64
		testutil.AssertNoError(t, db.Model(&models.BankAccountBalance{}).Count(&count).Error)
		if count != 0 {
			t.Errorf("expected balance to be removed, got %d rows", count)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBankAccountBalanceService(db, NewBankAccountService(db))

		userID := testutil.NewUserID()
		account := testutil.CreateTestBankAccount(t, db, userID)

		err := svc.DeleteBalance(userID, account.ID, "missing")
		testutil.AssertAppError(t, err, "BANK_ACCOUNT_BALANCE_NOT_FOUND")
	})
}
