package services

import (
	"testing"

	"cashbook/internal/models"
	"cashbook/internal/pagination"
	"cashbook/internal/testutil"
)

func strPtr(s string) *string { return &s }

func TestCreateTransaction(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewBookService(db, testDefaults))

		userID := testutil.NewUserID()
		book := testutil.CreateTestBook(t, db, userID)
		category := testutil.CreateTestCategory(t, db, book, models.DirectionSpending)
		account := testutil.CreateTestBankAccount(t, db, userID)

		tx, err := svc.CreateTransaction(userID, book.ID, &category.ID, &account.ID, models.DirectionSpending, 12500, " Lunch ", "2024-03-04")
		testutil.AssertNoError(t, err)

		if tx.ID == "" {
			t.Fatal("expected an id")
		}
		if tx.Amount != 12500 || tx.Direction != models.DirectionSpending || tx.Date != "2024-03-04" {
			t.Errorf("unexpected transaction %+v", tx)
		}
		if tx.Description != "Lunch" {
			t.Errorf("expected trimmed description, got %q", tx.Description)
		}
		if tx.Category == nil || tx.Category.ID != category.ID {
			t.Error("expected category to be preloaded")
		}
		if tx.BankAccount == nil || tx.BankAccount.ID != account.ID {
			t.Error("expected bank account to be preloaded")
		}
		if tx.CreatorID != userID {
			t.Errorf("expected creator %s, got %s", userID, tx.CreatorID)
		}
	})

	t.Run("null_references_are_cleared", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewBookService(db, testDefaults))

		userID := testutil.NewUserID()
		book := testutil.CreateTestBook(t, db, userID)

		tx, err := svc.CreateTransaction(userID, book.ID, strPtr(FilterNone), strPtr(""), models.DirectionIncome, 100, "", "2024-03-04")
		testutil.AssertNoError(t, err)

		if tx.CategoryID != nil || tx.BankAccountID != nil {
			t.Errorf("expected no references, got category=%v bank=%v", tx.CategoryID, tx.BankAccountID)
		}
	})

	t.Run("zero_amount_is_allowed", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewBookService(db, testDefaults))

		userID := testutil.NewUserID()
		book := testutil.CreateTestBook(t, db, userID)

		_, err := svc.CreateTransaction(userID, book.ID, nil, nil, models.DirectionIncome, 0, "", "2024-03-04")
		testutil.AssertNoError(t, err)
	})

	t.Run("rejects_invalid_entries", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewBookService(db, testDefaults))

		userID := testutil.NewUserID()
		book := testutil.CreateTestBook(t, db, userID)

		cases := []struct {
			name      string
			amount    int64
			direction models.Direction
			date      string
		}{
			{"negative amount", -1, models.DirectionIncome, "2024-03-04"},
			{"unknown direction", 1, models.Direction("transfer"), "2024-03-04"},
			{"impossible date", 1, models.DirectionIncome, "2024-02-30"},
			{"wrong date layout", 1, models.DirectionIncome, "04/03/2024"},
		}
		for _, tc := range cases {
			_, err := svc.CreateTransaction(userID, book.ID, nil, nil, tc.direction, tc.amount, "", tc.date)
			testutil.AssertAppError(t, err, "CONSTRAINT_VIOLATION")
		}

		var count int64
		db.Model(&models.Transaction{}).Count(&count)
		if count != 0 {
			t.Errorf("expected nothing stored, got %d rows", count)
		}
	})

	t.Run("inactive_book", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		books := NewBookService(db, testDefaults)
		svc := NewTransactionService(db, books)

		userID := testutil.NewUserID()
		book := testutil.CreateTestBook(t, db, userID)
		testutil.AssertNoError(t, books.DeactivateBook(userID, book.ID))

		_, err := svc.CreateTransaction(userID, book.ID, nil, nil, models.DirectionIncome, 100, "", "2024-03-04")
		testutil.AssertAppError(t, err, "BOOK_INACTIVE")
	})

	t.Run("category_from_another_book", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewBookService(db, testDefaults))

		userID := testutil.NewUserID()
		book := testutil.CreateTestBook(t, db, userID)
		other := testutil.CreateTestBook(t, db, userID)
		category := testutil.CreateTestCategory(t, db, other, models.DirectionSpending)

		_, err := svc.CreateTransaction(userID, book.ID, &category.ID, nil, models.DirectionSpending, 100, "", "2024-03-04")
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})

	t.Run("category_of_the_other_direction", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewBookService(db, testDefaults))

		userID := testutil.NewUserID()
		book := testutil.CreateTestBook(t, db, userID)
		salary := testutil.CreateTestCategory(t, db, book, models.DirectionIncome)

		_, err := svc.CreateTransaction(userID, book.ID, &salary.ID, nil, models.DirectionSpending, 5000, "groceries", "2024-03-01")
		testutil.AssertAppError(t, err, "CONSTRAINT_VIOLATION")

		var count int64
		testutil.AssertNoError(t, db.Model(&models.Transaction{}).Where("book_id = ?", book.ID).Count(&count).Error)
		if count != 0 {
			t.Errorf("expected nothing stored, got %d rows", count)
		}
	})

	t.Run("inactive_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewBookService(db, testDefaults))

		userID := testutil.NewUserID()
		book := testutil.CreateTestBook(t, db, userID)
		category := testutil.CreateTestCategory(t, db, book, models.DirectionSpending)
		testutil.AssertNoError(t, db.Model(category).Update("is_active", false).Error)

		_, err := svc.CreateTransaction(userID, book.ID, &category.ID, nil, models.DirectionSpending, 100, "", "2024-03-04")
		testutil.AssertAppError(t, err, "CONSTRAINT_VIOLATION")
	})

	t.Run("inactive_bank_account", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewBookService(db, testDefaults))

		userID := testutil.NewUserID()
		book := testutil.CreateTestBook(t, db, userID)
		account := testutil.CreateTestBankAccount(t, db, userID)
		testutil.AssertNoError(t, db.Model(account).Update("is_active", false).Error)

		_, err := svc.CreateTransaction(userID, book.ID, nil, &account.ID, models.DirectionSpending, 100, "", "2024-03-04")
		testutil.AssertAppError(t, err, "CONSTRAINT_VIOLATION")
	})

	t.Run("bank_account_of_another_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewBookService(db, testDefaults))

		userID := testutil.NewUserID()
		book := testutil.CreateTestBook(t, db, userID)
		account := testutil.CreateTestBankAccount(t, db, testutil.NewUserID())

		_, err := svc.CreateTransaction(userID, book.ID, nil, &account.ID, models.DirectionSpending, 100, "", "2024-03-04")
		testutil.AssertAppError(t, err, "BANK_ACCOUNT_NOT_FOUND")
	})

	t.Run("book_of_another_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewBookService(db, testDefaults))

		book := testutil.CreateTestBook(t, db, testutil.NewUserID())

		_, err := svc.CreateTransaction(testutil.NewUserID(), book.ID, nil, nil, models.DirectionIncome, 100, "", "2024-03-04")
		testutil.AssertAppError(t, err, "BOOK_NOT_FOUND")
	})
}

func TestGetTransactionByID(t *testing.T) {
	t.Run("owner_only", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewBookService(db, testDefaults))

		userID := testutil.NewUserID()
		book := testutil.CreateTestBook(t, db, userID)
		created := testutil.CreateTestTransaction(t, db, book, models.DirectionIncome, 100, "2024-03-01")

		found, err := svc.GetTransactionByID(userID, created.ID)
		testutil.AssertNoError(t, err)
		if found.ID != created.ID {
			t.Errorf("expected %s, got %s", created.ID, found.ID)
		}

		_, err = svc.GetTransactionByID(testutil.NewUserID(), created.ID)
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})
}

func TestUpdateTransaction(t *testing.T) {
	t.Run("updates_fields", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewBookService(db, testDefaults))

		userID := testutil.NewUserID()
		book := testutil.CreateTestBook(t, db, userID)
		created := testutil.CreateTestTransaction(t, db, book, models.DirectionSpending, 100, "2024-03-01")

		amount := int64(250)
		direction := models.DirectionIncome
		date := "2024-03-09"
		description := "Refund"
		updated, err := svc.UpdateTransaction(userID, created.ID, TransactionUpdateFields{
			Amount:      &amount,
			Direction:   &direction,
			Date:        &date,
			Description: &description,
		})
		testutil.AssertNoError(t, err)

		if updated.Amount != 250 || updated.Direction != models.DirectionIncome || updated.Date != "2024-03-09" || updated.Description != "Refund" {
			t.Errorf("unexpected transaction %+v", updated)
		}
		if updated.BookID != book.ID {
			t.Error("book must not change")
		}
	})

	t.Run("sets_and_clears_references", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewBookService(db, testDefaults))

		userID := testutil.NewUserID()
		book := testutil.CreateTestBook(t, db, userID)
		category := testutil.CreateTestCategory(t, db, book, models.DirectionSpending)
		created := testutil.CreateTestTransaction(t, db, book, models.DirectionSpending, 100, "2024-03-01")

		ref := &category.ID
		updated, err := svc.UpdateTransaction(userID, created.ID, TransactionUpdateFields{CategoryID: &ref})
		testutil.AssertNoError(t, err)
		if updated.CategoryID == nil || *updated.CategoryID != category.ID {
			t.Fatalf("expected category %s, got %v", category.ID, updated.CategoryID)
		}

		var none *string
		cleared, err := svc.UpdateTransaction(userID, created.ID, TransactionUpdateFields{CategoryID: &none})
		testutil.AssertNoError(t, err)
		if cleared.CategoryID != nil {
			t.Errorf("expected category to be cleared, got %v", *cleared.CategoryID)
		}
	})

	t.Run("direction_must_match_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewBookService(db, testDefaults))

		userID := testutil.NewUserID()
		book := testutil.CreateTestBook(t, db, userID)
		food := testutil.CreateTestCategory(t, db, book, models.DirectionSpending)
		salary := testutil.CreateTestCategory(t, db, book, models.DirectionIncome)
		created := testutil.CreateTestTransaction(t, db, book, models.DirectionSpending, 100, "2024-03-01", testutil.WithCategory(food.ID))

		income := models.DirectionIncome
		_, err := svc.UpdateTransaction(userID, created.ID, TransactionUpdateFields{Direction: &income})
		testutil.AssertAppError(t, err, "CONSTRAINT_VIOLATION")

		ref := &salary.ID
		_, err = svc.UpdateTransaction(userID, created.ID, TransactionUpdateFields{CategoryID: &ref})
		testutil.AssertAppError(t, err, "CONSTRAINT_VIOLATION")

		updated, err := svc.UpdateTransaction(userID, created.ID, TransactionUpdateFields{Direction: &income, CategoryID: &ref})
		testutil.AssertNoError(t, err)
		if updated.Direction != models.DirectionIncome || *updated.CategoryID != salary.ID {
			t.Errorf("unexpected transaction %+v", updated)
		}
	})

	t.Run("keeps_deactivated_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewBookService(db, testDefaults))

		userID := testutil.NewUserID()
		book := testutil.CreateTestBook(t, db, userID)
		food := testutil.CreateTestCategory(t, db, book, models.DirectionSpending)
		created := testutil.CreateTestTransaction(t, db, book, models.DirectionSpending, 100, "2024-03-01", testutil.WithCategory(food.ID))
		testutil.AssertNoError(t, db.Model(food).Update("is_active", false).Error)

		amount := int64(300)
		spending := models.DirectionSpending
		updated, err := svc.UpdateTransaction(userID, created.ID, TransactionUpdateFields{Amount: &amount, Direction: &spending})
		testutil.AssertNoError(t, err)
		if updated.Amount != 300 {
			t.Errorf("expected amount 300, got %d", updated.Amount)
		}

		ref := &food.ID
		_, err = svc.UpdateTransaction(userID, created.ID, TransactionUpdateFields{CategoryID: &ref})
		testutil.AssertAppError(t, err, "CONSTRAINT_VIOLATION")
	})

	t.Run("rejects_invalid_values", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewBookService(db, testDefaults))

		userID := testutil.NewUserID()
		book := testutil.CreateTestBook(t, db, userID)
		created := testutil.CreateTestTransaction(t, db, book, models.DirectionSpending, 100, "2024-03-01")

		negative := int64(-5)
		_, err := svc.UpdateTransaction(userID, created.ID, TransactionUpdateFields{Amount: &negative})
		testutil.AssertAppError(t, err, "CONSTRAINT_VIOLATION")

		date := "2024-13-01"
		_, err = svc.UpdateTransaction(userID, created.ID, TransactionUpdateFields{Date: &date})
		testutil.AssertAppError(t, err, "CONSTRAINT_VIOLATION")

		stored, err := svc.GetTransactionByID(userID, created.ID)
		testutil.AssertNoError(t, err)
		if stored.Amount != 100 || stored.Date != "2024-03-01" {
			t.Errorf("expected transaction to be unchanged, got %+v", stored)
		}
	})
}

func TestDeleteTransaction(t *testing.T) {
	t.Run("returns_deleted_row", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewBookService(db, testDefaults))

		userID := testutil.NewUserID()
		book := testutil.CreateTestBook(t, db, userID)
		created := testutil.CreateTestTransaction(t, db, book, models.DirectionSpending, 100, "2024-03-01")

		deleted, err := svc.DeleteTransaction(userID, created.ID)
		testutil.AssertNoError(t, err)
		if deleted.ID != created.ID || deleted.BookID != book.ID {
			t.Errorf("unexpected deleted transaction %+v", deleted)
		}

		_, err = svc.GetTransactionByID(userID, created.ID)
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})

	t.Run("other_users_transaction", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewBookService(db, testDefaults))

		book := testutil.CreateTestBook(t, db, testutil.NewUserID())
		created := testutil.CreateTestTransaction(t, db, book, models.DirectionSpending, 100, "2024-03-01")

		_, err := svc.DeleteTransaction(testutil.NewUserID(), created.ID)
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})
}

func TestSearchTransactions(t *testing.T) {
	t.Run("newest_first_with_filters", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewBookService(db, testDefaults))

		userID := testutil.NewUserID()
		book := testutil.CreateTestBook(t, db, userID)
		account := testutil.CreateTestBankAccount(t, db, userID)
		testutil.CreateTestTransaction(t, db, book, models.DirectionSpending, 100, "2024-03-01", testutil.WithDescription("Coffee beans"))
		testutil.CreateTestTransaction(t, db, book, models.DirectionSpending, 200, "2024-03-05", testutil.WithDescription("Coffee shop"), testutil.WithBankAccount(account.ID))
		testutil.CreateTestTransaction(t, db, book, models.DirectionSpending, 300, "2024-03-03", testutil.WithDescription("Bread"))

		result, err := svc.SearchTransactions(userID, book.ID, TransactionFilter{Query: "coffee"}, pagination.PageRequest{})
		testutil.AssertNoError(t, err)
		if result.TotalItems != 2 {
			t.Fatalf("expected 2 matches, got %d", result.TotalItems)
		}
		if result.Data[0].Date != "2024-03-05" {
			t.Errorf("expected newest first, got %s", result.Data[0].Date)
		}

		cash, err := svc.SearchTransactions(userID, book.ID, TransactionFilter{Query: "coffee", BankAccountID: FilterNone}, pagination.PageRequest{})
		testutil.AssertNoError(t, err)
		if cash.TotalItems != 1 || cash.Data[0].Amount != 100 {
			t.Errorf("expected only the cash purchase, got %+v", cash.Data)
		}
	})

	t.Run("paginates", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewBookService(db, testDefaults))

		userID := testutil.NewUserID()
		book := testutil.CreateTestBook(t, db, userID)
		for i := 0; i < 5; i++ {
			testutil.CreateTestTransaction(t, db, book, models.DirectionIncome, 100, "2024-03-01")
		}

		result, err := svc.SearchTransactions(userID, book.ID, TransactionFilter{}, pagination.PageRequest{Page: 3, PageSize: 2})
		testutil.AssertNoError(t, err)
		if len(result.Data) != 1 || result.TotalItems != 5 || result.TotalPages != 3 {
			t.Errorf("unexpected page %+v", result)
		}
	})

	t.Run("invalid_exact_date_is_ignored", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewBookService(db, testDefaults))

		userID := testutil.NewUserID()
		book := testutil.CreateTestBook(t, db, userID)
		testutil.CreateTestTransaction(t, db, book, models.DirectionIncome, 100, "2024-03-01")

		result, err := svc.SearchTransactions(userID, book.ID, TransactionFilter{ExactDate: "yesterday"}, pagination.PageRequest{})
		testutil.AssertNoError(t, err)
		if result.TotalItems != 1 {
			t.Errorf("expected 1 result, got %d", result.TotalItems)
		}
	})

	t.Run("book_of_another_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewBookService(db, testDefaults))

		book := testutil.CreateTestBook(t, db, testutil.NewUserID())

		_, err := svc.SearchTransactions(testutil.NewUserID(), book.ID, TransactionFilter{}, pagination.PageRequest{})
		testutil.AssertAppError(t, err, "BOOK_NOT_FOUND")
	})
}
