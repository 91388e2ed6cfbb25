package services

import (
	"testing"
	"time"

	"faturo/internal/models"
	"faturo/internal/pagination"
	"faturo/internal/testutil"
	"faturo/internal/uuid"
)

func TestCreateTransaction(t *testing.T) {
	t.Run("simple_expense", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		cardSvc := NewCardService(db)
		catSvc := NewCategoryService(db)
		svc := NewTransactionService(db, cardSvc, catSvc)
		user := testutil.CreateTestUser(t, db)

		tx, err := svc.CreateTransaction(user.ID, CreateTransactionInput{
			Type:         models.TransactionTypeExpense,
			TotalAmount:  12550,
			Currency:     "USD",
			Description:  "Groceries",
			Date:         time.Date(2024, time.March, 3, 0, 0, 0, 0, time.UTC),
			Installments: 1,
		})
		testutil.AssertNoError(t, err)

		if tx.ID == 0 {
			t.Fatal("expected non-zero transaction ID")
		}
		if tx.Amount != 12550 {
			t.Errorf("expected amount 12550, got %d", tx.Amount)
		}
		if tx.ClientRef == "" {
			t.Error("expected a generated client ref")
		}
		if len(tx.InstallmentPlan) != 0 {
			t.Errorf("expected no installments, got %d", len(tx.InstallmentPlan))
		}
	})

	t.Run("split_payment_books_first_installment", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		cardSvc := NewCardService(db)
		catSvc := NewCategoryService(db)
		svc := NewTransactionService(db, cardSvc, catSvc)
		user := testutil.CreateTestUser(t, db)
		card := testutil.CreateTestCard(t, db, user.ID)

		start := time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)
		tx, err := svc.CreateTransaction(user.ID, CreateTransactionInput{
			CardID:       &card.ID,
			Type:         models.TransactionTypeExpense,
			TotalAmount:  30000, // 300.00 over 3 months
			Currency:     "USD",
			Description:  "New phone",
			Date:         start,
			Installments: 3,
		})
		testutil.AssertNoError(t, err)

		if tx.Amount != 10000 {
			t.Errorf("expected first-installment amount 10000 on parent, got %d", tx.Amount)
		}
		if tx.InstallmentAmount != 10000 {
			t.Errorf("expected installment amount 10000, got %d", tx.InstallmentAmount)
		}

		rows, err := svc.GetInstallments(user.ID, tx.ID)
		testutil.AssertNoError(t, err)
		if len(rows) != 3 {
			t.Fatalf("expected 3 installment rows, got %d", len(rows))
		}
		for i, row := range rows {
			if row.Number != i+1 {
				t.Errorf("row %d: expected number %d, got %d", i, i+1, row.Number)
			}
			if row.Total != 3 {
				t.Errorf("row %d: expected total 3, got %d", i, row.Total)
			}
		}
		if !rows[0].Paid || rows[0].PaidDate == nil {
			t.Error("expected installment 1 to be paid with a paid date")
		}
		if rows[1].Paid || rows[2].Paid {
			t.Error("expected installments 2 and 3 to be unpaid")
		}
		if !rows[1].DueDate.Equal(start.AddDate(0, 1, 0)) {
			t.Errorf("expected installment 2 due Feb 10, got %v", rows[1].DueDate)
		}
	})

	t.Run("split_payment_remainder_on_parent", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		cardSvc := NewCardService(db)
		catSvc := NewCategoryService(db)
		svc := NewTransactionService(db, cardSvc, catSvc)
		user := testutil.CreateTestUser(t, db)
		card := testutil.CreateTestCard(t, db, user.ID)

		tx, err := svc.CreateTransaction(user.ID, CreateTransactionInput{
			CardID:       &card.ID,
			Type:         models.TransactionTypeExpense,
			TotalAmount:  10000, // 100.00 over 3: 33.34 + 33.33 + 33.33
			Currency:     "USD",
			Date:         time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC),
			Installments: 3,
		})
		testutil.AssertNoError(t, err)

		if tx.Amount != 3334 {
			t.Errorf("expected parent amount 3334, got %d", tx.Amount)
		}

		rows, err := svc.GetInstallments(user.ID, tx.ID)
		testutil.AssertNoError(t, err)
		testutil.AssertInstallmentsSum(t, rows, 10000)
	})

	t.Run("split_payment_requires_card", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewCardService(db), NewCategoryService(db))
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateTransaction(user.ID, CreateTransactionInput{
			Type:         models.TransactionTypeExpense,
			TotalAmount:  30000,
			Installments: 3,
		})
		testutil.AssertAppError(t, err, "INSTALLMENTS_NEED_CARD")
	})

	t.Run("rejects_invalid_amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewCardService(db), NewCategoryService(db))
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateTransaction(user.ID, CreateTransactionInput{
			Type:         models.TransactionTypeExpense,
			TotalAmount:  0,
			Installments: 1,
		})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("rejects_unknown_card", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewCardService(db), NewCategoryService(db))
		user := testutil.CreateTestUser(t, db)

		missing := uint(9999)
		_, err := svc.CreateTransaction(user.ID, CreateTransactionInput{
			CardID:       &missing,
			Type:         models.TransactionTypeExpense,
			TotalAmount:  1000,
			Installments: 1,
		})
		testutil.AssertAppError(t, err, "CARD_NOT_FOUND")
	})

	t.Run("rejects_other_users_card", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewCardService(db), NewCategoryService(db))
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)
		card := testutil.CreateTestCard(t, db, user2.ID)

		_, err := svc.CreateTransaction(user1.ID, CreateTransactionInput{
			CardID:       &card.ID,
			Type:         models.TransactionTypeExpense,
			TotalAmount:  1000,
			Installments: 1,
		})
		testutil.AssertAppError(t, err, "CARD_NOT_FOUND")
	})

	t.Run("client_ref_is_idempotent", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewCardService(db), NewCategoryService(db))
		user := testutil.CreateTestUser(t, db)

		input := CreateTransactionInput{
			Type:         models.TransactionTypeExpense,
			TotalAmount:  5000,
			Description:  "Lunch",
			Date:         time.Date(2024, time.March, 3, 0, 0, 0, 0, time.UTC),
			Installments: 1,
			ClientRef:    uuid.New(),
		}

		first, err := svc.CreateTransaction(user.ID, input)
		testutil.AssertNoError(t, err)

		second, err := svc.CreateTransaction(user.ID, input)
		testutil.AssertNoError(t, err)

		if second.ID != first.ID {
			t.Errorf("expected the same transaction back, got %d and %d", first.ID, second.ID)
		}

		var count int64
		db.Model(&models.Transaction{}).Where("user_id = ?", user.ID).Count(&count)
		if count != 1 {
			t.Errorf("expected 1 transaction, got %d", count)
		}
	})

	t.Run("rejects_malformed_client_ref", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewCardService(db), NewCategoryService(db))
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateTransaction(user.ID, CreateTransactionInput{
			Type:         models.TransactionTypeExpense,
			TotalAmount:  5000,
			Installments: 1,
			ClientRef:    "not-a-uuid",
		})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestGetUserTransactions(t *testing.T) {
	t.Run("filters_by_card_and_recurring", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewCardService(db), NewCategoryService(db))
		user := testutil.CreateTestUser(t, db)
		card := testutil.CreateTestCard(t, db, user.ID)

		now := time.Now()
		testutil.CreateTestTransaction(t, db, user.ID, &card.ID, 1000, now)
		testutil.CreateTestTransaction(t, db, user.ID, nil, 2000, now)

		recurring := &models.Transaction{
			UserID:       user.ID,
			Type:         models.TransactionTypeExpense,
			Amount:       3000,
			Currency:     "USD",
			Date:         now,
			Recurrence:   models.RecurrenceMonthly,
			Installments: 1,
		}
		if err := db.Create(recurring).Error; err != nil {
			t.Fatalf("failed to create recurring transaction: %v", err)
		}

		page := pagination.PageRequest{Page: 1, PageSize: 20}

		byCard, err := svc.GetUserTransactions(user.ID, page, TransactionFilter{CardID: &card.ID})
		testutil.AssertNoError(t, err)
		if byCard.TotalItems != 1 {
			t.Errorf("expected 1 card transaction, got %d", byCard.TotalItems)
		}

		isRecurring := true
		rec, err := svc.GetUserTransactions(user.ID, page, TransactionFilter{Recurring: &isRecurring})
		testutil.AssertNoError(t, err)
		if rec.TotalItems != 1 {
			t.Errorf("expected 1 recurring transaction, got %d", rec.TotalItems)
		}
	})

	t.Run("filters_by_date_range", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewCardService(db), NewCategoryService(db))
		user := testutil.CreateTestUser(t, db)

		jan := time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)
		mar := time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)
		testutil.CreateTestTransaction(t, db, user.ID, nil, 1000, jan)
		testutil.CreateTestTransaction(t, db, user.ID, nil, 2000, mar)

		from := time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)
		page := pagination.PageRequest{Page: 1, PageSize: 20}
		result, err := svc.GetUserTransactions(user.ID, page, TransactionFilter{FromDate: &from})
		testutil.AssertNoError(t, err)
		if result.TotalItems != 1 {
			t.Errorf("expected 1 transaction from February, got %d", result.TotalItems)
		}
	})
}

func TestDeleteTransaction(t *testing.T) {
	t.Run("cascades_to_installments", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewCardService(db), NewCategoryService(db))
		user := testutil.CreateTestUser(t, db)
		card := testutil.CreateTestCard(t, db, user.ID)

		tx, err := svc.CreateTransaction(user.ID, CreateTransactionInput{
			CardID:       &card.ID,
			Type:         models.TransactionTypeExpense,
			TotalAmount:  60000,
			Currency:     "USD",
			Date:         time.Date(2024, time.April, 5, 0, 0, 0, 0, time.UTC),
			Installments: 6,
		})
		testutil.AssertNoError(t, err)

		testutil.AssertNoError(t, svc.DeleteTransaction(user.ID, tx.ID))

		var count int64
		if err := db.Model(&models.Installment{}).Where("transaction_id = ?", tx.ID).Count(&count).Error; err != nil {
			t.Fatalf("failed to count installments: %v", err)
		}
		if count != 0 {
			t.Errorf("expected installments to be deleted with parent, found %d", count)
		}

		_, err = svc.GetTransactionByID(user.ID, tx.ID)
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewCardService(db), NewCategoryService(db))
		user := testutil.CreateTestUser(t, db)

		err := svc.DeleteTransaction(user.ID, 9999)
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})
}
