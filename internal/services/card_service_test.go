package services

import (
	"testing"
	"time"

	"faturo/internal/pagination"
	"faturo/internal/testutil"
)

func TestCreateCard(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCardService(db)
		user := testutil.CreateTestUser(t, db)

		card, err := svc.CreateCard(user.ID, "Nubank", "4242", 8, 300000, "BRL")
		testutil.AssertNoError(t, err)

		if card.ID == 0 {
			t.Fatal("expected non-zero card ID")
		}
		if card.WithdrawDay != 8 {
			t.Errorf("expected withdraw day 8, got %d", card.WithdrawDay)
		}
		if !card.IsActive {
			t.Error("expected card to be active")
		}
	})

	t.Run("defaults_currency", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCardService(db)
		user := testutil.CreateTestUser(t, db)

		card, err := svc.CreateCard(user.ID, "Main", "", 1, 0, "")
		testutil.AssertNoError(t, err)
		if card.Currency != "USD" {
			t.Errorf("expected default currency USD, got %s", card.Currency)
		}
	})

	t.Run("rejects_invalid_withdraw_day", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCardService(db)
		user := testutil.CreateTestUser(t, db)

		for _, day := range []int{0, -3, 32} {
			_, err := svc.CreateCard(user.ID, "Bad", "", day, 0, "USD")
			testutil.AssertAppError(t, err, "INVALID_WITHDRAW_DAY")
		}
	})

	t.Run("requires_alias", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCardService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateCard(user.ID, "", "", 15, 0, "USD")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestGetUserCards(t *testing.T) {
	t.Run("returns_user_cards_only", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCardService(db)
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)

		testutil.CreateTestCard(t, db, user1.ID)
		testutil.CreateTestCard(t, db, user1.ID)
		testutil.CreateTestCard(t, db, user2.ID)

		page := pagination.PageRequest{Page: 1, PageSize: 20}
		result, err := svc.GetUserCards(user1.ID, page)
		testutil.AssertNoError(t, err)
		if result.TotalItems != 2 {
			t.Errorf("expected 2 cards, got %d", result.TotalItems)
		}
	})
}

func TestUpdateCard(t *testing.T) {
	t.Run("updates_withdraw_day", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCardService(db)
		user := testutil.CreateTestUser(t, db)
		card := testutil.CreateTestCard(t, db, user.ID)

		newDay := 28
		_, err := svc.UpdateCard(user.ID, card.ID, "", &newDay, nil)
		testutil.AssertNoError(t, err)

		got, err := svc.GetCardByID(user.ID, card.ID)
		testutil.AssertNoError(t, err)
		if got.WithdrawDay != 28 {
			t.Errorf("expected withdraw day 28, got %d", got.WithdrawDay)
		}
	})

	t.Run("rejects_invalid_withdraw_day", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCardService(db)
		user := testutil.CreateTestUser(t, db)
		card := testutil.CreateTestCard(t, db, user.ID)

		bad := 40
		_, err := svc.UpdateCard(user.ID, card.ID, "", &bad, nil)
		testutil.AssertAppError(t, err, "INVALID_WITHDRAW_DAY")
	})

	t.Run("wrong_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCardService(db)
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)
		card := testutil.CreateTestCard(t, db, user2.ID)

		_, err := svc.UpdateCard(user1.ID, card.ID, "Stolen", nil, nil)
		testutil.AssertAppError(t, err, "CARD_NOT_FOUND")
	})
}

func TestDeleteCard(t *testing.T) {
	t.Run("deletes_unused_card", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCardService(db)
		user := testutil.CreateTestUser(t, db)
		card := testutil.CreateTestCard(t, db, user.ID)

		testutil.AssertNoError(t, svc.DeleteCard(user.ID, card.ID))

		_, err := svc.GetCardByID(user.ID, card.ID)
		testutil.AssertAppError(t, err, "CARD_NOT_FOUND")
	})

	t.Run("blocks_card_with_transactions", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCardService(db)
		user := testutil.CreateTestUser(t, db)
		card := testutil.CreateTestCard(t, db, user.ID)
		testutil.CreateTestTransaction(t, db, user.ID, &card.ID, 1000, time.Now())

		err := svc.DeleteCard(user.ID, card.ID)
		testutil.AssertAppError(t, err, "CARD_IN_USE")
	})
}
