package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"faturo/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestCard creates a card closing on the 15th.
func CreateTestCard(t *testing.T, db *gorm.DB, userID uint) *models.Card {
	t.Helper()
	return CreateTestCardWithWithdrawDay(t, db, userID, 15)
}

// CreateTestCardWithWithdrawDay creates a card with the given statement-close day.
func CreateTestCardWithWithdrawDay(t *testing.T, db *gorm.DB, userID uint, withdrawDay int) *models.Card {
	t.Helper()

	card := &models.Card{
		UserID:      userID,
		Alias:       fmt.Sprintf("Test Card %d", nextID()),
		LastDigits:  "4242",
		WithdrawDay: withdrawDay,
		CreditLimit: 500000, // $5000.00
		Currency:    "USD",
		IsActive:    true,
	}
	if err := db.Create(card).Error; err != nil {
		t.Fatalf("failed to create test card: %v", err)
	}
	return card
}

// CreateTestCategory creates a category of the given type.
func CreateTestCategory(t *testing.T, db *gorm.DB, userID uint, categoryType models.CategoryType) *models.Category {
	t.Helper()

	category := &models.Category{
		UserID: userID,
		Name:   fmt.Sprintf("Test Category %d", nextID()),
		Type:   categoryType,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestTransaction creates an expense of the given amount (in cents)
// on the given card and date.
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID uint, cardID *uint, amount int64, date time.Time) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		UserID:       userID,
		CardID:       cardID,
		Type:         models.TransactionTypeExpense,
		Amount:       amount,
		Currency:     "USD",
		Date:         date,
		Recurrence:   models.RecurrenceNone,
		Installments: 1,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}
