package services

import (
	"context"
	"time"

	"faturo/internal/billing"
	"faturo/internal/models"
	"faturo/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(email, password string) (*models.User, error)
	StoreRefreshTokenHash(userID uint, tokenHash string) error
	GetRefreshTokenHash(userID uint) (string, error)
}

// CardServicer defines the contract for card configuration business logic.
type CardServicer interface {
	CreateCard(userID uint, alias, lastDigits string, withdrawDay int, creditLimit int64, currency string) (*models.Card, error)
	GetUserCards(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Card], error)
	GetCardByID(userID, cardID uint) (*models.Card, error)
	UpdateCard(userID, cardID uint, alias string, withdrawDay *int, creditLimit *int64) (*models.Card, error)
	DeleteCard(userID, cardID uint) error
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(userID uint, name string, categoryType models.CategoryType, description, icon, color string) (*models.Category, error)
	GetUserCategories(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error)
	GetCategoryByID(userID, categoryID uint) (*models.Category, error)
	UpdateCategory(userID, categoryID uint, name, description, icon, color string) (*models.Category, error)
	DeleteCategory(userID, categoryID uint) error
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	FromDate   *time.Time
	ToDate     *time.Time
	Type       *models.TransactionType
	CategoryID *uint
	CardID     *uint
	Recurring  *bool
}

// CreateTransactionInput carries the fields for recording a transaction.
// TotalAmount is the full purchase amount; for split payments the service
// books only the first-installment share on the transaction itself.
type CreateTransactionInput struct {
	CardID           *uint
	CategoryID       *uint
	Type             models.TransactionType
	TotalAmount      int64
	Currency         string
	Description      string
	Date             time.Time
	Recurrence       models.RecurrencePeriod
	BillingDelayDays int
	Installments     int
	ClientRef        string
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	CreateTransaction(userID uint, input CreateTransactionInput) (*models.Transaction, error)
	GetUserTransactions(userID uint, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetTransactionByID(userID, transactionID uint) (*models.Transaction, error)
	GetInstallments(userID, transactionID uint) ([]models.Installment, error)
	DeleteTransaction(userID, transactionID uint) error
}

// StatementView is one card statement: the cycle list the card's
// transactions span, the selected cycle, the transactions and installments
// posting to it, and the cycle total.
type StatementView struct {
	Card         *models.Card         `json:"card"`
	Cycles       []billing.Cycle      `json:"cycles"`
	ActiveIndex  int                  `json:"active_index"`
	Cycle        *billing.Cycle       `json:"cycle,omitempty"`
	Transactions []models.Transaction `json:"transactions"`
	Installments []models.Installment `json:"installments"`
	Total        int64                `json:"total"`
}

// StatementServicer defines the contract for statement loading.
type StatementServicer interface {
	LoadStatement(ctx context.Context, userID, cardID uint, cycleIndex *int) (*StatementView, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID uint, action, resourceType string, resourceID uint, ipAddress string, changes map[string]interface{})
}
