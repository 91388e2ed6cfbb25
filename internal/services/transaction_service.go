package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"faturo/internal/billing"
	apperrors "faturo/internal/errors"
	"faturo/internal/models"
	"faturo/internal/pagination"
	"faturo/internal/uuid"
)

// transactionService handles transaction-related business logic.
type transactionService struct {
	db              *gorm.DB
	cardService     CardServicer
	categoryService CategoryServicer
	remainderPolicy billing.RemainderPolicy
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB, cardService CardServicer, categoryService CategoryServicer) TransactionServicer {
	return &transactionService{
		db:              db,
		cardService:     cardService,
		categoryService: categoryService,
		remainderPolicy: billing.RemainderToFirst,
	}
}

// CreateTransaction records a transaction for a user. For split payments
// (Installments > 1) the transaction's own amount is the first-installment
// share and all installment rows are inserted in the same database
// transaction as the parent, so either both exist or neither does.
func (s *transactionService) CreateTransaction(userID uint, input CreateTransactionInput) (*models.Transaction, error) {
	if input.TotalAmount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if input.Installments < 1 {
		return nil, apperrors.ErrInvalidInstallments
	}
	if input.Installments > 1 && input.CardID == nil {
		return nil, apperrors.ErrInstallmentsNeedCard
	}
	if input.Currency == "" {
		input.Currency = "USD"
	}
	if input.Recurrence == "" {
		input.Recurrence = models.RecurrenceNone
	}
	if input.Date.IsZero() {
		input.Date = time.Now()
	}

	// Client refs come from the mobile app's offline queue. Re-submitting
	// the same ref returns the already recorded transaction instead of
	// creating a duplicate.
	if input.ClientRef != "" {
		if !uuid.IsValid(input.ClientRef) {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "client_ref must be a valid UUID")
		}
		var existing models.Transaction
		err := s.db.Where("user_id = ? AND client_ref = ?", userID, input.ClientRef).First(&existing).Error
		if err == nil {
			return &existing, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	// Referenced card and category must exist and belong to the user.
	if input.CardID != nil {
		if _, err := s.cardService.GetCardByID(userID, *input.CardID); err != nil {
			return nil, err
		}
	}
	if input.CategoryID != nil {
		if _, err := s.categoryService.GetCategoryByID(userID, *input.CategoryID); err != nil {
			return nil, err
		}
	}

	transaction := &models.Transaction{
		UserID:           userID,
		CardID:           input.CardID,
		CategoryID:       input.CategoryID,
		Type:             input.Type,
		Amount:           input.TotalAmount,
		Currency:         input.Currency,
		Description:      input.Description,
		Date:             input.Date,
		Recurrence:       input.Recurrence,
		BillingDelayDays: input.BillingDelayDays,
		Installments:     input.Installments,
		ClientRef:        input.ClientRef,
	}

	var plan []models.Installment
	if input.Installments > 1 {
		transaction.Amount = billing.FirstInstallmentAmount(input.TotalAmount, input.Installments, s.remainderPolicy)
		transaction.InstallmentAmount = billing.InstallmentAmount(input.TotalAmount, input.Installments)

		var err error
		plan, err = billing.PlanInstallments(billing.PlanRequest{
			TotalAmount: input.TotalAmount,
			Count:       input.Installments,
			StartDate:   input.Date,
			Currency:    input.Currency,
			Description: input.Description,
			CategoryID:  input.CategoryID,
			Type:        input.Type,
			Policy:      s.remainderPolicy,
		})
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInvalidInstallments, err)
		}
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(transaction).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if len(plan) > 0 {
			for i := range plan {
				plan[i].TransactionID = transaction.ID
			}
			if err := tx.Create(&plan).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	transaction.InstallmentPlan = plan
	return transaction, nil
}

// GetUserTransactions retrieves a paginated, filtered list of transactions for a user.
func (s *transactionService) GetUserTransactions(userID uint, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	base := s.db.Model(&models.Transaction{}).Where("user_id = ?", userID)
	base = applyTransactionFilters(base, filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Scopes(pagination.Paginate(page)).
		Order("date DESC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

func applyTransactionFilters(q *gorm.DB, f TransactionFilter) *gorm.DB {
	if f.FromDate != nil {
		q = q.Where("date >= ?", *f.FromDate)
	}
	if f.ToDate != nil {
		q = q.Where("date <= ?", *f.ToDate)
	}
	if f.Type != nil {
		q = q.Where("type = ?", *f.Type)
	}
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if f.CardID != nil {
		q = q.Where("card_id = ?", *f.CardID)
	}
	if f.Recurring != nil {
		if *f.Recurring {
			q = q.Where("recurrence <> ?", models.RecurrenceNone)
		} else {
			q = q.Where("recurrence = ?", models.RecurrenceNone)
		}
	}
	return q
}

// GetTransactionByID retrieves a transaction by ID for a specific user
func (s *transactionService) GetTransactionByID(userID, transactionID uint) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.Where("id = ? AND user_id = ?", transactionID, userID).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// GetInstallments returns the installment rows of a split payment, ordered
// by installment number.
func (s *transactionService) GetInstallments(userID, transactionID uint) ([]models.Installment, error) {
	// Verify the parent belongs to the user.
	if _, err := s.GetTransactionByID(userID, transactionID); err != nil {
		return nil, err
	}

	var rows []models.Installment
	if err := s.db.Where("transaction_id = ?", transactionID).
		Order("number ASC").
		Find(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return rows, nil
}

// DeleteTransaction deletes a transaction together with its installment rows.
func (s *transactionService) DeleteTransaction(userID, transactionID uint) error {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("transaction_id = ?", transaction.ID).
			Delete(&models.Installment{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if err := tx.Delete(transaction).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		return nil
	})
}
