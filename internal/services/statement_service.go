package services

import (
	"context"

	"gorm.io/gorm"

	"faturo/internal/billing"
	apperrors "faturo/internal/errors"
	"faturo/internal/models"
)

// statementService computes per-cycle statement views for a card.
type statementService struct {
	db          *gorm.DB
	cardService CardServicer
}

// NewStatementService creates a new StatementServicer.
func NewStatementService(db *gorm.DB, cardService CardServicer) StatementServicer {
	return &statementService{db: db, cardService: cardService}
}

// LoadStatement loads the card configuration and the card's transactions,
// computes the billing cycles they span, and returns the statement view for
// the selected cycle. With no cycleIndex the most recent cycle is selected;
// a requested index is clamped into range, so stepping past either end of
// the cycle list is a no-op rather than an error.
//
// The context governs cancellation: when the caller abandons a load (the
// user switched cards mid-flight), the superseded result is never returned.
func (s *statementService) LoadStatement(ctx context.Context, userID, cardID uint, cycleIndex *int) (*StatementView, error) {
	card, err := s.cardService.GetCardByID(userID, cardID)
	if err != nil {
		return nil, err
	}

	var transactions []models.Transaction
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND card_id = ?", userID, cardID).
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	cycles := billing.AvailableCycles(transactions, card.WithdrawDay)

	view := &StatementView{
		Card:         card,
		Cycles:       cycles,
		ActiveIndex:  -1,
		Transactions: []models.Transaction{},
		Installments: []models.Installment{},
	}
	if len(cycles) == 0 {
		return view, nil
	}

	nav := billing.NewNavigator(cycles)
	if cycleIndex != nil {
		nav.Select(*cycleIndex)
	}
	cycle, _ := nav.Current()

	view.ActiveIndex = nav.Index()
	view.Cycle = &cycle
	view.Transactions = billing.TransactionsInCycle(transactions, cycle)
	view.Total = billing.Total(view.Transactions)

	// Installments due in the cycle, across all of the card's split payments.
	var rows []models.Installment
	if err := s.db.WithContext(ctx).
		Select("installments.*").
		Joins("JOIN transactions ON transactions.id = installments.transaction_id").
		Where("transactions.user_id = ? AND transactions.card_id = ?", userID, cardID).
		Where("transactions.deleted_at IS NULL").
		Find(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	view.Installments = billing.InstallmentsInCycle(rows, cycle)

	if err := ctx.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return view, nil
}
