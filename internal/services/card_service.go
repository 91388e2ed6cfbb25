package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "faturo/internal/errors"
	"faturo/internal/models"
	"faturo/internal/pagination"
)

// cardService handles card configuration business logic.
type cardService struct {
	db *gorm.DB
}

// NewCardService creates a new CardServicer.
func NewCardService(db *gorm.DB) CardServicer {
	return &cardService{db: db}
}

// CreateCard registers a new payment card for a user.
func (s *cardService) CreateCard(userID uint, alias, lastDigits string, withdrawDay int, creditLimit int64, currency string) (*models.Card, error) {
	if alias == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "card alias is required")
	}
	if withdrawDay < 1 || withdrawDay > 31 {
		return nil, apperrors.ErrInvalidWithdrawDay
	}
	if currency == "" {
		currency = "USD"
	}

	card := &models.Card{
		UserID:      userID,
		Alias:       alias,
		LastDigits:  lastDigits,
		WithdrawDay: withdrawDay,
		CreditLimit: creditLimit,
		Currency:    currency,
		IsActive:    true,
	}

	if err := s.db.Create(card).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return card, nil
}

// GetUserCards retrieves a paginated list of cards for a user.
func (s *cardService) GetUserCards(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Card], error) {
	page.Defaults()

	base := s.db.Model(&models.Card{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var cards []models.Card
	if err := base.Scopes(pagination.Paginate(page)).Order("alias ASC").Find(&cards).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(cards, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetCardByID retrieves a card by ID for a specific user
func (s *cardService) GetCardByID(userID, cardID uint) (*models.Card, error) {
	var card models.Card
	if err := s.db.Where("id = ? AND user_id = ?", cardID, userID).First(&card).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCardNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &card, nil
}

// UpdateCard updates a card's alias, withdraw day, or credit limit.
// Changing the withdraw day only affects how future statement views are
// bucketed; recorded transactions are untouched.
func (s *cardService) UpdateCard(userID, cardID uint, alias string, withdrawDay *int, creditLimit *int64) (*models.Card, error) {
	card, err := s.GetCardByID(userID, cardID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if alias != "" {
		updates["alias"] = alias
	}
	if withdrawDay != nil {
		if *withdrawDay < 1 || *withdrawDay > 31 {
			return nil, apperrors.ErrInvalidWithdrawDay
		}
		updates["withdraw_day"] = *withdrawDay
	}
	if creditLimit != nil {
		updates["credit_limit"] = *creditLimit
	}

	if len(updates) > 0 {
		if err := s.db.Model(card).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return card, nil
}

// DeleteCard soft-deletes a card. Cards with recorded transactions cannot
// be deleted; deactivate them instead.
func (s *cardService) DeleteCard(userID, cardID uint) error {
	card, err := s.GetCardByID(userID, cardID)
	if err != nil {
		return err
	}

	var count int64
	if err := s.db.Model(&models.Transaction{}).Where("card_id = ?", cardID).Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return apperrors.ErrCardInUse
	}

	if err := s.db.Delete(card).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
