package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "faturo/internal/errors"
	"faturo/internal/pagination"
	"faturo/internal/services"
)

// CardHandler handles card configuration requests.
type CardHandler struct {
	cardService      services.CardServicer
	statementService services.StatementServicer
	auditService     services.AuditServicer
}

// NewCardHandler creates a new CardHandler.
func NewCardHandler(cardService services.CardServicer, statementService services.StatementServicer, auditService services.AuditServicer) *CardHandler {
	return &CardHandler{cardService: cardService, statementService: statementService, auditService: auditService}
}

// CreateCardRequest represents the request payload for registering a card
type CreateCardRequest struct {
	Alias       string `json:"alias" binding:"required,max=100"`
	LastDigits  string `json:"last_digits" binding:"omitempty,len=4,numeric"`
	WithdrawDay int    `json:"withdraw_day" binding:"required,min=1,max=31"`
	CreditLimit int64  `json:"credit_limit" binding:"omitempty,gt=0"`
	Currency    string `json:"currency" binding:"omitempty,iso4217"`
}

// UpdateCardRequest represents the request payload for updating a card
type UpdateCardRequest struct {
	Alias       string `json:"alias" binding:"omitempty,max=100"`
	WithdrawDay *int   `json:"withdraw_day" binding:"omitempty,min=1,max=31"`
	CreditLimit *int64 `json:"credit_limit" binding:"omitempty,gt=0"`
}

// CreateCard handles card registration
// @Summary     Register a card
// @Description Register a payment card with its statement-close day
// @Tags        cards
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateCardRequest true "Card details"
// @Success     201 {object} models.Card "Card created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /cards [post]
func (h *CardHandler) CreateCard(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	card, err := h.cardService.CreateCard(userID, req.Alias, req.LastDigits, req.WithdrawDay, req.CreditLimit, req.Currency)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_CARD", "card", card.ID, c.ClientIP(),
		map[string]interface{}{"alias": req.Alias, "withdraw_day": req.WithdrawDay})

	c.JSON(http.StatusCreated, gin.H{"card": card})
}

// GetUserCards returns the user's cards
// @Summary     List cards
// @Description Get a paginated list of the user's cards
// @Tags        cards
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Card] "Paginated cards"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /cards [get]
func (h *CardHandler) GetUserCards(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.cardService.GetUserCards(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetCardByID returns a single card
// @Summary     Get a card
// @Description Get one of the user's cards by ID
// @Tags        cards
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Card ID"
// @Success     200 {object} models.Card "Card"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Card not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /cards/{id} [get]
func (h *CardHandler) GetCardByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	cardID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	card, err := h.cardService.GetCardByID(userID, cardID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"card": card})
}

// UpdateCard updates a card's configuration
// @Summary     Update a card
// @Description Update a card's alias, withdraw day, or credit limit
// @Tags        cards
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int               true "Card ID"
// @Param       request body UpdateCardRequest true "Fields to update"
// @Success     200 {object} models.Card "Updated card"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Card not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /cards/{id} [put]
func (h *CardHandler) UpdateCard(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	cardID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	card, err := h.cardService.UpdateCard(userID, cardID, req.Alias, req.WithdrawDay, req.CreditLimit)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_CARD", "card", card.ID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"card": card})
}

// DeleteCard deletes a card without transactions
// @Summary     Delete a card
// @Description Delete a card that has no recorded transactions
// @Tags        cards
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Card ID"
// @Success     204 "Card deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Card not found"
// @Failure     409 {object} ErrorResponse "Card has transactions"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /cards/{id} [delete]
func (h *CardHandler) DeleteCard(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	cardID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.cardService.DeleteCard(userID, cardID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_CARD", "card", cardID, c.ClientIP(), nil)

	c.Status(http.StatusNoContent)
}

// GetStatement returns the statement view for one billing cycle
// @Summary     Get a card statement
// @Description Get the card's billing cycles and the transactions, installments, and total for the selected cycle. Defaults to the most recent cycle; pass cycle to navigate (out-of-range values clamp to the nearest cycle).
// @Tags        cards,statements
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id    path  int true  "Card ID"
// @Param       cycle query int false "Cycle index (0-based; defaults to the most recent)"
// @Success     200 {object} services.StatementView "Statement view"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Card not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /cards/{id}/statement [get]
func (h *CardHandler) GetStatement(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	cardID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var cycleIndex *int
	if raw := c.Query("cycle"); raw != "" {
		idx, convErr := strconv.Atoi(raw)
		if convErr != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid cycle index"))
			return
		}
		cycleIndex = &idx
	}

	view, err := h.statementService.LoadStatement(c.Request.Context(), userID, cardID, cycleIndex)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}
