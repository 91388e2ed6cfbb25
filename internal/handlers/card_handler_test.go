package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"faturo/internal/billing"
	apperrors "faturo/internal/errors"
	"faturo/internal/models"
	"faturo/internal/pagination"
	"faturo/internal/services"
)

// --- mock card service ---

type mockCardService struct {
	createCardFn   func(userID uint, alias, lastDigits string, withdrawDay int, creditLimit int64, currency string) (*models.Card, error)
	getUserCardsFn func(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Card], error)
	getCardByIDFn  func(userID, cardID uint) (*models.Card, error)
	updateCardFn   func(userID, cardID uint, alias string, withdrawDay *int, creditLimit *int64) (*models.Card, error)
	deleteCardFn   func(userID, cardID uint) error
}

func (m *mockCardService) CreateCard(userID uint, alias, lastDigits string, withdrawDay int, creditLimit int64, currency string) (*models.Card, error) {
	if m.createCardFn != nil {
		return m.createCardFn(userID, alias, lastDigits, withdrawDay, creditLimit, currency)
	}
	return &models.Card{}, nil
}

func (m *mockCardService) GetUserCards(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Card], error) {
	if m.getUserCardsFn != nil {
		return m.getUserCardsFn(userID, page)
	}
	resp := pagination.NewPageResponse([]models.Card{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockCardService) GetCardByID(userID, cardID uint) (*models.Card, error) {
	if m.getCardByIDFn != nil {
		return m.getCardByIDFn(userID, cardID)
	}
	return &models.Card{}, nil
}

func (m *mockCardService) UpdateCard(userID, cardID uint, alias string, withdrawDay *int, creditLimit *int64) (*models.Card, error) {
	if m.updateCardFn != nil {
		return m.updateCardFn(userID, cardID, alias, withdrawDay, creditLimit)
	}
	return &models.Card{}, nil
}

func (m *mockCardService) DeleteCard(userID, cardID uint) error {
	if m.deleteCardFn != nil {
		return m.deleteCardFn(userID, cardID)
	}
	return nil
}

var _ services.CardServicer = (*mockCardService)(nil)

type mockStatementService struct {
	loadStatementFn func(ctx context.Context, userID, cardID uint, cycleIndex *int) (*services.StatementView, error)
}

func (m *mockStatementService) LoadStatement(ctx context.Context, userID, cardID uint, cycleIndex *int) (*services.StatementView, error) {
	if m.loadStatementFn != nil {
		return m.loadStatementFn(ctx, userID, cardID, cycleIndex)
	}
	return &services.StatementView{ActiveIndex: -1}, nil
}

var _ services.StatementServicer = (*mockStatementService)(nil)

func setupCardRouter(handler *CardHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(1))
	auth.POST("/cards", handler.CreateCard)
	auth.GET("/cards", handler.GetUserCards)
	auth.GET("/cards/:id", handler.GetCardByID)
	auth.PUT("/cards/:id", handler.UpdateCard)
	auth.DELETE("/cards/:id", handler.DeleteCard)
	auth.GET("/cards/:id/statement", handler.GetStatement)
	return r
}

func TestCardHandler_CreateCard(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		cardSvc := &mockCardService{
			createCardFn: func(_ uint, alias, lastDigits string, withdrawDay int, _ int64, _ string) (*models.Card, error) {
				return &models.Card{
					Base:        models.Base{ID: 1},
					Alias:       alias,
					LastDigits:  lastDigits,
					WithdrawDay: withdrawDay,
				}, nil
			},
		}
		handler := NewCardHandler(cardSvc, &mockStatementService{}, &mockAuditService{})
		r := setupCardRouter(handler)

		rec := doRequest(r, "POST", "/cards",
			`{"alias":"Platinum","last_digits":"4242","withdraw_day":15}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		card := result["card"].(map[string]interface{})
		if card["alias"] != "Platinum" {
			t.Errorf("expected Platinum, got %v", card["alias"])
		}
	})

	t.Run("returns 400 on missing withdraw day", func(t *testing.T) {
		handler := NewCardHandler(&mockCardService{}, &mockStatementService{}, &mockAuditService{})
		r := setupCardRouter(handler)

		rec := doRequest(r, "POST", "/cards", `{"alias":"Platinum"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 on out-of-range withdraw day", func(t *testing.T) {
		handler := NewCardHandler(&mockCardService{}, &mockStatementService{}, &mockAuditService{})
		r := setupCardRouter(handler)

		rec := doRequest(r, "POST", "/cards", `{"alias":"Platinum","withdraw_day":32}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on non-numeric last digits", func(t *testing.T) {
		handler := NewCardHandler(&mockCardService{}, &mockStatementService{}, &mockAuditService{})
		r := setupCardRouter(handler)

		rec := doRequest(r, "POST", "/cards", `{"alias":"Platinum","withdraw_day":15,"last_digits":"abcd"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 401 without auth", func(t *testing.T) {
		handler := NewCardHandler(&mockCardService{}, &mockStatementService{}, &mockAuditService{})
		r := gin.New()
		r.POST("/cards", handler.CreateCard)

		rec := doRequest(r, "POST", "/cards", `{"alias":"Platinum","withdraw_day":15}`)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}

func TestCardHandler_GetUserCards(t *testing.T) {
	t.Run("returns 200 with cards", func(t *testing.T) {
		cardSvc := &mockCardService{
			getUserCardsFn: func(_ uint, _ pagination.PageRequest) (*pagination.PageResponse[models.Card], error) {
				resp := pagination.NewPageResponse([]models.Card{
					{Base: models.Base{ID: 1}, Alias: "Platinum", WithdrawDay: 15},
					{Base: models.Base{ID: 2}, Alias: "Gold", WithdrawDay: 5},
				}, 1, 20, 2)
				return &resp, nil
			},
		}
		handler := NewCardHandler(cardSvc, &mockStatementService{}, &mockAuditService{})
		r := setupCardRouter(handler)

		rec := doRequest(r, "GET", "/cards", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		data := result["data"].([]interface{})
		if len(data) != 2 {
			t.Errorf("expected 2 cards, got %d", len(data))
		}
	})
}

func TestCardHandler_UpdateCard(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		cardSvc := &mockCardService{
			updateCardFn: func(_, cardID uint, alias string, withdrawDay *int, _ *int64) (*models.Card, error) {
				card := &models.Card{Base: models.Base{ID: cardID}, Alias: alias}
				if withdrawDay != nil {
					card.WithdrawDay = *withdrawDay
				}
				return card, nil
			},
		}
		handler := NewCardHandler(cardSvc, &mockStatementService{}, &mockAuditService{})
		r := setupCardRouter(handler)

		rec := doRequest(r, "PUT", "/cards/1", `{"alias":"Renamed","withdraw_day":20}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		card := result["card"].(map[string]interface{})
		if card["withdraw_day"] != float64(20) {
			t.Errorf("expected withdraw day 20, got %v", card["withdraw_day"])
		}
	})

	t.Run("returns 404 when not found", func(t *testing.T) {
		cardSvc := &mockCardService{
			updateCardFn: func(_, _ uint, _ string, _ *int, _ *int64) (*models.Card, error) {
				return nil, apperrors.ErrCardNotFound
			},
		}
		handler := NewCardHandler(cardSvc, &mockStatementService{}, &mockAuditService{})
		r := setupCardRouter(handler)

		rec := doRequest(r, "PUT", "/cards/999", `{"alias":"Renamed"}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestCardHandler_DeleteCard(t *testing.T) {
	t.Run("returns 204 on success", func(t *testing.T) {
		handler := NewCardHandler(&mockCardService{}, &mockStatementService{}, &mockAuditService{})
		r := setupCardRouter(handler)

		rec := doRequest(r, "DELETE", "/cards/1", "")

		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
	})

	t.Run("returns 409 when card has transactions", func(t *testing.T) {
		cardSvc := &mockCardService{
			deleteCardFn: func(_, _ uint) error {
				return apperrors.ErrCardInUse
			},
		}
		handler := NewCardHandler(cardSvc, &mockStatementService{}, &mockAuditService{})
		r := setupCardRouter(handler)

		rec := doRequest(r, "DELETE", "/cards/1", "")

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "CARD_IN_USE")
	})
}

func TestCardHandler_GetStatement(t *testing.T) {
	t.Run("returns 200 with the most recent cycle by default", func(t *testing.T) {
		var capturedIndex *int
		start := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
		stmtSvc := &mockStatementService{
			loadStatementFn: func(_ context.Context, _, _ uint, cycleIndex *int) (*services.StatementView, error) {
				capturedIndex = cycleIndex
				return &services.StatementView{
					Card:        &models.Card{Base: models.Base{ID: 1}, Alias: "Platinum"},
					Cycles:      []billing.Cycle{{Start: start, End: start.AddDate(0, 1, -1)}},
					ActiveIndex: 0,
					Total:       12500,
				}, nil
			},
		}
		handler := NewCardHandler(&mockCardService{}, stmtSvc, &mockAuditService{})
		r := setupCardRouter(handler)

		rec := doRequest(r, "GET", "/cards/1/statement", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if capturedIndex != nil {
			t.Errorf("expected nil cycle index, got %d", *capturedIndex)
		}
		result := parseJSON(t, rec)
		if result["total"] != float64(12500) {
			t.Errorf("expected total 12500, got %v", result["total"])
		}
	})

	t.Run("passes the requested cycle index through", func(t *testing.T) {
		var capturedIndex *int
		stmtSvc := &mockStatementService{
			loadStatementFn: func(_ context.Context, _, _ uint, cycleIndex *int) (*services.StatementView, error) {
				capturedIndex = cycleIndex
				return &services.StatementView{ActiveIndex: 0}, nil
			},
		}
		handler := NewCardHandler(&mockCardService{}, stmtSvc, &mockAuditService{})
		r := setupCardRouter(handler)

		rec := doRequest(r, "GET", "/cards/1/statement?cycle=2", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if capturedIndex == nil || *capturedIndex != 2 {
			t.Errorf("expected cycle index 2, got %v", capturedIndex)
		}
	})

	t.Run("returns 400 on non-numeric cycle", func(t *testing.T) {
		handler := NewCardHandler(&mockCardService{}, &mockStatementService{}, &mockAuditService{})
		r := setupCardRouter(handler)

		rec := doRequest(r, "GET", "/cards/1/statement?cycle=latest", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 404 when card not found", func(t *testing.T) {
		stmtSvc := &mockStatementService{
			loadStatementFn: func(_ context.Context, _, _ uint, _ *int) (*services.StatementView, error) {
				return nil, apperrors.ErrCardNotFound
			},
		}
		handler := NewCardHandler(&mockCardService{}, stmtSvc, &mockAuditService{})
		r := setupCardRouter(handler)

		rec := doRequest(r, "GET", "/cards/999/statement", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "CARD_NOT_FOUND")
	})
}
