package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	apperrors "gullak/internal/errors"
	"gullak/internal/models"
	"gullak/internal/pagination"
	"gullak/internal/services"
)

// --- mock budget service ---

type mockBudgetService struct {
	createBudgetFn          func(userID string, totalBudget int64, previousSavings *int64) (*models.Budget, error)
	getCurrentBudgetFn      func(userID string) (*models.Budget, error)
	getBudgetByIDFn         func(userID, budgetID string) (*models.Budget, error)
	getBudgetHistoryFn      func(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Budget], error)
	recomputeRemainingFn    func(userID, budgetID string) (*models.Budget, error)
	detectMonthTransitionFn func(userID string) (*models.Budget, error)
}

func (m *mockBudgetService) CreateBudget(userID string, totalBudget int64, previousSavings *int64) (*models.Budget, error) {
	if m.createBudgetFn != nil {
		return m.createBudgetFn(userID, totalBudget, previousSavings)
	}
	return &models.Budget{}, nil
}

func (m *mockBudgetService) GetCurrentBudget(userID string) (*models.Budget, error) {
	if m.getCurrentBudgetFn != nil {
		return m.getCurrentBudgetFn(userID)
	}
	return &models.Budget{}, nil
}

func (m *mockBudgetService) GetBudgetByID(userID, budgetID string) (*models.Budget, error) {
	if m.getBudgetByIDFn != nil {
		return m.getBudgetByIDFn(userID, budgetID)
	}
	return &models.Budget{}, nil
}

func (m *mockBudgetService) GetBudgetHistory(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Budget], error) {
	if m.getBudgetHistoryFn != nil {
		return m.getBudgetHistoryFn(userID, page)
	}
	resp := pagination.NewPageResponse([]models.Budget{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockBudgetService) RecomputeRemaining(userID, budgetID string) (*models.Budget, error) {
	if m.recomputeRemainingFn != nil {
		return m.recomputeRemainingFn(userID, budgetID)
	}
	return &models.Budget{}, nil
}

func (m *mockBudgetService) RecomputeRemainingTx(_ *gorm.DB, _ *models.Budget) error {
	return nil
}

func (m *mockBudgetService) DetectMonthTransition(userID string) (*models.Budget, error) {
	if m.detectMonthTransitionFn != nil {
		return m.detectMonthTransitionFn(userID)
	}
	return nil, nil
}

var _ services.BudgetServicer = (*mockBudgetService)(nil)

func setupBudgetRouter(handler *BudgetHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID("user-1"))
	auth.POST("/budgets", handler.CreateBudget)
	auth.GET("/budgets", handler.GetBudgets)
	auth.GET("/budgets/current", handler.GetCurrentBudget)
	auth.GET("/budgets/:id", handler.GetBudget)
	return r
}

func TestBudgetHandler_CreateBudget(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		svc := &mockBudgetService{
			createBudgetFn: func(userID string, totalBudget int64, _ *int64) (*models.Budget, error) {
				return &models.Budget{
					Base:        models.Base{ID: "budget-1"},
					UserID:      userID,
					Month:       "2026-09",
					TotalBudget: totalBudget,
					Remaining:   totalBudget,
				}, nil
			},
		}
		handler := NewBudgetHandler(svc, &mockAuditService{})
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "POST", "/budgets", `{"total_budget":100000}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		budget := result["budget"].(map[string]interface{})
		if budget["total_budget"].(float64) != 100000 {
			t.Errorf("expected total_budget 100000, got %v", budget["total_budget"])
		}
		if budget["remaining"].(float64) != 100000 {
			t.Errorf("expected remaining 100000, got %v", budget["remaining"])
		}
	})

	t.Run("passes explicit previous savings through", func(t *testing.T) {
		var captured *int64
		svc := &mockBudgetService{
			createBudgetFn: func(_ string, _ int64, previousSavings *int64) (*models.Budget, error) {
				captured = previousSavings
				return &models.Budget{}, nil
			},
		}
		handler := NewBudgetHandler(svc, &mockAuditService{})
		r := setupBudgetRouter(handler)

		doRequest(r, "POST", "/budgets", `{"total_budget":100000,"previous_savings":25000}`)

		if captured == nil || *captured != 25000 {
			t.Errorf("expected previous savings 25000 passed through, got %v", captured)
		}
	})

	t.Run("returns 400 on zero amount", func(t *testing.T) {
		handler := NewBudgetHandler(&mockBudgetService{}, &mockAuditService{})
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "POST", "/budgets", `{"total_budget":0}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 on negative previous savings", func(t *testing.T) {
		handler := NewBudgetHandler(&mockBudgetService{}, &mockAuditService{})
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "POST", "/budgets", `{"total_budget":100000,"previous_savings":-5}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 409 when the month already has a budget", func(t *testing.T) {
		svc := &mockBudgetService{
			createBudgetFn: func(_ string, _ int64, _ *int64) (*models.Budget, error) {
				return nil, apperrors.ErrBudgetExists
			},
		}
		handler := NewBudgetHandler(svc, &mockAuditService{})
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "POST", "/budgets", `{"total_budget":100000}`)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "BUDGET_EXISTS")
	})

	t.Run("returns 401 without auth", func(t *testing.T) {
		handler := NewBudgetHandler(&mockBudgetService{}, &mockAuditService{})
		r := gin.New()
		r.POST("/budgets", handler.CreateBudget)

		rec := doRequest(r, "POST", "/budgets", `{"total_budget":100000}`)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}

func TestBudgetHandler_GetCurrentBudget(t *testing.T) {
	t.Run("returns 200 with the current period", func(t *testing.T) {
		svc := &mockBudgetService{
			getCurrentBudgetFn: func(_ string) (*models.Budget, error) {
				return &models.Budget{
					Base:      models.Base{ID: "budget-1"},
					Month:     "2026-09",
					Remaining: 42000,
				}, nil
			},
		}
		handler := NewBudgetHandler(svc, &mockAuditService{})
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "GET", "/budgets/current", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		budget := result["budget"].(map[string]interface{})
		if budget["remaining"].(float64) != 42000 {
			t.Errorf("expected remaining 42000, got %v", budget["remaining"])
		}
	})

	t.Run("returns 404 when no budget exists for the month", func(t *testing.T) {
		svc := &mockBudgetService{
			getCurrentBudgetFn: func(_ string) (*models.Budget, error) {
				return nil, apperrors.ErrNoCurrentBudget
			},
		}
		handler := NewBudgetHandler(svc, &mockAuditService{})
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "GET", "/budgets/current", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "NO_CURRENT_BUDGET")
	})
}

func TestBudgetHandler_GetBudgets(t *testing.T) {
	t.Run("returns 200 with paginated history", func(t *testing.T) {
		svc := &mockBudgetService{
			getBudgetHistoryFn: func(_ string, _ pagination.PageRequest) (*pagination.PageResponse[models.Budget], error) {
				resp := pagination.NewPageResponse([]models.Budget{
					{Base: models.Base{ID: "b2"}, Month: "2026-09"},
					{Base: models.Base{ID: "b1"}, Month: "2026-08"},
				}, 1, 20, 2)
				return &resp, nil
			},
		}
		handler := NewBudgetHandler(svc, &mockAuditService{})
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "GET", "/budgets", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		data := result["data"].([]interface{})
		if len(data) != 2 {
			t.Errorf("expected 2 budgets, got %d", len(data))
		}
		if result["total_items"].(float64) != 2 {
			t.Errorf("expected total_items=2, got %v", result["total_items"])
		}
	})

	t.Run("returns 400 on invalid page size", func(t *testing.T) {
		handler := NewBudgetHandler(&mockBudgetService{}, &mockAuditService{})
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "GET", "/budgets?page_size=500", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})
}

func TestBudgetHandler_GetBudget(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		svc := &mockBudgetService{
			getBudgetByIDFn: func(_, budgetID string) (*models.Budget, error) {
				return &models.Budget{
					Base:        models.Base{ID: budgetID},
					Month:       "2026-08",
					TotalBudget: 90000,
				}, nil
			},
		}
		handler := NewBudgetHandler(svc, &mockAuditService{})
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "GET", "/budgets/budget-1", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		budget := result["budget"].(map[string]interface{})
		if budget["month"] != "2026-08" {
			t.Errorf("expected month 2026-08, got %v", budget["month"])
		}
	})

	t.Run("returns 404 when not found", func(t *testing.T) {
		svc := &mockBudgetService{
			getBudgetByIDFn: func(_, _ string) (*models.Budget, error) {
				return nil, apperrors.ErrBudgetNotFound
			},
		}
		handler := NewBudgetHandler(svc, &mockAuditService{})
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "GET", "/budgets/missing", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "BUDGET_NOT_FOUND")
	})
}
