package integration

import (
	"net/http"
	"testing"
	"time"

	"gullak/internal/models"
)

// seedStaleBudget inserts a budget period for the month immediately
// before the current one, as if the user created it back then.
func (app *testApp) seedStaleBudget(t *testing.T, userID string, totalBudget, remaining int64) *models.Budget {
	t.Helper()
	prevMonth := time.Now().AddDate(0, -1, 0).Format(models.MonthFormat)
	budget := &models.Budget{
		UserID:              userID,
		Month:               prevMonth,
		TotalBudget:         totalBudget,
		Remaining:           remaining,
		CurrentMonthSavings: remaining,
	}
	if err := app.DB.Create(budget).Error; err != nil {
		t.Fatalf("failed to seed stale budget: %v", err)
	}
	return budget
}

func TestMonthTransition_FinalizedOnAccess(t *testing.T) {
	app := setupApp(t)
	accessToken, _, userID := app.registerUser(t, "transition@test.com", "password123")

	stale := app.seedStaleBudget(t, userID, 100000, 15000)

	// The current month has no budget yet; asking for it closes out the
	// stale period as a side effect.
	rec := app.request("GET", "/api/v1/budgets/current", "", accessToken)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 with no current budget, got %d: %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	errObj := result["error"].(map[string]interface{})
	if errObj["code"] != "NO_CURRENT_BUDGET" {
		t.Errorf("expected NO_CURRENT_BUDGET, got %v", errObj["code"])
	}

	var finalized models.Budget
	if err := app.DB.First(&finalized, "id = ?", stale.ID).Error; err != nil {
		t.Fatalf("failed to reload stale budget: %v", err)
	}
	if !finalized.IsCompleted {
		t.Fatal("expected stale period to be completed")
	}
	if finalized.FinalSavings == nil || *finalized.FinalSavings != 15000 {
		t.Errorf("expected final savings 15000, got %v", finalized.FinalSavings)
	}
	if finalized.CompletedAt == nil {
		t.Error("expected completed_at to be set")
	}
}

func TestMonthTransition_FinalizedOnLogin(t *testing.T) {
	app := setupApp(t)
	_, _, userID := app.registerUser(t, "loginclose@test.com", "password123")

	stale := app.seedStaleBudget(t, userID, 80000, 20000)

	app.loginUser(t, "loginclose@test.com", "password123")

	var finalized models.Budget
	if err := app.DB.First(&finalized, "id = ?", stale.ID).Error; err != nil {
		t.Fatalf("failed to reload stale budget: %v", err)
	}
	if !finalized.IsCompleted {
		t.Fatal("expected login to finalize the stale period")
	}
	if finalized.FinalSavings == nil || *finalized.FinalSavings != 20000 {
		t.Errorf("expected final savings 20000, got %v", finalized.FinalSavings)
	}
}

func TestMonthTransition_SavingsCarryIntoNewBudget(t *testing.T) {
	app := setupApp(t)
	accessToken, _, userID := app.registerUser(t, "carryover@test.com", "password123")

	app.seedStaleBudget(t, userID, 100000, 35000)

	// Trigger finalization, then open the new month without naming a
	// carried amount: the closed month's final savings are picked up.
	app.request("GET", "/api/v1/budgets/current", "", accessToken)

	app.createBudget(t, accessToken, 90000)
	budget := app.currentBudget(t, accessToken)
	if budget["previous_month_savings"].(float64) != 35000 {
		t.Errorf("expected carried savings 35000, got %v", budget["previous_month_savings"])
	}
	if budget["remaining"].(float64) != 90000 {
		t.Errorf("expected fresh remaining 90000, got %v", budget["remaining"])
	}
}

func TestMonthTransition_Idempotent(t *testing.T) {
	app := setupApp(t)
	accessToken, _, userID := app.registerUser(t, "idempotent@test.com", "password123")

	stale := app.seedStaleBudget(t, userID, 60000, 10000)

	app.request("GET", "/api/v1/budgets/current", "", accessToken)

	var first models.Budget
	if err := app.DB.First(&first, "id = ?", stale.ID).Error; err != nil {
		t.Fatalf("failed to reload budget: %v", err)
	}

	// A second access must not touch the already-closed period.
	app.request("GET", "/api/v1/budgets/current", "", accessToken)

	var second models.Budget
	if err := app.DB.First(&second, "id = ?", stale.ID).Error; err != nil {
		t.Fatalf("failed to reload budget: %v", err)
	}
	if !second.CompletedAt.Equal(*first.CompletedAt) {
		t.Errorf("expected completed_at unchanged, got %v then %v", first.CompletedAt, second.CompletedAt)
	}
	if *second.FinalSavings != *first.FinalSavings {
		t.Errorf("expected final savings unchanged, got %v then %v", *first.FinalSavings, *second.FinalSavings)
	}
}
