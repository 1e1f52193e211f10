package services

import (
	"testing"
	"time"

	"gullak/internal/models"
	"gullak/internal/testutil"
)

func TestDashboardSummary(t *testing.T) {
	t.Run("aggregates_current_period", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		budgetSvc := NewBudgetService(db)
		lendingSvc := NewLendingService(db, budgetSvc)
		svc := NewReportService(db, budgetSvc, lendingSvc)
		user := testutil.CreateTestUser(t, db)
		budget := testutil.CreateTestBudget(t, db, user.ID, 100000)

		testutil.CreateTestExpense(t, db, user.ID, budget.ID, 20000, models.CategoryGroceries)
		testutil.CreateTestExpense(t, db, user.ID, budget.ID, 10000, models.CategoryUtilities)
		testutil.CreateTestLendingRecord(t, db, user.ID, models.LendingTypeBorrowed, 5000)

		summary, err := svc.DashboardSummary(user.ID)
		testutil.AssertNoError(t, err)

		if summary.TotalBudget != 100000 {
			t.Errorf("expected total budget 100000, got %d", summary.TotalBudget)
		}
		if summary.TotalExpenses != 30000 {
			t.Errorf("expected expenses 30000, got %d", summary.TotalExpenses)
		}
		if summary.LendingImpact != 5000 {
			t.Errorf("expected lending impact 5000, got %d", summary.LendingImpact)
		}
		if summary.ExpenseCount != 2 {
			t.Errorf("expected 2 expenses, got %d", summary.ExpenseCount)
		}
		if summary.LendingCount != 1 {
			t.Errorf("expected 1 unsettled lending record, got %d", summary.LendingCount)
		}
	})

	t.Run("no_current_budget", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		budgetSvc := NewBudgetService(db)
		svc := NewReportService(db, budgetSvc, NewLendingService(db, budgetSvc))
		user := testutil.CreateTestUser(t, db)

		_, err := svc.DashboardSummary(user.ID)
		testutil.AssertAppError(t, err, "NO_CURRENT_BUDGET")
	})
}

func TestCategoryBreakdown(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	budgetSvc := NewBudgetService(db)
	svc := NewReportService(db, budgetSvc, NewLendingService(db, budgetSvc))
	user := testutil.CreateTestUser(t, db)
	budget := testutil.CreateTestBudget(t, db, user.ID, 100000)

	testutil.CreateTestExpense(t, db, user.ID, budget.ID, 30000, models.CategoryGroceries)
	testutil.CreateTestExpense(t, db, user.ID, budget.ID, 10000, models.CategoryGroceries)
	testutil.CreateTestExpense(t, db, user.ID, budget.ID, 10000, models.CategoryHealthcare)

	breakdown, err := svc.CategoryBreakdown(user.ID)
	testutil.AssertNoError(t, err)

	if len(breakdown) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(breakdown))
	}
	if breakdown[0].Category != models.CategoryGroceries || breakdown[0].Total != 40000 {
		t.Errorf("expected Groceries 40000 first, got %s %d", breakdown[0].Category, breakdown[0].Total)
	}
	if breakdown[0].Percentage != 80 {
		t.Errorf("expected 80%% share, got %.2f", breakdown[0].Percentage)
	}
	if breakdown[1].Percentage != 20 {
		t.Errorf("expected 20%% share, got %.2f", breakdown[1].Percentage)
	}
}

func TestMonthlyHistory(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	budgetSvc := NewBudgetService(db)
	svc := NewReportService(db, budgetSvc, NewLendingService(db, budgetSvc))
	user := testutil.CreateTestUser(t, db)

	lastMonth := time.Now().AddDate(0, -1, 0).Format(models.MonthFormat)
	old := testutil.CreateTestBudgetForMonth(t, db, user.ID, lastMonth, 50000)
	testutil.CreateTestExpense(t, db, user.ID, old.ID, 20000, models.CategoryBillsEMI)
	current := testutil.CreateTestBudget(t, db, user.ID, 100000)

	history, err := svc.MonthlyHistory(user.ID)
	testutil.AssertNoError(t, err)

	if len(history) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(history))
	}
	if history[0].Month != current.Month {
		t.Error("expected newest month first")
	}
	if history[1].Spent != 20000 {
		t.Errorf("expected 20000 spent in prior month, got %d", history[1].Spent)
	}
}

func TestSavingsHistory(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	budgetSvc := NewBudgetService(db)
	svc := NewReportService(db, budgetSvc, NewLendingService(db, budgetSvc))
	user := testutil.CreateTestUser(t, db)

	lastMonth := time.Now().AddDate(0, -1, 0).Format(models.MonthFormat)
	old := testutil.CreateTestBudgetForMonth(t, db, user.ID, lastMonth, 50000)
	final := int64(12000)
	if err := db.Model(old).Updates(map[string]interface{}{
		"is_completed":  true,
		"final_savings": final,
	}).Error; err != nil {
		t.Fatalf("failed to complete budget: %v", err)
	}
	testutil.CreateTestBudget(t, db, user.ID, 100000)

	history, err := svc.SavingsHistory(user.ID)
	testutil.AssertNoError(t, err)

	if len(history) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(history))
	}
	if history[1].FinalSavings == nil || *history[1].FinalSavings != 12000 {
		t.Errorf("expected final savings 12000 on completed month, got %v", history[1].FinalSavings)
	}
	if history[0].FinalSavings != nil {
		t.Error("open month must not have final savings")
	}
}
