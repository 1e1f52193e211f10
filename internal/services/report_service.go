package services

import (
	"gorm.io/gorm"

	apperrors "gullak/internal/errors"
	"gullak/internal/models"
)

// reportService produces read-only rollups for the dashboard screens.
type reportService struct {
	db             *gorm.DB
	budgetService  BudgetServicer
	lendingService LendingServicer
}

// NewReportService creates a new ReportServicer.
func NewReportService(db *gorm.DB, budgetService BudgetServicer, lendingService LendingServicer) ReportServicer {
	return &reportService{db: db, budgetService: budgetService, lendingService: lendingService}
}

// DashboardSummary returns the current period's headline numbers.
func (s *reportService) DashboardSummary(userID string) (*DashboardSummary, error) {
	budget, err := s.budgetService.GetCurrentBudget(userID)
	if err != nil {
		return nil, err
	}

	var totalExpenses int64
	if err := s.db.Model(&models.Expense{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("budget_id = ?", budget.ID).
		Scan(&totalExpenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var expenseCount int64
	if err := s.db.Model(&models.Expense{}).
		Where("budget_id = ?", budget.ID).
		Count(&expenseCount).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var lendingCount int64
	if err := s.db.Model(&models.LendingRecord{}).
		Where("user_id = ? AND settled = ?", userID, false).
		Count(&lendingCount).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	impact, err := s.lendingService.TotalLendingImpact(userID)
	if err != nil {
		return nil, err
	}

	return &DashboardSummary{
		Month:         budget.Month,
		TotalBudget:   budget.TotalBudget,
		TotalExpenses: totalExpenses,
		Remaining:     budget.Remaining,
		LendingImpact: impact,
		TotalSavings:  budget.PreviousMonthSavings + budget.CurrentMonthSavings,
		ExpenseCount:  expenseCount,
		LendingCount:  lendingCount,
	}, nil
}

// CategoryBreakdown returns per-category spend totals for the current
// period, with each category's share of the overall spend.
func (s *reportService) CategoryBreakdown(userID string) ([]CategoryTotal, error) {
	budget, err := s.budgetService.GetCurrentBudget(userID)
	if err != nil {
		return nil, err
	}

	type row struct {
		Category models.ExpenseCategory
		Total    int64
	}
	var rows []row
	if err := s.db.Model(&models.Expense{}).
		Select("category, SUM(amount) AS total").
		Where("budget_id = ?", budget.ID).
		Group("category").
		Order("total DESC").
		Scan(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var grandTotal int64
	for _, r := range rows {
		grandTotal += r.Total
	}

	breakdown := make([]CategoryTotal, 0, len(rows))
	for _, r := range rows {
		var pct float64
		if grandTotal > 0 {
			pct = float64(r.Total) / float64(grandTotal) * 100
		}
		breakdown = append(breakdown, CategoryTotal{
			Category:   r.Category,
			Total:      r.Total,
			Percentage: pct,
		})
	}
	return breakdown, nil
}

// MonthlyHistory returns one summary row per budget period, newest first.
func (s *reportService) MonthlyHistory(userID string) ([]MonthlySummary, error) {
	budgets, err := s.allBudgets(userID)
	if err != nil {
		return nil, err
	}

	history := make([]MonthlySummary, 0, len(budgets))
	for _, b := range budgets {
		var spent int64
		if err := s.db.Model(&models.Expense{}).
			Select("COALESCE(SUM(amount), 0)").
			Where("budget_id = ?", b.ID).
			Scan(&spent).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		history = append(history, MonthlySummary{
			Month:       b.Month,
			TotalBudget: b.TotalBudget,
			Spent:       spent,
			Remaining:   b.Remaining,
			IsCompleted: b.IsCompleted,
		})
	}
	return history, nil
}

// SavingsHistory returns the savings pools per period, newest first.
func (s *reportService) SavingsHistory(userID string) ([]SavingsEntry, error) {
	budgets, err := s.allBudgets(userID)
	if err != nil {
		return nil, err
	}

	history := make([]SavingsEntry, 0, len(budgets))
	for _, b := range budgets {
		history = append(history, SavingsEntry{
			Month:                b.Month,
			PreviousMonthSavings: b.PreviousMonthSavings,
			CurrentMonthSavings:  b.CurrentMonthSavings,
			FinalSavings:         b.FinalSavings,
			IsCompleted:          b.IsCompleted,
		})
	}
	return history, nil
}

func (s *reportService) allBudgets(userID string) ([]models.Budget, error) {
	var budgets []models.Budget
	if err := s.db.Where("user_id = ?", userID).
		Order("month DESC").
		Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return budgets, nil
}
