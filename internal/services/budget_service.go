package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "gullak/internal/errors"
	"gullak/internal/logger"
	"gullak/internal/models"
	"gullak/internal/pagination"
)

// budgetService owns the monthly budget state machine: creation with
// savings carry-over, the remaining/savings recompute, and month
// transition finalization.
type budgetService struct {
	db *gorm.DB
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB) BudgetServicer {
	return &budgetService{db: db}
}

// currentMonth returns the calendar month key (YYYY-MM) for now.
func currentMonth() string {
	return time.Now().Format(models.MonthFormat)
}

// previousMonth returns the month key immediately before the given one.
func previousMonth(month string) (string, error) {
	t, err := time.Parse(models.MonthFormat, month)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, -1, 0).Format(models.MonthFormat), nil
}

// CreateBudget creates the budget period for the current calendar month.
func (s *budgetService) CreateBudget(userID string, totalBudget int64, previousSavings *int64) (*models.Budget, error) {
	if totalBudget <= 0 {
		return nil, apperrors.ErrInvalidAmount
	}
	if previousSavings != nil && *previousSavings < 0 {
		return nil, apperrors.ErrNegativeSavings
	}

	month := currentMonth()

	var count int64
	if err := s.db.Model(&models.Budget{}).
		Where("user_id = ? AND month = ?", userID, month).
		Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrBudgetExists
	}

	carried := int64(0)
	if previousSavings != nil && *previousSavings > 0 {
		carried = *previousSavings
	} else {
		detected, err := s.detectPreviousSavings(userID, month)
		if err != nil {
			return nil, err
		}
		carried = detected
	}

	budget := &models.Budget{
		UserID:               userID,
		Month:                month,
		TotalBudget:          totalBudget,
		Remaining:            totalBudget,
		PreviousMonthSavings: carried,
		CurrentMonthSavings:  0,
	}

	if err := s.db.Create(budget).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return budget, nil
}

// detectPreviousSavings looks up the immediately preceding month's
// period and returns its final savings if the month was closed, its
// live remaining balance otherwise, and zero when no period exists.
func (s *budgetService) detectPreviousSavings(userID, month string) (int64, error) {
	prevMonth, err := previousMonth(month)
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var prev models.Budget
	if err := s.db.Where("user_id = ? AND month = ?", userID, prevMonth).First(&prev).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if prev.FinalSavings != nil {
		return *prev.FinalSavings, nil
	}
	return prev.Remaining, nil
}

// GetCurrentBudget returns the period for the current calendar month,
// finalizing any stale prior period first.
func (s *budgetService) GetCurrentBudget(userID string) (*models.Budget, error) {
	if _, err := s.DetectMonthTransition(userID); err != nil {
		return nil, err
	}

	var budget models.Budget
	if err := s.db.Where("user_id = ? AND month = ?", userID, currentMonth()).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNoCurrentBudget
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

// GetBudgetByID returns a budget by ID if it belongs to the user.
func (s *budgetService) GetBudgetByID(userID, budgetID string) (*models.Budget, error) {
	var budget models.Budget
	if err := s.db.Where("id = ? AND user_id = ?", budgetID, userID).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

// GetBudgetHistory returns the user's budget periods, newest month first.
func (s *budgetService) GetBudgetHistory(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Budget], error) {
	page.Defaults()

	base := s.db.Model(&models.Budget{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var budgets []models.Budget
	if err := base.Scopes(pagination.Paginate(page)).
		Order("month DESC").
		Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(budgets, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// RecomputeRemaining rederives the period's remaining balance and
// savings pools in its own transaction.
func (s *budgetService) RecomputeRemaining(userID, budgetID string) (*models.Budget, error) {
	budget, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		return s.RecomputeRemainingTx(tx, budget)
	})
	if err != nil {
		return nil, err
	}
	return budget, nil
}

// RecomputeRemainingTx applies the remaining/savings rule inside tx:
//
//	candidate = totalBudget - periodExpenses + lendingImpact
//
// A non-negative candidate becomes both the remaining balance and the
// current month's savings. A deficit is drawn from savings (current
// pool first) before the remaining balance is allowed to go negative;
// once both pools are exhausted the unrecoverable overdraft surfaces
// as a negative remaining.
func (s *budgetService) RecomputeRemainingTx(tx *gorm.DB, budget *models.Budget) error {
	var totalExpenses int64
	if err := tx.Model(&models.Expense{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("budget_id = ?", budget.ID).
		Scan(&totalExpenses).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	impact, err := lendingImpactTx(tx, budget.UserID)
	if err != nil {
		return err
	}

	candidate := budget.TotalBudget - totalExpenses + impact
	if candidate >= 0 {
		budget.Remaining = candidate
		budget.CurrentMonthSavings = candidate
	} else {
		deficit := -candidate
		totalSavings := budget.PreviousMonthSavings + budget.CurrentMonthSavings
		if totalSavings >= deficit {
			budget.Remaining = 0
			budget.CurrentMonthSavings -= deficit
		} else {
			budget.Remaining = -(deficit - totalSavings)
			budget.CurrentMonthSavings = 0
			budget.PreviousMonthSavings = 0
		}
	}

	// Updates via map so zero values are persisted.
	if err := tx.Model(budget).Updates(map[string]interface{}{
		"remaining":              budget.Remaining,
		"current_month_savings":  budget.CurrentMonthSavings,
		"previous_month_savings": budget.PreviousMonthSavings,
	}).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// lendingImpactTx sums unsettled lending records for the user inside tx.
func lendingImpactTx(tx *gorm.DB, userID string) (int64, error) {
	var impact int64
	err := tx.Model(&models.LendingRecord{}).
		Select("COALESCE(SUM(CASE WHEN type = ? THEN amount ELSE -amount END), 0)", models.LendingTypeBorrowed).
		Where("user_id = ? AND settled = ?", userID, false).
		Scan(&impact).Error
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return impact, nil
}

// DetectMonthTransition finalizes the most recent stored period once
// the calendar has moved past its month. Skipped months are not
// synthesized; only the latest period is closed.
func (s *budgetService) DetectMonthTransition(userID string) (*models.Budget, error) {
	var latest models.Budget
	if err := s.db.Where("user_id = ?", userID).
		Order("month DESC").
		First(&latest).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if latest.IsCompleted || latest.Month >= currentMonth() {
		return nil, nil
	}

	now := time.Now()
	final := latest.Remaining
	latest.IsCompleted = true
	latest.FinalSavings = &final
	latest.CompletedAt = &now

	if err := s.db.Model(&latest).Updates(map[string]interface{}{
		"is_completed":  true,
		"final_savings": final,
		"completed_at":  now,
	}).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	logger.Get().Infow("budget period finalized",
		"user_id", userID,
		"month", latest.Month,
		"final_savings", final,
	)
	return &latest, nil
}
