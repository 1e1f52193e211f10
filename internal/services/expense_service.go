package services

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "gullak/internal/errors"
	"gullak/internal/models"
	"gullak/internal/pagination"
)

// expenseService handles expense tracking. Every mutation recomputes
// the owning period's remaining balance in the same transaction.
type expenseService struct {
	db            *gorm.DB
	budgetService BudgetServicer
}

// NewExpenseService creates a new ExpenseServicer.
func NewExpenseService(db *gorm.DB, budgetService BudgetServicer) ExpenseServicer {
	return &expenseService{db: db, budgetService: budgetService}
}

func validateExpenseInput(item string, amount int64, category models.ExpenseCategory) error {
	if strings.TrimSpace(item) == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "item is required")
	}
	if amount <= 0 {
		return apperrors.ErrInvalidAmount
	}
	if !models.ValidExpenseCategory(category) {
		return apperrors.ErrInvalidCategory
	}
	return nil
}

// AddExpense records a new expense against a budget period.
func (s *expenseService) AddExpense(userID, budgetID, item string, amount int64, category models.ExpenseCategory, date time.Time) (*models.Expense, error) {
	if err := validateExpenseInput(item, amount, category); err != nil {
		return nil, err
	}
	if date.IsZero() {
		date = time.Now()
	}

	budget, err := s.budgetService.GetBudgetByID(userID, budgetID)
	if err != nil {
		return nil, err
	}

	expense := &models.Expense{
		UserID:   userID,
		BudgetID: budget.ID,
		Item:     item,
		Amount:   amount,
		Category: category,
		Date:     date,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(expense).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return s.budgetService.RecomputeRemainingTx(tx, budget)
	})
	if err != nil {
		return nil, err
	}

	return expense, nil
}

// UpdateExpense replaces an expense's mutable fields and recomputes the
// owning period.
func (s *expenseService) UpdateExpense(userID, expenseID, item string, amount int64, category models.ExpenseCategory, date time.Time) (*models.Expense, error) {
	if err := validateExpenseInput(item, amount, category); err != nil {
		return nil, err
	}

	expense, err := s.getExpense(userID, expenseID)
	if err != nil {
		return nil, err
	}

	budget, err := s.budgetService.GetBudgetByID(userID, expense.BudgetID)
	if err != nil {
		return nil, err
	}

	expense.Item = item
	expense.Amount = amount
	expense.Category = category
	if !date.IsZero() {
		expense.Date = date
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(expense).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return s.budgetService.RecomputeRemainingTx(tx, budget)
	})
	if err != nil {
		return nil, err
	}

	return expense, nil
}

// DeleteExpense removes an expense permanently and recomputes the
// owning period.
func (s *expenseService) DeleteExpense(userID, expenseID string) error {
	expense, err := s.getExpense(userID, expenseID)
	if err != nil {
		return err
	}

	budget, err := s.budgetService.GetBudgetByID(userID, expense.BudgetID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(expense).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return s.budgetService.RecomputeRemainingTx(tx, budget)
	})
}

// GetBudgetExpenses lists a period's expenses in insertion order.
func (s *expenseService) GetBudgetExpenses(userID, budgetID string, page pagination.PageRequest) (*pagination.PageResponse[models.Expense], error) {
	if _, err := s.budgetService.GetBudgetByID(userID, budgetID); err != nil {
		return nil, err
	}

	page.Defaults()

	base := s.db.Model(&models.Expense{}).Where("user_id = ? AND budget_id = ?", userID, budgetID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var expenses []models.Expense
	if err := base.Scopes(pagination.Paginate(page)).
		Order("created_at ASC").
		Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(expenses, page.Page, page.PageSize, totalItems)
	return &result, nil
}

func (s *expenseService) getExpense(userID, expenseID string) (*models.Expense, error) {
	var expense models.Expense
	if err := s.db.Where("id = ? AND user_id = ?", expenseID, userID).First(&expense).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrExpenseNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &expense, nil
}
