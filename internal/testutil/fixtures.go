package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"gullak/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestBudget creates a budget period for the current calendar month.
func CreateTestBudget(t *testing.T, db *gorm.DB, userID string, totalBudget int64) *models.Budget {
	t.Helper()
	return CreateTestBudgetForMonth(t, db, userID, time.Now().Format(models.MonthFormat), totalBudget)
}

// CreateTestBudgetForMonth creates a budget period keyed to the given month.
func CreateTestBudgetForMonth(t *testing.T, db *gorm.DB, userID, month string, totalBudget int64) *models.Budget {
	t.Helper()

	budget := &models.Budget{
		UserID:      userID,
		Month:       month,
		TotalBudget: totalBudget,
		Remaining:   totalBudget,
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}

// CreateTestExpense creates an expense against the given budget.
func CreateTestExpense(t *testing.T, db *gorm.DB, userID, budgetID string, amount int64, category models.ExpenseCategory) *models.Expense {
	t.Helper()

	expense := &models.Expense{
		UserID:   userID,
		BudgetID: budgetID,
		Item:     fmt.Sprintf("Test Item %d", nextID()),
		Amount:   amount,
		Category: category,
		Date:     time.Now(),
	}
	if err := db.Create(expense).Error; err != nil {
		t.Fatalf("failed to create test expense: %v", err)
	}
	return expense
}

// CreateTestLendingRecord creates an unsettled lending record.
func CreateTestLendingRecord(t *testing.T, db *gorm.DB, userID string, lendingType models.LendingType, amount int64) *models.LendingRecord {
	t.Helper()

	record := &models.LendingRecord{
		UserID:     userID,
		Type:       lendingType,
		Amount:     amount,
		PersonName: fmt.Sprintf("Person %d", nextID()),
		Date:       time.Now(),
	}
	if err := db.Create(record).Error; err != nil {
		t.Fatalf("failed to create test lending record: %v", err)
	}
	return record
}
