package services

import (
	"time"

	"gorm.io/gorm"

	"gullak/internal/models"
	"gullak/internal/pagination"
)

// ProfileUpdate holds the optional profile fields a user can change.
type ProfileUpdate struct {
	FirstName     string
	MiddleName    string
	LastName      string
	ContactNumber string
	Occupation    string
	MonthlyIncome *int64
}

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	UpdateProfile(userID string, update ProfileUpdate) (*models.User, error)
	RecordLogin(userID string) error
	StoreRefreshTokenHash(userID, tokenHash string) error
	GetRefreshTokenHash(userID string) (string, error)
}

// BudgetServicer defines the contract for the monthly budget engine.
type BudgetServicer interface {
	// CreateBudget creates the budget period for the current calendar
	// month. When previousSavings is nil or zero, the carried-over
	// savings are auto-detected from the preceding month's period.
	CreateBudget(userID string, totalBudget int64, previousSavings *int64) (*models.Budget, error)
	GetCurrentBudget(userID string) (*models.Budget, error)
	GetBudgetByID(userID, budgetID string) (*models.Budget, error)
	GetBudgetHistory(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Budget], error)

	// RecomputeRemaining rederives remaining and both savings pools
	// from the period's expenses and the user's unsettled lending
	// records, drawing overspend down from savings before letting the
	// remaining balance go negative.
	RecomputeRemaining(userID, budgetID string) (*models.Budget, error)

	// RecomputeRemainingTx is the same computation running inside an
	// existing transaction; expense and lending mutations call it so
	// the mutation and the recompute commit atomically.
	RecomputeRemainingTx(tx *gorm.DB, budget *models.Budget) error

	// DetectMonthTransition finalizes the most recent stored period
	// when the calendar has advanced past its month. Idempotent; a
	// completed period is never reopened. Returns the period it
	// finalized, or nil if nothing changed.
	DetectMonthTransition(userID string) (*models.Budget, error)
}

// ExpenseServicer defines the contract for expense tracking.
type ExpenseServicer interface {
	AddExpense(userID, budgetID, item string, amount int64, category models.ExpenseCategory, date time.Time) (*models.Expense, error)
	UpdateExpense(userID, expenseID, item string, amount int64, category models.ExpenseCategory, date time.Time) (*models.Expense, error)
	DeleteExpense(userID, expenseID string) error
	GetBudgetExpenses(userID, budgetID string, page pagination.PageRequest) (*pagination.PageResponse[models.Expense], error)
}

// LendingServicer defines the contract for the lending/borrowing ledger.
type LendingServicer interface {
	AddRecord(userID string, lendingType models.LendingType, amount int64, personName, phoneNumber string, date time.Time) (*models.LendingRecord, error)
	ToggleSettled(userID, recordID string) (*models.LendingRecord, error)
	DeleteRecord(userID, recordID string) error
	GetUserRecords(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.LendingRecord], error)

	// TotalLendingImpact sums unsettled records: borrowed amounts add
	// to available funds, lent amounts subtract from them.
	TotalLendingImpact(userID string) (int64, error)
}

// DashboardSummary aggregates the current period's headline numbers.
type DashboardSummary struct {
	Month         string `json:"month"`
	TotalBudget   int64  `json:"total_budget"`
	TotalExpenses int64  `json:"total_expenses"`
	Remaining     int64  `json:"remaining"`
	LendingImpact int64  `json:"lending_impact"`
	TotalSavings  int64  `json:"total_savings"`
	ExpenseCount  int64  `json:"expense_count"`
	LendingCount  int64  `json:"lending_count"`
}

// CategoryTotal is one slice of the category breakdown.
type CategoryTotal struct {
	Category   models.ExpenseCategory `json:"category"`
	Total      int64                  `json:"total"`
	Percentage float64                `json:"percentage"`
}

// MonthlySummary is one row of the monthly history.
type MonthlySummary struct {
	Month       string `json:"month"`
	TotalBudget int64  `json:"total_budget"`
	Spent       int64  `json:"spent"`
	Remaining   int64  `json:"remaining"`
	IsCompleted bool   `json:"is_completed"`
}

// SavingsEntry is one row of the savings history.
type SavingsEntry struct {
	Month                string `json:"month"`
	PreviousMonthSavings int64  `json:"previous_month_savings"`
	CurrentMonthSavings  int64  `json:"current_month_savings"`
	FinalSavings         *int64 `json:"final_savings,omitempty"`
	IsCompleted          bool   `json:"is_completed"`
}

// ReportServicer defines the contract for dashboard rollups.
type ReportServicer interface {
	DashboardSummary(userID string) (*DashboardSummary, error)
	CategoryBreakdown(userID string) ([]CategoryTotal, error)
	MonthlyHistory(userID string) ([]MonthlySummary, error)
	SavingsHistory(userID string) ([]SavingsEntry, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
