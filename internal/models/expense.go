package models

import "time"

// ExpenseCategory is the fixed set of categories an expense can be tagged with.
type ExpenseCategory string

const (
	CategoryHousingRent    ExpenseCategory = "Housing/Rent"
	CategoryUtilities      ExpenseCategory = "Utilities"
	CategoryGroceries      ExpenseCategory = "Groceries"
	CategoryDiningFood     ExpenseCategory = "Dining & Food"
	CategoryTransportation ExpenseCategory = "Transportation"
	CategoryHealthcare     ExpenseCategory = "Healthcare"
	CategoryPersonalCare   ExpenseCategory = "Personal Care"
	CategoryBillsEMI       ExpenseCategory = "Bills & EMI"
	CategoryOthers         ExpenseCategory = "Others"
)

// ExpenseCategories lists every valid category in display order.
var ExpenseCategories = []ExpenseCategory{
	CategoryHousingRent,
	CategoryUtilities,
	CategoryGroceries,
	CategoryDiningFood,
	CategoryTransportation,
	CategoryHealthcare,
	CategoryPersonalCare,
	CategoryBillsEMI,
	CategoryOthers,
}

// ValidExpenseCategory reports whether c is one of the fixed categories.
func ValidExpenseCategory(c ExpenseCategory) bool {
	for _, v := range ExpenseCategories {
		if v == c {
			return true
		}
	}
	return false
}

// Expense is a single spend entry belonging to exactly one budget period.
// Amount is in minor currency units (cents).
type Expense struct {
	Base
	UserID   string          `gorm:"type:uuid;not null;index" json:"user_id"`
	BudgetID string          `gorm:"type:uuid;not null;index" json:"budget_id"`
	Item     string          `gorm:"not null" json:"item"`
	Amount   int64           `gorm:"not null" json:"amount"`
	Category ExpenseCategory `gorm:"not null" json:"category"`
	Date     time.Time       `gorm:"not null" json:"date"`
}
