// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"gullak/internal/models"
)

// monthRegex matches a calendar month key in YYYY-MM form.
var monthRegex = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("expense_category", validateExpenseCategory)
		_ = v.RegisterValidation("lending_type", validateLendingType)
		_ = v.RegisterValidation("budget_month", validateBudgetMonth)
	}
}

func validateExpenseCategory(fl validator.FieldLevel) bool {
	return models.ValidExpenseCategory(models.ExpenseCategory(fl.Field().String()))
}

func validateLendingType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case string(models.LendingTypeLent), string(models.LendingTypeBorrowed):
		return true
	}
	return false
}

func validateBudgetMonth(fl validator.FieldLevel) bool {
	return monthRegex.MatchString(fl.Field().String())
}
