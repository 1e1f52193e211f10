package models

import "time"

// User represents the user model in the database
type User struct {
	Base
	Email            string     `gorm:"uniqueIndex;not null" json:"email"`
	Password         string     `gorm:"not null" json:"-"`
	FirstName        string     `json:"first_name"`
	MiddleName       string     `json:"middle_name,omitempty"`
	LastName         string     `json:"last_name"`
	ContactNumber    string     `json:"contact_number,omitempty"`
	Occupation       string     `json:"occupation,omitempty"`
	MonthlyIncome    *int64     `json:"monthly_income,omitempty"`
	IsActive         bool       `gorm:"default:true" json:"is_active"`
	RefreshTokenHash string     `gorm:"size:64" json:"-"`
	LastLoginAt      *time.Time `json:"last_login_at,omitempty"`

	Budgets        []Budget        `gorm:"foreignKey:UserID" json:"budgets,omitempty"`
	Expenses       []Expense       `gorm:"foreignKey:UserID" json:"expenses,omitempty"`
	LendingRecords []LendingRecord `gorm:"foreignKey:UserID" json:"lending_records,omitempty"`
}
