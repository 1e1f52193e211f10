package models

import "time"

// MonthFormat is the layout for a budget's calendar month key (YYYY-MM).
const MonthFormat = "2006-01"

// Budget represents one calendar month's budget allocation for a user.
// All monetary fields are in minor currency units (cents).
//
// Remaining may go negative once both savings pools are exhausted;
// CurrentMonthSavings may go negative when a deficit is drawn against
// savings that were mostly carried over from the previous month.
type Budget struct {
	Base
	UserID               string     `gorm:"type:uuid;not null;index;uniqueIndex:idx_budgets_user_month" json:"user_id"`
	Month                string     `gorm:"size:7;not null;uniqueIndex:idx_budgets_user_month" json:"month"`
	TotalBudget          int64      `gorm:"not null" json:"total_budget"`
	Remaining            int64      `gorm:"not null" json:"remaining"`
	PreviousMonthSavings int64      `gorm:"not null;default:0" json:"previous_month_savings"`
	CurrentMonthSavings  int64      `gorm:"not null;default:0" json:"current_month_savings"`
	IsCompleted          bool       `gorm:"not null;default:false" json:"is_completed"`
	FinalSavings         *int64     `json:"final_savings,omitempty"`
	CompletedAt          *time.Time `json:"completed_at,omitempty"`
}
