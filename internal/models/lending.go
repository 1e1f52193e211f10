package models

import "time"

// LendingType distinguishes money lent out from money borrowed.
type LendingType string

const (
	LendingTypeLent     LendingType = "lent"
	LendingTypeBorrowed LendingType = "borrowed"
)

// LendingRecord tracks money lent to or borrowed from a third party.
// Only unsettled records contribute to the lending impact on the budget.
// Amount is in minor currency units (cents).
type LendingRecord struct {
	Base
	UserID      string      `gorm:"type:uuid;not null;index" json:"user_id"`
	Type        LendingType `gorm:"not null" json:"type"`
	Amount      int64       `gorm:"not null" json:"amount"`
	PersonName  string      `gorm:"not null" json:"person_name"`
	PhoneNumber string      `json:"phone_number"`
	Date        time.Time   `gorm:"not null" json:"date"`
	Settled     bool        `gorm:"not null;default:false" json:"settled"`
}
