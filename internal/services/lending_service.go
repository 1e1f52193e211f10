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

// lendingService handles the lent/borrowed ledger. Mutations that
// change the lending impact recompute the current month's budget, when
// one exists, in the same transaction.
type lendingService struct {
	db            *gorm.DB
	budgetService BudgetServicer
}

// NewLendingService creates a new LendingServicer.
func NewLendingService(db *gorm.DB, budgetService BudgetServicer) LendingServicer {
	return &lendingService{db: db, budgetService: budgetService}
}

// AddRecord creates a new unsettled lending record.
func (s *lendingService) AddRecord(userID string, lendingType models.LendingType, amount int64, personName, phoneNumber string, date time.Time) (*models.LendingRecord, error) {
	if lendingType != models.LendingTypeLent && lendingType != models.LendingTypeBorrowed {
		return nil, apperrors.ErrInvalidLendingType
	}
	if amount <= 0 {
		return nil, apperrors.ErrInvalidAmount
	}
	if strings.TrimSpace(personName) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "person name is required")
	}
	if date.IsZero() {
		date = time.Now()
	}

	record := &models.LendingRecord{
		UserID:      userID,
		Type:        lendingType,
		Amount:      amount,
		PersonName:  personName,
		PhoneNumber: phoneNumber,
		Date:        date,
		Settled:     false,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(record).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return s.recomputeCurrentBudget(tx, userID)
	})
	if err != nil {
		return nil, err
	}

	return record, nil
}

// ToggleSettled flips a record's settled flag, adding or removing its
// contribution to the lending impact.
func (s *lendingService) ToggleSettled(userID, recordID string) (*models.LendingRecord, error) {
	record, err := s.getRecord(userID, recordID)
	if err != nil {
		return nil, err
	}

	record.Settled = !record.Settled

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(record).Update("settled", record.Settled).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return s.recomputeCurrentBudget(tx, userID)
	})
	if err != nil {
		return nil, err
	}

	return record, nil
}

// DeleteRecord removes a record permanently; its past impact is not
// retained.
func (s *lendingService) DeleteRecord(userID, recordID string) error {
	record, err := s.getRecord(userID, recordID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(record).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return s.recomputeCurrentBudget(tx, userID)
	})
}

// GetUserRecords lists the user's lending records, newest first.
func (s *lendingService) GetUserRecords(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.LendingRecord], error) {
	page.Defaults()

	base := s.db.Model(&models.LendingRecord{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var records []models.LendingRecord
	if err := base.Scopes(pagination.Paginate(page)).
		Order("date DESC").
		Find(&records).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(records, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// TotalLendingImpact sums unsettled records: +amount for borrowed,
// -amount for lent. Settled debts are closed and excluded.
func (s *lendingService) TotalLendingImpact(userID string) (int64, error) {
	return lendingImpactTx(s.db, userID)
}

// recomputeCurrentBudget refreshes the current month's period inside
// tx. The lending ledger exists independently of any budget, so a
// missing current period is not an error.
func (s *lendingService) recomputeCurrentBudget(tx *gorm.DB, userID string) error {
	var budget models.Budget
	if err := tx.Where("user_id = ? AND month = ?", userID, currentMonth()).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return s.budgetService.RecomputeRemainingTx(tx, &budget)
}

func (s *lendingService) getRecord(userID, recordID string) (*models.LendingRecord, error) {
	var record models.LendingRecord
	if err := s.db.Where("id = ? AND user_id = ?", recordID, userID).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrLendingNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &record, nil
}
