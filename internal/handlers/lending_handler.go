package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "gullak/internal/errors"
	"gullak/internal/models"
	"gullak/internal/pagination"
	"gullak/internal/services"
)

// LendingHandler handles lending/borrowing ledger requests.
type LendingHandler struct {
	lendingService services.LendingServicer
	auditService   services.AuditServicer
}

// NewLendingHandler creates a new LendingHandler.
func NewLendingHandler(lendingService services.LendingServicer, auditService services.AuditServicer) *LendingHandler {
	return &LendingHandler{lendingService: lendingService, auditService: auditService}
}

// CreateLendingRequest represents the request payload for a new lending record.
type CreateLendingRequest struct {
	Type        string    `json:"type" binding:"required,lending_type"`
	Amount      int64     `json:"amount" binding:"required,gt=0"`
	PersonName  string    `json:"person_name" binding:"required,min=1,max=100"`
	PhoneNumber string    `json:"phone_number" binding:"max=20"`
	Date        time.Time `json:"date"`
}

// CreateRecord adds a lending record.
// @Summary     Add a lending record
// @Description Record money lent to or borrowed from a third party; the current budget's remaining balance is recomputed
// @Tags        lending
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateLendingRequest true "Lending record details"
// @Success     201 {object} map[string]interface{} "Record created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /lending [post]
func (h *LendingHandler) CreateRecord(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateLendingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	record, err := h.lendingService.AddRecord(userID, models.LendingType(req.Type), req.Amount, req.PersonName, req.PhoneNumber, req.Date)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_LENDING", "lending_record", record.ID, c.ClientIP(),
		map[string]interface{}{"type": req.Type, "amount": req.Amount, "person_name": req.PersonName})

	c.JSON(http.StatusCreated, gin.H{"record": record})
}

// GetRecords lists the user's lending records.
// @Summary     Get lending records
// @Description Get a paginated list of the user's lending/borrowing records, newest first
// @Tags        lending
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.LendingRecord] "Paginated records"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /lending [get]
func (h *LendingHandler) GetRecords(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.lendingService.GetUserRecords(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ToggleSettled flips a record's settled state.
// @Summary     Toggle settled
// @Description Flip a lending record's settled flag; the current budget's remaining balance is recomputed
// @Tags        lending
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Record ID"
// @Success     200 {object} map[string]interface{} "Record updated"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Record not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /lending/{id}/settle [patch]
func (h *LendingHandler) ToggleSettled(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	record, err := h.lendingService.ToggleSettled(userID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "TOGGLE_LENDING_SETTLED", "lending_record", record.ID, c.ClientIP(),
		map[string]interface{}{"settled": record.Settled})

	c.JSON(http.StatusOK, gin.H{"record": record})
}

// DeleteRecord removes a lending record.
// @Summary     Delete a lending record
// @Description Permanently delete a lending record; its impact is removed from the current budget
// @Tags        lending
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Record ID"
// @Success     200 {object} map[string]interface{} "Record deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Record not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /lending/{id} [delete]
func (h *LendingHandler) DeleteRecord(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	recordID := c.Param("id")
	if err := h.lendingService.DeleteRecord(userID, recordID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_LENDING", "lending_record", recordID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Lending record deleted"})
}
