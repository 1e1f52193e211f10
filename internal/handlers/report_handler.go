package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gullak/internal/services"
)

// ReportHandler serves the dashboard rollups.
type ReportHandler struct {
	reportService services.ReportServicer
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService services.ReportServicer) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// GetSummary returns the current period's headline numbers.
// @Summary     Dashboard summary
// @Description Get the current month's budget, spend, remaining balance, lending impact, and savings
// @Tags        dashboard
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.DashboardSummary "Summary"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "No budget for the current month"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /dashboard/summary [get]
func (h *ReportHandler) GetSummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.reportService.DashboardSummary(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetCategoryBreakdown returns per-category totals for the current period.
// @Summary     Category breakdown
// @Description Get the current month's expense totals grouped by category with percentage shares
// @Tags        dashboard
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]interface{} "Category totals"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "No budget for the current month"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /dashboard/categories [get]
func (h *ReportHandler) GetCategoryBreakdown(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	breakdown, err := h.reportService.CategoryBreakdown(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": breakdown})
}

// GetMonthlyHistory returns one summary row per stored month.
// @Summary     Monthly history
// @Description Get budget versus spend for every stored month, newest first
// @Tags        dashboard
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]interface{} "Monthly summaries"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /dashboard/monthly [get]
func (h *ReportHandler) GetMonthlyHistory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	history, err := h.reportService.MonthlyHistory(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"months": history})
}

// GetSavingsHistory returns the savings pools for every stored month.
// @Summary     Savings history
// @Description Get carried-over and in-month savings for every stored month, newest first
// @Tags        dashboard
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]interface{} "Savings entries"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /dashboard/savings [get]
func (h *ReportHandler) GetSavingsHistory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	history, err := h.reportService.SavingsHistory(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"savings": history})
}
