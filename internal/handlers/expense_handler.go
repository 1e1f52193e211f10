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

// ExpenseHandler handles expense-related requests.
type ExpenseHandler struct {
	expenseService services.ExpenseServicer
	auditService   services.AuditServicer
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(expenseService services.ExpenseServicer, auditService services.AuditServicer) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService, auditService: auditService}
}

// CreateExpenseRequest represents the request payload for adding an expense.
type CreateExpenseRequest struct {
	BudgetID string    `json:"budget_id" binding:"required,uuid"`
	Item     string    `json:"item" binding:"required,min=1,max=200"`
	Amount   int64     `json:"amount" binding:"required,gt=0"`
	Category string    `json:"category" binding:"required,expense_category"`
	Date     time.Time `json:"date"`
}

// UpdateExpenseRequest represents the request payload for editing an expense.
type UpdateExpenseRequest struct {
	Item     string    `json:"item" binding:"required,min=1,max=200"`
	Amount   int64     `json:"amount" binding:"required,gt=0"`
	Category string    `json:"category" binding:"required,expense_category"`
	Date     time.Time `json:"date"`
}

// CreateExpense records a new expense.
// @Summary     Add an expense
// @Description Record an expense against a budget period; the period's remaining balance is recomputed
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateExpenseRequest true "Expense details"
// @Success     201 {object} map[string]interface{} "Expense created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses [post]
func (h *ExpenseHandler) CreateExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	expense, err := h.expenseService.AddExpense(userID, req.BudgetID, req.Item, req.Amount, models.ExpenseCategory(req.Category), req.Date)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_EXPENSE", "expense", expense.ID, c.ClientIP(),
		map[string]interface{}{"item": req.Item, "amount": req.Amount, "category": req.Category})

	c.JSON(http.StatusCreated, gin.H{"expense": expense})
}

// GetExpenses lists a budget period's expenses.
// @Summary     Get expenses
// @Description Get a paginated list of expenses for a budget period, in insertion order
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       budget_id query string true  "Budget ID"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Expense] "Paginated expenses"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses [get]
func (h *ExpenseHandler) GetExpenses(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgetID := c.Query("budget_id")
	if budgetID == "" {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "budget_id is required"))
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.expenseService.GetBudgetExpenses(userID, budgetID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// UpdateExpense replaces an expense's fields.
// @Summary     Update an expense
// @Description Replace an expense's item, amount, category, and date; the owning period is recomputed
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Expense ID"
// @Param       request body UpdateExpenseRequest true "Expense fields"
// @Success     200 {object} map[string]interface{} "Expense updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/{id} [put]
func (h *ExpenseHandler) UpdateExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	expense, err := h.expenseService.UpdateExpense(userID, c.Param("id"), req.Item, req.Amount, models.ExpenseCategory(req.Category), req.Date)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_EXPENSE", "expense", expense.ID, c.ClientIP(),
		map[string]interface{}{"item": req.Item, "amount": req.Amount, "category": req.Category})

	c.JSON(http.StatusOK, gin.H{"expense": expense})
}

// DeleteExpense removes an expense.
// @Summary     Delete an expense
// @Description Permanently delete an expense; the owning period is recomputed
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Expense ID"
// @Success     200 {object} map[string]interface{} "Expense deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/{id} [delete]
func (h *ExpenseHandler) DeleteExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenseID := c.Param("id")
	if err := h.expenseService.DeleteExpense(userID, expenseID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_EXPENSE", "expense", expenseID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Expense deleted"})
}

// GetCategories lists the fixed expense categories.
// @Summary     Get expense categories
// @Description Get the fixed set of expense categories
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]interface{} "Category list"
// @Router      /expenses/categories [get]
func (h *ExpenseHandler) GetCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": models.ExpenseCategories})
}
