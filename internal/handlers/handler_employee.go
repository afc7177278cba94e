package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/expense_management_app/internal/core/ports/services"
	"github.com/SscSPs/expense_management_app/internal/dto"
	"github.com/SscSPs/expense_management_app/internal/middleware"

	"github.com/gin-gonic/gin"
)

// employeeHandler handles an employee's own expense claims.
type employeeHandler struct {
	expenseService portssvc.ExpenseSvcFacade
}

func newEmployeeHandler(es portssvc.ExpenseSvcFacade) *employeeHandler {
	return &employeeHandler{expenseService: es}
}

// RegisterEmployeeRoutes registers the /employee routes on rg.
func RegisterEmployeeRoutes(rg *gin.RouterGroup, expenseService portssvc.ExpenseSvcFacade) {
	registerValidators()
	h := newEmployeeHandler(expenseService)

	employee := rg.Group("/employee")
	{
		employee.POST("/create-expense", h.createExpense)
		employee.GET("/expenses", h.listMyExpenses)
		employee.GET("/expenses/:id", h.getExpense)
		employee.POST("/expenses/:id/submit", h.submitExpense)
	}
}

// createExpense godoc
// @Summary Create an expense claim
// @Description Records a new expense. Unless submitForApproval is false it is routed for approval straight away.
// @Tags employee
// @Accept  json
// @Produce  json
// @Param   expense body dto.CreateExpenseRequest true "Expense details"
// @Success 201 {object} dto.ExpenseResponse
// @Failure 400 {object} map[string]string "Invalid input or no approver available"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "User is not active"
// @Failure 500 {object} map[string]string "Failed to create expense"
// @Security BearerAuth
// @Router /employee/create-expense [post]
func (h *employeeHandler) createExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for create expense request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := actorID(c, logger)
	if !ok {
		return
	}

	expense, err := h.expenseService.CreateExpense(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, logger, err, "Failed to create expense")
		return
	}

	logger.Info("Expense created", slog.String("expense_id", expense.ExpenseID), slog.String("status", string(expense.ApprovalStatus)))
	c.JSON(http.StatusCreated, dto.ToExpenseResponse(expense))
}

// submitExpense godoc
// @Summary Submit a draft expense
// @Description Moves one of the caller's drafts into the approval route
// @Tags employee
// @Produce  json
// @Param   id path string true "Expense ID"
// @Success 200 {object} dto.ExpenseResponse
// @Failure 400 {object} map[string]string "No approver available"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Not the owner"
// @Failure 404 {object} map[string]string "Expense not found"
// @Failure 409 {object} map[string]string "Expense is not a draft"
// @Failure 500 {object} map[string]string "Failed to submit expense"
// @Security BearerAuth
// @Router /employee/expenses/{id}/submit [post]
func (h *employeeHandler) submitExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := actorID(c, logger)
	if !ok {
		return
	}

	expenseID := c.Param("id")
	expense, err := h.expenseService.SubmitExpense(c.Request.Context(), userID, expenseID)
	if err != nil {
		respondError(c, logger, err, "Failed to submit expense")
		return
	}

	logger.Info("Expense submitted", slog.String("expense_id", expenseID))
	c.JSON(http.StatusOK, dto.ToExpenseResponse(expense))
}

// listMyExpenses godoc
// @Summary List my expenses
// @Description Lists the caller's expenses, newest first
// @Tags employee
// @Produce  json
// @Param   status query string false "draft, submitted, approved or rejected"
// @Param   category query string false "Category"
// @Param   from query string false "From date (YYYY-MM-DD)"
// @Param   to query string false "To date (YYYY-MM-DD)"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListExpensesResponse
// @Failure 400 {object} map[string]string "Invalid query"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list expenses"
// @Security BearerAuth
// @Router /employee/expenses [get]
func (h *employeeHandler) listMyExpenses(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListExpensesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for list expenses", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	userID, ok := actorID(c, logger)
	if !ok {
		return
	}

	resp, err := h.expenseService.ListMyExpenses(c.Request.Context(), userID, params)
	if err != nil {
		respondError(c, logger, err, "Failed to list expenses")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getExpense godoc
// @Summary Get an expense
// @Description Returns an expense with its approval route and history
// @Tags employee
// @Produce  json
// @Param   id path string true "Expense ID"
// @Success 200 {object} dto.ExpenseResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Not visible to the caller"
// @Failure 404 {object} map[string]string "Expense not found"
// @Failure 500 {object} map[string]string "Failed to retrieve expense"
// @Security BearerAuth
// @Router /employee/expenses/{id} [get]
func (h *employeeHandler) getExpense(c *gin.Context) {
	getExpense(c, h.expenseService)
}

// getExpense is shared by the employee and manager detail routes.
func getExpense(c *gin.Context, expenseService portssvc.ExpenseReaderSvc) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := actorID(c, logger)
	if !ok {
		return
	}

	expense, err := expenseService.GetExpense(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve expense")
		return
	}
	c.JSON(http.StatusOK, dto.ToExpenseResponse(expense))
}

// listCompanyExpenses is shared by the manager and admin listings.
func listCompanyExpenses(c *gin.Context, expenseService portssvc.ExpenseReaderSvc) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListExpensesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for company expenses", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	userID, ok := actorID(c, logger)
	if !ok {
		return
	}

	resp, err := expenseService.ListCompanyExpenses(c.Request.Context(), userID, params)
	if err != nil {
		respondError(c, logger, err, "Failed to list expenses")
		return
	}
	c.JSON(http.StatusOK, resp)
}
