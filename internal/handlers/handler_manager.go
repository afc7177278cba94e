package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/expense_management_app/internal/core/ports/services"
	"github.com/SscSPs/expense_management_app/internal/dto"
	"github.com/SscSPs/expense_management_app/internal/middleware"
	"github.com/SscSPs/expense_management_app/internal/utils"

	"github.com/gin-gonic/gin"
)

// managerHandler serves approvers: their queue, their decisions and the company view.
type managerHandler struct {
	approvalService portssvc.ApprovalSvcFacade
	expenseService  portssvc.ExpenseSvcFacade
	posthogClient   *utils.PosthogClientWrapper
}

func newManagerHandler(as portssvc.ApprovalSvcFacade, es portssvc.ExpenseSvcFacade, pc *utils.PosthogClientWrapper) *managerHandler {
	return &managerHandler{approvalService: as, expenseService: es, posthogClient: pc}
}

// RegisterManagerRoutes registers the /manager routes on rg. decisionLimiter
// guards the decision endpoint and may be nil.
func RegisterManagerRoutes(
	rg *gin.RouterGroup,
	approvalService portssvc.ApprovalSvcFacade,
	expenseService portssvc.ExpenseSvcFacade,
	decisionLimiter gin.HandlerFunc,
	posthogClient *utils.PosthogClientWrapper,
) {
	registerValidators()
	h := newManagerHandler(approvalService, expenseService, posthogClient)

	manager := rg.Group("/manager")
	{
		manager.POST("/approve-expense/:id", withLimiter(decisionLimiter, h.decide)...)
		manager.GET("/pending-approvals", h.listPendingApprovals)
		manager.GET("/approval-stats", h.approvalStats)
		manager.GET("/expenses", h.listCompanyExpenses)
		manager.GET("/expense-details/:id", h.getExpenseDetails)
	}
}

// withLimiter prepends limiter to handler when one is configured.
func withLimiter(limiter gin.HandlerFunc, handler gin.HandlerFunc) []gin.HandlerFunc {
	if limiter == nil {
		return []gin.HandlerFunc{handler}
	}
	return []gin.HandlerFunc{limiter, handler}
}

// decide godoc
// @Summary Approve or reject an expense
// @Description The current approver approves (advancing the route) or rejects (finalizing) an in-progress expense
// @Tags manager
// @Accept  json
// @Produce  json
// @Param   id path string true "Expense ID"
// @Param   decision body dto.DecisionRequest true "Decision"
// @Success 200 {object} dto.ExpenseResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Not the current approver"
// @Failure 404 {object} map[string]string "Expense not found"
// @Failure 409 {object} map[string]string "Expense is not in progress or was modified concurrently"
// @Failure 429 {object} map[string]string "Too many requests"
// @Failure 500 {object} map[string]string "Failed to record decision"
// @Security BearerAuth
// @Router /manager/approve-expense/{id} [post]
func (h *managerHandler) decide(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for decision request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := actorID(c, logger)
	if !ok {
		return
	}

	expenseID := c.Param("id")
	logger = logger.With(slog.String("expense_id", expenseID), slog.String("action", req.Action))

	expense, err := h.approvalService.Decide(c.Request.Context(), userID, expenseID, req)
	if err != nil {
		respondError(c, logger, err, "Failed to record decision")
		return
	}

	eventName := "expense_approved"
	if req.Action == "reject" {
		eventName = "expense_rejected"
	}
	middleware.PosthogEvent(c, h.posthogClient, eventName, map[string]any{
		"expense_id": expense.ExpenseID,
		"status":     string(expense.ApprovalStatus),
	})

	logger.Info("Decision recorded", slog.String("status", string(expense.ApprovalStatus)))
	c.JSON(http.StatusOK, dto.ToExpenseResponse(expense))
}

// listPendingApprovals godoc
// @Summary List my pending approvals
// @Description Lists the in-progress expenses whose current approver is the caller
// @Tags manager
// @Produce  json
// @Success 200 {object} dto.ListExpensesResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list pending approvals"
// @Security BearerAuth
// @Router /manager/pending-approvals [get]
func (h *managerHandler) listPendingApprovals(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := actorID(c, logger)
	if !ok {
		return
	}

	expenses, err := h.approvalService.ListPendingApprovals(c.Request.Context(), userID)
	if err != nil {
		respondError(c, logger, err, "Failed to list pending approvals")
		return
	}
	c.JSON(http.StatusOK, dto.ListExpensesResponse{Expenses: dto.ToExpenseResponses(expenses)})
}

// approvalStats godoc
// @Summary Approval statistics
// @Description Returns the caller's pending count and the company's decision totals
// @Tags manager
// @Produce  json
// @Success 200 {object} domain.ApprovalStats
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "User is not active"
// @Failure 500 {object} map[string]string "Failed to compute approval stats"
// @Security BearerAuth
// @Router /manager/approval-stats [get]
func (h *managerHandler) approvalStats(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := actorID(c, logger)
	if !ok {
		return
	}

	stats, err := h.approvalService.ApprovalStats(c.Request.Context(), userID)
	if err != nil {
		respondError(c, logger, err, "Failed to compute approval stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// listCompanyExpenses godoc
// @Summary List company expenses
// @Description Lists every expense of the caller's company. Managers and admins only.
// @Tags manager
// @Produce  json
// @Param   status query string false "draft, submitted, approved or rejected"
// @Param   category query string false "Category"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListExpensesResponse
// @Failure 400 {object} map[string]string "Invalid query"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Managers and admins only"
// @Failure 500 {object} map[string]string "Failed to list expenses"
// @Security BearerAuth
// @Router /manager/expenses [get]
func (h *managerHandler) listCompanyExpenses(c *gin.Context) {
	listCompanyExpenses(c, h.expenseService)
}

// getExpenseDetails godoc
// @Summary Get expense details
// @Tags manager
// @Produce  json
// @Param   id path string true "Expense ID"
// @Success 200 {object} dto.ExpenseResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Not visible to the caller"
// @Failure 404 {object} map[string]string "Expense not found"
// @Security BearerAuth
// @Router /manager/expense-details/{id} [get]
func (h *managerHandler) getExpenseDetails(c *gin.Context) {
	getExpense(c, h.expenseService)
}
