package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	portssvc "github.com/SscSPs/expense_management_app/internal/core/ports/services"
	"github.com/SscSPs/expense_management_app/internal/dto"
	"github.com/SscSPs/expense_management_app/internal/middleware"
	"github.com/SscSPs/expense_management_app/internal/utils"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// adminExpenseHandler serves the admin's expense overrides, listings and reports.
type adminExpenseHandler struct {
	approvalService  portssvc.ApprovalSvcFacade
	expenseService   portssvc.ExpenseSvcFacade
	reportingService portssvc.ReportingSvc
	posthogClient    *utils.PosthogClientWrapper
}

// RegisterAdminExpenseRoutes registers the /admin expense routes on rg.
// decisionLimiter guards the override and reject endpoints and may be nil.
func RegisterAdminExpenseRoutes(
	rg *gin.RouterGroup,
	approvalService portssvc.ApprovalSvcFacade,
	expenseService portssvc.ExpenseSvcFacade,
	reportingService portssvc.ReportingSvc,
	decisionLimiter gin.HandlerFunc,
	posthogClient *utils.PosthogClientWrapper,
) {
	registerValidators()
	h := &adminExpenseHandler{
		approvalService:  approvalService,
		expenseService:   expenseService,
		reportingService: reportingService,
		posthogClient:    posthogClient,
	}

	admin := rg.Group("/admin")
	{
		admin.GET("/expenses", h.listExpenses)
		admin.GET("/expenses/export", h.exportExpenses)
		admin.GET("/expenses-statistics", h.expenseStatistics)
		admin.PATCH("/expenses/:id/override", withLimiter(decisionLimiter, h.override)...)
		admin.PATCH("/expenses/:id/reject", withLimiter(decisionLimiter, h.reject)...)
		admin.POST("/expenses/bulk-approve", withLimiter(decisionLimiter, h.bulkApprove)...)
	}
}

// override godoc
// @Summary Override an expense
// @Description Forces an expense of the admin's company to Approved from any status
// @Tags admin
// @Accept  json
// @Produce  json
// @Param   id path string true "Expense ID"
// @Param   body body dto.AdminActionRequest false "Remarks"
// @Success 200 {object} dto.ExpenseResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Admin role required"
// @Failure 404 {object} map[string]string "Expense not found"
// @Failure 409 {object} map[string]string "Expense was modified concurrently"
// @Failure 500 {object} map[string]string "Failed to override expense"
// @Security BearerAuth
// @Router /admin/expenses/{id}/override [patch]
func (h *adminExpenseHandler) override(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	req, ok := bindOptionalRemarks(c, logger)
	if !ok {
		return
	}
	userID, ok := actorID(c, logger)
	if !ok {
		return
	}

	expenseID := c.Param("id")
	expense, err := h.approvalService.Override(c.Request.Context(), userID, expenseID, req.Remarks)
	if err != nil {
		respondError(c, logger, err, "Failed to override expense")
		return
	}

	middleware.PosthogEvent(c, h.posthogClient, "expense_overridden", map[string]any{"expense_id": expenseID})
	logger.Info("Expense overridden", slog.String("expense_id", expenseID))
	c.JSON(http.StatusOK, dto.ToExpenseResponse(expense))
}

// reject godoc
// @Summary Reject an expense as admin
// @Description Forces an in-progress expense of the admin's company to Rejected
// @Tags admin
// @Accept  json
// @Produce  json
// @Param   id path string true "Expense ID"
// @Param   body body dto.AdminActionRequest false "Remarks"
// @Success 200 {object} dto.ExpenseResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Admin role required"
// @Failure 404 {object} map[string]string "Expense not found"
// @Failure 409 {object} map[string]string "Expense is not in progress"
// @Failure 500 {object} map[string]string "Failed to reject expense"
// @Security BearerAuth
// @Router /admin/expenses/{id}/reject [patch]
func (h *adminExpenseHandler) reject(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	req, ok := bindOptionalRemarks(c, logger)
	if !ok {
		return
	}
	userID, ok := actorID(c, logger)
	if !ok {
		return
	}

	expenseID := c.Param("id")
	expense, err := h.approvalService.AdminReject(c.Request.Context(), userID, expenseID, req.Remarks)
	if err != nil {
		respondError(c, logger, err, "Failed to reject expense")
		return
	}

	middleware.PosthogEvent(c, h.posthogClient, "expense_rejected", map[string]any{"expense_id": expenseID, "by_admin": true})
	logger.Info("Expense rejected by admin", slog.String("expense_id", expenseID))
	c.JSON(http.StatusOK, dto.ToExpenseResponse(expense))
}

// bulkApprove godoc
// @Summary Override several expenses
// @Description Force-approves each listed expense and reports the outcome per expense
// @Tags admin
// @Accept  json
// @Produce  json
// @Param   body body dto.BulkOverrideRequest true "Expense IDs"
// @Success 200 {object} dto.BulkOverrideResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Admin role required"
// @Failure 500 {object} map[string]string "Failed to override expenses"
// @Security BearerAuth
// @Router /admin/expenses/bulk-approve [post]
func (h *adminExpenseHandler) bulkApprove(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.BulkOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for bulk approve request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := actorID(c, logger)
	if !ok {
		return
	}

	resp, err := h.approvalService.BulkOverride(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, logger, err, "Failed to override expenses")
		return
	}

	logger.Info("Bulk override finished", slog.Int("succeeded", resp.Succeeded), slog.Int("failed", resp.Failed))
	c.JSON(http.StatusOK, resp)
}

// listExpenses godoc
// @Summary List company expenses
// @Tags admin
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
// @Failure 403 {object} map[string]string "Admins and managers only"
// @Security BearerAuth
// @Router /admin/expenses [get]
func (h *adminExpenseHandler) listExpenses(c *gin.Context) {
	listCompanyExpenses(c, h.expenseService)
}

// expenseStatistics godoc
// @Summary Expense statistics
// @Description Counts and sums per status for the admin's company
// @Tags admin
// @Produce  json
// @Success 200 {object} domain.ExpenseStatistics
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Admin role required"
// @Failure 500 {object} map[string]string "Failed to compute statistics"
// @Security BearerAuth
// @Router /admin/expenses-statistics [get]
func (h *adminExpenseHandler) expenseStatistics(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := actorID(c, logger)
	if !ok {
		return
	}

	stats, err := h.reportingService.ExpenseStatistics(c.Request.Context(), userID)
	if err != nil {
		respondError(c, logger, err, "Failed to compute statistics")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// exportExpenses godoc
// @Summary Export expenses
// @Description Downloads the company's expenses matching the filters as an XLSX workbook
// @Tags admin
// @Produce  application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param   status query string false "draft, submitted, approved or rejected"
// @Param   category query string false "Category"
// @Param   from query string false "From date (YYYY-MM-DD)"
// @Param   to query string false "To date (YYYY-MM-DD)"
// @Success 200 {file} file
// @Failure 400 {object} map[string]string "Invalid query"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Admin role required"
// @Failure 500 {object} map[string]string "Failed to export expenses"
// @Security BearerAuth
// @Router /admin/expenses/export [get]
func (h *adminExpenseHandler) exportExpenses(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListExpensesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for export", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	userID, ok := actorID(c, logger)
	if !ok {
		return
	}

	content, err := h.reportingService.ExportExpenses(c.Request.Context(), userID, params)
	if err != nil {
		respondError(c, logger, err, "Failed to export expenses")
		return
	}

	filename := fmt.Sprintf("expenses-%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, content)
}

// bindOptionalRemarks accepts an empty body as "no remarks".
func bindOptionalRemarks(c *gin.Context, logger *slog.Logger) (dto.AdminActionRequest, bool) {
	var req dto.AdminActionRequest
	if c.Request.ContentLength == 0 {
		return req, true
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for admin action", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return req, false
	}
	return req, true
}
