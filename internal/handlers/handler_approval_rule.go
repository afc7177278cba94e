package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/expense_management_app/internal/core/ports/services"
	"github.com/SscSPs/expense_management_app/internal/dto"
	"github.com/SscSPs/expense_management_app/internal/middleware"

	"github.com/gin-gonic/gin"
)

// approvalRuleHandler handles the admin's approval rule configuration.
type approvalRuleHandler struct {
	ruleService portssvc.ApprovalRuleSvcFacade
}

// RegisterApprovalRuleRoutes registers the /admin/approval-rule routes on rg.
func RegisterApprovalRuleRoutes(rg *gin.RouterGroup, ruleService portssvc.ApprovalRuleSvcFacade) {
	registerValidators()
	h := &approvalRuleHandler{ruleService: ruleService}

	rules := rg.Group("/admin/approval-rule")
	{
		rules.POST("", h.createRule)
		rules.GET("", h.getActiveRule)
		rules.DELETE("/:id", h.deactivateRule)
	}
}

// createRule godoc
// @Summary Create the approval rule
// @Description Stores a new active approval rule for the admin's company. The previous active rule is deactivated.
// @Tags admin
// @Accept  json
// @Produce  json
// @Param   rule body dto.CreateApprovalRuleRequest true "Rule details"
// @Success 201 {object} dto.ApprovalRuleResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Admin role required"
// @Failure 500 {object} map[string]string "Failed to create approval rule"
// @Security BearerAuth
// @Router /admin/approval-rule [post]
func (h *approvalRuleHandler) createRule(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateApprovalRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for create approval rule request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := actorID(c, logger)
	if !ok {
		return
	}

	rule, err := h.ruleService.CreateRule(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, logger, err, "Failed to create approval rule")
		return
	}

	logger.Info("Approval rule created", slog.String("rule_id", rule.RuleID), slog.String("rule_type", string(rule.RuleType)))
	c.JSON(http.StatusCreated, dto.ToApprovalRuleResponse(rule))
}

// getActiveRule godoc
// @Summary Get the active approval rule
// @Tags admin
// @Produce  json
// @Success 200 {object} dto.ApprovalRuleResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Admin role required"
// @Failure 404 {object} map[string]string "No active approval rule"
// @Security BearerAuth
// @Router /admin/approval-rule [get]
func (h *approvalRuleHandler) getActiveRule(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := actorID(c, logger)
	if !ok {
		return
	}

	rule, err := h.ruleService.GetActiveRule(c.Request.Context(), userID)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve approval rule")
		return
	}
	c.JSON(http.StatusOK, dto.ToApprovalRuleResponse(rule))
}

// deactivateRule godoc
// @Summary Deactivate an approval rule
// @Tags admin
// @Param   id path string true "Rule ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Admin role required"
// @Failure 404 {object} map[string]string "Rule not found"
// @Failure 409 {object} map[string]string "Rule already inactive"
// @Security BearerAuth
// @Router /admin/approval-rule/{id} [delete]
func (h *approvalRuleHandler) deactivateRule(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := actorID(c, logger)
	if !ok {
		return
	}

	ruleID := c.Param("id")
	if err := h.ruleService.DeactivateRule(c.Request.Context(), userID, ruleID); err != nil {
		respondError(c, logger, err, "Failed to deactivate approval rule")
		return
	}

	logger.Info("Approval rule deactivated", slog.String("rule_id", ruleID))
	c.Status(http.StatusNoContent)
}
