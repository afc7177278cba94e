package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/expense_management_app/internal/core/ports/services"
	"github.com/SscSPs/expense_management_app/internal/dto"
	"github.com/SscSPs/expense_management_app/internal/middleware"

	"github.com/gin-gonic/gin"
)

type companyHandler struct {
	companyService portssvc.CompanySvcFacade
}

// RegisterCompanyRoutes registers the /admin/company routes on rg.
func RegisterCompanyRoutes(rg *gin.RouterGroup, companyService portssvc.CompanySvcFacade) {
	registerValidators()
	h := &companyHandler{companyService: companyService}

	rg.GET("/admin/company", h.getCompany)
	rg.PATCH("/admin/company", h.updateCompany)
}

// getCompany godoc
// @Summary Get my company
// @Tags admin
// @Produce  json
// @Success 200 {object} dto.CompanyResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "User is not active"
// @Failure 404 {object} map[string]string "Company not found"
// @Security BearerAuth
// @Router /admin/company [get]
func (h *companyHandler) getCompany(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := actorID(c, logger)
	if !ok {
		return
	}

	company, err := h.companyService.GetCompany(c.Request.Context(), userID)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve company")
		return
	}
	c.JSON(http.StatusOK, dto.ToCompanyResponse(company))
}

// updateCompany godoc
// @Summary Update my company
// @Tags admin
// @Accept  json
// @Produce  json
// @Param   company body dto.UpdateCompanyRequest true "Company fields to change"
// @Success 200 {object} dto.CompanyResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Admin role required"
// @Failure 500 {object} map[string]string "Failed to update company"
// @Security BearerAuth
// @Router /admin/company [patch]
func (h *companyHandler) updateCompany(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for update company request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	adminID, ok := actorID(c, logger)
	if !ok {
		return
	}

	company, err := h.companyService.UpdateCompany(c.Request.Context(), adminID, req)
	if err != nil {
		respondError(c, logger, err, "Failed to update company")
		return
	}

	logger.Info("Company updated", slog.String("company_id", company.CompanyID))
	c.JSON(http.StatusOK, dto.ToCompanyResponse(company))
}
