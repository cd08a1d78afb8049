package handler

import (
	"net/http"

	"bookkeeper/internal/middleware"
	"bookkeeper/internal/service"
	"bookkeeper/pkg/pagination"
	"bookkeeper/pkg/response"

	"github.com/gin-gonic/gin"
)

type TaxRuleHandler struct {
	taxRuleService service.TaxRuleService
}

func NewTaxRuleHandler(taxRuleService service.TaxRuleService) *TaxRuleHandler {
	return &TaxRuleHandler{taxRuleService: taxRuleService}
}

func (h *TaxRuleHandler) RegisterRoutes(router *gin.RouterGroup) {
	rules := router.Group("/api/tax-rules")
	{
		// Reading rules is open to every authenticated user; mutating them is admin only.
		rules.GET("", middleware.RequireRole("admin", "user"), h.ListTaxRules)
		rules.POST("", middleware.RequireRole("admin"), h.CreateTaxRule)
		rules.PUT("/:id", middleware.RequireRole("admin"), h.UpdateTaxRule)
		rules.DELETE("/:id", middleware.RequireRole("admin"), h.DeleteTaxRule)
	}
}

// ListTaxRules returns the rules for one jurisdiction ordered by valid_from DESC
// @Summary      List tax rules
// @Description  Returns the tax rule history for a jurisdiction
// @Tags         tax-rules
// @Produce      json
// @Security     BearerAuth
// @Param        jurisdiction_id  query     string  true   "Jurisdiction ID"
// @Param        page             query     int     false  "Page"
// @Param        limit            query     int     false  "Limit"
// @Success      200              {object}  response.Response
// @Failure      400              {object}  response.Response
// @Router       /api/tax-rules [get]
func (h *TaxRuleHandler) ListTaxRules(c *gin.Context) {
	jurisdictionID := c.Query("jurisdiction_id")
	if jurisdictionID == "" {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "jurisdiction_id query parameter is required"))
		return
	}

	p := pagination.Parse(c)
	rules, total, err := h.taxRuleService.ListByJurisdiction(c.Request.Context(), jurisdictionID, p.Page, p.Limit)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"rules": rules,
		"total": total,
		"page":  p.Page,
		"limit": p.Limit,
	}))
}

// CreateTaxRule creates a new versioned tax rule entry
func (h *TaxRuleHandler) CreateTaxRule(c *gin.Context) {
	var req service.CreateTaxRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	rule, err := h.taxRuleService.CreateTaxRule(c.Request.Context(), req, middleware.UserIDFromContext(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, rule))
}

// UpdateTaxRule replaces the mutable fields of a rule
func (h *TaxRuleHandler) UpdateTaxRule(c *gin.Context) {
	var req service.UpdateTaxRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	rule, err := h.taxRuleService.UpdateTaxRule(c.Request.Context(), c.Param("id"), req, middleware.UserIDFromContext(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, rule))
}

// DeleteTaxRule removes a rule from the version history
func (h *TaxRuleHandler) DeleteTaxRule(c *gin.Context) {
	if err := h.taxRuleService.DeleteTaxRule(c.Request.Context(), c.Param("id"), middleware.UserIDFromContext(c)); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "tax rule deleted"}))
}
