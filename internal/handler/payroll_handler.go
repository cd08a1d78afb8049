package handler

import (
	"net/http"

	"bookkeeper/internal/middleware"
	"bookkeeper/internal/service"
	"bookkeeper/pkg/pagination"
	"bookkeeper/pkg/response"

	"github.com/gin-gonic/gin"
)

type PayrollHandler struct {
	payrollService service.PayrollService
}

func NewPayrollHandler(payrollService service.PayrollService) *PayrollHandler {
	return &PayrollHandler{payrollService: payrollService}
}

func (h *PayrollHandler) RegisterRoutes(router *gin.RouterGroup) {
	payroll := router.Group("/api/payroll")
	payroll.Use(middleware.RequireRole("admin", "user"))
	{
		payroll.POST("/calculate", h.Calculate)
		payroll.GET("/calculations", h.ListCalculations)
	}
}

// Calculate runs a payroll calculation for one pay period
// @Summary      Calculate payroll
// @Description  Computes wage tax and social security for a gross salary using the rules active at the period start
// @Tags         payroll
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CalculatePayrollRequest  true  "Payroll Input"
// @Success      200      {object}  response.Response{data=service.PayrollResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/payroll/calculate [post]
func (h *PayrollHandler) Calculate(c *gin.Context) {
	var req service.CalculatePayrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.payrollService.Calculate(c.Request.Context(), middleware.UserIDFromContext(c), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// ListCalculations returns the user's payroll history, newest first
func (h *PayrollHandler) ListCalculations(c *gin.Context) {
	p := pagination.Parse(c)
	calculations, total, err := h.payrollService.ListCalculations(c.Request.Context(), middleware.UserIDFromContext(c), p.Page, p.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"calculations": calculations,
		"total":        total,
		"page":         p.Page,
		"limit":        p.Limit,
	}))
}
