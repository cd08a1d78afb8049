package handler

import (
	"net/http"

	"bookkeeper/internal/middleware"
	"bookkeeper/internal/service"
	"bookkeeper/pkg/response"

	"github.com/gin-gonic/gin"
)

type ComplianceHandler struct {
	complianceService service.ComplianceService
}

func NewComplianceHandler(complianceService service.ComplianceService) *ComplianceHandler {
	return &ComplianceHandler{complianceService: complianceService}
}

func (h *ComplianceHandler) RegisterRoutes(router *gin.RouterGroup) {
	compliance := router.Group("/api/compliance")
	{
		// Every authenticated user can read the checks; defining and recording
		// outcomes is admin only.
		compliance.GET("/checks", middleware.RequireRole("admin", "user"), h.ListChecks)
		compliance.POST("/checks", middleware.RequireRole("admin"), h.CreateCheck)
		compliance.PUT("/checks/:id/result", middleware.RequireRole("admin"), h.RecordResult)
	}
}

// ListChecks returns all compliance checks, most recently run first
func (h *ComplianceHandler) ListChecks(c *gin.Context) {
	checks, err := h.complianceService.ListChecks(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"checks": checks,
	}))
}

// CreateCheck registers a new compliance check in pending state
func (h *ComplianceHandler) CreateCheck(c *gin.Context) {
	var req service.CreateComplianceCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	check, err := h.complianceService.CreateCheck(c.Request.Context(), middleware.UserIDFromContext(c), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, check))
}

// RecordResult stores the outcome of a check run and stamps last_run
func (h *ComplianceHandler) RecordResult(c *gin.Context) {
	var req service.RecordComplianceResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	check, err := h.complianceService.RecordResult(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, check))
}
