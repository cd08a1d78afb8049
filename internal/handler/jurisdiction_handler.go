package handler

import (
	"net/http"

	"bookkeeper/internal/middleware"
	"bookkeeper/internal/service"
	"bookkeeper/pkg/response"

	"github.com/gin-gonic/gin"
)

type JurisdictionHandler struct {
	jurisdictionService service.JurisdictionService
}

func NewJurisdictionHandler(jurisdictionService service.JurisdictionService) *JurisdictionHandler {
	return &JurisdictionHandler{jurisdictionService: jurisdictionService}
}

func (h *JurisdictionHandler) RegisterRoutes(router *gin.RouterGroup) {
	jurisdictions := router.Group("/api/jurisdictions")
	jurisdictions.Use(middleware.RequireRole("admin", "user"))
	{
		jurisdictions.GET("", h.ListJurisdictions)
	}
}

// ListJurisdictions returns the supported jurisdictions
func (h *JurisdictionHandler) ListJurisdictions(c *gin.Context) {
	jurisdictions, err := h.jurisdictionService.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, jurisdictions))
}
