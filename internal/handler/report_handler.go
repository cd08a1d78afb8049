package handler

import (
	"net/http"
	"time"

	"bookkeeper/internal/middleware"
	"bookkeeper/internal/service"
	"bookkeeper/pkg/pagination"
	"bookkeeper/pkg/response"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	reportService service.ReportService
}

func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

func (h *ReportHandler) RegisterRoutes(router *gin.RouterGroup) {
	reports := router.Group("/api/reports")
	reports.Use(middleware.RequireRole("admin", "user"))
	{
		reports.GET("/summary", h.GetSummary)
		reports.POST("/generate", h.GenerateReport)
		reports.GET("", h.ListReports)
	}
}

// parsePeriod reads the from/to query params shared by the reporting endpoints.
func parsePeriod(c *gin.Context) (time.Time, time.Time, bool) {
	from, err := time.Parse("2006-01-02", c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid or missing 'from' date (expected YYYY-MM-DD)"))
		return time.Time{}, time.Time{}, false
	}
	to, err := time.Parse("2006-01-02", c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid or missing 'to' date (expected YYYY-MM-DD)"))
		return time.Time{}, time.Time{}, false
	}
	if to.Before(from) {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "'to' must not be before 'from'"))
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

func jurisdictionFilter(c *gin.Context) *string {
	if j := c.Query("jurisdiction"); j != "" {
		return &j
	}
	return nil
}

// GetSummary aggregates the user's ledger over a period
// @Summary      Period summary
// @Description  Aggregates income, expenses and per-jurisdiction totals over an inclusive date range
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        from          query     string  true   "Period start (YYYY-MM-DD)"
// @Param        to            query     string  true   "Period end (YYYY-MM-DD)"
// @Param        jurisdiction  query     string  false  "Jurisdiction code filter"
// @Success      200           {object}  response.Response
// @Failure      400           {object}  response.Response
// @Router       /api/reports/summary [get]
func (h *ReportHandler) GetSummary(c *gin.Context) {
	from, to, ok := parsePeriod(c)
	if !ok {
		return
	}

	summary, err := h.reportService.Summary(c.Request.Context(), middleware.UserIDFromContext(c), from, to, jurisdictionFilter(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, summary))
}

// GenerateReport computes and persists a period report snapshot
func (h *ReportHandler) GenerateReport(c *gin.Context) {
	from, to, ok := parsePeriod(c)
	if !ok {
		return
	}

	report, err := h.reportService.GenerateReport(c.Request.Context(), middleware.UserIDFromContext(c), from, to, jurisdictionFilter(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, report))
}

// ListReports returns previously generated reports, newest first
func (h *ReportHandler) ListReports(c *gin.Context) {
	p := pagination.Parse(c)
	reports, total, err := h.reportService.ListReports(c.Request.Context(), middleware.UserIDFromContext(c), p.Page, p.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"reports": reports,
		"total":   total,
		"page":    p.Page,
		"limit":   p.Limit,
	}))
}
