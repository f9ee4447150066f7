package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"fithub/internal/models/response_models"
	"fithub/internal/services"
	"fithub/pkg/utils"

	"github.com/gin-gonic/gin"
)

type DashboardController struct {
	dashboardService services.DashboardService
}

func NewDashboardController(dashboardService services.DashboardService) *DashboardController {
	return &DashboardController{
		dashboardService: dashboardService,
	}
}

// GetDashboard godoc
// @Summary Staff dashboard
// @Description Account, product, order and subscription KPIs, revenue and signup series, plan mix, low stock and recent orders. Staff only; everyone else gets 404.
// @Tags Dashboard
// @Produce json
// @Param start     query string false "RFC3339 start (e.g. 2026-10-01T00:00:00Z)"
// @Param end       query string false "RFC3339 end   (e.g. 2026-10-19T23:59:59Z)"
// @Param last_days query int    false "Relative lookback in days (mutually exclusive with start/end). Default 30"
// @Param interval  query string false "Bucket size: day | week | month (default: day)"
// @Param currency  query string false "ISO 4217 currency code for labeling (default: eur)"
// @Success 200 {object} utils.APIResponse{data=response_models.DashboardReport}
// @Failure 400 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /admin-dashboard [get]
func (p *DashboardController) GetDashboard(c *gin.Context) {
	interval := c.DefaultQuery("interval", "day")
	currency := strings.ToLower(c.DefaultQuery("currency", "eur"))

	if !validInterval(interval) {
		utils.RespondError(c, http.StatusBadRequest, "interval must be one of: day, week, month")
		return
	}

	var (
		start, end time.Time
		err        error
	)

	startStr := c.Query("start")
	endStr := c.Query("end")
	lastDaysStr := c.Query("last_days")

	if lastDaysStr != "" && (startStr != "" || endStr != "") {
		utils.RespondError(c, http.StatusBadRequest, "provide either last_days or start/end (not both)")
		return
	}

	switch {
	case lastDaysStr != "":
		d, convErr := strconv.Atoi(lastDaysStr)
		if convErr != nil || d <= 0 {
			utils.RespondError(c, http.StatusBadRequest, "last_days must be a positive integer")
			return
		}
		end = time.Now().UTC()
		start = end.AddDate(0, 0, -d)

	default:
		// Zero values are filled in by the service.
		if startStr != "" {
			start, err = time.Parse(time.RFC3339, startStr)
			if err != nil {
				utils.RespondError(c, http.StatusBadRequest, "start must be RFC3339 (e.g. 2026-10-01T00:00:00Z)")
				return
			}
		}
		if endStr != "" {
			end, err = time.Parse(time.RFC3339, endStr)
			if err != nil {
				utils.RespondError(c, http.StatusBadRequest, "end must be RFC3339 (e.g. 2026-10-19T23:59:59Z)")
				return
			}
		}
	}

	tr := response_models.TimeRange{
		Start:    start,
		End:      end,
		Interval: interval,
	}

	report, svcErr := p.dashboardService.BuildDashboard(c.Request.Context(), tr, currency)
	if svcErr != nil {
		utils.HandleServiceError(c, svcErr)
		return
	}

	utils.RespondSuccess(c, report, "Dashboard data fetched successfully")
}

func validInterval(s string) bool {
	switch s {
	case "day", "week", "month":
		return true
	default:
		return false
	}
}
