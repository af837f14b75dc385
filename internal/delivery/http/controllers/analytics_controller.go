package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"venuebooking/internal/delivery/http/helpers"
	"venuebooking/internal/domain"
)

// RevenueReportSuccessResponse is the success response envelope for GET /analytics/revenue (200).
type RevenueReportSuccessResponse struct {
	Data  *domain.RevenueReport `json:"data"`
	Error *helpers.APIError     `json:"error"`
}

// AnalyticsController handles revenue reporting.
type AnalyticsController struct {
	Logger  *slog.Logger
	Service domain.AnalyticsService
}

func NewAnalyticsController(logger *slog.Logger, svc domain.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{
		Logger:  logger,
		Service: svc,
	}
}

// RevenueReport godoc
// @Summary Revenue report
// @Description Aggregates payments and events created in [from, to): total, refunded, and net revenue, payment count, event counts by status, and the top venues by revenue. Times accept RFC3339 or YYYY-MM-DD. Defaults to the last 30 days. Requires an organizer Bearer token.
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Param from query string false "Window start (RFC3339 or YYYY-MM-DD, default 30 days ago)"
// @Param to query string false "Window end (RFC3339 or YYYY-MM-DD, default now)"
// @Success 200 {object} controllers.RevenueReportSuccessResponse "data contains the report"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /analytics/revenue [get]
func (c *AnalyticsController) RevenueReport(w http.ResponseWriter, r *http.Request) {
	to := time.Now()
	if raw := r.URL.Query().Get("to"); raw != "" {
		parsed, err := parseTimeParam(raw)
		if err != nil {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "to must be RFC3339 or YYYY-MM-DD")
			return
		}
		to = parsed
	}
	from := to.AddDate(0, 0, -30)
	if raw := r.URL.Query().Get("from"); raw != "" {
		parsed, err := parseTimeParam(raw)
		if err != nil {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "from must be RFC3339 or YYYY-MM-DD")
			return
		}
		from = parsed
	}

	report, err := c.Service.RevenueReport(r.Context(), from, to)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, report)
}

func parseTimeParam(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}
