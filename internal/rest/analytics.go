package rest

import (
	"context"
	"net/http"
	"steezestore/business/analytics"
	"steezestore/pkg/logger"
	"time"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"
)

type AnalyticsService interface {
	Overview(ctx context.Context) (analytics.Overview, error)
}

type AnalyticsHandler struct {
	analyticsService AnalyticsService
	timeout          time.Duration
}

func NewAnalyticsHandler(analyticsService AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
		timeout:          10 * time.Second,
	}
}

func (h *AnalyticsHandler) Overview(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	overview, err := h.analyticsService.Overview(ctx)
	if err != nil {
		logger.Error("Failed to build analytics overview", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(overview))
}
