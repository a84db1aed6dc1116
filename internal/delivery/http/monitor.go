package http

import (
	"errors"
	"net/http"

	"futures-pnl-bot/internal/dto"
	"futures-pnl-bot/internal/service"

	"github.com/labstack/echo/v4"
)

// RunMonitorCycle lets an external scheduler trigger exactly one monitor cycle
// and receive its per-user result listing.
func (h *HttpAPIHandler) RunMonitorCycle(c echo.Context) error {
	result, err := h.service.MonitorService.RunCycle(c.Request().Context())
	if err != nil {
		if errors.Is(err, service.ErrCycleInProgress) {
			return c.JSON(http.StatusConflict, dto.NewBaseResponse(http.StatusConflict, err.Error(), nil))
		}
		return c.JSON(http.StatusBadGateway, dto.NewBaseResponse(http.StatusBadGateway, err.Error(), nil))
	}

	return c.JSON(http.StatusOK, dto.NewSuccessResponse("monitor cycle completed", result))
}
