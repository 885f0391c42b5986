package handlers

import (
	"github.com/anonto42/vidtube/backend/internal/middleware"
	"github.com/anonto42/vidtube/backend/internal/response"
	"github.com/labstack/echo/v4"
)

// DashboardHandler serves the channel owner's dashboard
type DashboardHandler struct {
	dashboard DashboardService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboard DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// RegisterDashboardRoutes registers dashboard routes on an authenticated group
func (h *DashboardHandler) RegisterDashboardRoutes(g *echo.Group) {
	g.GET("/channel-stats", h.GetChannelStats)
	g.GET("/channel-videos", h.GetChannelVideos)
}

func (h *DashboardHandler) GetChannelStats(c echo.Context) error {
	stats, err := h.dashboard.ChannelStats(c.Request().Context(), middleware.CurrentIdentity(c))
	if err != nil {
		return err
	}
	return response.OK(c, stats, "Channel stats fetched successfully")
}

func (h *DashboardHandler) GetChannelVideos(c echo.Context) error {
	videos, err := h.dashboard.ChannelVideos(c.Request().Context(), middleware.CurrentIdentity(c))
	if err != nil {
		return err
	}
	return response.OK(c, videos, "Videos fetched successfully")
}
