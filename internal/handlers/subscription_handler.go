package handlers

import (
	"net/http"

	"github.com/anonto42/vidtube/backend/internal/middleware"
	"github.com/anonto42/vidtube/backend/internal/response"
	"github.com/labstack/echo/v4"
)

// SubscriptionHandler handles subscribe/unsubscribe HTTP requests
type SubscriptionHandler struct {
	subscriptions SubscriptionService
}

// NewSubscriptionHandler creates a new SubscriptionHandler
func NewSubscriptionHandler(subscriptions SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptions: subscriptions}
}

// RegisterSubscriptionRoutes registers subscription routes
func (h *SubscriptionHandler) RegisterSubscriptionRoutes(g *echo.Group, requireAuth echo.MiddlewareFunc) {
	g.GET("/subscribers/:channelId", h.GetChannelSubscribers)
	g.POST("/:channelId", h.ToggleSubscription, requireAuth)
	g.GET("/subscribed-channels/:subscriberId", h.GetSubscribedChannels, requireAuth)
}

// ToggleSubscription subscribes to or unsubscribes from a channel
func (h *SubscriptionHandler) ToggleSubscription(c echo.Context) error {
	sub, subscribed, err := h.subscriptions.Toggle(c.Request().Context(), middleware.CurrentIdentity(c), c.Param("channelId"))
	if err != nil {
		return err
	}
	if subscribed {
		return response.JSON(c, http.StatusCreated, sub, "Subscribed successfully")
	}
	return response.OK(c, sub, "Unsubscribed successfully")
}

// GetChannelSubscribers returns one page of a channel's subscribers
func (h *SubscriptionHandler) GetChannelSubscribers(c echo.Context) error {
	page, err := h.subscriptions.Subscribers(c.Request().Context(), c.Param("channelId"), pageOptions(c))
	if err != nil {
		return err
	}
	return response.OK(c, page, "Subscriber list fetched successfully")
}

// GetSubscribedChannels returns one page of the channels a user follows
func (h *SubscriptionHandler) GetSubscribedChannels(c echo.Context) error {
	page, err := h.subscriptions.SubscribedChannels(c.Request().Context(), c.Param("subscriberId"), pageOptions(c))
	if err != nil {
		return err
	}
	return response.OK(c, page, "Subscribed channel list fetched successfully")
}
