package handlers

import (
	"net/http"

	"github.com/anonto42/vidtube/backend/internal/middleware"
	"github.com/anonto42/vidtube/backend/internal/models"
	"github.com/anonto42/vidtube/backend/internal/response"
	"github.com/labstack/echo/v4"
)

// TweetHandler handles HTTP requests related to tweets
type TweetHandler struct {
	tweets TweetService
}

// NewTweetHandler creates a new TweetHandler
func NewTweetHandler(tweets TweetService) *TweetHandler {
	return &TweetHandler{tweets: tweets}
}

// RegisterTweetRoutes registers tweet routes
func (h *TweetHandler) RegisterTweetRoutes(g *echo.Group, requireAuth echo.MiddlewareFunc) {
	g.GET("/:userId", h.GetUserTweets)
	g.POST("", h.CreateTweet, requireAuth)
	g.PATCH("/:tweetId", h.UpdateTweet, requireAuth)
	g.DELETE("/:tweetId", h.DeleteTweet, requireAuth)
}

// CreateTweet posts a tweet
func (h *TweetHandler) CreateTweet(c echo.Context) error {
	var req models.TweetRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	tweet, err := h.tweets.Create(c.Request().Context(), middleware.CurrentIdentity(c), req.Content)
	if err != nil {
		return err
	}
	return response.JSON(c, http.StatusCreated, tweet, "Tweet created successfully")
}

// GetUserTweets returns a user's tweets
func (h *TweetHandler) GetUserTweets(c echo.Context) error {
	tweets, err := h.tweets.ListByUser(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return err
	}
	return response.OK(c, tweets, "Tweets found successfully")
}

// UpdateTweet edits a tweet
func (h *TweetHandler) UpdateTweet(c echo.Context) error {
	var req models.TweetRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	tweet, err := h.tweets.Update(c.Request().Context(), middleware.CurrentIdentity(c), c.Param("tweetId"), req.Content)
	if err != nil {
		return err
	}
	return response.OK(c, tweet, "Tweet updated successfully")
}

// DeleteTweet deletes a tweet
func (h *TweetHandler) DeleteTweet(c echo.Context) error {
	tweet, err := h.tweets.Delete(c.Request().Context(), middleware.CurrentIdentity(c), c.Param("tweetId"))
	if err != nil {
		return err
	}
	return response.OK(c, tweet, "Tweet deleted successfully")
}
