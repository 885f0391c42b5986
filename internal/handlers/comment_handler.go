package handlers

import (
	"net/http"

	"github.com/anonto42/vidtube/backend/internal/middleware"
	"github.com/anonto42/vidtube/backend/internal/models"
	"github.com/anonto42/vidtube/backend/internal/response"
	"github.com/labstack/echo/v4"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	comments CommentService
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(comments CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

// RegisterCommentRoutes registers comment routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group, requireAuth echo.MiddlewareFunc) {
	g.GET("/:videoId", h.GetVideoComments)
	g.POST("/:videoId", h.AddComment, requireAuth)
	g.PATCH("/:commentId", h.UpdateComment, requireAuth)
	g.DELETE("/:commentId", h.DeleteComment, requireAuth)
}

// GetVideoComments returns one page of a video's comments
func (h *CommentHandler) GetVideoComments(c echo.Context) error {
	page, err := h.comments.ListByVideo(c.Request().Context(), c.Param("videoId"), pageOptions(c))
	if err != nil {
		return err
	}
	return response.OK(c, page, "Comments for the Video Returned")
}

// AddComment comments on a video
func (h *CommentHandler) AddComment(c echo.Context) error {
	var req models.CommentRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	comment, err := h.comments.Add(c.Request().Context(), middleware.CurrentIdentity(c), c.Param("videoId"), req.Content)
	if err != nil {
		return err
	}
	return response.JSON(c, http.StatusCreated, comment, "Comment created")
}

// UpdateComment edits a comment
func (h *CommentHandler) UpdateComment(c echo.Context) error {
	var req models.CommentRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	comment, err := h.comments.Update(c.Request().Context(), middleware.CurrentIdentity(c), c.Param("commentId"), req.Content)
	if err != nil {
		return err
	}
	return response.OK(c, comment, "Comment Updated")
}

// DeleteComment deletes a comment
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	comment, err := h.comments.Delete(c.Request().Context(), middleware.CurrentIdentity(c), c.Param("commentId"))
	if err != nil {
		return err
	}
	return response.OK(c, comment, "Comment Deleted")
}
