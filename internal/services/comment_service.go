package services

import (
	"context"
	"errors"
	"strings"

	"github.com/anonto42/vidtube/backend/internal/aggregate"
	"github.com/anonto42/vidtube/backend/internal/apperror"
	"github.com/anonto42/vidtube/backend/internal/auth"
	"github.com/anonto42/vidtube/backend/internal/models"
	"github.com/anonto42/vidtube/backend/internal/repositories"
	"github.com/anonto42/vidtube/backend/internal/validation"
	"go.uber.org/zap"
)

const duplicateCommentMsg = "Comment for this video for this user already exists"

// CommentService implements comment operations. A user may leave at most one
// comment per video.
type CommentService struct {
	comments repositories.CommentRepository
	videos   repositories.VideoRepository
	logger   *zap.Logger
}

// NewCommentService creates a new CommentService
func NewCommentService(comments repositories.CommentRepository, videos repositories.VideoRepository, logger *zap.Logger) *CommentService {
	return &CommentService{comments: comments, videos: videos, logger: logger}
}

// ListByVideo returns one page of a video's comments
func (s *CommentService) ListByVideo(ctx context.Context, rawVideoID string, opts aggregate.PageOptions) (*aggregate.Page[models.Comment], error) {
	videoID, err := validation.ParseID(rawVideoID, "Video")
	if err != nil {
		return nil, err
	}
	if _, err := s.videos.FindByID(ctx, videoID); err != nil {
		return nil, lookupError(err, "Video not found")
	}

	page, err := s.comments.ListByVideo(ctx, videoID, opts)
	if err != nil {
		return nil, apperror.Wrap(err, "Error fetching comments")
	}
	if page.Empty() {
		return nil, apperror.NotFoundf("No comments found for this video")
	}
	return page, nil
}

// Add comments on a video
func (s *CommentService) Add(ctx context.Context, actor auth.Identity, rawVideoID, content string) (*models.Comment, error) {
	videoID, err := validation.ParseID(rawVideoID, "Video")
	if err != nil {
		return nil, err
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperror.BadRequest("Comment Content not found in body")
	}

	if _, err := s.videos.FindByID(ctx, videoID); err != nil {
		return nil, lookupError(err, "Video not found")
	}

	_, err = s.comments.FindByVideoAndOwner(ctx, videoID, actor.UserID)
	switch {
	case err == nil:
		return nil, apperror.ConflictMsg(duplicateCommentMsg)
	case !errors.Is(err, repositories.ErrNotFound):
		return nil, apperror.Wrap(err, "Comment not created")
	}

	comment := &models.Comment{Content: content, Video: videoID, Owner: actor.UserID}
	if err := s.comments.Create(ctx, comment); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperror.ConflictMsg(duplicateCommentMsg)
		}
		return nil, apperror.Wrap(err, "Comment not created")
	}
	return comment, nil
}

// Update replaces the content of the actor's comment
func (s *CommentService) Update(ctx context.Context, actor auth.Identity, rawCommentID, content string) (*models.Comment, error) {
	commentID, err := validation.ParseID(rawCommentID, "Comment")
	if err != nil {
		return nil, err
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperror.BadRequest("Comment Content not found in body")
	}

	existing, err := s.comments.FindByID(ctx, commentID)
	if err != nil {
		return nil, lookupError(err, "Comment not found")
	}
	if err := auth.Authorize(existing.Owner, actor, "update", "comment"); err != nil {
		return nil, err
	}

	comment, err := s.comments.UpdateContent(ctx, commentID, content)
	if err != nil {
		return nil, storeError(err, "Comment not updated")
	}
	return comment, nil
}

// Delete removes the actor's comment
func (s *CommentService) Delete(ctx context.Context, actor auth.Identity, rawCommentID string) (*models.Comment, error) {
	commentID, err := validation.ParseID(rawCommentID, "Comment")
	if err != nil {
		return nil, err
	}

	existing, err := s.comments.FindByID(ctx, commentID)
	if err != nil {
		return nil, lookupError(err, "Comment not found")
	}
	if err := auth.Authorize(existing.Owner, actor, "delete", "comment"); err != nil {
		return nil, err
	}

	deleted, err := s.comments.Delete(ctx, commentID)
	if err != nil {
		return nil, storeError(err, "Comment not deleted")
	}
	return deleted, nil
}
