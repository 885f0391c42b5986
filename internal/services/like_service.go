package services

import (
	"context"
	"errors"

	"github.com/anonto42/vidtube/backend/internal/aggregate"
	"github.com/anonto42/vidtube/backend/internal/apperror"
	"github.com/anonto42/vidtube/backend/internal/auth"
	"github.com/anonto42/vidtube/backend/internal/models"
	"github.com/anonto42/vidtube/backend/internal/repositories"
	"github.com/anonto42/vidtube/backend/internal/validation"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// LikeService toggles likes on videos, comments and tweets
type LikeService struct {
	likes    repositories.LikeRepository
	videos   repositories.VideoRepository
	comments repositories.CommentRepository
	tweets   repositories.TweetRepository
	logger   *zap.Logger
}

// NewLikeService creates a new LikeService
func NewLikeService(
	likes repositories.LikeRepository,
	videos repositories.VideoRepository,
	comments repositories.CommentRepository,
	tweets repositories.TweetRepository,
	logger *zap.Logger,
) *LikeService {
	return &LikeService{likes: likes, videos: videos, comments: comments, tweets: tweets, logger: logger}
}

// TargetLabel is the capitalized name of a like target used in messages.
func TargetLabel(target models.LikeTarget) string {
	switch target {
	case models.LikeTargetVideo:
		return "Video"
	case models.LikeTargetComment:
		return "Comment"
	case models.LikeTargetTweet:
		return "Tweet"
	default:
		return string(target)
	}
}

// Toggle likes the target if the actor has not liked it yet and unlikes it
// otherwise. liked reports the state after the call; like is the created or
// removed like.
func (s *LikeService) Toggle(ctx context.Context, actor auth.Identity, target models.LikeTarget, rawID string) (like *models.Like, liked bool, err error) {
	label := TargetLabel(target)
	targetID, err := validation.ParseID(rawID, label)
	if err != nil {
		return nil, false, err
	}
	if err := s.ensureTarget(ctx, target, targetID); err != nil {
		return nil, false, err
	}

	existing, err := s.likes.Find(ctx, target, targetID, actor.UserID)
	switch {
	case err == nil:
		if err := s.likes.Delete(ctx, existing.ID); err != nil && !errors.Is(err, repositories.ErrNotFound) {
			return nil, false, apperror.Wrap(err, "Like not deleted")
		}
		return existing, false, nil
	case !errors.Is(err, repositories.ErrNotFound):
		return nil, false, apperror.Wrap(err, "Like not created")
	}

	like = models.NewLike(target, targetID, actor.UserID)
	if err := s.likes.Create(ctx, like); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			// A concurrent request liked it first; the end state is the same.
			current, findErr := s.likes.Find(ctx, target, targetID, actor.UserID)
			if findErr == nil {
				return current, true, nil
			}
		}
		return nil, false, apperror.Wrap(err, "Like not created")
	}
	return like, true, nil
}

func (s *LikeService) ensureTarget(ctx context.Context, target models.LikeTarget, id primitive.ObjectID) error {
	var err error
	switch target {
	case models.LikeTargetVideo:
		_, err = s.videos.FindByID(ctx, id)
	case models.LikeTargetComment:
		_, err = s.comments.FindByID(ctx, id)
	case models.LikeTargetTweet:
		_, err = s.tweets.FindByID(ctx, id)
	default:
		return apperror.Newf(apperror.BadInput, "Unknown like target %q", target)
	}
	if err != nil {
		return lookupError(err, TargetLabel(target)+" not found")
	}
	return nil
}

// LikedVideos returns one page of the videos the actor liked
func (s *LikeService) LikedVideos(ctx context.Context, actor auth.Identity, opts aggregate.PageOptions) (*aggregate.Page[models.LikedVideo], error) {
	page, err := s.likes.LikedVideos(ctx, actor.UserID, opts)
	if err != nil {
		return nil, apperror.Wrap(err, "Error fetching liked videos")
	}
	if page.Empty() {
		return nil, apperror.NotFoundf("Liked Videos not found")
	}
	return page, nil
}
