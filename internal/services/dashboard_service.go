package services

import (
	"context"

	"github.com/anonto42/vidtube/backend/internal/apperror"
	"github.com/anonto42/vidtube/backend/internal/auth"
	"github.com/anonto42/vidtube/backend/internal/cache"
	"github.com/anonto42/vidtube/backend/internal/models"
	"github.com/anonto42/vidtube/backend/internal/repositories"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DashboardService summarises a channel for its owner
type DashboardService struct {
	videos        repositories.VideoRepository
	subscriptions repositories.SubscriptionRepository
	likes         repositories.LikeRepository
	cache         cache.StatsCache
	logger        *zap.Logger
}

// NewDashboardService creates a new DashboardService. statsCache may be nil.
func NewDashboardService(
	videos repositories.VideoRepository,
	subscriptions repositories.SubscriptionRepository,
	likes repositories.LikeRepository,
	statsCache cache.StatsCache,
	logger *zap.Logger,
) *DashboardService {
	return &DashboardService{
		videos:        videos,
		subscriptions: subscriptions,
		likes:         likes,
		cache:         statsCache,
		logger:        logger,
	}
}

// ChannelStats runs the independent aggregates concurrently and merges them.
// Every aggregate without matching documents counts as zero.
func (s *DashboardService) ChannelStats(ctx context.Context, actor auth.Identity) (*models.ChannelStats, error) {
	if actor.IsZero() {
		return nil, apperror.BadRequest("User ID not found")
	}
	if s.cache != nil {
		if stats, ok := s.cache.Get(ctx, actor.UserID); ok {
			return stats, nil
		}
	}

	stats := &models.ChannelStats{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.VideoCount, err = s.videos.CountByOwner(gctx, actor.UserID)
		return err
	})
	g.Go(func() (err error) {
		stats.SubscriberCount, err = s.subscriptions.CountByChannel(gctx, actor.UserID)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalVideoViews, err = s.videos.TotalViewsByOwner(gctx, actor.UserID)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalCommentLikesCount, err = s.likes.TotalLikesOnOwnedContent(gctx, models.LikeTargetComment, actor.UserID)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalVideoLikesCount, err = s.likes.TotalLikesOnOwnedContent(gctx, models.LikeTargetVideo, actor.UserID)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalTweetLikesCount, err = s.likes.TotalLikesOnOwnedContent(gctx, models.LikeTargetTweet, actor.UserID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, apperror.Wrap(err, "Error fetching channel stats")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, actor.UserID, stats); err != nil {
			s.logger.Warn("Failed to cache channel stats", zap.String("channel", actor.UserID.Hex()), zap.Error(err))
		}
	}
	return stats, nil
}

// ChannelVideos lists every video of the actor's channel
func (s *DashboardService) ChannelVideos(ctx context.Context, actor auth.Identity) ([]models.Video, error) {
	if actor.IsZero() {
		return nil, apperror.BadRequest("User ID not found")
	}
	videos, err := s.videos.ListByOwner(ctx, actor.UserID)
	if err != nil {
		return nil, apperror.Wrap(err, "Error fetching channel videos")
	}
	if len(videos) == 0 {
		return nil, apperror.NotFoundf("No videos found for this channel")
	}
	return videos, nil
}
