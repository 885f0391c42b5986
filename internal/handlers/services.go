package handlers

import (
	"context"

	"github.com/anonto42/vidtube/backend/internal/aggregate"
	"github.com/anonto42/vidtube/backend/internal/auth"
	"github.com/anonto42/vidtube/backend/internal/models"
	"github.com/anonto42/vidtube/backend/internal/services"
)

// SessionManager is the session side of authentication.
type SessionManager interface {
	Login(ctx context.Context, username, email, password string) (*auth.Session, error)
	Refresh(ctx context.Context, refreshToken string) (*auth.Session, error)
	Logout(ctx context.Context, actor auth.Identity) error
	ChangePassword(ctx context.Context, actor auth.Identity, oldPassword, newPassword string) error
}

type UserService interface {
	Register(ctx context.Context, req models.RegisterUserRequest, avatarPath, coverPath string) (*models.User, error)
	Current(ctx context.Context, actor auth.Identity) (*models.User, error)
	UpdateAccount(ctx context.Context, actor auth.Identity, username, email string) (*models.User, error)
	UpdateAvatar(ctx context.Context, actor auth.Identity, avatarPath string) (*models.User, error)
	UpdateCoverImage(ctx context.Context, actor auth.Identity, coverPath string) (*models.User, error)
	ChannelProfile(ctx context.Context, username string, viewer auth.Identity) (*models.ChannelProfile, error)
	WatchHistory(ctx context.Context, actor auth.Identity) (*models.WatchHistory, error)
}

type VideoService interface {
	List(ctx context.Context, params services.ListVideosParams) (*aggregate.Page[models.Video], error)
	Publish(ctx context.Context, actor auth.Identity, req models.VideoDetailsRequest, videoPath string) (*models.Video, error)
	View(ctx context.Context, rawID string, viewer auth.Identity) (*models.Video, error)
	Update(ctx context.Context, actor auth.Identity, rawID string, req models.VideoDetailsRequest, videoPath string) (*models.Video, bool, error)
	Delete(ctx context.Context, actor auth.Identity, rawID string) (*models.Video, error)
	TogglePublish(ctx context.Context, actor auth.Identity, rawID string) (*models.Video, error)
}

type CommentService interface {
	ListByVideo(ctx context.Context, rawVideoID string, opts aggregate.PageOptions) (*aggregate.Page[models.Comment], error)
	Add(ctx context.Context, actor auth.Identity, rawVideoID, content string) (*models.Comment, error)
	Update(ctx context.Context, actor auth.Identity, rawCommentID, content string) (*models.Comment, error)
	Delete(ctx context.Context, actor auth.Identity, rawCommentID string) (*models.Comment, error)
}

type LikeService interface {
	Toggle(ctx context.Context, actor auth.Identity, target models.LikeTarget, rawID string) (*models.Like, bool, error)
	LikedVideos(ctx context.Context, actor auth.Identity, opts aggregate.PageOptions) (*aggregate.Page[models.LikedVideo], error)
}

type SubscriptionService interface {
	Toggle(ctx context.Context, actor auth.Identity, rawChannelID string) (*models.Subscription, bool, error)
	Subscribers(ctx context.Context, rawChannelID string, opts aggregate.PageOptions) (*aggregate.Page[models.ChannelSubscriber], error)
	SubscribedChannels(ctx context.Context, rawSubscriberID string, opts aggregate.PageOptions) (*aggregate.Page[models.SubscribedChannel], error)
}

type TweetService interface {
	Create(ctx context.Context, actor auth.Identity, content string) (*models.Tweet, error)
	ListByUser(ctx context.Context, rawUserID string) ([]models.Tweet, error)
	Update(ctx context.Context, actor auth.Identity, rawTweetID, content string) (*models.Tweet, error)
	Delete(ctx context.Context, actor auth.Identity, rawTweetID string) (*models.Tweet, error)
}

type PlaylistService interface {
	Create(ctx context.Context, actor auth.Identity, req models.PlaylistRequest) (*models.Playlist, error)
	ListByUser(ctx context.Context, rawUserID string) ([]models.Playlist, error)
	Get(ctx context.Context, rawID string) (*models.Playlist, error)
	AddVideo(ctx context.Context, actor auth.Identity, rawPlaylistID, rawVideoID string) (*models.Playlist, error)
	RemoveVideo(ctx context.Context, actor auth.Identity, rawPlaylistID, rawVideoID string) (*models.Playlist, error)
	Update(ctx context.Context, actor auth.Identity, rawID string, req models.PlaylistRequest) (*models.Playlist, error)
	Delete(ctx context.Context, actor auth.Identity, rawID string) (*models.Playlist, error)
}

type DashboardService interface {
	ChannelStats(ctx context.Context, actor auth.Identity) (*models.ChannelStats, error)
	ChannelVideos(ctx context.Context, actor auth.Identity) ([]models.Video, error)
}

var (
	_ SessionManager      = (*auth.Manager)(nil)
	_ UserService         = (*services.UserService)(nil)
	_ VideoService        = (*services.VideoService)(nil)
	_ CommentService      = (*services.CommentService)(nil)
	_ LikeService         = (*services.LikeService)(nil)
	_ SubscriptionService = (*services.SubscriptionService)(nil)
	_ TweetService        = (*services.TweetService)(nil)
	_ PlaylistService     = (*services.PlaylistService)(nil)
	_ DashboardService    = (*services.DashboardService)(nil)
)
