package services

import (
	"context"
	"strings"

	"github.com/anonto42/vidtube/backend/internal/aggregate"
	"github.com/anonto42/vidtube/backend/internal/apperror"
	"github.com/anonto42/vidtube/backend/internal/auth"
	"github.com/anonto42/vidtube/backend/internal/models"
	"github.com/anonto42/vidtube/backend/internal/repositories"
	"github.com/anonto42/vidtube/backend/internal/validation"
	"github.com/anonto42/vidtube/backend/pkg/media"
	"go.uber.org/zap"
)

// sortableVideoFields are the fields a listing may be ordered by.
var sortableVideoFields = map[string]bool{
	"title":     true,
	"createdAt": true,
	"updatedAt": true,
	"views":     true,
	"duration":  true,
}

// ListVideosParams are the raw query values of a video listing.
type ListVideosParams struct {
	Query    string
	SortBy   string
	SortType string
	Page     aggregate.PageOptions
}

// ToQuery normalizes the raw values. Unknown sort fields fall back to title
// and anything but a descending marker sorts ascending.
func (p ListVideosParams) ToQuery() models.VideoQuery {
	sortBy := strings.TrimSpace(p.SortBy)
	if !sortableVideoFields[sortBy] {
		sortBy = "title"
	}
	switch strings.ToLower(strings.TrimSpace(p.SortType)) {
	case "-1", "desc", "descending":
		return models.VideoQuery{Query: strings.TrimSpace(p.Query), SortBy: sortBy, SortDesc: true}
	}
	return models.VideoQuery{Query: strings.TrimSpace(p.Query), SortBy: sortBy}
}

// VideoService implements video publishing, viewing and management
type VideoService struct {
	videos repositories.VideoRepository
	users  repositories.UserRepository
	media  media.Store
	logger *zap.Logger
}

// NewVideoService creates a new VideoService
func NewVideoService(videos repositories.VideoRepository, users repositories.UserRepository, store media.Store, logger *zap.Logger) *VideoService {
	return &VideoService{videos: videos, users: users, media: store, logger: logger}
}

// List searches videos by title prefix
func (s *VideoService) List(ctx context.Context, params ListVideosParams) (*aggregate.Page[models.Video], error) {
	page, err := s.videos.Search(ctx, params.ToQuery(), params.Page)
	if err != nil {
		return nil, apperror.Wrap(err, "Error fetching videos")
	}
	if page.Empty() {
		return nil, apperror.NotFoundf("No videos found")
	}
	return page, nil
}

// Publish hosts the video file and creates the video document. The hosted
// file is removed again if the document cannot be written.
func (s *VideoService) Publish(ctx context.Context, actor auth.Identity, req models.VideoDetailsRequest, videoPath string) (*models.Video, error) {
	title, description, err := videoDetails(req)
	if err != nil {
		return nil, err
	}
	if videoPath == "" {
		return nil, apperror.BadRequest("Video file is required")
	}

	asset, err := s.media.Upload(ctx, videoPath, media.KindVideo)
	if err != nil {
		return nil, apperror.Upstream("Error uploading video", err)
	}

	video := &models.Video{
		VideoFile:     asset.URL,
		VideoPublicID: asset.PublicID,
		Thumbnail:     s.media.ThumbnailURL(asset.PublicID),
		Title:         title,
		Description:   description,
		Duration:      asset.Duration,
		Views:         0,
		IsPublished:   true,
		Owner:         actor.UserID,
	}
	if err := s.videos.Create(ctx, video); err != nil {
		discardAsset(ctx, s.media, s.logger, asset.PublicID, media.KindVideo)
		return nil, apperror.Wrap(err, "Error creating video")
	}

	s.logger.Info("Video published", zap.String("video_id", video.ID.Hex()), zap.String("owner", actor.UserID.Hex()))
	return video, nil
}

// View returns the video and counts the view. A signed in viewer also gets
// the video appended to their watch history; failing that never blocks the
// view.
func (s *VideoService) View(ctx context.Context, rawID string, viewer auth.Identity) (*models.Video, error) {
	id, err := validation.ParseID(rawID, "Video")
	if err != nil {
		return nil, err
	}

	video, err := s.videos.IncrementViews(ctx, id)
	if err != nil {
		return nil, lookupError(err, "Video not found")
	}

	if !viewer.IsZero() {
		if err := s.users.AddToWatchHistory(ctx, viewer.UserID, video.ID); err != nil {
			s.logger.Warn("Failed to record watch history",
				zap.String("user_id", viewer.UserID.Hex()),
				zap.String("video_id", video.ID.Hex()),
				zap.Error(err))
		}
	}
	return video, nil
}

// Update changes the details of a video and, when videoPath is set, swaps
// the hosted file. The old file is removed only after the document points at
// the new one; if that update fails the new file is removed instead.
// replaced reports whether the file was swapped.
func (s *VideoService) Update(ctx context.Context, actor auth.Identity, rawID string, req models.VideoDetailsRequest, videoPath string) (video *models.Video, replaced bool, err error) {
	id, err := validation.ParseID(rawID, "Video")
	if err != nil {
		return nil, false, err
	}
	title, description, err := videoDetails(req)
	if err != nil {
		return nil, false, err
	}

	existing, err := s.videos.FindByID(ctx, id)
	if err != nil {
		return nil, false, lookupError(err, "Video not found")
	}
	if err := auth.Authorize(existing.Owner, actor, "update", "video"); err != nil {
		return nil, false, err
	}

	if videoPath == "" {
		video, err = s.videos.UpdateDetails(ctx, id, title, description)
		if err != nil {
			return nil, false, storeError(err, "Error updating video")
		}
		return video, false, nil
	}

	asset, err := s.media.Upload(ctx, videoPath, media.KindVideo)
	if err != nil {
		return nil, false, apperror.Upstream("Error uploading updated Video", err)
	}

	video, err = s.videos.ReplaceMedia(ctx, id, title, description, models.VideoMedia{
		VideoFile:     asset.URL,
		VideoPublicID: asset.PublicID,
		Thumbnail:     s.media.ThumbnailURL(asset.PublicID),
		Duration:      asset.Duration,
	})
	if err != nil {
		discardAsset(ctx, s.media, s.logger, asset.PublicID, media.KindVideo)
		return nil, false, storeError(err, "Error updating video")
	}

	discardAsset(ctx, s.media, s.logger, assetPublicID(existing.VideoPublicID, existing.VideoFile), media.KindVideo)
	return video, true, nil
}

// Delete removes the video document and then its hosted file
func (s *VideoService) Delete(ctx context.Context, actor auth.Identity, rawID string) (*models.Video, error) {
	id, err := validation.ParseID(rawID, "Video")
	if err != nil {
		return nil, err
	}

	existing, err := s.videos.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "Video not found")
	}
	if err := auth.Authorize(existing.Owner, actor, "delete", "video"); err != nil {
		return nil, err
	}

	deleted, err := s.videos.Delete(ctx, id)
	if err != nil {
		return nil, storeError(err, "Error deleting video")
	}

	discardAsset(ctx, s.media, s.logger, assetPublicID(deleted.VideoPublicID, deleted.VideoFile), media.KindVideo)
	return deleted, nil
}

// TogglePublish flips the publish flag of a video
func (s *VideoService) TogglePublish(ctx context.Context, actor auth.Identity, rawID string) (*models.Video, error) {
	id, err := validation.ParseID(rawID, "Video")
	if err != nil {
		return nil, err
	}

	existing, err := s.videos.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "Video not found")
	}
	if err := auth.Authorize(existing.Owner, actor, "toggle publish status of", "video"); err != nil {
		return nil, err
	}

	video, err := s.videos.SetPublished(ctx, id, !existing.IsPublished)
	if err != nil {
		return nil, storeError(err, "Error toggling video publish status")
	}
	return video, nil
}

func videoDetails(req models.VideoDetailsRequest) (title, description string, err error) {
	title = strings.TrimSpace(req.Title)
	description = strings.TrimSpace(req.Description)
	if title == "" {
		return "", "", apperror.BadRequest("Video title not found")
	}
	if description == "" {
		return "", "", apperror.BadRequest("Video description not found")
	}
	return title, description, nil
}
