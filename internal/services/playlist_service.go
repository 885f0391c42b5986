package services

import (
	"context"
	"strings"

	"github.com/anonto42/vidtube/backend/internal/apperror"
	"github.com/anonto42/vidtube/backend/internal/auth"
	"github.com/anonto42/vidtube/backend/internal/models"
	"github.com/anonto42/vidtube/backend/internal/repositories"
	"github.com/anonto42/vidtube/backend/internal/validation"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const playlistNotFoundMsg = "Playlist not found for this ID"

// PlaylistService implements playlist operations
type PlaylistService struct {
	playlists repositories.PlaylistRepository
	videos    repositories.VideoRepository
	logger    *zap.Logger
}

// NewPlaylistService creates a new PlaylistService
func NewPlaylistService(playlists repositories.PlaylistRepository, videos repositories.VideoRepository, logger *zap.Logger) *PlaylistService {
	return &PlaylistService{playlists: playlists, videos: videos, logger: logger}
}

// Create starts an empty playlist owned by the actor
func (s *PlaylistService) Create(ctx context.Context, actor auth.Identity, req models.PlaylistRequest) (*models.Playlist, error) {
	name, description, err := playlistDetails(req)
	if err != nil {
		return nil, err
	}
	playlist := &models.Playlist{Name: name, Description: description, Owner: actor.UserID}
	if err := s.playlists.Create(ctx, playlist); err != nil {
		return nil, apperror.Wrap(err, "Error creating playlist")
	}
	return playlist, nil
}

// ListByUser returns every playlist of a user
func (s *PlaylistService) ListByUser(ctx context.Context, rawUserID string) ([]models.Playlist, error) {
	userID, err := validation.ParseID(rawUserID, "User")
	if err != nil {
		return nil, err
	}
	playlists, err := s.playlists.ListByOwner(ctx, userID)
	if err != nil {
		return nil, apperror.Wrap(err, "Error fetching playlists")
	}
	if len(playlists) == 0 {
		return nil, apperror.NotFoundf("No playlists found for this user")
	}
	return playlists, nil
}

// Get loads a playlist
func (s *PlaylistService) Get(ctx context.Context, rawID string) (*models.Playlist, error) {
	id, err := validation.ParseID(rawID, "Playlist")
	if err != nil {
		return nil, err
	}
	playlist, err := s.playlists.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, playlistNotFoundMsg)
	}
	return playlist, nil
}

// AddVideo appends a video to the actor's playlist. A video can be in a
// playlist only once.
func (s *PlaylistService) AddVideo(ctx context.Context, actor auth.Identity, rawPlaylistID, rawVideoID string) (*models.Playlist, error) {
	playlist, videoID, err := s.loadForVideoChange(ctx, actor, rawPlaylistID, rawVideoID, "add video to")
	if err != nil {
		return nil, err
	}
	if playlist.Contains(videoID) {
		return nil, apperror.ConflictMsg("Video already exists in playlist")
	}

	updated, err := s.playlists.AddVideo(ctx, playlist.ID, videoID)
	if err != nil {
		return nil, storeError(err, "Error adding video to playlist")
	}
	return updated, nil
}

// RemoveVideo drops a video from the actor's playlist
func (s *PlaylistService) RemoveVideo(ctx context.Context, actor auth.Identity, rawPlaylistID, rawVideoID string) (*models.Playlist, error) {
	playlist, videoID, err := s.loadForVideoChange(ctx, actor, rawPlaylistID, rawVideoID, "remove video from")
	if err != nil {
		return nil, err
	}
	if !playlist.Contains(videoID) {
		return nil, apperror.NotFoundf("Video not found in playlist")
	}

	updated, err := s.playlists.RemoveVideo(ctx, playlist.ID, videoID)
	if err != nil {
		return nil, storeError(err, "Error removing video from playlist")
	}
	return updated, nil
}

func (s *PlaylistService) loadForVideoChange(ctx context.Context, actor auth.Identity, rawPlaylistID, rawVideoID, action string) (*models.Playlist, primitive.ObjectID, error) {
	playlistID, err := validation.ParseID(rawPlaylistID, "Playlist")
	if err != nil {
		return nil, primitive.NilObjectID, err
	}
	videoID, err := validation.ParseID(rawVideoID, "Video")
	if err != nil {
		return nil, primitive.NilObjectID, err
	}

	playlist, err := s.playlists.FindByID(ctx, playlistID)
	if err != nil {
		return nil, primitive.NilObjectID, lookupError(err, playlistNotFoundMsg)
	}
	if err := auth.Authorize(playlist.Owner, actor, action, "playlist"); err != nil {
		return nil, primitive.NilObjectID, err
	}
	if _, err := s.videos.FindByID(ctx, videoID); err != nil {
		return nil, primitive.NilObjectID, lookupError(err, "Video not found for this ID")
	}
	return playlist, videoID, nil
}

// Update changes name and description of the actor's playlist
func (s *PlaylistService) Update(ctx context.Context, actor auth.Identity, rawID string, req models.PlaylistRequest) (*models.Playlist, error) {
	id, err := validation.ParseID(rawID, "Playlist")
	if err != nil {
		return nil, err
	}
	name, description, err := playlistDetails(req)
	if err != nil {
		return nil, err
	}

	existing, err := s.playlists.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, playlistNotFoundMsg)
	}
	if err := auth.Authorize(existing.Owner, actor, "update", "playlist"); err != nil {
		return nil, err
	}

	playlist, err := s.playlists.UpdateDetails(ctx, id, name, description)
	if err != nil {
		return nil, storeError(err, "Error updating playlist")
	}
	return playlist, nil
}

// Delete removes the actor's playlist
func (s *PlaylistService) Delete(ctx context.Context, actor auth.Identity, rawID string) (*models.Playlist, error) {
	id, err := validation.ParseID(rawID, "Playlist")
	if err != nil {
		return nil, err
	}

	existing, err := s.playlists.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, playlistNotFoundMsg)
	}
	if err := auth.Authorize(existing.Owner, actor, "delete", "playlist"); err != nil {
		return nil, err
	}

	deleted, err := s.playlists.Delete(ctx, id)
	if err != nil {
		return nil, storeError(err, "Error deleting playlist")
	}
	return deleted, nil
}

func playlistDetails(req models.PlaylistRequest) (name, description string, err error) {
	name = strings.TrimSpace(req.Name)
	description = strings.TrimSpace(req.Description)
	if name == "" {
		return "", "", apperror.BadRequest("Playlist name not found")
	}
	if description == "" {
		return "", "", apperror.BadRequest("Playlist description not found")
	}
	return name, description, nil
}
