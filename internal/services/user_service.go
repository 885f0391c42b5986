package services

import (
	"context"
	"errors"
	"strings"

	"github.com/anonto42/vidtube/backend/internal/apperror"
	"github.com/anonto42/vidtube/backend/internal/auth"
	"github.com/anonto42/vidtube/backend/internal/models"
	"github.com/anonto42/vidtube/backend/internal/repositories"
	"github.com/anonto42/vidtube/backend/pkg/media"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// UserService implements account and channel operations
type UserService struct {
	users  repositories.UserRepository
	media  media.Store
	logger *zap.Logger
}

// NewUserService creates a new UserService
func NewUserService(users repositories.UserRepository, store media.Store, logger *zap.Logger) *UserService {
	return &UserService{users: users, media: store, logger: logger}
}

// Register creates an account. The avatar is mandatory, the cover image is
// optional. Both are hosted before the user document is written and removed
// again if that write fails.
func (s *UserService) Register(ctx context.Context, req models.RegisterUserRequest, avatarPath, coverPath string) (*models.User, error) {
	req.FullName = strings.TrimSpace(req.FullName)
	req.Email = strings.TrimSpace(req.Email)
	req.Username = strings.ToLower(strings.TrimSpace(req.Username))
	if req.FullName == "" || req.Email == "" || req.Username == "" || strings.TrimSpace(req.Password) == "" {
		return nil, apperror.BadRequest("All fields are required")
	}

	_, err := s.users.FindByUsernameOrEmail(ctx, req.Username, req.Email)
	switch {
	case err == nil:
		return nil, apperror.ConflictMsg("User already exists").WithStatus(apperror.StatusUserExists)
	case !errors.Is(err, repositories.ErrNotFound):
		return nil, apperror.Wrap(err, "Error checking existing users")
	}

	if avatarPath == "" {
		return nil, apperror.BadRequest("Avatar File is missing").WithStatus(apperror.StatusAvatarMissing)
	}

	avatar, err := s.media.Upload(ctx, avatarPath, media.KindImage)
	if err != nil {
		return nil, apperror.Upstream("Failed to upload avatar", err)
	}

	var cover *media.Asset
	if coverPath != "" {
		cover, err = s.media.Upload(ctx, coverPath, media.KindImage)
		if err != nil {
			discardAsset(ctx, s.media, s.logger, avatar.PublicID, media.KindImage)
			return nil, apperror.Upstream("Failed to upload cover image", err)
		}
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.discardRegistrationAssets(ctx, avatar, cover)
		return nil, apperror.Wrap(err, "Something went wrong while registering the user")
	}

	user := &models.User{
		Username:       req.Username,
		Email:          req.Email,
		FullName:       req.FullName,
		Avatar:         avatar.URL,
		AvatarPublicID: avatar.PublicID,
		Password:       hash,
	}
	if cover != nil {
		user.CoverImage = cover.URL
		user.CoverImagePublicID = cover.PublicID
	}

	if err := s.users.Create(ctx, user); err != nil {
		s.discardRegistrationAssets(ctx, avatar, cover)
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperror.ConflictMsg("User already exists").WithStatus(apperror.StatusUserExists)
		}
		return nil, apperror.Wrap(err, "Something went wrong while registering the user and images were deleted")
	}

	s.logger.Info("User registered", zap.String("user_id", user.ID.Hex()), zap.String("username", user.Username))
	return user, nil
}

func (s *UserService) discardRegistrationAssets(ctx context.Context, avatar, cover *media.Asset) {
	discardAsset(ctx, s.media, s.logger, avatar.PublicID, media.KindImage)
	if cover != nil {
		discardAsset(ctx, s.media, s.logger, cover.PublicID, media.KindImage)
	}
}

// Current loads the authenticated user
func (s *UserService) Current(ctx context.Context, actor auth.Identity) (*models.User, error) {
	user, err := s.users.FindByID(ctx, actor.UserID)
	if err != nil {
		return nil, lookupError(err, "User not found")
	}
	return user, nil
}

// UpdateAccount changes username and email. Both are required.
func (s *UserService) UpdateAccount(ctx context.Context, actor auth.Identity, username, email string) (*models.User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	email = strings.TrimSpace(email)
	if username == "" || email == "" {
		return nil, apperror.BadRequest("Username and email are required").WithStatus(apperror.StatusFieldRequired)
	}

	user, err := s.users.UpdateAccount(ctx, actor.UserID, username, email)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperror.ConflictMsg("Username or email is already taken")
		}
		return nil, storeError(err, "User not found")
	}
	return user, nil
}

// UpdateAvatar hosts a new avatar, points the user at it and then removes
// the previous one.
func (s *UserService) UpdateAvatar(ctx context.Context, actor auth.Identity, avatarPath string) (*models.User, error) {
	if avatarPath == "" {
		return nil, apperror.BadRequest("Avatar is required").WithStatus(apperror.StatusFieldRequired)
	}
	return s.replaceImage(ctx, actor, avatarPath, imageSlot{
		uploadFailed: "Something went wrong while uploading avatar",
		previous:     func(u *models.User) string { return assetPublicID(u.AvatarPublicID, u.Avatar) },
		save:         s.users.SetAvatar,
	})
}

// UpdateCoverImage hosts a new cover image, points the user at it and then
// removes the previous one.
func (s *UserService) UpdateCoverImage(ctx context.Context, actor auth.Identity, coverPath string) (*models.User, error) {
	if coverPath == "" {
		return nil, apperror.BadRequest("Cover Image is required").WithStatus(apperror.StatusFieldRequired)
	}
	return s.replaceImage(ctx, actor, coverPath, imageSlot{
		uploadFailed: "Something went wrong while uploading Cover Image",
		previous:     func(u *models.User) string { return assetPublicID(u.CoverImagePublicID, u.CoverImage) },
		save:         s.users.SetCoverImage,
	})
}

type imageSlot struct {
	uploadFailed string
	previous     func(*models.User) string
	save         func(ctx context.Context, id primitive.ObjectID, url, publicID string) (*models.User, error)
}

func (s *UserService) replaceImage(ctx context.Context, actor auth.Identity, path string, slot imageSlot) (*models.User, error) {
	current, err := s.users.FindByID(ctx, actor.UserID)
	if err != nil {
		return nil, lookupError(err, "User not found")
	}
	previous := slot.previous(current)

	asset, err := s.media.Upload(ctx, path, media.KindImage)
	if err != nil {
		return nil, apperror.Upstream(slot.uploadFailed, err).WithStatus(apperror.StatusFieldRequired)
	}

	user, err := slot.save(ctx, actor.UserID, asset.URL, asset.PublicID)
	if err != nil {
		discardAsset(ctx, s.media, s.logger, asset.PublicID, media.KindImage)
		return nil, storeError(err, "User not found")
	}

	if previous != asset.PublicID {
		discardAsset(ctx, s.media, s.logger, previous, media.KindImage)
	}
	return user, nil
}

// ChannelProfile loads the channel of username as seen by viewer, who may be
// anonymous.
func (s *UserService) ChannelProfile(ctx context.Context, username string, viewer auth.Identity) (*models.ChannelProfile, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return nil, apperror.BadRequest("Username is required").WithStatus(apperror.StatusFieldRequired)
	}
	profile, err := s.users.ChannelProfile(ctx, username, viewer.UserID)
	if err != nil {
		return nil, lookupError(err, "Channel not found")
	}
	return profile, nil
}

// WatchHistory loads the videos the user watched, each with its owner.
func (s *UserService) WatchHistory(ctx context.Context, actor auth.Identity) (*models.WatchHistory, error) {
	history, err := s.users.WatchHistory(ctx, actor.UserID)
	if err != nil {
		return nil, lookupError(err, "User not found")
	}
	return history, nil
}
