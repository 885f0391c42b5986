package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/anonto42/vidtube/backend/internal/apperror"
	"github.com/anonto42/vidtube/backend/internal/models"
	"github.com/anonto42/vidtube/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// UserStore is the slice of user persistence the session manager needs.
type UserStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error)
	SetRefreshToken(ctx context.Context, id primitive.ObjectID, token string) error
	SetPassword(ctx context.Context, id primitive.ObjectID, hash string) error
}

// Session is the result of a successful login or refresh.
type Session struct {
	User         *models.User `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
}

// Manager drives login, refresh rotation, logout and password changes. A user
// holds a single active refresh token; issuing a new one invalidates the old.
type Manager struct {
	users  UserStore
	tokens *TokenManager
	logger *zap.Logger
}

// NewManager creates a session Manager
func NewManager(users UserStore, tokens *TokenManager, logger *zap.Logger) *Manager {
	return &Manager{users: users, tokens: tokens, logger: logger}
}

// Login verifies the password of the user identified by username or email
// and starts a new session.
func (m *Manager) Login(ctx context.Context, username, email, password string) (*Session, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	email = strings.TrimSpace(email)
	if username == "" && email == "" {
		return nil, apperror.BadRequest("Email or username is required").WithStatus(apperror.StatusFieldRequired)
	}
	if password == "" {
		return nil, apperror.BadRequest("Password is required")
	}

	user, err := m.users.FindByUsernameOrEmail(ctx, username, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperror.NotFoundf("User not found")
		}
		return nil, apperror.Wrap(err, "Error looking up user")
	}

	if err := CheckPassword(user.Password, password); err != nil {
		if errors.Is(err, ErrPasswordMismatch) {
			return nil, apperror.New(apperror.InvalidCredential, "Password is not correct").WithStatus(apperror.StatusPasswordIncorrect)
		}
		return nil, apperror.Wrap(err, "Error verifying password")
	}

	return m.issue(ctx, user)
}

// Refresh exchanges a valid refresh token for a new token pair. Only the most
// recently issued refresh token of a user is accepted.
func (m *Manager) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" || refreshToken == "undefined" {
		return nil, apperror.New(apperror.MissingCredential, "Refresh token is required")
	}

	claims, err := m.tokens.ParseRefresh(refreshToken)
	if err != nil {
		return nil, apperror.New(apperror.InvalidCredential, "Refresh token is expired or invalid").WithCause(err)
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil, apperror.New(apperror.InvalidCredential, "Refresh token is expired or invalid").WithCause(err)
	}

	user, err := m.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperror.NotFoundf("User not found for this refresh token")
		}
		return nil, apperror.Wrap(err, "Error looking up user")
	}

	if user.RefreshToken == "" || user.RefreshToken != refreshToken {
		m.logger.Warn("Rejected stale refresh token", zap.String("user_id", user.ID.Hex()))
		return nil, apperror.New(apperror.CredentialMismatch, "Invalid Refresh Token Provided for this user")
	}

	return m.issue(ctx, user)
}

// Logout revokes the stored refresh token.
func (m *Manager) Logout(ctx context.Context, actor Identity) error {
	if err := m.users.SetRefreshToken(ctx, actor.UserID, ""); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperror.NotFoundf("User not found")
		}
		return apperror.Wrap(err, "Error logging out user")
	}
	return nil
}

// ChangePassword replaces the password hash after verifying the old password.
func (m *Manager) ChangePassword(ctx context.Context, actor Identity, oldPassword, newPassword string) error {
	user, err := m.users.FindByID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperror.NotFoundf("User not found")
		}
		return apperror.Wrap(err, "Error looking up user")
	}

	if err := CheckPassword(user.Password, oldPassword); err != nil {
		if errors.Is(err, ErrPasswordMismatch) {
			return apperror.New(apperror.InvalidCredential, "Old Password is incorrect").WithStatus(apperror.StatusPasswordIncorrect)
		}
		return apperror.Wrap(err, "Error verifying password")
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return apperror.Wrap(err, "Error changing password")
	}
	if err := m.users.SetPassword(ctx, user.ID, hash); err != nil {
		return apperror.Wrap(err, "Error changing password")
	}
	return nil
}

// Authenticate resolves an access token to the user it was issued for.
func (m *Manager) Authenticate(ctx context.Context, accessToken string) (*models.User, error) {
	if accessToken == "" {
		return nil, apperror.New(apperror.Unauthorized, "Unauthorized request")
	}
	claims, err := m.tokens.ParseAccess(accessToken)
	if err != nil {
		return nil, apperror.New(apperror.Unauthorized, "Invalid Access Token").WithCause(err)
	}
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil, apperror.New(apperror.Unauthorized, "Invalid Access Token").WithCause(err)
	}
	user, err := m.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperror.New(apperror.Unauthorized, "Invalid Access Token")
		}
		return nil, apperror.Wrap(err, "Error looking up user")
	}
	return user, nil
}

func (m *Manager) issue(ctx context.Context, user *models.User) (*Session, error) {
	accessToken, err := m.tokens.IssueAccess(user)
	if err != nil {
		return nil, apperror.Wrap(err, "Error generating access and refresh tokens").WithStatus(apperror.StatusFieldRequired)
	}
	refreshToken, err := m.tokens.IssueRefresh(user)
	if err != nil {
		return nil, apperror.Wrap(err, "Error generating access and refresh tokens").WithStatus(apperror.StatusFieldRequired)
	}
	if err := m.users.SetRefreshToken(ctx, user.ID, refreshToken); err != nil {
		return nil, apperror.Wrap(err, "Error generating access and refresh tokens").WithStatus(apperror.StatusFieldRequired)
	}
	user.RefreshToken = refreshToken

	return &Session{User: user, AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
