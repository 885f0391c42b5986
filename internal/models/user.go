package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a registered account. Every user is also a channel that others can
// subscribe to.
type User struct {
	ID                 primitive.ObjectID   `json:"_id" bson:"_id,omitempty"`
	Username           string               `json:"username" bson:"username"`
	Email              string               `json:"email" bson:"email"`
	FullName           string               `json:"fullName" bson:"fullName"`
	Avatar             string               `json:"avatar" bson:"avatar"`
	AvatarPublicID     string               `json:"-" bson:"avatarPublicId,omitempty"`
	CoverImage         string               `json:"coverImage" bson:"coverImage"`
	CoverImagePublicID string               `json:"-" bson:"coverImagePublicId,omitempty"`
	Password           string               `json:"-" bson:"password"`
	RefreshToken       string               `json:"-" bson:"refreshToken"`
	WatchHistory       []primitive.ObjectID `json:"watchHistory" bson:"watchHistory"`
	CreatedAt          time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt          time.Time            `json:"updatedAt" bson:"updatedAt"`
}

// UserSummary is the public slice of a user embedded in joined results.
type UserSummary struct {
	ID       primitive.ObjectID `json:"_id" bson:"_id"`
	Username string             `json:"username" bson:"username"`
	Email    string             `json:"email,omitempty" bson:"email,omitempty"`
	FullName string             `json:"fullName,omitempty" bson:"fullName,omitempty"`
	Avatar   string             `json:"avatar,omitempty" bson:"avatar,omitempty"`
}

// ChannelProfile is a user as seen from their channel page.
type ChannelProfile struct {
	ID                      primitive.ObjectID `json:"_id" bson:"_id"`
	FullName                string             `json:"fullName" bson:"fullName"`
	Username                string             `json:"username" bson:"username"`
	Email                   string             `json:"email" bson:"email"`
	Avatar                  string             `json:"avatar" bson:"avatar"`
	CoverImage              string             `json:"coverImage" bson:"coverImage"`
	TotalSubscribers        int64              `json:"totalSubscribers" bson:"totalSubscribers"`
	TotalSubscribedChannels int64              `json:"totalSubscribedChannels" bson:"totalSubscribedChannels"`
	HasSubscribedToChannel  bool               `json:"hasSubscribedToChannel" bson:"hasSubscribedToChannel"`
}

// WatchedVideo is one entry of a user's watch history.
type WatchedVideo struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id"`
	Title     string             `json:"title" bson:"title"`
	VideoFile string             `json:"videoFile" bson:"videoFile"`
	Thumbnail string             `json:"thumbnail" bson:"thumbnail"`
	Owner     *UserSummary       `json:"owner" bson:"owner,omitempty"`
}

// WatchHistory is a user with their watched videos resolved.
type WatchHistory struct {
	ID           primitive.ObjectID `json:"_id" bson:"_id"`
	FullName     string             `json:"fullName" bson:"fullName"`
	Username     string             `json:"username" bson:"username"`
	Avatar       string             `json:"avatar" bson:"avatar"`
	WatchHistory []WatchedVideo     `json:"watchHistory" bson:"watchHistory"`
}

// RegisterUserRequest is the multipart form sent to /users/register.
type RegisterUserRequest struct {
	FullName string `json:"fullName" form:"fullName" validate:"required"`
	Email    string `json:"email" form:"email" validate:"required,email"`
	Username string `json:"username" form:"username" validate:"required,min=3,max=30"`
	Password string `json:"password" form:"password" validate:"required,min=6"`
}

// LoginRequest accepts either a username or an email.
type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password" validate:"required"`
}

// RefreshTokenRequest carries the refresh token when no cookie is sent.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" form:"refreshToken"`
}

// ChangePasswordRequest defines the body for changing the current password
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

// UpdateAccountRequest defines the body for updating account details
type UpdateAccountRequest struct {
	Username string `json:"username"`
	Email    string `json:"email" validate:"omitempty,email"`
}

// JwtCustomClaims are the access token claims.
type JwtCustomClaims struct {
	UserID   string `json:"_id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
	jwt.RegisteredClaims
}

// RefreshClaims are the refresh token claims. They only identify the user.
type RefreshClaims struct {
	UserID string `json:"_id"`
	jwt.RegisteredClaims
}
