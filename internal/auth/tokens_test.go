package auth

import (
	"testing"
	"time"

	"github.com/anonto42/vidtube/backend/internal/apperror"
	"github.com/anonto42/vidtube/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func testTokens() *TokenManager {
	return NewTokenManager(TokenConfig{
		AccessSecret:  "a",
		AccessTTL:     time.Minute,
		RefreshSecret: "r",
		RefreshTTL:    time.Hour,
	})
}

func TestAccessTokenRoundTrip(t *testing.T) {
	user := &models.User{ID: primitive.NewObjectID(), Username: "bob", Email: "bob@example.com"}
	tokens := testTokens()

	signed, err := tokens.IssueAccess(user)
	require.NoError(t, err)

	claims, err := tokens.ParseAccess(signed)
	require.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), claims.UserID)
	assert.Equal(t, "bob", claims.Username)

	_, err = tokens.ParseRefresh(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshTokensAreUnique(t *testing.T) {
	user := &models.User{ID: primitive.NewObjectID()}
	tokens := testTokens()

	a, err := tokens.IssueRefresh(user)
	require.NoError(t, err)
	b, err := tokens.IssueRefresh(user)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestExpiredToken(t *testing.T) {
	user := &models.User{ID: primitive.NewObjectID()}
	tokens := testTokens()
	tokens.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	signed, err := tokens.IssueRefresh(user)
	require.NoError(t, err)

	_, err = tokens.ParseRefresh(signed)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hash)
	assert.NoError(t, CheckPassword(hash, "hunter22"))
	assert.ErrorIs(t, CheckPassword(hash, "nope"), ErrPasswordMismatch)
}

func TestAuthorize(t *testing.T) {
	owner := primitive.NewObjectID()

	assert.NoError(t, Authorize(owner, Identity{UserID: owner}, "update", "comment"))

	err := Authorize(owner, Identity{UserID: primitive.NewObjectID()}, "update", "comment")
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.Forbidden))
	assert.Equal(t, "You are not authorized to update this comment as you are not the owner", err.Error())

	assert.Error(t, Authorize(primitive.NilObjectID, Identity{}, "delete", "video"))
}
