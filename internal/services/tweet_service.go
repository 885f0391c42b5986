package services

import (
	"context"
	"strings"

	"github.com/anonto42/vidtube/backend/internal/apperror"
	"github.com/anonto42/vidtube/backend/internal/auth"
	"github.com/anonto42/vidtube/backend/internal/models"
	"github.com/anonto42/vidtube/backend/internal/repositories"
	"github.com/anonto42/vidtube/backend/internal/validation"
	"go.uber.org/zap"
)

// TweetService implements tweet operations
type TweetService struct {
	tweets repositories.TweetRepository
	logger *zap.Logger
}

// NewTweetService creates a new TweetService
func NewTweetService(tweets repositories.TweetRepository, logger *zap.Logger) *TweetService {
	return &TweetService{tweets: tweets, logger: logger}
}

// Create posts a tweet on the actor's channel
func (s *TweetService) Create(ctx context.Context, actor auth.Identity, content string) (*models.Tweet, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperror.BadRequest("Tweet content not found")
	}
	tweet := &models.Tweet{Content: content, Owner: actor.UserID}
	if err := s.tweets.Create(ctx, tweet); err != nil {
		return nil, apperror.Wrap(err, "Error creating tweet")
	}
	return tweet, nil
}

// ListByUser returns every tweet of a user
func (s *TweetService) ListByUser(ctx context.Context, rawUserID string) ([]models.Tweet, error) {
	userID, err := validation.ParseID(rawUserID, "User")
	if err != nil {
		return nil, err
	}
	tweets, err := s.tweets.ListByOwner(ctx, userID)
	if err != nil {
		return nil, apperror.Wrap(err, "Error fetching tweets")
	}
	if len(tweets) == 0 {
		return nil, apperror.NotFoundf("No tweets found for this user")
	}
	return tweets, nil
}

// Update replaces the content of the actor's tweet
func (s *TweetService) Update(ctx context.Context, actor auth.Identity, rawTweetID, content string) (*models.Tweet, error) {
	tweetID, err := validation.ParseID(rawTweetID, "Tweet")
	if err != nil {
		return nil, err
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperror.BadRequest("Tweet content not found")
	}

	existing, err := s.tweets.FindByID(ctx, tweetID)
	if err != nil {
		return nil, lookupError(err, "Tweet not found")
	}
	if err := auth.Authorize(existing.Owner, actor, "update", "tweet"); err != nil {
		return nil, err
	}

	tweet, err := s.tweets.UpdateContent(ctx, tweetID, content)
	if err != nil {
		return nil, storeError(err, "Error updating tweet")
	}
	return tweet, nil
}

// Delete removes the actor's tweet
func (s *TweetService) Delete(ctx context.Context, actor auth.Identity, rawTweetID string) (*models.Tweet, error) {
	tweetID, err := validation.ParseID(rawTweetID, "Tweet")
	if err != nil {
		return nil, err
	}

	existing, err := s.tweets.FindByID(ctx, tweetID)
	if err != nil {
		return nil, lookupError(err, "Tweet not found")
	}
	if err := auth.Authorize(existing.Owner, actor, "delete", "tweet"); err != nil {
		return nil, err
	}

	deleted, err := s.tweets.Delete(ctx, tweetID)
	if err != nil {
		return nil, storeError(err, "Error deleting tweet")
	}
	return deleted, nil
}
