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
	"go.uber.org/zap"
)

// SubscriptionService manages who subscribes to which channel
type SubscriptionService struct {
	subscriptions repositories.SubscriptionRepository
	users         repositories.UserRepository
	logger        *zap.Logger
}

// NewSubscriptionService creates a new SubscriptionService
func NewSubscriptionService(subscriptions repositories.SubscriptionRepository, users repositories.UserRepository, logger *zap.Logger) *SubscriptionService {
	return &SubscriptionService{subscriptions: subscriptions, users: users, logger: logger}
}

// Toggle subscribes the actor to the channel, or unsubscribes if already
// subscribed. subscribed reports the state after the call.
func (s *SubscriptionService) Toggle(ctx context.Context, actor auth.Identity, rawChannelID string) (sub *models.Subscription, subscribed bool, err error) {
	channelID, err := validation.ParseID(rawChannelID, "Channel")
	if err != nil {
		return nil, false, err
	}
	if _, err := s.users.FindByID(ctx, channelID); err != nil {
		return nil, false, lookupError(err, "Channel not found")
	}

	existing, err := s.subscriptions.Find(ctx, actor.UserID, channelID)
	switch {
	case err == nil:
		if err := s.subscriptions.Delete(ctx, existing.ID); err != nil && !errors.Is(err, repositories.ErrNotFound) {
			return nil, false, apperror.Wrap(err, "Error unsubscribing")
		}
		return existing, false, nil
	case !errors.Is(err, repositories.ErrNotFound):
		return nil, false, apperror.Wrap(err, "Error subscribing")
	}

	sub = &models.Subscription{Subscriber: actor.UserID, Channel: channelID}
	if err := s.subscriptions.Create(ctx, sub); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			current, findErr := s.subscriptions.Find(ctx, actor.UserID, channelID)
			if findErr == nil {
				return current, true, nil
			}
		}
		return nil, false, apperror.Wrap(err, "Error subscribing")
	}
	return sub, true, nil
}

// Subscribers returns one page of the channel's subscribers
func (s *SubscriptionService) Subscribers(ctx context.Context, rawChannelID string, opts aggregate.PageOptions) (*aggregate.Page[models.ChannelSubscriber], error) {
	channelID, err := validation.ParseID(rawChannelID, "Channel")
	if err != nil {
		return nil, err
	}
	page, err := s.subscriptions.Subscribers(ctx, channelID, opts)
	if err != nil {
		return nil, apperror.Wrap(err, "Error fetching subscribers")
	}
	if page.Empty() {
		return nil, apperror.NotFoundf("No subscribers found for this channel")
	}
	return page, nil
}

// SubscribedChannels returns one page of the channels a user subscribed to
func (s *SubscriptionService) SubscribedChannels(ctx context.Context, rawSubscriberID string, opts aggregate.PageOptions) (*aggregate.Page[models.SubscribedChannel], error) {
	subscriberID, err := validation.ParseID(rawSubscriberID, "Subscriber")
	if err != nil {
		return nil, err
	}
	page, err := s.subscriptions.SubscribedChannels(ctx, subscriberID, opts)
	if err != nil {
		return nil, apperror.Wrap(err, "Error fetching subscribed channels")
	}
	if page.Empty() {
		return nil, apperror.NotFoundf("No channels found for this subscriber")
	}
	return page, nil
}
