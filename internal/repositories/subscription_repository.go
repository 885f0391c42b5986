package repositories

import (
	"context"
	"time"

	"github.com/anonto42/vidtube/backend/internal/aggregate"
	"github.com/anonto42/vidtube/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// SubscriptionRepository defines the interface for subscription data operations
type SubscriptionRepository interface {
	Find(ctx context.Context, subscriber, channel primitive.ObjectID) (*models.Subscription, error)
	Create(ctx context.Context, sub *models.Subscription) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	Subscribers(ctx context.Context, channel primitive.ObjectID, opts aggregate.PageOptions) (*aggregate.Page[models.ChannelSubscriber], error)
	SubscribedChannels(ctx context.Context, subscriber primitive.ObjectID, opts aggregate.PageOptions) (*aggregate.Page[models.SubscribedChannel], error)
	CountByChannel(ctx context.Context, channel primitive.ObjectID) (int64, error)
}

// MongoSubscriptionRepository implements SubscriptionRepository for MongoDB
type MongoSubscriptionRepository struct {
	collection *mongo.Collection
}

// NewMongoSubscriptionRepository creates a new MongoSubscriptionRepository
func NewMongoSubscriptionRepository(db *mongo.Database) *MongoSubscriptionRepository {
	return &MongoSubscriptionRepository{collection: db.Collection(SubscriptionsCollection)}
}

// Find retrieves the subscription of subscriber to channel
func (r *MongoSubscriptionRepository) Find(ctx context.Context, subscriber, channel primitive.ObjectID) (*models.Subscription, error) {
	var sub models.Subscription
	filter := bson.M{"subscriber": subscriber, "channel": channel}
	if err := r.collection.FindOne(ctx, filter).Decode(&sub); err != nil {
		return nil, mapError(err)
	}
	return &sub, nil
}

// Create inserts a new subscription
func (r *MongoSubscriptionRepository) Create(ctx context.Context, sub *models.Subscription) error {
	now := time.Now()
	sub.ID = primitive.NewObjectID()
	sub.CreatedAt = now
	sub.UpdatedAt = now
	_, err := r.collection.InsertOne(ctx, sub)
	return mapError(err)
}

// Delete removes a subscription
func (r *MongoSubscriptionRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return mapError(err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SubscribersPipeline lists the subscribers of a channel with their profile.
func SubscribersPipeline(channel primitive.ObjectID) aggregate.Pipeline {
	return aggregate.New(
		aggregate.Match{Filter: bson.M{"channel": channel}},
		aggregate.Lookup{From: UsersCollection, LocalField: "subscriber", ForeignField: "_id", As: "subscriber"},
		aggregate.Unwind{Path: "subscriber"},
		aggregate.Sort{Fields: bson.D{{Key: "_id", Value: 1}}},
		aggregate.Project{Fields: bson.D{
			{Key: "subscriber._id", Value: 1},
			{Key: "subscriber.username", Value: 1},
			{Key: "subscriber.email", Value: 1},
		}},
	)
}

// Subscribers returns one page of a channel's subscribers
func (r *MongoSubscriptionRepository) Subscribers(ctx context.Context, channel primitive.ObjectID, opts aggregate.PageOptions) (*aggregate.Page[models.ChannelSubscriber], error) {
	return aggregate.Paginate[models.ChannelSubscriber](ctx, r.collection, SubscribersPipeline(channel), opts)
}

// SubscribedChannelsPipeline lists the channels a user subscribed to with
// the channel owner's profile.
func SubscribedChannelsPipeline(subscriber primitive.ObjectID) aggregate.Pipeline {
	return aggregate.New(
		aggregate.Match{Filter: bson.M{"subscriber": subscriber}},
		aggregate.Lookup{From: UsersCollection, LocalField: "channel", ForeignField: "_id", As: "Subscribedchannel"},
		aggregate.Unwind{Path: "Subscribedchannel"},
		aggregate.Sort{Fields: bson.D{{Key: "_id", Value: 1}}},
		aggregate.Project{Fields: bson.D{
			{Key: "Subscribedchannel._id", Value: 1},
			{Key: "Subscribedchannel.username", Value: 1},
			{Key: "Subscribedchannel.email", Value: 1},
			{Key: "Subscribedchannel.fullName", Value: 1},
		}},
	)
}

// SubscribedChannels returns one page of the channels a user follows
func (r *MongoSubscriptionRepository) SubscribedChannels(ctx context.Context, subscriber primitive.ObjectID, opts aggregate.PageOptions) (*aggregate.Page[models.SubscribedChannel], error) {
	return aggregate.Paginate[models.SubscribedChannel](ctx, r.collection, SubscribedChannelsPipeline(subscriber), opts)
}

// CountByChannel counts the subscribers of a channel
func (r *MongoSubscriptionRepository) CountByChannel(ctx context.Context, channel primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"channel": channel})
}
