package repositories

import (
	"context"
	"fmt"

	"github.com/anonto42/vidtube/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Collection names
const (
	UsersCollection         = "users"
	VideosCollection        = "videos"
	CommentsCollection      = "comments"
	LikesCollection         = "likes"
	SubscriptionsCollection = "subscriptions"
	TweetsCollection        = "tweets"
	PlaylistsCollection     = "playlists"
)

// IndexSpecs returns the indexes every collection needs, keyed by collection.
// The unique indexes back the one-per-pair rules for comments, likes and
// subscriptions when concurrent requests race past the service checks.
func IndexSpecs() map[string][]mongo.IndexModel {
	likeIndex := func(target models.LikeTarget) mongo.IndexModel {
		field := string(target)
		return mongo.IndexModel{
			Keys: bson.D{{Key: field, Value: 1}, {Key: "likedBy", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetName("uniq_like_" + field).
				SetPartialFilterExpression(bson.M{field: bson.M{"$exists": true}}),
		}
	}

	return map[string][]mongo.IndexModel{
		UsersCollection: {
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true).SetName("uniq_username")},
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetName("uniq_email")},
		},
		VideosCollection: {
			{Keys: bson.D{{Key: "owner", Value: 1}}, Options: options.Index().SetName("owner")},
			{Keys: bson.D{{Key: "title", Value: 1}}, Options: options.Index().SetName("title")},
		},
		CommentsCollection: {
			{Keys: bson.D{{Key: "video", Value: 1}, {Key: "owner", Value: 1}}, Options: options.Index().SetUnique(true).SetName("uniq_video_owner")},
		},
		LikesCollection: {
			likeIndex(models.LikeTargetVideo),
			likeIndex(models.LikeTargetComment),
			likeIndex(models.LikeTargetTweet),
		},
		SubscriptionsCollection: {
			{Keys: bson.D{{Key: "subscriber", Value: 1}, {Key: "channel", Value: 1}}, Options: options.Index().SetUnique(true).SetName("uniq_subscriber_channel")},
			{Keys: bson.D{{Key: "channel", Value: 1}}, Options: options.Index().SetName("channel")},
		},
		TweetsCollection: {
			{Keys: bson.D{{Key: "owner", Value: 1}}, Options: options.Index().SetName("owner")},
		},
		PlaylistsCollection: {
			{Keys: bson.D{{Key: "owner", Value: 1}}, Options: options.Index().SetName("owner")},
		},
	}
}

// EnsureIndexes creates any missing index. It is safe to call on every start.
func EnsureIndexes(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	for name, specs := range IndexSpecs() {
		created, err := db.Collection(name).Indexes().CreateMany(ctx, specs)
		if err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
		logger.Debug("Indexes ensured", zap.String("collection", name), zap.Strings("indexes", created))
	}
	return nil
}
