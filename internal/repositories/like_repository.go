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

// LikeRepository defines the interface for like data operations
type LikeRepository interface {
	Find(ctx context.Context, target models.LikeTarget, targetID, likedBy primitive.ObjectID) (*models.Like, error)
	Create(ctx context.Context, like *models.Like) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	LikedVideos(ctx context.Context, likedBy primitive.ObjectID, opts aggregate.PageOptions) (*aggregate.Page[models.LikedVideo], error)
	TotalLikesOnOwnedContent(ctx context.Context, target models.LikeTarget, owner primitive.ObjectID) (int64, error)
}

// MongoLikeRepository implements LikeRepository for MongoDB. Video, comment
// and tweet likes share one collection; the populated reference field tells
// them apart.
type MongoLikeRepository struct {
	collection *mongo.Collection
}

// NewMongoLikeRepository creates a new MongoLikeRepository
func NewMongoLikeRepository(db *mongo.Database) *MongoLikeRepository {
	return &MongoLikeRepository{collection: db.Collection(LikesCollection)}
}

// Find retrieves the like a user put on a target
func (r *MongoLikeRepository) Find(ctx context.Context, target models.LikeTarget, targetID, likedBy primitive.ObjectID) (*models.Like, error) {
	var like models.Like
	filter := bson.M{string(target): targetID, "likedBy": likedBy}
	if err := r.collection.FindOne(ctx, filter).Decode(&like); err != nil {
		return nil, mapError(err)
	}
	return &like, nil
}

// Create inserts a new like
func (r *MongoLikeRepository) Create(ctx context.Context, like *models.Like) error {
	now := time.Now()
	like.ID = primitive.NewObjectID()
	like.CreatedAt = now
	like.UpdatedAt = now
	_, err := r.collection.InsertOne(ctx, like)
	return mapError(err)
}

// Delete removes a like
func (r *MongoLikeRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return mapError(err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// LikedVideosPipeline selects the video likes of a user joined with the
// liked video. Likes whose video no longer exists are dropped by the unwind.
func LikedVideosPipeline(likedBy primitive.ObjectID) aggregate.Pipeline {
	return aggregate.New(
		aggregate.Match{Filter: bson.M{
			string(models.LikeTargetVideo): aggregate.Exists(),
			"likedBy":                      likedBy,
		}},
		aggregate.Lookup{From: VideosCollection, LocalField: "video", ForeignField: "_id", As: "video"},
		aggregate.Unwind{Path: "video"},
		aggregate.Sort{Fields: bson.D{{Key: "_id", Value: -1}}},
	)
}

// LikedVideos returns one page of the videos a user liked
func (r *MongoLikeRepository) LikedVideos(ctx context.Context, likedBy primitive.ObjectID, opts aggregate.PageOptions) (*aggregate.Page[models.LikedVideo], error) {
	return aggregate.Paginate[models.LikedVideo](ctx, r.collection, LikedVideosPipeline(likedBy), opts)
}

// OwnedContentLikesPipeline counts likes per target document, joins each
// target, keeps those owned by owner and sums the counts.
func OwnedContentLikesPipeline(target models.LikeTarget, owner primitive.ObjectID) aggregate.Pipeline {
	field := string(target)
	return aggregate.New(
		aggregate.Match{Filter: bson.M{field: aggregate.Exists()}},
		aggregate.Group{ID: aggregate.Field(field), Fields: bson.D{{Key: "likes", Value: aggregate.Sum(1)}}},
		aggregate.Lookup{From: target.Collection(), LocalField: "_id", ForeignField: "_id", As: "content"},
		aggregate.Unwind{Path: "content"},
		aggregate.Match{Filter: bson.M{"content.owner": owner}},
		aggregate.Group{ID: nil, Fields: bson.D{{Key: "total", Value: aggregate.Sum(aggregate.Field("likes"))}}},
	)
}

// TotalLikesOnOwnedContent counts the likes received by the owner's videos,
// comments or tweets
func (r *MongoLikeRepository) TotalLikesOnOwnedContent(ctx context.Context, target models.LikeTarget, owner primitive.ObjectID) (int64, error) {
	row, found, err := aggregate.First[totalRow](ctx, r.collection, OwnedContentLikesPipeline(target, owner))
	if err != nil || !found {
		return 0, err
	}
	return row.Total, nil
}
