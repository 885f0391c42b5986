package repositories

import (
	"context"
	"time"

	"github.com/anonto42/vidtube/backend/internal/aggregate"
	"github.com/anonto42/vidtube/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Comment, error)
	FindByVideoAndOwner(ctx context.Context, videoID, owner primitive.ObjectID) (*models.Comment, error)
	ListByVideo(ctx context.Context, videoID primitive.ObjectID, opts aggregate.PageOptions) (*aggregate.Page[models.Comment], error)
	UpdateContent(ctx context.Context, id primitive.ObjectID, content string) (*models.Comment, error)
	Delete(ctx context.Context, id primitive.ObjectID) (*models.Comment, error)
}

// MongoCommentRepository implements CommentRepository for MongoDB
type MongoCommentRepository struct {
	collection *mongo.Collection
}

// NewMongoCommentRepository creates a new MongoCommentRepository
func NewMongoCommentRepository(db *mongo.Database) *MongoCommentRepository {
	return &MongoCommentRepository{collection: db.Collection(CommentsCollection)}
}

// Create inserts a new comment
func (r *MongoCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	now := time.Now()
	comment.ID = primitive.NewObjectID()
	comment.CreatedAt = now
	comment.UpdatedAt = now
	_, err := r.collection.InsertOne(ctx, comment)
	return mapError(err)
}

// FindByID retrieves a comment by ID
func (r *MongoCommentRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Comment, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// FindByVideoAndOwner retrieves the comment a user left on a video
func (r *MongoCommentRepository) FindByVideoAndOwner(ctx context.Context, videoID, owner primitive.ObjectID) (*models.Comment, error) {
	return r.findOne(ctx, bson.M{"video": videoID, "owner": owner})
}

// CommentsByVideoPipeline selects the comments of one video in insertion order.
func CommentsByVideoPipeline(videoID primitive.ObjectID) aggregate.Pipeline {
	return aggregate.New(
		aggregate.Match{Filter: bson.M{"video": videoID}},
		aggregate.Sort{Fields: bson.D{{Key: "_id", Value: 1}}},
	)
}

// ListByVideo returns one page of a video's comments
func (r *MongoCommentRepository) ListByVideo(ctx context.Context, videoID primitive.ObjectID, opts aggregate.PageOptions) (*aggregate.Page[models.Comment], error) {
	return aggregate.Paginate[models.Comment](ctx, r.collection, CommentsByVideoPipeline(videoID), opts)
}

// UpdateContent replaces the text of a comment
func (r *MongoCommentRepository) UpdateContent(ctx context.Context, id primitive.ObjectID, content string) (*models.Comment, error) {
	update := bson.M{"$set": bson.M{"content": content, "updatedAt": time.Now()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var comment models.Comment
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&comment); err != nil {
		return nil, mapError(err)
	}
	return &comment, nil
}

// Delete removes a comment and returns what was deleted
func (r *MongoCommentRepository) Delete(ctx context.Context, id primitive.ObjectID) (*models.Comment, error) {
	var comment models.Comment
	if err := r.collection.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&comment); err != nil {
		return nil, mapError(err)
	}
	return &comment, nil
}

func (r *MongoCommentRepository) findOne(ctx context.Context, filter bson.M) (*models.Comment, error) {
	var comment models.Comment
	if err := r.collection.FindOne(ctx, filter).Decode(&comment); err != nil {
		return nil, mapError(err)
	}
	return &comment, nil
}
