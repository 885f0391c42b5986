package repositories

import (
	"context"
	"regexp"
	"time"

	"github.com/anonto42/vidtube/backend/internal/aggregate"
	"github.com/anonto42/vidtube/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// VideoRepository defines the interface for video data operations
type VideoRepository interface {
	Create(ctx context.Context, video *models.Video) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Video, error)
	Search(ctx context.Context, q models.VideoQuery, opts aggregate.PageOptions) (*aggregate.Page[models.Video], error)
	UpdateDetails(ctx context.Context, id primitive.ObjectID, title, description string) (*models.Video, error)
	ReplaceMedia(ctx context.Context, id primitive.ObjectID, title, description string, media models.VideoMedia) (*models.Video, error)
	SetPublished(ctx context.Context, id primitive.ObjectID, published bool) (*models.Video, error)
	IncrementViews(ctx context.Context, id primitive.ObjectID) (*models.Video, error)
	Delete(ctx context.Context, id primitive.ObjectID) (*models.Video, error)
	ListByOwner(ctx context.Context, owner primitive.ObjectID) ([]models.Video, error)
	CountByOwner(ctx context.Context, owner primitive.ObjectID) (int64, error)
	TotalViewsByOwner(ctx context.Context, owner primitive.ObjectID) (int64, error)
}

// MongoVideoRepository implements VideoRepository for MongoDB
type MongoVideoRepository struct {
	collection *mongo.Collection
}

// NewMongoVideoRepository creates a new MongoVideoRepository
func NewMongoVideoRepository(db *mongo.Database) *MongoVideoRepository {
	return &MongoVideoRepository{collection: db.Collection(VideosCollection)}
}

// Create inserts a new video
func (r *MongoVideoRepository) Create(ctx context.Context, video *models.Video) error {
	now := time.Now()
	video.ID = primitive.NewObjectID()
	video.CreatedAt = now
	video.UpdatedAt = now
	_, err := r.collection.InsertOne(ctx, video)
	return mapError(err)
}

// FindByID retrieves a video by ID
func (r *MongoVideoRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Video, error) {
	var video models.Video
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&video); err != nil {
		return nil, mapError(err)
	}
	return &video, nil
}

// SearchPipeline matches titles starting with q.Query, ignoring case, and
// orders them by q.SortBy. Ties are broken by _id so pages are stable.
func SearchPipeline(q models.VideoQuery) aggregate.Pipeline {
	direction := 1
	if q.SortDesc {
		direction = -1
	}
	sortBy := q.SortBy
	if sortBy == "" {
		sortBy = "title"
	}

	sort := bson.D{{Key: sortBy, Value: direction}}
	if sortBy != "_id" {
		sort = append(sort, bson.E{Key: "_id", Value: direction})
	}

	return aggregate.New(
		aggregate.Match{Filter: bson.M{"title": primitive.Regex{
			Pattern: "^" + regexp.QuoteMeta(q.Query),
			Options: "i",
		}}},
		aggregate.Sort{Fields: sort},
	)
}

// Search returns one page of videos matching q
func (r *MongoVideoRepository) Search(ctx context.Context, q models.VideoQuery, opts aggregate.PageOptions) (*aggregate.Page[models.Video], error) {
	return aggregate.Paginate[models.Video](ctx, r.collection, SearchPipeline(q), opts)
}

// UpdateDetails changes title and description
func (r *MongoVideoRepository) UpdateDetails(ctx context.Context, id primitive.ObjectID, title, description string) (*models.Video, error) {
	return r.setAndReturn(ctx, id, bson.M{"$set": bson.M{
		"title":       title,
		"description": description,
	}})
}

// ReplaceMedia points the video at a new upload. The view count restarts
// because it is a different video now.
func (r *MongoVideoRepository) ReplaceMedia(ctx context.Context, id primitive.ObjectID, title, description string, media models.VideoMedia) (*models.Video, error) {
	return r.setAndReturn(ctx, id, bson.M{"$set": bson.M{
		"title":         title,
		"description":   description,
		"videoFile":     media.VideoFile,
		"videoPublicId": media.VideoPublicID,
		"thumbnail":     media.Thumbnail,
		"duration":      media.Duration,
		"views":         int64(0),
	}})
}

// SetPublished changes the publish flag
func (r *MongoVideoRepository) SetPublished(ctx context.Context, id primitive.ObjectID, published bool) (*models.Video, error) {
	return r.setAndReturn(ctx, id, bson.M{"$set": bson.M{"isPublished": published}})
}

// IncrementViews adds one view and returns the updated video
func (r *MongoVideoRepository) IncrementViews(ctx context.Context, id primitive.ObjectID) (*models.Video, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var video models.Video
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"views": 1}}, opts).Decode(&video)
	if err != nil {
		return nil, mapError(err)
	}
	return &video, nil
}

// Delete removes the video and returns what was deleted
func (r *MongoVideoRepository) Delete(ctx context.Context, id primitive.ObjectID) (*models.Video, error) {
	var video models.Video
	if err := r.collection.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&video); err != nil {
		return nil, mapError(err)
	}
	return &video, nil
}

// ListByOwner returns every video of a channel, newest first
func (r *MongoVideoRepository) ListByOwner(ctx context.Context, owner primitive.ObjectID) ([]models.Video, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"owner": owner}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	videos := []models.Video{}
	if err = cursor.All(ctx, &videos); err != nil {
		return nil, err
	}
	return videos, nil
}

// CountByOwner counts the videos of a channel
func (r *MongoVideoRepository) CountByOwner(ctx context.Context, owner primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"owner": owner})
}

// TotalViewsByOwner sums the views over every video of a channel
func (r *MongoVideoRepository) TotalViewsByOwner(ctx context.Context, owner primitive.ObjectID) (int64, error) {
	p := aggregate.New(
		aggregate.Match{Filter: bson.M{"owner": owner}},
		aggregate.Group{ID: nil, Fields: bson.D{{Key: "total", Value: aggregate.Sum(aggregate.Field("views"))}}},
	)
	row, found, err := aggregate.First[totalRow](ctx, r.collection, p)
	if err != nil || !found {
		return 0, err
	}
	return row.Total, nil
}

func (r *MongoVideoRepository) setAndReturn(ctx context.Context, id primitive.ObjectID, update bson.M) (*models.Video, error) {
	if set, ok := update["$set"].(bson.M); ok {
		set["updatedAt"] = time.Now()
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var video models.Video
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&video); err != nil {
		return nil, mapError(err)
	}
	return &video, nil
}

// totalRow decodes a {_id: null, total: n} group result.
type totalRow struct {
	Total int64 `bson:"total"`
}
