package repositories

import (
	"context"
	"time"

	"github.com/anonto42/vidtube/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PlaylistRepository defines the interface for playlist data operations
type PlaylistRepository interface {
	Create(ctx context.Context, playlist *models.Playlist) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Playlist, error)
	ListByOwner(ctx context.Context, owner primitive.ObjectID) ([]models.Playlist, error)
	UpdateDetails(ctx context.Context, id primitive.ObjectID, name, description string) (*models.Playlist, error)
	AddVideo(ctx context.Context, id, videoID primitive.ObjectID) (*models.Playlist, error)
	RemoveVideo(ctx context.Context, id, videoID primitive.ObjectID) (*models.Playlist, error)
	Delete(ctx context.Context, id primitive.ObjectID) (*models.Playlist, error)
}

// MongoPlaylistRepository implements PlaylistRepository for MongoDB
type MongoPlaylistRepository struct {
	collection *mongo.Collection
}

// NewMongoPlaylistRepository creates a new MongoPlaylistRepository
func NewMongoPlaylistRepository(db *mongo.Database) *MongoPlaylistRepository {
	return &MongoPlaylistRepository{collection: db.Collection(PlaylistsCollection)}
}

// Create inserts a new, empty playlist
func (r *MongoPlaylistRepository) Create(ctx context.Context, playlist *models.Playlist) error {
	now := time.Now()
	playlist.ID = primitive.NewObjectID()
	playlist.CreatedAt = now
	playlist.UpdatedAt = now
	if playlist.Videos == nil {
		playlist.Videos = []primitive.ObjectID{}
	}
	_, err := r.collection.InsertOne(ctx, playlist)
	return mapError(err)
}

// FindByID retrieves a playlist by ID
func (r *MongoPlaylistRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Playlist, error) {
	var playlist models.Playlist
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&playlist); err != nil {
		return nil, mapError(err)
	}
	return &playlist, nil
}

// ListByOwner returns every playlist of a user
func (r *MongoPlaylistRepository) ListByOwner(ctx context.Context, owner primitive.ObjectID) ([]models.Playlist, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"owner": owner}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	playlists := []models.Playlist{}
	if err = cursor.All(ctx, &playlists); err != nil {
		return nil, err
	}
	return playlists, nil
}

// UpdateDetails changes name and description
func (r *MongoPlaylistRepository) UpdateDetails(ctx context.Context, id primitive.ObjectID, name, description string) (*models.Playlist, error) {
	return r.update(ctx, id, bson.M{"$set": bson.M{"name": name, "description": description}})
}

// AddVideo appends a video unless it is already present
func (r *MongoPlaylistRepository) AddVideo(ctx context.Context, id, videoID primitive.ObjectID) (*models.Playlist, error) {
	return r.update(ctx, id, bson.M{"$addToSet": bson.M{"videos": videoID}})
}

// RemoveVideo drops a video from the playlist
func (r *MongoPlaylistRepository) RemoveVideo(ctx context.Context, id, videoID primitive.ObjectID) (*models.Playlist, error) {
	return r.update(ctx, id, bson.M{"$pull": bson.M{"videos": videoID}})
}

// Delete removes a playlist and returns what was deleted
func (r *MongoPlaylistRepository) Delete(ctx context.Context, id primitive.ObjectID) (*models.Playlist, error) {
	var playlist models.Playlist
	if err := r.collection.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&playlist); err != nil {
		return nil, mapError(err)
	}
	return &playlist, nil
}

func (r *MongoPlaylistRepository) update(ctx context.Context, id primitive.ObjectID, update bson.M) (*models.Playlist, error) {
	if set, ok := update["$set"].(bson.M); ok {
		set["updatedAt"] = time.Now()
	} else {
		update["$set"] = bson.M{"updatedAt": time.Now()}
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var playlist models.Playlist
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&playlist); err != nil {
		return nil, mapError(err)
	}
	return &playlist, nil
}
