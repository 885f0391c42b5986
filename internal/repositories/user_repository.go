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

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error)
	SetRefreshToken(ctx context.Context, id primitive.ObjectID, token string) error
	SetPassword(ctx context.Context, id primitive.ObjectID, hash string) error
	UpdateAccount(ctx context.Context, id primitive.ObjectID, username, email string) (*models.User, error)
	SetAvatar(ctx context.Context, id primitive.ObjectID, url, publicID string) (*models.User, error)
	SetCoverImage(ctx context.Context, id primitive.ObjectID, url, publicID string) (*models.User, error)
	AddToWatchHistory(ctx context.Context, id, videoID primitive.ObjectID) error
	ChannelProfile(ctx context.Context, username string, viewer primitive.ObjectID) (*models.ChannelProfile, error)
	WatchHistory(ctx context.Context, id primitive.ObjectID) (*models.WatchHistory, error)
}

// MongoUserRepository implements UserRepository for MongoDB
type MongoUserRepository struct {
	collection *mongo.Collection
}

// NewMongoUserRepository creates a new MongoUserRepository
func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{collection: db.Collection(UsersCollection)}
}

// Create inserts a new user
func (r *MongoUserRepository) Create(ctx context.Context, user *models.User) error {
	now := time.Now()
	user.ID = primitive.NewObjectID()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.WatchHistory == nil {
		user.WatchHistory = []primitive.ObjectID{}
	}
	_, err := r.collection.InsertOne(ctx, user)
	return mapError(err)
}

// FindByID retrieves a user by ID
func (r *MongoUserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		return nil, mapError(err)
	}
	return &user, nil
}

// FindByUsernameOrEmail retrieves the user matching either value. Empty
// values are ignored.
func (r *MongoUserRepository) FindByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error) {
	var or bson.A
	if username != "" {
		or = append(or, bson.M{"username": username})
	}
	if email != "" {
		or = append(or, bson.M{"email": email})
	}
	if len(or) == 0 {
		return nil, ErrNotFound
	}

	var user models.User
	if err := r.collection.FindOne(ctx, bson.M{"$or": or}).Decode(&user); err != nil {
		return nil, mapError(err)
	}
	return &user, nil
}

// SetRefreshToken stores the active refresh token. An empty token logs the user out.
func (r *MongoUserRepository) SetRefreshToken(ctx context.Context, id primitive.ObjectID, token string) error {
	return r.set(ctx, id, bson.M{"refreshToken": token})
}

// SetPassword replaces the password hash
func (r *MongoUserRepository) SetPassword(ctx context.Context, id primitive.ObjectID, hash string) error {
	return r.set(ctx, id, bson.M{"password": hash})
}

// UpdateAccount changes username and email
func (r *MongoUserRepository) UpdateAccount(ctx context.Context, id primitive.ObjectID, username, email string) (*models.User, error) {
	return r.setAndReturn(ctx, id, bson.M{"username": username, "email": email})
}

// SetAvatar points the user at a new avatar
func (r *MongoUserRepository) SetAvatar(ctx context.Context, id primitive.ObjectID, url, publicID string) (*models.User, error) {
	return r.setAndReturn(ctx, id, bson.M{"avatar": url, "avatarPublicId": publicID})
}

// SetCoverImage points the user at a new cover image
func (r *MongoUserRepository) SetCoverImage(ctx context.Context, id primitive.ObjectID, url, publicID string) (*models.User, error) {
	return r.setAndReturn(ctx, id, bson.M{"coverImage": url, "coverImagePublicId": publicID})
}

// AddToWatchHistory moves the video to the end of the user's history so each
// video appears once, most recent last.
func (r *MongoUserRepository) AddToWatchHistory(ctx context.Context, id, videoID primitive.ObjectID) error {
	filter := bson.M{"_id": id}
	if _, err := r.collection.UpdateOne(ctx, filter, bson.M{"$pull": bson.M{"watchHistory": videoID}}); err != nil {
		return mapError(err)
	}
	res, err := r.collection.UpdateOne(ctx, filter, bson.M{"$push": bson.M{"watchHistory": videoID}})
	if err != nil {
		return mapError(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ChannelProfile loads a channel by username with its subscription counts and
// whether viewer is subscribed to it.
func (r *MongoUserRepository) ChannelProfile(ctx context.Context, username string, viewer primitive.ObjectID) (*models.ChannelProfile, error) {
	p := aggregate.New(
		aggregate.Match{Filter: bson.M{"username": username}},
		aggregate.Lookup{From: SubscriptionsCollection, LocalField: "_id", ForeignField: "channel", As: "subscribers"},
		aggregate.Lookup{From: SubscriptionsCollection, LocalField: "_id", ForeignField: "subscriber", As: "subscribedTo"},
		aggregate.AddFields{Fields: bson.D{
			{Key: "totalSubscribers", Value: bson.M{"$size": "$subscribers"}},
			{Key: "totalSubscribedChannels", Value: bson.M{"$size": "$subscribedTo"}},
			{Key: "hasSubscribedToChannel", Value: bson.M{"$in": bson.A{viewer, "$subscribers.subscriber"}}},
		}},
		aggregate.Project{Fields: bson.D{
			{Key: "fullName", Value: 1},
			{Key: "username", Value: 1},
			{Key: "email", Value: 1},
			{Key: "avatar", Value: 1},
			{Key: "coverImage", Value: 1},
			{Key: "totalSubscribers", Value: 1},
			{Key: "totalSubscribedChannels", Value: 1},
			{Key: "hasSubscribedToChannel", Value: 1},
		}},
	)

	profile, found, err := aggregate.First[models.ChannelProfile](ctx, r.collection, p)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNotFound
	}
	return &profile, nil
}

// WatchHistory loads the user's watched videos, each joined with its owner.
func (r *MongoUserRepository) WatchHistory(ctx context.Context, id primitive.ObjectID) (*models.WatchHistory, error) {
	ownerSummary := aggregate.New(
		aggregate.Project{Fields: bson.D{
			{Key: "fullName", Value: 1},
			{Key: "username", Value: 1},
			{Key: "avatar", Value: 1},
		}},
	)
	videos := aggregate.New(
		aggregate.Lookup{From: UsersCollection, LocalField: "owner", ForeignField: "_id", As: "owner", Pipeline: ownerSummary},
		aggregate.AddFields{Fields: bson.D{{Key: "owner", Value: bson.M{"$first": "$owner"}}}},
		aggregate.Project{Fields: bson.D{
			{Key: "title", Value: 1},
			{Key: "videoFile", Value: 1},
			{Key: "thumbnail", Value: 1},
			{Key: "owner", Value: 1},
		}},
	)
	p := aggregate.New(
		aggregate.Match{Filter: bson.M{"_id": id}},
		aggregate.Lookup{From: VideosCollection, LocalField: "watchHistory", ForeignField: "_id", As: "watchHistory", Pipeline: videos},
		aggregate.Project{Fields: bson.D{
			{Key: "fullName", Value: 1},
			{Key: "username", Value: 1},
			{Key: "avatar", Value: 1},
			{Key: "watchHistory", Value: 1},
		}},
	)

	history, found, err := aggregate.First[models.WatchHistory](ctx, r.collection, p)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNotFound
	}
	if history.WatchHistory == nil {
		history.WatchHistory = []models.WatchedVideo{}
	}
	return &history, nil
}

func (r *MongoUserRepository) set(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	fields["updatedAt"] = time.Now()
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return mapError(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoUserRepository) setAndReturn(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.User, error) {
	fields["updatedAt"] = time.Now()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var user models.User
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": fields}, opts).Decode(&user)
	if err != nil {
		return nil, mapError(err)
	}
	return &user, nil
}
