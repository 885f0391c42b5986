package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LikeTarget names the kind of content a like points at. The value doubles as
// the document field holding the reference.
type LikeTarget string

const (
	LikeTargetVideo   LikeTarget = "video"
	LikeTargetComment LikeTarget = "comment"
	LikeTargetTweet   LikeTarget = "tweet"
)

// Collection returns the collection the target lives in.
func (t LikeTarget) Collection() string {
	return string(t) + "s"
}

// Like represents a like on exactly one of a video, a comment or a tweet.
type Like struct {
	ID        primitive.ObjectID  `json:"_id" bson:"_id,omitempty"`
	Video     *primitive.ObjectID `json:"video,omitempty" bson:"video,omitempty"`
	Comment   *primitive.ObjectID `json:"comment,omitempty" bson:"comment,omitempty"`
	Tweet     *primitive.ObjectID `json:"tweet,omitempty" bson:"tweet,omitempty"`
	LikedBy   primitive.ObjectID  `json:"likedBy" bson:"likedBy"`
	CreatedAt time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time           `json:"updatedAt" bson:"updatedAt"`
}

// NewLike builds a like on the given target.
func NewLike(target LikeTarget, targetID, likedBy primitive.ObjectID) *Like {
	like := &Like{LikedBy: likedBy}
	id := targetID
	switch target {
	case LikeTargetVideo:
		like.Video = &id
	case LikeTargetComment:
		like.Comment = &id
	case LikeTargetTweet:
		like.Tweet = &id
	}
	return like
}

// LikedVideo is a like joined with the video it points at.
type LikedVideo struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id"`
	Video     Video              `json:"video" bson:"video"`
	LikedBy   primitive.ObjectID `json:"likedBy" bson:"likedBy"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}
