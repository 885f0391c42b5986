package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Video represents an uploaded video stored in MongoDB
type Video struct {
	ID            primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	VideoFile     string             `json:"videoFile" bson:"videoFile"`
	VideoPublicID string             `json:"-" bson:"videoPublicId,omitempty"`
	Thumbnail     string             `json:"thumbnail" bson:"thumbnail"`
	Title         string             `json:"title" bson:"title"`
	Description   string             `json:"description" bson:"description"`
	Duration      float64            `json:"duration" bson:"duration"`
	Views         int64              `json:"views" bson:"views"`
	IsPublished   bool               `json:"isPublished" bson:"isPublished"`
	Owner         primitive.ObjectID `json:"owner" bson:"owner"`
	CreatedAt     time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// VideoMedia is the set of fields replaced when a video file is swapped.
type VideoMedia struct {
	VideoFile     string
	VideoPublicID string
	Thumbnail     string
	Duration      float64
}

// VideoQuery selects and orders videos for listing.
type VideoQuery struct {
	Query    string
	SortBy   string
	SortDesc bool
}

// VideoDetailsRequest defines the form fields for publishing or updating a video
type VideoDetailsRequest struct {
	Title       string `json:"title" form:"title" validate:"required,max=200"`
	Description string `json:"description" form:"description" validate:"required,max=5000"`
}
