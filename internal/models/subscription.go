package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Subscription links a subscriber to a channel. Both sides are users.
type Subscription struct {
	ID         primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Subscriber primitive.ObjectID `json:"subscriber" bson:"subscriber"`
	Channel    primitive.ObjectID `json:"channel" bson:"channel"`
	CreatedAt  time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// ChannelSubscriber is a subscription joined with the subscribing user.
type ChannelSubscriber struct {
	ID         primitive.ObjectID `json:"_id" bson:"_id"`
	Subscriber UserSummary        `json:"subscriber" bson:"subscriber"`
}

// SubscribedChannel is a subscription joined with the channel's user.
type SubscribedChannel struct {
	ID                primitive.ObjectID `json:"_id" bson:"_id"`
	SubscribedChannel UserSummary        `json:"Subscribedchannel" bson:"Subscribedchannel"`
}
