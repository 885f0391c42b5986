package models

// ChannelStats summarises a channel for its owner's dashboard.
type ChannelStats struct {
	VideoCount             int64 `json:"videoCount"`
	SubscriberCount        int64 `json:"subscriberCount"`
	TotalVideoViews        int64 `json:"totalVideoViews"`
	TotalCommentLikesCount int64 `json:"totalCommentLikesCount"`
	TotalVideoLikesCount   int64 `json:"totalVideoLikesCount"`
	TotalTweetLikesCount   int64 `json:"totalTweetLikesCount"`
}
