package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/anonto42/vidtube/backend/internal/aggregate"
	"github.com/anonto42/vidtube/backend/internal/apperror"
	"github.com/anonto42/vidtube/backend/internal/auth"
	"github.com/anonto42/vidtube/backend/internal/cache"
	"github.com/anonto42/vidtube/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type testEnv struct {
	w             *world
	media         *fakeMedia
	users         *UserService
	videos        *VideoService
	comments      *CommentService
	likes         *LikeService
	subscriptions *SubscriptionService
	tweets        *TweetService
	playlists     *PlaylistService
	dashboard     *DashboardService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	w := newWorld()
	m := newFakeMedia()
	log := zap.NewNop()
	return &testEnv{
		w:             w,
		media:         m,
		users:         NewUserService(fakeUsers{w}, m, log),
		videos:        NewVideoService(fakeVideos{w}, fakeUsers{w}, m, log),
		comments:      NewCommentService(fakeComments{w}, fakeVideos{w}, log),
		likes:         NewLikeService(fakeLikes{w}, fakeVideos{w}, fakeComments{w}, fakeTweets{w}, log),
		subscriptions: NewSubscriptionService(fakeSubscriptions{w}, fakeUsers{w}, log),
		tweets:        NewTweetService(fakeTweets{w}, log),
		playlists:     NewPlaylistService(fakePlaylists{w}, fakeVideos{w}, log),
		dashboard:     NewDashboardService(fakeVideos{w}, fakeSubscriptions{w}, fakeLikes{w}, nil, log),
	}
}

func identity(u *models.User) auth.Identity {
	return auth.IdentityOf(u)
}

func assertKind(t *testing.T, err error, kind apperror.Kind) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, kind, apperror.KindOf(err), err.Error())
}

var defaultPage = aggregate.PageOptions{Page: 1, Limit: 10}

func TestMalformedIdentifiersNeverReachTheStore(t *testing.T) {
	env := newTestEnv(t)
	alice := env.w.addUser("alice")
	actor := identity(alice)
	ctx := context.Background()
	before := env.w.callCount()

	bad := []string{"", "123", "zzzzzzzzzzzzzzzzzzzzzzzz", "65a1b2c3d4e5f60718293a4"}
	for _, raw := range bad {
		calls := []func() error{
			func() error { _, err := env.videos.View(ctx, raw, actor); return err },
			func() error {
				_, _, err := env.videos.Update(ctx, actor, raw, models.VideoDetailsRequest{Title: "t", Description: "d"}, "")
				return err
			},
			func() error { _, err := env.videos.Delete(ctx, actor, raw); return err },
			func() error { _, err := env.videos.TogglePublish(ctx, actor, raw); return err },
			func() error { _, err := env.comments.ListByVideo(ctx, raw, defaultPage); return err },
			func() error { _, err := env.comments.Add(ctx, actor, raw, "hi"); return err },
			func() error { _, err := env.comments.Update(ctx, actor, raw, "hi"); return err },
			func() error { _, err := env.comments.Delete(ctx, actor, raw); return err },
			func() error { _, _, err := env.likes.Toggle(ctx, actor, models.LikeTargetVideo, raw); return err },
			func() error { _, _, err := env.likes.Toggle(ctx, actor, models.LikeTargetComment, raw); return err },
			func() error { _, _, err := env.likes.Toggle(ctx, actor, models.LikeTargetTweet, raw); return err },
			func() error { _, _, err := env.subscriptions.Toggle(ctx, actor, raw); return err },
			func() error { _, err := env.subscriptions.Subscribers(ctx, raw, defaultPage); return err },
			func() error { _, err := env.subscriptions.SubscribedChannels(ctx, raw, defaultPage); return err },
			func() error { _, err := env.tweets.ListByUser(ctx, raw); return err },
			func() error { _, err := env.tweets.Update(ctx, actor, raw, "x"); return err },
			func() error { _, err := env.tweets.Delete(ctx, actor, raw); return err },
			func() error { _, err := env.playlists.ListByUser(ctx, raw); return err },
			func() error { _, err := env.playlists.Get(ctx, raw); return err },
			func() error { _, err := env.playlists.AddVideo(ctx, actor, raw, raw); return err },
			func() error { _, err := env.playlists.RemoveVideo(ctx, actor, raw, raw); return err },
			func() error {
				_, err := env.playlists.Update(ctx, actor, raw, models.PlaylistRequest{Name: "n", Description: "d"})
				return err
			},
			func() error { _, err := env.playlists.Delete(ctx, actor, raw); return err },
		}
		for i, call := range calls {
			err := call()
			require.Error(t, err, "call %d with %q", i, raw)
			assert.Equal(t, apperror.BadInput, apperror.KindOf(err), "call %d with %q: %v", i, raw, err)
		}
	}
	assert.Equal(t, before, env.w.callCount())
}

func TestMalformedIdentifierMessage(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.comments.ListByVideo(context.Background(), "nope", defaultPage)
	assert.EqualError(t, err, "Video Id is not an ObjectId")
}

func TestToggleLikeTwiceRestoresState(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.w.addUser("alice")
	video := env.w.addVideo(alice.ID, "intro")

	for _, target := range []models.LikeTarget{models.LikeTargetVideo, models.LikeTargetComment, models.LikeTargetTweet} {
		var rawID string
		switch target {
		case models.LikeTargetVideo:
			rawID = video.ID.Hex()
		case models.LikeTargetComment:
			c, err := env.comments.Add(ctx, identity(alice), video.ID.Hex(), "nice")
			require.NoError(t, err)
			rawID = c.ID.Hex()
		case models.LikeTargetTweet:
			tw, err := env.tweets.Create(ctx, identity(alice), "hello")
			require.NoError(t, err)
			rawID = tw.ID.Hex()
		}

		before := len(env.w.likes)
		like, liked, err := env.likes.Toggle(ctx, identity(alice), target, rawID)
		require.NoError(t, err)
		assert.True(t, liked)
		assert.Equal(t, alice.ID, like.LikedBy)
		assert.Len(t, env.w.likes, before+1)

		_, liked, err = env.likes.Toggle(ctx, identity(alice), target, rawID)
		require.NoError(t, err)
		assert.False(t, liked)
		assert.Len(t, env.w.likes, before)
	}
}

func TestToggleLikeOnMissingTarget(t *testing.T) {
	env := newTestEnv(t)
	alice := env.w.addUser("alice")
	_, _, err := env.likes.Toggle(context.Background(), identity(alice), models.LikeTargetTweet, primitive.NewObjectID().Hex())
	assertKind(t, err, apperror.NotFound)
	assert.EqualError(t, err, "Tweet not found")
}

func TestToggleSubscriptionTwiceRestoresState(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.w.addUser("alice")
	bob := env.w.addUser("bob")

	sub, subscribed, err := env.subscriptions.Toggle(ctx, identity(alice), bob.ID.Hex())
	require.NoError(t, err)
	assert.True(t, subscribed)
	assert.Equal(t, bob.ID, sub.Channel)

	page, err := env.subscriptions.Subscribers(ctx, bob.ID.Hex(), defaultPage)
	require.NoError(t, err)
	require.Len(t, page.Docs, 1)
	assert.Equal(t, "alice", page.Docs[0].Subscriber.Username)

	channels, err := env.subscriptions.SubscribedChannels(ctx, alice.ID.Hex(), defaultPage)
	require.NoError(t, err)
	assert.Equal(t, "bob", channels.Docs[0].SubscribedChannel.Username)

	_, subscribed, err = env.subscriptions.Toggle(ctx, identity(alice), bob.ID.Hex())
	require.NoError(t, err)
	assert.False(t, subscribed)
	assert.Empty(t, env.w.subscriptions)

	_, err = env.subscriptions.Subscribers(ctx, bob.ID.Hex(), defaultPage)
	assertKind(t, err, apperror.NotFound)
}

func TestSubscribeToMissingChannel(t *testing.T) {
	env := newTestEnv(t)
	alice := env.w.addUser("alice")
	_, _, err := env.subscriptions.Toggle(context.Background(), identity(alice), primitive.NewObjectID().Hex())
	assert.EqualError(t, err, "Channel not found")
}

func TestDuplicateCommentIsConflict(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.w.addUser("alice")
	video := env.w.addVideo(alice.ID, "intro")

	_, err := env.comments.Add(ctx, identity(alice), video.ID.Hex(), "first")
	require.NoError(t, err)

	_, err = env.comments.Add(ctx, identity(alice), video.ID.Hex(), "second")
	assertKind(t, err, apperror.Conflict)
	assert.EqualError(t, err, "Comment for this video for this user already exists")
	assert.Len(t, env.w.comments, 1)
}

func TestCommentOwnership(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.w.addUser("alice")
	mallory := env.w.addUser("mallory")
	video := env.w.addVideo(alice.ID, "intro")

	comment, err := env.comments.Add(ctx, identity(alice), video.ID.Hex(), "first")
	require.NoError(t, err)

	_, err = env.comments.Update(ctx, identity(mallory), comment.ID.Hex(), "hijack")
	assertKind(t, err, apperror.Forbidden)
	assert.EqualError(t, err, "You are not authorized to update this comment as you are not the owner")

	_, err = env.comments.Delete(ctx, identity(mallory), comment.ID.Hex())
	assertKind(t, err, apperror.Forbidden)
	assert.Equal(t, "first", env.w.comments[comment.ID].Content)

	updated, err := env.comments.Update(ctx, identity(alice), comment.ID.Hex(), "edited")
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Content)

	_, err = env.comments.Delete(ctx, identity(alice), comment.ID.Hex())
	require.NoError(t, err)
	assert.Empty(t, env.w.comments)
}

func TestListCommentsPagination(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	video := env.w.addVideo(primitive.NewObjectID(), "intro")

	_, err := env.comments.ListByVideo(ctx, video.ID.Hex(), defaultPage)
	assertKind(t, err, apperror.NotFound)
	assert.EqualError(t, err, "No comments found for this video")

	for i := 0; i < 15; i++ {
		u := env.w.addUser(primitive.NewObjectID().Hex())
		_, err := env.comments.Add(ctx, identity(u), video.ID.Hex(), "c")
		require.NoError(t, err)
	}

	page, err := env.comments.ListByVideo(ctx, video.ID.Hex(), aggregate.PageOptions{Page: 2, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, page.Docs, 5)
	assert.Equal(t, int64(15), page.TotalDocs)
	assert.True(t, page.HasPrevPage)
	assert.False(t, page.HasNextPage)
}

func TestRegisterWithoutAvatarWritesNothing(t *testing.T) {
	env := newTestEnv(t)
	req := models.RegisterUserRequest{FullName: "Alice", Email: "alice@example.com", Username: "Alice", Password: "secret-pass"}

	_, err := env.users.Register(context.Background(), req, "", "")
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.BadInput, appErr.Kind)
	assert.Equal(t, apperror.StatusAvatarMissing, appErr.StatusCode)
	assert.Equal(t, "Avatar File is missing", appErr.Message)
	assert.Empty(t, env.w.users)
	assert.Empty(t, env.media.uploads)
}

func TestRegister(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	req := models.RegisterUserRequest{FullName: "Alice", Email: "alice@example.com", Username: "Alice", Password: "secret-pass"}

	user, err := env.users.Register(ctx, req, "/tmp/avatar.png", "/tmp/cover.png")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.NotEqual(t, "secret-pass", user.Password)
	assert.Equal(t, "image-1", user.AvatarPublicID)
	assert.Equal(t, "image-2", user.CoverImagePublicID)

	_, err = env.users.Register(ctx, req, "/tmp/avatar.png", "")
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.Conflict, appErr.Kind)
	assert.Equal(t, apperror.StatusUserExists, appErr.StatusCode)

	_, err = env.users.Register(ctx, models.RegisterUserRequest{Email: "x@example.com"}, "/tmp/a.png", "")
	assert.EqualError(t, err, "All fields are required")
}

func TestRegisterCompensatesFailedCreate(t *testing.T) {
	env := newTestEnv(t)
	env.w.failUserCreate = errors.New("write failed")
	req := models.RegisterUserRequest{FullName: "Alice", Email: "alice@example.com", Username: "alice", Password: "secret-pass"}

	_, err := env.users.Register(context.Background(), req, "/tmp/avatar.png", "/tmp/cover.png")
	assertKind(t, err, apperror.Internal)
	assert.ElementsMatch(t, env.media.uploads, env.media.deleted)
}

func TestRegisterAvatarUploadFailure(t *testing.T) {
	env := newTestEnv(t)
	env.media.failPaths["/tmp/avatar.png"] = errors.New("cdn down")
	req := models.RegisterUserRequest{FullName: "Alice", Email: "alice@example.com", Username: "alice", Password: "secret-pass"}

	_, err := env.users.Register(context.Background(), req, "/tmp/avatar.png", "")
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.UpstreamFailure, appErr.Kind)
	assert.Equal(t, "Failed to upload avatar", appErr.Message)
	assert.Empty(t, env.w.users)
}

func TestUpdateAvatarDeletesPreviousAfterSwitch(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.w.addUser("alice")
	alice.Avatar = "https://cdn.test/image/old-avatar.png"

	user, err := env.users.UpdateAvatar(ctx, identity(alice), "/tmp/new.png")
	require.NoError(t, err)
	assert.Equal(t, "image-1", user.AvatarPublicID)
	assert.Equal(t, []string{"upload:image-1", "delete:old-avatar"}, env.media.events)

	_, err = env.users.UpdateAvatar(ctx, identity(alice), "")
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.StatusFieldRequired, appErr.StatusCode)
}

func TestUpdateAccountRequiresBothFields(t *testing.T) {
	env := newTestEnv(t)
	alice := env.w.addUser("alice")

	_, err := env.users.UpdateAccount(context.Background(), identity(alice), "alice2", "")
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.StatusFieldRequired, appErr.StatusCode)

	user, err := env.users.UpdateAccount(context.Background(), identity(alice), "Alice2", "a2@example.com")
	require.NoError(t, err)
	assert.Equal(t, "alice2", user.Username)
}

func TestChannelProfile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.w.addUser("alice")
	bob := env.w.addUser("bob")
	_, _, err := env.subscriptions.Toggle(ctx, identity(bob), alice.ID.Hex())
	require.NoError(t, err)

	profile, err := env.users.ChannelProfile(ctx, "ALICE", identity(bob))
	require.NoError(t, err)
	assert.Equal(t, int64(1), profile.TotalSubscribers)
	assert.True(t, profile.HasSubscribedToChannel)

	profile, err = env.users.ChannelProfile(ctx, "alice", auth.Identity{})
	require.NoError(t, err)
	assert.False(t, profile.HasSubscribedToChannel)

	_, err = env.users.ChannelProfile(ctx, "carol", auth.Identity{})
	assert.EqualError(t, err, "Channel not found")
}

func TestPublishVideo(t *testing.T) {
	env := newTestEnv(t)
	alice := env.w.addUser("alice")

	video, err := env.videos.Publish(context.Background(), identity(alice),
		models.VideoDetailsRequest{Title: "Intro", Description: "first"}, "/tmp/intro.mp4")
	require.NoError(t, err)
	assert.Equal(t, int64(0), video.Views)
	assert.True(t, video.IsPublished)
	assert.Equal(t, alice.ID, video.Owner)
	assert.Equal(t, "https://cdn.test/video/video-1.bin", video.VideoFile)
	assert.Equal(t, "https://cdn.test/thumb/video-1.jpg", video.Thumbnail)
	assert.Equal(t, 12.5, video.Duration)

	_, err = env.videos.Publish(context.Background(), identity(alice), models.VideoDetailsRequest{Title: "x", Description: "y"}, "")
	assert.EqualError(t, err, "Video file is required")
}

func TestPublishCompensatesFailedCreate(t *testing.T) {
	env := newTestEnv(t)
	env.w.failVideoCreate = errors.New("write failed")
	alice := env.w.addUser("alice")

	_, err := env.videos.Publish(context.Background(), identity(alice),
		models.VideoDetailsRequest{Title: "Intro", Description: "first"}, "/tmp/intro.mp4")
	assertKind(t, err, apperror.Internal)
	assert.Equal(t, []string{"upload:video-1", "delete:video-1"}, env.media.events)
}

func TestUpdateVideoReplacingFileDeletesOldAfterUpdate(t *testing.T) {
	env := newTestEnv(t)
	alice := env.w.addUser("alice")
	video := env.w.addVideo(alice.ID, "intro")
	video.Views = 7

	updated, replaced, err := env.videos.Update(context.Background(), identity(alice), video.ID.Hex(),
		models.VideoDetailsRequest{Title: "Intro v2", Description: "again"}, "/tmp/v2.mp4")
	require.NoError(t, err)
	assert.True(t, replaced)
	assert.Equal(t, "video-1", updated.VideoPublicID)
	assert.Equal(t, int64(0), updated.Views)
	assert.Equal(t, []string{"upload:video-1", "delete:pid-intro"}, env.media.events)
}

func TestUpdateVideoFailureKeepsOldMedia(t *testing.T) {
	env := newTestEnv(t)
	alice := env.w.addUser("alice")
	video := env.w.addVideo(alice.ID, "intro")
	env.w.failVideoUpdate = errors.New("write failed")

	_, _, err := env.videos.Update(context.Background(), identity(alice), video.ID.Hex(),
		models.VideoDetailsRequest{Title: "Intro v2", Description: "again"}, "/tmp/v2.mp4")
	require.Error(t, err)
	assert.Equal(t, []string{"upload:video-1", "delete:video-1"}, env.media.events)
	assert.Equal(t, "pid-intro", env.w.videos[video.ID].VideoPublicID)
}

func TestUpdateVideoByOtherUserIsForbidden(t *testing.T) {
	env := newTestEnv(t)
	alice := env.w.addUser("alice")
	mallory := env.w.addUser("mallory")
	video := env.w.addVideo(alice.ID, "intro")

	_, _, err := env.videos.Update(context.Background(), identity(mallory), video.ID.Hex(),
		models.VideoDetailsRequest{Title: "pwned", Description: "x"}, "/tmp/v2.mp4")
	assertKind(t, err, apperror.Forbidden)
	assert.Empty(t, env.media.events)

	_, err = env.videos.Delete(context.Background(), identity(mallory), video.ID.Hex())
	assertKind(t, err, apperror.Forbidden)
	_, err = env.videos.TogglePublish(context.Background(), identity(mallory), video.ID.Hex())
	assertKind(t, err, apperror.Forbidden)
}

func TestDeleteAndTogglePublish(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.w.addUser("alice")
	video := env.w.addVideo(alice.ID, "intro")

	toggled, err := env.videos.TogglePublish(ctx, identity(alice), video.ID.Hex())
	require.NoError(t, err)
	assert.False(t, toggled.IsPublished)

	_, err = env.videos.Delete(ctx, identity(alice), video.ID.Hex())
	require.NoError(t, err)
	assert.Empty(t, env.w.videos)
	assert.Equal(t, []string{"delete:pid-intro"}, env.media.events)
}

func TestViewCountsAndRecordsHistory(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.w.addUser("alice")
	video := env.w.addVideo(alice.ID, "intro")
	other := env.w.addVideo(alice.ID, "outro")

	got, err := env.videos.View(ctx, video.ID.Hex(), auth.Identity{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Views)
	assert.Empty(t, env.w.users[alice.ID].WatchHistory)

	for _, id := range []primitive.ObjectID{video.ID, other.ID, video.ID} {
		_, err = env.videos.View(ctx, id.Hex(), identity(alice))
		require.NoError(t, err)
	}
	assert.Equal(t, []primitive.ObjectID{other.ID, video.ID}, env.w.users[alice.ID].WatchHistory)

	// A viewer whose account vanished still counts the view.
	ghost := auth.Identity{UserID: primitive.NewObjectID()}
	got, err = env.videos.View(ctx, video.ID.Hex(), ghost)
	require.NoError(t, err)
	assert.Equal(t, int64(4), got.Views)

	history, err := env.users.WatchHistory(ctx, identity(alice))
	require.NoError(t, err)
	assert.Len(t, history.WatchHistory, 2)
}

func TestListVideos(t *testing.T) {
	env := newTestEnv(t)
	owner := primitive.NewObjectID()
	env.w.addVideo(owner, "Go basics")
	env.w.addVideo(owner, "go advanced")
	env.w.addVideo(owner, "Rust")

	page, err := env.videos.List(context.Background(), ListVideosParams{Query: "go", SortType: "desc", Page: defaultPage})
	require.NoError(t, err)
	require.Len(t, page.Docs, 2)
	assert.Equal(t, "go advanced", page.Docs[0].Title)

	_, err = env.videos.List(context.Background(), ListVideosParams{Query: "python", Page: defaultPage})
	assert.EqualError(t, err, "No videos found")
}

func TestListVideosParams(t *testing.T) {
	q := ListVideosParams{SortBy: "password", SortType: "-1", Query: "  intro "}.ToQuery()
	assert.Equal(t, models.VideoQuery{Query: "intro", SortBy: "title", SortDesc: true}, q)

	q = ListVideosParams{SortBy: "views", SortType: "1"}.ToQuery()
	assert.Equal(t, models.VideoQuery{SortBy: "views"}, q)
}

func TestPlaylistLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.w.addUser("alice")
	mallory := env.w.addUser("mallory")
	video := env.w.addVideo(alice.ID, "intro")

	playlist, err := env.playlists.Create(ctx, identity(alice), models.PlaylistRequest{Name: "Favs", Description: "best"})
	require.NoError(t, err)

	updated, err := env.playlists.AddVideo(ctx, identity(alice), playlist.ID.Hex(), video.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{video.ID}, updated.Videos)

	_, err = env.playlists.AddVideo(ctx, identity(alice), playlist.ID.Hex(), video.ID.Hex())
	assertKind(t, err, apperror.Conflict)
	assert.EqualError(t, err, "Video already exists in playlist")

	_, err = env.playlists.AddVideo(ctx, identity(mallory), playlist.ID.Hex(), video.ID.Hex())
	assertKind(t, err, apperror.Forbidden)

	_, err = env.playlists.AddVideo(ctx, identity(alice), playlist.ID.Hex(), primitive.NewObjectID().Hex())
	assert.EqualError(t, err, "Video not found for this ID")

	lists, err := env.playlists.ListByUser(ctx, alice.ID.Hex())
	require.NoError(t, err)
	assert.Len(t, lists, 1)

	updated, err = env.playlists.RemoveVideo(ctx, identity(alice), playlist.ID.Hex(), video.ID.Hex())
	require.NoError(t, err)
	assert.Empty(t, updated.Videos)

	_, err = env.playlists.Update(ctx, identity(mallory), playlist.ID.Hex(), models.PlaylistRequest{Name: "x", Description: "y"})
	assertKind(t, err, apperror.Forbidden)

	renamed, err := env.playlists.Update(ctx, identity(alice), playlist.ID.Hex(), models.PlaylistRequest{Name: "Top", Description: "best"})
	require.NoError(t, err)
	assert.Equal(t, "Top", renamed.Name)

	_, err = env.playlists.Delete(ctx, identity(alice), playlist.ID.Hex())
	require.NoError(t, err)
	_, err = env.playlists.Get(ctx, playlist.ID.Hex())
	assert.EqualError(t, err, "Playlist not found for this ID")
}

func TestTweetLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.w.addUser("alice")
	mallory := env.w.addUser("mallory")

	_, err := env.tweets.ListByUser(ctx, alice.ID.Hex())
	assert.EqualError(t, err, "No tweets found for this user")

	_, err = env.tweets.Create(ctx, identity(alice), "   ")
	assertKind(t, err, apperror.BadInput)

	tweet, err := env.tweets.Create(ctx, identity(alice), "hello")
	require.NoError(t, err)

	_, err = env.tweets.Update(ctx, identity(mallory), tweet.ID.Hex(), "pwned")
	assertKind(t, err, apperror.Forbidden)

	updated, err := env.tweets.Update(ctx, identity(alice), tweet.ID.Hex(), "hello again")
	require.NoError(t, err)
	assert.Equal(t, "hello again", updated.Content)

	_, err = env.tweets.Delete(ctx, identity(alice), tweet.ID.Hex())
	require.NoError(t, err)
	assert.Empty(t, env.w.tweets)
}

func TestChannelStats(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.w.addUser("alice")
	bob := env.w.addUser("bob")

	stats, err := env.dashboard.ChannelStats(ctx, identity(alice))
	require.NoError(t, err)
	assert.Equal(t, models.ChannelStats{}, *stats)

	video := env.w.addVideo(alice.ID, "intro")
	video.Views = 9
	env.w.addVideo(bob.ID, "other").Views = 100

	_, _, err = env.subscriptions.Toggle(ctx, identity(bob), alice.ID.Hex())
	require.NoError(t, err)
	_, _, err = env.likes.Toggle(ctx, identity(bob), models.LikeTargetVideo, video.ID.Hex())
	require.NoError(t, err)
	comment, err := env.comments.Add(ctx, identity(alice), video.ID.Hex(), "pinned")
	require.NoError(t, err)
	_, _, err = env.likes.Toggle(ctx, identity(bob), models.LikeTargetComment, comment.ID.Hex())
	require.NoError(t, err)
	tweet, err := env.tweets.Create(ctx, identity(alice), "news")
	require.NoError(t, err)
	_, _, err = env.likes.Toggle(ctx, identity(bob), models.LikeTargetTweet, tweet.ID.Hex())
	require.NoError(t, err)
	_, _, err = env.likes.Toggle(ctx, identity(alice), models.LikeTargetTweet, tweet.ID.Hex())
	require.NoError(t, err)

	stats, err = env.dashboard.ChannelStats(ctx, identity(alice))
	require.NoError(t, err)
	assert.Equal(t, models.ChannelStats{
		VideoCount:             1,
		SubscriberCount:        1,
		TotalVideoViews:        9,
		TotalCommentLikesCount: 1,
		TotalVideoLikesCount:   1,
		TotalTweetLikesCount:   2,
	}, *stats)
}

func TestChannelStatsUsesCache(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.w.addUser("alice")
	statsCache := cache.NewMemoryStatsCache(time.Minute)
	env.dashboard = NewDashboardService(fakeVideos{env.w}, fakeSubscriptions{env.w}, fakeLikes{env.w}, statsCache, zap.NewNop())

	env.w.addVideo(alice.ID, "intro")
	first, err := env.dashboard.ChannelStats(ctx, identity(alice))
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.VideoCount)

	env.w.addVideo(alice.ID, "outro")
	calls := env.w.callCount()
	second, err := env.dashboard.ChannelStats(ctx, identity(alice))
	require.NoError(t, err)
	assert.Equal(t, int64(1), second.VideoCount)
	assert.Equal(t, calls, env.w.callCount())
}

func TestChannelVideos(t *testing.T) {
	env := newTestEnv(t)
	alice := env.w.addUser("alice")

	_, err := env.dashboard.ChannelVideos(context.Background(), identity(alice))
	assert.EqualError(t, err, "No videos found for this channel")

	env.w.addVideo(alice.ID, "intro")
	videos, err := env.dashboard.ChannelVideos(context.Background(), identity(alice))
	require.NoError(t, err)
	assert.Len(t, videos, 1)
}

func TestLikedVideos(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.w.addUser("alice")

	_, err := env.likes.LikedVideos(ctx, identity(alice), defaultPage)
	assertKind(t, err, apperror.NotFound)

	video := env.w.addVideo(primitive.NewObjectID(), "intro")
	_, _, err = env.likes.Toggle(ctx, identity(alice), models.LikeTargetVideo, video.ID.Hex())
	require.NoError(t, err)

	page, err := env.likes.LikedVideos(ctx, identity(alice), defaultPage)
	require.NoError(t, err)
	require.Len(t, page.Docs, 1)
	assert.Equal(t, "intro", page.Docs[0].Video.Title)
}
