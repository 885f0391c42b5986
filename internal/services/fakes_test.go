package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/anonto42/vidtube/backend/internal/aggregate"
	"github.com/anonto42/vidtube/backend/internal/models"
	"github.com/anonto42/vidtube/backend/internal/repositories"
	"github.com/anonto42/vidtube/backend/pkg/media"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// world is an in-memory database shared by the fake repositories. calls
// counts every repository call so tests can assert the store was untouched.
type world struct {
	mu            sync.Mutex
	calls         int
	users         map[primitive.ObjectID]*models.User
	videos        map[primitive.ObjectID]*models.Video
	comments      map[primitive.ObjectID]*models.Comment
	likes         map[primitive.ObjectID]*models.Like
	subscriptions map[primitive.ObjectID]*models.Subscription
	tweets        map[primitive.ObjectID]*models.Tweet
	playlists     map[primitive.ObjectID]*models.Playlist

	failUserCreate  error
	failVideoCreate error
	failVideoUpdate error
}

func newWorld() *world {
	return &world{
		users:         map[primitive.ObjectID]*models.User{},
		videos:        map[primitive.ObjectID]*models.Video{},
		comments:      map[primitive.ObjectID]*models.Comment{},
		likes:         map[primitive.ObjectID]*models.Like{},
		subscriptions: map[primitive.ObjectID]*models.Subscription{},
		tweets:        map[primitive.ObjectID]*models.Tweet{},
		playlists:     map[primitive.ObjectID]*models.Playlist{},
	}
}

func (w *world) enter() func() {
	w.mu.Lock()
	w.calls++
	return w.mu.Unlock
}

func (w *world) callCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.calls
}

func (w *world) addUser(username string) *models.User {
	w.mu.Lock()
	defer w.mu.Unlock()
	u := &models.User{ID: primitive.NewObjectID(), Username: username, Email: username + "@example.com", FullName: strings.ToUpper(username)}
	w.users[u.ID] = u
	return u
}

func (w *world) addVideo(owner primitive.ObjectID, title string) *models.Video {
	w.mu.Lock()
	defer w.mu.Unlock()
	v := &models.Video{ID: primitive.NewObjectID(), Title: title, Description: "d", Owner: owner, IsPublished: true,
		VideoFile: "https://cdn.test/video/" + title + ".mp4", VideoPublicID: "pid-" + title}
	w.videos[v.ID] = v
	return v
}

// ---- users ----

type fakeUsers struct{ w *world }

var _ repositories.UserRepository = fakeUsers{}

func (f fakeUsers) Create(_ context.Context, user *models.User) error {
	defer f.w.enter()()
	if f.w.failUserCreate != nil {
		return f.w.failUserCreate
	}
	for _, u := range f.w.users {
		if u.Username == user.Username || u.Email == user.Email {
			return repositories.ErrDuplicate
		}
	}
	user.ID = primitive.NewObjectID()
	clone := *user
	f.w.users[user.ID] = &clone
	return nil
}

func (f fakeUsers) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	defer f.w.enter()()
	u, ok := f.w.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (f fakeUsers) FindByUsernameOrEmail(_ context.Context, username, email string) (*models.User, error) {
	defer f.w.enter()()
	for _, u := range f.w.users {
		if (username != "" && u.Username == username) || (email != "" && u.Email == email) {
			clone := *u
			return &clone, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f fakeUsers) SetRefreshToken(_ context.Context, id primitive.ObjectID, token string) error {
	defer f.w.enter()()
	u, ok := f.w.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	u.RefreshToken = token
	return nil
}

func (f fakeUsers) SetPassword(_ context.Context, id primitive.ObjectID, hash string) error {
	defer f.w.enter()()
	u, ok := f.w.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	u.Password = hash
	return nil
}

func (f fakeUsers) mutate(id primitive.ObjectID, fn func(*models.User)) (*models.User, error) {
	defer f.w.enter()()
	u, ok := f.w.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	fn(u)
	clone := *u
	return &clone, nil
}

func (f fakeUsers) UpdateAccount(_ context.Context, id primitive.ObjectID, username, email string) (*models.User, error) {
	return f.mutate(id, func(u *models.User) { u.Username, u.Email = username, email })
}

func (f fakeUsers) SetAvatar(_ context.Context, id primitive.ObjectID, url, publicID string) (*models.User, error) {
	return f.mutate(id, func(u *models.User) { u.Avatar, u.AvatarPublicID = url, publicID })
}

func (f fakeUsers) SetCoverImage(_ context.Context, id primitive.ObjectID, url, publicID string) (*models.User, error) {
	return f.mutate(id, func(u *models.User) { u.CoverImage, u.CoverImagePublicID = url, publicID })
}

func (f fakeUsers) AddToWatchHistory(_ context.Context, id, videoID primitive.ObjectID) error {
	_, err := f.mutate(id, func(u *models.User) {
		history := u.WatchHistory[:0:0]
		for _, v := range u.WatchHistory {
			if v != videoID {
				history = append(history, v)
			}
		}
		u.WatchHistory = append(history, videoID)
	})
	return err
}

func (f fakeUsers) ChannelProfile(_ context.Context, username string, viewer primitive.ObjectID) (*models.ChannelProfile, error) {
	defer f.w.enter()()
	for _, u := range f.w.users {
		if u.Username != username {
			continue
		}
		p := &models.ChannelProfile{ID: u.ID, Username: u.Username, Email: u.Email, FullName: u.FullName}
		for _, s := range f.w.subscriptions {
			if s.Channel == u.ID {
				p.TotalSubscribers++
				if s.Subscriber == viewer {
					p.HasSubscribedToChannel = true
				}
			}
			if s.Subscriber == u.ID {
				p.TotalSubscribedChannels++
			}
		}
		return p, nil
	}
	return nil, repositories.ErrNotFound
}

func (f fakeUsers) WatchHistory(_ context.Context, id primitive.ObjectID) (*models.WatchHistory, error) {
	defer f.w.enter()()
	u, ok := f.w.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	h := &models.WatchHistory{ID: u.ID, Username: u.Username, WatchHistory: []models.WatchedVideo{}}
	for _, vid := range u.WatchHistory {
		if v, ok := f.w.videos[vid]; ok {
			h.WatchHistory = append(h.WatchHistory, models.WatchedVideo{ID: v.ID, Title: v.Title, VideoFile: v.VideoFile})
		}
	}
	return h, nil
}

// ---- videos ----

type fakeVideos struct{ w *world }

var _ repositories.VideoRepository = fakeVideos{}

func (f fakeVideos) Create(_ context.Context, video *models.Video) error {
	defer f.w.enter()()
	if f.w.failVideoCreate != nil {
		return f.w.failVideoCreate
	}
	video.ID = primitive.NewObjectID()
	clone := *video
	f.w.videos[video.ID] = &clone
	return nil
}

func (f fakeVideos) FindByID(_ context.Context, id primitive.ObjectID) (*models.Video, error) {
	defer f.w.enter()()
	v, ok := f.w.videos[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	clone := *v
	return &clone, nil
}

func (f fakeVideos) Search(_ context.Context, q models.VideoQuery, opts aggregate.PageOptions) (*aggregate.Page[models.Video], error) {
	defer f.w.enter()()
	var all []models.Video
	for _, v := range f.w.videos {
		if strings.HasPrefix(strings.ToLower(v.Title), strings.ToLower(q.Query)) {
			all = append(all, *v)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if q.SortDesc {
			return all[i].Title > all[j].Title
		}
		return all[i].Title < all[j].Title
	})
	return aggregate.SlicePage(all, opts), nil
}

func (f fakeVideos) mutate(id primitive.ObjectID, fn func(*models.Video)) (*models.Video, error) {
	defer f.w.enter()()
	if f.w.failVideoUpdate != nil {
		return nil, f.w.failVideoUpdate
	}
	v, ok := f.w.videos[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	fn(v)
	clone := *v
	return &clone, nil
}

func (f fakeVideos) UpdateDetails(_ context.Context, id primitive.ObjectID, title, description string) (*models.Video, error) {
	return f.mutate(id, func(v *models.Video) { v.Title, v.Description = title, description })
}

func (f fakeVideos) ReplaceMedia(_ context.Context, id primitive.ObjectID, title, description string, m models.VideoMedia) (*models.Video, error) {
	return f.mutate(id, func(v *models.Video) {
		v.Title, v.Description = title, description
		v.VideoFile, v.VideoPublicID, v.Thumbnail, v.Duration = m.VideoFile, m.VideoPublicID, m.Thumbnail, m.Duration
		v.Views = 0
	})
}

func (f fakeVideos) SetPublished(_ context.Context, id primitive.ObjectID, published bool) (*models.Video, error) {
	return f.mutate(id, func(v *models.Video) { v.IsPublished = published })
}

func (f fakeVideos) IncrementViews(_ context.Context, id primitive.ObjectID) (*models.Video, error) {
	defer f.w.enter()()
	v, ok := f.w.videos[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	v.Views++
	clone := *v
	return &clone, nil
}

func (f fakeVideos) Delete(_ context.Context, id primitive.ObjectID) (*models.Video, error) {
	defer f.w.enter()()
	v, ok := f.w.videos[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	delete(f.w.videos, id)
	return v, nil
}

func (f fakeVideos) ListByOwner(_ context.Context, owner primitive.ObjectID) ([]models.Video, error) {
	defer f.w.enter()()
	out := []models.Video{}
	for _, v := range f.w.videos {
		if v.Owner == owner {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (f fakeVideos) CountByOwner(ctx context.Context, owner primitive.ObjectID) (int64, error) {
	videos, err := f.ListByOwner(ctx, owner)
	return int64(len(videos)), err
}

func (f fakeVideos) TotalViewsByOwner(ctx context.Context, owner primitive.ObjectID) (int64, error) {
	videos, err := f.ListByOwner(ctx, owner)
	var total int64
	for _, v := range videos {
		total += v.Views
	}
	return total, err
}

// ---- comments ----

type fakeComments struct{ w *world }

var _ repositories.CommentRepository = fakeComments{}

func (f fakeComments) Create(_ context.Context, c *models.Comment) error {
	defer f.w.enter()()
	for _, existing := range f.w.comments {
		if existing.Video == c.Video && existing.Owner == c.Owner {
			return repositories.ErrDuplicate
		}
	}
	c.ID = primitive.NewObjectID()
	clone := *c
	f.w.comments[c.ID] = &clone
	return nil
}

func (f fakeComments) FindByID(_ context.Context, id primitive.ObjectID) (*models.Comment, error) {
	defer f.w.enter()()
	c, ok := f.w.comments[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	clone := *c
	return &clone, nil
}

func (f fakeComments) FindByVideoAndOwner(_ context.Context, videoID, owner primitive.ObjectID) (*models.Comment, error) {
	defer f.w.enter()()
	for _, c := range f.w.comments {
		if c.Video == videoID && c.Owner == owner {
			clone := *c
			return &clone, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f fakeComments) ListByVideo(_ context.Context, videoID primitive.ObjectID, opts aggregate.PageOptions) (*aggregate.Page[models.Comment], error) {
	defer f.w.enter()()
	var all []models.Comment
	for _, c := range f.w.comments {
		if c.Video == videoID {
			all = append(all, *c)
		}
	}
	return aggregate.SlicePage(all, opts), nil
}

func (f fakeComments) UpdateContent(_ context.Context, id primitive.ObjectID, content string) (*models.Comment, error) {
	defer f.w.enter()()
	c, ok := f.w.comments[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	c.Content = content
	clone := *c
	return &clone, nil
}

func (f fakeComments) Delete(_ context.Context, id primitive.ObjectID) (*models.Comment, error) {
	defer f.w.enter()()
	c, ok := f.w.comments[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	delete(f.w.comments, id)
	return c, nil
}

// ---- likes ----

type fakeLikes struct{ w *world }

var _ repositories.LikeRepository = fakeLikes{}

func likeTargetID(l *models.Like, target models.LikeTarget) *primitive.ObjectID {
	switch target {
	case models.LikeTargetVideo:
		return l.Video
	case models.LikeTargetComment:
		return l.Comment
	default:
		return l.Tweet
	}
}

func (f fakeLikes) Find(_ context.Context, target models.LikeTarget, targetID, likedBy primitive.ObjectID) (*models.Like, error) {
	defer f.w.enter()()
	for _, l := range f.w.likes {
		if id := likeTargetID(l, target); id != nil && *id == targetID && l.LikedBy == likedBy {
			clone := *l
			return &clone, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f fakeLikes) Create(_ context.Context, like *models.Like) error {
	defer f.w.enter()()
	like.ID = primitive.NewObjectID()
	clone := *like
	f.w.likes[like.ID] = &clone
	return nil
}

func (f fakeLikes) Delete(_ context.Context, id primitive.ObjectID) error {
	defer f.w.enter()()
	if _, ok := f.w.likes[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.w.likes, id)
	return nil
}

func (f fakeLikes) LikedVideos(_ context.Context, likedBy primitive.ObjectID, opts aggregate.PageOptions) (*aggregate.Page[models.LikedVideo], error) {
	defer f.w.enter()()
	var all []models.LikedVideo
	for _, l := range f.w.likes {
		if l.Video == nil || l.LikedBy != likedBy {
			continue
		}
		if v, ok := f.w.videos[*l.Video]; ok {
			all = append(all, models.LikedVideo{ID: l.ID, Video: *v, LikedBy: l.LikedBy})
		}
	}
	return aggregate.SlicePage(all, opts), nil
}

func (f fakeLikes) TotalLikesOnOwnedContent(_ context.Context, target models.LikeTarget, owner primitive.ObjectID) (int64, error) {
	defer f.w.enter()()
	var total int64
	for _, l := range f.w.likes {
		id := likeTargetID(l, target)
		if id == nil {
			continue
		}
		var contentOwner primitive.ObjectID
		switch target {
		case models.LikeTargetVideo:
			if v, ok := f.w.videos[*id]; ok {
				contentOwner = v.Owner
			}
		case models.LikeTargetComment:
			if c, ok := f.w.comments[*id]; ok {
				contentOwner = c.Owner
			}
		case models.LikeTargetTweet:
			if t, ok := f.w.tweets[*id]; ok {
				contentOwner = t.Owner
			}
		}
		if contentOwner == owner {
			total++
		}
	}
	return total, nil
}

// ---- subscriptions ----

type fakeSubscriptions struct{ w *world }

var _ repositories.SubscriptionRepository = fakeSubscriptions{}

func (f fakeSubscriptions) Find(_ context.Context, subscriber, channel primitive.ObjectID) (*models.Subscription, error) {
	defer f.w.enter()()
	for _, s := range f.w.subscriptions {
		if s.Subscriber == subscriber && s.Channel == channel {
			clone := *s
			return &clone, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f fakeSubscriptions) Create(_ context.Context, sub *models.Subscription) error {
	defer f.w.enter()()
	sub.ID = primitive.NewObjectID()
	clone := *sub
	f.w.subscriptions[sub.ID] = &clone
	return nil
}

func (f fakeSubscriptions) Delete(_ context.Context, id primitive.ObjectID) error {
	defer f.w.enter()()
	if _, ok := f.w.subscriptions[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.w.subscriptions, id)
	return nil
}

func (f fakeSubscriptions) Subscribers(_ context.Context, channel primitive.ObjectID, opts aggregate.PageOptions) (*aggregate.Page[models.ChannelSubscriber], error) {
	defer f.w.enter()()
	var all []models.ChannelSubscriber
	for _, s := range f.w.subscriptions {
		if u, ok := f.w.users[s.Subscriber]; ok && s.Channel == channel {
			all = append(all, models.ChannelSubscriber{ID: s.ID, Subscriber: models.UserSummary{ID: u.ID, Username: u.Username}})
		}
	}
	return aggregate.SlicePage(all, opts), nil
}

func (f fakeSubscriptions) SubscribedChannels(_ context.Context, subscriber primitive.ObjectID, opts aggregate.PageOptions) (*aggregate.Page[models.SubscribedChannel], error) {
	defer f.w.enter()()
	var all []models.SubscribedChannel
	for _, s := range f.w.subscriptions {
		if u, ok := f.w.users[s.Channel]; ok && s.Subscriber == subscriber {
			all = append(all, models.SubscribedChannel{ID: s.ID, SubscribedChannel: models.UserSummary{ID: u.ID, Username: u.Username}})
		}
	}
	return aggregate.SlicePage(all, opts), nil
}

func (f fakeSubscriptions) CountByChannel(_ context.Context, channel primitive.ObjectID) (int64, error) {
	defer f.w.enter()()
	var n int64
	for _, s := range f.w.subscriptions {
		if s.Channel == channel {
			n++
		}
	}
	return n, nil
}

// ---- tweets ----

type fakeTweets struct{ w *world }

var _ repositories.TweetRepository = fakeTweets{}

func (f fakeTweets) Create(_ context.Context, t *models.Tweet) error {
	defer f.w.enter()()
	t.ID = primitive.NewObjectID()
	clone := *t
	f.w.tweets[t.ID] = &clone
	return nil
}

func (f fakeTweets) FindByID(_ context.Context, id primitive.ObjectID) (*models.Tweet, error) {
	defer f.w.enter()()
	t, ok := f.w.tweets[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	clone := *t
	return &clone, nil
}

func (f fakeTweets) ListByOwner(_ context.Context, owner primitive.ObjectID) ([]models.Tweet, error) {
	defer f.w.enter()()
	out := []models.Tweet{}
	for _, t := range f.w.tweets {
		if t.Owner == owner {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f fakeTweets) UpdateContent(_ context.Context, id primitive.ObjectID, content string) (*models.Tweet, error) {
	defer f.w.enter()()
	t, ok := f.w.tweets[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	t.Content = content
	clone := *t
	return &clone, nil
}

func (f fakeTweets) Delete(_ context.Context, id primitive.ObjectID) (*models.Tweet, error) {
	defer f.w.enter()()
	t, ok := f.w.tweets[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	delete(f.w.tweets, id)
	return t, nil
}

// ---- playlists ----

type fakePlaylists struct{ w *world }

var _ repositories.PlaylistRepository = fakePlaylists{}

func (f fakePlaylists) Create(_ context.Context, p *models.Playlist) error {
	defer f.w.enter()()
	p.ID = primitive.NewObjectID()
	if p.Videos == nil {
		p.Videos = []primitive.ObjectID{}
	}
	clone := *p
	f.w.playlists[p.ID] = &clone
	return nil
}

func (f fakePlaylists) FindByID(_ context.Context, id primitive.ObjectID) (*models.Playlist, error) {
	defer f.w.enter()()
	p, ok := f.w.playlists[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	clone := *p
	clone.Videos = append([]primitive.ObjectID(nil), p.Videos...)
	return &clone, nil
}

func (f fakePlaylists) ListByOwner(_ context.Context, owner primitive.ObjectID) ([]models.Playlist, error) {
	defer f.w.enter()()
	out := []models.Playlist{}
	for _, p := range f.w.playlists {
		if p.Owner == owner {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f fakePlaylists) mutate(id primitive.ObjectID, fn func(*models.Playlist)) (*models.Playlist, error) {
	defer f.w.enter()()
	p, ok := f.w.playlists[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	fn(p)
	clone := *p
	clone.Videos = append([]primitive.ObjectID(nil), p.Videos...)
	return &clone, nil
}

func (f fakePlaylists) UpdateDetails(_ context.Context, id primitive.ObjectID, name, description string) (*models.Playlist, error) {
	return f.mutate(id, func(p *models.Playlist) { p.Name, p.Description = name, description })
}

func (f fakePlaylists) AddVideo(_ context.Context, id, videoID primitive.ObjectID) (*models.Playlist, error) {
	return f.mutate(id, func(p *models.Playlist) {
		if !p.Contains(videoID) {
			p.Videos = append(p.Videos, videoID)
		}
	})
}

func (f fakePlaylists) RemoveVideo(_ context.Context, id, videoID primitive.ObjectID) (*models.Playlist, error) {
	return f.mutate(id, func(p *models.Playlist) {
		kept := p.Videos[:0:0]
		for _, v := range p.Videos {
			if v != videoID {
				kept = append(kept, v)
			}
		}
		p.Videos = kept
	})
}

func (f fakePlaylists) Delete(_ context.Context, id primitive.ObjectID) (*models.Playlist, error) {
	defer f.w.enter()()
	p, ok := f.w.playlists[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	delete(f.w.playlists, id)
	return p, nil
}

// ---- media ----

// fakeMedia records every upload and delete in order.
type fakeMedia struct {
	mu        sync.Mutex
	seq       int
	uploads   []string
	deleted   []string
	events    []string
	failPaths map[string]error
}

var _ media.Store = (*fakeMedia)(nil)

func newFakeMedia() *fakeMedia {
	return &fakeMedia{failPaths: map[string]error{}}
}

func (m *fakeMedia) Upload(_ context.Context, localPath string, kind media.Kind) (*media.Asset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failPaths[localPath]; err != nil {
		return nil, err
	}
	m.seq++
	publicID := fmt.Sprintf("%s-%d", kind, m.seq)
	m.uploads = append(m.uploads, publicID)
	m.events = append(m.events, "upload:"+publicID)
	return &media.Asset{
		URL:      fmt.Sprintf("https://cdn.test/%s/%s.bin", kind, publicID),
		PublicID: publicID,
		Duration: 12.5,
	}, nil
}

func (m *fakeMedia) Delete(_ context.Context, publicID string, _ media.Kind) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, publicID)
	m.events = append(m.events, "delete:"+publicID)
	return nil
}

func (m *fakeMedia) ThumbnailURL(videoPublicID string) string {
	return "https://cdn.test/thumb/" + videoPublicID + ".jpg"
}
