package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wp-dispatch/eventbus"
	"wp-dispatch/events"
	"wp-dispatch/models"
	"wp-dispatch/repositories"
	"wp-dispatch/wordpress"
)

type stubFavicon struct {
	mu    sync.Mutex
	calls []string
}

func (f *stubFavicon) Resolve(ctx context.Context, siteURL string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, siteURL)
	return "https://icons.test/" + siteURL + ".png"
}

type fixture struct {
	store   *repositories.Store
	bus     *eventbus.LogBus
	topics  eventbus.Topics
	favicon *stubFavicon
	users   *UserService
	blogs   *BlogService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:   repositories.NewMemoryStore(),
		bus:     eventbus.NewLogBus(64),
		topics:  eventbus.NewTopics("test"),
		favicon: &stubFavicon{},
	}
	f.users = NewUserService(f.store.Users, f.bus, f.topics)
	f.blogs = NewBlogService(f.store.Blogs, f.store.Users, f.favicon, f.bus, f.topics)
	return f
}

func (f *fixture) owner(t *testing.T) *models.User {
	t.Helper()
	u, err := f.users.Create(context.Background(), CreateUserInput{Name: "Ada", Email: "ada@example.com"})
	require.NoError(t, err)
	return u
}

func TestBlogService_CreateKeepsURLAndResolvesFavicon(t *testing.T) {
	f := newFixture(t)
	owner := f.owner(t)

	b, err := f.blogs.Create(context.Background(), CreateBlogInput{
		Name:    "Site",
		APIURL:  "site.org",
		WPUser:  "editor",
		APIKey:  "abcd efgh",
		OwnerID: owner.ID,
	})
	require.NoError(t, err)

	stored, err := f.blogs.Get(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, "site.org", stored.APIURL)
	assert.Equal(t, "https://icons.test/site.org.png", stored.Favicon)
	assert.Equal(t, []string{"site.org"}, f.favicon.calls)

	published := f.bus.Events(f.topics.Blogs)
	require.Len(t, published, 1)
	assert.Equal(t, string(events.BlogCreated), published[0].Type)
	evt, err := eventbus.DecodeJSON[events.BlogEvent](published[0])
	require.NoError(t, err)
	assert.Equal(t, b.ID, evt.BlogID)
	assert.NotContains(t, string(published[0].Payload), "abcd efgh")
}

func TestBlogService_CreateKeepsGivenFavicon(t *testing.T) {
	f := newFixture(t)
	owner := f.owner(t)

	b, err := f.blogs.Create(context.Background(), CreateBlogInput{
		Name: "Site", APIURL: "https://site.org", Favicon: "https://cdn.test/icon.png", OwnerID: owner.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.test/icon.png", b.Favicon)
	assert.Empty(t, f.favicon.calls)
}

func TestBlogService_CreateValidation(t *testing.T) {
	f := newFixture(t)
	owner := f.owner(t)

	cases := []struct {
		name string
		in   CreateBlogInput
	}{
		{"missing name", CreateBlogInput{APIURL: "site.org", OwnerID: owner.ID}},
		{"missing owner", CreateBlogInput{Name: "Site"}},
		{"unknown owner", CreateBlogInput{Name: "Site", OwnerID: owner.ID + 100}},
		{"half credentials", CreateBlogInput{Name: "Site", WPUser: "editor", OwnerID: owner.ID}},
		{"bad url", CreateBlogInput{Name: "Site", APIURL: "https://exa mple.com", OwnerID: owner.ID}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.blogs.Create(context.Background(), tc.in)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestBlogService_UpdateReresolvesFaviconOnURLChange(t *testing.T) {
	f := newFixture(t)
	owner := f.owner(t)
	b, err := f.blogs.Create(context.Background(), CreateBlogInput{Name: "Site", APIURL: "old.org", OwnerID: owner.ID})
	require.NoError(t, err)

	next := " new.org "
	updated, err := f.blogs.Update(context.Background(), b.ID, models.BlogPatch{APIURL: &next})
	require.NoError(t, err)
	assert.Equal(t, "new.org", updated.APIURL)
	assert.Equal(t, "https://icons.test/new.org.png", updated.Favicon)

	topic := "Go"
	updated, err = f.blogs.Update(context.Background(), b.ID, models.BlogPatch{Topic: &topic})
	require.NoError(t, err)
	assert.Equal(t, "Go", updated.Topic)
	assert.Len(t, f.favicon.calls, 2)
}

func TestBlogService_ListByOwnerUnknownOwner(t *testing.T) {
	f := newFixture(t)
	_, err := f.blogs.ListByOwner(context.Background(), 42)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestUserService_CreateValidatesEmail(t *testing.T) {
	f := newFixture(t)

	u, err := f.users.Create(context.Background(), CreateUserInput{Name: "Ada", Email: "Ada@Example.com"})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", u.Email)

	_, err = f.users.Create(context.Background(), CreateUserInput{Name: "Bob", Email: "ada@example.com"})
	assert.ErrorIs(t, err, repositories.ErrConflict)
	assert.NotErrorIs(t, err, ErrValidation)

	_, err = f.users.Create(context.Background(), CreateUserInput{Name: "Bob", Email: "not-an-email"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.users.Create(context.Background(), CreateUserInput{Email: "bob@example.com"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUserService_UpdateEmailConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.users.Create(ctx, CreateUserInput{Name: "Ada", Email: "ada@example.com"})
	require.NoError(t, err)
	bob, err := f.users.Create(ctx, CreateUserInput{Name: "Bob", Email: "bob@example.com"})
	require.NoError(t, err)

	taken := "ADA@example.com"
	_, err = f.users.Update(ctx, bob.ID, models.UserPatch{Email: &taken})
	assert.ErrorIs(t, err, repositories.ErrConflict)

	bad := "bob at example"
	_, err = f.users.Update(ctx, bob.ID, models.UserPatch{Email: &bad})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUserService_SyncExternalCreatesThenUpdates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.users.SyncExternal(ctx, ExternalUser{ID: "user_1", FirstName: "Ada", Email: "ada@example.com"})
	require.NoError(t, err)

	updated, err := f.users.SyncExternal(ctx, ExternalUser{ID: "user_1", FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Lovelace", updated.LastName)

	all, err := f.users.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
	assert.Len(t, f.bus.Events(f.topics.Users), 2)
}

func TestUserService_DeleteExternalRemovesBlogs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u, err := f.users.SyncExternal(ctx, ExternalUser{ID: "user_9", FirstName: "Ada"})
	require.NoError(t, err)
	b, err := f.blogs.Create(ctx, CreateBlogInput{Name: "Site", OwnerID: u.ID})
	require.NoError(t, err)

	require.NoError(t, f.users.DeleteExternal(ctx, "user_9"))

	_, err = f.blogs.Get(ctx, b.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	assert.ErrorIs(t, f.users.DeleteExternal(ctx, "user_9"), repositories.ErrNotFound)
}

func newWordPress(t *testing.T, postStatus int, postReply string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/wp-json/wp/v2/posts":
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(postStatus)
			_, _ = w.Write([]byte(postReply))
		case "/wp-json":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"name":"Fake","description":"d","url":"http://fake","routes":{"/":{},"/wp/v2":{}}}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func newPublishFixture(t *testing.T, server *httptest.Server) (*fixture, *PublishService, *models.Blog) {
	t.Helper()
	f := newFixture(t)
	owner := f.owner(t)
	b, err := f.blogs.Create(context.Background(), CreateBlogInput{
		Name: "Fake", APIURL: server.URL, WPUser: "editor", APIKey: "secret", OwnerID: owner.ID,
	})
	require.NoError(t, err)

	client := wordpress.NewClient(server.Client(), wordpress.Options{RequestTimeout: 2 * time.Second})
	svc := NewPublishService(f.store.Blogs, client, "development", f.bus, f.topics)
	return f, svc, b
}

func TestPublishService_PublishEmitsEvent(t *testing.T) {
	server := newWordPress(t, http.StatusCreated, `{"id":12,"link":"http://fake/?p=12","status":"draft"}`)
	f, svc, b := newPublishFixture(t, server)

	res, err := svc.Publish(context.Background(), b.ID, wordpress.PublishRequest{Title: "Hello", Content: "<p>hi</p>"})
	require.NoError(t, err)
	assert.Equal(t, int64(12), res.ID)

	published := f.bus.Events(f.topics.Posts)
	require.Len(t, published, 1)
	evt, err := eventbus.DecodeJSON[events.PostPublishedEvent](published[0])
	require.NoError(t, err)
	assert.Equal(t, events.PostPublished, evt.Type)
	assert.Equal(t, int64(12), evt.PostID)
	assert.False(t, evt.FeaturedMedia)
}

func TestPublishService_PublishFailureEmitsEvent(t *testing.T) {
	server := newWordPress(t, http.StatusForbidden, `{"code":"rest_cannot_create","message":"Sorry"}`)
	f, svc, b := newPublishFixture(t, server)

	_, err := svc.Publish(context.Background(), b.ID, wordpress.PublishRequest{Title: "Hello", Content: "body"})
	require.ErrorIs(t, err, wordpress.ErrRemoteRejection)

	published := f.bus.Events(f.topics.Posts)
	require.Len(t, published, 1)
	var evt events.PostPublishFailedEvent
	require.NoError(t, json.Unmarshal(published[0].Payload, &evt))
	assert.Equal(t, "remote_rejection", evt.Kind)
	assert.Equal(t, http.StatusForbidden, evt.HTTPStatus)
}

func TestPublishService_UnknownBlog(t *testing.T) {
	server := newWordPress(t, http.StatusCreated, `{}`)
	_, svc, _ := newPublishFixture(t, server)

	_, err := svc.Publish(context.Background(), 999, wordpress.PublishRequest{Title: "t", Content: "c"})
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	_, err = svc.Probe(context.Background(), 999)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestPublishService_ProbeAndDiagnose(t *testing.T) {
	server := newWordPress(t, http.StatusCreated, `{}`)
	_, svc, b := newPublishFixture(t, server)

	probe, err := svc.Probe(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Fake", probe.Name)
	assert.Equal(t, []string{"/", "/wp/v2"}, probe.Routes)

	_, diag, err := svc.Diagnose(context.Background(), b.ID)
	require.NoError(t, err)
	assert.True(t, diag.HasUser)
	assert.True(t, diag.HasPassword)
	assert.Equal(t, server.URL+"/wp-json/wp/v2/posts", diag.PostsEndpoint)
}
