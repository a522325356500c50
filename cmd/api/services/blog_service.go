package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"wp-dispatch/eventbus"
	"wp-dispatch/events"
	"wp-dispatch/logger"
	"wp-dispatch/models"
	"wp-dispatch/repositories"
	"wp-dispatch/wordpress"
)

const eventSource = "wp-dispatch-api"

// FaviconResolver returns a best-effort icon URL and never fails.
type FaviconResolver interface {
	Resolve(ctx context.Context, siteURL string) string
}

// BlogService encapsulates blog registration and maintenance.
//
// - favicon: 블로그 생성 시 동기적으로 아이콘 URL 을 확정한다.
// - bus: 생성/수정/삭제 이벤트를 best-effort 로 발행한다.
type BlogService struct {
	blogs   repositories.BlogRepository
	users   repositories.UserRepository
	favicon FaviconResolver
	bus     eventbus.EventBus
	topics  eventbus.Topics
}

func NewBlogService(blogs repositories.BlogRepository, users repositories.UserRepository, favicon FaviconResolver, bus eventbus.EventBus, topics eventbus.Topics) *BlogService {
	return &BlogService{blogs: blogs, users: users, favicon: favicon, bus: bus, topics: topics}
}

type CreateBlogInput struct {
	Name     string
	APIURL   string
	WPUser   string
	APIKey   string
	Favicon  string
	Topic    string
	Keywords string
	OwnerID  int64
}

func (s *BlogService) List(ctx context.Context) ([]models.Blog, error) {
	return s.blogs.List(ctx)
}

// ListByOwner returns the owner's blogs; an unknown owner is ErrNotFound.
func (s *BlogService) ListByOwner(ctx context.Context, ownerID int64) ([]models.Blog, error) {
	if _, err := s.users.GetByID(ctx, ownerID); err != nil {
		return nil, err
	}
	return s.blogs.ListByOwner(ctx, ownerID)
}

func (s *BlogService) Get(ctx context.Context, id int64) (*models.Blog, error) {
	return s.blogs.GetByID(ctx, id)
}

// Create validates the input, resolves the favicon when none was given and
// stores the blog. The API URL is stored exactly as entered.
func (s *BlogService) Create(ctx context.Context, in CreateBlogInput) (*models.Blog, error) {
	b := &models.Blog{
		Name:     strings.TrimSpace(in.Name),
		APIURL:   strings.TrimSpace(in.APIURL),
		WPUser:   strings.TrimSpace(in.WPUser),
		APIKey:   in.APIKey,
		Favicon:  strings.TrimSpace(in.Favicon),
		Topic:    strings.TrimSpace(in.Topic),
		Keywords: in.Keywords,
		OwnerID:  in.OwnerID,
	}
	if err := validateBlog(b); err != nil {
		return nil, err
	}
	if in.OwnerID <= 0 {
		return nil, validationError("owner_id is required")
	}
	if _, err := s.users.GetByID(ctx, in.OwnerID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, validationError("owner %d does not exist", in.OwnerID)
		}
		return nil, err
	}

	if b.Favicon == "" && b.APIURL != "" && s.favicon != nil {
		b.Favicon = s.favicon.Resolve(ctx, b.APIURL)
	}

	if err := s.blogs.Create(ctx, b); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, validationError("owner %d does not exist", in.OwnerID)
		}
		return nil, fmt.Errorf("create blog: %w", err)
	}

	logger.InfoWithFields("blog created", logger.Fields{"blog_id": b.ID, "owner_id": b.OwnerID, "has_credentials": b.HasCredentials()})
	s.emit(ctx, events.BlogCreated, b)
	return b, nil
}

// Update applies a partial update. Changing the API URL without supplying a
// favicon re-resolves the icon.
func (s *BlogService) Update(ctx context.Context, id int64, patch models.BlogPatch) (*models.Blog, error) {
	current, err := s.blogs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	trim := func(p *string) *string {
		if p == nil {
			return nil
		}
		v := strings.TrimSpace(*p)
		return &v
	}
	patch.Name = trim(patch.Name)
	patch.APIURL = trim(patch.APIURL)
	patch.WPUser = trim(patch.WPUser)
	patch.Favicon = trim(patch.Favicon)

	next := *current
	patch.Apply(&next)
	if err := validateBlog(&next); err != nil {
		return nil, err
	}

	if patch.APIURL != nil && *patch.APIURL != current.APIURL && patch.Favicon == nil && next.APIURL != "" && s.favicon != nil {
		icon := s.favicon.Resolve(ctx, next.APIURL)
		patch.Favicon = &icon
	}

	updated, err := s.blogs.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	s.emit(ctx, events.BlogUpdated, updated)
	return updated, nil
}

func (s *BlogService) Delete(ctx context.Context, id int64) error {
	b, err := s.blogs.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.blogs.Delete(ctx, id); err != nil {
		return err
	}
	logger.InfoWithFields("blog deleted", logger.Fields{"blog_id": id, "owner_id": b.OwnerID})
	s.emit(ctx, events.BlogDeleted, b)
	return nil
}

func (s *BlogService) emit(ctx context.Context, t events.EventType, b *models.Blog) {
	evt := events.BlogEvent{
		BaseEvent: events.NewBaseEvent(t, eventSource),
		BlogID:    b.ID,
		OwnerID:   b.OwnerID,
		Name:      b.Name,
		APIURL:    b.APIURL,
		Favicon:   b.Favicon,
	}
	eventbus.PublishJSON(ctx, s.bus, s.topics.Blogs, evt.ID, string(t), evt)
}

func validateBlog(b *models.Blog) error {
	if b.Name == "" {
		return validationError("name is required")
	}
	if b.APIURL != "" {
		if err := validateSiteURL(b.APIURL); err != nil {
			return err
		}
	}
	if (b.WPUser == "") != (b.APIKey == "") {
		return validationError("wp_user and api_key must be provided together")
	}
	return nil
}

// validateSiteURL checks the URL the way it will be used: a missing scheme is
// assumed to be https, so "site.org" is valid.
func validateSiteURL(raw string) error {
	base, err := wordpress.NormalizeBase(raw)
	if err != nil {
		return validationError("api_url is invalid")
	}
	u, err := url.Parse(base)
	if err != nil || u.Hostname() == "" || strings.ContainsAny(u.Host, " \t") {
		return validationError("api_url %q is not a valid URL", raw)
	}
	return nil
}
