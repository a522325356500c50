package services

import (
	"context"
	"errors"
	"time"

	"wp-dispatch/eventbus"
	"wp-dispatch/events"
	"wp-dispatch/models"
	"wp-dispatch/repositories"
	"wp-dispatch/wordpress"
)

// PublishService connects stored blogs to the WordPress pipeline.
type PublishService struct {
	blogs       repositories.BlogRepository
	client      *wordpress.Client
	publisher   *wordpress.Publisher
	prober      *wordpress.Prober
	environment string
	bus         eventbus.EventBus
	topics      eventbus.Topics
	now         func() time.Time
}

func NewPublishService(blogs repositories.BlogRepository, client *wordpress.Client, environment string, bus eventbus.EventBus, topics eventbus.Topics) *PublishService {
	return &PublishService{
		blogs:       blogs,
		client:      client,
		publisher:   wordpress.NewPublisher(client),
		prober:      wordpress.NewProber(client),
		environment: environment,
		bus:         bus,
		topics:      topics,
		now:         time.Now,
	}
}

func siteFromBlog(b *models.Blog) wordpress.Site {
	return wordpress.Site{
		Name:        b.Name,
		BaseURL:     b.APIURL,
		Credentials: wordpress.Credentials{User: b.WPUser, Password: b.APIKey},
	}
}

// Publish sends req to the blog's WordPress site. Publishing is never retried
// here; a resubmission can create a duplicate post.
func (s *PublishService) Publish(ctx context.Context, blogID int64, req wordpress.PublishRequest) (*wordpress.PublishResult, error) {
	b, err := s.blogs.GetByID(ctx, blogID)
	if err != nil {
		return nil, err
	}

	hasMedia := req.Attachment != nil && len(req.Attachment.Data) > 0
	result, err := s.publisher.Publish(ctx, siteFromBlog(b), req)
	if err != nil {
		evt := events.PostPublishFailedEvent{
			BaseEvent: events.NewBaseEvent(events.PostPublishFailed, eventSource),
			BlogID:    b.ID,
			Title:     req.Title,
			Message:   err.Error(),
		}
		var wpErr *wordpress.Error
		if errors.As(err, &wpErr) {
			evt.Kind = string(wpErr.Kind)
			evt.Stage = string(wpErr.Stage)
			evt.HTTPStatus = wpErr.Status
			evt.Message = wpErr.Message
		}
		eventbus.PublishJSON(ctx, s.bus, s.topics.Posts, evt.ID, string(evt.Type), evt)
		return nil, err
	}

	evt := events.PostPublishedEvent{
		BaseEvent:     events.NewBaseEvent(events.PostPublished, eventSource),
		BlogID:        b.ID,
		PostID:        result.ID,
		Link:          result.Link,
		Status:        result.Status,
		Title:         req.Title,
		FeaturedMedia: hasMedia,
	}
	eventbus.PublishJSON(ctx, s.bus, s.topics.Posts, evt.ID, string(evt.Type), evt)
	return result, nil
}

// Probe checks the blog's stored settings against its discovery document.
func (s *PublishService) Probe(ctx context.Context, blogID int64) (*wordpress.ProbeResult, error) {
	b, err := s.blogs.GetByID(ctx, blogID)
	if err != nil {
		return nil, err
	}
	return s.prober.Probe(ctx, siteFromBlog(b))
}

// Diagnose reports how the blog's settings will be used, offline.
func (s *PublishService) Diagnose(ctx context.Context, blogID int64) (*models.Blog, wordpress.Diagnosis, error) {
	b, err := s.blogs.GetByID(ctx, blogID)
	if err != nil {
		return nil, wordpress.Diagnosis{}, err
	}
	return b, wordpress.Diagnose(siteFromBlog(b), s.client.Options(), s.environment, s.now()), nil
}
