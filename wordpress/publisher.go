package wordpress

import (
	"context"
	"encoding/json"
	"net/http"

	"wp-dispatch/logger"
)

// Stage is a step of a single publish call:
// idle -> uploading (only with an attachment) -> posting -> succeeded.
// A failed call returns an *Error whose Stage is the step it stopped at.
type Stage string

const (
	StageIdle      Stage = "idle"
	StageUploading Stage = "uploading"
	StagePosting   Stage = "posting"
	StageSucceeded Stage = "succeeded"
)

// PublishResult is a post WordPress accepted.
type PublishResult struct {
	ID     int64  `json:"id"`
	Link   string `json:"link"`
	Status string `json:"status"`
}

// Publisher turns a PublishRequest into a WordPress post. It keeps no state
// between calls and never retries.
type Publisher struct {
	client *Client
}

func NewPublisher(client *Client) *Publisher {
	return &Publisher{client: client}
}

type postPayload struct {
	Title         string   `json:"title"`
	Content       string   `json:"content"`
	Excerpt       string   `json:"excerpt"`
	Status        string   `json:"status"`
	Categories    []string `json:"categories,omitempty"`
	Tags          []string `json:"tags,omitempty"`
	FeaturedMedia int64    `json:"featured_media,omitempty"`
}

type postResponse struct {
	ID     int64  `json:"id"`
	Link   string `json:"link"`
	Status string `json:"status"`
	GUID   struct {
		Rendered string `json:"rendered"`
	} `json:"guid"`
}

// Publish uploads the attachment (if any) and then creates the post.
func (p *Publisher) Publish(ctx context.Context, site Site, req PublishRequest) (*PublishResult, error) {
	stage := StageIdle
	fields := logger.Fields{"site": site.Name}
	fail := func(err error) (*PublishResult, error) {
		fields["stage"] = string(stage)
		fields["error"] = err.Error()
		logger.WarnWithFields("wordpress publish failed", fields)
		if we, ok := err.(*Error); ok && we.Stage == "" {
			we.Stage = stage
		}
		return nil, err
	}

	if err := req.Validate(); err != nil {
		return fail(err)
	}

	postsEP, err := NormalizeEndpoint(site.BaseURL, ResourcePosts)
	if err != nil {
		return fail(err)
	}
	if err := p.client.guard(postsEP, StageIdle); err != nil {
		return fail(err)
	}
	fields["endpoint"] = postsEP.URL

	var authHeader string
	if creds, ok := ResolveCredentials(site.Credentials, req.Override); ok {
		authHeader = creds.Header()
	}
	fields["authenticated"] = authHeader != ""

	payload := postPayload{
		Title:      req.Title,
		Content:    req.Content,
		Excerpt:    req.Excerpt,
		Status:     req.Status.wire(),
		Categories: req.Categories,
		Tags:       req.Tags,
	}

	if req.Attachment != nil {
		stage = StageUploading
		mediaEP, err := NormalizeEndpoint(site.BaseURL, ResourceMedia)
		if err != nil {
			return fail(err)
		}
		mediaID, err := p.client.UploadMedia(ctx, mediaEP.URL, authHeader, *req.Attachment)
		if err != nil {
			return fail(err)
		}
		payload.FeaturedMedia = mediaID
		fields["featured_media"] = mediaID
	}

	stage = StagePosting
	body, err := json.Marshal(payload)
	if err != nil {
		return fail(&Error{Kind: KindInvalidRequest, Message: "could not encode post", Err: err})
	}
	resp, err := p.client.send(ctx, StagePosting, outgoing{
		method:      http.MethodPost,
		url:         postsEP.URL,
		auth:        authHeader,
		contentType: "application/json",
		body:        body,
	})
	if err != nil {
		return fail(err)
	}
	if !resp.ok() {
		return fail(remoteError(KindRemoteRejection, StagePosting, "WordPress rejected the post", resp))
	}

	var created postResponse
	if err := json.Unmarshal(resp.body, &created); err != nil {
		return fail(&Error{
			Kind:    KindRemoteRejection,
			Status:  resp.status,
			Message: "WordPress returned an unreadable response",
			Details: readFailureDetail(resp).details,
			Err:     err,
		})
	}

	result := &PublishResult{ID: created.ID, Link: created.Link, Status: created.Status}
	if result.Link == "" {
		result.Link = created.GUID.Rendered
	}
	if result.Status == "" {
		result.Status = payload.Status
	}

	stage = StageSucceeded
	fields["stage"] = string(stage)
	fields["post_id"] = result.ID
	logger.InfoWithFields("wordpress post created", fields)
	return result, nil
}
