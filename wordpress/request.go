package wordpress

import (
	"encoding/json"
	"strings"

	"wp-dispatch/logger"
)

// Status is the publication state requested for a post.
type Status string

const (
	StatusDraft         Status = "draft"
	StatusPublish       Status = "publish"
	StatusPendingReview Status = "pending-review"
)

// ParseStatus maps user input onto a Status. Empty input defaults to draft.
// "pending" is accepted as an alias of pending-review.
func ParseStatus(raw string) (Status, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return StatusDraft, true
	case string(StatusDraft):
		return StatusDraft, true
	case string(StatusPublish):
		return StatusPublish, true
	case string(StatusPendingReview), "pending":
		return StatusPendingReview, true
	default:
		return "", false
	}
}

// wire returns the value the WordPress REST API expects.
func (s Status) wire() string {
	if s == StatusPendingReview {
		return "pending"
	}
	if s == "" {
		return string(StatusDraft)
	}
	return string(s)
}

// Site is the publishing target as the pipeline sees it.
type Site struct {
	Name        string
	BaseURL     string
	Credentials Credentials
}

// Attachment is the optional featured image sent with a post.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// PublishRequest is the work order for a single publish call.
type PublishRequest struct {
	Title      string
	Content    string
	Excerpt    string
	Status     Status
	Categories []string
	Tags       []string
	Attachment *Attachment
	Override   Credentials
}

// Validate checks the required fields and fills the default status.
func (r *PublishRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return invalidRequest("title is required")
	}
	if strings.TrimSpace(r.Content) == "" {
		return invalidRequest("content is required")
	}
	status, ok := ParseStatus(string(r.Status))
	if !ok {
		return invalidRequest("status must be one of draft, publish, pending-review")
	}
	r.Status = status
	if r.Attachment != nil && len(r.Attachment.Data) == 0 {
		r.Attachment = nil
	}
	return nil
}

// ParseStringList decodes a JSON-encoded string array such as `["news","go"]`.
// Malformed input is logged and treated as an empty list.
func ParseStringList(field, raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		logger.Log.Warnf("ignoring malformed %s list: %v", field, err)
		return nil
	}
	return out
}
