package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType 이벤트 타입 정의
type EventType string

const (
	BlogCreated       EventType = "blog.created"
	BlogUpdated       EventType = "blog.updated"
	BlogDeleted       EventType = "blog.deleted"
	PostPublished     EventType = "post.published"
	PostPublishFailed EventType = "post.publish_failed"
	UserSynced        EventType = "user.synced"
	UserDeleted       EventType = "user.deleted"
)

const eventSchemaVersion = "1.0"

// BaseEvent 모든 이벤트의 기본 구조
type BaseEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
	Version   string    `json:"version"`
}

// NewBaseEvent 는 새 이벤트 ID 와 현재 시각으로 BaseEvent 를 만든다.
func NewBaseEvent(eventType EventType, source string) BaseEvent {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Source:    source,
		Version:   eventSchemaVersion,
	}
}

// BlogEvent 블로그 등록/수정/삭제 이벤트. 자격 증명은 포함하지 않는다.
type BlogEvent struct {
	BaseEvent
	BlogID  int64  `json:"blog_id"`
	OwnerID int64  `json:"owner_id"`
	Name    string `json:"name"`
	APIURL  string `json:"api_url"`
	Favicon string `json:"favicon,omitempty"`
}

// PostPublishedEvent WordPress 발행 성공 이벤트
type PostPublishedEvent struct {
	BaseEvent
	BlogID        int64  `json:"blog_id"`
	PostID        int64  `json:"post_id"`
	Link          string `json:"link"`
	Status        string `json:"status"`
	Title         string `json:"title"`
	FeaturedMedia bool   `json:"featured_media"`
}

// PostPublishFailedEvent WordPress 발행 실패 이벤트
type PostPublishFailedEvent struct {
	BaseEvent
	BlogID     int64  `json:"blog_id"`
	Title      string `json:"title"`
	Kind       string `json:"kind"`
	Stage      string `json:"stage,omitempty"`
	HTTPStatus int    `json:"http_status,omitempty"`
	Message    string `json:"message"`
}

// UserEvent 사용자 동기화(웹훅)/삭제 이벤트
type UserEvent struct {
	BaseEvent
	UserID     int64  `json:"user_id"`
	ExternalID string `json:"external_id,omitempty"`
	Email      string `json:"email,omitempty"`
}
