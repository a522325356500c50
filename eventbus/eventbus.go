package eventbus

import (
	"context"
	"encoding/json"
)

// Topic 은 이벤트 토픽의 기본 이름을 관리한다.
type Topic struct {
	base string
}

func NewTopic(base string) Topic {
	return Topic{base: base}
}

func (t Topic) Base() string {
	return t.base
}

// Event 는 Kafka 메시지의 페이로드로 사용되는 구조체다.
type Event struct {
	ID      string          `json:"id"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// EventBus 는 도메인 이벤트 발행의 추상화다.
// 발행은 best-effort 이며 호출자는 실패를 로그로만 남긴다.
type EventBus interface {
	Publish(ctx context.Context, topic Topic, event Event) error
	Close()
}
