package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"wp-dispatch/logger"
)

// NewJSONEvent 는 payload 를 JSON 으로 인코딩하여 Event 를 구성한다.
// id 가 빈 문자열이면 고해상도 타임스탬프 기반의 ID 를 생성한다.
func NewJSONEvent(id, eventType string, payload any) (Event, error) {
	if id == "" {
		id = fmt.Sprintf("%d", time.Now().UnixNano())
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("payload marshal 실패: %w", err)
	}
	return Event{ID: id, Type: eventType, Payload: b}, nil
}

// DecodeJSON 은 Event.Payload 를 제네릭 타입으로 언마샬한다.
func DecodeJSON[T any](evt Event) (T, error) {
	var out T
	if err := json.Unmarshal(evt.Payload, &out); err != nil {
		var zero T
		return zero, fmt.Errorf("payload unmarshal 실패: %w", err)
	}
	return out, nil
}

// PublishJSON 은 payload 를 인코딩해 발행하고, 실패하면 경고 로그만 남긴다.
// 이벤트 발행 실패가 요청 처리 결과를 바꾸지 않도록 에러를 반환하지 않는다.
func PublishJSON(ctx context.Context, bus EventBus, topic Topic, id, eventType string, payload any) {
	if bus == nil {
		return
	}
	evt, err := NewJSONEvent(id, eventType, payload)
	if err == nil {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		err = bus.Publish(ctx, topic, evt)
	}
	if err != nil {
		logger.WarnWithFields("event publish failed", logger.Fields{
			"topic":      topic.Base(),
			"event_id":   id,
			"event_type": eventType,
			"error":      err.Error(),
		})
	}
}
