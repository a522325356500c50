package eventbus

import (
	"context"
	"sync"

	"wp-dispatch/logger"
)

// LogBus 는 Kafka 가 설정되지 않았을 때 사용하는 EventBus 구현이다.
// 이벤트를 로그로 남기고, history > 0 이면 토픽별 최근 history 개만 보관한다.
type LogBus struct {
	mu      sync.Mutex
	history int
	events  map[string][]Event
}

// NewLogBus 는 토픽마다 최근 history 개의 이벤트를 보관하는 LogBus 를 만든다.
// 운영 서버는 0 을 넘겨 로그만 남긴다.
func NewLogBus(history int) *LogBus {
	if history < 0 {
		history = 0
	}
	return &LogBus{history: history, events: make(map[string][]Event)}
}

func (b *LogBus) Publish(ctx context.Context, topic Topic, event Event) error {
	if b.history > 0 {
		b.mu.Lock()
		kept := append(b.events[topic.Base()], event)
		if over := len(kept) - b.history; over > 0 {
			// 앞쪽을 잘라낸 뒤 새 배열로 옮겨 오래된 이벤트가 GC 되게 한다.
			kept = append([]Event(nil), kept[over:]...)
		}
		b.events[topic.Base()] = kept
		b.mu.Unlock()
	}

	logger.DebugWithFields("event published", logger.Fields{
		"topic":      topic.Base(),
		"event_id":   event.ID,
		"event_type": event.Type,
	})
	return nil
}

// Events 는 topic 으로 발행된 최근 이벤트의 복사본을 오래된 순서로 반환한다.
func (b *LogBus) Events(topic Topic) []Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Event(nil), b.events[topic.Base()]...)
}

func (b *LogBus) Close() {}
