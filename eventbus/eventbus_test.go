package eventbus

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTopics(t *testing.T) {
	topics := NewTopics("acme.")
	assert.Equal(t, "acme.blog.events", topics.Blogs.Base())
	assert.Equal(t, "acme.post.events", topics.Posts.Base())
	assert.Equal(t, "acme.user.events", topics.Users.Base())
	assert.Len(t, topics.All(), 3)

	assert.Equal(t, "wp-dispatch.post.events", NewTopics("  ").Posts.Base())
}

func TestPublishJSONRecordsOnLogBus(t *testing.T) {
	bus := NewLogBus(16)
	topic := NewTopic("test.events")

	type payload struct {
		BlogID int64  `json:"blog_id"`
		Link   string `json:"link"`
	}
	PublishJSON(context.Background(), bus, topic, "evt-1", "post.published", payload{BlogID: 7, Link: "https://x.com/p"})

	events := bus.Events(topic)
	require.Len(t, events, 1)
	assert.Equal(t, "evt-1", events[0].ID)
	assert.Equal(t, "post.published", events[0].Type)

	decoded, err := DecodeJSON[payload](events[0])
	require.NoError(t, err)
	assert.Equal(t, int64(7), decoded.BlogID)
	assert.Equal(t, "https://x.com/p", decoded.Link)
}

type failingBus struct{ calls int }

func (f *failingBus) Publish(context.Context, Topic, Event) error {
	f.calls++
	return errors.New("broker down")
}
func (f *failingBus) Close() {}

func TestPublishJSONSwallowsFailures(t *testing.T) {
	bus := &failingBus{}
	PublishJSON(context.Background(), bus, NewTopic("t"), "", "blog.created", map[string]int{"id": 1})
	assert.Equal(t, 1, bus.calls)

	// nil bus 는 아무 것도 하지 않는다.
	PublishJSON(context.Background(), nil, NewTopic("t"), "", "blog.created", nil)
}

func TestNewJSONEventGeneratesID(t *testing.T) {
	evt, err := NewJSONEvent("", "user.synced", map[string]string{"email": "a@b.c"})
	require.NoError(t, err)
	assert.NotEmpty(t, evt.ID)
	assert.JSONEq(t, `{"email":"a@b.c"}`, string(evt.Payload))

	_, err = NewJSONEvent("x", "bad", make(chan int))
	assert.Error(t, err)
}

func TestLogBusKeepsOnlyRecentHistory(t *testing.T) {
	bus := NewLogBus(10)
	topic := NewTopic("test.events")
	for i := 0; i < 1000; i++ {
		PublishJSON(context.Background(), bus, topic, fmt.Sprintf("evt-%d", i), "post.published", i)
	}

	kept := bus.Events(topic)
	require.Len(t, kept, 10)
	assert.Equal(t, "evt-990", kept[0].ID)
	assert.Equal(t, "evt-999", kept[9].ID)
}

func TestLogBusWithoutHistoryOnlyLogs(t *testing.T) {
	bus := NewLogBus(0)
	topic := NewTopic("test.events")
	for i := 0; i < 100; i++ {
		require.NoError(t, bus.Publish(context.Background(), topic, Event{ID: "x", Type: "blog.created"}))
	}
	assert.Empty(t, bus.Events(topic))
}

func TestKafkaPublishDoesNotWaitForDelivery(t *testing.T) {
	// 연결할 수 없는 브로커여도 Produce 는 큐에 넣고 바로 반환한다.
	bus, err := NewKafkaEventBus("127.0.0.1:1")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = bus.Producer.Purge(kafka.PurgeQueue | kafka.PurgeInFlight)
		bus.Producer.Close()
	})

	start := time.Now()
	err = bus.Publish(context.Background(), NewTopic("test.events"), Event{ID: "evt-1", Type: "post.published", Payload: []byte(`{}`)})
	require.NoError(t, err)
	assert.Less(t, time.Since(start), time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, bus.Publish(ctx, NewTopic("test.events"), Event{ID: "evt-2"}), context.Canceled)
}
