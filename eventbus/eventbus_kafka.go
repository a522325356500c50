package eventbus

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"

	"wp-dispatch/logger"
)

// KafkaEventBus 는 confluent-kafka-go 라이브러리를 사용한 EventBus 구현체다.
// 이 서비스는 이벤트를 발행만 하므로 Producer 만 가진다.
type KafkaEventBus struct {
	Producer *kafka.Producer
	Brokers  string
}

// NewKafkaEventBus 는 Kafka Producer 를 초기화한다.
func NewKafkaEventBus(brokers string) (*KafkaEventBus, error) {
	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": brokers,
		"acks":              "all",
		"retries":           5, // 일시적인 오류 발생 시 Producer 가 최대 5회 재시도한다.
	})
	if err != nil {
		return nil, fmt.Errorf("kafka Producer 생성 실패: %w", err)
	}

	// Producer 이벤트를 처리하는 고루틴 (전달 보고서 등)
	go func() {
		for e := range p.Events() {
			switch ev := e.(type) {
			case *kafka.Message:
				if ev.TopicPartition.Error != nil {
					logger.ErrorWithFields("메시지 전달 실패", logger.Fields{
						"topic":     topicName(ev.TopicPartition.Topic),
						"event_key": string(ev.Key),
						"error":     ev.TopicPartition.Error.Error(),
					})
				}
			case kafka.Error:
				logger.Log.Errorf("Kafka 오류: %v", ev)
			}
		}
	}()

	return &KafkaEventBus{Producer: p, Brokers: brokers}, nil
}

// Close 는 남은 메시지를 플러시한 뒤 Producer 를 종료한다.
func (k *KafkaEventBus) Close() {
	if k.Producer == nil {
		return
	}
	if remaining := k.Producer.Flush(5000); remaining > 0 {
		logger.Log.Warnf("플러시 후에도 %d개의 메시지가 남아 있습니다.", remaining)
	}
	k.Producer.Close()
	logger.Log.Info("Kafka Producer 종료.")
}

// Publish 는 메시지를 Producer 큐에 넣고 바로 반환한다.
// 전달 실패는 NewKafkaEventBus 의 이벤트 고루틴이 로그로 남긴다.
func (k *KafkaEventBus) Publish(ctx context.Context, topic Topic, event Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("이벤트 마샬링 실패: %w", err)
	}

	name := topic.Base()
	err = k.Producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &name, Partition: kafka.PartitionAny},
		Value:          data,
		Key:            []byte(event.ID),
		Headers:        []kafka.Header{{Key: "event_type", Value: []byte(event.Type)}},
	}, nil)
	if err != nil {
		return fmt.Errorf("메시지 발행 실패: %w", err)
	}
	return nil
}

func topicName(t *string) string {
	if t == nil {
		return ""
	}
	return *t
}
