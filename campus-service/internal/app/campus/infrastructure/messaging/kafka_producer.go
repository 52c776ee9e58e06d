package messaging

import (
	"context"
	"fmt"
	"time"

	"campusreview/campus-service/internal/app/campus/infrastructure"
	"campusreview/pkg/metrics"

	"github.com/segmentio/kafka-go"
)

const metricsService = "campus-service"

var _ infrastructure.MessagePublisher = (*KafkaProducer)(nil)

// KafkaProducer публикует события платформы (комментарии, оценки, отзывы) в один топик
type KafkaProducer struct {
	writer *kafka.Writer
	topic  string
}

func NewKafkaProducer(brokers []string, topic string) *KafkaProducer {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{}, // Один ключ - одна партиция, порядок событий сущности сохраняется
		BatchSize:              100,
		BatchTimeout:           50 * time.Millisecond,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}

	return &KafkaProducer{writer: writer, topic: topic}
}

func (p *KafkaProducer) PublishMessage(ctx context.Context, key string, value []byte) error {
	timer := metrics.NewKafkaProduceTimer(metricsService, p.topic)

	message := kafka.Message{
		Key:   []byte(key),
		Value: value,
		Time:  time.Now(),
	}

	if err := p.writer.WriteMessages(ctx, message); err != nil {
		timer.Error()
		return fmt.Errorf("failed to write message to kafka: %w", err)
	}

	timer.Success()
	return nil
}

func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}
