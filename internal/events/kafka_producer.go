package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
)

// One event is written per call, so waiting to fill a batch only adds latency.
const writeBatchTimeout = 10 * time.Millisecond

// MessageWriter is the subset of *kafka.Writer the producer needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaProducer publishes events as JSON, keyed by book id so that all
// events of one book land on the same partition.
type KafkaProducer struct {
	writer    MessageWriter
	namespace string
}

// NewKafkaProducer creates a producer for the given broker and topic.
func NewKafkaProducer(broker, topic, namespace string) *KafkaProducer {
	return &KafkaProducer{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(broker),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			BatchTimeout:           writeBatchTimeout,
			AllowAutoTopicCreation: false,
		},
		namespace: namespace,
	}
}

// NewKafkaProducerWithWriter builds a producer using a custom writer (tests).
func NewKafkaProducerWithWriter(writer MessageWriter, namespace string) *KafkaProducer {
	return &KafkaProducer{writer: writer, namespace: namespace}
}

func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}

func (p *KafkaProducer) Publish(ctx context.Context, e Event) error {
	if e.Namespace == "" {
		e.Namespace = p.namespace
	}
	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(e.BookID),
		Value: payload,
		Time:  e.Time.UTC(),
	}
	return p.writer.WriteMessages(ctx, msg)
}
