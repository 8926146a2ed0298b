package producer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

var (
	ErrInvalidateParameter = errors.New("invalidate parameter")
	ErrProducerClosed      = errors.New("producer is closed")
)

// Writer 只取 kafka.Writer 用到的方法，方便測試替換
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Config struct {
	Brokers      []string
	Topic        string
	BatchTimeout time.Duration
	WriteTimeout time.Duration
	RequiredAcks int
}

func DefaultConfig(brokers []string, topic string) Config {
	return Config{
		Brokers:      brokers,
		Topic:        topic,
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: 5 * time.Second,
		RequiredAcks: int(kafka.RequireOne),
	}
}

// KafkaError 代表 Kafka 操作錯誤
type KafkaError struct {
	Operation string
	Topic     string
	Err       error
}

func (e *KafkaError) Error() string {
	return fmt.Sprintf("kafka operation %s on topic %s failed: %v", e.Operation, e.Topic, e.Err)
}

func (e *KafkaError) Unwrap() error {
	return e.Err
}

/*
同步寫入，會 block 到 broker ack
不做重試，失敗由呼叫端記 log
*/
type KafkaOrderPublisher struct {
	writer Writer
	topic  string
	closed atomic.Bool
	logger *zerolog.Logger
}

func NewKafkaWriter(cfg Config) (*kafka.Writer, error) {
	if len(cfg.Brokers) == 0 || cfg.Topic == "" {
		return nil, ErrInvalidateParameter
	}
	return &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           cfg.BatchTimeout,
		WriteTimeout:           cfg.WriteTimeout,
		RequiredAcks:           kafka.RequiredAcks(cfg.RequiredAcks),
		AllowAutoTopicCreation: true,
		Transport: &kafka.Transport{
			Dial: (&net.Dialer{
				Timeout:   10 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
		},
	}, nil
}

func NewKafkaOrderPublisher(w Writer, topic string, logger *zerolog.Logger) *KafkaOrderPublisher {
	if w == nil {
		panic("NewKafkaOrderPublisher: writer cannot be nil")
	}
	if logger == nil {
		l := zerolog.Nop()
		logger = &l
	}
	return &KafkaOrderPublisher{writer: w, topic: topic, logger: logger}
}

func (p *KafkaOrderPublisher) Publish(ctx context.Context, event OrderEvent) error {
	if p.closed.Load() {
		return ErrProducerClosed
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	value, err := json.Marshal(event)
	if err != nil {
		return &KafkaError{Operation: "Marshal", Topic: p.topic, Err: err}
	}

	msg := kafka.Message{
		Key:   []byte(event.OrderID),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
		},
		Time: event.OccurredAt,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return &KafkaError{Operation: "Produce", Topic: p.topic, Err: err}
	}

	p.logger.Debug().
		Str("event_type", string(event.Type)).
		Str("order_id", event.OrderID).
		Msg("order event published")
	return nil
}

func (p *KafkaOrderPublisher) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	return p.writer.Close()
}
