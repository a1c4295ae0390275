package audit

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
)

// MessageWriter is the part of *kafka.Writer the sink needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSink publishes entries to a topic, keyed by target user so one user's
// history stays ordered within a partition.
type KafkaSink struct {
	writer MessageWriter
}

func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
	}
}

func NewKafkaSink(w MessageWriter) *KafkaSink {
	return &KafkaSink{writer: w}
}

type kafkaPayload struct {
	Entry
	Level string `json:"level"`
}

func (s *KafkaSink) Write(ctx context.Context, e Entry) error {
	value, err := json.Marshal(kafkaPayload{Entry: e, Level: e.Level.String()})
	if err != nil {
		return err
	}
	return s.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatInt(e.TargetID, 10)),
		Value: value,
		Time:  e.At,
	})
}

func (s *KafkaSink) Close() error {
	return s.writer.Close()
}
