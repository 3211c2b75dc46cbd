package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// CloudEvent is the envelope wrapping every published event.
type CloudEvent struct {
	SpecVersion string          `json:"specversion"`
	ID          string          `json:"id"`
	Source      string          `json:"source"`
	Type        string          `json:"type"`
	Time        time.Time       `json:"time"`
	Data        json.RawMessage `json:"data"`
}

// ParseCloudEvent decodes a raw message into a CloudEvent envelope.
func ParseCloudEvent(raw []byte) (CloudEvent, error) {
	var ce CloudEvent
	err := json.Unmarshal(raw, &ce)
	return ce, err
}

// ParseData decodes the event payload into v.
func (ce CloudEvent) ParseData(v interface{}) error {
	return json.Unmarshal(ce.Data, v)
}

// Producer publishes promotion lifecycle events to Kafka. Publishing is
// best-effort: a broker failure is logged and never fails the triggering
// request.
type Producer struct {
	writer *kafkago.Writer
	source string
	logger *zap.Logger
}

// NewProducer creates a Producer for the given brokers and topic.
func NewProducer(brokers []string, topic, source string, logger *zap.Logger) *Producer {
	writer := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireOne,
	}
	return &Producer{writer: writer, source: source, logger: logger}
}

// Publish wraps data in a CloudEvent envelope keyed by key and writes it.
func (p *Producer) Publish(ctx context.Context, eventType, key string, data interface{}) {
	payload, err := json.Marshal(data)
	if err != nil {
		p.logger.Error("failed to marshal event payload",
			zap.String("type", eventType),
			zap.Error(err),
		)
		return
	}

	envelope := CloudEvent{
		SpecVersion: "1.0",
		ID:          uuid.NewString(),
		Source:      p.source,
		Type:        eventType,
		Time:        time.Now().UTC(),
		Data:        payload,
	}
	value, err := json.Marshal(envelope)
	if err != nil {
		p.logger.Error("failed to marshal cloud event", zap.Error(err))
		return
	}

	if err := p.writer.WriteMessages(ctx, kafkago.Message{
		Key:   []byte(key),
		Value: value,
	}); err != nil {
		p.logger.Error("failed to publish event",
			zap.String("type", eventType),
			zap.String("key", key),
			zap.Error(err),
		)
		return
	}

	p.logger.Debug("event published",
		zap.String("type", eventType),
		zap.String("key", key),
	)
}

// Close flushes and closes the underlying writer.
func (p *Producer) Close() error {
	return p.writer.Close()
}
