package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
	"go.uber.org/zap"

	"github.com/stoik/email-guard/internal/domain"
)

// ScanEvent is the payload published for every completed scan
type ScanEvent struct {
	ID           string              `json:"id"`
	UserID       string              `json:"user_id"`
	ScanResponse domain.ScanResponse `json:"scan_response"`
	CreatedAt    string              `json:"created_at"`
}

// NewScanEvent builds the event payload for a history entry
func NewScanEvent(entry domain.HistoryEntry) ScanEvent {
	return ScanEvent{
		ID:           entry.ID.String(),
		UserID:       entry.UserID,
		ScanResponse: entry.ScanResponse,
		CreatedAt:    entry.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

// KafkaPublisher publishes scan events to a Kafka topic
//
// Records are keyed by user ID so one user's scans stay ordered within a
// partition. Publishing never blocks; failures are logged, never returned.
type KafkaPublisher struct {
	client *kgo.Client
	topic  string
	logger *zap.Logger
}

// NewKafkaPublisher connects a producer to the seed brokers; extra options override the defaults
func NewKafkaPublisher(brokers []string, topic string, logger *zap.Logger, extra ...kgo.Opt) (*KafkaPublisher, error) {
	opts := append([]kgo.Opt{
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.ProducerLinger(50 * time.Millisecond),
		kgo.RecordDeliveryTimeout(10 * time.Second),
		kgo.MaxBufferedRecords(10000),
	}, extra...)

	client, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka client: %w", err)
	}

	return &KafkaPublisher{client: client, topic: topic, logger: logger}, nil
}

// Publish enqueues the event for the scan
func (p *KafkaPublisher) Publish(ctx context.Context, entry domain.HistoryEntry) {
	data, err := json.Marshal(NewScanEvent(entry))
	if err != nil {
		p.logger.Error("Kafka publish: marshal error", zap.Error(err))
		return
	}

	record := &kgo.Record{
		Topic:     p.topic,
		Key:       []byte(entry.UserID),
		Value:     data,
		Timestamp: entry.CreatedAt,
	}

	// Detached from the request context: the record must outlive the HTTP response.
	// TryProduce fails fast instead of waiting when the buffer is full.
	p.client.TryProduce(context.WithoutCancel(ctx), record, func(r *kgo.Record, err error) {
		if errors.Is(err, kgo.ErrMaxBuffered) {
			p.logger.Warn("Kafka producer buffer full, dropping scan event",
				zap.String("topic", p.topic),
				zap.String("scan_id", entry.ID.String()),
				zap.Error(err))
			return
		}
		if err != nil {
			p.logger.Warn("Kafka publish error",
				zap.String("topic", p.topic),
				zap.String("scan_id", entry.ID.String()),
				zap.Error(err))
			return
		}
		p.logger.Debug("Published scan event",
			zap.String("topic", r.Topic),
			zap.Int32("partition", r.Partition),
			zap.Int64("offset", r.Offset))
	})
}

// Close flushes buffered records and closes the client
func (p *KafkaPublisher) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := p.client.Flush(ctx)
	p.client.Close()
	if err != nil {
		return fmt.Errorf("failed to flush scan events: %w", err)
	}
	return nil
}

// NopPublisher drops every event; used when no broker is configured
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, domain.HistoryEntry) {}

func (NopPublisher) Close() error { return nil }
