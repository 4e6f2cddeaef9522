package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/couchcryptid/ev-charger-map/internal/config"
	"github.com/couchcryptid/ev-charger-map/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer publishes rendered marker sets to a Kafka topic for downstream map
// renderers. It implements pipeline.MarkerPublisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured marker topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaMarkerTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Writer{writer: w, logger: logger}
}

// Publish serializes set and writes it as a single message keyed by render ID.
func (w *Writer) Publish(ctx context.Context, set domain.MarkerSet) error {
	msg, err := serializeToMessage(set)
	if err != nil {
		return err
	}
	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write marker set %s: %w", set.ID, err)
	}
	w.logger.Debug("marker set published", "id", set.ID, "markers", len(set.Markers))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a MarkerSet into a Kafka message.
func serializeToMessage(set domain.MarkerSet) (kafkago.Message, error) {
	data, err := json.Marshal(set)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize marker set: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(set.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "marker_count", Value: []byte(strconv.Itoa(len(set.Markers)))},
			{Key: "generated_at", Value: []byte(set.GeneratedAt.Format(time.RFC3339))},
		},
	}, nil
}
