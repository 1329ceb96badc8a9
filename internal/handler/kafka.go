package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/segmentio/kafka-go"

	"github.com/rndrianasolo/commercepro/internal/config"
	"github.com/rndrianasolo/commercepro/internal/entities"
	"github.com/rndrianasolo/commercepro/internal/service"
)

type PositionPublisher interface {
	PublishPosition(ctx context.Context, userID string, sample entities.PositionSample) (service.PublishOutcome, error)
}

// PositionMessage is a driver device GPS sample arriving over the position
// topic. RecordedAt is a unix millisecond timestamp.
type PositionMessage struct {
	UserID     string  `json:"user_id" validate:"required"`
	Lat        float64 `json:"lat" validate:"omitempty,latitude"`
	Lng        float64 `json:"lng" validate:"omitempty,longitude"`
	Accuracy   float64 `json:"accuracy,omitempty" validate:"gte=0"`
	Battery    int     `json:"battery_level,omitempty" validate:"gte=0,lte=100"`
	GPSDenied  bool    `json:"gps_denied,omitempty"`
	RecordedAt int64   `json:"recorded_at,omitempty"`
}

type kafkaHandler struct {
	dlq       *kafka.Writer
	reader    *kafka.Reader
	logger    *slog.Logger
	validate  *validator.Validate
	publisher PositionPublisher
}

func NewKafkaHandler(logger *slog.Logger, cfg config.Kafka, publisher PositionPublisher) *kafkaHandler {
	return &kafkaHandler{
		logger: logger.With(slog.String("handler", "kafka")),
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers: cfg.Brokers,
			GroupID: cfg.GroupID,
			Topic:   cfg.Topic,
			MaxWait: cfg.ReaderMaxWait,
		}),
		dlq: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: cfg.BatchTimeout,
		},
		validate:  validator.New(),
		publisher: publisher,
	}
}

// Consume drains the position topic until the context is cancelled. Only
// malformed samples go to the DLQ; a failed store write is fire-and-forget
// and already counted by the publisher.
func (h *kafkaHandler) Consume(ctx context.Context) {
	for {
		m, err := h.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
				break
			}
			h.logger.Error("failed to fetch message", slog.Any("error", err))
			continue
		}

		if err := h.handleSample(ctx, m); err != nil {
			h.logger.Error("failed to handle position sample", slog.Any("error", err))
			samplesRejected.Inc()

			if err := h.writeToDLQ(ctx, m); err != nil {
				h.logger.Error("failed to write message to DLQ", slog.Any("error", err))
				continue
			}
		} else {
			samplesProcessed.Inc()
		}

		if err := h.reader.CommitMessages(ctx, m); err != nil {
			h.logger.Error("failed to commit message", slog.Any("error", err))
		}
	}
}

func (h *kafkaHandler) handleSample(ctx context.Context, m kafka.Message) error {
	var msg PositionMessage
	if err := json.Unmarshal(m.Value, &msg); err != nil {
		return fmt.Errorf("failed to unmarshal position sample: %w", err)
	}

	if err := h.validate.Struct(msg); err != nil {
		return fmt.Errorf("invalid position sample: %w", err)
	}

	recordedAt := time.Now()
	if msg.RecordedAt > 0 {
		recordedAt = time.UnixMilli(msg.RecordedAt)
	}

	_, err := h.publisher.PublishPosition(ctx, msg.UserID, entities.PositionSample{
		Lat:        msg.Lat,
		Lng:        msg.Lng,
		Accuracy:   msg.Accuracy,
		Battery:    msg.Battery,
		RecordedAt: recordedAt,
		GPSDenied:  msg.GPSDenied,
	})
	if err != nil {
		return fmt.Errorf("failed to publish position: %w", err)
	}
	return nil
}

func (h *kafkaHandler) writeToDLQ(ctx context.Context, m kafka.Message) error {
	m.Topic = fmt.Sprintf("%s-dlq", m.Topic)
	return h.dlq.WriteMessages(ctx, m)
}

func (h *kafkaHandler) Close() error {
	if err := h.reader.Close(); err != nil {
		return err
	}
	return h.dlq.Close()
}
