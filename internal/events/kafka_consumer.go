package events

import (
	"context"

	"github.com/airlock-stays/service-booking/internal/application"
	"github.com/airlock-stays/service-booking/internal/platform/kafka"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Sweeper runs one status sweep.
type Sweeper interface {
	Sweep(ctx context.Context) (application.SweepResult, error)
}

// SweepCommandConsumer listens on the booking command topic and runs a
// status sweep for every sweep request.
type SweepCommandConsumer struct {
	consumer *kafka.Consumer
	sweeper  Sweeper
	logger   *zap.Logger
}

// NewSweepCommandConsumer creates a new SweepCommandConsumer.
func NewSweepCommandConsumer(
	brokers []string,
	groupID string,
	sweeper Sweeper,
	logger *zap.Logger,
) *SweepCommandConsumer {
	consumer := kafka.NewConsumer(brokers, groupID, application.TopicBookingCommands, logger)
	return &SweepCommandConsumer{
		consumer: consumer,
		sweeper:  sweeper,
		logger:   logger,
	}
}

// Start begins consuming commands. This blocks until the context is cancelled.
func (c *SweepCommandConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *SweepCommandConsumer) Close() error {
	return c.consumer.Close()
}

func (c *SweepCommandConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	cloudEvent, err := kafka.ParseCloudEvent(msg.Value)
	if err != nil {
		c.logger.Error("failed to parse cloud event from command topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil // Don't retry malformed messages
	}

	switch cloudEvent.Type {
	case application.CommandSweepRequested:
		return c.handleSweepRequested(ctx, cloudEvent)
	default:
		c.logger.Debug("ignoring unhandled booking command",
			zap.String("type", cloudEvent.Type),
		)
		return nil
	}
}

func (c *SweepCommandConsumer) handleSweepRequested(ctx context.Context, cloudEvent kafka.CloudEvent) error {
	var cmd application.SweepRequestedCommand
	if err := cloudEvent.ParseData(&cmd); err != nil {
		c.logger.Error("failed to parse SweepRequestedCommand data",
			zap.Error(err),
		)
		return nil // Don't retry malformed data
	}

	c.logger.Info("processing sweep request",
		zap.String("requested_by", cmd.RequestedBy),
		zap.String("event_id", cloudEvent.ID),
	)

	result, err := c.sweeper.Sweep(ctx)
	if err != nil {
		c.logger.Error("requested sweep failed",
			zap.String("event_id", cloudEvent.ID),
			zap.Error(err),
		)
		return err
	}

	c.logger.Info("requested sweep finished",
		zap.Int64("completed", result.Completed),
		zap.Int64("activated", result.Activated),
	)
	return nil
}
