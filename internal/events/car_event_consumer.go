package events

import (
	"context"
	"encoding/json"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/rentacar/service-booking/internal/application"
	"github.com/rentacar/service-booking/internal/contracts"
	"github.com/rentacar/service-booking/pkg/kafka"
)

// CarEventConsumer listens to fleet events from the inventory service and
// keeps the local car read model in sync. Retiring a car also cancels its
// active bookings.
type CarEventConsumer struct {
	consumer *kafka.Consumer
	cars     *application.CarService
	bookings *application.BookingService
	logger   *zap.Logger
}

// NewCarEventConsumer creates a new CarEventConsumer.
func NewCarEventConsumer(
	brokers []string,
	groupID string,
	cars *application.CarService,
	bookings *application.BookingService,
	logger *zap.Logger,
) *CarEventConsumer {
	consumer := kafka.NewConsumer(brokers, groupID, contracts.TopicCarEvents, logger)
	return &CarEventConsumer{
		consumer: consumer,
		cars:     cars,
		bookings: bookings,
		logger:   logger,
	}
}

// Start begins consuming car events. Blocks until the context is cancelled.
func (c *CarEventConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *CarEventConsumer) Close() error {
	return c.consumer.Close()
}

func (c *CarEventConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	var cloudEvent kafka.CloudEvent
	if err := json.Unmarshal(msg.Value, &cloudEvent); err != nil {
		c.logger.Error("failed to parse cloud event from car topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil // Don't retry malformed messages
	}

	switch cloudEvent.Type {
	case contracts.CarCreated, contracts.CarUpdated:
		return c.handleCarUpserted(ctx, cloudEvent)
	case contracts.CarRetired:
		return c.handleCarRetired(ctx, cloudEvent)
	default:
		c.logger.Debug("ignoring unhandled car event type",
			zap.String("type", cloudEvent.Type),
		)
		return nil
	}
}

func (c *CarEventConsumer) handleCarUpserted(ctx context.Context, cloudEvent kafka.CloudEvent) error {
	var evt contracts.CarUpsertedEvent
	if err := cloudEvent.ParseData(&evt); err != nil {
		c.logger.Error("failed to parse car snapshot data", zap.Error(err))
		return nil // Don't retry malformed data
	}

	return c.cars.ApplyCarUpserted(ctx, evt)
}

func (c *CarEventConsumer) handleCarRetired(ctx context.Context, cloudEvent kafka.CloudEvent) error {
	var evt contracts.CarRetiredEvent
	if err := cloudEvent.ParseData(&evt); err != nil {
		c.logger.Error("failed to parse car retirement data", zap.Error(err))
		return nil // Don't retry malformed data
	}

	if err := c.cars.ApplyCarRetired(ctx, evt); err != nil {
		return err
	}

	canceled, err := c.bookings.CancelBookingsForCar(ctx, evt.CarID, "car retired from fleet")
	if err != nil {
		c.logger.Error("failed to cancel bookings for retired car",
			zap.String("car_id", evt.CarID.String()),
			zap.Error(err),
		)
		return err
	}

	c.logger.Info("car retirement processed",
		zap.String("car_id", evt.CarID.String()),
		zap.Int("canceled_bookings", canceled),
	)
	return nil
}
