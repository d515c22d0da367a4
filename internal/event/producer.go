package event

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Anupmor1998/foodApp/pkg/kafka"
	"github.com/Anupmor1998/foodApp/pkg/logger"
)

const source = "tour-booking-service"

// Kafka topics published by this service.
const (
	TopicBookingCreated     = "booking.created"
	TopicReviewCreated      = "review.created"
	TopicTourRatingsUpdated = "tour.ratings_updated"
)

// BookingCreatedData is the payload of a booking.created event.
type BookingCreatedData struct {
	BookingID         string    `json:"booking_id"`
	TourID            string    `json:"tour_id"`
	UserID            string    `json:"user_id"`
	Price             float64   `json:"price"`
	CheckoutSessionID string    `json:"checkout_session_id"`
	CreatedAt         time.Time `json:"created_at"`
}

// ReviewCreatedData is the payload of a review.created event.
type ReviewCreatedData struct {
	ReviewID string `json:"review_id"`
	TourID   string `json:"tour_id"`
	UserID   string `json:"user_id"`
	Rating   int    `json:"rating"`
}

// TourRatingsUpdatedData is the payload of a tour.ratings_updated event.
type TourRatingsUpdatedData struct {
	TourID          string  `json:"tour_id"`
	RatingsAverage  float64 `json:"ratings_average"`
	RatingsQuantity int     `json:"ratings_quantity"`
}

// Publisher emits domain events. Implementations must be safe for concurrent
// use.
type Publisher interface {
	BookingCreated(ctx context.Context, data BookingCreatedData) error
	ReviewCreated(ctx context.Context, data ReviewCreatedData) error
	TourRatingsUpdated(ctx context.Context, data TourRatingsUpdatedData) error
}

// KafkaPublisher publishes domain events to Kafka using the shared envelope.
type KafkaPublisher struct {
	producer *kafka.Producer
}

// NewKafkaPublisher creates a Kafka-backed event publisher.
func NewKafkaPublisher(producer *kafka.Producer) *KafkaPublisher {
	return &KafkaPublisher{producer: producer}
}

// BookingCreated publishes a booking.created event keyed by booking id.
func (p *KafkaPublisher) BookingCreated(ctx context.Context, data BookingCreatedData) error {
	return p.publish(ctx, TopicBookingCreated, data.BookingID, "booking", data)
}

// ReviewCreated publishes a review.created event keyed by review id.
func (p *KafkaPublisher) ReviewCreated(ctx context.Context, data ReviewCreatedData) error {
	return p.publish(ctx, TopicReviewCreated, data.ReviewID, "review", data)
}

// TourRatingsUpdated publishes a tour.ratings_updated event keyed by tour id.
func (p *KafkaPublisher) TourRatingsUpdated(ctx context.Context, data TourRatingsUpdatedData) error {
	return p.publish(ctx, TopicTourRatingsUpdated, data.TourID, "tour", data)
}

func (p *KafkaPublisher) publish(ctx context.Context, topic, aggregateID, aggregateType string, data any) error {
	evt, err := kafka.NewEvent(topic, aggregateID, aggregateType, source, data)
	if err != nil {
		return fmt.Errorf("build %s event: %w", topic, err)
	}
	if cid := logger.CorrelationIDFromContext(ctx); cid != "" {
		evt.WithCorrelationID(cid)
	}
	return p.producer.Publish(ctx, topic, evt)
}

// NoopPublisher discards events. Used when Kafka is not configured.
type NoopPublisher struct {
	logger *slog.Logger
}

// NewNoopPublisher creates a publisher that logs and drops every event.
func NewNoopPublisher(l *slog.Logger) *NoopPublisher {
	return &NoopPublisher{logger: l}
}

func (p *NoopPublisher) BookingCreated(ctx context.Context, data BookingCreatedData) error {
	p.logger.DebugContext(ctx, "event dropped, no broker configured",
		slog.String("topic", TopicBookingCreated), slog.String("booking_id", data.BookingID))
	return nil
}

func (p *NoopPublisher) ReviewCreated(ctx context.Context, data ReviewCreatedData) error {
	p.logger.DebugContext(ctx, "event dropped, no broker configured",
		slog.String("topic", TopicReviewCreated), slog.String("review_id", data.ReviewID))
	return nil
}

func (p *NoopPublisher) TourRatingsUpdated(ctx context.Context, data TourRatingsUpdatedData) error {
	p.logger.DebugContext(ctx, "event dropped, no broker configured",
		slog.String("topic", TopicTourRatingsUpdated), slog.String("tour_id", data.TourID))
	return nil
}
