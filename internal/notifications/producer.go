package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"motoshare/internal/bookings"

	"github.com/IBM/sarama"
)

// Booking event types published to the booking-events topic.
const (
	EventBookingConfirmed = "booking.confirmed"
	EventBookingCancelled = "booking.cancelled"
	EventBookingCompleted = "booking.completed"
)

// BookingEvent is the message shape downstream consumers (email, push,
// payout scheduling) read off the topic.
type BookingEvent struct {
	Type          string    `json:"type"`
	BookingID     string    `json:"booking_id"`
	VehicleID     string    `json:"vehicle_id"`
	RenterID      string    `json:"renter_id"`
	OwnerID       string    `json:"owner_id"`
	Status        string    `json:"status"`
	TotalPrice    int64     `json:"total_price"`
	OwnerEarnings int64     `json:"owner_earnings"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// KafkaProducerConfig contains configuration for the booking event producer
type KafkaProducerConfig struct {
	Brokers          []string
	Topic            string
	RetryMax         int
	TimeoutMs        int
	RequiredAcks     sarama.RequiredAcks
	CompressionType  sarama.CompressionCodec
	IdempotentWrites bool
}

// DefaultKafkaProducerConfig returns a default producer configuration
func DefaultKafkaProducerConfig() *KafkaProducerConfig {
	return &KafkaProducerConfig{
		Brokers:          []string{"localhost:9092"},
		Topic:            "booking-events",
		RetryMax:         3,
		TimeoutMs:        10000,
		RequiredAcks:     sarama.WaitForAll,
		CompressionType:  sarama.CompressionSnappy,
		IdempotentWrites: true,
	}
}

// KafkaBookingNotifier publishes booking lifecycle events to Kafka. It
// satisfies bookings.Notifier and never surfaces publish failures to the
// booking flow.
type KafkaBookingNotifier struct {
	producer sarama.SyncProducer
	config   *KafkaProducerConfig
}

// NewKafkaBookingNotifier creates a new booking event producer
func NewKafkaBookingNotifier(config *KafkaProducerConfig) (*KafkaBookingNotifier, error) {
	if config == nil {
		config = DefaultKafkaProducerConfig()
	}

	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = config.RequiredAcks
	saramaConfig.Producer.Compression = config.CompressionType
	saramaConfig.Producer.Retry.Max = config.RetryMax
	saramaConfig.Producer.Timeout = time.Duration(config.TimeoutMs) * time.Millisecond
	saramaConfig.Producer.Idempotent = config.IdempotentWrites
	if config.IdempotentWrites {
		saramaConfig.Net.MaxOpenRequests = 1
	}

	// Partition by booking so events for one booking stay ordered.
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(config.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	log.Printf("Kafka booking event producer created")
	return &KafkaBookingNotifier{producer: producer, config: config}, nil
}

func (n *KafkaBookingNotifier) BookingConfirmed(ctx context.Context, b *bookings.Booking) {
	n.publish(EventBookingConfirmed, b)
}

func (n *KafkaBookingNotifier) BookingCancelled(ctx context.Context, b *bookings.Booking) {
	n.publish(EventBookingCancelled, b)
}

func (n *KafkaBookingNotifier) BookingCompleted(ctx context.Context, b *bookings.Booking) {
	n.publish(EventBookingCompleted, b)
}

func (n *KafkaBookingNotifier) publish(eventType string, b *bookings.Booking) {
	event := BookingEvent{
		Type:          eventType,
		BookingID:     b.ID.String(),
		VehicleID:     b.VehicleID.String(),
		RenterID:      b.RenterID.String(),
		OwnerID:       b.OwnerID.String(),
		Status:        b.Status.String(),
		TotalPrice:    b.TotalPrice,
		OwnerEarnings: b.OwnerEarnings,
		OccurredAt:    time.Now().UTC(),
	}

	messageBytes, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to marshal booking event %s: %v", eventType, err)
		return
	}

	message := &sarama.ProducerMessage{
		Topic: n.config.Topic,
		Key:   sarama.StringEncoder(event.BookingID),
		Value: sarama.ByteEncoder(messageBytes),
	}

	if _, _, err := n.producer.SendMessage(message); err != nil {
		// Event delivery is best-effort; the booking transition already
		// committed.
		log.Printf("Failed to publish booking event %s for %s: %v", eventType, event.BookingID, err)
	}
}

// Close shuts down the underlying producer.
func (n *KafkaBookingNotifier) Close() error {
	return n.producer.Close()
}
