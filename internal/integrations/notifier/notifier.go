package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/kkosolapov/SPA-BookingService/internal/domain"
)

// Event types published to the booking events topic.
const (
	EventBookingCreated   = "booking_created"
	EventBookingCancelled = "booking_cancelled"
	EventWaitlistPromoted = "waitlist_promoted"
)

// Event is the envelope for every message published to Kafka.
// Consumers (reminders, analytics) key on Type.
type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	SalonID    int64     `json:"salon_id"`
	BookingID  int64     `json:"booking_id,omitempty"`
	WaitlistID int64     `json:"waitlist_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload,omitempty"`
}

type logger interface {
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Notifier publishes booking lifecycle events to Kafka.
// With no brokers configured it degrades to a no-op so the core
// booking flow never depends on the broker being up.
type Notifier struct {
	writer *kafka.Writer
	logs   logger
}

// New создает нотификатор; при пустом списке брокеров публикация отключена
func New(brokers []string, topic string, logs logger) *Notifier {
	n := &Notifier{logs: logs}

	if len(brokers) == 0 {
		logs.Warn("notifier disabled (no kafka brokers configured)")
		return n
	}

	n.writer = kafka.NewWriter(kafka.WriterConfig{
		Brokers:  brokers,
		Topic:    topic,
		Balancer: &kafka.Hash{},
	})

	return n
}

// Close flushes and closes the underlying Kafka writer.
func (n *Notifier) Close() error {
	if n.writer == nil {
		return nil
	}
	return n.writer.Close()
}

// BookingCreated publishes a booking_created event.
func (n *Notifier) BookingCreated(ctx context.Context, booking *domain.Booking) {
	n.publish(ctx, Event{
		Type:      EventBookingCreated,
		SalonID:   booking.SalonID,
		BookingID: booking.ID,
		Payload: map[string]any{
			"resource_id":  booking.ResourceID,
			"service_name": booking.ServiceName,
			"booking_date": booking.BookingDate.Format(domain.DateFormat),
			"start_time":   booking.StartTime.String(),
			"status":       booking.Status,
		},
	})
}

// BookingCancelled publishes a booking_cancelled event with the fee outcome.
func (n *Notifier) BookingCancelled(ctx context.Context, booking *domain.Booking, outcome domain.CancellationOutcome) {
	n.publish(ctx, Event{
		Type:      EventBookingCancelled,
		SalonID:   booking.SalonID,
		BookingID: booking.ID,
		Payload: map[string]any{
			"resource_id":   booking.ResourceID,
			"reason_code":   outcome.ReasonCode,
			"fee_amount":    outcome.FeeAmount,
			"refund_amount": outcome.RefundAmount,
		},
	})
}

// WaitlistPromoted publishes a waitlist_promoted event so the customer
// can be notified that their desired window opened up.
func (n *Notifier) WaitlistPromoted(ctx context.Context, entry *domain.WaitlistEntry, freedDate string) {
	n.publish(ctx, Event{
		Type:       EventWaitlistPromoted,
		SalonID:    entry.SalonID,
		WaitlistID: entry.ID,
		Payload: map[string]any{
			"user_id":    entry.UserID,
			"service_id": entry.ServiceID,
			"freed_date": freedDate,
		},
	})
}

// publish fire-and-forget: ошибка брокера логируется, но не ломает основной флоу
func (n *Notifier) publish(ctx context.Context, event Event) {
	if n.writer == nil {
		return
	}

	event.ID = uuid.NewString()
	event.OccurredAt = time.Now().UTC()

	value, err := json.Marshal(event)
	if err != nil {
		n.logs.Error("notifier: marshal event %s: %v", event.Type, err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(fmt.Sprintf("salon-%d", event.SalonID)),
		Value: value,
	}

	if err := n.writer.WriteMessages(ctx, msg); err != nil {
		n.logs.Error("notifier: publish %s: %v", event.Type, err)
	}
}
