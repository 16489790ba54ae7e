package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// TicketEvent is published on every ticket lifecycle transition. The
// worker turns notification-topic copies into passenger emails.
type TicketEvent struct {
	Type        string    `json:"type"`
	TicketID    string    `json:"ticket_id"`
	FlightID    string    `json:"flight_id"`
	Passenger   string    `json:"passenger"`
	Email       string    `json:"email"`
	SeatNumber  string    `json:"seat_number,omitempty"`
	Status      string    `json:"status"`
	BookingDate time.Time `json:"booking_date"`
}

const (
	EventTicketCreated   = "ticket_created"
	EventTicketCancelled = "ticket_cancelled"
	EventTicketDeleted   = "ticket_deleted"
	EventTicketCompleted = "ticket_completed"
)

type Producer struct {
	writer *kafka.Writer
}

func NewProducer(brokers []string) *Producer {
	return &Producer{writer: &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}}
}

func (p *Producer) Publish(ctx context.Context, topic, key string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write message to kafka: %w", err)
	}
	return nil
}

func (p *Producer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}
