package email

import (
	"context"
	"log"

	"github.com/beratbaran/flyticket/internal/kafka"
)

type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

func (s *Sender) Send(ctx context.Context, event kafka.TicketEvent) error {
	log.Printf("send email to %s: %s for ticket %s on flight %s", event.Email, event.Type, event.TicketID, event.FlightID)
	return nil
}
