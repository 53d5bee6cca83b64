package email

import (
	"context"

	"github.com/blacktie-rides/limobooking/internal/kafka"
	log "github.com/sirupsen/logrus"
)

type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

// Send delivers a booking notification. Events without a contact email are
// dropped silently.
func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	if event.ContactEmail == "" {
		return nil
	}
	log.WithFields(log.Fields{
		"to":      event.ContactEmail,
		"event":   event.Type,
		"booking": event.BookingID,
	}).Info("sending booking notification email")
	return nil
}
