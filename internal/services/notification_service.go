package services

import (
	"fmt"
	"log"
	"strings"

	"carpool/internal/domain/entities"
	"carpool/internal/transport"
	"carpool/pkg/utils"
)

// NotificationService fans a ride update out to every participant. Each
// delivery runs on its own goroutine with no shared mutable state, so one
// slow or failing recipient never delays or aborts the others, and the
// caller returns immediately — dispatch must never run behind a store lock.
type NotificationService struct {
	sender transport.Sender
}

func NewNotificationService(sender transport.Sender) *NotificationService {
	return &NotificationService{sender: sender}
}

// NotifyRideMatched tells every current participant, old and new, that the
// ride's roster changed. Fire and forget: failures are logged per recipient.
func (s *NotificationService) NotifyRideMatched(ride *entities.Ride) {
	text := s.renderRideUpdate(ride)

	for _, p := range ride.Participants {
		p := p
		deliveryID := utils.NewDeliveryID()
		go func() {
			if err := s.sender.Send(p.UserID, text); err != nil {
				log.Printf("[NOTIFY] Delivery %s to %s failed: %v", deliveryID, p.UserID, err)
				return
			}
			log.Printf("[NOTIFY] Delivery %s to %s for ride %s", deliveryID, p.UserID, ride.ID)
		}()
	}
}

// renderRideUpdate builds the shared-ride summary every participant
// receives: route, date, time, seat count, and everyone's contact handle.
func (s *NotificationService) renderRideUpdate(ride *entities.Ride) string {
	var b strings.Builder

	fmt.Fprintf(&b, "🚗 Ride update: %s → %s\n", ride.Pickup.Label(), ride.Drop.Label())
	fmt.Fprintf(&b, "📅 %s at %s\n", ride.DateLabel(), ride.TimeLabel())
	fmt.Fprintf(&b, "Seats filled: %d/%d\n", len(ride.Participants), entities.MaxParticipants)
	b.WriteString("Your co-riders:")
	for _, p := range ride.Participants {
		fmt.Fprintf(&b, "\n• %s", p.Contact)
	}
	return b.String()
}
