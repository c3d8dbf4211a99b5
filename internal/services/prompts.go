package services

import (
	"context"
	"fmt"
	"strings"

	"carpool/internal/domain/entities"
)

// Main menu option keys, matched against the raw (trimmed) user input.
const (
	menuKeyFindRide = "1"
	menuKeyMyRides  = "2"
	menuKeyFeedback = "3"
)

const (
	msgBadMenuChoice = "That's not one of the options."

	msgUnknownPickup = "Please pick one of the listed pickup points by its number."
	msgUnknownDrop   = "Please pick one of the listed destinations by its number."

	msgDatePrompt    = "What date are you travelling? (YYYY-MM-DD)"
	msgBadDateFormat = "I couldn't read that date. Please use YYYY-MM-DD, e.g. 2025-06-01."
	msgDateInPast    = "That date has already passed. Please enter today's date or a later one."

	msgTimePrompt    = "What time do you want to leave? (24-hour HH:MM)"
	msgBadTimeFormat = "I couldn't read that time. Please use 24-hour HH:MM, e.g. 14:30."

	msgFeedbackPrompt = "Tell us what you think — send your feedback as one message."
	msgFeedbackThanks = "Thanks, noted! 🙏"

	msgInternalError = "Sorry, something went wrong on our side. Please try again."
)

// mainMenu renders the top-level menu.
func (s *ConversationService) mainMenu() string {
	return strings.Join([]string{
		"What would you like to do?",
		menuKeyFindRide + ". Find or join a ride",
		menuKeyMyRides + ". My rides",
		menuKeyFeedback + ". Leave feedback",
	}, "\n")
}

// renderMyRides lists every ride the user is a participant of.
func (s *ConversationService) renderMyRides(ctx context.Context, userID string) string {
	rides, err := s.rideStore.ForUser(ctx, userID)
	if err != nil || len(rides) == 0 {
		return "You have no rides yet. Choose \"" + menuKeyFindRide + "\" to find one."
	}

	var b strings.Builder
	b.WriteString("Your rides:")
	for _, ride := range rides {
		fmt.Fprintf(&b, "\n• %s → %s on %s at %s (%d/%d seats)",
			ride.Pickup.Label(), ride.Drop.Label(),
			ride.DateLabel(), ride.TimeLabel(),
			len(ride.Participants), entities.MaxParticipants)
	}
	return b.String()
}

func renderRideOpened(ride *entities.Ride) string {
	return fmt.Sprintf(
		"🚗 No matching ride yet, so we opened one for you:\n%s → %s on %s at %s.\nWe'll notify you as soon as someone joins.",
		ride.Pickup.Label(), ride.Drop.Label(), ride.DateLabel(), ride.TimeLabel())
}

func renderRideJoined(ride *entities.Ride) string {
	return fmt.Sprintf(
		"🎉 You're in! Matched with %d co-rider(s) for %s → %s on %s at %s.",
		len(ride.Participants)-1,
		ride.Pickup.Label(), ride.Drop.Label(), ride.DateLabel(), ride.TimeLabel())
}

func renderAlreadyInRide(ride *entities.Ride) string {
	return fmt.Sprintf(
		"You're already on this ride: %s → %s on %s at %s (%d/%d seats).",
		ride.Pickup.Label(), ride.Drop.Label(), ride.DateLabel(), ride.TimeLabel(),
		len(ride.Participants), entities.MaxParticipants)
}
