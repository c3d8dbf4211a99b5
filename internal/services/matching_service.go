package services

import (
	"context"
	"errors"
	"log"

	"carpool/internal/config"
	"carpool/internal/domain/entities"
	"carpool/internal/repository"
	"carpool/internal/repository/memory"
)

// MatchResult is the outcome of matching one completed request.
type MatchResult struct {
	Ride *entities.Ride
	// Created is true when no compatible open ride existed and a new one
	// was opened with the requester as sole participant.
	Created bool
	// Rejoined is true when the requester was already a participant of the
	// matched ride; the join is treated as an idempotent no-op.
	Rejoined bool
}

// MatchingService groups completed ride requests into shared rides. It never
// mutates a ride directly: candidate selection is a read-only scan, and the
// only mutation path is the store's atomic TryJoin.
type MatchingService struct {
	config              *config.Config
	rideStore           repository.RideStore
	notificationService *NotificationService
}

func NewMatchingService(cfg *config.Config, rideStore repository.RideStore, notificationService *NotificationService) *MatchingService {
	return &MatchingService{
		config:              cfg,
		rideStore:           rideStore,
		notificationService: notificationService,
	}
}

// Match finds a compatible open ride for the request and joins the
// participant to it, or creates a new ride when none fits. Candidates are
// tried in creation order (the store scans in insertion order); losing a
// capacity race to a concurrent join just moves on to the next candidate.
// On a successful join every participant of the ride is notified. Creation
// sends nothing here — the conversation layer confirms directly to the
// creator.
func (s *MatchingService) Match(ctx context.Context, req entities.RideRequest, p entities.Participant) (MatchResult, error) {
	open, err := s.rideStore.OpenRides(ctx)
	if err != nil {
		return MatchResult{}, err
	}

	for _, candidate := range open {
		if !s.compatible(candidate, req) {
			continue
		}

		joined, err := s.rideStore.TryJoin(ctx, candidate.ID, p)
		switch {
		case err == nil:
			log.Printf("[MATCHING] User %s joined ride %s (%d/%d seats)",
				p.UserID, joined.ID, len(joined.Participants), entities.MaxParticipants)
			s.notificationService.NotifyRideMatched(joined)
			return MatchResult{Ride: joined}, nil

		case errors.Is(err, memory.ErrAlreadyJoined):
			// Idempotent: the user re-requested a ride they are in. No
			// participant appended, no fan-out — just re-confirm.
			log.Printf("[MATCHING] User %s already in ride %s", p.UserID, candidate.ID)
			return MatchResult{Ride: candidate, Rejoined: true}, nil

		case errors.Is(err, memory.ErrRideClosed), errors.Is(err, memory.ErrRideFull), errors.Is(err, memory.ErrRideNotFound):
			// Lost the race to a concurrent fill (or a sweep). Not an
			// error for the user; try the next candidate.
			log.Printf("[MATCHING] Ride %s no longer joinable (%v), trying next candidate", candidate.ID, err)
			continue

		default:
			return MatchResult{}, err
		}
	}

	ride, err := s.rideStore.Create(ctx, req, p)
	if err != nil {
		return MatchResult{}, err
	}
	log.Printf("[MATCHING] User %s opened new ride %s for %s %s",
		p.UserID, ride.ID, ride.DateLabel(), ride.TimeLabel())
	return MatchResult{Ride: ride, Created: true}, nil
}

// compatible applies the matching rules: exact pickup and drop identity,
// exact calendar date, and a time difference within the window, boundary
// included — a 30-minute gap matches, a 31-minute gap does not.
func (s *MatchingService) compatible(ride *entities.Ride, req entities.RideRequest) bool {
	if !ride.Pickup.Equal(req.Pickup) || !ride.Drop.Equal(req.Drop) {
		return false
	}
	if !entities.SameDate(ride.Date, req.Date) {
		return false
	}
	diff := ride.Minute - req.Minute
	if diff < 0 {
		diff = -diff
	}
	return diff <= s.config.Matching.WindowMinutes
}
