package repository

import (
	"context"

	"carpool/internal/domain/entities"
)

// SessionStore holds one conversation session per user identity.
type SessionStore interface {
	// GetOrCreate returns the user's session, creating it on first contact.
	GetOrCreate(ctx context.Context, userID, contact string) (*entities.Session, error)
	Count(ctx context.Context) int
}

// RideStore owns every ride instance. All participant mutation goes through
// TryJoin; read paths return copies so callers cannot mutate a ride behind
// the store's lock.
type RideStore interface {
	// Create allocates a new open ride with the creator as sole
	// participant. It always succeeds.
	Create(ctx context.Context, req entities.RideRequest, creator entities.Participant) (*entities.Ride, error)

	// TryJoin atomically checks that the ride is open and under capacity,
	// then appends the participant, closing the ride if the append fills
	// the last seat. On any failed precondition it returns one of
	// ErrRideNotFound, ErrRideClosed, ErrRideFull, or ErrAlreadyJoined
	// without mutating anything.
	TryJoin(ctx context.Context, rideID string, p entities.Participant) (*entities.Ride, error)

	// OpenRides returns copies of all open rides in creation order.
	OpenRides(ctx context.Context) ([]*entities.Ride, error)

	// ForUser returns copies of every ride, open or closed, that the user
	// participates in, in creation order.
	ForUser(ctx context.Context, userID string) ([]*entities.Ride, error)

	GetByID(ctx context.Context, id string) (*entities.Ride, error)
	Count(ctx context.Context) int
}
