package memory

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"carpool/internal/domain/entities"
	"carpool/pkg/utils"
)

var (
	ErrRideNotFound  = errors.New("ride not found")
	ErrRideClosed    = errors.New("ride is closed")
	ErrRideFull      = errors.New("ride is at capacity")
	ErrAlreadyJoined = errors.New("user already joined this ride")
)

// RideStore keeps all rides in memory. A map serves lookups by ID and an
// insertion-ordered slice serves scans, so OpenRides iterates rides in
// creation order — the matching engine's documented tie-break.
//
// The single mutex makes TryJoin's check-then-append atomic across the whole
// store. That is the one operation where two users racing for the last seat
// could otherwise push a ride past capacity.
type RideStore struct {
	mu      sync.RWMutex
	rides   map[string]*entities.Ride
	ordered []*entities.Ride

	sweepInterval time.Duration
	stop          chan struct{}
	stopOnce      sync.Once
}

// NewRideStore creates the store. If sweepInterval is positive, a background
// goroutine periodically drops rides dated before the current day; such
// rides can never match again because request dates always validate as
// today or later. Call Stop during shutdown to end the sweeper.
func NewRideStore(sweepInterval time.Duration) *RideStore {
	s := &RideStore{
		rides:         make(map[string]*entities.Ride),
		sweepInterval: sweepInterval,
		stop:          make(chan struct{}),
	}
	if sweepInterval > 0 {
		go s.sweepExpired()
	}
	return s
}

func (s *RideStore) Create(ctx context.Context, req entities.RideRequest, creator entities.Participant) (*entities.Ride, error) {
	ride := entities.NewRide(utils.NewRideID(), req, creator)

	s.mu.Lock()
	s.rides[ride.ID] = ride
	s.ordered = append(s.ordered, ride)
	s.mu.Unlock()

	return ride.Clone(), nil
}

// TryJoin is the single atomic check-and-append. Every precondition failure
// returns a sentinel error with no mutation; on success the returned ride is
// a copy reflecting the new participant list.
func (s *RideStore) TryJoin(ctx context.Context, rideID string, p entities.Participant) (*entities.Ride, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ride, exists := s.rides[rideID]
	if !exists {
		return nil, ErrRideNotFound
	}
	if ride.Status == entities.RideStatusClosed {
		return nil, ErrRideClosed
	}
	if ride.HasParticipant(p.UserID) {
		return nil, ErrAlreadyJoined
	}
	if !ride.HasCapacity() {
		// Unreachable while the open⇒capacity invariant holds, but kept as
		// an independent guard so the invariant cannot be broken from here.
		return nil, ErrRideFull
	}

	ride.Participants = append(ride.Participants, p)
	if !ride.HasCapacity() {
		ride.Status = entities.RideStatusClosed
	}

	return ride.Clone(), nil
}

// OpenRides returns copies of all open rides in creation order.
func (s *RideStore) OpenRides(ctx context.Context) ([]*entities.Ride, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*entities.Ride
	for _, ride := range s.ordered {
		if ride.Status == entities.RideStatusOpen {
			out = append(out, ride.Clone())
		}
	}
	return out, nil
}

// ForUser returns every ride the user is a participant of. An O(n) scan —
// fine at the expected store sizes.
func (s *RideStore) ForUser(ctx context.Context, userID string) ([]*entities.Ride, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*entities.Ride
	for _, ride := range s.ordered {
		if ride.HasParticipant(userID) {
			out = append(out, ride.Clone())
		}
	}
	return out, nil
}

func (s *RideStore) GetByID(ctx context.Context, id string) (*entities.Ride, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ride, exists := s.rides[id]
	if !exists {
		return nil, ErrRideNotFound
	}
	return ride.Clone(), nil
}

func (s *RideStore) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rides)
}

// sweepExpired periodically removes rides whose travel date has passed.
func (s *RideStore) sweepExpired() {
	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.removeBefore(time.Now())
		case <-s.stop:
			return
		}
	}
}

// removeBefore drops every ride dated strictly before now's calendar day.
// Ride dates are parsed as UTC midnights, so "today" is anchored in UTC too;
// building it in the server's zone would sweep still-matchable same-day
// rides on any clock west of UTC.
func (s *RideStore) removeBefore(now time.Time) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.ordered[:0]
	removed := 0
	for _, ride := range s.ordered {
		if ride.Date.Before(today) {
			delete(s.rides, ride.ID)
			removed++
			continue
		}
		kept = append(kept, ride)
	}
	// Clear the tail of the shared backing array so swept rides don't stay
	// reachable through it.
	for i := len(kept); i < len(s.ordered); i++ {
		s.ordered[i] = nil
	}
	s.ordered = kept

	if removed > 0 {
		log.Printf("[STORE] Swept %d past-dated rides, %d remain", removed, len(s.ordered))
	}
}

// Stop ends the background sweeper. Safe to call more than once.
func (s *RideStore) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
}
