package entities

import (
	"time"
)

// RideStatus is the lifecycle state of a ride. There are only two states and
// one transition: Open → Closed, taken when the participant list reaches
// capacity. A closed ride never reopens.
type RideStatus string

const (
	RideStatusOpen   RideStatus = "OPEN"
	RideStatusClosed RideStatus = "CLOSED"
)

// MaxParticipants is the fixed seat capacity of a ride.
const MaxParticipants = 4

// Participant is one member of a ride. It is embedded in the ride, not a
// standalone entity; JoinedAt preserves the join order alongside the slice
// ordering.
type Participant struct {
	UserID   string    `json:"user_id"`
	Contact  string    `json:"contact"`
	JoinedAt time.Time `json:"joined_at"`
}

// Ride groups up to MaxParticipants users travelling between the same pickup
// and drop on the same date, within the matching time window.
//
// Invariant: 1 <= len(Participants) <= MaxParticipants, and
// Status == Open implies len(Participants) < MaxParticipants.
//
// All mutation goes through the ride store, which holds the lock that makes
// the capacity check-and-append atomic. Nothing outside the store may append
// to Participants or flip Status.
type Ride struct {
	ID           string        `json:"id"`
	Pickup       Location      `json:"pickup"`
	Drop         Location      `json:"drop"`
	Date         time.Time     `json:"date"`
	Minute       int           `json:"minute"` // departure time as minutes since midnight
	Status       RideStatus    `json:"status"`
	Participants []Participant `json:"participants"`
	CreatedAt    time.Time     `json:"created_at"`
}

// NewRide creates an open ride with the creator as sole participant.
func NewRide(id string, req RideRequest, creator Participant) *Ride {
	return &Ride{
		ID:           id,
		Pickup:       req.Pickup,
		Drop:         req.Drop,
		Date:         req.Date,
		Minute:       req.Minute,
		Status:       RideStatusOpen,
		Participants: []Participant{creator},
		CreatedAt:    time.Now(),
	}
}

// HasCapacity reports whether the ride can take one more participant.
func (r *Ride) HasCapacity() bool {
	return len(r.Participants) < MaxParticipants
}

// HasParticipant reports whether the user is already a member.
func (r *Ride) HasParticipant(userID string) bool {
	for _, p := range r.Participants {
		if p.UserID == userID {
			return true
		}
	}
	return false
}

// TimeLabel formats the departure time as 24-hour HH:MM.
func (r *Ride) TimeLabel() string {
	return FormatMinute(r.Minute)
}

// DateLabel formats the travel date as YYYY-MM-DD.
func (r *Ride) DateLabel() string {
	return r.Date.Format(DateLayout)
}

// Clone returns a deep copy. The store hands out clones from read paths so
// callers can never mutate participants behind the store's lock.
func (r *Ride) Clone() *Ride {
	cp := *r
	cp.Participants = make([]Participant, len(r.Participants))
	copy(cp.Participants, r.Participants)
	return &cp
}
