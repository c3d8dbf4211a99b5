package entities

import "time"

// SessionState is the conversation stage a user's session sits in. The flow
// is cyclic: it returns to the main menu after every completed or abandoned
// request.
//
//	MainMenu → AwaitingPickup → AwaitingDrop → AwaitingDate → AwaitingTime → MainMenu
//
// AwaitingFeedback is entered from the menu's feedback option and also
// returns to MainMenu after one message.
type SessionState string

const (
	StateMainMenu         SessionState = "MAIN_MENU"
	StateAwaitingPickup   SessionState = "AWAITING_PICKUP"
	StateAwaitingDrop     SessionState = "AWAITING_DROP"
	StateAwaitingDate     SessionState = "AWAITING_DATE"
	StateAwaitingTime     SessionState = "AWAITING_TIME"
	StateAwaitingFeedback SessionState = "AWAITING_FEEDBACK"
)

// nextState maps each request-flow state to its successor on valid input.
// Validation failures keep the session where it is; the map is only
// consulted after input is accepted.
var nextState = map[SessionState]SessionState{
	StateMainMenu:       StateAwaitingPickup,
	StateAwaitingPickup: StateAwaitingDrop,
	StateAwaitingDrop:   StateAwaitingDate,
	StateAwaitingDate:   StateAwaitingTime,
	StateAwaitingTime:   StateMainMenu,
}

// Session is one user's conversation state machine. Sessions are created on
// first contact and live for the process lifetime. A session is only ever
// touched by its own user's in-flight turn — the conversation service
// serializes turns per identity — so the struct itself carries no lock.
type Session struct {
	UserID     string
	Contact    string
	State      SessionState
	Draft      Draft
	CreatedAt  time.Time
	LastSeenAt time.Time
}

// NewSession creates a session parked at the main menu.
func NewSession(userID, contact string) *Session {
	now := time.Now()
	return &Session{
		UserID:     userID,
		Contact:    contact,
		State:      StateMainMenu,
		CreatedAt:  now,
		LastSeenAt: now,
	}
}

// Advance moves the session to the next request-flow state. It returns false
// if the current state has no successor (feedback, or an unknown state), in
// which case the session is left untouched.
func (s *Session) Advance() bool {
	next, ok := nextState[s.State]
	if !ok {
		return false
	}
	s.State = next
	return true
}

// Reset abandons the current flow: draft cleared, back to the main menu.
// Used both for normal completion and for recovery after an internal fault.
func (s *Session) Reset() {
	s.Draft.Reset()
	s.State = StateMainMenu
}
