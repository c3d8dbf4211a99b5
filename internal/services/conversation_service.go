package services

import (
	"context"
	"log"
	"runtime/debug"
	"strings"
	"time"

	"carpool/internal/domain/entities"
	"carpool/internal/registry"
	"carpool/internal/repository"
	"carpool/internal/repository/memory"
	"carpool/internal/transport"
)

// ConversationService runs the per-user conversation state machine. It is
// the core's sole entry point: the transport hands every inbound message to
// HandleInbound, and every user-visible response goes back out through the
// Sender — the transport never branches on a return value.
type ConversationService struct {
	registry        *registry.Registry
	sessionStore    repository.SessionStore
	rideStore       repository.RideStore
	matchingService *MatchingService
	feedbackLog     *FeedbackLog
	sender          transport.Sender

	// turns serializes message processing per user identity so concurrent
	// or reordered deliveries cannot interleave one session's transitions.
	turns *memory.KeyedMutex

	// now is the clock used for date validation, injectable in tests.
	now func() time.Time
}

func NewConversationService(
	reg *registry.Registry,
	sessionStore repository.SessionStore,
	rideStore repository.RideStore,
	matchingService *MatchingService,
	feedbackLog *FeedbackLog,
	sender transport.Sender,
) *ConversationService {
	return &ConversationService{
		registry:        reg,
		sessionStore:    sessionStore,
		rideStore:       rideStore,
		matchingService: matchingService,
		feedbackLog:     feedbackLog,
		sender:          sender,
		turns:           memory.NewKeyedMutex(),
		now:             time.Now,
	}
}

// HandleInbound processes one user turn. Any panic while handling the turn
// resets the session to the main menu and apologizes; the stores stay valid
// and the user can immediately start a fresh request.
func (s *ConversationService) HandleInbound(ctx context.Context, userID, contact, text string) {
	s.turns.Lock(userID)
	defer s.turns.Unlock(userID)

	session, err := s.sessionStore.GetOrCreate(ctx, userID, contact)
	if err != nil {
		log.Printf("[CONVERSATION] Session lookup for %s failed: %v", userID, err)
		s.reply(userID, msgInternalError)
		return
	}

	defer func() {
		if r := recover(); r != nil {
			log.Printf("[CONVERSATION] Panic handling turn for %s: %v\n%s", userID, r, debug.Stack())
			session.Reset()
			s.reply(userID, msgInternalError)
		}
	}()

	s.handleTurn(ctx, session, strings.TrimSpace(text))
}

// handleTurn dispatches on the session's state. Each state either accepts
// the input and advances, or re-prompts with a reason — input is never
// silently dropped.
func (s *ConversationService) handleTurn(ctx context.Context, session *entities.Session, text string) {
	switch session.State {
	case entities.StateMainMenu:
		s.handleMainMenu(ctx, session, text)
	case entities.StateAwaitingPickup:
		s.handlePickup(session, text)
	case entities.StateAwaitingDrop:
		s.handleDrop(session, text)
	case entities.StateAwaitingDate:
		s.handleDate(session, text)
	case entities.StateAwaitingTime:
		s.handleTime(ctx, session, text)
	case entities.StateAwaitingFeedback:
		s.handleFeedback(session, text)
	default:
		// A state this build does not know. Recover the session rather
		// than wedge it forever.
		log.Printf("[CONVERSATION] User %s in unknown state %q, resetting", session.UserID, session.State)
		session.Reset()
		s.reply(session.UserID, s.mainMenu())
	}
}

func (s *ConversationService) handleMainMenu(ctx context.Context, session *entities.Session, text string) {
	switch text {
	case menuKeyFindRide:
		session.Draft.Reset()
		session.Advance()
		s.reply(session.UserID, s.registry.Pickups.Menu())
	case menuKeyMyRides:
		s.reply(session.UserID, s.renderMyRides(ctx, session.UserID))
	case menuKeyFeedback:
		session.State = entities.StateAwaitingFeedback
		s.reply(session.UserID, msgFeedbackPrompt)
	default:
		s.reply(session.UserID, msgBadMenuChoice+"\n\n"+s.mainMenu())
	}
}

func (s *ConversationService) handlePickup(session *entities.Session, text string) {
	loc, ok := s.registry.Pickups.Lookup(text)
	if !ok {
		s.reply(session.UserID, msgUnknownPickup+"\n\n"+s.registry.Pickups.Menu())
		return
	}
	session.Draft.Pickup = &loc
	session.Advance()
	s.reply(session.UserID, s.registry.Drops.Menu())
}

func (s *ConversationService) handleDrop(session *entities.Session, text string) {
	loc, ok := s.registry.Drops.Lookup(text)
	if !ok {
		s.reply(session.UserID, msgUnknownDrop+"\n\n"+s.registry.Drops.Menu())
		return
	}
	session.Draft.Drop = &loc
	session.Advance()
	s.reply(session.UserID, msgDatePrompt)
}

func (s *ConversationService) handleDate(session *entities.Session, text string) {
	date, err := entities.ParseDate(text)
	if err != nil {
		s.reply(session.UserID, msgBadDateFormat)
		return
	}

	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if date.Before(today) {
		s.reply(session.UserID, msgDateInPast)
		return
	}

	session.Draft.Date = &date
	session.Advance()
	s.reply(session.UserID, msgTimePrompt)
}

// handleTime accepts the final field and runs matching synchronously. The
// session returns to the main menu whatever the outcome.
func (s *ConversationService) handleTime(ctx context.Context, session *entities.Session, text string) {
	minute, err := entities.ParseMinute(text)
	if err != nil {
		s.reply(session.UserID, msgBadTimeFormat)
		return
	}

	session.Draft.Minute = &minute
	req := session.Draft.Complete()
	participant := entities.Participant{
		UserID:   session.UserID,
		Contact:  session.Contact,
		JoinedAt: s.now(),
	}

	result, err := s.matchingService.Match(ctx, req, participant)
	session.Reset()
	if err != nil {
		log.Printf("[CONVERSATION] Matching for %s failed: %v", session.UserID, err)
		s.reply(session.UserID, msgInternalError)
		return
	}

	switch {
	case result.Created:
		s.reply(session.UserID, renderRideOpened(result.Ride))
	case result.Rejoined:
		s.reply(session.UserID, renderAlreadyInRide(result.Ride))
	default:
		// Joined an existing ride; the roster update with co-rider
		// contacts arrives via the notification fan-out.
		s.reply(session.UserID, renderRideJoined(result.Ride))
	}
}

func (s *ConversationService) handleFeedback(session *entities.Session, text string) {
	s.feedbackLog.Record(session.UserID, text)
	session.Reset()
	s.reply(session.UserID, msgFeedbackThanks)
}

// reply sends one outbound message. Delivery failure is logged and dropped:
// a user who cannot be reached must not derail the turn that produced the
// message.
func (s *ConversationService) reply(userID, text string) {
	if err := s.sender.Send(userID, text); err != nil {
		log.Printf("[CONVERSATION] Reply to %s failed: %v", userID, err)
	}
}
