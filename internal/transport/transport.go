// Package transport defines the boundary between the conversation core and
// whatever carries messages to actual users. The core only ever sees the
// Sender interface; delivery failures are reported through the returned
// error and are never fatal to the turn that triggered the send.
package transport

import "log"

// Sender delivers one outbound text message to a user identity.
type Sender interface {
	Send(userID, text string) error
}

// LogFallback wraps a Sender and downgrades delivery failures to log lines.
// Used at the composition root so an offline recipient never surfaces as an
// error inside the core's control flow.
type LogFallback struct {
	Next Sender
}

func (l *LogFallback) Send(userID, text string) error {
	if err := l.Next.Send(userID, text); err != nil {
		log.Printf("[TRANSPORT] Undeliverable message for %s: %v", userID, err)
	}
	return nil
}
