package services

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// FeedbackEntry is one piece of free-text feedback left from the menu.
type FeedbackEntry struct {
	ID        string
	UserID    string
	Text      string
	CreatedAt time.Time
}

// FeedbackLog collects feedback in memory for the process lifetime.
type FeedbackLog struct {
	mu      sync.Mutex
	entries []FeedbackEntry
}

func NewFeedbackLog() *FeedbackLog {
	return &FeedbackLog{}
}

// Record stores one feedback message.
func (f *FeedbackLog) Record(userID, text string) FeedbackEntry {
	entry := FeedbackEntry{
		ID:        uuid.New().String(),
		UserID:    userID,
		Text:      text,
		CreatedAt: time.Now(),
	}

	f.mu.Lock()
	f.entries = append(f.entries, entry)
	f.mu.Unlock()

	log.Printf("[FEEDBACK] %s from %s", entry.ID, userID)
	return entry
}

// All returns a snapshot of every entry in arrival order.
func (f *FeedbackLog) All() []FeedbackEntry {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]FeedbackEntry, len(f.entries))
	copy(out, f.entries)
	return out
}
