// Package utils provides shared helpers used across the application.
package utils

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// NewRideID returns a ULID for a new ride. ULIDs sort lexicographically by
// creation time, so iterating rides in ID order is iterating them in
// creation order — the matching tie-break relies on that. The monotonic
// entropy source keeps IDs strictly increasing even within one millisecond.
func NewRideID() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

// NewDeliveryID returns a random UUID used to correlate one outbound
// notification delivery across log lines.
func NewDeliveryID() string {
	return uuid.New().String()
}
