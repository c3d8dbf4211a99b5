package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carpool/internal/domain/entities"
)

func testRequest(minute int) entities.RideRequest {
	return entities.RideRequest{
		Pickup: entities.Location{ID: 1, Name: "Airport"},
		Drop:   entities.Location{ID: 1, Name: "Tiger Circle"},
		Date:   time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		Minute: minute,
	}
}

func participant(userID string) entities.Participant {
	return entities.Participant{UserID: userID, Contact: "+91-" + userID, JoinedAt: time.Now()}
}

func TestRideStore_CreateAndGet(t *testing.T) {
	store := NewRideStore(0)
	ctx := context.Background()

	ride, err := store.Create(ctx, testRequest(600), participant("user-a"))
	require.NoError(t, err)
	require.NotEmpty(t, ride.ID)

	got, err := store.GetByID(ctx, ride.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.RideStatusOpen, got.Status)
	require.Len(t, got.Participants, 1)
	assert.Equal(t, "user-a", got.Participants[0].UserID)
}

func TestRideStore_GetByID_NotFound(t *testing.T) {
	store := NewRideStore(0)

	_, err := store.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrRideNotFound)
}

func TestRideStore_TryJoin_FillsAndCloses(t *testing.T) {
	store := NewRideStore(0)
	ctx := context.Background()

	ride, err := store.Create(ctx, testRequest(600), participant("user-0"))
	require.NoError(t, err)

	for i := 1; i < entities.MaxParticipants; i++ {
		joined, err := store.TryJoin(ctx, ride.ID, participant(fmt.Sprintf("user-%d", i)))
		require.NoError(t, err)
		assert.Len(t, joined.Participants, i+1)
	}

	got, err := store.GetByID(ctx, ride.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.RideStatusClosed, got.Status)
	assert.Len(t, got.Participants, entities.MaxParticipants)
}

func TestRideStore_TryJoin_ClosedRideFailsWithoutMutation(t *testing.T) {
	store := NewRideStore(0)
	ctx := context.Background()

	ride, _ := store.Create(ctx, testRequest(600), participant("user-0"))
	for i := 1; i < entities.MaxParticipants; i++ {
		_, err := store.TryJoin(ctx, ride.ID, participant(fmt.Sprintf("user-%d", i)))
		require.NoError(t, err)
	}

	_, err := store.TryJoin(ctx, ride.ID, participant("late-user"))
	assert.ErrorIs(t, err, ErrRideClosed)

	got, _ := store.GetByID(ctx, ride.ID)
	assert.Len(t, got.Participants, entities.MaxParticipants)
	assert.False(t, got.HasParticipant("late-user"))
}

func TestRideStore_TryJoin_DuplicateRejected(t *testing.T) {
	store := NewRideStore(0)
	ctx := context.Background()

	ride, _ := store.Create(ctx, testRequest(600), participant("user-a"))

	_, err := store.TryJoin(ctx, ride.ID, participant("user-a"))
	assert.ErrorIs(t, err, ErrAlreadyJoined)

	got, _ := store.GetByID(ctx, ride.ID)
	assert.Len(t, got.Participants, 1)
}

// TestRideStore_TryJoin_ConcurrentRace is the capacity property: with k free
// seats and N racing joiners, exactly k succeed regardless of interleaving.
func TestRideStore_TryJoin_ConcurrentRace(t *testing.T) {
	const racers = 50

	store := NewRideStore(0)
	ctx := context.Background()

	ride, _ := store.Create(ctx, testRequest(600), participant("creator"))
	freeSeats := entities.MaxParticipants - 1

	var wg sync.WaitGroup
	successes := make(chan string, racers)

	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			userID := fmt.Sprintf("racer-%d", i)
			if _, err := store.TryJoin(ctx, ride.ID, participant(userID)); err == nil {
				successes <- userID
			}
		}(i)
	}
	wg.Wait()
	close(successes)

	var winners []string
	for id := range successes {
		winners = append(winners, id)
	}
	assert.Len(t, winners, freeSeats)

	got, _ := store.GetByID(ctx, ride.ID)
	assert.Len(t, got.Participants, entities.MaxParticipants)
	assert.Equal(t, entities.RideStatusClosed, got.Status)
}

func TestRideStore_OpenRides_CreationOrderOpenOnly(t *testing.T) {
	store := NewRideStore(0)
	ctx := context.Background()

	first, _ := store.Create(ctx, testRequest(600), participant("user-a"))
	second, _ := store.Create(ctx, testRequest(660), participant("user-b"))
	third, _ := store.Create(ctx, testRequest(720), participant("user-c"))

	// Fill the second ride so it closes.
	for i := 0; i < entities.MaxParticipants-1; i++ {
		_, err := store.TryJoin(ctx, second.ID, participant(fmt.Sprintf("filler-%d", i)))
		require.NoError(t, err)
	}

	open, err := store.OpenRides(ctx)
	require.NoError(t, err)
	require.Len(t, open, 2)
	assert.Equal(t, first.ID, open[0].ID)
	assert.Equal(t, third.ID, open[1].ID)
}

func TestRideStore_OpenRides_SnapshotIsACopy(t *testing.T) {
	store := NewRideStore(0)
	ctx := context.Background()

	ride, _ := store.Create(ctx, testRequest(600), participant("user-a"))

	open, _ := store.OpenRides(ctx)
	require.Len(t, open, 1)
	open[0].Participants = append(open[0].Participants, participant("intruder"))

	got, _ := store.GetByID(ctx, ride.ID)
	assert.Len(t, got.Participants, 1)
}

func TestRideStore_ForUser(t *testing.T) {
	store := NewRideStore(0)
	ctx := context.Background()

	mine, _ := store.Create(ctx, testRequest(600), participant("user-a"))
	store.Create(ctx, testRequest(660), participant("user-b"))
	other, _ := store.Create(ctx, testRequest(720), participant("user-c"))
	_, err := store.TryJoin(ctx, other.ID, participant("user-a"))
	require.NoError(t, err)

	rides, err := store.ForUser(ctx, "user-a")
	require.NoError(t, err)
	require.Len(t, rides, 2)
	assert.Equal(t, mine.ID, rides[0].ID)
	assert.Equal(t, other.ID, rides[1].ID)
}

func TestRideStore_RemoveBefore(t *testing.T) {
	store := NewRideStore(0)
	ctx := context.Background()

	past := testRequest(600)
	past.Date = time.Date(2025, 5, 31, 0, 0, 0, 0, time.UTC)
	today := testRequest(600)
	today.Date = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	expired, _ := store.Create(ctx, past, participant("user-a"))
	kept, _ := store.Create(ctx, today, participant("user-b"))

	// "Now" is mid-day on the kept ride's date: the past ride goes, the
	// same-day ride stays.
	store.removeBefore(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	_, err := store.GetByID(ctx, expired.ID)
	assert.ErrorIs(t, err, ErrRideNotFound)

	_, err = store.GetByID(ctx, kept.ID)
	assert.NoError(t, err)
	assert.Equal(t, 1, store.Count(ctx))
}

// TestRideStore_RemoveBefore_WestOfUTCClock pins the sweep to the calendar
// day regardless of the server zone: ride dates are UTC midnights, so a
// same-day ride must survive even when the wall clock sits west of UTC.
func TestRideStore_RemoveBefore_WestOfUTCClock(t *testing.T) {
	store := NewRideStore(0)
	ctx := context.Background()

	sameDay := testRequest(600)
	sameDay.Date = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	ride, _ := store.Create(ctx, sameDay, participant("user-a"))

	// Mid-day June 1st on a UTC-8 clock.
	store.removeBefore(time.Date(2025, 6, 1, 12, 0, 0, 0, time.FixedZone("UTC-8", -8*3600)))

	_, err := store.GetByID(ctx, ride.ID)
	assert.NoError(t, err)
	assert.Equal(t, 1, store.Count(ctx))
}

func TestRideStore_RemoveBefore_ReleasesSweptEntries(t *testing.T) {
	store := NewRideStore(0)
	ctx := context.Background()

	past := testRequest(600)
	past.Date = time.Date(2025, 5, 31, 0, 0, 0, 0, time.UTC)
	today := testRequest(600)
	today.Date = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	store.Create(ctx, past, participant("user-a"))
	store.Create(ctx, today, participant("user-b"))

	store.removeBefore(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	// The compacted slice shares its backing array with the pre-sweep one;
	// the vacated tail slot must no longer pin the swept ride.
	require.Len(t, store.ordered, 1)
	tail := store.ordered[:2]
	assert.Nil(t, tail[1])
}
